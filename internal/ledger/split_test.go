package ledger

import (
	"errors"
	"testing"

	"vacanza-be/internal/money"
)

func TestEqualSplit(t *testing.T) {
	tests := []struct {
		name      string
		total     money.Cents
		memberIDs []int64
		want      []money.Cents
	}{
		{
			name:      "divides evenly",
			total:     3000,
			memberIDs: []int64{1, 2, 3},
			want:      []money.Cents{1000, 1000, 1000},
		},
		{
			name:      "last member absorbs remainder",
			total:     1000,
			memberIDs: []int64{1, 2, 3},
			want:      []money.Cents{333, 333, 334},
		},
		{
			name:      "single member takes everything",
			total:     999,
			memberIDs: []int64{7},
			want:      []money.Cents{999},
		},
		{
			name:      "two-cent remainder",
			total:     200,
			memberIDs: []int64{1, 2, 3},
			want:      []money.Cents{66, 66, 68},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares := EqualSplit(tt.total, tt.memberIDs)
			if len(shares) != len(tt.want) {
				t.Fatalf("got %d shares, want %d", len(shares), len(tt.want))
			}
			for i, s := range shares {
				if s.MemberID != tt.memberIDs[i] {
					t.Errorf("share %d member = %d, want %d", i, s.MemberID, tt.memberIDs[i])
				}
				if s.Owed != tt.want[i] {
					t.Errorf("share %d owed = %d, want %d", i, s.Owed, tt.want[i])
				}
			}
		})
	}
}

// Shares must sum exactly to the total for any member count: no rounding
// leakage across members.
func TestEqualSplitExactness(t *testing.T) {
	totals := []money.Cents{1000, 999, 1, 100000, 12345}
	for n := 1; n <= 50; n++ {
		ids := make([]int64, n)
		for i := range ids {
			ids[i] = int64(i + 1)
		}
		for _, total := range totals {
			var sum money.Cents
			for _, s := range EqualSplit(total, ids) {
				sum += s.Owed
			}
			if sum != total {
				t.Fatalf("n=%d total=%d: shares sum to %d", n, total, sum)
			}
		}
	}
}

func TestEqualSplitDeterministic(t *testing.T) {
	ids := []int64{5, 3, 9, 1}
	first := EqualSplit(1001, ids)
	for i := 0; i < 10; i++ {
		again := EqualSplit(1001, ids)
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("run %d share %d = %+v, want %+v", i, j, again[j], first[j])
			}
		}
	}
}

func TestCustomSplit(t *testing.T) {
	owed := CustomSplit([]ShareAmount{
		{MemberID: 1, Amount: 700},
		{MemberID: 2, Amount: 300},
	})
	if len(owed) != 2 {
		t.Fatalf("got %d shares, want 2", len(owed))
	}
	if owed[0].Owed != 700 || owed[1].Owed != 300 {
		t.Errorf("amounts not preserved verbatim: %+v", owed)
	}
}

func TestValidate(t *testing.T) {
	members := []int64{1, 2, 3}

	tests := []struct {
		name    string
		paid    []PaidShare
		owed    []OwedShare
		wantErr error
	}{
		{
			name:    "balanced expense passes",
			paid:    []PaidShare{{MemberID: 1, Paid: 3000}},
			owed:    EqualSplit(3000, members),
			wantErr: nil,
		},
		{
			name:    "one cent difference is tolerated",
			paid:    []PaidShare{{MemberID: 1, Paid: 1000}},
			owed:    []OwedShare{{MemberID: 2, Owed: 999}},
			wantErr: nil,
		},
		{
			name:    "unbalanced by more than a cent",
			paid:    []PaidShare{{MemberID: 1, Paid: 2000}},
			owed:    []OwedShare{{MemberID: 2, Owed: 1900}},
			wantErr: ErrUnbalanced,
		},
		{
			name:    "no payers",
			paid:    nil,
			owed:    []OwedShare{{MemberID: 2, Owed: 100}},
			wantErr: ErrNoPayers,
		},
		{
			name:    "all-zero payers",
			paid:    []PaidShare{{MemberID: 1, Paid: 0}, {MemberID: 2, Paid: 0}},
			owed:    []OwedShare{{MemberID: 2, Owed: 100}},
			wantErr: ErrNoPayers,
		},
		{
			name:    "no owers",
			paid:    []PaidShare{{MemberID: 1, Paid: 100}},
			owed:    nil,
			wantErr: ErrNoOwers,
		},
		{
			// Reconciles arithmetically (1000 - 500 == 500) but would
			// credit member 2 money through the expense.
			name:    "negative owed share",
			paid:    []PaidShare{{MemberID: 1, Paid: 500}},
			owed:    []OwedShare{{MemberID: 1, Owed: 1000}, {MemberID: 2, Owed: -500}},
			wantErr: ErrNegativeShare,
		},
		{
			name:    "negative paid share",
			paid:    []PaidShare{{MemberID: 1, Paid: 1000}, {MemberID: 2, Paid: -500}},
			owed:    []OwedShare{{MemberID: 3, Owed: 500}},
			wantErr: ErrNegativeShare,
		},
		{
			name:    "payer outside group",
			paid:    []PaidShare{{MemberID: 99, Paid: 100}},
			owed:    []OwedShare{{MemberID: 1, Owed: 100}},
			wantErr: ErrUnknownMember,
		},
		{
			name:    "ower outside group",
			paid:    []PaidShare{{MemberID: 1, Paid: 100}},
			owed:    []OwedShare{{MemberID: 42, Owed: 100}},
			wantErr: ErrUnknownMember,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.paid, tt.owed, members)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewExpenseMarksPayers(t *testing.T) {
	members := []int64{1, 2, 3}
	paid := []PaidShare{{MemberID: 1, Paid: 3000}}
	owed := EqualSplit(3000, members)

	exp, err := NewExpense(10, "dinner", "EUR", paid, owed, members)
	if err != nil {
		t.Fatalf("NewExpense failed: %v", err)
	}
	if exp.ActivityID != 10 || exp.Currency != "EUR" {
		t.Errorf("expense fields not carried: %+v", exp)
	}
	for _, o := range exp.OwedShares {
		wantPayer := o.MemberID == 1
		if o.IsPayer != wantPayer {
			t.Errorf("member %d IsPayer = %v, want %v", o.MemberID, o.IsPayer, wantPayer)
		}
	}
}
