package ledger

import (
	"testing"

	"vacanza-be/internal/money"
)

func members3() []Member {
	return []Member{{ID: 1, Name: "Anna"}, {ID: 2, Name: "Bruno"}, {ID: 3, Name: "Carla"}}
}

// Anna pays 30.00, split equally three ways: Anna +20, Bruno -10, Carla -10.
func TestComputeBalancesExample(t *testing.T) {
	expenses := []Expense{
		{
			ActivityID: 1,
			PaidShares: []PaidShare{{MemberID: 1, Paid: 3000}},
			OwedShares: EqualSplit(3000, []int64{1, 2, 3}),
		},
	}

	balances := ComputeBalances(expenses, members3())
	want := map[int64]money.Cents{1: 2000, 2: -1000, 3: -1000}
	if len(balances) != 3 {
		t.Fatalf("got %d balances, want 3", len(balances))
	}
	for _, b := range balances {
		if b.Balance != want[b.MemberID] {
			t.Errorf("member %d balance = %d, want %d", b.MemberID, b.Balance, want[b.MemberID])
		}
	}
}

func TestComputeBalancesInactiveMembersAppear(t *testing.T) {
	expenses := []Expense{
		{
			PaidShares: []PaidShare{{MemberID: 1, Paid: 500}},
			OwedShares: []OwedShare{{MemberID: 2, Owed: 500}},
		},
	}

	balances := ComputeBalances(expenses, members3())
	if len(balances) != 3 {
		t.Fatalf("got %d balances, want 3 (inactive members must appear)", len(balances))
	}
	for _, b := range balances {
		if b.MemberID == 3 && b.Balance != 0 {
			t.Errorf("inactive member balance = %d, want 0", b.Balance)
		}
	}
}

// Member ids that appear only in expense history (no longer on the
// roster) keep their positions; otherwise the zero-sum property breaks.
func TestComputeBalancesKeepsShareOnlyMembers(t *testing.T) {
	expenses := []Expense{
		{
			PaidShares: []PaidShare{{MemberID: 1, Paid: 3000}},
			OwedShares: EqualSplit(3000, []int64{1, 2, 4}),
		},
	}

	// Member 4 is not on the roster anymore.
	balances := ComputeBalances(expenses, members3())
	if len(balances) != 4 {
		t.Fatalf("got %d balances, want 4 (share-only member must appear)", len(balances))
	}

	var sum money.Cents
	found := false
	for _, b := range balances {
		sum += b.Balance
		if b.MemberID == 4 {
			found = true
			if b.Balance != -1000 {
				t.Errorf("departed member balance = %d, want -1000", b.Balance)
			}
		}
	}
	if !found {
		t.Fatal("member 4 missing from balances")
	}
	if sum != 0 {
		t.Errorf("balances sum to %d, want 0", sum)
	}
}

// Money cannot be created or destroyed by recording balanced expenses.
func TestComputeBalancesZeroSum(t *testing.T) {
	tests := []struct {
		name     string
		expenses []Expense
	}{
		{
			name:     "no expenses",
			expenses: nil,
		},
		{
			name: "several balanced expenses",
			expenses: []Expense{
				{
					PaidShares: []PaidShare{{MemberID: 1, Paid: 1000}},
					OwedShares: EqualSplit(1000, []int64{1, 2, 3}),
				},
				{
					PaidShares: []PaidShare{{MemberID: 2, Paid: 2500}, {MemberID: 3, Paid: 500}},
					OwedShares: EqualSplit(3000, []int64{2, 3}),
				},
				{
					PaidShares: []PaidShare{{MemberID: 3, Paid: 777}},
					OwedShares: []OwedShare{{MemberID: 1, Owed: 377}, {MemberID: 2, Owed: 400}},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sum money.Cents
			for _, b := range ComputeBalances(tt.expenses, members3()) {
				sum += b.Balance
			}
			if sum != 0 {
				t.Errorf("balances sum to %d, want 0", sum)
			}
		})
	}
}

func TestComputeBalancesIdempotent(t *testing.T) {
	expenses := []Expense{
		{
			PaidShares: []PaidShare{{MemberID: 1, Paid: 1001}},
			OwedShares: EqualSplit(1001, []int64{1, 2, 3}),
		},
	}

	first := ComputeBalances(expenses, members3())
	second := ComputeBalances(expenses, members3())
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("entry %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestComputeBalancesSortedByMemberID(t *testing.T) {
	members := []Member{{ID: 9}, {ID: 2}, {ID: 5}}
	balances := ComputeBalances(nil, members)
	for i := 1; i < len(balances); i++ {
		if balances[i-1].MemberID >= balances[i].MemberID {
			t.Fatalf("balances not sorted by member id: %+v", balances)
		}
	}
}
