package ledger

import (
	"errors"
	"testing"

	"vacanza-be/internal/money"
)

// applyPlan replays the transfers against the balances and returns the
// remaining position per member.
func applyPlan(balances []NetBalance, plan []Transfer) map[int64]money.Cents {
	remaining := make(map[int64]money.Cents, len(balances))
	for _, b := range balances {
		remaining[b.MemberID] = b.Balance
	}
	for _, tr := range plan {
		remaining[tr.FromMemberID] += tr.Amount
		remaining[tr.ToMemberID] -= tr.Amount
	}
	return remaining
}

func TestPlanSettlementExample(t *testing.T) {
	// Anna is owed 20, Bruno and Carla owe 10 each.
	balances := []NetBalance{
		{MemberID: 1, Balance: 2000},
		{MemberID: 2, Balance: -1000},
		{MemberID: 3, Balance: -1000},
	}

	plan, err := PlanSettlement(balances)
	if err != nil {
		t.Fatalf("PlanSettlement failed: %v", err)
	}
	if len(plan) != 2 {
		t.Fatalf("got %d transfers, want 2", len(plan))
	}
	for _, tr := range plan {
		if tr.ToMemberID != 1 {
			t.Errorf("transfer to member %d, want 1", tr.ToMemberID)
		}
		if tr.Amount != 1000 {
			t.Errorf("transfer amount = %d, want 1000", tr.Amount)
		}
	}
}

func TestPlanSettlementZeroesBalances(t *testing.T) {
	tests := []struct {
		name     string
		balances []NetBalance
	}{
		{
			name: "two parties",
			balances: []NetBalance{
				{MemberID: 1, Balance: 500},
				{MemberID: 2, Balance: -500},
			},
		},
		{
			name: "chain of debtors and creditors",
			balances: []NetBalance{
				{MemberID: 1, Balance: 7000},
				{MemberID: 2, Balance: 1500},
				{MemberID: 3, Balance: -4000},
				{MemberID: 4, Balance: -2500},
				{MemberID: 5, Balance: -2000},
			},
		},
		{
			name: "one cent residue ignored",
			balances: []NetBalance{
				{MemberID: 1, Balance: 1001},
				{MemberID: 2, Balance: -1000},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := PlanSettlement(tt.balances)
			if err != nil {
				t.Fatalf("PlanSettlement failed: %v", err)
			}

			remaining := applyPlan(tt.balances, plan)
			for id, bal := range remaining {
				if bal.Abs() > epsilon {
					t.Errorf("member %d left with balance %d after plan", id, bal)
				}
			}

			// Transaction bound: at most n-1 transfers for n unsettled members.
			unsettled := 0
			for _, b := range tt.balances {
				if b.Balance.Abs() > epsilon {
					unsettled++
				}
			}
			if unsettled > 0 && len(plan) > unsettled-1 {
				t.Errorf("plan has %d transfers for %d unsettled members", len(plan), unsettled)
			}
		})
	}
}

func TestPlanSettlementAlreadySettled(t *testing.T) {
	plan, err := PlanSettlement([]NetBalance{
		{MemberID: 1, Balance: 0},
		{MemberID: 2, Balance: 1},
		{MemberID: 3, Balance: -1},
	})
	if err != nil {
		t.Fatalf("PlanSettlement failed: %v", err)
	}
	if len(plan) != 0 {
		t.Errorf("got %d transfers for settled group, want 0", len(plan))
	}
}

func TestPlanSettlementRejectsNonReconcilingBalances(t *testing.T) {
	_, err := PlanSettlement([]NetBalance{
		{MemberID: 1, Balance: 1000},
		{MemberID: 2, Balance: -500},
	})
	if !errors.Is(err, ErrBalancesDoNotReconcile) {
		t.Fatalf("PlanSettlement error = %v, want ErrBalancesDoNotReconcile", err)
	}
}

func TestPlanSettlementDeterministic(t *testing.T) {
	balances := []NetBalance{
		{MemberID: 4, Balance: -1500},
		{MemberID: 2, Balance: 1500},
		{MemberID: 1, Balance: 1500},
		{MemberID: 3, Balance: -1500},
	}
	first, err := PlanSettlement(balances)
	if err != nil {
		t.Fatalf("PlanSettlement failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := PlanSettlement([]NetBalance{
			{MemberID: 4, Balance: -1500},
			{MemberID: 2, Balance: 1500},
			{MemberID: 1, Balance: 1500},
			{MemberID: 3, Balance: -1500},
		})
		if err != nil {
			t.Fatalf("PlanSettlement failed: %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("plan length changed between runs")
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("run %d transfer %d = %+v, want %+v", i, j, again[j], first[j])
			}
		}
	}
}
