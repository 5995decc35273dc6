package ledger

import (
	"sort"

	"vacanza-be/internal/money"
)

// Member identifies a group member for balance computation.
type Member struct {
	ID   int64
	Name string
}

// NetBalance is one member's position across a group's expense history.
// Positive = the group owes them money, negative = they owe the group.
type NetBalance struct {
	MemberID int64
	Balance  money.Cents
}

// ComputeBalances computes each member's net balance from the full set of
// a group's expenses: total paid minus total owed.
//
// Every group member gets an entry, so members with no expense activity
// appear with balance 0. Member ids that appear only in shares are kept
// too; dropping them would break the zero-sum property whenever history
// references a member missing from the current roster. The result is
// sorted by member id ascending for deterministic display and testing.
func ComputeBalances(expenses []Expense, members []Member) []NetBalance {
	balances := make(map[int64]money.Cents, len(members))
	for _, m := range members {
		balances[m.ID] = 0
	}

	for _, e := range expenses {
		for _, p := range e.PaidShares {
			balances[p.MemberID] += p.Paid
		}
		for _, o := range e.OwedShares {
			balances[o.MemberID] -= o.Owed
		}
	}

	result := make([]NetBalance, 0, len(balances))
	for id, bal := range balances {
		result = append(result, NetBalance{MemberID: id, Balance: bal})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].MemberID < result[j].MemberID })
	return result
}
