package ledger

import (
	"fmt"
	"sort"

	"vacanza-be/internal/money"
)

// Transfer is a suggested payment that reduces outstanding balances.
type Transfer struct {
	FromMemberID int64
	ToMemberID   int64
	Amount       money.Cents
}

// epsilon is the balance magnitude below which a member counts as settled.
const epsilon = Tolerance

// PlanSettlement turns net balances into a list of transfers that zeroes
// them out, using greedy largest-debtor-to-largest-creditor matching.
//
// The plan has at most n-1 transfers for n unsettled members. It is not
// guaranteed globally minimal for every balance distribution; the goal is
// "few transactions", not provably optimal partitioning.
//
// If the balances do not sum to ~0 the ledger is inconsistent upstream and
// PlanSettlement returns ErrBalancesDoNotReconcile instead of a plan.
func PlanSettlement(balances []NetBalance) ([]Transfer, error) {
	var sum money.Cents
	for _, b := range balances {
		sum += b.Balance
	}
	if sum.Abs() > epsilon {
		return nil, fmt.Errorf("%w: off by %s", ErrBalancesDoNotReconcile, sum)
	}

	var creditors, debtors []NetBalance
	for _, b := range balances {
		switch {
		case b.Balance > epsilon:
			creditors = append(creditors, b)
		case b.Balance < -epsilon:
			debtors = append(debtors, b)
		}
	}

	// Largest creditor first, most negative debtor first; member id breaks
	// ties so the plan is deterministic.
	sort.Slice(creditors, func(i, j int) bool {
		if creditors[i].Balance != creditors[j].Balance {
			return creditors[i].Balance > creditors[j].Balance
		}
		return creditors[i].MemberID < creditors[j].MemberID
	})
	sort.Slice(debtors, func(i, j int) bool {
		if debtors[i].Balance != debtors[j].Balance {
			return debtors[i].Balance < debtors[j].Balance
		}
		return debtors[i].MemberID < debtors[j].MemberID
	})

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		owes := -debtors[i].Balance
		due := creditors[j].Balance

		amount := owes
		if due < amount {
			amount = due
		}
		if amount > 0 {
			transfers = append(transfers, Transfer{
				FromMemberID: debtors[i].MemberID,
				ToMemberID:   creditors[j].MemberID,
				Amount:       amount,
			})
		}

		debtors[i].Balance += amount
		creditors[j].Balance -= amount

		if -debtors[i].Balance <= epsilon {
			i++
		}
		if creditors[j].Balance <= epsilon {
			j++
		}
	}

	return transfers, nil
}
