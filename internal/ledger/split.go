// Package ledger implements the expense-splitting and settlement core:
// building validated expense splits, aggregating per-member net balances,
// and planning the transfers that settle a group.
//
// Everything here is pure computation on immutable snapshots. The caller
// fetches members and expenses, invokes the functions on demand, and
// persists the results; no state is shared between calls.
package ledger

import (
	"fmt"

	"vacanza-be/internal/money"
)

// PaidShare records how much one member actually paid toward an expense.
type PaidShare struct {
	MemberID int64
	Paid     money.Cents
}

// OwedShare records how much one member is responsible for. IsPayer marks
// members that also appear in the paid shares; a payer may owe a different
// amount than they paid.
type OwedShare struct {
	MemberID int64
	Owed     money.Cents
	IsPayer  bool
}

// Expense is a validated, balanced expense attached to an activity.
// Expenses are immutable once persisted; edits are modeled as
// delete-old + create-new by the storage layer.
type Expense struct {
	ID          int64
	ActivityID  int64
	Description string
	Currency    string
	PaidShares  []PaidShare
	OwedShares  []OwedShare
}

// ShareAmount is a caller-supplied (member, amount) pair for custom splits.
type ShareAmount struct {
	MemberID int64
	Amount   money.Cents
}

// EqualSplit divides total evenly among the given members, rounded down to
// the cent. The last member in input order absorbs the rounding remainder
// so the shares always sum exactly to total. The output is deterministic
// for a given (total, ordered member list) input.
func EqualSplit(total money.Cents, memberIDs []int64) []OwedShare {
	if len(memberIDs) == 0 {
		return nil
	}
	n := money.Cents(len(memberIDs))
	base := total / n
	shares := make([]OwedShare, len(memberIDs))
	for i, id := range memberIDs {
		shares[i] = OwedShare{MemberID: id, Owed: base}
	}
	// Last member absorbs the remainder.
	shares[len(shares)-1].Owed = total - base*(n-1)
	return shares
}

// CustomSplit uses the caller-supplied amounts verbatim, with no
// redistribution. Whether they reconcile with the paid total is checked
// by Validate.
func CustomSplit(shares []ShareAmount) []OwedShare {
	owed := make([]OwedShare, len(shares))
	for i, s := range shares {
		owed[i] = OwedShare{MemberID: s.MemberID, Owed: s.Amount}
	}
	return owed
}

// Validate checks that paid and owed shares form a consistent expense for
// a group with the given member set:
//
//   - no share amount is negative (ErrNegativeShare)
//   - at least one payer with a positive paid amount (ErrNoPayers)
//   - at least one owed share (ErrNoOwers)
//   - every referenced member belongs to the group (ErrUnknownMember)
//   - paid and owed totals agree within Tolerance (ErrUnbalanced)
func Validate(paid []PaidShare, owed []OwedShare, groupMemberIDs []int64) error {
	var totalPaid money.Cents
	hasPayer := false
	for _, p := range paid {
		if p.Paid < 0 {
			return fmt.Errorf("%w: member %d paid %s", ErrNegativeShare, p.MemberID, p.Paid)
		}
		totalPaid += p.Paid
		if p.Paid > 0 {
			hasPayer = true
		}
	}
	if !hasPayer {
		return ErrNoPayers
	}
	if len(owed) == 0 {
		return ErrNoOwers
	}

	members := make(map[int64]struct{}, len(groupMemberIDs))
	for _, id := range groupMemberIDs {
		members[id] = struct{}{}
	}
	for _, p := range paid {
		if _, ok := members[p.MemberID]; !ok {
			return fmt.Errorf("%w: member %d", ErrUnknownMember, p.MemberID)
		}
	}
	var totalOwed money.Cents
	for _, o := range owed {
		if o.Owed < 0 {
			return fmt.Errorf("%w: member %d owes %s", ErrNegativeShare, o.MemberID, o.Owed)
		}
		if _, ok := members[o.MemberID]; !ok {
			return fmt.Errorf("%w: member %d", ErrUnknownMember, o.MemberID)
		}
		totalOwed += o.Owed
	}

	if (totalPaid - totalOwed).Abs() > Tolerance {
		return fmt.Errorf("%w: paid %s, owed %s", ErrUnbalanced, totalPaid, totalOwed)
	}
	return nil
}

// NewExpense validates the shares and returns an Expense ready to persist.
// IsPayer flags on the owed shares are set from the paid set, so callers
// do not have to keep the two in sync themselves.
func NewExpense(activityID int64, description, currency string, paid []PaidShare, owed []OwedShare, groupMemberIDs []int64) (*Expense, error) {
	if err := Validate(paid, owed, groupMemberIDs); err != nil {
		return nil, err
	}

	payers := make(map[int64]struct{}, len(paid))
	for _, p := range paid {
		if p.Paid > 0 {
			payers[p.MemberID] = struct{}{}
		}
	}
	marked := make([]OwedShare, len(owed))
	for i, o := range owed {
		_, isPayer := payers[o.MemberID]
		marked[i] = OwedShare{MemberID: o.MemberID, Owed: o.Owed, IsPayer: isPayer}
	}

	return &Expense{
		ActivityID:  activityID,
		Description: description,
		Currency:    currency,
		PaidShares:  paid,
		OwedShares:  marked,
	}, nil
}
