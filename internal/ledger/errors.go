package ledger

import (
	"errors"

	"vacanza-be/internal/money"
)

// Tolerance is the maximum acceptable difference, in cents, between the
// total paid and the total owed of a single expense. One cent of slack
// covers rounding when clients enter amounts in major units.
const Tolerance money.Cents = 1

var (
	// ErrUnbalanced means the paid and owed totals differ by more than Tolerance.
	ErrUnbalanced = errors.New("expense does not balance: paid and owed totals differ")

	// ErrNoPayers means the expense has no payers, or every paid amount is zero.
	ErrNoPayers = errors.New("expense has no payers")

	// ErrNoOwers means nobody was assigned a share of the expense.
	ErrNoOwers = errors.New("expense has no owed shares")

	// ErrUnknownMember means a share references a member outside the group.
	ErrUnknownMember = errors.New("share references a member not in the group")

	// ErrNegativeShare means a paid or owed amount is below zero. Negative
	// shares would let an expense credit money to a member.
	ErrNegativeShare = errors.New("share amounts cannot be negative")

	// ErrBalancesDoNotReconcile means the group's net balances do not sum
	// to zero. This is an upstream data-integrity bug, not a user error:
	// the ledger itself is inconsistent and no plan can be trusted.
	ErrBalancesDoNotReconcile = errors.New("net balances do not sum to zero")
)
