package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"vacanza-be/internal/ledger"
	"vacanza-be/internal/models"
	"vacanza-be/internal/money"
	"vacanza-be/internal/storage"
)

// DefaultCurrency is assumed when a request does not name one. Expenses
// in different currencies are never netted against each other.
const DefaultCurrency = "EUR"

// SplitMode selects how an expense's owed shares are built.
type SplitMode string

const (
	// SplitEqual divides the paid total evenly among the listed members,
	// the last member absorbing the rounding remainder.
	SplitEqual SplitMode = "EQUAL"
	// SplitCustom uses the caller-supplied amounts verbatim.
	SplitCustom SplitMode = "CUSTOM"
)

// MemberAmount is a (membership, cents) pair in an expense request.
type MemberAmount struct {
	GroupMemberID int64       `json:"groupMemberId"`
	Amount        money.Cents `json:"amount"`
}

// ExpenseInput is a request to record a shared expense on an activity.
//
// For SplitEqual, SplitMembers lists who shares the cost and Splits is
// ignored. For SplitCustom, Splits carries the explicit amounts. When
// ReplaceExpenseID is set the named expense is atomically replaced,
// which is how edits work: expenses themselves are immutable.
type ExpenseInput struct {
	Description      string         `json:"description"`
	Currency         string         `json:"currency"`
	Payers           []MemberAmount `json:"payers"`
	SplitMode        SplitMode      `json:"splitMode"`
	SplitMembers     []int64        `json:"splitMembers,omitempty"`
	Splits           []MemberAmount `json:"splits,omitempty"`
	ReplaceExpenseID int64          `json:"expenseIdToReplace,omitempty"`
}

// ExpenseService builds validated expense splits, stores them, and
// computes group settlements.
type ExpenseService struct {
	store  storage.Store
	groups *GroupService
	logger *slog.Logger
}

// NewExpenseService creates an ExpenseService.
func NewExpenseService(store storage.Store, groups *GroupService, logger *slog.Logger) *ExpenseService {
	return &ExpenseService{store: store, groups: groups, logger: logger}
}

// Create validates and records an expense on an activity. If the input
// names an expense to replace, the old one is deleted and the new one
// created in a single transaction.
func (s *ExpenseService) Create(ctx context.Context, userID, groupID, activityID int64, input *ExpenseInput) (*models.Expense, error) {
	if _, err := s.groups.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetActivity(ctx, groupID, activityID); err != nil {
		return nil, err
	}
	memberIDs, err := s.groupMemberIDs(ctx, groupID)
	if err != nil {
		return nil, err
	}

	currency := input.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	paid := make([]ledger.PaidShare, len(input.Payers))
	var total money.Cents
	for i, p := range input.Payers {
		paid[i] = ledger.PaidShare{MemberID: p.GroupMemberID, Paid: p.Amount}
		total += p.Amount
	}

	var owed []ledger.OwedShare
	switch input.SplitMode {
	case SplitEqual:
		owed = ledger.EqualSplit(total, input.SplitMembers)
	case SplitCustom:
		shares := make([]ledger.ShareAmount, len(input.Splits))
		for i, sp := range input.Splits {
			shares[i] = ledger.ShareAmount{MemberID: sp.GroupMemberID, Amount: sp.Amount}
		}
		owed = ledger.CustomSplit(shares)
	default:
		return nil, fmt.Errorf("unknown split mode %q", input.SplitMode)
	}

	validated, err := ledger.NewExpense(activityID, input.Description, currency, paid, owed, memberIDs)
	if err != nil {
		return nil, err
	}
	expense := toModelExpense(validated)

	if input.ReplaceExpenseID != 0 {
		// The expense being replaced must belong to this group.
		if err := s.checkExpenseGroup(ctx, groupID, input.ReplaceExpenseID); err != nil {
			return nil, err
		}
		if err := s.store.ReplaceExpense(ctx, input.ReplaceExpenseID, expense); err != nil {
			return nil, err
		}
		s.logger.Info("expense replaced",
			"old_expense_id", input.ReplaceExpenseID, "expense_id", expense.ID, "group_id", groupID)
	} else {
		if err := s.store.CreateExpense(ctx, expense); err != nil {
			return nil, err
		}
		s.logger.Info("expense created",
			"expense_id", expense.ID, "activity_id", activityID, "amount", total)
	}
	return s.store.GetExpense(ctx, expense.ID)
}

func toModelExpense(e *ledger.Expense) *models.Expense {
	expense := &models.Expense{
		ActivityID:  e.ActivityID,
		Description: e.Description,
		Currency:    e.Currency,
	}
	for _, p := range e.PaidShares {
		expense.Payers = append(expense.Payers, models.ExpensePayer{
			GroupMemberID: p.MemberID,
			PaidAmount:    p.Paid,
		})
	}
	for _, o := range e.OwedShares {
		expense.Splits = append(expense.Splits, models.ExpenseSplit{
			GroupMemberID: o.MemberID,
			Amount:        o.Owed,
			IsPayer:       o.IsPayer,
		})
	}
	return expense
}

func (s *ExpenseService) groupMemberIDs(ctx context.Context, groupID int64) ([]int64, error) {
	members, err := s.store.ListMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	return ids, nil
}

// checkExpenseGroup verifies the expense's activity belongs to the group.
func (s *ExpenseService) checkExpenseGroup(ctx context.Context, groupID, expenseID int64) error {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return err
	}
	if _, err := s.store.GetActivity(ctx, groupID, expense.ActivityID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrForbidden
		}
		return err
	}
	return nil
}

// ListByActivity retrieves the expenses recorded on one activity.
func (s *ExpenseService) ListByActivity(ctx context.Context, userID, groupID, activityID int64) ([]*models.Expense, error) {
	if _, err := s.groups.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetActivity(ctx, groupID, activityID); err != nil {
		return nil, err
	}
	return s.store.ListExpensesByActivity(ctx, activityID)
}

// ListByGroup retrieves all expenses across the group's activities.
func (s *ExpenseService) ListByGroup(ctx context.Context, userID, groupID int64) ([]*models.Expense, error) {
	if _, err := s.groups.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return s.store.ListExpensesByGroup(ctx, groupID)
}

// Delete removes an expense.
func (s *ExpenseService) Delete(ctx context.Context, userID, groupID, expenseID int64) error {
	if _, err := s.groups.requireMember(ctx, groupID, userID); err != nil {
		return err
	}
	if err := s.checkExpenseGroup(ctx, groupID, expenseID); err != nil {
		return err
	}
	s.logger.Info("expense deleted", "expense_id", expenseID, "group_id", groupID)
	return s.store.DeleteExpense(ctx, expenseID)
}

// Settlement computes the who-owes-whom view for a group in one
// currency: every member's net balance plus a transfer plan that settles
// them. Recomputed from the stored expenses on every call; nothing is
// persisted.
func (s *ExpenseService) Settlement(ctx context.Context, userID, groupID int64, currency string) (*models.GroupSettlement, error) {
	if _, err := s.groups.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	if currency == "" {
		currency = DefaultCurrency
	}

	members, err := s.store.ListMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	names := make(map[int64]string, len(members))
	ledgerMembers := make([]ledger.Member, len(members))
	for i, m := range members {
		names[m.ID] = m.User.Name
		ledgerMembers[i] = ledger.Member{ID: m.ID, Name: m.User.Name}
	}

	var ledgerExpenses []ledger.Expense
	var totalSpent money.Cents
	for _, e := range expenses {
		if e.Currency != currency {
			continue
		}
		le := ledger.Expense{
			ID:          e.ID,
			ActivityID:  e.ActivityID,
			Description: e.Description,
			Currency:    e.Currency,
		}
		for _, p := range e.Payers {
			le.PaidShares = append(le.PaidShares, ledger.PaidShare{MemberID: p.GroupMemberID, Paid: p.PaidAmount})
			totalSpent += p.PaidAmount
		}
		for _, sp := range e.Splits {
			le.OwedShares = append(le.OwedShares, ledger.OwedShare{MemberID: sp.GroupMemberID, Owed: sp.Amount, IsPayer: sp.IsPayer})
		}
		ledgerExpenses = append(ledgerExpenses, le)
	}

	balances := ledger.ComputeBalances(ledgerExpenses, ledgerMembers)
	transfers, err := ledger.PlanSettlement(balances)
	if err != nil {
		// Stored shares no longer reconcile; the ledger data itself is
		// corrupt, so surface it instead of a bogus plan.
		s.logger.Error("settlement failed",
			"group_id", groupID, "currency", currency, "error", err)
		return nil, err
	}

	settlement := &models.GroupSettlement{
		GroupID:      groupID,
		Currency:     currency,
		TotalSpent:   totalSpent,
		Balances:     make([]models.MemberBalance, len(balances)),
		Transactions: make([]models.SettlementTransaction, len(transfers)),
	}
	for i, b := range balances {
		settlement.Balances[i] = models.MemberBalance{
			GroupMemberID: b.MemberID,
			UserName:      names[b.MemberID],
			Balance:       b.Balance,
		}
	}
	for i, tr := range transfers {
		settlement.Transactions[i] = models.SettlementTransaction{
			FromMemberID: tr.FromMemberID,
			FromName:     names[tr.FromMemberID],
			ToMemberID:   tr.ToMemberID,
			ToName:       names[tr.ToMemberID],
			Amount:       tr.Amount,
		}
	}
	return settlement, nil
}
