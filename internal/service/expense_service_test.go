package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"vacanza-be/internal/ledger"
	"vacanza-be/internal/models"
	"vacanza-be/internal/money"
	"vacanza-be/internal/storage"
	"vacanza-be/internal/storage/sqlite"
)

type testEnv struct {
	store      *sqlite.SQLiteStore
	groups     *GroupService
	activities *ActivityService
	expenses   *ExpenseService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("sqlite.New() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	groups := NewGroupService(store, logger)
	return &testEnv{
		store:      store,
		groups:     groups,
		activities: NewActivityService(store, groups, logger),
		expenses:   NewExpenseService(store, groups, logger),
	}
}

// seedGroup creates n users, a group owned by the first, and returns the
// user IDs and the membership IDs in the same order.
func (e *testEnv) seedGroup(t *testing.T, n int) (userIDs, memberIDs []int64, groupID int64) {
	t.Helper()
	ctx := context.Background()

	names := []string{"Alice", "Bob", "Carol", "Dave", "Eve"}
	for i := 0; i < n; i++ {
		user := &models.User{
			Email:        names[i] + "@example.com",
			Name:         names[i],
			PasswordHash: "hash",
		}
		if err := e.store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser() error = %v", err)
		}
		userIDs = append(userIDs, user.ID)
	}

	group := &models.Group{Name: "Test Trip", CreatedBy: userIDs[0]}
	if err := e.store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup() error = %v", err)
	}
	groupID = group.ID

	creator, err := e.store.GetMemberByUser(ctx, groupID, userIDs[0])
	if err != nil {
		t.Fatalf("GetMemberByUser() error = %v", err)
	}
	memberIDs = append(memberIDs, creator.ID)
	for i := 1; i < n; i++ {
		m, err := e.store.AddMember(ctx, groupID, userIDs[i], models.RoleMember)
		if err != nil {
			t.Fatalf("AddMember() error = %v", err)
		}
		memberIDs = append(memberIDs, m.ID)
	}
	return userIDs, memberIDs, groupID
}

func (e *testEnv) seedActivity(t *testing.T, userID, groupID int64) int64 {
	t.Helper()
	activity, err := e.activities.Create(context.Background(), userID, groupID, &models.Activity{
		Type:      models.TypeEvent,
		Name:      "Dinner",
		StartDate: "2026-07-11",
		Event:     &models.EventDetails{Category: models.CategoryRestaurant},
	})
	if err != nil {
		t.Fatalf("activities.Create() error = %v", err)
	}
	return activity.ID
}

func TestCreateExpenseEqualSplit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userIDs, memberIDs, groupID := env.seedGroup(t, 3)
	activityID := env.seedActivity(t, userIDs[0], groupID)

	expense, err := env.expenses.Create(ctx, userIDs[0], groupID, activityID, &ExpenseInput{
		Description:  "Dinner bill",
		Payers:       []MemberAmount{{GroupMemberID: memberIDs[0], Amount: 1000}},
		SplitMode:    SplitEqual,
		SplitMembers: memberIDs,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if expense.Currency != "EUR" {
		t.Errorf("currency = %s, want default EUR", expense.Currency)
	}
	if len(expense.Splits) != 3 {
		t.Fatalf("splits = %d, want 3", len(expense.Splits))
	}
	var sum int64
	for _, sp := range expense.Splits {
		sum += int64(sp.Amount)
	}
	if sum != 1000 {
		t.Errorf("split amounts sum to %d, want exactly 1000", sum)
	}
	if expense.Splits[2].Amount != 334 {
		t.Errorf("last split = %d, want 334 (remainder absorbed)", expense.Splits[2].Amount)
	}
	if !expense.Splits[0].IsPayer || expense.Splits[1].IsPayer {
		t.Errorf("IsPayer flags wrong: %+v", expense.Splits)
	}
	if expense.Payers[0].UserName != "Alice" {
		t.Errorf("payer name = %s, want Alice", expense.Payers[0].UserName)
	}
}

func TestCreateExpenseCustomSplitUnbalanced(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userIDs, memberIDs, groupID := env.seedGroup(t, 2)
	activityID := env.seedActivity(t, userIDs[0], groupID)

	_, err := env.expenses.Create(ctx, userIDs[0], groupID, activityID, &ExpenseInput{
		Description: "Broken",
		Payers:      []MemberAmount{{GroupMemberID: memberIDs[0], Amount: 1000}},
		SplitMode:   SplitCustom,
		Splits: []MemberAmount{
			{GroupMemberID: memberIDs[0], Amount: 400},
			{GroupMemberID: memberIDs[1], Amount: 400},
		},
	})
	if !errors.Is(err, ledger.ErrUnbalanced) {
		t.Errorf("Create(unbalanced) error = %v, want ErrUnbalanced", err)
	}
}

func TestCreateExpenseRequiresMembership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userIDs, memberIDs, groupID := env.seedGroup(t, 2)
	activityID := env.seedActivity(t, userIDs[0], groupID)

	outsider := &models.User{Email: "mallory@example.com", Name: "Mallory", PasswordHash: "hash"}
	if err := env.store.CreateUser(ctx, outsider); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	_, err := env.expenses.Create(ctx, outsider.ID, groupID, activityID, &ExpenseInput{
		Description:  "Sneaky",
		Payers:       []MemberAmount{{GroupMemberID: memberIDs[0], Amount: 100}},
		SplitMode:    SplitEqual,
		SplitMembers: memberIDs,
	})
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("Create(non-member) error = %v, want ErrForbidden", err)
	}
}

func TestReplaceExpenseFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userIDs, memberIDs, groupID := env.seedGroup(t, 2)
	activityID := env.seedActivity(t, userIDs[0], groupID)

	original, err := env.expenses.Create(ctx, userIDs[0], groupID, activityID, &ExpenseInput{
		Description:  "Taxi",
		Payers:       []MemberAmount{{GroupMemberID: memberIDs[0], Amount: 2000}},
		SplitMode:    SplitEqual,
		SplitMembers: memberIDs,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	corrected, err := env.expenses.Create(ctx, userIDs[0], groupID, activityID, &ExpenseInput{
		Description:      "Taxi (with tip)",
		Payers:           []MemberAmount{{GroupMemberID: memberIDs[0], Amount: 2400}},
		SplitMode:        SplitEqual,
		SplitMembers:     memberIDs,
		ReplaceExpenseID: original.ID,
	})
	if err != nil {
		t.Fatalf("Create(replace) error = %v", err)
	}
	if corrected.ID == original.ID {
		t.Error("replacement reused the original expense ID")
	}

	if _, err := env.store.GetExpense(ctx, original.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("original expense still exists: error = %v", err)
	}
	all, err := env.expenses.ListByActivity(ctx, userIDs[0], groupID, activityID)
	if err != nil {
		t.Fatalf("ListByActivity() error = %v", err)
	}
	if len(all) != 1 {
		t.Errorf("activity has %d expenses after replace, want 1", len(all))
	}
}

func TestSettlement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userIDs, memberIDs, groupID := env.seedGroup(t, 3)
	activityID := env.seedActivity(t, userIDs[0], groupID)

	// Alice pays 30.00 split three ways.
	if _, err := env.expenses.Create(ctx, userIDs[0], groupID, activityID, &ExpenseInput{
		Description:  "Dinner",
		Payers:       []MemberAmount{{GroupMemberID: memberIDs[0], Amount: 3000}},
		SplitMode:    SplitEqual,
		SplitMembers: memberIDs,
	}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	settlement, err := env.expenses.Settlement(ctx, userIDs[1], groupID, "")
	if err != nil {
		t.Fatalf("Settlement() error = %v", err)
	}

	if settlement.TotalSpent != 3000 {
		t.Errorf("TotalSpent = %d, want 3000", settlement.TotalSpent)
	}
	if len(settlement.Balances) != 3 {
		t.Fatalf("balances = %d, want one per member", len(settlement.Balances))
	}
	var sum int64
	for _, b := range settlement.Balances {
		sum += int64(b.Balance)
	}
	if sum != 0 {
		t.Errorf("balances sum to %d, want 0", sum)
	}

	if len(settlement.Transactions) != 2 {
		t.Fatalf("transactions = %d, want 2 (Bob and Carol pay Alice)", len(settlement.Transactions))
	}
	for _, tr := range settlement.Transactions {
		if tr.ToMemberID != memberIDs[0] {
			t.Errorf("transfer to member %d, want Alice (%d)", tr.ToMemberID, memberIDs[0])
		}
		if tr.ToName != "Alice" {
			t.Errorf("transfer ToName = %s, want Alice", tr.ToName)
		}
	}
}

func TestSettlementFiltersCurrency(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userIDs, memberIDs, groupID := env.seedGroup(t, 2)
	activityID := env.seedActivity(t, userIDs[0], groupID)

	for _, c := range []struct {
		currency string
		amount   int64
	}{{"EUR", 1000}, {"USD", 9900}} {
		if _, err := env.expenses.Create(ctx, userIDs[0], groupID, activityID, &ExpenseInput{
			Description:  "Bill in " + c.currency,
			Currency:     c.currency,
			Payers:       []MemberAmount{{GroupMemberID: memberIDs[0], Amount: money.Cents(c.amount)}},
			SplitMode:    SplitEqual,
			SplitMembers: memberIDs,
		}); err != nil {
			t.Fatalf("Create(%s) error = %v", c.currency, err)
		}
	}

	eur, err := env.expenses.Settlement(ctx, userIDs[0], groupID, "EUR")
	if err != nil {
		t.Fatalf("Settlement(EUR) error = %v", err)
	}
	if eur.TotalSpent != 1000 {
		t.Errorf("EUR TotalSpent = %d, want 1000 (USD excluded)", eur.TotalSpent)
	}

	usd, err := env.expenses.Settlement(ctx, userIDs[0], groupID, "USD")
	if err != nil {
		t.Fatalf("Settlement(USD) error = %v", err)
	}
	if usd.TotalSpent != 9900 {
		t.Errorf("USD TotalSpent = %d, want 9900", usd.TotalSpent)
	}
}

func TestSettlementEmptyGroup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userIDs, _, groupID := env.seedGroup(t, 2)

	settlement, err := env.expenses.Settlement(ctx, userIDs[0], groupID, "")
	if err != nil {
		t.Fatalf("Settlement() error = %v", err)
	}
	if len(settlement.Transactions) != 0 {
		t.Errorf("empty group produced %d transactions, want 0", len(settlement.Transactions))
	}
	for _, b := range settlement.Balances {
		if b.Balance != 0 {
			t.Errorf("member %d balance = %d, want 0", b.GroupMemberID, b.Balance)
		}
	}
}
