package models

import (
	"time"

	"vacanza-be/internal/money"
)

// Expense is a persisted shared expense attached to an activity.
// Immutable once created: edits go through delete-old + create-new.
type Expense struct {
	ID          int64          `json:"id"`
	ActivityID  int64          `json:"activityId"`
	Description string         `json:"description"`
	Currency    string         `json:"currency"`
	CreatedAt   time.Time      `json:"createdAt"`
	Payers      []ExpensePayer `json:"payers"`
	Splits      []ExpenseSplit `json:"splits"`
}

// ExpensePayer is how much one member actually paid toward the expense.
type ExpensePayer struct {
	GroupMemberID int64       `json:"groupMemberId"`
	UserName      string      `json:"userName,omitempty"`
	PaidAmount    money.Cents `json:"paidAmount"`
}

// ExpenseSplit is how much one member is responsible for. IsPayer marks
// members that also appear among the payers.
type ExpenseSplit struct {
	GroupMemberID int64       `json:"groupMemberId"`
	UserName      string      `json:"userName,omitempty"`
	Amount        money.Cents `json:"amount"`
	IsPayer       bool        `json:"isPayer"`
}

// MemberBalance is one member's net position across the group's expenses.
// Positive = owed money by the group, negative = owes money.
type MemberBalance struct {
	GroupMemberID int64       `json:"groupMemberId"`
	UserName      string      `json:"userName"`
	Balance       money.Cents `json:"balance"`
}

// SettlementTransaction is a suggested payment between two members.
type SettlementTransaction struct {
	FromMemberID int64       `json:"fromMemberId"`
	FromName     string      `json:"fromName"`
	ToMemberID   int64       `json:"toMemberId"`
	ToName       string      `json:"toName"`
	Amount       money.Cents `json:"amount"`
}

// GroupSettlement is the who-owes-whom view for a whole group: every
// member's net balance plus the transfer plan that settles them. Derived
// and ephemeral; recomputed from the expense set on every request.
type GroupSettlement struct {
	GroupID      int64                   `json:"groupId"`
	Currency     string                  `json:"currency"`
	TotalSpent   money.Cents             `json:"totalSpent"`
	Balances     []MemberBalance         `json:"balances"`
	Transactions []SettlementTransaction `json:"transactions"`
}
