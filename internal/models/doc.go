// Package models defines the core domain records for vacanza-be.
//
// Entities are owned by the group aggregate: groups own members and
// activities, activities own participants and expenses, and expenses own
// their paid/owed shares. Nothing outlives its group; deleting an activity
// cascades to its expenses.
//
// Relationships use ID fields instead of pointers to avoid circular
// references. Monetary amounts are money.Cents throughout; float64 only
// appears on the JSON wire.
package models
