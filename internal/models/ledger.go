package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind indicates whether a ledger entry records money coming in or going out.
type EntryKind string

const (
	Revenue EntryKind = "REVENUE"
	Expense EntryKind = "EXPENSE"
)

// LedgerEntry is the database representation of a persisted financial movement.
type LedgerEntry struct {
	EntryID       string
	OwnerID       string
	PropertyID    *string // NULL for aggregate/parent entries
	Kind          EntryKind
	Amount        decimal.Decimal
	CurrencyCode  string
	EffectiveDate time.Time
	Description   string
	Notes         string
	SourceTag     string
	ParentEntryID *string // NULL unless the entry is a distributed child
	AuditFields
}
