package domain

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

// Source tags identify the pipeline that produced a ledger entry. Entries
// written by the import pipeline are replaced wholesale when an overlapping
// report is re-imported; manual entries never are.
const (
	SourceExternalPayout = "external-payout"
	SourceTaxProRata     = "tax-prorata"
	SourceManual         = "manual"
)

// LedgerEntry is a persisted financial movement. Amount is always
// non-negative; Kind carries the sign semantics. Entries produced by a
// pro-rata allocation are children linked to a consolidated parent via
// ParentEntryID; deleting the parent deletes all children.
type LedgerEntry struct {
	EntryID       string          `json:"entryID"`       // Primary Key (e.g., UUID)
	OwnerID       string          `json:"ownerID"`       // Owning portfolio (Not Null)
	PropertyID    *string         `json:"propertyID"`    // Nullable for aggregate/parent entries
	Kind          EntryKind       `json:"kind"`          // REVENUE or EXPENSE (Not Null)
	Amount        decimal.Decimal `json:"amount"`        // Non-negative; precise decimal type
	CurrencyCode  string          `json:"currencyCode"`  // ISO 4217
	EffectiveDate time.Time       `json:"effectiveDate"` // Date the movement takes effect
	Description   string          `json:"description"`
	Notes         string          `json:"notes"`         // Nullable; e.g. confirmation codes
	SourceTag     string          `json:"sourceTag"`     // Origin pipeline (Not Null)
	ParentEntryID *string         `json:"parentEntryID"` // Nullable; links child to consolidated parent
	AuditFields
}
