package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hostbooks/host_books_app/internal/core/domain"
)

// ListEntriesParams narrows and pages a ledger listing.
type ListEntriesParams struct {
	SourceTag string     `form:"sourceTag"`
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
	Limit     int        `form:"limit"`
	NextToken *string    `form:"nextToken"`
}

// ListEntriesResponse is one page of ledger entries.
type ListEntriesResponse struct {
	Entries   []domain.LedgerEntry `json:"entries"`
	NextToken *string              `json:"nextToken,omitempty"`
}

// CorrectEntryRequest applies an explicit correction to a ledger entry.
// Nil fields are left unchanged.
type CorrectEntryRequest struct {
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Description *string          `json:"description,omitempty"`
	Notes       *string          `json:"notes,omitempty"`
}

// CreatePropertyRequest registers a managed property for an owner.
type CreatePropertyRequest struct {
	Name    string   `json:"name" binding:"required"`
	Aliases []string `json:"aliases"`
}
