package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hostbooks/host_books_app/internal/core/domain"
)

// AllocationBasis selects how a lump sum is weighted across targets.
type AllocationBasis string

const (
	// BasisPercent weights targets by explicit percentages; targets without
	// a percentage share the unassigned remainder equally.
	BasisPercent AllocationBasis = "PERCENT"
	// BasisRevenue weights targets by their revenue share over a reference
	// period.
	BasisRevenue AllocationBasis = "REVENUE"
)

// AllocationTarget names one property receiving a slice of the lump sum.
// Percent is only meaningful with BasisPercent and may be nil.
type AllocationTarget struct {
	PropertyID string           `json:"propertyID" binding:"required"`
	Percent    *decimal.Decimal `json:"percent,omitempty"`
}

// AllocateLumpSumRequest splits a single liability (a tax bill, an insurance
// premium) across properties by the chosen weighting basis.
type AllocateLumpSumRequest struct {
	Description   string             `json:"description" binding:"required"`
	Kind          domain.EntryKind   `json:"kind" binding:"required"`
	Amount        decimal.Decimal    `json:"amount" binding:"required"`
	CurrencyCode  string             `json:"currencyCode"`
	EffectiveDate time.Time          `json:"effectiveDate" binding:"required"`
	SourceTag     string             `json:"sourceTag"` // Defaults to tax-prorata
	Basis         AllocationBasis    `json:"basis" binding:"required"`
	Targets       []AllocationTarget `json:"targets" binding:"required,min=1"`
	// Reference period for BasisRevenue.
	RevenueFrom time.Time `json:"revenueFrom"`
	RevenueTo   time.Time `json:"revenueTo"`
}

// AllocationResponse returns the consolidated parent entry and its
// distributed children.
type AllocationResponse struct {
	Parent   domain.LedgerEntry   `json:"parent"`
	Children []domain.LedgerEntry `json:"children"`
}
