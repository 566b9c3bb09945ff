package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PropertyAmount is one property's contribution to a reconciled date total.
type PropertyAmount struct {
	PropertyID string          `json:"propertyID"`
	Amount     decimal.Decimal `json:"amount"`
}

// DateReconciliation compares, for a single payout date, the source-reported
// total against the sum of the distributed entries that were persisted.
type DateReconciliation struct {
	Date             time.Time        `json:"date"`
	SourceTotal      decimal.Decimal  `json:"sourceTotal"`
	DistributedTotal decimal.Decimal  `json:"distributedTotal"`
	Difference       decimal.Decimal  `json:"difference"` // distributed - source
	WithinTolerance  bool             `json:"withinTolerance"`
	Breakdown        []PropertyAmount `json:"breakdown"`
}
