package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordType classifies a row of an ingested external report.
type RecordType string

const (
	RecordPayout      RecordType = "PAYOUT"
	RecordReservation RecordType = "RESERVATION"
	RecordAdjustment  RecordType = "ADJUSTMENT"
)

// ExternalRecord is one normalized row from an ingested report. It is
// constructed during parsing, consumed within the same import run and never
// persisted as-is.
type ExternalRecord struct {
	RecordType       RecordType
	TransactionDate  time.Time
	EntityLabel      string // Free-text label from the source (e.g. listing name)
	GrossAmount      decimal.Decimal
	PaidAmount       decimal.Decimal // Payout rows of the settled layout only
	HasPaidAmount    bool
	ConfirmationCode string
	CheckInDate      *time.Time // Reservation rows only
	CheckOutDate     *time.Time // Reservation rows only
	Currency         string
	SourceLine       int // 1-based line number in the source report, for diagnostics
}
