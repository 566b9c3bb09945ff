package ingestion

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostbooks/host_books_app/internal/core/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

const settledReport = `Date,Type,Confirmation Code,Start Date,End Date,Listing,Currency,Amount,Paid Out
07/15/2025,Payout,,,,,"USD",1000.00,1000.00
07/15/2025,Reservation,HM123,07/10/2025,07/14/2025,Sea View Apartment,USD,600.00,
07/15/2025,Reservation,HM124,07/11/2025,07/15/2025,Garden Studio,USD,400.00,
`

const pendingReport = `Date,Type,Confirmation Code,Start Date,Listing,Currency,Amount
08/01/2025,Payout,,,,USD,250.00
08/01/2025,Reservation,HM200,07/28/2025,Garden Studio,USD,250.00
`

func TestParseReportDetectsSettledLayout(t *testing.T) {
	report, err := ParseReport([]byte(settledReport))
	require.NoError(t, err)
	assert.Equal(t, "settled", report.LayoutName)
	require.Len(t, report.Records, 3)

	payout := report.Records[0]
	assert.Equal(t, domain.RecordPayout, payout.RecordType)
	assert.True(t, payout.HasPaidAmount)
	assert.True(t, payout.PaidAmount.Equal(dec("1000.00")))
	assert.Equal(t, "2025-07-15", payout.TransactionDate.Format("2006-01-02"))

	reservation := report.Records[1]
	assert.Equal(t, domain.RecordReservation, reservation.RecordType)
	assert.Equal(t, "Sea View Apartment", reservation.EntityLabel)
	assert.Equal(t, "HM123", reservation.ConfirmationCode)
	require.NotNil(t, reservation.CheckInDate)
	assert.Equal(t, "2025-07-10", reservation.CheckInDate.Format("2006-01-02"))
}

func TestParseReportDetectsPendingLayout(t *testing.T) {
	report, err := ParseReport([]byte(pendingReport))
	require.NoError(t, err)
	assert.Equal(t, "pending", report.LayoutName)
	require.Len(t, report.Records, 2)

	// Fields the pending layout does not carry must stay unset, not read
	// from another column's position.
	payout := report.Records[0]
	assert.False(t, payout.HasPaidAmount)
	assert.True(t, payout.PaidAmount.IsZero())
	assert.True(t, payout.GrossAmount.Equal(dec("250.00")))
	assert.Nil(t, report.Records[1].CheckOutDate)
}

func TestParseReportStripsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(pendingReport)...)
	report, err := ParseReport(data)
	require.NoError(t, err)
	assert.Equal(t, "pending", report.LayoutName)
}

func TestParseReportSkipsMalformedRows(t *testing.T) {
	input := `Date,Type,Confirmation Code,Start Date,Listing,Currency,Amount
08/01/2025,Payout,,,,USD,250.00
2025-08-01,Reservation,HM1,,Garden Studio,USD,100.00
08/01/2025,Reservation,HM2,,Garden Studio,USD,not-a-number
08/01/2025,Reservation,HM3,,Garden Studio,USD,250.00
`
	report, err := ParseReport([]byte(input))
	require.NoError(t, err)
	require.Len(t, report.Records, 2)
	require.Len(t, report.Skipped, 2)
	assert.Contains(t, report.Skipped[0].Reason, "invalid date")
	assert.Contains(t, report.Skipped[1].Reason, "invalid amount")
}

func TestParseReportDropsUnrecognizedRowTypes(t *testing.T) {
	input := `Date,Type,Confirmation Code,Start Date,Listing,Currency,Amount
08/01/2025,Payout,,,,USD,250.00
08/01/2025,Service Fee,,,,USD,-30.00
08/01/2025,Reservation,HM1,,Garden Studio,USD,250.00
`
	report, err := ParseReport([]byte(input))
	require.NoError(t, err)
	assert.Len(t, report.Records, 2)
	assert.Empty(t, report.Skipped)
}

func TestParseReportFatalErrors(t *testing.T) {
	_, err := ParseReport(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = ParseReport([]byte("   \n  "))
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = ParseReport([]byte{0xff, 0xfe, 0x41})
	assert.ErrorIs(t, err, ErrInvalidEncoding)

	_, err = ParseReport([]byte("foo,bar,baz\n1,2,3\n"))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	// Header only, no rows the pipeline recognizes.
	_, err = ParseReport([]byte("Date,Type,Listing,Amount\n"))
	assert.ErrorIs(t, err, ErrNoDataRows)
}
