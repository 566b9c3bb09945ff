// Package ingestion turns raw externally-sourced report text into a uniform
// sequence of typed records. It detects which known column schema is present
// and normalizes rows; it never touches persistence.
package ingestion

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/hostbooks/host_books_app/internal/core/domain"
	"github.com/hostbooks/host_books_app/internal/utils/money"
)

// External reports use a fixed month/day/year date convention.
const dateLayout = "01/02/2006"

// ErrEmptyInput indicates a report with no content at all.
var ErrEmptyInput = errors.New("report is empty")

// ErrInvalidEncoding indicates a report that is not valid UTF-8.
var ErrInvalidEncoding = errors.New("report is not valid UTF-8")

// ErrUnknownFormat indicates a header row matching no known layout.
var ErrUnknownFormat = errors.New("report header matches no known format")

// ErrNoDataRows indicates a recognizable header followed by zero usable rows.
var ErrNoDataRows = errors.New("report contains no data rows")

// RowError records why a single row was dropped. Row-level problems never
// abort a parse.
type RowError struct {
	Line   int
	Reason string
}

func (e RowError) String() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Report is the normalized result of parsing one external report.
type Report struct {
	LayoutName string
	Records    []domain.ExternalRecord
	Skipped    []RowError // Malformed rows, counted and excluded
}

var recordTypes = map[string]domain.RecordType{
	"payout":                domain.RecordPayout,
	"reservation":           domain.RecordReservation,
	"adjustment":            domain.RecordAdjustment,
	"resolution adjustment": domain.RecordAdjustment,
}

// ParseReport detects the report's column schema and yields its typed
// records. Undecodable input, an unrecognizable header or zero data rows are
// fatal; individual malformed rows are skipped and reported in
// Report.Skipped. Unrecognized row types (fees, summaries) are dropped
// silently, matching the source convention.
func ParseReport(data []byte) (*Report, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}) // strip UTF-8 BOM
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyInput
	}
	if !utf8.Valid(data) {
		return nil, ErrInvalidEncoding
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1 // column-count mismatches handled per row

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	layout, idx, ok := detectLayout(header)
	if !ok {
		return nil, ErrUnknownFormat
	}

	report := &Report{LayoutName: layout.Name}
	line := 1
	for {
		line++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Skipped = append(report.Skipped, RowError{Line: line, Reason: err.Error()})
			continue
		}

		record, rowErr, recognized := normalizeRow(layout, idx, row, line)
		if !recognized {
			continue
		}
		if rowErr != nil {
			report.Skipped = append(report.Skipped, *rowErr)
			continue
		}
		report.Records = append(report.Records, record)
	}

	if len(report.Records) == 0 {
		return nil, ErrNoDataRows
	}
	return report, nil
}

// normalizeRow converts one raw row into an ExternalRecord. The third return
// is false when the row type is not one the pipeline handles; such rows are
// dropped without being counted as errors.
func normalizeRow(layout Layout, idx columnIndex, row []string, line int) (domain.ExternalRecord, *RowError, bool) {
	var zero domain.ExternalRecord

	field := func(f Field) (string, bool) {
		pos, mapped := idx[f]
		if !mapped || pos < 0 || pos >= len(row) {
			return "", false
		}
		return strings.TrimSpace(row[pos]), true
	}

	typeText, ok := field(FieldType)
	if !ok {
		return zero, &RowError{Line: line, Reason: "row has fewer columns than the header"}, true
	}
	recordType, recognized := recordTypes[strings.ToLower(typeText)]
	if !recognized {
		return zero, nil, false
	}

	dateText, ok := field(FieldDate)
	if !ok {
		return zero, &RowError{Line: line, Reason: "row has fewer columns than the header"}, true
	}
	transactionDate, err := time.Parse(dateLayout, dateText)
	if err != nil {
		return zero, &RowError{Line: line, Reason: fmt.Sprintf("invalid date %q (want MM/DD/YYYY)", dateText)}, true
	}

	amountText, ok := field(FieldAmount)
	if !ok {
		return zero, &RowError{Line: line, Reason: "row has fewer columns than the header"}, true
	}
	gross := decimal.Zero
	if amountText != "" {
		gross, err = money.ParseAmount(amountText)
		if err != nil {
			return zero, &RowError{Line: line, Reason: fmt.Sprintf("invalid amount %q", amountText)}, true
		}
	}

	record := domain.ExternalRecord{
		RecordType:      recordType,
		TransactionDate: transactionDate,
		GrossAmount:     gross,
		SourceLine:      line,
	}
	record.EntityLabel, _ = field(FieldListing)
	record.ConfirmationCode, _ = field(FieldConfirmationCode)
	record.Currency, _ = field(FieldCurrency)

	if paidText, ok := field(FieldPaidOut); ok && paidText != "" {
		paid, err := money.ParseAmount(paidText)
		if err != nil {
			return zero, &RowError{Line: line, Reason: fmt.Sprintf("invalid paid amount %q", paidText)}, true
		}
		record.PaidAmount = paid
		record.HasPaidAmount = true
	}

	if record.RecordType == domain.RecordReservation {
		if text, ok := field(FieldCheckIn); ok && text != "" {
			if d, err := time.Parse(dateLayout, text); err == nil {
				record.CheckInDate = &d
			}
		}
		if text, ok := field(FieldCheckOut); ok && text != "" {
			if d, err := time.Parse(dateLayout, text); err == nil {
				record.CheckOutDate = &d
			}
		}
	}

	return record, nil, true
}
