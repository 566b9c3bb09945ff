package ingestion

import "strings"

// Field names the semantic meaning of a report column. Layouts bind semantic
// fields to header names so that no code depends on column positions.
type Field string

const (
	FieldDate             Field = "date"
	FieldType             Field = "type"
	FieldConfirmationCode Field = "confirmation_code"
	FieldCheckIn          Field = "check_in"
	FieldCheckOut         Field = "check_out"
	FieldListing          Field = "listing"
	FieldCurrency         Field = "currency"
	FieldAmount           Field = "amount"
	FieldPaidOut          Field = "paid_out"
)

// Layout declares one known column schema of an external report. A layout
// matches when all required headers are present and, if set, the
// discriminator header is present too. Discriminated layouts are tried first
// so that the richer schema wins when both would match.
type Layout struct {
	Name          string
	Discriminator string           // Header that distinguishes this layout, empty if none
	Headers       map[Field]string // Semantic field -> expected header name
	Required      []Field
}

// knownLayouts, in detection order. The settled export carries a paid-out
// column for payout rows; the pending export reports upcoming payouts with
// the amount column only.
var knownLayouts = []Layout{
	{
		Name:          "settled",
		Discriminator: "Paid Out",
		Headers: map[Field]string{
			FieldDate:             "Date",
			FieldType:             "Type",
			FieldConfirmationCode: "Confirmation Code",
			FieldCheckIn:          "Start Date",
			FieldCheckOut:         "End Date",
			FieldListing:          "Listing",
			FieldCurrency:         "Currency",
			FieldAmount:           "Amount",
			FieldPaidOut:          "Paid Out",
		},
		Required: []Field{FieldDate, FieldType, FieldListing, FieldAmount, FieldPaidOut},
	},
	{
		Name: "pending",
		Headers: map[Field]string{
			FieldDate:             "Date",
			FieldType:             "Type",
			FieldConfirmationCode: "Confirmation Code",
			FieldCheckIn:          "Start Date",
			FieldListing:          "Listing",
			FieldCurrency:         "Currency",
			FieldAmount:           "Amount",
		},
		Required: []Field{FieldDate, FieldType, FieldListing, FieldAmount},
	},
}

// columnIndex maps semantic fields to column positions for one parsed header
// row. Missing optional fields map to -1.
type columnIndex map[Field]int

// indexHeaders resolves a layout against an actual header row by
// case-insensitive name lookup. Returns nil if a required field is missing.
func indexHeaders(layout Layout, header []string) columnIndex {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[strings.ToLower(strings.TrimSpace(h))] = i
	}

	idx := make(columnIndex, len(layout.Headers))
	for field, name := range layout.Headers {
		pos, ok := byName[strings.ToLower(name)]
		if !ok {
			pos = -1
		}
		idx[field] = pos
	}

	for _, field := range layout.Required {
		if idx[field] < 0 {
			return nil
		}
	}
	return idx
}

// detectLayout finds the first known layout matching the header row.
func detectLayout(header []string) (Layout, columnIndex, bool) {
	for _, layout := range knownLayouts {
		if idx := indexHeaders(layout, header); idx != nil {
			return layout, idx, true
		}
	}
	return Layout{}, nil, false
}
