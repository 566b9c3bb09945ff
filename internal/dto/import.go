package dto

import (
	"github.com/hostbooks/host_books_app/internal/core/domain"
)

// ImportReportRequest carries one raw external report to ingest. Transport of
// the file itself (upload handling) is the caller's concern; by the time the
// request reaches the engine the content is plain text.
type ImportReportRequest struct {
	FileName string `json:"fileName"`
	Content  string `json:"content" binding:"required"`
}

// MappingSuggestion surfaces a fuzzy match that was good enough to use for
// this run but not confident enough to learn automatically. The caller is
// expected to ask the user to confirm it.
type MappingSuggestion struct {
	Label      string  `json:"label"`
	PropertyID string  `json:"propertyID"`
	Confidence float64 `json:"confidence"`
}

// ImportResult is the structured outcome of one import run. Row-level
// problems and reconciliation discrepancies are accumulated in full, never
// truncated, so the caller can present a complete audit trail.
type ImportResult struct {
	LayoutName       string                      `json:"layoutName"`
	ImportedCount    int                         `json:"importedCount"`
	SkippedCount     int                         `json:"skippedCount"`
	ReplacedCount    int                         `json:"replacedCount"` // Previously-imported entries removed by range replacement
	Errors           []string                    `json:"errors"`
	Suggestions      []MappingSuggestion         `json:"suggestions"`
	Discrepancies    []domain.DateReconciliation `json:"discrepancies"`
	ReconciliationOK bool                        `json:"reconciliationOK"`
}

// ConfirmMappingRequest records an explicit user confirmation that an
// external label refers to a given property.
type ConfirmMappingRequest struct {
	Label      string `json:"label" binding:"required"`
	PropertyID string `json:"propertyID" binding:"required"`
}
