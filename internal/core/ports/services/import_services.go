package services

import (
	"context"

	"github.com/hostbooks/host_books_app/internal/core/domain"
	"github.com/hostbooks/host_books_app/internal/dto"
)

// ImportSvcFacade runs the full reconciliation pipeline for one external
// report: parse, resolve, attribute, replace the covered date range, persist
// and validate. Runs for the same owner are serialized; runs for different
// owners may proceed in parallel.
type ImportSvcFacade interface {
	ImportReport(ctx context.Context, ownerID string, req dto.ImportReportRequest) (*dto.ImportResult, error)
}

// ResolverSvcFacade maps external free-text entity labels to internal
// properties.
type ResolverSvcFacade interface {
	// Resolve attempts exact, learned and fuzzy resolution of label for the
	// owner. A nil error with Matched=false means no candidate was good
	// enough; the caller records the diagnostic.
	Resolve(ctx context.Context, ownerID, label string) (*domain.EntityResolution, error)

	// ConfirmMapping persists an explicit user confirmation that label
	// refers to propertyID.
	ConfirmMapping(ctx context.Context, ownerID, label, propertyID string) (*domain.EntityMapping, error)
}
