package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hostbooks/host_books_app/internal/core/domain"
	portsrepo "github.com/hostbooks/host_books_app/internal/core/ports/repositories"
	portssvc "github.com/hostbooks/host_books_app/internal/core/ports/services"
	"github.com/hostbooks/host_books_app/internal/dto"
	"github.com/hostbooks/host_books_app/internal/ingestion"
	"github.com/hostbooks/host_books_app/internal/middleware"
)

// ErrNoPayouts indicates a report that parsed but contained no payout rows,
// leaving nothing to import.
var ErrNoPayouts = errors.New("report contains no payout rows")

// ErrNothingAttributed indicates a report whose payouts all failed to produce
// ledger entries. Replacing the range with an empty set would erase
// previously imported data, so the import refuses instead.
var ErrNothingAttributed = errors.New("no payout row could be attributed")

// importService runs the ingest-resolve-attribute-replace-validate pipeline.
// Runs for the same owner are serialized so concurrent imports of overlapping
// reports cannot interleave their delete+insert windows; different owners
// proceed in parallel.
type importService struct {
	ledgerRepo      portsrepo.LedgerRepositoryWithTx
	resolver        portssvc.ResolverSvcFacade
	tolerance       decimal.Decimal
	defaultCurrency string
	ownerLocks      sync.Map // ownerID -> *sync.Mutex
}

// NewImportService creates a new import pipeline service. tolerance is the
// absolute per-date reconciliation tolerance; defaultCurrency is applied to
// rows whose source carries no currency column.
func NewImportService(ledgerRepo portsrepo.LedgerRepositoryWithTx, resolver portssvc.ResolverSvcFacade, tolerance decimal.Decimal, defaultCurrency string) portssvc.ImportSvcFacade {
	return &importService{
		ledgerRepo:      ledgerRepo,
		resolver:        resolver,
		tolerance:       tolerance,
		defaultCurrency: defaultCurrency,
	}
}

var _ portssvc.ImportSvcFacade = (*importService)(nil)

func (s *importService) lockOwner(ownerID string) *sync.Mutex {
	mu, _ := s.ownerLocks.LoadOrStore(ownerID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// ImportReport implements portssvc.ImportSvcFacade. Parse failures and
// persistence failures are fatal and leave the ledger untouched; row-level
// problems and reconciliation discrepancies are accumulated on the result.
func (s *importService) ImportReport(ctx context.Context, ownerID string, req dto.ImportReportRequest) (*dto.ImportResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	mu := s.lockOwner(ownerID)
	mu.Lock()
	defer mu.Unlock()

	report, err := ingestion.ParseReport([]byte(req.Content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse report %q: %w", req.FileName, err)
	}

	result := &dto.ImportResult{
		LayoutName:   report.LayoutName,
		SkippedCount: len(report.Skipped),
	}
	for _, rowErr := range report.Skipped {
		result.Errors = append(result.Errors, rowErr.String())
	}

	attributed, err := s.attributeRecords(ctx, ownerID, report.Records)
	if err != nil {
		return nil, err
	}
	result.Errors = append(result.Errors, attributed.errors...)
	result.Suggestions = attributed.suggestions

	from, to, ok := payoutRange(report.Records)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoPayouts, req.FileName)
	}
	if len(attributed.entries) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNothingAttributed, req.FileName)
	}

	deleted, inserted, err := s.ledgerRepo.ReplaceEntriesInRange(ctx, ownerID, domain.SourceExternalPayout, from, to, attributed.entries)
	if err != nil {
		return nil, fmt.Errorf("failed to replace entries in range %s..%s: %w", dateKey(from), dateKey(to), err)
	}
	result.ReplacedCount = deleted
	result.ImportedCount = len(inserted)

	// Validate against what was actually persisted, not what we meant to
	// persist.
	persisted, err := s.ledgerRepo.ListEntries(ctx, ownerID, domain.SourceExternalPayout, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list persisted entries for reconciliation: %w", err)
	}
	result.Discrepancies = reconcileByDate(persisted, attributed.sourceTotals, s.tolerance)
	result.ReconciliationOK = len(result.Discrepancies) == 0

	logger.Info("Report imported",
		slog.String("owner_id", ownerID),
		slog.String("file_name", req.FileName),
		slog.String("layout", report.LayoutName),
		slog.Int("imported", result.ImportedCount),
		slog.Int("replaced", result.ReplacedCount),
		slog.Int("skipped", result.SkippedCount),
		slog.Bool("reconciliation_ok", result.ReconciliationOK),
	)
	return result, nil
}

// payoutRange returns the inclusive [min, max] span of payout transaction
// dates. Only payout dates define the replacement window; reservation
// check-in/check-out dates do not widen it.
func payoutRange(records []domain.ExternalRecord) (from, to time.Time, ok bool) {
	for _, rec := range records {
		if rec.RecordType != domain.RecordPayout {
			continue
		}
		if !ok || rec.TransactionDate.Before(from) {
			from = rec.TransactionDate
		}
		if !ok || rec.TransactionDate.After(to) {
			to = rec.TransactionDate
		}
		ok = true
	}
	return from, to, ok
}
