package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hostbooks/host_books_app/internal/apperrors"
	"github.com/hostbooks/host_books_app/internal/core/domain"
	portsrepo "github.com/hostbooks/host_books_app/internal/core/ports/repositories"
	portssvc "github.com/hostbooks/host_books_app/internal/core/ports/services"
	"github.com/hostbooks/host_books_app/internal/dto"
	"github.com/hostbooks/host_books_app/internal/middleware"
)

var (
	ErrEntryNotFound     = errors.New("ledger entry not found")
	ErrNegativeCorrected = errors.New("corrected amount must not be negative")
	ErrCorrectChild      = errors.New("child entries of an allocation cannot be corrected individually")
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// ledgerService serves reads and explicit corrections over the persisted
// ledger. Bulk writes belong to the import and allocation pipelines.
type ledgerService struct {
	ledgerRepo portsrepo.LedgerRepositoryWithTx
}

// NewLedgerService creates a new ledger read/correction service.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryWithTx) portssvc.LedgerSvcFacade {
	return &ledgerService{ledgerRepo: ledgerRepo}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// GetEntry implements portssvc.LedgerReaderSvc. Entries of other owners are
// reported as not found rather than forbidden.
func (s *ledgerService) GetEntry(ctx context.Context, ownerID, entryID string) (*domain.LedgerEntry, error) {
	entry, err := s.ledgerRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	if entry.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
	}
	return entry, nil
}

// ListEntries implements portssvc.LedgerReaderSvc.
func (s *ledgerService) ListEntries(ctx context.Context, ownerID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	filter := portsrepo.LedgerEntryFilter{SourceTag: params.SourceTag}
	if params.From != nil {
		filter.From = *params.From
	}
	if params.To != nil {
		filter.To = *params.To
	}

	entries, nextToken, err := s.ledgerRepo.ListEntriesPaged(ctx, ownerID, filter, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for owner %s: %w", ownerID, err)
	}
	return &dto.ListEntriesResponse{Entries: entries, NextToken: nextToken}, nil
}

// CorrectEntry implements portssvc.LedgerWriterSvc. Children of a
// consolidated allocation are rejected: correcting one would silently break
// the parent total, so the allocation has to be redone instead.
func (s *ledgerService) CorrectEntry(ctx context.Context, ownerID, entryID string, req dto.CorrectEntryRequest) (*domain.LedgerEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.GetEntry(ctx, ownerID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.ParentEntryID != nil {
		return nil, fmt.Errorf("%w: %s", ErrCorrectChild, entryID)
	}
	if req.Amount == nil && req.Description == nil && req.Notes == nil {
		return nil, fmt.Errorf("%w: no fields to correct", apperrors.ErrValidation)
	}

	if req.Amount != nil {
		if req.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: %s", ErrNegativeCorrected, req.Amount)
		}
		entry.Amount = *req.Amount
	}
	if req.Description != nil {
		entry.Description = *req.Description
	}
	if req.Notes != nil {
		entry.Notes = *req.Notes
	}
	entry.LastUpdatedAt = time.Now().UTC()

	if err := s.ledgerRepo.UpdateEntry(ctx, *entry); err != nil {
		return nil, fmt.Errorf("failed to update entry %s: %w", entryID, err)
	}

	logger.Info("Ledger entry corrected",
		slog.String("owner_id", ownerID),
		slog.String("entry_id", entryID),
	)
	return entry, nil
}

// DeleteEntry implements portssvc.LedgerWriterSvc. Returns the number of
// entries removed, children included.
func (s *ledgerService) DeleteEntry(ctx context.Context, ownerID, entryID string) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.GetEntry(ctx, ownerID, entryID); err != nil {
		return 0, err
	}

	deleted, err := s.ledgerRepo.DeleteEntryWithChildren(ctx, entryID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete entry %s: %w", entryID, err)
	}

	logger.Info("Ledger entry deleted",
		slog.String("owner_id", ownerID),
		slog.String("entry_id", entryID),
		slog.Int("removed", deleted),
	)
	return deleted, nil
}
