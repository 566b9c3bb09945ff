package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hostbooks/host_books_app/internal/core/domain"
)

// LedgerEntryFilter narrows ledger listings. Zero-value fields are ignored.
type LedgerEntryFilter struct {
	SourceTag string
	From      time.Time
	To        time.Time
}

// LedgerReader defines read operations for ledger entries.
type LedgerReader interface {
	// FindEntryByID retrieves a specific entry by its unique identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error)

	// ListEntries retrieves all entries for an owner with the given source tag
	// whose effective date falls inside [from, to] (inclusive).
	ListEntries(ctx context.Context, ownerID, sourceTag string, from, to time.Time) ([]domain.LedgerEntry, error)

	// ListEntriesPaged retrieves a page of entries for an owner using
	// token-based pagination, newest effective date first.
	ListEntriesPaged(ctx context.Context, ownerID string, filter LedgerEntryFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)

	// SumRevenueByProperty totals REVENUE entries per property for an owner
	// over [from, to]. Properties without revenue in the period are absent
	// from the result.
	SumRevenueByProperty(ctx context.Context, ownerID string, from, to time.Time) (map[string]decimal.Decimal, error)
}

// LedgerWriter defines write operations for ledger entries.
type LedgerWriter interface {
	// InsertEntries persists a batch of entries and returns them.
	InsertEntries(ctx context.Context, entries []domain.LedgerEntry) ([]domain.LedgerEntry, error)

	// DeleteEntriesByIDs removes the given entries, cascading to children.
	// Returns the number of rows deleted (children included).
	DeleteEntriesByIDs(ctx context.Context, entryIDs []string) (int, error)

	// DeleteEntryWithChildren removes one entry and any child entries linked
	// to it via ParentEntryID.
	DeleteEntryWithChildren(ctx context.Context, entryID string) (int, error)

	// UpdateEntry applies an explicit correction to an entry's amount,
	// description and notes.
	UpdateEntry(ctx context.Context, entry domain.LedgerEntry) error

	// ReplaceEntriesInRange atomically deletes the owner's entries carrying
	// sourceTag inside [from, to] (cascading to children) and inserts the new
	// set. Either both steps complete or neither does.
	ReplaceEntriesInRange(ctx context.Context, ownerID, sourceTag string, from, to time.Time, entries []domain.LedgerEntry) (deleted int, inserted []domain.LedgerEntry, err error)

	// SaveAllocation atomically persists a consolidated parent entry and its
	// distributed children.
	SaveAllocation(ctx context.Context, parent domain.LedgerEntry, children []domain.LedgerEntry) error
}

// LedgerRepositoryFacade combines all ledger repository interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}

// LedgerRepositoryWithTx extends LedgerRepositoryFacade with transaction capabilities.
type LedgerRepositoryWithTx interface {
	LedgerRepositoryFacade
	TransactionManager
}
