package services

import (
	"context"

	"github.com/hostbooks/host_books_app/internal/core/domain"
	"github.com/hostbooks/host_books_app/internal/dto"
)

// LedgerReaderSvc defines read operations over the persisted ledger.
type LedgerReaderSvc interface {
	// GetEntry retrieves a single entry belonging to the owner.
	GetEntry(ctx context.Context, ownerID, entryID string) (*domain.LedgerEntry, error)

	// ListEntries retrieves a paginated ledger listing for an owner.
	ListEntries(ctx context.Context, ownerID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}

// LedgerWriterSvc defines explicit-correction operations. Bulk writes go
// through the import and allocation pipelines, never through here.
type LedgerWriterSvc interface {
	// CorrectEntry updates an entry's amount, description or notes.
	CorrectEntry(ctx context.Context, ownerID, entryID string, req dto.CorrectEntryRequest) (*domain.LedgerEntry, error)

	// DeleteEntry removes an entry, cascading to its children.
	DeleteEntry(ctx context.Context, ownerID, entryID string) (int, error)
}

// LedgerSvcFacade combines ledger read and correction operations.
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}

// PropertySvcFacade manages the owner's managed properties.
type PropertySvcFacade interface {
	CreateProperty(ctx context.Context, ownerID string, req dto.CreatePropertyRequest) (*domain.Property, error)
	ListProperties(ctx context.Context, ownerID string) ([]domain.Property, error)
}
