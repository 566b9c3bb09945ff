package repositories

import (
	"context"

	"github.com/hostbooks/host_books_app/internal/core/domain"
)

// PropertyReader defines read operations for properties and learned mappings.
type PropertyReader interface {
	// FindPropertyByID retrieves a property by its unique identifier.
	FindPropertyByID(ctx context.Context, propertyID string) (*domain.Property, error)

	// ListProperties retrieves all properties for an owner, aliases included.
	ListProperties(ctx context.Context, ownerID string) ([]domain.Property, error)

	// GetMapping retrieves the learned mapping for a normalized label, or
	// apperrors.ErrNotFound if none has been learned.
	GetMapping(ctx context.Context, ownerID, normalizedLabel string) (*domain.EntityMapping, error)
}

// PropertyWriter defines write operations for properties and learned mappings.
type PropertyWriter interface {
	// SaveProperty persists a new property with its aliases.
	SaveProperty(ctx context.Context, property domain.Property) error

	// SaveMapping persists a learned label mapping, upserting on
	// (owner, normalized label).
	SaveMapping(ctx context.Context, mapping domain.EntityMapping) (*domain.EntityMapping, error)
}

// PropertyRepositoryFacade combines all property repository interfaces.
type PropertyRepositoryFacade interface {
	PropertyReader
	PropertyWriter
}
