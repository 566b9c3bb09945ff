package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hostbooks/host_books_app/internal/apperrors"
	"github.com/hostbooks/host_books_app/internal/core/domain"
	portsrepo "github.com/hostbooks/host_books_app/internal/core/ports/repositories"
	"github.com/hostbooks/host_books_app/internal/models"
	"github.com/hostbooks/host_books_app/internal/utils/mapping"
)

type PgxPropertyRepository struct {
	BaseRepository
}

// newPgxPropertyRepository creates a new repository for property and learned
// mapping data.
func newPgxPropertyRepository(pool *pgxpool.Pool) portsrepo.PropertyRepositoryFacade {
	return &PgxPropertyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxPropertyRepository implements portsrepo.PropertyRepositoryFacade
var _ portsrepo.PropertyRepositoryFacade = (*PgxPropertyRepository)(nil)

// FindPropertyByID retrieves a property by its ID, aliases included.
func (r *PgxPropertyRepository) FindPropertyByID(ctx context.Context, propertyID string) (*domain.Property, error) {
	query := `
		SELECT property_id, owner_id, name, is_active,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM properties
		WHERE property_id = $1;
	`
	var m models.Property
	err := r.Pool.QueryRow(ctx, query, propertyID).Scan(
		&m.PropertyID,
		&m.OwnerID,
		&m.Name,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find property by ID "+propertyID, err)
	}

	aliases, err := r.loadAliases(ctx, []string{propertyID})
	if err != nil {
		return nil, err
	}
	m.Aliases = aliases[propertyID]

	domainProperty := mapping.ToDomainProperty(m)
	return &domainProperty, nil
}

// ListProperties retrieves all of an owner's properties, aliases included.
func (r *PgxPropertyRepository) ListProperties(ctx context.Context, ownerID string) ([]domain.Property, error) {
	query := `
		SELECT property_id, owner_id, name, is_active,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM properties
		WHERE owner_id = $1
		ORDER BY name;
	`
	rows, err := r.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query properties for owner "+ownerID, err)
	}
	defer rows.Close()

	properties := []models.Property{}
	propertyIDs := []string{}
	for rows.Next() {
		var m models.Property
		err := rows.Scan(
			&m.PropertyID,
			&m.OwnerID,
			&m.Name,
			&m.IsActive,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan property row for owner "+ownerID, err)
		}
		properties = append(properties, m)
		propertyIDs = append(propertyIDs, m.PropertyID)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating property rows for owner "+ownerID, err)
	}

	aliases, err := r.loadAliases(ctx, propertyIDs)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Property, len(properties))
	for i, m := range properties {
		m.Aliases = aliases[m.PropertyID]
		result[i] = mapping.ToDomainProperty(m)
	}
	return result, nil
}

// loadAliases fetches the aliases of the given properties, keyed by property
// ID.
func (r *PgxPropertyRepository) loadAliases(ctx context.Context, propertyIDs []string) (map[string][]string, error) {
	aliases := make(map[string][]string, len(propertyIDs))
	if len(propertyIDs) == 0 {
		return aliases, nil
	}

	query := `
		SELECT property_id, alias
		FROM property_aliases
		WHERE property_id = ANY($1)
		ORDER BY alias;
	`
	rows, err := r.Pool.Query(ctx, query, propertyIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query property aliases", err)
	}
	defer rows.Close()

	for rows.Next() {
		var propertyID, alias string
		if err := rows.Scan(&propertyID, &alias); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan property alias row", err)
		}
		aliases[propertyID] = append(aliases[propertyID], alias)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating property alias rows", err)
	}
	return aliases, nil
}

// SaveProperty persists a new property with its aliases within one DB
// transaction.
func (r *PgxPropertyRepository) SaveProperty(ctx context.Context, property domain.Property) error {
	m := mapping.ToModelProperty(property)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // No-op once committed

	propertyQuery := `
		INSERT INTO properties (
			property_id, owner_id, name, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err = tx.Exec(ctx, propertyQuery,
		m.PropertyID,
		m.OwnerID,
		m.Name,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert property "+m.PropertyID, err)
	}

	if len(m.Aliases) > 0 {
		batch := &pgx.Batch{}
		aliasQuery := `INSERT INTO property_aliases (property_id, alias) VALUES ($1, $2);`
		for _, alias := range m.Aliases {
			batch.Queue(aliasQuery, m.PropertyID, alias)
		}
		br := tx.SendBatch(ctx, batch)
		if err := br.Close(); err != nil {
			return apperrors.NewAppError(500, "failed to execute alias insert batch for property "+m.PropertyID, err)
		}
	}

	return r.Commit(ctx, tx)
}

// GetMapping retrieves the learned mapping for a normalized label.
func (r *PgxPropertyRepository) GetMapping(ctx context.Context, ownerID, normalizedLabel string) (*domain.EntityMapping, error) {
	query := `
		SELECT mapping_id, owner_id, normalized_label, property_id,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM entity_mappings
		WHERE owner_id = $1 AND normalized_label = $2;
	`
	var m models.EntityMapping
	err := r.Pool.QueryRow(ctx, query, ownerID, normalizedLabel).Scan(
		&m.MappingID,
		&m.OwnerID,
		&m.NormalizedLabel,
		&m.PropertyID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find mapping for label "+normalizedLabel, err)
	}

	domainMapping := mapping.ToDomainEntityMapping(m)
	return &domainMapping, nil
}

// SaveMapping persists a learned label mapping, upserting on
// (owner_id, normalized_label) so re-learning a label repoints it.
func (r *PgxPropertyRepository) SaveMapping(ctx context.Context, entityMapping domain.EntityMapping) (*domain.EntityMapping, error) {
	m := mapping.ToModelEntityMapping(entityMapping)
	query := `
		INSERT INTO entity_mappings (
			mapping_id, owner_id, normalized_label, property_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (owner_id, normalized_label)
		DO UPDATE SET property_id = EXCLUDED.property_id,
		              last_updated_at = EXCLUDED.last_updated_at,
		              last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		m.MappingID,
		m.OwnerID,
		m.NormalizedLabel,
		m.PropertyID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to upsert mapping for label "+m.NormalizedLabel, err)
	}
	return &entityMapping, nil
}
