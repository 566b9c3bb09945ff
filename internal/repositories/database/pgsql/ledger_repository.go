package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hostbooks/host_books_app/internal/apperrors"
	"github.com/hostbooks/host_books_app/internal/core/domain"
	portsrepo "github.com/hostbooks/host_books_app/internal/core/ports/repositories"
	"github.com/hostbooks/host_books_app/internal/models"
	"github.com/hostbooks/host_books_app/internal/utils/mapping"
	"github.com/hostbooks/host_books_app/internal/utils/pagination"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for ledger entry data.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryWithTx {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryWithTx
var _ portsrepo.LedgerRepositoryWithTx = (*PgxLedgerRepository)(nil)

const ledgerEntryColumns = `
	entry_id, owner_id, property_id, kind, amount, currency_code,
	effective_date, description, notes, source_tag, parent_entry_id,
	created_at, created_by, last_updated_at, last_updated_by`

func scanLedgerEntry(row pgx.Row) (models.LedgerEntry, error) {
	var m models.LedgerEntry
	err := row.Scan(
		&m.EntryID,
		&m.OwnerID,
		&m.PropertyID,
		&m.Kind,
		&m.Amount,
		&m.CurrencyCode,
		&m.EffectiveDate,
		&m.Description,
		&m.Notes,
		&m.SourceTag,
		&m.ParentEntryID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindEntryByID retrieves a ledger entry by its ID.
func (r *PgxLedgerRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerEntryColumns + ` FROM ledger_entries WHERE entry_id = $1;`

	m, err := scanLedgerEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find ledger entry by ID "+entryID, err)
	}

	domainEntry := mapping.ToDomainLedgerEntry(m)
	return &domainEntry, nil
}

// ListEntries retrieves all of an owner's entries with the given source tag
// whose effective date falls inside [from, to].
func (r *PgxLedgerRepository) ListEntries(ctx context.Context, ownerID, sourceTag string, from, to time.Time) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerEntryColumns + `
		FROM ledger_entries
		WHERE owner_id = $1 AND source_tag = $2 AND effective_date >= $3 AND effective_date <= $4
		ORDER BY effective_date, created_at;
	`
	rows, err := r.Pool.Query(ctx, query, ownerID, sourceTag, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query ledger entries for owner "+ownerID, err)
	}
	defer rows.Close()

	return collectLedgerEntries(rows)
}

func collectLedgerEntries(rows pgx.Rows) ([]domain.LedgerEntry, error) {
	entries := []models.LedgerEntry{}
	for rows.Next() {
		m, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger entry row", err)
		}
		entries = append(entries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating ledger entry rows", err)
	}
	return mapping.ToDomainLedgerEntrySlice(entries), nil
}

// ListEntriesPaged retrieves a page of an owner's entries using token-based
// pagination, newest effective date first.
func (r *PgxLedgerRepository) ListEntriesPaged(ctx context.Context, ownerID string, filter portsrepo.LedgerEntryFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to determine whether a next page exists.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + ledgerEntryColumns + `
		FROM ledger_entries
		WHERE owner_id = $1
	`
	args := []interface{}{ownerID}

	if filter.SourceTag != "" {
		args = append(args, filter.SourceTag)
		baseQuery += ` AND source_tag = $` + strconv.Itoa(len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		baseQuery += ` AND effective_date >= $` + strconv.Itoa(len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		baseQuery += ` AND effective_date <= $` + strconv.Itoa(len(args))
	}

	// Ordering must be stable for the cursor to be meaningful.
	orderByClause := `ORDER BY effective_date DESC, created_at DESC`

	if nextToken != nil && *nextToken != "" {
		lastEffectiveDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastEffectiveDate, lastCreatedAt)
		baseQuery += ` AND (effective_date, created_at) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query ledger entry page for owner "+ownerID, err)
	}
	defer rows.Close()

	entries, err := collectLedgerEntries(rows)
	if err != nil {
		return nil, nil, err
	}

	var newNextToken *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[limit-1]
		token := pagination.EncodeToken(last.EffectiveDate, last.CreatedAt)
		newNextToken = &token
	}
	return entries, newNextToken, nil
}

// SumRevenueByProperty totals REVENUE entries per property for an owner over
// [from, to]. Parent entries carry no property and are excluded.
func (r *PgxLedgerRepository) SumRevenueByProperty(ctx context.Context, ownerID string, from, to time.Time) (map[string]decimal.Decimal, error) {
	query := `
		SELECT property_id, SUM(amount)
		FROM ledger_entries
		WHERE owner_id = $1 AND kind = $2 AND property_id IS NOT NULL
		  AND effective_date >= $3 AND effective_date <= $4
		GROUP BY property_id;
	`
	rows, err := r.Pool.Query(ctx, query, ownerID, models.Revenue, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to sum revenue for owner "+ownerID, err)
	}
	defer rows.Close()

	totals := make(map[string]decimal.Decimal)
	for rows.Next() {
		var propertyID string
		var total decimal.Decimal
		if err := rows.Scan(&propertyID, &total); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan revenue total row", err)
		}
		totals[propertyID] = total
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating revenue total rows", err)
	}
	return totals, nil
}

const insertLedgerEntryQuery = `
	INSERT INTO ledger_entries (
		entry_id, owner_id, property_id, kind, amount, currency_code,
		effective_date, description, notes, source_tag, parent_entry_id,
		created_at, created_by, last_updated_at, last_updated_by
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
`

func queueLedgerEntryInsert(batch *pgx.Batch, entry domain.LedgerEntry) {
	m := mapping.ToModelLedgerEntry(entry)
	batch.Queue(insertLedgerEntryQuery,
		m.EntryID,
		m.OwnerID,
		m.PropertyID,
		m.Kind,
		m.Amount,
		m.CurrencyCode,
		m.EffectiveDate,
		m.Description,
		m.Notes,
		m.SourceTag,
		m.ParentEntryID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
}

// InsertEntries persists a batch of entries.
func (r *PgxLedgerRepository) InsertEntries(ctx context.Context, entries []domain.LedgerEntry) ([]domain.LedgerEntry, error) {
	if len(entries) == 0 {
		return entries, nil
	}

	batch := &pgx.Batch{}
	for _, entry := range entries {
		queueLedgerEntryInsert(batch, entry)
	}

	br := r.Pool.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to execute ledger entry insert batch", err)
	}
	return entries, nil
}

// DeleteEntriesByIDs removes the given entries. Children cascade via the
// parent_entry_id foreign key.
func (r *PgxLedgerRepository) DeleteEntriesByIDs(ctx context.Context, entryIDs []string) (int, error) {
	if len(entryIDs) == 0 {
		return 0, nil
	}
	tag, err := r.Pool.Exec(ctx, `DELETE FROM ledger_entries WHERE entry_id = ANY($1);`, entryIDs)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to delete ledger entries", err)
	}
	return int(tag.RowsAffected()), nil
}

// DeleteEntryWithChildren removes one entry and its children in a single
// statement. Returns the total number of rows removed.
func (r *PgxLedgerRepository) DeleteEntryWithChildren(ctx context.Context, entryID string) (int, error) {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM ledger_entries WHERE entry_id = $1 OR parent_entry_id = $1;`, entryID)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to delete ledger entry "+entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return 0, apperrors.ErrNotFound
	}
	return int(tag.RowsAffected()), nil
}

// UpdateEntry applies a correction to an entry's mutable fields.
func (r *PgxLedgerRepository) UpdateEntry(ctx context.Context, entry domain.LedgerEntry) error {
	m := mapping.ToModelLedgerEntry(entry)
	query := `
		UPDATE ledger_entries
		SET amount = $2, description = $3, notes = $4, last_updated_at = $5, last_updated_by = $6
		WHERE entry_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.EntryID,
		m.Amount,
		m.Description,
		m.Notes,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update ledger entry "+m.EntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ReplaceEntriesInRange deletes the owner's entries carrying sourceTag inside
// [from, to] and inserts the new set within one DB transaction. An overlapping
// re-import therefore never double-counts and never leaves a partial state.
func (r *PgxLedgerRepository) ReplaceEntriesInRange(ctx context.Context, ownerID, sourceTag string, from, to time.Time, entries []domain.LedgerEntry) (int, []domain.LedgerEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, nil, err
	}
	defer r.Rollback(ctx, tx) // No-op once committed

	deleteQuery := `
		DELETE FROM ledger_entries
		WHERE owner_id = $1 AND source_tag = $2 AND effective_date >= $3 AND effective_date <= $4;
	`
	tag, err := tx.Exec(ctx, deleteQuery, ownerID, sourceTag, from, to)
	if err != nil {
		return 0, nil, apperrors.NewAppError(500, "failed to delete ledger entries in range for owner "+ownerID, err)
	}
	deleted := int(tag.RowsAffected())

	if len(entries) > 0 {
		batch := &pgx.Batch{}
		for _, entry := range entries {
			queueLedgerEntryInsert(batch, entry)
		}
		br := tx.SendBatch(ctx, batch)
		if err := br.Close(); err != nil {
			return 0, nil, apperrors.NewAppError(500, "failed to execute ledger entry insert batch for owner "+ownerID, err)
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, nil, err
	}
	return deleted, entries, nil
}

// SaveAllocation persists a consolidated parent entry and its distributed
// children within one DB transaction.
func (r *PgxLedgerRepository) SaveAllocation(ctx context.Context, parent domain.LedgerEntry, children []domain.LedgerEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // No-op once committed

	batch := &pgx.Batch{}
	queueLedgerEntryInsert(batch, parent)
	for _, child := range children {
		queueLedgerEntryInsert(batch, child)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute allocation insert batch for parent "+parent.EntryID, err)
	}

	return r.Commit(ctx, tx)
}
