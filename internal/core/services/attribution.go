package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hostbooks/host_books_app/internal/core/domain"
	"github.com/hostbooks/host_books_app/internal/dto"
	"github.com/hostbooks/host_books_app/internal/utils/distribution"
)

// payoutGroup is one payout row plus the reservation/adjustment rows that
// settle under it. The source lists a payout followed by the rows it covers;
// a row belongs to the open group while it shares the payout's transaction
// date.
type payoutGroup struct {
	payout  domain.ExternalRecord
	members []domain.ExternalRecord
}

// groupPayouts scans records in source order. A payout row opens a group;
// subsequent non-payout rows with the same transaction date join it until the
// next payout row or end of input. Rows outside any group are returned as
// orphans.
func groupPayouts(records []domain.ExternalRecord) (groups []payoutGroup, orphans []domain.ExternalRecord) {
	var open *payoutGroup
	for _, rec := range records {
		if rec.RecordType == domain.RecordPayout {
			if open != nil {
				groups = append(groups, *open)
			}
			open = &payoutGroup{payout: rec}
			continue
		}
		if open != nil && rec.TransactionDate.Equal(open.payout.TransactionDate) {
			open.members = append(open.members, rec)
			continue
		}
		orphans = append(orphans, rec)
	}
	if open != nil {
		groups = append(groups, *open)
	}
	return groups, orphans
}

// attribution accumulates the outcome of distributing every payout group of
// one import run.
type attribution struct {
	entries      []domain.LedgerEntry
	sourceTotals map[string]decimal.Decimal // per payout date, keyed by dateKey
	errors       []string
	suggestions  []dto.MappingSuggestion
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// attributeRecords resolves every row's label and converts payout groups into
// revenue ledger entries, one per (payout, property). The weight basis is the
// per-property sum of resolved members' positive gross amounts; the payout's
// own label is the fallback when no member resolves.
func (s *importService) attributeRecords(ctx context.Context, ownerID string, records []domain.ExternalRecord) (*attribution, error) {
	out := &attribution{sourceTotals: make(map[string]decimal.Decimal)}
	suggested := make(map[string]bool)

	groups, orphans := groupPayouts(records)
	for _, rec := range orphans {
		out.errors = append(out.errors, fmt.Sprintf("line %d: row %q is not covered by any payout and was ignored", rec.SourceLine, rec.EntityLabel))
	}

	for _, g := range groups {
		amount := g.payout.GrossAmount
		if g.payout.HasPaidAmount {
			amount = g.payout.PaidAmount
		}
		if amount.IsNegative() {
			out.errors = append(out.errors, fmt.Sprintf("line %d: payout amount %s is negative; payout skipped", g.payout.SourceLine, amount))
			continue
		}

		weights, err := s.resolveWeights(ctx, ownerID, g, out, suggested)
		if err != nil {
			return nil, err
		}
		if len(weights) == 0 {
			out.errors = append(out.errors, fmt.Sprintf("line %d: no row of the payout dated %s resolved to a property; payout skipped", g.payout.SourceLine, dateKey(g.payout.TransactionDate)))
			continue
		}

		shares, err := distribution.Distribute(amount, weights)
		if err != nil {
			return nil, fmt.Errorf("failed to distribute payout at line %d: %w", g.payout.SourceLine, err)
		}

		key := dateKey(g.payout.TransactionDate)
		out.sourceTotals[key] = out.sourceTotals[key].Add(amount)
		for _, share := range shares {
			out.entries = append(out.entries, s.newPayoutEntry(ownerID, g.payout, share))
		}
	}
	return out, nil
}

// resolveWeights builds the distribution basis for one payout group. Member
// rows with non-positive gross are excluded: refunds and adjustments already
// net out of the paid total and must not shrink a property's share.
func (s *importService) resolveWeights(ctx context.Context, ownerID string, g payoutGroup, out *attribution, suggested map[string]bool) ([]distribution.Weight, error) {
	byProperty := make(map[string]decimal.Decimal)
	var order []string

	add := func(propertyID string, amount decimal.Decimal) {
		if _, seen := byProperty[propertyID]; !seen {
			order = append(order, propertyID)
		}
		byProperty[propertyID] = byProperty[propertyID].Add(amount)
	}

	for _, member := range g.members {
		resolution, err := s.resolve(ctx, ownerID, member.EntityLabel, member.SourceLine, out, suggested)
		if err != nil {
			return nil, err
		}
		if resolution == nil {
			continue
		}
		if !member.GrossAmount.IsPositive() {
			continue
		}
		add(resolution.PropertyID, member.GrossAmount)
	}

	if len(byProperty) == 0 && g.payout.EntityLabel != "" {
		resolution, err := s.resolve(ctx, ownerID, g.payout.EntityLabel, g.payout.SourceLine, out, suggested)
		if err != nil {
			return nil, err
		}
		if resolution != nil {
			add(resolution.PropertyID, decimal.NewFromInt(1))
		}
	}

	weights := make([]distribution.Weight, 0, len(order))
	for _, propertyID := range order {
		weights = append(weights, distribution.Weight{Key: propertyID, Value: byProperty[propertyID]})
	}
	return weights, nil
}

// resolve wraps the resolver, recording orphan diagnostics and mapping
// suggestions on the attribution. A nil resolution means the label did not
// match anything.
func (s *importService) resolve(ctx context.Context, ownerID, label string, line int, out *attribution, suggested map[string]bool) (*domain.EntityResolution, error) {
	if label == "" {
		out.errors = append(out.errors, fmt.Sprintf("line %d: row has no entity label", line))
		return nil, nil
	}
	resolution, err := s.resolver.Resolve(ctx, ownerID, label)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve label %q: %w", label, err)
	}
	if !resolution.Matched {
		out.errors = append(out.errors, fmt.Sprintf("line %d: label %q matched no property", line, label))
		return nil, nil
	}
	if resolution.NeedsConfirmation && !suggested[label] {
		suggested[label] = true
		out.suggestions = append(out.suggestions, dto.MappingSuggestion{
			Label:      label,
			PropertyID: resolution.PropertyID,
			Confidence: resolution.Confidence,
		})
	}
	return resolution, nil
}

func (s *importService) newPayoutEntry(ownerID string, payout domain.ExternalRecord, share distribution.Share) domain.LedgerEntry {
	now := time.Now().UTC()
	propertyID := share.Key
	currency := payout.Currency
	if currency == "" {
		currency = s.defaultCurrency
	}
	return domain.LedgerEntry{
		EntryID:       uuid.NewString(),
		OwnerID:       ownerID,
		PropertyID:    &propertyID,
		Kind:          domain.Revenue,
		Amount:        share.Amount,
		CurrencyCode:  currency,
		EffectiveDate: payout.TransactionDate,
		Description:   fmt.Sprintf("Payout %s", dateKey(payout.TransactionDate)),
		Notes:         payout.ConfirmationCode,
		SourceTag:     domain.SourceExternalPayout,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
}
