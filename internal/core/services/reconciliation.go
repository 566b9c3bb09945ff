package services

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hostbooks/host_books_app/internal/core/domain"
)

// reconcileByDate compares, for every payout date of an import, the
// source-reported total against the sum of the entries actually persisted.
// It returns only the dates whose absolute difference exceeds the tolerance,
// oldest first, each with a per-property breakdown of what was written.
func reconcileByDate(entries []domain.LedgerEntry, sourceTotals map[string]decimal.Decimal, tolerance decimal.Decimal) []domain.DateReconciliation {
	type dateState struct {
		total      decimal.Decimal
		byProperty map[string]decimal.Decimal
		order      []string
	}
	persisted := make(map[string]*dateState)

	for _, entry := range entries {
		key := dateKey(entry.EffectiveDate)
		state, ok := persisted[key]
		if !ok {
			state = &dateState{byProperty: make(map[string]decimal.Decimal)}
			persisted[key] = state
		}
		state.total = state.total.Add(entry.Amount)
		propertyID := ""
		if entry.PropertyID != nil {
			propertyID = *entry.PropertyID
		}
		if _, seen := state.byProperty[propertyID]; !seen {
			state.order = append(state.order, propertyID)
		}
		state.byProperty[propertyID] = state.byProperty[propertyID].Add(entry.Amount)
	}

	keys := make(map[string]bool, len(sourceTotals))
	for key := range sourceTotals {
		keys[key] = true
	}
	for key := range persisted {
		keys[key] = true
	}
	ordered := make([]string, 0, len(keys))
	for key := range keys {
		ordered = append(ordered, key)
	}
	sort.Strings(ordered)

	var discrepancies []domain.DateReconciliation
	for _, key := range ordered {
		source := sourceTotals[key]
		distributed := decimal.Zero
		var breakdown []domain.PropertyAmount
		if state, ok := persisted[key]; ok {
			distributed = state.total
			for _, propertyID := range state.order {
				breakdown = append(breakdown, domain.PropertyAmount{PropertyID: propertyID, Amount: state.byProperty[propertyID]})
			}
		}
		difference := distributed.Sub(source)
		if difference.Abs().LessThanOrEqual(tolerance) {
			continue
		}
		date, _ := time.Parse("2006-01-02", key)
		discrepancies = append(discrepancies, domain.DateReconciliation{
			Date:             date,
			SourceTotal:      source,
			DistributedTotal: distributed,
			Difference:       difference,
			WithinTolerance:  false,
			Breakdown:        breakdown,
		})
	}
	return discrepancies
}
