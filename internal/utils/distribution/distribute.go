// Package distribution implements the proportional split primitive shared by
// payout attribution and pro-rata expense/tax allocation. It is the only
// place in the codebase that divides a total into shares.
package distribution

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNoWeights indicates an empty weight set.
var ErrNoWeights = errors.New("weight set is empty")

// ErrNegativeWeight indicates a weight below zero.
var ErrNegativeWeight = errors.New("weights must be non-negative")

// Weight pairs a share key (typically a property ID) with its weighting
// value: a gross revenue figure, an explicit percentage, or a reservation
// value depending on the caller.
type Weight struct {
	Key   string
	Value decimal.Decimal
}

// Share is one allocated portion of a distributed total.
type Share struct {
	Key    string
	Amount decimal.Decimal
}

// percentBasis is the implied 100% basis used by DistributePercent.
var percentBasis = decimal.NewFromInt(100)

// two decimal places, the precision of a currency unit.
const currencyScale = 2

// Distribute splits total across the weight set proportionally. The result
// has one share per weight, in input order, and the shares sum to total
// exactly: every share but the last is total*weight/sum(weights) truncated to
// currency precision, and the last share is total minus the sum of the
// others, absorbing the rounding remainder. Truncation keeps the running sum
// at or below total, so the last share never turns negative. An all-zero
// weight set splits equally.
func Distribute(total decimal.Decimal, weights []Weight) ([]Share, error) {
	if len(weights) == 0 {
		return nil, ErrNoWeights
	}

	weightSum := decimal.Zero
	for _, w := range weights {
		if w.Value.IsNegative() {
			return nil, fmt.Errorf("%w: %s has weight %s", ErrNegativeWeight, w.Key, w.Value)
		}
		weightSum = weightSum.Add(w.Value)
	}

	// All-zero weights: treat every share as equally weighted.
	if weightSum.IsZero() {
		equal := make([]Weight, len(weights))
		for i, w := range weights {
			equal[i] = Weight{Key: w.Key, Value: decimal.NewFromInt(1)}
		}
		weights = equal
		weightSum = decimal.NewFromInt(int64(len(weights)))
	}

	shares := make([]Share, len(weights))
	allocated := decimal.Zero
	for i, w := range weights {
		if i == len(weights)-1 {
			// Last share reconciles exactly regardless of rounding.
			shares[i] = Share{Key: w.Key, Amount: total.Sub(allocated)}
			break
		}
		amount := total.Mul(w.Value).Div(weightSum).RoundDown(currencyScale)
		shares[i] = Share{Key: w.Key, Amount: amount}
		allocated = allocated.Add(amount)
	}
	return shares, nil
}

// DistributePercent splits total across weights expressed as percentages of
// an implied 100% basis. Percentages summing under 100 have the shortfall
// spread equally across all entries before allocation; sums over 100 are
// normalized down proportionally (which the proportional form of Distribute
// already does). The exact-sum guarantee of Distribute carries over.
func DistributePercent(total decimal.Decimal, weights []Weight) ([]Share, error) {
	if len(weights) == 0 {
		return nil, ErrNoWeights
	}

	percentSum := decimal.Zero
	for _, w := range weights {
		if w.Value.IsNegative() {
			return nil, fmt.Errorf("%w: %s has weight %s", ErrNegativeWeight, w.Key, w.Value)
		}
		percentSum = percentSum.Add(w.Value)
	}

	if percentSum.LessThan(percentBasis) && !percentSum.IsZero() {
		topUp := percentBasis.Sub(percentSum).Div(decimal.NewFromInt(int64(len(weights))))
		adjusted := make([]Weight, len(weights))
		for i, w := range weights {
			adjusted[i] = Weight{Key: w.Key, Value: w.Value.Add(topUp)}
		}
		weights = adjusted
	}

	return Distribute(total, weights)
}
