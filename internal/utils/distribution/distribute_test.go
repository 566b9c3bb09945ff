package distribution

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func sumShares(shares []Share) decimal.Decimal {
	total := decimal.Zero
	for _, s := range shares {
		total = total.Add(s.Amount)
	}
	return total
}

func TestDistributeProportional(t *testing.T) {
	shares, err := Distribute(dec("1000.00"), []Weight{
		{Key: "X", Value: dec("600")},
		{Key: "Y", Value: dec("400")},
	})
	require.NoError(t, err)
	require.Len(t, shares, 2)
	assert.True(t, shares[0].Amount.Equal(dec("600.00")), "got %s", shares[0].Amount)
	assert.True(t, shares[1].Amount.Equal(dec("400.00")), "got %s", shares[1].Amount)
}

func TestDistributeSumsExactly(t *testing.T) {
	cases := []struct {
		name    string
		total   string
		weights []string
	}{
		{"uneven thirds", "100.00", []string{"1", "1", "1"}},
		{"rounding remainder", "0.01", []string{"1", "1", "1"}},
		{"all zero weights", "99.99", []string{"0", "0", "0", "0"}},
		{"skewed", "1234.56", []string{"991.23", "3.07", "55.5"}},
		{"single share", "47.11", []string{"12"}},
		{"zero total", "0", []string{"5", "10"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			weights := make([]Weight, len(tc.weights))
			for i, w := range tc.weights {
				weights[i] = Weight{Key: string(rune('A' + i)), Value: dec(w)}
			}
			shares, err := Distribute(dec(tc.total), weights)
			require.NoError(t, err)
			require.Len(t, shares, len(weights))
			assert.True(t, sumShares(shares).Equal(dec(tc.total)),
				"shares sum %s, want %s", sumShares(shares), tc.total)
		})
	}
}

func TestDistributeSharesNeverNegative(t *testing.T) {
	// A tiny total over many shares rounds each non-final share to zero; the
	// remainder must land in the last share, not drive it below zero.
	weights := make([]Weight, 20)
	for i := range weights {
		weights[i] = Weight{Key: string(rune('A' + i)), Value: dec("1")}
	}
	shares, err := Distribute(dec("0.10"), weights)
	require.NoError(t, err)
	for _, s := range shares {
		assert.False(t, s.Amount.IsNegative(), "share %s is %s", s.Key, s.Amount)
	}
	assert.True(t, sumShares(shares).Equal(dec("0.10")))
	assert.True(t, shares[len(shares)-1].Amount.Equal(dec("0.10")),
		"got %s", shares[len(shares)-1].Amount)
}

func TestDistributeEqualSplitOnZeroWeights(t *testing.T) {
	shares, err := Distribute(dec("90.00"), []Weight{
		{Key: "A"}, {Key: "B"}, {Key: "C"},
	})
	require.NoError(t, err)
	for _, s := range shares {
		assert.True(t, s.Amount.Equal(dec("30.00")), "share %s got %s", s.Key, s.Amount)
	}
}

func TestDistributeNegativeWeight(t *testing.T) {
	_, err := Distribute(dec("10"), []Weight{{Key: "A", Value: dec("-1")}})
	assert.ErrorIs(t, err, ErrNegativeWeight)
}

func TestDistributeEmpty(t *testing.T) {
	_, err := Distribute(dec("10"), nil)
	assert.ErrorIs(t, err, ErrNoWeights)
}

func TestDistributePercentExact(t *testing.T) {
	shares, err := DistributePercent(dec("200.00"), []Weight{
		{Key: "A", Value: dec("25")},
		{Key: "B", Value: dec("75")},
	})
	require.NoError(t, err)
	assert.True(t, shares[0].Amount.Equal(dec("50.00")))
	assert.True(t, shares[1].Amount.Equal(dec("150.00")))
}

func TestDistributePercentUnderBasis(t *testing.T) {
	// 30 + 30 = 60%; the 40% shortfall is spread equally, 20 points each.
	shares, err := DistributePercent(dec("100.00"), []Weight{
		{Key: "A", Value: dec("30")},
		{Key: "B", Value: dec("30")},
	})
	require.NoError(t, err)
	assert.True(t, shares[0].Amount.Equal(dec("50.00")), "got %s", shares[0].Amount)
	assert.True(t, shares[1].Amount.Equal(dec("50.00")), "got %s", shares[1].Amount)
}

func TestDistributePercentOverBasis(t *testing.T) {
	// 120 + 80 = 200%; normalized down proportionally.
	shares, err := DistributePercent(dec("100.00"), []Weight{
		{Key: "A", Value: dec("120")},
		{Key: "B", Value: dec("80")},
	})
	require.NoError(t, err)
	assert.True(t, shares[0].Amount.Equal(dec("60.00")), "got %s", shares[0].Amount)
	assert.True(t, shares[1].Amount.Equal(dec("40.00")), "got %s", shares[1].Amount)
	assert.True(t, sumShares(shares).Equal(dec("100.00")))
}

func TestDistributePercentAllZero(t *testing.T) {
	shares, err := DistributePercent(dec("30.00"), []Weight{
		{Key: "A"}, {Key: "B"}, {Key: "C"},
	})
	require.NoError(t, err)
	assert.True(t, sumShares(shares).Equal(dec("30.00")))
	assert.True(t, shares[0].Amount.Equal(dec("10.00")))
}
