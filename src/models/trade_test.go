// src/models/trade_test.go
package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortTradesChronologically_ReturnsSortedCopy(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	trades := []Trade{
		{Asset: "C", Timestamp: base.Add(2 * time.Hour)},
		{Asset: "A", Timestamp: base},
		{Asset: "B", Timestamp: base.Add(time.Hour)},
	}

	sorted := SortTradesChronologically(trades)

	require.Len(t, sorted, 3)
	assert.Equal(t, "A", sorted[0].Asset)
	assert.Equal(t, "B", sorted[1].Asset)
	assert.Equal(t, "C", sorted[2].Asset)

	// Input slice keeps its original order.
	assert.Equal(t, "C", trades[0].Asset)
	assert.Equal(t, "A", trades[1].Asset)
}

func TestSortTradesChronologically_StableForEqualTimestamps(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	trades := []Trade{
		{Asset: "FIRST", Timestamp: base},
		{Asset: "SECOND", Timestamp: base},
	}

	sorted := SortTradesChronologically(trades)
	assert.Equal(t, "FIRST", sorted[0].Asset)
	assert.Equal(t, "SECOND", sorted[1].Asset)
}

func TestTrade_Notional(t *testing.T) {
	trade := Trade{Quantity: 2.5, EntryPrice: 100}
	assert.Equal(t, 250.0, trade.Notional())
}

func TestTrade_IsClosed(t *testing.T) {
	zero := 0.0
	assert.False(t, Trade{}.IsClosed())
	// A break-even trade is still closed.
	assert.True(t, Trade{PnL: &zero}.IsClosed())
}

func TestRiskProfile_Rounded(t *testing.T) {
	profile := RiskProfile{
		OverallScore:          66.666,
		OvertradingScore:      33.333,
		LossAversionScore:     49.5,
		RevengeTradingScore:   50.4,
		DisciplineScore:       0.2,
		EmotionalControlScore: 99.9,
	}

	rounded := profile.Rounded()
	assert.Equal(t, 67.0, rounded.OverallScore)
	assert.Equal(t, 33.0, rounded.OvertradingScore)
	assert.Equal(t, 50.0, rounded.LossAversionScore)
	assert.Equal(t, 50.0, rounded.RevengeTradingScore)
	assert.Equal(t, 0.0, rounded.DisciplineScore)
	assert.Equal(t, 100.0, rounded.EmotionalControlScore)

	// The receiver is not mutated.
	assert.Equal(t, 66.666, profile.OverallScore)
}
