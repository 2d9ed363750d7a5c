// src/processors/revenge_trading_detector_test.go
package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/biaslens/src/models"
)

func TestRevengeTradingDetector_BelowMinTrades(t *testing.T) {
	d := NewRevengeTradingDetector(DefaultDetectorConfig())

	trades := []models.Trade{
		closedTradeAt(0, models.ActionBuy, "AAPL", 1, 100, -50),
		tradeAt(5, models.ActionBuy, "AAPL", 2, 100),
	}
	assert.Nil(t, d.Detect(trades))
}

func TestRevengeTradingDetector_QuickFollowUpsAfterLosses(t *testing.T) {
	d := NewRevengeTradingDetector(DefaultDetectorConfig())

	// Three trades fired within 30 minutes of a loss, one of them upsized by
	// more than 20%: 3*15 + 1*25 = 70.
	trades := []models.Trade{
		closedTradeAt(0, models.ActionBuy, "AAPL", 1, 100, -50),
		closedTradeAt(10, models.ActionBuy, "AAPL", 1, 100, -50),
		closedTradeAt(20, models.ActionBuy, "AAPL", 1, 100, -50),
		closedTradeAt(29, models.ActionBuy, "AAPL", 1.5, 100, 10),
		tradeAt(120, models.ActionBuy, "AAPL", 1, 100),
	}

	finding := d.Detect(trades)
	require.NotNil(t, finding)
	assert.Equal(t, models.BiasRevengeTrading, finding.Kind)
	assert.Equal(t, models.SeverityHigh, finding.Severity)
	assert.InDelta(t, 70.0, finding.Score, 1e-9)
	assert.Equal(t, 3.0, finding.Evidence["revengeInstances"])
	assert.Equal(t, 1.0, finding.Evidence["increasedRiskAfterLoss"])
	assert.Equal(t, 0.0, finding.Evidence["bigBetsAfterStreaks"])
}

func TestRevengeTradingDetector_BigBetAfterLossStreak(t *testing.T) {
	d := NewRevengeTradingDetector(DefaultDetectorConfig())

	// Three consecutive losses spaced an hour apart (no quick follow-ups),
	// then a bet over 1.5x the last streak notional: 1*30 = 30.
	trades := []models.Trade{
		closedTradeAt(0, models.ActionBuy, "AAPL", 1, 100, -50),
		closedTradeAt(60, models.ActionBuy, "AAPL", 1, 100, -50),
		closedTradeAt(120, models.ActionBuy, "AAPL", 1, 100, -50),
		closedTradeAt(240, models.ActionBuy, "AAPL", 2, 100, 10),
		tradeAt(360, models.ActionBuy, "AAPL", 1, 100),
	}

	finding := d.Detect(trades)
	require.NotNil(t, finding)
	assert.InDelta(t, 30.0, finding.Score, 1e-9)
	assert.Equal(t, models.SeverityMedium, finding.Severity)
	assert.Equal(t, 1.0, finding.Evidence["bigBetsAfterStreaks"])
}

func TestRevengeTradingDetector_SlowTradingDoesNotEmit(t *testing.T) {
	d := NewRevengeTradingDetector(DefaultDetectorConfig())

	trades := []models.Trade{
		closedTradeAt(0, models.ActionBuy, "AAPL", 1, 100, -50),
		closedTradeAt(120, models.ActionBuy, "AAPL", 1, 100, 20),
		closedTradeAt(240, models.ActionBuy, "AAPL", 1, 100, -50),
		closedTradeAt(360, models.ActionBuy, "AAPL", 1, 100, 20),
		closedTradeAt(480, models.ActionBuy, "AAPL", 1, 100, 20),
	}
	assert.Nil(t, d.Detect(trades))
}
