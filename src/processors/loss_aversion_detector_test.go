// src/processors/loss_aversion_detector_test.go
package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/biaslens/src/models"
)

func TestLossAversionDetector_NeedsBothWinsAndLosses(t *testing.T) {
	d := NewLossAversionDetector(DefaultDetectorConfig())

	onlyWins := []models.Trade{
		closedTradeAt(0, models.ActionBuy, "AAPL", 1, 100, 50),
		closedTradeAt(60, models.ActionBuy, "AAPL", 1, 100, 30),
	}
	assert.Nil(t, d.Detect(onlyWins))

	onlyLosses := []models.Trade{
		closedTradeAt(0, models.ActionBuy, "AAPL", 1, 100, -50),
		closedTradeAt(60, models.ActionBuy, "AAPL", 1, 100, -30),
	}
	assert.Nil(t, d.Detect(onlyLosses))
}

func TestLossAversionDetector_ModerateRatioLowSeverity(t *testing.T) {
	d := NewLossAversionDetector(DefaultDetectorConfig())

	// avgLoss/avgWin = 1.2 and winRate = 0.5:
	// (1.2-1)*40 + (0.6-0.5)*80 = 8 + 8 = 16.
	trades := []models.Trade{
		closedTradeAt(0, models.ActionBuy, "AAPL", 1, 100, 100),
		closedTradeAt(60, models.ActionBuy, "AAPL", 1, 100, -120),
		closedTradeAt(120, models.ActionBuy, "AAPL", 1, 100, 100),
		closedTradeAt(180, models.ActionBuy, "AAPL", 1, 100, -120),
	}

	finding := d.Detect(trades)
	require.NotNil(t, finding)
	assert.Equal(t, models.BiasLossAversion, finding.Kind)
	assert.Equal(t, models.SeverityLow, finding.Severity)
	assert.InDelta(t, 16.0, finding.Score, 1e-9)
	assert.Equal(t, 0.5, finding.Evidence["winRate"])
	assert.Equal(t, 1.2, finding.Evidence["lossWinRatio"])
}

func TestLossAversionDetector_BelowEmitFloor(t *testing.T) {
	d := NewLossAversionDetector(DefaultDetectorConfig())

	// Balanced wins and losses with a healthy win rate score 0 + small.
	trades := []models.Trade{
		closedTradeAt(0, models.ActionBuy, "AAPL", 1, 100, 100),
		closedTradeAt(60, models.ActionBuy, "AAPL", 1, 100, 100),
		closedTradeAt(120, models.ActionBuy, "AAPL", 1, 100, -100),
	}
	assert.Nil(t, d.Detect(trades))
}

func TestLossAversionDetector_ZeroPnLCountsAsClosedOnly(t *testing.T) {
	d := NewLossAversionDetector(DefaultDetectorConfig())

	// Two wins, two losses and four break-even trades: winRate = 2/8 = 0.25.
	// (1-1)*40 + (0.6-0.25)*80 = 28.
	trades := []models.Trade{
		closedTradeAt(0, models.ActionBuy, "AAPL", 1, 100, 100),
		closedTradeAt(10, models.ActionBuy, "AAPL", 1, 100, 100),
		closedTradeAt(20, models.ActionBuy, "AAPL", 1, 100, -100),
		closedTradeAt(30, models.ActionBuy, "AAPL", 1, 100, -100),
		closedTradeAt(40, models.ActionBuy, "AAPL", 1, 100, 0),
		closedTradeAt(50, models.ActionBuy, "AAPL", 1, 100, 0),
		closedTradeAt(60, models.ActionBuy, "AAPL", 1, 100, 0),
		closedTradeAt(70, models.ActionBuy, "AAPL", 1, 100, 0),
	}

	finding := d.Detect(trades)
	require.NotNil(t, finding)
	assert.InDelta(t, 28.0, finding.Score, 1e-9)
	assert.Equal(t, 8.0, finding.Evidence["closedTrades"])
	assert.Equal(t, models.SeverityMedium, finding.Severity)
}
