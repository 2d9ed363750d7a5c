// src/processors/revenge_trading_detector.go
package processors

import (
	"fmt"

	"github.com/username/biaslens/src/models"
)

// RevengeTradingDetector looks for trades fired quickly after a loss,
// especially with upsized risk, and for oversized bets placed right after a
// streak of consecutive losses.
type RevengeTradingDetector struct {
	cfg DetectorConfig
}

func NewRevengeTradingDetector(cfg DetectorConfig) *RevengeTradingDetector {
	return &RevengeTradingDetector{cfg: cfg}
}

func (d *RevengeTradingDetector) Kind() string { return models.BiasRevengeTrading }

func (d *RevengeTradingDetector) Detect(trades []models.Trade) *models.BiasFinding {
	if len(trades) < d.cfg.RevengeMinTrades {
		return nil
	}

	revengeInstances := 0
	increasedRiskAfterLoss := 0
	for i := 1; i < len(trades); i++ {
		prev := trades[i-1]
		if prev.PnL == nil || *prev.PnL >= 0 {
			continue
		}
		if trades[i].Timestamp.Sub(prev.Timestamp) > d.cfg.RevengeWindow {
			continue
		}
		revengeInstances++
		if trades[i].Notional() > prev.Notional()*(1+d.cfg.RevengeRiskIncreasePct) {
			increasedRiskAfterLoss++
		}
	}

	// Loss streaks: 3+ contiguous losing trades followed by a big bet
	// relative to the last trade of the streak.
	bigBetsAfterStreaks := 0
	streak := 0
	var lastStreakNotional float64
	for _, t := range trades {
		if t.PnL != nil && *t.PnL < 0 {
			streak++
			lastStreakNotional = t.Notional()
			continue
		}
		if streak >= d.cfg.LossStreakLength && t.Notional() > d.cfg.StreakBetMultiple*lastStreakNotional {
			bigBetsAfterStreaks++
		}
		streak = 0
	}

	score := capScore(float64(revengeInstances)*15 + float64(increasedRiskAfterLoss)*25 + float64(bigBetsAfterStreaks)*30)
	if score < d.cfg.RevengeEmitFloor {
		return nil
	}

	evidence := map[string]float64{
		"revengeInstances":       float64(revengeInstances),
		"increasedRiskAfterLoss": float64(increasedRiskAfterLoss),
		"bigBetsAfterStreaks":    float64(bigBetsAfterStreaks),
		"totalTrades":            float64(len(trades)),
	}

	description := fmt.Sprintf(
		"%d trade(s) opened within %d minutes of a losing trade; %d of them upsized the position by more than %.0f%%. "+
			"%d oversized bet(s) followed a streak of %d+ consecutive losses.",
		revengeInstances, int(d.cfg.RevengeWindow.Minutes()), increasedRiskAfterLoss,
		d.cfg.RevengeRiskIncreasePct*100, bigBetsAfterStreaks, d.cfg.LossStreakLength)

	return &models.BiasFinding{
		Kind:        d.Kind(),
		Severity:    severityFromScore(score, severityCutoffs{Critical: 70, High: 45, Medium: 25}),
		Title:       "Revenge Trading Pattern",
		Description: description,
		Evidence:    evidence,
		Score:       score,
	}
}
