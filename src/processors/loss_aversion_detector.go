// src/processors/loss_aversion_detector.go
package processors

import (
	"fmt"
	"math"

	"github.com/username/biaslens/src/models"
	"github.com/username/biaslens/src/utils"
)

// LossAversionDetector compares the trader's average loss against the average
// win over closed trades. Letting losses run while cutting winners short
// shows up as a loss/win ratio above 1 combined with a depressed win rate.
type LossAversionDetector struct {
	cfg DetectorConfig
}

func NewLossAversionDetector(cfg DetectorConfig) *LossAversionDetector {
	return &LossAversionDetector{cfg: cfg}
}

func (d *LossAversionDetector) Kind() string { return models.BiasLossAversion }

func (d *LossAversionDetector) Detect(trades []models.Trade) *models.BiasFinding {
	var wins, losses []float64
	closedTrades := 0
	for _, t := range trades {
		if t.PnL == nil {
			continue
		}
		closedTrades++
		switch {
		case *t.PnL > 0:
			wins = append(wins, *t.PnL)
		case *t.PnL < 0:
			losses = append(losses, math.Abs(*t.PnL))
		}
	}
	if len(wins) == 0 || len(losses) == 0 {
		return nil
	}

	avgWin := mean(wins)
	if avgWin <= 0 {
		return nil
	}
	avgLoss := mean(losses)
	lossWinRatio := avgLoss / avgWin
	winRate := float64(len(wins)) / float64(closedTrades)

	score := capScore(math.Max(0, lossWinRatio-1)*40 + math.Max(0, 0.6-winRate)*80)
	if score < d.cfg.LossAversionEmitFloor {
		return nil
	}

	evidence := map[string]float64{
		"avgWin":       utils.RoundFloat(avgWin, 2),
		"avgLoss":      utils.RoundFloat(avgLoss, 2),
		"lossWinRatio": utils.RoundFloat(lossWinRatio, 2),
		"winRate":      utils.RoundFloat(winRate, 2),
		"closedTrades": float64(closedTrades),
	}

	description := fmt.Sprintf(
		"Average loss $%.2f vs average win $%.2f (ratio %.2f) with a %.0f%% win rate over %d closed trades.",
		evidence["avgLoss"], evidence["avgWin"], evidence["lossWinRatio"], winRate*100, closedTrades)

	return &models.BiasFinding{
		Kind:        d.Kind(),
		Severity:    severityFromScore(score, severityCutoffs{Critical: 70, High: 45, Medium: 25}),
		Title:       "Loss Aversion Bias",
		Description: description,
		Evidence:    evidence,
		Score:       score,
	}
}
