// src/processors/overconfidence_detector.go
package processors

import (
	"fmt"
	"math"

	"github.com/username/biaslens/src/models"
	"github.com/username/biaslens/src/utils"
)

// OverconfidenceDetector catches size escalation after wins: positions that
// grow sharply right after a profitable trade, faster still when the
// follow-up comes within minutes of the win.
type OverconfidenceDetector struct {
	cfg DetectorConfig
}

func NewOverconfidenceDetector(cfg DetectorConfig) *OverconfidenceDetector {
	return &OverconfidenceDetector{cfg: cfg}
}

func (d *OverconfidenceDetector) Kind() string { return models.BiasOverconfidence }

func (d *OverconfidenceDetector) Detect(trades []models.Trade) *models.BiasFinding {
	if len(trades) < d.cfg.OverconfidenceMinTrades {
		return nil
	}

	wins := 0
	closedTrades := 0
	for _, t := range trades {
		if t.PnL == nil {
			continue
		}
		closedTrades++
		if *t.PnL > 0 {
			wins++
		}
	}
	if closedTrades < d.cfg.OverconfidenceMinClosed {
		return nil
	}
	winRate := float64(wins) / float64(closedTrades)

	upsizeAfterWin := 0
	rapidUpsizeAfterWin := 0
	for i := 1; i < len(trades); i++ {
		prev := trades[i-1]
		if prev.PnL == nil || *prev.PnL <= 0 {
			continue
		}
		prevNotional := prev.Notional()
		if prevNotional <= 0 {
			continue
		}
		sizeRatio := trades[i].Notional() / prevNotional
		if sizeRatio >= d.cfg.UpsizeMultiple {
			upsizeAfterWin++
		}
		gap := trades[i].Timestamp.Sub(prev.Timestamp)
		if gap <= d.cfg.RapidUpsizeWindow && sizeRatio >= d.cfg.RapidUpsizeMultiple {
			rapidUpsizeAfterWin++
		}
	}

	score := capScore(float64(upsizeAfterWin)*14 + float64(rapidUpsizeAfterWin)*12 + math.Max(0, winRate-0.55)*100)
	if score < d.cfg.OverconfidenceEmitFloor {
		return nil
	}

	evidence := map[string]float64{
		"upsizeAfterWin":      float64(upsizeAfterWin),
		"rapidUpsizeAfterWin": float64(rapidUpsizeAfterWin),
		"winRate":             utils.RoundFloat(winRate, 2),
		"closedTrades":        float64(closedTrades),
	}

	description := fmt.Sprintf(
		"%d position(s) grew by %.0f%%+ immediately after a win (%d within %d minutes), on a %.0f%% win rate over %d closed trades.",
		upsizeAfterWin, (d.cfg.UpsizeMultiple-1)*100, rapidUpsizeAfterWin,
		int(d.cfg.RapidUpsizeWindow.Minutes()), winRate*100, closedTrades)

	return &models.BiasFinding{
		Kind:        d.Kind(),
		Severity:    severityFromScore(score, severityCutoffs{Critical: 75, High: 50, Medium: 30}),
		Title:       "Overconfidence After Wins",
		Description: description,
		Evidence:    evidence,
		Score:       score,
	}
}
