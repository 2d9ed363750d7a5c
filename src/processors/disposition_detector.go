// src/processors/disposition_detector.go
package processors

import (
	"fmt"
	"math"

	"github.com/username/biaslens/src/models"
	"github.com/username/biaslens/src/utils"
)

// DispositionDetector measures the disposition effect: riding losers through
// larger adverse price moves than the favorable moves winners are allowed.
// Only trades with both a realized P/L and an exit price participate.
type DispositionDetector struct {
	cfg DetectorConfig
}

func NewDispositionDetector(cfg DetectorConfig) *DispositionDetector {
	return &DispositionDetector{cfg: cfg}
}

func (d *DispositionDetector) Kind() string { return models.BiasDisposition }

func (d *DispositionDetector) Detect(trades []models.Trade) *models.BiasFinding {
	var winMoves, lossMoves []float64
	for _, t := range trades {
		if t.PnL == nil || t.ExitPrice == nil {
			continue
		}
		pctMove := math.Abs(*t.ExitPrice-t.EntryPrice) / t.EntryPrice
		switch {
		case *t.PnL > 0:
			winMoves = append(winMoves, pctMove)
		case *t.PnL < 0:
			lossMoves = append(lossMoves, pctMove)
		}
	}
	if len(winMoves) < d.cfg.DispositionMinWins || len(lossMoves) < d.cfg.DispositionMinLosses {
		return nil
	}

	avgWinPctMove := mean(winMoves)
	if avgWinPctMove <= 0 {
		return nil
	}
	avgLossPctMove := mean(lossMoves)
	ratio := avgLossPctMove / avgWinPctMove
	if ratio < d.cfg.DispositionMinRatio {
		return nil
	}

	score := capScore((ratio - 1) * 50)

	evidence := map[string]float64{
		"avgWinPctMove":  utils.RoundFloat(avgWinPctMove*100, 2),
		"avgLossPctMove": utils.RoundFloat(avgLossPctMove*100, 2),
		"ratio":          utils.RoundFloat(ratio, 2),
		"winners":        float64(len(winMoves)),
		"losers":         float64(len(lossMoves)),
	}

	description := fmt.Sprintf(
		"Losing positions moved %.2f%% against entry on average before being closed, versus %.2f%% for winners (ratio %.2f).",
		evidence["avgLossPctMove"], evidence["avgWinPctMove"], evidence["ratio"])

	return &models.BiasFinding{
		Kind:        d.Kind(),
		Severity:    severityFromScore(score, severityCutoffs{High: 60, Medium: 35}),
		Title:       "Disposition Effect",
		Description: description,
		Evidence:    evidence,
		Score:       score,
	}
}
