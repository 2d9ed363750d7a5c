// src/processors/overtrading_detector.go
package processors

import (
	"fmt"
	"math"
	"time"

	"github.com/username/biaslens/src/models"
	"github.com/username/biaslens/src/utils"
)

// OvertradingDetector flags excessive trade frequency: bursts within a single
// hour, trades fired right after a big P/L swing, and rapid buy/sell flips on
// the same asset.
type OvertradingDetector struct {
	cfg DetectorConfig
}

func NewOvertradingDetector(cfg DetectorConfig) *OvertradingDetector {
	return &OvertradingDetector{cfg: cfg}
}

func (d *OvertradingDetector) Kind() string { return models.BiasOvertrading }

func (d *OvertradingDetector) Detect(trades []models.Trade) *models.BiasFinding {
	if len(trades) < d.cfg.OvertradingMinTrades {
		return nil
	}

	// Calendar-hour buckets.
	hourly := make(map[time.Time]int)
	for _, t := range trades {
		hourly[t.Timestamp.Truncate(time.Hour)]++
	}
	maxPerHour := 0
	for _, count := range hourly {
		if count > maxPerHour {
			maxPerHour = count
		}
	}
	avgPerHour := float64(len(trades)) / float64(len(hourly))

	// Trades opened shortly after a prior trade whose |pnl| was a big move
	// relative to that trade's balance (fallback baseline when unknown).
	tradesAfterBigMove := 0
	for i := 1; i < len(trades); i++ {
		prev := trades[i-1]
		if prev.PnL == nil {
			continue
		}
		threshold := d.cfg.BigMovePctOfBalance * d.cfg.balanceOrFallback(prev)
		if math.Abs(*prev.PnL) <= threshold {
			continue
		}
		if trades[i].Timestamp.Sub(prev.Timestamp) <= d.cfg.BigMoveFollowWindow {
			tradesAfterBigMove++
		}
	}

	// Adjacent same-asset trades whose action flips.
	positionSwitches := 0
	for i := 1; i < len(trades); i++ {
		if trades[i].Asset == trades[i-1].Asset && trades[i].Action != trades[i-1].Action {
			positionSwitches++
		}
	}
	switchRate := float64(positionSwitches) / float64(len(trades))

	score := capScore(float64(maxPerHour)*15 + float64(tradesAfterBigMove)*20 + switchRate*50)
	if score < d.cfg.OvertradingEmitFloor {
		return nil
	}

	evidence := map[string]float64{
		"maxTradesPerHour":   float64(maxPerHour),
		"avgTradesPerHour":   utils.RoundFloat(avgPerHour, 2),
		"tradesAfterBigMove": float64(tradesAfterBigMove),
		"positionSwitches":   float64(positionSwitches),
		"totalTrades":        float64(len(trades)),
	}

	description := fmt.Sprintf(
		"Trade frequency peaked at %d trades in a single hour (average %.2f per active hour). "+
			"%d trade(s) were opened within an hour of a big P/L move, and %d buy/sell flip(s) occurred across %d trades.",
		maxPerHour, evidence["avgTradesPerHour"], tradesAfterBigMove, positionSwitches, len(trades))

	return &models.BiasFinding{
		Kind:        d.Kind(),
		Severity:    severityFromScore(score, severityCutoffs{Critical: 75, High: 50, Medium: 30}),
		Title:       "Overtrading Detected",
		Description: description,
		Evidence:    evidence,
		Score:       score,
	}
}
