// src/processors/insight_processor.go
package processors

import (
	"fmt"
	"math"
	"sort"

	"github.com/username/biaslens/src/models"
	"github.com/username/biaslens/src/utils"
)

// InsightProcessor derives the charting and coaching summaries from a trade
// history plus the detected biases. Like the detectors it is pure: immutable
// input, fresh output.
type InsightProcessor struct {
	cfg DetectorConfig
}

func NewInsightProcessor(cfg DetectorConfig) *InsightProcessor {
	return &InsightProcessor{cfg: cfg}
}

// Build computes timeline, heatmap, asset mix, derived stats, suggestions and
// journaling prompts. When the history exceeds the configured cap, only the
// most recent trades are considered.
func (p *InsightProcessor) Build(trades []models.Trade, findings []models.BiasFinding) *models.Insights {
	sorted := models.SortTradesChronologically(trades)
	if p.cfg.InsightMaxTrades > 0 && len(sorted) > p.cfg.InsightMaxTrades {
		sorted = sorted[len(sorted)-p.cfg.InsightMaxTrades:]
	}

	insights := &models.Insights{
		Timeline:    p.buildTimeline(sorted),
		AssetMix:    p.buildAssetMix(sorted),
		Prompts:     p.buildPrompts(findings),
		Suggestions: nil,
	}

	for _, t := range sorted {
		insights.Heatmap[int(t.Timestamp.Weekday())][t.Timestamp.Hour()]++
	}

	insights.Stats = p.buildStats(sorted, len(insights.Timeline))
	insights.Suggestions = p.buildSuggestions(insights.Stats)
	return insights
}

func (p *InsightProcessor) buildTimeline(sorted []models.Trade) []models.TimelinePoint {
	type dayBucket struct {
		pnl   float64
		count int
	}
	byDay := make(map[string]*dayBucket)
	for _, t := range sorted {
		day := t.Timestamp.Format("2006-01-02")
		bucket, ok := byDay[day]
		if !ok {
			bucket = &dayBucket{}
			byDay[day] = bucket
		}
		bucket.count++
		if t.PnL != nil {
			bucket.pnl += *t.PnL
		}
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	timeline := make([]models.TimelinePoint, 0, len(days))
	var cumulative float64
	for _, day := range days {
		bucket := byDay[day]
		cumulative += bucket.pnl
		timeline = append(timeline, models.TimelinePoint{
			Date:          day,
			PnL:           utils.RoundFloat(bucket.pnl, 2),
			TradeCount:    bucket.count,
			CumulativePnL: utils.RoundFloat(cumulative, 2),
		})
	}
	return timeline
}

func (p *InsightProcessor) buildAssetMix(sorted []models.Trade) []models.AssetSummary {
	type assetAgg struct {
		count int
		pnl   float64
	}
	byAsset := make(map[string]*assetAgg)
	for _, t := range sorted {
		agg, ok := byAsset[t.Asset]
		if !ok {
			agg = &assetAgg{}
			byAsset[t.Asset] = agg
		}
		agg.count++
		if t.PnL != nil {
			agg.pnl += *t.PnL
		}
	}

	mix := make([]models.AssetSummary, 0, len(byAsset))
	for asset, agg := range byAsset {
		mix = append(mix, models.AssetSummary{
			Asset:      asset,
			TradeCount: agg.count,
			PnL:        utils.RoundFloat(agg.pnl, 2),
		})
	}
	sort.Slice(mix, func(i, j int) bool {
		if mix[i].TradeCount != mix[j].TradeCount {
			return mix[i].TradeCount > mix[j].TradeCount
		}
		return mix[i].Asset < mix[j].Asset
	})
	if p.cfg.InsightTopAssets > 0 && len(mix) > p.cfg.InsightTopAssets {
		mix = mix[:p.cfg.InsightTopAssets]
	}
	return mix
}

func (p *InsightProcessor) buildStats(sorted []models.Trade, tradingDays int) models.InsightStats {
	stats := models.InsightStats{
		TotalTrades: len(sorted),
		TradingDays: tradingDays,
	}

	wins := 0
	closed := 0
	var totalPnL float64
	for _, t := range sorted {
		if t.PnL == nil {
			continue
		}
		closed++
		totalPnL += *t.PnL
		if *t.PnL > 0 {
			wins++
		}
	}
	stats.TotalPnL = utils.RoundFloat(totalPnL, 2)
	if closed > 0 {
		stats.WinRate = utils.RoundFloat(float64(wins)/float64(closed), 2)
	}
	if tradingDays > 0 {
		stats.AvgTradesPerDay = utils.RoundFloat(float64(len(sorted))/float64(tradingDays), 2)
	}

	for i := 1; i < len(sorted); i++ {
		prev := sorted[i-1]
		if prev.PnL != nil && *prev.PnL < 0 &&
			sorted[i].Timestamp.Sub(prev.Timestamp) <= p.cfg.RevengeFollowUpWindow {
			stats.RevengeTradeCount++
		}
	}

	stats.HighVolatilityFollowUps = p.countHighVolatilityFollowUps(sorted)
	return stats
}

// countHighVolatilityFollowUps counts trades opened shortly after a prior
// trade whose |pnl| sits in the top quartile of all non-zero |pnl| values.
// The quartile is a simple order statistic, not an interpolated percentile.
func (p *InsightProcessor) countHighVolatilityFollowUps(sorted []models.Trade) int {
	var magnitudes []float64
	for _, t := range sorted {
		if t.PnL != nil && *t.PnL != 0 {
			magnitudes = append(magnitudes, math.Abs(*t.PnL))
		}
	}
	if len(magnitudes) == 0 {
		return 0
	}
	sort.Float64s(magnitudes)
	idx := (len(magnitudes) * 3) / 4
	if idx >= len(magnitudes) {
		idx = len(magnitudes) - 1
	}
	threshold := magnitudes[idx]

	count := 0
	for i := 1; i < len(sorted); i++ {
		prev := sorted[i-1]
		if prev.PnL == nil || *prev.PnL == 0 {
			continue
		}
		if math.Abs(*prev.PnL) < threshold {
			continue
		}
		if sorted[i].Timestamp.Sub(prev.Timestamp) <= p.cfg.VolatilityFollowUpWindow {
			count++
		}
	}
	return count
}

func (p *InsightProcessor) buildSuggestions(stats models.InsightStats) []models.Suggestion {
	dailyCap := int(math.Max(3, math.Round(math.Max(stats.AvgTradesPerDay, 4)*0.75)))

	coolingOff := p.cfg.CoolingOffDefault
	if stats.RevengeTradeCount >= p.cfg.RevengeCountForCoolingOff {
		coolingOff = p.cfg.CoolingOffAfterRevenge
	}

	return []models.Suggestion{
		{
			Title: "Set a daily trade cap",
			Description: fmt.Sprintf(
				"You average %.1f trades per trading day. Limit yourself to %d trades per day and stop once you hit it.",
				stats.AvgTradesPerDay, dailyCap),
		},
		{
			Title: "Take a cooling-off break after losses",
			Description: fmt.Sprintf(
				"Step away from the screen for %d minutes after any losing trade before placing the next order.",
				int(coolingOff.Minutes())),
		},
		{
			Title:       "Size positions before the session",
			Description: "Decide position size from your plan before the market opens, and never adjust it based on the last trade's outcome.",
		},
	}
}

// Journaling prompts: a fixed base plus one prompt per detected bias kind.
var basePrompts = []string{
	"What was your plan for today's session, and did you follow it?",
	"Which trade are you least proud of today, and why did you take it?",
	"What would you do differently if you replayed today from the open?",
}

var biasPrompts = map[string]string{
	models.BiasOvertrading:    "Before each trade today, write one sentence on why this trade exists at all.",
	models.BiasLossAversion:   "Note the exact price where you'll exit a loser before entering. Did you honor it?",
	models.BiasRevengeTrading: "After your next loss, record how you feel and wait out the timer before trading again.",
	models.BiasDisposition:    "List your open losers. For each, would you open that position today at this price?",
	models.BiasAnchoring:      "What price are you anchored to on your most-traded asset, and what makes it special?",
	models.BiasConfirmation:   "Write down one piece of evidence against your current favorite position.",
	models.BiasOverconfidence: "After a winning streak, what changed about your position sizing? Should it have?",
	models.BiasConcentration:  "If your top asset gapped 20% against you overnight, what would the damage be?",
}

func (p *InsightProcessor) buildPrompts(findings []models.BiasFinding) []string {
	prompts := make([]string, 0, len(basePrompts)+len(findings))
	prompts = append(prompts, basePrompts...)
	for _, f := range findings {
		if prompt, ok := biasPrompts[f.Kind]; ok {
			prompts = append(prompts, prompt)
		}
	}
	return prompts
}
