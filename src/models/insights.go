// src/models/insights.go
package models

// TimelinePoint is one calendar-day bucket of realized P/L for charting.
type TimelinePoint struct {
	Date          string  `json:"date"` // YYYY-MM-DD
	PnL           float64 `json:"pnl"`
	TradeCount    int     `json:"trade_count"`
	CumulativePnL float64 `json:"cumulative_pnl"`
}

// AssetSummary is one entry of the top-N asset mix.
type AssetSummary struct {
	Asset      string  `json:"asset"`
	TradeCount int     `json:"trade_count"`
	PnL        float64 `json:"pnl"`
}

// InsightStats are the derived per-user summary statistics.
type InsightStats struct {
	TotalTrades             int     `json:"total_trades"`
	TotalPnL                float64 `json:"total_pnl"`
	WinRate                 float64 `json:"win_rate"`
	TradingDays             int     `json:"trading_days"`
	AvgTradesPerDay         float64 `json:"avg_trades_per_day"`
	RevengeTradeCount       int     `json:"revenge_trade_count"`
	HighVolatilityFollowUps int     `json:"high_volatility_follow_ups"`
}

// Suggestion is one actionable recommendation with parameters computed from
// the trader's own statistics.
type Suggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Insights is everything the coaching and reporting surfaces consume:
// a daily P/L timeline, a 7x24 day-of-week by hour-of-day trade count
// heatmap (zero-filled, no sparse gaps), the asset mix, derived stats,
// suggestions and journaling prompts.
type Insights struct {
	Timeline    []TimelinePoint `json:"timeline"`
	Heatmap     [7][24]int      `json:"heatmap"`
	AssetMix    []AssetSummary  `json:"asset_mix"`
	Stats       InsightStats    `json:"stats"`
	Suggestions []Suggestion    `json:"suggestions"`
	Prompts     []string        `json:"prompts"`
}
