// src/models/trade.go
package models

import (
	"sort"
	"time"
)

// Trade actions after normalization.
const (
	ActionBuy  = "buy"
	ActionSell = "sell"
)

// Trade is the canonical unit of analysis. Every detector consumes a
// chronologically sorted copy of a []Trade and never mutates it.
//
// ExitPrice, PnL and AccountBalance are pointers on purpose: absence means
// "unknown", which is semantically distinct from zero. Detectors must filter
// on presence, never on truthiness.
type Trade struct {
	ID             int64     `json:"id,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	Action         string    `json:"action"`
	Asset          string    `json:"asset"`
	Quantity       float64   `json:"quantity"`
	EntryPrice     float64   `json:"entry_price"`
	ExitPrice      *float64  `json:"exit_price,omitempty"`
	PnL            *float64  `json:"pnl,omitempty"`
	AccountBalance *float64  `json:"account_balance,omitempty"`
	Notes          string    `json:"notes,omitempty"`
}

// Notional is the nominal position size of the trade.
func (t Trade) Notional() float64 {
	return t.Quantity * t.EntryPrice
}

// IsClosed reports whether the trade has a known realized P/L.
func (t Trade) IsClosed() bool {
	return t.PnL != nil
}

// SortTradesChronologically returns a fresh copy of trades ordered ascending
// by timestamp. The input slice is left untouched so callers keep ownership.
func SortTradesChronologically(trades []Trade) []Trade {
	sorted := make([]Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}
