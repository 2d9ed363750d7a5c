// src/processors/testhelpers_test.go
package processors

import (
	"time"

	"github.com/username/biaslens/src/models"
)

var testBase = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func fptr(v float64) *float64 { return &v }

// tradeAt builds a trade offset from the test base time by whole minutes.
func tradeAt(minuteOffset int, action, asset string, qty, price float64) models.Trade {
	return models.Trade{
		Timestamp:  testBase.Add(time.Duration(minuteOffset) * time.Minute),
		Action:     action,
		Asset:      asset,
		Quantity:   qty,
		EntryPrice: price,
	}
}

func closedTradeAt(minuteOffset int, action, asset string, qty, price, pnl float64) models.Trade {
	t := tradeAt(minuteOffset, action, asset, qty, price)
	t.PnL = fptr(pnl)
	return t
}
