// src/parsers/tradelog/parser_test.go
package tradelog

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_CanonicalHeaders(t *testing.T) {
	csvData := `timestamp,action,asset,quantity,entry_price,exit_price,pnl,account_balance,notes
2024-03-01T10:00:00Z,buy,AAPL,10,150.50,155.00,45.00,10000,first trade
2024-03-01T11:00:00Z,sell,AAPL,10,155.00,,,,"closing out"`

	result, err := NewParser().Parse(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, result.Trades, 2)
	assert.Equal(t, 0, result.DroppedRows)

	first := result.Trades[0]
	assert.Equal(t, "buy", first.Action)
	assert.Equal(t, "AAPL", first.Asset)
	assert.Equal(t, 10.0, first.Quantity)
	assert.Equal(t, 150.50, first.EntryPrice)
	require.NotNil(t, first.ExitPrice)
	assert.Equal(t, 155.00, *first.ExitPrice)
	require.NotNil(t, first.PnL)
	assert.Equal(t, 45.00, *first.PnL)
	require.NotNil(t, first.AccountBalance)
	assert.Equal(t, 10000.0, *first.AccountBalance)
	assert.Equal(t, "first trade", first.Notes)

	second := result.Trades[1]
	assert.Equal(t, "sell", second.Action)
	assert.Nil(t, second.ExitPrice)
	assert.Nil(t, second.PnL)
	assert.Nil(t, second.AccountBalance)
}

func TestParse_HeaderSynonymsAndCase(t *testing.T) {
	csvData := `Date,Side,Ticker,Qty,Price,P/L
2024-03-01 10:00:00,LONG,tsla,5,200,-25.50`

	result, err := NewParser().Parse(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, result.Trades, 1)

	trade := result.Trades[0]
	assert.Equal(t, "buy", trade.Action)
	assert.Equal(t, "tsla", trade.Asset)
	assert.Equal(t, 5.0, trade.Quantity)
	assert.Equal(t, 200.0, trade.EntryPrice)
	require.NotNil(t, trade.PnL)
	assert.Equal(t, -25.50, *trade.PnL)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), trade.Timestamp)
}

func TestParse_DropsBadRowsSilently(t *testing.T) {
	csvData := `timestamp,action,asset,quantity,price
2024-03-01,buy,AAPL,10,150
not-a-date,buy,AAPL,10,150
2024-03-02,hold,AAPL,10,150
2024-03-03,sell,AAPL,10,151`

	result, err := NewParser().Parse(strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Len(t, result.Trades, 2)
	assert.Equal(t, 2, result.DroppedRows)
}

func TestParse_MissingRequiredColumn(t *testing.T) {
	csvData := `timestamp,action,asset,quantity
2024-03-01,buy,AAPL,10`

	result, err := NewParser().Parse(strings.NewReader(csvData))
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "entry_price")
}

func TestParse_NonPositiveQuantityOrPriceDropped(t *testing.T) {
	csvData := `timestamp,action,asset,quantity,price
2024-03-01,buy,AAPL,0,150
2024-03-01,buy,AAPL,10,-5
2024-03-01,buy,AAPL,10,150`

	result, err := NewParser().Parse(strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Len(t, result.Trades, 1)
	assert.Equal(t, 2, result.DroppedRows)
}

func TestParse_ZeroPnLStaysDistinctFromMissing(t *testing.T) {
	csvData := `timestamp,action,asset,quantity,price,pnl
2024-03-01,sell,AAPL,10,150,0
2024-03-02,sell,AAPL,10,150,`

	result, err := NewParser().Parse(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, result.Trades, 2)

	require.NotNil(t, result.Trades[0].PnL)
	assert.Equal(t, 0.0, *result.Trades[0].PnL)
	assert.Nil(t, result.Trades[1].PnL)
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1234.5", 1234.5},
		{"$1,234.50", 1234.50},
		{"€ 99,95", 99.95},
		{"(12.50)", -12.50},
		{"5%", 5},
		{"-3.25", -3.25},
		{"1,234,567", 1234567},
	}
	for _, tc := range cases {
		got, err := parseNumber(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}

	_, err := parseNumber("abc")
	assert.Error(t, err)
}

func TestParse_ActionSynonyms(t *testing.T) {
	cases := map[string]string{
		"buy": "buy", "B": "buy", "Bought": "buy", "long": "buy", "PURCHASE": "buy",
		"sell": "sell", "s": "sell", "Sold": "sell", "short": "sell",
	}
	for raw, want := range cases {
		csvData := "timestamp,action,asset,quantity,price\n2024-03-01," + raw + ",AAPL,1,100"
		result, err := NewParser().Parse(strings.NewReader(csvData))
		require.NoError(t, err)
		require.Len(t, result.Trades, 1, "action %q", raw)
		assert.Equal(t, want, result.Trades[0].Action, "action %q", raw)
	}
}
