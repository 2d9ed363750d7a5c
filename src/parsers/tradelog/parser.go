// src/parsers/tradelog/parser.go
package tradelog

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/username/biaslens/src/models"
)

// Canonical field names after header normalization.
const (
	colTimestamp = "timestamp"
	colAction    = "action"
	colAsset     = "asset"
	colQuantity  = "quantity"
	colPrice     = "entry_price"
	colExitPrice = "exit_price"
	colPnL       = "pnl"
	colBalance   = "account_balance"
	colNotes     = "notes"
)

// headerSynonyms maps accepted column headers (case-insensitive) to the
// canonical field. Exports differ wildly between brokers; this table is the
// single place new spellings get added.
var headerSynonyms = map[string]string{
	"timestamp": colTimestamp,
	"date":      colTimestamp,
	"time":      colTimestamp,
	"datetime":  colTimestamp,

	"action":    colAction,
	"buy/sell":  colAction,
	"side":      colAction,
	"type":      colAction,
	"direction": colAction,

	"asset":      colAsset,
	"symbol":     colAsset,
	"ticker":     colAsset,
	"instrument": colAsset,
	"stock":      colAsset,

	"quantity": colQuantity,
	"qty":      colQuantity,
	"shares":   colQuantity,
	"units":    colQuantity,
	"size":     colQuantity,

	"price":       colPrice,
	"entry_price": colPrice,
	"entry price": colPrice,
	"entry":       colPrice,
	"open_price":  colPrice,

	"exit_price":  colExitPrice,
	"exit price":  colExitPrice,
	"exit":        colExitPrice,
	"close_price": colExitPrice,

	"pnl":         colPnL,
	"p/l":         colPnL,
	"pl":          colPnL,
	"profit":      colPnL,
	"profit/loss": colPnL,

	"balance":         colBalance,
	"account_balance": colBalance,
	"account balance": colBalance,

	"notes":   colNotes,
	"note":    colNotes,
	"comment": colNotes,
}

// actionSynonyms maps accepted action tokens (lowercased) to buy/sell.
// Unrecognized tokens cause the row to be dropped, never defaulted.
var actionSynonyms = map[string]string{
	"buy":      models.ActionBuy,
	"b":        models.ActionBuy,
	"bought":   models.ActionBuy,
	"long":     models.ActionBuy,
	"purchase": models.ActionBuy,
	"sell":     models.ActionSell,
	"s":        models.ActionSell,
	"sold":     models.ActionSell,
	"short":    models.ActionSell,
}

// timestampLayouts are tried in order until one parses.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"01/02/2006 15:04",
	"01/02/2006",
}

// ParseResult is the output of one normalization run. DroppedRows counts data
// rows that were excluded (too few columns, bad timestamp, unknown action,
// missing asset, non-positive quantity or price) so callers can surface an
// "N rows ignored" notice.
type ParseResult struct {
	Trades      []models.Trade
	DroppedRows int
}

// Parser converts heterogeneous tabular trade exports into canonical trades.
type Parser struct{}

// NewParser creates a new trade-log parser.
func NewParser() *Parser { return &Parser{} }

// Parse reads delimited text with a header row and returns the canonical
// trades in order of appearance. Malformed rows degrade gracefully to
// "fewer usable trades"; only a missing required column group is an error.
func (p *Parser) Parse(file io.Reader) (*ParseResult, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("tradelog parser: failed to read CSV header: %w", err)
	}

	// Resolve each column index to a canonical field once, up front.
	// The first column claiming a canonical field wins.
	fieldIndex := make(map[string]int)
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		canonical, ok := headerSynonyms[key]
		if !ok {
			continue
		}
		if _, taken := fieldIndex[canonical]; !taken {
			fieldIndex[canonical] = i
		}
	}

	for _, required := range []string{colTimestamp, colAction, colAsset, colQuantity, colPrice} {
		if _, ok := fieldIndex[required]; !ok {
			return nil, fmt.Errorf("tradelog parser: missing required column %q (or a synonym)", required)
		}
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("tradelog parser: failed to read CSV records: %w", err)
	}

	result := &ParseResult{}
	for _, record := range records {
		trade, ok := p.parseRow(record, fieldIndex)
		if !ok {
			result.DroppedRows++
			continue
		}
		result.Trades = append(result.Trades, trade)
	}
	return result, nil
}

// parseRow converts one data row, reporting ok=false when the row must be
// dropped. Dropping is silent by design: malformed input is expected.
func (p *Parser) parseRow(record []string, fieldIndex map[string]int) (models.Trade, bool) {
	cell := func(field string) (string, bool) {
		idx, ok := fieldIndex[field]
		if !ok || idx >= len(record) {
			return "", false
		}
		return strings.TrimSpace(record[idx]), true
	}

	rawTS, ok := cell(colTimestamp)
	if !ok {
		return models.Trade{}, false
	}
	ts, err := parseTimestamp(rawTS)
	if err != nil {
		return models.Trade{}, false
	}

	rawAction, ok := cell(colAction)
	if !ok {
		return models.Trade{}, false
	}
	action, ok := actionSynonyms[strings.ToLower(rawAction)]
	if !ok {
		return models.Trade{}, false
	}

	asset, ok := cell(colAsset)
	if !ok || asset == "" {
		return models.Trade{}, false
	}

	rawQty, ok := cell(colQuantity)
	if !ok {
		return models.Trade{}, false
	}
	quantity, err := parseNumber(rawQty)
	if err != nil || quantity <= 0 {
		return models.Trade{}, false
	}

	rawPrice, ok := cell(colPrice)
	if !ok {
		return models.Trade{}, false
	}
	entryPrice, err := parseNumber(rawPrice)
	if err != nil || entryPrice <= 0 {
		return models.Trade{}, false
	}

	trade := models.Trade{
		Timestamp:  ts,
		Action:     action,
		Asset:      asset,
		Quantity:   quantity,
		EntryPrice: entryPrice,
	}

	// Optional numeric fields: a present-but-unparseable value is treated the
	// same as absent. Zero is a valid value and stays distinct from "unknown".
	if raw, ok := cell(colExitPrice); ok && raw != "" {
		if v, err := parseNumber(raw); err == nil {
			trade.ExitPrice = &v
		}
	}
	if raw, ok := cell(colPnL); ok && raw != "" {
		if v, err := parseNumber(raw); err == nil {
			trade.PnL = &v
		}
	}
	if raw, ok := cell(colBalance); ok && raw != "" {
		if v, err := parseNumber(raw); err == nil && v > 0 {
			trade.AccountBalance = &v
		}
	}
	if raw, ok := cell(colNotes); ok {
		trade.Notes = raw
	}

	return trade, true
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp: %q", s)
}

// parseNumber tolerates the formats seen in broker exports: currency symbols,
// thousands separators, percent signs and parenthesized negatives, e.g.
// "$1,234.50", "(12.50)" -> -12.50, "5%" -> 5.
func parseNumber(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.Trim(cleaned, "\"")

	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = cleaned[1 : len(cleaned)-1]
	}

	cleaned = strings.NewReplacer("$", "", "€", "", "£", "", "%", "", " ", "").Replace(cleaned)

	switch {
	case strings.Contains(cleaned, ".") && strings.Contains(cleaned, ","):
		// "1,234.56" - commas are thousands separators
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	case strings.Count(cleaned, ",") == 1:
		// "12,5" - European decimal comma
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	default:
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("non-finite number: %q", s)
	}
	if negative {
		value = -value
	}
	return value, nil
}
