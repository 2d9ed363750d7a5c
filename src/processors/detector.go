// src/processors/detector.go
package processors

import (
	"math"
	"sort"
	"time"

	"github.com/username/biaslens/src/models"
)

// DetectorConfig carries every threshold the suite uses. Thresholds are
// injected at construction instead of living as package state so tests can
// override them without global mutation.
type DetectorConfig struct {
	// FallbackAccountBalance substitutes for a missing account_balance when a
	// detector needs a normalization denominator for "big move" checks.
	FallbackAccountBalance float64

	// Overtrading
	OvertradingMinTrades int
	BigMovePctOfBalance  float64       // |pnl| above this fraction of balance is a "big move"
	BigMoveFollowWindow  time.Duration // trades opened within this window of a big move count
	OvertradingEmitFloor float64

	// Loss aversion
	LossAversionEmitFloor float64

	// Revenge trading
	RevengeMinTrades       int
	RevengeWindow          time.Duration // window after a losing trade
	RevengeRiskIncreasePct float64       // notional increase over prior trade that counts as upsized risk
	LossStreakLength       int           // consecutive losses that form a streak
	StreakBetMultiple      float64       // notional multiple over the last streak trade that counts as a big bet
	RevengeEmitFloor       float64

	// Disposition effect
	DispositionMinWins   int
	DispositionMinLosses int
	DispositionMinRatio  float64 // loss/win pct-move ratio below this is not emitted

	// Anchoring
	AnchoringMinTradesPerAsset int
	AnchoringMaxCV             float64 // coefficient of variation below this marks an anchored asset

	// Confirmation bias
	ConfirmationMinTradesPerAsset int
	ConfirmationDominance         float64 // one-sided fraction above this marks a biased asset

	// Overconfidence
	OverconfidenceMinTrades int
	OverconfidenceMinClosed int
	UpsizeMultiple          float64       // notional multiple over prior trade after a win
	RapidUpsizeMultiple     float64       // lower multiple that still counts when the follow-up is fast
	RapidUpsizeWindow       time.Duration
	OverconfidenceEmitFloor float64

	// Concentration
	ConcentrationMinTrades int
	TopShareFloor          float64
	TopTwoShareFloor       float64
	ConcentrationEmitFloor float64

	// Insight builder
	InsightMaxTrades          int           // recent-window cap, 0 disables
	InsightTopAssets          int
	RevengeFollowUpWindow     time.Duration // revenge-trade stat window
	VolatilityFollowUpWindow  time.Duration // high-volatility follow-up stat window
	CoolingOffAfterRevenge    time.Duration // suggestion parameter when revenge count is high
	CoolingOffDefault         time.Duration
	RevengeCountForCoolingOff int
}

// DefaultDetectorConfig returns the production thresholds.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		FallbackAccountBalance: 10000,

		OvertradingMinTrades: 5,
		BigMovePctOfBalance:  0.03,
		BigMoveFollowWindow:  time.Hour,
		OvertradingEmitFloor: 20,

		LossAversionEmitFloor: 15,

		RevengeMinTrades:       5,
		RevengeWindow:          30 * time.Minute,
		RevengeRiskIncreasePct: 0.20,
		LossStreakLength:       3,
		StreakBetMultiple:      1.5,
		RevengeEmitFloor:       15,

		DispositionMinWins:   2,
		DispositionMinLosses: 2,
		DispositionMinRatio:  1.3,

		AnchoringMinTradesPerAsset: 3,
		AnchoringMaxCV:             0.05,

		ConfirmationMinTradesPerAsset: 3,
		ConfirmationDominance:         0.85,

		OverconfidenceMinTrades: 8,
		OverconfidenceMinClosed: 5,
		UpsizeMultiple:          1.35,
		RapidUpsizeMultiple:     1.2,
		RapidUpsizeWindow:       45 * time.Minute,
		OverconfidenceEmitFloor: 15,

		ConcentrationMinTrades: 10,
		TopShareFloor:          0.45,
		TopTwoShareFloor:       0.75,
		ConcentrationEmitFloor: 15,

		InsightMaxTrades:          10000,
		InsightTopAssets:          5,
		RevengeFollowUpWindow:     30 * time.Minute,
		VolatilityFollowUpWindow:  20 * time.Minute,
		CoolingOffAfterRevenge:    45 * time.Minute,
		CoolingOffDefault:         20 * time.Minute,
		RevengeCountForCoolingOff: 3,
	}
}

// Detector is one pure bias heuristic. Detect receives a chronologically
// sorted trade list it must not mutate, and returns nil when the signal is
// below the kind's emission floor or sample-size preconditions are unmet.
type Detector interface {
	Kind() string
	Detect(trades []models.Trade) *models.BiasFinding
}

// DetectorSuite runs the full set of detectors over one trade history.
// Detectors are independent; the suite may run them in any order.
type DetectorSuite struct {
	detectors []Detector
}

// NewDetectorSuite builds the suite with its fixed detector set.
func NewDetectorSuite(cfg DetectorConfig) *DetectorSuite {
	return &DetectorSuite{
		detectors: []Detector{
			NewOvertradingDetector(cfg),
			NewLossAversionDetector(cfg),
			NewRevengeTradingDetector(cfg),
			NewDispositionDetector(cfg),
			NewAnchoringDetector(cfg),
			NewConfirmationDetector(cfg),
			NewOverconfidenceDetector(cfg),
			NewConcentrationDetector(cfg),
		},
	}
}

// Run sorts a copy of the trades chronologically, runs every detector on it
// and returns the non-nil findings sorted descending by score. Ties keep
// insertion order (the fixed detector order above).
func (s *DetectorSuite) Run(trades []models.Trade) []models.BiasFinding {
	sorted := models.SortTradesChronologically(trades)

	var findings []models.BiasFinding
	for _, d := range s.detectors {
		if f := d.Detect(sorted); f != nil {
			findings = append(findings, *f)
		}
	}
	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Score > findings[j].Score
	})
	return findings
}

// severityCutoffs map a score onto the ordered severity labels. A
// non-positive Critical disables the critical tier for that detector.
type severityCutoffs struct {
	Critical float64
	High     float64
	Medium   float64
}

func severityFromScore(score float64, cuts severityCutoffs) string {
	switch {
	case cuts.Critical > 0 && score > cuts.Critical:
		return models.SeverityCritical
	case score > cuts.High:
		return models.SeverityHigh
	case score > cuts.Medium:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

func capScore(score float64) float64 {
	return math.Min(100, score)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev is the population standard deviation.
func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

// balanceOrFallback returns the trade's account balance when known, else the
// configured fallback baseline.
func (cfg DetectorConfig) balanceOrFallback(t models.Trade) float64 {
	if t.AccountBalance != nil && *t.AccountBalance > 0 {
		return *t.AccountBalance
	}
	return cfg.FallbackAccountBalance
}
