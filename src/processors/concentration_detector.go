// src/processors/concentration_detector.go
package processors

import (
	"fmt"
	"math"
	"sort"

	"github.com/username/biaslens/src/models"
	"github.com/username/biaslens/src/utils"
)

// ConcentrationDetector flags portfolios dominated by one or two assets,
// with an extra penalty when the trader touches three or fewer symbols.
type ConcentrationDetector struct {
	cfg DetectorConfig
}

func NewConcentrationDetector(cfg DetectorConfig) *ConcentrationDetector {
	return &ConcentrationDetector{cfg: cfg}
}

func (d *ConcentrationDetector) Kind() string { return models.BiasConcentration }

func (d *ConcentrationDetector) Detect(trades []models.Trade) *models.BiasFinding {
	if len(trades) < d.cfg.ConcentrationMinTrades {
		return nil
	}

	countByAsset := make(map[string]int)
	for _, t := range trades {
		countByAsset[t.Asset]++
	}
	counts := make([]int, 0, len(countByAsset))
	for _, c := range countByAsset {
		counts = append(counts, c)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(counts)))

	total := float64(len(trades))
	topShare := float64(counts[0]) / total
	topTwoShare := topShare
	if len(counts) > 1 {
		topTwoShare = float64(counts[0]+counts[1]) / total
	}
	if topShare < d.cfg.TopShareFloor && topTwoShare < d.cfg.TopTwoShareFloor {
		return nil
	}

	uniqueAssets := len(countByAsset)
	diversityPenalty := 0.0
	if uniqueAssets <= 3 {
		diversityPenalty = float64(4-uniqueAssets) * 8
	}

	score := capScore(math.Max(0, (topShare-0.4)*130+(topTwoShare-0.65)*90+diversityPenalty))
	if score < d.cfg.ConcentrationEmitFloor {
		return nil
	}

	evidence := map[string]float64{
		"topShare":         utils.RoundFloat(topShare, 2),
		"topTwoShare":      utils.RoundFloat(topTwoShare, 2),
		"uniqueAssets":     float64(uniqueAssets),
		"diversityPenalty": diversityPenalty,
		"totalTrades":      total,
	}

	description := fmt.Sprintf(
		"The most-traded asset accounts for %.0f%% of all trades (top two: %.0f%%) across only %d distinct asset(s).",
		topShare*100, topTwoShare*100, uniqueAssets)

	return &models.BiasFinding{
		Kind:        d.Kind(),
		Severity:    severityFromScore(score, severityCutoffs{Critical: 75, High: 50, Medium: 30}),
		Title:       "Concentration Bias",
		Description: description,
		Evidence:    evidence,
		Score:       score,
	}
}
