// src/processors/anchoring_detector.go
package processors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/username/biaslens/src/models"
	"github.com/username/biaslens/src/utils"
)

// AnchoringDetector finds assets whose entry prices barely vary: repeatedly
// entering at nearly the same price suggests anchoring to a reference level
// rather than reacting to the market.
type AnchoringDetector struct {
	cfg DetectorConfig
}

func NewAnchoringDetector(cfg DetectorConfig) *AnchoringDetector {
	return &AnchoringDetector{cfg: cfg}
}

func (d *AnchoringDetector) Kind() string { return models.BiasAnchoring }

func (d *AnchoringDetector) Detect(trades []models.Trade) *models.BiasFinding {
	pricesByAsset := make(map[string][]float64)
	for _, t := range trades {
		pricesByAsset[t.Asset] = append(pricesByAsset[t.Asset], t.EntryPrice)
	}

	var anchoredAssets []string
	eligibleAssets := 0
	for asset, prices := range pricesByAsset {
		if len(prices) < d.cfg.AnchoringMinTradesPerAsset {
			continue
		}
		eligibleAssets++
		m := mean(prices)
		if m <= 0 {
			continue
		}
		if stddev(prices)/m < d.cfg.AnchoringMaxCV {
			anchoredAssets = append(anchoredAssets, asset)
		}
	}
	if len(anchoredAssets) == 0 {
		return nil
	}
	sort.Strings(anchoredAssets)

	score := capScore(float64(len(anchoredAssets)) * 30)

	evidence := map[string]float64{
		"anchoredAssetCount": float64(len(anchoredAssets)),
		"eligibleAssets":     float64(eligibleAssets),
		"maxCV":              utils.RoundFloat(d.cfg.AnchoringMaxCV, 2),
	}

	description := fmt.Sprintf(
		"%d asset(s) show entry prices clustered within a %.0f%% coefficient of variation: %s.",
		len(anchoredAssets), d.cfg.AnchoringMaxCV*100, strings.Join(anchoredAssets, ", "))

	return &models.BiasFinding{
		Kind:        d.Kind(),
		Severity:    severityFromScore(score, severityCutoffs{High: 60, Medium: 30}),
		Title:       "Price Anchoring",
		Description: description,
		Evidence:    evidence,
		Score:       score,
	}
}
