// src/processors/confirmation_detector.go
package processors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/username/biaslens/src/models"
	"github.com/username/biaslens/src/utils"
)

// ConfirmationDetector flags assets traded almost exclusively in one
// direction. A heavily one-sided book suggests the trader only acts on
// information confirming an existing view.
type ConfirmationDetector struct {
	cfg DetectorConfig
}

func NewConfirmationDetector(cfg DetectorConfig) *ConfirmationDetector {
	return &ConfirmationDetector{cfg: cfg}
}

func (d *ConfirmationDetector) Kind() string { return models.BiasConfirmation }

func (d *ConfirmationDetector) Detect(trades []models.Trade) *models.BiasFinding {
	type sideCount struct{ buys, sells int }
	byAsset := make(map[string]*sideCount)
	for _, t := range trades {
		counts, ok := byAsset[t.Asset]
		if !ok {
			counts = &sideCount{}
			byAsset[t.Asset] = counts
		}
		if t.Action == models.ActionBuy {
			counts.buys++
		} else {
			counts.sells++
		}
	}

	var biasedAssets []string
	eligibleAssets := 0
	for asset, counts := range byAsset {
		total := counts.buys + counts.sells
		if total < d.cfg.ConfirmationMinTradesPerAsset {
			continue
		}
		eligibleAssets++
		dominant := counts.buys
		if counts.sells > dominant {
			dominant = counts.sells
		}
		if float64(dominant)/float64(total) > d.cfg.ConfirmationDominance {
			biasedAssets = append(biasedAssets, asset)
		}
	}
	if len(biasedAssets) == 0 {
		return nil
	}
	sort.Strings(biasedAssets)

	score := capScore(float64(len(biasedAssets)) * 25)

	evidence := map[string]float64{
		"biasedAssetCount": float64(len(biasedAssets)),
		"eligibleAssets":   float64(eligibleAssets),
		"dominanceFloor":   utils.RoundFloat(d.cfg.ConfirmationDominance, 2),
	}

	description := fmt.Sprintf(
		"%d asset(s) are traded more than %.0f%% in a single direction: %s.",
		len(biasedAssets), d.cfg.ConfirmationDominance*100, strings.Join(biasedAssets, ", "))

	return &models.BiasFinding{
		Kind:        d.Kind(),
		Severity:    severityFromScore(score, severityCutoffs{High: 50, Medium: 25}),
		Title:       "Confirmation Bias",
		Description: description,
		Evidence:    evidence,
		Score:       score,
	}
}
