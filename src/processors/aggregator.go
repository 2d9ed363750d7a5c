// src/processors/aggregator.go
package processors

import (
	"math"

	"github.com/username/biaslens/src/models"
)

// BuildRiskProfile derives the six-score composite from one run's findings.
// Sub-scores default to 0 when the corresponding bias was not detected;
// zero findings means a perfect overall score of 100. All arithmetic stays
// full precision; callers round for presentation via RiskProfile.Rounded.
func BuildRiskProfile(findings []models.BiasFinding) models.RiskProfile {
	scoreByKind := make(map[string]float64, len(findings))
	var sum float64
	for _, f := range findings {
		if _, seen := scoreByKind[f.Kind]; !seen {
			scoreByKind[f.Kind] = f.Score
		}
		sum += f.Score
	}

	meanScore := 0.0
	if len(findings) > 0 {
		meanScore = sum / float64(len(findings))
	}

	overtrading := scoreByKind[models.BiasOvertrading]
	lossAversion := scoreByKind[models.BiasLossAversion]
	revenge := scoreByKind[models.BiasRevengeTrading]

	return models.RiskProfile{
		OverallScore:          math.Max(0, 100-meanScore),
		OvertradingScore:      overtrading,
		LossAversionScore:     lossAversion,
		RevengeTradingScore:   revenge,
		DisciplineScore:       math.Max(0, 100-(overtrading*0.4+revenge*0.6)),
		EmotionalControlScore: math.Max(0, 100-(revenge*0.5+lossAversion*0.5)),
	}
}
