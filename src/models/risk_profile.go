// src/models/risk_profile.go
package models

import "math"

// RiskProfile is the six-score composite summary derived from all findings
// for a single trader. Higher sub-scores mean more of that bias, except for
// Overall, Discipline and EmotionalControl where higher is better.
type RiskProfile struct {
	OverallScore          float64 `json:"overall_score"`
	OvertradingScore      float64 `json:"overtrading_score"`
	LossAversionScore     float64 `json:"loss_aversion_score"`
	RevengeTradingScore   float64 `json:"revenge_trading_score"`
	DisciplineScore       float64 `json:"discipline_score"`
	EmotionalControlScore float64 `json:"emotional_control_score"`
}

// Rounded returns a presentation copy with every sub-score rounded to the
// nearest integer. Internal computation keeps full precision.
func (p RiskProfile) Rounded() RiskProfile {
	return RiskProfile{
		OverallScore:          math.Round(p.OverallScore),
		OvertradingScore:      math.Round(p.OvertradingScore),
		LossAversionScore:     math.Round(p.LossAversionScore),
		RevengeTradingScore:   math.Round(p.RevengeTradingScore),
		DisciplineScore:       math.Round(p.DisciplineScore),
		EmotionalControlScore: math.Round(p.EmotionalControlScore),
	}
}
