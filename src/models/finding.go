// src/models/finding.go
package models

// Bias kinds emitted by the detector suite. These are fixed tags, not
// free-form strings; the database and the frontend key off them.
const (
	BiasOvertrading    = "overtrading"
	BiasLossAversion   = "loss_aversion"
	BiasRevengeTrading = "revenge_trading"
	BiasDisposition    = "disposition_effect"
	BiasAnchoring      = "anchoring"
	BiasConfirmation   = "confirmation_bias"
	BiasOverconfidence = "overconfidence"
	BiasConcentration  = "concentration"
)

// Severity labels, ordered. Each detector maps its score onto these via
// fixed cutoffs.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// BiasFinding is one detector's positive output for one bias kind.
//
// Evidence carries every numeric metric referenced by Description so the two
// can be audited against each other; descriptions are interpolated from the
// evidence after it is computed, never the other way around.
type BiasFinding struct {
	Kind        string             `json:"kind"`
	Severity    string             `json:"severity"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Evidence    map[string]float64 `json:"evidence"`
	Score       float64            `json:"score"`
}
