// src/processors/aggregator_test.go
package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/username/biaslens/src/models"
)

func TestBuildRiskProfile_NoFindingsIsPerfect(t *testing.T) {
	profile := BuildRiskProfile(nil)

	assert.Equal(t, 100.0, profile.OverallScore)
	assert.Equal(t, 0.0, profile.OvertradingScore)
	assert.Equal(t, 0.0, profile.LossAversionScore)
	assert.Equal(t, 0.0, profile.RevengeTradingScore)
	assert.Equal(t, 100.0, profile.DisciplineScore)
	assert.Equal(t, 100.0, profile.EmotionalControlScore)
}

func TestBuildRiskProfile_CompositeScores(t *testing.T) {
	findings := []models.BiasFinding{
		{Kind: models.BiasOvertrading, Score: 80},
		{Kind: models.BiasLossAversion, Score: 40},
		{Kind: models.BiasRevengeTrading, Score: 60},
	}

	profile := BuildRiskProfile(findings)

	// mean = 60
	assert.InDelta(t, 40.0, profile.OverallScore, 1e-9)
	assert.Equal(t, 80.0, profile.OvertradingScore)
	assert.Equal(t, 40.0, profile.LossAversionScore)
	assert.Equal(t, 60.0, profile.RevengeTradingScore)
	// 100 - (80*0.4 + 60*0.6) = 32
	assert.InDelta(t, 32.0, profile.DisciplineScore, 1e-9)
	// 100 - (60*0.5 + 40*0.5) = 50
	assert.InDelta(t, 50.0, profile.EmotionalControlScore, 1e-9)
}

func TestBuildRiskProfile_ClampsAtZero(t *testing.T) {
	findings := []models.BiasFinding{
		{Kind: models.BiasOvertrading, Score: 100},
		{Kind: models.BiasRevengeTrading, Score: 100},
		{Kind: models.BiasLossAversion, Score: 100},
	}

	profile := BuildRiskProfile(findings)

	assert.Equal(t, 0.0, profile.OverallScore)
	assert.Equal(t, 0.0, profile.DisciplineScore)
	assert.Equal(t, 0.0, profile.EmotionalControlScore)
}

func TestBuildRiskProfile_FirstFindingPerKindWins(t *testing.T) {
	findings := []models.BiasFinding{
		{Kind: models.BiasOvertrading, Score: 70},
		{Kind: models.BiasOvertrading, Score: 20},
	}

	profile := BuildRiskProfile(findings)
	assert.Equal(t, 70.0, profile.OvertradingScore)
}

func TestBuildRiskProfile_OtherKindsAffectOverallOnly(t *testing.T) {
	findings := []models.BiasFinding{
		{Kind: models.BiasConcentration, Score: 50},
	}

	profile := BuildRiskProfile(findings)

	assert.InDelta(t, 50.0, profile.OverallScore, 1e-9)
	assert.Equal(t, 100.0, profile.DisciplineScore)
	assert.Equal(t, 100.0, profile.EmotionalControlScore)
}

func TestBuildRiskProfile_Idempotent(t *testing.T) {
	findings := []models.BiasFinding{
		{Kind: models.BiasOvertrading, Score: 33.3},
		{Kind: models.BiasLossAversion, Score: 16},
	}

	first := BuildRiskProfile(findings)
	second := BuildRiskProfile(findings)
	assert.Equal(t, first, second)
}
