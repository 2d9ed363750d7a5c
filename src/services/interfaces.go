// src/services/interfaces.go
package services

import (
	"context"
	"errors"
	"io"

	"github.com/username/biaslens/src/model"
	"github.com/username/biaslens/src/models"
)

// AnalysisResult is the full output of one analysis run over a user's trade
// history: ranked findings, the derived risk profile, and dashboard insights.
type AnalysisResult struct {
	Findings    []models.BiasFinding `json:"findings"`
	RiskProfile models.RiskProfile   `json:"risk_profile"`
	Insights    *models.Insights     `json:"insights"`
	TradeCount  int                  `json:"trade_count"`
	DroppedRows int                  `json:"dropped_rows"`
}

// Define common service errors
var (
	ErrParsingFailed  = errors.New("csv parsing failed")
	ErrNoTrades       = errors.New("no trades available for analysis")
	ErrAnalysisFailed = errors.New("bias analysis failed")
)

// AnalysisService defines the interface for the core trade ingestion and
// bias analysis logic.
type AnalysisService interface {
	ProcessUpload(fileReader io.Reader, userID int64, filename string, filesize int64) (*AnalysisResult, error)
	AddTrades(userID int64, trades []models.Trade) (*AnalysisResult, error)
	RerunAnalysis(userID int64) (*AnalysisResult, error)
	GetFindings(userID int64) ([]models.BiasFinding, error)
	GetRiskProfile(userID int64) (*models.RiskProfile, error)
	GetInsights(userID int64) (*models.Insights, error)
	GetTrades(userID int64, limit int, order string) ([]models.Trade, error)
	DeleteTrades(userID int64) error
	InvalidateUserCache(userID int64)
}

// CoachService defines the interface for the AI trading coach.
type CoachService interface {
	SendMessage(ctx context.Context, userID int64, message string) (*model.ChatMessage, error)
	GetHistory(userID int64, limit int) ([]model.ChatMessage, error)
	ClearHistory(userID int64) error
}
