// src/services/analysis_service.go
package services

import (
	"fmt"
	"io"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/biaslens/src/database"
	"github.com/username/biaslens/src/logger"
	"github.com/username/biaslens/src/model"
	"github.com/username/biaslens/src/models"
	"github.com/username/biaslens/src/parsers/tradelog"
	"github.com/username/biaslens/src/processors"
	"github.com/username/biaslens/src/security/validation"
)

const (
	ckFindings             = "res_findings_user_%d"
	ckRiskProfile          = "res_risk_profile_user_%d"
	ckInsights             = "res_insights_user_%d"
	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

type analysisServiceImpl struct {
	parser           *tradelog.Parser
	suite            *processors.DetectorSuite
	insightProcessor *processors.InsightProcessor
	reportCache      *cache.Cache
}

func NewAnalysisService(cfg processors.DetectorConfig, reportCache *cache.Cache) AnalysisService {
	return &analysisServiceImpl{
		parser:           tradelog.NewParser(),
		suite:            processors.NewDetectorSuite(cfg),
		insightProcessor: processors.NewInsightProcessor(cfg),
		reportCache:      reportCache,
	}
}

// ProcessUpload parses a trade log CSV, persists the normalized trades and
// reruns the full bias analysis over the user's complete history.
func (s *analysisServiceImpl) ProcessUpload(fileReader io.Reader, userID int64, filename string, filesize int64) (*AnalysisResult, error) {
	logger.L.Info("processing trade log upload",
		"userID", userID, "filename", filename, "filesize", filesize)

	parsed, err := s.parser.Parse(fileReader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}
	if len(parsed.Trades) == 0 {
		return nil, fmt.Errorf("%w: file contained no usable trade rows", ErrParsingFailed)
	}

	sanitizeNotes(parsed.Trades)

	inserted, err := model.InsertTrades(database.DB, userID, parsed.Trades)
	if err != nil {
		return nil, fmt.Errorf("error storing parsed trades: %w", err)
	}
	if err := model.IncrementUploadCount(database.DB, userID); err != nil {
		logger.L.Warn("failed to increment upload count", "userID", userID, "error", err)
	}
	logger.L.Info("trade log stored",
		"userID", userID, "inserted", inserted, "droppedRows", parsed.DroppedRows)

	result, err := s.runAnalysis(userID)
	if err != nil {
		return nil, err
	}
	result.DroppedRows = parsed.DroppedRows
	return result, nil
}

// AddTrades stores manually entered trades and reruns the analysis.
func (s *analysisServiceImpl) AddTrades(userID int64, trades []models.Trade) (*AnalysisResult, error) {
	if len(trades) == 0 {
		return nil, fmt.Errorf("%w: no trades provided", ErrNoTrades)
	}
	sanitizeNotes(trades)
	if _, err := model.InsertTrades(database.DB, userID, trades); err != nil {
		return nil, fmt.Errorf("error storing trades: %w", err)
	}
	return s.runAnalysis(userID)
}

// RerunAnalysis recomputes findings, risk profile and insights from the
// trades already stored for the user.
func (s *analysisServiceImpl) RerunAnalysis(userID int64) (*AnalysisResult, error) {
	return s.runAnalysis(userID)
}

func (s *analysisServiceImpl) runAnalysis(userID int64) (*AnalysisResult, error) {
	trades, err := model.ListTrades(database.DB, userID, 0, "asc")
	if err != nil {
		return nil, fmt.Errorf("error loading trades for analysis: %w", err)
	}
	if len(trades) == 0 {
		return nil, ErrNoTrades
	}

	findings := s.suite.Run(trades)
	profile := processors.BuildRiskProfile(findings).Rounded()
	insights := s.insightProcessor.Build(trades, findings)

	if err := model.ReplaceFindings(database.DB, userID, findings); err != nil {
		return nil, fmt.Errorf("%w: storing findings: %v", ErrAnalysisFailed, err)
	}
	if err := model.SaveRiskProfile(database.DB, userID, profile); err != nil {
		return nil, fmt.Errorf("%w: storing risk profile: %v", ErrAnalysisFailed, err)
	}

	s.InvalidateUserCache(userID)
	s.reportCache.Set(fmt.Sprintf(ckFindings, userID), findings, DefaultCacheExpiration)
	s.reportCache.Set(fmt.Sprintf(ckRiskProfile, userID), &profile, DefaultCacheExpiration)
	s.reportCache.Set(fmt.Sprintf(ckInsights, userID), insights, DefaultCacheExpiration)

	logger.L.Info("bias analysis completed",
		"userID", userID, "trades", len(trades), "findings", len(findings),
		"overallScore", profile.OverallScore)

	return &AnalysisResult{
		Findings:    findings,
		RiskProfile: profile,
		Insights:    insights,
		TradeCount:  len(trades),
	}, nil
}

func (s *analysisServiceImpl) GetFindings(userID int64) ([]models.BiasFinding, error) {
	cacheKey := fmt.Sprintf(ckFindings, userID)
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.([]models.BiasFinding), nil
	}
	findings, err := model.ListFindings(database.DB, userID)
	if err != nil {
		return nil, err
	}
	s.reportCache.Set(cacheKey, findings, DefaultCacheExpiration)
	return findings, nil
}

func (s *analysisServiceImpl) GetRiskProfile(userID int64) (*models.RiskProfile, error) {
	cacheKey := fmt.Sprintf(ckRiskProfile, userID)
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.(*models.RiskProfile), nil
	}
	profile, err := model.GetLatestRiskProfile(database.DB, userID)
	if err != nil {
		return nil, err
	}
	s.reportCache.Set(cacheKey, profile, DefaultCacheExpiration)
	return profile, nil
}

// GetInsights rebuilds insights from stored trades when the cache misses;
// insights are derived data and are never persisted.
func (s *analysisServiceImpl) GetInsights(userID int64) (*models.Insights, error) {
	cacheKey := fmt.Sprintf(ckInsights, userID)
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.(*models.Insights), nil
	}

	trades, err := model.ListTrades(database.DB, userID, 0, "asc")
	if err != nil {
		return nil, err
	}
	if len(trades) == 0 {
		return nil, ErrNoTrades
	}
	findings, err := s.GetFindings(userID)
	if err != nil {
		return nil, err
	}
	insights := s.insightProcessor.Build(trades, findings)
	s.reportCache.Set(cacheKey, insights, DefaultCacheExpiration)
	return insights, nil
}

func (s *analysisServiceImpl) GetTrades(userID int64, limit int, order string) ([]models.Trade, error) {
	return model.ListTrades(database.DB, userID, limit, order)
}

// DeleteTrades removes the user's trades along with all derived analysis data.
func (s *analysisServiceImpl) DeleteTrades(userID int64) error {
	deleted, err := model.DeleteAllTrades(database.DB, userID)
	if err != nil {
		return fmt.Errorf("error deleting trades: %w", err)
	}
	if err := model.DeleteFindings(database.DB, userID); err != nil {
		return fmt.Errorf("error deleting findings: %w", err)
	}
	if err := model.DeleteRiskProfiles(database.DB, userID); err != nil {
		return fmt.Errorf("error deleting risk profiles: %w", err)
	}
	s.InvalidateUserCache(userID)
	logger.L.Info("trade history deleted", "userID", userID, "tradesDeleted", deleted)
	return nil
}

func (s *analysisServiceImpl) InvalidateUserCache(userID int64) {
	s.reportCache.Delete(fmt.Sprintf(ckFindings, userID))
	s.reportCache.Delete(fmt.Sprintf(ckRiskProfile, userID))
	s.reportCache.Delete(fmt.Sprintf(ckInsights, userID))
}

func sanitizeNotes(trades []models.Trade) {
	for i := range trades {
		if trades[i].Notes == "" {
			continue
		}
		notes := validation.StripUnprintable(trades[i].Notes)
		notes = validation.SanitizeText(notes)
		trades[i].Notes = validation.SanitizeForFormulaInjection(notes)
	}
}
