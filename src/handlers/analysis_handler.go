// src/handlers/analysis_handler.go
package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/username/biaslens/src/logger"
	"github.com/username/biaslens/src/models"
	"github.com/username/biaslens/src/services"
	"github.com/username/biaslens/src/utils"
)

type AnalysisHandler struct {
	analysisService services.AnalysisService
}

func NewAnalysisHandler(service services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: service,
	}
}

// HandleGetFindings returns the stored bias findings, with ETag support so
// the dashboard can poll cheaply.
func (h *AnalysisHandler) HandleGetFindings(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	ctxLogger := logger.FromContext(r.Context())

	findings, err := h.analysisService.GetFindings(userID)
	if err != nil {
		ctxLogger.Error("Error retrieving findings", "error", err)
		sendJSONError(w, "Failed to retrieve findings", http.StatusInternalServerError)
		return
	}
	if findings == nil {
		findings = []models.BiasFinding{}
	}

	w.Header().Set("Cache-Control", "no-cache, private")
	if etagMatches(w, r, findings) {
		return
	}
	writeJSON(w, http.StatusOK, findings)
}

func (h *AnalysisHandler) HandleGetRiskProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	profile, err := h.analysisService.GetRiskProfile(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			sendJSONError(w, "No analysis has been run yet", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Error retrieving risk profile", "error", err)
		sendJSONError(w, "Failed to retrieve risk profile", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *AnalysisHandler) HandleGetInsights(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	insights, err := h.analysisService.GetInsights(userID)
	if err != nil {
		if errors.Is(err, services.ErrNoTrades) {
			sendJSONError(w, "No trades available for insights", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Error retrieving insights", "error", err)
		sendJSONError(w, "Failed to retrieve insights", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Cache-Control", "no-cache, private")
	if etagMatches(w, r, insights) {
		return
	}
	writeJSON(w, http.StatusOK, insights)
}

// HandleRerunAnalysis recomputes the analysis from the stored trade history.
func (h *AnalysisHandler) HandleRerunAnalysis(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	result, err := h.analysisService.RerunAnalysis(userID)
	if err != nil {
		if errors.Is(err, services.ErrNoTrades) {
			sendJSONError(w, "No trades available for analysis", http.StatusUnprocessableEntity)
			return
		}
		logger.FromContext(r.Context()).Error("Analysis rerun failed", "error", err)
		sendJSONError(w, "Failed to rerun analysis", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// etagMatches writes the ETag header for v and reports whether the client's
// If-None-Match already matches, in which case a 304 has been sent.
func etagMatches(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	currentETag, err := utils.GenerateETag(v)
	if err != nil || currentETag == "" {
		logger.L.Warn("Proceeding without ETag check due to ETag generation error", "error", err)
		return false
	}

	quotedETag := fmt.Sprintf("\"%s\"", currentETag)
	w.Header().Set("ETag", quotedETag)

	for _, cETag := range strings.Split(r.Header.Get("If-None-Match"), ",") {
		if strings.TrimSpace(cETag) == quotedETag {
			w.WriteHeader(http.StatusNotModified)
			return true
		}
	}
	return false
}
