// src/handlers/trade_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/username/biaslens/src/logger"
	"github.com/username/biaslens/src/models"
	"github.com/username/biaslens/src/security/validation"
	"github.com/username/biaslens/src/services"
)

const maxManualTradesPerRequest = 1000

type TradeHandler struct {
	analysisService services.AnalysisService
}

func NewTradeHandler(service services.AnalysisService) *TradeHandler {
	return &TradeHandler{
		analysisService: service,
	}
}

// HandleListTrades returns the user's trades. Supports ?limit= and ?order=.
func (h *TradeHandler) HandleListTrades(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	limit := 0
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed < 0 {
			sendJSONError(w, "Invalid 'limit' query parameter", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	order := strings.ToLower(r.URL.Query().Get("order"))
	if order == "" {
		order = "asc"
	}
	if order != "asc" && order != "desc" {
		sendJSONError(w, "Invalid 'order' query parameter, must be 'asc' or 'desc'", http.StatusBadRequest)
		return
	}

	trades, err := h.analysisService.GetTrades(userID, limit, order)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list trades", "error", err)
		sendJSONError(w, "Failed to retrieve trades", http.StatusInternalServerError)
		return
	}
	if trades == nil {
		trades = []models.Trade{}
	}
	writeJSON(w, http.StatusOK, trades)
}

// HandleAddTrades stores manually entered trades and returns the refreshed
// analysis result.
func (h *TradeHandler) HandleAddTrades(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	ctxLogger := logger.FromContext(r.Context())

	var trades []models.Trade
	if err := json.NewDecoder(r.Body).Decode(&trades); err != nil {
		sendJSONError(w, "Invalid request body, expected a JSON array of trades", http.StatusBadRequest)
		return
	}
	if len(trades) == 0 {
		sendJSONError(w, "At least one trade is required", http.StatusBadRequest)
		return
	}
	if len(trades) > maxManualTradesPerRequest {
		sendJSONError(w, fmt.Sprintf("Too many trades in one request (max %d)", maxManualTradesPerRequest), http.StatusBadRequest)
		return
	}

	for i := range trades {
		if err := validateManualTrade(&trades[i]); err != nil {
			sendJSONError(w, fmt.Sprintf("trade %d: %v", i, err), http.StatusBadRequest)
			return
		}
	}

	result, err := h.analysisService.AddTrades(userID, trades)
	if err != nil {
		ctxLogger.Error("Failed to add manual trades", "error", err)
		sendJSONError(w, "Failed to store trades", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// HandleDeleteTrades removes the user's full trade history and derived data.
func (h *TradeHandler) HandleDeleteTrades(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	if err := h.analysisService.DeleteTrades(userID); err != nil {
		logger.FromContext(r.Context()).Error("Failed to delete trades", "error", err)
		sendJSONError(w, "Failed to delete trades", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func validateManualTrade(t *models.Trade) error {
	if t.Timestamp.IsZero() {
		return errors.New("timestamp is required")
	}
	t.Action = strings.ToLower(strings.TrimSpace(t.Action))
	if err := validation.ValidateTradeAction(t.Action); err != nil {
		return err
	}
	t.Asset = strings.ToUpper(strings.TrimSpace(t.Asset))
	if err := validation.ValidateAssetSymbol(t.Asset); err != nil {
		return err
	}
	if t.Quantity <= 0 {
		return errors.New("quantity must be positive")
	}
	if t.EntryPrice <= 0 {
		return errors.New("entry_price must be positive")
	}
	if err := validation.ValidateStringMaxLength(t.Notes, validation.MaxNotesLength, "notes"); err != nil {
		return err
	}
	return validation.CheckXSSPatterns(t.Notes, "notes", t.Asset)
}
