// src/handlers/user_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/patrickmn/go-cache"
	"github.com/username/biaslens/src/database"
	"github.com/username/biaslens/src/logger"
	"github.com/username/biaslens/src/model"
	"github.com/username/biaslens/src/security"
	"github.com/username/biaslens/src/services"
	"github.com/username/biaslens/src/utils"
)

type contextKey string

const userIDContextKey contextKey = "userID"

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
var passwordRegex = regexp.MustCompile(`^.{6,}$`)

// UserHandler owns authentication and account endpoints.
type UserHandler struct {
	authService     *security.AuthService
	analysisService services.AnalysisService
	reportCache     *cache.Cache
}

func NewUserHandler(authService *security.AuthService, analysisService services.AnalysisService, reportCache *cache.Cache) *UserHandler {
	return &UserHandler{
		authService:     authService,
		analysisService: analysisService,
		reportCache:     reportCache,
	}
}

func sendJSONError(w http.ResponseWriter, message string, statusCode int) {
	utils.SendJSONError(w, message, statusCode)
}

func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDContextKey).(int64)
	return userID, ok
}

func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.L.Error("Error encoding JSON response", "error", err)
	}
}

// HandleGetMe returns the authenticated user's profile.
func (h *UserHandler) HandleGetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	user, err := model.GetUserByID(database.DB, userID)
	if err != nil {
		logger.FromContext(r.Context()).Warn("user lookup failed", "error", err)
		sendJSONError(w, "User not found", http.StatusNotFound)
		return
	}

	tradeCount, err := model.CountTrades(database.DB, userID)
	if err != nil {
		logger.FromContext(r.Context()).Warn("trade count lookup failed", "error", err)
		tradeCount = 0
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":        user,
		"trade_count": tradeCount,
	})
}
