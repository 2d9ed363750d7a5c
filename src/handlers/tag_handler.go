// src/handlers/tag_handler.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/username/biaslens/src/database"
	"github.com/username/biaslens/src/logger"
	"github.com/username/biaslens/src/model"
	"github.com/username/biaslens/src/security/validation"
)

const (
	maxEmotionalStateLength = 64
	maxEmotionalTagsLimit   = 500
	defaultIntensity        = 5.0
)

// TagHandler owns the emotional tagging endpoints: self-reported mood entries
// the trader can attach to a trade or log on their own.
type TagHandler struct{}

func NewTagHandler() *TagHandler {
	return &TagHandler{}
}

// HandleListEmotionalTags returns the user's tags, newest first.
// Supports ?limit= (default 100, max 500).
func (h *TagHandler) HandleListEmotionalTags(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	limit := 0
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed < 0 || parsed > maxEmotionalTagsLimit {
			sendJSONError(w, "Invalid 'limit' query parameter", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	tags, err := model.ListEmotionalTags(database.DB, userID, limit)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list emotional tags", "error", err)
		sendJSONError(w, "Failed to retrieve emotional tags", http.StatusInternalServerError)
		return
	}
	if tags == nil {
		tags = []model.EmotionalTag{}
	}
	writeJSON(w, http.StatusOK, tags)
}

// HandleCreateEmotionalTag records a mood entry. Intensity defaults to 5 when
// omitted.
func (h *TagHandler) HandleCreateEmotionalTag(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var requestBody struct {
		EmotionalState string   `json:"emotional_state"`
		Intensity      *float64 `json:"intensity"`
		Notes          string   `json:"notes"`
		TradeID        *int64   `json:"trade_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	state := strings.TrimSpace(validation.SanitizeText(requestBody.EmotionalState))
	if err := validation.ValidateStringNotEmpty(state, "emotional_state"); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateStringMaxLength(state, maxEmotionalStateLength, "emotional_state"); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	intensity := defaultIntensity
	if requestBody.Intensity != nil {
		intensity = *requestBody.Intensity
	}
	if intensity < 0 || intensity > 10 {
		sendJSONError(w, "Intensity must be between 0 and 10", http.StatusBadRequest)
		return
	}

	notes := validation.SanitizeText(validation.StripUnprintable(requestBody.Notes))
	if err := validation.ValidateStringMaxLength(notes, validation.MaxNotesLength, "notes"); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.CheckXSSPatterns(notes, "notes", state); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	tag, err := model.InsertEmotionalTag(database.DB, userID, requestBody.TradeID, state, intensity, notes)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to store emotional tag", "error", err)
		sendJSONError(w, "Failed to store emotional tag", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, tag)
}
