// src/handlers/coach_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/username/biaslens/src/logger"
	"github.com/username/biaslens/src/model"
	"github.com/username/biaslens/src/security/validation"
	"github.com/username/biaslens/src/services"
)

type CoachHandler struct {
	coachService services.CoachService
}

func NewCoachHandler(service services.CoachService) *CoachHandler {
	return &CoachHandler{
		coachService: service,
	}
}

// HandleSendMessage forwards a chat message to the AI coach and returns the
// assistant's reply.
func (h *CoachHandler) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	ctxLogger := logger.FromContext(r.Context())

	var requestBody struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	reply, err := h.coachService.SendMessage(r.Context(), userID, requestBody.Message)
	if err != nil {
		if errors.Is(err, validation.ErrValidationFailed) {
			sendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		ctxLogger.Error("AI coach request failed", "error", err)
		sendJSONError(w, "AI Coach request failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (h *CoachHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
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

	history, err := h.coachService.GetHistory(userID, limit)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to load chat history", "error", err)
		sendJSONError(w, "Failed to retrieve chat history", http.StatusInternalServerError)
		return
	}
	if history == nil {
		history = []model.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, history)
}

func (h *CoachHandler) HandleClearHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	if err := h.coachService.ClearHistory(userID); err != nil {
		logger.FromContext(r.Context()).Error("Failed to clear chat history", "error", err)
		sendJSONError(w, "Failed to clear chat history", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
