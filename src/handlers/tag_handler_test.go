// src/handlers/tag_handler_test.go
package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := context.WithValue(req.Context(), userIDContextKey, int64(1))
	return req.WithContext(ctx)
}

func TestHandleCreateEmotionalTag_RequiresAuth(t *testing.T) {
	h := NewTagHandler()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/emotional-tags", strings.NewReader(`{"emotional_state":"calm"}`))
	h.HandleCreateEmotionalTag(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleCreateEmotionalTag_RejectsInvalidBody(t *testing.T) {
	h := NewTagHandler()

	rec := httptest.NewRecorder()
	h.HandleCreateEmotionalTag(rec, authedRequest("POST", "/api/emotional-tags", `not json`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCreateEmotionalTag_RejectsEmptyState(t *testing.T) {
	h := NewTagHandler()

	rec := httptest.NewRecorder()
	h.HandleCreateEmotionalTag(rec, authedRequest("POST", "/api/emotional-tags", `{"emotional_state":"  "}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "emotional_state")
}

func TestHandleCreateEmotionalTag_RejectsOutOfRangeIntensity(t *testing.T) {
	h := NewTagHandler()

	rec := httptest.NewRecorder()
	h.HandleCreateEmotionalTag(rec, authedRequest("POST", "/api/emotional-tags",
		`{"emotional_state":"euphoric","intensity":11}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Intensity")
}

func TestHandleCreateEmotionalTag_RejectsXSSNotes(t *testing.T) {
	h := NewTagHandler()

	rec := httptest.NewRecorder()
	h.HandleCreateEmotionalTag(rec, authedRequest("POST", "/api/emotional-tags",
		`{"emotional_state":"calm","notes":"x onerror=alert(1)"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleListEmotionalTags_RejectsBadLimit(t *testing.T) {
	h := NewTagHandler()

	for _, limit := range []string{"-1", "abc", "501"} {
		rec := httptest.NewRecorder()
		h.HandleListEmotionalTags(rec, authedRequest("GET", "/api/emotional-tags?limit="+limit, ""))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "limit %s", limit)
	}
}
