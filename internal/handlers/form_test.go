package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormRequiresUserID(t *testing.T) {
	h := newTestHandler(&fakeService{})

	req := httptest.NewRequest(http.MethodGet, "/form", nil)
	w := httptest.NewRecorder()
	h.Form(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "user_id query parameter is required")
}

func TestFormRendersForUser(t *testing.T) {
	h := newTestHandler(&fakeService{})

	req := httptest.NewRequest(http.MethodGet, "/form?user_id=user-1", nil)
	w := httptest.NewRecorder()
	h.Form(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "user-1")
}

func TestHealthWithoutStore(t *testing.T) {
	h := newTestHandler(&fakeService{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.Health(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"degraded"`)
}
