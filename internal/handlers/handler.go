package handlers

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/tasktally/tasktally/internal/discord"
	"github.com/tasktally/tasktally/internal/store"
	"github.com/tasktally/tasktally/internal/tasks"
)

// TaskService is the domain surface the handlers drive.
type TaskService interface {
	Submit(ctx context.Context, userID string, entries []tasks.Entry) error
	CompletionOptions(ctx context.Context, userID string) ([]discord.SelectOption, error)
	Complete(ctx context.Context, userID string, values []string) error
}

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	svc         TaskService
	db          store.DataStore
	redis       *store.RedisStore
	publicKey   ed25519.PublicKey
	formBaseURL string
	logger      zerolog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(svc TaskService, db store.DataStore, redis *store.RedisStore, publicKey ed25519.PublicKey, formBaseURL string, logger zerolog.Logger) *Handler {
	return &Handler{
		svc:         svc,
		db:          db,
		redis:       redis,
		publicKey:   publicKey,
		formBaseURL: formBaseURL,
		logger:      logger,
	}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}
