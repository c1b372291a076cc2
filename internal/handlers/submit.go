package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tasktally/tasktally/internal/tasks"
)

// estimatedTime is the value+unit pair the form submits, rendered as text
// ("30 minutes") on the stored record.
type estimatedTime struct {
	Value json.Number `json:"value"`
	Unit  string      `json:"unit"`
}

func (e estimatedTime) String() string {
	return strings.TrimSpace(e.Value.String() + " " + e.Unit)
}

type taskPayload struct {
	TaskName      string        `json:"taskName"`
	Priority      string        `json:"priority"`
	Description   string        `json:"description"`
	EstimatedTime estimatedTime `json:"estimatedTime"`
}

type submitRequest struct {
	UserID    string        `json:"user_id"`
	TaskCount *int          `json:"task_count"`
	Tasks     []taskPayload `json:"tasks"`
}

type submitResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Submit handles the daily task submission from the web form. Nothing is
// written unless the payload is well-formed and the declared count matches
// the number of tasks provided.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.JSON(w, http.StatusBadRequest, submitResponse{Status: "error", Message: "Invalid or missing JSON data"})
		return
	}

	if req.UserID == "" {
		h.JSON(w, http.StatusBadRequest, submitResponse{Status: "error", Message: "user_id is required"})
		return
	}
	if req.TaskCount == nil || len(req.Tasks) != *req.TaskCount {
		h.JSON(w, http.StatusBadRequest, submitResponse{Status: "error", Message: "Task count mismatch"})
		return
	}

	entries := make([]tasks.Entry, len(req.Tasks))
	for i, t := range req.Tasks {
		if strings.TrimSpace(t.TaskName) == "" {
			h.JSON(w, http.StatusBadRequest, submitResponse{Status: "error", Message: "Task name is required"})
			return
		}
		entries[i] = tasks.Entry{
			Name:          t.TaskName,
			Priority:      t.Priority,
			Description:   t.Description,
			EstimatedTime: t.EstimatedTime.String(),
		}
	}

	if err := h.svc.Submit(r.Context(), req.UserID, entries); err != nil {
		h.logger.Error().Err(err).Str("user_id", req.UserID).Msg("task submission failed")
		h.JSON(w, http.StatusInternalServerError, submitResponse{Status: "error", Message: "Failed to store tasks"})
		return
	}

	h.JSON(w, http.StatusOK, submitResponse{Status: "success", Message: "Tasks submitted successfully!"})
}
