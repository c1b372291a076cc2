package handlers

import (
	_ "embed"
	"html/template"
	"net/http"
)

//go:embed form.html
var formHTML string

var formTemplate = template.Must(template.New("form").Parse(formHTML))

// Form serves the task submission page pre-bound to the user_id query
// parameter. The page posts the JSON body Submit expects.
func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		h.Error(w, http.StatusBadRequest, "user_id query parameter is required")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := formTemplate.Execute(w, map[string]string{"UserID": userID}); err != nil {
		h.logger.Error().Err(err).Msg("failed to render form")
	}
}
