package handlers

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasktally/tasktally/internal/discord"
	"github.com/tasktally/tasktally/internal/tasks"
)

type interactionsEnv struct {
	handler *Handler
	svc     *fakeService
	priv    ed25519.PrivateKey
}

func newInteractionsEnv(t *testing.T) *interactionsEnv {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	svc := &fakeService{}
	return &interactionsEnv{
		handler: NewHandler(svc, nil, nil, pub, "http://localhost:8080", zerolog.Nop()),
		svc:     svc,
		priv:    priv,
	}
}

// post signs body the way Discord does and delivers it to the endpoint.
func (e *interactionsEnv) post(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	timestamp := "1766300000"
	sig := ed25519.Sign(e.priv, append([]byte(timestamp), []byte(body)...))

	req := httptest.NewRequest(http.MethodPost, "/interactions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Signature-Ed25519", hex.EncodeToString(sig))
	req.Header.Set("X-Signature-Timestamp", timestamp)

	w := httptest.NewRecorder()
	e.handler.Interactions(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) discord.InteractionResponse {
	t.Helper()
	var resp discord.InteractionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestInteractionsPing(t *testing.T) {
	env := newInteractionsEnv(t)
	w := env.post(t, `{"type":1}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, discord.CallbackPong, decodeResponse(t, w).Type)
}

func TestInteractionsRejectsBadSignature(t *testing.T) {
	env := newInteractionsEnv(t)

	body := `{"type":1}`
	req := httptest.NewRequest(http.MethodPost, "/interactions", strings.NewReader(body))
	req.Header.Set("X-Signature-Ed25519", hex.EncodeToString(make([]byte, ed25519.SignatureSize)))
	req.Header.Set("X-Signature-Timestamp", "1766300000")

	w := httptest.NewRecorder()
	env.handler.Interactions(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request signature")
}

func TestInteractionsUnconfigured(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, nil, nil, nil, "http://localhost:8080", zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/interactions", strings.NewReader(`{"type":1}`))
	w := httptest.NewRecorder()
	h.Interactions(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestTaskDailyCommandLinksForm(t *testing.T) {
	env := newInteractionsEnv(t)
	w := env.post(t, `{"type":2,"data":{"name":"task-daily"},"member":{"user":{"id":"user 1"}}}`)

	resp := decodeResponse(t, w)
	assert.Equal(t, discord.CallbackChannelMessage, resp.Type)
	require.NotNil(t, resp.Data)
	assert.Contains(t, resp.Data.Content, "http://localhost:8080/form?user_id=user+1")
	assert.Equal(t, discord.FlagEphemeral, resp.Data.Flags)
}

func TestCompleteTaskDailyCommandBuildsMenu(t *testing.T) {
	env := newInteractionsEnv(t)
	env.svc.options = []discord.SelectOption{
		{Label: "Task 1: write report", Value: "1: write report"},
		{Label: "Task 2: review PR", Value: "2: review PR"},
	}

	w := env.post(t, `{"type":2,"data":{"name":"complete-task-daily"},"member":{"user":{"id":"user-1"}}}`)

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Data)
	assert.Equal(t, "🔍 Select tasks to mark as complete.", resp.Data.Content)
	require.Len(t, resp.Data.Components, 1)

	row := resp.Data.Components[0]
	assert.Equal(t, discord.ComponentActionRow, row.Type)
	require.Len(t, row.Components, 1)

	menu := row.Components[0]
	assert.Equal(t, discord.ComponentStringSelect, menu.Type)
	assert.Equal(t, "complete-tasks", menu.CustomID)
	require.NotNil(t, menu.MinValues)
	assert.Equal(t, 1, *menu.MinValues)
	assert.Equal(t, 2, menu.MaxValues)
	assert.Len(t, menu.Options, 2)
}

func TestCompleteTaskDailyCommandNoOpenTasks(t *testing.T) {
	env := newInteractionsEnv(t)
	w := env.post(t, `{"type":2,"data":{"name":"complete-task-daily"},"member":{"user":{"id":"user-1"}}}`)

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Data)
	assert.Equal(t, "🎉 You have no open tasks for today.", resp.Data.Content)
	assert.Empty(t, resp.Data.Components)
}

func TestUnknownCommand(t *testing.T) {
	env := newInteractionsEnv(t)
	w := env.post(t, `{"type":2,"data":{"name":"nonsense"},"member":{"user":{"id":"user-1"}}}`)

	assert.Contains(t, decodeResponse(t, w).Data.Content, "Unknown command")
}

func TestComponentCompletion(t *testing.T) {
	env := newInteractionsEnv(t)
	w := env.post(t, `{"type":3,"data":{"custom_id":"complete-tasks","values":["1: write report"]},"member":{"user":{"id":"user-1"}}}`)

	assert.Equal(t, "✅ Tasks marked as complete!", decodeResponse(t, w).Data.Content)
	assert.Equal(t, "user-1", env.svc.completedUser)
	assert.Equal(t, []string{"1: write report"}, env.svc.completedValues)
}

func TestComponentCompletionErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"no summary", tasks.ErrNoSummary, "❌ No task summary found for today."},
		{"message gone", discord.ErrUnknownMessage, "❌ Could not find the message to edit."},
		{"edit forbidden", discord.ErrEditForbidden, "❌ Webhook lacks permission to edit the message."},
		{"other", assert.AnError, "❌ Error: something went wrong while updating your tasks."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newInteractionsEnv(t)
			env.svc.completeErr = tt.err

			w := env.post(t, `{"type":3,"data":{"custom_id":"complete-tasks","values":["1: a"]},"member":{"user":{"id":"user-1"}}}`)
			assert.Equal(t, tt.want, decodeResponse(t, w).Data.Content)
		})
	}
}

// The interaction may arrive from a DM, where Discord puts the user at the
// top level instead of inside member.
func TestComponentCompletionFromDM(t *testing.T) {
	env := newInteractionsEnv(t)
	w := env.post(t, `{"type":3,"data":{"custom_id":"complete-tasks","values":["1: a"]},"user":{"id":"dm-user"}}`)

	assert.Equal(t, "✅ Tasks marked as complete!", decodeResponse(t, w).Data.Content)
	assert.Equal(t, "dm-user", env.svc.completedUser)
}

func TestUnknownComponent(t *testing.T) {
	env := newInteractionsEnv(t)
	w := env.post(t, `{"type":3,"data":{"custom_id":"other","values":[]},"member":{"user":{"id":"user-1"}}}`)

	assert.Contains(t, decodeResponse(t, w).Data.Content, "Unknown component")
	assert.Zero(t, env.svc.completeCalls)
}
