package discord

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostEmbedWaitsForMessageID(t *testing.T) {
	var gotWait string
	var gotPayload executePayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotWait = r.URL.Query().Get("wait")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"111222333"}`))
	}))
	defer srv.Close()

	hook := NewWebhook(srv.URL)
	id, err := hook.PostEmbed(context.Background(), Embed{Title: "📅 Tasks for 21-03-2026 (Saturday)"})
	require.NoError(t, err)

	assert.Equal(t, "111222333", id)
	assert.Equal(t, "true", gotWait, "posts must wait for the created message")
	require.Len(t, gotPayload.Embeds, 1)
	assert.Equal(t, "📅 Tasks for 21-03-2026 (Saturday)", gotPayload.Embeds[0].Title)
}

func TestPostEmbedMissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := NewWebhook(srv.URL).PostEmbed(context.Background(), Embed{})
	assert.ErrorContains(t, err, "missing message id")
}

func TestEditMessage(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	err := NewWebhook(srv.URL).EditMessage(context.Background(), "42", Embed{Title: "t"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/messages/42", gotPath)
}

func TestErrorMapping(t *testing.T) {
	status := http.StatusNotFound
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(`{"message":"Unknown Message","code":10008}`))
	}))
	defer srv.Close()
	hook := NewWebhook(srv.URL)

	err := hook.EditMessage(context.Background(), "42", Embed{})
	assert.ErrorIs(t, err, ErrUnknownMessage)

	status = http.StatusForbidden
	err = hook.EditMessage(context.Background(), "42", Embed{})
	assert.ErrorIs(t, err, ErrEditForbidden)

	status = http.StatusInternalServerError
	err = hook.EditMessage(context.Background(), "42", Embed{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownMessage)
	assert.NotErrorIs(t, err, ErrEditForbidden)
	assert.ErrorContains(t, err, "HTTP 500")
}

func TestPostTextTruncates(t *testing.T) {
	var got executePayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	long := strings.Repeat("x", 2500)
	require.NoError(t, NewWebhook(srv.URL).PostText(context.Background(), long))
	assert.Equal(t, 2000, utf8.RuneCountInString(got.Content))
	assert.True(t, strings.HasSuffix(got.Content, "..."))

	// Truncation counts runes, so multi-byte content stays valid UTF-8.
	require.NoError(t, NewWebhook(srv.URL).PostText(context.Background(), strings.Repeat("é", 2500)))
	assert.Equal(t, 2000, utf8.RuneCountInString(got.Content))
	assert.True(t, utf8.ValidString(got.Content))
	assert.True(t, strings.HasSuffix(got.Content, "é..."))
}
