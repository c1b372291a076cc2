package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"
)

// requestTimeout bounds every call to the Discord backend.
const requestTimeout = 5 * time.Second

var (
	// ErrUnknownMessage means the target message no longer exists.
	ErrUnknownMessage = errors.New("message no longer exists")
	// ErrEditForbidden means the webhook credential may not edit the message.
	ErrEditForbidden = errors.New("webhook lacks permission to edit the message")
)

// Embed is a Discord rich embed.
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
}

// EmbedField is a single name/value pair within an embed.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// EmbedFooter is the footer line of an embed.
type EmbedFooter struct {
	Text string `json:"text"`
}

// Webhook posts and edits messages through a Discord webhook URL.
type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook creates a webhook client for the given URL.
func NewWebhook(url string) *Webhook {
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: requestTimeout},
	}
}

type executePayload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

type executeResponse struct {
	ID string `json:"id"`
}

// PostEmbed posts an embed and waits for the created message, returning its
// message ID.
func (w *Webhook) PostEmbed(ctx context.Context, embed Embed) (string, error) {
	body, err := w.do(ctx, http.MethodPost, w.url+"?wait=true", executePayload{Embeds: []Embed{embed}})
	if err != nil {
		return "", err
	}

	var resp executeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("discord: decode response: %w", err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("discord: response missing message id")
	}
	return resp.ID, nil
}

// PostText sends a plain text message. Discord limits content to 2000
// characters; truncation counts runes so multi-byte text is never split.
func (w *Webhook) PostText(ctx context.Context, content string) error {
	if utf8.RuneCountInString(content) > 2000 {
		runes := []rune(content)
		content = string(runes[:1997]) + "..."
	}
	_, err := w.do(ctx, http.MethodPost, w.url, executePayload{Content: content})
	return err
}

// EditMessage replaces the embed on a previously posted webhook message.
func (w *Webhook) EditMessage(ctx context.Context, messageID string, embed Embed) error {
	_, err := w.do(ctx, http.MethodPatch, w.url+"/messages/"+messageID, executePayload{Embeds: []Embed{embed}})
	return err
}

func (w *Webhook) do(ctx context.Context, method, url string, payload executePayload) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("discord: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("discord: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("discord: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("discord: read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("discord: HTTP 404: %w", ErrUnknownMessage)
	case resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("discord: HTTP 403: %w", ErrEditForbidden)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("discord: HTTP %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
