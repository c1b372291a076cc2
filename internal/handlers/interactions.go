package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/tasktally/tasktally/internal/discord"
	"github.com/tasktally/tasktally/internal/tasks"
)

// completeMenuID identifies the task-completion select menu component.
const completeMenuID = "complete-tasks"

// Interactions handles the Discord interactions endpoint: signature
// verification, PING, the two slash commands, and the completion select
// callback. Every failure past the signature check becomes an ephemeral
// reply; nothing here may take down the server.
func (h *Handler) Interactions(w http.ResponseWriter, r *http.Request) {
	if len(h.publicKey) == 0 {
		h.Error(w, http.StatusServiceUnavailable, "interactions are not configured")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.Error(w, http.StatusBadRequest, "unreadable request body")
		return
	}

	signature := r.Header.Get("X-Signature-Ed25519")
	timestamp := r.Header.Get("X-Signature-Timestamp")
	if err := discord.VerifySignature(h.publicKey, timestamp, body, signature); err != nil {
		h.Error(w, http.StatusUnauthorized, "invalid request signature")
		return
	}

	var in discord.Interaction
	if err := json.Unmarshal(body, &in); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	switch in.Type {
	case discord.InteractionPing:
		h.JSON(w, http.StatusOK, discord.InteractionResponse{Type: discord.CallbackPong})
	case discord.InteractionApplicationCommand:
		h.handleCommand(w, r, &in)
	case discord.InteractionMessageComponent:
		h.handleComponent(w, r, &in)
	default:
		h.Error(w, http.StatusBadRequest, "unsupported interaction type")
	}
}

// reply sends an ephemeral text response to the invoking user.
func (h *Handler) reply(w http.ResponseWriter, content string) {
	h.JSON(w, http.StatusOK, discord.InteractionResponse{
		Type: discord.CallbackChannelMessage,
		Data: &discord.ResponseData{
			Content: content,
			Flags:   discord.FlagEphemeral,
		},
	})
}

func (h *Handler) handleCommand(w http.ResponseWriter, r *http.Request, in *discord.Interaction) {
	userID := in.UserID()
	if userID == "" {
		h.reply(w, "❌ Could not determine who you are.")
		return
	}

	switch in.Data.Name {
	case "task-daily":
		formURL := h.formBaseURL + "/form?user_id=" + url.QueryEscape(userID)
		h.reply(w, "Please fill out your tasks here: "+formURL)

	case "complete-task-daily":
		options, err := h.svc.CompletionOptions(r.Context(), userID)
		if err != nil {
			h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to load completion options")
			h.reply(w, "❌ Error: could not load your tasks.")
			return
		}
		if len(options) == 0 {
			h.reply(w, "🎉 You have no open tasks for today.")
			return
		}

		minValues := 1
		h.JSON(w, http.StatusOK, discord.InteractionResponse{
			Type: discord.CallbackChannelMessage,
			Data: &discord.ResponseData{
				Content: "🔍 Select tasks to mark as complete.",
				Flags:   discord.FlagEphemeral,
				Components: []discord.Component{{
					Type: discord.ComponentActionRow,
					Components: []discord.Component{{
						Type:        discord.ComponentStringSelect,
						CustomID:    completeMenuID,
						Placeholder: "Select tasks to mark as complete",
						MinValues:   &minValues,
						MaxValues:   len(options),
						Options:     options,
					}},
				}},
			},
		})

	default:
		h.reply(w, "❌ Unknown command.")
	}
}

func (h *Handler) handleComponent(w http.ResponseWriter, r *http.Request, in *discord.Interaction) {
	if in.Data.CustomID != completeMenuID {
		h.reply(w, "❌ Unknown component.")
		return
	}

	userID := in.UserID()
	if userID == "" {
		h.reply(w, "❌ Could not determine who you are.")
		return
	}

	err := h.svc.Complete(r.Context(), userID, in.Data.Values)
	switch {
	case err == nil:
		h.reply(w, "✅ Tasks marked as complete!")
	case errors.Is(err, tasks.ErrNoSummary):
		h.reply(w, "❌ No task summary found for today.")
	case errors.Is(err, discord.ErrUnknownMessage):
		h.reply(w, "❌ Could not find the message to edit.")
	case errors.Is(err, discord.ErrEditForbidden):
		h.reply(w, "❌ Webhook lacks permission to edit the message.")
	default:
		h.logger.Error().Err(err).Str("user_id", userID).Msg("task completion failed")
		h.reply(w, "❌ Error: something went wrong while updating your tasks.")
	}
}
