package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clinicore/clinicore/internal/auth"
	"github.com/clinicore/clinicore/internal/model"
	"github.com/clinicore/clinicore/internal/repository"
)

// SendMessageRequest is the request body for sending an internal message
type SendMessageRequest struct {
	RecipientID string `json:"recipientId"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
}

// SendMessage sends an internal message to another user
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	id := auth.IdentityFromContext(r.Context())

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":{"code":"bad_request","message":"Invalid request body"}}`, http.StatusBadRequest)
		return
	}
	if req.RecipientID == "" || req.Subject == "" {
		http.Error(w, `{"error":{"code":"bad_request","message":"Recipient and subject are required"}}`, http.StatusBadRequest)
		return
	}

	msg, err := h.messageSvc.Send(r.Context(), id.UserID, req.RecipientID, req.Subject, req.Body)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, `{"error":{"code":"not_found","message":"Recipient not found"}}`, http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Msg("failed to send message")
		http.Error(w, `{"error":{"code":"internal","message":"Failed to send message"}}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// ListMessages returns the caller's message inbox, newest first
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	id := auth.IdentityFromContext(r.Context())

	messages, err := h.messageSvc.Inbox(r.Context(), id.UserID)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list messages")
		http.Error(w, `{"error":{"code":"internal","message":"Failed to load messages"}}`, http.StatusInternalServerError)
		return
	}
	if messages == nil {
		messages = []*model.Message{}
	}
	writeJSON(w, http.StatusOK, messages)
}

// MarkMessageRead marks a received message read
func (h *Handler) MarkMessageRead(w http.ResponseWriter, r *http.Request) {
	id := auth.IdentityFromContext(r.Context())
	messageID := r.PathValue("id")

	err := h.messageSvc.MarkRead(r.Context(), id.UserID, messageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, `{"error":{"code":"not_found","message":"Message not found"}}`, http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Msg("failed to mark message read")
		http.Error(w, `{"error":{"code":"internal","message":"Failed to update message"}}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
