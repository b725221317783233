package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/clinicore/clinicore/internal/auth"
	"github.com/clinicore/clinicore/internal/model"
	"github.com/clinicore/clinicore/internal/repository"
)

// notificationWindow is the recency window inbox views request
const notificationWindow = 30 * 24 * time.Hour

// ListNotifications returns the caller's notifications from the last 30
// days, newest first
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	id := auth.IdentityFromContext(r.Context())
	since := time.Now().UTC().Add(-notificationWindow)

	notifications, err := h.notificationSvc.ListRecent(r.Context(), id.UserID, since)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list notifications")
		http.Error(w, `{"error":{"code":"internal","message":"Failed to load notifications"}}`, http.StatusInternalServerError)
		return
	}
	if notifications == nil {
		notifications = []*model.Notification{}
	}
	writeJSON(w, http.StatusOK, notifications)
}

// UnreadNotificationCount returns the caller's unread notification count
func (h *Handler) UnreadNotificationCount(w http.ResponseWriter, r *http.Request) {
	id := auth.IdentityFromContext(r.Context())

	count, err := h.notificationSvc.UnreadCount(r.Context(), id.UserID)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to count unread notifications")
		http.Error(w, `{"error":{"code":"internal","message":"Failed to count notifications"}}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"unread": count})
}

// MarkNotificationRead marks one of the caller's notifications read
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id := auth.IdentityFromContext(r.Context())
	notificationID := r.PathValue("id")

	err := h.notificationSvc.MarkRead(r.Context(), id.UserID, notificationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, `{"error":{"code":"not_found","message":"Notification not found"}}`, http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Msg("failed to mark notification read")
		http.Error(w, `{"error":{"code":"internal","message":"Failed to update notification"}}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkAllNotificationsRead marks every unread notification of the caller
// read. Calling with nothing unread succeeds and changes nothing.
func (h *Handler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	id := auth.IdentityFromContext(r.Context())

	if err := h.notificationSvc.MarkAllRead(r.Context(), id.UserID); err != nil {
		h.log.Error().Err(err).Msg("failed to mark notifications read")
		http.Error(w, `{"error":{"code":"internal","message":"Failed to update notifications"}}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
