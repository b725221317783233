package handler

import (
	"net/http"
	"time"

	"github.com/clinicore/clinicore/internal/model"
)

const (
	signInHistoryWindow = 30 * 24 * time.Hour
	signInHistoryLimit  = 100
)

// ListSignInAudits returns recent sign-in audit entries, newest first.
// Connected observers get the same events live; this is the catch-up view.
func (h *Handler) ListSignInAudits(w http.ResponseWriter, r *http.Request) {
	since := time.Now().UTC().Add(-signInHistoryWindow)

	entries, err := h.auditSvc.RecentSignIns(r.Context(), since, signInHistoryLimit)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list sign-in audits")
		http.Error(w, `{"error":{"code":"internal","message":"Failed to load audit history"}}`, http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []*model.AuditLog{}
	}
	writeJSON(w, http.StatusOK, entries)
}
