package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clinicore/clinicore/internal/auth"
	"github.com/clinicore/clinicore/internal/repository"
)

// ReviewRequest is the request body for validating or rejecting a document
type ReviewRequest struct {
	Note string `json:"note"`
}

// ValidateAttachment marks a pending attachment validated
func (h *Handler) ValidateAttachment(w http.ResponseWriter, r *http.Request) {
	h.reviewAttachment(w, r, true)
}

// RejectAttachment marks a pending attachment rejected
func (h *Handler) RejectAttachment(w http.ResponseWriter, r *http.Request) {
	h.reviewAttachment(w, r, false)
}

func (h *Handler) reviewAttachment(w http.ResponseWriter, r *http.Request, validate bool) {
	id := auth.IdentityFromContext(r.Context())
	attachmentID := r.PathValue("id")

	var req ReviewRequest
	if r.Body != nil {
		// Note is optional; an empty body is fine
		json.NewDecoder(r.Body).Decode(&req)
	}

	var err error
	if validate {
		err = h.attachmentSvc.Validate(r.Context(), attachmentID, id.UserID, req.Note)
	} else {
		err = h.attachmentSvc.Reject(r.Context(), attachmentID, id.UserID, req.Note)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, `{"error":{"code":"not_found","message":"Attachment not found or already reviewed"}}`, http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Msg("failed to review attachment")
		http.Error(w, `{"error":{"code":"internal","message":"Failed to review attachment"}}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
