package handler

import (
	"errors"
	"net/http"

	"github.com/clinicore/clinicore/internal/repository"
)

// ApproveAppointment approves a pending appointment request
func (h *Handler) ApproveAppointment(w http.ResponseWriter, r *http.Request) {
	h.decideAppointment(w, r, true)
}

// RejectAppointment rejects a pending appointment request
func (h *Handler) RejectAppointment(w http.ResponseWriter, r *http.Request) {
	h.decideAppointment(w, r, false)
}

func (h *Handler) decideAppointment(w http.ResponseWriter, r *http.Request, approve bool) {
	appointmentID := r.PathValue("id")

	var err error
	if approve {
		err = h.appointmentSvc.Approve(r.Context(), appointmentID)
	} else {
		err = h.appointmentSvc.Reject(r.Context(), appointmentID)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, `{"error":{"code":"not_found","message":"Appointment not found or already decided"}}`, http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Msg("failed to decide appointment")
		http.Error(w, `{"error":{"code":"internal","message":"Failed to update appointment"}}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
