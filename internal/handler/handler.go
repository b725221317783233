package handler

import (
	"encoding/json"
	"net/http"

	"github.com/clinicore/clinicore/internal/config"
	"github.com/clinicore/clinicore/internal/database"
	"github.com/clinicore/clinicore/internal/logger"
	"github.com/clinicore/clinicore/internal/service"
	"github.com/clinicore/clinicore/internal/ws"
)

// Handler holds all HTTP handlers
type Handler struct {
	db              *database.Postgres
	rdb             *database.Redis
	log             *logger.Logger
	cfg             *config.Config
	broker          *ws.Broker
	authSvc         *service.AuthService
	notificationSvc *service.NotificationService
	messageSvc      *service.MessageService
	attachmentSvc   *service.AttachmentService
	appointmentSvc  *service.AppointmentService
	auditSvc        *service.AuditService
}

// New creates a new Handler instance
func New(db *database.Postgres, rdb *database.Redis, log *logger.Logger, cfg *config.Config, broker *ws.Broker, authSvc *service.AuthService, notificationSvc *service.NotificationService, messageSvc *service.MessageService, attachmentSvc *service.AttachmentService, appointmentSvc *service.AppointmentService, auditSvc *service.AuditService) *Handler {
	return &Handler{
		db:              db,
		rdb:             rdb,
		log:             log,
		cfg:             cfg,
		broker:          broker,
		authSvc:         authSvc,
		notificationSvc: notificationSvc,
		messageSvc:      messageSvc,
		attachmentSvc:   attachmentSvc,
		appointmentSvc:  appointmentSvc,
		auditSvc:        auditSvc,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
