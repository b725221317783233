package router

import (
	"net/http"
	"time"

	"github.com/clinicore/clinicore/internal/handler"
	"github.com/clinicore/clinicore/internal/middleware"
	"github.com/clinicore/clinicore/internal/model"
)

// New creates and configures the HTTP router
func New(h *handler.Handler, mw *middleware.Middleware) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoints (no auth required)
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /ready", h.Ready)

	// Public authentication routes (rate limited)
	loginRateLimit := mw.RateLimit(middleware.RateLimitConfig{
		Limit:  5,
		Window: 15 * time.Minute,
		KeyFn:  middleware.IPKey,
	})
	mux.Handle("POST /api/v1/auth/login", loginRateLimit(http.HandlerFunc(h.Login)))

	requireAuth := mw.RequireAuth
	// Doctors decide appointments and review documents
	staffOnly := mw.RequireRole(model.RoleDoctor)
	adminOnly := mw.RequireRole(model.RoleAdministrator)

	mux.Handle("POST /api/v1/auth/logout", requireAuth(http.HandlerFunc(h.Logout)))

	// Notification inbox (authenticated, owner-scoped)
	mux.Handle("GET /api/v1/notifications", requireAuth(http.HandlerFunc(h.ListNotifications)))
	mux.Handle("GET /api/v1/notifications/unread-count", requireAuth(http.HandlerFunc(h.UnreadNotificationCount)))
	mux.Handle("POST /api/v1/notifications/read-all", requireAuth(http.HandlerFunc(h.MarkAllNotificationsRead)))
	mux.Handle("POST /api/v1/notifications/{id}/read", requireAuth(http.HandlerFunc(h.MarkNotificationRead)))

	// Internal messaging
	mux.Handle("POST /api/v1/messages", requireAuth(http.HandlerFunc(h.SendMessage)))
	mux.Handle("GET /api/v1/messages", requireAuth(http.HandlerFunc(h.ListMessages)))
	mux.Handle("POST /api/v1/messages/{id}/read", requireAuth(http.HandlerFunc(h.MarkMessageRead)))

	// Document review and appointment decisions (staff)
	mux.Handle("POST /api/v1/attachments/{id}/validate", staffOnly(http.HandlerFunc(h.ValidateAttachment)))
	mux.Handle("POST /api/v1/attachments/{id}/reject", staffOnly(http.HandlerFunc(h.RejectAttachment)))
	mux.Handle("POST /api/v1/appointments/{id}/approve", staffOnly(http.HandlerFunc(h.ApproveAppointment)))
	mux.Handle("POST /api/v1/appointments/{id}/reject", staffOnly(http.HandlerFunc(h.RejectAppointment)))

	// Sign-in audit history for observers that were not connected live
	mux.Handle("GET /api/v1/audit/signins", adminOnly(http.HandlerFunc(h.ListSignInAudits)))

	// Live event stream
	mux.Handle("GET /api/v1/ws", requireAuth(http.HandlerFunc(h.Connect)))

	// Apply middleware stack. Order matters: identity must be resolved
	// before the audit interceptors read it, and the sign-in deduplicator
	// sits innermost so it observes the authenticated exchange.
	var handler http.Handler = mux

	handler = mw.SignInAudit(handler)
	handler = mw.RequestAudit(handler)
	handler = mw.Authenticate(handler)
	handler = mw.Session(handler)
	handler = mw.RequestID(handler)
	handler = mw.Recover(handler)

	return handler
}
