package model

import "time"

// Audit type labels attached to every audit record
const (
	AuditTypeRequest = "Request"
	AuditTypeSignIn  = "SignIn"
)

// RequestAuditEvent is an immutable record of one completed HTTP exchange.
// It is built once the wrapped handler returns and handed to the audit sink;
// it is never stored on the request or mutated afterwards.
type RequestAuditEvent struct {
	Timestamp  time.Time `json:"timestampUtc"`
	UserID     string    `json:"userId"`
	UserName   string    `json:"userName"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	StatusCode int       `json:"statusCode"`
	ElapsedMs  int64     `json:"elapsedMs"`
}

// SignInAuditEvent records the first authenticated request of a session.
// At most one is produced per (user, session) pair; the session marker
// guards re-emission. The JSON tags double as the wire shape pushed to
// connected audit observers.
type SignInAuditEvent struct {
	Timestamp time.Time `json:"timestampUtc"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	RemoteIP  string    `json:"remoteIp"`
	Scheme    string    `json:"scheme"`
}

// AuditLog is the persistent form of a sign-in audit event
type AuditLog struct {
	ID         string    `json:"id"`
	AuditType  string    `json:"auditType"`
	UserID     string    `json:"userId"`
	UserName   string    `json:"userName"`
	RemoteIP   *string   `json:"remoteIp,omitempty"`
	Scheme     *string   `json:"scheme,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
