// Package session provides the server-tracked session store: a small
// per-browser key/value context that outlives a single request. It backs
// the sign-in audit dedup marker and expires on idle timeout.
package session

import "context"

// Store is the session backing. A session holds string key/value markers
// under a session ID; expiry is owned by the store, not its callers.
type Store interface {
	// Get returns the value for key in session sid, or "" if unset
	Get(ctx context.Context, sid, key string) (string, error)
	// Set writes key in session sid and refreshes the idle timeout
	Set(ctx context.Context, sid, key, value string) error
	// SetIfAbsent writes key only if it is unset and reports whether the
	// write happened. The check and write are atomic.
	SetIfAbsent(ctx context.Context, sid, key, value string) (bool, error)
	// Touch refreshes the session's idle timeout
	Touch(ctx context.Context, sid string) error
	// Destroy removes the session and all its markers
	Destroy(ctx context.Context, sid string) error
}

type contextKey struct{}

// WithID returns a context carrying the request's session ID
func WithID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, contextKey{}, sid)
}

// IDFromContext returns the session ID from the context, or "" if the
// request has no session
func IDFromContext(ctx context.Context) string {
	if sid, ok := ctx.Value(contextKey{}).(string); ok {
		return sid
	}
	return ""
}
