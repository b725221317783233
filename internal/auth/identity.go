package auth

import "context"

// DefaultScheme is the authentication scheme label recorded when a token
// carries no scheme claim
const DefaultScheme = "credentials"

// Identity is the resolved caller identity for one request. The zero value
// is the anonymous identity.
type Identity struct {
	UserID        string
	Name          string
	Email         string
	Role          string
	Scheme        string
	Authenticated bool
}

// DisplayName resolves the name shown in audit records: display name,
// then email, then "unknown"
func (id Identity) DisplayName() string {
	if id.Name != "" {
		return id.Name
	}
	if id.Email != "" {
		return id.Email
	}
	return "unknown"
}

type identityKey struct{}

// WithIdentity returns a context carrying the resolved identity
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the request identity, or the anonymous
// identity if authentication never ran or did not resolve a user
func IdentityFromContext(ctx context.Context) Identity {
	if id, ok := ctx.Value(identityKey{}).(Identity); ok {
		return id
	}
	return Identity{}
}
