package httpx

import "context"

type ctxKey string

const (
	ctxKeyRequestID ctxKey = "request_id"
	ctxKeyIdentity  ctxKey = "identity"
	ctxKeyClientIP  ctxKey = "client_ip"
)

// Identity is the authenticated caller attached to the request context by the
// auth middleware.
type Identity struct {
	AccountID string
	SessionID string
	Role      string
}

// IsAdmin reports whether the caller holds the admin role.
func (i Identity) IsAdmin() bool { return i.Role == "admin" }

// ContextWithRequestID returns ctx carrying the request id.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, id)
}

// RequestIDFromContext returns the request id, or "" when absent.
func RequestIDFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(ctxKeyRequestID).(string); ok {
		return s
	}
	return ""
}

// ContextWithIdentity returns ctx carrying the authenticated identity.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, id)
}

// IdentityFromContext returns the authenticated identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKeyIdentity).(Identity)
	return id, ok
}

// ContextWithClientIP returns ctx carrying the client IP.
func ContextWithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxKeyClientIP, ip)
}

// ClientIPFromContext returns the client IP, or "" when absent.
func ClientIPFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(ctxKeyClientIP).(string); ok {
		return s
	}
	return ""
}
