package session

import "context"

type ctxKey struct{}

// WithSID stores the session id on the context.
func WithSID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, ctxKey{}, sid)
}

// SIDFromContext returns the session id, or "" when the request carried none.
func SIDFromContext(ctx context.Context) string {
	sid, _ := ctx.Value(ctxKey{}).(string)
	return sid
}
