package identity

import "context"

type contextKey struct{}

// ContextWithIdentity stores the resolved caller identity in the context.
func ContextWithIdentity(ctx context.Context, ident Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, ident)
}

// FromContext extracts the caller identity resolved by the middleware.
// Requests that bypassed the middleware are anonymous.
func FromContext(ctx context.Context) Identity {
	if ident, ok := ctx.Value(contextKey{}).(Identity); ok {
		return ident
	}
	return Anonymous
}
