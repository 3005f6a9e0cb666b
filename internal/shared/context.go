package shared

import "context"

type claimsContextKey struct{}

// ContextWithClaims stores request claims in context. Claims travel with the
// request explicitly; there is no ambient current-user state anywhere else.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// ClaimsFromContext extracts the claims from context, nil when anonymous.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsContextKey{}).(*Claims)
	return claims
}
