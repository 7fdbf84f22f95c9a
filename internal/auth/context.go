package auth

import "context"

// emailContextKey is the context key for the authenticated user's email.
type emailContextKey struct{}

// WithEmail stores the authenticated email in context.
func WithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, emailContextKey{}, email)
}

// EmailFromContext returns the authenticated email, or "" when absent.
func EmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(emailContextKey{}).(string)
	return email
}
