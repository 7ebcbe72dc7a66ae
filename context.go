package a3s

import "context"

type contextKey int

const (
	ctxKeyRequestID contextKey = iota
)

// WithContextRequestID returns a context carrying a caller-chosen request
// id. The HTTP transport sends it as the X-Request-ID header instead of
// generating one, so client and service logs can be correlated.
func WithContextRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, id)
}

// ContextRequestID returns the request id from context, or empty string.
func ContextRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyRequestID).(string); ok {
		return v
	}
	return ""
}
