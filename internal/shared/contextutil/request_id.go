package contextutil

import "context"

// unexported key type keeps the context namespace private
type contextKey string

const requestIDKey contextKey = "request_id"

// GetRequestID reads the propagated request id, empty when absent.
func GetRequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey).(string); ok {
		return rid
	}
	return ""
}

// WithRequestID injects the id (also used to seed contexts in tests).
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey, rid)
}
