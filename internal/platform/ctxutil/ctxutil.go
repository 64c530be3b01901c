package ctxutil

import "context"

type traceDataKey struct{}
type userKey struct{}

type TraceData struct {
	TraceID   string
	RequestID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if td, ok := ctx.Value(traceDataKey{}).(*TraceData); ok {
		return td
	}
	return nil
}

// WithUserID attaches the authenticated user's id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

// UserID returns the authenticated user's id, or "" for anonymous requests.
func UserID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(userKey{}).(string); ok {
		return id
	}
	return ""
}
