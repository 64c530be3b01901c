package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/kanoon-backend/internal/platform/ctxutil"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"
)

// AttachTraceContext tags each request with a trace id and a request id,
// reusing inbound headers or the active span when present, and echoes both
// in the response headers.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := strings.TrimSpace(c.GetHeader(headerRequestID))
		if reqID == "" {
			reqID = uuid.NewString()
		}
		traceID := strings.TrimSpace(c.GetHeader(headerTraceID))
		if traceID == "" {
			spanCtx := trace.SpanContextFromContext(c.Request.Context())
			if spanCtx.HasTraceID() {
				traceID = spanCtx.TraceID().String()
			}
		}
		if traceID == "" {
			traceID = strings.ReplaceAll(uuid.NewString(), "-", "")
		}
		ctx := ctxutil.WithTraceData(c.Request.Context(), &ctxutil.TraceData{
			TraceID:   traceID,
			RequestID: reqID,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Set("trace_id", traceID)
		c.Set("request_id", reqID)
		c.Writer.Header().Set(headerTraceID, traceID)
		c.Writer.Header().Set(headerRequestID, reqID)
		c.Next()
	}
}
