// Package context carries per-request metadata through context.Context.
package context

import "context"

// TraceContext identifies one request as it crosses the middleware,
// service and storage layers. The HTTP trace middleware populates it from
// the incoming headers, generating ids for whatever the caller omitted.
type TraceContext struct {
	TraceID   string
	SpanID    string
	RequestID string
}

type traceContextKey struct{}

// WithTrace returns a context carrying the trace information.
func WithTrace(ctx context.Context, trace *TraceContext) context.Context {
	return context.WithValue(ctx, traceContextKey{}, trace)
}

// GetTrace returns the trace carried by ctx, or nil outside a request.
func GetTrace(ctx context.Context) *TraceContext {
	if v, ok := ctx.Value(traceContextKey{}).(*TraceContext); ok {
		return v
	}
	return nil
}
