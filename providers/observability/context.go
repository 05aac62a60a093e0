package observability

import "context"

type ctxKey int

const (
	spanKey ctxKey = iota
	observerKey
)

// SpanFromContext returns the innermost open span, or nil.
func SpanFromContext(ctx context.Context) Span {
	if ctx == nil {
		return nil
	}
	span, _ := ctx.Value(spanKey).(Span)
	return span
}

// ContextWithSpan makes span the innermost span of the returned context.
func ContextWithSpan(ctx context.Context, span Span) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, spanKey, span)
}

// ObserverFromContext returns the Provider attached by ContextWithObserver,
// or nil. Packages below the client and server layers use it to log without
// taking a Provider argument.
func ObserverFromContext(ctx context.Context) Provider {
	if ctx == nil {
		return nil
	}
	observer, _ := ctx.Value(observerKey).(Provider)
	return observer
}

// ContextWithObserver attaches observer to ctx.
func ContextWithObserver(ctx context.Context, observer Provider) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, observerKey, observer)
}
