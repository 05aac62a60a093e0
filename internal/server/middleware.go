package server

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/omniweb/omniweb/internal/utils"
	"github.com/omniweb/omniweb/providers/ai"
	"github.com/omniweb/omniweb/providers/observability"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-ID"

type requestIDKey struct{}

// RequestIDFromContext returns the id assigned by the request-id
// middleware, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// withCORS allows the configured origins. An empty list or "*" allows any
// origin. Preflight requests are answered here.
func withCORS(origins []string, next http.Handler) http.Handler {
	allowAll := len(origins) == 0 || slices.Contains(origins, "*")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case allowAll:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(origins, origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Authorization, "+HeaderRequestID)
		w.Header().Set("Access-Control-Expose-Headers", HeaderRequestID+", "+HeaderModel)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRequestID propagates an incoming X-Request-ID or assigns a new one.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(HeaderRequestID))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// withObservability attaches the observer and a fresh ai.Overview to the
// request context, wraps the request in an http.request span, and logs the
// outcome together with the generations the request made.
func withObservability(observer observability.Provider, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		overview := &ai.Overview{}
		ctx := overview.ToContext(r.Context())

		if observer == nil {
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		route := r.Method + " " + r.URL.Path
		ctx = observability.ContextWithObserver(ctx, observer)
		ctx, span := observer.StartSpan(ctx, observability.SpanHTTPRequest,
			observability.String(observability.AttrHTTPMethod, r.Method),
			observability.String(observability.AttrHTTPRoute, r.URL.Path),
			observability.String(observability.AttrHTTPRequestID, RequestIDFromContext(ctx)),
		)
		ctx = observability.ContextWithSpan(ctx, span)
		defer span.End()

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		timer := utils.NewTimer()
		next.ServeHTTP(recorder, r.WithContext(ctx))
		elapsed := timer.Stop()

		requests, usage := overview.Snapshot()
		attrs := []observability.Attribute{
			observability.String(observability.AttrHTTPRoute, route),
			observability.String(observability.AttrHTTPRequestID, RequestIDFromContext(ctx)),
			observability.Int(observability.AttrHTTPStatusCode, recorder.status),
			observability.Int64(observability.AttrHTTPResponseBodySize, recorder.written),
			observability.Duration(observability.AttrDuration, elapsed),
			observability.Int("llm.requests", requests),
			observability.Int(observability.AttrLLMTokensTotal, usage.TotalTokens),
		}
		span.SetAttributes(attrs...)

		observer.Counter(observability.MetricHTTPRequestCount).Add(ctx, 1,
			observability.String(observability.AttrHTTPRoute, route),
			observability.Int(observability.AttrHTTPStatusCode, recorder.status),
		)

		if recorder.status >= http.StatusInternalServerError {
			span.SetStatus(observability.StatusError, http.StatusText(recorder.status))
			observer.Warn(ctx, "http request failed", attrs...)
			return
		}
		span.SetStatus(observability.StatusOK, "")
		observer.Info(ctx, "http request", attrs...)
	})
}

// statusRecorder remembers the status code and body size. Unwrap lets
// http.ResponseController reach the underlying Flusher.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	written     int64
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	n, err := r.ResponseWriter.Write(b)
	r.written += int64(n)
	return n, err
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
