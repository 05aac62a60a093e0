// Package observability defines the tracing, metrics, and structured logging
// interfaces used across omniweb, together with the semantic conventions for
// every attribute, span, event, and metric the service emits.
//
// The central entry point is [Provider], which composes [Tracer], [Metrics],
// and [Logger] into a single injectable dependency. Request handlers attach a
// [Provider] to the request context with [ContextWithObserver]; the core
// packages retrieve it with [ObserverFromContext] and stay silent when none is
// present.
package observability
