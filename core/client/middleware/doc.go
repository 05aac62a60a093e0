// Package middleware provides the built-in middlewares for package client.
// Each constructor returns a [client.MiddlewareConfig] ready for
// [client.WithMiddleware].
//
//   - [NewTimeoutMiddleware] bounds every call, streams included.
//   - [NewRetryMiddleware] retries transient failures (429 and 5xx) with
//     exponential backoff and jitter. Streams are not retried.
//   - [NewLoggingMiddleware] writes slog entries around each call, at one
//     of three verbosity levels.
//
// The first middleware passed to WithMiddleware is the outermost one:
//
//	c, err := client.New(provider,
//	    client.WithMiddleware(
//	        middleware.NewTimeoutMiddleware(2*time.Minute),
//	        middleware.NewRetryMiddleware(middleware.RetryConfig{MaxRetries: 2}),
//	        middleware.NewLoggingMiddleware(slog.Default(), middleware.LogLevelStandard),
//	    ),
//	)
//
// Here a request travels Timeout → Retry → Logging → Provider.
package middleware
