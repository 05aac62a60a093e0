// Package client wraps an ai.Provider with a middleware chain and
// per-request bookkeeping. Middlewares (see package middleware) add
// timeouts, retries and logging; [WithObserver] adds spans and metrics
// around every generation.
//
//	c, err := client.New(ollama.New(),
//	    client.WithObserver(slogobs.New()),
//	    client.WithMiddleware(middleware.NewTimeoutMiddleware(2*time.Minute)),
//	)
//	text, err := c.Text(ctx, "llama3", "Name one planet.", nil)
package client
