package middleware

import (
	"context"
	"time"

	"github.com/omniweb/omniweb/core/client"
	"github.com/omniweb/omniweb/providers/ai"
)

// NewTimeoutMiddleware bounds each generation by timeout. For streams the
// deadline covers the whole stream, not just the first byte: the context is
// cancelled once the stream ends, fails, or is abandoned. A shorter deadline
// already on the caller's context still wins.
func NewTimeoutMiddleware(timeout time.Duration) client.MiddlewareConfig {
	return client.MiddlewareConfig{
		Send:   buildSendTimeout(timeout),
		Stream: buildStreamTimeout(timeout),
	}
}

func buildSendTimeout(timeout time.Duration) client.Middleware {
	return func(next client.SendFunc) client.SendFunc {
		return func(ctx context.Context, request ai.GenerateRequest) (*ai.GenerateResponse, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			return next(ctx, request)
		}
	}
}

func buildStreamTimeout(timeout time.Duration) client.StreamMiddleware {
	return func(next client.StreamFunc) client.StreamFunc {
		return func(ctx context.Context, request ai.GenerateRequest) (*ai.GenerateStream, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)

			stream, err := next(ctx, request)
			if err != nil {
				cancel()
				return nil, err
			}
			return wrapStreamWithCancel(stream, cancel), nil
		}
	}
}

func wrapStreamWithCancel(stream *ai.GenerateStream, cancel context.CancelFunc) *ai.GenerateStream {
	return ai.NewGenerateStream(func(yield func(ai.StreamEvent, error) bool) {
		defer cancel()

		for event, err := range stream.Iter() {
			if !yield(event, err) || err != nil {
				return
			}
		}
	})
}
