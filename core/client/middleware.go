package client

import (
	"context"

	"github.com/omniweb/omniweb/providers/ai"
)

// SendFunc performs one non-streamed generation. It is the unit threaded
// through the send middleware chain.
type SendFunc func(ctx context.Context, request ai.GenerateRequest) (*ai.GenerateResponse, error)

// StreamFunc starts one streamed generation.
type StreamFunc func(ctx context.Context, request ai.GenerateRequest) (*ai.GenerateStream, error)

// Middleware wraps a SendFunc. The first middleware given to New is the
// outermost wrapper.
type Middleware func(next SendFunc) SendFunc

// StreamMiddleware is the streaming counterpart of Middleware.
type StreamMiddleware func(next StreamFunc) StreamFunc

// MiddlewareConfig pairs a send middleware with its optional streaming
// counterpart. Send is required; a nil Stream means streaming calls skip
// this entry.
type MiddlewareConfig struct {
	Send   Middleware
	Stream StreamMiddleware
}

// buildSendChain applies middlewares in reverse so middlewares[0] runs first.
func buildSendChain(provider ai.Provider, middlewares []MiddlewareConfig) SendFunc {
	var chain SendFunc = provider.Generate

	for i := len(middlewares) - 1; i >= 0; i-- {
		chain = middlewares[i].Send(chain)
	}
	return chain
}

// buildStreamChain uses native streaming when the provider supports it and
// otherwise replays a synchronous generation as a single-event stream.
func buildStreamChain(provider ai.Provider, middlewares []MiddlewareConfig) StreamFunc {
	var chain StreamFunc = func(ctx context.Context, request ai.GenerateRequest) (*ai.GenerateStream, error) {
		if streamProvider, ok := provider.(ai.StreamProvider); ok {
			return streamProvider.StreamGenerate(ctx, request)
		}

		response, err := provider.Generate(ctx, request)
		if err != nil {
			return nil, err
		}
		return ai.NewSingleEventStream(response), nil
	}

	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i].Stream != nil {
			chain = middlewares[i].Stream(chain)
		}
	}
	return chain
}
