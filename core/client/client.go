package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/omniweb/omniweb/providers/ai"
	"github.com/omniweb/omniweb/providers/observability"
)

// ErrNoProvider is returned by New when provider is nil.
var ErrNoProvider = errors.New("client: provider is required")

// Client runs generations through a provider and its middleware chain.
// It holds no per-request state and is safe for concurrent use.
type Client struct {
	provider    ai.Provider
	observer    observability.Provider
	middlewares []MiddlewareConfig
	send        SendFunc
	stream      StreamFunc
}

// Option configures a Client.
type Option func(*Client)

// WithObserver enables spans, metrics and logs for every generation. The
// observability middleware becomes the outermost wrapper.
func WithObserver(observer observability.Provider) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

// WithMiddleware appends middlewares to the chain.
func WithMiddleware(middlewares ...MiddlewareConfig) Option {
	return func(c *Client) {
		c.middlewares = append(c.middlewares, middlewares...)
	}
}

// New builds a Client around provider.
func New(provider ai.Provider, opts ...Option) (*Client, error) {
	if provider == nil {
		return nil, ErrNoProvider
	}

	c := &Client{provider: provider}
	for _, opt := range opts {
		opt(c)
	}

	for i, m := range c.middlewares {
		if m.Send == nil {
			return nil, fmt.Errorf("client: middleware %d has a nil Send function", i)
		}
	}

	chain := c.middlewares
	if c.observer != nil {
		chain = append([]MiddlewareConfig{NewObservabilityMiddleware(c.observer)}, chain...)
	}

	c.send = buildSendChain(provider, chain)
	c.stream = buildStreamChain(provider, chain)
	return c, nil
}

// Provider returns the wrapped provider.
func (c *Client) Provider() ai.Provider {
	return c.provider
}

// Observer returns the configured observer, or nil.
func (c *Client) Observer() observability.Provider {
	return c.observer
}

// Generate runs request through the send chain. Successful generations are
// recorded on the ai.Overview carried by ctx, if any.
func (c *Client) Generate(ctx context.Context, request ai.GenerateRequest) (*ai.GenerateResponse, error) {
	response, err := c.send(ctx, request)
	if err != nil {
		return nil, err
	}
	if overview := ai.OverviewFromContext(ctx); overview != nil {
		overview.Record(request.Model, response.Usage)
	}
	return response, nil
}

// Stream runs request through the stream chain.
func (c *Client) Stream(ctx context.Context, request ai.GenerateRequest) (*ai.GenerateStream, error) {
	return c.stream(ctx, request)
}

// Text is a shorthand for Generate returning the trimmed reply text.
func (c *Client) Text(ctx context.Context, model, prompt string, options *ai.GenerationOptions) (string, error) {
	response, err := c.Generate(ctx, ai.GenerateRequest{
		Model:   model,
		Prompt:  prompt,
		Options: options,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(response.Text), nil
}

// ListModels lists the models installed on the backend. It bypasses the
// middleware chain.
func (c *Client) ListModels(ctx context.Context) ([]ai.ModelInfo, error) {
	return c.provider.ListModels(ctx)
}

// Ping checks backend liveness when the provider supports it; otherwise it
// falls back to listing models.
func (c *Client) Ping(ctx context.Context) error {
	if pinger, ok := c.provider.(ai.Pinger); ok {
		return pinger.Ping(ctx)
	}
	_, err := c.provider.ListModels(ctx)
	return err
}
