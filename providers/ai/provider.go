package ai

import (
	"context"
	"net/http"
)

// Provider is implemented by every generation backend.
type Provider interface {
	// Name identifies the backend in logs and spans.
	Name() string

	// Generate runs a prompt to completion and returns the full text.
	Generate(ctx context.Context, request GenerateRequest) (*GenerateResponse, error)

	// ListModels returns the models installed on the backend.
	ListModels(ctx context.Context) ([]ModelInfo, error)

	// WithBaseURL overrides the backend address.
	WithBaseURL(baseURL string) Provider

	// WithHttpClient sets the HTTP client used for outbound requests.
	WithHttpClient(httpClient *http.Client) Provider
}

// StreamProvider is implemented by backends that can stream partial output.
// Callers detect it with a type assertion and fall back to Generate otherwise.
type StreamProvider interface {
	Provider
	// StreamGenerate starts a generation and returns a stream of text deltas.
	// Errors before the first byte (bad request, unknown model, network) are
	// returned directly; later ones are yielded by the stream.
	StreamGenerate(ctx context.Context, request GenerateRequest) (*GenerateStream, error)
}

// Pinger is implemented by backends that expose a cheap liveness check.
type Pinger interface {
	Ping(ctx context.Context) error
}
