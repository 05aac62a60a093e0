package ollama

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/omniweb/omniweb/internal/utils"
	"github.com/omniweb/omniweb/providers/ai"
	"github.com/omniweb/omniweb/providers/observability"
)

const (
	providerName     = "ollama"
	defaultBaseURL   = "http://localhost:11434"
	generateEndpoint = "/api/generate"
	tagsEndpoint     = "/api/tags"
)

// Provider talks to an Ollama server.
type Provider struct {
	baseURL string
	client  *http.Client
}

var (
	_ ai.StreamProvider = (*Provider)(nil)
	_ ai.Pinger         = (*Provider)(nil)
)

// New creates a provider for the server named by OLLAMA_BASE, or the
// local default.
func New() *Provider {
	baseURL := os.Getenv("OLLAMA_BASE")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Provider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
}

func (p *Provider) Name() string {
	return providerName
}

// BaseURL returns the server address in use.
func (p *Provider) BaseURL() string {
	return p.baseURL
}

// WithBaseURL sets the server address.
func (p *Provider) WithBaseURL(baseURL string) ai.Provider {
	if baseURL != "" {
		p.baseURL = strings.TrimRight(baseURL, "/")
	}
	return p
}

// WithHttpClient sets the HTTP client used for requests.
func (p *Provider) WithHttpClient(httpClient *http.Client) ai.Provider {
	if httpClient != nil {
		p.client = httpClient
	}
	return p
}

// Generate runs a non-streamed generation.
func (p *Provider) Generate(ctx context.Context, request ai.GenerateRequest) (*ai.GenerateResponse, error) {
	p.annotate(ctx, request, false)

	_, chunk, err := utils.DoPostSync[generateChunk](ctx, p.client, p.baseURL+generateEndpoint, requestFromGeneric(request, false))
	if err != nil {
		return nil, err
	}
	if chunk.Error != "" {
		return nil, fmt.Errorf("ollama: %s", chunk.Error)
	}
	return responseToGeneric(chunk), nil
}

// ListModels returns the models reported by /api/tags, in server order.
func (p *Provider) ListModels(ctx context.Context) ([]ai.ModelInfo, error) {
	_, tags, err := utils.DoGetSync[tagsResponse](ctx, p.client, p.baseURL+tagsEndpoint)
	if err != nil {
		return nil, err
	}
	return modelsToGeneric(tags), nil
}

// Ping checks that the server answers on its base URL.
func (p *Provider) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	res, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama unreachable at %s: %w", p.baseURL, err)
	}
	defer utils.CloseWithLog(res.Body)
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 1024))

	if res.StatusCode != http.StatusOK {
		return &utils.StatusError{StatusCode: res.StatusCode}
	}
	return nil
}

func (p *Provider) annotate(ctx context.Context, request ai.GenerateRequest, streaming bool) {
	span := observability.SpanFromContext(ctx)
	if span == nil {
		return
	}
	attrs := []observability.Attribute{
		observability.String(observability.AttrLLMProvider, providerName),
		observability.String(observability.AttrLLMEndpoint, p.baseURL),
		observability.String(observability.AttrLLMModel, request.Model),
		observability.Bool("llm.streaming", streaming),
	}
	if request.Options != nil && request.Options.Temperature != nil {
		attrs = append(attrs, observability.Float64(observability.AttrLLMTemperature, *request.Options.Temperature))
	}
	span.SetAttributes(attrs...)
}
