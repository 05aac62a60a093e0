// Package topics implements the topic operations behind the HTTP surface:
// expanding a topic into children with model fallback, suggesting a random
// topic, and analysing a topic as a stream or a structured payload.
package topics

import (
	"context"
	"strings"
	"time"

	"github.com/omniweb/omniweb/core/fallback"
	"github.com/omniweb/omniweb/core/validate"
	"github.com/omniweb/omniweb/internal/catalog"
	"github.com/omniweb/omniweb/internal/prompt"
	"github.com/omniweb/omniweb/internal/utils"
	"github.com/omniweb/omniweb/providers/ai"
	"github.com/omniweb/omniweb/providers/observability"
)

const (
	randomTemperature  = 1.0
	analyzeTemperature = 0.6
)

// Generator runs generations. *client.Client satisfies it.
type Generator interface {
	Generate(ctx context.Context, request ai.GenerateRequest) (*ai.GenerateResponse, error)
	Stream(ctx context.Context, request ai.GenerateRequest) (*ai.GenerateStream, error)
}

// ModelSource lists installed model names in fallback order.
// *catalog.Catalog satisfies it.
type ModelSource interface {
	Names(ctx context.Context) []string
}

// Service implements the topic operations.
type Service struct {
	gen    Generator
	models ModelSource

	generateTimeout time.Duration
	randomTimeout   time.Duration
	streamTimeout   time.Duration
	randomFallback  string
	randomAttempts  int
	expandNumCtx    int
}

// Option configures a Service.
type Option func(*Service)

// WithTimeouts bounds each expand attempt, each random-topic attempt and
// each analysis. Zero leaves a bound unset.
func WithTimeouts(generate, random, stream time.Duration) Option {
	return func(s *Service) {
		s.generateTimeout = generate
		s.randomTimeout = random
		s.streamTimeout = stream
	}
}

// WithRandomFallback sets the topic returned when generation fails.
func WithRandomFallback(topic string) Option {
	return func(s *Service) {
		s.randomFallback = topic
	}
}

// WithRandomAttempts sets how many generations RandomTopic tries before
// falling back.
func WithRandomAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.randomAttempts = n
		}
	}
}

// WithExpandNumCtx sets the context window requested for expansions.
func WithExpandNumCtx(n int) Option {
	return func(s *Service) {
		s.expandNumCtx = n
	}
}

// New returns a Service.
func New(gen Generator, models ModelSource, opts ...Option) *Service {
	s := &Service{
		gen:            gen,
		models:         models,
		randomFallback: "The Universe",
		randomAttempts: 1,
		expandNumCtx:   4096,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Expand asks req.Model for the children of req.Node. When the output is
// unusable it walks the other installed models in order. An exhausted walk
// yields an Outcome whose Result is an empty list.
func (s *Service) Expand(ctx context.Context, req ExpandRequest) fallback.Outcome {
	text, err := prompt.Expand(prompt.ExpandInput{
		Node:       req.Node,
		Context:    req.Context,
		Exclusions: req.RecentNodes,
	})
	if err != nil {
		logWarn(ctx, "expand prompt failed", observability.Error(err))
		return fallback.Outcome{}
	}

	candidates := catalog.Candidates(s.models.Names(ctx), req.Model)
	exclusions := validate.NewExclusionSet(req.RecentNodes...)
	options := &ai.GenerationOptions{
		Temperature: utils.Ptr(req.temperature()),
		NumCtx:      s.expandNumCtx,
	}

	fetch := func(ctx context.Context, model string) (string, error) {
		ctx, cancel := withTimeout(ctx, s.generateTimeout)
		defer cancel()

		response, err := s.gen.Generate(ctx, ai.GenerateRequest{
			Model:   model,
			Prompt:  text,
			Options: options,
		})
		if err != nil {
			return "", err
		}
		return response.Text, nil
	}

	outcome := fallback.Resolve(ctx, req.Model, candidates, exclusions, fetch)
	if outcome.Empty() {
		logWarn(ctx, "expand exhausted all models",
			observability.String("topics.node", req.Node),
			observability.Int(observability.AttrFallbackAttempts, len(outcome.Attempts)),
		)
	}
	return outcome
}

// RandomTopic suggests one topic. Failures and empty replies are retried
// up to the configured attempt count, then the fallback topic is returned.
func (s *Service) RandomTopic(ctx context.Context, req RandomTopicRequest) string {
	for attempt := 1; attempt <= s.randomAttempts; attempt++ {
		topic, err := s.randomOnce(ctx, req.Model)
		if err == nil && topic != "" {
			return topic
		}
		logWarn(ctx, "random topic generation failed",
			observability.String(observability.AttrLLMModel, req.Model),
			observability.Int("topics.attempt", attempt),
			observability.Error(err),
		)
		if ctx.Err() != nil {
			break
		}
	}
	return s.randomFallback
}

func (s *Service) randomOnce(ctx context.Context, model string) (string, error) {
	ctx, cancel := withTimeout(ctx, s.randomTimeout)
	defer cancel()

	response, err := s.gen.Generate(ctx, ai.GenerateRequest{
		Model:   model,
		Prompt:  prompt.RandomTopic(),
		Options: &ai.GenerationOptions{Temperature: utils.Ptr(randomTemperature)},
	})
	if err != nil {
		return "", err
	}
	return cleanTopic(response.Text), nil
}

// cleanTopic drops every double quote and any surrounding quotes or
// whitespace.
func cleanTopic(raw string) string {
	return strings.TrimSpace(utils.Unquote(strings.ReplaceAll(raw, `"`, "")))
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func logWarn(ctx context.Context, msg string, attrs ...observability.Attribute) {
	if observer := observability.ObserverFromContext(ctx); observer != nil {
		observer.Warn(ctx, msg, attrs...)
	}
}
