package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/omniweb/omniweb/core/client"
	"github.com/omniweb/omniweb/internal/utils"
	"github.com/omniweb/omniweb/providers/ai"
)

// LogLevel controls how much detail the logging middleware emits.
type LogLevel int

const (
	// LogLevelMinimal logs the model, duration and token counts.
	LogLevelMinimal LogLevel = iota

	// LogLevelStandard adds prompt length and finish reason.
	LogLevelStandard

	// LogLevelVerbose adds the prompt and reply text, truncated. It logs
	// user-supplied topics verbatim; keep it to local debugging.
	LogLevelVerbose
)

const truncateLen = 500

// NewLoggingMiddleware logs every generation through logger. For streams,
// the completion entry is written once the stream ends.
func NewLoggingMiddleware(logger *slog.Logger, level LogLevel) client.MiddlewareConfig {
	return client.MiddlewareConfig{
		Send:   buildSendLogging(logger, level),
		Stream: buildStreamLogging(logger, level),
	}
}

func buildSendLogging(logger *slog.Logger, level LogLevel) client.Middleware {
	return func(next client.SendFunc) client.SendFunc {
		return func(ctx context.Context, request ai.GenerateRequest) (*ai.GenerateResponse, error) {
			logger.InfoContext(ctx, "llm generate", buildRequestAttrs(request, level)...)

			start := time.Now()
			response, err := next(ctx, request)
			elapsed := time.Since(start)

			if err != nil {
				logger.ErrorContext(ctx, "llm generate failed",
					slog.String("model", request.Model),
					slog.Duration("duration", elapsed),
					slog.String("error", err.Error()),
				)
				return nil, err
			}

			logger.InfoContext(ctx, "llm generate completed", buildResponseAttrs(request.Model, response, elapsed, level)...)
			return response, nil
		}
	}
}

func buildStreamLogging(logger *slog.Logger, level LogLevel) client.StreamMiddleware {
	return func(next client.StreamFunc) client.StreamFunc {
		return func(ctx context.Context, request ai.GenerateRequest) (*ai.GenerateStream, error) {
			logger.InfoContext(ctx, "llm stream", buildRequestAttrs(request, level)...)

			start := time.Now()
			stream, err := next(ctx, request)
			if err != nil {
				logger.ErrorContext(ctx, "llm stream failed",
					slog.String("model", request.Model),
					slog.Duration("duration", time.Since(start)),
					slog.String("error", err.Error()),
				)
				return nil, err
			}

			return wrapStreamWithLogging(ctx, stream, logger, request.Model, level, start), nil
		}
	}
}

func wrapStreamWithLogging(
	ctx context.Context,
	stream *ai.GenerateStream,
	logger *slog.Logger,
	model string,
	level LogLevel,
	start time.Time,
) *ai.GenerateStream {
	iteratorFunc := func(yield func(ai.StreamEvent, error) bool) {
		final := &ai.GenerateResponse{}
		var chunks int

		for event, err := range stream.Iter() {
			if err != nil {
				logger.ErrorContext(ctx, "llm stream failed",
					slog.String("model", model),
					slog.Duration("duration", time.Since(start)),
					slog.Int("chunks", chunks),
					slog.String("error", err.Error()),
				)
				yield(event, err)
				return
			}

			switch event.Type {
			case ai.StreamEventContent:
				chunks++
				if level >= LogLevelVerbose {
					final.Text += event.Content
				}
			case ai.StreamEventUsage:
				final.Usage = event.Usage
			case ai.StreamEventDone:
				final.FinishReason = event.FinishReason
			}

			if !yield(event, nil) {
				logger.InfoContext(ctx, "llm stream abandoned",
					slog.String("model", model),
					slog.Duration("duration", time.Since(start)),
					slog.Int("chunks", chunks),
				)
				return
			}
		}

		attrs := buildResponseAttrs(model, final, time.Since(start), level)
		attrs = append(attrs, slog.Int("chunks", chunks))
		logger.InfoContext(ctx, "llm stream completed", attrs...)
	}

	return ai.NewGenerateStream(iteratorFunc)
}

func buildRequestAttrs(request ai.GenerateRequest, level LogLevel) []any {
	attrs := []any{slog.String("model", request.Model)}

	if level >= LogLevelStandard {
		attrs = append(attrs, slog.Int("prompt_length", len(request.Prompt)))
		if request.Options != nil && request.Options.Temperature != nil {
			attrs = append(attrs, slog.Float64("temperature", *request.Options.Temperature))
		}
	}
	if level >= LogLevelVerbose {
		attrs = append(attrs, slog.String("prompt", utils.TruncateString(request.Prompt, truncateLen)))
		if request.Options != nil {
			attrs = append(attrs, slog.String("options", utils.JSONToString(request.Options)))
		}
	}
	return attrs
}

func buildResponseAttrs(model string, response *ai.GenerateResponse, elapsed time.Duration, level LogLevel) []any {
	attrs := []any{
		slog.String("model", model),
		slog.Duration("duration", elapsed),
	}

	if response.Usage != nil {
		attrs = append(attrs,
			slog.Int("prompt_tokens", response.Usage.PromptTokens),
			slog.Int("completion_tokens", response.Usage.CompletionTokens),
			slog.Int("total_tokens", response.Usage.TotalTokens),
		)
	}
	if level >= LogLevelStandard && response.FinishReason != "" {
		attrs = append(attrs, slog.String("finish_reason", response.FinishReason))
	}
	if level >= LogLevelVerbose && response.Text != "" {
		attrs = append(attrs, slog.String("response", utils.TruncateString(response.Text, truncateLen)))
	}
	return attrs
}
