package client

import (
	"context"

	"github.com/omniweb/omniweb/internal/utils"
	"github.com/omniweb/omniweb/providers/ai"
	"github.com/omniweb/omniweb/providers/observability"
)

// NewObservabilityMiddleware wraps every generation in an llm.request span
// and records request count, duration and token usage. For streams, the
// span stays open until the stream is drained, fails, or is abandoned.
//
// The span and observer are stored in the context passed down the chain so
// providers can annotate them.
func NewObservabilityMiddleware(observer observability.Provider) MiddlewareConfig {
	return MiddlewareConfig{
		Send:   buildObsSend(observer),
		Stream: buildObsStream(observer),
	}
}

func buildObsSend(observer observability.Provider) Middleware {
	return func(next SendFunc) SendFunc {
		return func(ctx context.Context, request ai.GenerateRequest) (*ai.GenerateResponse, error) {
			ctx, span := startRequestSpan(ctx, observer, request, false)

			timer := utils.NewTimer()
			response, err := next(ctx, request)
			timer.Stop()

			if err != nil {
				recordObsFailure(ctx, span, observer, err, timer, request.Model)
				return nil, err
			}

			recordObsSuccess(ctx, span, observer, response, timer, request.Model)
			return response, nil
		}
	}
}

func buildObsStream(observer observability.Provider) StreamMiddleware {
	return func(next StreamFunc) StreamFunc {
		return func(ctx context.Context, request ai.GenerateRequest) (*ai.GenerateStream, error) {
			ctx, span := startRequestSpan(ctx, observer, request, true)

			timer := utils.NewTimer()
			stream, err := next(ctx, request)
			if err != nil {
				timer.Stop()
				recordObsFailure(ctx, span, observer, err, timer, request.Model)
				return nil, err
			}

			return wrapStreamWithObservability(ctx, stream, span, observer, timer, request.Model), nil
		}
	}
}

func startRequestSpan(ctx context.Context, observer observability.Provider, request ai.GenerateRequest, streaming bool) (context.Context, observability.Span) {
	ctx, span := observer.StartSpan(ctx, observability.SpanLLMRequest,
		observability.String(observability.AttrLLMModel, request.Model),
		observability.Bool("llm.streaming", streaming),
	)
	ctx = observability.ContextWithSpan(ctx, span)
	ctx = observability.ContextWithObserver(ctx, observer)

	span.AddEvent(observability.EventLLMRequestStart)
	observer.Trace(ctx, "llm request",
		observability.String(observability.AttrLLMModel, request.Model),
		observability.String("llm.prompt", utils.TruncateString(request.Prompt, 200)),
	)
	return ctx, span
}

// wrapStreamWithObservability passes events through unchanged and closes the
// span when the stream ends.
func wrapStreamWithObservability(
	ctx context.Context,
	stream *ai.GenerateStream,
	span observability.Span,
	observer observability.Provider,
	timer *utils.Timer,
	model string,
) *ai.GenerateStream {
	iteratorFunc := func(yield func(ai.StreamEvent, error) bool) {
		final := &ai.GenerateResponse{Model: model}

		for event, err := range stream.Iter() {
			if err != nil {
				timer.Stop()
				recordObsFailure(ctx, span, observer, err, timer, model)
				yield(event, err)
				return
			}

			switch event.Type {
			case ai.StreamEventUsage:
				final.Usage = event.Usage
			case ai.StreamEventDone:
				final.FinishReason = event.FinishReason
			}

			if !yield(event, nil) {
				timer.Stop()
				span.SetStatus(observability.StatusOK, "stream abandoned")
				span.End()
				observer.Info(ctx, "llm stream abandoned",
					observability.String(observability.AttrLLMModel, model),
					observability.Duration(observability.AttrDuration, timer.GetDuration()),
				)
				return
			}
		}

		timer.Stop()
		recordObsSuccess(ctx, span, observer, final, timer, model)
	}

	return ai.NewGenerateStream(iteratorFunc)
}

func recordObsFailure(
	ctx context.Context,
	span observability.Span,
	observer observability.Provider,
	err error,
	timer *utils.Timer,
	model string,
) {
	span.RecordError(err)
	span.SetStatus(observability.StatusError, "llm request failed")
	span.End()

	observer.Warn(ctx, "llm request failed",
		observability.String(observability.AttrLLMModel, model),
		observability.Duration(observability.AttrDuration, timer.GetDuration()),
		observability.Error(err),
	)
	observer.Counter(observability.MetricLLMRequestCount).Add(ctx, 1,
		observability.String(observability.AttrStatus, "error"),
		observability.String(observability.AttrLLMModel, model),
	)
}

func recordObsSuccess(
	ctx context.Context,
	span observability.Span,
	observer observability.Provider,
	response *ai.GenerateResponse,
	timer *utils.Timer,
	model string,
) {
	elapsed := timer.GetDuration()

	observer.Histogram(observability.MetricLLMRequestDuration).Record(ctx, elapsed.Seconds(),
		observability.String(observability.AttrLLMModel, model),
	)
	observer.Counter(observability.MetricLLMRequestCount).Add(ctx, 1,
		observability.String(observability.AttrStatus, "success"),
		observability.String(observability.AttrLLMModel, model),
	)

	logAttrs := []observability.Attribute{
		observability.String(observability.AttrLLMModel, model),
		observability.Duration(observability.AttrDuration, elapsed),
	}
	if response.FinishReason != "" {
		logAttrs = append(logAttrs, observability.String(observability.AttrLLMFinishReason, response.FinishReason))
	}
	if response.Usage != nil {
		usageAttrs := []observability.Attribute{
			observability.Int(observability.AttrLLMTokensPrompt, response.Usage.PromptTokens),
			observability.Int(observability.AttrLLMTokensCompletion, response.Usage.CompletionTokens),
			observability.Int(observability.AttrLLMTokensTotal, response.Usage.TotalTokens),
		}
		span.SetAttributes(usageAttrs...)
		logAttrs = append(logAttrs, usageAttrs...)
	}
	if response.Text != "" {
		logAttrs = append(logAttrs, observability.String("llm.response", utils.TruncateString(response.Text, 100)))
	}

	observer.Debug(ctx, "llm request completed", logAttrs...)

	span.AddEvent(observability.EventLLMRequestEnd)
	span.SetStatus(observability.StatusOK, "")
	span.End()
}
