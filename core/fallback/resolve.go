package fallback

import (
	"context"
	"time"

	"github.com/omniweb/omniweb/core/extract"
	"github.com/omniweb/omniweb/core/validate"
	"github.com/omniweb/omniweb/providers/observability"
)

// FetchFunc returns the raw model output for one model.
type FetchFunc func(ctx context.Context, model string) (string, error)

// Attempt records one model that was tried and why it failed, if it did.
type Attempt struct {
	Model     string
	Err       error
	Duration  time.Duration
	// Extracted reports how the JSON span was located. It is NotFound when
	// the fetch itself failed.
	Extracted extract.Kind
}

// Outcome is the terminal state of a walk.
type Outcome struct {
	// Children is nil when every attempt failed.
	Children *validate.Children
	// Model is the model whose output was accepted.
	Model    string
	Attempts []Attempt
}

// Empty reports whether the walk was exhausted.
func (o Outcome) Empty() bool {
	return o.Children == nil
}

// Result returns the accepted children, or an empty list when exhausted,
// so it always serializes as {"children": [...]}.
func (o Outcome) Result() *validate.Children {
	if o.Children == nil {
		return &validate.Children{Children: []validate.Child{}}
	}
	return o.Children
}

// Resolve tries primary first, then each candidate in order, skipping
// candidates equal to primary or already tried. It stops at the first
// accepted result or when ctx is done.
func Resolve(ctx context.Context, primary string, candidates []string, exclusions validate.ExclusionSet, fetch FetchFunc) Outcome {
	observer := observability.ObserverFromContext(ctx)

	var span observability.Span
	if observer != nil {
		ctx, span = observer.StartSpan(ctx, observability.SpanFallbackResolve,
			observability.String(observability.AttrFallbackPrimary, primary),
			observability.Strings(observability.AttrFallbackCandidates, candidates),
			observability.Int(observability.AttrFallbackExcluded, len(exclusions)),
		)
		defer span.End()
	}

	var outcome Outcome
	tried := make(map[string]struct{}, len(candidates)+1)

	for _, model := range append([]string{primary}, candidates...) {
		if _, done := tried[model]; done {
			continue
		}
		if len(outcome.Attempts) > 0 && ctx.Err() != nil {
			break
		}
		tried[model] = struct{}{}

		children, attempt := try(ctx, model, exclusions, fetch)
		outcome.Attempts = append(outcome.Attempts, attempt)

		if observer != nil {
			observer.Counter(observability.MetricFallbackAttempts).Add(ctx, 1,
				observability.String(observability.AttrLLMModel, model))
			span.AddEvent(observability.EventFallbackAttempt,
				observability.String(observability.AttrLLMModel, model),
				observability.Int(observability.AttrFallbackAttempt, len(outcome.Attempts)-1),
				observability.Duration(observability.AttrDuration, attempt.Duration),
				observability.String(observability.AttrExtractKind, attempt.Extracted.String()),
				observability.Error(attempt.Err),
			)
		}

		if attempt.Err == nil {
			outcome.Children = children
			outcome.Model = model
			break
		}
		if observer != nil {
			observer.Warn(ctx, "model output rejected",
				observability.String(observability.AttrLLMModel, model),
				observability.Error(attempt.Err),
			)
		}
	}

	if observer != nil {
		span.SetAttributes(observability.Int(observability.AttrFallbackAttempts, len(outcome.Attempts)))
		if outcome.Empty() {
			observer.Counter(observability.MetricFallbackExhausted).Add(ctx, 1)
			span.AddEvent(observability.EventFallbackExhausted)
			span.SetStatus(observability.StatusError, "all candidates failed")
		} else {
			span.SetAttributes(
				observability.String(observability.AttrLLMModel, outcome.Model),
				observability.Int(observability.AttrValidateAccepted, outcome.Children.Len()),
			)
			span.SetStatus(observability.StatusOK, "")
		}
	}
	return outcome
}

func try(ctx context.Context, model string, exclusions validate.ExclusionSet, fetch FetchFunc) (*validate.Children, Attempt) {
	start := time.Now()
	attempt := Attempt{Model: model}

	raw, err := fetch(ctx, model)
	if err != nil {
		attempt.Err = err
		attempt.Duration = time.Since(start)
		return nil, attempt
	}

	found := extract.Find(raw)
	attempt.Extracted = found.Kind
	children, err := validate.Validate(found.Text, exclusions)
	attempt.Err = err
	attempt.Duration = time.Since(start)
	return children, attempt
}
