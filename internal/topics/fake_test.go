package topics

import (
	"context"
	"errors"
	"sync"

	"github.com/omniweb/omniweb/providers/ai"
)

type reply struct {
	text string
	err  error
}

// fakeGenerator answers from per-model scripts. Each call consumes the next
// reply for that model; the last reply repeats.
type fakeGenerator struct {
	mu       sync.Mutex
	replies  map[string][]reply
	requests []ai.GenerateRequest
	// chunks, when set, is what Stream yields before streamErr.
	chunks    []string
	streamErr error
}

func (f *fakeGenerator) next(request ai.GenerateRequest) reply {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, request)

	script, ok := f.replies[request.Model]
	if !ok || len(script) == 0 {
		return reply{err: errors.New("model not found: " + request.Model)}
	}
	r := script[0]
	if len(script) > 1 {
		f.replies[request.Model] = script[1:]
	}
	return r
}

func (f *fakeGenerator) Generate(ctx context.Context, request ai.GenerateRequest) (*ai.GenerateResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r := f.next(request)
	if r.err != nil {
		return nil, r.err
	}
	return &ai.GenerateResponse{Model: request.Model, Text: r.text}, nil
}

func (f *fakeGenerator) Stream(_ context.Context, request ai.GenerateRequest) (*ai.GenerateStream, error) {
	r := f.next(request)
	if r.err != nil {
		return nil, r.err
	}
	return ai.NewGenerateStream(func(yield func(ai.StreamEvent, error) bool) {
		for _, chunk := range f.chunks {
			if !yield(ai.StreamEvent{Type: ai.StreamEventContent, Content: chunk}, nil) {
				return
			}
		}
		if f.streamErr != nil {
			yield(ai.StreamEvent{}, f.streamErr)
			return
		}
		yield(ai.StreamEvent{Type: ai.StreamEventDone, FinishReason: "stop"}, nil)
	}), nil
}

func (f *fakeGenerator) models() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	models := make([]string, len(f.requests))
	for i, r := range f.requests {
		models[i] = r.Model
	}
	return models
}

type staticModels []string

func (s staticModels) Names(context.Context) []string { return s }
