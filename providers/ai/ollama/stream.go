package ollama

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/omniweb/omniweb/internal/utils"
	"github.com/omniweb/omniweb/providers/ai"
)

// StreamGenerate starts a streamed generation. Each NDJSON line becomes a
// content event; the final line also yields usage and done events.
func (p *Provider) StreamGenerate(ctx context.Context, request ai.GenerateRequest) (*ai.GenerateStream, error) {
	p.annotate(ctx, request, true)

	httpResponse, err := utils.DoPostStream(ctx, p.client, p.baseURL+generateEndpoint, requestFromGeneric(request, true))
	if err != nil {
		return nil, err
	}

	scanner := utils.NewNDJSONScanner(httpResponse.Body)

	iteratorFunc := func(yield func(ai.StreamEvent, error) bool) {
		defer utils.CloseWithLog(httpResponse.Body)

		for {
			if ctx.Err() != nil {
				yield(ai.StreamEvent{}, ctx.Err())
				return
			}

			var chunk generateChunk
			err := scanner.Decode(&chunk)
			if errors.Is(err, io.EOF) {
				yield(ai.StreamEvent{}, io.ErrUnexpectedEOF)
				return
			}
			if err != nil {
				yield(ai.StreamEvent{}, err)
				return
			}
			if chunk.Error != "" {
				yield(ai.StreamEvent{}, fmt.Errorf("ollama: %s", chunk.Error))
				return
			}

			for _, event := range chunkToStreamEvents(&chunk) {
				if !yield(event, nil) {
					return
				}
			}
			if chunk.Done {
				return
			}
		}
	}

	return ai.NewGenerateStream(iteratorFunc), nil
}

func chunkToStreamEvents(chunk *generateChunk) []ai.StreamEvent {
	var events []ai.StreamEvent
	if chunk.Response != "" {
		events = append(events, ai.StreamEvent{Type: ai.StreamEventContent, Content: chunk.Response})
	}
	if chunk.Done {
		if usage := chunk.usage(); usage != nil {
			events = append(events, ai.StreamEvent{Type: ai.StreamEventUsage, Usage: usage})
		}
		events = append(events, ai.StreamEvent{Type: ai.StreamEventDone, FinishReason: chunk.DoneReason})
	}
	return events
}
