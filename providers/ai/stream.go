package ai

import (
	"iter"
	"strings"
)

// StreamEventType identifies the kind of delta carried by a StreamEvent.
type StreamEventType string

const (
	// StreamEventContent carries a text delta.
	StreamEventContent StreamEventType = "content"
	// StreamEventUsage carries token usage, usually right before done.
	StreamEventUsage StreamEventType = "usage"
	// StreamEventDone signals a normal end of stream.
	StreamEventDone StreamEventType = "done"
)

// StreamEvent is a single delta yielded while streaming.
type StreamEvent struct {
	Type         StreamEventType `json:"type"`
	Content      string          `json:"content,omitempty"`       // Type == StreamEventContent
	Usage        *Usage          `json:"usage,omitempty"`         // Type == StreamEventUsage
	FinishReason string          `json:"finish_reason,omitempty"` // Type == StreamEventDone
}

// GenerateStream wraps a streaming iterator. It can be ranged over with Iter
// or drained with Collect.
//
// Callers must consume the stream, either fully or by breaking out of the
// loop: the backend may hold an open HTTP body that is only released when
// the iterator returns.
type GenerateStream struct {
	iterator iter.Seq2[StreamEvent, error]
}

// NewGenerateStream wraps iterator. A non-nil error yielded by the iterator
// ends the stream.
func NewGenerateStream(iterator iter.Seq2[StreamEvent, error]) *GenerateStream {
	return &GenerateStream{iterator: iterator}
}

// NewSingleEventStream replays a finished response as a stream, for
// backends without native streaming.
func NewSingleEventStream(response *GenerateResponse) *GenerateStream {
	return NewGenerateStream(func(yield func(StreamEvent, error) bool) {
		if response.Text != "" {
			if !yield(StreamEvent{Type: StreamEventContent, Content: response.Text}, nil) {
				return
			}
		}
		if response.Usage != nil {
			if !yield(StreamEvent{Type: StreamEventUsage, Usage: response.Usage}, nil) {
				return
			}
		}
		yield(StreamEvent{Type: StreamEventDone, FinishReason: response.FinishReason}, nil)
	})
}

// Iter returns the underlying iterator.
//
//	for event, err := range stream.Iter() {
//	    if err != nil { return err }
//	    fmt.Print(event.Content)
//	}
func (stream *GenerateStream) Iter() iter.Seq2[StreamEvent, error] {
	return stream.iterator
}

// Collect drains the stream into a GenerateResponse. On a mid-stream error
// it returns what was gathered so far together with the error.
func (stream *GenerateStream) Collect() (*GenerateResponse, error) {
	accumulated := &GenerateResponse{}
	var text strings.Builder

	for event, err := range stream.iterator {
		if err != nil {
			accumulated.Text = text.String()
			return accumulated, err
		}
		switch event.Type {
		case StreamEventContent:
			text.WriteString(event.Content)
		case StreamEventUsage:
			accumulated.Usage = event.Usage
		case StreamEventDone:
			accumulated.FinishReason = event.FinishReason
		}
	}

	accumulated.Text = text.String()
	return accumulated, nil
}
