package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/omniweb/omniweb/providers/ai"
)

func TestTimeout_SendDeadline(t *testing.T) {
	slow := func(ctx context.Context, _ ai.GenerateRequest) (*ai.GenerateResponse, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Second):
			return &ai.GenerateResponse{}, nil
		}
	}

	send := NewTimeoutMiddleware(10 * time.Millisecond).Send(slow)
	_, err := send(context.Background(), ai.GenerateRequest{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestTimeout_SendFastPath(t *testing.T) {
	fast := func(ctx context.Context, _ ai.GenerateRequest) (*ai.GenerateResponse, error) {
		if _, ok := ctx.Deadline(); !ok {
			t.Error("expected a deadline on the context")
		}
		return &ai.GenerateResponse{Text: "done"}, nil
	}

	resp, err := NewTimeoutMiddleware(time.Second).Send(fast)(context.Background(), ai.GenerateRequest{})
	if err != nil || resp.Text != "done" {
		t.Fatalf("unexpected result %+v, %v", resp, err)
	}
}

func TestTimeout_StreamContextLivesUntilDrained(t *testing.T) {
	var streamCtx context.Context
	next := func(ctx context.Context, _ ai.GenerateRequest) (*ai.GenerateStream, error) {
		streamCtx = ctx
		return ai.NewSingleEventStream(&ai.GenerateResponse{Text: "hello"}), nil
	}

	stream, err := NewTimeoutMiddleware(time.Minute).Stream(next)(context.Background(), ai.GenerateRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if streamCtx.Err() != nil {
		t.Fatal("context should stay alive until the stream is consumed")
	}

	resp, err := stream.Collect()
	if err != nil || resp.Text != "hello" {
		t.Fatalf("unexpected result %+v, %v", resp, err)
	}
	if !errors.Is(streamCtx.Err(), context.Canceled) {
		t.Errorf("context should be cancelled after the stream ends, got %v", streamCtx.Err())
	}
}

func TestTimeout_StreamPreStreamError(t *testing.T) {
	boom := errors.New("boom")
	var streamCtx context.Context
	next := func(ctx context.Context, _ ai.GenerateRequest) (*ai.GenerateStream, error) {
		streamCtx = ctx
		return nil, boom
	}

	_, err := NewTimeoutMiddleware(time.Minute).Stream(next)(context.Background(), ai.GenerateRequest{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if streamCtx.Err() == nil {
		t.Error("context should be cancelled on pre-stream error")
	}
}
