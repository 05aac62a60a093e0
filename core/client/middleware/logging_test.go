package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/omniweb/omniweb/internal/utils"
	"github.com/omniweb/omniweb/providers/ai"
)

func newBufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func TestLogging_SendLevels(t *testing.T) {
	request := ai.GenerateRequest{
		Model:   "llama3",
		Prompt:  "Explain black holes",
		Options: &ai.GenerationOptions{Temperature: utils.Ptr(0.7)},
	}
	next := func(context.Context, ai.GenerateRequest) (*ai.GenerateResponse, error) {
		return &ai.GenerateResponse{
			Text:         "They are dense.",
			FinishReason: "stop",
			Usage:        &ai.Usage{PromptTokens: 4, CompletionTokens: 3, TotalTokens: 7},
		}, nil
	}

	tests := []struct {
		level   LogLevel
		want    []string
		notWant []string
	}{
		{LogLevelMinimal, []string{"llm generate completed", "model=llama3", "total_tokens=7"}, []string{"finish_reason", "prompt_length", "Explain"}},
		{LogLevelStandard, []string{"finish_reason=stop", "prompt_length=19", "temperature=0.7"}, []string{"Explain", "options="}},
		{LogLevelVerbose, []string{"Explain black holes", "They are dense.", "options="}, nil},
	}

	for _, tt := range tests {
		logger, buf := newBufferLogger()
		if _, err := NewLoggingMiddleware(logger, tt.level).Send(next)(context.Background(), request); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := buf.String()
		for _, s := range tt.want {
			if !strings.Contains(out, s) {
				t.Errorf("level %d: expected %q in log output:\n%s", tt.level, s, out)
			}
		}
		for _, s := range tt.notWant {
			if strings.Contains(out, s) {
				t.Errorf("level %d: did not expect %q in log output:\n%s", tt.level, s, out)
			}
		}
	}
}

func TestLogging_SendError(t *testing.T) {
	logger, buf := newBufferLogger()
	next := func(context.Context, ai.GenerateRequest) (*ai.GenerateResponse, error) {
		return nil, errors.New("model not loaded")
	}

	_, err := NewLoggingMiddleware(logger, LogLevelMinimal).Send(next)(context.Background(), ai.GenerateRequest{Model: "m"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(buf.String(), "llm generate failed") || !strings.Contains(buf.String(), "model not loaded") {
		t.Errorf("missing failure entry:\n%s", buf.String())
	}
}

func TestLogging_StreamCompletion(t *testing.T) {
	logger, buf := newBufferLogger()
	next := func(context.Context, ai.GenerateRequest) (*ai.GenerateStream, error) {
		return ai.NewSingleEventStream(&ai.GenerateResponse{Text: "chunk", FinishReason: "stop"}), nil
	}

	stream, err := NewLoggingMiddleware(logger, LogLevelStandard).Stream(next)(context.Background(), ai.GenerateRequest{Model: "m"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(buf.String(), "llm stream completed") {
		t.Fatal("completion should not be logged before the stream is consumed")
	}
	if _, err := stream.Collect(); err != nil {
		t.Fatalf("collect: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "llm stream completed") || !strings.Contains(out, "chunks=1") || !strings.Contains(out, "finish_reason=stop") {
		t.Errorf("unexpected log output:\n%s", out)
	}
}
