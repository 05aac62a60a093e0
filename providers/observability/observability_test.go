package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAttribute_Constructors(t *testing.T) {
	tests := []struct {
		name      string
		attr      Attribute
		wantKey   string
		wantValue any
	}{
		{name: "string", attr: String("key", "value"), wantKey: "key", wantValue: "value"},
		{name: "int", attr: Int("count", 42), wantKey: "count", wantValue: 42},
		{name: "int64", attr: Int64("big", 9223372036854775807), wantKey: "big", wantValue: int64(9223372036854775807)},
		{name: "float64", attr: Float64("ratio", 1.2), wantKey: "ratio", wantValue: 1.2},
		{name: "bool", attr: Bool("flag", true), wantKey: "flag", wantValue: true},
		{name: "duration", attr: Duration("elapsed", time.Second), wantKey: "elapsed", wantValue: time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.attr.Key != tt.wantKey {
				t.Errorf("expected key %q, got %q", tt.wantKey, tt.attr.Key)
			}
			if tt.attr.Value != tt.wantValue {
				t.Errorf("expected value %v, got %v", tt.wantValue, tt.attr.Value)
			}
		})
	}
}

func TestAttribute_Strings(t *testing.T) {
	attr := Strings(AttrFallbackCandidates, []string{"a", "b"})
	values, ok := attr.Value.([]string)
	if !ok {
		t.Fatalf("expected []string value, got %T", attr.Value)
	}
	if len(values) != 2 || values[0] != "a" || values[1] != "b" {
		t.Errorf("unexpected values: %v", values)
	}
}

func TestAttribute_Error(t *testing.T) {
	attr := Error(errors.New("boom"))
	if attr.Key != AttrError {
		t.Errorf("expected key %q, got %q", AttrError, attr.Key)
	}
	if attr.Value != "boom" {
		t.Errorf("expected value %q, got %v", "boom", attr.Value)
	}

	nilAttr := Error(nil)
	if nilAttr.Value != "" {
		t.Errorf("expected empty value for nil error, got %v", nilAttr.Value)
	}
}

type mockSpan struct {
	name string
}

func (m *mockSpan) End() {}
func (m *mockSpan) SetAttributes(...Attribute) {}
func (m *mockSpan) SetStatus(StatusCode, string) {}
func (m *mockSpan) RecordError(error) {}
func (m *mockSpan) AddEvent(string, ...Attribute) {}

type mockObserver struct {
	mockSpanFactory
}

type mockSpanFactory struct{}

func (mockSpanFactory) StartSpan(ctx context.Context, name string, _ ...Attribute) (context.Context, Span) {
	return ctx, &mockSpan{name: name}
}
func (mockSpanFactory) Counter(string) Counter { return nil }
func (mockSpanFactory) Histogram(string) Histogram { return nil }
func (mockSpanFactory) Trace(context.Context, string, ...Attribute) {}
func (mockSpanFactory) Debug(context.Context, string, ...Attribute) {}
func (mockSpanFactory) Info(context.Context, string, ...Attribute) {}
func (mockSpanFactory) Warn(context.Context, string, ...Attribute) {}
func (mockSpanFactory) Error(context.Context, string, ...Attribute) {}

func TestSpanFromContext(t *testing.T) {
	if span := SpanFromContext(context.Background()); span != nil {
		t.Errorf("expected nil span from empty context, got %v", span)
	}

	//nolint:staticcheck // nil context is part of the contract under test
	if span := SpanFromContext(nil); span != nil {
		t.Errorf("expected nil span from nil context, got %v", span)
	}

	span := &mockSpan{name: "test-span"}
	ctx := ContextWithSpan(context.Background(), span)
	if got := SpanFromContext(ctx); got != span {
		t.Errorf("expected same span instance, got %v", got)
	}
}

func TestObserverFromContext(t *testing.T) {
	if observer := ObserverFromContext(context.Background()); observer != nil {
		t.Errorf("expected nil observer from empty context, got %v", observer)
	}

	observer := &mockObserver{}
	//nolint:staticcheck // nil context is part of the contract under test
	ctx := ContextWithObserver(nil, observer)
	if got := ObserverFromContext(ctx); got != observer {
		t.Errorf("expected same observer instance, got %v", got)
	}

	// span and observer keys must not collide
	ctx = ContextWithSpan(ctx, &mockSpan{name: "inner"})
	if got := ObserverFromContext(ctx); got != observer {
		t.Errorf("observer lost after attaching span")
	}
}
