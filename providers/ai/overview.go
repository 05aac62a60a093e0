package ai

import (
	"context"
	"sync"
)

type overviewKey struct{}

// Overview accumulates the generations made while serving one request,
// including every fallback attempt. It is safe for concurrent use.
type Overview struct {
	mu         sync.Mutex
	Requests   int      `json:"requests"`
	Models     []string `json:"models"`
	TotalUsage Usage    `json:"total_usage"`
}

// OverviewFromContext returns the Overview attached to ctx, or nil.
func OverviewFromContext(ctx context.Context) *Overview {
	if ctx == nil {
		return nil
	}
	overview, _ := ctx.Value(overviewKey{}).(*Overview)
	return overview
}

// ToContext attaches o to ctx.
func (o *Overview) ToContext(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, overviewKey{}, o)
}

// Record adds one finished generation.
func (o *Overview) Record(model string, usage *Usage) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Requests++
	o.Models = append(o.Models, model)
	if usage != nil {
		o.TotalUsage.PromptTokens += usage.PromptTokens
		o.TotalUsage.CompletionTokens += usage.CompletionTokens
		o.TotalUsage.TotalTokens += usage.TotalTokens
	}
}

// Snapshot returns a copy of the counters.
func (o *Overview) Snapshot() (requests int, usage Usage) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.Requests, o.TotalUsage
}
