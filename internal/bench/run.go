package bench

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/omniweb/omniweb/internal/utils"
	"github.com/omniweb/omniweb/providers/ai"
	"github.com/omniweb/omniweb/providers/observability"
)

const (
	benchTemperature = 0.1
	benchNumCtx      = 4096
	defaultTimeout   = 60 * time.Second
)

// Result statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Generator runs one generation. *client.Client satisfies it.
type Generator interface {
	Generate(ctx context.Context, request ai.GenerateRequest) (*ai.GenerateResponse, error)
}

// Result is the outcome of one case against one model. Failed calls carry
// no response and a zero duration.
type Result struct {
	TestID   string  `json:"test_id"`
	Status   string  `json:"status"`
	Duration float64 `json:"duration"`
	Response *string `json:"response"`
	Passed   bool    `json:"passed"`
	Error    *string `json:"error"`
}

// Report holds every result of a run, keyed by model.
type Report struct {
	StartedAt time.Time
	Models    []string
	Results   map[string][]Result
}

// Runner executes a suite against models, one call at a time.
type Runner struct {
	gen      Generator
	timeout  time.Duration
	progress io.Writer
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithTimeout bounds each call.
func WithTimeout(timeout time.Duration) RunnerOption {
	return func(r *Runner) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// WithProgress writes one line per case to w.
func WithProgress(w io.Writer) RunnerOption {
	return func(r *Runner) {
		r.progress = w
	}
}

// NewRunner returns a Runner using gen.
func NewRunner(gen Generator, opts ...RunnerOption) *Runner {
	r := &Runner{gen: gen, timeout: defaultTimeout, progress: io.Discard}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes every case against every model in order. It stops early,
// keeping what it has, when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, models []string, suite []Case) Report {
	report := Report{
		StartedAt: time.Now(),
		Results:   make(map[string][]Result, len(models)),
	}

	for _, model := range models {
		if ctx.Err() != nil {
			break
		}
		fmt.Fprintf(r.progress, "Testing model: %s\n", model)
		report.Models = append(report.Models, model)

		results := make([]Result, 0, len(suite))
		for _, c := range suite {
			results = append(results, r.runCase(ctx, model, c))
		}
		report.Results[model] = results
	}
	return report
}

func (r *Runner) runCase(ctx context.Context, model string, c Case) Result {
	fmt.Fprintf(r.progress, "    Running test: %s...", c.Name)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	timer := utils.NewTimer()
	response, err := r.gen.Generate(ctx, ai.GenerateRequest{
		Model:  model,
		Prompt: c.Prompt,
		System: c.System,
		Options: &ai.GenerationOptions{
			Temperature: utils.Ptr(benchTemperature),
			NumCtx:      benchNumCtx,
		},
	})
	elapsed := timer.Stop()

	if err != nil {
		fmt.Fprintf(r.progress, " Error (%v)\n", err)
		if observer := observability.ObserverFromContext(ctx); observer != nil {
			observer.Warn(ctx, "bench case failed",
				observability.String(observability.AttrLLMModel, model),
				observability.String("bench.case", c.ID),
				observability.Error(err),
			)
		}
		return Result{TestID: c.ID, Status: StatusError, Error: utils.Ptr(err.Error())}
	}

	passed := c.Check == nil || c.Check(response.Text)
	verdict := "Fail"
	if passed {
		verdict = "Pass"
	}
	fmt.Fprintf(r.progress, " Done (%.2fs) [%s]\n", elapsed.Seconds(), verdict)

	return Result{
		TestID:   c.ID,
		Status:   StatusSuccess,
		Duration: elapsed.Seconds(),
		Response: utils.Ptr(response.Text),
		Passed:   passed,
	}
}
