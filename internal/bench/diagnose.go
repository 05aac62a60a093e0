package bench

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/omniweb/omniweb/internal/utils"
	"github.com/omniweb/omniweb/providers/ai"
)

const onlinePrompt = "Output the single word: ONLINE"

// Step names reported by Diagnose.
const (
	StepService   = "SERVICE"
	StepModel     = "MODEL"
	StepInference = "INFERENCE"
)

// Backend is what Diagnose needs. *client.Client satisfies it.
type Backend interface {
	Generator
	Ping(ctx context.Context) error
	ListModels(ctx context.Context) ([]ai.ModelInfo, error)
}

// Step is one diagnostic check.
type Step struct {
	Name    string
	OK      bool
	Message string
}

// Diagnosis is the outcome of Diagnose. Checks stop at the first failure.
type Diagnosis struct {
	Steps []Step
	// Available lists installed models when the requested one is missing.
	Available []string
	// InferenceTime is set when the inference step ran.
	InferenceTime time.Duration
}

// Ready reports whether every check passed.
func (d Diagnosis) Ready() bool {
	if len(d.Steps) == 0 {
		return false
	}
	for _, s := range d.Steps {
		if !s.OK {
			return false
		}
	}
	return true
}

func (d *Diagnosis) add(name string, ok bool, format string, args ...any) bool {
	d.Steps = append(d.Steps, Step{Name: name, OK: ok, Message: fmt.Sprintf(format, args...)})
	return ok
}

// Diagnose checks that the backend is reachable, that model is installed
// (a tag suffix such as ":latest" may differ) and that it answers a trivial
// prompt.
func Diagnose(ctx context.Context, backend Backend, model string) Diagnosis {
	var d Diagnosis

	if err := backend.Ping(ctx); err != nil {
		d.add(StepService, false, "backend is not reachable: %v", err)
		return d
	}
	d.add(StepService, true, "backend is running")

	models, err := backend.ListModels(ctx)
	if err != nil {
		d.add(StepModel, false, "failed to list models: %v", err)
		return d
	}
	found := false
	for _, m := range models {
		if strings.Contains(m.Name, model) {
			found = true
			break
		}
	}
	if !found {
		for _, m := range models {
			d.Available = append(d.Available, m.Name)
		}
		d.add(StepModel, false, "model %q not found; run 'ollama pull %s'", model, model)
		return d
	}
	d.add(StepModel, true, "found model %s", model)

	timer := utils.NewTimer()
	response, err := backend.Generate(ctx, ai.GenerateRequest{Model: model, Prompt: onlinePrompt})
	d.InferenceTime = timer.Stop()
	if err != nil {
		d.add(StepInference, false, "inference failed: %v", err)
		return d
	}

	answer := strings.TrimSpace(response.Text)
	if !strings.Contains(strings.ToUpper(answer), "ONLINE") {
		d.add(StepInference, false, "unexpected reply: %q", answer)
		return d
	}
	d.add(StepInference, true, "model responded in %.2fs", d.InferenceTime.Seconds())
	return d
}
