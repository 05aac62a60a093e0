package bench

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"text/tabwriter"
)

const (
	scoreJSON  = 1000
	scoreLogic = 500
	// TimestampLayout names run directories.
	TimestampLayout = "20060102_150405"
)

// Score is one model's standing.
type Score struct {
	Model      string  `json:"model"`
	JSONPass   bool    `json:"json_pass"`
	LogicPass  bool    `json:"logic_pass"`
	AvgSeconds float64 `json:"avg_seconds"`
	// Eligible is false when the model failed strict JSON; such models get
	// no score.
	Eligible bool    `json:"eligible"`
	Value    float64 `json:"score"`
}

// Summary ranks the models of a report.
type Summary struct {
	// Scores follow report order.
	Scores []Score `json:"scores"`
	// Best is empty when no model passed strict JSON.
	Best string `json:"best,omitempty"`
}

// Summarize scores each model: strict JSON is required, reasoning adds a
// bonus, and average seconds per successful call are subtracted.
func Summarize(report Report) Summary {
	var summary Summary
	var ranked []Score

	for _, model := range report.Models {
		score := Score{Model: model}
		var total float64
		var succeeded int

		for _, result := range report.Results[model] {
			if result.Status != StatusSuccess {
				continue
			}
			total += result.Duration
			succeeded++
			switch result.TestID {
			case CaseJSON:
				score.JSONPass = result.Passed
			case CaseReasoning:
				score.LogicPass = result.Passed
			}
		}
		if succeeded > 0 {
			score.AvgSeconds = total / float64(succeeded)
		}

		if score.JSONPass {
			score.Eligible = true
			score.Value = scoreJSON - score.AvgSeconds
			if score.LogicPass {
				score.Value += scoreLogic
			}
			ranked = append(ranked, score)
		}
		summary.Scores = append(summary.Scores, score)
	}

	if len(ranked) > 0 {
		best := slices.MaxFunc(ranked, func(a, b Score) int {
			switch {
			case a.Value < b.Value:
				return -1
			case a.Value > b.Value:
				return 1
			}
			return 0
		})
		summary.Best = best.Model
	}
	return summary
}

// WriteTable prints the summary as an aligned table followed by the
// recommendation.
func (s Summary) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tVALID JSON\tLOGIC\tAVG TIME")
	for _, score := range s.Scores {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2fs\n", score.Model, mark(score.JSONPass), mark(score.LogicPass), score.AvgSeconds)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if s.Best == "" {
		_, err := fmt.Fprintln(w, "\nNo model passed the strict JSON test. Topic expansion relies on JSON; "+
			"consider a more capable model such as mistral, llama3 or qwen2.5.")
		return err
	}
	_, err := fmt.Fprintf(w, "\nRecommended model: %s\n", s.Best)
	return err
}

func mark(ok bool) string {
	if ok {
		return "yes"
	}
	return "no"
}

// Save writes results.json, and recommendation.txt when there is a best
// model, under dir/run_<timestamp>. It returns the run directory.
func Save(dir string, report Report, summary Summary) (string, error) {
	runDir := filepath.Join(dir, "run_"+report.StartedAt.Format(TimestampLayout))
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", runDir, err)
	}

	data, err := json.MarshalIndent(report.Results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode results: %w", err)
	}
	if err := os.WriteFile(filepath.Join(runDir, "results.json"), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write results: %w", err)
	}

	if summary.Best != "" {
		if err := os.WriteFile(filepath.Join(runDir, "recommendation.txt"), []byte(summary.Best), 0o644); err != nil {
			return "", fmt.Errorf("failed to write recommendation: %w", err)
		}
	}
	return runDir, nil
}
