package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/omniweb/omniweb/internal/bench"
)

func newBenchCmd(opts *rootOptions) *cobra.Command {
	var (
		models []string
		outDir string
		noSave bool
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark installed models and recommend one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(opts.cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if len(models) == 0 {
				models = a.catalog.Names(ctx)
			}
			if len(models) == 0 {
				return fmt.Errorf("no models found at %s; is Ollama running?", opts.cfg.Ollama.BaseURL)
			}
			fmt.Fprintf(out, "Benchmarking %d models\n", len(models))

			llm, err := a.benchClient()
			if err != nil {
				return err
			}
			runner := bench.NewRunner(llm,
				bench.WithTimeout(opts.cfg.Bench.Timeout),
				bench.WithProgress(out),
			)
			report := runner.Run(ctx, models, bench.Suite())
			summary := bench.Summarize(report)

			fmt.Fprintln(out)
			if err := summary.WriteTable(out); err != nil {
				return err
			}

			if noSave {
				return nil
			}
			dir := opts.cfg.Bench.OutputDir
			if outDir != "" {
				dir = outDir
			}
			runDir, err := bench.Save(dir, report, summary)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Results saved to %s\n", runDir)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&models, "model", nil, "models to test (default: all installed)")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (overrides config)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not write results to disk")
	return cmd
}
