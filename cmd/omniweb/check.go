package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/omniweb/omniweb/internal/bench"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check MODEL",
		Short: "Check that Ollama is up and MODEL answers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts.cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			diagnosis := bench.Diagnose(cmd.Context(), a.client, args[0])
			for _, step := range diagnosis.Steps {
				status := "ok"
				if !step.OK {
					status = "FAIL"
				}
				fmt.Fprintf(out, "[%s] %-9s %s\n", status, step.Name, step.Message)
			}
			if len(diagnosis.Available) > 0 {
				fmt.Fprintf(out, "available models: %v\n", diagnosis.Available)
			}

			if !diagnosis.Ready() {
				return errors.New("backend is not ready")
			}
			fmt.Fprintln(out, "System is ready.")
			return nil
		},
	}
}
