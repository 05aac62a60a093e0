package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/omniweb/omniweb/core/extract"
	"github.com/omniweb/omniweb/core/validate"
)

func newExtractCmd() *cobra.Command {
	var (
		check   bool
		exclude []string
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract the JSON structure from model output read on stdin",
		Long: `Reads raw model output from stdin and prints the JSON object or array
it contains. With --validate the result is also checked as a topic
expansion and printed in normalized form.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}

			found := extract.Find(string(raw))
			fmt.Fprintf(cmd.ErrOrStderr(), "kind: %s\n", found.Kind)

			if !check {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), found.Text)
				return err
			}

			children, err := validate.Validate(found.Text, validate.NewExclusionSet(exclude...))
			if err != nil {
				return err
			}
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(children)
		},
	}

	cmd.Flags().BoolVar(&check, "validate", false, "validate as a topic expansion")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "names to drop when validating")
	return cmd
}
