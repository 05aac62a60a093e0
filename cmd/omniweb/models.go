package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newModelsCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List installed models and whether they fit in VRAM",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(opts.cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			listing := a.catalog.Listing(cmd.Context())

			out := cmd.OutOrStdout()
			if asJSON {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(listing)
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSIZE\tFITS")
			for _, m := range listing.Models {
				fits := "yes"
				if !m.Fits {
					fits = "no"
				}
				fmt.Fprintf(tw, "%s\t%.1f GB\t%s\n", m.Name, m.SizeGB, fits)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if vram, ok := a.capacity.VRAM(cmd.Context()); ok {
				fmt.Fprintf(out, "\nVRAM: %.1f GB\n", float64(vram)/(1<<30))
			} else {
				fmt.Fprintln(out, "\nVRAM not detected; every model is reported as fitting.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the /models payload")
	return cmd
}
