package main

import (
	"github.com/spf13/cobra"

	"github.com/omniweb/omniweb/internal/server"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("addr") {
				opts.cfg.Server.Addr = addr
			}
			a, err := newApp(opts.cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			srv := server.New(server.Config{
				Addr:            opts.cfg.Server.Addr,
				AllowedOrigins:  opts.cfg.Server.AllowedOrigins,
				ShutdownTimeout: opts.cfg.Server.ShutdownTimeout,
				Observer:        a.observer,
			}, a.topics, a.catalog, a.client)

			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
