package main

import (
	"github.com/spf13/cobra"

	"github.com/Oxyrus/phototags/internal/router"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the gallery HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.cfg.RequireAdmin(); err != nil {
				return err
			}

			a.logger.Info("starting server", "addr", a.cfg.Addr, "generator", a.cfg.Generator)

			r := router.New(a.cfg, a.logger, a.manager)
			return r.Run(a.cfg.Addr)
		},
	}
}
