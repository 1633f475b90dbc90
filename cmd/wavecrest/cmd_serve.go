package main

import (
	"github.com/spf13/cobra"
)

func (c *cli) serveCmd() *cobra.Command {
	var addr string
	var schedule bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the competitor export API and metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			return a.Serve(cmd.Context(), addr, schedule)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", c.cfg.Server.Addr, "Listen address")
	cmd.Flags().BoolVar(&schedule, "schedule", false, "Run the Meta sync periodically")
	return cmd
}
