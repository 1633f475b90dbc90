package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"Wavecrest/internal/usecase"
)

func (c *cli) syncCompetitorsCmd() *cobra.Command {
	var opts usecase.SyncOptions
	cmd := &cobra.Command{
		Use:   "sync-competitors",
		Short: "Pull from live, scrape, export the seed file and push it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			report, runErr := a.Competitors.Run(cmd.Context(), opts)

			if c.pretty {
				c.printSyncRun(report)
				if runErr != nil {
					fmt.Fprintf(c.out, "Error: %v\n", runErr)
					return &reportedError{runErr}
				}
				return nil
			}
			if runErr != nil {
				_ = c.print(struct {
					usecase.SyncRunReport
					Error string `json:"error"`
				}{report, runErr.Error()})
				return &reportedError{runErr}
			}
			return c.print(report)
		},
	}
	cmd.Flags().BoolVar(&opts.ExportOnly, "export-only", false, "Skip the live pull and scrape")
	cmd.Flags().IntVar(&opts.MaxPosts, "posts", 10, "Maximum recent posts per competitor")
	cmd.Flags().BoolVar(&opts.NoPush, "no-push", false, "Export without committing and pushing")
	return cmd
}

func (c *cli) printSyncRun(r usecase.SyncRunReport) {
	if r.Pull != nil {
		if r.Pull.Warning != "" {
			fmt.Fprintf(c.out, "Live pull: %s\n", r.Pull.Warning)
		} else {
			fmt.Fprintf(c.out, "Live pull: %d new competitors\n", len(r.Pull.Added))
		}
	}
	if r.Scan != nil {
		c.printScan(*r.Scan)
	}
	if r.Export.Path != "" {
		fmt.Fprintf(c.out, "Exported %d competitors, %d posts to %s\n", r.Export.Competitors, r.Export.Posts, r.Export.Path)
	}
	if r.Push != "" {
		fmt.Fprintf(c.out, "Push: %s\n", r.Push)
	}
}
