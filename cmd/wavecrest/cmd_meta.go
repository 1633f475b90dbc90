package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"Wavecrest/internal/domain"
	"Wavecrest/internal/usecase"
)

func (c *cli) metaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meta",
		Short: "Sync campaigns, daily metrics and leads from Meta",
	}

	var days int
	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Run every configured sync",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			result, err := a.Ads.SyncAll(cmd.Context(), c.days(days))
			if err != nil {
				return err
			}
			if c.pretty {
				c.printReport("Campaigns", result.Campaigns)
				c.printReport("Metric rows", result.Metrics)
				c.printReport("Leads", result.Leads)
				return nil
			}
			return c.print(syncAllView(result))
		},
	}
	syncCmd.Flags().IntVar(&days, "days", 0, "Days of metrics to pull")

	campaignsCmd := c.metaStepCmd("campaigns", "Sync the campaign, ad set and ad tree", "Campaigns",
		func(cmd *cobra.Command, ads *usecase.AdsSync) (domain.SyncReport, error) {
			return ads.SyncCampaigns(cmd.Context())
		})

	var metricDays int
	metricsCmd := c.metaStepCmd("metrics", "Replace daily campaign metrics", "Metric rows",
		func(cmd *cobra.Command, ads *usecase.AdsSync) (domain.SyncReport, error) {
			return ads.SyncMetrics(cmd.Context(), c.days(metricDays))
		})
	metricsCmd.Flags().IntVar(&metricDays, "days", 0, "Days of metrics to pull")

	leadsCmd := c.metaStepCmd("leads", "Import lead form submissions", "Leads",
		func(cmd *cobra.Command, ads *usecase.AdsSync) (domain.SyncReport, error) {
			return ads.SyncLeads(cmd.Context())
		})

	cmd.AddCommand(syncCmd, campaignsCmd, metricsCmd, leadsCmd)
	return cmd
}

func (c *cli) metaStepCmd(use, short, label string, run func(*cobra.Command, *usecase.AdsSync) (domain.SyncReport, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			report, err := run(cmd, a.Ads)
			if err != nil {
				return err
			}
			if c.pretty {
				c.printReport(label, &report)
				return nil
			}
			return c.print(report)
		},
	}
}

func (c *cli) days(flag int) int {
	if flag > 0 {
		return flag
	}
	if c.cfg.Meta.MetricDays > 0 {
		return c.cfg.Meta.MetricDays
	}
	return 30
}

// syncAllView replaces skipped parts with a "not configured" marker.
func syncAllView(r usecase.SyncAllResult) map[string]any {
	view := map[string]any{}
	for key, report := range map[string]*domain.SyncReport{
		"campaigns": r.Campaigns,
		"metrics":   r.Metrics,
		"leads":     r.Leads,
	} {
		if report == nil {
			view[key] = "not configured"
			continue
		}
		view[key] = report
	}
	return view
}

func (c *cli) printReport(label string, r *domain.SyncReport) {
	if r == nil {
		fmt.Fprintf(c.out, "%s: not configured\n", label)
		return
	}
	for _, o := range r.Outcomes {
		if o.Result == domain.ResultSkipped && o.ExternalID == "" {
			fmt.Fprintf(c.out, "%s: skipped, %s\n", label, o.Reason)
			return
		}
	}
	failed := r.Failed()
	fmt.Fprintf(c.out, "%s: %d synced, %d failed\n", label, r.Count, len(failed))
	for _, o := range failed {
		fmt.Fprintf(c.out, "  %s %s: %s\n", o.Kind, o.ExternalID, o.Reason)
	}
	for _, o := range r.Outcomes {
		if o.UnknownStatus != "" {
			fmt.Fprintf(c.out, "  %s %s: unknown status %s\n", o.Kind, o.ExternalID, o.UnknownStatus)
		}
	}
}
