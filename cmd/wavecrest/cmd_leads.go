package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"Wavecrest/internal/domain"
)

func (c *cli) leadsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leads",
		Short: "Work the lead pipeline",
	}

	var stage string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List leads, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			leads, err := a.CRM.List(cmd.Context(), domain.LeadStage(stage))
			if err != nil {
				return err
			}
			if leads == nil {
				leads = []domain.Lead{}
			}
			if !c.pretty {
				return c.print(leads)
			}
			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tSTAGE\tSOURCE\tCREATED")
			for _, l := range leads {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", l.ID, l.Name, l.Stage.Label(), l.Source, l.CreatedAt.Format("2006-01-02"))
			}
			return tw.Flush()
		},
	}
	listCmd.Flags().StringVar(&stage, "stage", "", "Only leads in this stage")

	var email, phone, campaign, notes string
	addCmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a lead by hand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			lead, err := a.CRM.CreateLead(cmd.Context(), domain.Lead{
				Name:         args[0],
				Email:        optionalFlag(email),
				Phone:        optionalFlag(phone),
				CampaignName: optionalFlag(campaign),
				Notes:        optionalFlag(notes),
			})
			if err != nil {
				return err
			}
			return c.print(lead)
		},
	}
	addCmd.Flags().StringVar(&email, "email", "", "Email address")
	addCmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	addCmd.Flags().StringVar(&campaign, "campaign", "", "Campaign the lead came from")
	addCmd.Flags().StringVar(&notes, "notes", "", "Notes")

	stageCmd := &cobra.Command{
		Use:   "stage ID STAGE",
		Short: "Move a lead to another pipeline stage",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			lead, err := a.CRM.UpdateStage(cmd.Context(), id, domain.LeadStage(args[1]))
			if err != nil {
				return err
			}
			if c.pretty {
				fmt.Fprintf(c.out, "%s is now %s\n", lead.Name, lead.Stage.Label())
				return nil
			}
			return c.print(lead)
		},
	}

	activityCmd := &cobra.Command{
		Use:   "activity ID",
		Short: "Show the activity trail of a lead",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			entries, err := a.CRM.Activity(cmd.Context(), id)
			if err != nil {
				return err
			}
			if entries == nil {
				entries = []domain.LeadActivity{}
			}
			return c.print(entries)
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a lead and its activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.CRM.Delete(cmd.Context(), id); err != nil {
				return err
			}
			return c.print(map[string]any{"success": true, "deleted": id})
		},
	}

	cmd.AddCommand(listCmd, addCmd, stageCmd, activityCmd, deleteCmd)
	return cmd
}
