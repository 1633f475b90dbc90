package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"Wavecrest/internal/domain"
	"Wavecrest/internal/ports"
)

func (c *cli) suggestionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggestions",
		Short: "Collect content suggestions from the team",
	}

	var add struct{ title, description, submittedBy, priority, channel, link string }
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Submit a suggestion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			s, err := a.Content.AddSuggestion(cmd.Context(), domain.Suggestion{
				Title:       add.title,
				Description: optionalFlag(add.description),
				SubmittedBy: add.submittedBy,
				Priority:    domain.Priority(add.priority),
				Channel:     domain.Channel(add.channel),
				LinkURL:     optionalFlag(add.link),
			})
			if err != nil {
				return err
			}
			return c.print(s)
		},
	}
	addCmd.Flags().StringVar(&add.title, "title", "", "Suggestion title")
	addCmd.Flags().StringVar(&add.description, "description", "", "Details")
	addCmd.Flags().StringVar(&add.submittedBy, "submitted-by", "", "Team member name")
	addCmd.Flags().StringVar(&add.priority, "priority", string(domain.PriorityMedium), "low, medium or high")
	addCmd.Flags().StringVar(&add.channel, "channel", string(domain.ChannelOrganic), "organic or paid")
	addCmd.Flags().StringVar(&add.link, "link", "", "Reference URL")
	_ = addCmd.MarkFlagRequired("title")
	_ = addCmd.MarkFlagRequired("submitted-by")

	var filter struct{ priority, submittedBy string }
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List suggestions, highest priority first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			list, err := a.Content.ListSuggestions(cmd.Context(), ports.SuggestionFilter{
				Priority:    domain.Priority(filter.priority),
				SubmittedBy: filter.submittedBy,
			})
			if err != nil {
				return err
			}
			if list == nil {
				list = []domain.Suggestion{}
			}
			if !c.pretty {
				return c.print(list)
			}
			if len(list) == 0 {
				fmt.Fprintln(c.out, "No suggestions found.")
				return nil
			}
			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tPRIORITY\tSUBMITTED BY\tTITLE")
			for _, s := range list {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.ID, s.Priority, s.SubmittedBy, preview(s.Title, 40))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "\nTotal: %d suggestions\n", len(list))
			return nil
		},
	}
	listCmd.Flags().StringVar(&filter.priority, "priority", "", "Only this priority")
	listCmd.Flags().StringVar(&filter.submittedBy, "submitted-by", "", "Only submitters whose name contains this text")

	viewCmd := &cobra.Command{
		Use:   "view ID",
		Short: "Show a suggestion with its images",
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
			s, err := a.Content.Suggestion(cmd.Context(), id)
			if err != nil {
				return err
			}
			return c.print(s)
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a suggestion and its image files",
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
			res, err := a.Content.DeleteSuggestion(cmd.Context(), id)
			if err != nil {
				return err
			}
			return c.print(res)
		},
	}

	cmd.AddCommand(addCmd, listCmd, viewCmd, deleteCmd)
	return cmd
}
