package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"Wavecrest/internal/domain"
	"Wavecrest/internal/ports"
	"Wavecrest/internal/usecase"
)

func (c *cli) ideasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ideas",
		Short: "Manage the idea bank",
	}

	var add struct{ idea, pillar, ctype, source, url, priority string }
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Capture a new idea",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			idea, err := a.Content.AddIdea(cmd.Context(), domain.Idea{
				Idea:              add.idea,
				ContentType:       optionalFlag(add.ctype),
				InspirationSource: optionalFlag(add.source),
				InspirationURL:    optionalFlag(add.url),
				Priority:          domain.Priority(add.priority),
			}, add.pillar)
			if err != nil {
				return err
			}
			return c.print(idea)
		},
	}
	addCmd.Flags().StringVar(&add.idea, "idea", "", "The idea")
	addCmd.Flags().StringVar(&add.pillar, "pillar", "", "Content pillar name")
	addCmd.Flags().StringVar(&add.ctype, "type", "", "Content type")
	addCmd.Flags().StringVar(&add.source, "source", "", "Where the idea came from")
	addCmd.Flags().StringVar(&add.url, "url", "", "Inspiration URL")
	addCmd.Flags().StringVar(&add.priority, "priority", string(domain.PriorityMedium), "low, medium or high")
	_ = addCmd.MarkFlagRequired("idea")

	var filter struct{ status, priority, pillar, source string }
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List ideas, highest priority first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			ideas, err := a.Content.ListIdeas(cmd.Context(), ports.IdeaFilter{
				Status:   domain.IdeaStatus(filter.status),
				Priority: domain.Priority(filter.priority),
				Pillar:   filter.pillar,
				Source:   filter.source,
			})
			if err != nil {
				return err
			}
			if ideas == nil {
				ideas = []domain.Idea{}
			}
			if !c.pretty {
				return c.print(ideas)
			}
			if len(ideas) == 0 {
				fmt.Fprintln(c.out, "No ideas found.")
				return nil
			}
			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tPRIORITY\tSTATUS\tPILLAR\tIDEA")
			for _, i := range ideas {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i.ID, i.Priority, i.Status, orDash(i.PillarName), preview(i.Idea, 50))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "\nTotal: %d ideas\n", len(ideas))
			return nil
		},
	}
	listCmd.Flags().StringVar(&filter.status, "status", "", "Only ideas in this status")
	listCmd.Flags().StringVar(&filter.priority, "priority", "", "Only ideas with this priority")
	listCmd.Flags().StringVar(&filter.pillar, "pillar", "", "Only ideas under this pillar")
	listCmd.Flags().StringVar(&filter.source, "source", "", "Only ideas whose source contains this text")

	var upd struct{ idea, pillar, ctype, source, url, priority, status string }
	updateCmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change fields of an idea",
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
			idea, err := a.Content.UpdateIdea(cmd.Context(), id, usecase.IdeaChanges{
				IdeaPatch: ports.IdeaPatch{
					Idea:              changed[string](cmd, "idea", upd.idea),
					ContentType:       changed[string](cmd, "type", upd.ctype),
					InspirationSource: changed[string](cmd, "source", upd.source),
					InspirationURL:    changed[string](cmd, "url", upd.url),
					Priority:          changed[domain.Priority](cmd, "priority", upd.priority),
					Status:            changed[domain.IdeaStatus](cmd, "status", upd.status),
				},
				Pillar: changed[string](cmd, "pillar", upd.pillar),
			})
			if err != nil {
				return err
			}
			return c.print(idea)
		},
	}
	updateCmd.Flags().StringVar(&upd.idea, "idea", "", "New idea text")
	updateCmd.Flags().StringVar(&upd.pillar, "pillar", "", "New pillar name")
	updateCmd.Flags().StringVar(&upd.ctype, "type", "", "New content type")
	updateCmd.Flags().StringVar(&upd.source, "source", "", "New inspiration source")
	updateCmd.Flags().StringVar(&upd.url, "url", "", "New inspiration URL")
	updateCmd.Flags().StringVar(&upd.priority, "priority", "", "New priority")
	updateCmd.Flags().StringVar(&upd.status, "status", "", "New status")

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an idea",
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
			ok, err := a.Content.DeleteIdea(cmd.Context(), id)
			if err != nil {
				return err
			}
			return c.print(map[string]any{"deleted": ok, "id": id})
		},
	}

	cmd.AddCommand(addCmd, listCmd, updateCmd, deleteCmd,
		c.ideaStatusCmd("promote", "Move an idea into development", "promoted", (*usecase.Content).PromoteIdea),
		c.ideaStatusCmd("use", "Mark an idea as used", "used", (*usecase.Content).UseIdea),
		c.ideaStatusCmd("reject", "Reject an idea", "rejected", (*usecase.Content).RejectIdea),
	)
	return cmd
}

func (c *cli) ideaStatusCmd(use, short, key string, move func(*usecase.Content, context.Context, int64) (domain.Idea, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
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
			idea, err := move(a.Content, cmd.Context(), id)
			if err != nil {
				return err
			}
			return c.print(map[string]any{key: true, "id": id, "new_status": idea.Status})
		},
	}
}
