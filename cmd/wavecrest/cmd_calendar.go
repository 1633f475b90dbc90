package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"Wavecrest/internal/domain"
	"Wavecrest/internal/ports"
	"Wavecrest/internal/usecase"
)

func (c *cli) calendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Plan posts on the content calendar",
	}

	var add calendarFlags
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Plan a post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			entry := domain.CalendarEntry{
				ScheduledDate: add.date,
				ScheduledTime: optionalFlag(add.clock),
				Platform:      domain.Platform(add.platform),
				ContentType:   domain.PostFormat(add.ctype),
				Caption:       optionalFlag(add.caption),
				Hashtags:      optionalFlag(add.hashtags),
				MediaPath:     optionalFlag(add.media),
				Status:        domain.CalendarStatus(add.status),
				Notes:         optionalFlag(add.notes),
			}
			if cmd.Flags().Changed("script-id") {
				entry.ScriptID = &add.scriptID
			}
			entry, err = a.Content.AddCalendarEntry(cmd.Context(), entry, add.pillar)
			if err != nil {
				return err
			}
			return c.print(entry)
		},
	}
	addCmd.Flags().StringVar(&add.date, "date", "", "Scheduled date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&add.clock, "time", "", "Scheduled time (HH:MM)")
	addCmd.Flags().StringVar(&add.platform, "platform", "", "instagram, facebook or both")
	addCmd.Flags().StringVar(&add.ctype, "type", "", "Post format")
	addCmd.Flags().StringVar(&add.pillar, "pillar", "", "Content pillar name")
	addCmd.Flags().StringVar(&add.caption, "caption", "", "Post caption")
	addCmd.Flags().StringVar(&add.hashtags, "hashtags", "", "Hashtags")
	addCmd.Flags().StringVar(&add.status, "status", string(domain.CalendarPlanned), "Production status")
	addCmd.Flags().Int64Var(&add.scriptID, "script-id", 0, "Script the post is based on")
	addCmd.Flags().StringVar(&add.media, "media-path", "", "Path to the media file")
	addCmd.Flags().StringVar(&add.notes, "notes", "", "Notes")
	_ = addCmd.MarkFlagRequired("date")
	_ = addCmd.MarkFlagRequired("platform")
	_ = addCmd.MarkFlagRequired("type")

	var filter struct{ month, platform, ctype, status string }
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List planned posts in schedule order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			entries, err := a.Content.ListCalendar(cmd.Context(), ports.CalendarFilter{
				Month:       filter.month,
				Platform:    domain.Platform(filter.platform),
				ContentType: domain.PostFormat(filter.ctype),
				Status:      domain.CalendarStatus(filter.status),
			})
			if err != nil {
				return err
			}
			if entries == nil {
				entries = []domain.CalendarEntry{}
			}
			if !c.pretty {
				return c.print(entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(c.out, "No calendar entries found.")
				return nil
			}
			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tTIME\tPLATFORM\tTYPE\tPILLAR\tSTATUS\tCAPTION")
			for _, e := range entries {
				caption := ""
				if e.Caption != nil {
					caption = preview(*e.Caption, 40)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", e.ScheduledDate, orDash(e.ScheduledTime),
					e.Platform, e.ContentType, orDash(e.PillarName), e.Status, caption)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "\nTotal: %d entries\n", len(entries))
			return nil
		},
	}
	listCmd.Flags().StringVar(&filter.month, "month", "", "Only this month (YYYY-MM)")
	listCmd.Flags().StringVar(&filter.platform, "platform", "", "Only this platform")
	listCmd.Flags().StringVar(&filter.ctype, "type", "", "Only this post format")
	listCmd.Flags().StringVar(&filter.status, "status", "", "Only this status")

	var upd calendarFlags
	updateCmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change fields of a planned post",
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
			patch := ports.CalendarPatch{
				ScheduledDate: changed[string](cmd, "date", upd.date),
				ScheduledTime: changed[string](cmd, "time", upd.clock),
				Platform:      changed[domain.Platform](cmd, "platform", upd.platform),
				ContentType:   changed[domain.PostFormat](cmd, "type", upd.ctype),
				Caption:       changed[string](cmd, "caption", upd.caption),
				Hashtags:      changed[string](cmd, "hashtags", upd.hashtags),
				MediaPath:     changed[string](cmd, "media-path", upd.media),
				Status:        changed[domain.CalendarStatus](cmd, "status", upd.status),
				Notes:         changed[string](cmd, "notes", upd.notes),
			}
			if cmd.Flags().Changed("script-id") {
				patch.ScriptID = &upd.scriptID
			}
			entry, err := a.Content.UpdateCalendarEntry(cmd.Context(), id, usecase.CalendarChanges{
				CalendarPatch: patch,
				Pillar:        changed[string](cmd, "pillar", upd.pillar),
			})
			if err != nil {
				return err
			}
			return c.print(entry)
		},
	}
	updateCmd.Flags().StringVar(&upd.date, "date", "", "New date")
	updateCmd.Flags().StringVar(&upd.clock, "time", "", "New time")
	updateCmd.Flags().StringVar(&upd.platform, "platform", "", "New platform")
	updateCmd.Flags().StringVar(&upd.ctype, "type", "", "New post format")
	updateCmd.Flags().StringVar(&upd.pillar, "pillar", "", "New pillar name")
	updateCmd.Flags().StringVar(&upd.caption, "caption", "", "New caption")
	updateCmd.Flags().StringVar(&upd.hashtags, "hashtags", "", "New hashtags")
	updateCmd.Flags().StringVar(&upd.status, "status", "", "New status")
	updateCmd.Flags().Int64Var(&upd.scriptID, "script-id", 0, "New script id")
	updateCmd.Flags().StringVar(&upd.media, "media-path", "", "New media path")
	updateCmd.Flags().StringVar(&upd.notes, "notes", "", "New notes")

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a planned post",
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
			ok, err := a.Content.DeleteCalendarEntry(cmd.Context(), id)
			if err != nil {
				return err
			}
			return c.print(map[string]any{"deleted": ok, "id": id})
		},
	}

	var month string
	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the content mix of a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			sum, err := a.Content.CalendarSummary(cmd.Context(), month)
			if err != nil {
				return err
			}
			if !c.pretty {
				return c.print(sum)
			}
			fmt.Fprintf(c.out, "=== Content Calendar Summary: %s ===\n", sum.Month)
			fmt.Fprintf(c.out, "Total posts: %d\n", sum.Totals.TotalPosts)
			fmt.Fprintf(c.out, "Instagram: %d | Facebook: %d\n", sum.Totals.InstagramPosts, sum.Totals.FacebookPosts)
			for _, section := range []struct {
				title  string
				groups []domain.GroupCount
			}{
				{"By content type", sum.ByContentType},
				{"By pillar", sum.ByPillar},
				{"By status", sum.ByStatus},
			} {
				fmt.Fprintf(c.out, "\n%s:\n", section.title)
				for _, g := range section.groups {
					name := g.Name
					if name == "" {
						name = "Unassigned"
					}
					fmt.Fprintf(c.out, "  %s: %d\n", name, g.Count)
				}
			}
			return nil
		},
	}
	summaryCmd.Flags().StringVar(&month, "month", "", "Month (YYYY-MM)")
	_ = summaryCmd.MarkFlagRequired("month")

	cmd.AddCommand(addCmd, listCmd, updateCmd, deleteCmd, summaryCmd)
	return cmd
}

type calendarFlags struct {
	date, clock, platform, ctype string
	pillar, caption, hashtags    string
	status, media, notes         string
	scriptID                     int64
}
