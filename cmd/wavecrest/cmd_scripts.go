package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"Wavecrest/internal/domain"
	"Wavecrest/internal/ports"
	"Wavecrest/internal/usecase"
)

func (c *cli) scriptsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scripts",
		Short: "Manage the script library",
	}

	var add struct{ title, body, stype, pillar, notes string }
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a script to the backlog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			script, err := a.Content.AddScript(cmd.Context(), domain.Script{
				Title:      add.title,
				Body:       add.body,
				ScriptType: domain.ScriptType(add.stype),
				Notes:      optionalFlag(add.notes),
			}, add.pillar)
			if err != nil {
				return err
			}
			return c.print(script)
		},
	}
	addCmd.Flags().StringVar(&add.title, "title", "", "Script title")
	addCmd.Flags().StringVar(&add.body, "body", "", "Script text")
	addCmd.Flags().StringVar(&add.stype, "type", "", "Script type")
	addCmd.Flags().StringVar(&add.pillar, "pillar", "", "Content pillar name")
	addCmd.Flags().StringVar(&add.notes, "notes", "", "Notes")
	_ = addCmd.MarkFlagRequired("title")
	_ = addCmd.MarkFlagRequired("body")
	_ = addCmd.MarkFlagRequired("type")

	var filter struct{ stype, status, pillar string }
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List scripts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			scripts, err := a.Content.ListScripts(cmd.Context(), ports.ScriptFilter{
				Type:   domain.ScriptType(filter.stype),
				Status: domain.ScriptStatus(filter.status),
				Pillar: filter.pillar,
			})
			if err != nil {
				return err
			}
			return c.printScripts(scripts)
		},
	}
	listCmd.Flags().StringVar(&filter.stype, "type", "", "Only scripts of this type")
	listCmd.Flags().StringVar(&filter.status, "status", "", "Only scripts in this status")
	listCmd.Flags().StringVar(&filter.pillar, "pillar", "", "Only scripts under this pillar")

	viewCmd := &cobra.Command{
		Use:   "view ID",
		Short: "Show one script",
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
			script, err := a.Content.Script(cmd.Context(), id)
			if err != nil {
				return err
			}
			return c.print(script)
		},
	}

	var upd struct{ title, body, stype, pillar, status, notes string }
	updateCmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change fields of a script",
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
			script, err := a.Content.UpdateScript(cmd.Context(), id, usecase.ScriptChanges{
				ScriptPatch: ports.ScriptPatch{
					Title:      changed[string](cmd, "title", upd.title),
					Body:       changed[string](cmd, "body", upd.body),
					ScriptType: changed[domain.ScriptType](cmd, "type", upd.stype),
					Status:     changed[domain.ScriptStatus](cmd, "status", upd.status),
					Notes:      changed[string](cmd, "notes", upd.notes),
				},
				Pillar: changed[string](cmd, "pillar", upd.pillar),
			})
			if err != nil {
				return err
			}
			return c.print(script)
		},
	}
	updateCmd.Flags().StringVar(&upd.title, "title", "", "New title")
	updateCmd.Flags().StringVar(&upd.body, "body", "", "New text")
	updateCmd.Flags().StringVar(&upd.stype, "type", "", "New script type")
	updateCmd.Flags().StringVar(&upd.pillar, "pillar", "", "New pillar name")
	updateCmd.Flags().StringVar(&upd.status, "status", "", "New status")
	updateCmd.Flags().StringVar(&upd.notes, "notes", "", "New notes")

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a script",
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
			ok, err := a.Content.DeleteScript(cmd.Context(), id)
			if err != nil {
				return err
			}
			return c.print(map[string]any{"deleted": ok, "id": id})
		},
	}

	var olderThan int
	archiveCmd := &cobra.Command{
		Use:   "archive",
		Short: "Move stale backlog scripts to completed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			n, err := a.Content.ArchiveScripts(cmd.Context(), olderThan)
			if err != nil {
				return err
			}
			return c.print(map[string]any{"archived_count": n})
		},
	}
	archiveCmd.Flags().IntVar(&olderThan, "older-than", 30, "Archive backlog scripts created more than this many days ago")

	var keyword string
	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Find scripts by title or body text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			scripts, err := a.Content.SearchScripts(cmd.Context(), keyword)
			if err != nil {
				return err
			}
			return c.printScripts(scripts)
		},
	}
	searchCmd.Flags().StringVar(&keyword, "keyword", "", "Text to look for")
	_ = searchCmd.MarkFlagRequired("keyword")

	cmd.AddCommand(addCmd, listCmd, viewCmd, updateCmd, deleteCmd, archiveCmd, searchCmd)
	return cmd
}

func (c *cli) printScripts(scripts []domain.Script) error {
	if scripts == nil {
		scripts = []domain.Script{}
	}
	if !c.pretty {
		return c.print(scripts)
	}
	if len(scripts) == 0 {
		fmt.Fprintln(c.out, "No scripts found.")
		return nil
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tSTATUS\tPILLAR\tTITLE")
	for _, s := range scripts {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", s.ID, s.ScriptType, s.Status, orDash(s.PillarName), preview(s.Title, 40))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "\nTotal: %d scripts\n", len(scripts))
	return nil
}

// changed returns the flag value when the flag was set on the command line.
func changed[T ~string](cmd *cobra.Command, name, value string) *T {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v := T(value)
	return &v
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "--"
	}
	return *s
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
