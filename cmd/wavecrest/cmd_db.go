package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"Wavecrest/internal/infrastructure/storage"
	"Wavecrest/internal/usecase"
)

type dbInitResult struct {
	Database string                `json:"database"`
	Seeded   bool                  `json:"seeded"`
	Imported *usecase.ImportResult `json:"imported,omitempty"`
	Check    *storage.CheckReport  `json:"check,omitempty"`
}

func (c *cli) dbCmd() *cobra.Command {
	db := &cobra.Command{
		Use:   "db",
		Short: "Manage the local SQLite database",
	}

	var seed, check bool
	var importPath string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create missing tables, optionally seeding defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			result := dbInitResult{Database: c.cfg.Database.Path}

			if seed {
				if err := a.Store.Seed(cmd.Context()); err != nil {
					return err
				}
				result.Seeded = true
			}
			if importPath != "" {
				imported, err := a.Exporter.ImportSeed(cmd.Context(), importPath)
				if err != nil {
					return err
				}
				result.Imported = &imported
			}
			if check {
				report, err := a.Store.Check(cmd.Context())
				if err != nil {
					return err
				}
				result.Check = &report
			}

			if c.pretty {
				fmt.Fprintf(c.out, "Database ready at %s\n", result.Database)
				if result.Seeded {
					fmt.Fprintln(c.out, "Seeded default pillars and competitors")
				}
				if result.Imported != nil {
					fmt.Fprintf(c.out, "Imported %d competitors, %d posts\n",
						result.Imported.CompetitorsAdded, result.Imported.PostsAdded)
				}
				if result.Check != nil {
					fmt.Fprintf(c.out, "Integrity: %s\n", result.Check.Integrity)
					for _, t := range result.Check.Tables {
						fmt.Fprintf(c.out, "  %-22s %d rows\n", t.Table, t.Rows)
					}
				}
				return nil
			}
			return c.print(result)
		},
	}
	initCmd.Flags().BoolVar(&seed, "seed", false, "Insert default content pillars and competitors")
	initCmd.Flags().BoolVar(&check, "check", false, "Run an integrity check and count rows per table")
	initCmd.Flags().StringVar(&importPath, "import", "", "Load a competitor seed file")

	db.AddCommand(initCmd)
	return db
}
