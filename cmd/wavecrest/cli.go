package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"Wavecrest/internal/app"
	"Wavecrest/internal/config"
)

// cli holds what every subcommand shares: configuration, the lazily opened
// application and the output stream.
type cli struct {
	cfg    config.Config
	logger *slog.Logger
	out    io.Writer
	pretty bool

	app *app.Application
}

func newCLI(cfg config.Config, logger *slog.Logger, out io.Writer) *cli {
	return &cli{cfg: cfg, logger: logger, out: out}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "wavecrest",
		Short:         "Marketing-ops reconciliation for the Wavecrest dashboard",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().BoolVar(&c.pretty, "pretty", false, "Print formatted text instead of JSON")
	root.PersistentFlags().StringVar(&c.cfg.Database.Path, "db", c.cfg.Database.Path, "SQLite database path")

	root.AddCommand(
		c.dbCmd(),
		c.competitorsCmd(),
		c.scrapeCmd(),
		c.metaCmd(),
		c.leadsCmd(),
		c.scriptsCmd(),
		c.ideasCmd(),
		c.calendarCmd(),
		c.suggestionsCmd(),
		c.syncCompetitorsCmd(),
		c.serveCmd(),
	)
	return root
}

// execute runs args and reports any error as {"error": "..."} on the output.
func (c *cli) execute(ctx context.Context, args []string) error {
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(c.out)
	err := root.ExecuteContext(ctx)
	if err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			_ = c.print(map[string]string{"error": err.Error()})
		}
	}
	return err
}

func (c *cli) open(ctx context.Context) (*app.Application, error) {
	if c.app != nil {
		return c.app, nil
	}
	a, err := app.New(ctx, c.cfg, c.logger)
	if err != nil {
		return nil, err
	}
	c.app = a
	return a, nil
}

func (c *cli) close() {
	if c.app == nil {
		return
	}
	if err := c.app.Close(); err != nil {
		c.logger.Warn("close database", "error", err)
	}
	c.app = nil
}

// print writes v as indented JSON.
func (c *cli) print(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// reportedError marks a failure whose details were already printed.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func optionalFlag(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func trimHandle(h string) string {
	return strings.TrimPrefix(strings.TrimSpace(h), "@")
}
