package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"Wavecrest/internal/config"
	"Wavecrest/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	c := newCLI(cfg, logger, os.Stdout)
	err := c.execute(ctx, os.Args[1:])
	c.close()
	if err != nil {
		logger.Debug("command failed", "error", err)
		os.Exit(1)
	}
}
