// Package main is the entry point for the print-pricing API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"print-pricing/internal/app"
	"print-pricing/internal/config"
	"print-pricing/internal/logging"
)

const version = "1.0.0"

func main() {
	cfgPath := flag.String("config", "", "config file (JSON)")
	addr := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	a, err := app.New(cfg, logging.Logger)
	if err != nil {
		logging.Fatal("failed to start", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info("print-pricing server starting",
		zap.String("version", version),
		zap.String("addr", cfg.Server.Addr),
	)
	if err := a.Run(ctx, version); err != nil {
		logging.Fatal("server stopped", zap.Error(err))
	}
}
