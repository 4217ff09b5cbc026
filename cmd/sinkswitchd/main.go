// Package main is the entry point for the sinkswitchd audio routing daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmylchreest/sinkswitch/internal/audio"
	"github.com/jmylchreest/sinkswitch/internal/daemon"
)

var (
	// Build-time variables
	version = "dev"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: ~/.config/sinkswitch/config.toml)")
	dryRun := flag.Bool("dry-run", false, "Log stream moves and default sink changes instead of running them")
	verbose := flag.Bool("verbose", false, "Enable debug logging (overrides the configured level)")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("sinkswitchd version", version)
		os.Exit(0)
	}

	level := new(slog.LevelVar)
	if *verbose {
		level.Set(slog.LevelDebug)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if err := run(*configPath, *dryRun, *verbose, level, logger); err != nil {
		logger.Error("sinkswitchd stopped", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, dryRun, verbose bool, level *slog.LevelVar, logger *slog.Logger) error {
	opts := daemon.Options{
		ConfigPath: configPath,
		DryRun:     dryRun,
		Logger:     logger,
		Chime:      audio.NewPlayer(logger),
	}
	// -verbose pins the level; otherwise the config file decides
	if !verbose {
		opts.LogLevel = level
	}

	d, err := daemon.New(opts)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	logger.Info("starting sinkswitchd", "version", version)
	if err := d.Run(ctx); err != nil {
		return err
	}
	if ctx.Err() == nil {
		logger.Info("event feed closed, shutting down")
	}
	return nil
}
