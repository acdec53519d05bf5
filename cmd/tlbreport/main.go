package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/neox5/tlbreport/internal/app"
	"github.com/neox5/tlbreport/internal/catalog"
	"github.com/neox5/tlbreport/internal/config"
	"github.com/neox5/tlbreport/internal/perf"
	"github.com/neox5/tlbreport/internal/version"
)

func main() {
	cmd := &cli.Command{
		Name:    "tlbreport",
		Usage:   "Count TLB events around a synthetic workload and report them",
		Version: version.String(),
		Flags:   runFlags(),
		Action:  run,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "measure one workload window (default)",
				Flags:  runFlags(),
				Action: run,
			},
			{
				Name:   "events",
				Usage:  "list the built-in events",
				Action: events,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path to configuration file (default: built-in settings)",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "enable debug logging",
		},
		&cli.StringFlag{
			Name:  "mode",
			Usage: "acquisition mode: independent or grouped",
		},
		&cli.DurationFlag{
			Name:  "duration",
			Usage: "override the workload duration",
		},
	}
}

func setupLogging(debug bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

func run(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	debug := cmd.Bool("debug")

	logger := setupLogging(debug)

	slog.Info("starting tlbreport", "version", version.String(), "config", configPath)
	slog.Debug("debug logging enabled", "debug", debug)

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.IsSet("mode") {
		mode, err := perf.ParseMode(cmd.String("mode"))
		if err != nil {
			return err
		}
		cfg.Mode = mode
	}
	if d := cmd.Duration("duration"); d > 0 {
		cfg.Workload.Duration = d
	}

	slog.Debug("configuration loaded",
		"mode", cfg.Mode,
		"counters", len(cfg.Counters),
		"workload", cfg.Workload)

	// Setup graceful shutdown
	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(runCtx, cfg, app.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	defer func() {
		if err := application.Shutdown(context.Background()); err != nil {
			slog.Warn("exporter shutdown failed", "error", err)
		}
	}()

	if _, err := application.Run(runCtx); err != nil {
		return err
	}

	slog.Info("done")
	return nil
}

func events(ctx context.Context, cmd *cli.Command) error {
	w := tabwriter.NewWriter(cmd.Root().Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tCONFIG\tDESCRIPTION")
	for _, e := range catalog.Default() {
		fmt.Fprintf(w, "%s\t%d\t%#x\t%s\n", e.Name, e.Type, e.Config, e.Description)
	}
	return w.Flush()
}
