package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/mmcdole/stitchsync/internal/config"
	"github.com/mmcdole/stitchsync/internal/console"
	"github.com/mmcdole/stitchsync/internal/domain"
	"github.com/mmcdole/stitchsync/internal/log"
	"github.com/mmcdole/stitchsync/internal/search"
	"github.com/mmcdole/stitchsync/internal/service"
	"github.com/mmcdole/stitchsync/internal/stitch"
	"github.com/mmcdole/stitchsync/internal/store"
)

// Version is set at build time via -ldflags
var Version = "dev"

const usage = `Usage: stitchsync [flags] [command] [command flags]

Commands:
  sync     download every screen's HTML into the output directory (default)
  list     list screens without downloading
  status   show the last recorded run for the project (-all for every run)

Flags:
`

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("stitchsync", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	var showVersion bool
	fs.BoolVar(&showVersion, "v", false, "print version")
	fs.BoolVar(&showVersion, "version", false, "print version")
	configFile := fs.String("config", "", "config file (default: ~/.config/stitchsync/config.yaml or ./config.yaml)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if showVersion {
		fmt.Fprintf(stdout, "stitchsync %s\n", Version)
		return nil
	}

	cmd, cmdArgs := "sync", fs.Args()
	if len(cmdArgs) > 0 {
		cmd, cmdArgs = cmdArgs[0], cmdArgs[1:]
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting stitchsync", "version", Version, "command", cmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := &app{cfg: cfg, logger: logger, stdout: stdout, stderr: stderr}

	switch cmd {
	case "sync":
		return app.sync(ctx, cmdArgs)
	case "list":
		return app.list(ctx, cmdArgs)
	case "status":
		return app.status(cmdArgs)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

// app holds what every command needs
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

func (a *app) client() (*stitch.Client, error) {
	if !a.cfg.IsConfigured() {
		return nil, fmt.Errorf("%w: set api.key and api.project_id in config.yaml or STITCH_API_KEY and STITCH_API_PROJECT_ID", domain.ErrNotConfigured)
	}
	return stitch.NewClient(a.cfg.API.BaseURL, a.cfg.API.Key, a.logger, stitch.WithTimeout(a.cfg.HTTP.Timeout)), nil
}

func (a *app) sync(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sync", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	only := fs.String("only", "", "only sync screens whose name fuzzy-matches this text")
	outDir := fs.String("out", a.cfg.Output.Dir, "output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := a.client()
	if err != nil {
		return err
	}

	manifest, err := store.NewManifestStore(a.cfg.Manifest.Path)
	if err != nil {
		a.logger.Warn("manifest unavailable, keeping run in memory", "path", a.cfg.Manifest.Path, "error", err)
		manifest, _ = store.NewManifestStore("")
	}
	defer manifest.Close()

	svc := service.NewSyncService(
		console.WithSpinner(client, a.stderr),
		manifest,
		console.NewPrinter(a.stdout),
		a.cfg.API.ProjectID,
		*outDir,
		a.logger,
	)

	report, err := svc.Run(ctx, service.RunOptions{Only: *only})
	if console.IsTerminal(a.stderr) && report != nil && !report.Run.FinishedAt.IsZero() {
		console.NewPrinter(a.stderr).Summary(report.Run)
	}
	return err
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	match := fs.String("match", "", "rank screens by fuzzy title match")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := a.client()
	if err != nil {
		return err
	}

	screens, err := console.WithSpinner(client, a.stderr).ListScreens(ctx, a.cfg.API.ProjectID)
	if err != nil {
		return fmt.Errorf("failed to list screens: %w", err)
	}

	printer := console.NewPrinter(a.stdout)
	if *match != "" {
		printer.Matches(search.Match(*match, screens))
		return nil
	}
	printer.Screens(screens)
	return nil
}

func (a *app) status(args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	all := fs.Bool("all", false, "list every recorded run instead of the last one")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if a.cfg.API.ProjectID == "" {
		return fmt.Errorf("%w: api.project_id is not set", domain.ErrNotConfigured)
	}

	manifest, err := store.NewManifestStore(a.cfg.Manifest.Path)
	if err != nil {
		return fmt.Errorf("failed to open manifest: %w", err)
	}
	defer manifest.Close()

	if *all {
		console.NewPrinter(a.stdout).Runs(a.cfg.API.ProjectID, manifest.Runs(a.cfg.API.ProjectID))
		return nil
	}

	run, ok := manifest.LastRun(a.cfg.API.ProjectID)
	if !ok {
		fmt.Fprintf(a.stdout, "No runs recorded for project %s.\n", a.cfg.API.ProjectID)
		return nil
	}
	artifacts, _ := manifest.Artifacts(run.ID)
	console.NewPrinter(a.stdout).Status(run, artifacts)
	return nil
}
