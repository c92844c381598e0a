package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/missionscan/internal/auth"
	"github.com/nao1215/missionscan/internal/config"
	"github.com/nao1215/missionscan/internal/crawler"
	"github.com/nao1215/missionscan/internal/database"
	"github.com/nao1215/missionscan/internal/model"
	"github.com/nao1215/missionscan/internal/pipeline"
	"github.com/nao1215/missionscan/internal/report"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Crawl every mission session and write the mission document",
		Long: `Scan crawls the mission corpus of naruto-arena.site.

It logs in first when no storage state file exists, picks the sessions from
the saved pages in the cache directory (or the live session index when the
directory is empty), then reads every session listing and mission page.

Outputs:
- the mission document (--out)
- manifest.json in the images directory (--images-dir)
- an optional Markdown summary (--summary)
- a row in the scan history database (--history), unless --no-history

The document is written even when the crawl stops early, holding every
session completed so far; the command then exits non-zero.

Examples:
  # Crawl with the defaults
  missionscan scan

  # Fetch three mission pages at a time and write a summary
  missionscan scan --concurrency 3 --summary missions_out/summary.md

  # Give slow mission pages more time to hydrate
  missionscan scan --settle 1s

  # Read server-rendered pages without Chrome, reusing the saved login
  missionscan scan --fetcher http`,
		Args: cobra.NoArgs,
		RunE: runScanCmd,
	}

	addSiteFlags(cmd)
	addDiscoveryFlags(cmd)
	addHistoryFlags(cmd)

	cmd.Flags().StringP("out", "o", config.DefaultOutputFile,
		"Mission document path (directories are created if needed)")
	cmd.Flags().String("images-dir", config.DefaultImagesDir,
		"Directory image file names are relative to; manifest.json is written here")
	cmd.Flags().String("summary", "",
		"Also write a Markdown summary to this path")
	cmd.Flags().Duration("settle", config.DefaultSettleDelay,
		"Wait after a mission page is ready before reading it")
	cmd.Flags().IntP("concurrency", "p", config.DefaultConcurrency,
		"Mission pages fetched at once per session")
	cmd.Flags().Bool("no-history", false,
		"Do not record this scan in the history database")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg)

	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	return runScan(ctx, cmd, cfg, logger)
}

// runScan logs in if needed, crawls, and writes all outputs.
// Outputs are written even when the crawl fails.
func runScan(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	if err := report.EnsureDirs(cfg.OutputDir(), cfg.ImagesDir); err != nil {
		return err
	}

	manager := newAuthManager(cmd, cfg, logger)
	if _, err := manager.Ensure(ctx); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	state, err := auth.LoadState(manager.StatePath())
	if err != nil {
		return fmt.Errorf("failed to load browser state: %w", err)
	}

	fetcher, err := newFetcher(cfg, state, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := fetcher.Close(); cerr != nil {
			logger.Debug("failed to close fetcher", "error", cerr)
		}
	}()

	progress := newSpinnerProgress(os.Stderr, cfg.Verbose)

	run, runErr := crawl(ctx, fetcher, cfg, logger, progress)
	progress.Stop()

	logger.Info("crawl finished",
		"sessions", len(run.Document.Sessions),
		"missions", run.Document.MissionCount(),
		"steps", run.PerformedSteps,
	)

	if cfg.History {
		// Record interrupted scans too, marked partial.
		if err := recordScan(context.WithoutCancel(ctx), cfg.HistoryFile, run.Document, runErr == nil); err != nil {
			logger.Warn("failed to record scan history", "error", err)
		}
	}

	writeErr := writeOutputs(cfg, run.Document)
	if writeErr == nil {
		if _, err := report.NewSimpleWriter(cmd.OutOrStdout(), report.WithVerbose(cfg.Verbose)).Write(run.Document); err != nil {
			logger.Debug("failed to print summary", "error", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", cfg.OutputFile)
	}

	return errors.Join(runErr, writeErr)
}

// crawl runs discovery and the session crawl against fetcher.
// The returned Run always holds a document.
func crawl(ctx context.Context, fetcher crawler.Fetcher, cfg *config.Config, logger *slog.Logger, progress crawler.Progress) (*pipeline.Run, error) {
	c := crawler.New(fetcher,
		crawler.WithBaseURL(cfg.BaseURL),
		crawler.WithImagesDir(cfg.ImagesDir),
		crawler.WithSettleDelay(cfg.SettleDelay),
		crawler.WithConcurrency(cfg.Concurrency),
		crawler.WithLogger(logger),
		crawler.WithProgress(progress),
	)

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddSteps(
		pipeline.NewDiscoverStep(newDiscoverer(fetcher, cfg, logger), logger),
		pipeline.NewCrawlStep(c),
	)

	run := pipeline.NewRun(cfg.SourceRoot(), time.Now())
	err := p.Execute(ctx, run)
	return run, err
}

// writeOutputs writes the document, the manifest and the optional summary.
// Every output is attempted; the errors are joined.
func writeOutputs(cfg *config.Config, doc *model.Document) error {
	var errs []error

	errs = append(errs, report.WriteFile(cfg.OutputFile, func(f *os.File) error {
		_, err := report.NewJSONWriter(f, report.WithPrettyPrint()).Write(doc)
		return err
	}))

	errs = append(errs, report.WriteFile(cfg.ManifestFile(), func(f *os.File) error {
		_, err := report.NewJSONWriter(f, report.WithPrettyPrint()).WriteManifest(doc)
		return err
	}))

	if cfg.SummaryFile != "" {
		errs = append(errs, report.WriteFile(cfg.SummaryFile, func(f *os.File) error {
			return writeSummary(f, doc)
		}))
	}

	return errors.Join(errs...)
}

// recordScan stores doc in the history database at path.
func recordScan(ctx context.Context, path string, doc *model.Document, complete bool) error {
	db, err := database.Open(path, database.DefaultOptions())
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.SaveScan(ctx, doc, complete)
	return err
}

func writeSummary(w io.Writer, doc *model.Document) error {
	_, err := report.NewMarkdownWriter(w).Write(doc)
	return err
}
