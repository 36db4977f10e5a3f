package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lemon-sec/scavenger/internal/config"
	"github.com/lemon-sec/scavenger/internal/report"
	"github.com/lemon-sec/scavenger/internal/scavenger"
	"github.com/lemon-sec/scavenger/internal/sink"
	"github.com/lemon-sec/scavenger/internal/slogx"
	"github.com/lemon-sec/scavenger/internal/source"
)

// NewScavengeCmd creates the scavenge command.
func NewScavengeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scavenge",
		Short: "Continuously scrape a gallery, OCR its images, and flag sensitive ones",
		Long: `Scavenge runs the pipeline until its source is exhausted or it is
interrupted: it pulls images from a gallery (or a local directory), runs
OCR over each one, evaluates the extracted text and image metadata
against the configured flaggers, and writes every flagged image to the
configured sinks.

Examples:
  # Scrape the default gallery
  scavenger scavenge

  # Point at a different gallery
  scavenger scavenge --gallery-base-url https://example-gallery.onion

  # Replay a local directory of images instead of scraping
  scavenger scavenge --disk-source-dir ./testdata/images

  # Add each flagged image's OCR text as an extra CSV column
  scavenger scavenge --extensive-csv

  # Use a specific configuration file
  scavenger scavenge --config myconfig.yaml`,
		Args: cobra.NoArgs,
		RunE: runScavengeCmd,
	}

	cmd.Flags().String("gallery-base-url", "", "Gallery base URL for the default remote source")
	cmd.Flags().String("proxy-url", "", "SOCKS5 proxy URL to dial the remote source through")
	cmd.Flags().Float64("requests-per-second", 0, "Remote source request rate limit")
	cmd.Flags().Int("rate-limit-burst", 0, "Remote source request rate limit burst size")
	cmd.Flags().String("disk-source-dir", "", "Read images from this directory instead of scraping")

	cmd.Flags().Bool("ocr", true, "Run OCR over each image before flagging")
	cmd.Flags().Bool("hunting", true, "Evaluate images against the configured flaggers")
	cmd.Flags().Bool("result-sink", true, "Write flagged results to a sink")

	cmd.Flags().Int("image-buffer-size", 0, "Image queue buffer size")
	cmd.Flags().Int("result-buffer-size", 0, "Result queue buffer size")

	cmd.Flags().Bool("extensive-csv", false, "Add each flagged image's OCR text as an extra CSV column")
	cmd.Flags().Bool("use-sqlite-sink", false, "Also record flagged results in a local sqlite ledger")
	cmd.Flags().String("base-dir", "", "Directory results and the sqlite ledger are written under")
	cmd.Flags().Bool("use-xdg-data-home", false, "Resolve the output directory under the XDG data home")

	cmd.Flags().StringP("config", "c", "", "Configuration file path (default: .scavenger.yaml in current or home directory)")
	cmd.Flags().String("report", "", "Write a markdown run summary to this file (default: stdout)")

	return cmd
}

// runScavengeCmd executes the scavenge command.
func runScavengeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, stopping...")
		cancel()
	}()

	reportPath, err := cmd.Flags().GetString("report")
	if err != nil {
		return err
	}

	return runScavenge(ctx, cmd, cfg, logger, reportPath)
}

// buildConfig creates a Config from cobra command flags, layered over a
// YAML config file (if one is found) and the compiled-in defaults.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.New()

	verbose, err := getPersistentBool(cmd, "verbose")
	if err != nil {
		return nil, err
	}
	cfg.Verbose = verbose

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath = configPath

	explicitConfigPath := configPath != ""
	foundConfigPath := config.FindConfigFile(configPath)
	switch {
	case foundConfigPath != "":
		file, err := config.LoadConfigFile(foundConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", foundConfigPath, err)
		}
		cfg.ApplyFile(file)
	case explicitConfigPath:
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	if err := applyFlagOverrides(cmd, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyFlagOverrides applies every explicitly-set flag onto cfg, leaving
// flags the user did not pass at whatever the config file/defaults gave
// them.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	stringFlags := map[string]*string{
		"gallery-base-url": &cfg.GalleryBaseURL,
		"proxy-url":        &cfg.ProxyURL,
		"disk-source-dir":  &cfg.DiskSourceDir,
		"base-dir":         &cfg.BaseDir,
	}
	for name, dst := range stringFlags {
		if flags.Changed(name) {
			v, err := flags.GetString(name)
			if err != nil {
				return err
			}
			*dst = v
		}
	}

	boolFlags := map[string]*bool{
		"ocr":               &cfg.OCREnabled,
		"hunting":           &cfg.HuntingEnabled,
		"result-sink":       &cfg.ResultSinkEnabled,
		"extensive-csv":     &cfg.ExtensiveCSV,
		"use-sqlite-sink":   &cfg.UseSQLiteSink,
		"use-xdg-data-home": &cfg.UseXDGDataHome,
	}
	for name, dst := range boolFlags {
		if flags.Changed(name) {
			v, err := flags.GetBool(name)
			if err != nil {
				return err
			}
			*dst = v
		}
	}

	if flags.Changed("requests-per-second") {
		v, err := flags.GetFloat64("requests-per-second")
		if err != nil {
			return err
		}
		cfg.RequestsPerSecond = v
	}
	if flags.Changed("rate-limit-burst") {
		v, err := flags.GetInt("rate-limit-burst")
		if err != nil {
			return err
		}
		cfg.RateLimitBurst = v
	}
	if flags.Changed("image-buffer-size") {
		v, err := flags.GetInt("image-buffer-size")
		if err != nil {
			return err
		}
		cfg.ImageBufferSize = v
	}
	if flags.Changed("result-buffer-size") {
		v, err := flags.GetInt("result-buffer-size")
		if err != nil {
			return err
		}
		cfg.ResultBufferSize = v
	}

	return nil
}

// getPersistentBool reads a bool flag by walking cmd and its ancestors,
// checking each one's own flags and persistent flags in turn. Unlike
// cmd.Flags().GetBool, this does not depend on cobra having already
// merged parent persistent flags into cmd (that merge only happens once
// the command tree's Execute has run), which makes buildConfig callable
// directly in tests without going through a full Execute.
func getPersistentBool(cmd *cobra.Command, name string) (bool, error) {
	for c := cmd; c != nil; c = c.Parent() {
		if f := c.Flags().Lookup(name); f != nil {
			return strconv.ParseBool(f.Value.String())
		}
		if f := c.PersistentFlags().Lookup(name); f != nil {
			return strconv.ParseBool(f.Value.String())
		}
	}
	return false, nil
}

// setupLogger creates a redacting structured logger based on verbosity.
func setupLogger(verbose bool) *slog.Logger {
	return slogx.NewSecureLogger(os.Stderr, verbose)
}

// runScavenge builds the pipeline from cfg and drains it until it
// finishes or ctx is cancelled, then writes a run summary.
func runScavenge(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, reportPath string) error {
	logger.Info("starting scavenge",
		"gallery_base_url", cfg.GalleryBaseURL,
		"disk_source_dir", cfg.DiskSourceDir,
		"ocr_enabled", cfg.OCREnabled,
		"hunting_enabled", cfg.HuntingEnabled,
	)

	src, err := buildSource(cfg, logger)
	if err != nil {
		return fmt.Errorf("building source: %w", err)
	}

	resultSink, err := buildSink(cfg, logger)
	if err != nil {
		return fmt.Errorf("building sink: %w", err)
	}

	sc, err := scavenger.New(
		scavenger.WithSource(src),
		scavenger.WithResultSink(resultSink),
		scavenger.WithLogger(logger),
		scavenger.WithImageBufferSize(cfg.ImageBufferSize),
		scavenger.WithResultBufferSize(cfg.ResultBufferSize),
		scavenger.WithOCR(cfg.OCREnabled),
		scavenger.WithHunting(cfg.HuntingEnabled),
		scavenger.WithResultSinkEnabled(cfg.ResultSinkEnabled),
	)
	if err != nil {
		return fmt.Errorf("building pipeline: %w", err)
	}

	recorder := report.NewRecorder(cfg.GalleryBaseURL)
	if sc.ResultImageID() != "" {
		// New already blocked for and adopted the first result before
		// returning; the drain loop below only observes results pulled
		// afterwards, so record this one now.
		recorder.ObserveResult(sc.ResultData())
	}

	pollTicker := time.NewTicker(50 * time.Millisecond)
	defer pollTicker.Stop()

drain:
	for !sc.IsFinished() {
		select {
		case <-ctx.Done():
			break drain
		case <-pollTicker.C:
			for sc.HasNextResult() {
				if err := sc.LoadNextResult(); err != nil {
					break
				}
				recorder.ObserveResult(sc.ResultData())
			}
		}
	}
	recorder.SetImagesProcessed(int(sc.ImagesProcessed()))

	sc.Exit()

	summary := recorder.Finish()
	if err := writeReport(cmd, summary, reportPath); err != nil {
		logger.Warn("failed to write run summary", "error", err)
	}

	logger.Info("scavenge finished",
		"images_processed", summary.ImagesProcessed,
		"findings", summary.TotalFindings(),
	)

	return nil
}

// buildSource selects the disk source when DiskSourceDir is set, else the
// default remote gallery source.
func buildSource(cfg *config.Config, logger *slog.Logger) (source.Source, error) {
	if cfg.DiskSourceDir != "" {
		return source.NewDisk(cfg.DiskSourceDir)
	}
	return source.NewRemote(source.RemoteConfig{
		GalleryBaseURL:    cfg.GalleryBaseURL,
		RequestsPerSecond: cfg.RequestsPerSecond,
		RateLimitBurst:    cfg.RateLimitBurst,
		ProxyURL:          cfg.ProxyURL,
		Logger:            logger,
	})
}

// buildSink constructs the CSV sink (abbreviated or extensive) and, if
// requested, fans it out to an additional sqlite ledger.
func buildSink(cfg *config.Config, logger *slog.Logger) (sink.Sink, error) {
	if !cfg.ResultSinkEnabled {
		return sink.NoOp{}, nil
	}

	newCSV := sink.NewAbbreviatedCSVSink
	if cfg.ExtensiveCSV {
		newCSV = sink.NewExtensiveCSVSink
	}
	csvSink, err := newCSV(cfg.CSVPath(), cfg.ImagesDir(), logger)
	if err != nil {
		return nil, err
	}

	if !cfg.UseSQLiteSink {
		return csvSink, nil
	}

	sqliteDir := cfg.ResolvedBaseDir()
	if sqliteDir == "" {
		sqliteDir = filepath.Dir(cfg.CSVPath())
	}
	sqliteSink, err := sink.OpenSQLiteSink(sqliteDir)
	if err != nil {
		return nil, err
	}

	return sink.NewMultiSink(csvSink, sqliteSink), nil
}

// writeReport renders a markdown run summary to reportPath, or to stdout
// if reportPath is empty.
func writeReport(cmd *cobra.Command, summary *report.Summary, reportPath string) error {
	if reportPath == "" {
		writer := report.NewMarkdownWriter(cmd.OutOrStdout())
		_, err := writer.Write(summary)
		return err
	}

	dir := filepath.Dir(reportPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	f, err := os.OpenFile(reportPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	writer := report.NewMarkdownWriter(f)
	_, err = writer.Write(summary)
	return err
}
