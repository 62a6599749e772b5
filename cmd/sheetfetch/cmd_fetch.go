package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/ochairo/sheetfetch/internal/config"
	"github.com/ochairo/sheetfetch/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/sheetfetch/internal/domain-orchestrators"
	"github.com/ochairo/sheetfetch/internal/domain/entities"
	"github.com/ochairo/sheetfetch/internal/domain/services"
	"github.com/ochairo/sheetfetch/internal/external-adapters/yaml"
)

type fetchOptions struct {
	outputDir   string
	targetsFile string
	summaryPath string
	timeout     time.Duration
	noBackup    bool
}

func addFetchFlags(cmd *cobra.Command, opts *fetchOptions) {
	f := cmd.Flags()
	f.StringVar(&opts.outputDir, "output-dir", "", "Directory for downloaded files (default \"data\")")
	f.StringVar(&opts.targetsFile, "targets", "", "YAML targets file (default: built-in targets)")
	f.StringVar(&opts.summaryPath, "summary-json", "", "Write a JSON run summary to this path")
	f.DurationVar(&opts.timeout, "timeout", 0, "HTTP timeout per download (default 5m)")
	f.BoolVar(&opts.noBackup, "no-backup", false, "Disable backup, change detection and the change marker")
}

func (a *app) newFetchCmd() *cobra.Command {
	opts := &fetchOptions{}
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download every target and record content changes",
		Example: `  sheetfetch fetch
  sheetfetch fetch --output-dir data --summary-json fetch-summary.json
  sheetfetch fetch --targets sheets.yml --no-backup`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runFetch(cmd.Context(), opts)
		},
	}
	addFetchFlags(cmd, opts)
	return cmd
}

func (a *app) loadConfig(opts *fetchOptions) (config.Config, error) {
	cfg := config.Default()
	if err := cfg.LoadFromEnv(); err != nil {
		return config.Config{}, err
	}
	cfg = cfg.Merge(config.Config{
		OutputDir:   opts.outputDir,
		TargetsFile: opts.targetsFile,
		Timeout:     opts.timeout,
		SummaryPath: opts.summaryPath,
	})
	if opts.noBackup {
		cfg.TrackChanges = false
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func (a *app) runFetch(ctx context.Context, opts *fetchOptions) error {
	cfg, err := a.loadConfig(opts)
	if err != nil {
		return err
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	orchestrator := orchestrators.NewFetchOrchestrator(
		yaml.NewTargetRepository(cfg.TargetsFile, cfg.OutputDir),
		gateways.NewOneDriveResolver(),
		gateways.NewDownloader(gateways.DownloaderOptions{
			Timeout:   cfg.Timeout,
			UserAgent: cfg.UserAgent,
			Logger:    a.logger,
		}),
		services.NewChangeService(gateways.NewChecksumVerifier()),
		gateways.NewGPGVerifier(httpClient),
		gateways.NewMarkerWriter(),
		a.logger,
		orchestrators.FetchOrchestratorConfig{
			OutputDir:    cfg.OutputDir,
			TrackChanges: cfg.TrackChanges,
		},
	)

	summary, err := orchestrator.Run(ctx)
	if err != nil {
		return err
	}

	a.printSummary(summary)

	if cfg.SummaryPath != "" {
		if err := writeSummaryJSON(cfg.SummaryPath, summary); err != nil {
			return err
		}
	}

	if err := gateways.WriteGitHubOutput(
		gateways.OutputPair{Key: "changed", Value: strconv.FormatBool(summary.AnyChanged)},
		gateways.OutputPair{Key: "success", Value: strconv.FormatBool(summary.Success)},
	); err != nil {
		return err
	}

	if summary.ExitCode() != 0 {
		return errFailed
	}
	return nil
}

func (a *app) printSummary(summary *entities.RunSummary) {
	succeeded := len(summary.Results) - len(summary.FailedTargets())
	fmt.Fprintf(a.stdout, "Fetched %d/%d targets\n", succeeded, len(summary.Results))

	for _, r := range summary.Results {
		switch {
		case !r.Success:
			fmt.Fprintf(a.stdout, "  ❌ %-20s %v\n", r.Target, r.Err)
		case r.IsChanged():
			fmt.Fprintf(a.stdout, "  ✅ %-20s %d bytes (changed)\n", r.Target, r.BytesWritten)
		default:
			fmt.Fprintf(a.stdout, "  ✅ %-20s %d bytes\n", r.Target, r.BytesWritten)
		}
	}

	if summary.MarkerPath != "" {
		fmt.Fprintf(a.stdout, "\nChanges recorded in %s\n", summary.MarkerPath)
	}
}

type jsonSummary struct {
	RunID      string       `json:"run_id"`
	StartedAt  time.Time    `json:"started_at"`
	DurationMS int64        `json:"duration_ms"`
	Success    bool         `json:"success"`
	AnyChanged bool         `json:"any_changed"`
	MarkerPath string       `json:"marker_path,omitempty"`
	Targets    []jsonResult `json:"targets"`
}

type jsonResult struct {
	Name         string `json:"name"`
	Success      bool   `json:"success"`
	BytesWritten int64  `json:"bytes_written"`
	Changed      *bool  `json:"changed"`
	Checksum     string `json:"sha256,omitempty"`
	DurationMS   int64  `json:"duration_ms"`
	ErrorKind    string `json:"error_kind,omitempty"`
	Error        string `json:"error,omitempty"`
}

func toJSONSummary(summary *entities.RunSummary) jsonSummary {
	out := jsonSummary{
		RunID:      summary.RunID,
		StartedAt:  summary.StartedAt.UTC(),
		DurationMS: summary.Duration.Milliseconds(),
		Success:    summary.Success,
		AnyChanged: summary.AnyChanged,
		MarkerPath: summary.MarkerPath,
		Targets:    make([]jsonResult, 0, len(summary.Results)),
	}
	for _, r := range summary.Results {
		jr := jsonResult{
			Name:         r.Target,
			Success:      r.Success,
			BytesWritten: r.BytesWritten,
			Changed:      r.Changed,
			Checksum:     r.Checksum,
			DurationMS:   r.Duration.Milliseconds(),
			ErrorKind:    entities.ErrorKind(r.Err),
		}
		if r.Err != nil {
			jr.Error = r.Err.Error()
		}
		out.Targets = append(out.Targets, jr)
	}
	return out
}

func writeSummaryJSON(path string, summary *entities.RunSummary) error {
	data, err := json.MarshalIndent(toJSONSummary(summary), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create summary directory: %w", err)
	}
	//nolint:gosec // G306: summary is uploaded as a CI artifact
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}
