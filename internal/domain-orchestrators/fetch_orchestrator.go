// Package orchestrators coordinates complex workflows across multiple domain services.
package orchestrators

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/ochairo/sheetfetch/internal/domain/entities"
	"github.com/ochairo/sheetfetch/internal/domain/interfaces"
	"github.com/ochairo/sheetfetch/internal/domain/interfaces/gateways"
	"github.com/ochairo/sheetfetch/internal/domain/interfaces/repositories"
	"github.com/ochairo/sheetfetch/internal/domain/interfaces/services"
)

// FetchOrchestrator runs the fetch workflow over every configured target, one at a time
type FetchOrchestrator struct {
	targetRepo   repositories.TargetRepository
	resolver     gateways.URLResolver
	fetcher      gateways.FileFetcher
	changes      services.ChangeService
	signatures   gateways.SignatureVerifier
	marker       gateways.MarkerWriter
	logger       interfaces.Logger
	outputDir    string
	trackChanges bool
	newRunID     func() string
	now          func() time.Time
}

// FetchOrchestratorConfig holds configuration for the orchestrator
type FetchOrchestratorConfig struct {
	OutputDir string

	// TrackChanges enables backup, comparison and the change marker
	TrackChanges bool
}

// NewFetchOrchestrator creates a new fetch orchestrator.
// signatures may be nil when no target needs signature verification.
func NewFetchOrchestrator(
	targetRepo repositories.TargetRepository,
	resolver gateways.URLResolver,
	fetcher gateways.FileFetcher,
	changes services.ChangeService,
	signatures gateways.SignatureVerifier,
	marker gateways.MarkerWriter,
	logger interfaces.Logger,
	config FetchOrchestratorConfig,
) *FetchOrchestrator {
	outputDir := config.OutputDir
	if outputDir == "" {
		outputDir = "data"
	}
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}

	return &FetchOrchestrator{
		targetRepo:   targetRepo,
		resolver:     resolver,
		fetcher:      fetcher,
		changes:      changes,
		signatures:   signatures,
		marker:       marker,
		logger:       logger,
		outputDir:    outputDir,
		trackChanges: config.TrackChanges,
		newRunID:     uuid.NewString,
		now:          time.Now,
	}
}

// Run fetches every target and aggregates the outcome.
// Per-target failures are recorded in the summary; the returned error is
// reserved for problems that prevent the run from starting.
func (o *FetchOrchestrator) Run(ctx context.Context) (*entities.RunSummary, error) {
	summary := &entities.RunSummary{
		RunID:     o.newRunID(),
		StartedAt: o.now(),
		Success:   true,
	}
	logger := o.logger.With(interfaces.F("run_id", summary.RunID))

	targets, err := o.targetRepo.ListTargets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load targets: %w", err)
	}

	if err := os.MkdirAll(o.outputDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	if o.trackChanges {
		if err := o.marker.Clear(o.outputDir); err != nil {
			return nil, err
		}
	}

	logger.Info("Starting fetch run",
		interfaces.F("targets", len(targets)),
		interfaces.F("output_dir", o.outputDir),
		interfaces.F("track_changes", o.trackChanges))

	for _, target := range targets {
		result := o.fetchTarget(ctx, logger.With(interfaces.F("target", target.Name)), target)
		summary.Results = append(summary.Results, result)

		if !result.Success {
			summary.Success = false
		}
		if result.IsChanged() {
			summary.AnyChanged = true
		}
	}

	if o.trackChanges && summary.AnyChanged {
		path, err := o.marker.MarkChanged(o.outputDir, summary.ChangedTargets())
		if err != nil {
			logger.Error("Failed to write change marker", interfaces.Err(err))
			summary.Success = false
		} else {
			summary.MarkerPath = path
			logger.Info("Tracked files changed", interfaces.F("marker", path), interfaces.F("changed", summary.ChangedTargets()))
		}
	}

	summary.Duration = o.now().Sub(summary.StartedAt)
	if summary.Success {
		logger.Info("Fetch run complete", interfaces.F("changed", summary.AnyChanged))
	} else {
		logger.Warn("Fetch run finished with failures", interfaces.F("failed", summary.FailedTargets()))
	}

	return summary, nil
}

// fetchTarget runs backup -> resolve -> fetch -> verify -> compare for one target.
// It never returns early without a populated result.
func (o *FetchOrchestrator) fetchTarget(ctx context.Context, logger interfaces.Logger, target *entities.FetchTarget) *entities.FetchResult {
	start := o.now()
	result := &entities.FetchResult{Target: target.Name}
	defer func() { result.Duration = o.now().Sub(start) }()

	if !target.HasURL() {
		result.Err = fmt.Errorf("%w: %s environment variable not set", entities.ErrMissingConfiguration, target.EnvVar)
		logger.Warn("Share URL not configured", interfaces.F("env", target.EnvVar))
		return result
	}

	logger.Info("Downloading", interfaces.F("source", redact(target.ShareURL)), interfaces.F("path", target.OutputPath))

	backedUp := false
	if o.trackChanges {
		moved, err := o.changes.Backup(target.OutputPath)
		if err != nil {
			result.Err = fmt.Errorf("%w: %v", entities.ErrChecksumIO, err)
			logger.Warn("Failed to back up previous copy", interfaces.Err(err))
			return result
		}
		backedUp = moved
	}

	downloadURL, err := o.resolver.ResolveDirectURL(ctx, target.ShareURL)
	if err != nil {
		logger.Warn("Could not resolve direct download URL, using share link", interfaces.Err(err))
		downloadURL = target.ShareURL
	}
	result.ResolvedURL = downloadURL

	fetched, err := o.fetcher.Fetch(ctx, downloadURL, target.OutputPath)
	if fetched != nil {
		result.BytesWritten = fetched.BytesWritten
		result.Checksum = fetched.Checksum
	}
	if err == nil && o.signatures != nil && target.Signature.Enabled() {
		if err = o.signatures.VerifyTarget(ctx, target); err != nil {
			_ = os.Remove(target.OutputPath)
		}
	}
	if err != nil {
		result.Err = err
		logger.Warn("Download failed", interfaces.Err(err))
		if backedUp {
			if restoreErr := o.changes.Restore(target.OutputPath); restoreErr != nil {
				logger.Error("Failed to restore previous copy", interfaces.Err(restoreErr))
			}
		}
		return result
	}

	result.Success = true
	logger.Info("Download complete", interfaces.F("bytes", result.BytesWritten))

	if !backedUp {
		return result
	}

	changed, err := o.changes.DetectChange(target.OutputPath)
	if err != nil {
		result.Success = false
		result.Err = err
		logger.Warn("Change detection failed", interfaces.Err(err))
		return result
	}
	result.Changed = &changed
	if changed {
		logger.Info("Content changed since previous run")
	} else {
		logger.Debug("Content unchanged")
	}

	return result
}

// redact drops the query string, which carries share tokens, from log output
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.User = nil
	return u.String()
}
