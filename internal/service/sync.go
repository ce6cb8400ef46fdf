package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/mmcdole/stitchsync/internal/domain"
	"github.com/mmcdole/stitchsync/internal/search"
)

// RunOptions narrows a single sync run
type RunOptions struct {
	Only string // Fuzzy filter on derived name or ID; empty processes every screen
}

// Report summarizes a sync run. It is returned even when the run halts,
// holding whatever was written before the failure.
type Report struct {
	Run       domain.Run
	Artifacts []domain.Artifact
}

// SyncService lists a project's screens and saves their HTML artifacts.
// Screens are processed one at a time in listing order; the first
// failure halts the run.
type SyncService struct {
	source    domain.ScreenSource
	manifest  domain.Manifest
	notifier  domain.Notifier
	logger    *slog.Logger
	projectID string
	outputDir string

	now func() time.Time
}

// NewSyncService creates a new sync service. manifest may be nil.
func NewSyncService(
	source domain.ScreenSource,
	manifest domain.Manifest,
	notifier domain.Notifier,
	projectID, outputDir string,
	logger *slog.Logger,
) *SyncService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SyncService{
		source:    source,
		manifest:  manifest,
		notifier:  notifier,
		logger:    logger,
		projectID: projectID,
		outputDir: outputDir,
		now:       time.Now,
	}
}

// EnsureDir creates dir and any missing parents. It succeeds if dir already
// exists as a directory and fails if the path is a file or cannot be created.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// Run executes one sync: ensure the output directory, list screens, then
// download each screen's artifact in order.
func (s *SyncService) Run(ctx context.Context, opts RunOptions) (*Report, error) {
	report := &Report{
		Run: domain.Run{
			ID:        newRunID(),
			ProjectID: s.projectID,
			OutputDir: s.outputDir,
			StartedAt: s.now(),
		},
	}
	logger := s.logger.With("run", report.Run.ID, "project", s.projectID)

	if err := EnsureDir(s.outputDir); err != nil {
		return report, err
	}

	s.recordBegin(logger, report.Run)
	logger.Info("sync started", "output", s.outputDir)

	screens, err := s.source.ListScreens(ctx, s.projectID)
	if err != nil {
		return report, s.halt(logger, report, fmt.Errorf("failed to list screens: %w", err))
	}

	screens = search.Only(opts.Only, screens)
	report.Run.Listed = len(screens)
	if opts.Only != "" {
		logger.Info("filtered screens", "only", opts.Only, "kept", len(screens))
	}

	for _, screen := range screens {
		if err := ctx.Err(); err != nil {
			return report, s.halt(logger, report, err)
		}

		artifact, err := s.processScreen(ctx, logger, screen)
		if err != nil {
			return report, s.halt(logger, report, err)
		}
		if artifact == nil {
			report.Run.Missing++
			continue
		}

		report.Run.Written++
		report.Artifacts = append(report.Artifacts, *artifact)
		s.recordArtifact(logger, report.Run.ID, *artifact)
	}

	report.Run.FinishedAt = s.now()
	s.recordFinish(logger, report.Run)
	logger.Info("sync finished",
		"listed", report.Run.Listed,
		"written", report.Run.Written,
		"missing", report.Run.Missing,
		"duration", report.Run.Duration(),
	)
	return report, nil
}

// processScreen handles one screen. It returns a nil artifact when the
// screen has no download URL.
func (s *SyncService) processScreen(ctx context.Context, logger *slog.Logger, screen domain.Screen) (*domain.Artifact, error) {
	if screen.ID == "" {
		return nil, fmt.Errorf("%w (title %q)", domain.ErrMissingScreenID, screen.Title)
	}

	name := screen.DerivedName()
	s.notifier.Downloading(name, screen.ID)

	if !screen.HasDownload() {
		logger.Debug("screen has no html code", "screen", screen.ID)
		s.notifier.NoHTMLCode()
		return nil, nil
	}

	return s.download(ctx, logger, screen)
}

// download fetches the screen's artifact and writes the raw body to disk,
// replacing any previous file of the same name.
func (s *SyncService) download(ctx context.Context, logger *slog.Logger, screen domain.Screen) (*domain.Artifact, error) {
	url := screen.DownloadURL()

	resp, err := s.source.FetchArtifact(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("screen %s: %w", screen.ID, err)
	}
	defer resp.Body.Close()

	path := filepath.Join(s.outputDir, screen.FileName())
	n, sum, err := writeAtomic(path, bodyReader{resp.Body})
	if err != nil {
		// Read errors come from the response; anything else is the file
		var readErr *bodyReadError
		if errors.As(err, &readErr) {
			return nil, fmt.Errorf("screen %s: %w: %w", screen.ID, domain.ErrDownloadFailed, readErr.err)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrWriteFailed, err)
	}

	logger.Info("artifact written", "screen", screen.ID, "path", path, "bytes", n, "status", resp.Status)

	return &domain.Artifact{
		ScreenID:  screen.ID,
		Title:     screen.Title,
		Name:      screen.DerivedName(),
		Path:      path,
		SourceURL: url,
		Size:      n,
		SHA256:    sum,
		Status:    resp.Status,
		WrittenAt: s.now(),
	}, nil
}

// halt stamps the run as failed, records it and returns err unchanged
func (s *SyncService) halt(logger *slog.Logger, report *Report, err error) error {
	report.Run.FinishedAt = s.now()
	report.Run.Error = err.Error()
	s.recordFinish(logger, report.Run)
	logger.Error("sync halted", "error", err, "written", report.Run.Written)
	return err
}

// Manifest failures never stop a sync.

func (s *SyncService) recordBegin(logger *slog.Logger, run domain.Run) {
	if s.manifest == nil {
		return
	}
	if err := s.manifest.BeginRun(run); err != nil {
		logger.Warn("failed to record run start", "error", err)
	}
}

func (s *SyncService) recordArtifact(logger *slog.Logger, runID string, artifact domain.Artifact) {
	if s.manifest == nil {
		return
	}
	if err := s.manifest.RecordArtifact(runID, artifact); err != nil {
		logger.Warn("failed to record artifact", "screen", artifact.ScreenID, "error", err)
	}
}

func (s *SyncService) recordFinish(logger *slog.Logger, run domain.Run) {
	if s.manifest == nil {
		return
	}
	if err := s.manifest.FinishRun(run); err != nil {
		logger.Warn("failed to record run finish", "error", err)
	}
}

// writeAtomic copies r into a temp file next to path and renames it over
// path once the copy is complete. On any failure the temp file is removed
// and an existing file at path is left untouched.
func writeAtomic(path string, r io.Reader) (int64, string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".stitchsync-*.tmp")
	if err != nil {
		return 0, "", err
	}
	tmpPath := tmp.Name()

	hash := sha256.New()
	n, err := io.Copy(io.MultiWriter(tmp, hash), r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmpPath, 0644)
	}
	if err == nil {
		err = os.Rename(tmpPath, path)
	}
	if err != nil {
		os.Remove(tmpPath)
		return 0, "", err
	}

	return n, hex.EncodeToString(hash.Sum(nil)), nil
}

// bodyReader tags response read failures so they are not mistaken for
// write failures after io.Copy
type bodyReader struct{ r io.Reader }

func (b bodyReader) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	if err != nil && err != io.EOF {
		return n, &bodyReadError{err: err}
	}
	return n, err
}

type bodyReadError struct{ err error }

func (e *bodyReadError) Error() string { return e.err.Error() }
func (e *bodyReadError) Unwrap() error { return e.err }

func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
