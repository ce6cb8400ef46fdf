package domain

import (
	"context"
	"io"
)

// ScreenSource lists screens and fetches their artifacts.
// Implemented by the Stitch API client.
type ScreenSource interface {
	// ListScreens returns the screens of a project in listing order.
	// A listing without a screens key yields an empty slice and no error.
	ListScreens(ctx context.Context, projectID string) ([]Screen, error)

	// FetchArtifact downloads the body at url without API credentials.
	// The caller must close the returned body.
	FetchArtifact(ctx context.Context, url string) (*ArtifactBody, error)
}

// ArtifactBody is a streamed download response
type ArtifactBody struct {
	Status int
	Body   io.ReadCloser
}

// Notifier receives the user-facing progress notices of a sync run
type Notifier interface {
	// Downloading is emitted for every screen before its download branch
	Downloading(name, id string)

	// NoHTMLCode is emitted when a screen has no download URL
	NoHTMLCode()
}

// Manifest records runs and the artifacts they produced
type Manifest interface {
	BeginRun(run Run) error
	RecordArtifact(runID string, artifact Artifact) error
	FinishRun(run Run) error

	LastRun(projectID string) (Run, bool)
	Artifacts(runID string) ([]Artifact, bool)

	Close() error
}
