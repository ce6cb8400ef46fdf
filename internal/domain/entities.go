package domain

import (
	"fmt"
	"strings"
	"time"
)

// pathSeparators are replaced in titles so a derived name never nests directories
const pathSeparators = `/\`

// Screen represents one UI screen in a project listing
type Screen struct {
	ID       string       // Server-assigned identifier, unique within a listing
	Title    string       // Display title (may be empty)
	HTMLCode *DownloadRef // Renderable HTML artifact, nil when the screen has none
}

// DownloadRef points at a downloadable artifact
type DownloadRef struct {
	DownloadURL string
}

// DerivedName returns the base filename for the screen's artifact.
// The title wins when set, with path separators replaced by underscores;
// otherwise the ID is used as-is.
func (s Screen) DerivedName() string {
	if s.Title == "" {
		return s.ID
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(pathSeparators, r) {
			return '_'
		}
		return r
	}, s.Title)
}

// DisplayTitle returns the title, falling back to the ID
func (s Screen) DisplayTitle() string {
	if s.Title == "" {
		return s.ID
	}
	return s.Title
}

// DownloadURL returns the artifact URL, or "" when the screen has no HTML code
func (s Screen) DownloadURL() string {
	if s.HTMLCode == nil {
		return ""
	}
	return s.HTMLCode.DownloadURL
}

// HasDownload returns true if the screen carries a usable download URL
func (s Screen) HasDownload() bool {
	return s.DownloadURL() != ""
}

// FileName returns the artifact's on-disk file name
func (s Screen) FileName() string {
	return s.DerivedName() + ".html"
}

// Artifact records one file written during a run
type Artifact struct {
	ScreenID  string
	Title     string
	Name      string // Derived name
	Path      string // Path of the written file
	SourceURL string
	Size      int64
	SHA256    string // Hex digest of the written content
	Status    int    // HTTP status of the download response
	WrittenAt time.Time
}

// Run records one invocation of the sync flow
type Run struct {
	ID         string
	ProjectID  string
	OutputDir  string
	StartedAt  time.Time
	FinishedAt time.Time
	Listed     int    // Screens returned by the listing (after filtering)
	Written    int    // Artifacts written
	Missing    int    // Screens without a download URL
	Error      string // Set when the run halted
}

// Succeeded returns true if the run finished without halting
func (r Run) Succeeded() bool {
	return !r.FinishedAt.IsZero() && r.Error == ""
}

// Duration returns the wall time of a finished run
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// FormattedSize returns the artifact size in a human-readable format
func (a Artifact) FormattedSize() string {
	switch {
	case a.Size >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(a.Size)/float64(1<<20))
	case a.Size >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(a.Size)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", a.Size)
	}
}
