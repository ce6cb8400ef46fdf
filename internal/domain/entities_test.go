package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScreenDerivedName(t *testing.T) {
	tests := []struct {
		name     string
		screen   Screen
		expected string
	}{
		{
			name:     "title is used as-is",
			screen:   Screen{ID: "s1", Title: "Home"},
			expected: "Home",
		},
		{
			name:     "forward slashes become underscores",
			screen:   Screen{ID: "s1", Title: "Settings/Profile/Edit"},
			expected: "Settings_Profile_Edit",
		},
		{
			name:     "backslashes become underscores",
			screen:   Screen{ID: "s1", Title: `Login\Error`},
			expected: "Login_Error",
		},
		{
			name:     "missing title falls back to id",
			screen:   Screen{ID: "abc123"},
			expected: "abc123",
		},
		{
			name:     "spaces and punctuation are kept",
			screen:   Screen{ID: "s1", Title: "Sign up - Step 2"},
			expected: "Sign up - Step 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.screen.DerivedName())
			assert.Equal(t, tt.expected+".html", tt.screen.FileName())
		})
	}
}

func TestScreenDownloadURL(t *testing.T) {
	assert.False(t, Screen{ID: "s1"}.HasDownload())
	assert.False(t, Screen{ID: "s1", HTMLCode: &DownloadRef{}}.HasDownload())

	s := Screen{ID: "s1", HTMLCode: &DownloadRef{DownloadURL: "https://x/h.html"}}
	assert.True(t, s.HasDownload())
	assert.Equal(t, "https://x/h.html", s.DownloadURL())
}

func TestScreenDisplayTitle(t *testing.T) {
	assert.Equal(t, "Home", Screen{ID: "s1", Title: "Home"}.DisplayTitle())
	assert.Equal(t, "s1", Screen{ID: "s1"}.DisplayTitle())
}

func TestRunOutcome(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	running := Run{StartedAt: start}
	assert.False(t, running.Succeeded())
	assert.Zero(t, running.Duration())

	done := Run{StartedAt: start, FinishedAt: start.Add(3 * time.Second)}
	assert.True(t, done.Succeeded())
	assert.Equal(t, 3*time.Second, done.Duration())

	halted := done
	halted.Error = "boom"
	assert.False(t, halted.Succeeded())
}

func TestArtifactFormattedSize(t *testing.T) {
	assert.Equal(t, "512 B", Artifact{Size: 512}.FormattedSize())
	assert.Equal(t, "2.0 KB", Artifact{Size: 2048}.FormattedSize())
	assert.Equal(t, "1.5 MB", Artifact{Size: 3 << 19}.FormattedSize())
}
