package console

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/stitchsync/internal/domain"
	"github.com/mmcdole/stitchsync/internal/search"
)

func TestPrinterNotices(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Downloading("Home", "s1")
	p.Downloading("s2", "s2")
	p.NoHTMLCode()

	assert.Equal(t, "Downloading Home (s1)...\nDownloading s2 (s2)...\nNo htmlCode found.\n", buf.String())
}

func TestPrinterScreens(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Screens([]domain.Screen{
		{ID: "s1", Title: "Home", HTMLCode: &domain.DownloadRef{DownloadURL: "u"}},
		{ID: "s2"},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, DotChar+" Home  s1", lines[0])
	assert.Equal(t, "- s2  s2", lines[1])

	buf.Reset()
	p.Screens(nil)
	assert.Equal(t, "No screens.\n", buf.String())
}

func TestPrinterMatchesPlain(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Matches([]search.Result{{
		Screen:         domain.Screen{ID: "s3", Title: "Checkout"},
		Title:          "Checkout",
		MatchedIndexes: []int{0, 1},
	}})
	assert.Equal(t, "- Checkout  s3\n", buf.String())

	buf.Reset()
	p.Matches(nil)
	assert.Equal(t, "No matching screens.\n", buf.String())
}

func TestPrinterSummary(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.Summary(domain.Run{Listed: 3, Written: 2, Missing: 1, OutputDir: "docs/stitch_ui", StartedAt: start, FinishedAt: start.Add(1500 * time.Millisecond)})
	assert.Equal(t, CheckChar+" Wrote 2 of 3 screens to docs/stitch_ui (1.5s)\n", buf.String())

	buf.Reset()
	p.Summary(domain.Run{Listed: 3, Written: 1, Error: "boom"})
	assert.Equal(t, CrossChar+" Halted after 1 of 3 screens: boom\n", buf.String())
}

func TestPrinterStatus(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.Status(
		domain.Run{ID: "r1", ProjectID: "p1", StartedAt: start, FinishedAt: start.Add(time.Second), Listed: 2, Written: 1, Missing: 1, OutputDir: "out"},
		[]domain.Artifact{{Path: "out/Home.html", Size: 15, SHA256: "2cf24dba5fb0a30e26e8"}},
	)

	out := buf.String()
	assert.Contains(t, out, "Last run r1")
	assert.Contains(t, out, "status:   ok")
	assert.Contains(t, out, "2 listed, 1 written, 1 without html")
	assert.Contains(t, out, "out/Home.html  15 B  2cf24dba5fb0")

	buf.Reset()
	p.Status(domain.Run{ID: "r2", StartedAt: start}, nil)
	assert.Contains(t, buf.String(), "status:   incomplete")
	assert.NotContains(t, buf.String(), "Artifacts")
}

func TestPrinterRuns(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.Runs("p1", []domain.Run{
		{ID: "r1", StartedAt: start, FinishedAt: start.Add(time.Second), Listed: 2, Written: 2},
		{ID: "r2", StartedAt: start, FinishedAt: start.Add(time.Second), Listed: 2, Written: 1, Error: "boom"},
		{ID: "r3", StartedAt: start},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], CheckChar+" r1  "))
	assert.True(t, strings.HasSuffix(lines[0], "2/2 written"))
	assert.True(t, strings.HasPrefix(lines[1], CrossChar+" r2  "))
	assert.True(t, strings.HasPrefix(lines[2], "? r3  "))

	buf.Reset()
	p.Runs("p1", nil)
	assert.Equal(t, "No runs recorded for project p1.\n", buf.String())
}

func TestSpinNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	called := false
	err := Spin(&buf, "working", func() error {
		called = true
		return errors.New("done")
	})

	assert.True(t, called)
	assert.EqualError(t, err, "done")
	assert.Empty(t, buf.String(), "no animation off a terminal")
}
