package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/mmcdole/stitchsync/internal/domain"
	"github.com/mmcdole/stitchsync/internal/search"
)

// Notice texts
const (
	downloadingFormat = "Downloading %s (%s)..."
	noHTMLCodeText    = "No htmlCode found."
)

// Printer renders notices and reports. Styling is applied only when the
// writer is a terminal, so piped output carries the bare text.
type Printer struct {
	out    io.Writer
	styled bool
}

// NewPrinter creates a printer for out
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out, styled: IsTerminal(out)}
}

// IsTerminal reports whether w is a terminal file descriptor
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (p *Printer) render(style lipgloss.Style, s string) string {
	if !p.styled {
		return s
	}
	return style.Render(s)
}

// Downloading implements domain.Notifier
func (p *Printer) Downloading(name, id string) {
	fmt.Fprintf(p.out, downloadingFormat+"\n", p.render(AccentStyle, name), id)
}

// NoHTMLCode implements domain.Notifier
func (p *Printer) NoHTMLCode() {
	fmt.Fprintln(p.out, p.render(WarnStyle, noHTMLCodeText))
}

// Screens prints a listing, one screen per line
func (p *Printer) Screens(screens []domain.Screen) {
	if len(screens) == 0 {
		fmt.Fprintln(p.out, p.render(DimStyle, "No screens."))
		return
	}
	for _, s := range screens {
		fmt.Fprintln(p.out, p.screenLine(s, s.DisplayTitle()))
	}
}

// Matches prints ranked search results with matched characters highlighted
func (p *Printer) Matches(results []search.Result) {
	if len(results) == 0 {
		fmt.Fprintln(p.out, p.render(DimStyle, "No matching screens."))
		return
	}
	for _, r := range results {
		fmt.Fprintln(p.out, p.screenLine(r.Screen, p.highlight(r.Title, r.MatchedIndexes)))
	}
}

func (p *Printer) screenLine(s domain.Screen, title string) string {
	marker := p.render(SuccessStyle, DotChar)
	if !s.HasDownload() {
		marker = p.render(DimStyle, "-")
	}
	return fmt.Sprintf("%s %s  %s", marker, title, p.render(DimStyle, s.ID))
}

// highlight styles the characters of title at the given byte offsets
func (p *Printer) highlight(title string, indexes []int) string {
	if !p.styled || len(indexes) == 0 {
		return title
	}
	matched := make(map[int]bool, len(indexes))
	for _, i := range indexes {
		matched[i] = true
	}
	var b strings.Builder
	for i, r := range title {
		if matched[i] {
			b.WriteString(MatchStyle.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Summary prints the outcome of a sync run
func (p *Printer) Summary(run domain.Run) {
	if run.Error != "" {
		fmt.Fprintf(p.out, "%s Halted after %d of %d screens: %s\n",
			p.render(ErrorStyle, CrossChar), run.Written+run.Missing, run.Listed, run.Error)
		return
	}
	fmt.Fprintf(p.out, "%s Wrote %d of %d screens to %s (%s)\n",
		p.render(SuccessStyle, CheckChar), run.Written, run.Listed, run.OutputDir,
		run.Duration().Round(time.Millisecond))
}

// Status prints a recorded run and its artifacts
func (p *Printer) Status(run domain.Run, artifacts []domain.Artifact) {
	state := p.render(SuccessStyle, "ok")
	switch {
	case run.Error != "":
		state = p.render(ErrorStyle, "halted: "+run.Error)
	case run.FinishedAt.IsZero():
		state = p.render(WarnStyle, "incomplete")
	}

	fmt.Fprintln(p.out, p.render(TitleStyle, "Last run "+run.ID))
	fmt.Fprintf(p.out, "  project:  %s\n", run.ProjectID)
	fmt.Fprintf(p.out, "  started:  %s\n", run.StartedAt.Local().Format(time.RFC3339))
	fmt.Fprintf(p.out, "  status:   %s\n", state)
	fmt.Fprintf(p.out, "  screens:  %d listed, %d written, %d without html\n", run.Listed, run.Written, run.Missing)
	fmt.Fprintf(p.out, "  output:   %s\n", run.OutputDir)

	if len(artifacts) == 0 {
		return
	}
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.render(HeaderStyle, "Artifacts"))
	for _, a := range artifacts {
		fmt.Fprintf(p.out, "  %s  %s  %s\n", a.Path, p.render(DimStyle, a.FormattedSize()), p.render(DimStyle, shortHash(a.SHA256)))
	}
}

// Runs prints one line per recorded run, oldest first
func (p *Printer) Runs(projectID string, runs []domain.Run) {
	if len(runs) == 0 {
		fmt.Fprintf(p.out, "No runs recorded for project %s.\n", projectID)
		return
	}
	for _, run := range runs {
		state := p.render(SuccessStyle, CheckChar)
		switch {
		case run.Error != "":
			state = p.render(ErrorStyle, CrossChar)
		case run.FinishedAt.IsZero():
			state = p.render(WarnStyle, "?")
		}
		fmt.Fprintf(p.out, "%s %s  %s  %d/%d written\n",
			state, run.ID, p.render(DimStyle, run.StartedAt.Local().Format(time.RFC3339)), run.Written, run.Listed)
	}
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
