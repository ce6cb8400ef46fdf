package console

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"

	"github.com/mmcdole/stitchsync/internal/domain"
)

// clearLine blanks the spinner line
const clearLine = "\r\033[K"

// Spin runs fn while animating a spinner with msg on w. The animation only
// runs when w is a terminal; otherwise fn is simply called.
func Spin(w io.Writer, msg string, fn func() error) error {
	if !IsTerminal(w) {
		return fn()
	}

	frames := spinner.MiniDot.Frames
	interval := spinner.MiniDot.FPS

	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	frame := 0
	fmt.Fprintf(w, "\r%s %s", AccentStyle.Render(frames[frame]), msg)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case err := <-done:
			fmt.Fprint(w, clearLine)
			return err
		case <-ticker.C:
			frame++
			fmt.Fprintf(w, "\r%s %s", AccentStyle.Render(frames[frame%len(frames)]), msg)
		}
	}
}

// spinningSource shows a spinner while the listing request is in flight
type spinningSource struct {
	domain.ScreenSource
	w io.Writer
}

// WithSpinner wraps src so ListScreens animates a spinner on w
func WithSpinner(src domain.ScreenSource, w io.Writer) domain.ScreenSource {
	return &spinningSource{ScreenSource: src, w: w}
}

func (s *spinningSource) ListScreens(ctx context.Context, projectID string) ([]domain.Screen, error) {
	var screens []domain.Screen
	err := Spin(s.w, "Fetching screens...", func() error {
		var err error
		screens, err = s.ScreenSource.ListScreens(ctx, projectID)
		return err
	})
	return screens, err
}
