package console

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	StitchBlue = lipgloss.Color("#4285F4")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Amber      = lipgloss.Color("#F59E0B")
	Red        = lipgloss.Color("#EF4444")
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(StitchBlue)

	WarnStyle = lipgloss.NewStyle().
			Foreground(Amber)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)

	MatchStyle = lipgloss.NewStyle().
			Foreground(StitchBlue).
			Underline(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Bold(true)
)

// Status glyphs (unstyled)
const (
	CheckChar = "✓"
	CrossChar = "✗"
	DotChar   = "●"
)
