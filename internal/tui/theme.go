package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Mr-Dark-debug/tabkeep/internal/surface"
)

// ────────────────────────────────────────────────────────────
// Color Palette: GitHub Dark aesthetic
// ────────────────────────────────────────────────────────────
//
// All colors are defined here. No ad-hoc color literals anywhere.

var (
	// Base
	colorBg        = lipgloss.Color("#0d1117")
	colorBgPanel   = lipgloss.Color("#161b22")
	colorBgSurface = lipgloss.Color("#1c2128")

	// Text
	colorText      = lipgloss.Color("#e6edf3")
	colorTextDim   = lipgloss.Color("#8b949e")
	colorTextMuted = lipgloss.Color("#484f58")

	// Accents
	colorBlue   = lipgloss.Color("#58a6ff")
	colorGreen  = lipgloss.Color("#3fb950")
	colorYellow = lipgloss.Color("#d29922")
	colorPurple = lipgloss.Color("#bc8cff")

	// Structural
	colorDivider   = lipgloss.Color("#30363d")
	colorHighlight = lipgloss.Color("#1f6feb")
)

// ────────────────────────────────────────────────────────────
// Pane classes
// ────────────────────────────────────────────────────────────

// Classes is the stylesheet tab panes resolve their class names against.
// "tab" is the default class from the config; "compact" and "framed" are
// alternatives a config can switch to at runtime.
func Classes() surface.Classes {
	return surface.Classes{
		"tab": lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorBgPanel),
		"compact": lipgloss.NewStyle().
			Foreground(colorText),
		"framed": lipgloss.NewStyle().
			Foreground(colorText).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDivider),
	}
}

// ────────────────────────────────────────────────────────────
// Chrome
// ────────────────────────────────────────────────────────────

// Header bar and tab strip
var (
	headerBarStyle = lipgloss.NewStyle().
			Background(colorBgSurface).
			Foreground(colorText).
			Padding(0, 1)

	headerBrandStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorBlue)

	headerSepStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)

	tabItemStyle = lipgloss.NewStyle().
			Foreground(colorTextDim).
			Padding(0, 1)

	tabActiveStyle = lipgloss.NewStyle().
			Background(colorHighlight).
			Foreground(colorText).
			Bold(true).
			Padding(0, 1)

	tabIndexStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)
)

// Footer / status bar
var (
	statusStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorBgSurface).
			Padding(0, 1)

	statusErrStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Background(colorBgSurface).
			Padding(0, 1)

	hintKeyStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)

	hintDescStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)

	emptyStateStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted).
			Padding(2, 4)
)

// Tab content
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true)

	activeBadgeStyle = lipgloss.NewStyle().
				Foreground(colorGreen)

	inactiveBadgeStyle = lipgloss.NewStyle().
				Foreground(colorTextMuted)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorText)

	counterStyle = lipgloss.NewStyle().
			Foreground(colorPurple).
			Bold(true).
			Padding(1, 4).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDivider)

	cursorStyle = lipgloss.NewStyle().
			Background(colorBlue).
			Foreground(colorBg)
)
