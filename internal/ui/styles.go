package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

// IsTTY indicates whether stdout is an interactive terminal.
// When false, UI functions produce plain text without colors or decorations.
var IsTTY = term.IsTerminal(os.Stdout.Fd())

// Status markers. They are printed in plain output too, so scripts can
// grep for them.
const (
	MarkOK   = "✓"
	MarkFail = "✗"
	MarkWarn = "!"
	MarkInfo = "→"
)

// ═══════════════════════════════════════════════════════════════════════════════
// COLOR PALETTE - trail markers and topo maps
// ═══════════════════════════════════════════════════════════════════════════════

var (
	Forest = lipgloss.Color("#2E8B57")
	Moss   = lipgloss.Color("#8FBC8F")
	Sky    = lipgloss.Color("#5DADE2")
	Summit = lipgloss.Color("#F4D03F")
	Ember  = lipgloss.Color("#DC7633")
	Flare  = lipgloss.Color("#FF6B6B")
	Dusk   = lipgloss.Color("#9B59B6")

	White    = lipgloss.Color("#FDFEFE")
	Gray     = lipgloss.Color("#AAB7B8")
	DarkGray = lipgloss.Color("#5D6D7E")
	Black    = lipgloss.Color("#1C2833")
)

// ═══════════════════════════════════════════════════════════════════════════════
// TEXT STYLES
// ═══════════════════════════════════════════════════════════════════════════════

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Summit)

	Success = lipgloss.NewStyle().
		Foreground(Forest)

	Error = lipgloss.NewStyle().
		Foreground(Flare).
		Bold(true)

	Muted = lipgloss.NewStyle().
		Foreground(Gray)

	Dim = lipgloss.NewStyle().
		Foreground(DarkGray)

	Highlight = lipgloss.NewStyle().
		Foreground(Summit).
		Bold(true)
)

// ═══════════════════════════════════════════════════════════════════════════════
// BADGES
// ═══════════════════════════════════════════════════════════════════════════════

var baseBadge = lipgloss.NewStyle().
	Padding(0, 1).
	Bold(true)

// AgentBadge returns the agent file badge
func AgentBadge() string {
	if !IsTTY {
		return "[AGENT]"
	}
	return baseBadge.Background(Dusk).Foreground(White).Render("◈ AGENT")
}

// CmdBadge returns the command file badge
func CmdBadge() string {
	if !IsTTY {
		return "[CMD]"
	}
	return baseBadge.Background(Sky).Foreground(White).Render("⌘ CMD")
}

// ModeBadge returns a badge naming the deployment mode
func ModeBadge(mode string) string {
	if !IsTTY {
		return "[" + strings.ToUpper(mode) + "]"
	}
	return baseBadge.Background(Forest).Foreground(White).Render(strings.ToUpper(mode))
}

// ═══════════════════════════════════════════════════════════════════════════════
// LOGO
// ═══════════════════════════════════════════════════════════════════════════════

// Logo returns the Waypoint banner
func Logo() string {
	if !IsTTY {
		return "\n  Waypoint - install agent and command modules\n"
	}

	lines := []struct {
		text  string
		color lipgloss.Color
	}{
		{"", Black},
		{"         ▲", Summit},
		{"        ▲▲▲      W A Y P O I N T", Moss},
		{"       ▲▲▲▲▲     ───────────────", Forest},
		{"         █       agents · commands", DarkGray},
		{"", Black},
	}

	var result strings.Builder
	for _, line := range lines {
		result.WriteString(lipgloss.NewStyle().Foreground(line.color).Render(line.text))
		result.WriteString("\n")
	}
	return result.String()
}

// ═══════════════════════════════════════════════════════════════════════════════
// DECORATIVE ELEMENTS
// ═══════════════════════════════════════════════════════════════════════════════

// SectionHeader creates a decorated section header
func SectionHeader(title string) string {
	if !IsTTY {
		return fmt.Sprintf("=== %s ===", title)
	}

	width := TerminalWidth()
	if width > 80 {
		width = 80
	}

	titleStyled := lipgloss.NewStyle().
		Foreground(Summit).
		Bold(true).
		Render(title)

	titleLen := lipgloss.Width(title)
	padLeft := (width - titleLen - 6) / 2
	padRight := width - titleLen - 6 - padLeft
	if padLeft < 0 {
		padLeft = 0
	}
	if padRight < 0 {
		padRight = 0
	}

	left := lipgloss.NewStyle().Foreground(DarkGray).Render(strings.Repeat("─", padLeft) + "┤ ")
	right := lipgloss.NewStyle().Foreground(DarkGray).Render(" ├" + strings.Repeat("─", padRight))

	return left + titleStyled + right
}

// PageFooter closes a section started with SectionHeader
func PageFooter() string {
	if !IsTTY {
		return "\n"
	}

	width := TerminalWidth()
	if width > 80 {
		width = 80
	}
	padSide := (width - 5) / 2
	left := strings.Repeat("─", padSide)
	right := strings.Repeat("─", width-padSide-5)
	line := lipgloss.NewStyle().Foreground(DarkGray).Render(left + " ▲ " + right)
	return "\n" + line + "\n"
}

// ═══════════════════════════════════════════════════════════════════════════════
// STATUS LINE COMPONENTS
// ═══════════════════════════════════════════════════════════════════════════════

// StatusLine creates a status line with icon and message
func StatusLine(icon, message string, color lipgloss.Color) string {
	if !IsTTY {
		return fmt.Sprintf("  %s %s", icon, message)
	}
	iconStyled := lipgloss.NewStyle().Foreground(color).Render(icon)
	msgStyled := lipgloss.NewStyle().Foreground(color).Render(message)
	return fmt.Sprintf("  %s %s", iconStyled, msgStyled)
}

// SuccessLine creates a success status line
func SuccessLine(message string) string {
	return StatusLine(MarkOK, message, Forest)
}

// ErrorLine creates an error status line
func ErrorLine(message string) string {
	return StatusLine(MarkFail, message, Flare)
}

// WarningLine creates a warning status line
func WarningLine(message string) string {
	return StatusLine(MarkWarn, message, Ember)
}

// InfoLine creates an info status line
func InfoLine(message string) string {
	return StatusLine(MarkInfo, message, Sky)
}

// ═══════════════════════════════════════════════════════════════════════════════
// HELPER FUNCTIONS
// ═══════════════════════════════════════════════════════════════════════════════

// Truncate truncates text to max length with ellipsis
func Truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max || max < 4 {
		return text
	}
	return string(runes[:max-3]) + "..."
}

// Render applies a lipgloss style to text, returning plain text in non-TTY environments.
func Render(style lipgloss.Style, text string) string {
	if !IsTTY {
		return text
	}
	return style.Render(text)
}

// RenderMuted renders text in muted style (TTY-aware)
func RenderMuted(text string) string {
	return Render(Muted, text)
}

// RenderDim renders text in dim style (TTY-aware)
func RenderDim(text string) string {
	return Render(Dim, text)
}

// RenderHighlight renders text in highlight style (TTY-aware)
func RenderHighlight(text string) string {
	return Render(Highlight, text)
}

// RenderSuccess renders text in success style (TTY-aware)
func RenderSuccess(text string) string {
	return Render(Success, text)
}

// RenderError renders text in error style (TTY-aware)
func RenderError(text string) string {
	return Render(Error, text)
}

// RenderTitle renders text in title style (TTY-aware)
func RenderTitle(text string) string {
	return Render(Title, text)
}

// TerminalWidth returns the current terminal width, defaulting to 80 if unknown
func TerminalWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w <= 0 {
		return 80
	}
	return w
}
