// Package pretty renders highlight passes for a terminal with lipgloss.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Colour modes accepted by IsColorEnabled.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ANSI 256 palette indexes.
const (
	ansiRed   = lipgloss.Color("9")
	ansiGreen = lipgloss.Color("10")
	ansiLight = lipgloss.Color("7")
	ansiGrey  = lipgloss.Color("8")
)

// Styles holds the renderers used for previews, tables and summaries.
// Without colour every field renders text unchanged.
type Styles struct {
	// Overlay commands.
	Add    lipgloss.Style
	Remove lipgloss.Style

	// Pass summary.
	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Failure      lipgloss.Style

	// Tables.
	TableHeader    lipgloss.Style
	TableSeparator lipgloss.Style

	Dim lipgloss.Style
}

// NewStyles builds the style set. colorEnabled comes from IsColorEnabled.
func NewStyles(colorEnabled bool) *Styles {
	plain := lipgloss.NewStyle()
	styles := &Styles{
		Add:            plain,
		Remove:         plain,
		SummaryTitle:   plain,
		SummaryValue:   plain,
		Failure:        plain,
		TableHeader:    plain,
		TableSeparator: plain,
		Dim:            plain,
	}
	if !colorEnabled {
		return styles
	}

	bold := lipgloss.NewStyle().Bold(true)
	styles.Add = lipgloss.NewStyle().Foreground(ansiGreen)
	styles.Remove = lipgloss.NewStyle().Foreground(ansiRed)
	styles.SummaryTitle = bold
	styles.Failure = bold.Foreground(ansiRed)
	styles.TableHeader = bold.Foreground(ansiLight)
	styles.TableSeparator = lipgloss.NewStyle().Foreground(ansiGrey)
	styles.Dim = styles.TableSeparator
	return styles
}

// IsColorEnabled reports whether output to writer should be coloured.
// Auto (also the fallback for unknown modes) requires a terminal and an
// unset NO_COLOR.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
