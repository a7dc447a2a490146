package pretty

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/stickymd/pkg/style"
	"github.com/yaklabco/stickymd/pkg/syntax"
)

// Preview renders text with the attributes of runs. Runs are in UTF-16
// code units of text. Without colour the text is returned unchanged.
func Preview(text string, runs []style.Run, colorEnabled bool) string {
	if !colorEnabled || len(runs) == 0 {
		return text
	}

	src := syntax.Encode(text)
	var builder strings.Builder
	pos := 0
	for _, run := range runs {
		if !run.Range.Valid(src.Len()) || run.Range.Start < pos {
			continue
		}
		if run.Range.Start > pos {
			builder.WriteString(src.Text(pos, run.Range.Start))
		}
		builder.WriteString(renderLines(runStyle(run.Attributes), src.Text(run.Range.Start, run.Range.End)))
		pos = run.Range.End
	}
	if pos < src.Len() {
		builder.WriteString(src.Text(pos, src.Len()))
	}
	return builder.String()
}

// runStyle maps buffer attributes onto a terminal style. Font size has no
// terminal equivalent; headings show through their bold font.
func runStyle(attrs style.Attributes) lipgloss.Style {
	s := lipgloss.NewStyle().
		Foreground(lipgloss.Color(attrs.Foreground.Hex())).
		Bold(attrs.Font.Bold).
		Italic(attrs.Font.Italic).
		Underline(attrs.Underline).
		Strikethrough(attrs.Strikethrough)
	if attrs.HasBackground {
		s = s.Background(lipgloss.Color(attrs.Background.Hex()))
	}
	return s
}

// renderLines styles each line separately so newlines stay unstyled.
func renderLines(s lipgloss.Style, text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = s.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
