package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/stickymd/pkg/document"
	"github.com/yaklabco/stickymd/pkg/grammar"
	"github.com/yaklabco/stickymd/pkg/style"
	"github.com/yaklabco/stickymd/pkg/syntax"
)

// Table formatting constants.
const (
	tablePadding     = 2
	minLastWidth     = 12
	heavySeparator   = "="
	lightSeparator   = "-"
	defaultTermWidth = 100
	ellipsis         = "..."
)

// TableFormatter formats rows as an aligned, styled table.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{styles: styles, termWidth: termWidth}
}

// FormatTable formats rows under headers. The last column takes the
// remaining terminal width and is truncated to fit.
func (t *TableFormatter) FormatTable(headers []string, rows [][]string) string {
	if len(headers) == 0 || len(rows) == 0 {
		return ""
	}

	widths := t.columnWidths(headers, rows)
	total := 0
	for _, w := range widths {
		total += w + tablePadding
	}
	total -= tablePadding

	var builder strings.Builder
	builder.WriteString(t.formatRow(headers, widths, t.styles.TableHeader))
	builder.WriteString("\n")
	builder.WriteString(t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, total)))
	builder.WriteString("\n")
	for _, row := range rows {
		builder.WriteString(t.formatRow(row, widths, lipgloss.NewStyle()))
		builder.WriteString("\n")
	}
	builder.WriteString(t.styles.TableSeparator.Render(strings.Repeat(lightSeparator, total)))
	builder.WriteString("\n")

	return builder.String()
}

func (t *TableFormatter) columnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	last := len(widths) - 1
	used := 0
	for _, w := range widths[:last] {
		used += w + tablePadding
	}
	widths[last] = min(widths[last], max(minLastWidth, t.termWidth-used))
	return widths
}

func (t *TableFormatter) formatRow(cells []string, widths []int, cellStyle lipgloss.Style) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = truncateString(cells[i], w)
		}
		parts[i] = cellStyle.Render(cell) + strings.Repeat(" ", w-lipgloss.Width(cell))
	}
	return strings.TrimRight(strings.Join(parts, strings.Repeat(" ", tablePadding)), " ")
}

// truncateString shortens str to maxLen cells, ending with an ellipsis.
func truncateString(str string, maxLen int) string {
	if lipgloss.Width(str) <= maxLen {
		return str
	}
	if maxLen <= len(ellipsis) {
		return ellipsis[:maxLen]
	}

	runes := []rune(str)
	for len(runes) > 0 && lipgloss.Width(string(runes))+len(ellipsis) > maxLen {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + ellipsis
}

// SpanHeaders are the column headers of SpanRows.
func SpanHeaders() []string {
	return []string{"KIND", "RANGE", "DETAIL", "TEXT"}
}

// SpanRows builds one row per span. Text shows the first line of the span.
func SpanRows(src syntax.Source, spans []document.Span) [][]string {
	rows := make([][]string, 0, len(spans))
	for _, span := range spans {
		rows = append(rows, []string{
			span.Element.Kind.String(),
			span.Range.String(),
			spanDetail(span.Element),
			firstLine(src, span.Range),
		})
	}
	return rows
}

func spanDetail(elem document.Element) string {
	switch elem.Kind {
	case document.ElementHeading:
		return "level " + strconv.Itoa(elem.Level)
	case document.ElementImageLink:
		return elem.Path
	case document.ElementCodeBlock:
		if elem.Language == "" {
			return "untagged"
		}
		return elem.Language
	default:
		return ""
	}
}

// TokenHeaders are the column headers of TokenRows.
func TokenHeaders() []string {
	return []string{"CLASS", "RANGE", "TEXT"}
}

// TokenRows builds one row per code token.
func TokenRows(src syntax.Source, tokens []style.Token) [][]string {
	rows := make([][]string, 0, len(tokens))
	for _, token := range tokens {
		rows = append(rows, []string{token.Class, token.Range.String(), firstLine(src, token.Range)})
	}
	return rows
}

// GrammarHeaders are the column headers of GrammarRows.
func GrammarHeaders() []string {
	return []string{"GRAMMAR", "QUERY", "EXTENSIONS", "ALIASES"}
}

// GrammarRows builds one row per registry entry.
func GrammarRows(registry *grammar.Registry) [][]string {
	entries := registry.Entries()
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		query := "-"
		if entry.Highlights {
			query = "yes"
		}
		rows = append(rows, []string{
			entry.Name,
			query,
			strings.Join(entry.Extensions, " "),
			strings.Join(registry.Aliases(entry.Name), " "),
		})
	}
	return rows
}

func firstLine(src syntax.Source, r document.Range) string {
	if !r.Valid(src.Len()) {
		return ""
	}
	text := src.Text(r.Start, r.End)
	line, _, more := strings.Cut(text, "\n")
	if more && strings.TrimSpace(line) == "" {
		line = strings.TrimSpace(text)
		line, _, _ = strings.Cut(line, "\n")
	}
	return fmt.Sprintf("%q", line)
}
