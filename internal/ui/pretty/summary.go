package pretty

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/yaklabco/stickymd/pkg/overlay"
	"github.com/yaklabco/stickymd/pkg/render"
)

// shortIDLength is the number of overlay ID characters shown.
const shortIDLength = 8

// FormatPassSummary formats a highlight pass as a single line.
// Example: "notes.md: 5 spans, 12 tokens, 1 image (markdown, v1) in 3ms".
func (s *Styles) FormatPassSummary(path string, pass *render.Pass, elapsed time.Duration) string {
	if pass == nil {
		return s.Failure.Render(path+": no pass") + "\n"
	}
	if pass.Skipped {
		return s.SummaryTitle.Render(path+":") + " " + s.Dim.Render("empty document") + "\n"
	}

	parts := []string{
		plural(len(pass.Spans), "span", "spans"),
		plural(len(pass.Tokens), "token", "tokens"),
		plural(len(pass.Anchors), "image", "images"),
	}

	return fmt.Sprintf("%s %s %s\n",
		s.SummaryTitle.Render(path+":"),
		s.SummaryValue.Render(strings.Join(parts, ", ")),
		s.Dim.Render(fmt.Sprintf("(%s, v%d) in %s", pass.Dialect, pass.Version, elapsed.Round(time.Microsecond))))
}

// FormatCommands formats overlay commands one per line.
func (s *Styles) FormatCommands(commands []overlay.Command) string {
	var builder strings.Builder
	for _, cmd := range commands {
		id := cmd.Overlay.ID
		if len(id) > shortIDLength {
			id = id[:shortIDLength]
		}

		switch cmd.Kind {
		case overlay.CommandAdd:
			r := cmd.Overlay.Rect
			builder.WriteString(s.Add.Render("+ "+id) + " " +
				filepath.Base(cmd.Overlay.Path) +
				s.Dim.Render(fmt.Sprintf(" at %.0f,%.0f %.0fx%.0f", r.X, r.Y, r.Width, r.Height)))
		case overlay.CommandRemove:
			builder.WriteString(s.Remove.Render("- " + id))
		}
		builder.WriteString("\n")
	}
	return builder.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
