package pretty_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/stickymd/internal/ui/pretty"
	"github.com/yaklabco/stickymd/pkg/document"
	"github.com/yaklabco/stickymd/pkg/grammar"
	"github.com/yaklabco/stickymd/pkg/overlay"
	"github.com/yaklabco/stickymd/pkg/render"
	"github.com/yaklabco/stickymd/pkg/style"
	"github.com/yaklabco/stickymd/pkg/syntax"
)

func highlighted(t *testing.T, text string) (*render.Pass, *style.Buffer) {
	t.Helper()

	state := document.NewState(text, document.DialectMarkdown)
	store := style.NewBuffer(state.Len())
	pass, err := render.New(document.DialectMarkdown, render.WithoutImages()).
		Highlight(context.Background(), state, store, nil)
	require.NoError(t, err)
	return pass, store
}

func TestPreview_NoColorIsPlainText(t *testing.T) {
	t.Parallel()

	text := "# Title\n\nSome **bold** text é😀.\n"
	_, store := highlighted(t, text)

	assert.Equal(t, text, pretty.Preview(text, store.Runs(), false))
	assert.Equal(t, text, pretty.Preview(text, nil, true))
}

func TestPreview_KeepsAllText(t *testing.T) {
	t.Parallel()

	text := "# Title\n\nSome **bold** and `code` é😀.\n"
	_, store := highlighted(t, text)

	out := pretty.Preview(text, store.Runs(), true)
	for _, word := range []string{"Title", "Some", "bold", "code", "é😀"} {
		assert.Contains(t, out, word)
	}
	assert.Equal(t, strings.Count(text, "\n"), strings.Count(out, "\n"))
}

func TestFormatTable(t *testing.T) {
	t.Parallel()

	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), 40)
	out := formatter.FormatTable(
		[]string{"A", "LONG"},
		[][]string{
			{"one", "short"},
			{"two", strings.Repeat("x", 80)},
		})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "A    LONG", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "====="))
	assert.Equal(t, "one  short", lines[2])
	assert.True(t, strings.HasSuffix(lines[3], "..."))
	assert.LessOrEqual(t, len(lines[3]), 40)

	assert.Empty(t, formatter.FormatTable([]string{"A"}, nil))
}

func TestSpanRows(t *testing.T) {
	t.Parallel()

	text := "# Title\n\n![alt](pic.png)\n"
	pass, _ := highlighted(t, text)

	rows := pretty.SpanRows(syntax.Encode(text), pass.Spans)
	require.Len(t, rows, 2)
	assert.Equal(t, "Heading", rows[0][0])
	assert.Equal(t, "level 1", rows[0][2])
	assert.Contains(t, rows[0][3], "# Title")
	assert.Equal(t, "ImageLink", rows[1][0])
	assert.Equal(t, "pic.png", rows[1][2])

	assert.Len(t, pretty.SpanHeaders(), len(rows[0]))
}

func TestTokenRows(t *testing.T) {
	t.Parallel()

	text := "```python\ndef f(): pass\n```\n"
	pass, _ := highlighted(t, text)
	require.NotEmpty(t, pass.Tokens)

	rows := pretty.TokenRows(syntax.Encode(text), pass.Tokens)
	require.Len(t, rows, len(pass.Tokens))
	assert.Len(t, pretty.TokenHeaders(), len(rows[0]))
	assert.Contains(t, rows, []string{"keyword", "[10,13)", `"def"`})
}

func TestGrammarRows(t *testing.T) {
	t.Parallel()

	rows := pretty.GrammarRows(grammar.Default())
	require.NotEmpty(t, rows)

	var python []string
	for _, row := range rows {
		if row[0] == "python" {
			python = row
		}
	}
	require.NotNil(t, python)
	assert.Equal(t, "yes", python[1])
	assert.Contains(t, python[3], "py")
	assert.Len(t, pretty.GrammarHeaders(), len(python))
}

func TestFormatPassSummary(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	pass := &render.Pass{
		Version: 3,
		Dialect: document.DialectOrg,
		Spans:   make([]document.Span, 2),
		Anchors: make([]document.ImageAnchor, 1),
	}

	line := styles.FormatPassSummary("notes.org", pass, 1500*time.Microsecond)
	assert.Equal(t, "notes.org: 2 spans, 0 tokens, 1 image (org, v3) in 1.5ms\n", line)

	assert.Equal(t, "empty.md: empty document\n",
		styles.FormatPassSummary("empty.md", &render.Pass{Skipped: true}, 0))
	assert.Equal(t, "x.md: no pass\n", styles.FormatPassSummary("x.md", nil, 0))
}

func TestFormatCommands(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	out := styles.FormatCommands([]overlay.Command{
		{Kind: overlay.CommandRemove, Overlay: overlay.Overlay{ID: "0123456789abcdef"}},
		{Kind: overlay.CommandAdd, Overlay: overlay.Overlay{
			ID:   "fedcba98-7654",
			Path: "/tmp/pic.png",
			Rect: overlay.Rect{X: 4, Y: 21, Width: 200, Height: 50},
		}},
	})

	assert.Equal(t, "- 01234567\n+ fedcba98 pic.png at 4,21 200x50\n", out)
}
