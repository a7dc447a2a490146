package style_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/stickymd/pkg/config"
	"github.com/yaklabco/stickymd/pkg/document"
	"github.com/yaklabco/stickymd/pkg/style"
)

func span(el document.Element, start, end int) document.Span {
	return document.Span{Element: el, Range: document.Range{Start: start, End: end}}
}

func fontAt(t *testing.T, buf *style.Buffer, offset int) style.Font {
	t.Helper()
	font, ok := buf.FontAt(offset)
	require.True(t, ok)
	return font
}

func TestApply_HeadingSizes(t *testing.T) {
	t.Parallel()

	theme := style.DefaultTheme()
	app := style.NewApplicator(theme)
	want := []float64{26, 22, 18, 16, 14, 14, 14}

	for level := 1; level <= 7; level++ {
		buf := style.NewBuffer(4)
		app.Reset(buf)
		app.Apply([]document.Span{span(document.Heading(level), 0, 4)}, buf)

		font := fontAt(t, buf, 0)
		assert.True(t, font.Bold)
		assert.InDelta(t, want[level-1], font.Size, 0, "level %d", level)
	}
}

func TestApply_BoldItalicCompose(t *testing.T) {
	t.Parallel()

	app := style.NewApplicator(style.DefaultTheme())
	buf := style.NewBuffer(10)
	app.Reset(buf)

	app.Apply([]document.Span{
		span(document.Heading(2), 0, 10),
		span(document.Simple(document.ElementBold), 2, 8),
		span(document.Simple(document.ElementItalic), 2, 8),
	}, buf)

	font := fontAt(t, buf, 4)
	assert.True(t, font.Bold)
	assert.True(t, font.Italic)
	assert.InDelta(t, 22, font.Size, 0)

	outside := fontAt(t, buf, 9)
	assert.False(t, outside.Italic)
}

func TestApply_LineStylesAndCode(t *testing.T) {
	t.Parallel()

	theme := style.DefaultTheme()
	app := style.NewApplicator(theme)
	buf := style.NewBuffer(20)
	app.Reset(buf)

	app.Apply([]document.Span{
		span(document.Simple(document.ElementUnderline), 0, 2),
		span(document.Simple(document.ElementStrikethrough), 2, 4),
		span(document.Simple(document.ElementInlineCode), 4, 8),
		span(document.CodeBlockElement("go"), 8, 12),
		span(document.ImageLink("a.png"), 12, 16),
	}, buf)

	at := func(i int) style.Attributes {
		a, ok := buf.At(i)
		require.True(t, ok)
		return a
	}

	assert.True(t, at(0).Underline)
	assert.True(t, at(2).Strikethrough)
	assert.True(t, at(4).Font.Monospace)
	assert.True(t, at(4).HasBackground)
	assert.Equal(t, theme.InlineCode, at(4).Background)
	assert.Equal(t, theme.CodeBlock, at(8).Background)
	assert.NotEqual(t, at(4).Background, at(8).Background)
	assert.Equal(t, theme.Link, at(12).Foreground)
	assert.Equal(t, theme.Text, at(16).Foreground)
	assert.False(t, at(16).HasBackground)
}

func TestApply_DropsOutOfRange(t *testing.T) {
	t.Parallel()

	app := style.NewApplicator(style.DefaultTheme())
	buf := style.NewBuffer(5)
	app.Reset(buf)
	before := buf.Snapshot()

	applied := app.Apply([]document.Span{
		span(document.Simple(document.ElementBold), 3, 9),
		span(document.Simple(document.ElementBold), -1, 2),
		span(document.Simple(document.ElementBold), 4, 2),
	}, buf)

	assert.Zero(t, applied)
	assert.Equal(t, before, buf.Snapshot())
}

func TestApply_Idempotent(t *testing.T) {
	t.Parallel()

	app := style.NewApplicator(style.DefaultTheme())
	spans := []document.Span{
		span(document.Heading(1), 0, 7),
		span(document.Simple(document.ElementBold), 14, 22),
		span(document.Simple(document.ElementItalic), 16, 20),
		span(document.ImageLink("pic.png"), 30, 45),
	}

	buf := style.NewBuffer(50)
	app.Reset(buf)
	app.Apply(spans, buf)
	first := buf.Snapshot()

	app.Reset(buf)
	app.Apply(spans, buf)
	assert.Equal(t, first, buf.Snapshot())

	app.Apply(spans, buf)
	assert.Equal(t, first, buf.Snapshot())
}

func TestApplyTokens(t *testing.T) {
	t.Parallel()

	theme := style.DefaultTheme()
	app := style.NewApplicator(theme)
	buf := style.NewBuffer(10)
	app.Reset(buf)

	applied := app.ApplyTokens([]style.Token{
		{Class: "keyword", Range: document.Range{Start: 0, End: 4}},
		{Class: "sparkle", Range: document.Range{Start: 4, End: 6}},
		{Class: "string", Range: document.Range{Start: 8, End: 11}},
	}, buf)

	assert.Equal(t, 1, applied)
	a, _ := buf.At(0)
	assert.Equal(t, theme.Tokens["keyword"], a.Foreground)
	a, _ = buf.At(4)
	assert.Equal(t, theme.Text, a.Foreground)
}

func TestThemeFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	theme, err := style.ThemeFromConfig(cfg)
	require.NoError(t, err)
	assert.NotEqual(t, theme.Paper, theme.InlineCode)
	assert.NotEqual(t, theme.InlineCode, theme.CodeBlock)

	cfg.Theme.InlineCode = "#eeeeee"
	cfg.Fonts.HeadingSizes = []float64{40}
	theme, err = style.ThemeFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "#eeeeee", theme.InlineCode.Hex())
	assert.InDelta(t, 40, theme.HeadingFont(1).Size, 0)
	assert.InDelta(t, 22, theme.HeadingFont(2).Size, 0)

	cfg.Theme.Link = "blue"
	_, err = style.ThemeFromConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "theme.link")
}

func TestBuffer_Runs(t *testing.T) {
	t.Parallel()

	app := style.NewApplicator(style.DefaultTheme())
	buf := style.NewBuffer(6)
	app.Reset(buf)
	app.Apply([]document.Span{span(document.Simple(document.ElementUnderline), 2, 4)}, buf)

	runs := buf.Runs()
	require.Len(t, runs, 3)
	assert.Equal(t, document.Range{Start: 0, End: 2}, runs[0].Range)
	assert.Equal(t, document.Range{Start: 2, End: 4}, runs[1].Range)
	assert.Equal(t, document.Range{Start: 4, End: 6}, runs[2].Range)
}
