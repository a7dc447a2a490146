package orginline_test

import (
	"errors"
	"regexp"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/yaklabco/stickymd/pkg/document"
	"github.com/yaklabco/stickymd/pkg/orginline"
)

func TestScan_Boundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []document.Span
	}{
		{
			name: "whole buffer",
			text: "*bold*",
			want: []document.Span{{Element: document.Simple(document.ElementBold), Range: document.Range{Start: 0, End: 6}}},
		},
		{
			name: "spaces around",
			text: "a *bold* b",
			want: []document.Span{{Element: document.Simple(document.ElementBold), Range: document.Range{Start: 2, End: 8}}},
		},
		{
			name: "no boundary",
			text: "foo*bold*bar",
		},
		{
			name: "punctuation boundary",
			text: "(/it/).",
			want: []document.Span{{Element: document.Simple(document.ElementItalic), Range: document.Range{Start: 1, End: 5}}},
		},
		{
			name: "inner space at edge",
			text: "* not bold*",
		},
		{
			name: "no newline inside",
			text: "_a\nb_",
		},
		{
			name: "verbatim and code",
			text: "=v= ~c~",
			want: []document.Span{
				{Element: document.Simple(document.ElementInlineCode), Range: document.Range{Start: 4, End: 7}},
				{Element: document.Simple(document.ElementInlineCode), Range: document.Range{Start: 0, End: 3}},
			},
		},
		{
			name: "rejected candidate does not hide later match",
			text: "foo*bold*bar +gone+",
			want: []document.Span{{Element: document.Simple(document.ElementStrikethrough), Range: document.Range{Start: 13, End: 19}}},
		},
		{
			name: "list item is not emphasis",
			text: "- item1\n- item2\n",
		},
	}

	scanner := orginline.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, scanner.Scan(tt.text))
		})
	}
}

func TestScan_UTF16Coordinates(t *testing.T) {
	t.Parallel()

	// The emoji is two code units, "é" one.
	spans := orginline.New().Scan("😀é *b*")
	require.Len(t, spans, 1)
	assert.Equal(t, document.Range{Start: 4, End: 7}, spans[0].Range)
}

func TestScan_OverlappingKindsKept(t *testing.T) {
	t.Parallel()

	spans := orginline.New().Scan("*a /b/ c*")
	require.Len(t, spans, 2)
	assert.Equal(t, document.ElementBold, spans[0].Element.Kind)
	assert.Equal(t, document.ElementItalic, spans[1].Element.Kind)
	assert.Equal(t, document.Range{Start: 0, End: 9}, spans[0].Range)
	assert.Equal(t, document.Range{Start: 3, End: 6}, spans[1].Range)
}

func TestNew_CompileFailureDropsOneMarker(t *testing.T) {
	t.Parallel()

	failStar := func(expr string) (*regexp.Regexp, error) {
		if expr == orginline.Pattern('*') {
			return nil, errors.New("bad pattern")
		}
		return regexp.Compile(expr)
	}

	spans := orginline.New(orginline.WithCompiler(failStar)).Scan("*b* /i/")
	require.Len(t, spans, 1)
	assert.Equal(t, document.ElementItalic, spans[0].Element.Kind)
}

func TestScan_ImageLinks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		path string
		want document.Range
	}{
		{name: "file link", text: "see [[file:pic.png]]", path: "pic.png", want: document.Range{Start: 4, End: 20}},
		{name: "described", text: "[[file:img/a.JPG][A photo]]", path: "img/a.JPG", want: document.Range{Start: 0, End: 27}},
		{name: "bare path", text: "[[./b.gif]]", path: "./b.gif", want: document.Range{Start: 0, End: 11}},
		{name: "absolute", text: "[[file:/tmp/c.jpeg]]", path: "/tmp/c.jpeg", want: document.Range{Start: 0, End: 20}},
		{name: "wide runes before", text: "😀é [[file:p.png]]", path: "p.png", want: document.Range{Start: 4, End: 18}},
		{name: "not an image", text: "[[file:notes.org]]"},
		{name: "remote", text: "[[https://example.com/x.png]]"},
		{name: "other scheme", text: "[[attachment:x.png]]"},
		{name: "unclosed", text: "[[file:pic.png]"},
		{name: "across lines", text: "[[file:pic\n.png]]"},
	}

	scanner := orginline.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			images := document.FilterKind(scanner.Scan(tt.text), document.ElementImageLink)
			if tt.path == "" {
				assert.Empty(t, images)
				return
			}
			require.Len(t, images, 1)
			assert.Equal(t, tt.path, images[0].Element.Path)
			assert.Equal(t, tt.want, images[0].Range)
		})
	}
}

func TestScan_ImageExtensions(t *testing.T) {
	t.Parallel()

	scanner := orginline.New(orginline.WithImageExtensions([]string{".WEBP"}))
	images := document.FilterKind(scanner.Scan("[[file:a.webp]] [[file:b.png]]"), document.ElementImageLink)
	require.Len(t, images, 1)
	assert.Equal(t, "a.webp", images[0].Element.Path)
}

func TestNew_LinkCompileFailure(t *testing.T) {
	t.Parallel()

	failLink := func(expr string) (*regexp.Regexp, error) {
		if expr == orginline.LinkPattern {
			return nil, errors.New("bad pattern")
		}
		return regexp.Compile(expr)
	}

	spans := orginline.New(orginline.WithCompiler(failLink)).Scan("*b* [[file:pic.png]]")
	require.Len(t, spans, 1)
	assert.Equal(t, document.ElementBold, spans[0].Element.Kind)
}

func TestScan_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, orginline.New().Scan(""))
}

func TestScan_SpansStayInBuffer(t *testing.T) {
	t.Parallel()

	scanner := orginline.New()
	alphabet := []rune("ab */_+~=\n-().,é😀[]:.png")

	rapid.Check(t, func(t *rapid.T) {
		runes := rapid.SliceOfN(rapid.SampledFrom(alphabet), 0, 40).Draw(t, "runes")
		text := string(runes)
		length := len(utf16.Encode(runes))

		for _, span := range scanner.Scan(text) {
			if span.Range.Start < 0 || span.Range.Start >= span.Range.End || span.Range.End > length {
				t.Fatalf("span %v outside [0,%d] for %q", span.Range, length, text)
			}
		}
	})
}
