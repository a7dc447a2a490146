package overlay_test

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/stickymd/pkg/document"
	"github.com/yaklabco/stickymd/pkg/overlay"
)

func imageSpan(path string, start, end int) document.Span {
	return document.Span{Element: document.ImageLink(path), Range: document.Range{Start: start, End: end}}
}

func fixedLoader(size overlay.Size) overlay.Loader {
	return overlay.LoaderFunc(func(string) (overlay.Size, error) { return size, nil })
}

func counterIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("ov-%d", n)
	}
}

func TestFit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		size       overlay.Size
		maxW, maxH float64
		wantW      float64
		wantH      float64
	}{
		{name: "fits", size: overlay.Size{Width: 100, Height: 50}, maxW: 400, maxH: 200, wantW: 100, wantH: 50},
		{name: "width binding", size: overlay.Size{Width: 800, Height: 200}, maxW: 400, maxH: 200, wantW: 400, wantH: 100},
		{name: "height binding", size: overlay.Size{Width: 300, Height: 600}, maxW: 400, maxH: 200, wantW: 100, wantH: 200},
		{name: "no width limit", size: overlay.Size{Width: 1000, Height: 400}, maxW: 0, maxH: 200, wantW: 500, wantH: 200},
		{name: "empty", size: overlay.Size{}, maxW: 400, maxH: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w, h := overlay.Fit(tt.size, tt.maxW, tt.maxH)
			assert.InDelta(t, tt.wantW, w, 1e-9)
			assert.InDelta(t, tt.wantH, h, 1e-9)
		})
	}
}

func TestPlace_ReservesSpacingBeforePositioning(t *testing.T) {
	t.Parallel()

	text := "see ![x](a.png)\nnext line\n"
	layout := overlay.NewLineLayout(text, 400, overlay.WithCellSize(8, 17))
	placer := overlay.NewPlacer(
		overlay.WithLoader(fixedLoader(overlay.Size{Width: 800, Height: 400})),
		overlay.WithBaseDir("/notes"),
		overlay.WithIDFunc(counterIDs()),
	)

	anchors, commands := placer.Place([]document.Span{imageSpan("a.png", 4, 15)}, layout)

	require.Len(t, anchors, 1)
	assert.Equal(t, filepath.Join("/notes", "a.png"), anchors[0].Path)
	assert.InDelta(t, 400, anchors[0].Width, 1e-9)
	assert.InDelta(t, 200, anchors[0].Height, 1e-9)

	require.Len(t, commands, 1)
	assert.Equal(t, overlay.CommandAdd, commands[0].Kind)
	assert.Equal(t, overlay.Rect{X: 0, Y: 17 + 4, Width: 400, Height: 200}, commands[0].Overlay.Rect)

	// The following line is pushed below the image.
	assert.InDelta(t, 208, layout.SpacingAfter(0), 1e-9)
	next, ok := layout.LineRect(16)
	require.True(t, ok)
	assert.InDelta(t, 17+208, next.Y, 1e-9)
	assert.GreaterOrEqual(t, next.Y, commands[0].Overlay.Rect.Y+commands[0].Overlay.Rect.Height)
}

func TestPlace_RebuildsEveryPass(t *testing.T) {
	t.Parallel()

	layout := overlay.NewLineLayout("![a](a.png) ![b](b.png)\n", 400)
	placer := overlay.NewPlacer(
		overlay.WithLoader(fixedLoader(overlay.Size{Width: 50, Height: 20})),
		overlay.WithIDFunc(counterIDs()),
	)
	spans := []document.Span{imageSpan("a.png", 0, 11), imageSpan("b.png", 12, 23)}

	_, first := placer.Place(spans, layout)
	require.Len(t, first, 2)

	// Two images on one line stack.
	assert.InDelta(t, first[0].Overlay.Rect.Y+20+8, first[1].Overlay.Rect.Y, 1e-9)

	_, second := placer.Place(spans, layout)
	require.Len(t, second, 4)
	assert.Equal(t, overlay.Command{Kind: overlay.CommandRemove, Overlay: overlay.Overlay{ID: "ov-1"}}, second[0])
	assert.Equal(t, overlay.Command{Kind: overlay.CommandRemove, Overlay: overlay.Overlay{ID: "ov-2"}}, second[1])
	assert.Equal(t, overlay.CommandAdd, second[2].Kind)
	assert.Equal(t, "ov-3", second[2].Overlay.ID)
	assert.Equal(t, first[0].Overlay.Rect, second[2].Overlay.Rect)

	_, third := placer.Place(nil, layout)
	require.Len(t, third, 2)
	assert.Empty(t, placer.Overlays())
	assert.Zero(t, layout.SpacingAfter(0))
}

func TestPlace_SkipsUnusableLinks(t *testing.T) {
	t.Parallel()

	loader := overlay.LoaderFunc(func(path string) (overlay.Size, error) {
		if filepath.Base(path) == "missing.png" {
			return overlay.Size{}, overlay.ErrImageUnavailable
		}
		return overlay.Size{Width: 10, Height: 10}, nil
	})
	placer := overlay.NewPlacer(overlay.WithLoader(loader), overlay.WithBaseDir("/d"))

	spans := []document.Span{
		imageSpan("https://example.com/a.png", 0, 1),
		imageSpan("notes.txt", 1, 2),
		imageSpan("missing.png", 2, 3),
		imageSpan("", 3, 4),
		{Element: document.Simple(document.ElementBold), Range: document.Range{Start: 4, End: 5}},
		imageSpan("my%20pic.PNG", 5, 6),
		imageSpan("/abs/b.gif", 6, 7),
	}

	anchors := placer.Anchors(spans, 100)
	require.Len(t, anchors, 2)
	assert.Equal(t, filepath.Join("/d", "my pic.PNG"), anchors[0].Path)
	assert.Equal(t, filepath.FromSlash("/abs/b.gif"), anchors[1].Path)
}

func TestLineLayout_PendingLayoutHasNoRects(t *testing.T) {
	t.Parallel()

	layout := overlay.NewLineLayout("one\ntwo\n", 100)
	_, ok := layout.LineRect(0)
	require.True(t, ok)

	layout.SetSpacingAfterLine(0, 50)
	_, ok = layout.LineRect(0)
	assert.False(t, ok)

	layout.EnsureLayout()
	rect, ok := layout.LineRect(4)
	require.True(t, ok)
	assert.InDelta(t, 17+50, rect.Y, 1e-9)
}

func TestLineLayout_Wraps(t *testing.T) {
	t.Parallel()

	layout := overlay.NewLineLayout("abcdefghij\nx", 40, overlay.WithCellSize(10, 10))
	first, ok := layout.LineRect(0)
	require.True(t, ok)
	assert.InDelta(t, 30, first.Height, 1e-9)

	second, ok := layout.LineRect(11)
	require.True(t, ok)
	assert.InDelta(t, 30, second.Y, 1e-9)
	assert.InDelta(t, 40, layout.Height(), 1e-9)
}

func TestFileLoader(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "pic.png")

	file, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(file, image.NewRGBA(image.Rect(0, 0, 30, 12))))
	require.NoError(t, file.Close())

	size, err := overlay.FileLoader{}.Load(path)
	require.NoError(t, err)
	assert.Equal(t, overlay.Size{Width: 30, Height: 12}, size)

	_, err = overlay.FileLoader{}.Load(filepath.Join(dir, "nope.png"))
	require.ErrorIs(t, err, overlay.ErrImageUnavailable)

	garbage := filepath.Join(dir, "garbage.png")
	require.NoError(t, os.WriteFile(garbage, []byte("not an image"), 0o600))
	_, err = overlay.FileLoader{}.Load(garbage)
	require.ErrorIs(t, err, overlay.ErrImageUnavailable)
	assert.False(t, errors.Is(err, os.ErrNotExist))
}
