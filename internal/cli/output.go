package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/yaklabco/stickymd/pkg/document"
	"github.com/yaklabco/stickymd/pkg/overlay"
	"github.com/yaklabco/stickymd/pkg/render"
)

// PassOutput is the JSON form of one highlight pass. Offsets are UTF-16
// code units.
type PassOutput struct {
	Path       string          `json:"path"`
	Version    uint64          `json:"version"`
	Dialect    string          `json:"dialect"`
	Skipped    bool            `json:"skipped,omitempty"`
	Spans      []SpanOutput    `json:"spans"`
	CodeBlocks []BlockOutput   `json:"codeBlocks"`
	Tokens     []TokenOutput   `json:"tokens"`
	Anchors    []AnchorOutput  `json:"anchors"`
	Commands   []CommandOutput `json:"commands"`
}

// SpanOutput is one styled element.
type SpanOutput struct {
	Kind     string `json:"kind"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Level    int    `json:"level,omitempty"`
	Path     string `json:"path,omitempty"`
	Language string `json:"language,omitempty"`
}

// BlockOutput is one code block handed to the nested pass.
type BlockOutput struct {
	Language string `json:"language"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
}

// TokenOutput is one coloured code token.
type TokenOutput struct {
	Class string `json:"class"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// AnchorOutput is one resolved image link.
type AnchorOutput struct {
	Path   string  `json:"path"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CommandOutput is one overlay command. Geometry is only set on adds.
type CommandOutput struct {
	Kind   string   `json:"kind"`
	ID     string   `json:"id"`
	Path   string   `json:"path,omitempty"`
	Rect   *RectOut `json:"rect,omitempty"`
	Anchor []int    `json:"anchor,omitempty"`
}

// RectOut is an overlay rectangle in layout points.
type RectOut struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewPassOutput converts a pass for JSON encoding.
func NewPassOutput(path string, pass *render.Pass) *PassOutput {
	out := &PassOutput{
		Path:       path,
		Version:    pass.Version,
		Dialect:    pass.Dialect.String(),
		Skipped:    pass.Skipped,
		Spans:      make([]SpanOutput, 0, len(pass.Spans)),
		CodeBlocks: make([]BlockOutput, 0, len(pass.CodeBlocks)),
		Tokens:     make([]TokenOutput, 0, len(pass.Tokens)),
		Anchors:    make([]AnchorOutput, 0, len(pass.Anchors)),
		Commands:   make([]CommandOutput, 0, len(pass.Commands)),
	}

	for _, span := range pass.Spans {
		out.Spans = append(out.Spans, spanOutput(span))
	}
	for _, block := range pass.CodeBlocks {
		out.CodeBlocks = append(out.CodeBlocks, BlockOutput{
			Language: block.Language,
			Start:    block.Content.Start,
			End:      block.Content.End,
		})
	}
	for _, token := range pass.Tokens {
		out.Tokens = append(out.Tokens, TokenOutput{Class: token.Class, Start: token.Range.Start, End: token.Range.End})
	}
	for _, anchor := range pass.Anchors {
		out.Anchors = append(out.Anchors, AnchorOutput{
			Path:   anchor.Path,
			Start:  anchor.Range.Start,
			End:    anchor.Range.End,
			Width:  anchor.Width,
			Height: anchor.Height,
		})
	}
	for _, cmd := range pass.Commands {
		out.Commands = append(out.Commands, commandOutput(cmd))
	}

	return out
}

func spanOutput(span document.Span) SpanOutput {
	return SpanOutput{
		Kind:     span.Element.Kind.String(),
		Start:    span.Range.Start,
		End:      span.Range.End,
		Level:    span.Element.Level,
		Path:     span.Element.Path,
		Language: span.Element.Language,
	}
}

func commandOutput(cmd overlay.Command) CommandOutput {
	out := CommandOutput{Kind: string(cmd.Kind), ID: cmd.Overlay.ID}
	if cmd.Kind == overlay.CommandAdd {
		r := cmd.Overlay.Rect
		out.Path = cmd.Overlay.Path
		out.Rect = &RectOut{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
		out.Anchor = []int{cmd.Overlay.Anchor.Start, cmd.Overlay.Anchor.End}
	}
	return out
}

// WritePassJSON writes the pass as indented JSON.
func WritePassJSON(w io.Writer, path string, pass *render.Pass) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(NewPassOutput(path, pass)); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}
