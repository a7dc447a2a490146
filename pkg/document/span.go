package document

// Span pairs an element with the host range it styles.
type Span struct {
	Element Element
	Range   Range
}

// ImageAnchor is an image link resolved for one pass: the file it points
// at, the link text it is anchored to, and the display size in points.
type ImageAnchor struct {
	Path   string
	Range  Range
	Width  float64
	Height float64
}

// CodeBlock describes the content of a code block for the nested
// per-language highlighting pass.
type CodeBlock struct {
	Language string
	Content  Range
}

// FilterKind returns the spans whose element has the given kind.
func FilterKind(spans []Span, kind ElementKind) []Span {
	var out []Span
	for _, s := range spans {
		if s.Element.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}
