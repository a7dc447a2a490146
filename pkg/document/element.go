package document

// ElementKind is the closed set of visual elements the styling layer knows.
type ElementKind uint8

const (
	ElementHeading ElementKind = iota + 1
	ElementBold
	ElementItalic
	ElementUnderline
	ElementStrikethrough
	ElementInlineCode
	ElementCodeBlock
	ElementImageLink
)

// String returns a readable name for the kind.
func (k ElementKind) String() string {
	switch k {
	case ElementHeading:
		return "Heading"
	case ElementBold:
		return "Bold"
	case ElementItalic:
		return "Italic"
	case ElementUnderline:
		return "Underline"
	case ElementStrikethrough:
		return "Strikethrough"
	case ElementInlineCode:
		return "InlineCode"
	case ElementCodeBlock:
		return "CodeBlock"
	case ElementImageLink:
		return "ImageLink"
	default:
		return "Unknown"
	}
}

// MaxHeadingLevel is the deepest heading level with its own style.
const MaxHeadingLevel = 6

// Element is a dialect-independent visual element. Level is set for
// headings, Path for image links and Language for code blocks.
type Element struct {
	Kind     ElementKind
	Level    int
	Path     string
	Language string
}

// Heading returns a heading element with the level clamped to 1..6.
func Heading(level int) Element {
	return Element{Kind: ElementHeading, Level: ClampLevel(level)}
}

// ImageLink returns an image link element pointing at path.
func ImageLink(path string) Element {
	return Element{Kind: ElementImageLink, Path: path}
}

// CodeBlockElement returns a code block element tagged with language.
func CodeBlockElement(language string) Element {
	return Element{Kind: ElementCodeBlock, Language: language}
}

// Simple returns an element that carries no extra data.
func Simple(kind ElementKind) Element {
	return Element{Kind: kind}
}

// ClampLevel limits a heading level to 1..MaxHeadingLevel.
func ClampLevel(level int) int {
	switch {
	case level < 1:
		return 1
	case level > MaxHeadingLevel:
		return MaxHeadingLevel
	default:
		return level
	}
}
