// Package config defines the configuration types for stickymd.
// These types are pure data structures with no dependency on a config loader.
package config

// OutputFormat specifies how the CLI prints a highlight pass.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// IsValid returns true if the format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON:
		return true
	default:
		return false
	}
}

// ColorMode controls terminal colour output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IsValid returns true if the colour mode is known.
func (m ColorMode) IsValid() bool {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}

// ThemeConfig holds the colours used by the styling layer. Colours are
// "#rrggbb" strings. Empty code backgrounds are derived from Paper and Text.
type ThemeConfig struct {
	// Text is the default foreground colour.
	Text string `mapstructure:"text" yaml:"text"`

	// Paper is the note background.
	Paper string `mapstructure:"paper" yaml:"paper"`

	// Link colours image link text.
	Link string `mapstructure:"link" yaml:"link"`

	// InlineCode is the background of inline code.
	InlineCode string `mapstructure:"inline_code" yaml:"inline_code,omitempty"`

	// CodeBlock is the background of code blocks.
	CodeBlock string `mapstructure:"code_block" yaml:"code_block,omitempty"`

	// Tokens maps token classes (keyword, string, ...) to colours.
	Tokens map[string]string `mapstructure:"tokens" yaml:"tokens,omitempty"`
}

// FontConfig holds font families and sizes in points.
type FontConfig struct {
	Proportional string    `mapstructure:"proportional" yaml:"proportional"`
	Monospace    string    `mapstructure:"monospace" yaml:"monospace"`
	BaseSize     float64   `mapstructure:"base_size" yaml:"base_size"`
	HeadingSizes []float64 `mapstructure:"heading_sizes" yaml:"heading_sizes"`
}

// ImageConfig controls inline image previews.
type ImageConfig struct {
	Enabled    *bool    `mapstructure:"enabled" yaml:"enabled,omitempty"`
	MaxHeight  float64  `mapstructure:"max_height" yaml:"max_height"`
	Margin     float64  `mapstructure:"margin" yaml:"margin"`
	Extensions []string `mapstructure:"extensions" yaml:"extensions"`
}

// IsEnabled reports whether previews are on. Unset means on.
func (c ImageConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// CodeConfig controls the nested code block pass.
type CodeConfig struct {
	// Highlight enables per-language token colouring. Unset means on.
	Highlight *bool `mapstructure:"highlight" yaml:"highlight,omitempty"`

	// DetectUntagged guesses the language of blocks without a tag.
	DetectUntagged *bool `mapstructure:"detect_untagged" yaml:"detect_untagged,omitempty"`

	// Aliases adds language tag aliases (alias -> grammar name).
	Aliases map[string]string `mapstructure:"aliases" yaml:"aliases,omitempty"`
}

// HighlightEnabled reports whether token colouring is on.
func (c CodeConfig) HighlightEnabled() bool {
	return c.Highlight == nil || *c.Highlight
}

// DetectEnabled reports whether untagged detection is on. Unset means off.
func (c CodeConfig) DetectEnabled() bool {
	return c.DetectUntagged != nil && *c.DetectUntagged
}

// Config is the root configuration structure for stickymd.
type Config struct {
	// Dialect forces a markup dialect ("markdown" or "org"). Empty means
	// detect from the file extension.
	Dialect string `mapstructure:"dialect" yaml:"dialect,omitempty"`

	// LogLevel is the log level ("debug", "info", "warn", "error").
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	Theme  ThemeConfig `mapstructure:"theme" yaml:"theme"`
	Fonts  FontConfig  `mapstructure:"fonts" yaml:"fonts"`
	Images ImageConfig `mapstructure:"images" yaml:"images"`
	Code   CodeConfig  `mapstructure:"code" yaml:"code"`

	// CLI-level options (not persisted to config files).

	// Format specifies the output format.
	Format OutputFormat `mapstructure:"-" yaml:"-"`

	// Color controls terminal colours.
	Color ColorMode `mapstructure:"-" yaml:"-"`

	// Width is the content width in points; 0 means the terminal width.
	Width float64 `mapstructure:"-" yaml:"-"`

	// BaseDir resolves relative image paths; empty means the document's
	// directory.
	BaseDir string `mapstructure:"-" yaml:"-"`
}

// Default values.
const (
	DefaultBaseSize       = 14
	DefaultImageMaxHeight = 200
	DefaultImageMargin    = 8
	DefaultLogLevel       = "warn"
)

// DefaultHeadingSizes returns the heading font sizes for levels 1..6.
func DefaultHeadingSizes() []float64 {
	return []float64{26, 22, 18, 16, 14, 14}
}

// DefaultImageExtensions returns the file extensions treated as images.
func DefaultImageExtensions() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif"}
}

// DefaultTokenColors returns the token palette.
func DefaultTokenColors() map[string]string {
	return map[string]string{
		"keyword":     "#ad3da4",
		"string":      "#d12f1b",
		"comment":     "#707f8c",
		"number":      "#272ad8",
		"type":        "#3e8087",
		"function":    "#326d74",
		"variable":    "#3f6e74",
		"property":    "#4b21b0",
		"operator":    "#262626",
		"constant":    "#78492a",
		"punctuation": "#262626",
	}
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		Theme: ThemeConfig{
			Text:   "#1d1d1f",
			Paper:  "#fff9c4",
			Link:   "#0a58ca",
			Tokens: DefaultTokenColors(),
		},
		Fonts: FontConfig{
			Proportional: "system-ui",
			Monospace:    "monospace",
			BaseSize:     DefaultBaseSize,
			HeadingSizes: DefaultHeadingSizes(),
		},
		Images: ImageConfig{
			MaxHeight:  DefaultImageMaxHeight,
			Margin:     DefaultImageMargin,
			Extensions: DefaultImageExtensions(),
		},
		Format: FormatText,
		Color:  ColorAuto,
	}
}

// Bool returns a pointer to b, for the optional boolean fields.
func Bool(b bool) *bool {
	return &b
}
