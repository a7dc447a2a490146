// Package style turns highlight spans into attribute writes against a text
// buffer's attribute storage.
package style

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/yaklabco/stickymd/pkg/config"
	"github.com/yaklabco/stickymd/pkg/document"
)

// Code background tints, as Lab blend factors from paper towards text.
const (
	inlineCodeTint = 0.08
	codeBlockTint  = 0.13
)

// Theme holds the resolved fonts and colours used by the Applicator.
type Theme struct {
	Text       colorful.Color
	Paper      colorful.Color
	Link       colorful.Color
	InlineCode colorful.Color
	CodeBlock  colorful.Color

	// Tokens colours code tokens by class.
	Tokens map[string]colorful.Color

	Proportional string
	Monospace    string
	BaseSize     float64
	HeadingSizes [document.MaxHeadingLevel]float64
}

// DefaultTheme returns the theme built from the default configuration.
func DefaultTheme() Theme {
	theme, err := ThemeFromConfig(config.NewConfig())
	if err != nil {
		panic(fmt.Sprintf("default theme: %v", err))
	}
	return theme
}

// ThemeFromConfig resolves colours and fonts. Empty code backgrounds are
// blended from paper towards text.
func ThemeFromConfig(cfg *config.Config) (Theme, error) {
	var theme Theme
	var err error

	if theme.Text, err = parseColor("theme.text", cfg.Theme.Text); err != nil {
		return Theme{}, err
	}
	if theme.Paper, err = parseColor("theme.paper", cfg.Theme.Paper); err != nil {
		return Theme{}, err
	}
	if theme.Link, err = parseColor("theme.link", cfg.Theme.Link); err != nil {
		return Theme{}, err
	}

	theme.InlineCode = theme.Paper.BlendLab(theme.Text, inlineCodeTint).Clamped()
	if cfg.Theme.InlineCode != "" {
		if theme.InlineCode, err = parseColor("theme.inline_code", cfg.Theme.InlineCode); err != nil {
			return Theme{}, err
		}
	}

	theme.CodeBlock = theme.Paper.BlendLab(theme.Text, codeBlockTint).Clamped()
	if cfg.Theme.CodeBlock != "" {
		if theme.CodeBlock, err = parseColor("theme.code_block", cfg.Theme.CodeBlock); err != nil {
			return Theme{}, err
		}
	}

	theme.Tokens = make(map[string]colorful.Color, len(cfg.Theme.Tokens))
	for class, hex := range cfg.Theme.Tokens {
		color, err := parseColor("theme.tokens."+class, hex)
		if err != nil {
			return Theme{}, err
		}
		theme.Tokens[class] = color
	}

	theme.Proportional = cfg.Fonts.Proportional
	theme.Monospace = cfg.Fonts.Monospace
	theme.BaseSize = cfg.Fonts.BaseSize
	if theme.BaseSize <= 0 {
		theme.BaseSize = config.DefaultBaseSize
	}

	defaults := config.DefaultHeadingSizes()
	for i := range theme.HeadingSizes {
		theme.HeadingSizes[i] = defaults[i]
		if i < len(cfg.Fonts.HeadingSizes) && cfg.Fonts.HeadingSizes[i] > 0 {
			theme.HeadingSizes[i] = cfg.Fonts.HeadingSizes[i]
		}
	}

	return theme, nil
}

func parseColor(field, hex string) (colorful.Color, error) {
	color, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%s: invalid colour %q: %w", field, hex, err)
	}
	return color, nil
}

// BaseFont is the default font of unstyled text.
func (t Theme) BaseFont() Font {
	return Font{Family: t.Monospace, Size: t.BaseSize, Monospace: true}
}

// HeadingFont returns the bold font for a heading level. Levels outside
// 1..6 are clamped.
func (t Theme) HeadingFont(level int) Font {
	level = document.ClampLevel(level)
	return Font{Family: t.Proportional, Size: t.HeadingSizes[level-1], Bold: true}
}

// CodeFont returns the monospace font for code.
func (t Theme) CodeFont() Font {
	return Font{Family: t.Monospace, Size: t.BaseSize, Monospace: true}
}
