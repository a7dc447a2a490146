package configloader

import (
	"maps"

	"github.com/yaklabco/stickymd/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Optional booleans: override overwrites base if set, so false is kept
//   - Maps: deep merge, with override's values taking precedence
//   - Slices: override replaces base entirely if override is non-nil
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	if override.Dialect != "" {
		result.Dialect = override.Dialect
	}
	if override.LogLevel != "" {
		result.LogLevel = override.LogLevel
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Color != "" {
		result.Color = override.Color
	}
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.BaseDir != "" {
		result.BaseDir = override.BaseDir
	}

	mergeTheme(&result.Theme, override.Theme)
	mergeFonts(&result.Fonts, override.Fonts)

	if override.Images.Enabled != nil {
		result.Images.Enabled = config.Bool(*override.Images.Enabled)
	}
	if override.Images.MaxHeight != 0 {
		result.Images.MaxHeight = override.Images.MaxHeight
	}
	if override.Images.Margin != 0 {
		result.Images.Margin = override.Images.Margin
	}
	if override.Images.Extensions != nil {
		result.Images.Extensions = append([]string(nil), override.Images.Extensions...)
	}

	if override.Code.Highlight != nil {
		result.Code.Highlight = config.Bool(*override.Code.Highlight)
	}
	if override.Code.DetectUntagged != nil {
		result.Code.DetectUntagged = config.Bool(*override.Code.DetectUntagged)
	}
	result.Code.Aliases = mergeStrings(result.Code.Aliases, override.Code.Aliases)

	return result
}

func mergeTheme(dst *config.ThemeConfig, override config.ThemeConfig) {
	if override.Text != "" {
		dst.Text = override.Text
	}
	if override.Paper != "" {
		dst.Paper = override.Paper
	}
	if override.Link != "" {
		dst.Link = override.Link
	}
	if override.InlineCode != "" {
		dst.InlineCode = override.InlineCode
	}
	if override.CodeBlock != "" {
		dst.CodeBlock = override.CodeBlock
	}
	dst.Tokens = mergeStrings(dst.Tokens, override.Tokens)
}

func mergeFonts(dst *config.FontConfig, override config.FontConfig) {
	if override.Proportional != "" {
		dst.Proportional = override.Proportional
	}
	if override.Monospace != "" {
		dst.Monospace = override.Monospace
	}
	if override.BaseSize != 0 {
		dst.BaseSize = override.BaseSize
	}
	if override.HeadingSizes != nil {
		dst.HeadingSizes = append([]float64(nil), override.HeadingSizes...)
	}
}

// mergeStrings returns a new map holding base overlaid with override.
func mergeStrings(base, override map[string]string) map[string]string {
	if base == nil && override == nil {
		return nil
	}

	result := make(map[string]string, len(base)+len(override))
	maps.Copy(result, base)
	maps.Copy(result, override)
	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
