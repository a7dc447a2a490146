package configloader

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/stickymd/pkg/config"
)

// envVarPrefix is the prefix for all stickymd environment variables.
const envVarPrefix = "STICKYMD_"

// envMapping binds one environment variable to a config field.
type envMapping struct {
	field       string
	description string
	apply       func(cfg *config.Config, value string) error
}

func stringVar(set func(*config.Config, string)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		set(cfg, value)
		return nil
	}
}

func boolVar(set func(*config.Config, *bool)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q (expected true/false/1/0)", value)
		}
		set(cfg, config.Bool(b))
		return nil
	}
}

func floatVar(set func(*config.Config, float64)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", value)
		}
		set(cfg, f)
		return nil
	}
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"DIALECT": {"dialect", "Markup dialect: markdown or org",
		stringVar(func(c *config.Config, v string) { c.Dialect = v })},
	"LOG_LEVEL": {"log_level", "Log level: debug, info, warn, or error",
		stringVar(func(c *config.Config, v string) { c.LogLevel = v })},
	"FORMAT": {"format", "Output format: text or json",
		stringVar(func(c *config.Config, v string) { c.Format = config.OutputFormat(v) })},
	"COLOR": {"color", "Colour output: auto, always, or never",
		stringVar(func(c *config.Config, v string) { c.Color = config.ColorMode(v) })},
	"WIDTH": {"width", "Content width in points (0 = terminal width)",
		floatVar(func(c *config.Config, v float64) { c.Width = v })},
	"THEME_TEXT": {"theme.text", "Default text colour",
		stringVar(func(c *config.Config, v string) { c.Theme.Text = v })},
	"THEME_PAPER": {"theme.paper", "Note background colour",
		stringVar(func(c *config.Config, v string) { c.Theme.Paper = v })},
	"THEME_LINK": {"theme.link", "Image link text colour",
		stringVar(func(c *config.Config, v string) { c.Theme.Link = v })},
	"FONTS_BASE_SIZE": {"fonts.base_size", "Body font size in points",
		floatVar(func(c *config.Config, v float64) { c.Fonts.BaseSize = v })},
	"IMAGES_ENABLED": {"images.enabled", "Show image previews: true or false",
		boolVar(func(c *config.Config, v *bool) { c.Images.Enabled = v })},
	"IMAGES_MAX_HEIGHT": {"images.max_height", "Maximum image preview height",
		floatVar(func(c *config.Config, v float64) { c.Images.MaxHeight = v })},
	"IMAGES_EXTENSIONS": {"images.extensions", "Comma-separated image extensions",
		stringVar(func(c *config.Config, v string) { c.Images.Extensions = splitList(v) })},
	"CODE_HIGHLIGHT": {"code.highlight", "Colour code block tokens: true or false",
		boolVar(func(c *config.Config, v *bool) { c.Code.Highlight = v })},
	"CODE_DETECT_UNTAGGED": {"code.detect_untagged", "Guess languages of untagged code blocks",
		boolVar(func(c *config.Config, v *bool) { c.Code.DetectUntagged = v })},
}

// LoadFromEnv applies STICKYMD_* environment variables to cfg. Empty
// variables are ignored.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for suffix, mapping := range envMappings {
		value := os.Getenv(envVarPrefix + suffix)
		if value == "" {
			continue
		}
		if err := mapping.apply(cfg, value); err != nil {
			return fmt.Errorf("%s%s: %w", envVarPrefix, suffix, err)
		}
	}

	return nil
}

// splitList parses a comma-separated list, dropping empty items.
func splitList(value string) []string {
	var items []string
	for item := range strings.SplitSeq(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// EnvVar describes one supported environment variable.
type EnvVar struct {
	Name        string
	Field       string
	Description string
}

// ListEnvVars returns the supported environment variables sorted by name.
func ListEnvVars() []EnvVar {
	vars := make([]EnvVar, 0, len(envMappings))
	for suffix, mapping := range envMappings {
		vars = append(vars, EnvVar{Name: envVarPrefix + suffix, Field: mapping.field, Description: mapping.description})
	}
	slices.SortFunc(vars, func(a, b EnvVar) int { return strings.Compare(a.Name, b.Name) })
	return vars
}
