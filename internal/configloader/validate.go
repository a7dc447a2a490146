package configloader

import (
	"fmt"
	"slices"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/yaklabco/stickymd/internal/logging"
	"github.com/yaklabco/stickymd/pkg/config"
	"github.com/yaklabco/stickymd/pkg/document"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "theme.link").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues (e.g., unknown token classes).
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warn(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a configuration for errors and warnings. Empty fields are
// treated as unset, so partial configs from a single file validate too.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Dialect != "" {
		if _, err := document.ParseDialect(cfg.Dialect); err != nil {
			result.fail("dialect", cfg.Dialect, "invalid dialect %q; must be one of: markdown, org", cfg.Dialect)
		}
	}

	if cfg.LogLevel != "" && !logging.ValidLevel(cfg.LogLevel) {
		result.fail("log_level", cfg.LogLevel,
			"invalid log level %q; must be one of: debug, info, warn, error", cfg.LogLevel)
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.fail("format", cfg.Format, "invalid format %q; must be one of: text, json", cfg.Format)
	}

	if cfg.Color != "" && !cfg.Color.IsValid() {
		result.fail("color", cfg.Color, "invalid color mode %q; must be one of: auto, always, never", cfg.Color)
	}

	if cfg.Width < 0 {
		result.fail("width", cfg.Width, "width must be >= 0 (0 means terminal width)")
	}

	validateTheme(cfg.Theme, result)
	validateFonts(cfg.Fonts, result)
	validateImages(cfg.Images, result)
	validateCode(cfg.Code, result)

	return result
}

func validateTheme(theme config.ThemeConfig, result *ValidationResult) {
	colors := []struct {
		field string
		value string
	}{
		{"theme.text", theme.Text},
		{"theme.paper", theme.Paper},
		{"theme.link", theme.Link},
		{"theme.inline_code", theme.InlineCode},
		{"theme.code_block", theme.CodeBlock},
	}
	for _, c := range colors {
		validateColor(c.field, c.value, result)
	}

	known := config.TokenClasses()
	classes := make([]string, 0, len(theme.Tokens))
	for class := range theme.Tokens {
		classes = append(classes, class)
	}
	slices.Sort(classes)

	for _, class := range classes {
		field := "theme.tokens." + class
		validateColor(field, theme.Tokens[class], result)
		if !slices.Contains(known, class) {
			result.warn(field, class, "unknown token class %q; it will be ignored", class)
		}
	}
}

func validateColor(field, value string, result *ValidationResult) {
	if value == "" {
		return
	}
	if _, err := colorful.Hex(value); err != nil {
		result.fail(field, value, "invalid colour %q; expected #rrggbb", value)
	}
}

func validateFonts(fonts config.FontConfig, result *ValidationResult) {
	if fonts.BaseSize < 0 {
		result.fail("fonts.base_size", fonts.BaseSize, "font size must be > 0")
	}

	if len(fonts.HeadingSizes) > document.MaxHeadingLevel {
		result.fail("fonts.heading_sizes", fonts.HeadingSizes,
			"at most %d heading sizes are allowed, got %d", document.MaxHeadingLevel, len(fonts.HeadingSizes))
	}
	for i, size := range fonts.HeadingSizes {
		if size <= 0 {
			result.fail(fmt.Sprintf("fonts.heading_sizes[%d]", i), size, "font size must be > 0")
		}
	}
}

func validateImages(images config.ImageConfig, result *ValidationResult) {
	if images.MaxHeight < 0 {
		result.fail("images.max_height", images.MaxHeight, "max_height must be >= 0")
	}
	if images.Margin < 0 {
		result.fail("images.margin", images.Margin, "margin must be >= 0")
	}
	for i, ext := range images.Extensions {
		if strings.TrimSpace(ext) == "" {
			result.fail(fmt.Sprintf("images.extensions[%d]", i), ext, "extension must not be empty")
		}
	}
}

func validateCode(code config.CodeConfig, result *ValidationResult) {
	for alias, name := range code.Aliases {
		if strings.TrimSpace(alias) == "" || strings.TrimSpace(name) == "" {
			result.fail("code.aliases", alias, "aliases need a non-empty tag and grammar name")
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}
