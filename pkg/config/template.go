package config

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every setting with its default value. If false, a
	// minimal commented template is generated.
	Full bool
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Full {
		return generateFullTemplate()
	}
	return generateMinimalTemplate(), nil
}

func generateMinimalTemplate() []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Markup dialect: markdown or org (empty = by file extension)
# dialect: markdown

# Log level: debug, info, warn, or error
log_level: warn

# theme:
#   text: "#1d1d1f"
#   paper: "#fff9c4"
#   link: "#0a58ca"
#   inline_code: ""    # derived from paper and text when empty
#   code_block: ""

# fonts:
#   base_size: 14
#   heading_sizes: [26, 22, 18, 16, 14, 14]

# images:
#   enabled: true
#   max_height: 200
#   margin: 8

# code:
#   highlight: true
#   detect_untagged: false
#   aliases:
#     gql: graphql
`)

	return buf.Bytes()
}

func generateFullTemplate() ([]byte, error) {
	cfg := NewConfig()
	cfg.Images.Enabled = Bool(true)
	cfg.Code.Highlight = Bool(true)
	cfg.Code.DetectUntagged = Bool(false)

	data, err := cfg.ToYAMLWithHeader(DefaultTemplateHeader())
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	var buf bytes.Buffer
	buf.Write(data)
	buf.WriteString("\n# Token classes: ")
	buf.WriteString(strings.Join(TokenClasses(), ", "))
	buf.WriteString("\n")

	return buf.Bytes(), nil
}

// TokenClasses returns the token class names of the default palette, sorted.
func TokenClasses() []string {
	classes := make([]string, 0, len(DefaultTokenColors()))
	for class := range DefaultTokenColors() {
		classes = append(classes, class)
	}
	slices.Sort(classes)
	return classes
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# stickymd configuration
# See: https://github.com/yaklabco/stickymd`
}
