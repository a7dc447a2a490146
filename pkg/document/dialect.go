package document

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Dialect identifies one of the supported markup formats.
type Dialect string

const (
	DialectMarkdown Dialect = "markdown"
	DialectOrg      Dialect = "org"
)

// dialectAliases maps accepted spellings to a dialect.
//
//nolint:gochecknoglobals // Read-only lookup table.
var dialectAliases = map[string]Dialect{
	"markdown":  DialectMarkdown,
	"md":        DialectMarkdown,
	"mdown":     DialectMarkdown,
	"mkd":       DialectMarkdown,
	".md":       DialectMarkdown,
	".markdown": DialectMarkdown,
	".mdown":    DialectMarkdown,
	"org":       DialectOrg,
	"org-mode":  DialectOrg,
	"orgmode":   DialectOrg,
	".org":      DialectOrg,
}

// IsValid returns true if d is a known dialect.
func (d Dialect) IsValid() bool {
	switch d {
	case DialectMarkdown, DialectOrg:
		return true
	default:
		return false
	}
}

// String returns the dialect name.
func (d Dialect) String() string {
	return string(d)
}

// ParseDialect resolves a dialect name, alias, or file extension.
func ParseDialect(s string) (Dialect, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if d, ok := dialectAliases[key]; ok {
		return d, nil
	}
	return "", fmt.Errorf("unknown dialect %q (use markdown or org)", s)
}

// DialectForPath picks the dialect from a file name. Anything that is not an
// Org file is treated as Markdown.
func DialectForPath(path string) Dialect {
	if strings.EqualFold(filepath.Ext(path), ".org") {
		return DialectOrg
	}
	return DialectMarkdown
}
