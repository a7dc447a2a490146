package grammar

import (
	"embed"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/csharp"
	"github.com/smacker/go-tree-sitter/css"
	"github.com/smacker/go-tree-sitter/dockerfile"
	"github.com/smacker/go-tree-sitter/elixir"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/html"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/kotlin"
	"github.com/smacker/go-tree-sitter/lua"
	tsmarkdown "github.com/smacker/go-tree-sitter/markdown/tree-sitter-markdown"
	tsmarkdowninline "github.com/smacker/go-tree-sitter/markdown/tree-sitter-markdown-inline"
	"github.com/smacker/go-tree-sitter/php"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/scala"
	"github.com/smacker/go-tree-sitter/sql"
	"github.com/smacker/go-tree-sitter/swift"
	"github.com/smacker/go-tree-sitter/toml"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"github.com/smacker/go-tree-sitter/yaml"

	"github.com/yaklabco/stickymd/internal/logging"
)

//go:embed queries/*.scm
var queryFS embed.FS

// language is one built-in tree-sitter grammar.
type language struct {
	name  string
	exts  []string
	lang  func() *sitter.Language
	query string
}

// builtinLanguages lists the compiled grammars shipped with the binary.
// query names a file under queries/ shared by related grammars. The
// Markdown grammars only parse documents and carry no query.
//
//nolint:gochecknoglobals // Read-only lookup table.
var builtinLanguages = []language{
	{name: Markdown, exts: []string{"markdown", "mdown", "mkd"}, lang: tsmarkdown.GetLanguage},
	{name: MarkdownInline, lang: tsmarkdowninline.GetLanguage},
	{name: "bash", exts: []string{"bash", "bats"}, lang: bash.GetLanguage, query: "bash"},
	{name: "c", exts: []string{"h"}, lang: c.GetLanguage, query: "c"},
	{name: "cpp", exts: []string{"cc", "cxx", "hpp", "hh"}, lang: cpp.GetLanguage, query: "c"},
	{name: "csharp", lang: csharp.GetLanguage, query: "csharp"},
	{name: "css", lang: css.GetLanguage, query: "css"},
	{name: "dockerfile", lang: dockerfile.GetLanguage, query: "dockerfile"},
	{name: "elixir", lang: elixir.GetLanguage, query: "elixir"},
	{name: "go", lang: golang.GetLanguage, query: "go"},
	{name: "html", lang: html.GetLanguage, query: "html"},
	{name: "java", lang: java.GetLanguage, query: "java"},
	{name: "javascript", exts: []string{"mjs", "cjs", "jsx"}, lang: javascript.GetLanguage, query: "javascript"},
	{name: "kotlin", exts: []string{"kts"}, lang: kotlin.GetLanguage, query: "kotlin"},
	{name: "lua", lang: lua.GetLanguage, query: "lua"},
	{name: "php", lang: php.GetLanguage, query: "php"},
	{name: "python", exts: []string{"pyw", "pyi"}, lang: python.GetLanguage, query: "python"},
	{name: "ruby", exts: []string{"rake", "gemspec"}, lang: ruby.GetLanguage, query: "ruby"},
	{name: "rust", lang: rust.GetLanguage, query: "rust"},
	{name: "scala", exts: []string{"sc"}, lang: scala.GetLanguage, query: "scala"},
	{name: "sql", lang: sql.GetLanguage, query: "sql"},
	{name: "swift", lang: swift.GetLanguage, query: "swift"},
	{name: "toml", lang: toml.GetLanguage, query: "toml"},
	{name: "tsx", lang: tsx.GetLanguage, query: "javascript"},
	{name: "typescript", exts: []string{"mts", "cts"}, lang: typescript.GetLanguage, query: "javascript"},
	{name: "yaml", lang: yaml.GetLanguage, query: "yaml"},
}

func builtinEntries() []Entry {
	entries := make([]Entry, 0, len(builtinLanguages)+1)
	for _, builtin := range builtinLanguages {
		entries = append(entries, builtin.entry())
	}
	entries = append(entries, Entry{
		Name:       Org,
		Extensions: []string{"org"},
		Load: func() (Grammar, error) {
			return NewOrg(), nil
		},
	})
	return entries
}

func (l language) entry() Entry {
	return Entry{
		Name:       l.name,
		Extensions: l.exts,
		Highlights: l.query != "",
		Load: func() (Grammar, error) {
			var highlights []byte
			if l.query != "" {
				data, err := queryFS.ReadFile("queries/" + l.query + ".scm")
				if err != nil {
					return nil, err
				}
				highlights = data
			}

			grammar, err := NewTreeSitter(l.name, l.lang(), highlights)
			if err != nil && grammar != nil {
				// Parsing still works without the query.
				logging.Default().Warn("highlight query rejected",
					logging.FieldGrammar, l.name, logging.FieldError, err)
				return grammar, nil
			}
			return grammar, err
		},
	}
}
