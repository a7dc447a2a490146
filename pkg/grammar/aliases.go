package grammar

// defaultAliases maps common shorthand for fence language tags to
// canonical grammar names.
//
//nolint:gochecknoglobals // Read-only lookup table.
var defaultAliases = map[string]string{
	"py":          "python",
	"python3":     "python",
	"js":          "javascript",
	"node":        "javascript",
	"ts":          "typescript",
	"rb":          "ruby",
	"rs":          "rust",
	"golang":      "go",
	"c++":         "cpp",
	"c#":          "csharp",
	"cs":          "csharp",
	"sh":          "bash",
	"shell":       "bash",
	"shellscript": "bash",
	"zsh":         "bash",
	"console":     "bash",
	"yml":         "yaml",
	"md":          "markdown",
	"kt":          "kotlin",
	"docker":      "dockerfile",
	"ex":          "elixir",
	"exs":         "elixir",
	"htm":         "html",
	"postgres":    "sql",
	"postgresql":  "sql",
	"mysql":       "sql",
	"sqlite":      "sql",
}
