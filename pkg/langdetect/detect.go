// Package langdetect guesses the language of untagged code blocks so the
// nested highlighting pass can pick a grammar for them. It combines shebang
// detection and a few strong textual signals with the go-enry classifier.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Text is returned when no language can be determined.
const Text = "text"

// rule is a cheap textual signal that identifies a language outright.
type rule struct {
	lang  string
	match func(content []byte, trimmed []byte) bool
}

// rules are checked in order of specificity.
//
//nolint:gochecknoglobals // Read-only lookup table.
var rules = []rule{
	{lang: "go", match: func(_, trimmed []byte) bool {
		return bytes.HasPrefix(trimmed, []byte("package "))
	}},
	{lang: "python", match: func(content, _ []byte) bool {
		s := string(content)
		if strings.Contains(s, "def ") && strings.Contains(s, "):") {
			return true
		}
		if strings.Contains(s, "import ") && !strings.Contains(s, "import (") &&
			(strings.Contains(s, "from ") || strings.HasPrefix(strings.TrimSpace(s), "import ")) {
			return true
		}
		return strings.Contains(s, "__name__") || strings.Contains(s, "__main__")
	}},
	{lang: "html", match: func(_, trimmed []byte) bool {
		lower := bytes.ToLower(trimmed)
		for _, tag := range []string{"<!doctype html", "<html", "<head>", "<body>"} {
			if bytes.Contains(lower, []byte(tag)) {
				return true
			}
		}
		return false
	}},
	{lang: "json", match: func(_, trimmed []byte) bool {
		return (bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("["))) &&
			bytes.Contains(trimmed, []byte(`"`))
	}},
	{lang: "dockerfile", match: func(content, trimmed []byte) bool {
		return bytes.HasPrefix(trimmed, []byte("FROM ")) ||
			(bytes.Contains(content, []byte("\nFROM ")) && bytes.Contains(content, []byte("\nRUN "))) ||
			(bytes.Contains(content, []byte("WORKDIR ")) && bytes.Contains(content, []byte("COPY ")))
	}},
	{lang: "sql", match: func(_, trimmed []byte) bool {
		upper := strings.ToUpper(string(trimmed))
		for _, verb := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
			if strings.HasPrefix(upper, verb) {
				return true
			}
		}
		return false
	}},
	{lang: "rust", match: func(content, _ []byte) bool {
		s := string(content)
		return strings.Contains(s, "fn main()") || strings.Contains(s, "println!") || strings.Contains(s, "let mut ")
	}},
	{lang: "javascript", match: func(content, _ []byte) bool {
		s := string(content)
		return strings.Contains(s, "=>") || strings.Contains(s, "const ") ||
			strings.Contains(s, "let ") || strings.Contains(s, "console.log")
	}},
	{lang: "yaml", match: func(content, _ []byte) bool {
		return yamlKeys(content) >= 2 //nolint:mnd // Two keys make a mapping.
	}},
}

// classifierCandidates bounds the enry classifier to languages that have a
// grammar or a common fence tag.
//
//nolint:gochecknoglobals // Read-only lookup table.
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "C#", "Kotlin", "Lua",
	"PHP", "Scala", "Swift", "SQL", "JSON", "YAML", "TOML",
	"HTML", "CSS", "Elixir", "Dockerfile",
}

// Detect returns the fence tag for content, or Text.
func Detect(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return Text
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	trimmed := bytes.TrimSpace(content)
	for _, r := range rules {
		if r.match(content, trimmed) {
			return r.lang
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return normalize(lang)
	}

	return Text
}

// Guess detects the language of content and reports it only when known
// accepts it, so callers can restrict results to languages they support.
func Guess(content string, known func(lang string) bool) (string, bool) {
	lang := Detect([]byte(content))
	if lang == Text {
		return "", false
	}
	if known != nil && !known(lang) {
		return "", false
	}
	return lang, true
}

// yamlKeys counts "key: value" lines and root list items.
func yamlKeys(content []byte) int {
	count := 0
	for _, line := range bytes.Split(content, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || bytes.HasPrefix(line, []byte("#")) {
			continue
		}
		if bytes.Contains(line, []byte(": ")) &&
			!bytes.ContainsAny(line, "({") &&
			!bytes.HasPrefix(line, []byte(`"`)) {
			count++
		}
		if bytes.HasPrefix(line, []byte("- ")) {
			count++
		}
	}
	return count
}

// normalize converts go-enry language names to fence tags.
func normalize(lang string) string {
	switch lang {
	case "Shell":
		return "bash"
	case "C++":
		return "cpp"
	case "C#":
		return "csharp"
	default:
		return strings.ToLower(lang)
	}
}
