package langdetect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/stickymd/pkg/langdetect"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{name: "shebang bash", content: "#!/bin/bash\necho hello", expected: "bash"},
		{name: "shebang sh", content: "#!/bin/sh\necho hello", expected: "bash"},
		{name: "shebang python", content: "#!/usr/bin/env python3\nprint('hello')", expected: "python"},
		{name: "go code", content: "package main\n\nfunc main() {\n\tfmt.Println(\"hello\")\n}", expected: "go"},
		{name: "python code", content: "def foo():\n    pass\n\nif __name__ == '__main__':\n    foo()", expected: "python"},
		{name: "javascript code", content: "const x = () => { return 42; };\nconsole.log(x());", expected: "javascript"},
		{name: "json object", content: `{"key": "value", "number": 123}`, expected: "json"},
		{name: "yaml content", content: "key: value\nother: 123\nlist:\n  - item1\n  - item2", expected: "yaml"},
		{name: "rust code", content: "fn main() {\n    println!(\"Hello, world!\");\n}", expected: "rust"},
		{name: "plain text fallback", content: "just some text without any code patterns", expected: langdetect.Text},
		{name: "blank fallback", content: " \n\t", expected: langdetect.Text},
		{name: "sql query", content: "SELECT * FROM users WHERE id = 1;", expected: "sql"},
		{name: "html content", content: "<!DOCTYPE html>\n<html>\n<head><title>Test</title></head>\n<body></body>\n</html>", expected: "html"},
		{name: "dockerfile", content: "FROM golang:1.21\nWORKDIR /app\nCOPY . .\nRUN go build", expected: "dockerfile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, langdetect.Detect([]byte(tt.content)))
		})
	}
}

func TestDetect_ShebangTakesPrecedence(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "bash", langdetect.Detect([]byte("#!/bin/bash\ndef foo():\n    pass")))
}

func TestGuess(t *testing.T) {
	t.Parallel()

	lang, ok := langdetect.Guess("package main\n", nil)
	assert.True(t, ok)
	assert.Equal(t, "go", lang)

	onlyPython := func(l string) bool { return l == "python" }
	_, ok = langdetect.Guess("package main\n", onlyPython)
	assert.False(t, ok)

	_, ok = langdetect.Guess("nothing to see here", nil)
	assert.False(t, ok)
}
