package grammar

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/yaklabco/stickymd/internal/logging"
	"github.com/yaklabco/stickymd/pkg/syntax"
)

// readChunk bounds how many bytes are handed to the runtime per read call.
const readChunk = 64 * 1024

// queryGroupSep separates the independently compiled groups of a query.
//
//nolint:gochecknoglobals // Compiled pattern is read-only.
var queryGroupSep = regexp.MustCompile(`\n[ \t]*\n`)

// treeSitterGrammar adapts a compiled tree-sitter language. The source is
// fed as UTF-16LE so every byte offset is exactly twice a code-unit index.
type treeSitterGrammar struct {
	name  string
	lang  *sitter.Language
	query *sitter.Query

	mu     sync.Mutex
	parser *sitter.Parser
}

// NewTreeSitter wraps a tree-sitter language. A non-empty highlights query
// is compiled eagerly, one blank-line separated group at a time; groups
// naming nodes the grammar lacks are dropped. A query with no usable group
// is reported and the grammar is still usable for parsing.
func NewTreeSitter(name string, lang *sitter.Language, highlights []byte) (Grammar, error) {
	if lang == nil {
		return nil, fmt.Errorf("%s: nil language: %w", name, ErrNotFound)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(lang)

	grammar := &treeSitterGrammar{
		name:   name,
		lang:   lang,
		parser: parser,
	}

	if len(highlights) == 0 {
		return grammar, nil
	}

	query, err := compileQuery(name, lang, highlights)
	if err != nil {
		return grammar, err
	}
	grammar.query = query

	return grammar, nil
}

// compileQuery compiles the groups of highlights that lang accepts into
// one query.
func compileQuery(name string, lang *sitter.Language, highlights []byte) (*sitter.Query, error) {
	var (
		kept     [][]byte
		rejected int
		firstErr error
	)
	for _, group := range queryGroups(highlights) {
		single, err := sitter.NewQuery(group, lang)
		if err != nil {
			rejected++
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		single.Close()
		kept = append(kept, group)
	}

	if len(kept) == 0 {
		if firstErr == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: compile highlights: %w", name, firstErr)
	}
	if rejected > 0 {
		logging.Default().Debug("highlight patterns dropped",
			logging.FieldGrammar, name,
			logging.FieldDropped, rejected,
			logging.FieldError, firstErr)
	}

	query, err := sitter.NewQuery(bytes.Join(kept, []byte("\n\n")), lang)
	if err != nil {
		return nil, fmt.Errorf("%s: compile highlights: %w", name, err)
	}
	return query, nil
}

// queryGroups splits a query on blank lines, skipping comment-only groups.
func queryGroups(highlights []byte) [][]byte {
	var groups [][]byte
	for _, group := range queryGroupSep.Split(string(highlights), -1) {
		if hasPattern(group) {
			groups = append(groups, []byte(group))
		}
	}
	return groups
}

func hasPattern(group string) bool {
	for line := range strings.Lines(group) {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, ";") {
			return true
		}
	}
	return false
}

func (g *treeSitterGrammar) Name() string {
	return g.name
}

func (g *treeSitterGrammar) Parse(ctx context.Context, src syntax.Source) (*syntax.Tree, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	tree, err := g.parse(ctx, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.IsNull() {
		return nil, fmt.Errorf("%s: %w", g.name, ErrNoTree)
	}

	return syntax.NewTree(src, snapshot(root)), nil
}

func (g *treeSitterGrammar) Captures(ctx context.Context, src syntax.Source) ([]Capture, error) {
	if g.query == nil {
		return nil, fmt.Errorf("%s: %w", g.name, ErrNoQuery)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	tree, err := g.parse(ctx, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.IsNull() {
		return nil, fmt.Errorf("%s: %w", g.name, ErrNoTree)
	}

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(g.query, root)

	var captures []Capture
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		for _, capture := range match.Captures {
			if capture.Node == nil {
				continue
			}
			captures = append(captures, Capture{
				Name:  g.query.CaptureNameForId(capture.Index),
				Start: capture.Node.StartByte(),
				End:   capture.Node.EndByte(),
			})
		}
	}

	return captures, nil
}

// parse runs the tree-sitter parser. Runtime panics surface as ErrNoTree.
func (g *treeSitterGrammar) parse(ctx context.Context, src syntax.Source) (tree *sitter.Tree, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			tree = nil
			err = fmt.Errorf("%s: parser panic: %v: %w", g.name, recovered, ErrNoTree)
		}
	}()

	data := src.Bytes()
	input := sitter.Input{
		Encoding: sitter.InputEncodingUTF16,
		Read: func(offset uint32, _ sitter.Point) []byte {
			if int(offset) >= len(data) {
				return nil
			}
			end := min(int(offset)+readChunk, len(data))
			return data[offset:end]
		},
	}

	tree, err = g.parser.ParseInputCtx(ctx, nil, input)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", g.name, ErrNoTree, err)
	}
	if tree == nil {
		return nil, fmt.Errorf("%s: %w", g.name, ErrNoTree)
	}

	return tree, nil
}

// snapshot copies a runtime node and its descendants into a syntax.Node
// tree that outlives the runtime tree.
func snapshot(node *sitter.Node) *syntax.Node {
	out := syntax.NewNode(node.Type(), node.StartByte(), node.EndByte())

	count := int(node.ChildCount())
	for i := range count {
		child := node.Child(i)
		if child == nil || child.IsNull() {
			continue
		}
		syntax.AppendChild(out, snapshot(child))
	}

	return out
}
