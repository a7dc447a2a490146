package grammar_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/stickymd/pkg/grammar"
	"github.com/yaklabco/stickymd/pkg/syntax"
)

type stubGrammar struct {
	name string
}

func (s *stubGrammar) Name() string { return s.name }

func (s *stubGrammar) Parse(_ context.Context, src syntax.Source) (*syntax.Tree, error) {
	return syntax.NewTree(src, syntax.NewNode("root", 0, uint32(src.Len()*2))), nil
}

func stubEntry(name string, loads *int, exts ...string) grammar.Entry {
	return grammar.Entry{
		Name:       name,
		Extensions: exts,
		Load: func() (grammar.Grammar, error) {
			*loads++
			return &stubGrammar{name: name}, nil
		},
	}
}

func TestRegistry_ResolutionTiers(t *testing.T) {
	t.Parallel()

	loads := 0
	reg := grammar.NewRegistry(
		grammar.WithoutBuiltins(),
		grammar.WithAliases(map[string]string{"snek": "python"}),
	)
	reg.Register(stubEntry("python", &loads, "py", "pyw"))

	tests := []struct {
		name       string
		identifier string
	}{
		{name: "canonical", identifier: "python"},
		{name: "extension", identifier: "py"},
		{name: "dotted extension", identifier: ".pyw"},
		{name: "alias", identifier: "snek"},
		{name: "case and whitespace", identifier: "  PY "},
	}

	var first grammar.Grammar
	for _, tt := range tests {
		got, err := reg.Resolve(tt.identifier)
		require.NoError(t, err, tt.name)
		assert.Equal(t, "python", got.Name(), tt.name)
		if first == nil {
			first = got
		}
		assert.Same(t, first, got, tt.name)
	}

	assert.Equal(t, 1, loads, "grammar must be instantiated once")
	assert.Equal(t, 1, reg.Loaded())
}

func TestRegistry_NotFound(t *testing.T) {
	t.Parallel()

	reg := grammar.NewRegistry(grammar.WithoutBuiltins())

	for _, id := range []string{"", "   ", "brainfuck"} {
		_, err := reg.Resolve(id)
		require.ErrorIs(t, err, grammar.ErrNotFound, "identifier %q", id)
	}
}

func TestRegistry_AliasToMissingGrammar(t *testing.T) {
	t.Parallel()

	reg := grammar.NewRegistry(grammar.WithoutBuiltins())
	reg.AddAlias("foo", "bar")

	_, err := reg.Resolve("foo")
	require.ErrorIs(t, err, grammar.ErrNotFound)
}

func TestRegistry_LoadFailureIsNotCached(t *testing.T) {
	t.Parallel()

	attempts := 0
	reg := grammar.NewRegistry(grammar.WithoutBuiltins())
	reg.Register(grammar.Entry{
		Name: "flaky",
		Load: func() (grammar.Grammar, error) {
			attempts++
			if attempts == 1 {
				return nil, errors.New("boom")
			}
			return &stubGrammar{name: "flaky"}, nil
		},
	})

	_, err := reg.Resolve("flaky")
	require.ErrorIs(t, err, grammar.ErrNotFound)

	got, err := reg.Resolve("flaky")
	require.NoError(t, err)
	assert.Equal(t, "flaky", got.Name())
}

func TestRegistry_RegisterReplacesCachedInstance(t *testing.T) {
	t.Parallel()

	loads := 0
	reg := grammar.NewRegistry(grammar.WithoutBuiltins())
	reg.Register(stubEntry("go", &loads))

	first, err := reg.Resolve("go")
	require.NoError(t, err)

	reg.Register(stubEntry("go", &loads))
	second, err := reg.Resolve("go")
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, 2, loads)
}

func TestRegistry_EntriesAndAliases(t *testing.T) {
	t.Parallel()

	reg := grammar.NewRegistry()

	names := make([]string, 0)
	for _, entry := range reg.Entries() {
		names = append(names, entry.Name)
	}
	assert.IsNonDecreasing(t, names)
	assert.Contains(t, names, grammar.Markdown)
	assert.Contains(t, names, grammar.MarkdownInline)
	assert.Contains(t, names, grammar.Org)
	assert.Contains(t, names, "python")

	assert.Contains(t, reg.Aliases("python"), "py")
	assert.Contains(t, reg.Aliases("bash"), "sh")

	name, ok := reg.Canonical("C++")
	assert.True(t, ok)
	assert.Equal(t, "cpp", name)
}

func TestRegistry_BuiltinAliasesShareInstance(t *testing.T) {
	t.Parallel()

	reg := grammar.NewRegistry()

	py, err := reg.Resolve("py")
	require.NoError(t, err)
	python, err := reg.Resolve("python")
	require.NoError(t, err)
	upper, err := reg.Resolve("PY")
	require.NoError(t, err)

	assert.Same(t, py, python)
	assert.Same(t, py, upper)
}

func TestRegistry_DeriveSharesLoadedGrammars(t *testing.T) {
	t.Parallel()

	loads := 0
	base := grammar.NewRegistry(grammar.WithoutBuiltins())
	base.Register(stubEntry("python", &loads))

	derived := base.Derive(map[string]string{"Snake": "python"})

	viaAlias, err := derived.Resolve("snake")
	require.NoError(t, err)
	direct, err := base.Resolve("python")
	require.NoError(t, err)

	assert.Same(t, direct, viaAlias)
	assert.Equal(t, 1, loads)
	assert.Equal(t, 1, base.Loaded())

	_, err = base.Resolve("snake")
	require.ErrorIs(t, err, grammar.ErrNotFound, "aliases stay on the derived registry")
}

func TestRegistry_DeriveDetachesOnRegister(t *testing.T) {
	t.Parallel()

	loads := 0
	base := grammar.NewRegistry(grammar.WithoutBuiltins())
	base.Register(stubEntry("go", &loads))
	original, err := base.Resolve("go")
	require.NoError(t, err)

	derived := base.Derive(nil)
	derived.Register(stubEntry("go", &loads))

	replaced, err := derived.Resolve("go")
	require.NoError(t, err)
	again, err := base.Resolve("go")
	require.NoError(t, err)

	assert.NotSame(t, original, replaced)
	assert.Same(t, original, again)
	assert.Equal(t, 2, loads)
}

func TestDefault_IsShared(t *testing.T) {
	t.Parallel()

	assert.Same(t, grammar.Default(), grammar.Default())
}
