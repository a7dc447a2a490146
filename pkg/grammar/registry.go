package grammar

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/patrickmn/go-cache"

	"github.com/yaklabco/stickymd/internal/logging"
)

// LoadFunc builds a grammar on first use.
type LoadFunc func() (Grammar, error)

// Entry describes a grammar the registry can provide.
type Entry struct {
	// Name is the canonical identifier.
	Name string

	// Extensions are file extensions (without dot) the grammar claims.
	Extensions []string

	// Highlights reports whether the grammar carries a highlight query.
	Highlights bool

	// Load builds the grammar.
	Load LoadFunc
}

// Registry resolves identifiers to grammars. Resolution tries, in order:
// the canonical name, a claimed file extension, then the alias table
// followed by the canonical name again. Resolved grammars are cached per
// canonical name so every identifier that lands on the same grammar gets
// the same instance.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
	exts    map[string]string
	aliases map[string]string
	loaded  *cache.Cache
	loadMu  *sync.Mutex
	logger  *log.Logger

	// shared is set while loaded belongs to the registry this one was
	// derived from.
	shared bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for load failures.
func WithLogger(logger *log.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithAliases merges extra aliases into the built-in table.
func WithAliases(aliases map[string]string) Option {
	return func(r *Registry) {
		for alias, name := range aliases {
			r.addAlias(alias, name)
		}
	}
}

// WithoutBuiltins starts from an empty registry.
func WithoutBuiltins() Option {
	return func(r *Registry) {
		r.entries = make(map[string]Entry)
		r.exts = make(map[string]string)
		r.aliases = make(map[string]string)
	}
}

// NewRegistry creates a registry holding the built-in grammars and aliases.
func NewRegistry(opts ...Option) *Registry {
	reg := &Registry{
		entries: make(map[string]Entry),
		exts:    make(map[string]string),
		aliases: make(map[string]string),
		loaded:  cache.New(cache.NoExpiration, 0),
		loadMu:  &sync.Mutex{},
		logger:  logging.Default(),
	}

	for _, entry := range builtinEntries() {
		reg.register(entry)
	}
	for alias, name := range defaultAliases {
		reg.addAlias(alias, name)
	}

	for _, opt := range opts {
		opt(reg)
	}

	return reg
}

//nolint:gochecknoglobals // Process-wide registry shared by all highlight passes.
var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process-wide registry.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Register adds or replaces a grammar entry. A replaced entry's cached
// instance is discarded.
func (r *Registry) Register(entry Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.shared {
		r.detach()
	}
	r.register(entry)
	r.loaded.Delete(normalize(entry.Name))
}

// Derive returns a registry with extra aliases on top of r's entries and
// aliases. The two share loaded grammars until the derived registry
// registers an entry of its own.
func (r *Registry) Derive(aliases map[string]string) *Registry {
	r.mu.RLock()
	derived := &Registry{
		entries: maps.Clone(r.entries),
		exts:    maps.Clone(r.exts),
		aliases: maps.Clone(r.aliases),
		loaded:  r.loaded,
		loadMu:  r.loadMu,
		logger:  r.logger,
		shared:  true,
	}
	r.mu.RUnlock()

	for alias, name := range aliases {
		derived.addAlias(alias, name)
	}
	return derived
}

// detach gives r a private copy of the grammar cache.
func (r *Registry) detach() {
	r.loadMu.Lock()
	items := r.loaded.Items()
	r.loadMu.Unlock()

	r.loaded = cache.NewFrom(cache.NoExpiration, 0, items)
	r.loadMu = &sync.Mutex{}
	r.shared = false
}

func (r *Registry) register(entry Entry) {
	name := normalize(entry.Name)
	entry.Name = name
	r.entries[name] = entry
	for _, ext := range entry.Extensions {
		ext = strings.TrimPrefix(normalize(ext), ".")
		if _, taken := r.exts[ext]; !taken {
			r.exts[ext] = name
		}
	}
}

// AddAlias maps alias to the canonical grammar name.
func (r *Registry) AddAlias(alias, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addAlias(alias, name)
}

func (r *Registry) addAlias(alias, name string) {
	alias = normalize(alias)
	if alias == "" {
		return
	}
	r.aliases[alias] = normalize(name)
}

// Canonical returns the canonical name an identifier resolves to without
// loading the grammar.
func (r *Registry) Canonical(identifier string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.canonical(normalize(identifier))
}

func (r *Registry) canonical(id string) (string, bool) {
	if id == "" {
		return "", false
	}
	if _, ok := r.entries[id]; ok {
		return id, true
	}
	if name, ok := r.exts[strings.TrimPrefix(id, ".")]; ok {
		return name, true
	}
	if target, ok := r.aliases[id]; ok {
		if _, ok := r.entries[target]; ok {
			return target, true
		}
	}
	return "", false
}

// Resolve returns the grammar for identifier, loading it on first use.
// Identifiers are trimmed and compared case-insensitively.
func (r *Registry) Resolve(identifier string) (Grammar, error) {
	r.mu.RLock()
	name, ok := r.canonical(normalize(identifier))
	entry := r.entries[name]
	loaded, loadMu := r.loaded, r.loadMu
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%q: %w", identifier, ErrNotFound)
	}

	if cached, found := loaded.Get(name); found {
		if g, isGrammar := cached.(Grammar); isGrammar {
			return g, nil
		}
	}

	loadMu.Lock()
	defer loadMu.Unlock()

	if cached, found := loaded.Get(name); found {
		if g, isGrammar := cached.(Grammar); isGrammar {
			return g, nil
		}
	}

	if entry.Load == nil {
		return nil, fmt.Errorf("%q: no loader: %w", name, ErrNotFound)
	}

	g, err := entry.Load()
	if err != nil {
		r.logger.Warn("grammar load failed", logging.FieldGrammar, name, logging.FieldError, err)
		return nil, fmt.Errorf("%q: %w: %w", name, ErrNotFound, err)
	}
	if g == nil {
		return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
	}

	loaded.Set(name, g, cache.NoExpiration)
	r.logger.Debug("grammar loaded", logging.FieldGrammar, name)

	return g, nil
}

// Entries returns all registered entries sorted by name.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, 0, len(r.entries))
	for _, entry := range r.entries {
		out = append(out, entry)
	}
	slices.SortFunc(out, func(a, b Entry) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// Aliases returns the aliases that point at name.
func (r *Registry) Aliases(name string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name = normalize(name)
	var out []string
	for alias, target := range r.aliases {
		if target == name {
			out = append(out, alias)
		}
	}
	slices.Sort(out)
	return out
}

// Loaded reports how many grammars have been instantiated.
func (r *Registry) Loaded() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded.ItemCount()
}

func normalize(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}
