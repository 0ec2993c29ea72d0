package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/specialistvlad/declc/internal/pass"
	"github.com/specialistvlad/declc/internal/schema"
)

// Module is the interface that all language modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Language is a declarative language: the shape of its blocks and the passes
// run over every compilation unit.
type Language struct {
	Name        string
	Description string
	// Root describes the top level of a unit: its Fields are the top-level
	// attributes and its Children the top-level block types.
	Root         *schema.EntitySpec
	Transformers []pass.Transformer
	Verifiers    []pass.Verifier
}

// Registry holds the registered languages for a single application instance.
type Registry struct {
	languages map[string]*Language
	frozen    bool
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		languages: make(map[string]*Language),
	}
}

// Register adds a language. It panics on a duplicate name or when the
// registry is already frozen.
func (r *Registry) Register(lang *Language) {
	if r.frozen {
		panic(fmt.Sprintf("language '%s' registered after the registry was frozen", lang.Name))
	}
	if _, exists := r.languages[lang.Name]; exists {
		panic(fmt.Sprintf("language with name '%s' already registered", lang.Name))
	}
	slog.Debug("Registering language.", "name", lang.Name)
	r.languages[lang.Name] = lang
}

// Freeze ends the population phase.
func (r *Registry) Freeze() {
	r.frozen = true
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	return r.frozen
}

// Language looks up a registered language.
func (r *Registry) Language(name string) (*Language, bool) {
	lang, ok := r.languages[name]
	return lang, ok
}

// Languages returns the registered language names, sorted.
func (r *Registry) Languages() []string {
	names := make([]string, 0, len(r.languages))
	for name := range r.languages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
