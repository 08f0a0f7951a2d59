// Package engine ties the parser, template cache, and renderer together
// behind one instance that owns every compiled template.
//
// Templates are compiled lazily on first fetch or eagerly via CompileAll and
// cached by identifier for the lifetime of the engine. There is no
// invalidation path: entries are never evicted, and re-reading updated
// source requires a new engine instance. This is a documented limitation of
// the cache, not an oversight.
package engine

import (
	"errors"
	"io"
	"sync"

	stcherr "github.com/conneroisu/stache/internal/errors"
	"github.com/conneroisu/stache/internal/parser"
	"github.com/conneroisu/stache/internal/render"
	"github.com/conneroisu/stache/internal/value"
)

// Template is a compiled template: the raw source it was built from and the
// node sequence produced by the parser. Immutable once inserted into the
// cache.
type Template struct {
	Source string
	Nodes  []parser.Node
}

// Options tunes an engine instance.
type Options struct {
	// MaxNesting bounds section nesting during parsing; 0 means
	// parser.DefaultMaxNesting.
	MaxNesting int
}

// Engine owns a loader, the compiled-template cache, and a renderer. The
// cache map is guarded by an RW mutex so one engine can serve concurrent
// renders; compiled entries themselves are immutable.
type Engine struct {
	loader     Loader
	renderer   *render.Renderer
	maxNesting int

	mu        sync.RWMutex
	templates map[string]*Template
}

// New creates an engine reading sources through loader.
func New(loader Loader) *Engine {
	return NewWithOptions(loader, Options{})
}

// NewWithOptions creates an engine with explicit tuning.
func NewWithOptions(loader Loader, opts Options) *Engine {
	maxNesting := opts.MaxNesting
	if maxNesting <= 0 {
		maxNesting = parser.DefaultMaxNesting
	}

	e := &Engine{
		loader:     loader,
		maxNesting: maxNesting,
		templates:  make(map[string]*Template),
	}
	e.renderer = render.New(e.partialNodes)

	return e
}

// partialNodes resolves a partial reference through the cache, compiling on
// first use.
func (e *Engine) partialNodes(name string) ([]parser.Node, error) {
	t, err := e.FetchOrCompile(name)
	if err != nil {
		return nil, err
	}

	return t.Nodes, nil
}

// FetchOrCompile returns the cached template for name, loading and compiling
// it on first request. Compiling the same identifier twice yields the same
// cache entry.
func (e *Engine) FetchOrCompile(name string) (*Template, error) {
	e.mu.RLock()
	t, ok := e.templates[name]
	e.mu.RUnlock()

	if ok {
		return t, nil
	}

	src, err := e.loader.Load(name)
	if err != nil {
		return nil, err
	}

	nodes, err := parser.ParseLimited(string(src), e.maxNesting)
	if err != nil {
		var perr *stcherr.Error
		if errors.As(err, &perr) {
			perr.WithTemplate(name)
		}

		return nil, err
	}

	t = &Template{Source: string(src), Nodes: nodes}

	e.mu.Lock()
	if cached, ok := e.templates[name]; ok {
		t = cached
	} else {
		e.templates[name] = t
	}
	e.mu.Unlock()

	return t, nil
}

// CompileAll eagerly compiles every identifier, surfacing the first failure.
// It validates a template set before any of it is used for rendering.
func (e *Engine) CompileAll(names []string) error {
	for _, name := range names {
		if _, err := e.FetchOrCompile(name); err != nil {
			return err
		}
	}

	return nil
}

// Render compiles name if needed and walks its tree against ctx, writing
// output to sink. The top-level context must be record-shaped. Bytes already
// written to the sink stay written when a render fails midway.
func (e *Engine) Render(name string, ctx value.Value, sink io.Writer) error {
	if !ctx.IsRecord() {
		return stcherr.NewRender(stcherr.KindInvalidBindingShape,
			"the top-level render context must be record-shaped", nil)
	}

	t, err := e.FetchOrCompile(name)
	if err != nil {
		return err
	}

	return e.renderer.Render(t.Nodes, ctx, sink)
}

// Cached reports whether name has a compiled cache entry.
func (e *Engine) Cached(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.templates[name]

	return ok
}

// Count returns the number of cached templates.
func (e *Engine) Count() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.templates)
}
