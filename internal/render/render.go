// Package render walks a compiled node tree against a binding context and
// writes the result to an output sink.
//
// Rendering is a pure tree walk with no retry or backtracking. The walk
// carries a current context and a single enclosing (outer) context; variable
// lookups that miss on the current record fall back to the outer record, and
// the dispatch rules below update the pair as sections change scope. Dispatch
// is an exhaustive match on the value.Kind of the field bound to a section:
//
//   - booleans gate the body against the unchanged context
//   - a list of records renders the body once per element, the element
//     becoming the current context and its enclosing record the outer one
//   - a list of scalars renders the body exactly once with the context
//     unchanged, without binding element values
//   - an absent optional renders nothing
//   - a lambda is invoked with the raw body text and its output is parsed
//     and rendered as a nested template against the invoking context
//   - a record becomes the new current context
//   - any other scalar becomes the current context itself, so variables in
//     the body interpolate the scalar
package render

import (
	"io"

	stcherr "github.com/conneroisu/stache/internal/errors"
	"github.com/conneroisu/stache/internal/parser"
	"github.com/conneroisu/stache/internal/value"
)

// DefaultMaxDepth bounds partial and lambda re-entry so mutually including
// templates fail instead of recursing forever.
const DefaultMaxDepth = 64

// PartialFunc resolves a partial name to its compiled node sequence,
// compiling it on first use.
type PartialFunc func(name string) ([]parser.Node, error)

// Renderer walks node trees. The zero value renders templates that contain
// no partials; use New to wire partial resolution.
type Renderer struct {
	partials PartialFunc
	maxDepth int
}

// New creates a renderer resolving partials through fn.
func New(fn PartialFunc) *Renderer {
	return &Renderer{partials: fn, maxDepth: DefaultMaxDepth}
}

// Render walks nodes against ctx, writing output to w. The outer context
// starts absent.
func (r *Renderer) Render(nodes []parser.Node, ctx value.Value, w io.Writer) error {
	return r.walk(nodes, ctx, value.Absent(), w, 0)
}

func (r *Renderer) walk(nodes []parser.Node, current, outer value.Value, w io.Writer, depth int) error {
	for _, n := range nodes {
		switch n := n.(type) {
		case parser.TextNode:
			if err := write(w, n.Text); err != nil {
				return err
			}

		case parser.VariableNode:
			if err := r.variable(n.Name, current, outer, w); err != nil {
				return err
			}

		case parser.PartialNode:
			if err := r.partial(n.Name, current, outer, w, depth); err != nil {
				return err
			}

		case *parser.SectionNode:
			if err := r.section(n, current, outer, w, depth); err != nil {
				return err
			}
		}
	}

	return nil
}

// variable interpolates the named field of the current record, falling back
// to the outer record when the field is missing. A non-record context
// interpolates its own textual representation, which supports bare-value
// templates and the scalar-section fallback.
func (r *Renderer) variable(name string, current, outer value.Value, w io.Writer) error {
	if !current.IsRecord() {
		return write(w, current.String())
	}

	if f, ok := current.Field(name); ok {
		if f.IsAbsent() {
			return nil
		}

		return write(w, f.String())
	}

	if f, ok := outer.Field(name); ok && !f.IsAbsent() {
		return write(w, f.String())
	}

	return nil
}

// partial re-enters the pipeline for the named template, keeping the
// current and outer contexts unchanged.
func (r *Renderer) partial(name string, current, outer value.Value, w io.Writer, depth int) error {
	if depth >= r.maxDepth {
		return stcherr.NewRender(stcherr.KindNestingTooDeep,
			"partial inclusion exceeds the depth limit", nil)
	}

	if r.partials == nil {
		return stcherr.NewSource(stcherr.KindSourceNotFound, name,
			"no partial resolver is configured", nil)
	}

	nodes, err := r.partials(name)
	if err != nil {
		return err
	}

	return r.walk(nodes, current, outer, w, depth+1)
}

func (r *Renderer) section(n *parser.SectionNode, current, outer value.Value, w io.Writer, depth int) error {
	hasField := current.IsRecord() && current.Has(n.Name)

	if n.Inverted {
		if !hasField {
			return r.walk(n.Children, current, outer, w, depth)
		}

		f, _ := current.Field(n.Name)
		if f.Kind() == value.KindBool && !f.Bool() {
			return r.walk(n.Children, current, outer, w, depth)
		}

		return nil
	}

	// Unknown section names are silently empty, not an error.
	if !hasField {
		return nil
	}

	f, _ := current.Field(n.Name)

	return r.apply(n, f, current, outer, w, depth)
}

// apply dispatches a normal section on the shape of its bound field.
func (r *Renderer) apply(n *parser.SectionNode, v, current, outer value.Value, w io.Writer, depth int) error {
	switch v.Kind() {
	case value.KindAbsent:
		return nil

	case value.KindBool:
		if v.Bool() {
			return r.walk(n.Children, current, outer, w, depth)
		}

		return nil

	case value.KindList:
		items := v.Items()
		if len(items) == 0 {
			return nil
		}

		if items[0].IsRecord() {
			for _, item := range items {
				if err := r.walk(n.Children, item, current, w, depth); err != nil {
					return err
				}
			}

			return nil
		}

		// A sequence of scalars renders the body once with the context
		// unchanged; element values are not bound, and text is a single
		// scalar rather than a character sequence.
		return r.walk(n.Children, current, outer, w, depth)

	case value.KindCallable:
		if depth >= r.maxDepth {
			return stcherr.NewRender(stcherr.KindNestingTooDeep,
				"lambda expansion exceeds the depth limit", nil)
		}

		out, err := v.Call(n.RawBody)
		if err != nil {
			return stcherr.NewRender(stcherr.KindOther, "lambda invocation failed", err)
		}

		sub, err := parser.Parse(out)
		if err != nil {
			return err
		}

		return r.walk(sub, current, outer, w, depth+1)

	case value.KindRecord:
		return r.walk(n.Children, v, current, w, depth)

	default:
		// A plain scalar becomes the context itself; every variable in
		// the body interpolates the scalar.
		return r.walk(n.Children, v, current, w, depth)
	}
}

func write(w io.Writer, s string) error {
	if _, err := io.WriteString(w, s); err != nil {
		return stcherr.NewRender(stcherr.KindSinkWrite, "writing to the output sink failed", err)
	}

	return nil
}
