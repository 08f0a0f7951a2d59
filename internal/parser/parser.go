// Package parser compiles stache template source into an immutable node
// tree.
//
// The grammar is the mustache core: `{{name}}` variables, `{{#name}}` and
// `{{^name}}` sections closed by `{{/name}}`, `{{!...}}` comments, and
// `{{>name}}` partial includes. Parsing is a hand-written recursive descent
// over the source span: literal runs become text nodes verbatim, section
// bodies are located by a depth-balancing matcher and parsed recursively into
// the section's child sequence, and a line/column cursor threads through
// every recursive call so error positions stay globally accurate regardless
// of nesting depth.
//
// A single line terminator immediately following a section, comment, or
// partial tag is swallowed rather than emitted as text, so tags standing
// alone on a line do not leave blank lines in the output.
package parser

import (
	"strings"

	stcherr "github.com/conneroisu/stache/internal/errors"
)

// DefaultMaxNesting bounds section nesting depth, and with it the parser's
// recursive call depth.
const DefaultMaxNesting = 128

// Parse compiles src into a node sequence using the default nesting limit.
func Parse(src string) ([]Node, error) {
	return ParseLimited(src, DefaultMaxNesting)
}

// ParseLimited compiles src, rejecting templates whose section nesting
// exceeds maxNesting.
func ParseLimited(src string, maxNesting int) ([]Node, error) {
	pos := Start()

	nodes, err := parse(src, &pos, 0, maxNesting)
	if err != nil {
		return nil, err
	}

	return nodes, nil
}

func parse(src string, pos *Position, depth, maxNesting int) ([]Node, *stcherr.Error) {
	if depth > maxNesting {
		return nil, stcherr.NewParse(stcherr.KindNestingTooDeep,
			"section nesting exceeds the configured limit", pos.Line, pos.Column)
	}

	var nodes []Node
	i := 0

	for i < len(src) {
		open := strings.Index(src[i:], openDelim)
		if open == -1 {
			nodes = append(nodes, TextNode{Text: src[i:]})
			pos.Advance(src[i:])

			break
		}

		if open > 0 {
			text := src[i : i+open]
			nodes = append(nodes, TextNode{Text: text})
			pos.Advance(text)
			i += open
		}

		tagAt := *pos
		pos.Column += len(openDelim)
		i += len(openDelim)

		if i >= len(src) {
			return nil, stcherr.NewParse(stcherr.KindUnexpectedEOF,
				"input ends inside a tag", pos.Line, pos.Column)
		}

		switch src[i] {
		case '!':
			i++
			pos.Column++

			next, err := skipComment(src, i, pos)
			if err != nil {
				return nil, err
			}
			i = swallowNewline(src, next, pos)

		case '#', '^':
			inverted := src[i] == '^'
			i++
			pos.Column++

			name, next, err := scanIdent(src, i, 2, pos)
			if err != nil {
				return nil, err
			}
			i = swallowNewline(src, next, pos)

			bodyEnd, closeEnd, err := matchSection(src, i, name, *pos)
			if err != nil {
				return nil, err
			}

			rawBody := src[i:bodyEnd]

			children, err := parse(rawBody, pos, depth+1, maxNesting)
			if err != nil {
				return nil, err
			}

			pos.Advance(src[bodyEnd:closeEnd])
			i = swallowNewline(src, closeEnd, pos)

			nodes = append(nodes, &SectionNode{
				Name:     name,
				Inverted: inverted,
				RawBody:  rawBody,
				Children: children,
			})

		case '/':
			return nil, stcherr.NewParse(stcherr.KindUnexpectedEndSection,
				"close tag without an open section", tagAt.Line, tagAt.Column)

		case '>':
			i++
			pos.Column++

			name, next, err := scanIdent(src, i, 2, pos)
			if err != nil {
				return nil, err
			}
			i = swallowNewline(src, next, pos)

			nodes = append(nodes, PartialNode{Name: name})

		default:
			name, next, err := scanIdent(src, i, 2, pos)
			if err != nil {
				return nil, err
			}
			i = next

			nodes = append(nodes, VariableNode{Name: name})
		}
	}

	return nodes, nil
}
