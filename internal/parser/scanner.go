package parser

import (
	"strings"

	stcherr "github.com/conneroisu/stache/internal/errors"
)

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// scanIdent collects the identifier of a tag whose opening delimiters (and
// any sigil byte) have already been consumed. It stops at the first closing
// brace and verifies that closers consecutive closing braces follow, trimming
// surrounding spaces from the identifier.
//
// On success it returns the identifier and the offset just past the closing
// run, with pos advanced over everything consumed. Tags cannot span lines: a
// raw newline before the closing run is KindUnexpectedNewline, and running
// out of input is KindExpectedCloseCurlyBrace.
func scanIdent(src string, i, closers int, pos *Position) (string, int, *stcherr.Error) {
	start := i

	for {
		if i >= len(src) {
			return "", i, stcherr.NewParse(stcherr.KindExpectedCloseCurlyBrace,
				"tag is never closed", pos.Line, pos.Column)
		}

		c := src[i]
		if c == '\n' {
			return "", i, stcherr.NewParse(stcherr.KindUnexpectedNewline,
				"tag spans a line break", pos.Line, pos.Column)
		}

		if c == '}' {
			ident := strings.Trim(src[start:i], " ")

			for k := 0; k < closers; k++ {
				if i >= len(src) || src[i] != '}' {
					return "", i, stcherr.NewParse(stcherr.KindExpectedCloseCurlyBrace,
						"tag is missing its closing braces", pos.Line, pos.Column)
				}
				i++
				pos.Column++
			}

			return ident, i, nil
		}

		i++
		pos.Column++
	}
}

// skipComment consumes a comment tag body starting at src[i] (just past
// "{{!") through its closing delimiters. Comments may span lines, so pos is
// advanced through every embedded newline.
func skipComment(src string, i int, pos *Position) (int, *stcherr.Error) {
	end := strings.Index(src[i:], closeDelim)
	if end == -1 {
		pos.Advance(src[i:])

		return len(src), stcherr.NewParse(stcherr.KindExpectedCloseCurlyBrace,
			"comment is never closed", pos.Line, pos.Column)
	}

	pos.Advance(src[i : i+end+len(closeDelim)])

	return i + end + len(closeDelim), nil
}

// swallowNewline consumes a single line terminator (optionally preceded by a
// carriage return) immediately after a section, comment, or partial tag.
// Standalone-tag trimming is limited to exactly one terminator, never
// surrounding whitespace.
func swallowNewline(src string, i int, pos *Position) int {
	if i+1 < len(src) && src[i] == '\r' && src[i+1] == '\n' {
		pos.Line++
		pos.Column = 1

		return i + 2
	}

	if i < len(src) && src[i] == '\n' {
		pos.Line++
		pos.Column = 1

		return i + 1
	}

	return i
}
