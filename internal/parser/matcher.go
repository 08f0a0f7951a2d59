package parser

import (
	"fmt"
	"strings"

	stcherr "github.com/conneroisu/stache/internal/errors"
)

// matchSection locates the close tag matching an already-consumed open tag
// named name, scanning src from offset from. Only same-named opens and closes
// move the depth counter; tags of other names are scanned over and re-parsed
// once the tree builder recurses into the matched span.
//
// It returns the offset of the matching close tag's opening delimiters (the
// end of the body span) and the offset just past its closing delimiters. The
// at position is the cursor at offset from; it is advanced on a private copy
// so that errors found while scanning ahead still carry accurate positions.
func matchSection(src string, from int, name string, at Position) (bodyEnd, next int, err *stcherr.Error) {
	depth := 1
	pos := at
	i := from

	for {
		open := strings.Index(src[i:], openDelim)
		if open == -1 {
			pos.Advance(src[i:])

			return 0, 0, stcherr.NewParse(stcherr.KindExpectedEndSection,
				fmt.Sprintf("section %q is never closed", name), pos.Line, pos.Column)
		}

		pos.Advance(src[i : i+open])
		i += open
		tagStart := i

		pos.Column += len(openDelim)
		i += len(openDelim)

		if i >= len(src) {
			return 0, 0, stcherr.NewParse(stcherr.KindUnexpectedEOF,
				"input ends inside a tag", pos.Line, pos.Column)
		}

		switch src[i] {
		case '!':
			i++
			pos.Column++

			i, err = skipComment(src, i, &pos)
			if err != nil {
				return 0, 0, err
			}

		case '#', '^':
			i++
			pos.Column++

			ident, n, err := scanIdent(src, i, 2, &pos)
			if err != nil {
				return 0, 0, err
			}
			if ident == name {
				depth++
			}
			i = n

		case '/':
			i++
			pos.Column++

			ident, n, err := scanIdent(src, i, 2, &pos)
			if err != nil {
				return 0, 0, err
			}
			if ident == name {
				depth--
				if depth == 0 {
					return tagStart, n, nil
				}
			}
			i = n

		case '>':
			i++
			pos.Column++

			_, n, err := scanIdent(src, i, 2, &pos)
			if err != nil {
				return 0, 0, err
			}
			i = n

		default:
			_, n, err := scanIdent(src, i, 2, &pos)
			if err != nil {
				return 0, 0, err
			}
			i = n
		}
	}
}
