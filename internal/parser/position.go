package parser

// Position is a 1-based line/column cursor, advanced byte-wise as the parser
// consumes source. It is used only for diagnostics and is not retained on
// nodes.
type Position struct {
	Line   int
	Column int
}

// Start returns the position of the first byte of a source span.
func Start() Position {
	return Position{Line: 1, Column: 1}
}

// Advance moves the cursor over every byte of s.
func (p *Position) Advance(s string) {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			p.Line++
			p.Column = 1
		} else {
			p.Column++
		}
	}
}
