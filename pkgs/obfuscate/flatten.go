package obfuscate

import (
	"github.com/eko-071/code-obfuscator/pkgs/lexer"
)

// FlattenLines reassembles the stream onto as few physical lines as
// possible. Directives keep a line of their own; everything between two
// directive boundaries joins into one line separated only by the spaces
// needed to keep tokens apart.
func FlattenLines(tokens []lexer.Token) []lexer.Token {
	var out []lexer.Token
	var last lexer.Token
	hasLast := false
	for _, tok := range tokens {
		if tok.Kind == lexer.Whitespace {
			continue
		}
		if hasLast {
			sep := ""
			switch {
			case last.Kind == lexer.Directive || tok.Kind == lexer.Directive:
				sep = "\n"
			case needsSpace(last, tok):
				sep = " "
			}
			if sep != "" {
				out = append(out, lexer.Token{Kind: lexer.Whitespace, Text: sep, Line: tok.Line, Column: tok.Column})
			}
		}
		out = append(out, tok)
		last = tok
		hasLast = true
	}
	return out
}
