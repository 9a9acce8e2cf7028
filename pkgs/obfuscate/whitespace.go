package obfuscate

import (
	"github.com/eko-071/code-obfuscator/pkgs/lexer"
)

// StripComments removes every comment from the stream. A comment that
// covered a line break leaves a newline behind so directive boundaries
// survive; any other comment leaves a single space so its neighbors cannot
// merge into one token.
func StripComments(tokens []lexer.Token) []lexer.Token {
	out := make([]lexer.Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Kind != lexer.Comment {
			out = append(out, tok)
			continue
		}
		text := " "
		if tok.Newlines() > 0 {
			text = "\n"
		}
		out = append(out, lexer.Token{Kind: lexer.Whitespace, Text: text, Line: tok.Line, Column: tok.Column})
	}
	return out
}

// CompressWhitespace rewrites every whitespace run to its minimal form: a
// newline when the run covered one or when it borders a directive, a single
// space when dropping it would merge its neighbors, and nothing otherwise.
// Leading and trailing runs are dropped entirely.
func CompressWhitespace(tokens []lexer.Token) []lexer.Token {
	merged := coalesceWhitespace(tokens)
	out := make([]lexer.Token, 0, len(merged))
	for i, tok := range merged {
		if tok.Kind != lexer.Whitespace {
			out = append(out, tok)
			continue
		}
		if len(out) == 0 || i+1 >= len(merged) {
			continue
		}
		prev := out[len(out)-1]
		next := merged[i+1]

		text := ""
		switch {
		case prev.Kind == lexer.Directive || next.Kind == lexer.Directive:
			text = "\n"
		case tok.Newlines() > 0:
			text = "\n"
		case needsSpace(prev, next):
			text = " "
		}
		if text != "" {
			out = append(out, lexer.Token{Kind: lexer.Whitespace, Text: text, Line: tok.Line, Column: tok.Column})
		}
	}
	return out
}

// coalesceWhitespace joins adjacent whitespace tokens so each run is a
// single token.
func coalesceWhitespace(tokens []lexer.Token) []lexer.Token {
	out := make([]lexer.Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Kind == lexer.Whitespace && len(out) > 0 && out[len(out)-1].Kind == lexer.Whitespace {
			out[len(out)-1].Text += tok.Text
			continue
		}
		out = append(out, tok)
	}
	return out
}

// needsSpace reports whether removing the whitespace between two tokens
// would change the token sequence a C compiler sees.
func needsSpace(prev, next lexer.Token) bool {
	if wordish(prev) && wordish(next) {
		return true
	}
	// Adjacent expression operators can fuse: "+ +" into "++", "- -" into
	// "--", "/ *" into a comment opener.
	if prev.Kind == lexer.Operator && next.Kind == lexer.Operator {
		return true
	}
	return false
}

func wordish(tok lexer.Token) bool {
	switch tok.Kind {
	case lexer.Identifier, lexer.Keyword, lexer.Number:
		return true
	}
	return false
}
