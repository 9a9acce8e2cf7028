package lexer

import (
	"fmt"
	"strings"
)

// TokenKind classifies a lexical unit of C source text
type TokenKind int

const (
	Identifier TokenKind = iota
	Keyword
	Number
	String
	Char
	Operator
	Punct
	Directive
	Comment
	Whitespace
)

// Pre-computed kind name lookup for debugging and test output
var kindNames = [...]string{
	Identifier: "Identifier",
	Keyword:    "Keyword",
	Number:     "Number",
	String:     "String",
	Char:       "Char",
	Operator:   "Operator",
	Punct:      "Punct",
	Directive:  "Directive",
	Comment:    "Comment",
	Whitespace: "Whitespace",
}

func (k TokenKind) String() string {
	if int(k) < len(kindNames) && int(k) >= 0 {
		return kindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token represents a single token. Line/Column are 1-based and refer to the
// token's first character in the original source; they exist for diagnostics
// only. Tokens are immutable once produced - stages build new slices instead
// of mutating in place.
type Token struct {
	Kind   TokenKind
	Text   string
	Line   int
	Column int
}

func (t Token) String() string {
	return t.Text
}

// Newlines reports how many physical line breaks the token text covers.
// Whitespace and block-comment tokens are the only kinds that normally span
// lines; directives can too, via trailing backslash continuations.
func (t Token) Newlines() int {
	return strings.Count(t.Text, "\n")
}

// Render concatenates token texts back into source text. For an unmodified
// stream this reproduces the lexer input byte for byte.
func Render(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

// The 32 C keywords. Order here fixes the order reported by Keywords.
var keywordList = []string{
	"auto", "break", "case", "char", "const", "continue", "default", "do",
	"double", "else", "enum", "extern", "float", "for", "goto", "if",
	"int", "long", "register", "return", "short", "signed", "sizeof",
	"static", "struct", "switch", "typedef", "union", "unsigned", "void",
	"volatile", "while",
}

var keywords = make(map[string]bool, len(keywordList))

func init() {
	for _, kw := range keywordList {
		keywords[kw] = true
	}
}

// IsKeyword reports whether name is a C keyword.
func IsKeyword(name string) bool {
	return keywords[name]
}

// Keywords returns the C keyword list in declaration order.
func Keywords() []string {
	out := make([]string, len(keywordList))
	copy(out, keywordList)
	return out
}
