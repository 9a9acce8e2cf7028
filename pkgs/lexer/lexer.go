package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// LexError is a fatal tokenization failure. The whole pipeline aborts on it;
// no partial output is ever produced from a stream that failed to lex.
type LexError struct {
	Line    int
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Lexer tokenizes C source text. The invariant it maintains is round-trip
// fidelity: concatenating the Text of every produced token reproduces the
// input exactly, comments and whitespace included.
type Lexer struct {
	input    []byte
	position int
	line     int
	column   int

	// bol is true while only whitespace has been seen since the last
	// newline. A '#' begins a preprocessor directive only at bol.
	bol bool
}

// New creates a lexer for the given source text.
func New(input string) *Lexer {
	l := &Lexer{}
	l.Init([]byte(input))
	return l
}

// Init resets the lexer with new input.
func (l *Lexer) Init(input []byte) {
	l.input = input
	l.position = 0
	l.line = 1
	l.column = 1
	l.bol = true
}

// Lex tokenizes source in one call. The first malformed construct aborts
// with a LexError carrying the offending line.
func Lex(source string) ([]Token, error) {
	return New(source).Tokens()
}

// Tokens scans the remaining input and returns all tokens.
func (l *Lexer) Tokens() ([]Token, error) {
	var tokens []Token
	for l.position < len(l.input) {
		tok, err := l.lexToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

// lexToken dispatches on the current character class.
func (l *Lexer) lexToken() (Token, error) {
	line, col := l.line, l.column
	ch := l.currentChar()

	switch {
	case ch < 128 && isWhitespace[ch]:
		return l.lexWhitespace(line, col), nil

	case ch == '#' && l.bol:
		return l.lexDirective(line, col), nil

	case ch < 128 && isIdentStart[ch]:
		return l.lexIdentifier(line, col)

	case ch < 128 && isDigit[ch]:
		return l.lexNumber(line, col)

	case ch == '.' && l.peekAt(1) < 128 && isDigit[l.peekAt(1)]:
		return l.lexNumber(line, col)

	case ch == '"':
		return l.lexQuoted(l.position, '"', "string literal", String, line, col)

	case ch == '\'':
		return l.lexQuoted(l.position, '\'', "character literal", Char, line, col)

	case ch == '/':
		return l.lexSlash(line, col)
	}

	return l.lexOperator(line, col), nil
}

// lexWhitespace reads a run of blanks including newlines. Runs are kept as
// single tokens so later stages can collapse or drop them wholesale.
func (l *Lexer) lexWhitespace(line, col int) Token {
	start := l.position
	for l.position < len(l.input) {
		ch := l.input[l.position]
		if ch >= 128 || !isWhitespace[ch] {
			break
		}
		l.advance()
	}
	text := string(l.input[start:l.position])
	if strings.Contains(text, "\n") {
		l.bol = true
	}
	return Token{Kind: Whitespace, Text: text, Line: line, Column: col}
}

// lexDirective reads from '#' to end of line. A trailing backslash continues
// the directive across the line break; the terminating newline itself is not
// part of the directive token.
func (l *Lexer) lexDirective(line, col int) Token {
	start := l.position
	for l.position < len(l.input) {
		ch := l.currentChar()
		if ch == '\\' && l.peekAt(1) == '\n' {
			l.advance()
			l.advance()
			continue
		}
		if ch == '\\' && l.peekAt(1) == '\r' && l.peekAt(2) == '\n' {
			l.advance()
			l.advance()
			l.advance()
			continue
		}
		if ch == '\n' {
			break
		}
		l.advance()
	}
	l.bol = false
	return Token{Kind: Directive, Text: string(l.input[start:l.position]), Line: line, Column: col}
}

// lexIdentifier reads an identifier or keyword. An identifier that turns out
// to be a string/char literal prefix (L"..", u8"..", u'..') is folded into
// the literal token so the literal stays atomic.
func (l *Lexer) lexIdentifier(line, col int) (Token, error) {
	start := l.position
	for l.position < len(l.input) {
		ch := l.input[l.position]
		if ch >= 128 || !isIdentPart[ch] {
			break
		}
		l.advance()
	}
	text := string(l.input[start:l.position])

	if isLiteralPrefix(text) {
		switch l.currentChar() {
		case '"':
			return l.lexQuoted(start, '"', "string literal", String, line, col)
		case '\'':
			return l.lexQuoted(start, '\'', "character literal", Char, line, col)
		}
	}

	kind := Identifier
	if keywords[text] {
		kind = Keyword
	}
	l.bol = false
	return Token{Kind: kind, Text: text, Line: line, Column: col}, nil
}

func isLiteralPrefix(text string) bool {
	switch text {
	case "L", "u", "U", "u8":
		return true
	}
	return false
}

// lexQuoted reads a string or character literal starting at the opening
// quote (start may precede it when a literal prefix was already consumed).
// An escaped quote never terminates the literal; a backslash also consumes a
// raw line break, which is how C splices literals across lines.
func (l *Lexer) lexQuoted(start int, quote byte, what string, kind TokenKind, line, col int) (Token, error) {
	openLine := l.line
	l.advance() // opening quote

	for l.position < len(l.input) {
		ch := l.currentChar()

		if ch == quote {
			l.advance()
			l.bol = false
			return Token{Kind: kind, Text: string(l.input[start:l.position]), Line: line, Column: col}, nil
		}

		if ch == '\\' && l.peekAt(1) == '\r' && l.peekAt(2) == '\n' {
			l.advance()
			l.advance()
			l.advance()
			continue
		}
		if ch == '\\' && l.position+1 < len(l.input) {
			l.advance()
			l.advance()
			continue
		}

		if ch == '\n' {
			break
		}

		l.advance()
	}

	return Token{}, &LexError{Line: openLine, Message: "unterminated " + what}
}

// lexNumber reads an integer or floating literal with any trailing suffix
// attached, so no later stage can ever split a literal from its suffix.
func (l *Lexer) lexNumber(line, col int) (Token, error) {
	start := l.position

	// .5 style floats
	if l.currentChar() == '.' {
		l.advance()
		l.readDigits()
		l.readExponent()
		l.readFloatSuffix()
		return l.numberToken(start, line, col), nil
	}

	// Hex literals
	if l.currentChar() == '0' && (l.peekAt(1) == 'x' || l.peekAt(1) == 'X') {
		l.advance()
		l.advance()
		if !l.readHexDigits() {
			return Token{}, &LexError{Line: line, Message: "invalid numeric literal"}
		}
		l.readIntSuffix()
		return l.numberToken(start, line, col), nil
	}

	// Decimal or octal digits (base is decided by the value parser, not here)
	l.readDigits()

	isFloat := false
	if l.currentChar() == '.' {
		l.advance()
		l.readDigits()
		isFloat = true
	}
	if l.readExponent() {
		isFloat = true
	}

	if isFloat {
		l.readFloatSuffix()
	} else {
		l.readIntSuffix()
	}
	return l.numberToken(start, line, col), nil
}

func (l *Lexer) numberToken(start, line, col int) Token {
	l.bol = false
	return Token{Kind: Number, Text: string(l.input[start:l.position]), Line: line, Column: col}
}

func (l *Lexer) readDigits() bool {
	start := l.position
	for l.position < len(l.input) {
		ch := l.currentChar()
		if ch >= 128 || !isDigit[ch] {
			break
		}
		l.advance()
	}
	return l.position > start
}

func (l *Lexer) readHexDigits() bool {
	start := l.position
	for l.position < len(l.input) {
		ch := l.currentChar()
		if ch >= 128 || !isHexDigit[ch] {
			break
		}
		l.advance()
	}
	return l.position > start
}

// readExponent consumes e/E exponents only when digits actually follow,
// so "1e" lexes as number then identifier rather than a malformed literal.
func (l *Lexer) readExponent() bool {
	ch := l.currentChar()
	if ch != 'e' && ch != 'E' {
		return false
	}
	next := l.peekAt(1)
	if next < 128 && isDigit[next] {
		l.advance()
		l.readDigits()
		return true
	}
	if (next == '+' || next == '-') && l.peekAt(2) < 128 && isDigit[l.peekAt(2)] {
		l.advance()
		l.advance()
		l.readDigits()
		return true
	}
	return false
}

func (l *Lexer) readIntSuffix() {
	for {
		ch := l.currentChar()
		if ch >= 128 || !isIntSuffix[ch] {
			return
		}
		l.advance()
	}
}

func (l *Lexer) readFloatSuffix() {
	ch := l.currentChar()
	if ch == 'f' || ch == 'F' || ch == 'l' || ch == 'L' {
		l.advance()
	}
}

// lexSlash disambiguates comments from division operators.
func (l *Lexer) lexSlash(line, col int) (Token, error) {
	switch l.peekAt(1) {
	case '/':
		return l.lexLineComment(line, col), nil
	case '*':
		return l.lexBlockComment(line, col)
	}
	return l.lexOperator(line, col), nil
}

// lexLineComment reads // to end of line, excluding the newline itself.
func (l *Lexer) lexLineComment(line, col int) Token {
	start := l.position
	for l.position < len(l.input) && l.currentChar() != '\n' {
		l.advance()
	}
	l.bol = false
	return Token{Kind: Comment, Text: string(l.input[start:l.position]), Line: line, Column: col}
}

// lexBlockComment reads /* to the first */. Block comments do not nest.
func (l *Lexer) lexBlockComment(line, col int) (Token, error) {
	start := l.position
	openLine := l.line
	l.advance() // '/'
	l.advance() // '*'

	for l.position < len(l.input) {
		if l.currentChar() == '*' && l.peekAt(1) == '/' {
			l.advance()
			l.advance()
			l.bol = false
			return Token{Kind: Comment, Text: string(l.input[start:l.position]), Line: line, Column: col}, nil
		}
		l.advance()
	}

	return Token{}, &LexError{Line: openLine, Message: "unterminated block comment"}
}

// Multi-character operators, longest match first.
var threeCharOps = map[string]bool{
	"<<=": true, ">>=": true, "...": true,
}

var twoCharOps = map[string]bool{
	"->": true, "++": true, "--": true, "<<": true, ">>": true,
	"<=": true, ">=": true, "==": true, "!=": true, "&&": true,
	"||": true, "+=": true, "-=": true, "*=": true, "/=": true,
	"%=": true, "&=": true, "^=": true, "|=": true,
}

// lexOperator reads operators and punctuation with longest-match
// tokenization, and passes any unrecognized character through verbatim.
func (l *Lexer) lexOperator(line, col int) Token {
	ch := l.currentChar()

	if ch >= 128 {
		_, size := utf8.DecodeRune(l.input[l.position:])
		if size <= 0 {
			size = 1
		}
		text := string(l.input[l.position : l.position+size])
		l.advance()
		l.bol = false
		return Token{Kind: Punct, Text: text, Line: line, Column: col}
	}

	text := string(ch)
	if l.position+3 <= len(l.input) && threeCharOps[string(l.input[l.position:l.position+3])] {
		text = string(l.input[l.position : l.position+3])
	} else if l.position+2 <= len(l.input) && twoCharOps[string(l.input[l.position:l.position+2])] {
		text = string(l.input[l.position : l.position+2])
	}
	for range text {
		l.advance()
	}
	l.bol = false
	return Token{Kind: operatorKind(text), Text: text, Line: line, Column: col}
}

// operatorKind separates structural punctuation from expression operators.
func operatorKind(text string) TokenKind {
	switch text {
	case "(", ")", "[", "]", "{", "}", ";", ",", "#":
		return Punct
	}
	return Operator
}

// currentChar returns the byte being examined, or 0 at EOF.
func (l *Lexer) currentChar() byte {
	if l.position >= len(l.input) {
		return 0
	}
	return l.input[l.position]
}

// peekAt returns the byte n positions ahead, or 0 past EOF.
func (l *Lexer) peekAt(n int) byte {
	if l.position+n >= len(l.input) {
		return 0
	}
	return l.input[l.position+n]
}

// advance moves past the current character, tracking line/column. Non-ASCII
// input advances by whole runes so column counts stay meaningful.
func (l *Lexer) advance() {
	if l.position >= len(l.input) {
		return
	}

	ch := l.input[l.position]
	if ch < 128 {
		if ch == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
		l.position++
		return
	}

	_, size := utf8.DecodeRune(l.input[l.position:])
	if size <= 0 {
		size = 1
	}
	l.position += size
	l.column++
}
