package lexer

// ASCII character lookup tables for fast classification (zero-allocation)
//
// Use inline bounds-checked lookups:
//
//	if ch < 128 && isDigit[ch] { ... }
//
// Bytes >= 128 never start a token class; they pass through as raw text.
var (
	isWhitespace [128]bool // Space, tab, carriage return, form feed, vertical tab, newline
	isDigit      [128]bool // 0-9
	isIdentStart [128]bool // a-z, A-Z, _
	isIdentPart  [128]bool // Letter, digit, _
	isHexDigit   [128]bool // 0-9, a-f, A-F
	isIntSuffix  [128]bool // u, U, l, L
)

func init() {
	// Pre-compute ASCII character classification tables
	for i := 0; i < 128; i++ {
		ch := byte(i)

		// Newline counts as whitespace here; line tracking happens in advance()
		isWhitespace[i] = ch == ' ' || ch == '\t' || ch == '\r' || ch == '\f' || ch == '\v' || ch == '\n'

		isDigit[i] = '0' <= ch && ch <= '9'

		isIdentStart[i] = ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
		isIdentPart[i] = isIdentStart[i] || isDigit[i]

		isHexDigit[i] = isDigit[i] || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')

		isIntSuffix[i] = ch == 'u' || ch == 'U' || ch == 'l' || ch == 'L'
	}
}
