package obfuscate

import (
	"github.com/eko-071/code-obfuscator/pkgs/lexer"
)

// operatorMacro is one entry of the rewrite table. Table order is also the
// emission order of the prepended defines.
type operatorMacro struct {
	op     string
	name   string
	arity  int
	define string
}

var operatorMacros = []operatorMacro{
	{"+", "_OB_A", 2, "#define _OB_A(a,b) ((a)+(b))"},
	{"-", "_OB_S", 2, "#define _OB_S(a,b) ((a)-(b))"},
	{"*", "_OB_M", 2, "#define _OB_M(a,b) ((a)*(b))"},
	{"<", "_OB_LT", 2, "#define _OB_LT(a,b) ((a)<(b))"},
	{">", "_OB_GT", 2, "#define _OB_GT(a,b) ((a)>(b))"},
	{"==", "_OB_EQ", 2, "#define _OB_EQ(a,b) ((a)==(b))"},
	{"!", "_OB_N", 1, "#define _OB_N(a) (!(a))"},
}

var (
	binaryMacroNames = make(map[string]string)
	unaryMacroNames  = make(map[string]string)
)

func init() {
	for _, m := range operatorMacros {
		if m.arity == 2 {
			binaryMacroNames[m.op] = m.name
		} else {
			unaryMacroNames[m.op] = m.name
		}
	}
}

// binaryRank gives C binary-operator precedence as binding tightness, with
// higher binding tighter. Zero means "not an operator we scan across" and
// acts as a hard operand boundary.
func binaryRank(op string) int {
	switch op {
	case "*", "/", "%":
		return 10
	case "+", "-":
		return 9
	case "<<", ">>":
		return 8
	case "<", ">", "<=", ">=":
		return 7
	case "==", "!=":
		return 6
	case "&":
		return 5
	case "^":
		return 4
	case "|":
		return 3
	case "&&":
		return 2
	case "||":
		return 1
	}
	return 0
}

// isPrefixCapable reports whether the symbol can start a unary expression.
func isPrefixCapable(op string) bool {
	switch op {
	case "+", "-", "!", "~", "*", "&", "++", "--":
		return true
	}
	return false
}

func isAssignOp(op string) bool {
	switch op {
	case "=", "+=", "-=", "*=", "/=", "%=", "&=", "^=", "|=", "<<=", ">>=":
		return true
	}
	return false
}

func skippable(tok lexer.Token) bool {
	return tok.Kind == lexer.Whitespace || tok.Kind == lexer.Comment
}

// MacroizeOperators rewrites eligible operator expressions into macro
// calls, innermost first, and prepends one define per macro actually used.
// Anything whose operands cannot be delimited with confidence is left
// alone; this stage prefers missing a rewrite over breaking the program.
func MacroizeOperators(tokens []lexer.Token) []lexer.Token {
	s := &macroScanner{
		toks:   append([]lexer.Token(nil), tokens...),
		frozen: make([]bool, len(tokens)),
		used:   make(map[string]bool),
	}
	for {
		progressed := false
		for i := 0; i < len(s.toks); i++ {
			arity, ok := s.candidateAt(i)
			if !ok {
				continue
			}
			applied := false
			if arity == 1 {
				applied = s.rewriteUnary(i)
			} else {
				applied = s.rewriteBinary(i)
			}
			if applied {
				// Indices shifted; rescan from the start.
				progressed = true
				break
			}
		}
		if !progressed {
			break
		}
	}
	return s.result()
}

// macroScanner walks and rewrites one token stream. frozen marks tokens
// that may not be rewritten again: injected macro text and operators
// already handled or judged unsafe.
type macroScanner struct {
	toks   []lexer.Token
	frozen []bool
	used   map[string]bool
}

// candidateAt reports whether the token at i is an unprocessed operator
// the table covers, and with which arity. Binary entries only qualify in
// infix position, the unary entry only in prefix position.
func (s *macroScanner) candidateAt(i int) (arity int, ok bool) {
	if s.frozen[i] {
		return 0, false
	}
	tok := s.toks[i]
	if tok.Kind != lexer.Operator {
		return 0, false
	}
	if _, isUnary := unaryMacroNames[tok.Text]; isUnary && s.isPrefixPosition(i) {
		return 1, true
	}
	if _, isBinary := binaryMacroNames[tok.Text]; isBinary && !s.isPrefixPosition(i) {
		return 2, true
	}
	return 0, false
}

func (s *macroScanner) containsCandidate(lo, hi int) bool {
	for j := lo; j < hi; j++ {
		if _, ok := s.candidateAt(j); ok {
			return true
		}
	}
	return false
}

// prevIndex returns the nearest non-whitespace token index before i, or -1.
func (s *macroScanner) prevIndex(i int) int {
	for j := i - 1; j >= 0; j-- {
		if !skippable(s.toks[j]) {
			return j
		}
	}
	return -1
}

// isPrefixPosition reports whether the operator at i sits in prefix
// position, judged by the token before it: after an operand-ending token
// it is infix or postfix, after anything else it starts an operand.
func (s *macroScanner) isPrefixPosition(i int) bool {
	j := s.prevIndex(i)
	if j < 0 {
		return true
	}
	prev := s.toks[j]
	switch prev.Kind {
	case lexer.Identifier, lexer.Number, lexer.String, lexer.Char:
		return false
	case lexer.Punct:
		return prev.Text != ")" && prev.Text != "]"
	case lexer.Operator:
		if prev.Text == "++" || prev.Text == "--" {
			// Postfix ++ and -- end an operand; prefix ones do not. They
			// read the same, so judge by what stands before them.
			return s.isPrefixPosition(j)
		}
		return true
	}
	return true
}

// rewriteBinary replaces "LEFT op RIGHT" at i with NAME(LEFT,RIGHT).
// Returns false without freezing when an operand still holds an inner
// candidate, so the inner rewrite happens first.
func (s *macroScanner) rewriteBinary(i int) bool {
	if s.toks[i].Text == "*" && s.looksLikeDeclaration(i) {
		s.frozen[i] = true
		return false
	}
	rank := binaryRank(s.toks[i].Text)
	llo, lhi, ok := s.scanOperandLeft(i, rank)
	if !ok {
		s.frozen[i] = true
		return false
	}
	if isPrefixCapable(s.toks[i].Text) && s.castLikeGroup(llo, lhi) {
		// "(unsigned)-1" is a cast of unary minus, not a subtraction.
		s.frozen[i] = true
		return false
	}
	rlo, rhi, ok := s.scanOperandRight(i, rank)
	if !ok {
		s.frozen[i] = true
		return false
	}
	if s.containsCandidate(llo, lhi) || s.containsCandidate(rlo, rhi) {
		return false
	}

	name := binaryMacroNames[s.toks[i].Text]
	s.used[name] = true
	left := append([]lexer.Token(nil), s.toks[llo:lhi]...)
	right := append([]lexer.Token(nil), s.toks[rlo:rhi]...)
	s.splice(llo, rhi, name, left, right)
	return true
}

// rewriteUnary replaces "op OPERAND" at i with NAME(OPERAND).
func (s *macroScanner) rewriteUnary(i int) bool {
	// A unary operand stops at any binary operator, so scan with the
	// tightest binary rank.
	lo, hi, ok := s.scanOperandRight(i, 10)
	if !ok {
		s.frozen[i] = true
		return false
	}
	if s.containsCandidate(lo, hi) {
		return false
	}

	name := unaryMacroNames[s.toks[i].Text]
	s.used[name] = true
	operand := append([]lexer.Token(nil), s.toks[lo:hi]...)
	s.splice(i, hi, name, operand, nil)
	return true
}

// looksLikeDeclaration reports whether the '*' at i plausibly begins a
// pointer declarator: a lone identifier before the star, itself opened by
// a statement boundary, a keyword, or a parameter-list boundary, as in
// "MyType *p;", "struct node *next;", and "void f(FILE *fp)". Expressions
// in those positions, like "return a * b", are skipped too.
func (s *macroScanner) looksLikeDeclaration(i int) bool {
	p := s.prevIndex(i)
	if p < 0 || s.toks[p].Kind != lexer.Identifier {
		return false
	}
	pp := s.prevIndex(p)
	if pp < 0 {
		return true
	}
	switch s.toks[pp].Kind {
	case lexer.Directive, lexer.Keyword:
		return true
	case lexer.Punct:
		switch s.toks[pp].Text {
		case ";", "{", "}", "(", ",":
			return true
		}
	}
	return false
}

// castLikeGroup reports whether toks[lo:hi] is a single parenthesized
// group holding only a type-shaped sequence: keywords or identifiers
// followed by stars, as in "(unsigned)", "(struct node *)", or
// "(mytype)". A lone "(name)" reads either as a cast or as a
// parenthesized value, so it counts as cast-like.
func (s *macroScanner) castLikeGroup(lo, hi int) bool {
	var inner []lexer.Token
	for j := lo; j < hi; j++ {
		if !skippable(s.toks[j]) {
			inner = append(inner, s.toks[j])
		}
	}
	if len(inner) < 3 {
		return false
	}
	first, last := inner[0], inner[len(inner)-1]
	if first.Kind != lexer.Punct || first.Text != "(" || last.Kind != lexer.Punct || last.Text != ")" {
		return false
	}
	inner = inner[1 : len(inner)-1]
	names := 0
	for len(inner) > 0 && (inner[0].Kind == lexer.Keyword || inner[0].Kind == lexer.Identifier) {
		names++
		inner = inner[1:]
	}
	if names == 0 {
		return false
	}
	for len(inner) > 0 && inner[0].Kind == lexer.Operator && inner[0].Text == "*" {
		inner = inner[1:]
	}
	return len(inner) == 0
}

// scanOperandRight delimits the operand to the right of the operator at i,
// given the operator's rank. Returns a half-open token range with outer
// whitespace trimmed; ok is false when no safe operand exists.
func (s *macroScanner) scanOperandRight(i, rank int) (int, int, bool) {
	lo := i + 1
	for lo < len(s.toks) && skippable(s.toks[lo]) {
		lo++
	}
	j := lo
	depth := 0
scan:
	for j < len(s.toks) {
		tok := s.toks[j]
		if skippable(tok) {
			j++
			continue
		}
		if tok.Kind == lexer.Directive {
			return 0, 0, false
		}
		switch tok.Kind {
		case lexer.Punct:
			switch tok.Text {
			case "(", "[":
				depth++
			case ")", "]":
				if depth == 0 {
					break scan
				}
				depth--
			case ",":
				if depth == 0 {
					break scan
				}
			default:
				if depth == 0 {
					break scan
				}
				// Braces or semicolons inside a bracketed group mean the
				// expression is malformed or beyond this pass.
				return 0, 0, false
			}
		case lexer.Operator:
			if depth > 0 {
				break
			}
			op := tok.Text
			switch {
			case op == "." || op == "->" || op == "++" || op == "--":
				// Postfix chain, stays in the operand.
			case op == "~" || op == "!":
				// Prefix-only, binds tighter than any binary operator.
			case isAssignOp(op) || op == "?" || op == ":" || op == "...":
				break scan
			default:
				br := binaryRank(op)
				if br == 0 {
					break scan
				}
				if br <= rank {
					// Same or looser binding ends the operand unless the
					// token is really a prefix use, as in "a * -b".
					if !isPrefixCapable(op) || !s.isPrefixPosition(j) {
						break scan
					}
				}
			}
		case lexer.Keyword:
			if depth == 0 && tok.Text != "sizeof" {
				break scan
			}
		}
		j++
	}
	hi := j
	for hi > lo && skippable(s.toks[hi-1]) {
		hi--
	}
	if hi <= lo || depth != 0 {
		return 0, 0, false
	}
	return lo, hi, true
}

// scanOperandLeft mirrors scanOperandRight walking backwards from i. Equal
// rank stays inside the operand here, matching left associativity.
func (s *macroScanner) scanOperandLeft(i, rank int) (int, int, bool) {
	hi := i
	for hi > 0 && skippable(s.toks[hi-1]) {
		hi--
	}
	j := hi - 1
	depth := 0
scan:
	for j >= 0 {
		tok := s.toks[j]
		if skippable(tok) {
			j--
			continue
		}
		if tok.Kind == lexer.Directive {
			return 0, 0, false
		}
		switch tok.Kind {
		case lexer.Punct:
			switch tok.Text {
			case ")", "]":
				depth++
			case "(", "[":
				if depth == 0 {
					break scan
				}
				depth--
			case ",":
				if depth == 0 {
					break scan
				}
			default:
				if depth == 0 {
					break scan
				}
				return 0, 0, false
			}
		case lexer.Operator:
			if depth > 0 {
				break
			}
			op := tok.Text
			switch {
			case op == "." || op == "->" || op == "++" || op == "--":
			case op == "~" || op == "!":
			case isAssignOp(op) || op == "?" || op == ":" || op == "...":
				break scan
			default:
				br := binaryRank(op)
				if br == 0 {
					break scan
				}
				if br < rank {
					if !isPrefixCapable(op) || !s.isPrefixPosition(j) {
						break scan
					}
				}
			}
		case lexer.Keyword:
			if depth == 0 && tok.Text != "sizeof" {
				break scan
			}
		}
		j--
	}
	lo := j + 1
	for lo < hi && skippable(s.toks[lo]) {
		lo++
	}
	if lo >= hi || depth != 0 {
		return 0, 0, false
	}
	return lo, hi, true
}

// splice replaces toks[lo:hi] with NAME(left) or NAME(left,right). All
// injected tokens are frozen so later passes scan across them untouched.
func (s *macroScanner) splice(lo, hi int, name string, left, right []lexer.Token) {
	pos := s.toks[lo]
	rep := make([]lexer.Token, 0, len(left)+len(right)+4)
	rep = append(rep,
		lexer.Token{Kind: lexer.Identifier, Text: name, Line: pos.Line, Column: pos.Column},
		lexer.Token{Kind: lexer.Punct, Text: "(", Line: pos.Line, Column: pos.Column})
	rep = append(rep, left...)
	if right != nil {
		rep = append(rep, lexer.Token{Kind: lexer.Punct, Text: ",", Line: pos.Line, Column: pos.Column})
		rep = append(rep, right...)
	}
	rep = append(rep, lexer.Token{Kind: lexer.Punct, Text: ")", Line: pos.Line, Column: pos.Column})

	toks := make([]lexer.Token, 0, len(s.toks)-(hi-lo)+len(rep))
	toks = append(toks, s.toks[:lo]...)
	toks = append(toks, rep...)
	toks = append(toks, s.toks[hi:]...)

	frozen := make([]bool, 0, cap(toks))
	frozen = append(frozen, s.frozen[:lo]...)
	for range rep {
		frozen = append(frozen, true)
	}
	frozen = append(frozen, s.frozen[hi:]...)

	s.toks = toks
	s.frozen = frozen
}

// result prepends one define per used macro, in table order.
func (s *macroScanner) result() []lexer.Token {
	if len(s.used) == 0 {
		return s.toks
	}
	var defs []lexer.Token
	for _, m := range operatorMacros {
		if !s.used[m.name] {
			continue
		}
		defs = append(defs,
			lexer.Token{Kind: lexer.Directive, Text: m.define, Line: 1, Column: 1},
			lexer.Token{Kind: lexer.Whitespace, Text: "\n", Line: 1, Column: 1})
	}
	return append(defs, s.toks...)
}
