package obfuscate

import (
	"github.com/eko-071/code-obfuscator/pkgs/lexer"
)

// Renamable returns the distinct renamable identifier texts in the order
// they first appear. Classification is purely lexical: every Identifier
// token whose text is not reserved is a candidate, with no notion of scope,
// so two variables sharing a name share a replacement. Identifiers inside
// strings, comments, and directives never reach this function because the
// lexer keeps those as single tokens.
func Renamable(tokens []lexer.Token, reserved *ReservedSet) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, tok := range tokens {
		if tok.Kind != lexer.Identifier {
			continue
		}
		if reserved.Has(tok.Text) {
			continue
		}
		if _, ok := seen[tok.Text]; ok {
			continue
		}
		seen[tok.Text] = struct{}{}
		names = append(names, tok.Text)
	}
	return names
}
