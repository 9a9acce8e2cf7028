package obfuscate

import (
	"github.com/eko-071/code-obfuscator/pkgs/lexer"
)

// Standard library names that commonly appear in the small C programs this
// tool targets. Renaming any of these would detach the program from libc.
var stdlibNames = []string{
	"printf", "scanf", "malloc", "free", "strlen", "strcpy", "strcmp",
	"memcpy", "fopen", "fclose", "fread", "fwrite", "exit", "NULL",
	"stdin", "stdout", "stderr",
}

// ReservedSet is the set of identifier texts the renamer must never touch:
// C keywords, the standard-library names above, and the entry point main.
// Built once per run and never mutated afterwards.
type ReservedSet struct {
	names map[string]struct{}
}

// NewReservedSet builds the default reserved set.
func NewReservedSet() *ReservedSet {
	s := &ReservedSet{names: make(map[string]struct{}, 64)}
	for _, name := range lexer.Keywords() {
		s.names[name] = struct{}{}
	}
	for _, name := range stdlibNames {
		s.names[name] = struct{}{}
	}
	s.names["main"] = struct{}{}
	return s
}

// Has reports whether name is reserved.
func (s *ReservedSet) Has(name string) bool {
	_, ok := s.names[name]
	return ok
}
