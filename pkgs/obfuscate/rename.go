package obfuscate

import (
	"fmt"
	"math/rand"
	"strconv"

	"github.com/eko-071/code-obfuscator/pkgs/lexer"
)

// RenamePair is one original-to-replacement decision.
type RenamePair struct {
	From string
	To   string
}

// RenameMap records rename decisions in the order they were assigned.
type RenameMap struct {
	order  []RenamePair
	byFrom map[string]string
}

func newRenameMap() *RenameMap {
	return &RenameMap{byFrom: make(map[string]string)}
}

func (m *RenameMap) add(from, to string) {
	m.order = append(m.order, RenamePair{From: from, To: to})
	m.byFrom[from] = to
}

// Get returns the replacement assigned to an original identifier.
func (m *RenameMap) Get(from string) (string, bool) {
	to, ok := m.byFrom[from]
	return to, ok
}

// Len returns the number of renamed identifiers.
func (m *RenameMap) Len() int {
	return len(m.order)
}

// Pairs returns the decisions in assignment order.
func (m *RenameMap) Pairs() []RenamePair {
	out := make([]RenamePair, len(m.order))
	copy(out, m.order)
	return out
}

// Replacement alphabets per level. Mild stays short and bland, moderate
// leans on underscore prefixes, extreme uses only characters that are easy
// to confuse with each other in most fonts.
var (
	mildLetters     = "xyzqwkjvnmftbpdr"
	mildPairLetters = "xyzqw"

	moderatePrefixes = []string{"_", "__", "___"}
	moderateChars    = "xyzqwkjvnmftbpdr0123456789"

	confusingNames = []string{
		"O0", "l1", "Il", "lI", "O0l", "l1I", "I1l", "OO0", "ll1", "Ill",
		"lll", "III", "oO0", "O0o", "_O", "_0", "_l", "_I", "__O", "__0",
		"__l", "__I", "O_0", "l_1", "I_l", "_O0", "_l1", "_Il", "OOO",
		"lll1", "IlI", "lIl", "IIl", "O0O0", "l1l1", "IlIl", "O00O",
		"l11l", "oOoO", "Oo0O", "oO0o", "lO0l", "IlO0", "OlIl", "lIO0",
		"O0Il", "Il0O", "lO0I",
	}
)

// namePool returns the candidate alphabet for a level in its fixed base
// order. The caller shuffles.
func namePool(level Level) []string {
	switch level {
	case Extreme:
		pool := make([]string, len(confusingNames))
		copy(pool, confusingNames)
		return pool
	case Moderate:
		pool := make([]string, 0, len(moderatePrefixes)*len(moderateChars))
		for _, prefix := range moderatePrefixes {
			for _, ch := range moderateChars {
				pool = append(pool, prefix+string(ch))
			}
		}
		return pool
	default:
		pool := make([]string, 0, len(mildLetters)+len(mildPairLetters)*10)
		for _, ch := range mildLetters {
			pool = append(pool, string(ch))
		}
		for _, ch := range mildPairLetters {
			for d := 0; d < 10; d++ {
				pool = append(pool, string(ch)+strconv.Itoa(d))
			}
		}
		return pool
	}
}

// Rename assigns a fresh name to every renamable identifier and rewrites
// the stream. Replacements never collide with reserved words, with any
// identifier already present in the source, or with each other. When the
// shuffled pool runs out, names are extended with numeric suffixes.
func Rename(tokens []lexer.Token, level Level, reserved *ReservedSet, rng *rand.Rand) ([]lexer.Token, *RenameMap, error) {
	targets := Renamable(tokens, reserved)

	inSource := make(map[string]struct{})
	for _, tok := range tokens {
		if tok.Kind == lexer.Identifier {
			inSource[tok.Text] = struct{}{}
		}
	}

	pool := namePool(level)
	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	taken := make(map[string]struct{}, len(targets))
	usable := func(name string) bool {
		if reserved.Has(name) {
			return false
		}
		if _, ok := inSource[name]; ok {
			return false
		}
		if _, ok := taken[name]; ok {
			return false
		}
		return true
	}

	next, ext := 0, 0
	nextName := func() string {
		for next < len(pool) {
			cand := pool[next]
			next++
			if usable(cand) {
				return cand
			}
		}
		for {
			cand := pool[ext%len(pool)] + strconv.Itoa(ext/len(pool))
			ext++
			if usable(cand) {
				return cand
			}
		}
	}

	renames := newRenameMap()
	for _, from := range targets {
		to := nextName()
		taken[to] = struct{}{}
		renames.add(from, to)
	}

	// Collisions are impossible by construction; tripping this means the
	// generator itself is broken.
	seen := make(map[string]struct{}, renames.Len())
	for _, pair := range renames.Pairs() {
		if _, dup := seen[pair.To]; dup {
			return nil, nil, &TransformError{
				Stage:   "rename",
				Message: fmt.Sprintf("replacement '%s' assigned twice", pair.To),
			}
		}
		seen[pair.To] = struct{}{}
	}

	out := make([]lexer.Token, len(tokens))
	for i, tok := range tokens {
		out[i] = tok
		if tok.Kind == lexer.Identifier {
			if to, ok := renames.byFrom[tok.Text]; ok {
				out[i].Text = to
			}
		}
	}
	return out, renames, nil
}
