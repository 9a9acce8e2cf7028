package obfuscate

import (
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Level selects how aggressive the obfuscation pipeline is. Each level is a
// strict superset of the one below it.
type Level int

const (
	// Mild renames identifiers, strips comments, and compresses whitespace.
	Mild Level = iota
	// Moderate adds macro-based operator obfuscation.
	Moderate
	// Extreme adds numeric literal mangling and line flattening.
	Extreme
)

var levelNames = [...]string{
	Mild:     "mild",
	Moderate: "moderate",
	Extreme:  "extreme",
}

func (l Level) String() string {
	if l < Mild || l > Extreme {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// Description returns the one-line summary shown by the CLI level listing.
func (l Level) Description() string {
	switch l {
	case Mild:
		return "Rename vars, strip comments, compress whitespace"
	case Moderate:
		return "mild + macro-based operator obfuscation"
	case Extreme:
		return "moderate + number tricks, line flattening"
	}
	return ""
}

// Levels returns all levels from weakest to strongest.
func Levels() []Level {
	return []Level{Mild, Moderate, Extreme}
}

// LevelNames returns the accepted level names in display order.
func LevelNames() []string {
	out := make([]string, 0, len(levelNames))
	out = append(out, levelNames[:]...)
	return out
}

// ParseLevel resolves a user-supplied level name, ignoring case. Unknown
// names produce an error that suggests the closest accepted name when one
// is plausibly close.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(name) {
	case "mild":
		return Mild, nil
	case "moderate":
		return Moderate, nil
	case "extreme":
		return Extreme, nil
	}
	if closest := findClosestLevel(name); closest != "" {
		return 0, fmt.Errorf("unknown obfuscation level '%s'. Did you mean '%s'?", name, closest)
	}
	return 0, fmt.Errorf("unknown obfuscation level '%s' (expected one of: %s)",
		name, strings.Join(LevelNames(), ", "))
}

// findClosestLevel finds the closest level name using fuzzy matching.
func findClosestLevel(name string) string {
	ranks := fuzzy.RankFindFold(name, LevelNames())
	if len(ranks) > 0 {
		return ranks[0].Target
	}
	return ""
}
