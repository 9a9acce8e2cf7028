package obfuscate

import (
	"fmt"
	"math"
	"math/bits"
	"math/rand"
	"strconv"
	"strings"

	"github.com/eko-071/code-obfuscator/pkgs/lexer"
)

// MangleNumbers rewrites integer literals into equivalent constant
// expressions chosen at random. Floating literals, values that overflow
// uint64, and anything else that fails to parse pass through verbatim.
func MangleNumbers(tokens []lexer.Token, rng *rand.Rand) []lexer.Token {
	out := make([]lexer.Token, len(tokens))
	for i, tok := range tokens {
		out[i] = tok
		if tok.Kind != lexer.Number {
			continue
		}
		value, suffix, ok := parseIntLiteral(tok.Text)
		if !ok {
			continue
		}
		out[i].Text = mangledForm(value, suffix, rng)
	}
	return out
}

// parseIntLiteral splits an integer literal into its value and suffix.
// ok is false for floating literals, for malformed digits, and for values
// that do not fit in uint64.
func parseIntLiteral(text string) (value uint64, suffix string, ok bool) {
	body := strings.TrimRight(text, "uUlL")
	suffix = text[len(body):]
	if body == "" || strings.Contains(body, ".") {
		return 0, "", false
	}

	base := 10
	digits := body
	lower := strings.ToLower(body)
	switch {
	case strings.HasPrefix(lower, "0x"):
		base = 16
		digits = body[2:]
	case len(body) > 1 && body[0] == '0':
		base = 8
		digits = body[1:]
	}

	// Decimal exponent forms like 1e9 fail the parse below and stay
	// verbatim, which is what we want for floats.
	value, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return 0, "", false
	}
	return value, suffix, true
}

// mangledForm renders an equivalent expression for value. Suffixed
// literals only take literal forms so the suffix stays attached to a plain
// number; unsuffixed ones may become parenthesized expressions.
func mangledForm(value uint64, suffix string, rng *rand.Rand) string {
	candidates := []string{fmt.Sprintf("0x%x%s", value, suffix)}

	if suffix != "" {
		if value > 0 && value < 256 {
			candidates = append(candidates, fmt.Sprintf("0%o%s", value, suffix))
		}
		return candidates[rng.Intn(len(candidates))]
	}

	if value == 0 {
		candidates = append(candidates, "(0xFF&0x0)")
	}
	if value > 0 && value < 256 {
		candidates = append(candidates,
			fmt.Sprintf("0%o", value),
			fmt.Sprintf("(0xFF&0x%x)", value))
	}
	if value > 1 && value&(value-1) == 0 {
		candidates = append(candidates, fmt.Sprintf("(1<<%d)", bits.TrailingZeros64(value)))
	}
	if tz := bits.TrailingZeros64(value); value > 0 && tz > 0 {
		k := 1 + rng.Intn(tz)
		candidates = append(candidates, fmt.Sprintf("((0x%x>>%d)<<%d)", value, k, k))
	}
	if value > 1 && value <= math.MaxInt64 {
		a := uint64(rng.Int63n(int64(value-1))) + 1
		candidates = append(candidates, fmt.Sprintf("(0x%x+0x%x)", a, value-a))
	}
	if d := smallDivisor(value); d != 0 {
		candidates = append(candidates, fmt.Sprintf("(0x%x*0x%x)", d, value/d))
	}

	return candidates[rng.Intn(len(candidates))]
}

// smallDivisor returns a small prime factor of value strictly below it, or
// zero when none of the probes divide it.
func smallDivisor(value uint64) uint64 {
	for _, d := range []uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37} {
		if d >= value {
			break
		}
		if value%d == 0 {
			return d
		}
	}
	return 0
}
