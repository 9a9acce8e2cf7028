// Package obfuscate turns readable C source into equivalent, hostile
// source. It works purely on the token stream: identifiers are renamed,
// comments and whitespace are destroyed, common operators hide behind
// macros, and integer literals become constant expressions. The program's
// meaning is never changed; any rewrite that cannot be proven safe from
// the tokens alone is skipped.
package obfuscate

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/eko-071/code-obfuscator/pkgs/lexer"
)

// TransformError reports an internal invariant violation inside a named
// pipeline stage. Individual unsafe rewrites are skipped silently; this
// only fires when a stage produced something structurally impossible.
type TransformError struct {
	Stage   string
	Message string
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transform error in %s: %s", e.Stage, e.Message)
}

// Option configures a Pipeline.
type Option func(*config)

type config struct {
	rng *rand.Rand
}

// WithSeed fixes the pseudo-random source so runs are reproducible.
func WithSeed(seed int64) Option {
	return func(c *config) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand supplies the pseudo-random source directly.
func WithRand(rng *rand.Rand) Option {
	return func(c *config) {
		c.rng = rng
	}
}

// Pipeline obfuscates C source at a fixed level. Each Run builds fresh
// per-run state, so one Pipeline may serve many inputs and decisions never
// leak between them.
type Pipeline struct {
	level Level
	rng   *rand.Rand
}

// New builds a pipeline for the given level.
func New(level Level, opts ...Option) *Pipeline {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.rng == nil {
		cfg.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Pipeline{level: level, rng: cfg.rng}
}

// Result carries the obfuscated source and the rename decisions that
// produced it.
type Result struct {
	Output  string
	Renames *RenameMap
}

// Transform obfuscates source in one call.
func Transform(source string, level Level, opts ...Option) (*Result, error) {
	return New(level, opts...).Run(source)
}

// Run executes the stage sequence for the pipeline's level.
func (p *Pipeline) Run(source string) (*Result, error) {
	tokens, err := lexer.Lex(source)
	if err != nil {
		return nil, err
	}

	reserved := NewReservedSet()
	tokens, renames, err := Rename(tokens, p.level, reserved, p.rng)
	if err != nil {
		return nil, err
	}

	tokens = StripComments(tokens)
	tokens = CompressWhitespace(tokens)

	if p.level >= Moderate {
		tokens = MacroizeOperators(tokens)
	}
	if p.level >= Extreme {
		tokens = MangleNumbers(tokens, p.rng)
		tokens = FlattenLines(tokens)
	}

	output := lexer.Render(tokens)
	if output != "" && !strings.HasSuffix(output, "\n") {
		output += "\n"
	}
	return &Result{Output: output, Renames: renames}, nil
}
