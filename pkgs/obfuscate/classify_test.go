package obfuscate

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/eko-071/code-obfuscator/pkgs/lexer"
)

func mustLex(t *testing.T, source string) []lexer.Token {
	t.Helper()
	tokens, err := lexer.Lex(source)
	if err != nil {
		t.Fatalf("Lex(%q) returned error: %v", source, err)
	}
	return tokens
}

func TestRenamableFirstSeenOrder(t *testing.T) {
	tokens := mustLex(t, "int alpha = beta + alpha; char gamma;")
	got := Renamable(tokens, NewReservedSet())
	expected := []string{"alpha", "beta", "gamma"}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("Renamable() mismatch (-expected +actual):\n%s", diff)
	}
}

func TestRenamableSkipsReserved(t *testing.T) {
	tokens := mustLex(t, `int main(){printf("x");return 0;}`)
	got := Renamable(tokens, NewReservedSet())
	if len(got) != 0 {
		t.Errorf("expected no renamable identifiers, got %v", got)
	}
}

func TestRenamableIgnoresNonIdentifierTokens(t *testing.T) {
	source := "#include <stdio.h>\nint x; // y z\nchar *s = \"w q\";\n"
	tokens := mustLex(t, source)
	got := Renamable(tokens, NewReservedSet())
	expected := []string{"x", "s"}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("Renamable() mismatch (-expected +actual):\n%s", diff)
	}
}

func TestRenamableIdempotent(t *testing.T) {
	tokens := mustLex(t, "int a = b; int c = a + b;")
	reserved := NewReservedSet()
	first := Renamable(tokens, reserved)
	second := Renamable(tokens, reserved)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("classification changed between runs (-first +second):\n%s", diff)
	}
}

func TestReservedSet(t *testing.T) {
	reserved := NewReservedSet()
	for _, name := range []string{"while", "sizeof", "printf", "NULL", "main"} {
		if !reserved.Has(name) {
			t.Errorf("expected %q to be reserved", name)
		}
	}
	for _, name := range []string{"x", "count", "my_func", "Printf"} {
		if reserved.Has(name) {
			t.Errorf("expected %q not to be reserved", name)
		}
	}
}
