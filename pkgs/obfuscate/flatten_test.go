package obfuscate

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/eko-071/code-obfuscator/pkgs/lexer"
)

func TestFlattenLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			"function collapses to one line",
			"int main() {\n  int x;\n  return 0;\n}\n",
			"int main(){int x;return 0;}",
		},
		{
			"directives keep their own lines",
			"#include <stdio.h>\nint x;\nint y;\n#define B 2\nint z;\n",
			"#include <stdio.h>\nint x;int y;\n#define B 2\nint z;",
		},
		{
			"operator separation survives",
			"a = b - -c;\n",
			"a=b- -c;",
		},
		{
			"empty input",
			"",
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := mustLex(t, tt.input)
			got := lexer.Render(FlattenLines(tokens))
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("output mismatch (-expected +actual):\n%s", diff)
			}
		})
	}
}

func TestFlattenKeepsDirectivesIsolated(t *testing.T) {
	source := "#include <stdio.h>\n" +
		"#define MAX 10\n" +
		"int main() {\n" +
		"  int i;\n" +
		"  for (i = 0; i < MAX; i++) printf(\"%d\", i);\n" +
		"  return 0;\n" +
		"}\n"
	tokens := mustLex(t, source)
	rendered := lexer.Render(FlattenLines(tokens))

	for _, line := range strings.Split(rendered, "\n") {
		if !strings.HasPrefix(line, "#") {
			continue
		}
		if line != "#include <stdio.h>" && line != "#define MAX 10" {
			t.Errorf("directive line was disturbed: %q", line)
		}
	}
	if got := strings.Count(rendered, "\n"); got != 2 {
		t.Errorf("expected 2 line breaks after flattening, got %d", got)
	}
}
