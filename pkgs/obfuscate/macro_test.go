package obfuscate

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/eko-071/code-obfuscator/pkgs/lexer"
)

func macroize(t *testing.T, source string) string {
	t.Helper()
	tokens := mustLex(t, source)
	return lexer.Render(MacroizeOperators(tokens))
}

func TestMacroizeOperators(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			"simple addition",
			"int y = 1 + 2;\n",
			"#define _OB_A(a,b) ((a)+(b))\nint y = _OB_A(1,2);\n",
		},
		{
			"left associativity",
			"a = b + c + d;\n",
			"#define _OB_A(a,b) ((a)+(b))\na = _OB_A(_OB_A(b,c),d);\n",
		},
		{
			"multiplication binds tighter",
			"x = a + b * c;\n",
			"#define _OB_A(a,b) ((a)+(b))\n#define _OB_M(a,b) ((a)*(b))\nx = _OB_A(a,_OB_M(b,c));\n",
		},
		{
			"parenthesized group first",
			"y = (a + b) * c;\n",
			"#define _OB_A(a,b) ((a)+(b))\n#define _OB_M(a,b) ((a)*(b))\ny = _OB_M((_OB_A(a,b)),c);\n",
		},
		{
			"mixed same rank stays left associative",
			"e = a - 5 + y;\n",
			"#define _OB_A(a,b) ((a)+(b))\n#define _OB_S(a,b) ((a)-(b))\ne = _OB_A(_OB_S(a,5),y);\n",
		},
		{
			"logical not",
			"if (!ok) x = 1;\n",
			"#define _OB_N(a) (!(a))\nif (_OB_N(ok)) x = 1;\n",
		},
		{
			"comparison in loop header",
			"while (i < n) { }\n",
			"#define _OB_LT(a,b) ((a)<(b))\nwhile (_OB_LT(i,n)) { }\n",
		},
		{
			"equality",
			"r = a == b;\n",
			"#define _OB_EQ(a,b) ((a)==(b))\nr = _OB_EQ(a,b);\n",
		},
		{
			"greater than",
			"if (a > b) r = 1;\n",
			"#define _OB_GT(a,b) ((a)>(b))\nif (_OB_GT(a,b)) r = 1;\n",
		},
		{
			"unary minus is left alone",
			"x = -5;\n",
			"x = -5;\n",
		},
		{
			"binary minus with negated operand",
			"d = a - -b;\n",
			"#define _OB_S(a,b) ((a)-(b))\nd = _OB_S(a,-b);\n",
		},
		{
			"postfix increment stays with its operand",
			"q = n++ + m;\n",
			"#define _OB_A(a,b) ((a)+(b))\nq = _OB_A(n++,m);\n",
		},
		{
			"pointer declaration is not multiplication",
			"MyType *p;\n",
			"MyType *p;\n",
		},
		{
			"pointer member declaration inside a struct",
			"struct node { int v; struct node *next; };\n",
			"struct node { int v; struct node *next; };\n",
		},
		{
			"pointer parameter declaration",
			"void f(FILE *fp);\n",
			"void f(FILE *fp);\n",
		},
		{
			"pointer parameter after a comma",
			"void g(int a, FILE *fp);\n",
			"void g(int a, FILE *fp);\n",
		},
		{
			"cast of a negative literal",
			"unsigned m = (unsigned)-1;\n",
			"unsigned m = (unsigned)-1;\n",
		},
		{
			"cast of a negated variable",
			"y = (int)-x;\n",
			"y = (int)-x;\n",
		},
		{
			"cast of a dereference",
			"v = (mytype)*p;\n",
			"v = (mytype)*p;\n",
		},
		{
			"return of a product is left alone",
			"return a * b;\n",
			"return a * b;\n",
		},
		{
			"product in argument position is left alone",
			"f(a * b, c);\n",
			"f(a * b, c);\n",
		},
		{
			"product after assignment still rewrites",
			"z = a * b;\n",
			"#define _OB_M(a,b) ((a)*(b))\nz = _OB_M(a,b);\n",
		},
		{
			"operators inside strings are invisible",
			"printf(\"1 + 2\");\n",
			"printf(\"1 + 2\");\n",
		},
		{
			"sizeof folds into the operand",
			"s = sizeof(int) + 4;\n",
			"#define _OB_A(a,b) ((a)+(b))\ns = _OB_A(sizeof(int),4);\n",
		},
		{
			"ternary bounds the operands",
			"z = a < b ? 1 : 2;\n",
			"#define _OB_LT(a,b) ((a)<(b))\nz = _OB_LT(a,b) ? 1 : 2;\n",
		},
		{
			"full loop",
			"for (i = 0; i < n; i++) sum = sum + i;\n",
			"#define _OB_A(a,b) ((a)+(b))\n#define _OB_LT(a,b) ((a)<(b))\nfor (i = 0; _OB_LT(i,n); i++) sum = _OB_A(sum,i);\n",
		},
		{
			"function arguments bound by commas",
			"f(a + b, c);\n",
			"#define _OB_A(a,b) ((a)+(b))\nf(_OB_A(a,b), c);\n",
		},
		{
			"shift keeps looser macro inside",
			"x = y << 1 + 2;\n",
			"#define _OB_A(a,b) ((a)+(b))\nx = y << _OB_A(1,2);\n",
		},
		{
			"no eligible operators",
			"x = y / z;\n",
			"x = y / z;\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := macroize(t, tt.input)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("output mismatch (-expected +actual):\n%s", diff)
			}
		})
	}
}

func TestMacroizeDefinesEachMacroOnce(t *testing.T) {
	got := macroize(t, "a = b + c;\nd = e + f;\ng = h + i;\n")
	expected := "#define _OB_A(a,b) ((a)+(b))\n" +
		"a = _OB_A(b,c);\nd = _OB_A(e,f);\ng = _OB_A(h,i);\n"
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("output mismatch (-expected +actual):\n%s", diff)
	}
	if n := strings.Count(got, "#define _OB_A"); n != 1 {
		t.Errorf("expected exactly one _OB_A define, got %d", n)
	}
}

func TestMacroizeNestedUnary(t *testing.T) {
	got := macroize(t, "y = !!x;\n")
	expected := "#define _OB_N(a) (!(a))\ny = _OB_N(_OB_N(x));\n"
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("output mismatch (-expected +actual):\n%s", diff)
	}
}

func TestMacroizeLeavesDirectivesAlone(t *testing.T) {
	got := macroize(t, "#define PLUS 1 + 2\nint x = 3 + 4;\n")
	if !strings.Contains(got, "#define PLUS 1 + 2") {
		t.Errorf("directive body was rewritten:\n%s", got)
	}
	if !strings.Contains(got, "_OB_A(3,4)") {
		t.Errorf("code outside the directive was not rewritten:\n%s", got)
	}
}
