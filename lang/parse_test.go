package lang

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func mustParse(t *testing.T, source string) *Model {
	t.Helper()

	m, err := ParseString(t.Context(), source)
	if err != nil {
		t.Fatalf("ParseString(%q) error: %v", source, err)
	}

	return m
}

func dict(entries ...any) *Dictionary {
	d := NewDictionary()
	for i := 0; i+1 < len(entries); i += 2 {
		d.Set(entries[i].(string), entries[i+1].(Value))
	}

	return d
}

func TestParseString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *Dictionary
	}{
		{
			name:  "empty",
			input: "",
			want:  dict(),
		},
		{
			name:  "comments only",
			input: "#= nothing here =#\n",
			want:  dict(),
		},
		{
			name:  "scalars",
			input: `var i = 5; var f = 2.5; var s = "hi";`,
			want:  dict("i", Integer(5), "f", Float(2.5), "s", Text("hi")),
		},
		{
			name:  "fraction forms",
			input: `var a = .5; var b = 5.;`,
			want:  dict("a", Float(0.5), "b", Float(5)),
		},
		{
			name:  "integer beyond int64",
			input: `var big = 99999999999999999999; var max = 9223372036854775807;`,
			want:  dict("big", Float(1e20), "max", Integer(9223372036854775807)),
		},
		{
			name:  "semicolon optional",
			input: "var a = 1\nvar b = 2 var c = 3;",
			want:  dict("a", Integer(1), "b", Integer(2), "c", Integer(3)),
		},
		{
			name:  "last write wins",
			input: `var x = 1; var y = 0; var x = 2;`,
			want:  dict("x", Integer(2), "y", Integer(0)),
		},
		{
			name:  "variable reference",
			input: `var a = "x"; var b = a;`,
			want:  dict("a", Text("x"), "b", Text("x")),
		},
		{
			name:  "dictionary",
			input: `var cfg = {a: 1, b: "hi"};`,
			want:  dict("cfg", dict("a", Integer(1), "b", Text("hi"))),
		},
		{
			name:  "empty dictionary",
			input: `var cfg = {};`,
			want:  dict("cfg", dict()),
		},
		{
			name:  "nested dictionary",
			input: `var a = {b: {c: {d: 1}}};`,
			want:  dict("a", dict("b", dict("c", dict("d", Integer(1))))),
		},
		{
			name:  "duplicate key",
			input: `var d = {a: 1, b: 2, a: 3};`,
			want:  dict("d", dict("a", Integer(3), "b", Integer(2))),
		},
		{
			name:  "postfix expression",
			input: `var x = 2; var y = @[x 3 *];`,
			want:  dict("x", Integer(2), "y", Integer(6)),
		},
		{
			name:  "postfix in dictionary",
			input: `var n = 4; var d = {half: @[n 2 /], n: n};`,
			want: dict(
				"n", Integer(4),
				"d", dict("half", Float(2), "n", Integer(4)),
			),
		},
		{
			name:  "bare dictionary",
			input: `{a: 1, b: {c: "x"}}`,
			want:  dict("a", Integer(1), "b", dict("c", Text("x"))),
		},
		{
			name:  "var as dictionary key",
			input: `var d = {var: 1};`,
			want:  dict("d", dict("var", Integer(1))),
		},
		{
			name:  "comment between statements",
			input: "var a = 1; #= anything including { } @[ ] =# var b = 2;",
			want:  dict("a", Integer(1), "b", Integer(2)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustParse(t, tt.input)

			if !Equal(m.Bindings(), tt.want) {
				t.Errorf("ParseString(%q) = %s, want %s", tt.input, m.Bindings(), tt.want)
			}
		})
	}
}

func TestParseString_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
		pos   string
	}{
		{name: "missing var", input: `x = 1;`, want: ErrSyntax, pos: "1:1"},
		{name: "missing name", input: `var = 1;`, want: ErrSyntax, pos: "1:5"},
		{name: "missing assign", input: `var x 5;`, want: ErrSyntax, pos: "1:7"},
		{name: "missing value", input: `var x = ;`, want: ErrSyntax, pos: "1:9"},
		{name: "value at end", input: `var x =`, want: ErrSyntax, pos: "1:8"},
		{name: "keyword as name", input: `var mod = 1;`, want: ErrSyntax, pos: "1:5"},
		{name: "missing colon", input: `var d = {a 1};`, want: ErrSyntax, pos: "1:12"},
		{name: "missing brace", input: `var d = {a: 1`, want: ErrSyntax, pos: "1:14"},
		{name: "trailing comma", input: `var d = {a: 1,};`, want: ErrSyntax, pos: "1:15"},
		{name: "string key", input: `var d = {"a": 1};`, want: ErrSyntax, pos: "1:10"},
		{name: "bracket value", input: `var x = [1];`, want: ErrSyntax, pos: "1:9"},
		{name: "statement after bare dictionary", input: `{a: 1} var b = 2;`, want: ErrSyntax, pos: "1:8"},
		{name: "number beyond float64", input: "var x = 1" + strings.Repeat("0", 400) + ";", want: ErrSyntax, pos: "1:9"},
		{name: "forward reference", input: `var a = b; var b = 1;`, want: ErrUndefinedVariable, pos: "1:9"},
		{name: "self reference", input: `var a = a;`, want: ErrUndefinedVariable, pos: "1:9"},
		{name: "undefined in dictionary", input: `var d = {a: z};`, want: ErrUndefinedVariable, pos: "1:13"},
		{name: "lexical error", input: `var a = 1 $`, want: ErrLex, pos: "1:11"},
		{name: "expression error", input: `var a = @[1 0 /];`, want: ErrDivisionByZero, pos: "1:15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseString(t.Context(), tt.input)
			if !errors.Is(err, tt.want) {
				t.Fatalf("ParseString(%q) = %v, %v; want error %v", tt.input, m, err, tt.want)
			}

			if m != nil {
				t.Errorf("ParseString(%q) returned a partial model", tt.input)
			}

			var perr *Error
			if !errors.As(err, &perr) {
				t.Fatalf("error %T is not *Error", err)
			}

			if pos, _ := perr.Position(); pos.String() != tt.pos {
				t.Errorf("error position = %s, want %s (%v)", pos, tt.pos, err)
			}
		})
	}
}

func TestParseString_SyntaxErrorMessage(t *testing.T) {
	_, err := ParseString(t.Context(), `var x 5;`)
	if err == nil {
		t.Fatal("expected error")
	}

	want := `syntax error at 1:7: expected="=", found=Number "5"`
	if got := err.Error(); got != want {
		t.Errorf("error = %q, want %q", got, want)
	}
}

func TestParseString_ReferencesAreCopies(t *testing.T) {
	m := mustParse(t, `var a = {x: 1, inner: {y: 2}}; var b = a;`)

	b, _ := m.Get("b")
	bd := b.(*Dictionary)
	bd.Set("x", Integer(100))

	inner, _ := bd.Get("inner")
	inner.(*Dictionary).Set("y", Integer(200))

	a, _ := m.Get("a")
	want := dict("x", Integer(1), "inner", dict("y", Integer(2)))

	if !Equal(a, want) {
		t.Errorf("a = %s after modifying b, want %s", a, want)
	}
}

func TestParseString_Deterministic(t *testing.T) {
	const source = `var x = 1; var d = {b: 2, a: @[x 1.5 *], c: {z: "z", y: x}};`

	first := mustParse(t, source)

	for range 5 {
		if m := mustParse(t, source); !m.Equal(first) {
			t.Fatalf("reparse = %s, want %s", m.Bindings(), first.Bindings())
		}
	}
}

func TestParseString_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := ParseString(ctx, `var x = 1;`)
	if err == nil {
		t.Fatal("expected error from canceled context")
	}
}

func TestParse_Tokens(t *testing.T) {
	tokens, err := Tokenize(`var x = 5;`)
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}

	m, err := Parse(tokens)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if v, ok := m.Get("x"); !ok || !Equal(v, Integer(5)) {
		t.Errorf("x = %v, want 5", v)
	}
}

func TestParse_MissingEOF(t *testing.T) {
	// A stream not produced by Tokenize may lack its EOF token.
	m, err := Parse([]Token{
		{Kind: KindIdentifier, Text: "var"},
		{Kind: KindIdentifier, Text: "x"},
		{Kind: KindAssign, Text: "="},
		{Kind: KindNumber, Text: "1"},
	})
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
}

func TestParseReader(t *testing.T) {
	m, err := ParseReader(t.Context(), strings.NewReader(`var a = 1;`))
	if err != nil {
		t.Fatalf("ParseReader error: %v", err)
	}

	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}

	_, err = ParseReader(t.Context(), errReader{})
	if !errors.Is(err, ErrReadInput) {
		t.Errorf("ParseReader(failing reader) error = %v, want ErrReadInput", err)
	}
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("boom") }
