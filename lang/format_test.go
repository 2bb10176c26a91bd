package lang

import (
	"bytes"
	"strings"
	"testing"
)

func TestModel_Format(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty",
			input: ``,
			want:  ``,
		},
		{
			name:  "scalars",
			input: `var a = 1 var b = "x"; var c = 2.50;`,
			want:  "var a = 1;\nvar b = \"x\";\nvar c = 2.5;\n",
		},
		{
			name:  "dictionaries",
			input: `var c = {d: 2.5, e: {f: 1}, g: {}};`,
			want:  "var c = {d: 2.5, e: {f: 1}, g: {}};\n",
		},
		{
			name:  "computed values",
			input: `var x = 2; var y = @[x 3 *]; var z = @[x 4 /];`,
			want:  "var x = 2;\nvar y = 6;\nvar z = 0.5;\n",
		},
		{
			name:  "negative numbers",
			input: `var n = @[0 5 -]; var f = @[0 2.5 -];`,
			want:  "var n = @[0 5 -];\nvar f = @[0 2.5 -];\n",
		},
		{
			name:  "comments dropped",
			input: "#= header =#\nvar a = 1;",
			want:  "var a = 1;\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustParse(t, tt.input)

			var buf bytes.Buffer

			if err := m.Format(t.Context(), &buf); err != nil {
				t.Fatalf("Format error: %v", err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestModel_Format_RoundTrip(t *testing.T) {
	sources := []string{
		`var a = 1; var b = 2.0; var c = "text with spaces";`,
		`var d = {x: {y: {z: 1}}, w: @[0 3 -], v: @[1 4 /]};`,
		`{port: 80, host: "h", tls: {cert: "c"}}`,
		`var big = 9223372036854775807; var small = @[0 9223372036854775807 - 1 -];`,
		`var tiny = .000001; var huge = 123456789012345678901234567890.5;`,
		`var over = 99999999999999999999; var sum = @[9223372036854775807 1 +]; var e = .00000025;`,
		`var имя = "значение";`,
	}

	for _, source := range sources {
		t.Run(source, func(t *testing.T) {
			m := mustParse(t, source)

			var buf bytes.Buffer

			if err := m.Format(t.Context(), &buf); err != nil {
				t.Fatalf("Format error: %v", err)
			}

			again := mustParse(t, buf.String())
			if !again.Equal(m) {
				t.Errorf("round trip of %q\n got: %s\nwant: %s", source, again.Bindings(), m.Bindings())
			}
		})
	}
}

func TestModel_FormatJSON(t *testing.T) {
	m := mustParse(t, `var a = 1; var b = {c: "x", d: 2.5}; var e = {};`)

	t.Run("compact", func(t *testing.T) {
		var buf bytes.Buffer

		if err := m.FormatJSON(t.Context(), &buf, 0); err != nil {
			t.Fatalf("FormatJSON error: %v", err)
		}

		want := `{"a":1,"b":{"c":"x","d":2.5},"e":{}}` + "\n"
		if got := buf.String(); got != want {
			t.Errorf("FormatJSON = %q, want %q", got, want)
		}
	})

	t.Run("indented", func(t *testing.T) {
		var buf bytes.Buffer

		if err := m.FormatJSON(t.Context(), &buf, 2); err != nil {
			t.Fatalf("FormatJSON error: %v", err)
		}

		want := strings.Join([]string{
			`{`,
			`  "a": 1,`,
			`  "b": {`,
			`    "c": "x",`,
			`    "d": 2.5`,
			`  },`,
			`  "e": {}`,
			`}`,
		}, "\n") + "\n"

		if got := buf.String(); got != want {
			t.Errorf("FormatJSON =\n%s\nwant\n%s", got, want)
		}
	})
}

func TestModel_FormatYAML(t *testing.T) {
	m := mustParse(t, `var a = 1; var b = {c: "x", d: 2.5};`)

	t.Run("block", func(t *testing.T) {
		var buf bytes.Buffer

		if err := m.FormatYAML(t.Context(), &buf, 2); err != nil {
			t.Fatalf("FormatYAML error: %v", err)
		}

		want := "a: 1\nb:\n  c: x\n  d: 2.5\n"
		if got := buf.String(); got != want {
			t.Errorf("FormatYAML =\n%s\nwant\n%s", got, want)
		}
	})

	t.Run("flow", func(t *testing.T) {
		var buf bytes.Buffer

		if err := m.FormatYAML(t.Context(), &buf, 0); err != nil {
			t.Fatalf("FormatYAML error: %v", err)
		}

		got := buf.String()
		if !strings.HasPrefix(got, "{") || !strings.Contains(got, "a: 1") {
			t.Errorf("FormatYAML flow = %q", got)
		}

		if strings.Index(got, "a: 1") > strings.Index(got, "c: x") {
			t.Errorf("FormatYAML flow lost binding order: %q", got)
		}
	})
}

func TestDictionary_String(t *testing.T) {
	d := dict("a", Integer(1), "b", Text("hi"), "c", dict("d", Float(1)))

	if got, want := d.String(), `{a: 1, b: "hi", c: {d: 1.0}}`; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
