package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/cfgx/lang"
)

func TestXMLRun(t *testing.T) {
	t.Parallel()

	const input = `var port = 8080; var server = {host: "localhost", port: port};`

	tests := []struct {
		name   string
		indent int
		want   string
	}{
		{
			name: "compact",
			want: `<config port="8080"><dictionary name="server">` +
				`<entry name="host" value="localhost"/><entry name="port" value="8080"/>` +
				"</dictionary></config>",
		},
		{
			name:   "indented",
			indent: 2,
			want: "<config port=\"8080\">\n" +
				"  <dictionary name=\"server\">\n" +
				"    <entry name=\"host\" value=\"localhost\"/>\n" +
				"    <entry name=\"port\" value=\"8080\"/>\n" +
				"  </dictionary>\n" +
				"</config>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer

			ctx := WithStdio(t.Context(), strings.NewReader(input), &out)

			x := &XML{Output: Output{Output: "-"}, Indent: tt.indent}
			if err := x.Run(ctx); err != nil {
				t.Fatalf("Run() error: %v", err)
			}

			got := out.String()
			if !strings.HasSuffix(got, "\n") {
				t.Errorf("Run() output %q does not end with a newline", got)
			}

			if got = strings.TrimSpace(got); got != tt.want {
				t.Errorf("Run() output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestXMLRun_OutputFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writeFile(t, dir, "app.cfgx", `var a = @[10 4 mod]; var b = "x < y";`)
	dst := filepath.Join(dir, "app.xml")

	var stdout bytes.Buffer

	x := &XML{Sources: Sources{Source: []string{src}}, Output: Output{Output: dst}}
	if err := x.Run(WithStdio(t.Context(), nil, &stdout)); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if stdout.Len() != 0 {
		t.Errorf("Run() wrote to stdout: %q", stdout.String())
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}

	if want := `<config a="2" b="x &lt; y"/>` + "\n"; string(data) != want {
		t.Errorf("output file = %q, want %q", data, want)
	}
}

func TestXMLRun_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	t.Run("parse error", func(t *testing.T) {
		t.Parallel()

		dst := filepath.Join(dir, "bad.xml")
		ctx := WithStdio(t.Context(), strings.NewReader(`var a = @[1 +];`), nil)

		err := (&XML{Output: Output{Output: dst}}).Run(ctx)
		if !errors.Is(err, lang.ErrStackUnderflow) {
			t.Errorf("Run() error = %v, want ErrStackUnderflow", err)
		}

		if _, err := os.Stat(dst); !errors.Is(err, os.ErrNotExist) {
			t.Error("output file created despite parse error")
		}
	})

	t.Run("missing source", func(t *testing.T) {
		t.Parallel()

		x := &XML{Sources: Sources{Source: []string{filepath.Join(dir, "none.cfgx")}}}

		if err := x.Run(t.Context()); !errors.Is(err, ErrReadSource) {
			t.Errorf("Run() error = %v, want ErrReadSource", err)
		}
	})
}
