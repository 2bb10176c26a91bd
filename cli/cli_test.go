package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/cfgx/cli/cmd"
	"github.com/ardnew/cfgx/lang"
	"github.com/ardnew/cfgx/pkg"
)

func TestRun(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))

	src := filepath.Join(root, "app.cfgx")

	err := os.WriteFile(src, []byte(`var a = 1; var d = {b: @[a 2 +]};`), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "default command",
			args: []string{src},
			want: `<config a="1"><dictionary name="d"><entry name="b" value="3"/></dictionary></config>` + "\n",
		},
		{
			name: "fmt json",
			args: []string{"fmt", "json", "--indent=0", src},
			want: `{"a":1,"d":{"b":3}}` + "\n",
		},
		{
			name: "fmt native",
			args: []string{"fmt", src},
			want: "var a = 1;\nvar d = {b: 3};\n",
		},
		{
			name: "query",
			args: []string{"query", "d.b * 2", src},
			want: "6\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			ctx := cmd.WithStdio(t.Context(), strings.NewReader(""), &out)

			err := Run(ctx, func(code int) { t.Fatalf("unexpected exit(%d)", code) },
				append([]string{"--log-level=error"}, tt.args...)...)
			if err != nil {
				t.Fatalf("Run(%q) error: %v", tt.args, err)
			}

			if got := out.String(); got != tt.want {
				t.Errorf("Run(%q) output = %q, want %q", tt.args, got, tt.want)
			}
		})
	}

	t.Run("stdin", func(t *testing.T) {
		var out bytes.Buffer

		ctx := cmd.WithStdio(t.Context(), strings.NewReader(`var x = "y";`), &out)

		if err := Run(ctx, func(int) {}, "--log-level=error", "xml", "-"); err != nil {
			t.Fatalf("Run error: %v", err)
		}

		if got, want := out.String(), `<config x="y"/>`+"\n"; got != want {
			t.Errorf("output = %q, want %q", got, want)
		}
	})

	t.Run("language error", func(t *testing.T) {
		ctx := cmd.WithStdio(t.Context(), strings.NewReader(`var x = ;`), &bytes.Buffer{})

		err := Run(ctx, func(int) {}, "--log-level=error", "xml")
		if !errors.Is(err, lang.ErrSyntax) {
			t.Errorf("Run error = %v, want ErrSyntax", err)
		}
	})

	t.Run("init", func(t *testing.T) {
		if err := Run(t.Context(), func(int) {}, "--log-level=warn", "init"); err != nil {
			t.Fatalf("Run(init) error: %v", err)
		}

		data, err := os.ReadFile(filepath.Join(pkg.ConfigDir(), baseConfig))
		if err != nil {
			t.Fatal(err)
		}

		if !strings.Contains(string(data), `log_level: "warn"`) {
			t.Errorf("config file does not record the log level:\n%s", data)
		}

		err = Run(t.Context(), func(int) {}, "init")
		if !errors.Is(err, cmd.ErrFileExists) {
			t.Errorf("second Run(init) error = %v, want ErrFileExists", err)
		}
	})
}
