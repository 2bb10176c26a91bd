package cli

import (
	"maps"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func loadConfig(t *testing.T, source string) config {
	t.Helper()

	r, err := resolve(t.Context(), "config")(strings.NewReader(source))
	if err != nil {
		t.Fatalf("loader error: %v", err)
	}

	cfg, ok := r.(config)
	if !ok {
		t.Fatalf("loader returned %T, want config", r)
	}

	return cfg
}

func TestResolve_Flatten(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   config
	}{
		{
			name:   "flat",
			source: `var config = {log_level: "debug", log_pretty: "false"};`,
			want:   config{"log_level": "debug", "log_pretty": "false"},
		},
		{
			name:   "nested",
			source: `var config = {log: {level: "warn", format: "text"}};`,
			want:   config{"log_level": "warn", "log_format": "text"},
		},
		{
			name:   "numbers as text",
			source: `var n = 3; var config = {count: n, ratio: @[n 2 /], big: 1.0};`,
			want:   config{"count": "3", "ratio": "1.5", "big": "1"},
		},
		{
			name:   "other bindings ignored",
			source: `var other = {a: 1}; var config = {b: "x"};`,
			want:   config{"b": "x"},
		},
		{
			name:   "missing binding",
			source: `var other = {a: 1};`,
			want:   config{},
		},
		{
			name:   "not a dictionary",
			source: `var config = "log_level";`,
			want:   config{},
		},
		{
			name:   "parse error",
			source: `var config = {log_level: };`,
			want:   config{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := loadConfig(t, tt.source)

			if !maps.Equal(got, tt.want) {
				t.Errorf("config = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolve_Lookup(t *testing.T) {
	t.Parallel()

	cfg := loadConfig(t, `var config = {log_level: "debug"};`)

	for _, name := range []string{"log-level", "log_level"} {
		got, err := cfg.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: name}})
		if err != nil || got != "debug" {
			t.Errorf("Resolve(%q) = %v, %v; want debug", name, got, err)
		}
	}

	got, err := cfg.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "log-format"}})
	if err != nil || got != nil {
		t.Errorf("Resolve(log-format) = %v, %v; want nil", got, err)
	}

	if err := cfg.Validate(nil); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

// TestResolve_Kong checks that file values reach parsed flags and that
// command-line flags take precedence.
func TestResolve_Kong(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config")

	err := os.WriteFile(path, []byte(`
		#= generated =#
		var config = {log: {level: "debug", format: "text"}, retries: 4};
	`), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		args       []string
		wantLevel  string
		wantFormat string
	}{
		{"file values", nil, "debug", "text"},
		{"flag overrides", []string{"--log-level=error"}, "error", "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var cli struct {
				LogLevel  string `default:"info"`
				LogFormat string `default:"json"`
				Retries   int    `default:"1"`
			}

			parser, err := kong.New(&cli,
				kong.Configuration(resolve(t.Context(), "config"), path))
			if err != nil {
				t.Fatal(err)
			}

			if _, err := parser.Parse(tt.args); err != nil {
				t.Fatalf("Parse() error: %v", err)
			}

			if cli.LogLevel != tt.wantLevel || cli.LogFormat != tt.wantFormat {
				t.Errorf("log = %s/%s, want %s/%s",
					cli.LogLevel, cli.LogFormat, tt.wantLevel, tt.wantFormat)
			}

			if cli.Retries != 4 {
				t.Errorf("retries = %d, want 4", cli.Retries)
			}
		})
	}
}
