package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/cfgx/lang"
)

func TestQueryRun(t *testing.T) {
	t.Parallel()

	const input = `var server = {host: "localhost", port: 8080}; var hosts = {a: "x", b: "y"};`

	tests := []struct {
		expression string
		want       string
	}{
		{`server.port + 1`, "8081\n"},
		{`server.host`, "localhost\n"},
		{`len(hosts)`, "2\n"},
		{`server.port > 1024`, "true\n"},
		{`server.host + " " + hosts.a`, "\"localhost x\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer

			ctx := WithStdio(t.Context(), strings.NewReader(input), &out)

			if err := (&Query{Expression: tt.expression}).Run(ctx); err != nil {
				t.Fatalf("Run() error: %v", err)
			}

			if got := out.String(); got != tt.want {
				t.Errorf("Run() output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQueryRun_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      string
		expression string
		wantErr    error
	}{
		{"bad source", `var a = ;`, `a`, lang.ErrSyntax},
		{"bad expression", `var a = 1;`, `a +`, lang.ErrQuery},
		{"unknown name", `var a = 1;`, `b`, lang.ErrQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer

			ctx := WithStdio(t.Context(), strings.NewReader(tt.input), &out)

			err := (&Query{Expression: tt.expression}).Run(ctx)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Run() error = %v, want %v", err, tt.wantErr)
			}

			if out.Len() != 0 {
				t.Errorf("Run() wrote output on error: %q", out.String())
			}
		})
	}
}
