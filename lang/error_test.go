package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"
)

func TestError_Is(t *testing.T) {
	derived := ErrSyntax.
		WithPosition(Position{Line: 2, Column: 3}).
		With(slog.String("expected", "x")).
		Wrap(errors.New("cause"))

	if !errors.Is(derived, ErrSyntax) {
		t.Error("derived error does not match its sentinel")
	}

	if errors.Is(derived, ErrLex) {
		t.Error("derived error matches an unrelated sentinel")
	}

	wrapped := fmt.Errorf("context: %w", derived)
	if !errors.Is(wrapped, ErrSyntax) {
		t.Error("fmt-wrapped error does not match its sentinel")
	}
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "message only",
			err:  ErrStackUnderflow,
			want: "stack underflow",
		},
		{
			name: "position",
			err:  ErrLex.WithPosition(Position{Line: 1, Column: 4}),
			want: "lexical error at 1:4",
		},
		{
			name: "attributes",
			err: ErrUndefinedVariable.
				WithPosition(Position{Line: 1, Column: 9}).
				With(slog.String("name", "x")),
			want: "undefined variable at 1:9: name=x",
		},
		{
			name: "multiple attributes and cause",
			err: ErrReadInput.
				With(slog.String("a", "1"), slog.Int("b", 2)).
				Wrap(errors.New("eof")),
			want: "failed to read input: a=1, b=2: eof",
		},
		{
			name: "wrapped foreign error",
			err:  WrapError(errors.New("plain")),
			want: "plain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapError(t *testing.T) {
	original := ErrType.With(slog.String("name", "d"))

	if got := WrapError(fmt.Errorf("outer: %w", original)); got != original {
		t.Errorf("WrapError did not return the contained *Error")
	}

	plain := errors.New("plain")
	if got := WrapError(plain); !errors.Is(got, plain) {
		t.Errorf("WrapError(plain) does not unwrap to plain")
	}
}

func TestError_LogValue(t *testing.T) {
	err := ErrDivisionByZero.
		WithPosition(Position{Line: 3, Column: 7}).
		With(slog.String("operator", "/"))

	got := make(map[string]string)
	for _, a := range err.LogValue().Group() {
		got[a.Key] = a.Value.String()
	}

	want := map[string]string{
		"error":    "division by zero",
		"line":     "3",
		"column":   "7",
		"operator": "/",
	}

	for k, v := range want {
		if got[k] != v {
			t.Errorf("LogValue()[%q] = %q, want %q", k, got[k], v)
		}
	}
}

func TestError_Immutable(t *testing.T) {
	base := ErrSyntax.With(slog.String("a", "1"))
	_ = base.With(slog.String("b", "2"))

	if _, ok := base.Attr("b"); ok {
		t.Error("With modified its receiver")
	}

	if _, ok := ErrSyntax.Position(); ok {
		t.Error("sentinel acquired a position")
	}
}
