package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/cfgx/lang"
)

// Fmt prints the resolved bindings of cfgx source in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical cfgx syntax (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	Tokens Tokens `cmd:""                    help:"Print the token stream."`
}

// Native formats input as canonical cfgx syntax: one var statement per
// binding, with every reference and expression already resolved.
type Native struct {
	Sources `embed:""`
}

// Run executes the fmt native command.
func (f *Native) Run(ctx context.Context) error {
	model, err := f.model(ctx)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("format", "native"))
	}

	return model.Format(ctx, stdoutFrom(ctx))
}

// JSON formats input as a JSON object.
type JSON struct {
	Sources `embed:""`

	Indent int `default:"2" help:"Indent width for JSON output; 0 writes a single line." short:"i"`
}

// Run executes the fmt json command.
func (j *JSON) Run(ctx context.Context) error {
	model, err := j.model(ctx)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("format", "json"))
	}

	return model.FormatJSON(ctx, stdoutFrom(ctx), j.Indent)
}

// YAML formats input as a YAML mapping.
type YAML struct {
	Sources `embed:""`

	Indent int `default:"2" help:"Indent width for YAML output; 0 writes flow style." short:"i"`
}

// Run executes the fmt yaml command.
func (y *YAML) Run(ctx context.Context) error {
	model, err := y.model(ctx)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("format", "yaml"))
	}

	return model.FormatYAML(ctx, stdoutFrom(ctx), y.Indent)
}

// Tokens prints one token per line as "line:column kind text".
type Tokens struct {
	Sources `embed:""`
}

// Run executes the fmt tokens command.
func (t *Tokens) Run(ctx context.Context) error {
	source, err := t.read(ctx)
	if err != nil {
		return err
	}

	tokens, err := lang.Tokenize(source)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("format", "tokens"))
	}

	w := stdoutFrom(ctx)

	for _, tok := range tokens {
		_, err = fmt.Fprintf(w, "%s %s %q\n", tok.Pos, tok.Kind, tok.Text)
		if err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	return nil
}
