package lang

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/ardnew/cfgx/log"
)

// Option configures parsing or rendering behavior.
type Option func(*config)

// config holds the options shared by the pipeline entry points.
type config struct {
	logger log.Logger
	indent int
}

func makeConfig(opts ...Option) config {
	var c config

	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithIndent sets the indent width used when writing XML, JSON, or YAML.
// Zero selects the compact form.
func WithIndent(indent int) Option {
	return func(c *config) {
		c.indent = max(indent, 0)
	}
}

// Translate runs the whole pipeline on source text and returns the XML
// document. The first error from any stage aborts the translation.
func Translate(ctx context.Context, source string, opts ...Option) (string, error) {
	m, err := ParseString(ctx, source, opts...)
	if err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	var sb strings.Builder

	if err := m.WriteXML(ctx, &sb, opts...); err != nil {
		return "", err
	}

	return strings.TrimSuffix(sb.String(), "\n"), nil
}

// TranslateReader reads all of r and writes its XML translation to w.
func TranslateReader(
	ctx context.Context,
	w io.Writer,
	r io.Reader,
	opts ...Option,
) error {
	m, err := ParseReader(ctx, r, opts...)
	if err != nil {
		return err
	}

	cfg := makeConfig(opts...)
	cfg.logger.TraceContext(ctx, "translate",
		slog.Int("binding_count", m.Len()))

	return m.WriteXML(ctx, w, opts...)
}
