package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/cfgx/lang"
	"github.com/ardnew/cfgx/log"
)

// Query evaluates an expression over the bindings of cfgx source.
//
// Variables are available by name, and dictionary entries by member access:
//
//	cfgx query 'server.port + 1' app.cfgx
//	cfgx query 'len(server) > 2 ? "large" : "small"' app.cfgx
type Query struct {
	Expression string `arg:"" help:"Expression to evaluate." name:"expression"`

	Sources `embed:""`
}

// Run executes the query command.
func (q *Query) Run(ctx context.Context) error {
	model, err := q.model(ctx)
	if err != nil {
		return err
	}

	result, err := model.Query(ctx, q.Expression, lang.WithLogger(log.Default()))
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("command", "query"))
	}

	_, err = fmt.Fprintln(stdoutFrom(ctx), lang.FormatResult(result))
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
