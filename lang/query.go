package lang

import (
	"context"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Query evaluates an expr-lang expression with the model's bindings as
// variables and returns the native result. Dictionaries are exposed as maps,
// so nested entries are reachable with member access (cfg.server.port).
func (m *Model) Query(ctx context.Context, source string, opts ...Option) (any, error) {
	cfg := makeConfig(opts...)
	env := m.ToMap()

	program, err := expr.Compile(source, expr.Env(env))
	if err != nil {
		return nil, ErrQuery.Wrap(err).
			With(slog.String("source", source))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := vm.Run(program, env)
	if err != nil {
		return nil, ErrQuery.Wrap(err).
			With(slog.String("source", source))
	}

	cfg.logger.TraceContext(ctx, "query complete",
		slog.String("source", source),
		slog.String("result_type", resultTypeName(result)))

	return result, nil
}
