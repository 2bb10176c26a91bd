package cmd

import (
	"context"

	"github.com/ardnew/cfgx/cli/cmd/repl"
	"github.com/ardnew/cfgx/log"
)

// Repl starts an interactive session over optional initial source.
type Repl struct {
	Source []string `arg:"" help:"Initial source file(s), or '-' for stdin." name:"source" optional:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var source string

	sources := Sources{Source: r.Source}
	if len(r.Source) > 0 {
		source, err = sources.read(ctx)
		if err != nil {
			return err
		}
	}

	var cache string
	if ktx := kongContextFrom(ctx); ktx != nil {
		cache = ktx.Model.Vars()[CacheIdentifier]
	}

	return repl.Run(ctx, source, cache, sources.readsStdin(), log.Default())
}
