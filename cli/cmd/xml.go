package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/cfgx/lang"
	"github.com/ardnew/cfgx/log"
)

// XML translates cfgx source to an XML document.
type XML struct {
	Sources `embed:""`
	Output  `embed:""`

	Indent int `default:"0" help:"Indent width; 0 writes the document on a single line." short:"i"`
}

// Run executes the xml command.
func (x *XML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	model, err := x.model(ctx)
	if err != nil {
		return err
	}

	w, closeOutput, err := x.open(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := closeOutput(); cerr != nil && err == nil {
			err = ErrWriteOutput.With(slog.String("output", x.Output.Output)).Wrap(cerr)
		}
	}()

	err = model.WriteXML(ctx, w,
		lang.WithIndent(x.Indent),
		lang.WithLogger(log.Default()))
	if err != nil {
		return ErrWriteOutput.
			With(slog.String("output", x.Output.Output)).
			Wrap(err)
	}

	log.DebugContext(ctx, "translated",
		slog.Int("bindings", model.Len()),
		slog.Int("indent", x.Indent))

	return nil
}
