package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/cfgx/lang"
	"github.com/ardnew/cfgx/log"
	"github.com/ardnew/cfgx/profile"
)

// Init generates a default configuration file with current flag values.
//
// The file is itself cfgx source binding a single dictionary:
//
//	var config = {log_level: "info", log_format: "json", log_pretty: "true"};
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		panic("internal error: kong context undefined")
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	err = i.buildModel(ktx).Format(ctx, file)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// buildModel constructs the config model from current top-level flag values.
// Flag names are written with underscores since cfgx identifiers cannot
// contain hyphens.
func (i *Init) buildModel(ktx *kong.Context) *lang.Model {
	config := lang.NewDictionary()
	prefixIgnore := []string{"help", "version", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if val := flagValue(ktx.FlagValue(flag)); val != nil {
			config.Set(strings.ReplaceAll(flag.Name, "-", "_"), val)
		}
	}

	vars := lang.NewDictionary()
	vars.Set(ConfigIdentifier, config)

	return lang.NewModel(vars)
}

// flagValue converts a parsed flag value to a cfgx value, or nil if unset.
// Booleans become the text "true" or "false", which kong parses back.
func flagValue(val any) lang.Value {
	switch v := val.(type) {
	case nil:
		return nil

	case bool:
		return lang.Text(strconv.FormatBool(v))

	case string:
		if v == "" {
			return nil
		}

		return lang.Text(v)

	case int:
		return lang.Integer(v)

	case int64:
		return lang.Integer(v)

	case float64:
		return lang.Float(v)

	case []string:
		if len(v) == 0 {
			return nil
		}

		return lang.Text(strings.Join(v, ","))

	case fmt.Stringer:
		return flagValue(v.String())

	default:
		return lang.Text(fmt.Sprint(v))
	}
}
