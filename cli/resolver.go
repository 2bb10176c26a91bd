package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/cfgx/lang"
	"github.com/ardnew/cfgx/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads configuration from
// cfgx source binding a dictionary to the variable name.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx, "config"), "/path/to/config")
//
// The dictionary is converted as follows:
//   - Flag names with hyphens (e.g., "log-level") are written with
//     underscores (e.g., "log_level"), since identifiers cannot contain
//     hyphens
//   - Nested dictionaries name flag prefixes, so {log: {level: "debug"}}
//     sets --log-level
//   - Numbers are passed to kong as their decimal text
//
// Example config file:
//
//	var config = {
//	  log_level: "debug",
//	  log_format: "json",
//	  log_pretty: "true"
//	};
//
// Command-line flags override config file values. A file that fails to parse
// is ignored with a warning.
func resolve(ctx context.Context, name string) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		model, err := lang.ParseReader(ctx, r)
		if err != nil {
			log.WarnContext(ctx, "ignoring configuration file",
				slog.Any("error", err))

			return config{}, nil
		}

		v, ok := model.Get(name)
		if !ok {
			return config{}, nil
		}

		dict, ok := v.(*lang.Dictionary)
		if !ok {
			log.WarnContext(ctx, "ignoring configuration variable",
				slog.String("name", name),
				slog.String("type", v.Type().String()))

			return config{}, nil
		}

		cfg := make(config)
		cfg.flatten("", dict)

		return cfg, nil
	}
}

// config implements [kong.Resolver] over flattened configuration values.
type config map[string]any

// flatten adds the entries of d to c, joining nested keys with "_".
func (c config) flatten(prefix string, d *lang.Dictionary) {
	for key, val := range d.All() {
		if prefix != "" {
			key = prefix + "_" + key
		}

		switch v := val.(type) {
		case *lang.Dictionary:
			c.flatten(key, v)

		// Kong requires numbers as strings for parsing
		case lang.Integer:
			c[key] = strconv.FormatInt(int64(v), 10)

		case lang.Float:
			c[key] = strconv.FormatFloat(float64(v), 'f', -1, 64)

		default:
			c[key] = lang.ToNative(v)
		}
	}
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error {
	// No validation needed - the config was already parsed successfully
	return nil
}

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens but cfgx identifiers use underscores. Try both
	// forms.
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	if value, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}
