package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/cfgx/cli/cmd"
	"github.com/ardnew/cfgx/pkg"
)

// CLI is the top-level command-line interface for cfgx.
//
// Without a command, the arguments are sources translated by [cmd.XML], so
//
//	cfgx app.cfgx
//
// prints the XML document for app.cfgx.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	XML   cmd.XML   `cmd:"" default:"withargs" help:"Translate source to XML" name:"xml"`
	Fmt   cmd.Fmt   `cmd:""                    help:"Format source"`
	Query cmd.Query `cmd:""                    help:"Evaluate an expression over source bindings"`
	Repl  cmd.Repl  `cmd:""                    help:"Start an interactive session"`
	Init  cmd.Init  `cmd:""                    help:"Initialize configuration file"`
}

// Run parses args and executes the selected cfgx command.
// The exit function is called by kong after printing help or version.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	if err := mkdirAllRequired(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var cli CLI

	// Logger flags take effect before kong reports any parse error.
	cli.Log.scan(args)

	parser, err := kong.New(&cli, cli.options(ctx, exit)...)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	cli.Log.start(ctx)

	// No-op unless built with tag pprof.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}

// options returns the kong options shared by every invocation.
//
// Configuration is read from two files in [pkg.ConfigDir]: "config", cfgx
// source written by the init command, and "config.json" for kong's own
// JSON loader. Flags given on the command line take precedence over both.
func (c *CLI) options(ctx context.Context, exit func(int)) []kong.Option {
	configFile := configPath(baseConfig)

	vars := kong.Vars{
		"version":            pkg.Version,
		cmd.ConfigIdentifier: configFile,
		cmd.CacheIdentifier:  pkg.CacheDir(),
	}

	return []kong.Option{
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups([]kong.Group{c.Log.group(), c.Pprof.group()}),
		kong.BindSingletonProvider(func() context.Context { return ctx }),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			Summary:             true,
			Tree:                true,
			NoExpandSubcommands: true,
		}),
		kong.Configuration(kong.JSON, configFile+".json"),
		kong.Configuration(resolve(ctx, baseConfig), configFile),
		vars.CloneWith(c.Log.vars()).CloneWith(c.Pprof.vars()),
	}
}
