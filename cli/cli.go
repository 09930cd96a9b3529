package cli

import (
	"context"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/symscope/cli/cmd"
	"github.com/ardnew/symscope/lang"
	"github.com/ardnew/symscope/pkg"
)

// CLI is the top-level command-line interface for symscope.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Scope cmd.ScopeFlags `embed:""`

	Version kong.VersionFlag `help:"Print version information and exit." short:"V"`

	Resolve cmd.Resolve `cmd:"" default:"withargs" help:"Substitute the scope into an expression"`
	Eval    cmd.Eval    `cmd:""                    help:"Evaluate an expression against the scope"`
	Fmt     cmd.Fmt     `cmd:""                    help:"Format an expression without resolving it"`
	IR      cmd.IR      `cmd:""                    help:"Print LLVM IR computing a resolved expression" name:"ir"`
	Help    cmd.Help    `cmd:""                    help:"Show documentation of builtin functions and constants"`
	Repl    cmd.Repl    `cmd:""                    help:"Start an interactive session"`
	Init    cmd.Init    `cmd:""                    help:"Initialize configuration file"`
}

// Run executes the symscope CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := pkg.MkdirAll()
	if err != nil {
		return err
	}

	configFilePath := pkg.ConfigPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier:   configFilePath,
		cmd.CacheIdentifier:    pkg.CacheDir(),
		cmd.MaxDepthIdentifier: strconv.Itoa(lang.DefaultMaxDepth),
		cmd.MaxChainIdentifier: strconv.Itoa(lang.DefaultMaxChain),
		"version":              pkg.Name + " " + pkg.Version,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags so that configuration and scope loading log
	// with the requested settings regardless of flag position.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, pkg.ConfigPath("config.json")),
		kong.Configuration(loadYAML(ctx), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	defer cli.Log.start(ctx)()

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithMaxDepth(ctx, cli.Scope.MaxDepth)
	ctx = cmd.WithMaxChain(ctx, cli.Scope.MaxChain)

	scope, err := cli.Scope.Load(ctx)
	if err != nil {
		return err
	}

	ctx = cmd.WithScope(ctx, scope)

	// Execute the selected command
	return ktx.Run(ctx, &cli)
}
