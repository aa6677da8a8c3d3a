package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/tocnav/internal/config"
	"git.home.luguber.info/inful/tocnav/internal/foundation/errors"
	"git.home.luguber.info/inful/tocnav/internal/logfields"
	"git.home.luguber.info/inful/tocnav/internal/observability"
	"git.home.luguber.info/inful/tocnav/internal/version"
)

// Global carries state shared by every command.
type Global struct {
	Logger *slog.Logger
	Config *config.Config

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewGlobal returns a Global bound to the process streams.
func NewGlobal() *Global {
	return &Global{
		Logger: slog.Default(),
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"tocnav.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Transform TransformCmd `cmd:"" help:"Wrap a hast JSON TOC tree in the navigation container"`
	TOC       TOCCmd       `cmd:"" name:"toc" help:"Print the table of contents of one Markdown document"`
	Build     BuildCmd     `cmd:"" help:"Render a directory of Markdown documents into HTML pages"`
	Watch     WatchCmd     `cmd:"" help:"Rebuild pages whenever Markdown sources change"`
	Init      InitCmd      `cmd:"" help:"Initialize a new configuration file"`
}

// NewParser builds the kong parser for cli. global is bound for hooks and Run methods.
func NewParser(cli *CLI, global *Global, opts ...kong.Option) (*kong.Kong, error) {
	base := []kong.Option{
		kong.Name("tocnav"),
		kong.Description("Table of contents generation for Markdown sites"),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(global),
	}
	return kong.New(cli, append(base, opts...)...)
}

// Execute parses args, runs the selected command and returns the process exit
// code. Classified errors, including those raised while loading configuration
// during parsing, are reported through the CLI error adapter; other parse errors
// print usage the kong way.
func Execute(args []string, cli *CLI, g *Global, opts ...kong.Option) int {
	parser, err := NewParser(cli, g, opts...)
	if err != nil {
		g.Logger.Error("Failed to build command line parser", logfields.Error(err))
		return 10
	}
	report := func(err error) int {
		return errors.NewCLIErrorAdapter(cli.Verbose, g.Logger).WithOutput(g.Stderr).Report(err)
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		if _, ok := errors.AsClassified(err); ok {
			return report(err)
		}
		parser.FatalIfErrorf(err)
		return 1
	}
	return report(ctx.Run(g, cli))
}

// AfterApply runs after flag parsing; it loads the configuration and sets up
// logging once for every command.
func (c *CLI) AfterApply(g *Global) error {
	cfg, err := config.LoadOptional(c.Config)
	if err != nil {
		return err
	}
	g.Config = cfg
	g.Logger = newLogger(g.Stderr, cfg.Logging, c.Verbose)
	slog.SetDefault(g.Logger)
	return nil
}

func newLogger(w io.Writer, cfg config.LoggingConfig, verbose bool) *slog.Logger {
	level := cfg.Level.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler = slog.NewTextHandler(w, opts)
	if cfg.Format == config.LogFormatJSON {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(observability.NewContextHandler(h))
}

// resolveOutputDir picks the CLI flag over the configured directory.
func resolveOutputDir(cliOutput string, cfg *config.Config) string {
	if cliOutput != "" {
		return cliOutput
	}
	return cfg.Output.Directory
}
