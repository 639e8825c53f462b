// Package main is the entry point for the statehistory REPL.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/statehistory/internal/app"
	"github.com/dshills/statehistory/internal/config"
	"github.com/dshills/statehistory/internal/logging"
	"github.com/dshills/statehistory/internal/script"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errUsage means the flags were invalid and usage has been printed.
var errUsage = errors.New("usage")

type options struct {
	ConfigPath  string
	LogLevel    string
	ScriptPath  string
	Interactive bool
	ShowVersion bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if opts.ShowVersion {
		fmt.Fprintf(stdout, "statehistory %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	cfg := config.New(config.WithFile(opts.ConfigPath))
	if err := cfg.Load(); err != nil {
		fmt.Fprintf(stderr, "Error: failed to load config: %v\n", err)
		return 1
	}
	if opts.LogLevel != "" {
		cfg.Set("logging.level", opts.LogLevel)
	}

	// Section accessors record type errors, so read them all before reporting.
	logCfg := cfg.Logging()
	replCfg := cfg.REPL()
	scriptCfg := cfg.Script()

	logger := logging.New(logging.Config{
		Level:  logging.ParseLevel(logCfg.Level),
		Output: stderr,
		Prefix: logCfg.Prefix,
	})
	for path, err := range cfg.ConfigErrors() {
		logger.Warn("config %s: %v, using default", path, err)
	}

	session := app.NewSession(app.Options{
		Logger: logger,
		Output: stdout,
		Prompt: replCfg.Prompt,
		Echo:   replCfg.Echo,
	})

	if opts.ScriptPath != "" {
		state := session.NewScriptState(
			script.WithTimeout(scriptCfg.Timeout),
			script.WithCallLimit(scriptCfg.CallLimit),
		)
		defer state.Close()

		logger.Debug("running script %s", opts.ScriptPath)
		if err := state.RunFile(ctx, opts.ScriptPath); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		if !opts.Interactive {
			return 0
		}
	}

	if err := session.Run(ctx, stdin); err != nil {
		if errors.Is(err, context.Canceled) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("statehistory", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.ConfigPath, "config", "", "Path to TOML configuration file")
	fs.StringVar(&opts.ConfigPath, "c", "", "Path to TOML configuration file (shorthand)")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error); overrides config")
	fs.StringVar(&opts.ScriptPath, "script", "", "Run a Lua script against the history")
	fs.StringVar(&opts.ScriptPath, "s", "", "Run a Lua script against the history (shorthand)")
	fs.BoolVar(&opts.Interactive, "i", false, "Continue with the REPL after -script")
	fs.BoolVar(&opts.ShowVersion, "version", false, "Show version information")
	fs.BoolVar(&opts.ShowVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "statehistory - linear undo/redo history REPL\n\n")
		fmt.Fprintf(stderr, "Usage: statehistory [options]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  statehistory                   Start the REPL (type help)\n")
		fmt.Fprintf(stderr, "  statehistory -s steps.lua      Run a script\n")
		fmt.Fprintf(stderr, "  statehistory -s steps.lua -i   Run a script, then the REPL\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	if opts.LogLevel != "" && !logging.ValidLevel(opts.LogLevel) {
		fmt.Fprintf(stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		return opts, errUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "Error: unexpected arguments: %v\n", fs.Args())
		fs.Usage()
		return opts, errUsage
	}

	return opts, nil
}
