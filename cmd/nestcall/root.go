package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/x/term"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/xonecas/nestcall/internal/config"
	"github.com/xonecas/nestcall/internal/store"
	"github.com/xonecas/nestcall/internal/treesitter"
)

// app carries the global flags and the loaded configuration to subcommands.
type app struct {
	cfgFile  string
	logLevel string
	lang     string
	stdin    bool

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "nestcall",
		Short: "Build REPL invocations from NestJS service methods",
		Long: `nestcall parses a TypeScript or JavaScript file with tree-sitter, finds the
method under the cursor (or inside a line range) and prints the expression
that calls it from a NestJS REPL session.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	defaultCfg := ""
	if dir, err := config.DataDir(); err == nil {
		defaultCfg = filepath.Join(dir, "config.toml")
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", defaultCfg, "config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.lang, "lang", "", "language hint (ts, tsx, js); defaults to the file extension")
	root.PersistentFlags().BoolVar(&a.stdin, "stdin", false, "read source from standard input")

	root.AddCommand(
		newCallCmd(a),
		newDescribeCmd(a),
		newOutlineCmd(a),
		newShowCmd(a),
		newHistoryCmd(a),
		newLastCmd(a),
		newFindCmd(a),
	)
	return root
}

// setup loads configuration and configures the global logger.
func (a *app) setup(stderr io.Writer) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: "15:04:05", NoColor: !isColorTerminal(stderr)}).
		With().Timestamp().Logger()
	zerolog.SetGlobalLevel(cfg.Log.LevelOrDefault())
	return nil
}

// source reads the input named by path, or standard input with --stdin.
// The returned hint comes from --lang or the file extension.
func (a *app) source(cmd *cobra.Command, path string) ([]byte, string, error) {
	var (
		src []byte
		err error
	)
	if a.stdin {
		src, err = io.ReadAll(cmd.InOrStdin())
	} else {
		if path == "" {
			return nil, "", errors.New("a file argument or --stdin is required")
		}
		src, err = os.ReadFile(path) //nolint:gosec // G304: user-supplied source file
	}
	if err != nil {
		return nil, "", fmt.Errorf("read source: %w", err)
	}

	hint := a.lang
	if hint == "" {
		hint = treesitter.HintForPath(path)
	}
	if hint == "" {
		return nil, "", errors.New("cannot infer language, pass --lang")
	}
	if !treesitter.Supported(hint) {
		return nil, "", fmt.Errorf("%w: %q", treesitter.ErrParserUnavailable, hint)
	}
	return src, hint, nil
}

// build parses the input into a SourceTree. Callers close it.
func (a *app) build(cmd *cobra.Command, path string) (*treesitter.SourceTree, error) {
	src, hint, err := a.source(cmd, path)
	if err != nil {
		return nil, err
	}
	return treesitter.Build(commandContext(cmd), src, hint)
}

// history opens the invocation history, or returns nil when disabled.
func (a *app) history() (*store.History, error) {
	if !a.cfg.History.IsEnabled() {
		return nil, nil
	}
	path, err := a.cfg.History.PathOrDefault()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	return store.Open(path, a.cfg.History.KeepOrDefault())
}

// isColorTerminal reports whether w is a terminal that renders ANSI colors.
func isColorTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// fileArg returns the optional FILE positional argument.
func fileArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
