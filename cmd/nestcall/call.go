package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/xonecas/nestcall/internal/highlight"
	"github.com/xonecas/nestcall/internal/invoke"
	"github.com/xonecas/nestcall/internal/prompt"
	"github.com/xonecas/nestcall/internal/store"
	"github.com/xonecas/nestcall/internal/treesitter"
)

// isTerminal is replaced in tests.
var isTerminal = func() bool { return term.IsTerminal(os.Stdin.Fd()) }

func newCallCmd(a *app) *cobra.Command {
	var (
		sel       selectionFlags
		values    []string
		assign    bool
		noHistory bool
	)

	cmd := &cobra.Command{
		Use:   "call [FILE]",
		Short: "Print the REPL invocation for the selected method",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := sel.selection()
			if err != nil {
				return err
			}
			path := fileArg(args)
			tree, err := a.build(cmd, path)
			if err != nil {
				return err
			}
			defer tree.Close()

			ex, err := tree.Extract(s)
			if err != nil {
				return err
			}
			call, err := invoke.Target(ex)
			if err != nil {
				return err
			}

			opts := invoke.Options{
				Accessor: a.cfg.REPL.AccessorOrDefault(),
				Assign:   assign || a.cfg.REPL.Assign,
			}
			collected, err := a.collector(values).Collect(commandContext(cmd), invoke.Format(call, opts), call.Method.Args)
			if err != nil {
				return err
			}
			call, err = call.Bind(collected)
			if err != nil {
				return err
			}

			line := invoke.Format(call, opts)
			fmt.Fprintln(cmd.OutOrStdout(), line)

			if noHistory {
				return nil
			}
			a.record(store.Entry{File: path, Class: call.Class, Method: call.Method.Name, Command: line})
			return nil
		},
	}

	sel.register(cmd)
	cmd.Flags().StringArrayVar(&values, "arg", nil, "argument value, repeat in parameter order")
	cmd.Flags().BoolVar(&assign, "assign", false, "prefix with `let <method> = `")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record this invocation")
	return cmd
}

// collector prompts only when no values were given on the command line and
// a terminal is available to answer.
func (a *app) collector(values []string) prompt.Collector {
	if len(values) > 0 || a.stdin || !isTerminal() {
		return prompt.Static(values)
	}
	pal := highlight.ThemePalette(a.cfg.UI.SyntaxThemeOrDefault())
	return prompt.Interactive{Colors: prompt.Colors{Accent: pal.Accent, Dim: pal.Dim}}
}

// record stores an invocation. Failures are logged, never returned.
func (a *app) record(e store.Entry) {
	h, err := a.history()
	if err != nil {
		log.Warn().Err(err).Msg("history unavailable")
		return
	}
	defer h.Close()
	if err := h.Record(e); err != nil {
		log.Warn().Err(err).Msg("failed to record invocation")
	}
}

func newDescribeCmd(a *app) *cobra.Command {
	var sel selectionFlags
	cmd := &cobra.Command{
		Use:   "describe [FILE]",
		Short: "Print classes and selected methods as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := sel.selection()
			if err != nil {
				return err
			}
			tree, err := a.build(cmd, fileArg(args))
			if err != nil {
				return err
			}
			defer tree.Close()

			ex, err := tree.Extract(s)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), ex)
		},
	}
	sel.register(cmd)
	return cmd
}

func newOutlineCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "outline [FILE|DIR...]",
		Short: "List classes and their callable methods",
		Long: `List classes and their callable methods. Directories are walked for
TypeScript and JavaScript sources, honoring .gitignore.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := []string{fileArg(args)}
			if !a.stdin {
				if len(args) == 0 {
					return errors.New("a file argument or --stdin is required")
				}
				var err error
				if paths, err = expandPaths(commandContext(cmd), args); err != nil {
					return err
				}
			}

			var files []treesitter.FileOutline
			for _, p := range paths {
				tree, err := a.build(cmd, p)
				if err != nil {
					return fmt.Errorf("%s: %w", p, err)
				}
				name := p
				if name == "" {
					name = "<stdin>"
				}
				o, err := tree.Outline(name)
				tree.Close()
				if err != nil {
					return fmt.Errorf("%s: %w", p, err)
				}
				files = append(files, o)
			}
			fmt.Fprint(cmd.OutOrStdout(), treesitter.FormatOutline(files))
			return nil
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	var (
		line  int
		plain bool
	)
	cmd := &cobra.Command{
		Use:   "show [FILE]",
		Short: "Print the source of the function enclosing a line",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := a.build(cmd, fileArg(args))
			if err != nil {
				return err
			}
			defer tree.Close()

			r, err := tree.EnclosingMethod(line)
			if err != nil {
				return err
			}
			if r == nil {
				return fmt.Errorf("line %d is not inside a function", line)
			}
			text := tree.Lines(*r)
			if !plain {
				text = highlight.Highlight(text, highlight.LexerFor(tree.Language()), a.cfg.UI.SyntaxThemeOrDefault())
			}
			fmt.Fprintln(cmd.OutOrStdout(), highlight.Number(text, r.Start))
			return nil
		},
	}
	cmd.Flags().IntVar(&line, "line", 0, "1-based cursor line")
	cmd.Flags().BoolVar(&plain, "plain", false, "disable syntax highlighting")
	_ = cmd.MarkFlagRequired("line")
	return cmd
}
