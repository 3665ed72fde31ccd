package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/xonecas/nestcall/internal/treesitter"
)

// selectionFlags binds --line or --start/--end.
type selectionFlags struct {
	line  int
	start int
	end   int
}

func (s *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&s.line, "line", 0, "1-based cursor line")
	cmd.Flags().IntVar(&s.start, "start", 0, "first line of an explicit range")
	cmd.Flags().IntVar(&s.end, "end", 0, "last line of an explicit range")
	cmd.MarkFlagsMutuallyExclusive("line", "start")
	cmd.MarkFlagsMutuallyExclusive("line", "end")
	cmd.MarkFlagsRequiredTogether("start", "end")
}

func (s *selectionFlags) selection() (treesitter.Selection, error) {
	switch {
	case s.start != 0 || s.end != 0:
		return treesitter.Lines(s.start, s.end)
	case s.line > 0:
		return treesitter.Cursor(s.line), nil
	default:
		return treesitter.Selection{}, errors.New("one of --line or --start/--end is required")
	}
}
