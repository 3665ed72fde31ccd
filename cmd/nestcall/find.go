package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xonecas/nestcall/internal/discover"
)

func newFindCmd(_ *app) *cobra.Command {
	var root string
	cmd := &cobra.Command{
		Use:   "find CLASS",
		Short: "Print file:line of every declaration of a class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hits, err := discover.FindClass(commandContext(cmd), root, args[0])
			if err != nil {
				return err
			}
			if len(hits) == 0 {
				return fmt.Errorf("class %s not found under %s", args[0], root)
			}
			for _, h := range hits {
				fmt.Fprintf(cmd.OutOrStdout(), "%s:%d\n", h.Path, h.Line)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&root, "root", ".", "project directory to search")
	return cmd
}

// expandPaths replaces directories with the source files found beneath them.
func expandPaths(ctx context.Context, args []string) ([]string, error) {
	var out []string
	for _, p := range args {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		files, err := discover.Sources(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		out = append(out, files...)
	}
	return out, nil
}
