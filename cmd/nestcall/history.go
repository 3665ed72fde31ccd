package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xonecas/nestcall/internal/store"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded invocations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := a.history()
			if err != nil {
				return err
			}
			if h == nil {
				return errors.New("history is disabled")
			}
			defer h.Close()

			entries, err := h.Recent(limit)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\n", e.Created.Format("2006-01-02 15:04"), e.File, e.Command)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of entries")
	return cmd
}

func newLastCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "last",
		Short: "Print the most recent invocation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := a.history()
			if err != nil {
				return err
			}
			if h == nil {
				return errors.New("history is disabled")
			}
			defer h.Close()

			e, err := h.Last()
			if errors.Is(err, store.ErrEmpty) {
				return errors.New("no invocations recorded yet")
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.Command)
			return nil
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
