package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"slated/internal/session"
)

func newLsCommand(ctx *commandContext) *cobra.Command {
	var dirtyOnly bool

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List workspace records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *session.Store) error {
				list := store.List
				if dirtyOnly {
					list = store.Dirty
				}
				items, err := list(cmd.Context())
				if err != nil {
					return err
				}

				if ctx.jsonOutput() || !isTerminal(cmd.OutOrStdout()) {
					return writeJSON(cmd, items)
				}

				out := cmd.OutOrStdout()
				if len(items) == 0 {
					fmt.Fprintln(out, "Workspace is empty; run `slated scan <dir>` first")
					return nil
				}

				rows := make([][]string, 0, len(items))
				for _, item := range items {
					dirty := ""
					if item.Dirty {
						dirty = "*"
					}
					rows = append(rows, []string{
						item.Filename, item.Show, item.Scene, item.Take,
						item.Category, item.Circled, dirty,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"File", "Show", "Scene", "Take", "Category", "Circled", "Edited"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&dirtyOnly, "dirty", false, "Show only records with unsaved edits")
	return cmd
}
