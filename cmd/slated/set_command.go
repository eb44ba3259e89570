package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"slated/internal/config"
	"slated/internal/session"
)

func newSetCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <path>",
		Short: "Record pending field edits on a workspace record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := changedFieldValues(cmd)
			if len(values) == 0 {
				return errors.New("no field flags given; see `slated set --help`")
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}

			return ctx.withStore(func(store *session.Store) error {
				for _, field := range structuralFields {
					value, ok := values[field]
					if !ok {
						continue
					}
					if err := store.SetField(cmd.Context(), path, field, value); err != nil {
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded %d edit(s) for %s (run `slated save` to write back)\n", len(values), path)
				return nil
			})
		},
	}

	addFieldFlags(cmd)
	return cmd
}
