package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"slated/internal/config"
	"slated/internal/session"
)

func newSaveCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save [paths...]",
		Short: "Write pending edits back into the files",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := ctx.ensureService()
			if err != nil {
				return err
			}

			return ctx.withStore(func(store *session.Store) error {
				items, err := selectSaveItems(cmd, store, args)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(items) == 0 {
					fmt.Fprintln(out, "Nothing to save")
					return nil
				}

				saved := 0
				var failures []string
				for _, item := range items {
					if err := svc.WriteMetadata(cmd.Context(), item.Path, &item.Record); err != nil {
						failures = append(failures, fmt.Sprintf("%s: %v", item.Path, err))
						continue
					}
					// Refresh the workspace entry from the file it now matches.
					record, readErr := svc.ReadMetadata(cmd.Context(), item.Path)
					if readErr == nil {
						err = store.Upsert(cmd.Context(), record)
					} else {
						err = store.MarkClean(cmd.Context(), item.Path)
					}
					if err != nil {
						return err
					}
					saved++
				}

				fmt.Fprintf(out, "Saved %d file(s)\n", saved)
				for _, failure := range failures {
					fmt.Fprintf(out, "  failed %s\n", failure)
				}
				if len(failures) > 0 {
					return fmt.Errorf("%d file(s) failed to save", len(failures))
				}
				return nil
			})
		},
	}
	return cmd
}

// selectSaveItems picks explicit paths when given, otherwise every dirty
// record.
func selectSaveItems(cmd *cobra.Command, store *session.Store, args []string) ([]*session.Item, error) {
	if len(args) == 0 {
		return store.Dirty(cmd.Context())
	}
	items := make([]*session.Item, 0, len(args))
	for _, arg := range args {
		path, err := config.ExpandPath(arg)
		if err != nil {
			return nil, fmt.Errorf("resolve path: %w", err)
		}
		item, err := store.Get(cmd.Context(), path)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, fmt.Errorf("no workspace record for %s; run `slated scan` first", path)
		}
		items = append(items, item)
	}
	return items, nil
}
