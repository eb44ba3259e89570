package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"slated/internal/session"
)

func newConflictsCommand(ctx *commandContext) *cobra.Command {
	flags := &mirrorFlags{}

	cmd := &cobra.Command{
		Use:   "conflicts [paths...]",
		Short: "Dry-run the mirror conflict scan",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cfg, err := ctx.ensureService()
			if err != nil {
				return err
			}
			mirrorCfg, err := flags.build(cfg, args)
			if err != nil {
				return err
			}

			return ctx.withStore(func(store *session.Store) error {
				records, err := workspaceRecords(cmd, store)
				if err != nil {
					return err
				}

				conflicts, err := svc.CheckFileConflicts(cmd.Context(), mirrorCfg, records)
				if err != nil {
					return err
				}

				if ctx.jsonOutput() {
					return writeJSON(cmd, conflicts)
				}
				out := cmd.OutOrStdout()
				if len(conflicts) == 0 {
					fmt.Fprintln(out, "No conflicts")
					return nil
				}
				for _, conflict := range conflicts {
					fmt.Fprintln(out, conflict)
				}
				return nil
			})
		},
	}

	flags.register(cmd)
	return cmd
}
