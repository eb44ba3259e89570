package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"slated/internal/config"
	"slated/internal/session"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "scan <directory>",
		Short: "Scan a directory of WAV files into the workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cfg, err := ctx.ensureService()
			if err != nil {
				return err
			}
			root, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve scan directory: %w", err)
			}

			workers := concurrency
			if workers <= 0 {
				workers = cfg.Mirror.Concurrency
			}
			result, err := svc.ScanDirectory(cmd.Context(), root, workers)
			if err != nil {
				return err
			}

			if err := ctx.withStore(func(store *session.Store) error {
				for _, record := range result.Records {
					if err := store.Upsert(cmd.Context(), record); err != nil {
						return err
					}
				}
				return nil
			}); err != nil {
				return err
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, result)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Scanned %d files into the workspace\n", len(result.Records))
			for _, issue := range result.Issues {
				fmt.Fprintf(out, "  skipped %s: %s (%s)\n", issue.Path, issue.Message, issue.Kind)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Worker count for the scan (default from config)")
	return cmd
}
