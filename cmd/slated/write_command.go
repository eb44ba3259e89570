package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"slated/internal/config"
)

func newWriteCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "write <file>",
		Short: "Edit one file's metadata and write it back immediately",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := changedFieldValues(cmd)
			if len(values) == 0 {
				return errors.New("no field flags given; see `slated write --help`")
			}
			svc, _, err := ctx.ensureService()
			if err != nil {
				return err
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}

			record, err := svc.ReadMetadata(cmd.Context(), path)
			if err != nil {
				return err
			}
			for field, value := range values {
				record.SetFieldValue(field, value)
			}
			if err := svc.WriteMetadata(cmd.Context(), path, record); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote metadata to %s\n", path)
			return nil
		},
	}

	addFieldFlags(cmd)
	return cmd
}
