package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"slated/internal/config"
	"slated/internal/metadata"
)

func newReadCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read <file>",
		Short: "Resolve and display one file's metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			if ctx.jsonOutput() || !isTerminal(cmd.OutOrStdout()) {
				return writeJSON(cmd, record)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderRecord(record))
			return nil
		},
	}
	return cmd
}

func renderRecord(record *metadata.Record) string {
	rows := [][]string{
		{"path", record.Path},
	}
	for _, field := range structuralFields {
		value := record.FieldValue(field)
		switch field {
		case "wildtrack":
			value = record.Wildtrack
		case "circled":
			value = record.Circled
		}
		rows = append(rows, []string{field, value})
	}
	rows = append(rows,
		[]string{"format", record.Info.Format},
		[]string{"sample_rate", fmt.Sprintf("%d", record.Info.SampleRate)},
		[]string{"bit_depth", fmt.Sprintf("%d", record.Info.BitDepth)},
		[]string{"channels", fmt.Sprintf("%d", record.Info.Channels)},
		[]string{"duration", fmt.Sprintf("%.2fs", record.Info.DurationSeconds)},
	)
	return renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignLeft})
}
