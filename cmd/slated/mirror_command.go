package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"slated/internal/config"
	"slated/internal/metadata"
	"slated/internal/mirror"
	"slated/internal/session"
)

type mirrorFlags struct {
	destination string
	organizeBy  []string
	concurrency int
	verify      bool
}

func (f *mirrorFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.destination, "dest", "", "Destination root (default from config)")
	cmd.Flags().StringSliceVar(&f.organizeBy, "by", nil, "Organize levels, e.g. show,scene (default from config)")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 0, "Worker count (default from config)")
	cmd.Flags().BoolVar(&f.verify, "verify", false, "Verify copies by checksum")
}

// build merges flags over config defaults and expands the selected paths.
func (f *mirrorFlags) build(cfg *config.Config, args []string) (mirror.Config, error) {
	destination := strings.TrimSpace(f.destination)
	if destination == "" {
		destination = cfg.Mirror.DestinationRoot
	}
	expanded, err := config.ExpandPath(destination)
	if err != nil {
		return mirror.Config{}, fmt.Errorf("resolve destination root: %w", err)
	}

	organizeBy := f.organizeBy
	if len(organizeBy) == 0 {
		organizeBy = cfg.Mirror.OrganizeBy
	}
	levels := make([]mirror.OrganizeLevel, 0, len(organizeBy))
	for i, field := range organizeBy {
		field = strings.ToLower(strings.TrimSpace(field))
		if !config.OrganizeFieldAllowed(field) {
			return mirror.Config{}, fmt.Errorf("unknown organize field %q (allowed: show, scene, category, subcategory, take)", field)
		}
		levels = append(levels, mirror.OrganizeLevel{Field: field, Order: i})
	}

	concurrency := f.concurrency
	if concurrency <= 0 {
		concurrency = cfg.Mirror.Concurrency
	}

	selected := make([]string, 0, len(args))
	for _, arg := range args {
		path, err := config.ExpandPath(arg)
		if err != nil {
			return mirror.Config{}, fmt.Errorf("resolve path: %w", err)
		}
		selected = append(selected, path)
	}

	return mirror.Config{
		DestinationRoot: expanded,
		OrganizeLevels:  levels,
		SelectedPaths:   selected,
		Concurrency:     concurrency,
		VerifyCopies:    f.verify || cfg.Mirror.VerifyCopies,
	}, nil
}

func workspaceRecords(cmd *cobra.Command, store *session.Store) ([]*metadata.Record, error) {
	items, err := store.List(cmd.Context())
	if err != nil {
		return nil, err
	}
	records := make([]*metadata.Record, 0, len(items))
	for _, item := range items {
		records = append(records, &item.Record)
	}
	return records, nil
}

func newMirrorCommand(ctx *commandContext) *cobra.Command {
	flags := &mirrorFlags{}

	cmd := &cobra.Command{
		Use:   "mirror [paths...]",
		Short: "Copy workspace records into a metadata-organized tree",
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

				result, err := svc.MirrorFiles(cmd.Context(), mirrorCfg, records)
				if err != nil {
					return err
				}
				if err := store.RecordMirrorRun(cmd.Context(), mirrorCfg.DestinationRoot, result); err != nil {
					return err
				}

				if ctx.jsonOutput() {
					return writeJSON(cmd, result)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Copied %d file(s) to %s\n", result.CopiedCount, mirrorCfg.DestinationRoot)
				for _, conflict := range result.Conflicts {
					fmt.Fprintf(out, "  skipped %s: destination %s exists\n", conflict.SourcePath, conflict.Destination)
				}
				for _, fileErr := range result.Errors {
					fmt.Fprintf(out, "  failed %s: %s\n", fileErr.Path, fileErr.Message)
				}
				if !result.Success {
					return fmt.Errorf("%d file(s) failed to mirror", len(result.Errors))
				}
				return nil
			})
		},
	}

	flags.register(cmd)
	return cmd
}
