package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/alexanderramin/accredit/internal/cli/formatter"
	"github.com/spf13/cobra"
)

var errNoSnapshotStore = errors.New("no snapshot database configured")

func newDataCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Export or import the whole dataset as JSON",
	}

	cmd.AddCommand(newDataExportCmd(app), newDataImportCmd(app))

	return cmd
}

func newDataExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export [FILE]",
		Short: "Write the dataset as JSON to FILE or stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Data == nil {
				return errNoSnapshotStore
			}
			if len(args) == 0 {
				return app.Data.Export(cmd.Context(), cmd.OutOrStdout())
			}
			if err := app.Data.ExportFile(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported dataset to %s\n", args[0])
			return nil
		},
	}
}

func newDataImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the dataset with the contents of FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Data == nil {
				return errNoSnapshotStore
			}
			ctx := cmd.Context()
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening import file: %w", err)
			}
			defer f.Close()

			result, err := app.Data.Import(ctx, f)
			if err != nil {
				return err
			}
			if err := app.persist(ctx, "import "+args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s: %s\n", args[0], formatCounts(result.Counts))
			return nil
		},
	}
}

func formatCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%d %s", counts[k], k)
	}
	return strings.Join(parts, ", ")
}

func newSnapshotCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "snapshot",
		Aliases: []string{"snap"},
		Short:   "Inspect and restore saved dataset snapshots",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Data == nil {
				return errNoSnapshotStore
			}
			// cobra runs only the nearest persistent pre-run.
			if root := cmd.Root(); root.PersistentPreRunE != nil {
				return root.PersistentPreRunE(cmd, args)
			}
			return nil
		},
	}

	cmd.AddCommand(
		newSnapshotListCmd(app),
		newSnapshotDiffCmd(app),
		newSnapshotRestoreCmd(app),
		newSnapshotPruneCmd(app),
	)

	return cmd
}

func newSnapshotListCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List snapshots, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			snaps, err := app.Data.ListSnapshots(cmd.Context(), limit)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSnapshots(snaps, app.now()))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum snapshots to list (0 for all)")

	return cmd
}

func newSnapshotDiffCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "diff FROM [TO]",
		Short: "Diff two snapshots, or a snapshot against the current data",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			to := ""
			if len(args) == 2 {
				to = args[1]
			}
			d, err := app.Data.DiffSnapshots(cmd.Context(), args[0], to)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDiff(d))
			return nil
		},
	}
}

func newSnapshotRestoreCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "restore ID",
		Short: "Load a snapshot and record the restore as a new snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := app.Data.Restore(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored snapshot %s from %s (%s)\n",
				info.ID, info.CreatedAt.Format("2006-01-02 15:04"), info.Reason)
			return nil
		},
	}
}

func newSnapshotPruneCmd(app *App) *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := app.Data.PruneSnapshots(cmd.Context(), keep)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d snapshots\n", removed)
			return nil
		},
	}

	cmd.Flags().IntVar(&keep, "keep", 10, "Number of snapshots to keep")

	return cmd
}
