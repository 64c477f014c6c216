package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voxelview/voxelview/internal/store"
)

// NewSnapshotCommand creates the snapshot command group backed by the
// SQLite snapshot store.
func NewSnapshotCommand(opts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Manage saved navigation-state snapshots",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "voxelview.db", "snapshot database path")

	cmd.AddCommand(newSnapshotSaveCommand(opts, &dbPath))
	cmd.AddCommand(newSnapshotListCommand(opts, &dbPath))
	cmd.AddCommand(newSnapshotShowCommand(opts, &dbPath))
	cmd.AddCommand(newSnapshotDeleteCommand(opts, &dbPath))
	return cmd
}

func newSnapshotSaveCommand(opts *RootOptions, dbPath *string) *cobra.Command {
	var statePath, spacePath string

	cmd := &cobra.Command{
		Use:   "save NAME",
		Short: "Save a state document as a new snapshot revision",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			space, err := loadSpaceFile(spacePath, nil)
			if err != nil {
				return err
			}
			doc, err := loadStateFile(statePath)
			if err != nil {
				return err
			}

			// Normalize through a restore/encode round trip before storing.
			state, _ := newState(space)
			defer state.Release()
			if err := state.RestoreState(doc); err != nil {
				return fmt.Errorf("restoring state: %w", err)
			}
			normalized := state.EncodeState()
			if normalized == nil {
				normalized = map[string]any{}
			}

			db, err := store.Open(*dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			snap, err := db.Save(cmd.Context(), name, normalized, space)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s revision %d (%s)\n", snap.Name, snap.Revision, snap.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&statePath, "state", "", "navigation-state JSON file")
	cmd.Flags().StringVar(&spacePath, "space", "", "CUE coordinate-space definition")
	cmd.MarkFlagRequired("state")
	cmd.MarkFlagRequired("space")
	return cmd
}

func newSnapshotListCommand(opts *RootOptions, dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the latest revision of every snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.Open(*dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			snaps, err := db.List(cmd.Context())
			if err != nil {
				return err
			}

			if opts.Format == "json" {
				out := make([]map[string]any, len(snaps))
				for i, snap := range snaps {
					out[i] = map[string]any{
						"id":        snap.ID,
						"name":      snap.Name,
						"revision":  snap.Revision,
						"createdAt": snap.CreatedAt,
					}
				}
				return writeJSON(cmd.OutOrStdout(), out)
			}
			for _, snap := range snaps {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\trev %d\t%s\n", snap.Name, snap.Revision, snap.CreatedAt)
			}
			return nil
		},
	}
}

func newSnapshotShowCommand(opts *RootOptions, dbPath *string) *cobra.Command {
	var revision int64

	cmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Show a saved snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.Open(*dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			var snap *store.Snapshot
			if revision > 0 {
				snap, err = db.LoadRevision(cmd.Context(), args[0], revision)
			} else {
				snap, err = db.Load(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}

			var doc any
			if err := json.Unmarshal(snap.State, &doc); err != nil {
				return fmt.Errorf("decoding snapshot state: %w", err)
			}
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"name":     snap.Name,
					"revision": snap.Revision,
					"state":    doc,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s revision %d (%s)\n", snap.Name, snap.Revision, snap.CreatedAt)
			return writeDoc(cmd.OutOrStdout(), opts.Format, doc)
		},
	}

	cmd.Flags().Int64Var(&revision, "revision", 0, "revision to show (default latest)")
	return cmd
}

func newSnapshotDeleteCommand(opts *RootOptions, dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete every revision of a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.Open(*dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}
