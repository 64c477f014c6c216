package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// NewRemapCommand creates the remap command. It restores a state document
// against its original space, swaps in a new space version, and writes the
// remapped state. Dimensions shared by name between the two versions keep
// their identity, so positions rescale instead of resetting.
func NewRemapCommand(opts *RootOptions) *cobra.Command {
	var statePath, fromPath, toPath, outPath string

	cmd := &cobra.Command{
		Use:   "remap",
		Short: "Remap a saved state onto a new space version",
		Long:  "Restores a navigation state against one coordinate space, replaces the space with a newer version, and writes the remapped state.",
		RunE: func(cmd *cobra.Command, args []string) error {
			fromSpace, err := loadSpaceFile(fromPath, nil)
			if err != nil {
				return err
			}
			// Compile the target against the source so shared dimension
			// names carry their IDs across versions.
			toSpace, err := loadSpaceFile(toPath, fromSpace)
			if err != nil {
				return err
			}
			doc, err := loadStateFile(statePath)
			if err != nil {
				return err
			}

			state, provider := newState(fromSpace)
			defer state.Release()
			if err := state.RestoreState(doc); err != nil {
				return fmt.Errorf("restoring state: %w", err)
			}

			provider.Set(toSpace)
			slog.Debug("remapped state",
				"from_rank", fromSpace.Rank, "to_rank", toSpace.Rank)

			out := state.EncodeState()
			if out == nil {
				out = map[string]any{}
			}
			if outPath != "" {
				data, err := json.MarshalIndent(out, "", "  ")
				if err != nil {
					return fmt.Errorf("encoding remapped state: %w", err)
				}
				if err := os.WriteFile(outPath, append(data, '\n'), 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", outPath, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
				return nil
			}
			return writeDoc(cmd.OutOrStdout(), opts.Format, out)
		},
	}

	cmd.Flags().StringVar(&statePath, "state", "", "navigation-state JSON file")
	cmd.Flags().StringVar(&fromPath, "from", "", "CUE definition of the state's original space")
	cmd.Flags().StringVar(&toPath, "to", "", "CUE definition of the target space")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write remapped state to this file instead of stdout")
	cmd.MarkFlagRequired("state")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	return cmd
}
