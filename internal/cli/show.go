package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewShowCommand creates the show command. It restores a saved state
// document against a coordinate space and prints the normalized form,
// which makes defaulting and recovery behavior visible.
func NewShowCommand(opts *RootOptions) *cobra.Command {
	var statePath, spacePath string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a saved navigation state",
		Long:  "Restores a navigation-state JSON document against a coordinate space and prints the normalized state.",
		RunE: func(cmd *cobra.Command, args []string) error {
			space, err := loadSpaceFile(spacePath, nil)
			if err != nil {
				return err
			}
			doc, err := loadStateFile(statePath)
			if err != nil {
				return err
			}

			state, _ := newState(space)
			defer state.Release()
			if err := state.RestoreState(doc); err != nil {
				return fmt.Errorf("restoring state: %w", err)
			}

			out := state.EncodeState()
			if out == nil {
				out = map[string]any{}
			}
			return writeDoc(cmd.OutOrStdout(), opts.Format, out)
		},
	}

	cmd.Flags().StringVar(&statePath, "state", "", "navigation-state JSON file")
	cmd.Flags().StringVar(&spacePath, "space", "", "CUE coordinate-space definition")
	cmd.MarkFlagRequired("state")
	cmd.MarkFlagRequired("space")
	return cmd
}
