package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voxelview/voxelview/internal/spacedef"
)

// NewValidateCommand creates the validate command. It compiles every CUE
// space definition under a directory and reports all errors found.
func NewValidateCommand(opts *RootOptions) *cobra.Command {
	var defsDir string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate coordinate-space definitions",
		Long:  "Compiles every CUE space definition in a directory and reports compile errors.",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, errs := spacedef.LoadDir(defsDir, spacedef.LoadModeCollectAll)
			if len(errs) > 0 {
				for _, err := range errs {
					fmt.Fprintln(cmd.ErrOrStderr(), err)
				}
				return fmt.Errorf("%d error(s) in %s", len(errs), defsDir)
			}

			if opts.Format == "json" {
				doc := map[string]any{
					"files":  result.FileCount,
					"spaces": make(map[string]any, len(result.Spaces)),
				}
				spaces := doc["spaces"].(map[string]any)
				for label, space := range result.Spaces {
					spaces[label] = space
				}
				return writeJSON(cmd.OutOrStdout(), doc)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d space(s) from %d file(s)\n", len(result.Spaces), result.FileCount)
			for label, space := range result.Spaces {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s: rank %d %v\n", label, space.Rank, space.Names)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&defsDir, "defs", ".", "directory holding CUE space definitions")
	return cmd
}
