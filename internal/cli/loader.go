package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/voxelview/voxelview/internal/coordspace"
	"github.com/voxelview/voxelview/internal/nav"
	"github.com/voxelview/voxelview/internal/spacedef"
	"github.com/voxelview/voxelview/internal/watch"
)

// loadSpaceFile compiles a single CUE space definition, carrying dimension
// identity over from prev when remapping between versions.
func loadSpaceFile(path string, prev *coordspace.Space) (*coordspace.Space, error) {
	space, err := spacedef.LoadFile(path, prev)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return space, nil
}

// loadStateFile reads a navigation-state JSON document.
func loadStateFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading state file: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing state file %s: %w", path, err)
	}
	return doc, nil
}

// newState builds a navigation state over a fresh provider holding space.
func newState(space *coordspace.Space) (*nav.State, *nav.SpaceProvider) {
	provider := watch.NewValue(space)
	return nav.NewState(provider), provider
}
