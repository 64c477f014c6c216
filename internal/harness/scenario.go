package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines one conformance scenario: the space versions involved,
// the initial link modes of the secondary view, and the step sequence.
type Scenario struct {
	// Name uniquely identifies the scenario; golden files use it.
	Name string `yaml:"name"`

	// Description explains what the scenario validates.
	Description string `yaml:"description"`

	// Spaces lists CUE space-definition files, relative to the scenario
	// file. Spaces[0] is the initial version; later entries are compiled
	// against their predecessor so dimension identity carries over, and
	// become available to replace_space steps by index.
	Spaces []string `yaml:"spaces"`

	// Links sets initial link modes per component of the secondary view.
	// Components absent from the map start linked. Keys: position,
	// orientation, scale_factors, display_dimensions, zoom,
	// projection_zoom.
	Links map[string]string `yaml:"links,omitempty"`

	// Steps is the operation sequence.
	Steps []Step `yaml:"steps"`
}

// Step is one scenario operation. Op selects the operation; the other
// fields parameterize it and only some apply to each op.
type Step struct {
	// Op is one of: set_position, set_orientation, set_zoom,
	// select_dimensions, set_scale_factor, set_link, replace_space,
	// translate, rotate, snap, reset.
	Op string `yaml:"op"`

	// Target selects which side the op applies to: "peer" (default) or
	// "view".
	Target string `yaml:"target,omitempty"`

	// Coords are voxel coordinates for set_position.
	Coords []float64 `yaml:"coords,omitempty"`

	// Quat is the orientation quaternion (x, y, z, w) for set_orientation.
	Quat []float64 `yaml:"quat,omitempty"`

	// Kind selects the zoom for set_zoom: "cross_section" (default) or
	// "projection".
	Kind string `yaml:"kind,omitempty"`

	// Value is the zoom level for set_zoom.
	Value float64 `yaml:"value,omitempty"`

	// Names are dimension names for select_dimensions.
	Names []string `yaml:"names,omitempty"`

	// Name and Factor identify one scale factor for set_scale_factor.
	Name   string  `yaml:"name,omitempty"`
	Factor float64 `yaml:"factor,omitempty"`

	// Component and Mode parameterize set_link.
	Component string `yaml:"component,omitempty"`
	Mode      string `yaml:"mode,omitempty"`

	// Space indexes Spaces for replace_space.
	Space int `yaml:"space,omitempty"`

	// Delta is the translation vector for translate (display-space voxels).
	Delta []float64 `yaml:"delta,omitempty"`

	// Axis and Angle parameterize rotate (radians).
	Axis  []float64 `yaml:"axis,omitempty"`
	Angle float64   `yaml:"angle,omitempty"`
}

// stepOps enumerates the valid step operations.
var stepOps = map[string]bool{
	"set_position":      true,
	"set_orientation":   true,
	"set_zoom":          true,
	"select_dimensions": true,
	"set_scale_factor":  true,
	"set_link":          true,
	"replace_space":     true,
	"translate":         true,
	"rotate":            true,
	"snap":              true,
	"reset":             true,
}

// linkComponents enumerates the valid set_link components.
var linkComponents = map[string]bool{
	"position":           true,
	"orientation":        true,
	"scale_factors":      true,
	"display_dimensions": true,
	"zoom":               true,
	"projection_zoom":    true,
}

// LoadScenario reads and parses a scenario YAML file. Space paths are
// resolved relative to the scenario file. Unknown YAML fields (typos) are
// rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parsing scenario YAML: %w", err)
	}

	base := filepath.Dir(path)
	for i, spacePath := range scenario.Spaces {
		if !filepath.IsAbs(spacePath) {
			scenario.Spaces[i] = filepath.Join(base, spacePath)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Spaces) == 0 {
		return fmt.Errorf("spaces list is required and must be non-empty")
	}
	for _, spacePath := range s.Spaces {
		if _, err := os.Stat(spacePath); os.IsNotExist(err) {
			return fmt.Errorf("space file not found: %s", spacePath)
		}
	}
	for component, mode := range s.Links {
		if !linkComponents[component] {
			return fmt.Errorf("links: unknown component %q", component)
		}
		switch mode {
		case "linked", "relative", "unlinked":
		default:
			return fmt.Errorf("links[%s]: unknown mode %q", component, mode)
		}
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	for i, step := range s.Steps {
		if err := validateStep(i, &step, len(s.Spaces)); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, step *Step, spaceCount int) error {
	if !stepOps[step.Op] {
		return fmt.Errorf("steps[%d]: unknown op %q", index, step.Op)
	}
	switch step.Target {
	case "", "peer", "view":
	default:
		return fmt.Errorf("steps[%d]: unknown target %q", index, step.Target)
	}
	switch step.Op {
	case "set_position":
		if len(step.Coords) == 0 {
			return fmt.Errorf("steps[%d]: coords is required for set_position", index)
		}
	case "set_orientation":
		if len(step.Quat) != 4 {
			return fmt.Errorf("steps[%d]: quat must have 4 elements", index)
		}
	case "set_zoom":
		if step.Value <= 0 {
			return fmt.Errorf("steps[%d]: value must be positive for set_zoom", index)
		}
		switch step.Kind {
		case "", "cross_section", "projection":
		default:
			return fmt.Errorf("steps[%d]: unknown zoom kind %q", index, step.Kind)
		}
	case "select_dimensions":
		if len(step.Names) == 0 {
			return fmt.Errorf("steps[%d]: names is required for select_dimensions", index)
		}
	case "set_scale_factor":
		if step.Name == "" {
			return fmt.Errorf("steps[%d]: name is required for set_scale_factor", index)
		}
		if step.Factor <= 0 {
			return fmt.Errorf("steps[%d]: factor must be positive", index)
		}
	case "set_link":
		if !linkComponents[step.Component] {
			return fmt.Errorf("steps[%d]: unknown component %q", index, step.Component)
		}
		switch step.Mode {
		case "linked", "relative", "unlinked":
		default:
			return fmt.Errorf("steps[%d]: unknown mode %q", index, step.Mode)
		}
	case "replace_space":
		if step.Space < 0 || step.Space >= spaceCount {
			return fmt.Errorf("steps[%d]: space index %d out of range", index, step.Space)
		}
	case "translate":
		if len(step.Delta) == 0 || len(step.Delta) > 3 {
			return fmt.Errorf("steps[%d]: delta must have 1 to 3 elements", index)
		}
	case "rotate":
		if len(step.Axis) != 3 {
			return fmt.Errorf("steps[%d]: axis must have 3 elements", index)
		}
	}
	return nil
}
