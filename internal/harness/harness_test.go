package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", name))
	require.NoError(t, err)
	return scenario
}

func TestRun_PositionLinkModes(t *testing.T) {
	scenario := loadTestScenario(t, "position-link-modes.yaml")
	require.NoError(t, RunWithGolden(t, scenario))
}

func TestRun_SpaceRemap(t *testing.T) {
	scenario := loadTestScenario(t, "space-remap.yaml")
	require.NoError(t, RunWithGolden(t, scenario))
}

func TestRun_TraceLengthMatchesSteps(t *testing.T) {
	scenario := loadTestScenario(t, "position-link-modes.yaml")
	result, err := Run(scenario)
	require.NoError(t, err)
	require.Len(t, result.Trace, len(scenario.Steps))
	for i, event := range result.Trace {
		assert.Equal(t, i+1, event.Seq)
		assert.Equal(t, scenario.Steps[i].Op, event.Op)
	}
}

func TestRun_InitialLinksApplied(t *testing.T) {
	scenario := loadTestScenario(t, "position-link-modes.yaml")
	scenario.Links = map[string]string{"orientation": "unlinked"}
	result, err := Run(scenario)
	require.NoError(t, err)

	// The first event's view state already reflects the initial link map.
	view, ok := result.Trace[0].View.(map[string]any)
	require.True(t, ok)
	link, ok := view["orientation"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "unlinked", link["link"])
}
