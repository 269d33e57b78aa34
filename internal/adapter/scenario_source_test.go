package adapter

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	m "tracklogic.dev/pkg/tracklogic/internal/model"
)

func TestScenarioSource_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dm.scenarios.yaml")
	writeTestFile(t, path, `scenarios:
  - name: dark climb
    mode: {entranceShuffle: false}
    items: {Gloves: 1}
    sequenceBreaks: [DarkRoomDeathMountainEntry]
    expect:
      DeathMountainWestBottom: SequenceBreak
  - expect:
      Start: Normal
`)

	scenarios, err := NewScenarioSource(NewLocalFSAdapter()).Load(context.Background(), m.Path(path))
	require.NoError(t, err)
	require.Len(t, scenarios, 2)

	assert.Equal(t, m.Scenario{
		Name:           "dark climb",
		Mode:           m.DefaultMode(),
		Items:          map[m.ItemType]int{m.ItemGloves: 1},
		SequenceBreaks: []m.SequenceBreakType{m.BreakDarkRoomDeathMountainEntry},
		Expect:         map[m.RequirementNodeID]m.AccessibilityLevel{m.NodeDeathMountainWestBottom: m.AccessibilitySequenceBreak},
		Source:         m.Path(path),
	}, scenarios[0])

	assert.Equal(t, path+"#2", scenarios[1].Name)
}

func TestScenarioSource_LoadErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no expectations", "scenarios:\n  - name: idle\n"},
		{"unknown field", "scenarios:\n  - name: x\n    expects: {Start: Normal}\n"},
		{"unknown level", "scenarios:\n  - expect: {Start: Maybe}\n"},
		{"unknown item", "scenarios:\n  - items: {Jetpack: 1}\n    expect: {Start: Normal}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.scenarios.yaml")
			writeTestFile(t, path, tt.doc)

			_, err := NewScenarioSource(NewLocalFSAdapter()).Load(context.Background(), m.Path(path))
			require.Error(t, err)
		})
	}
}

func TestScenarioSource_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.scenarios.yaml")
	writeTestFile(t, path, "")

	scenarios, err := NewScenarioSource(NewLocalFSAdapter()).Load(context.Background(), m.Path(path))
	require.NoError(t, err)
	assert.Empty(t, scenarios)
}

func TestScenarioSource_Discover(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "a.scenarios.yaml"), "")
	writeTestFile(t, filepath.Join(root, "sub", "b.scenarios.yml"), "")
	writeTestFile(t, filepath.Join(root, "state", "default.yaml"), "")

	files, err := NewScenarioSource(NewLocalFSAdapter()).Discover(context.Background(), []m.Path{m.Path(root + "/...")})
	require.NoError(t, err)

	assert.Equal(t, []m.Path{
		m.Path(filepath.Join(root, "a.scenarios.yaml")),
		m.Path(filepath.Join(root, "sub", "b.scenarios.yml")),
	}, files)
}
