package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	m "tracklogic.dev/pkg/tracklogic/internal/model"
)

// itemSpec leaves count unset when it is 0.
func itemSpec(item m.ItemType, count int) m.RequirementSpec {
	spec := m.RequirementSpec{Item: &item}
	if count != 0 {
		spec.Count = &count
	}

	return spec
}

func intPtr(v int) *int {
	return &v
}

func breakSpec(sb m.SequenceBreakType) m.RequirementSpec {
	return m.RequirementSpec{Break: &sb}
}

func nodeSpec(id m.RequirementNodeID) m.RequirementSpec {
	return m.RequirementSpec{Node: &id}
}

func boolPtr(v bool) *bool {
	return &v
}

type fixedLevels map[m.RequirementNodeID]m.AccessibilityLevel

func (f fixedLevels) Level(id m.RequirementNodeID) m.AccessibilityLevel {
	return f[id]
}

func mustWorld(t *testing.T, state m.State) World {
	t.Helper()

	world, err := NewWorld(state)
	require.NoError(t, err)

	return world
}

func TestCompileRequirement_NilIsAlways(t *testing.T) {
	req, err := CompileRequirement(nil)
	require.NoError(t, err)

	assert.Equal(t, m.AccessibilityNormal, req.Evaluate(World{}, fixedLevels{}))
	assert.Equal(t, "always", req.Describe())
	assert.Empty(t, req.Dependencies())
}

func TestCompileRequirement_Evaluate(t *testing.T) {
	world := mustWorld(t, m.State{
		Mode:           m.Mode{WorldState: m.WorldStateRetro, EnemyShuffle: true},
		Items:          map[m.ItemType]int{m.ItemSword: 2, m.ItemLamp: 1},
		SequenceBreaks: []m.SequenceBreakType{m.BreakDarkRoomHC},
	})
	nodes := fixedLevels{
		m.NodeHyruleCastle: m.AccessibilitySequenceBreak,
		m.NodeLightWorld:   m.AccessibilityNormal,
	}

	tests := []struct {
		name string
		spec m.RequirementSpec
		want m.AccessibilityLevel
	}{
		{"item held", itemSpec(m.ItemLamp, 0), m.AccessibilityNormal},
		{"item count met", itemSpec(m.ItemSword, 2), m.AccessibilityNormal},
		{"item count short", itemSpec(m.ItemSword, 3), m.AccessibilityNone},
		{"item missing", itemSpec(m.ItemHammer, 0), m.AccessibilityNone},
		{"break enabled", breakSpec(m.BreakDarkRoomHC), m.AccessibilitySequenceBreak},
		{"break disabled", breakSpec(m.BreakDarkRoomAT), m.AccessibilityNone},
		{"node level passes through", nodeSpec(m.NodeHyruleCastle), m.AccessibilitySequenceBreak},
		{"unreached node", nodeSpec(m.NodeGanonsTower), m.AccessibilityNone},
		{"world state matches", m.RequirementSpec{WorldState: []m.WorldState{m.WorldStateStandardOpen, m.WorldStateRetro}}, m.AccessibilityNormal},
		{"world state differs", m.RequirementSpec{WorldState: []m.WorldState{m.WorldStateInverted}}, m.AccessibilityNone},
		{"item placement", m.RequirementSpec{ItemPlacement: []m.ItemPlacement{m.ItemPlacementAdvanced}}, m.AccessibilityNormal},
		{"dungeon item shuffle", m.RequirementSpec{DungeonItemShuffle: []m.DungeonItemShuffle{m.DungeonItemShuffleKeysanity}}, m.AccessibilityNone},
		{"entrance shuffle off", m.RequirementSpec{EntranceShuffle: boolPtr(false)}, m.AccessibilityNormal},
		{"enemy shuffle off", m.RequirementSpec{EnemyShuffle: boolPtr(false)}, m.AccessibilityNone},
		{
			"all takes the worst child",
			m.RequirementSpec{All: []m.RequirementSpec{itemSpec(m.ItemLamp, 0), breakSpec(m.BreakDarkRoomHC)}},
			m.AccessibilitySequenceBreak,
		},
		{
			"all fails on any missing child",
			m.RequirementSpec{All: []m.RequirementSpec{itemSpec(m.ItemLamp, 0), itemSpec(m.ItemHammer, 0)}},
			m.AccessibilityNone,
		},
		{
			"any takes the best child",
			m.RequirementSpec{Any: []m.RequirementSpec{breakSpec(m.BreakDarkRoomHC), itemSpec(m.ItemLamp, 0)}},
			m.AccessibilityNormal,
		},
		{
			"any falls back to a break",
			m.RequirementSpec{Any: []m.RequirementSpec{itemSpec(m.ItemHammer, 0), breakSpec(m.BreakDarkRoomHC)}},
			m.AccessibilitySequenceBreak,
		},
		{
			"nested",
			m.RequirementSpec{All: []m.RequirementSpec{
				nodeSpec(m.NodeLightWorld),
				{Any: []m.RequirementSpec{itemSpec(m.ItemFlippers, 0), breakSpec(m.BreakDarkRoomHC)}},
			}},
			m.AccessibilitySequenceBreak,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := CompileRequirement(&tt.spec)
			require.NoError(t, err)

			assert.Equal(t, tt.want, req.Evaluate(world, nodes))
		})
	}
}

func TestCompileRequirement_Invalid(t *testing.T) {
	badItem := m.ItemType(999)
	badBreak := m.SequenceBreakType(-1)
	badNode := m.RequirementNodeID(m.RequirementNodeCount)

	tests := []struct {
		name string
		spec m.RequirementSpec
	}{
		{"no kind", m.RequirementSpec{}},
		{"two kinds", m.RequirementSpec{Item: &badItem, EnemyShuffle: boolPtr(true)}},
		{"count without item", m.RequirementSpec{Count: intPtr(2), EnemyShuffle: boolPtr(true)}},
		{"unknown item", m.RequirementSpec{Item: &badItem}},
		{"count above maximum", itemSpec(m.ItemLamp, 2)},
		{"negative count", itemSpec(m.ItemSword, -1)},
		{"explicit zero count", m.RequirementSpec{Item: func() *m.ItemType { i := m.ItemLamp; return &i }(), Count: intPtr(0)}},
		{"unknown break", m.RequirementSpec{Break: &badBreak}},
		{"unknown node", m.RequirementSpec{Node: &badNode}},
		{"empty all", m.RequirementSpec{All: []m.RequirementSpec{}}},
		{"empty any", m.RequirementSpec{Any: []m.RequirementSpec{}}},
		{"empty world state list", m.RequirementSpec{WorldState: []m.WorldState{}}},
		{"invalid nested child", m.RequirementSpec{Any: []m.RequirementSpec{itemSpec(m.ItemLamp, 0), {}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileRequirement(&tt.spec)
			require.ErrorIs(t, err, ErrInvalidRequirement)
		})
	}
}

func TestCompileRequirement_ErrorNamesPath(t *testing.T) {
	spec := m.RequirementSpec{All: []m.RequirementSpec{itemSpec(m.ItemLamp, 0), {Any: []m.RequirementSpec{{}}}}}

	_, err := CompileRequirement(&spec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires.all[1].any[0]")
}

func TestCompileRequirement_DescribeAndDependencies(t *testing.T) {
	spec := m.RequirementSpec{All: []m.RequirementSpec{
		itemSpec(m.ItemCrystal, 7),
		{Any: []m.RequirementSpec{nodeSpec(m.NodeBowUsable), breakSpec(m.BreakBombJumpsPoDFallingBridge)}},
		{WorldState: []m.WorldState{m.WorldStateStandardOpen, m.WorldStateRetro}},
	}}

	req, err := CompileRequirement(&spec)
	require.NoError(t, err)

	assert.Equal(t,
		"Crystal>=7 & (node:BowUsable | break:BombJumpsPoDFallingBridge) & worldState in [StandardOpen,Retro]",
		req.Describe())
	assert.Equal(t, []m.RequirementNodeID{m.NodeBowUsable}, req.Dependencies())
}
