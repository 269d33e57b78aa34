package adapter

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	m "tracklogic.dev/pkg/tracklogic/internal/model"
)

func TestValidateProfile(t *testing.T) {
	for _, profile := range []string{"default", "seed-42", "race_2024.final", "A"} {
		assert.NoError(t, ValidateProfile(profile), profile)
	}

	for _, profile := range []string{"", "../up", "a/b", "-flag", "with space", ".hidden"} {
		assert.ErrorIs(t, ValidateProfile(profile), ErrInvalidProfile, profile)
	}
}

func sampleState() m.State {
	return m.State{
		Mode: m.Mode{
			ItemPlacement:      m.ItemPlacementBasic,
			DungeonItemShuffle: m.DungeonItemShuffleKeysanity,
			WorldState:         m.WorldStateInverted,
			EntranceShuffle:    true,
		},
		Items: map[m.ItemType]int{
			m.ItemSword:   2,
			m.ItemCrystal: 5,
			m.ItemLamp:    0,
		},
		SequenceBreaks: []m.SequenceBreakType{m.BreakWaterWalk, m.BreakDarkRoomHC, m.BreakWaterWalk},
	}
}

func TestFileStateStore(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "state")
	store := NewFileStateStore(NewLocalFSAdapter(), m.Path(dir))

	assert.Equal(t, m.Path(filepath.Join(dir, "seed.yaml")), store.Location(ctx, "seed"))

	t.Run("missing profile loads defaults", func(t *testing.T) {
		state, err := store.Load(ctx, "seed")
		require.NoError(t, err)
		assert.Equal(t, m.DefaultState(), state)
	})

	t.Run("save then load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "seed", sampleState()))

		state, err := store.Load(ctx, "seed")
		require.NoError(t, err)
		assert.Equal(t, sampleState().Normalize(), state.Normalize())
		assert.NotContains(t, state.Items, m.ItemLamp)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "seed"))
		require.ErrorIs(t, store.Delete(ctx, "seed"), ErrStateNotFound)
	})

	t.Run("invalid profile", func(t *testing.T) {
		_, err := store.Load(ctx, "../seed")
		require.ErrorIs(t, err, ErrInvalidProfile)
		require.ErrorIs(t, store.Save(ctx, "", m.DefaultState()), ErrInvalidProfile)
		require.ErrorIs(t, store.Delete(ctx, "a/b"), ErrInvalidProfile)
	})

	t.Run("corrupt file", func(t *testing.T) {
		writeTestFile(t, string(store.Location(ctx, "broken")), "mode: {worldState: Sideways}\n")

		_, err := store.Load(ctx, "broken")
		require.ErrorIs(t, err, m.ErrUnknownValue)
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		writeTestFile(t, string(store.Location(ctx, "partial")), "items:\n  Hammer: 1\n")

		state, err := store.Load(ctx, "partial")
		require.NoError(t, err)
		assert.Equal(t, m.DefaultMode(), state.Mode)
		assert.Equal(t, map[m.ItemType]int{m.ItemHammer: 1}, state.Items)
	})
}
