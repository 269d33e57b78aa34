package adapter

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	m "tracklogic.dev/pkg/tracklogic/internal/model"
)

func newTestRedisStore(t *testing.T, prefix string) (*RedisStateStore, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)

	client, err := NewRedisClient(server.Addr(), &RedisOptions{PoolSize: 2, MaxRetries: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStateStore(client, prefix), server
}

func TestNewRedisClient_RequiresAddress(t *testing.T) {
	_, err := NewRedisClient("", nil)
	require.Error(t, err)
}

func TestRedisStateStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, server := newTestRedisStore(t, "")

	state, err := store.Load(ctx, "seed")
	require.NoError(t, err)
	assert.Equal(t, m.DefaultState().Normalize(), state)

	require.NoError(t, store.Save(ctx, "seed", sampleState()))

	state, err = store.Load(ctx, "seed")
	require.NoError(t, err)
	assert.Equal(t, sampleState().Normalize(), state)

	assert.Equal(t, "Inverted", server.HGet("tracklogic:seed:mode", m.ModeSettingWorldState))
	assert.Equal(t, "true", server.HGet("tracklogic:seed:mode", m.ModeSettingEntranceShuffle))
	assert.Equal(t, "2", server.HGet("tracklogic:seed:items", "Sword"))

	members, err := server.Members("tracklogic:seed:breaks")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"DarkRoomHC", "WaterWalk"}, members)
}

func TestRedisStateStore_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	store, server := newTestRedisStore(t, "race")

	require.NoError(t, store.Save(ctx, "p1", sampleState()))
	require.NoError(t, store.Save(ctx, "p1", m.State{Items: map[m.ItemType]int{m.ItemHammer: 1}}))

	state, err := store.Load(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, m.DefaultMode(), state.Mode)
	assert.Equal(t, map[m.ItemType]int{m.ItemHammer: 1}, state.Items)
	assert.Empty(t, state.SequenceBreaks)
	assert.False(t, server.Exists("race:p1:breaks"))
}

func TestRedisStateStore_Delete(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestRedisStore(t, "")

	require.ErrorIs(t, store.Delete(ctx, "ghost"), ErrStateNotFound)

	require.NoError(t, store.Save(ctx, "ghost", m.DefaultState()))
	require.NoError(t, store.Delete(ctx, "ghost"))
	require.ErrorIs(t, store.Delete(ctx, "ghost"), ErrStateNotFound)
}

func TestRedisStateStore_CorruptData(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		setup func(server *miniredis.Miniredis)
	}{
		{"unknown mode value", func(s *miniredis.Miniredis) { s.HSet("tracklogic:p:mode", m.ModeSettingWorldState, "Upside") }},
		{"unknown item", func(s *miniredis.Miniredis) { s.HSet("tracklogic:p:items", "Portal", "1") }},
		{"non-numeric count", func(s *miniredis.Miniredis) { s.HSet("tracklogic:p:items", "Sword", "two") }},
		{"unknown break", func(s *miniredis.Miniredis) { _, _ = s.SAdd("tracklogic:p:breaks", "Clip") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, server := newTestRedisStore(t, "")
			tt.setup(server)

			_, err := store.Load(ctx, "p")
			require.Error(t, err)
		})
	}
}

func TestRedisStateStore_Unavailable(t *testing.T) {
	ctx := context.Background()
	store, server := newTestRedisStore(t, "")
	server.Close()

	_, err := store.Load(ctx, "p")
	require.Error(t, err)
	require.Error(t, store.Save(ctx, "p", m.DefaultState()))
}

func TestRedisStateStore_InvalidProfile(t *testing.T) {
	store, _ := newTestRedisStore(t, "")

	_, err := store.Load(context.Background(), "bad:profile")
	require.ErrorIs(t, err, ErrInvalidProfile)
}
