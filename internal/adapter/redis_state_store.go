package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	m "tracklogic.dev/pkg/tracklogic/internal/model"
)

// Key layout: <prefix>:<profile>:mode (hash), :items (hash), :breaks (set).
const (
	modeKeySuffix   = "mode"
	itemsKeySuffix  = "items"
	breaksKeySuffix = "breaks"

	// DefaultRedisKeyPrefix is used when no prefix is configured.
	DefaultRedisKeyPrefix = "tracklogic"
)

// RedisStateStore keeps tracker state in Redis hashes and sets.
type RedisStateStore struct {
	client RedisClient
	prefix string
}

var _ StateStore = (*RedisStateStore)(nil)

// NewRedisStateStore constructs a RedisStateStore.
func NewRedisStateStore(client RedisClient, prefix string) *RedisStateStore {
	if prefix == "" {
		prefix = DefaultRedisKeyPrefix
	}

	return &RedisStateStore{client: client, prefix: prefix}
}

func (s *RedisStateStore) key(profile, suffix string) string {
	return s.prefix + ":" + profile + ":" + suffix
}

func (s *RedisStateStore) keys(profile string) []string {
	return []string{
		s.key(profile, modeKeySuffix),
		s.key(profile, itemsKeySuffix),
		s.key(profile, breaksKeySuffix),
	}
}

// Load implements StateStore.
func (s *RedisStateStore) Load(ctx context.Context, profile string) (m.State, error) {
	if err := ValidateProfile(profile); err != nil {
		return m.State{}, err
	}

	modeFields, err := s.client.HGetAll(ctx, s.key(profile, modeKeySuffix)).Result()
	if err != nil {
		return m.State{}, fmt.Errorf("load mode for %s: %w", profile, err)
	}

	itemFields, err := s.client.HGetAll(ctx, s.key(profile, itemsKeySuffix)).Result()
	if err != nil {
		return m.State{}, fmt.Errorf("load items for %s: %w", profile, err)
	}

	breakMembers, err := s.client.SMembers(ctx, s.key(profile, breaksKeySuffix)).Result()
	if err != nil {
		return m.State{}, fmt.Errorf("load sequence breaks for %s: %w", profile, err)
	}

	state := m.DefaultState()

	if state.Mode, err = decodeModeFields(modeFields); err != nil {
		return m.State{}, fmt.Errorf("profile %s: %w", profile, err)
	}

	for name, value := range itemFields {
		itemType, err := m.ParseItemType(name)
		if err != nil {
			return m.State{}, fmt.Errorf("profile %s: %w", profile, err)
		}

		count, err := strconv.Atoi(value)
		if err != nil {
			return m.State{}, fmt.Errorf("profile %s: item %s count %q: %w", profile, name, value, err)
		}

		state.Items[itemType] = count
	}

	for _, name := range breakMembers {
		sb, err := m.ParseSequenceBreakType(name)
		if err != nil {
			return m.State{}, fmt.Errorf("profile %s: %w", profile, err)
		}

		state.SequenceBreaks = append(state.SequenceBreaks, sb)
	}

	return state.Normalize(), nil
}

// Save implements StateStore. The previous state is replaced in one transaction.
func (s *RedisStateStore) Save(ctx context.Context, profile string, state m.State) error {
	if err := ValidateProfile(profile); err != nil {
		return err
	}

	state = state.Normalize()

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.keys(profile)...)
	pipe.HSet(ctx, s.key(profile, modeKeySuffix), encodeModeFields(state.Mode))

	if len(state.Items) > 0 {
		items := make(map[string]interface{}, len(state.Items))
		for itemType, count := range state.Items {
			items[itemType.String()] = count
		}

		pipe.HSet(ctx, s.key(profile, itemsKeySuffix), items)
	}

	if len(state.SequenceBreaks) > 0 {
		members := make([]interface{}, 0, len(state.SequenceBreaks))
		for _, sb := range state.SequenceBreaks {
			members = append(members, sb.String())
		}

		pipe.SAdd(ctx, s.key(profile, breaksKeySuffix), members...)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		slog.Error("Failed to save state", "profile", profile, "error", err)
		return fmt.Errorf("save state for %s: %w", profile, err)
	}

	slog.Debug("Saved state", "profile", profile, "backend", "redis")

	return nil
}

// Delete implements StateStore.
func (s *RedisStateStore) Delete(ctx context.Context, profile string) error {
	if err := ValidateProfile(profile); err != nil {
		return err
	}

	removed, err := s.client.Del(ctx, s.keys(profile)...).Result()
	if err != nil {
		return fmt.Errorf("delete state for %s: %w", profile, err)
	}

	if removed == 0 {
		return fmt.Errorf("profile %s: %w", profile, ErrStateNotFound)
	}

	return nil
}

func encodeModeFields(mode m.Mode) map[string]interface{} {
	fields := make(map[string]interface{}, len(m.ModeSettings()))
	for name, value := range mode.Fields() {
		fields[name] = value
	}

	return fields
}

// decodeModeFields starts from the default mode; missing fields keep their default.
func decodeModeFields(fields map[string]string) (m.Mode, error) {
	mode := m.DefaultMode()

	for _, setting := range m.ModeSettings() {
		value, ok := fields[setting]
		if !ok {
			continue
		}

		if err := mode.Set(setting, value); err != nil {
			return m.Mode{}, err
		}
	}

	return mode, nil
}
