package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"gopkg.in/yaml.v3"
	m "tracklogic.dev/pkg/tracklogic/internal/model"
)

var (
	// ErrStateNotFound is returned when a profile has no saved state.
	ErrStateNotFound = errors.New("state not found")
	// ErrInvalidProfile is returned for profile names that cannot be used as keys or file names.
	ErrInvalidProfile = errors.New("invalid profile name")
)

var profilePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// StateStore persists tracker state per profile.
type StateStore interface {
	// Load returns the saved state, or the default state when none was saved.
	Load(ctx context.Context, profile string) (m.State, error)
	Save(ctx context.Context, profile string, state m.State) error
	// Delete removes the saved state. It returns ErrStateNotFound when there is none.
	Delete(ctx context.Context, profile string) error
}

// ValidateProfile checks that a profile name is usable by every backend.
func ValidateProfile(profile string) error {
	if !profilePattern.MatchString(profile) {
		return fmt.Errorf("%q: %w", profile, ErrInvalidProfile)
	}

	return nil
}

// FileStateStore keeps each profile in <dir>/<profile>.yaml.
type FileStateStore struct {
	fs  FSAdapter
	dir m.Path
}

// NewFileStateStore constructs a FileStateStore rooted at dir.
func NewFileStateStore(fsAdapter FSAdapter, dir m.Path) *FileStateStore {
	return &FileStateStore{fs: fsAdapter, dir: dir}
}

// Location returns the file that holds a profile's state.
func (s *FileStateStore) Location(ctx context.Context, profile string) m.Path {
	return s.fs.JoinPath(ctx, string(s.dir), profile+".yaml")
}

// Load implements StateStore.
func (s *FileStateStore) Load(ctx context.Context, profile string) (m.State, error) {
	if err := ValidateProfile(profile); err != nil {
		return m.State{}, err
	}

	path := s.Location(ctx, profile)

	data, err := s.fs.ReadFile(ctx, path)
	if err != nil {
		if isNotExist(err) {
			slog.Debug("No saved state, using defaults", "profile", profile, "path", path)
			return m.DefaultState(), nil
		}

		return m.State{}, fmt.Errorf("read state %s: %w", path, err)
	}

	state, err := decodeState(data)
	if err != nil {
		return m.State{}, fmt.Errorf("decode state %s: %w", path, err)
	}

	return state, nil
}

// Save implements StateStore.
func (s *FileStateStore) Save(ctx context.Context, profile string, state m.State) error {
	if err := ValidateProfile(profile); err != nil {
		return err
	}

	data, err := yaml.Marshal(state.Normalize())
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	path := s.Location(ctx, profile)
	if err := s.fs.WriteFile(ctx, path, data, 0o600); err != nil {
		slog.Error("Failed to write state", "path", path, "error", err)
		return fmt.Errorf("write state %s: %w", path, err)
	}

	slog.Debug("Saved state", "profile", profile, "path", path)

	return nil
}

// Delete implements StateStore.
func (s *FileStateStore) Delete(ctx context.Context, profile string) error {
	if err := ValidateProfile(profile); err != nil {
		return err
	}

	path := s.Location(ctx, profile)
	if err := s.fs.Remove(ctx, path); err != nil {
		if isNotExist(err) {
			return fmt.Errorf("profile %s: %w", profile, ErrStateNotFound)
		}

		return fmt.Errorf("remove state %s: %w", path, err)
	}

	return nil
}

func decodeState(data []byte) (m.State, error) {
	state := m.DefaultState()
	if err := yaml.Unmarshal(data, &state); err != nil {
		return m.State{}, err
	}

	if state.Items == nil {
		state.Items = map[m.ItemType]int{}
	}

	return state, nil
}
