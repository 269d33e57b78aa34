package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
	m "tracklogic.dev/pkg/tracklogic/internal/model"
)

// ScenarioExtensions are the file suffixes scanned for scenario tables. Other
// YAML files (config, state, reports) are left alone.
var ScenarioExtensions = []string{".scenarios.yaml", ".scenarios.yml"}

// ScenarioSource finds and parses scenario table files.
type ScenarioSource interface {
	Discover(ctx context.Context, paths []m.Path, exclude ...string) ([]m.Path, error)
	Load(ctx context.Context, path m.Path) ([]m.Scenario, error)
}

type scenarioSource struct {
	fs FSAdapter
}

// NewScenarioSource constructs a ScenarioSource backed by fsAdapter.
func NewScenarioSource(fsAdapter FSAdapter) ScenarioSource {
	return &scenarioSource{fs: fsAdapter}
}

// Discover returns every scenario file under paths, sorted.
func (s *scenarioSource) Discover(ctx context.Context, paths []m.Path, exclude ...string) ([]m.Path, error) {
	return s.fs.FindFiles(ctx, paths, ScenarioExtensions, exclude...)
}

// Load parses one scenario file. Scenarios without a name are named after
// their file and position.
func (s *scenarioSource) Load(ctx context.Context, path m.Path) ([]m.Scenario, error) {
	data, err := s.fs.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read scenarios %s: %w", path, err)
	}

	var file m.ScenarioFile

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode scenarios %s: %w", path, err)
	}

	for i := range file.Scenarios {
		scenario := &file.Scenarios[i]
		scenario.Source = path

		if scenario.Name == "" {
			scenario.Name = fmt.Sprintf("%s#%d", path, i+1)
		}

		if len(scenario.Expect) == 0 {
			return nil, fmt.Errorf("scenario %q in %s has no expectations", scenario.Name, path)
		}
	}

	return file.Scenarios, nil
}
