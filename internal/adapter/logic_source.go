package adapter

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"
	m "tracklogic.dev/pkg/tracklogic/internal/model"
)

//go:embed logic/alttp.yaml
var bundledLogic []byte

// BundledLogicName is the origin reported for the embedded graph.
const BundledLogicName = "bundled:alttp"

// LogicSource loads the declarative requirement graph.
type LogicSource interface {
	Load(ctx context.Context) (m.LogicSpec, error)
	Origin() string
}

type logicSource struct {
	fs   FSAdapter
	path m.Path
}

// NewLogicSource returns a source reading path, or the bundled graph when
// path is empty.
func NewLogicSource(fsAdapter FSAdapter, path m.Path) LogicSource {
	return &logicSource{fs: fsAdapter, path: path}
}

// Origin describes where the graph is read from.
func (s *logicSource) Origin() string {
	if s.path == "" {
		return BundledLogicName
	}

	return string(s.path)
}

// Load reads and decodes the graph.
func (s *logicSource) Load(ctx context.Context) (m.LogicSpec, error) {
	data := bundledLogic

	if s.path != "" {
		var err error

		data, err = s.fs.ReadFile(ctx, s.path)
		if err != nil {
			slog.Error("Failed to read logic file", "path", s.path, "error", err)
			return m.LogicSpec{}, fmt.Errorf("read logic %s: %w", s.path, err)
		}
	}

	spec, err := DecodeLogic(data)
	if err != nil {
		return m.LogicSpec{}, fmt.Errorf("decode logic %s: %w", s.Origin(), err)
	}

	slog.Debug("Loaded logic", "origin", s.Origin(), "nodes", len(spec.Nodes), "connections", len(spec.Connections))

	return spec, nil
}

// DecodeLogic parses a logic graph document. Unknown keys are rejected.
func DecodeLogic(data []byte) (m.LogicSpec, error) {
	var spec m.LogicSpec

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&spec); err != nil {
		if errors.Is(err, io.EOF) {
			return m.LogicSpec{}, errors.New("empty logic document")
		}

		return m.LogicSpec{}, err
	}

	return spec, nil
}
