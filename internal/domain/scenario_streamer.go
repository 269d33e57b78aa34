package domain

import (
	"context"
	"fmt"
	"log/slog"

	"tracklogic.dev/pkg/tracklogic/internal/adapter"
	m "tracklogic.dev/pkg/tracklogic/internal/model"
)

// ScenarioStreamer discovers scenario files and streams their scenarios.
type ScenarioStreamer interface {
	Get(ctx context.Context, paths []m.Path, exclude []string, threads int) (<-chan m.Scenario, <-chan error)
	ShardScenarios(ctx context.Context, all <-chan m.Scenario, threads int, shardIndex, totalShardCount int) <-chan m.Scenario
}

type scenarioStreamer struct {
	adapter.ScenarioSource
}

// NewScenarioStreamer creates a ScenarioStreamer reading from source.
func NewScenarioStreamer(source adapter.ScenarioSource) ScenarioStreamer {
	return &scenarioStreamer{ScenarioSource: source}
}

// Get streams scenarios file by file in path order, so every shard sees the
// same sequence. Both channels close when streaming ends; at most one error
// is sent.
func (ss *scenarioStreamer) Get(ctx context.Context, paths []m.Path, exclude []string, threads int) (<-chan m.Scenario, <-chan error) {
	slog.Debug("Starting scenario streaming", "paths", len(paths), "threads", threads)

	ch := make(chan m.Scenario, normalizeBufferSize(threads))
	errCh := make(chan error, 1)

	go func() {
		defer close(ch)
		defer close(errCh)

		files, err := ss.Discover(ctx, paths, exclude...)
		if err != nil {
			slog.Error("Failed to discover scenario files", "error", err)
			errCh <- fmt.Errorf("discover scenarios: %w", err)

			return
		}

		slog.Debug("Discovered scenario files", "count", len(files))

		for _, file := range files {
			scenarios, err := ss.Load(ctx, file)
			if err != nil {
				slog.Error("Failed to load scenarios", "file", file, "error", err)
				errCh <- err

				return
			}

			for _, scenario := range scenarios {
				select {
				case <-ctx.Done():
					slog.Debug("Scenario streaming cancelled")
					errCh <- ctx.Err()

					return
				case ch <- scenario:
				}
			}
		}
	}()

	return ch, errCh
}

// normalizeBufferSize ensures the buffer size is at least 1.
func normalizeBufferSize(threads int) int {
	if threads <= 0 {
		return 1
	}

	return threads
}

// ShardScenarios keeps every totalShardCount-th scenario starting at
// shardIndex. A non-positive shard count passes everything through.
func (ss *scenarioStreamer) ShardScenarios(ctx context.Context, all <-chan m.Scenario, threads int, shardIndex, totalShardCount int) <-chan m.Scenario {
	ch := make(chan m.Scenario, normalizeBufferSize(threads))

	go func() {
		defer close(ch)

		if totalShardCount <= 0 {
			shardIndex, totalShardCount = 0, 1
		}

		index := 0

		for scenario := range all {
			if index%totalShardCount == shardIndex {
				select {
				case <-ctx.Done():
					slog.Debug("Scenario sharding cancelled")
					// Drain so the producer is not left blocked.
					for range all {
					}

					return
				case ch <- scenario:
				}
			}

			index++
		}
	}()

	return ch
}
