package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	m "tracklogic.dev/pkg/tracklogic/internal/model"
)

type fakeScenarioSource struct {
	files       map[m.Path][]m.Scenario
	order       []m.Path
	discoverErr error
	loadErr     map[m.Path]error
}

func (f *fakeScenarioSource) Discover(_ context.Context, _ []m.Path, _ ...string) ([]m.Path, error) {
	if f.discoverErr != nil {
		return nil, f.discoverErr
	}

	return f.order, nil
}

func (f *fakeScenarioSource) Load(_ context.Context, path m.Path) ([]m.Scenario, error) {
	if err := f.loadErr[path]; err != nil {
		return nil, err
	}

	return f.files[path], nil
}

func namedScenarios(names ...string) []m.Scenario {
	scenarios := make([]m.Scenario, 0, len(names))
	for _, name := range names {
		scenarios = append(scenarios, m.Scenario{Name: name})
	}

	return scenarios
}

func scenarioNames(ch <-chan m.Scenario) []string {
	var names []string
	for scenario := range ch {
		names = append(names, scenario.Name)
	}

	return names
}

func newFakeSource() *fakeScenarioSource {
	return &fakeScenarioSource{
		files: map[m.Path][]m.Scenario{
			"a.scenarios.yaml": namedScenarios("a1", "a2", "a3"),
			"b.scenarios.yaml": namedScenarios("b1", "b2"),
		},
		order: []m.Path{"a.scenarios.yaml", "b.scenarios.yaml"},
	}
}

func TestScenarioStreamer_Get(t *testing.T) {
	defer goleak.VerifyNone(t)

	streamer := NewScenarioStreamer(newFakeSource())

	scenarios, errs := streamer.Get(context.Background(), []m.Path{"./..."}, nil, 2)

	assert.Equal(t, []string{"a1", "a2", "a3", "b1", "b2"}, scenarioNames(scenarios))

	for err := range errs {
		require.NoError(t, err)
	}
}

func TestScenarioStreamer_GetErrors(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name      string
		source    *fakeScenarioSource
		wantNames []string
	}{
		{
			name:   "discover fails",
			source: &fakeScenarioSource{discoverErr: boom},
		},
		{
			name: "load fails after the first file",
			source: func() *fakeScenarioSource {
				source := newFakeSource()
				source.loadErr = map[m.Path]error{"b.scenarios.yaml": boom}

				return source
			}(),
			wantNames: []string{"a1", "a2", "a3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer goleak.VerifyNone(t)

			scenarios, errs := NewScenarioStreamer(tt.source).Get(context.Background(), nil, nil, 8)

			assert.Equal(t, tt.wantNames, scenarioNames(scenarios))

			var got []error
			for err := range errs {
				got = append(got, err)
			}

			require.Len(t, got, 1)
			require.ErrorIs(t, got[0], boom)
		})
	}
}

func TestScenarioStreamer_ShardScenarios(t *testing.T) {
	tests := []struct {
		name  string
		index int
		total int
		want  []string
	}{
		{"first of two", 0, 2, []string{"a1", "a3", "b2"}},
		{"second of two", 1, 2, []string{"a2", "b1"}},
		{"third of three", 2, 3, []string{"a3"}},
		{"no sharding", 0, 0, []string{"a1", "a2", "a3", "b1", "b2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer goleak.VerifyNone(t)

			streamer := NewScenarioStreamer(newFakeSource())
			ctx := context.Background()

			all, errs := streamer.Get(ctx, nil, nil, 1)
			shard := streamer.ShardScenarios(ctx, all, 1, tt.index, tt.total)

			assert.Equal(t, tt.want, scenarioNames(shard))

			for err := range errs {
				require.NoError(t, err)
			}
		})
	}
}

func TestScenarioStreamer_ShardCancelDrains(t *testing.T) {
	defer goleak.VerifyNone(t)

	streamer := NewScenarioStreamer(newFakeSource())

	ctx, cancel := context.WithCancel(context.Background())

	all := make(chan m.Scenario)
	shard := streamer.ShardScenarios(ctx, all, 1, 0, 1)

	go func() {
		defer close(all)

		for _, scenario := range namedScenarios("x", "y", "z", "w") {
			all <- scenario
		}
	}()

	first := <-shard
	assert.Equal(t, "x", first.Name)

	cancel()

	// The rest may or may not be delivered; the channel must close either way.
	for range shard {
	}
}

func TestNormalizeBufferSize(t *testing.T) {
	assert.Equal(t, 1, normalizeBufferSize(-4))
	assert.Equal(t, 1, normalizeBufferSize(0))
	assert.Equal(t, 6, normalizeBufferSize(6))
}
