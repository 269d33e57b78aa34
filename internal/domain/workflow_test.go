package domain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"tracklogic.dev/pkg/tracklogic/internal/adapter"
	"tracklogic.dev/pkg/tracklogic/internal/controller"
	controllermocks "tracklogic.dev/pkg/tracklogic/internal/controller/mocks"
	m "tracklogic.dev/pkg/tracklogic/internal/model"
)

const tinyLogic = `name: tiny
nodes: [Start, LightWorld]
connections:
  - from: Start
    to: LightWorld
`

type fakeWatcher struct {
	watched m.Path
	err     error
	changes chan struct{}
}

func (f *fakeWatcher) Watch(ctx context.Context, path m.Path) (<-chan struct{}, error) {
	if f.err != nil {
		return nil, f.err
	}

	f.watched = path
	out := make(chan struct{})

	go func() {
		defer close(out)

		for {
			select {
			case <-ctx.Done():
				return
			case <-f.changes:
				select {
				case out <- struct{}{}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

type workflowFixture struct {
	workflow Workflow
	ui       *controllermocks.MockUI
	states   *adapter.FileStateStore
	reports  adapter.ReportStore
	watcher  *fakeWatcher
	root     string
}

func newWorkflowFixture(t *testing.T, logic string) *workflowFixture {
	t.Helper()

	root := t.TempDir()
	fs := adapter.NewLocalFSAdapter()

	var logicPath m.Path
	if logic != "" {
		logicPath = m.Path(filepath.Join(root, "logic.yaml"))
		writeFile(t, string(logicPath), logic)
	}

	f := &workflowFixture{
		ui:      controllermocks.NewMockUI(t),
		states:  adapter.NewFileStateStore(fs, m.Path(filepath.Join(root, "state"))),
		reports: adapter.NewReportStore(fs),
		watcher: &fakeWatcher{changes: make(chan struct{})},
		root:    root,
	}

	f.workflow = NewWorkflow(
		adapter.NewLogicSource(fs, logicPath),
		f.states,
		f.reports,
		f.watcher,
		f.ui,
		NewScenarioStreamer(adapter.NewScenarioSource(fs)),
	)

	return f
}

// expectShown sets up one Start, Wait and Close cycle.
func (f *workflowFixture) expectShown() {
	f.ui.On("Start", mock.Anything, mock.Anything).Return(nil).Once()
	f.ui.On("Wait", mock.Anything).Return().Once()
	f.ui.On("Close", mock.Anything).Return().Once()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestWorkflow_Evaluate(t *testing.T) {
	ctx := context.Background()

	t.Run("every node", func(t *testing.T) {
		f := newWorkflowFixture(t, "")
		f.expectShown()
		f.ui.On("DisplayLevels", mock.Anything, mock.MatchedBy(func(view controller.LevelsView) bool {
			return view.Title == "Profile default" &&
				view.Mode == m.DefaultMode() &&
				len(view.Levels) == m.RequirementNodeCount
		})).Return(nil).Once()

		require.NoError(t, f.workflow.Evaluate(ctx, EvaluateArgs{Profile: "default"}))
	})

	t.Run("selected nodes at one level", func(t *testing.T) {
		f := newWorkflowFixture(t, "")
		require.NoError(t, f.states.Save(ctx, "seed", m.State{SequenceBreaks: breaks(m.BreakDarkRoomHC)}))

		level := sbreak
		f.expectShown()
		f.ui.On("DisplayLevels", mock.Anything, controller.LevelsView{
			Title:  "Profile seed",
			Mode:   m.DefaultMode(),
			Levels: []m.NodeLevel{{Node: m.NodeHyruleCastleSewers, Level: sbreak}},
		}).Return(nil).Once()

		err := f.workflow.Evaluate(ctx, EvaluateArgs{
			Profile: "seed",
			Nodes:   []m.RequirementNodeID{m.NodeLightWorld, m.NodeHyruleCastleSewers, m.NodeGanonsTower},
			Level:   &level,
		})
		require.NoError(t, err)
	})

	t.Run("node missing from the graph", func(t *testing.T) {
		f := newWorkflowFixture(t, tinyLogic)

		err := f.workflow.Evaluate(ctx, EvaluateArgs{Profile: "default", Nodes: []m.RequirementNodeID{m.NodeGanonsTower}})
		require.ErrorIs(t, err, ErrUnknownNode)
	})

	t.Run("invalid profile", func(t *testing.T) {
		f := newWorkflowFixture(t, "")

		err := f.workflow.Evaluate(ctx, EvaluateArgs{Profile: "../escape"})
		require.ErrorIs(t, err, adapter.ErrInvalidProfile)
	})

	t.Run("saved state out of range", func(t *testing.T) {
		f := newWorkflowFixture(t, "")
		writeFile(t, string(f.states.Location(ctx, "broken")), "items:\n  Lamp: 4\n")

		err := f.workflow.Evaluate(ctx, EvaluateArgs{Profile: "broken"})
		require.ErrorIs(t, err, ErrItemCountOutOfRange)
	})

	t.Run("ui fails to start", func(t *testing.T) {
		f := newWorkflowFixture(t, "")
		boom := errors.New("no terminal")
		f.ui.On("Start", mock.Anything, mock.Anything).Return(boom).Once()

		require.ErrorIs(t, f.workflow.Evaluate(ctx, EvaluateArgs{Profile: "default"}), boom)
	})

	t.Run("display fails", func(t *testing.T) {
		f := newWorkflowFixture(t, "")
		boom := errors.New("closed")
		f.ui.On("Start", mock.Anything, mock.Anything).Return(nil).Once()
		f.ui.On("DisplayLevels", mock.Anything, mock.Anything).Return(boom).Once()
		f.ui.On("Close", mock.Anything).Return().Once()

		require.ErrorIs(t, f.workflow.Evaluate(ctx, EvaluateArgs{Profile: "default"}), boom)
	})
}

func TestWorkflow_Route(t *testing.T) {
	ctx := context.Background()

	t.Run("explains the level", func(t *testing.T) {
		f := newWorkflowFixture(t, "")
		require.NoError(t, f.states.Save(ctx, "default", m.State{Items: items(m.ItemGloves, m.ItemLamp, m.ItemMirror)}))

		f.expectShown()
		f.ui.On("DisplayRoute", mock.Anything, mock.MatchedBy(func(view controller.RouteView) bool {
			return view.Node == m.NodeTowerOfHera &&
				view.Level == normal &&
				len(view.Steps) == 7 &&
				view.Steps[6].To == m.NodeTowerOfHera
		})).Return(nil).Once()

		require.NoError(t, f.workflow.Route(ctx, RouteArgs{Profile: "default", Node: m.NodeTowerOfHera}))
	})

	t.Run("unreachable node has an empty route", func(t *testing.T) {
		f := newWorkflowFixture(t, "")

		f.expectShown()
		f.ui.On("DisplayRoute", mock.Anything, controller.RouteView{Node: m.NodeGanonsTower, Level: none}).Return(nil).Once()

		require.NoError(t, f.workflow.Route(ctx, RouteArgs{Profile: "default", Node: m.NodeGanonsTower}))
	})

	t.Run("node missing from the graph", func(t *testing.T) {
		f := newWorkflowFixture(t, tinyLogic)

		err := f.workflow.Route(ctx, RouteArgs{Profile: "default", Node: m.NodeTowerOfHera})
		require.ErrorIs(t, err, ErrUnknownNode)
	})
}

const passingScenarios = `scenarios:
  - name: lamp
    items: {Lamp: 1}
    expect:
      HyruleCastleSewers: Normal
      GanonsTower: None
  - name: inverted
    mode: {worldState: Inverted}
    expect:
      DarkWorldSouth: Normal
`

const failingScenarios = `scenarios:
  - name: wrong
    sequenceBreaks: [DarkRoomHC]
    expect:
      HyruleCastleSewers: Normal
`

func TestWorkflow_Check(t *testing.T) {
	ctx := context.Background()

	t.Run("failures are reported and saved", func(t *testing.T) {
		f := newWorkflowFixture(t, "")
		scenarios := filepath.Join(f.root, "scenarios")
		writeFile(t, filepath.Join(scenarios, "pass.scenarios.yaml"), passingScenarios)
		writeFile(t, filepath.Join(scenarios, "nested", "fail.scenarios.yaml"), failingScenarios)
		writeFile(t, filepath.Join(scenarios, "notes.yaml"), "not: a scenario table\n")
		reportsDir := m.Path(filepath.Join(f.root, "reports"))

		f.ui.On("Start", mock.Anything, mock.Anything).Return(nil).Once()
		f.ui.On("DisplayCheckInfo", mock.Anything, 3, 2, 0, 1).Return().Once()
		f.ui.On("DisplayScenarioResult", mock.Anything, mock.AnythingOfType("model.ScenarioResult")).Return().Times(3)
		f.ui.On("DisplayCheckSummary", mock.Anything, mock.MatchedBy(func(report m.CheckReport) bool {
			return report.Total == 4 &&
				report.Passed == 3 &&
				report.Scenarios == 3 &&
				report.Shard == "" &&
				report.LogicGraph == adapter.BundledLogicName &&
				len(report.Failures) == 1 &&
				report.Failures[0].Scenario == "wrong"
		}), mock.MatchedBy(func(path m.Path) bool {
			return strings.HasPrefix(string(path), string(reportsDir))
		})).Return().Once()
		f.ui.On("Wait", mock.Anything).Return().Once()
		f.ui.On("Close", mock.Anything).Return().Once()

		err := f.workflow.Check(ctx, CheckArgs{
			Paths:           []m.Path{m.Path(scenarios + "/...")},
			Reports:         reportsDir,
			SpillDir:        t.TempDir(),
			Threads:         2,
			TotalShardCount: 1,
		})
		require.ErrorIs(t, err, ErrExpectationsFailed)

		saved, err := f.reports.LoadReports(ctx, reportsDir)
		require.NoError(t, err)
		require.Len(t, saved, 1)
		assert.InDelta(t, 0.75, saved[0].PassRate, 1e-9)
		assert.Contains(t, saved[0].Failures[0].Diff, "+HyruleCastleSewers: SequenceBreak")
	})

	t.Run("one shard passes without a report", func(t *testing.T) {
		f := newWorkflowFixture(t, "")
		file := filepath.Join(f.root, "pass.scenarios.yaml")
		writeFile(t, file, passingScenarios)

		f.ui.On("Start", mock.Anything, mock.Anything).Return(nil).Once()
		f.ui.On("DisplayCheckInfo", mock.Anything, 1, 1, 1, 2).Return().Once()
		f.ui.On("DisplayScenarioResult", mock.Anything, mock.MatchedBy(func(result m.ScenarioResult) bool {
			return result.Scenario == "inverted" && result.Passed()
		})).Return().Once()
		f.ui.On("DisplayCheckSummary", mock.Anything, mock.MatchedBy(func(report m.CheckReport) bool {
			return report.Total == 1 && report.PassRate == 1 && report.Shard == "1/2"
		}), m.Path("")).Return().Once()
		f.ui.On("Wait", mock.Anything).Return().Once()
		f.ui.On("Close", mock.Anything).Return().Once()

		err := f.workflow.Check(ctx, CheckArgs{
			Paths:           []m.Path{m.Path(file)},
			SpillDir:        t.TempDir(),
			Threads:         1,
			ShardIndex:      1,
			TotalShardCount: 2,
		})
		require.NoError(t, err)
	})

	t.Run("unreadable scenario file", func(t *testing.T) {
		f := newWorkflowFixture(t, "")
		file := filepath.Join(f.root, "bad.scenarios.yaml")
		writeFile(t, file, "scenarios:\n  - name: typo\n    expect: {Nowhere: Normal}\n")

		err := f.workflow.Check(ctx, CheckArgs{Paths: []m.Path{m.Path(file)}, SpillDir: t.TempDir()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "collect scenarios")
	})

	t.Run("expectation on a node outside the graph", func(t *testing.T) {
		f := newWorkflowFixture(t, tinyLogic)
		file := filepath.Join(f.root, "pass.scenarios.yaml")
		writeFile(t, file, passingScenarios)

		f.ui.On("Start", mock.Anything, mock.Anything).Return(nil).Once()
		f.ui.On("DisplayCheckInfo", mock.Anything, 2, 1, 0, 1).Return().Once()
		f.ui.On("Close", mock.Anything).Return().Once()

		err := f.workflow.Check(ctx, CheckArgs{Paths: []m.Path{m.Path(file)}, SpillDir: t.TempDir(), Threads: 1})
		require.ErrorIs(t, err, ErrUnknownNode)
	})
}

func TestWorkflow_Watch(t *testing.T) {
	t.Run("needs a state file", func(t *testing.T) {
		f := newWorkflowFixture(t, "")

		err := f.workflow.Watch(context.Background(), WatchArgs{EvaluateArgs: EvaluateArgs{Profile: "default"}})
		require.Error(t, err)
	})

	t.Run("watcher fails", func(t *testing.T) {
		f := newWorkflowFixture(t, "")
		f.watcher.err = errors.New("too many open files")

		err := f.workflow.Watch(context.Background(), WatchArgs{
			EvaluateArgs: EvaluateArgs{Profile: "default"},
			StateFile:    "state/default.yaml",
		})
		require.ErrorIs(t, err, f.watcher.err)
	})

	t.Run("refreshes on change until the ui closes", func(t *testing.T) {
		f := newWorkflowFixture(t, "")
		ctx := context.Background()
		stateFile := f.states.Location(ctx, "default")
		sewers := []m.RequirementNodeID{m.NodeHyruleCastleSewers}
		shown := make(chan struct{})
		refreshed := make(chan struct{})

		f.ui.On("Start", mock.Anything, mock.Anything).Return(nil).Once()
		f.ui.On("DisplayLevels", mock.Anything, controller.LevelsView{
			Title:  "Profile default",
			Mode:   m.DefaultMode(),
			Levels: []m.NodeLevel{{Node: m.NodeHyruleCastleSewers, Level: none}},
		}).Run(func(mock.Arguments) { close(shown) }).Return(nil).Once()
		f.ui.On("DisplayLevels", mock.Anything, mock.MatchedBy(func(view controller.LevelsView) bool {
			return strings.HasPrefix(view.Title, "Profile default (updated ") &&
				len(view.Levels) == 1 &&
				view.Levels[0].Level == normal
		})).Run(func(mock.Arguments) { close(refreshed) }).Return(nil).Once()
		f.ui.On("Wait", mock.Anything).Run(func(mock.Arguments) {
			select {
			case <-refreshed:
			case <-time.After(5 * time.Second):
			}
		}).Return().Once()
		f.ui.On("Close", mock.Anything).Return().Once()

		done := make(chan error, 1)

		go func() {
			done <- f.workflow.Watch(ctx, WatchArgs{
				EvaluateArgs: EvaluateArgs{Profile: "default", Nodes: sewers},
				StateFile:    stateFile,
			})
		}()

		<-shown
		require.NoError(t, f.states.Save(ctx, "default", m.State{Items: items(m.ItemLamp)}))
		f.watcher.changes <- struct{}{}

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(10 * time.Second):
			t.Fatal("watch did not return")
		}

		assert.Equal(t, stateFile, f.watcher.watched)
	})
}

func TestWorkflow_State(t *testing.T) {
	ctx := context.Background()

	t.Run("show unsaved profile", func(t *testing.T) {
		f := newWorkflowFixture(t, "")
		f.expectShown()
		f.ui.On("DisplayState", mock.Anything, "fresh", m.DefaultState().Normalize()).Return(nil).Once()

		require.NoError(t, f.workflow.ShowState(ctx, "fresh"))
	})

	t.Run("update saves and shows", func(t *testing.T) {
		f := newWorkflowFixture(t, "")
		want := m.State{Items: items(m.ItemLamp), SequenceBreaks: breaks(m.BreakWaterWalk)}.Normalize()

		f.expectShown()
		f.ui.On("DisplayState", mock.Anything, "default", want).Return(nil).Once()

		err := f.workflow.UpdateState(ctx, "default", func(tracker *Tracker) error {
			if err := tracker.Items().Add(m.ItemLamp, 1); err != nil {
				return err
			}

			return tracker.SequenceBreaks().SetEnabled(m.BreakWaterWalk, true)
		})
		require.NoError(t, err)

		saved, err := f.states.Load(ctx, "default")
		require.NoError(t, err)
		assert.Equal(t, want, saved.Normalize())
	})

	t.Run("failed update saves nothing", func(t *testing.T) {
		f := newWorkflowFixture(t, "")

		err := f.workflow.UpdateState(ctx, "default", func(tracker *Tracker) error {
			return tracker.Items().Set(m.ItemLamp, 2)
		})
		require.ErrorIs(t, err, ErrItemCountOutOfRange)

		_, statErr := os.Stat(string(f.states.Location(ctx, "default")))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("reset removes the saved state", func(t *testing.T) {
		f := newWorkflowFixture(t, "")
		require.NoError(t, f.states.Save(ctx, "default", m.State{Items: items(m.ItemHammer)}))

		f.expectShown()
		f.expectShown()
		f.ui.On("DisplayState", mock.Anything, "default", m.DefaultState().Normalize()).Return(nil).Twice()

		require.NoError(t, f.workflow.ResetState(ctx, "default"))
		require.NoError(t, f.workflow.ResetState(ctx, "default"))

		saved, err := f.states.Load(ctx, "default")
		require.NoError(t, err)
		assert.Equal(t, m.DefaultState(), saved)
	})
}

func TestWorkflow_Catalog(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		kind  CatalogKind
		title string
		rows  int
	}{
		{CatalogNodes, "Nodes of alttp", m.RequirementNodeCount},
		{CatalogItems, "Items", m.ItemTypeCount},
		{CatalogBreaks, "Sequence breaks", m.SequenceBreakTypeCount},
		{CatalogModes, "Mode settings", len(m.ModeSettings())},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			f := newWorkflowFixture(t, "")
			f.expectShown()
			f.ui.On("DisplayCatalog", mock.Anything, mock.MatchedBy(func(view controller.CatalogView) bool {
				return view.Title == tt.title && len(view.Rows) == tt.rows
			})).Return(nil).Once()

			require.NoError(t, f.workflow.Catalog(ctx, tt.kind))
		})
	}

	t.Run("unknown kind", func(t *testing.T) {
		f := newWorkflowFixture(t, "")

		require.ErrorIs(t, f.workflow.Catalog(ctx, CatalogKind("bosses")), m.ErrUnknownValue)
	})
}

func TestWorkflow_Reports(t *testing.T) {
	ctx := context.Background()
	f := newWorkflowFixture(t, "")
	dir := m.Path(filepath.Join(f.root, "reports"))

	_, err := f.reports.SaveReport(ctx, dir, m.CheckReport{RunID: "run-1", Total: 2, Passed: 2, PassRate: 1})
	require.NoError(t, err)

	f.expectShown()
	f.ui.On("DisplayReports", mock.Anything, mock.MatchedBy(func(reports []m.CheckReport) bool {
		return len(reports) == 1 && reports[0].RunID == "run-1"
	})).Return(nil).Once()

	require.NoError(t, f.workflow.Reports(ctx, dir))
}

func TestCatalogKinds(t *testing.T) {
	assert.Equal(t, []CatalogKind{CatalogNodes, CatalogItems, CatalogBreaks, CatalogModes}, CatalogKinds())
}
