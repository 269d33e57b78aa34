package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"tracklogic.dev/pkg/tracklogic/internal/adapter"
	"tracklogic.dev/pkg/tracklogic/internal/controller"
	m "tracklogic.dev/pkg/tracklogic/internal/model"
	"tracklogic.dev/pkg/tracklogic/pkg"
)

// ErrExpectationsFailed is returned by Check when at least one expectation did not hold.
var ErrExpectationsFailed = errors.New("expectations failed")

// EvaluateArgs selects what Evaluate shows.
type EvaluateArgs struct {
	Profile string
	// Nodes limits the output; empty means every node.
	Nodes []m.RequirementNodeID
	// Level, when set, keeps only nodes at that level.
	Level *m.AccessibilityLevel
}

// RouteArgs names the node whose route is explained.
type RouteArgs struct {
	Profile string
	Node    m.RequirementNodeID
}

// CheckArgs contains the arguments for running scenario tables.
type CheckArgs struct {
	Paths           []m.Path
	Exclude         []string
	Reports         m.Path
	SpillDir        string
	Threads         int
	ShardIndex      int
	TotalShardCount int
}

// WatchArgs configures Watch. StateFile is the file backing Profile.
type WatchArgs struct {
	EvaluateArgs
	StateFile m.Path
}

// StateUpdate edits a tracker loaded from the saved state.
type StateUpdate func(tracker *Tracker) error

// CatalogKind selects a Catalog listing.
type CatalogKind string

// Catalog listings.
const (
	CatalogNodes  CatalogKind = "nodes"
	CatalogItems  CatalogKind = "items"
	CatalogBreaks CatalogKind = "breaks"
	CatalogModes  CatalogKind = "modes"
)

// CatalogKinds lists every catalog listing.
func CatalogKinds() []CatalogKind {
	return []CatalogKind{CatalogNodes, CatalogItems, CatalogBreaks, CatalogModes}
}

// Workflow runs the tracker commands.
type Workflow interface {
	Evaluate(ctx context.Context, args EvaluateArgs) error
	Route(ctx context.Context, args RouteArgs) error
	Check(ctx context.Context, args CheckArgs) error
	Watch(ctx context.Context, args WatchArgs) error
	ShowState(ctx context.Context, profile string) error
	UpdateState(ctx context.Context, profile string, update StateUpdate) error
	ResetState(ctx context.Context, profile string) error
	Catalog(ctx context.Context, kind CatalogKind) error
	Reports(ctx context.Context, dir m.Path) error
}

type workflow struct {
	adapter.LogicSource
	adapter.StateStore
	adapter.ReportStore
	adapter.StateWatcher
	controller.UI
	ScenarioStreamer
}

// NewWorkflow creates a Workflow with the provided dependencies.
func NewWorkflow(
	logicSource adapter.LogicSource,
	stateStore adapter.StateStore,
	reportStore adapter.ReportStore,
	stateWatcher adapter.StateWatcher,
	ui controller.UI,
	streamer ScenarioStreamer,
) Workflow {
	return &workflow{
		LogicSource:      logicSource,
		StateStore:       stateStore,
		ReportStore:      reportStore,
		StateWatcher:     stateWatcher,
		UI:               ui,
		ScenarioStreamer: streamer,
	}
}

func (w *workflow) graph(ctx context.Context) (*Graph, error) {
	spec, err := w.LogicSource.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load logic: %w", err)
	}

	graph, err := NewGraph(spec)
	if err != nil {
		return nil, fmt.Errorf("logic %s: %w", w.Origin(), err)
	}

	return graph, nil
}

// tracker loads the logic graph and the saved state of profile.
func (w *workflow) tracker(ctx context.Context, profile string) (*Tracker, error) {
	if err := adapter.ValidateProfile(profile); err != nil {
		return nil, err
	}

	graph, err := w.graph(ctx)
	if err != nil {
		return nil, err
	}

	state, err := w.StateStore.Load(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	tracker := NewTracker(graph)
	if err := tracker.Load(state); err != nil {
		return nil, fmt.Errorf("profile %s: %w", profile, err)
	}

	return tracker, nil
}

// Evaluate displays the level of the requested nodes under the saved state.
func (w *workflow) Evaluate(ctx context.Context, args EvaluateArgs) error {
	view, err := w.levelsView(ctx, args)
	if err != nil {
		return err
	}

	if err := w.Start(ctx, controller.WithViewMode()); err != nil {
		slog.Error("Failed to start UI", "error", err)
		return err
	}

	if err := w.DisplayLevels(ctx, view); err != nil {
		w.Close(ctx)
		return fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)
	w.Close(ctx)

	return nil
}

func (w *workflow) levelsView(ctx context.Context, args EvaluateArgs) (controller.LevelsView, error) {
	tracker, err := w.tracker(ctx, args.Profile)
	if err != nil {
		return controller.LevelsView{}, err
	}

	eval, err := tracker.Evaluate(ctx)
	if err != nil {
		return controller.LevelsView{}, err
	}

	levels, err := selectLevels(eval, args.Nodes, args.Level)
	if err != nil {
		return controller.LevelsView{}, err
	}

	return controller.LevelsView{
		Title:  "Profile " + args.Profile,
		Mode:   tracker.Mode(),
		Levels: levels,
	}, nil
}

func selectLevels(eval *Evaluation, nodes []m.RequirementNodeID, level *m.AccessibilityLevel) ([]m.NodeLevel, error) {
	var levels []m.NodeLevel

	if len(nodes) == 0 {
		levels = eval.Levels()
	} else {
		levels = make([]m.NodeLevel, 0, len(nodes))

		for _, node := range nodes {
			if !eval.graph.Has(node) {
				return nil, fmt.Errorf("%s: %w", node, ErrUnknownNode)
			}

			levels = append(levels, m.NodeLevel{Node: node, Level: eval.Accessibility(node)})
		}
	}

	if level == nil {
		return levels, nil
	}

	filtered := levels[:0:0]

	for _, nl := range levels {
		if nl.Level == *level {
			filtered = append(filtered, nl)
		}
	}

	return filtered, nil
}

// Route displays the connections that gave a node its level.
func (w *workflow) Route(ctx context.Context, args RouteArgs) error {
	tracker, err := w.tracker(ctx, args.Profile)
	if err != nil {
		return err
	}

	node := tracker.Nodes().Get(args.Node)
	if node == nil {
		return fmt.Errorf("%s: %w", args.Node, ErrUnknownNode)
	}

	eval, err := tracker.Evaluate(ctx)
	if err != nil {
		return err
	}

	if err := w.Start(ctx, controller.WithViewMode()); err != nil {
		slog.Error("Failed to start UI", "error", err)
		return err
	}

	view := controller.RouteView{
		Node:  args.Node,
		Level: eval.Accessibility(args.Node),
		Steps: eval.Route(args.Node),
	}

	if err := w.DisplayRoute(ctx, view); err != nil {
		w.Close(ctx)
		return fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)
	w.Close(ctx)

	return nil
}

// Check runs every scenario of the shard with Threads workers, then saves a
// report when Reports is set.
func (w *workflow) Check(ctx context.Context, args CheckArgs) error {
	startedAt := time.Now().UTC()
	threads := normalizeBufferSize(args.Threads)

	graph, err := w.graph(ctx)
	if err != nil {
		return err
	}

	scenarios, err := w.collectScenarios(ctx, args, threads)
	if err != nil {
		slog.Error("Failed to collect scenarios", "error", err)
		return fmt.Errorf("collect scenarios: %w", err)
	}

	spill, err := pkg.NewFileSpill[m.ScenarioResult](args.SpillDir)
	if err != nil {
		return fmt.Errorf("create result spill: %w", err)
	}

	defer func() {
		if closeErr := spill.Close(); closeErr != nil {
			slog.Error("Failed to close result spill", "error", closeErr)
		}
	}()

	if err := w.Start(ctx, controller.WithCheckMode()); err != nil {
		slog.Error("Failed to start UI", "error", err)
		return err
	}

	shardIndex, shardCount := shardLabel(args.ShardIndex, args.TotalShardCount)
	w.DisplayCheckInfo(ctx, len(scenarios), threads, shardIndex, shardCount)

	if err := w.checkScenarios(ctx, NewChecker(graph), scenarios, threads, spill); err != nil {
		w.Close(ctx)
		return fmt.Errorf("check scenarios: %w", err)
	}

	report, err := w.buildReport(spill, startedAt, len(scenarios), args)
	if err != nil {
		w.Close(ctx)
		return fmt.Errorf("build report: %w", err)
	}

	var reportPath m.Path

	if args.Reports != "" {
		reportPath, err = w.SaveReport(ctx, args.Reports, report)
		if err != nil {
			w.Close(ctx)
			return fmt.Errorf("save report: %w", err)
		}
	}

	w.DisplayCheckSummary(ctx, report, reportPath)
	w.Wait(ctx)
	w.Close(ctx)

	if report.Passed < report.Total {
		return fmt.Errorf("%d of %d: %w", report.Total-report.Passed, report.Total, ErrExpectationsFailed)
	}

	return nil
}

func shardLabel(index, count int) (int, int) {
	if count <= 0 {
		return 0, 1
	}

	return index, count
}

func (w *workflow) collectScenarios(ctx context.Context, args CheckArgs, threads int) ([]m.Scenario, error) {
	group, groupCtx := errgroup.WithContext(ctx)

	all, errorChannel := w.Get(groupCtx, args.Paths, args.Exclude, threads)
	shard := w.ShardScenarios(groupCtx, all, threads, args.ShardIndex, args.TotalShardCount)

	var scenarios []m.Scenario

	group.Go(func() error {
		for scenario := range shard {
			scenarios = append(scenarios, scenario)
		}

		return nil
	})

	group.Go(func() error {
		for err := range errorChannel {
			if err != nil {
				return err
			}
		}

		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return scenarios, nil
}

func (w *workflow) checkScenarios(ctx context.Context, checker Checker, scenarios []m.Scenario, threads int, spill pkg.FileSpill[m.ScenarioResult]) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(threads)

	var displayMu sync.Mutex

	for _, scenario := range scenarios {
		group.Go(func() error {
			result, err := checker.CheckScenario(groupCtx, scenario)
			if err != nil {
				return err
			}

			if err := spill.Append(result); err != nil {
				return fmt.Errorf("spill %s: %w", scenario.Name, err)
			}

			displayMu.Lock()
			w.DisplayScenarioResult(groupCtx, result)
			displayMu.Unlock()

			return nil
		})
	}

	return group.Wait()
}

func (w *workflow) buildReport(spill pkg.FileSpill[m.ScenarioResult], startedAt time.Time, scenarios int, args CheckArgs) (m.CheckReport, error) {
	total, passed, rate, err := passRateFromResults(spill)
	if err != nil {
		return m.CheckReport{}, err
	}

	report := m.CheckReport{
		RunID:      uuid.NewString(),
		StartedAt:  startedAt,
		Total:      total,
		Passed:     passed,
		PassRate:   rate,
		Scenarios:  scenarios,
		LogicGraph: w.Origin(),
	}

	if args.TotalShardCount > 1 {
		report.Shard = strconv.Itoa(args.ShardIndex) + "/" + strconv.Itoa(args.TotalShardCount)
	}

	err = spill.Range(func(_ uint64, result m.ScenarioResult) error {
		if !result.Passed() {
			report.Failures = append(report.Failures, result)
		}

		return nil
	})

	return report, err
}

// Watch displays the levels and refreshes them every time the state file
// changes, until ctx is done or the user quits.
func (w *workflow) Watch(ctx context.Context, args WatchArgs) error {
	if args.StateFile == "" {
		return errors.New("watch needs a file-backed state")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	changes, err := w.StateWatcher.Watch(ctx, args.StateFile)
	if err != nil {
		return fmt.Errorf("watch %s: %w", args.StateFile, err)
	}

	view, err := w.levelsView(ctx, args.EvaluateArgs)
	if err != nil {
		return err
	}

	if err := w.Start(ctx, controller.WithWatchMode()); err != nil {
		slog.Error("Failed to start UI", "error", err)
		return err
	}

	if err := w.DisplayLevels(ctx, view); err != nil {
		w.Close(ctx)
		return fmt.Errorf("display: %w", err)
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		w.Wait(groupCtx)
		cancel()

		return nil
	})

	group.Go(func() error {
		for range changes {
			slog.Debug("State changed", "file", args.StateFile)

			view, err := w.levelsView(groupCtx, args.EvaluateArgs)
			if err != nil {
				if groupCtx.Err() != nil {
					return nil
				}

				// A half-written file is expected while editors save.
				slog.Error("Failed to refresh levels", "error", err)

				continue
			}

			view.Title += " (updated " + time.Now().Format(time.TimeOnly) + ")"

			if err := w.DisplayLevels(groupCtx, view); err != nil && groupCtx.Err() == nil {
				return fmt.Errorf("display: %w", err)
			}
		}

		return nil
	})

	err = group.Wait()

	w.Close(context.WithoutCancel(ctx))

	return err
}

// ShowState displays the saved state of profile.
func (w *workflow) ShowState(ctx context.Context, profile string) error {
	if err := adapter.ValidateProfile(profile); err != nil {
		return err
	}

	state, err := w.StateStore.Load(ctx, profile)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	return w.displayState(ctx, profile, state)
}

// UpdateState applies update to the saved state and saves the result. Nothing
// is saved when update fails.
func (w *workflow) UpdateState(ctx context.Context, profile string, update StateUpdate) error {
	tracker, err := w.tracker(ctx, profile)
	if err != nil {
		return err
	}

	if err := update(tracker); err != nil {
		return err
	}

	state := tracker.State()

	if err := w.Save(ctx, profile, state); err != nil {
		return fmt.Errorf("save state: %w", err)
	}

	slog.Debug("Saved state", "profile", profile)

	return w.displayState(ctx, profile, state)
}

// ResetState removes the saved state so the profile starts from the default.
func (w *workflow) ResetState(ctx context.Context, profile string) error {
	if err := adapter.ValidateProfile(profile); err != nil {
		return err
	}

	if err := w.Delete(ctx, profile); err != nil && !errors.Is(err, adapter.ErrStateNotFound) {
		return fmt.Errorf("reset state: %w", err)
	}

	return w.displayState(ctx, profile, m.DefaultState())
}

func (w *workflow) displayState(ctx context.Context, profile string, state m.State) error {
	if err := w.Start(ctx, controller.WithViewMode()); err != nil {
		return err
	}

	if err := w.DisplayState(ctx, profile, state.Normalize()); err != nil {
		w.Close(ctx)
		return fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)
	w.Close(ctx)

	return nil
}

// Catalog lists the names the other commands accept.
func (w *workflow) Catalog(ctx context.Context, kind CatalogKind) error {
	var view controller.CatalogView

	switch kind {
	case CatalogNodes:
		graph, err := w.graph(ctx)
		if err != nil {
			return err
		}

		view = nodeCatalog(graph)
	case CatalogItems:
		view = itemCatalog()
	case CatalogBreaks:
		view = breakCatalog()
	case CatalogModes:
		view = modeCatalog()
	default:
		return fmt.Errorf("catalog %q: %w", kind, m.ErrUnknownValue)
	}

	if err := w.Start(ctx, controller.WithViewMode()); err != nil {
		return err
	}

	if err := w.DisplayCatalog(ctx, view); err != nil {
		w.Close(ctx)
		return fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)
	w.Close(ctx)

	return nil
}

func nodeCatalog(graph *Graph) controller.CatalogView {
	rows := make([][]string, 0, len(graph.Nodes()))
	for _, node := range graph.Nodes() {
		rows = append(rows, []string{node.String(), strconv.Itoa(len(graph.Outgoing(node)))})
	}

	return controller.CatalogView{Title: "Nodes of " + graph.Name(), Columns: []string{"Node", "Connections"}, Rows: rows}
}

func itemCatalog() controller.CatalogView {
	rows := make([][]string, 0, m.ItemTypeCount)
	for _, itemType := range m.ItemTypes() {
		rows = append(rows, []string{itemType.String(), strconv.Itoa(itemType.Starting()), strconv.Itoa(itemType.Maximum())})
	}

	return controller.CatalogView{Title: "Items", Columns: []string{"Item", "Starting", "Maximum"}, Rows: rows}
}

func breakCatalog() controller.CatalogView {
	rows := make([][]string, 0, m.SequenceBreakTypeCount)
	for _, sb := range m.SequenceBreakTypes() {
		rows = append(rows, []string{sb.String()})
	}

	return controller.CatalogView{Title: "Sequence breaks", Columns: []string{"Sequence break"}, Rows: rows}
}

func modeCatalog() controller.CatalogView {
	return controller.CatalogView{
		Title:   "Mode settings",
		Columns: []string{"Setting", "Values"},
		Rows: [][]string{
			{m.ModeSettingItemPlacement, joinNames(m.ItemPlacements())},
			{m.ModeSettingDungeonItemShuffle, joinNames(m.DungeonItemShuffles())},
			{m.ModeSettingWorldState, joinNames(m.WorldStates())},
			{m.ModeSettingEntranceShuffle, "on, off"},
			{m.ModeSettingEnemyShuffle, "on, off"},
		},
	}
}

func joinNames[T fmt.Stringer](values []T) string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = v.String()
	}

	return strings.Join(names, ", ")
}

// Reports displays the check reports saved in dir.
func (w *workflow) Reports(ctx context.Context, dir m.Path) error {
	reports, err := w.LoadReports(ctx, dir)
	if err != nil {
		return fmt.Errorf("load reports: %w", err)
	}

	if err := w.Start(ctx, controller.WithViewMode()); err != nil {
		return err
	}

	if err := w.DisplayReports(ctx, reports); err != nil {
		w.Close(ctx)
		return fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)
	w.Close(ctx)

	return nil
}
