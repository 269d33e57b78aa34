package controller

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	m "tracklogic.dev/pkg/tracklogic/internal/model"
)

const (
	defaultTableHeight = 20
	// reservedLines covers title, subtitle, footer and help around the table.
	reservedLines  = 8
	maxColumnWidth = 48
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
	levelStyles = map[m.AccessibilityLevel]lipgloss.Style{
		m.AccessibilityNormal:        lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		m.AccessibilitySequenceBreak: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		m.AccessibilityNone:          lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
)

type keyMap struct {
	Quit   key.Binding
	Filter key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
		Filter: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter level")),
	}
}

// TUI implements UI with a Bubble Tea program.
type TUI struct {
	output io.Writer

	mu      sync.Mutex
	program *tea.Program
	done    chan struct{}
	config  StartConfig
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the program in the background.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.config = newStartConfig(options)
	t.program = tea.NewProgram(newScreenModel(t.config.mode), tea.WithOutput(t.output), tea.WithAltScreen(), tea.WithContext(ctx))
	t.done = make(chan struct{})

	go func(program *tea.Program, done chan struct{}) {
		defer close(done)

		if _, err := program.Run(); err != nil {
			slog.Debug("TUI program ended", "error", err)
		}
	}(t.program, t.done)

	return nil
}

// Close stops the program and waits for it to exit.
func (t *TUI) Close(_ context.Context) {
	t.mu.Lock()
	program, done := t.program, t.done
	t.mu.Unlock()

	if program == nil {
		return
	}

	program.Quit()
	<-done
}

// Wait blocks until the user quits or ctx is done.
func (t *TUI) Wait(ctx context.Context) {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()

	if done == nil {
		return
	}

	select {
	case <-done:
	case <-ctx.Done():
	}
}

func (t *TUI) send(msg tea.Msg) {
	t.mu.Lock()
	program := t.program
	t.mu.Unlock()

	if program != nil {
		program.Send(msg)
	}
}

// DisplayLevels shows the level table.
func (t *TUI) DisplayLevels(ctx context.Context, view LevelsView) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	title := view.Title
	if title == "" {
		title = "Accessibility"
	}

	t.send(screenMsg{
		title:       title,
		subtitle:    modeSummary(view.Mode),
		columns:     levelColumns,
		rows:        levelRows(view.Levels),
		levelColumn: levelColumn,
	})

	return nil
}

// DisplayRoute shows the route table.
func (t *TUI) DisplayRoute(ctx context.Context, view RouteView) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var footer []string

	switch {
	case view.Level == m.AccessibilityNone:
		footer = append(footer, fmt.Sprintf("No route reaches %s.", view.Node))
	case len(view.Steps) == 0:
		footer = append(footer, fmt.Sprintf("%s is the starting node.", view.Node))
	}

	t.send(screenMsg{
		title:       fmt.Sprintf("Route to %s", view.Node),
		subtitle:    levelStyle(view.Level).Render(view.Level.String()),
		columns:     routeColumns,
		rows:        routeRows(view.Steps),
		levelColumn: len(routeColumns) - 1,
		footer:      footer,
	})

	return nil
}

// DisplayState shows the saved tracker state.
func (t *TUI) DisplayState(ctx context.Context, profile string, state m.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.send(screenMsg{title: "Profile " + profile, columns: stateColumns, rows: stateRows(state), levelColumn: -1})

	return nil
}

// DisplayCatalog shows a listing.
func (t *TUI) DisplayCatalog(ctx context.Context, view CatalogView) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.send(screenMsg{title: view.Title, columns: view.Columns, rows: view.Rows, levelColumn: -1})

	return nil
}

// DisplayReports shows saved check reports.
func (t *TUI) DisplayReports(ctx context.Context, reports []m.CheckReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var footer []string
	if len(reports) == 0 {
		footer = []string{"No reports found."}
	}

	t.send(screenMsg{title: "Check reports", columns: reportColumns, rows: reportRows(reports), levelColumn: -1, footer: footer})

	return nil
}

// DisplayCheckInfo opens the failure table for a check run.
func (t *TUI) DisplayCheckInfo(ctx context.Context, scenarios int, threads int, shardIndex int, shardCount int) {
	if err := ctx.Err(); err != nil {
		return
	}

	t.send(screenMsg{
		title:       "Check",
		subtitle:    fmt.Sprintf("%d scenario(s), %d worker(s), shard %d/%d", scenarios, threads, shardIndex, shardCount),
		columns:     failureColumns,
		levelColumn: 3,
	})
}

// DisplayScenarioResult adds the failed expectations of a scenario.
func (t *TUI) DisplayScenarioResult(ctx context.Context, result m.ScenarioResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	t.send(progressMsg{rows: failureRows(result), passed: result.Passed()})
}

// DisplayCheckSummary shows the pass rate.
func (t *TUI) DisplayCheckSummary(ctx context.Context, report m.CheckReport, reportPath m.Path) {
	if err := ctx.Err(); err != nil {
		return
	}

	lines := []string{fmt.Sprintf("Pass rate: %s (%d/%d expectations)", formatPassRate(report.PassRate), report.Passed, report.Total)}
	if reportPath != "" {
		lines = append(lines, "Report: "+string(reportPath))
	}

	t.send(footerMsg{lines: lines})
}

// screenMsg replaces the whole screen.
type screenMsg struct {
	title       string
	subtitle    string
	columns     []string
	rows        [][]string
	levelColumn int
	footer      []string
}

// progressMsg records one finished scenario and appends its rows.
type progressMsg struct {
	rows   [][]string
	passed bool
}

// footerMsg replaces the footer lines.
type footerMsg struct {
	lines []string
}

// screenModel is a titled, filterable table.
type screenModel struct {
	mode        StartMode
	keys        keyMap
	table       table.Model
	title       string
	subtitle    string
	columns     []string
	rows        [][]string
	levelColumn int
	filter      *m.AccessibilityLevel
	footer      []string
	finished    int
	failed      int
	height      int
	quitting    bool
}

func newScreenModel(mode StartMode) screenModel {
	tbl := table.New(table.WithFocused(true), table.WithHeight(defaultTableHeight))

	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).BorderBottom(true).BorderStyle(lipgloss.NormalBorder())
	tbl.SetStyles(styles)

	return screenModel{
		mode:        mode,
		keys:        defaultKeyMap(),
		table:       tbl,
		levelColumn: -1,
	}
}

func (sm screenModel) Init() tea.Cmd {
	return nil
}

func (sm screenModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		sm.height = msg.Height
		sm.table.SetHeight(sm.tableHeight())

		return sm, nil

	case screenMsg:
		sm.title = msg.title
		sm.subtitle = msg.subtitle
		sm.columns = msg.columns
		sm.rows = msg.rows
		sm.levelColumn = msg.levelColumn
		sm.footer = msg.footer
		sm.finished, sm.failed = 0, 0

		if sm.levelColumn < 0 {
			sm.filter = nil
		}

		return sm.refresh(), nil

	case progressMsg:
		sm.finished++
		if !msg.passed {
			sm.failed++
		}

		sm.rows = append(sm.rows, msg.rows...)

		return sm.refresh(), nil

	case footerMsg:
		sm.footer = msg.lines

		return sm, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, sm.keys.Quit):
			sm.quitting = true
			return sm, tea.Quit
		case key.Matches(msg, sm.keys.Filter):
			return sm.cycleFilter().refresh(), nil
		}
	}

	var cmd tea.Cmd

	sm.table, cmd = sm.table.Update(msg)

	return sm, cmd
}

// cycleFilter steps through all, Normal, SequenceBreak, None.
func (sm screenModel) cycleFilter() screenModel {
	if sm.levelColumn < 0 {
		return sm
	}

	levels := m.AccessibilityLevels()

	switch {
	case sm.filter == nil:
		next := levels[len(levels)-1]
		sm.filter = &next
	case *sm.filter == levels[0]:
		sm.filter = nil
	default:
		next := *sm.filter - 1
		sm.filter = &next
	}

	return sm
}

func (sm screenModel) visibleRows() [][]string {
	if sm.filter == nil || sm.levelColumn < 0 {
		return sm.rows
	}

	want := sm.filter.String()

	var rows [][]string

	for _, row := range sm.rows {
		if sm.levelColumn < len(row) && row[sm.levelColumn] == want {
			rows = append(rows, row)
		}
	}

	return rows
}

func (sm screenModel) refresh() screenModel {
	visible := sm.visibleRows()

	widths := make([]int, len(sm.columns))
	for i, title := range sm.columns {
		widths[i] = len(title)
	}

	for _, row := range sm.rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], len(row[i]))
		}
	}

	columns := make([]table.Column, len(sm.columns))
	for i, title := range sm.columns {
		columns[i] = table.Column{Title: title, Width: min(widths[i]+1, maxColumnWidth)}
	}

	rows := make([]table.Row, 0, len(visible))
	for _, row := range visible {
		rows = append(rows, table.Row(row))
	}

	// Rows must match the column count when columns change.
	sm.table.SetRows(nil)
	sm.table.SetColumns(columns)
	sm.table.SetRows(rows)
	sm.table.SetHeight(sm.tableHeight())

	return sm
}

func (sm screenModel) tableHeight() int {
	if sm.height == 0 {
		return defaultTableHeight
	}

	return max(sm.height-reservedLines, 1)
}

func (sm screenModel) View() string {
	if sm.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(sm.title))
	b.WriteString("\n")

	if sm.subtitle != "" {
		b.WriteString(sm.subtitle)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(sm.table.View())
	b.WriteString("\n\n")

	if summary := sm.summary(); summary != "" {
		b.WriteString(summary)
		b.WriteString("\n")
	}

	for _, line := range sm.footer {
		b.WriteString(footerStyle.Render(line))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(sm.help()))

	return b.String()
}

func (sm screenModel) summary() string {
	if sm.mode == ModeCheck && sm.finished > 0 {
		return fmt.Sprintf("%d scenario(s) checked, %d failed", sm.finished, sm.failed)
	}

	if sm.levelColumn < 0 || len(sm.rows) == 0 {
		return ""
	}

	counts := make(map[string]int)
	for _, row := range sm.rows {
		if sm.levelColumn < len(row) {
			counts[row[sm.levelColumn]]++
		}
	}

	parts := make([]string, 0, len(m.AccessibilityLevels()))

	levels := m.AccessibilityLevels()
	for i := len(levels) - 1; i >= 0; i-- {
		level := levels[i]
		parts = append(parts, levelStyle(level).Render(fmt.Sprintf("%s %d", level, counts[level.String()])))
	}

	return strings.Join(parts, "  ")
}

func (sm screenModel) help() string {
	filter := "all"
	if sm.filter != nil {
		filter = sm.filter.String()
	}

	help := "↑/k up • ↓/j down • q quit"
	if sm.levelColumn >= 0 {
		help = fmt.Sprintf("↑/k up • ↓/j down • f filter (%s) • q quit", filter)
	}

	if sm.mode == ModeWatch {
		help += " • watching for changes"
	}

	return help
}

func levelStyle(level m.AccessibilityLevel) lipgloss.Style {
	if style, ok := levelStyles[level]; ok {
		return style
	}

	return lipgloss.NewStyle()
}
