package controller

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	m "tracklogic.dev/pkg/tracklogic/internal/model"
)

// SimpleUI implements UI using plain tables on the command's output.
type SimpleUI struct {
	cmd    *cobra.Command
	config StartConfig
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.config = newStartConfig(options)

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// Wait returns immediately, except in watch mode where it blocks until ctx is done.
func (s *SimpleUI) Wait(ctx context.Context) {
	if s.config.mode == ModeWatch {
		<-ctx.Done()
	}
}

// DisplayLevels prints one row per node.
func (s *SimpleUI) DisplayLevels(ctx context.Context, view LevelsView) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if view.Title != "" {
		s.printf("%s\n", view.Title)
	}

	s.printf("Mode: %s\n", modeSummary(view.Mode))

	counts := levelCounts(view.Levels)
	footer := []string{
		fmt.Sprintf("Total %d", len(view.Levels)),
		fmt.Sprintf("%s %d / %s %d / %s %d",
			m.AccessibilityNormal, counts[m.AccessibilityNormal],
			m.AccessibilitySequenceBreak, counts[m.AccessibilitySequenceBreak],
			m.AccessibilityNone, counts[m.AccessibilityNone]),
	}

	s.printf("\n%s", renderTable(levelColumns, levelRows(view.Levels), footer))

	return nil
}

// DisplayRoute prints the connections that gave a node its level.
func (s *SimpleUI) DisplayRoute(ctx context.Context, view RouteView) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("%s: %s\n", view.Node, view.Level)

	switch {
	case view.Level == m.AccessibilityNone:
		s.printf("No route reaches %s.\n", view.Node)
	case len(view.Steps) == 0:
		s.printf("%s is the starting node.\n", view.Node)
	default:
		s.printf("\n%s", renderTable(routeColumns, routeRows(view.Steps), nil))
	}

	return nil
}

// DisplayState prints the saved tracker state.
func (s *SimpleUI) DisplayState(ctx context.Context, profile string, state m.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("Profile: %s\n\n%s", profile, renderTable(stateColumns, stateRows(state), nil))

	return nil
}

// DisplayCatalog prints a listing.
func (s *SimpleUI) DisplayCatalog(ctx context.Context, view CatalogView) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	footer := make([]string, len(view.Columns))
	if len(footer) > 0 {
		footer[0] = fmt.Sprintf("Total %d", len(view.Rows))
	}

	s.printf("%s\n\n%s", view.Title, renderTable(view.Columns, view.Rows, footer))

	return nil
}

// DisplayReports prints saved check reports.
func (s *SimpleUI) DisplayReports(ctx context.Context, reports []m.CheckReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(reports) == 0 {
		s.printf("No reports found.\n")
		return nil
	}

	s.printf("%s", renderTable(reportColumns, reportRows(reports), nil))

	return nil
}

// DisplayCheckInfo shows concurrency settings.
func (s *SimpleUI) DisplayCheckInfo(ctx context.Context, scenarios int, threads int, shardIndex int, shardCount int) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Checking %d scenario(s) with %d worker(s) (Shard %d/%d)\n", scenarios, threads, shardIndex, shardCount)
}

// DisplayScenarioResult shows the outcome of one scenario, with a diff when it failed.
func (s *SimpleUI) DisplayScenarioResult(ctx context.Context, result m.ScenarioResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	if result.Passed() {
		s.printf("PASS %s (%d expectation(s))\n", result.Scenario, len(result.Cases))
		return
	}

	s.printf("FAIL %s", result.Scenario)

	if result.Source != "" {
		s.printf(" [%s]", result.Source)
	}

	s.printf("\n%s", renderTable(failureColumns, failureRows(result), nil))

	if result.Diff != "" {
		s.printf("%s\n", strings.TrimRight(result.Diff, "\n"))
	}
}

// DisplayCheckSummary prints the pass rate and where the report went.
func (s *SimpleUI) DisplayCheckSummary(ctx context.Context, report m.CheckReport, reportPath m.Path) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Pass rate: %s (%d/%d expectations, %d scenario(s))\n",
		formatPassRate(report.PassRate), report.Passed, report.Total, report.Scenarios)

	if reportPath != "" {
		s.printf("Report: %s\n", reportPath)
	}
}

func renderTable(header []string, rows [][]string, footer []string) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk(rows)

	if len(footer) == len(header) {
		table.SetFooter(footer)
	}

	table.Render()

	return tableBuffer.String()
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
