package controller

import (
	"fmt"
	"strconv"
	"strings"

	m "tracklogic.dev/pkg/tracklogic/internal/model"
)

var (
	levelColumns   = []string{"Node", "Accessibility"}
	routeColumns   = []string{"#", "From", "To", "Requires", "Level"}
	stateColumns   = []string{"Setting", "Value"}
	reportColumns  = []string{"Run", "Started", "Shard", "Scenarios", "Passed", "Pass rate"}
	failureColumns = []string{"Scenario", "Node", "Expected", "Actual"}
)

// levelColumn is the index of the level in levelColumns rows.
const levelColumn = 1

func levelRows(levels []m.NodeLevel) [][]string {
	rows := make([][]string, 0, len(levels))
	for _, level := range levels {
		rows = append(rows, []string{level.Node.String(), level.Level.String()})
	}

	return rows
}

func routeRows(steps []m.RouteStep) [][]string {
	rows := make([][]string, 0, len(steps))
	for i, step := range steps {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			step.From.String(),
			step.To.String(),
			step.Requirement,
			step.Level.String(),
		})
	}

	return rows
}

func modeSummary(mode m.Mode) string {
	return fmt.Sprintf("%s / %s / %s / entrance shuffle %s / enemy shuffle %s",
		mode.WorldState, mode.ItemPlacement, mode.DungeonItemShuffle,
		onOff(mode.EntranceShuffle), onOff(mode.EnemyShuffle))
}

func stateRows(state m.State) [][]string {
	state = state.Normalize()

	rows := [][]string{
		{"worldState", state.Mode.WorldState.String()},
		{"itemPlacement", state.Mode.ItemPlacement.String()},
		{"dungeonItemShuffle", state.Mode.DungeonItemShuffle.String()},
		{"entranceShuffle", strconv.FormatBool(state.Mode.EntranceShuffle)},
		{"enemyShuffle", strconv.FormatBool(state.Mode.EnemyShuffle)},
	}

	for _, itemType := range m.ItemTypes() {
		if count, ok := state.Items[itemType]; ok {
			rows = append(rows, []string{"item " + itemType.String(), fmt.Sprintf("%d/%d", count, itemType.Maximum())})
		}
	}

	breaks := make([]string, 0, len(state.SequenceBreaks))
	for _, sb := range state.SequenceBreaks {
		breaks = append(breaks, sb.String())
	}

	if len(breaks) == 0 {
		breaks = append(breaks, "none")
	}

	rows = append(rows, []string{"sequenceBreaks", strings.Join(breaks, ", ")})

	return rows
}

func reportRows(reports []m.CheckReport) [][]string {
	rows := make([][]string, 0, len(reports))
	for _, report := range reports {
		rows = append(rows, []string{
			shortRunID(report.RunID),
			report.StartedAt.Format("2006-01-02 15:04:05"),
			orDash(report.Shard),
			strconv.Itoa(report.Scenarios),
			fmt.Sprintf("%d/%d", report.Passed, report.Total),
			formatPassRate(report.PassRate),
		})
	}

	return rows
}

func failureRows(result m.ScenarioResult) [][]string {
	var rows [][]string

	for _, c := range result.Cases {
		if c.Passed {
			continue
		}

		rows = append(rows, []string{result.Scenario, c.Node.String(), c.Expected.String(), c.Actual.String()})
	}

	return rows
}

func levelCounts(levels []m.NodeLevel) map[m.AccessibilityLevel]int {
	counts := make(map[m.AccessibilityLevel]int, len(m.AccessibilityLevels()))
	for _, level := range levels {
		counts[level.Level]++
	}

	return counts
}

func formatPassRate(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate*100)
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}

	return id
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}

	return value
}

func onOff(on bool) string {
	if on {
		return "on"
	}

	return "off"
}
