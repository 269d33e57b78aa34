// Package controller provides output adapters for displaying tracker results.
package controller

import (
	"context"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	m "tracklogic.dev/pkg/tracklogic/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeView StartMode = iota
	ModeCheck
	ModeWatch
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithViewMode shows a single result until the user closes it.
func WithViewMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeView
	}
}

// WithCheckMode streams scenario results.
func WithCheckMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeCheck
	}
}

// WithWatchMode keeps the UI open and refreshes it on every display call.
func WithWatchMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeWatch
	}
}

func newStartConfig(options []StartOption) StartConfig {
	config := StartConfig{mode: ModeView}
	for _, option := range options {
		option(&config)
	}

	return config
}

// LevelsView is the accessibility of a set of nodes under one state.
type LevelsView struct {
	Title  string
	Mode   m.Mode
	Levels []m.NodeLevel
}

// RouteView explains how a node reached its level.
type RouteView struct {
	Node  m.RequirementNodeID
	Level m.AccessibilityLevel
	Steps []m.RouteStep
}

// CatalogView is a generic listing.
type CatalogView struct {
	Title   string
	Columns []string
	Rows    [][]string
}

// UI defines the interface for displaying tracker output.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish (user closes it)
	DisplayLevels(ctx context.Context, view LevelsView) error
	DisplayRoute(ctx context.Context, view RouteView) error
	DisplayState(ctx context.Context, profile string, state m.State) error
	DisplayCatalog(ctx context.Context, view CatalogView) error
	DisplayReports(ctx context.Context, reports []m.CheckReport) error
	DisplayCheckInfo(ctx context.Context, scenarios int, threads int, shardIndex int, shardCount int)
	DisplayScenarioResult(ctx context.Context, result m.ScenarioResult)
	DisplayCheckSummary(ctx context.Context, report m.CheckReport, reportPath m.Path)
}

// NewUI picks the interactive TUI for terminals and plain tables otherwise.
func NewUI(cmd *cobra.Command, useTTY bool) UI {
	if useTTY {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether w is an interactive terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
