package model

import "time"

// Scenario is one row group of an expectation table: a tracker state and the
// levels expected for some nodes under that state.
type Scenario struct {
	Name           string                                   `yaml:"name"`
	Mode           Mode                                     `yaml:"mode"`
	Items          map[ItemType]int                         `yaml:"items,omitempty"`
	SequenceBreaks []SequenceBreakType                      `yaml:"sequenceBreaks,omitempty"`
	Expect         map[RequirementNodeID]AccessibilityLevel `yaml:"expect"`

	// Source is the file the scenario was read from. It is not part of the file format.
	Source Path `yaml:"-"`
}

// State returns the tracker state described by the scenario.
func (s Scenario) State() State {
	return State{Mode: s.Mode, Items: s.Items, SequenceBreaks: s.SequenceBreaks}
}

// ScenarioFile is the on-disk layout of a scenario table.
type ScenarioFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// CaseResult is the outcome of a single expectation.
type CaseResult struct {
	Scenario string             `yaml:"scenario"`
	Source   Path               `yaml:"source,omitempty"`
	Node     RequirementNodeID  `yaml:"node"`
	Expected AccessibilityLevel `yaml:"expected"`
	Actual   AccessibilityLevel `yaml:"actual"`
	Passed   bool               `yaml:"passed"`
}

// ScenarioResult groups the expectation outcomes of one scenario.
type ScenarioResult struct {
	Scenario string       `yaml:"scenario"`
	Source   Path         `yaml:"source,omitempty"`
	Cases    []CaseResult `yaml:"cases"`
	Diff     string       `yaml:"diff,omitempty"`
}

// Passed reports whether every expectation of the scenario held.
func (r ScenarioResult) Passed() bool {
	for _, c := range r.Cases {
		if !c.Passed {
			return false
		}
	}

	return true
}

// CheckReport summarizes one check run.
type CheckReport struct {
	RunID      string           `yaml:"runId"`
	StartedAt  time.Time        `yaml:"startedAt"`
	Shard      string           `yaml:"shard,omitempty"`
	Total      int              `yaml:"total"`
	Passed     int              `yaml:"passed"`
	PassRate   float64          `yaml:"passRate"`
	Failures   []ScenarioResult `yaml:"failures,omitempty"`
	Scenarios  int              `yaml:"scenarios"`
	LogicGraph string           `yaml:"logicGraph,omitempty"`
}
