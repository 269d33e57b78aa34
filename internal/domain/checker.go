package domain

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	m "tracklogic.dev/pkg/tracklogic/internal/model"
)

// Checker evaluates a scenario and compares the outcome with its expectations.
type Checker interface {
	CheckScenario(ctx context.Context, scenario m.Scenario) (m.ScenarioResult, error)
}

type checker struct {
	graph     *Graph
	evaluator Evaluator
}

// NewChecker constructs a Checker over graph.
func NewChecker(graph *Graph) Checker {
	return &checker{graph: graph, evaluator: NewEvaluator(graph)}
}

// CheckScenario returns one CaseResult per expectation, in node order. Failed
// scenarios carry a unified diff of the expected and actual tables.
func (c *checker) CheckScenario(ctx context.Context, scenario m.Scenario) (m.ScenarioResult, error) {
	result := m.ScenarioResult{Scenario: scenario.Name, Source: scenario.Source}

	world, err := NewWorld(scenario.State())
	if err != nil {
		return result, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}

	eval, err := c.evaluator.Evaluate(ctx, world)
	if err != nil {
		return result, err
	}

	nodes := make([]m.RequirementNodeID, 0, len(scenario.Expect))
	for node := range scenario.Expect {
		if !c.graph.Has(node) {
			return result, fmt.Errorf("scenario %q expects %s: %w", scenario.Name, node, ErrUnknownNode)
		}

		nodes = append(nodes, node)
	}

	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })

	for _, node := range nodes {
		expected := scenario.Expect[node]
		actual := eval.Accessibility(node)

		result.Cases = append(result.Cases, m.CaseResult{
			Scenario: scenario.Name,
			Source:   scenario.Source,
			Node:     node,
			Expected: expected,
			Actual:   actual,
			Passed:   expected == actual,
		})
	}

	if !result.Passed() {
		result.Diff, err = expectationDiff(result.Cases)
		if err != nil {
			return result, fmt.Errorf("scenario %q: diff: %w", scenario.Name, err)
		}
	}

	slog.Debug("Checked scenario", "scenario", scenario.Name, "cases", len(result.Cases), "passed", result.Passed())

	return result, nil
}

func expectationDiff(cases []m.CaseResult) (string, error) {
	var expected, actual strings.Builder

	for _, c := range cases {
		fmt.Fprintf(&expected, "%s: %s\n", c.Node, c.Expected)
		fmt.Fprintf(&actual, "%s: %s\n", c.Node, c.Actual)
	}

	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected.String()),
		B:        difflib.SplitLines(actual.String()),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  1,
	})
}
