package domain

import (
	"context"
	"log/slog"

	m "tracklogic.dev/pkg/tracklogic/internal/model"
)

// cancelCheckInterval is how many connection evaluations run between context checks.
const cancelCheckInterval = 256

// Evaluator computes node accessibility for a world.
type Evaluator interface {
	Evaluate(ctx context.Context, world World) (*Evaluation, error)
}

type evaluator struct {
	graph *Graph
}

// NewEvaluator constructs an Evaluator over a compiled graph.
func NewEvaluator(graph *Graph) Evaluator {
	return &evaluator{graph: graph}
}

// Evaluate runs a monotone fix-point over the graph. Start is Normal and every
// other node starts at None; a connection offers min(level(from), requirement)
// to its target, and the target keeps the best offer. Levels only rise, so
// the worklist drains after at most three rises per node.
func (e *evaluator) Evaluate(ctx context.Context, world World) (*Evaluation, error) {
	eval := newEvaluation(e.graph, world)

	if !e.graph.Has(m.NodeStart) {
		return eval, nil
	}

	eval.levels[m.NodeStart] = m.AccessibilityNormal

	queue := make([]int, 0, len(e.graph.connections))
	queued := make([]bool, len(e.graph.connections))

	push := func(indices []int) {
		for _, index := range indices {
			if !queued[index] {
				queued[index] = true
				queue = append(queue, index)
			}
		}
	}

	push(e.graph.outgoing[m.NodeStart])

	steps := 0

	for len(queue) > 0 {
		if steps%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		steps++

		index := queue[0]
		queue = queue[1:]
		queued[index] = false

		conn := e.graph.connections[index]

		from := eval.levels[conn.From]
		if from == m.AccessibilityNone {
			continue
		}

		offer := m.MinLevel(from, conn.Requirement.Evaluate(world, eval))
		if offer <= eval.levels[conn.To] {
			continue
		}

		eval.levels[conn.To] = offer
		eval.via[conn.To] = index

		push(e.graph.outgoing[conn.To])
		push(e.graph.dependents[conn.To])
	}

	slog.Debug("evaluated graph", "graph", e.graph.name, "steps", steps)

	return eval, nil
}

// Evaluation is the result of evaluating one world. It is read-only once returned.
type Evaluation struct {
	graph  *Graph
	world  World
	levels [m.RequirementNodeCount]m.AccessibilityLevel
	via    [m.RequirementNodeCount]int
}

func newEvaluation(graph *Graph, world World) *Evaluation {
	eval := &Evaluation{graph: graph, world: world}
	for i := range eval.via {
		eval.via[i] = -1
	}

	return eval
}

// Level implements NodeLevels.
func (e *Evaluation) Level(id m.RequirementNodeID) m.AccessibilityLevel {
	if !id.Valid() {
		return m.AccessibilityNone
	}

	return e.levels[id]
}

// Accessibility returns the computed level of a node.
func (e *Evaluation) Accessibility(id m.RequirementNodeID) m.AccessibilityLevel {
	return e.Level(id)
}

// World returns the world the evaluation was computed for.
func (e *Evaluation) World() World {
	return e.world
}

// Levels returns the level of every declared node in declaration order.
func (e *Evaluation) Levels() []m.NodeLevel {
	levels := make([]m.NodeLevel, 0, len(e.graph.nodes))
	for _, id := range e.graph.nodes {
		levels = append(levels, m.NodeLevel{Node: id, Level: e.levels[id]})
	}

	return levels
}

// Route returns the connections, from Start onward, that produced the node's
// level. It is empty for Start and for unreachable nodes.
func (e *Evaluation) Route(id m.RequirementNodeID) []m.RouteStep {
	if !id.Valid() || e.levels[id] == m.AccessibilityNone {
		return nil
	}

	var steps []m.RouteStep

	current := id
	for range len(e.graph.connections) + 1 {
		index := e.via[current]
		if index < 0 {
			break
		}

		conn := e.graph.connections[index]
		steps = append(steps, m.RouteStep{
			From:        conn.From,
			To:          conn.To,
			Requirement: conn.Requirement.Describe(),
			Level:       e.levels[conn.To],
		})
		current = conn.From
	}

	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}

	return steps
}
