package domain

import (
	"errors"
	"fmt"

	m "tracklogic.dev/pkg/tracklogic/internal/model"
)

// ErrUnknownNode is returned when a graph references a node it does not declare.
var ErrUnknownNode = errors.New("unknown node")

// Connection is a directed edge of the requirement graph.
type Connection struct {
	From        m.RequirementNodeID
	To          m.RequirementNodeID
	Requirement Requirement
}

// Graph is a compiled, read-only requirement graph. It is safe to share
// between goroutines.
type Graph struct {
	name        string
	nodes       []m.RequirementNodeID
	declared    [m.RequirementNodeCount]bool
	connections []Connection
	outgoing    [m.RequirementNodeCount][]int
	dependents  [m.RequirementNodeCount][]int
}

// NewGraph validates spec and compiles its requirements.
func NewGraph(spec m.LogicSpec) (*Graph, error) {
	graph := &Graph{name: spec.Name}

	for _, id := range spec.Nodes {
		if !id.Valid() {
			return nil, fmt.Errorf("node %d: %w", int(id), ErrUnknownNode)
		}

		if graph.declared[id] {
			return nil, fmt.Errorf("node %s declared twice: %w", id, ErrUnknownNode)
		}

		graph.declared[id] = true
		graph.nodes = append(graph.nodes, id)
	}

	if !graph.declared[m.NodeStart] {
		return nil, fmt.Errorf("graph must declare %s: %w", m.NodeStart, ErrUnknownNode)
	}

	for i, conn := range spec.Connections {
		if err := graph.addConnection(i, conn); err != nil {
			return nil, err
		}
	}

	return graph, nil
}

func (g *Graph) addConnection(index int, spec m.ConnectionSpec) error {
	for _, id := range []m.RequirementNodeID{spec.From, spec.To} {
		if !id.Valid() || !g.declared[id] {
			return fmt.Errorf("connection %d (%s -> %s): %s: %w", index, spec.From, spec.To, id, ErrUnknownNode)
		}
	}

	requirement, err := CompileRequirement(spec.Requires)
	if err != nil {
		return fmt.Errorf("connection %d (%s -> %s): %w", index, spec.From, spec.To, err)
	}

	connIndex := len(g.connections)

	for _, dep := range requirement.Dependencies() {
		if !g.declared[dep] {
			return fmt.Errorf("connection %d (%s -> %s): requirement on %s: %w", index, spec.From, spec.To, dep, ErrUnknownNode)
		}

		g.dependents[dep] = append(g.dependents[dep], connIndex)
	}

	g.connections = append(g.connections, Connection{From: spec.From, To: spec.To, Requirement: requirement})
	g.outgoing[spec.From] = append(g.outgoing[spec.From], connIndex)

	return nil
}

// Name returns the graph's display name.
func (g *Graph) Name() string {
	return g.name
}

// Nodes returns the declared nodes in declaration order.
func (g *Graph) Nodes() []m.RequirementNodeID {
	return append([]m.RequirementNodeID(nil), g.nodes...)
}

// Has reports whether the graph declares id.
func (g *Graph) Has(id m.RequirementNodeID) bool {
	return id.Valid() && g.declared[id]
}

// Connections returns every connection in declaration order.
func (g *Graph) Connections() []Connection {
	return append([]Connection(nil), g.connections...)
}

// Outgoing returns the connections leaving id.
func (g *Graph) Outgoing(id m.RequirementNodeID) []Connection {
	if !id.Valid() {
		return nil
	}

	conns := make([]Connection, 0, len(g.outgoing[id]))
	for _, index := range g.outgoing[id] {
		conns = append(conns, g.connections[index])
	}

	return conns
}
