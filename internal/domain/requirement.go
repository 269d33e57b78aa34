package domain

import (
	"fmt"
	"strings"

	m "tracklogic.dev/pkg/tracklogic/internal/model"
)

// NodeLevels exposes the current level of every node while the graph is evaluated.
type NodeLevels interface {
	Level(id m.RequirementNodeID) m.AccessibilityLevel
}

// Requirement is a condition on a connection between two nodes.
type Requirement interface {
	// Evaluate returns the level the requirement grants under world, given
	// the node levels computed so far.
	Evaluate(world World, nodes NodeLevels) m.AccessibilityLevel
	// Dependencies lists the nodes whose level the requirement reads.
	Dependencies() []m.RequirementNodeID
	// Describe renders the requirement for route explanations.
	Describe() string
}

type alwaysRequirement struct{}

func (alwaysRequirement) Evaluate(World, NodeLevels) m.AccessibilityLevel {
	return m.AccessibilityNormal
}

func (alwaysRequirement) Dependencies() []m.RequirementNodeID { return nil }

func (alwaysRequirement) Describe() string { return "always" }

type itemRequirement struct {
	item  m.ItemType
	count int
}

func (r itemRequirement) Evaluate(world World, _ NodeLevels) m.AccessibilityLevel {
	if world.ItemCount(r.item) >= r.count {
		return m.AccessibilityNormal
	}

	return m.AccessibilityNone
}

func (r itemRequirement) Dependencies() []m.RequirementNodeID { return nil }

func (r itemRequirement) Describe() string {
	if r.count == 1 {
		return r.item.String()
	}

	return fmt.Sprintf("%s>=%d", r.item, r.count)
}

type sequenceBreakRequirement struct {
	sequenceBreak m.SequenceBreakType
}

func (r sequenceBreakRequirement) Evaluate(world World, _ NodeLevels) m.AccessibilityLevel {
	if world.SequenceBreakEnabled(r.sequenceBreak) {
		return m.AccessibilitySequenceBreak
	}

	return m.AccessibilityNone
}

func (r sequenceBreakRequirement) Dependencies() []m.RequirementNodeID { return nil }

func (r sequenceBreakRequirement) Describe() string {
	return "break:" + r.sequenceBreak.String()
}

type nodeRequirement struct {
	node m.RequirementNodeID
}

func (r nodeRequirement) Evaluate(_ World, nodes NodeLevels) m.AccessibilityLevel {
	return nodes.Level(r.node)
}

func (r nodeRequirement) Dependencies() []m.RequirementNodeID {
	return []m.RequirementNodeID{r.node}
}

func (r nodeRequirement) Describe() string {
	return "node:" + r.node.String()
}

// allRequirement is the conjunction of its children: the worst child level.
type allRequirement struct {
	children []Requirement
}

func (r allRequirement) Evaluate(world World, nodes NodeLevels) m.AccessibilityLevel {
	level := m.AccessibilityNormal
	for _, child := range r.children {
		level = m.MinLevel(level, child.Evaluate(world, nodes))
		if level == m.AccessibilityNone {
			return level
		}
	}

	return level
}

func (r allRequirement) Dependencies() []m.RequirementNodeID {
	return collectDependencies(r.children)
}

func (r allRequirement) Describe() string {
	return joinDescriptions(r.children, " & ")
}

// anyRequirement is the disjunction of its children: the best child level.
type anyRequirement struct {
	children []Requirement
}

func (r anyRequirement) Evaluate(world World, nodes NodeLevels) m.AccessibilityLevel {
	level := m.AccessibilityNone
	for _, child := range r.children {
		level = m.MaxLevel(level, child.Evaluate(world, nodes))
		if level == m.AccessibilityNormal {
			return level
		}
	}

	return level
}

func (r anyRequirement) Dependencies() []m.RequirementNodeID {
	return collectDependencies(r.children)
}

func (r anyRequirement) Describe() string {
	return joinDescriptions(r.children, " | ")
}

type modeRequirement struct {
	description string
	matches     func(mode m.Mode) bool
}

func (r modeRequirement) Evaluate(world World, _ NodeLevels) m.AccessibilityLevel {
	if r.matches(world.Mode()) {
		return m.AccessibilityNormal
	}

	return m.AccessibilityNone
}

func (r modeRequirement) Dependencies() []m.RequirementNodeID { return nil }

func (r modeRequirement) Describe() string { return r.description }

func collectDependencies(children []Requirement) []m.RequirementNodeID {
	var deps []m.RequirementNodeID
	for _, child := range children {
		deps = append(deps, child.Dependencies()...)
	}

	return deps
}

func joinDescriptions(children []Requirement, sep string) string {
	parts := make([]string, 0, len(children))

	for _, child := range children {
		desc := child.Describe()
		if _, composite := child.(allRequirement); composite {
			desc = "(" + desc + ")"
		}

		if _, composite := child.(anyRequirement); composite {
			desc = "(" + desc + ")"
		}

		parts = append(parts, desc)
	}

	return strings.Join(parts, sep)
}
