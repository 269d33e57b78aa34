package model

// NodeLevel pairs a node with its computed level.
type NodeLevel struct {
	Node  RequirementNodeID  `yaml:"node"`
	Level AccessibilityLevel `yaml:"level"`
}

// RouteStep is one connection on the route that gave a node its level.
type RouteStep struct {
	From        RequirementNodeID  `yaml:"from"`
	To          RequirementNodeID  `yaml:"to"`
	Requirement string             `yaml:"requirement"`
	Level       AccessibilityLevel `yaml:"level"`
}
