package model

// LogicSpec is the declarative description of a requirement graph.
type LogicSpec struct {
	Name        string              `yaml:"name"`
	Nodes       []RequirementNodeID `yaml:"nodes"`
	Connections []ConnectionSpec    `yaml:"connections"`
}

// ConnectionSpec links two nodes. A missing Requires means the connection is always open.
type ConnectionSpec struct {
	From     RequirementNodeID `yaml:"from"`
	To       RequirementNodeID `yaml:"to"`
	Requires *RequirementSpec  `yaml:"requires,omitempty"`
}

// RequirementSpec is one node of a requirement expression. Exactly one kind
// must be set; Count only accompanies Item and defaults to 1 when omitted.
type RequirementSpec struct {
	All []RequirementSpec `yaml:"all,omitempty"`
	Any []RequirementSpec `yaml:"any,omitempty"`

	Item  *ItemType `yaml:"item,omitempty"`
	Count *int      `yaml:"count,omitempty"`

	Break *SequenceBreakType `yaml:"break,omitempty"`
	Node  *RequirementNodeID `yaml:"node,omitempty"`

	WorldState         []WorldState         `yaml:"worldState,omitempty"`
	ItemPlacement      []ItemPlacement      `yaml:"itemPlacement,omitempty"`
	DungeonItemShuffle []DungeonItemShuffle `yaml:"dungeonItemShuffle,omitempty"`
	EntranceShuffle    *bool                `yaml:"entranceShuffle,omitempty"`
	EnemyShuffle       *bool                `yaml:"enemyShuffle,omitempty"`
}
