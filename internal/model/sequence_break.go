package model

import "gopkg.in/yaml.v3"

// SequenceBreakType identifies an optional glitch-based traversal technique.
type SequenceBreakType int

// Sequence break types.
const (
	BreakDarkRoomDeathMountainEntry SequenceBreakType = iota
	BreakDarkRoomHC
	BreakDarkRoomAT
	BreakDarkRoomPoD
	BreakDarkRoomMM
	BreakFakeFlippersFairyRevival
	BreakFakeFlippersQirnJump
	BreakFakeFlippersScreenTransition
	BreakFakeFlippersSplashDeletion
	BreakWaterWalk
	BreakWaterWalkFromWaterfallCave
	BreakBombJumpsPoDFallingBridge
	BreakBombJumpsIcePalace

	sequenceBreakTypeCount
)

// SequenceBreakTypeCount is the number of distinct sequence break types.
const SequenceBreakTypeCount = int(sequenceBreakTypeCount)

var sequenceBreakNames = []string{
	"DarkRoomDeathMountainEntry",
	"DarkRoomHC",
	"DarkRoomAT",
	"DarkRoomPoD",
	"DarkRoomMM",
	"FakeFlippersFairyRevival",
	"FakeFlippersQirnJump",
	"FakeFlippersScreenTransition",
	"FakeFlippersSplashDeletion",
	"WaterWalk",
	"WaterWalkFromWaterfallCave",
	"BombJumpsPoDFallingBridge",
	"BombJumpsIcePalace",
}

// SequenceBreakTypes lists every sequence break type in declaration order.
func SequenceBreakTypes() []SequenceBreakType {
	types := make([]SequenceBreakType, 0, SequenceBreakTypeCount)
	for i := range SequenceBreakTypeCount {
		types = append(types, SequenceBreakType(i))
	}

	return types
}

func (t SequenceBreakType) String() string {
	return enumName(sequenceBreakNames, t)
}

// Valid reports whether t is a declared sequence break type.
func (t SequenceBreakType) Valid() bool {
	return t >= 0 && t < sequenceBreakTypeCount
}

// ParseSequenceBreakType converts a sequence break name into a SequenceBreakType.
func ParseSequenceBreakType(value string) (SequenceBreakType, error) {
	return parseEnum[SequenceBreakType]("sequence break", sequenceBreakNames, value)
}

// MarshalYAML implements yaml.Marshaler.
func (t SequenceBreakType) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *SequenceBreakType) UnmarshalYAML(node *yaml.Node) error {
	return decodeEnum("sequence break", sequenceBreakNames, node, t)
}
