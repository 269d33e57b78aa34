package model

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// WorldState is the game mode variant that alters graph topology.
type WorldState int

// World states.
const (
	WorldStateStandardOpen WorldState = iota
	WorldStateRetro
	WorldStateInverted
)

var worldStateNames = []string{"StandardOpen", "Retro", "Inverted"}

// WorldStates lists every world state.
func WorldStates() []WorldState {
	return []WorldState{WorldStateStandardOpen, WorldStateRetro, WorldStateInverted}
}

func (w WorldState) String() string {
	return enumName(worldStateNames, w)
}

// ParseWorldState converts a name into a WorldState.
func ParseWorldState(value string) (WorldState, error) {
	return parseEnum[WorldState]("world state", worldStateNames, value)
}

// MarshalYAML implements yaml.Marshaler.
func (w WorldState) MarshalYAML() (interface{}, error) {
	return w.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (w *WorldState) UnmarshalYAML(node *yaml.Node) error {
	return decodeEnum("world state", worldStateNames, node, w)
}

// ItemPlacement is the item placement policy of the seed.
type ItemPlacement int

// Item placement policies. Advanced is the zero value so that an unset
// Mode matches DefaultMode.
const (
	ItemPlacementAdvanced ItemPlacement = iota
	ItemPlacementBasic
)

var itemPlacementNames = []string{"Advanced", "Basic"}

// ItemPlacements lists every item placement policy.
func ItemPlacements() []ItemPlacement {
	return []ItemPlacement{ItemPlacementAdvanced, ItemPlacementBasic}
}

func (p ItemPlacement) String() string {
	return enumName(itemPlacementNames, p)
}

// ParseItemPlacement converts a name into an ItemPlacement.
func ParseItemPlacement(value string) (ItemPlacement, error) {
	return parseEnum[ItemPlacement]("item placement", itemPlacementNames, value)
}

// MarshalYAML implements yaml.Marshaler.
func (p ItemPlacement) MarshalYAML() (interface{}, error) {
	return p.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *ItemPlacement) UnmarshalYAML(node *yaml.Node) error {
	return decodeEnum("item placement", itemPlacementNames, node, p)
}

// DungeonItemShuffle is the dungeon item shuffle policy of the seed.
type DungeonItemShuffle int

// Dungeon item shuffle policies, from least to most shuffled.
const (
	DungeonItemShuffleStandard DungeonItemShuffle = iota
	DungeonItemShuffleMapsCompasses
	DungeonItemShuffleMapsCompassesSmallKeys
	DungeonItemShuffleKeysanity
)

var dungeonItemShuffleNames = []string{"Standard", "MapsCompasses", "MapsCompassesSmallKeys", "Keysanity"}

// DungeonItemShuffles lists every dungeon item shuffle policy.
func DungeonItemShuffles() []DungeonItemShuffle {
	return []DungeonItemShuffle{
		DungeonItemShuffleStandard,
		DungeonItemShuffleMapsCompasses,
		DungeonItemShuffleMapsCompassesSmallKeys,
		DungeonItemShuffleKeysanity,
	}
}

func (d DungeonItemShuffle) String() string {
	return enumName(dungeonItemShuffleNames, d)
}

// ParseDungeonItemShuffle converts a name into a DungeonItemShuffle.
func ParseDungeonItemShuffle(value string) (DungeonItemShuffle, error) {
	return parseEnum[DungeonItemShuffle]("dungeon item shuffle", dungeonItemShuffleNames, value)
}

// MarshalYAML implements yaml.Marshaler.
func (d DungeonItemShuffle) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *DungeonItemShuffle) UnmarshalYAML(node *yaml.Node) error {
	return decodeEnum("dungeon item shuffle", dungeonItemShuffleNames, node, d)
}

// Mode holds the seed settings that shape the logic graph.
type Mode struct {
	ItemPlacement      ItemPlacement      `yaml:"itemPlacement"`
	DungeonItemShuffle DungeonItemShuffle `yaml:"dungeonItemShuffle"`
	WorldState         WorldState         `yaml:"worldState"`
	EntranceShuffle    bool               `yaml:"entranceShuffle"`
	EnemyShuffle       bool               `yaml:"enemyShuffle"`
}

// DefaultMode returns the mode a fresh tracker starts with. It is the zero Mode.
func DefaultMode() Mode {
	return Mode{
		ItemPlacement:      ItemPlacementAdvanced,
		DungeonItemShuffle: DungeonItemShuffleStandard,
		WorldState:         WorldStateStandardOpen,
	}
}

// Names of the Mode settings in files, Redis hashes and on the command line.
const (
	ModeSettingItemPlacement      = "itemPlacement"
	ModeSettingDungeonItemShuffle = "dungeonItemShuffle"
	ModeSettingWorldState         = "worldState"
	ModeSettingEntranceShuffle    = "entranceShuffle"
	ModeSettingEnemyShuffle       = "enemyShuffle"
)

// ModeSettings lists the setting names in declaration order.
func ModeSettings() []string {
	return []string{
		ModeSettingItemPlacement,
		ModeSettingDungeonItemShuffle,
		ModeSettingWorldState,
		ModeSettingEntranceShuffle,
		ModeSettingEnemyShuffle,
	}
}

// Fields returns every setting rendered as text, keyed by setting name.
func (md Mode) Fields() map[string]string {
	return map[string]string{
		ModeSettingItemPlacement:      md.ItemPlacement.String(),
		ModeSettingDungeonItemShuffle: md.DungeonItemShuffle.String(),
		ModeSettingWorldState:         md.WorldState.String(),
		ModeSettingEntranceShuffle:    strconv.FormatBool(md.EntranceShuffle),
		ModeSettingEnemyShuffle:       strconv.FormatBool(md.EnemyShuffle),
	}
}

// Set parses value into the named setting. On error md is unchanged.
func (md *Mode) Set(setting, value string) error {
	var err error

	next := *md

	switch setting {
	case ModeSettingItemPlacement:
		next.ItemPlacement, err = ParseItemPlacement(value)
	case ModeSettingDungeonItemShuffle:
		next.DungeonItemShuffle, err = ParseDungeonItemShuffle(value)
	case ModeSettingWorldState:
		next.WorldState, err = ParseWorldState(value)
	case ModeSettingEntranceShuffle:
		next.EntranceShuffle, err = parseSwitch(setting, value)
	case ModeSettingEnemyShuffle:
		next.EnemyShuffle, err = parseSwitch(setting, value)
	default:
		return fmt.Errorf("mode setting %q: %w", setting, ErrUnknownValue)
	}

	if err != nil {
		return err
	}

	*md = next

	return nil
}

func parseSwitch(setting, value string) (bool, error) {
	enabled, err := ParseSwitch(value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", setting, err)
	}

	return enabled, nil
}

// ParseSwitch reads an on/off value, ignoring case. It accepts on, off,
// enable(d), disable(d) and anything strconv.ParseBool understands.
func ParseSwitch(value string) (bool, error) {
	switch normalized := strings.ToLower(strings.TrimSpace(value)); normalized {
	case "on", "enable", "enabled":
		return true, nil
	case "off", "disable", "disabled":
		return false, nil
	default:
		enabled, err := strconv.ParseBool(normalized)
		if err != nil {
			return false, fmt.Errorf("switch %q: %w", value, ErrUnknownValue)
		}

		return enabled, nil
	}
}
