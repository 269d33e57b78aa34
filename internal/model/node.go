package model

import "gopkg.in/yaml.v3"

// RequirementNodeID identifies a point in the world-traversal graph.
type RequirementNodeID int

// Requirement node identifiers.
const (
	NodeStart RequirementNodeID = iota
	NodeLightWorld
	NodeLightWorldNotBunny
	NodeLightWorldDash
	NodeLightWorldLift1
	NodeLightWorldLift2
	NodeLightWorldHammer
	NodeLightWorldFlute
	NodeBowUsable
	NodeHyruleCastle
	NodeHyruleCastleSewers
	NodeHyruleCastleEscape
	NodeAgahnimTower
	NodeAgahnimTowerDarkMaze
	NodeKingsTomb
	NodeZoraArea
	NodeZoraLedge
	NodeDeathMountainEntry
	NodeDeathMountainWestBottom
	NodeDeathMountainWestTop
	NodeDeathMountainEastBottom
	NodeDeathMountainEastTop
	NodeTowerOfHera
	NodeDarkWorldWest
	NodeDarkWorldWestNotBunny
	NodeDarkWorldSouth
	NodeDarkWorldSouthNotBunny
	NodeDarkWorldEast
	NodeDarkWorldEastNotBunny
	NodePalaceOfDarkness
	NodePalaceOfDarknessDarkMaze
	NodeSwampPalace
	NodeSkullWoods
	NodeSkullWoodsBack
	NodeThievesTown
	NodeIcePalaceEntry
	NodeIcePalace
	NodeMiseryMireArea
	NodeMiseryMire
	NodeMiseryMireDarkRoom
	NodeDarkDeathMountainWestBottom
	NodeDarkDeathMountainEastTop
	NodeTurtleRock
	NodeGanonsTower

	requirementNodeCount
)

// RequirementNodeCount is the number of distinct node identifiers.
const RequirementNodeCount = int(requirementNodeCount)

var requirementNodeNames = []string{
	"Start",
	"LightWorld",
	"LightWorldNotBunny",
	"LightWorldDash",
	"LightWorldLift1",
	"LightWorldLift2",
	"LightWorldHammer",
	"LightWorldFlute",
	"BowUsable",
	"HyruleCastle",
	"HyruleCastleSewers",
	"HyruleCastleEscape",
	"AgahnimTower",
	"AgahnimTowerDarkMaze",
	"KingsTomb",
	"ZoraArea",
	"ZoraLedge",
	"DeathMountainEntry",
	"DeathMountainWestBottom",
	"DeathMountainWestTop",
	"DeathMountainEastBottom",
	"DeathMountainEastTop",
	"TowerOfHera",
	"DarkWorldWest",
	"DarkWorldWestNotBunny",
	"DarkWorldSouth",
	"DarkWorldSouthNotBunny",
	"DarkWorldEast",
	"DarkWorldEastNotBunny",
	"PalaceOfDarkness",
	"PalaceOfDarknessDarkMaze",
	"SwampPalace",
	"SkullWoods",
	"SkullWoodsBack",
	"ThievesTown",
	"IcePalaceEntry",
	"IcePalace",
	"MiseryMireArea",
	"MiseryMire",
	"MiseryMireDarkRoom",
	"DarkDeathMountainWestBottom",
	"DarkDeathMountainEastTop",
	"TurtleRock",
	"GanonsTower",
}

// RequirementNodeIDs lists every node identifier in declaration order.
func RequirementNodeIDs() []RequirementNodeID {
	ids := make([]RequirementNodeID, 0, RequirementNodeCount)
	for i := range RequirementNodeCount {
		ids = append(ids, RequirementNodeID(i))
	}

	return ids
}

func (id RequirementNodeID) String() string {
	return enumName(requirementNodeNames, id)
}

// Valid reports whether id is a declared node identifier.
func (id RequirementNodeID) Valid() bool {
	return id >= 0 && id < requirementNodeCount
}

// ParseRequirementNodeID converts a node name into a RequirementNodeID.
func ParseRequirementNodeID(value string) (RequirementNodeID, error) {
	return parseEnum[RequirementNodeID]("requirement node", requirementNodeNames, value)
}

// MarshalYAML implements yaml.Marshaler.
func (id RequirementNodeID) MarshalYAML() (interface{}, error) {
	return id.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (id *RequirementNodeID) UnmarshalYAML(node *yaml.Node) error {
	return decodeEnum("requirement node", requirementNodeNames, node, id)
}
