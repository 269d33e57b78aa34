package model

import "gopkg.in/yaml.v3"

// ItemType identifies a trackable item.
type ItemType int

// Item types. Progressive items (Sword, Shield, Mail, Gloves, Bottle) and
// collectibles (Crystal, SmallKeyAT) count upward to their maximum.
const (
	ItemSword ItemType = iota
	ItemShield
	ItemMail
	ItemBow
	ItemSilverArrows
	ItemBoomerang
	ItemRedBoomerang
	ItemHookshot
	ItemPowder
	ItemMushroom
	ItemFireRod
	ItemIceRod
	ItemBombos
	ItemEther
	ItemQuake
	ItemLamp
	ItemHammer
	ItemShovel
	ItemFlute
	ItemNet
	ItemBook
	ItemBottle
	ItemCaneOfSomaria
	ItemCaneOfByrna
	ItemCape
	ItemMirror
	ItemGloves
	ItemBoots
	ItemFlippers
	ItemMoonPearl
	ItemHalfMagic
	ItemAga
	ItemCrystal
	ItemSmallKeyAT

	itemTypeCount
)

// ItemTypeCount is the number of distinct item types.
const ItemTypeCount = int(itemTypeCount)

var itemTypeNames = []string{
	"Sword", "Shield", "Mail", "Bow", "SilverArrows", "Boomerang", "RedBoomerang",
	"Hookshot", "Powder", "Mushroom", "FireRod", "IceRod", "Bombos", "Ether", "Quake",
	"Lamp", "Hammer", "Shovel", "Flute", "Net", "Book", "Bottle", "CaneOfSomaria",
	"CaneOfByrna", "Cape", "Mirror", "Gloves", "Boots", "Flippers", "MoonPearl",
	"HalfMagic", "Aga", "Crystal", "SmallKeyAT",
}

var itemMaximum = map[ItemType]int{
	ItemSword:      4,
	ItemShield:     3,
	ItemMail:       2,
	ItemBottle:     4,
	ItemGloves:     2,
	ItemCrystal:    7,
	ItemSmallKeyAT: 2,
}

// ItemTypes lists every item type in declaration order.
func ItemTypes() []ItemType {
	types := make([]ItemType, 0, ItemTypeCount)
	for i := range ItemTypeCount {
		types = append(types, ItemType(i))
	}

	return types
}

func (t ItemType) String() string {
	return enumName(itemTypeNames, t)
}

// Valid reports whether t is a declared item type.
func (t ItemType) Valid() bool {
	return t >= 0 && t < itemTypeCount
}

// Maximum is the highest count the item can reach.
func (t ItemType) Maximum() int {
	if maximum, ok := itemMaximum[t]; ok {
		return maximum
	}

	return 1
}

// Starting is the count the item resets to.
func (t ItemType) Starting() int {
	return 0
}

// ParseItemType converts an item name into an ItemType.
func ParseItemType(value string) (ItemType, error) {
	return parseEnum[ItemType]("item", itemTypeNames, value)
}

// MarshalYAML implements yaml.Marshaler.
func (t ItemType) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *ItemType) UnmarshalYAML(node *yaml.Node) error {
	return decodeEnum("item", itemTypeNames, node, t)
}
