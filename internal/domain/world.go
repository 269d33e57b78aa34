package domain

import (
	"errors"
	"fmt"

	m "tracklogic.dev/pkg/tracklogic/internal/model"
)

// ErrItemCountOutOfRange is returned when an item count is negative or above the item's maximum.
var ErrItemCountOutOfRange = errors.New("item count out of range")

// World is an immutable snapshot of everything node accessibility depends on.
// It is a plain value; copies never share state.
type World struct {
	mode   m.Mode
	items  [m.ItemTypeCount]int
	breaks [m.SequenceBreakTypeCount]bool
}

// NewWorld validates state and builds a World from it.
func NewWorld(state m.State) (World, error) {
	world := World{mode: state.Mode}

	for _, itemType := range m.ItemTypes() {
		world.items[itemType] = itemType.Starting()
	}

	for itemType, count := range state.Items {
		if !itemType.Valid() {
			return World{}, fmt.Errorf("item %d: %w", int(itemType), m.ErrUnknownValue)
		}

		if count < 0 || count > itemType.Maximum() {
			return World{}, fmt.Errorf("%s=%d (max %d): %w", itemType, count, itemType.Maximum(), ErrItemCountOutOfRange)
		}

		world.items[itemType] = count
	}

	for _, sb := range state.SequenceBreaks {
		if !sb.Valid() {
			return World{}, fmt.Errorf("sequence break %d: %w", int(sb), m.ErrUnknownValue)
		}

		world.breaks[sb] = true
	}

	return world, nil
}

// Mode returns the seed settings.
func (w World) Mode() m.Mode {
	return w.mode
}

// ItemCount returns the count of an item.
func (w World) ItemCount(itemType m.ItemType) int {
	if !itemType.Valid() {
		return 0
	}

	return w.items[itemType]
}

// SequenceBreakEnabled reports whether a sequence break may be used.
func (w World) SequenceBreakEnabled(sb m.SequenceBreakType) bool {
	if !sb.Valid() {
		return false
	}

	return w.breaks[sb]
}

// State converts the world back into its normalized persisted form.
func (w World) State() m.State {
	state := m.State{Mode: w.mode, Items: map[m.ItemType]int{}}

	for _, itemType := range m.ItemTypes() {
		state.Items[itemType] = w.items[itemType]
	}

	for _, sb := range m.SequenceBreakTypes() {
		if w.breaks[sb] {
			state.SequenceBreaks = append(state.SequenceBreaks, sb)
		}
	}

	return state.Normalize()
}
