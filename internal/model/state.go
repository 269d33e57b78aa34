package model

import "sort"

// Path represents a file system path.
type Path string

// State is the persisted tracker state: seed mode, item counts and enabled
// sequence breaks. Items missing from the map are at their starting count.
type State struct {
	Mode           Mode                `yaml:"mode"`
	Items          map[ItemType]int    `yaml:"items,omitempty"`
	SequenceBreaks []SequenceBreakType `yaml:"sequenceBreaks,omitempty"`
}

// DefaultState returns the state of a freshly reset tracker.
func DefaultState() State {
	return State{
		Mode:  DefaultMode(),
		Items: map[ItemType]int{},
	}
}

// Normalize drops items at their starting count and sorts and dedupes
// sequence breaks so equal states compare and serialize identically.
func (s State) Normalize() State {
	items := make(map[ItemType]int, len(s.Items))
	for itemType, count := range s.Items {
		if count != itemType.Starting() {
			items[itemType] = count
		}
	}

	seen := make(map[SequenceBreakType]bool, len(s.SequenceBreaks))
	breaks := make([]SequenceBreakType, 0, len(s.SequenceBreaks))

	for _, sb := range s.SequenceBreaks {
		if seen[sb] {
			continue
		}

		seen[sb] = true
		breaks = append(breaks, sb)
	}

	sort.Slice(breaks, func(i, j int) bool { return breaks[i] < breaks[j] })

	return State{Mode: s.Mode, Items: items, SequenceBreaks: breaks}
}
