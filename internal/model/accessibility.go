package model

import "gopkg.in/yaml.v3"

// AccessibilityLevel is the outcome of reachability analysis for a node.
// Values are ordered from worse to better.
type AccessibilityLevel int

const (
	// AccessibilityNone means the node cannot be reached.
	AccessibilityNone AccessibilityLevel = iota
	// AccessibilitySequenceBreak means the node is reachable only through an enabled sequence break.
	AccessibilitySequenceBreak
	// AccessibilityNormal means the node is reachable through intended means.
	AccessibilityNormal
)

var accessibilityNames = []string{"None", "SequenceBreak", "Normal"}

// AccessibilityLevels lists every level from worst to best.
func AccessibilityLevels() []AccessibilityLevel {
	return []AccessibilityLevel{AccessibilityNone, AccessibilitySequenceBreak, AccessibilityNormal}
}

func (a AccessibilityLevel) String() string {
	return enumName(accessibilityNames, a)
}

// ParseAccessibilityLevel converts a level name into an AccessibilityLevel.
func ParseAccessibilityLevel(value string) (AccessibilityLevel, error) {
	return parseEnum[AccessibilityLevel]("accessibility level", accessibilityNames, value)
}

// MarshalYAML implements yaml.Marshaler.
func (a AccessibilityLevel) MarshalYAML() (interface{}, error) {
	return a.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *AccessibilityLevel) UnmarshalYAML(node *yaml.Node) error {
	return decodeEnum("accessibility level", accessibilityNames, node, a)
}

// MinLevel returns the worse of two levels.
func MinLevel(a, b AccessibilityLevel) AccessibilityLevel {
	if a < b {
		return a
	}

	return b
}

// MaxLevel returns the better of two levels.
func MaxLevel(a, b AccessibilityLevel) AccessibilityLevel {
	if a > b {
		return a
	}

	return b
}
