// Package model defines the data structures shared by the tracker logic.
package model

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownValue is returned when an enum name does not match any known value.
var ErrUnknownValue = errors.New("unknown value")

func enumName[T ~int](names []string, value T) string {
	if int(value) < 0 || int(value) >= len(names) {
		return fmt.Sprintf("%d", int(value))
	}

	return names[value]
}

// parseEnum matches value against names case-insensitively.
func parseEnum[T ~int](kind string, names []string, value string) (T, error) {
	trimmed := strings.TrimSpace(value)
	for i, name := range names {
		if strings.EqualFold(name, trimmed) {
			return T(i), nil
		}
	}

	return T(0), fmt.Errorf("%s %q: %w", kind, value, ErrUnknownValue)
}

func decodeEnum[T ~int](kind string, names []string, node *yaml.Node, out *T) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: %s must be a scalar", node.Line, kind)
	}

	parsed, err := parseEnum[T](kind, names, node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}

	*out = parsed

	return nil
}
