package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	m "tracklogic.dev/pkg/tracklogic/internal/model"
)

// ErrInvalidRequirement is returned when a requirement expression is malformed.
var ErrInvalidRequirement = errors.New("invalid requirement")

// CompileRequirement turns a declarative requirement into an evaluable one.
// A nil spec is always satisfied.
func CompileRequirement(spec *m.RequirementSpec) (Requirement, error) {
	if spec == nil {
		return alwaysRequirement{}, nil
	}

	return compileAt(*spec, "requires")
}

func compileAt(spec m.RequirementSpec, path string) (Requirement, error) {
	kinds := specKinds(spec)
	if len(kinds) != 1 {
		if len(kinds) == 0 {
			return nil, fmt.Errorf("%s: no requirement kind set: %w", path, ErrInvalidRequirement)
		}

		return nil, fmt.Errorf("%s: multiple requirement kinds %s: %w", path, strings.Join(kinds, ", "), ErrInvalidRequirement)
	}

	if spec.Count != nil && spec.Item == nil {
		return nil, fmt.Errorf("%s: count without item: %w", path, ErrInvalidRequirement)
	}

	switch kinds[0] {
	case "all":
		children, err := compileChildren(spec.All, path+".all")
		if err != nil {
			return nil, err
		}

		return allRequirement{children: children}, nil
	case "any":
		children, err := compileChildren(spec.Any, path+".any")
		if err != nil {
			return nil, err
		}

		return anyRequirement{children: children}, nil
	case "item":
		return compileItem(*spec.Item, spec.Count, path)
	case "break":
		if !spec.Break.Valid() {
			return nil, fmt.Errorf("%s: sequence break %d out of range: %w", path, int(*spec.Break), ErrInvalidRequirement)
		}

		return sequenceBreakRequirement{sequenceBreak: *spec.Break}, nil
	case "node":
		if !spec.Node.Valid() {
			return nil, fmt.Errorf("%s: node %d out of range: %w", path, int(*spec.Node), ErrInvalidRequirement)
		}

		return nodeRequirement{node: *spec.Node}, nil
	default:
		return compileMode(spec, kinds[0], path)
	}
}

func specKinds(spec m.RequirementSpec) []string {
	var kinds []string

	add := func(set bool, name string) {
		if set {
			kinds = append(kinds, name)
		}
	}

	add(spec.All != nil, "all")
	add(spec.Any != nil, "any")
	add(spec.Item != nil, "item")
	add(spec.Break != nil, "break")
	add(spec.Node != nil, "node")
	add(spec.WorldState != nil, "worldState")
	add(spec.ItemPlacement != nil, "itemPlacement")
	add(spec.DungeonItemShuffle != nil, "dungeonItemShuffle")
	add(spec.EntranceShuffle != nil, "entranceShuffle")
	add(spec.EnemyShuffle != nil, "enemyShuffle")

	return kinds
}

func compileChildren(specs []m.RequirementSpec, path string) ([]Requirement, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("%s: empty list: %w", path, ErrInvalidRequirement)
	}

	children := make([]Requirement, 0, len(specs))

	for i, child := range specs {
		compiled, err := compileAt(child, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}

		children = append(children, compiled)
	}

	return children, nil
}

func compileItem(item m.ItemType, explicit *int, path string) (Requirement, error) {
	if !item.Valid() {
		return nil, fmt.Errorf("%s: item %d out of range: %w", path, int(item), ErrInvalidRequirement)
	}

	count := 1
	if explicit != nil {
		count = *explicit
	}

	if count < 1 || count > item.Maximum() {
		return nil, fmt.Errorf("%s: count %d for %s outside 1..%d: %w", path, count, item, item.Maximum(), ErrInvalidRequirement)
	}

	return itemRequirement{item: item, count: count}, nil
}

func compileMode(spec m.RequirementSpec, kind string, path string) (Requirement, error) {
	switch kind {
	case "worldState":
		return modeListRequirement(kind, spec.WorldState, path, func(mode m.Mode) m.WorldState { return mode.WorldState })
	case "itemPlacement":
		return modeListRequirement(kind, spec.ItemPlacement, path, func(mode m.Mode) m.ItemPlacement { return mode.ItemPlacement })
	case "dungeonItemShuffle":
		return modeListRequirement(kind, spec.DungeonItemShuffle, path, func(mode m.Mode) m.DungeonItemShuffle { return mode.DungeonItemShuffle })
	case "entranceShuffle":
		want := *spec.EntranceShuffle

		return modeRequirement{
			description: fmt.Sprintf("entranceShuffle=%t", want),
			matches:     func(mode m.Mode) bool { return mode.EntranceShuffle == want },
		}, nil
	case "enemyShuffle":
		want := *spec.EnemyShuffle

		return modeRequirement{
			description: fmt.Sprintf("enemyShuffle=%t", want),
			matches:     func(mode m.Mode) bool { return mode.EnemyShuffle == want },
		}, nil
	}

	return nil, fmt.Errorf("%s: unsupported kind %s: %w", path, kind, ErrInvalidRequirement)
}

func modeListRequirement[T interface {
	comparable
	fmt.Stringer
}](kind string, allowed []T, path string, field func(m.Mode) T) (Requirement, error) {
	if len(allowed) == 0 {
		return nil, fmt.Errorf("%s.%s: empty list: %w", path, kind, ErrInvalidRequirement)
	}

	names := make([]string, 0, len(allowed))
	for _, value := range allowed {
		names = append(names, value.String())
	}

	values := slices.Clone(allowed)

	return modeRequirement{
		description: fmt.Sprintf("%s in [%s]", kind, strings.Join(names, ",")),
		matches:     func(mode m.Mode) bool { return slices.Contains(values, field(mode)) },
	}, nil
}
