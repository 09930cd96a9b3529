package lang

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
)

// sortedKeys returns the keys of m in order, or nil if m is empty.
func sortedKeys[T any](m map[string]T) []string {
	if len(m) == 0 {
		return nil
	}

	return slices.Sorted(maps.Keys(m))
}

// typeAttr records the dynamic type of a scope or constant value.
func typeAttr(value any) slog.Attr {
	if value == nil {
		return slog.String("type", "nil")
	}

	return slog.String("type", fmt.Sprintf("%T", value))
}
