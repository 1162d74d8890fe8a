// Package assertion evaluates declarative assertion specs against response
// snapshots. Evaluation is pure: the same snapshot and spec always produce
// the same result, and no failure escapes as a panic.
package assertion

import (
	"fmt"
	"strconv"
	"strings"
)

// PathError is the single error type for every path-consuming assertion
// variant, so "could not be computed" means the same thing across all of
// them.
type PathError struct {
	Path   string
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("path %q: %s", e.Path, e.Reason)
}

// resolvePath walks a dot separated path through a parsed JSON value.
// Mappings are traversed by key, sequences by non-negative integer literal.
// An empty path resolves to the root.
func resolvePath(root any, path string) (any, error) {
	if path == "" {
		return root, nil
	}

	current := root
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			value, ok := node[segment]
			if !ok {
				return nil, &PathError{Path: path, Reason: fmt.Sprintf("key %q not found", segment)}
			}
			current = value
		case []any:
			index, err := strconv.Atoi(segment)
			if err != nil || index < 0 {
				return nil, &PathError{Path: path, Reason: fmt.Sprintf("segment %q is not a valid array index", segment)}
			}
			if index >= len(node) {
				return nil, &PathError{Path: path, Reason: fmt.Sprintf("index %d out of range (length %d)", index, len(node))}
			}
			current = node[index]
		default:
			return nil, &PathError{Path: path, Reason: fmt.Sprintf("cannot descend into %T at segment %q", current, segment)}
		}
	}
	return current, nil
}
