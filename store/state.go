package store

import "strings"

// State is the root state tree. Values at dotted paths are either nested
// map[string]any levels or the committed sub-state of a mount point.
type State = map[string]any

// splitPath splits a dotted path into segments. The empty path is invalid
// everywhere it could be supplied and returns nil.
func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// Extract returns the value at path, purely, without mutation.
// The second result is false when the path is not present.
func Extract(root State, path string) (any, bool) {
	segs := splitPath(path)
	if segs == nil {
		return nil, false
	}
	cur := any(root)
	for _, seg := range segs {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// WithValue returns a new root with the value at path replaced.
//
// Only the maps along the path are copied; sibling sub-trees are shared
// with the input root (structural sharing). Missing intermediate levels are
// created; an intermediate level that exists but is not a map is replaced
// by one, which mount-point path-collision checks make unreachable in
// normal use.
func WithValue(root State, path string, v any) State {
	segs := splitPath(path)
	if segs == nil {
		return root
	}
	return setIn(root, segs, v)
}

func setIn(level State, segs []string, v any) State {
	out := make(State, len(level)+1)
	for k, val := range level {
		out[k] = val
	}
	if len(segs) == 1 {
		out[segs[0]] = v
		return out
	}
	child, _ := out[segs[0]].(map[string]any)
	if child == nil {
		child = State{}
	}
	out[segs[0]] = setIn(child, segs[1:], v)
	return out
}

// Without returns a new root with the entry at path removed, sharing
// everything else with the input. Removing an absent path returns a root
// equal to the input.
func Without(root State, path string) State {
	segs := splitPath(path)
	if segs == nil {
		return root
	}
	return removeIn(root, segs)
}

func removeIn(level State, segs []string) State {
	out := make(State, len(level))
	for k, val := range level {
		out[k] = val
	}
	if len(segs) == 1 {
		delete(out, segs[0])
		return out
	}
	if child, ok := out[segs[0]].(map[string]any); ok {
		out[segs[0]] = removeIn(child, segs[1:])
	}
	return out
}
