// Package harness runs YAML-driven conformance scenarios against a facade.
//
// A scenario seeds a document facade (a map[string]any slice with generic
// set/increment/remove commands), dispatches a sequence of mutator calls,
// and asserts on the committed-state trace: final state, commit order,
// commit count. Traces can additionally be compared against golden files in
// canonical JSON, which keeps expected behavior reviewable as plain text.
package harness
