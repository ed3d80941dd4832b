// Package store implements the shared unidirectional-dispatch store that
// tydux facades are layered over: one root state tree, one reducer chain,
// synchronous dispatch, and dotted-path mount points addressing disjoint
// sub-trees.
//
// ARCHITECTURE:
//
// Root State Tree:
// The root state is a map[string]any tree. Sub-states live at dotted paths
// ("cart", "cart.items"). Every commit produces a new root value by cloning
// only the maps along the written path; untouched siblings are shared
// structurally between versions. The previous root value is never mutated
// in place.
//
// Reducer Chain:
// Reducers are registered in insertion order and run in that order on every
// dispatch; each reducer's output feeds the next. An action a reducer does
// not own passes through unchanged.
//
// Deferred Phase:
// Dispatch runs reducers and store subscribers synchronously, then drains a
// FIFO queue of deferred tasks. Facades use the queue to decouple change
// delivery from the commit call stack: a deferred task runs after the
// current synchronous phase, before control returns to the outermost
// dispatcher, in enqueue (commit) order. Re-entrant dispatches from within
// a deferred task append to the same queue and never reorder it.
//
// Mount points register their paths with the store; creating a mount point
// for a live path is a reported error, never a silent overwrite. Destroying
// a mount point cascades to its children and frees the path for reuse.
package store
