// Package tydux implements a state-management facade over a
// unidirectional-dispatch store.
//
// Application code defines isolated, typed slices of one shared root state
// tree and a set of transition methods (mutators) for each slice. Mutators
// run against a draft copy of the slice state; the draft is committed
// atomically to the store only when the outermost mutator call returns
// without panicking, and discarded otherwise. Committed state changes are
// republished on a lazy, de-duplicated observable stream.
//
// ARCHITECTURE:
//
// Mutation Commit Protocol:
// Every facade wraps the exported methods of its commands struct into a
// dispatch table at construction time. A call through Dispatch opens a deep
// clone of the current committed sub-state (the draft), binds it to the
// commands struct's embedded Mutator, runs the method, and on success
// dispatches a single action carrying the final draft state into the store's
// reducer chain. Nested calls share the outer draft and never commit
// independently. A panic anywhere in the call tree aborts the whole commit;
// the previously committed state stays visible unchanged.
//
// Mount Points:
// Independently constructed facades each own a disjoint, dotted-path
// addressed sub-tree of one shared root state object (see package store).
// All changes funnel through one reducer chain; each facade's reducer is
// gated by an action-type prefix test so facades never observe each other's
// actions.
//
// Deferred Delivery:
// Change notifications are buffered and delivered through the store's FIFO
// deferred queue after the outermost synchronous dispatch returns. A
// subscriber that dispatches re-entrantly therefore always observes a
// stable, already-committed outer state. Delivery order equals commit order.
//
// CRITICAL PATTERNS:
//
// Single Call Stack:
// All commit logic is synchronous and cooperative. Re-entrancy is handled
// with an explicit call-depth counter, never locks. The only asynchronous
// suspension points are future-based initial state and the deliberate
// deferred delivery described above.
//
// Commit Sequence Clock:
// Commit records are stamped with a monotonic sequence counter so that
// delivery order is checkable. Never use wall-clock time for ordering.
package tydux
