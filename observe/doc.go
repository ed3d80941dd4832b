// Package observe provides the change-notification primitives used by tydux
// facades: a hot, multicast, replay-latest subject and lazily evaluated
// streams with map/filter/distinct/take operators.
//
// Subscriptions are callback-based rather than channel-based because
// delivery is part of the store's cooperative deferred phase; a channel
// would introduce an extra scheduling point and lose the "delivered in
// commit order, after the current synchronous phase" guarantee.
//
// A Subject completes exactly once. After completion it emits nothing, and
// new subscribers receive no replay.
package observe
