// Package session holds in-memory multi-turn conversation state keyed by
// generated session IDs.
//
// Invariants:
//   - A session created through Create always starts with a system turn.
//   - After every append a session holds at most 2*maxHistory turns, and the
//     leading system turn is never dropped by truncation.
//   - Append and truncation happen atomically under the store lock.
//
// Usage:
//
//	store := session.NewStore(10)
//	id := store.Create("")
//	_ = store.Append(id, session.RoleUser, "hello")
//	turns := store.Get(id)
//	_ = turns
package session
