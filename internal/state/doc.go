// Package state provides the namespaced key/value/TTL store jobs use to
// coordinate work across runs, plus a grouped-items ("collection")
// sub-store that shares its parent row with the scalar store.
//
// Basic usage:
//
//	eng := state.New(st, logger)
//	err := eng.Set(ctx, "crawler", "cursor", "abc123", "24h")
//	val, ok, err := eng.Get(ctx, "crawler", "cursor")
//
// Collections:
//
//	err = eng.SetItem(ctx, "crawler", "seen-urls", "https://example.com", nil)
//	deleted, err := eng.PruneItems(ctx, "crawler", "seen-urls", 1000)
package state
