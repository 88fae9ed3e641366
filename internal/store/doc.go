// Package store provides a SQLite-backed cache of parsed block traces.
//
// Parsing a large blkparse dump is the slowest step of a render, so traces
// can be ingested once and rendered many times. Each ingested trace gets a
// time-sortable UUIDv7 ID and keeps its events in ingestion order:
//
//   - traces: one row per ingested trace (source, sector size, line counts)
//   - events: (trace_id, seq) keyed rows holding time, byte offset, byte size
//     and direction
//
// # Ordering
//
// Events are read back ORDER BY seq ASC, the order they were parsed in. Time
// ordering is the timeline's job; the store never reorders events, so ties
// resolve the same way whether a trace is rendered from text or from cache.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: events cannot outlive their trace
package store
