// Package store provides SQLite-backed durable storage for table records.
//
// Every (table, key) pair has at most one row in the records table. Deletes
// and expiry do not remove rows; they turn them into tombstones with an empty
// value so readers can tell a removed key from one that never existed. Rows
// go away only when their table is dropped.
//
// # Layout
//
//   - kv_tables: one row per table, created lazily on first write
//   - records: key, value, timestamps, optional expiry, lifecycle
//
// Timestamps are stored as Unix microseconds in UTC. Instants outside the
// int64 microsecond range are rejected with ErrTimeOutOfRange.
//
// # Deterministic Enumeration
//
//   - Records() orders by seq ASC, key COLLATE BINARY ASC
//   - seq is assigned once per key and survives updates and re-creation
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Records cascade with their table
//
// Two drivers are supported: "sqlite3" (github.com/mattn/go-sqlite3, cgo)
// and "sqlite" (modernc.org/sqlite, pure Go).
package store
