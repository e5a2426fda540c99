// Package engine is the public face of the store: table/key operations with
// lifecycle-aware reads and a per-operation status.
//
// ARCHITECTURE:
//
// Every call runs as one critical section under the engine mutex:
// 1. Table registry resolves the table handle
// 2. The operation reads or writes a record in the store
// 3. For reads, lifecycle.Resolve decides the outcome; an Active record past
//    its expiry is written through as Expired before returning
// 4. The status reporter is updated
//
// Steps 2-4 are never observed separately: no caller can see KeyAutoDeleted
// while the stored record still reads Active.
//
// Listings are the exception. Keys snapshots the table's records under the
// mutex, then filters and sorts the snapshot with the mutex released so a
// filter may call back into the engine. Listing never writes.
//
// STATUS:
//
// Each operation returns a Result carrying its own Status. The same status is
// also published to the engine's Reporter and readable via Status(), for
// callers that follow the "call, then check status" style. Status() is only
// meaningful when one goroutine owns the engine handle.
//
// TIME:
//
// There are no timers or background goroutines. Expiry is evaluated when a
// key is read, listed or swept, against the engine's Clock.
package engine
