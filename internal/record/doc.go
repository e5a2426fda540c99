// Package record defines the unit of storage for one key within one table.
//
// A Record moves through three lifecycle states:
//
//	Active  --delete-->  Deleted
//	Active  --expiry-->  Expired
//	Deleted/Expired --set--> Active (fresh DateAdded)
//
// Deleted and Expired records are tombstones: they keep the key and its
// timestamps so reads can report why a key is unavailable, but their Value
// is always empty. Tombstones live until their table is dropped.
package record
