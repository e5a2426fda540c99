// Package codec is the JSON bridge between stored string values and Go data.
//
// Values are opaque strings to the store. This package is the only place
// that looks inside them:
//   - DecodeMap and Field read JSON objects for the dictionary and field reads
//   - SortKey extracts an ordering key for key enumeration
//   - MarshalCanonical writes deterministic JSON for dictionary writes and traces
//   - Serializable and Object describe caller types that hydrate from a value
package codec
