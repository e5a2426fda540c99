package engine

import (
	"fmt"
	"time"

	"github.com/roach88/simpledb/internal/codec"
	"github.com/roach88/simpledb/internal/status"
)

// SetObject stores obj under obj.KeyValue() in table using obj.JSONValue().
func SetObject(e *Engine, obj codec.Serializable, table string, expiresAt *time.Time) Result {
	value, err := obj.JSONValue()
	if err != nil {
		e.mu.Lock()
		defer e.mu.Unlock()
		return e.finish(failed(status.WriteError, fmt.Errorf("encode object: %w", err)))
	}
	return e.SetValue(value, obj.KeyValue(), table, expiresAt)
}

// InstanceForKey hydrates the value stored for key into a new T.
//
//	p, res := engine.InstanceForKey[Person](db, "people", "p1")
//
// Miss statuses are reported as by ValueForKey; a value that T rejects
// reports ReadError.
func InstanceForKey[T any, P codec.Object[T]](e *Engine, table, key string) (*T, Result) {
	var obj *T
	res := e.decodeValue(table, key, func(value string) (Result, error) {
		decoded, err := codec.Decode[T, P](value)
		if err != nil {
			return Result{}, err
		}
		obj = decoded
		return ok(), nil
	})
	return obj, res
}
