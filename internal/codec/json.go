package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrNotObject is returned when a value is valid JSON but not an object.
var ErrNotObject = errors.New("value is not a JSON object")

// ErrTrailingData is returned when a value holds more than one JSON document.
var ErrTrailingData = errors.New("trailing data after JSON value")

// DecodeMap decodes a stored value as a JSON object. Numbers decode as
// json.Number so integers beyond 2^53 keep every digit.
func DecodeMap(value string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(value))
	dec.UseNumber()

	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("decode value: %w", ErrTrailingData)
	}
	if m == nil {
		return nil, ErrNotObject
	}
	return m, nil
}

// Field returns the top-level field name of a JSON object value.
// found is false when the value decodes but has no such field.
func Field(value, name string) (v any, found bool, err error) {
	m, err := DecodeMap(value)
	if err != nil {
		return nil, false, err
	}
	v, found = m[name]
	return v, found, nil
}

// SortKey returns the ordering key for field name within value.
//
// Strings sort by their contents, other scalars by their JSON text, nested
// values by their canonical JSON. A missing field, a null, or a value that
// is not a JSON object all yield the empty string.
func SortKey(value, name string) string {
	if name == "" {
		return ""
	}
	v, found, err := Field(value, name)
	if err != nil || !found {
		return ""
	}
	return scalarText(v)
}

func scalarText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		text, err := canonicalNumber(val)
		if err != nil {
			return ""
		}
		return text
	default:
		data, err := MarshalCanonical(val)
		if err != nil {
			return ""
		}
		return string(data)
	}
}
