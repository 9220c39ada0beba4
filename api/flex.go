package api

import (
	"bytes"
)

// oneOrMany decodes a collection the vendor sends as a bare object when it
// holds a single element, and as "null" when it is empty.
type oneOrMany[T any] []T

func (o *oneOrMany[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if isEmptyValue(b) {
		*o = nil
		return nil
	}

	if b[0] == '[' {
		var items []T
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*o = items
		return nil
	}

	var item T
	if err := json.Unmarshal(b, &item); err != nil {
		return err
	}
	*o = []T{item}
	return nil
}

// maybe decodes an object the vendor replaces with "null" when there is
// nothing to return.
type maybe[T any] struct {
	Value T
	Valid bool
}

func (m *maybe[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if isEmptyValue(b) {
		m.Valid = false
		return nil
	}
	if err := json.Unmarshal(b, &m.Value); err != nil {
		return err
	}
	m.Valid = true
	return nil
}

func isEmptyValue(b []byte) bool {
	switch string(b) {
	case "", "null", `"null"`, `""`:
		return true
	default:
		return false
	}
}
