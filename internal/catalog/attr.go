package catalog

import (
	"bytes"
	"encoding/json"
)

// Attr is an optional compatibility attribute. The zero value is absent, which
// rules treat as unconstrained rather than as a zero value.
type Attr[T any] struct {
	value T
	set   bool
}

// Declared returns an attribute holding v.
func Declared[T any](v T) Attr[T] {
	return Attr[T]{value: v, set: true}
}

// Get returns the value and whether it was declared.
func (a Attr[T]) Get() (T, bool) {
	return a.value, a.set
}

// IsSet reports whether the attribute was declared.
func (a Attr[T]) IsSet() bool {
	return a.set
}

// MarshalJSON encodes an absent attribute as null.
func (a Attr[T]) MarshalJSON() ([]byte, error) {
	if !a.set {
		return []byte("null"), nil
	}
	return json.Marshal(a.value)
}

// UnmarshalJSON treats null as absent.
func (a *Attr[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*a = Attr[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = Declared(v)
	return nil
}
