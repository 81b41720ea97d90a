package codec

import (
	"encoding/json"
	"errors"
)

// Factory decodes into a value produced by New instead of the type's zero
// value. Use it for types whose zero value cannot be decoded into: types
// with interface-typed fields, unexported state that needs seeding, or no
// usable exported constructor. V is typically a pointer type so the
// unmarshal funcs can populate it in place.
//
// Marshal/Unmarshal default to encoding/json when nil; set both to plug in
// a different serialization.
type Factory[V any] struct {
	New       func() V
	Marshal   func(any) ([]byte, error)
	Unmarshal func([]byte, any) error
}

func (c Factory[V]) Encode(v V) ([]byte, error) {
	m := c.Marshal
	if m == nil {
		m = json.Marshal
	}
	return m(v)
}

func (c Factory[V]) Decode(b []byte) (V, error) {
	var zero V
	if c.New == nil {
		return zero, errors.New("codec: Factory.New is required")
	}
	u := c.Unmarshal
	if u == nil {
		u = json.Unmarshal
	}
	v := c.New()
	if err := u(b, any(v)); err != nil {
		return zero, err
	}
	return v, nil
}
