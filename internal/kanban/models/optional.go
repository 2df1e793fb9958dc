package models

import "encoding/json"

// Optional is a three-way patch value for a nullable field. The zero value
// means "absent, keep the current value"; Set with Null means "clear to
// null"; Set without Null carries a replacement value. It is decoded once
// at the HTTP boundary and consumed uniformly by the store's update.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// SetTo returns an Optional carrying a replacement value.
func SetTo[T any](value T) Optional[T] {
	return Optional[T]{Set: true, Value: value}
}

// Clear returns an Optional that clears the field to null.
func Clear[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// Apply resolves the patch against the current pointer value: absent keeps
// current, null yields nil, a value yields a pointer to it.
func (o Optional[T]) Apply(current *T) *T {
	if !o.Set {
		return current
	}
	if o.Null {
		return nil
	}
	value := o.Value
	return &value
}

// UnmarshalJSON records presence; a JSON null marks the field for clearing.
// Absent fields never reach UnmarshalJSON, so Set stays false for them.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON emits null when clearing or absent, the value otherwise.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
