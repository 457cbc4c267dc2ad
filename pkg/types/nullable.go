package types

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"
)

// NullableUUID records whether a UUID field was present in a JSON payload,
// so an explicit null can clear a value while an absent field leaves it alone.
type NullableUUID struct {
	Valid bool
	Value *uuid.UUID
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NullableUUID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}
	n.Valid = true
	if bytes.Equal(trimmed, []byte("null")) {
		n.Value = nil
		return nil
	}

	var parsed uuid.UUID
	if err := json.Unmarshal(trimmed, &parsed); err != nil {
		return err
	}
	n.Value = &parsed
	return nil
}

// Apply overwrites dst when the field was present.
func (n NullableUUID) Apply(dst **uuid.UUID) {
	if !n.Valid {
		return
	}
	if n.Value == nil {
		*dst = nil
		return
	}
	id := *n.Value
	*dst = &id
}

// NullableString is the string counterpart of NullableUUID.
type NullableString struct {
	Valid bool
	Value string
}

// UnmarshalJSON implements json.Unmarshaler. A null clears the value.
func (n *NullableString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}
	n.Valid = true
	if bytes.Equal(trimmed, []byte("null")) {
		n.Value = ""
		return nil
	}
	return json.Unmarshal(trimmed, &n.Value)
}

// Apply overwrites dst when the field was present.
func (n NullableString) Apply(dst *string) {
	if n.Valid {
		*dst = n.Value
	}
}
