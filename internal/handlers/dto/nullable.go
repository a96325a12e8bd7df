package dto

import (
	"bytes"
	"encoding/json"
)

// Nullable отличает отсутствующее в JSON поле (Set == false) от явного null (Set == true, Value == nil)
type Nullable[T any] struct {
	Set   bool
	Value *T
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	n.Value = &value
	return nil
}

func (n Nullable[T]) IsNull() bool {
	return n.Set && n.Value == nil
}
