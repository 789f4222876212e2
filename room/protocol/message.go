package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var (
	ErrMalformedMessage = errors.New("malformed message")
	ErrUnexpectedAction = errors.New("unexpected action")
)

// Message is a JSON object exchanged with the room server. Field order is
// preserved across decode and encode; values are kept as raw JSON so fields
// the client does not understand survive a round trip untouched.
type Message struct {
	fields *orderedmap.OrderedMap[string, json.RawMessage]
}

// NewMessage creates a message carrying only the given action.
func NewMessage(action Action) *Message {
	m := &Message{fields: orderedmap.New[string, json.RawMessage]()}
	return m.with(FieldAction, action)
}

// Parse decodes an inbound frame. The frame must be a JSON object with a
// string "action" field.
func Parse(data []byte) (*Message, error) {
	m := &Message{}
	if err := m.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	if _, ok := m.Action(); !ok {
		return nil, fmt.Errorf("%w: missing string %q field", ErrMalformedMessage, FieldAction)
	}
	return m, nil
}

// Action returns the message action. The boolean is false when the field is
// absent or not a JSON string.
func (m *Message) Action() (Action, bool) {
	var action string
	ok, err := m.Get(FieldAction, &action)
	if !ok || err != nil {
		return "", false
	}
	return Action(action), true
}

// Set encodes value and stores it under key. An existing key keeps its
// position; a new key is appended.
func (m *Message) Set(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode field %q: %w", key, err)
	}
	m.init()
	m.fields.Set(key, data)
	return nil
}

// Get decodes the value stored under key into dst. It reports false when the
// key is absent.
func (m *Message) Get(key string, dst interface{}) (bool, error) {
	if m.fields == nil {
		return false, nil
	}
	raw, ok := m.fields.Get(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("decode field %q: %w", key, err)
	}
	return true, nil
}

// Raw returns the undecoded JSON stored under key.
func (m *Message) Raw(key string) (json.RawMessage, bool) {
	if m.fields == nil {
		return nil, false
	}
	return m.fields.Get(key)
}

// Delete removes key from the message.
func (m *Message) Delete(key string) {
	if m.fields != nil {
		m.fields.Delete(key)
	}
}

// Keys returns the field names in wire order.
func (m *Message) Keys() []string {
	if m.fields == nil {
		return nil
	}
	keys := make([]string, 0, m.fields.Len())
	for pair := m.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Len returns the number of fields.
func (m *Message) Len() int {
	if m.fields == nil {
		return 0
	}
	return m.fields.Len()
}

// MarshalJSON encodes the message as a compact JSON object in field order.
func (m *Message) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	m.init()
	return m.fields.MarshalJSON()
}

// UnmarshalJSON replaces the message contents with the decoded object.
func (m *Message) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if !json.Valid(trimmed) {
		return fmt.Errorf("%w: invalid JSON", ErrMalformedMessage)
	}
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("%w: not a JSON object", ErrMalformedMessage)
	}

	fields := orderedmap.New[string, json.RawMessage]()
	if err := fields.UnmarshalJSON(trimmed); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	m.fields = fields
	return nil
}

// String returns the JSON encoding, or an empty object if encoding fails.
func (m *Message) String() string {
	data, err := m.MarshalJSON()
	if err != nil {
		return "{}"
	}
	return string(data)
}

func (m *Message) init() {
	if m.fields == nil {
		m.fields = orderedmap.New[string, json.RawMessage]()
	}
}

// with sets a field whose value is a plain string, number or bool and
// therefore cannot fail to encode.
func (m *Message) with(key string, value interface{}) *Message {
	_ = m.Set(key, value)
	return m
}
