package form

import (
	"bytes"
	"encoding/json"
)

// AnswerSet maps field keys to normalized values in insertion order. Writes
// return a new set, so a value handed out earlier never changes.
type AnswerSet struct {
	keys   []string
	values map[string]interface{}
}

// With returns a copy of a with key set to value. Setting an existing key
// keeps its original position.
func (a AnswerSet) With(key string, value interface{}) AnswerSet {
	next := AnswerSet{
		keys:   append([]string(nil), a.keys...),
		values: make(map[string]interface{}, len(a.values)+1),
	}
	for k, v := range a.values {
		next.values[k] = v
	}
	if _, exists := next.values[key]; !exists {
		next.keys = append(next.keys, key)
	}
	next.values[key] = value
	return next
}

func (a AnswerSet) Get(key string) (interface{}, bool) {
	v, ok := a.values[key]
	return v, ok
}

// String returns the value of key when it is a string.
func (a AnswerSet) String(key string) string {
	s, _ := a.values[key].(string)
	return s
}

func (a AnswerSet) Len() int { return len(a.keys) }

// Keys returns the keys in insertion order.
func (a AnswerSet) Keys() []string {
	return append([]string(nil), a.keys...)
}

// Map returns a plain copy of the values.
func (a AnswerSet) Map() map[string]interface{} {
	out := make(map[string]interface{}, len(a.values))
	for k, v := range a.values {
		out[k] = v
	}
	return out
}

// MarshalJSON writes the object with keys in insertion order.
func (a AnswerSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range a.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(a.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
