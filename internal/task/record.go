// Package task models the server's task records and the client-side snapshot
// cache. A task is server-defined and client-opaque beyond a known shape:
// the client relies on id/name/state and renders every other field
// generically, so records keep their fields as an ordered key/value list
// rather than a fixed struct.
package task

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Well-known field names the client gives special treatment.
const (
	FieldID     = "id"
	FieldName   = "name"
	FieldState  = "state"
	FieldLang   = "lang"
	FieldCode   = "code"
	FieldStdout = "stdout"
	FieldStderr = "stderr"
)

// Field is a single key/value pair of a record.
type Field struct {
	Key   string
	Value any
}

// Record is one task as returned by the backend. Field order matches the
// server's JSON object order so the detail view can enumerate keys the way
// the server sent them. Server-added fields the client has never heard of
// are carried along unchanged.
type Record struct {
	fields []Field
	index  map[string]int
}

// NewRecord builds a record from ordered fields. Later duplicates overwrite
// earlier ones in place.
func NewRecord(fields ...Field) Record {
	rec := Record{index: make(map[string]int, len(fields))}
	for _, field := range fields {
		rec.set(field.Key, field.Value)
	}
	return rec
}

func (r *Record) set(key string, value any) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, ok := r.index[key]; ok {
		r.fields[i].Value = value
		return
	}
	r.index[key] = len(r.fields)
	r.fields = append(r.fields, Field{Key: key, Value: value})
}

// Fields returns the record's fields in server order.
func (r Record) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r.fields)
}

// Get returns the raw value for a key.
func (r Record) Get(key string) (any, bool) {
	i, ok := r.index[key]
	if !ok {
		return nil, false
	}
	return r.fields[i].Value, true
}

// ID returns the canonical string form of the task id. Server ids may be
// JSON numbers or strings; both compare equal through this form.
func (r Record) ID() string {
	value, ok := r.Get(FieldID)
	if !ok {
		return ""
	}
	return FormatValue(value)
}

// Name returns the display name, possibly empty.
func (r Record) Name() string {
	value, ok := r.Get(FieldName)
	if !ok {
		return ""
	}
	return FormatValue(value)
}

// State returns the backend-assigned lifecycle label. The client treats it
// as an opaque string and never validates the set of legal values.
func (r Record) State() string {
	value, ok := r.Get(FieldState)
	if !ok {
		return ""
	}
	return FormatValue(value)
}

// FormatValue renders a decoded JSON value as display text. json.Number
// keeps the server's exact digits; nil becomes the empty string.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// UnmarshalJSON decodes a JSON object preserving key order. Numbers decode
// as json.Number so ids round-trip without float formatting artifacts.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("task: expected JSON object, got %v", tok)
	}

	*r = Record{index: make(map[string]int)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("task: expected object key, got %v", keyTok)
		}

		var value any
		if err := dec.Decode(&value); err != nil {
			return err
		}
		r.set(key, value)
	}

	// consume the closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON encodes the record preserving field order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(field.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(field.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
