// ABOUTME: Result rows with wire-order keys and json.Number values
// ABOUTME: Custom JSON codec keeps column order stable between backend and display

package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// FilenameKey is the column that carries the source file name.
const FilenameKey = "filename"

// Row is one result row. Keys preserves the order the backend sent.
// Values hold json.Number for numbers and string for text.
type Row struct {
	Keys   []string
	Values map[string]any
}

// NewRow returns an empty row.
func NewRow() Row {
	return Row{Values: map[string]any{}}
}

// Set appends key (if new) and stores its value.
func (r *Row) Set(key string, value any) {
	if r.Values == nil {
		r.Values = map[string]any{}
	}
	if _, ok := r.Values[key]; !ok {
		r.Keys = append(r.Keys, key)
	}
	r.Values[key] = value
}

// Get returns the value stored under key.
func (r Row) Get(key string) (any, bool) {
	v, ok := r.Values[key]
	return v, ok
}

// Len returns the number of columns in the row.
func (r Row) Len() int {
	return len(r.Keys)
}

// IsFilenameKey reports whether key names the filename column.
func IsFilenameKey(key string) bool {
	return strings.ToLower(key) == FilenameKey
}

// UnmarshalJSON decodes a JSON object while keeping key order.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("reading row: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("row must be a JSON object")
	}

	row := NewRow()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("reading row key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected row key %v", keyTok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("reading value for %q: %w", key, err)
		}
		row.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("closing row: %w", err)
	}

	*r = row
	return nil
}

// MarshalJSON encodes the row as a JSON object in key order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.Values[key])
		if err != nil {
			return nil, fmt.Errorf("encoding %q: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
