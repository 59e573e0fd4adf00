package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is an entity identifier. DOMjudge renders ids as strings in current
// API versions and as numbers in older ones; both decode to the same text.
type ID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Scalar keeps a numeric field that may arrive as a JSON number or a
// string. The raw token is preserved.
type Scalar struct {
	raw json.RawMessage
}

// NewScalar wraps a literal value, mainly for tests.
func NewScalar(v any) Scalar {
	data, err := json.Marshal(v)
	if err != nil {
		return Scalar{}
	}
	return Scalar{raw: data}
}

func (s *Scalar) UnmarshalJSON(data []byte) error {
	s.raw = append(json.RawMessage(nil), bytes.TrimSpace(data)...)
	return nil
}

func (s Scalar) MarshalJSON() ([]byte, error) {
	if len(s.raw) == 0 {
		return []byte("null"), nil
	}
	return s.raw, nil
}

// IsNull reports whether the value is absent or JSON null.
func (s Scalar) IsNull() bool {
	return len(s.raw) == 0 || bytes.Equal(s.raw, []byte("null"))
}

// String returns the value as text: strings unquoted, numbers as written.
func (s Scalar) String() string {
	if s.IsNull() {
		return ""
	}
	if s.raw[0] == '"' {
		var out string
		if err := json.Unmarshal(s.raw, &out); err == nil {
			return out
		}
	}
	return string(s.raw)
}

// Int parses the value as an integer.
func (s Scalar) Int() (int64, bool) {
	text := s.String()
	if text == "" {
		return 0, false
	}
	if v, err := strconv.ParseInt(text, 10, 64); err == nil {
		return v, true
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return int64(f), true
	}
	return 0, false
}

// Value returns the decoded JSON value (float64, string, bool or nil),
// suitable for writing into a spreadsheet cell.
func (s Scalar) Value() any {
	if s.IsNull() {
		return nil
	}
	if v, ok := s.Int(); ok && s.raw[0] != '"' {
		return v
	}
	var out any
	if err := json.Unmarshal(s.raw, &out); err != nil {
		return string(s.raw)
	}
	return out
}
