package xcontent

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"github.com/ValentinKolb/dSearch/rpc/common"
)

// Cursor is positioned at the value of one field of a text object.
// Handlers read the value through one of the typed accessors.
type Cursor struct {
	field string
	raw   json.RawMessage
	opts  options
}

// Field returns the name of the field the cursor points at
func (c Cursor) Field() string {
	return c.field
}

// Kind returns the JSON kind of the value (string, number, bool, null, object, array)
func (c Cursor) Kind() string {
	return kindOf(c.raw)
}

// IsNull reports whether the value is JSON null
func (c Cursor) IsNull() bool {
	return c.Kind() == "null"
}

// Raw returns a copy of the raw JSON value
func (c Cursor) Raw() json.RawMessage {
	out := make(json.RawMessage, len(c.raw))
	copy(out, c.raw)
	return out
}

// Text returns the value as text. Strings are returned unquoted, numbers as
// their literal.
func (c Cursor) Text() (string, error) {
	switch c.Kind() {
	case "string":
		var s string
		if err := json.Unmarshal(c.raw, &s); err != nil {
			return "", c.mismatch("text")
		}
		return s, nil
	case "number":
		return string(c.raw), nil
	default:
		return "", c.mismatch("text")
	}
}

// Int returns the value as a 64 bit integer. Numeric strings and whole
// numbers written with a fraction or exponent (3.0, 2e2) are accepted.
func (c Cursor) Int() (int64, error) {
	var text string
	switch c.Kind() {
	case "number":
		text = string(c.raw)
	case "string":
		if err := json.Unmarshal(c.raw, &text); err != nil {
			return 0, c.mismatch("integer")
		}
	default:
		return 0, c.mismatch("integer")
	}

	if v, err := strconv.ParseInt(text, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, c.mismatch("integer")
	}
	return int64(f), nil
}

// Bool returns the value as a boolean. The strings "true" and "false" are accepted.
func (c Cursor) Bool() (bool, error) {
	switch c.Kind() {
	case "bool":
		return bytes.Equal(c.raw, []byte("true")), nil
	case "string":
		var s string
		if err := json.Unmarshal(c.raw, &s); err != nil {
			return false, c.mismatch("boolean")
		}
		switch s {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return false, c.mismatch("boolean")
}

// StringSlice returns an array value as strings. A single scalar is treated as
// an array of one element.
func (c Cursor) StringSlice() ([]string, error) {
	if c.Kind() != "array" {
		s, err := c.Text()
		if err != nil {
			return nil, c.mismatch("array of text")
		}
		return []string{s}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(c.raw, &items); err != nil {
		return nil, c.mismatch("array of text")
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, err := Cursor{field: c.field, raw: item}.Text()
		if err != nil {
			return nil, c.mismatch("array of text")
		}
		out = append(out, s)
	}
	return out, nil
}

// StringSliceMap returns an object whose values are arrays of text (or single
// scalars). Null members are skipped.
func (c Cursor) StringSliceMap() (map[string][]string, error) {
	if c.Kind() != "object" {
		return nil, c.mismatch("object of text arrays")
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(c.raw, &members); err != nil {
		return nil, c.mismatch("object of text arrays")
	}
	out := make(map[string][]string, len(members))
	for name, raw := range members {
		member := Cursor{field: c.field + "." + name, raw: raw, opts: c.opts}
		if member.IsNull() {
			continue
		}
		values, err := member.StringSlice()
		if err != nil {
			return nil, err
		}
		out[name] = values
	}
	return out, nil
}

// Object checks that the value is an object and returns its raw bytes
func (c Cursor) Object() (json.RawMessage, error) {
	if c.Kind() != "object" {
		return nil, c.mismatch("object")
	}
	return c.Raw(), nil
}

// mismatch builds the FieldError for this cursor
func (c Cursor) mismatch(expected string) error {
	return &common.FieldError{Field: c.field, Expected: expected, Actual: c.Kind()}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// kindOf classifies a raw JSON value by its first significant byte
func kindOf(raw json.RawMessage) string {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return "empty"
	}
	switch trimmed[0] {
	case '"':
		return "string"
	case '{':
		return "object"
	case '[':
		return "array"
	case 't', 'f':
		return "bool"
	case 'n':
		return "null"
	default:
		return "number"
	}
}
