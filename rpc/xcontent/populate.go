package xcontent

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/ValentinKolb/dSearch/rpc/common"
)

// Option changes how Populate reacts to mistyped fields
type Option func(*options)

type options struct {
	strict bool
	path   string // prefix for field names of nested objects
}

// WithStrict makes Populate stop at the first mistyped field.
// By default mistyped fields are collected and all other fields are still applied.
func WithStrict() Option {
	return func(o *options) {
		o.strict = true
	}
}

// WithStrictMode is WithStrict controlled by a flag
func WithStrictMode(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// Populate reads the JSON object in data and applies every key that has a
// function in reg to target. Unknown keys and keys with a null value are skipped.
//
// Errors:
//   - common.ErrMalformedContent if data is not a single well-formed object
//   - common.ErrFieldTypeMismatch (one or more *common.FieldError) for mistyped fields
//   - any other error returned by a field function aborts immediately
func Populate[T any](data []byte, reg *Registry[T], target *T, opts ...Option) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return populate(data, reg, target, o)
}

// PopulateNested populates target from the object under c using reg.
// Strictness is inherited from the outer Populate and field names are
// reported with the outer field as prefix (e.g. "get.found").
func PopulateNested[T any](c Cursor, reg *Registry[T], target *T) error {
	raw, err := c.Object()
	if err != nil {
		return err
	}
	o := c.opts
	o.path = c.field + "."
	return populate(raw, reg, target, o)
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func populate[T any](data []byte, reg *Registry[T], target *T, o options) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return malformed("reading object start", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%w: expected object, got %v", common.ErrMalformedContent, tok)
	}

	var mismatches []error
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return malformed("reading field name", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%w: expected field name, got %v", common.ErrMalformedContent, tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return malformed(fmt.Sprintf("reading value of [%s%s]", o.path, key), err)
		}

		apply, ok := reg.Lookup(key)
		if !ok || kindOf(raw) == "null" {
			continue
		}

		if err := apply(Cursor{field: o.path + key, raw: raw, opts: o}, target); err != nil {
			if o.strict || !errors.Is(err, common.ErrFieldTypeMismatch) {
				return err
			}
			mismatches = append(mismatches, err)
		}
	}

	if _, err := dec.Token(); err != nil {
		return malformed("reading object end", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("%w: trailing data after object", common.ErrMalformedContent)
	}

	return errors.Join(mismatches...)
}

func malformed(what string, err error) error {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return fmt.Errorf("%w: %s: %v", common.ErrMalformedContent, what, err)
}
