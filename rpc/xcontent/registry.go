package xcontent

import "fmt"

// FieldFunc reads the value under the cursor and stores it in target
type FieldFunc[T any] func(c Cursor, target *T) error

// Field binds a field name to the function that applies its value
type Field[T any] struct {
	Name  string
	Apply FieldFunc[T]
}

// Registry maps field names to the functions that populate a T.
// A registry is built once (typically as a package level variable) and never
// modified afterwards, so it is safe for concurrent use without locking.
type Registry[T any] struct {
	names  []string
	fields map[string]FieldFunc[T]
}

// NewRegistry builds a registry from fields in declaration order.
// It panics on an empty or duplicate name since both are programming errors.
func NewRegistry[T any](fields ...Field[T]) *Registry[T] {
	r := &Registry[T]{
		names:  make([]string, 0, len(fields)),
		fields: make(map[string]FieldFunc[T], len(fields)),
	}
	for _, f := range fields {
		if f.Name == "" {
			panic("xcontent: field with empty name")
		}
		if f.Apply == nil {
			panic(fmt.Sprintf("xcontent: field [%s] has no apply function", f.Name))
		}
		if _, ok := r.fields[f.Name]; ok {
			panic(fmt.Sprintf("xcontent: duplicate field [%s]", f.Name))
		}
		r.names = append(r.names, f.Name)
		r.fields[f.Name] = f.Apply
	}
	return r
}

// Lookup returns the function registered for name (exact, case-sensitive match)
func (r *Registry[T]) Lookup(name string) (FieldFunc[T], bool) {
	fn, ok := r.fields[name]
	return fn, ok
}

// Names returns the registered field names in declaration order
func (r *Registry[T]) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of registered fields
func (r *Registry[T]) Len() int {
	return len(r.names)
}

// --------------------------------------------------------------------------
// Field Constructors
// --------------------------------------------------------------------------

// TextField creates a field that stores the value as text
func TextField[T any](name string, set func(target *T, v string)) Field[T] {
	return Field[T]{Name: name, Apply: func(c Cursor, target *T) error {
		v, err := c.Text()
		if err != nil {
			return err
		}
		set(target, v)
		return nil
	}}
}

// IntField creates a field that stores the value as a 64 bit integer
func IntField[T any](name string, set func(target *T, v int64)) Field[T] {
	return Field[T]{Name: name, Apply: func(c Cursor, target *T) error {
		v, err := c.Int()
		if err != nil {
			return err
		}
		set(target, v)
		return nil
	}}
}

// BoolField creates a field that stores the value as a boolean
func BoolField[T any](name string, set func(target *T, v bool)) Field[T] {
	return Field[T]{Name: name, Apply: func(c Cursor, target *T) error {
		v, err := c.Bool()
		if err != nil {
			return err
		}
		set(target, v)
		return nil
	}}
}
