package stream

// Tags written in front of a shared string
const (
	sharedNew byte = 0 // followed by the handle and the string itself
	sharedRef byte = 1 // followed by the handle of an earlier string
)

// SharedStrings is the interning table of one stream. Handles are assigned in
// first-occurrence order, so an encoder and a decoder that see the same
// sequence of strings end up with identical tables.
//
// A table is owned by a single Output or Input and is not safe for concurrent use.
type SharedStrings struct {
	index  map[string]int
	values []string
}

// NewSharedStrings creates an empty table
func NewSharedStrings() *SharedStrings {
	return &SharedStrings{index: make(map[string]int)}
}

// Len returns the number of interned strings
func (t *SharedStrings) Len() int {
	return len(t.values)
}

// Values returns the interned strings in handle order
func (t *SharedStrings) Values() []string {
	out := make([]string, len(t.values))
	copy(out, t.values)
	return out
}

func (t *SharedStrings) handle(s string) (int, bool) {
	h, ok := t.index[s]
	return h, ok
}

func (t *SharedStrings) add(s string) int {
	h := len(t.values)
	t.values = append(t.values, s)
	t.index[s] = h
	return h
}

func (t *SharedStrings) lookup(h int) (string, bool) {
	if h < 0 || h >= len(t.values) {
		return "", false
	}
	return t.values[h], true
}
