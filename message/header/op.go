package header

import (
	"sort"
)

// Op is anything that describes one or more header fields to set or add. The
// Field, Pairs, and Map types all implement it.
type Op interface {
	Fields() []Field
}

// Field is a single header key and value.
type Field struct {
	Key   string
	Value string
}

// Fields returns the field as a list of one.
func (f Field) Fields() []Field {
	return []Field{f}
}

// Pairs is an ordered list of fields.
type Pairs []Field

// Fields returns the pairs in order.
func (p Pairs) Fields() []Field {
	return p
}

// Map is an unordered set of fields. Its fields are applied in the sort order
// of the keys so the result is the same every time.
type Map map[string]string

// Fields returns the map entries sorted by key.
func (m Map) Fields() []Field {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fs := make([]Field, len(keys))
	for i, k := range keys {
		fs[i] = Field{k, m[k]}
	}
	return fs
}
