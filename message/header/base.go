package header

import (
	"errors"

	"github.com/zostay/go-mimebuild/message/header/field"
)

var (
	// ErrIndexOutOfRange when an attempt is made to access a header field index
	// that is too large or to small.
	ErrIndexOutOfRange = errors.New("header field index is out of range")
)

// Base represents a basic email message header. It is an ordered list of
// fields that permits duplicates. Field names are normalized with NormalizeKey
// when they are stored.
type Base struct {
	fields []*field.Field
}

// initBase initializes the fields lazily.
func (h *Base) initBase() {
	if h.fields == nil {
		h.fields = make([]*field.Field, 0, 10)
	}
}

// Len returns the number of fields in the header.
func (h *Base) Len() int {
	return len(h.fields)
}

// GetField returns the nth field or nil if n is out of range.
func (h *Base) GetField(n int) *field.Field {
	if n < 0 || n >= len(h.fields) {
		return nil
	}
	return h.fields[n]
}

// GetIndexesNamed returns the indexes of fields with the given name.
func (h *Base) GetIndexesNamed(name string) []int {
	name = NormalizeKey(name)
	is := make([]int, 0, 2)
	for i, f := range h.fields {
		if f.Name() == name {
			is = append(is, i)
		}
	}
	return is
}

// GetAllFieldsNamed returns all the fields with the given name.
func (h *Base) GetAllFieldsNamed(name string) []*field.Field {
	ixs := h.GetIndexesNamed(name)
	fs := make([]*field.Field, len(ixs))
	for i, ix := range ixs {
		fs[i] = h.fields[ix]
	}
	return fs
}

// ListFields returns all the fields in the header in order.
func (h *Base) ListFields() []*field.Field {
	fs := make([]*field.Field, len(h.fields))
	copy(fs, h.fields)
	return fs
}

// InsertBeforeField will insert the given name and body values into the header
// at the given index. The index is clamped to the range of the header.
func (h *Base) InsertBeforeField(
	n int,
	name,
	body string,
) {
	h.initBase()

	// cap the range of n to 0..len(h.fields)
	if n < 0 {
		n = 0
	}
	if n > len(h.fields) {
		n = len(h.fields)
	}

	f := field.New(NormalizeKey(name), body)

	// make room for the new field
	h.fields = append(h.fields, nil)

	// move existing fields out of the way
	copy(h.fields[n+1:], h.fields[n:])

	h.fields[n] = f
}

// ClearFields removes all fields from the header.
func (h *Base) ClearFields() {
	h.initBase()
	h.fields = h.fields[:0]
}

// DeleteField removes the nth field from the header. Fails with an error if the
// given index is out of range.
func (h *Base) DeleteField(n int) error {
	h.initBase()

	if n < 0 || n >= len(h.fields) {
		return ErrIndexOutOfRange
	}

	copy(h.fields[n:], h.fields[n+1:])
	h.fields = h.fields[:len(h.fields)-1]

	return nil
}

// Clone returns a deep copy of the header fields.
func (h *Base) Clone() *Base {
	fs := make([]*field.Field, len(h.fields))
	for i, f := range h.fields {
		fs[i] = f.Clone()
	}
	return &Base{fields: fs}
}
