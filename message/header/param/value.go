package param

import (
	"strings"
)

const (
	// Charset is the name of the charset parameter that may be present in the
	// Content-type header.
	Charset = "charset"

	// Boundary is the name of the boundary parameter that may be present in
	// the Content-type header.
	Boundary = "boundary"

	// Filename is the name of the filename parameter that may be present in
	// the Content-disposition header.
	Filename = "filename"

	// Name is the name of the name parameter that may be present in the
	// Content-type header, the older way of naming an attachment.
	Name = "name"

	// Format is the name of the format parameter of text/plain, which is set
	// to "flowed" for RFC 3676 text.
	Format = "format"
)

// DefaultContinuationLength is the longest line allowed for a single RFC 2231
// continuation value of the filename and name parameters.
const DefaultContinuationLength = 50

// Param is a single name and value pair.
type Param struct {
	Name  string
	Value string
}

// Value represents a parsed parameterized header field, such as is used in the
// Content-type and Content-disposition headers. A Value object is immutable:
// You cannot change it in place. However, a Modify() function is provided to
// perform transformation of a Value into a new Value.
type Value struct {
	v  string
	ps []Param
}

// New creates a new parameterized header field with the given parameters, if
// any.
func New(v string, ps ...Param) *Value {
	pv := &Value{v: v, ps: make([]Param, 0, len(ps))}
	for _, p := range ps {
		pv.set(p.Name, p.Value)
	}
	return pv
}

func (pv *Value) index(k string) int {
	k = strings.ToLower(k)
	for i, p := range pv.ps {
		if p.Name == k {
			return i
		}
	}
	return -1
}

func (pv *Value) set(k, v string) {
	k = strings.ToLower(k)
	if i := pv.index(k); i >= 0 {
		pv.ps[i].Value = v
		return
	}
	pv.ps = append(pv.ps, Param{k, v})
}

func (pv *Value) delete(k string) {
	if i := pv.index(k); i >= 0 {
		pv.ps = append(pv.ps[:i], pv.ps[i+1:]...)
	}
}

// Modifier is a modification to apply to a Value when calling the Modify()
// function.
type Modifier func(*Value)

// Change is a Modifier that replaces the primary value of the Value.
func Change(value string) Modifier {
	return func(pv *Value) {
		pv.v = value
	}
}

// Set is a Modifier that sets a parameter with the given name on the Value.
// A parameter already present keeps its position.
func Set(name, value string) Modifier {
	return func(pv *Value) {
		pv.set(name, value)
	}
}

// SetDefault is a Modifier that sets a parameter only when it is not already
// present.
func SetDefault(name, value string) Modifier {
	return func(pv *Value) {
		if pv.index(name) < 0 {
			pv.set(name, value)
		}
	}
}

// Delete is a Modifier that removes the parameter with the given name from the
// Value.
func Delete(name string) Modifier {
	return func(pv *Value) {
		pv.delete(name)
	}
}

// Modify clones a Value, applies the given modifications (if any) and returns
// the new Value. You can pass multiple changes to this function:
//
//	v := param.Parse("multipart/mixed; boundary=abc123; charset=latin1")
//	nv := param.Modify(v, param.Change("multipart/alternate"), param.Set("charset", "utf-8"))
func Modify(pv *Value, changes ...Modifier) *Value {
	c := pv.Clone()
	for _, change := range changes {
		change(c)
	}
	return c
}

// Value returns the primary value of the Value. This is the value before the
// first semi-colon.
func (pv *Value) Value() string {
	return pv.v
}

// Disposition is a synonym for Value() and returns the Content-disposition,
// either "inline" or "attachment".
func (pv *Value) Disposition() string {
	return pv.v
}

// MediaType is a synonym for Value() and returns the Content-type value, e.g.,
// "text/html", "image/jpeg", "multipart/mixed", etc.
func (pv *Value) MediaType() string {
	return pv.v
}

// Type is only intended for use with the Content-type header. It returns the
// lower-cased MediaType() before the slash or an empty string if there is no
// slash.
//
// For example, if MediaType() returns "image/jpeg", this method will return
// "image".
func (pv *Value) Type() string {
	mt := strings.ToLower(strings.TrimSpace(pv.v))
	if ix := strings.IndexRune(mt, '/'); ix >= 0 {
		return mt[:ix]
	}
	return ""
}

// Subtype is only intended for use with the Content-type header. It returns
// the lower-cased MediaType() after the slash or an empty string if there is no
// slash.
//
// For example, if MediaType() returns "text/html", this method will return
// "html".
func (pv *Value) Subtype() string {
	mt := strings.ToLower(strings.TrimSpace(pv.v))
	if ix := strings.IndexRune(mt, '/'); ix >= 0 {
		return mt[ix+1:]
	}
	return ""
}

// Parameters returns a copy of the parameters as a map.
func (pv *Value) Parameters() map[string]string {
	m := make(map[string]string, len(pv.ps))
	for _, p := range pv.ps {
		m[p.Name] = p.Value
	}
	return m
}

// Params returns a copy of the parameters in order.
func (pv *Value) Params() []Param {
	return append([]Param{}, pv.ps...)
}

// Has returns true if the named parameter is present, even when empty.
func (pv *Value) Has(k string) bool {
	return pv.index(k) >= 0
}

// Parameter returns the value of the parameter with the given name.
func (pv *Value) Parameter(k string) string {
	if i := pv.index(k); i >= 0 {
		return pv.ps[i].Value
	}
	return ""
}

// Filename returns the value of the "filename" parameter. It is intended for
// use with the Content-disposition header.
func (pv *Value) Filename() string {
	return pv.Parameter(Filename)
}

// Charset returns the value of the "charset" parameter. It is intended for use
// with the Content-type header.
func (pv *Value) Charset() string {
	return pv.Parameter(Charset)
}

// Boundary returns the value of the "boundary" parameter. It is intended for
// use with the Content-type header.
func (pv *Value) Boundary() string {
	return pv.Parameter(Boundary)
}

// IsFlowed returns true if the "format" parameter is "flowed".
func (pv *Value) IsFlowed() bool {
	return strings.EqualFold(strings.TrimSpace(pv.Parameter(Format)), "flowed")
}

// String returns the serialized value of the Value including the primary value
// and all parameters in order. Values are quoted as needed. The filename and
// name parameters are split into RFC 2231 continuations when they are long or
// contain anything other than plain ASCII word characters.
func (pv *Value) String() string {
	parts := make([]string, 1, len(pv.ps)+1)
	parts[0] = pv.v

	for _, p := range pv.ps {
		if p.Name != Filename && p.Name != Name {
			parts = append(parts, p.Name+"="+Escape(p.Value))
			continue
		}

		// percent-encoded continuations must not be quoted
		for _, c := range ContinuationEncode(p.Name, p.Value, DefaultContinuationLength) {
			if strings.HasSuffix(c.Name, "*") {
				parts = append(parts, c.Name+"="+c.Value)
			} else {
				parts = append(parts, c.Name+"="+Escape(c.Value))
			}
		}
	}

	return strings.Join(parts, "; ")
}

// Bytes returns the serialized value of the Value including the primary value
// and all parameters.
func (pv *Value) Bytes() []byte {
	return []byte(pv.String())
}

// Clone returns a deep copy of the Value.
func (pv *Value) Clone() *Value {
	return &Value{
		v:  pv.v,
		ps: append(make([]Param, 0, len(pv.ps)), pv.ps...),
	}
}

// Escape returns the parameter value quoted if it contains whitespace or any
// of the characters '"\;/= or begins with a hyphen. Quotes and backslashes
// inside a quoted value are backslash escaped.
func Escape(v string) string {
	needsQuote := strings.HasPrefix(v, "-") ||
		strings.ContainsAny(v, " \t\r\n\v\f'\"\\;/=")
	if !needsQuote {
		return v
	}

	var sb strings.Builder
	sb.WriteByte('"')
	for _, c := range v {
		if c == '"' || c == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteRune(c)
	}
	sb.WriteByte('"')
	return sb.String()
}
