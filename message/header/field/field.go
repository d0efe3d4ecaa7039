package field

// Field is a single header field, a name and a body. The body is held
// unencoded. Encoding and folding happen when the field is rendered.
type Field struct {
	name string
	body string
}

// New constructs a new field with the given name and body.
func New(name, body string) *Field {
	return &Field{name, body}
}

// Name returns the name of the header field.
func (f *Field) Name() string {
	return f.name
}

// SetName updates the name of the header field.
func (f *Field) SetName(name string) {
	f.name = name
}

// Body returns the value of the header field as a string.
func (f *Field) Body() string {
	return f.body
}

// SetBody updates the body of the header field.
func (f *Field) SetBody(body string) {
	f.body = body
}

// Clone returns a copy of the field.
func (f *Field) Clone() *Field {
	return &Field{f.name, f.body}
}

// String returns the complete header field as a single line folded at
// DefaultFoldLength. The body is written as-is, so it should already be
// encoded.
func (f *Field) String() string {
	return FoldLines(f.name+": "+f.body, DefaultFoldLength, false)
}

// Bytes returns the complete header field as a slice of bytes.
func (f *Field) Bytes() []byte {
	return []byte(f.String())
}
