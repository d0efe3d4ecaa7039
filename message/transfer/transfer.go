package transfer

import (
	"io"
	"strings"
)

const (
	None            = ""                 // bytes will be left as-is
	Bit7            = "7bit"             // bytes will be left as-is
	Bit8            = "8bit"             // bytes will be left as-is
	Binary          = "binary"           // bytes will be left as-is
	QuotedPrintable = "quoted-printable" // bytes will be transformed into quoted-printable
	Base64          = "base64"           // bytes will be transformed into base64
)

// MaxLineLength is the longest line of 7bit text sent without reflowing it.
const MaxLineLength = 76

// writer is an internal helper to make wrapping easier.
type writer struct {
	io.Writer
	io.Closer
}

// Close will close the nested writer if there is one.
func (w *writer) Close() error {
	if w.Closer != nil {
		return w.Closer.Close()
	}
	return nil
}

// Encoder returns an io.WriteCloser, which will encode binary data and write
// the encoded form to the given io.Writer. You must call Close() on the
// returned io.WriteCloser when you are finished.
type Encoder func(io.Writer) io.WriteCloser

// NewAsIsEncoder returns an io.WriteCloser that writes bytes as-is.
func NewAsIsEncoder(w io.Writer) io.WriteCloser {
	return &writer{w, nil}
}

// Encoders defines the supported Content-Transfer-Encodings and how to apply
// them. It can be modified to change the global handling of transfer
// encodings.
var Encoders = map[string]Encoder{
	None:            NewAsIsEncoder,
	Bit7:            NewAsIsEncoder,
	Bit8:            NewAsIsEncoder,
	Binary:          NewAsIsEncoder,
	QuotedPrintable: NewQuotedPrintableEncoder,
	Base64:          NewBase64Encoder,
}

// ApplyTransferEncoding returns an io.WriteCloser that will encode what is
// written to it using the named transfer encoding (or just pass data through if
// no encoding is necessary or the encoding is unknown).
//
// You must call Close() on the returned io.WriteCloser when you are finished
// writing.
func ApplyTransferEncoding(te string, w io.Writer) io.WriteCloser {
	if enc, ok := Encoders[strings.ToLower(strings.TrimSpace(te))]; ok {
		return enc(w)
	}
	return NewAsIsEncoder(w)
}

// IsPlainText returns true if s contains only 7bit characters and no control
// characters other than tab, line feed, and carriage return.
func IsPlainText(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 0x80:
			return false
		case c < 0x20 && c != '\t' && c != '\n' && c != '\r':
			return false
		}
	}
	return true
}

// HasLongLine returns true if any line of s is longer than max bytes.
func HasLongLine(s string, max int) bool {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\r' || s[i] == '\n' {
			n = 0
			continue
		}

		n++
		if n > max {
			return true
		}
	}
	return false
}

// Select chooses the transfer encoding for a body with the given content type.
// The current encoding is the one already set on the part, if any. A current
// value of base64 or quoted-printable is always kept. Otherwise:
//
// - text/* content that is plain text becomes 7bit and is flowed if a line is
// longer than MaxLineLength, any other text becomes quoted-printable.
//
// - multipart/* content keeps the current value.
//
// - anything else keeps the current value or becomes base64 if there is none.
//
// Binary content is never considered plain text.
func Select(contentType, current, body string, binary bool) (te string, flowed bool) {
	te = strings.ToLower(strings.TrimSpace(current))
	if te == Base64 || te == QuotedPrintable {
		return te, false
	}

	ct := strings.ToLower(strings.TrimSpace(contentType))
	switch {
	case strings.HasPrefix(ct, "text/"):
		if !binary && IsPlainText(body) {
			return Bit7, HasLongLine(body, MaxLineLength)
		}
		return QuotedPrintable, false
	case strings.HasPrefix(ct, "multipart/"):
		return te, false
	case te == None:
		return Base64, false
	default:
		return te, false
	}
}
