package transfer

import (
	"io"
	"mime/quotedprintable"
	"strings"
)

// NewQuotedPrintableEncoder will transform all bytes written to the returned
// io.WriteCloser into quoted-printable form and write them to the given
// io.Writer. Line breaks in the input become CRLF and long lines are broken
// with soft line breaks.
func NewQuotedPrintableEncoder(w io.Writer) io.WriteCloser {
	qpw := quotedprintable.NewWriter(w)
	return &writer{qpw, qpw}
}

// EncodeQuotedPrintable returns b in quoted-printable form.
func EncodeQuotedPrintable(b []byte) string {
	var sb strings.Builder
	enc := NewQuotedPrintableEncoder(&sb)
	_, _ = enc.Write(b)
	_ = enc.Close()
	return sb.String()
}
