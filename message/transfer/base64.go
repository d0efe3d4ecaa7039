package transfer

import (
	"encoding/base64"
	"io"
	"strings"
)

var defaultBase64LineBreak = []byte("\r\n")

// newlineWriter inserts a line break after every so many bytes. No break is
// written after the final line.
type newlineWriter struct {
	every int
	acc   int
	lbr   []byte
	w     io.Writer
}

func (nw *newlineWriter) Write(b []byte) (int, error) {
	n := 0
	for len(b) > 0 {
		if nw.acc == nw.every {
			if _, err := nw.w.Write(nw.lbr); err != nil {
				return n, err
			}
			nw.acc = 0
		}

		chunk := nw.every - nw.acc
		if chunk > len(b) {
			chunk = len(b)
		}

		ln, err := nw.w.Write(b[:chunk])
		n += ln
		nw.acc += ln
		if err != nil {
			return n, err
		}

		b = b[chunk:]
	}

	return n, nil
}

// NewBase64Encoder will translate all bytes written to the returned
// io.WriteCloser into base64 encoding and write those to the given io.Writer
// in lines of MaxLineLength characters separated by CRLF.
func NewBase64Encoder(w io.Writer) io.WriteCloser {
	enc := base64.NewEncoder(base64.StdEncoding, &newlineWriter{
		every: MaxLineLength,
		lbr:   defaultBase64LineBreak,
		w:     w,
	})
	return &writer{enc, enc}
}

// EncodeBase64 returns b base64 encoded in lines of MaxLineLength characters
// separated by CRLF.
func EncodeBase64(b []byte) string {
	var sb strings.Builder
	enc := NewBase64Encoder(&sb)
	_, _ = enc.Write(b)
	_ = enc.Close()
	return sb.String()
}
