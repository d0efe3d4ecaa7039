package param

import (
	"strconv"
	"strings"
)

const upperhex = "0123456789ABCDEF"

func isContinuationSafe(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		case c == '_', c == '.', c == '-', c == ' ':
		default:
			return false
		}
	}
	return true
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '_', c == '.', c == '~':
		return true
	}
	return false
}

// percentEncode encodes the UTF-8 bytes of r, leaving only the URI unreserved
// characters as they are.
func percentEncode(r rune) string {
	var sb strings.Builder
	for _, b := range []byte(string(r)) {
		if isUnreserved(b) {
			sb.WriteByte(b)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(upperhex[b>>4])
		sb.WriteByte(upperhex[b&0x0f])
	}
	return sb.String()
}

// ContinuationEncode splits a parameter value into RFC 2231 continuations.
//
// A value made of only ASCII letters, digits, underscore, dot, hyphen, and
// space that fits in maxLength is returned as a single parameter named key. A
// longer value of that kind is cut into maxLength pieces named key*0, key*1,
// and so on.
//
// Any other value is percent-encoded as UTF-8. The first piece carries the
// utf-8'' charset prefix and every piece is named key*N* to mark it as
// encoded. Characters are never split between pieces and each piece stays
// shorter than maxLength unless a single character cannot fit.
func ContinuationEncode(key, value string, maxLength int) []Param {
	if maxLength <= 0 {
		maxLength = DefaultContinuationLength
	}

	if isContinuationSafe(value) {
		if len(value) <= maxLength {
			return []Param{{Name: key, Value: value}}
		}

		ps := []Param{}
		for i := 0; len(value) > 0; i++ {
			n := maxLength
			if n > len(value) {
				n = len(value)
			}
			ps = append(ps, Param{
				Name:  key + "*" + strconv.Itoa(i),
				Value: value[:n],
			})
			value = value[n:]
		}
		return ps
	}

	lines := []string{}
	line := "utf-8''"
	for _, r := range value {
		enc := percentEncode(r)
		if len(line)+len(enc) >= maxLength && line != "" && line != "utf-8''" {
			lines = append(lines, line)
			line = ""
		}
		line += enc
	}
	if line != "" {
		lines = append(lines, line)
	}

	ps := make([]Param, len(lines))
	for i, l := range lines {
		ps[i] = Param{
			Name:  key + "*" + strconv.Itoa(i) + "*",
			Value: l,
		}
	}
	return ps
}
