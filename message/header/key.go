package header

import (
	"strings"
)

// NormalizeKey returns the canonical form of a header field name. Line breaks
// become spaces, surrounding whitespace is trimmed, and the name is lower-cased
// before the first letter and every letter following a hyphen are upper-cased.
// A leading "mime" word is upper-cased entirely:
//
//	NormalizeKey("mime-vERSION") // "MIME-Version"
//	NormalizeKey("x-my-header")  // "X-My-Header"
func NormalizeKey(key string) string {
	key = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(key)
	key = strings.ToLower(strings.TrimSpace(key))

	b := []byte(key)
	for i := range b {
		if i == 0 || b[i-1] == '-' {
			if 'a' <= b[i] && b[i] <= 'z' {
				b[i] -= 'a' - 'A'
			}
		}
	}

	if strings.HasPrefix(key, "mime") && (len(b) == 4 || !isWordByte(b[4])) {
		copy(b, "MIME")
	}

	return string(b)
}

func isWordByte(c byte) bool {
	return c == '_' ||
		'a' <= c && c <= 'z' ||
		'A' <= c && c <= 'Z' ||
		'0' <= c && c <= '9'
}
