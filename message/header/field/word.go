package field

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"
)

// WordEncoding selects the RFC 2047 encoding used for an encoded word.
type WordEncoding byte

// The two encodings RFC 2047 defines.
const (
	BEncoding WordEncoding = 'B' // base64
	QEncoding WordEncoding = 'Q' // like quoted-printable
)

const (
	// maxQWordLength is the longest Q-encoded text placed in one encoded word.
	maxQWordLength = 52

	// maxBWordBytes is the most UTF-8 bytes base64 encoded into one word.
	maxBWordBytes = 39

	upperhex = "0123456789ABCDEF"
)

// IsASCII returns true if s contains no bytes at or above 0x80.
func IsASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func isQSafe(b byte) bool {
	switch {
	case 'a' <= b && b <= 'z', 'A' <= b && b <= 'Z', '0' <= b && b <= '9':
		return true
	case b == '!', b == '*', b == '+', b == '-', b == '/':
		return true
	}
	return false
}

// qEncodeRune Q-encodes a single character. Characters are encoded as a unit
// so that a split between encoded words never falls inside one.
func qEncodeRune(r rune) string {
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)

	var sb strings.Builder
	for _, b := range buf[:n] {
		switch {
		case b == ' ':
			sb.WriteByte('_')
		case isQSafe(b):
			sb.WriteByte(b)
		default:
			sb.WriteByte('=')
			sb.WriteByte(upperhex[b>>4])
			sb.WriteByte(upperhex[b&0x0f])
		}
	}
	return sb.String()
}

func qChunks(s string) []string {
	units := make([]string, 0, len(s))
	total := 0
	for _, r := range s {
		u := qEncodeRune(r)
		units = append(units, u)
		total += len(u)
	}

	if total < maxQWordLength {
		return []string{strings.Join(units, "")}
	}

	chunks := []string{}
	var cur strings.Builder
	for _, u := range units {
		if cur.Len() > 0 && cur.Len()+len(u) > maxQWordLength {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
		cur.WriteString(u)
	}
	if cur.Len() > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks
}

func bChunks(s string) []string {
	chunks := []string{}
	start, size := 0, 0
	for i, r := range s {
		n := utf8.RuneLen(r)
		if n < 0 {
			n = 1
		}
		if size > 0 && size+n > maxBWordBytes {
			chunks = append(chunks, base64.StdEncoding.EncodeToString([]byte(s[start:i])))
			start, size = i, 0
		}
		size += n
	}
	if start < len(s) {
		chunks = append(chunks, base64.StdEncoding.EncodeToString([]byte(s[start:])))
	}
	return chunks
}

// EncodeWord encodes all of s as one or more RFC 2047 encoded words using the
// UTF-8 charset. When the encoded text is too long for a single word, it is
// split into several words separated by a space. Characters are never split
// across words.
func EncodeWord(s string, enc WordEncoding) string {
	if s == "" {
		return ""
	}

	var chunks []string
	if enc == QEncoding {
		chunks = qChunks(s)
	} else {
		enc = BEncoding
		chunks = bChunks(s)
	}

	words := make([]string, len(chunks))
	for i, c := range chunks {
		words[i] = "=?UTF-8?" + string(enc) + "?" + c + "?="
	}
	return strings.Join(words, " ")
}

type wordToken struct {
	text  string
	space bool
	wide  bool
}

func splitWordTokens(s string) []wordToken {
	toks := []wordToken{}
	start := 0
	for start < len(s) {
		space := isSpace(rune(s[start]))
		end := start
		wide := false
		for end < len(s) && isSpace(rune(s[end])) == space {
			if s[end] >= utf8.RuneSelf {
				wide = true
			}
			end++
		}
		toks = append(toks, wordToken{s[start:end], space, wide})
		start = end
	}
	return toks
}

// EncodeWords encodes only the parts of s that require it. Each run of words
// containing non-ASCII characters, together with the whitespace between them,
// becomes encoded words. Everything else is left as-is, so a plain ASCII
// string is returned unchanged.
func EncodeWords(s string, enc WordEncoding) string {
	if IsASCII(s) {
		return s
	}

	toks := splitWordTokens(s)

	var out strings.Builder
	for i := 0; i < len(toks); {
		if toks[i].space || !toks[i].wide {
			out.WriteString(toks[i].text)
			i++
			continue
		}

		j := i + 1
		for j+1 < len(toks) && toks[j].space && toks[j+1].wide {
			j += 2
		}

		var run strings.Builder
		for _, t := range toks[i:j] {
			run.WriteString(t.text)
		}
		out.WriteString(EncodeWord(run.String(), enc))
		i = j
	}

	return out.String()
}
