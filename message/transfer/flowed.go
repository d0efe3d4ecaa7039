package transfer

import (
	"regexp"

	"github.com/zostay/go-mimebuild/message/header/field"
)

var (
	bareLineBreak = regexp.MustCompile(`\r?\n`)
	needsStuffing = regexp.MustCompile(`(?im)^( |From|>)`)
)

// NormalizeLineBreaks turns every LF or CRLF line break in s into CRLF.
func NormalizeLineBreaks(s string) string {
	return bareLineBreak.ReplaceAllString(s, "\r\n")
}

// EncodeFlowed renders plain text as format=flowed text (RFC 3676). Line
// breaks are normalized, lines starting with a space, "From", or ">" are space
// stuffed, and long lines are folded after a space at MaxLineLength.
func EncodeFlowed(s string) string {
	s = NormalizeLineBreaks(s)
	s = needsStuffing.ReplaceAllString(s, " $1")
	return field.FoldLines(s, MaxLineLength, true)
}
