package field

import (
	"strings"
)

// DefaultFoldLength is the column at which header lines and flowed text are
// folded.
const DefaultFoldLength = 76

// LineBreak is the line ending inserted between folded lines.
const LineBreak = "\r\n"

func isSpace(c rune) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\v', '\f':
		return true
	}
	return false
}

// FoldLines breaks s into lines no longer than lineLength wherever that can be
// done at whitespace. Existing line breaks are kept. A word longer than
// lineLength is never split, the line is extended to the end of that word
// instead.
//
// When afterSpace is false, the break is placed before the whitespace, so the
// continuation line begins with it. This is the header folding style. When
// afterSpace is true, the whitespace stays at the end of the line, which is
// what flowed text (RFC 3676) expects.
func FoldLines(s string, lineLength int, afterSpace bool) string {
	rs := []rune(s)

	var out strings.Builder
	pos := 0
	for pos < len(rs) {
		end := pos + lineLength
		if end > len(rs) {
			end = len(rs)
		}

		line := rs[pos:end]
		if len(line) < lineLength {
			out.WriteString(string(line))
			break
		}

		if n := lineBreakEnd(line); n > 0 {
			out.WriteString(string(line[:n]))
			pos += n
			continue
		}

		if cut, ok := cutAtSpace(line, afterSpace); ok {
			line = line[:cut]
		} else {
			line = extendWord(line, rs[pos+len(line):], afterSpace)
		}

		out.WriteString(string(line))
		pos += len(line)
		if pos < len(rs) {
			out.WriteString(LineBreak)
		}
	}

	return out.String()
}

// lineBreakEnd returns the length of the prefix of line running up to and
// including the first line break or 0 if there is none.
func lineBreakEnd(line []rune) int {
	for i, c := range line {
		switch c {
		case '\n':
			return i + 1
		case '\r':
			if i+1 < len(line) && line[i+1] == '\n' {
				return i + 2
			}
			return i + 1
		}
	}
	return 0
}

// cutAtSpace finds the last run of whitespace in line and returns the length
// line should be cut to so that it breaks there.
func cutAtSpace(line []rune, afterSpace bool) (int, bool) {
	tail := -1
	for i := len(line) - 1; i >= 0; i-- {
		if isSpace(line[i]) {
			tail = i + 1
			break
		}
	}
	if tail < 0 {
		return 0, false
	}

	run := tail - 1
	for run > 0 && isSpace(line[run-1]) {
		run--
	}

	drop := len(line) - run
	if afterSpace {
		drop = len(line) - tail
	}
	if drop >= len(line) {
		return 0, false
	}

	return len(line) - drop, true
}

// extendWord grows line to cover the rest of the word that continues into
// rest. With afterSpace, the whitespace following the word is kept as well.
func extendWord(line, rest []rune, afterSpace bool) []rune {
	word := 0
	for word < len(rest) && !isSpace(rest[word]) {
		word++
	}
	if word == 0 {
		return line
	}

	n := word
	if afterSpace {
		for n < len(rest) && isSpace(rest[n]) {
			n++
		}
	}

	ext := make([]rune, 0, len(line)+n)
	ext = append(ext, line...)
	return append(ext, rest[:n]...)
}
