package param

import (
	"strconv"
	"strings"

	"github.com/zostay/go-mimebuild/message/header/encoding"
)

type parseState int

const (
	inValue parseState = iota
	inKey
)

// Parse breaks a parameterized header value into the primary value and its
// parameters. Parsing is lenient and never fails: quoted strings are unquoted,
// backslash escapes are removed, parameter names are lower-cased, and a
// trailing name without a value is recorded with an empty value.
//
// RFC 2231 continuations (name*0, name*1*, name*) are joined back into a single
// parameter at the position of the first piece. Percent-encoded pieces are
// decoded and converted from the declared charset into UTF-8. If the charset is
// unknown, the joined value is kept undecoded.
func Parse(s string) *Value {
	pv := &Value{ps: []Param{}}

	var (
		key     string
		haveKey bool
		value   strings.Builder
		state   = inValue
		quote   bool
		escaped bool
	)

	finish := func() {
		v := strings.TrimSpace(value.String())
		if haveKey {
			pv.set(key, v)
		} else {
			pv.v = v
		}
	}

	for _, c := range s {
		if state == inKey {
			if c == '=' {
				key = strings.ToLower(strings.TrimSpace(value.String()))
				haveKey = true
				state = inValue
				value.Reset()
				continue
			}
			value.WriteRune(c)
			continue
		}

		switch {
		case escaped:
			value.WriteRune(c)
		case c == '\\':
			escaped = true
			continue
		case c == '"':
			quote = !quote
		case !quote && c == ';':
			finish()
			state = inKey
			value.Reset()
		default:
			value.WriteRune(c)
		}
		escaped = false
	}

	if state == inValue {
		finish()
	} else if k := strings.TrimSpace(value.String()); k != "" {
		pv.set(k, "")
	}

	return joinContinuations(pv)
}

type continuation struct {
	charset string
	pieces  map[int]piece
	max     int
}

type piece struct {
	value   string
	encoded bool
}

// splitContinuationName recognizes name*, name*N, and name*N*.
func splitContinuationName(k string) (string, int, bool, bool) {
	ix := strings.IndexRune(k, '*')
	if ix <= 0 {
		return "", 0, false, false
	}

	base, rest := k[:ix], k[ix+1:]
	if rest == "" {
		return base, 0, true, true
	}

	encoded := strings.HasSuffix(rest, "*")
	rest = strings.TrimSuffix(rest, "*")
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return "", 0, false, false
	}

	return base, n, encoded, true
}

func joinContinuations(pv *Value) *Value {
	conts := map[string]*continuation{}
	for _, p := range pv.ps {
		base, n, encoded, ok := splitContinuationName(p.Name)
		if !ok {
			continue
		}

		c := conts[base]
		if c == nil {
			c = &continuation{pieces: map[int]piece{}}
			conts[base] = c
		}

		v := p.Value
		if n == 0 && encoded {
			if parts := strings.SplitN(v, "'", 3); len(parts) == 3 {
				c.charset = parts[0]
				if c.charset == "" {
					c.charset = "iso-8859-1"
				}
				v = parts[2]
			}
		}

		c.pieces[n] = piece{v, encoded}
		if n > c.max {
			c.max = n
		}
	}

	if len(conts) == 0 {
		return pv
	}

	// the joined value replaces a plain parameter of the same name and sits
	// wherever that name first appeared
	ps := make([]Param, 0, len(pv.ps))
	placed := map[string]bool{}
	for _, p := range pv.ps {
		name := p.Name
		if base, _, _, ok := splitContinuationName(p.Name); ok {
			name = base
		}

		c, isCont := conts[name]
		if !isCont {
			ps = append(ps, p)
			continue
		}

		if placed[name] {
			continue
		}
		placed[name] = true
		ps = append(ps, Param{Name: name, Value: c.decode()})
	}

	pv.ps = ps
	return pv
}

func (c *continuation) decode() string {
	var raw []byte
	for i := 0; i <= c.max; i++ {
		p := c.pieces[i]
		if p.encoded {
			raw = append(raw, percentDecode(p.value)...)
		} else {
			raw = append(raw, p.value...)
		}
	}

	s, err := encoding.CharsetDecoder(c.charset, raw)
	if err != nil {
		return string(raw)
	}
	return s
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// percentDecode decodes %XX sequences. Malformed sequences are kept as-is.
func percentDecode(s string) []byte {
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			hi, ok1 := unhex(s[i+1])
			lo, ok2 := unhex(s[i+2])
			if ok1 && ok2 {
				b = append(b, hi<<4|lo)
				i += 2
				continue
			}
		}
		b = append(b, s[i])
	}
	return b
}
