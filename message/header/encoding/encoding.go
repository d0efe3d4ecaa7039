// Package encoding provides charset conversion for the handful of places where
// text arrives in a character set other than UTF-8, such as RFC 2231 encoded
// parameter values or message bodies read from disk. It loads all the
// encodings provided with:
//
// * golang.org/x/text/encoding/ianaindex
//
// This will make the size of your compiled binaries considerably larger. But it
// will also give your code the ability to decode pretty much any character set
// it might encounter in the wild wild world of email.
package encoding

import (
	"fmt"
	"strings"

	_ "golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

// IsUTF8 returns true if the charset names UTF-8 or its subset US-ASCII, which
// need no conversion.
func IsUTF8(charset string) bool {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8", "us-ascii", "ascii":
		return true
	}
	return false
}

// CharsetDecoder converts bytes in the named charset into a native string.
func CharsetDecoder(charset string, b []byte) (string, error) {
	if IsUTF8(charset) {
		return string(b), nil
	}

	e, err := ianaindex.MIME.Encoding(charset)
	if err != nil {
		return "", err
	}

	if e == nil {
		return "", fmt.Errorf("no encoding found for charset %q", charset)
	}

	eb, err := e.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}

	return string(eb), nil
}

// CharsetEncoder converts a native string into bytes in the named charset.
func CharsetEncoder(charset, s string) ([]byte, error) {
	if IsUTF8(charset) {
		return []byte(s), nil
	}

	e, err := ianaindex.MIME.Encoding(charset)
	if err != nil {
		return nil, err
	}

	if e == nil {
		return nil, fmt.Errorf("no encoding found for charset %q", charset)
	}

	es, err := e.NewEncoder().String(s)
	if err != nil {
		return nil, err
	}

	return []byte(es), nil
}
