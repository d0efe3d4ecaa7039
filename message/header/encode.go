package header

import (
	"regexp"
	"strings"

	"github.com/zostay/go-mimebuild/message/header/field"
)

var (
	lineBreaks   = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")
	angleTokenRe = regexp.MustCompile(`<[^>]*>`)
)

// IsAddressField returns true for the fields whose bodies are address lists.
func IsAddressField(key string) bool {
	switch NormalizeKey(key) {
	case From, Sender, To, Cc, Bcc, ReplyTo:
		return true
	}
	return false
}

// wrapAngles makes sure id is surrounded by angle brackets.
func wrapAngles(id string) string {
	if !strings.HasPrefix(id, "<") {
		id = "<" + id
	}
	if !strings.HasSuffix(id, ">") {
		id += ">"
	}
	return id
}

// EncodeValue renders the body of the named header field for output. The
// treatment depends on the field:
//
// - From, Sender, To, Cc, Bcc, and Reply-To are parsed as address lists and
// rendered by an AddressEncoder.
//
// - Message-Id, In-Reply-To, and Content-Id are wrapped in angle brackets.
//
// - References is split into message identifiers, each wrapped in angle
// brackets.
//
// - Everything else has any non-ASCII words base64 encoded as RFC 2047 words.
//
// Line breaks in the value are always turned into spaces.
func EncodeValue(key, value string) (string, error) {
	switch NormalizeKey(key) {
	case From, Sender, To, Cc, Bcc, ReplyTo:
		return EncodeAddressList(value)

	case MessageID, InReplyTo, ContentID:
		return wrapAngles(lineBreaks.Replace(value)), nil

	case References:
		return EncodeReferences(value), nil

	default:
		return field.EncodeWords(lineBreaks.Replace(value), field.BEncoding), nil
	}
}

// EncodeReferences renders a References body. Whitespace inside angle brackets
// is removed, the remainder is split on whitespace, and every identifier is
// wrapped in angle brackets.
func EncodeReferences(value string) string {
	value = strings.TrimSpace(lineBreaks.Replace(value))
	value = angleTokenRe.ReplaceAllStringFunc(value, func(tok string) string {
		return strings.Join(strings.Fields(tok), "")
	})

	ids := strings.Fields(value)
	for i, id := range ids {
		ids[i] = wrapAngles(id)
	}

	return strings.Join(ids, " ")
}
