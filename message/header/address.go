package header

import (
	"regexp"
	"strings"

	"github.com/zostay/go-addr/pkg/addr"
	"golang.org/x/net/idna"

	"github.com/zostay/go-mimebuild/message/header/field"
)

// Address is a parsed mailbox or group. A mailbox has an Address and an
// optional Name. A group has IsGroup set, a Name, and its members in Group.
type Address struct {
	Name    string
	Address string
	Group   []Address
	IsGroup bool
}

// Mailbox is a convenience constructor for a mailbox Address.
func Mailbox(name, address string) Address {
	return Address{Name: name, Address: address}
}

// Group is a convenience constructor for a group Address.
func Group(name string, members ...Address) Address {
	return Address{Name: name, Group: members, IsGroup: true}
}

// ParseAddressList parses a header body into a list of addresses. It never
// fails. The body is read by a forgiving parser that understands display
// names, angle brackets, comments, and groups, so it gives some kind of result
// for any input. A comment is used as the display name of a mailbox that has
// none.
//
// The comment-free body is also given to the strict RFC 5322 parser. When that
// succeeds and finds the same mailboxes, the addresses it found are used.
func ParseAddressList(body string) []Address {
	if strings.TrimSpace(body) == "" {
		return []Address{}
	}

	as := parseEmailAddressList(body)

	clean, _ := extractComments(body)
	strict, ok := strictAddresses(clean)
	if !ok {
		return as
	}

	mbs := mailboxes(as)
	if len(mbs) != len(strict) {
		return as
	}

	for i, mb := range mbs {
		mb.Address = strict[i]
	}

	return as
}

// strictAddresses returns the addr-spec of every mailbox in body, including
// group members, in order. It reports false if the strict parser rejects the
// body or gives up on it.
func strictAddresses(body string) (addrs []string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			addrs, ok = nil, false
		}
	}()

	al, err := addr.ParseEmailAddressList(body)
	if err != nil {
		return nil, false
	}

	addrs = []string{}
	for _, a := range al {
		switch a := a.(type) {
		case *addr.Group:
			for _, mb := range a.MailboxList() {
				addrs = append(addrs, strings.TrimSpace(mb.Address()))
			}
		default:
			addrs = append(addrs, strings.TrimSpace(a.Address()))
		}
	}

	for _, a := range addrs {
		if a == "" || strings.ContainsAny(a, " \t()") {
			return nil, false
		}
	}

	return addrs, true
}

// mailboxes returns pointers to every mailbox in as, including group members,
// in order.
func mailboxes(as []Address) []*Address {
	mbs := []*Address{}
	for i := range as {
		if as[i].IsGroup {
			mbs = append(mbs, mailboxes(as[i].Group)...)
			continue
		}
		mbs = append(mbs, &as[i])
	}
	return mbs
}

// unquoteName removes a single layer of double quotes and the backslash
// escapes inside them. An unquoted name has its whitespace collapsed.
func unquoteName(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return strings.Join(strings.Fields(s), " ")
	}

	var sb strings.Builder
	escaped := false
	for _, c := range s[1 : len(s)-1] {
		if !escaped && c == '\\' {
			escaped = true
			continue
		}
		escaped = false
		sb.WriteRune(c)
	}
	return sb.String()
}

// addressPiece is a run of text ending at a list delimiter, one of ',', ':',
// or ';', or at the end of the body when sep is 0.
type addressPiece struct {
	text string
	sep  rune
}

// splitAddressList cuts s at each comma, colon, and semicolon that is not
// inside double quotes, angle brackets, or a comment.
func splitAddressList(s string) []addressPiece {
	pieces := []addressPiece{}
	var cur strings.Builder
	quoted, angled, escaped := false, false, false
	nestLevel := 0
	for _, c := range s {
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case nestLevel > 0:
			switch c {
			case '(':
				nestLevel++
			case ')':
				nestLevel--
			}
		case c == '"':
			quoted = !quoted
		case quoted:
		case c == '(':
			nestLevel++
		case c == '<':
			angled = true
		case c == '>':
			angled = false
		case !angled && (c == ',' || c == ':' || c == ';'):
			pieces = append(pieces, addressPiece{cur.String(), c})
			cur.Reset()
			continue
		}
		cur.WriteRune(c)
	}
	return append(pieces, addressPiece{cur.String(), 0})
}

// fieldsUnquoted splits s at whitespace that is not inside double quotes.
func fieldsUnquoted(s string) []string {
	fields := []string{}
	var cur strings.Builder
	quoted, escaped := false, false
	for _, c := range s {
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			quoted = !quoted
		case !quoted && isSpace(c):
			if cur.Len() > 0 {
				fields = append(fields, cur.String())
				cur.Reset()
			}
			continue
		}
		cur.WriteRune(c)
	}
	if cur.Len() > 0 {
		fields = append(fields, cur.String())
	}
	return fields
}

func isSpace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func extractComments(s string) (string, string) {
	var clean, comment strings.Builder
	nestLevel := 0
	quoted, escaped := false, false
	for _, c := range s {
		switch {
		case nestLevel == 0 && escaped:
			escaped = false
			clean.WriteRune(c)
		case nestLevel == 0 && c == '\\':
			escaped = true
			clean.WriteRune(c)
		case nestLevel == 0 && c == '"':
			quoted = !quoted
			clean.WriteRune(c)
		case quoted:
			clean.WriteRune(c)
		case c == '(':
			nestLevel++
			if nestLevel > 1 {
				comment.WriteRune(c)
			}
		case c == ')':
			nestLevel--
			switch {
			case nestLevel == 0:
			case nestLevel < 0:
				nestLevel = 0
				clean.WriteRune(c)
			default:
				comment.WriteRune(c)
			}
		case nestLevel > 0:
			comment.WriteRune(c)
		default:
			clean.WriteRune(c)
		}
	}

	return clean.String(), comment.String()
}

// parseMailbox reads a single mailbox. If the text has an address in angle
// brackets, that is the address and whatever precedes it is the display name.
// Otherwise, the last word is the address and the words before it are the
// display name. A comment becomes the display name when there is no other.
func parseMailbox(s string) (Address, bool) {
	mb, com := extractComments(s)
	mb = strings.TrimSpace(mb)

	var dn, email string
	if lt := strings.LastIndex(mb, "<"); lt >= 0 {
		email = mb[lt+1:]
		if gt := strings.Index(email, ">"); gt >= 0 {
			email = email[:gt]
		}
		dn = mb[:lt]
	} else {
		parts := fieldsUnquoted(mb)
		if len(parts) > 0 {
			email = parts[len(parts)-1]
			dn = strings.Join(parts[:len(parts)-1], " ")
		}
	}

	email = strings.TrimSpace(email)
	if email == "" {
		return Address{}, false
	}

	name := unquoteName(dn)
	if name == "" {
		name = strings.Join(strings.Fields(com), " ")
	}

	return Mailbox(name, email), true
}

// parseEmailAddressList is a very forgiving address parser.
//
// It works as follows:
//
// 1. Split the string up at commas, colons, and semicolons outside of quotes,
// angle brackets, and comments.
// 2. A piece ending in a colon names a group. The mailboxes that follow belong
// to it until a semicolon or the end of the body.
// 3. Every other piece is read as a mailbox by parseMailbox. Empty pieces are
// dropped.
//
// As some address fields have something other than an address in it because
// people on the Internet are weird, the result will be wrong sometimes.
func parseEmailAddressList(v string) []Address {
	as := []Address{}
	var group *Address
	for _, p := range splitAddressList(v) {
		if p.sep == ':' && group == nil {
			name, _ := extractComments(p.text)
			g := Group(unquoteName(name))
			group = &g
			continue
		}

		if mb, ok := parseMailbox(p.text); ok {
			if group != nil {
				group.Group = append(group.Group, mb)
			} else {
				as = append(as, mb)
			}
		}

		if p.sep == ';' && group != nil {
			as = append(as, *group)
			group = nil
		}
	}

	if group != nil {
		as = append(as, *group)
	}

	return as
}

// ToASCII converts an internationalized domain name into its ASCII form using
// punycode. Labels that are already ASCII are left as they are.
func ToASCII(domain string) (string, error) {
	if field.IsASCII(domain) {
		return domain, nil
	}
	return idna.Punycode.ToASCII(domain)
}

var (
	safeName      = regexp.MustCompile(`^[\w ']*$`)
	printableName = regexp.MustCompile(`^[\x20-\x7e]*$`)
)

// EncodeName renders the display name of an address. Names of only word
// characters, spaces, and apostrophes are left alone. Other printable ASCII
// names are quoted. Everything else becomes a Q-encoded word.
func EncodeName(name string) string {
	switch {
	case safeName.MatchString(name):
		return name
	case printableName.MatchString(name):
		return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(name) + `"`
	default:
		return field.EncodeWord(name, field.QEncoding)
	}
}

// EncodeAddress renders the address part of a mailbox. A non-ASCII local part
// becomes encoded words and the domain is converted to punycode.
func EncodeAddress(address string) (string, error) {
	ix := strings.Index(address, "@")
	if ix < 0 {
		return address, nil
	}

	local, domain := address[:ix], address[ix+1:]
	local = field.EncodeWords(local, field.QEncoding)
	if domain != "" {
		var err error
		domain, err = ToASCII(domain)
		if err != nil {
			return "", err
		}
	}

	return local + "@" + domain, nil
}

// AddressEncoder renders addresses into header text. It remembers every
// address it has rendered, in the order first seen and without duplicates, for
// use in building an envelope.
type AddressEncoder struct {
	seen []string
}

// NewAddressEncoder returns an encoder whose remembered addresses start with
// the given list.
func NewAddressEncoder(seen ...string) *AddressEncoder {
	return &AddressEncoder{seen: append([]string{}, seen...)}
}

// Addresses returns the unique encoded addresses rendered so far.
func (e *AddressEncoder) Addresses() []string {
	return append([]string{}, e.seen...)
}

func (e *AddressEncoder) remember(address string) {
	for _, s := range e.seen {
		if s == address {
			return
		}
	}
	e.seen = append(e.seen, address)
}

// Encode renders the addresses as a comma separated header value. Mailboxes
// are rendered as "name <address>" or just the address when there is no name.
// Groups are rendered as "name:members;".
func (e *AddressEncoder) Encode(addrs []Address) (string, error) {
	values := make([]string, 0, len(addrs))
	for _, a := range addrs {
		switch {
		case a.Address != "":
			address, err := EncodeAddress(a.Address)
			if err != nil {
				return "", err
			}

			if a.Name == "" {
				values = append(values, address)
			} else {
				values = append(values, EncodeName(a.Name)+" <"+address+">")
			}

			e.remember(address)

		case a.IsGroup:
			members, err := e.Encode(a.Group)
			if err != nil {
				return "", err
			}

			values = append(values, EncodeName(a.Name)+":"+strings.TrimSpace(members)+";")
		}
	}

	return strings.Join(values, ", "), nil
}

// FormatAddresses renders the given addresses as a header value.
func FormatAddresses(addrs ...Address) (string, error) {
	return new(AddressEncoder).Encode(addrs)
}

// EncodeAddressList parses the header body as an address list and renders it
// again in its encoded form.
func EncodeAddressList(body string) (string, error) {
	return FormatAddresses(ParseAddressList(body)...)
}
