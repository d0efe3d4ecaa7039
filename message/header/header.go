package header

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/zostay/go-mimebuild/message/header/param"
)

// Errors returned by various header methods and functions.
var (
	// ErrNoSuchField is returned by Header methods when the operation
	// being performed failed because the header named does not exist.
	ErrNoSuchField = errors.New("no such header field")
)

// These are the header field names this module treats specially, in their
// normalized form.
const (
	Bcc                     = "Bcc"
	Cc                      = "Cc"
	ContentDisposition      = "Content-Disposition"
	ContentID               = "Content-Id"
	ContentTransferEncoding = "Content-Transfer-Encoding"
	ContentType             = "Content-Type"
	Date                    = "Date"
	From                    = "From"
	InReplyTo               = "In-Reply-To"
	MessageID               = "Message-Id"
	MIMEVersion             = "MIME-Version"
	References              = "References"
	ReplyTo                 = "Reply-To"
	Sender                  = "Sender"
	Subject                 = "Subject"
	To                      = "To"
)

// Even more custom date formats, built from those seen in the wild that the
// usual parsers have trouble with.
const (
	// UnixDateWithEarlyYear is a weird one, eh?
	UnixDateWithEarlyYear = "Mon Jan 02 15:04:05 2006 MST"
)

// DateFormat is the layout used to render the Date header. Dates are always
// rendered in UTC.
const DateFormat = "Mon, 02 Jan 2006 15:04:05 -0700"

// Header wraps a Base, which does the actual storage and low-level field
// manipulation. This provides the set/add/get semantics of a MIME node header
// along with some helpers for reading structured values.
//
// The getter methods of this object will return ErrNoSuchField if the field
// being fetched has not been set on the header.
type Header struct {
	// Base provides the low-level storage of header fields.
	Base
}

// Clone returns a deep copy of the header object.
func (h *Header) Clone() *Header {
	return &Header{Base: *h.Base.Clone()}
}

// Get retrieves the body of the first field with the given name.
//
// If the named field is not set in the header, it will return an empty string
// with ErrNoSuchField.
func (h *Header) Get(name string) (string, error) {
	ixs := h.GetIndexesNamed(name)
	if len(ixs) == 0 {
		return "", ErrNoSuchField
	}

	return h.GetField(ixs[0]).Body(), nil
}

// GetAll fetches all the header field bodies for fields with the given name
// and returns them as a slice of strings.
//
// It returns nil with ErrNoSuchField if no field with the given name is set on
// the header.
func (h *Header) GetAll(name string) ([]string, error) {
	fs := h.GetAllFieldsNamed(name)
	if len(fs) == 0 {
		return nil, ErrNoSuchField
	}

	bs := make([]string, len(fs))
	for i, f := range fs {
		bs[i] = f.Body()
	}

	return bs, nil
}

// Has returns true if at least one field with the given name is set.
func (h *Header) Has(name string) bool {
	return len(h.GetIndexesNamed(name)) > 0
}

// Set will replace all existing header fields with the given name with a single
// header field with the given name and body. If the field already exists on the
// header, then the first occurrence will be replaced with this value and any
// other values will be deleted. If the field does not exist, it will be
// appended to the end of the header.
func (h *Header) Set(name, body string) {
	ixs := h.GetIndexesNamed(name)

	if len(ixs) == 0 {
		h.InsertBeforeField(h.Len(), name, body)
		return
	}

	// delete from the back so the earlier indexes stay valid
	for i := len(ixs) - 1; i > 0; i-- {
		_ = h.DeleteField(ixs[i])
	}

	h.GetField(ixs[0]).SetBody(body)
}

// Add appends a new field to the end of the header without regard to any
// fields with the same name already present.
func (h *Header) Add(name, body string) {
	h.InsertBeforeField(h.Len(), name, body)
}

// Delete removes every field with the given name.
func (h *Header) Delete(name string) {
	ixs := h.GetIndexesNamed(name)
	for i := len(ixs) - 1; i >= 0; i-- {
		_ = h.DeleteField(ixs[i])
	}
}

// Apply sets or adds every field described by the given operations, in order.
// When set is true, each field is applied as by Set, otherwise as by Add.
func (h *Header) Apply(set bool, ops ...Op) {
	for _, op := range ops {
		for _, f := range op.Fields() {
			if set {
				h.Set(f.Key, f.Value)
			} else {
				h.Add(f.Key, f.Value)
			}
		}
	}
}

// ParseTime is a function that provides the time parsing used by GetDate() to
// parse dates. This will attempt to parse the date using the format specified
// by RFC 5322 first and fallback to parsing it in many other formats.
//
// It either returns a parsed time or the parse error.
func ParseTime(body string) (time.Time, error) {
	t, err := mail.ParseDate(body)
	if err == nil {
		return t, nil
	}

	t, err = dateparse.ParseAny(body)
	if err == nil {
		return t, nil
	}

	t, err = time.Parse(UnixDateWithEarlyYear, body)
	if err == nil {
		return t, nil
	}

	return t, fmt.Errorf("time string %q cannot be parsed", body)
}

// FormatTime renders t in UTC the way the Date header is written.
func FormatTime(t time.Time) string {
	return t.UTC().Format(DateFormat)
}

// GetDate parses the Date header. It will attempt to parse the date in many
// formats, not just the format specified by RFC 5322.
//
// It returns the zero value with ErrNoSuchField if the header does not exist.
func (h *Header) GetDate() (time.Time, error) {
	body, err := h.Get(Date)
	if err != nil {
		return time.Time{}, err
	}

	return ParseTime(body)
}

// SetDate replaces the Date header with the given time.
func (h *Header) SetDate(t time.Time) {
	h.Set(Date, FormatTime(t))
}

// GetParamValue parses the named field as a parameterized value.
//
// It returns nil with ErrNoSuchField if the header does not exist.
func (h *Header) GetParamValue(name string) (*param.Value, error) {
	body, err := h.Get(name)
	if err != nil {
		return nil, err
	}

	return param.Parse(body), nil
}

// SetParamValue replaces the named field with the serialized param.Value.
func (h *Header) SetParamValue(name string, pv *param.Value) {
	h.Set(name, pv.String())
}

// GetContentType returns the Content-Type header as a param.Value.
func (h *Header) GetContentType() (*param.Value, error) {
	return h.GetParamValue(ContentType)
}

// GetContentDisposition returns the Content-Disposition header as a
// param.Value.
func (h *Header) GetContentDisposition() (*param.Value, error) {
	return h.GetParamValue(ContentDisposition)
}

// GetMediaType returns the lower-cased, trimmed primary value of the
// Content-Type header, or an empty string when it is not set.
func (h *Header) GetMediaType() string {
	ct, err := h.Get(ContentType)
	if err != nil {
		return ""
	}

	return strings.ToLower(strings.TrimSpace(param.Parse(ct).MediaType()))
}

// GetTransferEncoding returns the lower-cased, trimmed value of the
// Content-Transfer-Encoding header, or an empty string when it is not set.
func (h *Header) GetTransferEncoding() string {
	te, err := h.Get(ContentTransferEncoding)
	if err != nil {
		return ""
	}

	return strings.ToLower(strings.TrimSpace(te))
}

// GetAddressList parses the named field as an address list.
//
// It returns nil with ErrNoSuchField if the header does not exist.
func (h *Header) GetAddressList(name string) ([]Address, error) {
	body, err := h.Get(name)
	if err != nil {
		return nil, err
	}

	return ParseAddressList(body), nil
}
