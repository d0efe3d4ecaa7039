package message

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/zostay/go-mimebuild/message/header"
	"github.com/zostay/go-mimebuild/message/header/field"
	"github.com/zostay/go-mimebuild/message/header/param"
	"github.com/zostay/go-mimebuild/message/transfer"
)

const (
	// MIMEVersion is the value of the MIME-Version header added to root nodes.
	MIMEVersion = "1.0"

	// DefaultDisposition is the Content-Disposition given to nodes with a
	// filename when none is set.
	DefaultDisposition = "attachment"
)

// hasValue returns true if the header has a non-blank field with the name.
func hasValue(h *header.Header, name string) bool {
	v, err := h.Get(name)
	return err == nil && strings.TrimSpace(v) != ""
}

// negotiateContentType works out whether the node is multipart from its
// Content-Type and adds the boundary, format, charset, and name parameters the
// node needs.
func (n *Node) negotiateContentType(ct *param.Value, flowed bool) *param.Value {
	n.contentType = strings.ToLower(strings.TrimSpace(ct.MediaType()))
	n.multipart = ""
	if typ, sub, ok := strings.Cut(n.contentType, "/"); ok && typ == "multipart" {
		n.multipart = sub
	}

	mods := []param.Modifier{}
	if n.multipart != "" {
		b := ct.Boundary()
		if b == "" {
			b = n.boundarySet
		}
		if b == "" {
			b = GenerateBoundary(n.id, n.root.baseBoundary)
		}
		n.boundary = b
		mods = append(mods, param.Set(param.Boundary, b))
	} else {
		n.boundary = ""
	}

	if flowed {
		mods = append(mods, param.Set(param.Format, "flowed"))
	}

	if strings.HasPrefix(n.contentType, "text/") && !n.binary && !field.IsASCII(n.content) {
		mods = append(mods, param.Set(param.Charset, "utf-8"))
	}

	if n.filename != "" && !ct.Has(param.Name) && !ct.Has(param.Filename) {
		mods = append(mods, param.Set(param.Name, n.filename))
	}

	return param.Modify(ct, mods...)
}

// encodeContent renders the body of the node in the given transfer encoding.
func (n *Node) encodeContent(te string, flowed bool) string {
	switch {
	case n.encoded:
		return transfer.NormalizeLineBreaks(n.content)
	case te == transfer.QuotedPrintable:
		return transfer.EncodeQuotedPrintable([]byte(n.content))
	case te == transfer.Base64:
		return transfer.EncodeBase64([]byte(n.content))
	case flowed:
		return transfer.EncodeFlowed(n.content)
	default:
		return transfer.NormalizeLineBreaks(n.content)
	}
}

// Build renders the node and everything below it as an RFC 2822 message or
// message part. Lines are separated by CRLF.
//
// The headers of the node are not modified. The transfer encoding, the
// default Content-Disposition of an attachment, and the Content-Type
// parameters are worked out and added to a copy of the header. On the root
// node, Date, Message-Id, and MIME-Version are added when missing. Bcc is left
// out unless WithBccInHeader was given.
//
// Build records the media type, multipart subtype, and boundary found on the
// node, which are then available from ContentType, Multipart, and Boundary. A
// generated boundary stays the same across builds.
func (n *Node) Build() (string, error) {
	h := n.Header.Clone()
	contentType := h.GetMediaType()

	n.contentType = contentType
	n.multipart = ""
	n.boundary = n.boundarySet

	var (
		te     string
		flowed bool
	)

	if n.hasContent() {
		te, flowed = transfer.Select(contentType, h.GetTransferEncoding(), n.content, n.binary)
		if te != transfer.None {
			h.Set(header.ContentTransferEncoding, te)
		}
	}

	if n.filename != "" && !hasValue(h, header.ContentDisposition) {
		h.Set(header.ContentDisposition, DefaultDisposition)
	}

	lines := make([]string, 0, h.Len()+8)
	for _, f := range h.ListFields() {
		key, value := f.Name(), f.Body()

		switch key {
		case header.ContentDisposition:
			cd := param.Parse(value)
			if n.filename != "" {
				cd = param.Modify(cd, param.Set(param.Filename, n.filename))
			}
			value = cd.String()

		case header.ContentType:
			ct := n.negotiateContentType(param.Parse(value), flowed)
			flowed = ct.IsFlowed()
			value = ct.String()

		case header.Bcc:
			if !n.bccInHeader {
				continue
			}
		}

		value, err := header.EncodeValue(key, value)
		if err != nil {
			return "", err
		}

		if strings.TrimSpace(value) == "" {
			continue
		}

		lines = append(lines, field.New(key, value).String())
	}

	if n.IsRoot() {
		more, err := n.rootHeaders(h)
		if err != nil {
			return "", err
		}
		lines = append(lines, more...)
	}

	lines = append(lines, "")

	hasParts := n.multipart != "" && len(n.children) > 0

	if n.hasContent() {
		lines = append(lines, n.encodeContent(te, flowed))
		if hasParts {
			lines = append(lines, "")
		}
	}

	n.log().WithFields(logrus.Fields{
		"node":             n.id,
		"contentType":      n.contentType,
		"transferEncoding": te,
		"flowed":           flowed,
		"boundary":         n.boundary,
	}).Debug("Building MIME node")

	if hasParts {
		for _, c := range n.children {
			part, err := c.Build()
			if err != nil {
				return "", err
			}
			lines = append(lines, "--"+n.boundary, part)
		}
		lines = append(lines, "--"+n.boundary+"--", "")
	}

	return strings.Join(lines, field.LineBreak), nil
}

// rootHeaders returns the header lines a message must have that are missing
// from h.
func (n *Node) rootHeaders(h *header.Header) ([]string, error) {
	lines := []string{}

	if !hasValue(h, header.Date) {
		lines = append(lines, header.Date+": "+header.FormatTime(n.date))
	}

	if !hasValue(h, header.MessageID) {
		env, err := n.Envelope()
		if err != nil {
			return nil, err
		}

		id := GenerateMessageID(n.date, messageIDDomain(env.From))
		lines = append(lines, header.MessageID+": "+id)
	}

	if !hasValue(h, header.MIMEVersion) {
		lines = append(lines, header.MIMEVersion+": "+MIMEVersion)
	}

	return lines, nil
}

// WriteTo writes the output of Build to w.
func (n *Node) WriteTo(w io.Writer) (int64, error) {
	s, err := n.Build()
	if err != nil {
		return 0, err
	}

	c, err := io.WriteString(w, s)
	return int64(c), err
}
