package message

import (
	"github.com/zostay/go-mimebuild/message/header"
)

// Envelope holds the SMTP envelope of a message. From is empty when the node
// has no sender. To lists every recipient once, in the order first seen.
type Envelope struct {
	From string   `json:"from"`
	To   []string `json:"to"`
}

// Envelope computes the SMTP envelope from the headers of this node. Children
// are not consulted.
//
// The sender is taken from From. When there is no From, the first of Sender or
// Reply-To present is used instead. Recipients are gathered from To, Cc, and
// Bcc, including Bcc even though Build omits it by default. Addresses are
// returned in their encoded form, with punycode domains.
func (n *Node) Envelope() (*Envelope, error) {
	env := &Envelope{}
	recipients := header.NewAddressEncoder()

	for _, f := range n.ListFields() {
		switch f.Name() {
		case header.From, header.Sender, header.ReplyTo:
			if f.Name() != header.From && env.From != "" {
				continue
			}

			enc := header.NewAddressEncoder()
			if _, err := enc.Encode(header.ParseAddressList(f.Body())); err != nil {
				return nil, err
			}

			if as := enc.Addresses(); len(as) > 0 && as[0] != "" {
				env.From = as[0]
			}

		case header.To, header.Cc, header.Bcc:
			if _, err := recipients.Encode(header.ParseAddressList(f.Body())); err != nil {
				return nil, err
			}
		}
	}

	env.To = recipients.Addresses()

	return env, nil
}
