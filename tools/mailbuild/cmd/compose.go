package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zostay/go-mimebuild/message"
	"github.com/zostay/go-mimebuild/message/header"
	"github.com/zostay/go-mimebuild/message/header/encoding"
)

// composeOptions holds the flags describing the message to build.
type composeOptions struct {
	from         string
	to           []string
	cc           []string
	bcc          []string
	subject      string
	date         string
	headers      []string
	text         string
	html         string
	attach       []string
	charset      string
	baseBoundary string
	bccInHeader  bool
}

var compose composeOptions

func addMessageFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&compose.from, "from", "", "the From address")
	flags.StringSliceVar(&compose.to, "to", nil, "a To address (may be repeated)")
	flags.StringSliceVar(&compose.cc, "cc", nil, "a Cc address (may be repeated)")
	flags.StringSliceVar(&compose.bcc, "bcc", nil, "a Bcc address (may be repeated)")
	flags.StringVar(&compose.subject, "subject", "", "the Subject of the message")
	flags.StringVar(&compose.date, "date", "", "the Date of the message (default is now)")
	flags.StringArrayVarP(&compose.headers, "header", "H", nil, "an extra header as \"Key: Value\" (may be repeated)")
	flags.StringVar(&compose.text, "text", "", "a file holding the plain text body, - for stdin")
	flags.StringVar(&compose.html, "html", "", "a file holding the HTML body, - for stdin")
	flags.StringSliceVarP(&compose.attach, "attach", "a", nil, "a file to attach (may be repeated)")
	flags.StringVar(&compose.charset, "charset", "utf-8", "the character set of the text and HTML files")
	flags.StringVar(&compose.baseBoundary, "base-boundary", "", "the shared part of generated multipart boundaries")
	flags.BoolVar(&compose.bccInHeader, "bcc-in-header", false, "keep the Bcc header in the output")
}

// readBody reads a text body from the named file, or stdin for "-", and
// converts it from the given charset.
func readBody(fn, charset string) (string, error) {
	var (
		b   []byte
		err error
	)
	if fn == "-" {
		b, err = io.ReadAll(os.Stdin)
	} else {
		b, err = os.ReadFile(fn)
	}
	if err != nil {
		return "", err
	}

	s, err := encoding.CharsetDecoder(charset, b)
	if err != nil {
		return "", fmt.Errorf("unable to decode %q from %s: %w", fn, charset, err)
	}

	return s, nil
}

// rootOptions returns the options given to the node that ends up at the root
// of the message.
func (c *composeOptions) rootOptions() ([]message.Option, error) {
	opts := []message.Option{message.WithLogger(logrus.StandardLogger())}

	if c.baseBoundary != "" {
		opts = append(opts, message.WithBaseBoundary(c.baseBoundary))
	}

	if c.bccInHeader {
		opts = append(opts, message.WithBccInHeader())
	}

	if c.date != "" {
		t, err := header.ParseTime(c.date)
		if err != nil {
			return nil, fmt.Errorf("unable to parse --date %q: %w", c.date, err)
		}
		opts = append(opts, message.WithDate(t))
	}

	return opts, nil
}

// body returns the node holding the text and HTML bodies or nil if neither was
// given. Both together become a multipart/alternative node.
func (c *composeOptions) body(opts []message.Option) (*message.Node, error) {
	var text, html string
	if c.text != "" {
		s, err := readBody(c.text, c.charset)
		if err != nil {
			return nil, err
		}
		text = s
	}

	if c.html != "" {
		s, err := readBody(c.html, c.charset)
		if err != nil {
			return nil, err
		}
		html = s
	}

	switch {
	case c.text != "" && c.html != "":
		alt := message.New("multipart/alternative", opts...)
		alt.CreateChild("text/plain").SetContent(text)
		alt.CreateChild("text/html").SetContent(html)
		return alt, nil
	case c.text != "":
		return message.New("text/plain", opts...).SetContent(text), nil
	case c.html != "":
		return message.New("text/html", opts...).SetContent(html), nil
	default:
		return nil, nil
	}
}

// setHeaders applies the address, subject, and extra header flags to the root
// node.
func (c *composeOptions) setHeaders(root *message.Node) error {
	fields := header.Pairs{}
	if c.from != "" {
		fields = append(fields, header.Field{Key: header.From, Value: c.from})
	}
	if len(c.to) > 0 {
		fields = append(fields, header.Field{Key: header.To, Value: strings.Join(c.to, ", ")})
	}
	if len(c.cc) > 0 {
		fields = append(fields, header.Field{Key: header.Cc, Value: strings.Join(c.cc, ", ")})
	}
	if len(c.bcc) > 0 {
		fields = append(fields, header.Field{Key: header.Bcc, Value: strings.Join(c.bcc, ", ")})
	}
	if c.subject != "" {
		fields = append(fields, header.Field{Key: header.Subject, Value: c.subject})
	}
	root.SetHeaders(fields)

	for _, h := range c.headers {
		key, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(key) == "" {
			return fmt.Errorf("header %q is not in the form \"Key: Value\"", h)
		}
		root.AddHeader(key, strings.TrimSpace(value))
	}

	return nil
}

// Message builds the message tree described by the flags. Attachments turn the
// message into multipart/mixed with the body as its first part.
func (c *composeOptions) Message() (*message.Node, error) {
	opts, err := c.rootOptions()
	if err != nil {
		return nil, err
	}

	body, err := c.body(opts)
	if err != nil {
		return nil, err
	}

	root := body
	if len(c.attach) > 0 {
		root = message.New("multipart/mixed", opts...)
		if body != nil {
			root.AppendChild(body)
		}

		for _, fn := range c.attach {
			b, err := os.ReadFile(fn)
			if err != nil {
				return nil, err
			}

			root.CreateChild("", message.WithFilename(filepath.Base(fn))).
				SetBinaryContent(b)
		}
	} else if root == nil {
		root = message.New("text/plain", opts...)
	}

	if err := c.setHeaders(root); err != nil {
		return nil, err
	}

	return root, nil
}
