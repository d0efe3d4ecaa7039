// Package message is the heart of this library. It provides the Node, a tree of
// MIME body parts that is turned into a complete RFC 2822 message by calling
// Build.
//
// A message is built by creating a root node and adding children to it:
//
//	msg := message.New("multipart/mixed")
//	msg.SetHeader("From", "Sender <sender@example.com>")
//	msg.SetHeader("To", "receiver@example.com")
//	msg.SetHeader("Subject", "Hello")
//
//	alt := msg.CreateChild("multipart/alternative")
//	alt.CreateChild("text/plain").SetContent("Hello world!")
//	alt.CreateChild("text/html").SetContent("<b>Hello world!</b>")
//
//	msg.CreateChild("", message.WithFilename("report.pdf")).
//	  SetBinaryContent(pdf)
//
//	out, err := msg.Build()
//
// The nodes only hold what they were given. Everything else is worked out when
// the message is built: the transfer encoding of each part, Content-Type
// parameters such as the boundary and charset, the encoding of header values,
// and the Date, Message-Id, and MIME-Version of the root. Build may be called
// as many times as needed.
//
// The SMTP envelope for the message is available from the Envelope method of
// the root node.
package message
