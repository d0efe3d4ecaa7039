// Package mimebuild is a library for generating MIME email messages. A message
// is a tree of nodes, each a MIME body part with its own header and content,
// that is turned into RFC 2822 text on demand.
//
// The library takes care of the tedious parts of generating correct mail. When
// a message is built, each part gets a transfer encoding suited to its content
// (7bit, format=flowed, quoted-printable, or base64), multipart boundaries are
// generated, non-ASCII header values become RFC 2047 encoded words, address
// domains are converted to punycode, and long parameters such as attachment
// filenames are split into RFC 2231 continuations. The root of the message
// also receives a Date, Message-Id, and MIME-Version when they are missing.
//
// The code is split according to part of message. The message package holds
// the tree and the build itself. The message/header package and its
// subpackages deal with header fields, addresses, and parameterized values.
// The message/transfer package provides the transfer encodings. The
// message/walk package visits the nodes of a tree. Finally, the
// tools/mailbuild command builds messages from the command line.
//
// Messages are only generated. Parsing existing messages is not something this
// library does.
package mimebuild
