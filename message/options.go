package message

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Option refers to options that may be passed to New and CreateChild to modify
// how the node is set up.
type Option func(o *options)

type options struct {
	root         *Node
	parent       *Node
	filename     string
	baseBoundary string
	encoded      bool
	bccInHeader  bool
	date         time.Time
	logger       logrus.FieldLogger
}

// WithRoot is an Option that places the new node in the tree of the given root
// node. The node takes its id from the root's counter. It is intended for nodes
// that are about to be appended somewhere in that tree.
func WithRoot(root *Node) Option {
	return func(o *options) { o.root = root }
}

// WithParent is an Option that records the given node as the parent of the new
// node. Unless WithRoot is also given, the node joins the parent's tree. This
// does not add the node to the parent's children; use CreateChild or
// AppendChild for that.
func WithParent(parent *Node) Option {
	return func(o *options) { o.parent = parent }
}

// WithFilename is an Option that sets the filename of an attachment node. When
// no content type is given to New, it is detected from the filename extension.
// The filename is also added to the Content-Disposition and Content-Type
// headers during Build.
func WithFilename(filename string) Option {
	return func(o *options) { o.filename = filename }
}

// WithBaseBoundary is an Option that sets the shared part of every multipart
// boundary generated in a tree. It only matters for root nodes. The default is
// a random UUID.
func WithBaseBoundary(base string) Option {
	return func(o *options) { o.baseBoundary = base }
}

// WithEncoded is an Option that marks the content of the node as already
// transfer encoded. Build will only normalize its line breaks.
func WithEncoded() Option {
	return func(o *options) { o.encoded = true }
}

// WithBccInHeader is an Option that keeps the Bcc header in the output of
// Build. By default, Bcc is used for the envelope only.
func WithBccInHeader() Option {
	return func(o *options) { o.bccInHeader = true }
}

// WithDate is an Option that sets the time used for the Date header and the
// generated Message-Id when those are missing from a root node. The default is
// the time the node was created.
func WithDate(t time.Time) Option {
	return func(o *options) { o.date = t }
}

// WithLogger is an Option that sets the logger used to report build decisions
// at debug level. Nodes in a tree log through the root's logger. The default is
// logrus.StandardLogger().
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) { o.logger = logger }
}
