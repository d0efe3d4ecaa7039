package message

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/zostay/go-mimebuild/message/header"
	"github.com/zostay/go-mimebuild/message/mimetype"
)

// Node is a single MIME body part in a tree of parts. A node with a multipart
// Content-Type holds child nodes and any other node holds content. The root of
// the tree is the message itself.
//
// The embedded header.Header holds the header fields of the part in order.
// Field names are normalized as they are stored. The node also keeps a few
// values derived from its Content-Type during Build, such as whether it is
// multipart and what its boundary is.
//
// A Node is not safe for concurrent use.
type Node struct {
	header.Header

	root     *Node
	parent   *Node
	children []*Node

	id      int
	counter int

	baseBoundary string
	date         time.Time
	logger       logrus.FieldLogger

	filename    string
	content     string
	binary      bool
	encoded     bool
	bccInHeader bool

	contentType string
	multipart   string
	boundary    string
	boundarySet string
}

// New creates a new MIME node with the given content type. The content type
// may be empty, in which case no Content-Type header is set unless WithFilename
// is given, from which the content type is detected.
//
// Without WithRoot or WithParent, the new node is the root of a new tree.
func New(contentType string, opts ...Option) *Node {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	n := &Node{
		parent:       o.parent,
		filename:     o.filename,
		baseBoundary: o.baseBoundary,
		date:         o.date,
		logger:       o.logger,
		encoded:      o.encoded,
		bccInHeader:  o.bccInHeader,
	}

	switch {
	case o.root != nil:
		n.root = o.root
	case o.parent != nil:
		n.root = o.parent.root
	default:
		n.root = n
	}

	if n.baseBoundary == "" {
		n.baseBoundary = uuid.NewString()
	}

	if n.date.IsZero() {
		n.date = time.Now()
	}

	if n.logger == nil {
		if n.root != n {
			n.logger = n.root.logger
		} else {
			n.logger = logrus.StandardLogger()
		}
	}

	n.root.counter++
	n.id = n.root.counter

	if contentType == "" && n.filename != "" {
		contentType = mimetype.Detect(n.filename)
	}

	if contentType != "" {
		n.Set(header.ContentType, contentType)
	}

	return n
}

// ID returns the id of the node, which is unique within its tree.
func (n *Node) ID() int {
	return n.id
}

// Root returns the root node of the tree this node belongs to. A root node
// returns itself.
func (n *Node) Root() *Node {
	return n.root
}

// Parent returns the node containing this node or nil for a root node.
func (n *Node) Parent() *Node {
	return n.parent
}

// IsRoot returns true if the node is the root of its tree.
func (n *Node) IsRoot() bool {
	return n.root == n
}

// Children returns the child nodes in order.
func (n *Node) Children() []*Node {
	return append([]*Node{}, n.children...)
}

// Filename returns the attachment filename of the node, if any.
func (n *Node) Filename() string {
	return n.filename
}

// BaseBoundary returns the shared boundary part of this node's tree.
func (n *Node) BaseBoundary() string {
	return n.root.baseBoundary
}

// ContentType returns the lower-cased media type found in the Content-Type
// header during the last Build. It is empty before the first Build.
func (n *Node) ContentType() string {
	return n.contentType
}

// Multipart returns the multipart subtype, e.g., "mixed", found during the
// last Build or an empty string if the node is not multipart.
func (n *Node) Multipart() string {
	return n.multipart
}

// IsMultipart returns true if the Content-Type header of the node currently
// names a multipart media type. Unlike Multipart, this does not depend on a
// previous Build.
func (n *Node) IsMultipart() bool {
	return strings.HasPrefix(n.GetMediaType(), "multipart/")
}

// Boundary returns the multipart boundary of the node. It is empty if the node
// was not multipart during the last Build and no boundary has been set.
func (n *Node) Boundary() string {
	return n.boundary
}

// SetBoundary overrides the boundary used for a multipart node. A boundary
// parameter in the Content-Type header still takes precedence.
func (n *Node) SetBoundary(boundary string) *Node {
	n.boundarySet = boundary
	n.boundary = boundary
	return n
}

func (n *Node) log() logrus.FieldLogger {
	return n.root.logger
}

// walk calls fn on n and every node below it, parents before children.
func (n *Node) walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.walk(fn)
	}
}

// isAncestorOrSelf returns true if n is other or one of its ancestors.
func (n *Node) isAncestorOrSelf(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

func (n *Node) removeChild(child *Node) {
	if i := n.indexOf(child); i >= 0 {
		n.children = append(n.children[:i], n.children[i+1:]...)
	}
}

// adopt moves the subtree below n into the tree of root. Every node in the
// subtree receives a fresh id from root's counter.
func (n *Node) adopt(root *Node) {
	n.walk(func(d *Node) {
		d.root = root
		root.counter++
		d.id = root.counter
	})
}

// detach makes n the root of its own subtree. Ids are kept and the counter of
// n continues after the largest of them.
func (n *Node) detach() {
	n.parent = nil
	n.counter = 0
	n.walk(func(d *Node) {
		d.root = n
		if d.id > n.counter {
			n.counter = d.id
		}
	})
}

// CreateChild creates a new node with the given content type and options and
// appends it to the children of this node. It returns the new node.
func (n *Node) CreateChild(contentType string, opts ...Option) *Node {
	opts = append(opts, WithRoot(n.root), WithParent(n))
	return n.AppendChild(New(contentType, opts...))
}

// AppendChild adds the node to the end of the children of this node and
// returns it. A node that already has a parent is removed from it first. A
// node from a different tree is moved into this tree along with everything
// below it, receiving fresh ids.
//
// Appending this node or one of its ancestors would make a cycle, so that does
// nothing.
func (n *Node) AppendChild(child *Node) *Node {
	if child == nil || child.isAncestorOrSelf(n) {
		return child
	}

	if child.parent != nil {
		child.parent.removeChild(child)
	}

	if child.root != n.root {
		child.adopt(n.root)
	}

	child.parent = n
	n.children = append(n.children, child)

	n.log().WithFields(logrus.Fields{
		"node":     n.id,
		"child":    child.id,
		"children": len(n.children),
	}).Debug("Appended child node")

	return child
}

// Replace puts the given node in the place of this node within its parent and
// returns it. The replacement takes over the id, parent, and tree of this
// node. This node becomes the root of its own tree.
//
// If the replacement is this node or one of its ancestors, or if this node has
// no parent, nothing happens and this node is returned.
func (n *Node) Replace(node *Node) *Node {
	if node == nil || n.parent == nil || node.isAncestorOrSelf(n) {
		return n
	}

	if node.parent != nil {
		node.parent.removeChild(node)
	}

	parent := n.parent
	i := parent.indexOf(n)
	if i < 0 {
		return n
	}

	if node.root != n.root {
		node.adopt(n.root)
	}

	node.id = n.id
	node.parent = parent
	parent.children[i] = node

	n.detach()

	return node
}

// Remove takes this node out of its parent's children and makes it the root of
// its own tree. It returns the node. A node without a parent is returned as it
// is.
func (n *Node) Remove() *Node {
	if n.parent == nil {
		return n
	}

	n.parent.removeChild(n)
	n.detach()

	return n
}

// SetHeader sets the named header field, replacing the first field with that
// name and removing any others. It returns the node.
func (n *Node) SetHeader(key, value string) *Node {
	n.Set(key, value)
	return n
}

// SetHeaders applies each of the given header operations as by SetHeader, in
// order. It returns the node.
//
//	n.SetHeaders(header.Map{"From": "me@example.com", "Subject": "Hi"})
func (n *Node) SetHeaders(ops ...header.Op) *Node {
	n.Apply(true, ops...)
	return n
}

// AddHeader appends a header field, even if fields with that name are already
// present. It returns the node.
func (n *Node) AddHeader(key, value string) *Node {
	n.Add(key, value)
	return n
}

// AddHeaders applies each of the given header operations as by AddHeader, in
// order. It returns the node.
func (n *Node) AddHeaders(ops ...header.Op) *Node {
	n.Apply(false, ops...)
	return n
}

// GetHeader returns the value of the first header field with the given name.
// It returns header.ErrNoSuchField when there is none.
func (n *Node) GetHeader(key string) (string, error) {
	return n.Get(key)
}

// SetContent sets the body of the node to the given text. The transfer
// encoding is chosen when the node is built. An empty string means the node
// has no content.
func (n *Node) SetContent(content string) *Node {
	n.content = content
	n.binary = false
	return n
}

// SetBinaryContent sets the body of the node to raw bytes. Binary content is
// never sent as 7bit text and no charset is added for it.
func (n *Node) SetBinaryContent(content []byte) *Node {
	n.content = string(content)
	n.binary = true
	return n
}

// Content returns the body of the node and whether it was set as binary.
func (n *Node) Content() (string, bool) {
	return n.content, n.binary
}

func (n *Node) hasContent() bool {
	return n.content != ""
}
