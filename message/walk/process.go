package walk

import (
	"errors"

	"github.com/zostay/go-mimebuild/message"
)

// ErrSkip may be returned by a Processor to signal that the children of the
// node should not be visited. The walk continues with the next sibling.
var ErrSkip = errors.New("skip node")

// Processor is a callback that can be passed to the AndProcess() function to
// do any kind of generic processing of a MIME tree and its nodes.
//
// The Processor is given a node and the ancestry of the node. If len(parents)
// is zero, then this is the top-level node (i.e., the node that AndProcess()
// was called upon, which might not be the root of the tree).
//
// The Processor may return an error to cause AndProcess() to terminate
// immediately and return that error. ErrSkip is the exception.
type Processor func(node *message.Node, parents []*message.Node) error

// AndProcess will walk the tree below the given node, in depth-first order,
// and call the given Processor function for each node found, parents before
// children. It will terminate once all nodes have been processed and return
// nil. If the Processor function returns an error, it will terminate early and
// return that error.
func AndProcess(
	processor Processor,
	node *message.Node,
) error {
	parents := make([]*message.Node, 0, 10)
	return andProcess(processor, node, parents)
}

func andProcess(
	processor Processor,
	node *message.Node,
	parents []*message.Node,
) error {
	err := processor(node, parents)
	if errors.Is(err, ErrSkip) {
		return nil
	} else if err != nil {
		return err
	}

	parents = append(parents[:len(parents):len(parents)], node)
	for _, child := range node.Children() {
		err := andProcess(processor, child, parents)
		if err != nil {
			return err
		}
	}

	return nil
}

// AndProcessContent works just like AndProcess, but only calls the Processor
// for nodes that are not multipart.
func AndProcessContent(
	processor Processor,
	node *message.Node,
) error {
	return AndProcess(
		func(node *message.Node, parents []*message.Node) error {
			if !node.IsMultipart() {
				return processor(node, parents)
			}
			return nil
		}, node)
}

// AndProcessMultipart works just like AndProcess, but only calls the Processor
// for multipart nodes. Returning ErrSkip prevents the nodes below from being
// visited.
func AndProcessMultipart(
	processor Processor,
	node *message.Node,
) error {
	return AndProcess(
		func(node *message.Node, parents []*message.Node) error {
			if node.IsMultipart() {
				return processor(node, parents)
			}
			return nil
		}, node)
}

// Find returns the first node, in depth-first order, for which match returns
// true, or nil if there is no such node.
func Find(
	match func(node *message.Node) bool,
	node *message.Node,
) *message.Node {
	var found *message.Node
	errFound := errors.New("found")
	_ = AndProcess(
		func(node *message.Node, _ []*message.Node) error {
			if match(node) {
				found = node
				return errFound
			}
			return nil
		}, node)
	return found
}
