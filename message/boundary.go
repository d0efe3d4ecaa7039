package message

import (
	"strconv"
)

// BoundaryPrefix begins every generated multipart boundary.
const BoundaryPrefix = "----sinikael-?=_"

// GenerateBoundary returns the multipart boundary for the node with the given
// id in a tree with the given base boundary.
func GenerateBoundary(nodeID int, base string) string {
	return BoundaryPrefix + strconv.Itoa(nodeID) + "-" + base
}
