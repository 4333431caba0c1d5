// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

// Handle identifies a node of a forest. The value 0 is the constant False (the
// empty set) in every forest. Negative values are terminals encoded directly,
// without a slot in the node arena: -v is the terminal of value v. Positive
// values are indices in the node arena of the forest.
type Handle int32

const (
	// False is the canonical false/empty terminal, shared by all forests.
	False Handle = 0
	// True is the terminal of value 1. In index-set forests it is the only
	// non-false terminal and marks the end of a valid path.
	True Handle = -1
)

// packedNode is the canonical, stored form of an internal node.
type packedNode struct {
	level    int32    // Level of the variable, 0 if the slot is unused
	down     []Handle // One child for every value of the variable
	edges    []int64  // Offsets attached to the children, nil in multi-terminal forests
	payload  int64    // Extra value (the cardinality in index-set forests)
	refcou   int32    // Incoming references: parents, edges and builders
	cachecou int32    // References held by compute table entries
	status   Status   // Liveness of the node
	marked   bool     // Used by traversals
	next     Handle   // Next free slot when the slot is unused
}

// isFree is true for slots that can be reused: dead nodes that are no longer
// named by any compute table entry. Free slots are linked using next.
func (n *packedNode) isFree() bool {
	return n.status == Dead && n.cachecou == 0
}

func (f *Forest) ismarked(h Handle) bool {
	return f.nodes[h].marked
}

func (f *Forest) marknode(h Handle) {
	f.nodes[h].marked = true
}

func (f *Forest) unmarknode(h Handle) {
	f.nodes[h].marked = false
}
