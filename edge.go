// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import "fmt"

// Edge is a reference to the root of a diagram held by user code: a node of
// a forest and the value attached to the edge leading to it. An edge holds one
// reference on its node until Release is called; the node (and everything
// reachable from it) will not be reclaimed before. An edge must not be used
// after its forest is discarded.
type Edge struct {
	forest   *Forest
	node     Handle
	value    int64
	released bool
}

// NewEdge returns an edge to node h with edge value v. It adds a reference to
// h.
func (f *Forest) NewEdge(h Handle, v int64) *Edge {
	return f.adoptEdge(f.Link(h), v)
}

// adoptEdge is NewEdge for a handle whose reference is transferred to the
// edge.
func (f *Forest) adoptEdge(h Handle, v int64) *Edge {
	return &Edge{forest: f, node: h, value: v}
}

// Forest returns the forest of e.
func (e *Edge) Forest() *Forest {
	return e.forest
}

// Node returns the handle of the root of e.
func (e *Edge) Node() Handle {
	return e.node
}

// Value returns the value attached to e.
func (e *Edge) Value() int64 {
	return e.value
}

// Copy returns a new edge with the same root and value, holding its own
// reference.
func (e *Edge) Copy() *Edge {
	return e.forest.NewEdge(e.node, e.value)
}

// Release drops the reference held by e. Calling Release more than once is
// a no-op.
func (e *Edge) Release() {
	if e.released {
		return
	}
	e.released = true
	e.forest.Unlink(e.node)
}

// Released reports whether Release has been called on e.
func (e *Edge) Released() bool {
	return e.released
}

// Equal reports whether e and o denote the same diagram: same forest, same
// root and same edge value.
func (e *Edge) Equal(o *Edge) bool {
	return e.forest == o.forest && e.node == o.node && e.value == o.value
}

func (e *Edge) String() string {
	if e.released {
		return fmt.Sprintf("<%s released>", e.forest.name)
	}
	return fmt.Sprintf("<%s %d %d>", e.forest.name, e.node, e.value)
}

// checkEdge returns an error if e cannot be used with f.
func (f *Forest) checkEdge(e *Edge) error {
	if e == nil {
		return fmt.Errorf("%w: nil edge", ErrForest)
	}
	if e.released {
		return ErrReleased
	}
	if e.forest != f {
		return fmt.Errorf("%w: edge of %s used with %s", ErrForest, e.forest.name, f.name)
	}
	return nil
}
