// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

// Empty returns an edge to the empty set (the constant False).
func (f *Forest) Empty() *Edge {
	return f.adoptEdge(False, 0)
}

// Universe returns an edge to the set of all assignments in a boolean,
// multi-terminal forest. In other forests, it returns nil since True does not
// stand for every assignment.
func (f *Forest) Universe() *Edge {
	if f.rangeType != Boolean || f.labeling != MultiTerminal {
		return nil
	}
	return f.adoptEdge(True, 0)
}

// Singleton returns the set containing only assignment a (using the same
// order as in FromMinterms). DontCare values are accepted.
func (f *Forest) Singleton(a ...int) (*Edge, error) {
	return f.FromMinterms([][]int{a})
}

// Equal reports whether e1 and e2 denote the same diagram. Since nodes are
// canonical, this is a test on handles.
func (f *Forest) Equal(e1, e2 *Edge) bool {
	if e1 == nil || e2 == nil {
		return e1 == e2
	}
	return e1.Equal(e2)
}

// NodeCount returns the number of (non-terminal) nodes reachable from e.
func (f *Forest) NodeCount(e *Edge) int {
	if f.checkEdge(e) != nil {
		return 0
	}
	return f.countnodes(e.node)
}
