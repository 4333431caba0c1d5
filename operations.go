// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"fmt"
	"math/big"
)

// DontCare is the value used in assignments for a variable that can take any
// value.
const DontCare = -1

// FromMinterms returns the set of assignments described by m, in a boolean,
// multi-terminal forest. Each minterm gives one value for each variable,
// starting with the variable at the highest level (m[i][0] is the value of the
// top variable); the value DontCare stands for every value of the variable.
// The empty list gives the empty set.
func (f *Forest) FromMinterms(m [][]int) (*Edge, error) {
	if f.rangeType != Boolean || f.labeling != MultiTerminal {
		return nil, configErrorf(f.log, "FromMinterms", "forest %s is %s and %s", f.name, f.rangeType, f.labeling)
	}
	levels := f.domain.Levels()
	for _, row := range m {
		if len(row) != levels {
			return nil, fmt.Errorf("minterm %v has %d values, expected %d", row, len(row), levels)
		}
		for k, v := range row {
			if v != DontCare && (v < 0 || v >= f.domain.Size(levels-k)) {
				return nil, fmt.Errorf("minterm %v: value %d out of range for variable x%d", row, v, levels-k)
			}
		}
	}
	return f.adoptEdge(f.minterms(levels, m), 0), nil
}

// minterms returns the node, with a reference owned by the caller, for the
// set of rows seen from the given level.
func (f *Forest) minterms(level int, rows [][]int) Handle {
	if len(rows) == 0 {
		return False
	}
	if level == 0 {
		return True
	}
	idx := f.domain.Levels() - level
	u := f.NewUnpacked(level)
	sub := make([][]int, 0, len(rows))
	for i := 0; i < u.Size(); i++ {
		sub = sub[:0]
		for _, row := range rows {
			if row[idx] == i || row[idx] == DontCare {
				sub = append(sub, row)
			}
		}
		u.Set(i, f.minterms(level-1, sub))
	}
	return f.Reduce(u)
}

// Evaluate returns the value associated with the assignment a (using the
// same order as in FromMinterms, without DontCare) by the diagram e: the
// terminal reached in multi-terminal forests, or the index of a (the sum of
// the values on its path) in index-set forests. The boolean result is false
// if the path of a leads to False or if a is not a valid assignment.
func (f *Forest) Evaluate(e *Edge, a []int) (int64, bool) {
	if f.checkEdge(e) != nil {
		return 0, false
	}
	levels := f.domain.Levels()
	if len(a) != levels {
		return 0, false
	}
	h, sum := e.node, e.value
	for level := levels; level > 0; level-- {
		v := a[levels-level]
		if v < 0 || v >= f.domain.Size(level) {
			return 0, false
		}
		if h == False {
			return 0, false
		}
		if f.Level(h) < level {
			continue
		}
		sum += f.EdgeValue(h, v)
		h = f.Child(h, v)
	}
	if h == False {
		return 0, false
	}
	if f.labeling == IndexSet {
		return sum, true
	}
	return f.TerminalValue(h), true
}

// Enumerate iterates through all the assignments accepted by e, in
// lexicographic order (the variable at the highest level being the most
// significant), and calls function fn on each of them. We pass fn the
// assignment, with the same order as in FromMinterms, and its value (see
// Evaluate). The slice is reused between calls and must not be retained. We
// stop and return the error if fn returns an error at some point.
//
// The following is an example of a callback handler that counts the number of
// assignments:
//
//	acc := new(int)
//	f.Enumerate(e, func(a []int, v int64) error {
//		*acc++
//		return nil
//	})
func (f *Forest) Enumerate(e *Edge, fn func([]int, int64) error) error {
	if err := f.checkEdge(e); err != nil {
		return err
	}
	// the function does not create new nodes, so the arena cannot move
	prof := make([]int, f.domain.Levels())
	return f.enumerate(f.domain.Levels(), e.node, e.value, prof, fn)
}

func (f *Forest) enumerate(level int, h Handle, offset int64, prof []int, fn func([]int, int64) error) error {
	if h == False {
		return nil
	}
	if level == 0 {
		if f.labeling == IndexSet {
			return fn(prof, offset)
		}
		return fn(prof, f.TerminalValue(h))
	}
	idx := f.domain.Levels() - level
	skipped := f.Level(h) < level
	for i := 0; i < f.domain.Size(level); i++ {
		prof[idx] = i
		if skipped {
			if err := f.enumerate(level-1, h, offset, prof, fn); err != nil {
				return err
			}
			continue
		}
		if err := f.enumerate(level-1, f.Child(h, i), offset+f.EdgeValue(h, i), prof, fn); err != nil {
			return err
		}
	}
	return nil
}

// Cardinality returns the number of assignments accepted by e. We return a
// result using arbitrary-precision arithmetic to avoid possible overflows. It
// returns nil if e cannot be used with f.
func (f *Forest) Cardinality(e *Edge) *big.Int {
	if f.checkEdge(e) != nil {
		return nil
	}
	satc := make(map[Handle]*big.Int)
	return f.cardinality(f.domain.Levels(), e.node, satc)
}

func (f *Forest) cardinality(level int, h Handle, satc map[Handle]*big.Int) *big.Int {
	if h == False {
		return big.NewInt(0)
	}
	if level == 0 {
		return big.NewInt(1)
	}
	if f.Level(h) < level {
		res := big.NewInt(int64(f.domain.Size(level)))
		return res.Mul(res, f.cardinality(level-1, h, satc))
	}
	// we use satc to memoize the value of cardinality for each node
	if res, ok := satc[h]; ok {
		return res
	}
	res := big.NewInt(0)
	for _, c := range f.node(h).down {
		res.Add(res, f.cardinality(level-1, c, satc))
	}
	satc[h] = res
	return res
}

// Allnodes applies function fn over all the nodes reachable from the edges in
// the sequence edges..., or all the stored nodes (active or recoverable) if
// edges is absent. The parameters of fn are the handle, the level and the
// children of each node; the slice of children must not be modified.
// Terminals are never visited.
//
// The order in which nodes are visited is not specified. We stop the
// computation and return an error if fn returns an error at some point.
func (f *Forest) Allnodes(fn func(h Handle, level int, down []Handle) error, edges ...*Edge) error {
	for _, e := range edges {
		if err := f.checkEdge(e); err != nil {
			return err
		}
	}
	if len(edges) == 0 {
		for k := 1; k < len(f.nodes); k++ {
			n := &f.nodes[k]
			if n.status == Dead {
				continue
			}
			if err := fn(Handle(k), int(n.level), n.down); err != nil {
				return err
			}
		}
		return nil
	}
	for _, e := range edges {
		f.markrec(e.node)
	}
	var err error
	for k := 1; k < len(f.nodes); k++ {
		if !f.ismarked(Handle(k)) {
			continue
		}
		f.unmarknode(Handle(k))
		if err == nil {
			n := &f.nodes[k]
			err = fn(Handle(k), int(n.level), n.down)
		}
	}
	return err
}

// markrec marks all the nodes reachable from h.
func (f *Forest) markrec(h Handle) {
	if h <= 0 || f.ismarked(h) {
		return
	}
	f.marknode(h)
	for _, c := range f.node(h).down {
		f.markrec(c)
	}
}

// countnodes returns the number of nodes reachable from h. Marks are cleared
// before returning.
func (f *Forest) countnodes(h Handle) int {
	count := 0
	f.Allnodes(func(Handle, int, []Handle) error {
		count++
		return nil
	}, f.adoptEdge(h, 0))
	return count
}
