// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"encoding/binary"
)

// Reduce turns the builder u into a canonical handle and consumes it: u must
// not be used afterwards. The result carries one reference owned by the
// caller, and the references held by u are either transferred to the new node
// or released.
//
// A builder whose children are all False gives False, and nothing is stored.
// In multi-terminal forests, a builder whose children (and edge values) are
// all equal gives its only child, so that levels can be skipped. Otherwise we
// look in the unique table of the level for a node with the same children,
// edge values and payload, and only create a new node if there is none.
func (f *Forest) Reduce(u *Unpacked) Handle {
	if u.forest != f {
		f.fatalf("reducing a builder of forest %s", u.forest.name)
	}
	u.check()
	u.consumed = true
	f.uniqueAccess++
	if u.allFalse() {
		return False
	}
	if f.labeling == MultiTerminal && u.redundant() {
		for _, c := range u.down[1:] {
			f.release(c)
		}
		return u.down[0]
	}
	level := u.level
	f.nodehash(u.down, u.edges, u.payload)
	if res, ok := f.unique[level][string(f.hbuff)]; ok {
		f.uniqueHit++
		f.metrics.unique.WithLabelValues("hit").Inc()
		if _DEBUG {
			f.checkmatch(res, u)
		}
		f.Link(res)
		for _, c := range u.down {
			f.release(c)
		}
		return res
	}
	f.uniqueMiss++
	f.metrics.unique.WithLabelValues("miss").Inc()
	// allocnode may start a reclamation sweep, which uses hbuff.
	res := f.allocnode()
	f.nodes[res] = packedNode{
		level:   int32(level),
		down:    u.down,
		edges:   u.edges,
		payload: u.payload,
		refcou:  1,
		status:  Active,
	}
	// the node keeps one reference per distinct child
	for i, c := range u.down {
		if c > 0 && contains(u.down[:i], c) {
			f.release(c)
		}
	}
	u.down, u.edges = nil, nil
	f.nodehash(f.nodes[res].down, f.nodes[res].edges, f.nodes[res].payload)
	f.unique[level][string(f.hbuff)] = res
	f.live++
	f.produced++
	f.metrics.created.Inc()
	f.metrics.active.Set(float64(f.ActiveNodes()))
	return res
}

// nodehash computes in hbuff the key of a node in the unique table of its
// level. Since all nodes of a level have the same number of children, the
// varint encoding of children, edge values and payload is unambiguous.
func (f *Forest) nodehash(down []Handle, edges []int64, payload int64) {
	f.hbuff = f.hbuff[:0]
	for _, c := range down {
		f.hbuff = binary.AppendVarint(f.hbuff, int64(c))
	}
	for _, v := range edges {
		f.hbuff = binary.AppendVarint(f.hbuff, v)
	}
	f.hbuff = binary.AppendVarint(f.hbuff, payload)
}

// delnode removes node h from the unique table of its level.
func (f *Forest) delnode(h Handle) {
	n := &f.nodes[h]
	f.nodehash(n.down, n.edges, n.payload)
	delete(f.unique[n.level], string(f.hbuff))
}

// checkmatch verifies that node h has exactly the content of builder u.
func (f *Forest) checkmatch(h Handle, u *Unpacked) {
	n := f.node(h)
	if int(n.level) != u.level || n.payload != u.payload || len(n.down) != len(u.down) {
		f.fatalf("unique table collision on node %d at level %d", h, u.level)
	}
	for i := range n.down {
		if n.down[i] != u.down[i] || (n.edges != nil && n.edges[i] != u.edges[i]) {
			f.fatalf("unique table collision on node %d at level %d (child %d)", h, u.level, i)
		}
	}
}
