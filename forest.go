// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"fmt"
	"math"
	"unsafe"

	"go.uber.org/zap"
)

// Forest stores the nodes of a collection of decision diagrams sharing the
// same variable ordering (a Domain). Nodes are hash-consed: within one level
// of a forest, no two stored nodes have the same children, edge values and
// payload. Diagrams are accessed through handles (type Handle) or, from user
// code, through reference-counted edges (type Edge).
//
// A forest is not safe for concurrent use.
type Forest struct {
	domain       *Domain
	nodes        []packedNode        // Node arena. Slot 0 is never used since Handle 0 is False
	unique       []map[string]Handle // Unicity tables, one for each level
	freenum      int                 // Number of free slots
	freepos      Handle              // First free slot, 0 if none
	live         int                 // Number of stored (active or recoverable) nodes
	recoverable  int                 // Number of recoverable nodes
	pinned       int                 // Number of dead nodes still named in compute tables
	produced     int                 // Total number of new nodes ever produced
	hbuff        []byte              // Used to compute the key of nodes in the unicity tables
	uniqueAccess int                 // accesses to the unique node table
	uniqueHit    int                 // entries actually found in the the unique node table
	uniqueMiss   int                 // entries not found in the the unique node table
	resizeHooks  []func(size int)    // called after each resize of the arena
	metrics      *forestMetrics
	gcstat                           // Information about reclamation sweeps
	configs                          // Configurable parameters
}

// NewForest returns a new, empty forest over domain d. The configuration of
// the forest (range, edge labeling, ...) is set using options and cannot be
// changed afterwards.
func NewForest(d *Domain, options ...func(*configs)) (*Forest, error) {
	c := makeconfigs(options...)
	if d == nil {
		return nil, fmt.Errorf("%w: nil domain", ErrDomain)
	}
	if c.name == "" {
		c.name = "forest"
	}
	if c.labeling == IndexSet && c.rangeType != Integer {
		return nil, configErrorf(c.log, c.name, "%s labeling requires an %s range, not %s", IndexSet, Integer, c.rangeType)
	}
	f := &Forest{domain: d, configs: *c}
	if f.nodesize > math.MaxInt32 {
		f.nodesize = math.MaxInt32
	}
	f.nodes = make([]packedNode, f.nodesize)
	for k := range f.nodes {
		f.nodes[k].next = Handle(k + 1)
	}
	f.nodes[len(f.nodes)-1].next = 0
	// slot 0 stands for False and is never put in the free list
	f.nodes[0] = packedNode{status: Active}
	f.freepos = 1
	f.freenum = len(f.nodes) - 1
	if f.freenum == 0 {
		f.freepos = 0
	}
	f.unique = make([]map[string]Handle, d.Levels()+1)
	for k := 1; k <= d.Levels(); k++ {
		f.unique[k] = make(map[string]Handle)
	}
	f.gcstat.history = []gcpoint{}
	f.metrics = newForestMetrics(&f.configs)
	f.log.Debug("new forest",
		zap.String("forest", f.name),
		zap.Stringer("domain", d),
		zap.Stringer("range", f.rangeType),
		zap.Stringer("labeling", f.labeling),
		zap.Bool("relational", f.relational),
		zap.Int("nodesize", len(f.nodes)))
	return f, nil
}

// Domain returns the domain of f.
func (f *Forest) Domain() *Domain {
	return f.domain
}

// Name returns the name of f, as set with the Name option.
func (f *Forest) Name() string {
	return f.name
}

// Range returns the range type of f.
func (f *Forest) Range() RangeType {
	return f.rangeType
}

// Labeling returns the edge labeling of f.
func (f *Forest) Labeling() EdgeLabeling {
	return f.labeling
}

// IsRelational reports whether f was built with the Relational option.
func (f *Forest) IsRelational() bool {
	return f.relational
}

// ************************************************************

// IsTerminal reports whether h is a terminal handle (including False).
func (f *Forest) IsTerminal(h Handle) bool {
	return h <= 0
}

// Terminal returns the handle of the terminal with value v. Boolean forests
// only accept the values 0 and 1, and values are never negative.
func (f *Forest) Terminal(v int64) (Handle, error) {
	if v < 0 || v > math.MaxInt32 {
		return False, fmt.Errorf("terminal value %d out of range in forest %s", v, f.name)
	}
	if f.rangeType == Boolean && v > 1 {
		return False, fmt.Errorf("terminal value %d in boolean forest %s", v, f.name)
	}
	return Handle(-v), nil
}

// TerminalValue returns the value of terminal h.
func (f *Forest) TerminalValue(h Handle) int64 {
	if h > 0 {
		f.fatalf("TerminalValue of internal node %d", h)
	}
	return -int64(h)
}

// node returns the stored node for handle h. It is an internal error to use a
// handle that does not denote a stored node.
func (f *Forest) node(h Handle) *packedNode {
	if h <= 0 || int(h) >= len(f.nodes) {
		f.fatalf("handle %d is not an internal node", h)
	}
	n := &f.nodes[h]
	if n.status == Dead {
		f.fatalf("access to reclaimed node %d", h)
	}
	return n
}

// Level returns the level of node h; terminals are at level 0.
func (f *Forest) Level(h Handle) int {
	if h <= 0 {
		return 0
	}
	return int(f.node(h).level)
}

// Child returns the i'th child of node h.
func (f *Forest) Child(h Handle, i int) Handle {
	return f.node(h).down[i]
}

// EdgeValue returns the value attached to the i'th child of node h. It is
// always 0 in multi-terminal forests.
func (f *Forest) EdgeValue(h Handle, i int) int64 {
	n := f.node(h)
	if n.edges == nil {
		return 0
	}
	return n.edges[i]
}

// Payload returns the extra value stored with node h (the cardinality of the
// node in index-set forests).
func (f *Forest) Payload(h Handle) int64 {
	return f.node(h).payload
}

// ActiveNodes returns the number of stored nodes with a positive reference
// count.
func (f *Forest) ActiveNodes() int {
	return f.live - f.recoverable
}

// RecoverableNodes returns the number of unreferenced nodes waiting for the
// next call to Reclaim.
func (f *Forest) RecoverableNodes() int {
	return f.recoverable
}

// PinnedNodes returns the number of reclaimed nodes whose slot cannot be reused
// yet because a compute table entry still names them.
func (f *Forest) PinnedNodes() int {
	return f.pinned
}

// ************************************************************

// allocnode returns the first free slot of the arena. If there is none, we
// reclaim recoverable nodes and, as a last resort, resize the arena.
func (f *Forest) allocnode() Handle {
	if f.freepos == 0 {
		if f.recoverable > 0 {
			f.Reclaim()
		}
		if f.freepos == 0 || (f.freenum*100)/len(f.nodes) <= f.minfreenodes {
			if err := f.noderesize(); err != nil && f.freepos == 0 {
				f.fatal(err, "no free slot left (%d nodes)", len(f.nodes))
			}
		}
	}
	res := f.freepos
	f.freepos = f.nodes[res].next
	f.freenum--
	return res
}

// freeslot puts slot h back in the free list.
func (f *Forest) freeslot(h Handle) {
	f.nodes[h] = packedNode{next: f.freepos}
	f.freepos = h
	f.freenum++
}

func (f *Forest) noderesize() error {
	oldsize := len(f.nodes)
	nodesize := oldsize
	if (oldsize >= f.maxnodesize) && (f.maxnodesize > 0) {
		return ErrMemory
	}
	if oldsize > (math.MaxInt32 >> 1) {
		nodesize = math.MaxInt32
	} else {
		nodesize = nodesize << 1
	}
	if f.maxnodeincrease > 0 && nodesize > (oldsize+f.maxnodeincrease) {
		nodesize = oldsize + f.maxnodeincrease
	}
	if (nodesize > f.maxnodesize) && (f.maxnodesize > 0) {
		nodesize = f.maxnodesize
	}
	if nodesize <= oldsize {
		return ErrMemory
	}
	f.log.Debug("start resize", zap.String("forest", f.name), zap.Int("nodes", oldsize))

	tmp := f.nodes
	f.nodes = make([]packedNode, nodesize)
	copy(f.nodes, tmp)
	for n := oldsize; n < nodesize; n++ {
		f.nodes[n].next = Handle(n + 1)
	}
	f.nodes[nodesize-1].next = f.freepos
	f.freepos = Handle(oldsize)
	f.freenum += nodesize - oldsize

	f.log.Debug("end resize", zap.String("forest", f.name), zap.Int("nodes", nodesize))
	for _, hook := range f.resizeHooks {
		hook(nodesize)
	}
	return nil
}

// Stats returns a textual report about the forest: arena usage, liveness and
// unique table statistics.
func (f *Forest) Stats() string {
	res := fmt.Sprintf("Forest:     %s\n", f.name)
	res += fmt.Sprintf("Levels:     %d\n", f.domain.Levels())
	res += fmt.Sprintf("Allocated:  %d\n", len(f.nodes))
	res += fmt.Sprintf("Produced:   %d\n", f.produced)
	r := (float64(f.freenum) / float64(len(f.nodes))) * 100
	res += fmt.Sprintf("Free:       %d  (%.3g %%)\n", f.freenum, r)
	res += fmt.Sprintf("Active:     %d\n", f.ActiveNodes())
	res += fmt.Sprintf("Recov.:     %d\n", f.recoverable)
	res += fmt.Sprintf("Pinned:     %d\n", f.pinned)
	res += fmt.Sprintf("Size:       %s\n", humanSize(len(f.nodes), unsafe.Sizeof(packedNode{})))
	res += "==============\n"
	res += fmt.Sprintf("# of GC:    %d\n", len(f.gcstat.history))
	res += fmt.Sprintf("Reclaimed:  %d\n", f.gcstat.reclaimed)
	res += "==============\n"
	res += fmt.Sprintf("Unique Access:  %d\n", f.uniqueAccess)
	res += fmt.Sprintf("Unique Hit:     %d\n", f.uniqueHit)
	res += fmt.Sprintf("Unique Miss:    %d", f.uniqueMiss)
	return res
}
