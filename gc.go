// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"go.uber.org/zap"
)

// Status is the liveness of a node.
type Status uint8

const (
	// Dead nodes have been reclaimed and must never be dereferenced again.
	Dead Status = iota
	// Recoverable nodes have no references left but are still stored. They
	// become Active again if linked before the next call to Reclaim.
	Recoverable
	// Active nodes have a positive reference count.
	Active
)

var statusnames = [3]string{
	Dead:        "DEAD",
	Recoverable: "RECOVERABLE",
	Active:      "ACTIVE",
}

func (s Status) String() string {
	return statusnames[s]
}

// worst returns the least live of two statuses.
func worst(a, b Status) Status {
	if a < b {
		return a
	}
	return b
}

// gcstat stores status information about reclamation sweeps. We use a stack
// (slice) of objects to record the sequence of sweeps during a computation.
type gcstat struct {
	reclaimed int       // Total number of nodes reclaimed
	history   []gcpoint // Snaphot of GC stats at each occurrence
}

type gcpoint struct {
	nodes     int // Total number of allocated slots in the arena
	freenodes int // Number of free slots before the sweep
	reclaimed int // Number of nodes reclaimed by the sweep
}

// *************************************************************************

// Link adds a reference to node h and returns h so that calls can be easily
// chained together. A recoverable node becomes active again. Linking a
// terminal is a no-op.
func (f *Forest) Link(h Handle) Handle {
	if h <= 0 {
		return h
	}
	n := f.node(h)
	if n.refcou >= _MAXREFCOUNT {
		f.fatalf("too many references to node %d", h)
	}
	n.refcou++
	if n.status == Recoverable {
		n.status = Active
		f.recoverable--
	}
	return h
}

// Unlink removes a reference to node h. When the count reaches zero the node
// becomes recoverable; its children are only released when the node is
// reclaimed (see Reclaim). Unlinking a terminal is a no-op.
func (f *Forest) Unlink(h Handle) {
	f.release(h)
}

// release is Unlink but also reports if h became recoverable.
func (f *Forest) release(h Handle) bool {
	if h <= 0 {
		return false
	}
	n := f.node(h)
	if n.refcou <= 0 {
		f.fatalf("negative reference count on node %d", h)
	}
	n.refcou--
	if n.refcou == 0 {
		n.status = Recoverable
		f.recoverable++
		return true
	}
	return false
}

// Status returns the liveness of node h. Terminals are always Active. A dead
// node can only be queried while a compute table entry still names it (see
// CacheLink); asking for the status of a freed slot is an internal error.
func (f *Forest) Status(h Handle) Status {
	if h <= 0 {
		return Active
	}
	if int(h) >= len(f.nodes) {
		f.fatalf("handle %d is not an internal node", h)
	}
	n := &f.nodes[h]
	if n.isFree() {
		f.fatalf("status of freed node %d", h)
	}
	return n.status
}

// CacheLink records that a compute table entry names node h. It does not keep
// the node alive, but the slot of h will not be reused, even after h is
// reclaimed, until the matching call to CacheUnlink. This is what makes stale
// entries detectable.
func (f *Forest) CacheLink(h Handle) {
	if h <= 0 {
		return
	}
	if int(h) >= len(f.nodes) || f.nodes[h].isFree() {
		f.fatalf("cache reference on freed node %d", h)
	}
	f.nodes[h].cachecou++
}

// CacheUnlink releases a reference taken with CacheLink. The slot of a dead
// node goes back to the free list with its last cache reference.
func (f *Forest) CacheUnlink(h Handle) {
	if h <= 0 {
		return
	}
	if int(h) >= len(f.nodes) || f.nodes[h].cachecou <= 0 {
		f.fatalf("negative cache reference count on node %d", h)
	}
	n := &f.nodes[h]
	n.cachecou--
	if n.status == Dead && n.cachecou == 0 {
		f.pinned--
		f.freeslot(h)
	}
}

// *************************************************************************

// Reclaim sweeps the recoverable nodes of f. For each of them, we release its
// children (which may in turn become recoverable and be reclaimed in the same
// sweep), remove it from the unique table and mark it as Dead. Nodes linked
// again since they became recoverable are skipped. Reclaim returns the number
// of nodes reclaimed.
func (f *Forest) Reclaim() int {
	if f.recoverable == 0 {
		return 0
	}
	f.log.Debug("starting GC", zap.String("forest", f.name), zap.Int("recoverable", f.recoverable))
	point := gcpoint{
		nodes:     len(f.nodes),
		freenodes: f.freenum,
	}
	stack := make([]Handle, 0, f.recoverable)
	for k := len(f.nodes) - 1; k > 0; k-- {
		if f.nodes[k].status == Recoverable {
			stack = append(stack, Handle(k))
		}
	}
	count := 0
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &f.nodes[h]
		if n.status != Recoverable || n.refcou > 0 {
			continue
		}
		f.delnode(h)
		for _, c := range distinct(n.down) {
			if f.release(c) {
				stack = append(stack, c)
			}
		}
		f.recoverable--
		f.live--
		count++
		if n.cachecou == 0 {
			f.freeslot(h)
			continue
		}
		cachecou := n.cachecou
		f.nodes[h] = packedNode{status: Dead, cachecou: cachecou}
		f.pinned++
	}
	point.reclaimed = count
	f.gcstat.history = append(f.gcstat.history, point)
	f.gcstat.reclaimed += count
	f.metrics.reclaimed.Add(float64(count))
	f.metrics.active.Set(float64(f.ActiveNodes()))
	if _DEBUG {
		f.audit()
	}
	if _LOGLEVEL > 0 {
		f.logTable()
	}
	f.log.Debug("end GC",
		zap.String("forest", f.name),
		zap.Int("reclaimed", count),
		zap.Int("freenum", f.freenum),
		zap.Int("pinned", f.pinned))
	return count
}

// distinct returns the non-terminal handles of down, without repetition.
func distinct(down []Handle) []Handle {
	res := make([]Handle, 0, len(down))
	for i, c := range down {
		if c > 0 && !contains(down[:i], c) {
			res = append(res, c)
		}
	}
	return res
}

func contains(hs []Handle, h Handle) bool {
	for _, x := range hs {
		if x == h {
			return true
		}
	}
	return false
}

// audit checks the consistency of the arena with the unique tables and the
// counters of f. It is only called in debug builds.
func (f *Forest) audit() {
	live, recoverable, pinned := 0, 0, 0
	for k := 1; k < len(f.nodes); k++ {
		n := &f.nodes[k]
		switch {
		case n.status == Dead && n.cachecou > 0:
			pinned++
		case n.status == Recoverable:
			recoverable++
			fallthrough
		case n.status == Active:
			live++
			for _, c := range n.down {
				if c > 0 && f.nodes[c].status == Dead {
					f.fatalf("node %d has reclaimed child %d", k, c)
				}
			}
		}
	}
	entries := 0
	for _, m := range f.unique {
		entries += len(m)
	}
	if live != f.live || recoverable != f.recoverable || pinned != f.pinned || entries != f.live {
		f.fatalf("corrupted counters: live %d/%d, recoverable %d/%d, pinned %d/%d, unique %d",
			live, f.live, recoverable, f.recoverable, pinned, f.pinned, entries)
	}
}
