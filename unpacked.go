// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

// Unpacked is a mutable node under construction: one child for every value of
// the variable at its level, with an optional offset on each child (index-set
// forests only) and a payload. An Unpacked owns one reference for each of its
// non-terminal children. It is consumed by Forest.Reduce, or discarded with
// Release.
//
// Each recursive call of an operation must use its own builder; builders are
// never shared or reused.
type Unpacked struct {
	forest   *Forest
	level    int
	down     []Handle
	edges    []int64
	payload  int64
	consumed bool
}

// NewUnpacked returns a builder for a node at the given level, with all its
// children set to False.
func (f *Forest) NewUnpacked(level int) *Unpacked {
	if level < 1 || level > f.domain.Levels() {
		f.fatalf("no variable at level %d", level)
	}
	u := &Unpacked{
		forest: f,
		level:  level,
		down:   make([]Handle, f.domain.Size(level)),
	}
	if f.labeling == IndexSet {
		u.edges = make([]int64, len(u.down))
	}
	return u
}

// InitFromNode sets the children (and edge values) of u to the ones of node h,
// which must be at the same level as u. The previous children of u are
// released.
func (u *Unpacked) InitFromNode(h Handle) {
	u.check()
	f := u.forest
	n := f.node(h)
	if int(n.level) != u.level {
		f.fatalf("InitFromNode of node %d at level %d in builder at level %d", h, n.level, u.level)
	}
	u.clear()
	copy(u.down, n.down)
	if u.edges != nil {
		copy(u.edges, n.edges)
	}
	for _, c := range u.down {
		f.Link(c)
	}
}

// InitRedundant sets every child of u to h, with offset 0. Node h must be
// below the level of u: the variable of u is a "don't care" for h. The
// previous children of u are released.
func (u *Unpacked) InitRedundant(h Handle) {
	u.check()
	f := u.forest
	if f.Level(h) >= u.level {
		f.fatalf("InitRedundant of node %d at level %d in builder at level %d", h, f.Level(h), u.level)
	}
	u.clear()
	for i := range u.down {
		u.down[i] = f.Link(h)
	}
}

// clear releases the children of u and resets its edge values.
func (u *Unpacked) clear() {
	for i, c := range u.down {
		u.forest.release(c)
		u.down[i] = False
	}
	for i := range u.edges {
		u.edges[i] = 0
	}
}

// Set replaces the i'th child of u with h. The builder takes ownership of one
// reference of h, and the reference of the previous child is released.
func (u *Unpacked) Set(i int, h Handle) {
	u.check()
	old := u.down[i]
	u.down[i] = h
	u.forest.release(old)
}

// SetEdge sets the offset attached to the i'th child of u. It is an error to
// use it on a builder of a multi-terminal forest.
func (u *Unpacked) SetEdge(i int, v int64) {
	u.check()
	if u.edges == nil {
		u.forest.fatalf("edge value on a %s forest", u.forest.labeling)
	}
	u.edges[i] = v
}

// SetPayload sets the extra value stored with the node. The payload is part
// of the identity of the node: builders that only differ by their payload
// give different nodes.
func (u *Unpacked) SetPayload(v int64) {
	u.check()
	u.payload = v
}

// Release drops all the references held by u, which must not be used
// afterwards. It is a no-op on a builder already consumed.
func (u *Unpacked) Release() {
	if u.consumed {
		return
	}
	for _, c := range u.down {
		u.forest.release(c)
	}
	u.consumed = true
	u.down, u.edges = nil, nil
}

// Level returns the level of u.
func (u *Unpacked) Level() int {
	return u.level
}

// Size returns the number of children of u.
func (u *Unpacked) Size() int {
	return len(u.down)
}

// Child returns the i'th child of u.
func (u *Unpacked) Child(i int) Handle {
	return u.down[i]
}

// Edge returns the offset of the i'th child of u (0 in multi-terminal
// forests).
func (u *Unpacked) Edge(i int) int64 {
	if u.edges == nil {
		return 0
	}
	return u.edges[i]
}

// Payload returns the payload of u.
func (u *Unpacked) Payload() int64 {
	return u.payload
}

func (u *Unpacked) check() {
	if u.consumed {
		u.forest.fatalf("use of a builder after Reduce or Release")
	}
}

func (u *Unpacked) allFalse() bool {
	for _, c := range u.down {
		if c != False {
			return false
		}
	}
	return true
}

func (u *Unpacked) redundant() bool {
	for i := 1; i < len(u.down); i++ {
		if u.down[i] != u.down[0] || u.Edge(i) != u.Edge(0) {
			return false
		}
	}
	return true
}
