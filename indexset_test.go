// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type indexSetFixture struct {
	set, index *Forest
	ct         *ComputeTable
	op         *ConvertToIndexSet
}

func newIndexSetFixture(t *testing.T, sizes ...int) *indexSetFixture {
	t.Helper()
	set := newBoolForest(t, sizes...)
	index := newIndexForest(t, set.Domain())
	ct := NewComputeTable(Cachesize(1000))
	op, err := NewConvertToIndexSet(set, index, ct)
	require.NoError(t, err)
	return &indexSetFixture{set: set, index: index, ct: ct, op: op}
}

func (fx *indexSetFixture) apply(t *testing.T, minterms [][]int) (*Edge, *Edge, int64) {
	t.Helper()
	e, err := fx.set.FromMinterms(minterms)
	require.NoError(t, err)
	res, card, err := fx.op.Apply(e)
	require.NoError(t, err)
	return e, res, card
}

// indices returns the list of assignments of e with their index.
func indices(t *testing.T, f *Forest, e *Edge) map[string]int64 {
	t.Helper()
	res := map[string]int64{}
	require.NoError(t, f.Enumerate(e, func(a []int, v int64) error {
		res[fmt.Sprint(a)] = v
		return nil
	}))
	return res
}

// One variable of size 2, the set {x1 = 1}.
func TestIndexSetSingleVariable(t *testing.T) {
	fx := newIndexSetFixture(t, 2)
	_, res, card := fx.apply(t, [][]int{{1}})
	assert.Equal(t, int64(1), card)
	h := res.Node()
	require.Equal(t, 1, fx.index.Level(h))
	assert.Equal(t, False, fx.index.Child(h, 0))
	assert.Equal(t, int64(0), fx.index.EdgeValue(h, 0))
	assert.NotEqual(t, False, fx.index.Child(h, 1))
	assert.Equal(t, int64(0), fx.index.EdgeValue(h, 1))
	assert.Equal(t, int64(1), fx.index.Payload(h))
}

// Two variables of size 2, the assignments where at least one is 1.
func TestIndexSetAtLeastOne(t *testing.T) {
	fx := newIndexSetFixture(t, 2, 2)
	_, res, card := fx.apply(t, [][]int{{1, DontCare}, {DontCare, 1}})
	assert.Equal(t, int64(3), card)
	expected := map[string]int64{
		"[0 1]": 0,
		"[1 0]": 1,
		"[1 1]": 2,
	}
	if diff := cmp.Diff(expected, indices(t, fx.index, res)); diff != "" {
		t.Errorf("ConvertToIndexSet mismatch (-want +got):\n%s", diff)
	}
	root := res.Node()
	assert.Equal(t, int64(3), fx.index.Payload(root))
	assert.Equal(t, int64(0), fx.index.EdgeValue(root, 0))
	assert.Equal(t, int64(1), fx.index.EdgeValue(root, 1))
	v, ok := fx.index.Evaluate(res, []int{1, 1})
	require.True(t, ok)
	assert.Equal(t, int64(2), v)
	_, ok = fx.index.Evaluate(res, []int{0, 0})
	assert.False(t, ok)
}

// The empty set gives False without building any node.
func TestIndexSetEmpty(t *testing.T) {
	fx := newIndexSetFixture(t, 2, 3)
	_, res, card := fx.apply(t, nil)
	assert.Equal(t, False, res.Node())
	assert.Equal(t, int64(0), card)
	assert.Equal(t, 0, fx.index.ActiveNodes())
	assert.Equal(t, 0, fx.index.produced)
	assert.Equal(t, 0, fx.op.Calls())
}

func TestIndexSetUniverse(t *testing.T) {
	fx := newIndexSetFixture(t, 3, 2, 4)
	e := fx.set.Universe()
	res, card, err := fx.op.Apply(e)
	require.NoError(t, err)
	assert.Equal(t, int64(24), card)
	// the index of an assignment is its rank in lexicographic order
	rank := int64(0)
	require.NoError(t, fx.index.Enumerate(res, func(a []int, v int64) error {
		assert.Equal(t, rank, v, "index of %v", a)
		rank++
		return nil
	}))
	assert.Equal(t, int64(24), rank)
	// one node by level
	assert.Equal(t, 3, fx.index.NodeCount(res))
}

func TestIndexSetLexicographic(t *testing.T) {
	minterms := [][]int{
		{2, 0, 1},
		{0, 1, DontCare},
		{1, DontCare, 3},
		{2, 1, 0},
		{0, 0, 2},
	}
	fx := newIndexSetFixture(t, 4, 2, 3)
	e, res, card := fx.apply(t, minterms)
	assert.Equal(t, fx.set.Cardinality(e).Int64(), card)
	assert.Equal(t, fx.index.Cardinality(res).Int64(), card)

	var prev []int
	next := int64(0)
	require.NoError(t, fx.set.Enumerate(e, func(a []int, _ int64) error {
		if prev != nil {
			assert.Less(t, fmt.Sprint(prev), fmt.Sprint(a))
		}
		prev = append(prev[:0], a...)
		v, ok := fx.index.Evaluate(res, a)
		require.True(t, ok, "assignment %v", a)
		assert.Equal(t, next, v, "index of %v", a)
		next++
		return nil
	}))
	assert.Equal(t, card, next)
}

func TestIndexSetMemoization(t *testing.T) {
	minterms := [][]int{{0, 1, 2}, {1, 1, 2}, {2, 1, 2}, {0, 0, 1}, {2, 0, 1}}
	fx := newIndexSetFixture(t, 3, 3, 3)
	e, res1, card1 := fx.apply(t, minterms)
	calls := fx.op.Calls()
	// sub-diagrams shared by the three values of the top variable are
	// computed only once
	assert.Less(t, calls, 1+3+9)

	res2, card2, err := fx.op.Apply(e)
	require.NoError(t, err)
	assert.Equal(t, res1.Node(), res2.Node())
	assert.Equal(t, card1, card2)
	assert.Equal(t, calls, fx.op.Calls(), "second call must be answered by the compute table")
	assert.Greater(t, fx.ct.Stats().Hits, 0)
}

func TestIndexSetRecoverableResult(t *testing.T) {
	fx := newIndexSetFixture(t, 2, 2)
	e, res, card := fx.apply(t, [][]int{{1, 0}, {0, 1}})
	root := res.Node()
	res.Release()
	require.Equal(t, Recoverable, fx.index.Status(root))

	calls := fx.op.Calls()
	res2, card2, err := fx.op.Apply(e)
	require.NoError(t, err)
	assert.Equal(t, root, res2.Node())
	assert.Equal(t, card, card2)
	assert.Equal(t, calls, fx.op.Calls())
	assert.Equal(t, Active, fx.index.Status(root))
}

func TestIndexSetReferenceBalance(t *testing.T) {
	minterms := [][]int{{0, 1, 2}, {1, DontCare, 2}, {2, 1, DontCare}, {0, 0, 1}}
	fx := newIndexSetFixture(t, 3, 3, 3)
	e, res, _ := fx.apply(t, minterms)
	other, err := fx.set.FromMinterms([][]int{{1, 1, 1}})
	require.NoError(t, err)
	res2, _, err := fx.op.Apply(other)
	require.NoError(t, err)

	// everything reachable from the edges we hold is still active
	e.Release()
	res.Release()
	fx.set.Reclaim()
	fx.index.Reclaim()
	for _, pair := range []struct {
		f *Forest
		e *Edge
	}{{fx.set, other}, {fx.index, res2}} {
		require.NoError(t, pair.f.Allnodes(func(h Handle, _ int, _ []Handle) error {
			assert.Equal(t, Active, pair.f.Status(h))
			return nil
		}, pair.e))
		assert.Equal(t, pair.f.NodeCount(pair.e), pair.f.ActiveNodes())
	}

	// and nothing is leaked once all the edges are released
	other.Release()
	res2.Release()
	fx.set.Reclaim()
	fx.index.Reclaim()
	for _, f := range []*Forest{fx.set, fx.index} {
		assert.Equal(t, 0, f.ActiveNodes(), f.Name())
		assert.Equal(t, 0, f.RecoverableNodes(), f.Name())
	}
	assert.Greater(t, fx.set.PinnedNodes()+fx.index.PinnedNodes(), 0)
	fx.ct.RemoveStale()
	assert.Equal(t, 0, fx.ct.Len())
	assert.Equal(t, 0, fx.set.PinnedNodes())
	assert.Equal(t, 0, fx.index.PinnedNodes())
}

func TestIndexSetStaleEntry(t *testing.T) {
	fx := newIndexSetFixture(t, 2, 2)
	e, res, card := fx.apply(t, [][]int{{1, 0}, {0, 1}})
	root := e.Node()
	k := NewKey(fx.op.id, 2, root)
	entry := fmt.Sprintf("[ConvertToIndexSet %d (card %d)]", root, card)
	assert.Contains(t, fx.ct.Entries(), entry)

	e.Release()
	res.Release()
	fx.set.Reclaim()
	fx.index.Reclaim()
	require.Equal(t, Dead, fx.set.Status(root))

	_, ok := fx.ct.Search(k)
	assert.False(t, ok)
	assert.NotContains(t, fx.ct.Entries(), entry)
	assert.Equal(t, 1, fx.ct.Stats().Stale)
}

func TestIndexSetConfigErrors(t *testing.T) {
	d, err := NewDomain(2, 2)
	require.NoError(t, err)
	other, err := NewDomain(2, 2)
	require.NoError(t, err)
	mk := func(d *Domain, options ...func(*configs)) *Forest {
		f, err := NewForest(d, options...)
		require.NoError(t, err)
		return f
	}
	set := mk(d)
	index := mk(d, Range(Integer), Labeling(IndexSet))
	ct := NewComputeTable()

	var configTests = []struct {
		name     string
		arg, res *Forest
	}{
		{"nil forest", nil, index},
		{"different domains", set, mk(other, Range(Integer), Labeling(IndexSet))},
		{"integer argument", mk(d, Range(Integer)), index},
		{"index-set argument", mk(d, Range(Integer), Labeling(IndexSet)), index},
		{"relational argument", mk(d, Relational(true)), index},
		{"boolean result", set, mk(d)},
		{"multi-terminal result", set, mk(d, Range(Integer))},
		{"relational result", set, mk(d, Range(Integer), Labeling(IndexSet), Relational(true))},
	}
	for _, tt := range configTests {
		op, err := NewConvertToIndexSet(tt.arg, tt.res, ct)
		assert.Nil(t, op, tt.name)
		require.ErrorIs(t, err, ErrConfig, tt.name)
		var ce *ConfigError
		require.ErrorAs(t, err, &ce, tt.name)
		assert.Equal(t, "ConvertToIndexSet", ce.Op, tt.name)
	}

	// edges of another forest are rejected by Apply
	op, err := NewConvertToIndexSet(set, index, ct)
	require.NoError(t, err)
	assert.Equal(t, "ConvertToIndexSet", op.Name())
	_, _, err = op.Apply(index.Empty())
	require.ErrorIs(t, err, ErrForest)
	e := set.Universe()
	e.Release()
	_, _, err = op.Apply(e)
	require.ErrorIs(t, err, ErrReleased)
}

// uniform returns the sizes of n variables with the same size.
func uniform(n, size int) []int {
	res := make([]int, n)
	for k := range res {
		res[k] = size
	}
	return res
}

func TestIndexSetSkippedLevels(t *testing.T) {
	const n = 40
	fx := newIndexSetFixture(t, uniform(n, 2)...)

	// True seen from the top level: one node and one call by level
	res, card, err := fx.op.Apply(fx.set.Universe())
	require.NoError(t, err)
	assert.Equal(t, int64(1)<<n, card)
	assert.Equal(t, n, fx.op.Calls())
	assert.Equal(t, n, fx.index.NodeCount(res))
	v, ok := fx.index.Evaluate(res, uniform(n, 1))
	require.True(t, ok)
	assert.Equal(t, int64(1)<<n-1, v)

	res2, card2, err := fx.op.Apply(fx.set.Universe())
	require.NoError(t, err)
	assert.Equal(t, res.Node(), res2.Node())
	assert.Equal(t, card, card2)
	assert.Equal(t, n, fx.op.Calls())

	// a node at level 1 below n-1 skipped levels
	row := make([]int, n)
	for k := range row {
		row[k] = DontCare
	}
	row[n-1] = 1
	e, err := fx.set.FromMinterms([][]int{row})
	require.NoError(t, err)
	require.Equal(t, 1, fx.set.Level(e.Node()))
	calls := fx.op.Calls()
	res3, card3, err := fx.op.Apply(e)
	require.NoError(t, err)
	assert.Equal(t, int64(1)<<(n-1), card3)
	assert.Equal(t, n, fx.op.Calls()-calls)
	v, ok = fx.index.Evaluate(res3, append(uniform(n-1, 1), 1))
	require.True(t, ok)
	assert.Equal(t, int64(1)<<(n-1)-1, v)
}

func TestIndexSetOverflow(t *testing.T) {
	// 2^64 elements, all the levels are skipped
	fx := newIndexSetFixture(t, uniform(64, 2)...)
	res, card, err := fx.op.Apply(fx.set.Universe())
	require.ErrorIs(t, err, ErrOverflow)
	assert.Nil(t, res)
	assert.Equal(t, int64(0), card)
	assert.Equal(t, 0, fx.index.ActiveNodes())

	// 2^63 elements, with one node by level: variables of size 3 where value
	// 2 is excluded
	const n = 63
	fx = newIndexSetFixture(t, uniform(n, 3)...)
	h := True
	for level := 1; level <= n; level++ {
		u := fx.set.NewUnpacked(level)
		u.Set(0, fx.set.Link(h))
		u.Set(1, fx.set.Link(h))
		fx.set.Unlink(h)
		h = fx.set.Reduce(u)
	}
	e := fx.set.adoptEdge(h, 0)
	require.Equal(t, n, fx.set.NodeCount(e))
	require.Equal(t, "9223372036854775808", fx.set.Cardinality(e).String())
	res, card, err = fx.op.Apply(e)
	require.ErrorIs(t, err, ErrOverflow)
	assert.Nil(t, res)
	assert.Equal(t, int64(0), card)
	assert.Equal(t, 0, fx.index.ActiveNodes())
}
