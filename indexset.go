// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

// ConvertToIndexSet is the operation converting a set, given as a boolean
// diagram, into an index-set diagram that numbers its elements. Elements are
// numbered from 0 in lexicographic order, the variable with the highest level
// being the most significant. The index of an element is the sum of the edge
// values along its path, and each node stores the number of elements below
// it.
type ConvertToIndexSet struct {
	unaryOp
	calls int
}

const indexSetName = "ConvertToIndexSet"

// NewConvertToIndexSet builds the conversion from forest arg, a boolean,
// multi-terminal and non-relational forest, to forest res, an integer,
// index-set and non-relational forest over the same domain. The operation uses
// ct to memoize its intermediate results. It returns a *ConfigError if the
// forests are not compatible with the operation.
func NewConvertToIndexSet(arg, res *Forest, ct *ComputeTable) (*ConvertToIndexSet, error) {
	if err := checkForests(indexSetName, arg, res, ct); err != nil {
		return nil, err
	}
	switch {
	case arg.rangeType != Boolean:
		return nil, configErrorf(arg.log, indexSetName, "argument forest %s has range %s", arg.name, arg.rangeType)
	case arg.labeling != MultiTerminal:
		return nil, configErrorf(arg.log, indexSetName, "argument forest %s has labeling %s", arg.name, arg.labeling)
	case arg.relational:
		return nil, configErrorf(arg.log, indexSetName, "argument forest %s is relational", arg.name)
	case res.rangeType != Integer:
		return nil, configErrorf(arg.log, indexSetName, "result forest %s has range %s", res.name, res.rangeType)
	case res.labeling != IndexSet:
		return nil, configErrorf(arg.log, indexSetName, "result forest %s has labeling %s", res.name, res.labeling)
	case res.relational:
		return nil, configErrorf(arg.log, indexSetName, "result forest %s is relational", res.name)
	}
	op := &ConvertToIndexSet{unaryOp: unaryOp{name: indexSetName, arg: arg, res: res, ct: ct}}
	op.id = ct.Register(op)
	ct.follow(arg)
	ct.follow(res)
	return op, nil
}

// Apply converts the set e and returns the resulting index-set diagram
// together with the number of elements in the set. The returned edge holds a
// reference on its node and should be released by the caller. Apply returns
// an error wrapping ErrOverflow when the set has more than math.MaxInt64
// elements.
func (op *ConvertToIndexSet) Apply(e *Edge) (*Edge, int64, error) {
	if err := op.arg.checkEdge(e); err != nil {
		return nil, 0, err
	}
	calls := op.calls
	h, card, err := op.compute(op.arg.domain.Levels(), e.node)
	if err != nil {
		op.arg.log.Warn("index set failed", zap.String("forest", op.res.name), zap.Error(err))
		return nil, 0, err
	}
	op.arg.log.Debug("index set computed",
		zap.String("forest", op.res.name),
		zap.Int32("root", int32(h)),
		zap.Int64("card", card),
		zap.Int("calls", op.calls-calls))
	return op.res.adoptEdge(h, 0), card, nil
}

// compute returns the index set of node a, seen from the given level, with a
// reference owned by the caller, and its cardinality.
func (op *ConvertToIndexSet) compute(level int, a Handle) (Handle, int64, error) {
	if a == False {
		return False, 0, nil
	}
	if level == 0 {
		return True, 1, nil
	}
	alevel := op.arg.Level(a)
	if alevel > level {
		op.arg.fatalf("node %d at level %d visited from level %d", a, alevel, level)
	}
	// Nodes are memoized when seen at their own level. A node below the
	// current level is expanded as a redundant node, except for True whose
	// image only depends on the level.
	memo := alevel == level || a == True
	var key Key
	if memo {
		key = NewKey(op.id, level, a)
		if r, ok := op.ct.Search(key); ok {
			return op.res.Link(r.Node), r.Value, nil
		}
	}
	op.calls++
	src := op.arg.NewUnpacked(level)
	if alevel < level {
		src.InitRedundant(a)
	} else {
		src.InitFromNode(a)
	}
	dst := op.res.NewUnpacked(level)
	var card, n int64
	var c Handle
	for i := 0; i < src.Size(); i++ {
		// equal neighbours have the same image
		if i > 0 && src.Child(i) == src.Child(i-1) {
			c = op.res.Link(c)
		} else {
			var err error
			if c, n, err = op.compute(level-1, src.Child(i)); err != nil {
				src.Release()
				dst.Release()
				return False, 0, err
			}
		}
		dst.Set(i, c)
		if c == False {
			dst.SetEdge(i, 0)
			continue
		}
		if n > math.MaxInt64-card {
			src.Release()
			dst.Release()
			return False, 0, fmt.Errorf("%w: more than %d elements below level %d", ErrOverflow, int64(math.MaxInt64), level)
		}
		dst.SetEdge(i, card)
		card += n
	}
	src.Release()
	dst.SetPayload(card)
	res := op.res.Reduce(dst)
	if memo {
		op.ct.Insert(key, Result{Node: res, Value: card})
	}
	return res, card, nil
}

// Calls returns the number of recursive calls that were not answered by the
// compute table (or by a terminal case) since the creation of op.
func (op *ConvertToIndexSet) Calls() int {
	return op.calls
}

// ShowEntry returns the description of an entry, such as
// [ConvertToIndexSet 42 (card 7)].
func (op *ConvertToIndexSet) ShowEntry(e *Entry) string {
	return fmt.Sprintf("[%s %d (card %d)]", op.name, e.key.operands[0], e.res.Value)
}
