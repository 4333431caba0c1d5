// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

// Operation is the contract between a compute table and the operations
// storing entries in it. Each concrete operation knows the forests of its
// operands and results, and therefore how to pin, check, release and display
// its own entries.
type Operation interface {
	// Name returns the name of the operation, used in diagnostics.
	Name() string

	// EntryStatus returns the least live status of the nodes named by e. An
	// entry is stale if it is Dead.
	EntryStatus(e *Entry) Status

	// AcquireEntry takes a cache reference (Forest.CacheLink) on every node
	// named by e. It is called by ComputeTable.Insert.
	AcquireEntry(e *Entry)

	// DiscardEntry releases the references taken by AcquireEntry. It is
	// called for every entry removed from a compute table.
	DiscardEntry(e *Entry)

	// ShowEntry returns a textual description of e, with format
	// [<opname> <operands...> (<label> <value>)].
	ShowEntry(e *Entry) string
}

// unaryOp holds what is shared by operations with one operand forest and one
// result forest.
type unaryOp struct {
	name string
	id   OpID
	arg  *Forest
	res  *Forest
	ct   *ComputeTable
}

func (op *unaryOp) Name() string {
	return op.name
}

// EntryStatus checks the operands of the key in the argument forest and the
// result node in the result forest.
func (op *unaryOp) EntryStatus(e *Entry) Status {
	s := op.res.Status(e.res.Node)
	for _, h := range e.key.operands {
		s = worst(s, op.arg.Status(h))
	}
	return s
}

func (op *unaryOp) AcquireEntry(e *Entry) {
	for _, h := range e.key.operands {
		op.arg.CacheLink(h)
	}
	op.res.CacheLink(e.res.Node)
}

func (op *unaryOp) DiscardEntry(e *Entry) {
	for _, h := range e.key.operands {
		op.arg.CacheUnlink(h)
	}
	op.res.CacheUnlink(e.res.Node)
}

// checkForests validates the part of the configuration shared by unary
// operations: both forests exist and are over the same domain.
func checkForests(name string, arg, res *Forest, ct *ComputeTable) error {
	if arg == nil || res == nil || ct == nil {
		return &ConfigError{Op: name, Reason: "nil forest or compute table"}
	}
	if arg.domain != res.domain {
		return configErrorf(arg.log, name, "forests %s and %s have different domains", arg.name, res.name)
	}
	return nil
}
