// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

/*
Package mdd defines canonical, reference-counted Multi-valued Decision
Diagrams (MDD), a data structure used to compactly represent very large sets
of assignments over a fixed list of variables with finite domains, together
with a memoization table for the recursive operations that build them.

Basics

Variables are declared once in a Domain (using the function NewDomain) and
each variable is attached to a level in the interval [1..Levels]; level 0 is
the level of terminals. Diagrams are stored in a Forest, built over a domain
with a fixed configuration: the range of terminals (Boolean or Integer), the
labeling of edges (MultiTerminal or IndexSet) and a relational flag.

Nodes are identified by a Handle, with the convention that 0 is the constant
False in every forest, and that negative handles are terminals (True is -1).
Nodes are hash-consed: two nodes at the same level with the same children,
edge values and payload always have the same handle, so that equality of sets
is equality of handles. User code holds diagrams through an Edge, that keeps
its root alive until Release is called.

Building nodes

New nodes are built using an Unpacked node (see Forest.NewUnpacked), a mutable
array of children that is turned into a canonical handle by Forest.Reduce.
Each recursive call must use its own Unpacked node.

Memory management

Every node has a reference count. A node with no references left becomes
Recoverable: it is still stored and can be used again, for instance after a
hit in a compute table. Recoverable nodes are only reclaimed (and become
Dead) during a call to Forest.Reclaim, which is also triggered when the node
arena is full. Entries of a ComputeTable that name a Dead node are stale;
they are removed when found by ComputeTable.Search, or in bulk with
ComputeTable.RemoveStale.

Operations

An Operation is the contract between a compute table and a recursive
algorithm over diagrams. We provide the operation ConvertToIndexSet
that numbers the elements of a set, given as a boolean diagram, and returns an
index-set diagram together with the cardinality of the set.

Use of build tags

To get access to extra checks on the consistency of forests (after each
reclamation and for each hit in the unique tables), as well as the dump of the
node arena in the logs, you can compile your executable with the build tag
`debug`.
*/
package mdd
