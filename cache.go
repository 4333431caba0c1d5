// Copyright 2021. Silvano DAL ZILIO.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package mdd

import (
	"fmt"
	"io"

	"go.uber.org/zap"
)

// OpID identifies an operation registered in a compute table.
type OpID int

// Key is the key of a compute table entry: an operation, a level and a list of
// operand handles. Keys are immutable values; every recursive call builds its
// own key.
type Key struct {
	op       OpID
	level    int
	operands []Handle
}

// NewKey returns the key for operation op at the given level. The operands
// are copied.
func NewKey(op OpID, level int, operands ...Handle) Key {
	ops := make([]Handle, len(operands))
	copy(ops, operands)
	return Key{op: op, level: level, operands: ops}
}

// Op returns the operation of k.
func (k Key) Op() OpID {
	return k.op
}

// Level returns the level of k.
func (k Key) Level() int {
	return k.level
}

// NumOperands returns the number of operands of k.
func (k Key) NumOperands() int {
	return len(k.operands)
}

// Operand returns the i'th operand of k.
func (k Key) Operand(i int) Handle {
	return k.operands[i]
}

func (k Key) equal(o Key) bool {
	if k.op != o.op || k.level != o.level || len(k.operands) != len(o.operands) {
		return false
	}
	for i := range k.operands {
		if k.operands[i] != o.operands[i] {
			return false
		}
	}
	return true
}

// Result is the value associated with a key: a node (in the result forest of
// the operation) and a scalar annotation, such as a cardinality.
type Result struct {
	Node  Handle
	Value int64
}

// Entry is a unit of information stored in a compute table.
type Entry struct {
	key Key
	res Result
	op  Operation
}

// Key returns the key of e.
func (e *Entry) Key() Key {
	return e.key
}

// Result returns the result stored in e.
func (e *Entry) Result() Result {
	return e.res
}

// TableStats stores status information about the usage of a compute table.
type TableStats struct {
	Hits      int // entries found
	Misses    int // entries not found (including stale ones)
	Stale     int // entries found but naming a reclaimed node
	Inserts   int // entries added
	Evictions int // entries discarded on a collision
}

func (c TableStats) String() string {
	res := fmt.Sprintf("Operator Hits:  %d\n", c.Hits)
	res += fmt.Sprintf("Operator Miss:  %d\n", c.Misses)
	res += fmt.Sprintf("Stale:          %d\n", c.Stale)
	res += fmt.Sprintf("Inserts:        %d\n", c.Inserts)
	res += fmt.Sprintf("Evictions:      %d", c.Evictions)
	return res
}

// ************************************************************

// ComputeTable is a memoization table shared by operations of possibly
// different kinds. It is a direct-mapped table: an entry is discarded when a
// new entry with the same hash is inserted.
//
// Entries name nodes, so the table has to cooperate with the garbage
// collection of forests. This is delegated to the operation owning each entry
// (see interface Operation): on insertion, the operation pins the nodes of the
// entry (Forest.CacheLink) and unpins them when the entry is discarded. An
// entry naming a Dead node is stale; it is discarded when found by Search. An
// entry naming a Recoverable node is still a valid hit.
type ComputeTable struct {
	table      []*Entry
	ops        []Operation
	entries    int
	cacheratio int
	followed   map[*Forest]bool
	stats      TableStats
	metrics    *tableMetrics
	name       string
	log        *zap.Logger
}

// NewComputeTable returns an empty compute table. It accepts the options
// Cachesize, Cacheratio, Name, Logger and Registerer.
func NewComputeTable(options ...func(*configs)) *ComputeTable {
	c := makeconfigs(options...)
	if c.name == "" {
		c.name = "compute"
	}
	if c.cachesize < 1 {
		c.cachesize = _DEFAULTCACHESIZE
	}
	ct := &ComputeTable{
		table:      make([]*Entry, primeGte(c.cachesize)),
		cacheratio: c.cacheratio,
		followed:   make(map[*Forest]bool),
		metrics:    newTableMetrics(c),
		name:       c.name,
		log:        c.log,
	}
	return ct
}

// Register adds an operation to the table and returns its identity, to be used
// in the keys of its entries.
func (ct *ComputeTable) Register(op Operation) OpID {
	ct.ops = append(ct.ops, op)
	return OpID(len(ct.ops) - 1)
}

// follow makes the table grow with the arena of f, if a cache ratio is set.
func (ct *ComputeTable) follow(f *Forest) {
	if ct.cacheratio <= 0 || ct.followed[f] {
		return
	}
	ct.followed[f] = true
	f.resizeHooks = append(f.resizeHooks, func(size int) {
		if s := size * ct.cacheratio / 100; s > len(ct.table) {
			ct.resize(s)
		}
	})
}

// Search looks for an entry with key k. A stale entry, one naming a Dead node,
// is discarded and reported as a miss.
func (ct *ComputeTable) Search(k Key) (Result, bool) {
	i := k.hash(len(ct.table))
	e := ct.table[i]
	if e == nil || !e.key.equal(k) {
		ct.stats.Misses++
		ct.metrics.lookups.WithLabelValues("miss").Inc()
		return Result{}, false
	}
	if e.op.EntryStatus(e) == Dead {
		ct.discard(i)
		ct.stats.Stale++
		ct.stats.Misses++
		ct.metrics.lookups.WithLabelValues("stale").Inc()
		return Result{}, false
	}
	ct.stats.Hits++
	ct.metrics.lookups.WithLabelValues("hit").Inc()
	return e.res, true
}

// Insert adds the entry k -> r to the table. An entry with the same hash is
// discarded.
//
// The operation of k takes a cache reference (Forest.CacheLink) on every node
// of the entry before it is stored, not a counted reference (Forest.Link).
// Entries therefore never keep their nodes alive: a node only named by the
// table becomes recoverable, can be reclaimed, and the entry is then stale.
// The cache reference only delays the reuse of the slot of a reclaimed node
// until the entry is discarded, so that staleness stays observable.
func (ct *ComputeTable) Insert(k Key, r Result) {
	if int(k.op) < 0 || int(k.op) >= len(ct.ops) {
		panic(&InternalError{Forest: ct.name, Msg: fmt.Sprintf("unknown operation %d", k.op)})
	}
	e := &Entry{key: k, res: r, op: ct.ops[k.op]}
	e.op.AcquireEntry(e)
	i := k.hash(len(ct.table))
	if ct.table[i] != nil {
		ct.discard(i)
		ct.stats.Evictions++
		ct.metrics.evictions.Inc()
	}
	ct.table[i] = e
	ct.entries++
	ct.stats.Inserts++
	ct.metrics.entries.Set(float64(ct.entries))
}

// discard removes the entry at index i and releases its cache references.
func (ct *ComputeTable) discard(i int) {
	e := ct.table[i]
	ct.table[i] = nil
	ct.entries--
	e.op.DiscardEntry(e)
	ct.metrics.entries.Set(float64(ct.entries))
}

// RemoveStale discards all the entries naming a Dead node and returns their
// number. Calling it after Forest.Reclaim makes the slots of reclaimed nodes
// available again.
func (ct *ComputeTable) RemoveStale() int {
	count := 0
	for i, e := range ct.table {
		if e != nil && e.op.EntryStatus(e) == Dead {
			ct.discard(i)
			count++
		}
	}
	ct.stats.Stale += count
	ct.log.Debug("removed stale entries", zap.String("table", ct.name), zap.Int("count", count))
	return count
}

// Clear discards all the entries of the table.
func (ct *ComputeTable) Clear() {
	for i, e := range ct.table {
		if e != nil {
			ct.discard(i)
		}
	}
	ct.log.Debug("cleared compute table", zap.String("table", ct.name))
}

func (ct *ComputeTable) resize(size int) {
	ct.Clear()
	ct.table = make([]*Entry, primeGte(size))
	ct.log.Debug("resized compute table", zap.String("table", ct.name), zap.Int("size", len(ct.table)))
}

// Len returns the number of entries in the table.
func (ct *ComputeTable) Len() int {
	return ct.entries
}

// Size returns the number of slots of the table.
func (ct *ComputeTable) Size() int {
	return len(ct.table)
}

// Stats returns the usage statistics of the table.
func (ct *ComputeTable) Stats() TableStats {
	return ct.stats
}

// Entries returns the diagnostic text of all the entries of the table, in
// slot order. See Operation.ShowEntry.
func (ct *ComputeTable) Entries() []string {
	res := make([]string, 0, ct.entries)
	for _, e := range ct.table {
		if e != nil {
			res = append(res, e.op.ShowEntry(e))
		}
	}
	return res
}

// Show writes the diagnostic text of all the entries of the table on w, one
// entry per line.
func (ct *ComputeTable) Show(w io.Writer) error {
	for _, s := range ct.Entries() {
		if _, err := fmt.Fprintln(w, s); err != nil {
			return err
		}
	}
	return nil
}
