// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// RangeType is the type of the values stored on the terminal nodes of a
// forest.
type RangeType int

const (
	Boolean RangeType = iota // terminals are False and True
	Integer                  // terminals are non-negative integers
)

func (r RangeType) String() string {
	switch r {
	case Boolean:
		return "BOOLEAN"
	case Integer:
		return "INTEGER"
	}
	return fmt.Sprintf("RangeType(%d)", int(r))
}

// EdgeLabeling selects how values are attached to the paths of a diagram.
type EdgeLabeling int

const (
	// MultiTerminal diagrams have plain edges; the value of a path is its
	// terminal.
	MultiTerminal EdgeLabeling = iota
	// IndexSet diagrams carry an integer offset on each edge; the value of a
	// path is the sum of its offsets and each node stores its cardinality.
	IndexSet
)

func (l EdgeLabeling) String() string {
	switch l {
	case MultiTerminal:
		return "MULTI_TERMINAL"
	case IndexSet:
		return "INDEX_SET"
	}
	return fmt.Sprintf("EdgeLabeling(%d)", int(l))
}

// configs is used to store the values of the different parameters of forests
// and compute tables.
type configs struct {
	name            string                // used in logs and as a metrics label
	rangeType       RangeType             // range of the terminals
	labeling        EdgeLabeling          // edge labeling
	relational      bool                  // relational forest (flag only)
	nodesize        int                   // initial number of slots in the node arena
	maxnodesize     int                   // Maximum total number of nodes (0 if no limit)
	maxnodeincrease int                   // Maximum number of nodes that can be added to the table at each resize (0 if no limit)
	minfreenodes    int                   // Minimum number of nodes (%) that should be left after a sweep before triggering a resize
	cachesize       int                   // initial compute table size
	cacheratio      int                   // ratio (%) between compute table and node arena, 0 if constant
	log             *zap.Logger           // never nil after makeconfigs
	registerer      prometheus.Registerer // nil if metrics are not exported
}

func makeconfigs(options ...func(*configs)) *configs {
	c := &configs{
		nodesize:        _DEFAULTNODESIZE,
		maxnodeincrease: _DEFAULTMAXNODEINC,
		minfreenodes:    _MINFREENODES,
		cachesize:       _DEFAULTCACHESIZE,
	}
	for _, f := range options {
		f(c)
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	return c
}

// Name is a configuration option (function). It sets the name of a forest or
// compute table. The name appears in log messages and is used as the value of
// the "forest" (or "table") label of exported metrics.
func Name(name string) func(*configs) {
	return func(c *configs) {
		c.name = name
	}
}

// Range is a configuration option (function) selecting the range type of a
// forest. The default is Boolean.
func Range(r RangeType) func(*configs) {
	return func(c *configs) {
		c.rangeType = r
	}
}

// Labeling is a configuration option (function) selecting the edge labeling
// of a forest. The default is MultiTerminal.
func Labeling(l EdgeLabeling) func(*configs) {
	return func(c *configs) {
		c.labeling = l
	}
}

// Relational is a configuration option (function) marking a forest as
// encoding a relation (pairs of states) rather than a set of states.
func Relational(rel bool) func(*configs) {
	return func(c *configs) {
		c.relational = rel
	}
}

// Nodesize is a configuration option (function). Used as a parameter in
// NewForest it sets a preferred initial size for the node arena. The size of
// the arena can increase during computation.
func Nodesize(size int) func(*configs) {
	return func(c *configs) {
		if size > 1 {
			c.nodesize = size
		}
	}
}

// Maxnodesize is a configuration option (function). Used as a parameter in
// NewForest it sets a limit to the number of nodes in the forest. Trying to
// raise the number of nodes above this limit is an unrecoverable error. The
// default value (0) means that there is no limit.
func Maxnodesize(size int) func(*configs) {
	return func(c *configs) {
		c.maxnodesize = size
	}
}

// Maxnodeincrease is a configuration option (function). Used as a parameter in
// NewForest it sets a limit on the increase in size of the node arena. Below
// this limit we typically double the size of the arena each time we need to
// resize it. The default value is about a million nodes. Set the value to zero
// to avoid imposing a limit.
func Maxnodeincrease(size int) func(*configs) {
	return func(c *configs) {
		c.maxnodeincrease = size
	}
}

// Minfreenodes is a configuration option (function). Used as a parameter in
// NewForest it sets the ratio of free nodes (%) that has to be left after a
// reclamation sweep. When there is not enough free slots in the arena, we
// first reclaim recoverable nodes, then resize the arena if the number of free
// slots is less than this ratio of its capacity. The default value is 20%.
func Minfreenodes(ratio int) func(*configs) {
	return func(c *configs) {
		c.minfreenodes = ratio
	}
}

// Cachesize is a configuration option (function). Used as a parameter in
// NewComputeTable it sets the number of slots of the table (rounded up to a
// prime number). The default value is 10 000.
func Cachesize(size int) func(*configs) {
	return func(c *configs) {
		c.cachesize = size
	}
}

// Cacheratio is a configuration option (function) for compute tables. With a
// cache ratio of r, the table is resized each time the node arena of one of
// the forests used by its operations grows, so that it has r available
// entries for every 100 slots in the arena. The default value (0) means that
// the table size never changes.
func Cacheratio(ratio int) func(*configs) {
	return func(c *configs) {
		c.cacheratio = ratio
	}
}

// Logger is a configuration option (function) setting the structured logger
// used by a forest or compute table. The default discards everything.
func Logger(log *zap.Logger) func(*configs) {
	return func(c *configs) {
		c.log = log
	}
}

// Registerer is a configuration option (function). When set, the metrics of
// the forest (or compute table) are registered with reg.
func Registerer(reg prometheus.Registerer) func(*configs) {
	return func(c *configs) {
		c.registerer = reg
	}
}

// ************************************************************

// Config is the serializable form of the options of a forest and of its
// compute table.
type Config struct {
	Name            string `yaml:"name"`
	Range           string `yaml:"range"`    // "boolean" or "integer"
	Labeling        string `yaml:"labeling"` // "multi-terminal" or "index-set"
	Relational      bool   `yaml:"relational"`
	Nodesize        int    `yaml:"nodesize"`
	Maxnodesize     int    `yaml:"maxnodesize"`
	Maxnodeincrease int    `yaml:"maxnodeincrease"`
	Minfreenodes    int    `yaml:"minfreenodes"`
	Cachesize       int    `yaml:"cachesize"`
	Cacheratio      int    `yaml:"cacheratio"`
}

// LoadConfig decodes a YAML document into a Config. Unknown fields are
// rejected.
func LoadConfig(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	c := &Config{}
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoding forest config: %w", err)
	}
	if _, err := c.Options(); err != nil {
		return nil, err
	}
	return c, nil
}

// Options returns the list of configuration options corresponding to c. Zero
// values are left to their defaults.
func (c *Config) Options() ([]func(*configs), error) {
	res := []func(*configs){}
	if c.Name != "" {
		res = append(res, Name(c.Name))
	}
	switch c.Range {
	case "", "boolean":
	case "integer":
		res = append(res, Range(Integer))
	default:
		return nil, &ConfigError{Op: "config", Reason: fmt.Sprintf("unknown range %q", c.Range)}
	}
	switch c.Labeling {
	case "", "multi-terminal":
	case "index-set":
		res = append(res, Labeling(IndexSet))
	default:
		return nil, &ConfigError{Op: "config", Reason: fmt.Sprintf("unknown labeling %q", c.Labeling)}
	}
	if c.Relational {
		res = append(res, Relational(true))
	}
	if c.Nodesize > 0 {
		res = append(res, Nodesize(c.Nodesize))
	}
	if c.Maxnodesize > 0 {
		res = append(res, Maxnodesize(c.Maxnodesize))
	}
	if c.Maxnodeincrease > 0 {
		res = append(res, Maxnodeincrease(c.Maxnodeincrease))
	}
	if c.Minfreenodes > 0 {
		res = append(res, Minfreenodes(c.Minfreenodes))
	}
	if c.Cachesize > 0 {
		res = append(res, Cachesize(c.Cachesize))
	}
	if c.Cacheratio > 0 {
		res = append(res, Cacheratio(c.Cacheratio))
	}
	return res, nil
}
