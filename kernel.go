// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"errors"
)

// _MINFREENODES is the minimal number of nodes (%) that has to be left after a
// reclamation sweep unless a resize should be done.
const _MINFREENODES int = 20

// _MAXVAR is the maximal number of levels in a domain. Levels are stored as
// int32 in nodes and we keep a few bits free, as in the BuDDy encoding.
const _MAXVAR int = 0x1FFFFF

// _MAXREFCOUNT is the maximal value of the incoming reference counter. We
// refuse to go above this value instead of silently wrapping around.
const _MAXREFCOUNT int32 = 0x3FFFFFFF

// _DEFAULTNODESIZE is the initial number of slots in the node arena when no
// Nodesize option is given.
const _DEFAULTNODESIZE int = 1 << 10

// _DEFAULTMAXNODEINC is the default value for the maximal increase in the
// number of nodes during a resize. It is approx. one million nodes (1 048 576).
const _DEFAULTMAXNODEINC int = 1 << 20

// _DEFAULTCACHESIZE is the default number of slots in a compute table. It is
// rounded up to the next prime number.
const _DEFAULTCACHESIZE int = 10000

var (
	// ErrDomain is returned when a domain is built with an invalid list of
	// variable sizes.
	ErrDomain = errors.New("invalid domain")

	// ErrConfig is the error class of every configuration error. Use
	// errors.Is(err, ErrConfig) to test for it and errors.As with a
	// *ConfigError to get the details.
	ErrConfig = errors.New("incompatible forest configuration")

	// ErrForest is returned when an edge or handle is used with a forest
	// it does not belong to.
	ErrForest = errors.New("edge does not belong to forest")

	// ErrMemory is the reason of the internal error raised when the node
	// arena cannot grow anymore (see Maxnodesize).
	ErrMemory = errors.New("unable to free memory or resize node table")

	// ErrReleased is returned when using an Edge after a call to Release.
	ErrReleased = errors.New("edge already released")

	// ErrOverflow is returned by operations whose counts do not fit in the
	// int64 values attached to nodes and edges.
	ErrOverflow = errors.New("count overflows int64")
)
