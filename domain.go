// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"fmt"
	"strings"
)

// Domain is an ordered list of variables, each with a finite domain of
// values {0, ..., size-1}. Variable k (counting from 1) sits at level k of
// every forest built over the domain; level 0 is reserved for terminals. The
// variable with the highest level is the first one read when following a path
// from the root.
type Domain struct {
	sizes []int // sizes[0] is unused, sizes[k] is the size of the variable at level k
}

// NewDomain returns a domain with len(sizes) variables, where sizes[k-1] is
// the number of values of the variable at level k.
func NewDomain(sizes ...int) (*Domain, error) {
	if len(sizes) < 1 || len(sizes) > _MAXVAR {
		return nil, fmt.Errorf("%w: bad number of variables (%d)", ErrDomain, len(sizes))
	}
	d := &Domain{sizes: make([]int, len(sizes)+1)}
	for k, s := range sizes {
		if s < 1 {
			return nil, fmt.Errorf("%w: variable at level %d has size %d", ErrDomain, k+1, s)
		}
		d.sizes[k+1] = s
	}
	return d, nil
}

// Levels returns the number of variables in the domain, which is also the
// level of the topmost variable.
func (d *Domain) Levels() int {
	return len(d.sizes) - 1
}

// Size returns the number of values of the variable at the given level. It
// returns 0 for the terminal level or for a level outside the domain.
func (d *Domain) Size(level int) int {
	if level < 1 || level >= len(d.sizes) {
		return 0
	}
	return d.sizes[level]
}

func (d *Domain) String() string {
	var sb strings.Builder
	sb.WriteString("domain[")
	for k := d.Levels(); k > 0; k-- {
		if k != d.Levels() {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "x%d:%d", k, d.sizes[k])
	}
	sb.WriteString("]")
	return sb.String()
}
