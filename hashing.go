// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

// Hash functions

// _PAIR is a mapping function that maps (bijectively) a pair of integer (a, b)
// into a unique integer, then folds it in the interval [0, len).
func _PAIR(a, b uint64, len int) uint64 {
	return (((a + b) * (a + b + 1) / 2) + a) % uint64(len)
}

// _PAIR64 is _PAIR where we reduce intermediate values modulo len to avoid
// overflows.
func _PAIR64(a, b, len uint64) uint64 {
	return (((((a + b) % len) * ((a + b + 1) % len)) / 2) + a) % len
}

// ************************************************************

// The hash function for compute table keys is #(op, level, operands...). We
// use the 32 bits of each handle so that terminals (negative handles) are
// hashed like any other value.

func (k Key) hash(len int) int {
	h := _PAIR(uint64(k.op), uint64(uint32(k.level)), len)
	for _, o := range k.operands {
		h = _PAIR64(h, uint64(uint32(o)), uint64(len))
	}
	return int(h)
}
