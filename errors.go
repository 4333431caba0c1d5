// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"fmt"

	"go.uber.org/zap"
)

// ConfigError reports forests whose configuration does not fit the operation
// (or forest) being built. It is always raised by a constructor, never in the
// middle of a computation.
type ConfigError struct {
	Op     string // name of the operation (or "forest") being built
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Op, ErrConfig, e.Reason)
}

// Unwrap makes errors.Is(err, ErrConfig) true for every ConfigError.
func (e *ConfigError) Unwrap() error {
	return ErrConfig
}

func configErrorf(log *zap.Logger, op string, format string, a ...interface{}) *ConfigError {
	err := &ConfigError{Op: op, Reason: fmt.Sprintf(format, a...)}
	log.Warn("rejected configuration", zap.String("op", op), zap.String("reason", err.Reason))
	return err
}

// InternalError is the value used to panic when an internal invariant of a
// forest is broken: dereferencing a reclaimed node, a negative reference
// count, a corrupted unique table... There is nothing a caller can do to
// recover from such a state.
type InternalError struct {
	Forest string
	Msg    string
	Err    error
}

func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mdd: internal error in %s: %s: %s", e.Forest, e.Msg, e.Err)
	}
	return fmt.Sprintf("mdd: internal error in %s: %s", e.Forest, e.Msg)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

func (f *Forest) fatalf(format string, a ...interface{}) {
	f.fatal(nil, format, a...)
}

func (f *Forest) fatal(err error, format string, a ...interface{}) {
	ie := &InternalError{Forest: f.name, Msg: fmt.Sprintf(format, a...), Err: err}
	f.log.Error("internal consistency violation", zap.String("forest", f.name), zap.Error(ie))
	panic(ie)
}
