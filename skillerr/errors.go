// Package skillerr collects the error types raised by the runtime. Errors
// are returned, never panicked, except for the handful of programmer-error
// conditions the runtime treats as fatal misuse (the bits Must* readers,
// writing past a fixed buffer).
package skillerr

import "fmt"

// SkillException is the base type every runtime error embeds. It carries an
// optional wrapped cause, mirroring the teacher's fmt.Errorf("...: %s", err)
// wrapping style but as a typed value callers can inspect with errors.As.
type SkillException struct {
	Message string
	Cause   error
}

func (e *SkillException) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Cause.Error())
	}
	return e.Message
}

func (e *SkillException) Unwrap() error {
	return e.Cause
}

func wrap(msg string, cause error) *SkillException {
	return &SkillException{Message: msg, Cause: cause}
}

// InvalidPoolIndexException is returned when a string ID is out of range of
// the string pool. Skill ID lookups (GetByIDBase) return nil instead.
type InvalidPoolIndexException struct {
	*SkillException
	Index int
}

func NewInvalidPoolIndex(poolName string, index int) *InvalidPoolIndexException {
	return &InvalidPoolIndexException{
		SkillException: wrap(fmt.Sprintf("invalid index %d into pool %q", index, poolName), nil),
		Index:          index,
	}
}

// PoolSizeMissmatchError is returned when a pool's declared static/dynamic
// counts do not reconcile with the block chain that was parsed for it.
type PoolSizeMissmatchError struct {
	*SkillException
}

func NewPoolSizeMissmatch(poolName string, expected, got int) *PoolSizeMissmatchError {
	return &PoolSizeMissmatchError{
		SkillException: wrap(fmt.Sprintf("pool %q size mismatch: expected %d, got %d", poolName, expected, got), nil),
	}
}

// RestrictionError is returned when a field value fails a declared
// restriction during the check a write runs before emitting anything.
type RestrictionError struct {
	*SkillException
}

func NewRestrictionError(fieldName string, cause error) *RestrictionError {
	return &RestrictionError{
		SkillException: wrap(fmt.Sprintf("restriction failed on field %q", fieldName), cause),
	}
}

// ErrPoolFixed is returned when a caller attempts to add objects to a pool
// that has been fixed for serialization.
type ErrPoolFixed struct {
	*SkillException
}

func NewErrPoolFixed(poolName string) *ErrPoolFixed {
	return &ErrPoolFixed{
		SkillException: wrap(fmt.Sprintf("pool %q is fixed", poolName), nil),
	}
}

// ErrArrayLengthMismatch describes a constant length array field given a
// value whose length does not match its declared length. The runtime does
// not return it: ftype.ConstantLengthArray reports that case with a plain
// error.
type ErrArrayLengthMismatch struct {
	*SkillException
}

func NewErrArrayLengthMismatch(fieldName string, want, got int) *ErrArrayLengthMismatch {
	return &ErrArrayLengthMismatch{
		SkillException: wrap(fmt.Sprintf("field %q: constant length array wants %d elements, got %d", fieldName, want, got), nil),
	}
}

// IOError wraps an underlying I/O failure (short read, short write, closed
// stream) encountered while parsing or serializing.
type IOError struct {
	*SkillException
}

func NewIOError(context string, cause error) *IOError {
	return &IOError{
		SkillException: wrap(fmt.Sprintf("io error during %s", context), cause),
	}
}
