package tydux

import (
	"errors"
	"fmt"
)

// Error represents a contract violation or failure in the facade layer.
//
// Error kinds include:
//   - Illegal state access: the state accessor was read outside an active
//     mutator call
//   - Illegal instance member: a commands struct carries a field besides the
//     embedded Mutator
//   - Illegal return type: a mutator method declares return values
//   - Duplicate facade id: two facades registered under one id
//   - Mutation failed: a mutator method panicked; the draft was discarded
//
// Error includes structured fields for diagnostics.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// FacadeID identifies the affected facade, when known.
	FacadeID string

	// Method identifies the mutator method (for return-type, unknown-method
	// and mutation failures).
	Method string

	// Member names the offending struct field (for illegal-member errors).
	Member string

	// Err is the underlying cause, when one exists.
	Err error
}

// ErrorCode categorizes facade errors.
type ErrorCode string

const (
	// ErrCodeIllegalStateAccess indicates the state accessor was read outside
	// an active mutator call.
	ErrCodeIllegalStateAccess ErrorCode = "ILLEGAL_STATE_ACCESS"

	// ErrCodeIllegalInstanceMember indicates a commands struct carries a
	// field other than the embedded Mutator.
	ErrCodeIllegalInstanceMember ErrorCode = "ILLEGAL_INSTANCE_MEMBER"

	// ErrCodeIllegalReturnType indicates a mutator method declares return
	// values.
	ErrCodeIllegalReturnType ErrorCode = "ILLEGAL_RETURN_TYPE"

	// ErrCodeDuplicateFacadeID indicates two live facades share one id.
	ErrCodeDuplicateFacadeID ErrorCode = "DUPLICATE_FACADE_ID"

	// ErrCodeMountPathCollision indicates a facade's mount path is already
	// claimed under the same root.
	ErrCodeMountPathCollision ErrorCode = "MOUNT_PATH_COLLISION"

	// ErrCodeMutationFailed indicates a mutator method panicked; the draft
	// was discarded and nothing was committed.
	ErrCodeMutationFailed ErrorCode = "MUTATION_FAILED"

	// ErrCodeUnknownMethod indicates a dispatch for a method the commands
	// struct does not declare.
	ErrCodeUnknownMethod ErrorCode = "UNKNOWN_METHOD"

	// ErrCodeInvalidArgument indicates dispatch arguments that do not match
	// the mutator method's signature.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
)

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.FacadeID != "" && e.Method != "":
		return fmt.Sprintf("%s: %s (facade=%s, method=%s)", e.Code, e.Message, e.FacadeID, e.Method)
	case e.FacadeID != "" && e.Member != "":
		return fmt.Sprintf("%s: %s (facade=%s, member=%s)", e.Code, e.Message, e.FacadeID, e.Member)
	case e.FacadeID != "":
		return fmt.Sprintf("%s: %s (facade=%s)", e.Code, e.Message, e.FacadeID)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

func hasCode(err error, code ErrorCode) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code == code
	}
	return false
}

// IsIllegalStateAccess returns true if the error reports a state access
// outside an active mutator call. Uses errors.As to handle wrapped errors.
func IsIllegalStateAccess(err error) bool {
	return hasCode(err, ErrCodeIllegalStateAccess)
}

// IsIllegalInstanceMember returns true if the error reports an extra field on
// a commands struct.
func IsIllegalInstanceMember(err error) bool {
	return hasCode(err, ErrCodeIllegalInstanceMember)
}

// IsIllegalReturnType returns true if the error reports a mutator method with
// return values.
func IsIllegalReturnType(err error) bool {
	return hasCode(err, ErrCodeIllegalReturnType)
}

// IsDuplicateFacadeID returns true if the error reports a facade id already
// registered.
func IsDuplicateFacadeID(err error) bool {
	return hasCode(err, ErrCodeDuplicateFacadeID)
}

// IsMutationFailed returns true if the error reports a mutator panic that
// aborted a commit.
func IsMutationFailed(err error) bool {
	return hasCode(err, ErrCodeMutationFailed)
}

// IsUnknownMethod returns true if the error reports a dispatch for an
// undeclared mutator method.
func IsUnknownMethod(err error) bool {
	return hasCode(err, ErrCodeUnknownMethod)
}
