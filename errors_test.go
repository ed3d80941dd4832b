package tydux

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Format(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "code and message only",
			err:  &Error{Code: ErrCodeUnknownMethod, Message: "no such method"},
			want: "UNKNOWN_METHOD: no such method",
		},
		{
			name: "with facade",
			err:  &Error{Code: ErrCodeDuplicateFacadeID, Message: "already registered", FacadeID: "cart"},
			want: "DUPLICATE_FACADE_ID: already registered (facade=cart)",
		},
		{
			name: "with facade and method",
			err:  &Error{Code: ErrCodeIllegalReturnType, Message: "must not return", FacadeID: "cart", Method: "AddItem"},
			want: "ILLEGAL_RETURN_TYPE: must not return (facade=cart, method=AddItem)",
		},
		{
			name: "with facade and member",
			err:  &Error{Code: ErrCodeIllegalInstanceMember, Message: "extra field", FacadeID: "cart", Member: "Cache"},
			want: "ILLEGAL_INSTANCE_MEMBER: extra field (facade=cart, member=Cache)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &Error{Code: ErrCodeMutationFailed, Message: "mutator panicked", Err: cause}

	assert.ErrorIs(t, err, cause)
}

func TestErrorHelpers_MatchWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("dispatch: %w", &Error{Code: ErrCodeIllegalStateAccess, Message: "stale draft"})

	assert.True(t, IsIllegalStateAccess(wrapped))
	assert.False(t, IsMutationFailed(wrapped))
	assert.False(t, IsIllegalStateAccess(errors.New("plain")))
	assert.False(t, IsIllegalStateAccess(nil))
}

func TestErrorHelpers_Codes(t *testing.T) {
	require.True(t, IsIllegalInstanceMember(&Error{Code: ErrCodeIllegalInstanceMember}))
	require.True(t, IsIllegalReturnType(&Error{Code: ErrCodeIllegalReturnType}))
	require.True(t, IsDuplicateFacadeID(&Error{Code: ErrCodeDuplicateFacadeID}))
	require.True(t, IsMutationFailed(&Error{Code: ErrCodeMutationFailed}))
	require.True(t, IsUnknownMethod(&Error{Code: ErrCodeUnknownMethod}))
}
