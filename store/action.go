package store

import "strings"

// Action is the unit of dispatch. Type carries the owning facade's id and
// the mutator method name in the form "[ownerID] method". Payload holds the
// positional mutator arguments; NamedPayload is filled only when the owner
// declared argument names for the method.
//
// State carries the committed sub-state snapshot for facade commit actions.
// It is consumed by the owning reducer during the dispatch pass and retained
// afterwards only by the replay-latest change stream and any recorder.
type Action struct {
	Type         string
	Payload      []any
	NamedPayload map[string]any
	State        any
}

// TypeFor derives the globally unique action type for an owner id and
// mutator method name.
//
// Uniqueness holds as long as owner ids are distinct; ids are caller
// supplied and distinctness is enforced at facade registration, not here.
func TypeFor(ownerID, method string) string {
	return "[" + ownerID + "] " + method
}

// OwnerPrefix returns the action-type prefix that marks ownership by the
// given owner id.
func OwnerPrefix(ownerID string) string {
	return "[" + ownerID + "] "
}

// Owns reports whether the action belongs to the given owner. Used as the
// gate in each owner's reducer so one shared chain can host arbitrarily
// many facades without cross-talk.
func Owns(ownerID string, a Action) bool {
	return strings.HasPrefix(a.Type, OwnerPrefix(ownerID))
}

// MethodName extracts the mutator method name from an owned action type.
// Returns "" when the action is not owned by ownerID.
func MethodName(ownerID string, a Action) string {
	prefix := OwnerPrefix(ownerID)
	if !strings.HasPrefix(a.Type, prefix) {
		return ""
	}
	return a.Type[len(prefix):]
}
