package tydux

import (
	"slices"
	"sync"
)

// Process-wide facade registry: facade id -> commands value, for
// introspection and tooling. Entries are added at construction and removed
// on destroy.
var (
	regMu      sync.Mutex
	registered = make(map[string]any)
)

func registerFacade(id string, commands any) error {
	regMu.Lock()
	defer regMu.Unlock()
	if _, exists := registered[id]; exists {
		return &Error{
			Code:     ErrCodeDuplicateFacadeID,
			Message:  "facade id already registered",
			FacadeID: id,
		}
	}
	registered[id] = commands
	return nil
}

func deregisterFacade(id string) {
	regMu.Lock()
	defer regMu.Unlock()
	delete(registered, id)
}

// RegisteredFacadeIDs returns the ids of all live facades, sorted.
func RegisteredFacadeIDs() []string {
	regMu.Lock()
	defer regMu.Unlock()
	ids := make([]string, 0, len(registered))
	for id := range registered {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// RegisteredCommands returns the commands value registered under id.
func RegisteredCommands(id string) (any, bool) {
	regMu.Lock()
	defer regMu.Unlock()
	c, ok := registered[id]
	return c, ok
}

// ResetRegisteredFacades clears the registry. Test hook; live facades keep
// working but can no longer be looked up, so call it only between tests.
func ResetRegisteredFacades() {
	regMu.Lock()
	defer regMu.Unlock()
	registered = make(map[string]any)
}
