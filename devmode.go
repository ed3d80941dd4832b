package tydux

import "sync"

// Development mode is process-wide state, default off. It is read at the
// start of each root-level mutator call, so the only safe lifecycle is "set
// before constructing facades"; toggling mid-run yields mixed guarantees for
// facades that already ran mutations and is documented as undefined.
//
// Development mode enables:
//   - out-of-band mutation detection on committed state (snapshot compare)
//   - mutation duration measurement on commit records
//   - the post-call contract checks (see SetStrictChecks)
type devState struct {
	dev    bool
	strict bool
}

var (
	devMu  sync.Mutex
	devCfg devState
)

// EnableDevelopmentMode turns development mode on process-wide.
func EnableDevelopmentMode() {
	devMu.Lock()
	defer devMu.Unlock()
	devCfg.dev = true
}

// DisableDevelopmentMode turns development mode off. Intended for tests.
func DisableDevelopmentMode() {
	devMu.Lock()
	defer devMu.Unlock()
	devCfg.dev = false
}

// DevelopmentModeEnabled reports the current process-wide setting.
func DevelopmentModeEnabled() bool {
	devMu.Lock()
	defer devMu.Unlock()
	return devCfg.dev
}

// SetStrictChecks enables the post-call contract checks (mutator binding
// intact, state accessor invalidation) independently of development mode, for
// deployments that want the checks without snapshotting overhead.
func SetStrictChecks(on bool) {
	devMu.Lock()
	defer devMu.Unlock()
	devCfg.strict = on
}

// strictChecksEnabled reports whether post-call contract checks run. True
// when development mode is on or strict checks were enabled explicitly.
func strictChecksEnabled() bool {
	devMu.Lock()
	defer devMu.Unlock()
	return devCfg.dev || devCfg.strict
}
