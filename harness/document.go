package harness

import (
	"fmt"

	tydux "github.com/pburgmer/Tydux"
)

// DocumentState is the generic slice shape scenarios operate on.
type DocumentState = map[string]any

// DocumentCommands are generic mutators over a DocumentState: enough surface
// to exercise commits, nested writes, and aborts from scripted scenarios.
type DocumentCommands struct {
	tydux.Mutator[DocumentState]
}

// Set writes one key.
func (c *DocumentCommands) Set(key string, value any) {
	(*c.State())[key] = value
}

// Increment adds by to an integer key, treating a missing key as zero.
func (c *DocumentCommands) Increment(key string, by int) {
	doc := *c.State()
	cur, _ := doc[key].(int)
	doc[key] = cur + by
}

// Remove deletes one key.
func (c *DocumentCommands) Remove(key string) {
	delete(*c.State(), key)
}

// SetThenFail writes one key and then panics, for atomicity scenarios: the
// write must never become visible.
func (c *DocumentCommands) SetThenFail(key string, value any) {
	(*c.State())[key] = value
	panic(fmt.Sprintf("scripted failure after setting %q", key))
}
