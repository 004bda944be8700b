package compiler

import "fmt"

// rootVar is bound once at function entry to the initial scope value, so
// @root stays stable across scope rebinding.
const rootVar = "_root"

// context carries the state threaded through the recursive descent. It is
// passed by value: scope rebinding and depth changes in a child compile
// never leak back to sibling branches. The import set is the one
// deliberately shared piece, owned by the top-level Compile call.
type context struct {
	scope   string // variable unqualified paths resolve against
	data    string // variable @-references resolve against
	depth   int    // number of enclosing each blocks
	strip   bool   // drop comments from the output
	imports *importSet
}

// withScope rebinds the scope without changing depth (with blocks).
func (c context) withScope(scope string) context {
	c.scope = scope
	return c
}

// descend enters an each body: rebinds the scope and increments depth.
func (c context) descend(scope string) context {
	c.scope = scope
	c.depth++
	return c
}

// keyVar names the iteration key bound at the given depth.
func keyVar(depth int) string { return fmt.Sprintf("_k%d", depth) }

// valueVar names the iteration value bound at the given depth.
func valueVar(depth int) string { return fmt.Sprintf("_v%d", depth) }

// withVar names the scope parameter of a with block at the given depth.
func withVar(depth int) string { return fmt.Sprintf("_w%d", depth) }
