// Package ops holds the standard operator implementations and the bootstrap
// step that registers them.
//
// Each operator file contributes a register function; RegisterStandardOps
// calls them all into a registry during startup, before any graph is loaded.
package ops

import (
	"github.com/bairuiworld/mace/core"
)

// RegisterStandardOps registers every operator of this package into r.
// Call it exactly once per registry, before dispatching.
func RegisterStandardOps(r *core.Registry) {
	registerIdentity(r)
}
