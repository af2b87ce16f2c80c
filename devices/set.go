package devices

import (
	"slices"
	"strings"
)

// Set is a set of device types. The zero value is not usable, use NewSet.
type Set map[Type]struct{}

// NewSet returns a Set holding the given device types.
func NewSet(types ...Type) Set {
	s := make(Set, len(types))
	for _, t := range types {
		s.Insert(t)
	}
	return s
}

// Insert adds t to the set. Inserting an existing member is a no-op.
func (s Set) Insert(t Type) {
	s[t] = struct{}{}
}

// Has returns whether t is a member.
func (s Set) Has(t Type) bool {
	_, found := s[t]
	return found
}

// Len returns the number of members.
func (s Set) Len() int { return len(s) }

// Slice returns the members sorted by their numeric value.
func (s Set) Slice() []Type {
	out := make([]Type, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// Clone returns an independent copy of the set.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for t := range s {
		out.Insert(t)
	}
	return out
}

// Equal returns whether both sets hold exactly the same members.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for t := range s {
		if !other.Has(t) {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer, e.g. "{CPU, GPU}".
func (s Set) String() string {
	parts := make([]string, 0, len(s))
	for _, t := range s.Slice() {
		parts = append(parts, t.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
