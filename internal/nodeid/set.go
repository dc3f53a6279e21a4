// internal/nodeid/set.go
package nodeid

import (
	"maps"
	"slices"
)

// Set is an unordered collection of node identifiers.
type Set map[ID]struct{}

// NewSet returns a set holding the given identifiers.
func NewSet(ids ...ID) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts id into the set.
func (s Set) Add(id ID) {
	s[id] = struct{}{}
}

// Has reports whether id is a member of the set.
func (s Set) Has(id ID) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of members.
func (s Set) Len() int {
	return len(s)
}

// Clone returns an independent copy of the set.
func (s Set) Clone() Set {
	if s == nil {
		return Set{}
	}
	return maps.Clone(s)
}

// Union returns a new set with the members of s and every other set.
func (s Set) Union(others ...Set) Set {
	out := s.Clone()
	for _, o := range others {
		for id := range o {
			out[id] = struct{}{}
		}
	}
	return out
}

// Intersect returns a new set with the members present in s and in every other set.
func (s Set) Intersect(others ...Set) Set {
	out := Set{}
	for id := range s {
		keep := true
		for _, o := range others {
			if !o.Has(id) {
				keep = false
				break
			}
		}
		if keep {
			out[id] = struct{}{}
		}
	}
	return out
}

// Difference returns a new set with the members of s that are in none of the others.
func (s Set) Difference(others ...Set) Set {
	out := Set{}
	for id := range s {
		drop := false
		for _, o := range others {
			if o.Has(id) {
				drop = true
				break
			}
		}
		if !drop {
			out[id] = struct{}{}
		}
	}
	return out
}

// ContainsAll reports whether every id is a member of s.
func (s Set) ContainsAll(ids []ID) bool {
	for _, id := range ids {
		if !s.Has(id) {
			return false
		}
	}
	return true
}

// ContainsAny reports whether at least one id is a member of s.
func (s Set) ContainsAny(ids []ID) bool {
	for _, id := range ids {
		if s.Has(id) {
			return true
		}
	}
	return false
}

// Sorted returns the members in lexical order.
func (s Set) Sorted() []ID {
	return slices.Sorted(maps.Keys(s))
}
