// Package spanner provides elements that exist to reference other
// elements: slurs, wedges and similar marks whose meaning is the set of
// notes they stretch across.
//
// A spanner holds live references to its members, not copies. When a whole
// container tree is deep-copied, the copy machinery hands every cloned
// spanner the old-to-new identity mapping so the copy points at the copied
// members instead of the originals.
package spanner

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/cuthbertLab/music21-sub003/element"
)

// Spanner is a zero-duration element referencing the elements it spans.
// Specialized spanners embed it.
type Spanner struct {
	element.Base
	kind    string
	members []element.Element
}

// New returns a spanner of the named kind over the given members.
func New(kind string, members ...element.Element) *Spanner {
	sp := &Spanner{
		Base: element.NewBase(element.ClassSpanner),
		kind: kind,
	}
	for _, m := range members {
		sp.AddMember(m)
	}
	return sp
}

// NewSlur returns a slur over the given notes.
func NewSlur(members ...element.Element) *Spanner {
	return New("Slur", members...)
}

// Kind names what sort of spanner this is.
func (sp *Spanner) Kind() string { return sp.kind }

// Members returns the spanned elements in insertion order. The returned
// slice is shared; callers must not mutate it.
func (sp *Spanner) Members() []element.Element { return sp.members }

// AddMember appends an element unless already spanned. Nil members are
// ignored.
func (sp *Spanner) AddMember(e element.Element) {
	if e == nil || sp.HasMember(e) {
		return
	}
	sp.members = append(sp.members, e)
}

// HasMember reports whether e is spanned, by identity.
func (sp *Spanner) HasMember(e element.Element) bool {
	for _, m := range sp.members {
		if m.Ref() == e.Ref() {
			return true
		}
	}
	return false
}

// First returns the first member, or nil when empty.
func (sp *Spanner) First() element.Element {
	if len(sp.members) == 0 {
		return nil
	}
	return sp.members[0]
}

// Last returns the last member, or nil when empty.
func (sp *Spanner) Last() element.Element {
	if len(sp.members) == 0 {
		return nil
	}
	return sp.members[len(sp.members)-1]
}

// ReplaceMember swaps old for repl, by identity. Unknown members are left
// alone.
func (sp *Spanner) ReplaceMember(old, repl element.Element) {
	for i, m := range sp.members {
		if m.Ref() == old.Ref() {
			sp.members[i] = repl
		}
	}
}

// RebindMembers re-points every member found in mapping at its replacement.
// Deep copies call this with the old-to-new identity map of the copied
// tree; members outside the mapping keep their original references.
func (sp *Spanner) RebindMembers(mapping map[*element.Base]element.Element) {
	for i, m := range sp.members {
		if repl, ok := mapping[m.Ref()]; ok {
			sp.members[i] = repl
		}
	}
}

// CloneSpanner copies the spanner state. The copy references the same
// members until RebindMembers re-points them.
func (sp *Spanner) CloneSpanner() Spanner {
	return Spanner{
		Base:    sp.CloneBase(),
		kind:    sp.kind,
		members: slices.Clone(sp.members),
	}
}

// Clone returns a copy referencing the same members.
func (sp *Spanner) Clone() element.Element {
	cp := sp.CloneSpanner()
	return &cp
}

func (sp *Spanner) String() string {
	return fmt.Sprintf("%s (%d members)", sp.kind, len(sp.members))
}
