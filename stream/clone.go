package stream

import (
	"github.com/cuthbertLab/music21-sub003/element"
)

// memberRebinder is satisfied by elements holding references to other
// elements, such as spanners. After a deep copy, the mapping from source
// identity to copy lets them re-point at the copied members.
type memberRebinder interface {
	RebindMembers(map[*element.Base]element.Element)
}

// Clone implements element.Element by deep-copying the hierarchy.
func (s *Stream) Clone() element.Element { return s.CloneStream() }

// CloneStream deep-copies the container and everything below it. Every
// member is copied exactly once, so an element shared between two nested
// containers stays shared between the two copies. Elements that reference
// other elements, such as spanners, are re-pointed at the copies of any
// member that was cloned along with them; references to elements outside
// the hierarchy are kept as they are. Each copied container records its
// derivation from its source.
func (s *Stream) CloneStream() *Stream {
	ctx := make(map[*element.Base]element.Element)
	cp := s.cloneInto(ctx)
	for _, ce := range ctx {
		if rb, ok := ce.(memberRebinder); ok {
			rb.RebindMembers(ctx)
		}
	}
	return cp
}

func (s *Stream) cloneInto(ctx map[*element.Base]element.Element) *Stream {
	cp := &Stream{
		Base:     s.CloneBase(),
		Number:   s.Number,
		Name:     s.Name,
		index:    make(map[*element.Base]Position, len(s.index)),
		autoSort: s.autoSort,
		isSorted: s.isSorted,
	}
	if s.explicitDuration != nil {
		v := *s.explicitDuration
		cp.explicitDuration = &v
	}
	cp.setDerivation(s, "clone")
	ctx[s.Ref()] = cp
	for _, e := range s.elements {
		ce := cloneMember(e, ctx)
		cp.elements = append(cp.elements, ce)
		cp.index[ce.Ref()] = s.index[e.Ref()]
		ce.SetActiveSite(cp)
	}
	for _, e := range s.endElements {
		ce := cloneMember(e, ctx)
		cp.endElements = append(cp.endElements, ce)
		cp.index[ce.Ref()] = AtEnd()
		ce.SetActiveSite(cp)
	}
	return cp
}

func cloneMember(e element.Element, ctx map[*element.Base]element.Element) element.Element {
	if already, ok := ctx[e.Ref()]; ok {
		return already
	}
	if sub, ok := AsStream(e); ok {
		return sub.cloneInto(ctx)
	}
	ce := e.Clone()
	ctx[e.Ref()] = ce
	return ce
}
