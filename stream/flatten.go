package stream

import (
	"github.com/cuthbertLab/music21-sub003/element"
	"github.com/cuthbertLab/music21-sub003/ql"
)

// Flatten returns a single-level view of the hierarchy: every element
// placed at its cumulative offset from this container. With
// retainContainers, the nested containers themselves appear in the view
// alongside their content; without it only non-container elements survive.
//
// Elements are shared with the hierarchy, not copied, and their active
// sites are left alone. End elements of this container stay stored at end
// in the view, so they keep tracking the view's moving end time; end
// elements of nested containers land at fixed resolved offsets. An element
// reachable through two paths appears once, at the first offset found.
//
// The view is cached and returned again until this container's direct
// membership or offsets change. Edits inside nested containers do not
// invalidate a cached view.
func (s *Stream) Flatten(retainContainers bool) *Stream {
	if retainContainers {
		if c := s.cache.semiFlat; c != nil {
			countEvent(metricFlattenCacheHits)
			return c
		}
	} else if c := s.cache.flat; c != nil {
		countEvent(metricFlattenCacheHits)
		return c
	}
	countEvent(metricFlattenCacheMisses)

	out := newStream(element.ClassStream)
	s.flattenInto(out, ql.Zero, true, retainContainers)
	out.elementsChanged()
	method := "flatten"
	if retainContainers {
		method = "semiflatten"
	}
	out.setDerivation(s, method)
	if retainContainers {
		s.cache.semiFlat = out
	} else {
		s.cache.flat = out
	}
	return out
}

func (s *Stream) flattenInto(out *Stream, base ql.QL, isRoot, retainContainers bool) {
	s.prepareRead()
	for _, e := range s.elements {
		off, _ := s.index[e.Ref()].Offset()
		abs := base.Add(off)
		if sub, ok := AsStream(e); ok {
			if retainContainers && !out.Contains(sub) {
				out.coreInsert(abs, sub)
			}
			sub.flattenInto(out, abs, false, retainContainers)
			continue
		}
		if !out.Contains(e) {
			out.coreInsert(abs, e)
		}
	}
	for _, e := range s.endElements {
		if out.Contains(e) {
			continue
		}
		if isRoot {
			out.coreStoreAtEnd(e)
			continue
		}
		out.coreInsert(base.Add(s.index[e.Ref()].Resolve(s)), e)
	}
}
