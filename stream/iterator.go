package stream

import (
	"github.com/cuthbertLab/music21-sub003/element"
	"github.com/cuthbertLab/music21-sub003/ql"
)

// Iterator walks the direct members of one container against a chain of
// filters. It snapshots the traversal order when created, so removing the
// yielded element from the source mid-walk is safe.
type Iterator struct {
	src     *Stream
	elems   []element.Element
	i       int
	filters []Filter
	restore bool
	sorted  bool
}

// Iter starts an iteration over the direct members in traversal order.
// Yielded elements get their active site set to the source stream unless
// RestoreActiveSites(false) is applied.
func (s *Stream) Iter() *Iterator {
	elems := s.Elements()
	return &Iterator{src: s, elems: elems, restore: true, sorted: s.isSorted}
}

// Filter appends filters; an element must pass all of them.
func (it *Iterator) Filter(fs ...Filter) *Iterator {
	it.filters = append(it.filters, fs...)
	return it
}

// Classes keeps only elements intersecting the class mask.
func (it *Iterator) Classes(mask element.Class) *Iterator {
	return it.Filter(ClassFilter{Mask: mask})
}

// Groups keeps only elements carrying at least one of the named groups.
func (it *Iterator) Groups(names ...string) *Iterator {
	return it.Filter(GroupFilter{Names: names})
}

// WithID keeps only elements whose ID matches, case-insensitively.
func (it *Iterator) WithID(id string) *Iterator {
	return it.Filter(IDFilter{ID: id})
}

// Notes keeps sounding elements: notes and chords, but not rests.
func (it *Iterator) Notes() *Iterator {
	return it.Classes(element.ClassNotRest)
}

// NotesAndRests keeps all general notes: notes, chords and rests.
func (it *Iterator) NotesAndRests() *Iterator {
	return it.Classes(element.ClassGeneralNote)
}

// RestoreActiveSites controls whether yielded elements get their active
// site pointed back at the source stream.
func (it *Iterator) RestoreActiveSites(v bool) *Iterator {
	it.restore = v
	return it
}

// Reset rewinds the iteration to the start, re-snapshotting the source's
// current traversal order. Filters stay attached.
func (it *Iterator) Reset() {
	it.elems = it.src.Elements()
	it.sorted = it.src.isSorted
	it.i = 0
}

// Next yields the next matching element. The second return is false once
// the iteration is exhausted.
func (it *Iterator) Next() (element.Element, bool) {
	for it.i < len(it.elems) {
		e := it.elems[it.i]
		it.i++
		pos, ok := it.src.index[e.Ref()]
		if !ok {
			// Removed since the snapshot was taken.
			continue
		}
		off := pos.Resolve(it.src)
		if it.sorted && it.anyPastEnd(off) {
			return nil, false
		}
		if !it.matches(e, off) {
			continue
		}
		if it.restore {
			e.SetActiveSite(it.src)
		}
		return e, true
	}
	return nil, false
}

func (it *Iterator) anyPastEnd(off ql.QL) bool {
	for _, f := range it.filters {
		if es, ok := f.(earlyStopper); ok && es.pastEnd(off) {
			return true
		}
	}
	return false
}

func (it *Iterator) matches(e element.Element, off ql.QL) bool {
	for _, f := range it.filters {
		if !f.Matches(e, off) {
			return false
		}
	}
	return true
}

// All drains the iteration into a slice.
func (it *Iterator) All() []element.Element {
	var out []element.Element
	for e, ok := it.Next(); ok; e, ok = it.Next() {
		out = append(out, e)
	}
	return out
}

// First returns the first match, or nil.
func (it *Iterator) First() element.Element {
	e, _ := it.Next()
	return e
}

// Count drains the iteration and reports how many elements matched.
func (it *Iterator) Count() int {
	n := 0
	for _, ok := it.Next(); ok; _, ok = it.Next() {
		n++
	}
	return n
}

// Stream materializes the remaining matches into a new container. Elements
// are shared, not copied, and keep their source positions: numeric offsets
// carry over and end elements stay stored at end. The result records its
// derivation from the source.
func (it *Iterator) Stream() *Stream {
	out := newStream(element.ClassStream)
	for e, ok := it.Next(); ok; e, ok = it.Next() {
		pos := it.src.index[e.Ref()]
		if pos.IsAtEnd() {
			_ = out.StoreAtEnd(e)
			continue
		}
		off, _ := pos.Offset()
		_ = out.Insert(off, e)
	}
	out.setDerivation(it.src, "filter")
	return out
}

// GetElementsByClass returns a derived stream of the direct members
// intersecting the class mask, at their source offsets.
func (s *Stream) GetElementsByClass(mask element.Class) *Stream {
	return s.Iter().Classes(mask).Stream()
}

// GetElementsByGroup returns a derived stream of the direct members
// carrying any of the named groups.
func (s *Stream) GetElementsByGroup(names ...string) *Stream {
	return s.Iter().Groups(names...).Stream()
}

// GetElementsByOffset returns a derived stream of the direct members whose
// placement passes the offset filter.
func (s *Stream) GetElementsByOffset(f *OffsetFilter) *Stream {
	return s.Iter().Filter(f).Stream()
}

// GetElementsAtOffset returns a derived stream of the direct members
// starting exactly at the given offset (zero-width window defaults).
func (s *Stream) GetElementsAtOffset(off ql.QL) *Stream {
	return s.GetElementsByOffset(NewOffsetFilter(off, off))
}

// Notes returns a derived stream of the sounding direct members.
func (s *Stream) Notes() *Stream {
	return s.Iter().Notes().Stream()
}

// NotesAndRests returns a derived stream of the general-note direct
// members.
func (s *Stream) NotesAndRests() *Stream {
	return s.Iter().NotesAndRests().Stream()
}

// Voices returns a derived stream of the direct voice members.
func (s *Stream) Voices() *Stream {
	return s.GetElementsByClass(element.ClassVoice)
}

// Parts returns a derived stream of the direct part members.
func (s *Stream) Parts() *Stream {
	return s.GetElementsByClass(element.ClassPart)
}

// RecursiveIterator walks the hierarchy depth first, yielding parents
// before their children. Offsets reported by CurrentHierarchyOffset are
// relative to the root of the walk.
type RecursiveIterator struct {
	root        *Stream
	filters     []Filter
	streamsOnly bool
	includeSelf bool
	restore     bool
	started     bool
	stack       []recFrame
	curOffset   ql.QL
	curSite     *Stream
}

type recFrame struct {
	s     *Stream
	elems []element.Element
	i     int
	base  ql.QL
}

// Recurse starts a depth-first walk of the hierarchy below s.
func (s *Stream) Recurse() *RecursiveIterator {
	return &RecursiveIterator{root: s, restore: true}
}

// IncludeSelf makes the walk yield the root container first.
func (it *RecursiveIterator) IncludeSelf() *RecursiveIterator {
	it.includeSelf = true
	return it
}

// StreamsOnly restricts the walk to containers.
func (it *RecursiveIterator) StreamsOnly() *RecursiveIterator {
	it.streamsOnly = true
	return it
}

// Filter appends filters; an element must pass all of them.
func (it *RecursiveIterator) Filter(fs ...Filter) *RecursiveIterator {
	it.filters = append(it.filters, fs...)
	return it
}

// Classes keeps only elements intersecting the class mask.
func (it *RecursiveIterator) Classes(mask element.Class) *RecursiveIterator {
	return it.Filter(ClassFilter{Mask: mask})
}

// NotesAndRests keeps all general notes found anywhere in the hierarchy.
func (it *RecursiveIterator) NotesAndRests() *RecursiveIterator {
	return it.Classes(element.ClassGeneralNote)
}

// RestoreActiveSites controls whether yielded elements get their active
// site pointed at their direct parent in the walk.
func (it *RecursiveIterator) RestoreActiveSites(v bool) *RecursiveIterator {
	it.restore = v
	return it
}

// Next yields the next matching element in depth-first order.
func (it *RecursiveIterator) Next() (element.Element, bool) {
	if !it.started {
		it.started = true
		it.stack = []recFrame{{s: it.root, elems: it.root.Elements()}}
		if it.includeSelf && it.accept(it.root, ql.Zero) {
			it.curOffset = ql.Zero
			it.curSite = nil
			return it.root, true
		}
	}
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		if top.i >= len(top.elems) {
			it.stack = it.stack[:len(it.stack)-1]
			continue
		}
		e := top.elems[top.i]
		top.i++
		pos, ok := top.s.index[e.Ref()]
		if !ok {
			continue
		}
		site := top.s
		off := top.base.Add(pos.Resolve(site))
		if sub, isStream := AsStream(e); isStream {
			// Appending may grow the stack's backing array; top is not
			// touched past this point.
			it.stack = append(it.stack, recFrame{s: sub, elems: sub.Elements(), base: off})
		}
		if !it.accept(e, off) {
			continue
		}
		if it.restore {
			e.SetActiveSite(site)
		}
		it.curOffset = off
		it.curSite = site
		return e, true
	}
	return nil, false
}

func (it *RecursiveIterator) accept(e element.Element, off ql.QL) bool {
	if it.streamsOnly && !e.Classes().Matches(element.ClassStream) {
		return false
	}
	for _, f := range it.filters {
		if !f.Matches(e, off) {
			return false
		}
	}
	return true
}

// CurrentHierarchyOffset returns the offset of the last yielded element
// relative to the walk's root.
func (it *RecursiveIterator) CurrentHierarchyOffset() ql.QL {
	return it.curOffset
}

// CurrentSite returns the container the last yielded element was found in,
// or nil when the last yield was the walk's root itself.
func (it *RecursiveIterator) CurrentSite() *Stream {
	return it.curSite
}

// All drains the walk into a slice.
func (it *RecursiveIterator) All() []element.Element {
	var out []element.Element
	for e, ok := it.Next(); ok; e, ok = it.Next() {
		out = append(out, e)
	}
	return out
}
