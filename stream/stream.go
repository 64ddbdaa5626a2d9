// Package stream implements offset-indexed hierarchical containers for
// musical elements. A Stream owns no timeline of its own: every member's
// placement lives in the container's position index, keyed by element
// identity, so the same element can sit in several containers at different
// offsets at once. Containers nest freely (scores hold parts, parts hold
// measures, measures hold voices) and every derived view such as Flatten
// records where it came from.
package stream

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/cuthbertLab/music21-sub003/element"
	"github.com/cuthbertLab/music21-sub003/ql"
)

// Stream is the container type. The zero value is not usable; build streams
// with New, NewVoice, NewMeasure, NewPart or NewScore.
//
// Main elements carry numeric offsets; end elements ride at the container's
// moving end time and must have zero duration. The index map is the
// authoritative source for both.
type Stream struct {
	element.Base

	// Number identifies a measure within its part. Meaningful only for
	// streams built with NewMeasure.
	Number int

	// Name labels a part. Meaningful only for streams built with NewPart.
	Name string

	elements    []element.Element
	endElements []element.Element
	index       map[*element.Base]Position

	autoSort bool
	isSorted bool

	explicitDuration *ql.QL

	derivation *Derivation

	cache streamCache
}

// streamCache holds every derived value that membership or offset changes
// invalidate. Invalidation is en masse: elementsChanged zeroes the whole
// struct rather than tracking which entries a given edit touched.
type streamCache struct {
	flat        *Stream
	semiFlat    *Stream
	combined    []element.Element
	highestTime *ql.QL
	highestOff  *ql.QL
	lowestOff   *ql.QL
	isFlat      *bool
	hasVoices   *bool
	hasMeasures *bool
	hasParts    *bool
}

var (
	_ element.Element = (*Stream)(nil)
	_ element.Site    = (*Stream)(nil)
)

func newStream(classes element.Class) *Stream {
	return &Stream{
		Base:     element.NewBase(classes),
		index:    make(map[*element.Base]Position),
		autoSort: true,
		isSorted: true,
	}
}

// New builds a generic container. Initial elements follow the placement
// rule described in place.
//
// When every given element proposes offset zero and at least one of them is
// not a parallel container (voices, parts and plain streams represent
// synchronized material), the elements are appended one after another.
// Otherwise each is inserted at the offset it already carries.
func New(elems ...element.Element) *Stream {
	return build(newStream(element.ClassStream), elems)
}

// NewVoice builds a voice, a parallel layer within a measure.
func NewVoice(elems ...element.Element) *Stream {
	return build(newStream(element.ClassStream|element.ClassVoice), elems)
}

// NewMeasure builds a measure carrying the given number.
func NewMeasure(number int, elems ...element.Element) *Stream {
	s := newStream(element.ClassStream | element.ClassMeasure)
	s.Number = number
	return build(s, elems)
}

// NewPart builds a named part.
func NewPart(name string, elems ...element.Element) *Stream {
	s := newStream(element.ClassStream | element.ClassPart)
	s.Name = name
	return build(s, elems)
}

// NewScore builds a score, the top of the hierarchy.
func NewScore(elems ...element.Element) *Stream {
	return build(newStream(element.ClassStream|element.ClassScore), elems)
}

func build(s *Stream, elems []element.Element) *Stream {
	if len(elems) == 0 {
		return s
	}
	allZero := true
	allParallel := true
	for _, e := range elems {
		if e == nil {
			panic("stream: nil element in constructor")
		}
		if !e.Offset().IsZero() {
			allZero = false
		}
		c := e.Classes()
		if !c.Matches(element.ClassStream) || c.Matches(element.ClassMeasure|element.ClassScore) {
			allParallel = false
		}
	}
	if allZero && !allParallel {
		if err := s.Append(elems...); err != nil {
			panic(fmt.Sprintf("stream: constructor append: %v", err))
		}
		return s
	}
	for _, e := range elems {
		if err := s.Insert(e.Offset(), e); err != nil {
			panic(fmt.Sprintf("stream: constructor insert: %v", err))
		}
	}
	return s
}

// AsStream returns the container behind e, when e is one.
func AsStream(e element.Element) (*Stream, bool) {
	s, ok := e.(*Stream)
	return s, ok
}

// IsVoice reports whether this container is a voice.
func (s *Stream) IsVoice() bool { return s.Classes().Matches(element.ClassVoice) }

// IsMeasure reports whether this container is a measure.
func (s *Stream) IsMeasure() bool { return s.Classes().Matches(element.ClassMeasure) }

// IsPart reports whether this container is a part.
func (s *Stream) IsPart() bool { return s.Classes().Matches(element.ClassPart) }

// IsScore reports whether this container is a score.
func (s *Stream) IsScore() bool { return s.Classes().Matches(element.ClassScore) }

func (s *Stream) kindName() string {
	switch {
	case s.IsVoice():
		return "Voice"
	case s.IsMeasure():
		return "Measure"
	case s.IsPart():
		return "Part"
	case s.IsScore():
		return "Score"
	default:
		return "Stream"
	}
}

func (s *Stream) String() string {
	switch {
	case s.IsMeasure():
		return fmt.Sprintf("Measure %d", s.Number)
	case s.IsPart() && s.Name != "":
		return fmt.Sprintf("Part %s", s.Name)
	default:
		return fmt.Sprintf("%s (%d elements)", s.kindName(), s.Len())
	}
}

// Len returns the number of direct members, end elements included.
func (s *Stream) Len() int {
	return len(s.elements) + len(s.endElements)
}

// IsEmpty reports whether the container has no members at all.
func (s *Stream) IsEmpty() bool { return s.Len() == 0 }

// AutoSort reports whether reads sort the container on demand.
func (s *Stream) AutoSort() bool { return s.autoSort }

// SetAutoSort toggles on-demand sorting. With it off, reads see insertion
// order until Sort is called explicitly.
func (s *Stream) SetAutoSort(v bool) { s.autoSort = v }

// IsSorted reports whether the container is known to be in sorted order.
func (s *Stream) IsSorted() bool { return s.isSorted }

// elementsChanged drops every derived value after a membership or offset
// edit. Cheap to call twice; everything rebuilds lazily on the next read.
func (s *Stream) elementsChanged() {
	if s.cache.flat != nil || s.cache.semiFlat != nil {
		countEvent(metricCacheInvalidations)
	}
	s.cache = streamCache{}
	s.isSorted = false
}

// prepareRead establishes sorted order before a read that depends on it.
func (s *Stream) prepareRead() {
	if s.autoSort && !s.isSorted {
		s.Sort(false)
	}
}

// Elements returns the members in traversal order: main elements first (in
// sorted order when autoSort holds), then end elements. The slice is shared
// with the cache and must not be mutated.
func (s *Stream) Elements() []element.Element {
	s.prepareRead()
	if s.cache.combined == nil {
		combined := make([]element.Element, 0, s.Len())
		combined = append(combined, s.elements...)
		combined = append(combined, s.endElements...)
		s.cache.combined = combined
	}
	return s.cache.combined
}

// Contains reports direct membership. It never recurses.
func (s *Stream) Contains(e element.Element) bool {
	if e == nil {
		return false
	}
	_, ok := s.index[e.Ref()]
	return ok
}

// Index returns the position of e in the traversal order of Elements.
func (s *Stream) Index(e element.Element) (int, error) {
	if e == nil {
		return 0, fmt.Errorf("%w: nil element", ErrInvalidArgument)
	}
	if !s.Contains(e) {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, e)
	}
	for i, member := range s.Elements() {
		if member.Ref() == e.Ref() {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrNotFound, e)
}

// HighestTime returns the maximum end time (offset plus duration) over the
// main elements, or zero for an empty container. End elements ride at this
// time and never extend it.
func (s *Stream) HighestTime() ql.QL {
	if s.cache.highestTime == nil {
		t := ql.Zero
		for _, e := range s.elements {
			off, _ := s.index[e.Ref()].Offset()
			if end := off.Add(e.Duration()); t.Less(end) {
				t = end
			}
		}
		s.cache.highestTime = &t
	}
	return *s.cache.highestTime
}

// HighestOffset returns the greatest numeric offset among the main
// elements, or zero for an empty container.
func (s *Stream) HighestOffset() ql.QL {
	if s.cache.highestOff == nil {
		t := ql.Zero
		for _, e := range s.elements {
			off, _ := s.index[e.Ref()].Offset()
			if t.Less(off) {
				t = off
			}
		}
		s.cache.highestOff = &t
	}
	return *s.cache.highestOff
}

// LowestOffset returns the smallest numeric offset among the main elements,
// or zero for an empty container.
func (s *Stream) LowestOffset() ql.QL {
	if s.cache.lowestOff == nil {
		t := ql.Zero
		for i, e := range s.elements {
			off, _ := s.index[e.Ref()].Offset()
			if i == 0 || off.Less(t) {
				t = off
			}
		}
		s.cache.lowestOff = &t
	}
	return *s.cache.lowestOff
}

// Duration returns the explicit duration when one was set, and the highest
// time otherwise.
func (s *Stream) Duration() ql.QL {
	if s.explicitDuration != nil {
		return *s.explicitDuration
	}
	return s.HighestTime()
}

// SetDuration overrides the derived duration, for containers that must
// claim a span their content does not fill (a pickup measure, say).
func (s *Stream) SetDuration(d ql.QL) {
	if d.Sign() < 0 {
		panic("stream: negative duration")
	}
	v := d
	s.explicitDuration = &v
}

// IsFlat reports whether no direct member is itself a container.
func (s *Stream) IsFlat() bool {
	if s.cache.isFlat == nil {
		flat := true
		for _, e := range s.allMembers() {
			if e.Classes().Matches(element.ClassStream) {
				flat = false
				break
			}
		}
		s.cache.isFlat = &flat
	}
	return *s.cache.isFlat
}

// HasVoices reports whether any direct member is a voice.
func (s *Stream) HasVoices() bool {
	if s.cache.hasVoices == nil {
		v := s.anyMemberMatches(element.ClassVoice)
		s.cache.hasVoices = &v
	}
	return *s.cache.hasVoices
}

// HasMeasures reports whether any direct member is a measure.
func (s *Stream) HasMeasures() bool {
	if s.cache.hasMeasures == nil {
		v := s.anyMemberMatches(element.ClassMeasure)
		s.cache.hasMeasures = &v
	}
	return *s.cache.hasMeasures
}

// HasParts reports whether any direct member is a part.
func (s *Stream) HasParts() bool {
	if s.cache.hasParts == nil {
		v := s.anyMemberMatches(element.ClassPart)
		s.cache.hasParts = &v
	}
	return *s.cache.hasParts
}

func (s *Stream) anyMemberMatches(mask element.Class) bool {
	for _, e := range s.allMembers() {
		if e.Classes().Matches(mask) {
			return true
		}
	}
	return false
}

// allMembers iterates both sections without forcing a sort.
func (s *Stream) allMembers() []element.Element {
	if len(s.endElements) == 0 {
		return s.elements
	}
	out := make([]element.Element, 0, s.Len())
	out = append(out, s.elements...)
	out = append(out, s.endElements...)
	return out
}

// Sort orders the main elements by (offset, priority, class sort order) and
// the end elements by (priority, class sort order). Ties keep insertion
// order. With force false this is a no-op on an already sorted container.
func (s *Stream) Sort(force bool) {
	if s.isSorted && !force {
		return
	}
	countEvent(metricSorts)
	slices.SortStableFunc(s.elements, func(a, b element.Element) bool {
		oa, _ := s.index[a.Ref()].Offset()
		ob, _ := s.index[b.Ref()].Offset()
		if c := oa.Cmp(ob); c != 0 {
			return c < 0
		}
		return lessBySortTuple(a, b)
	})
	slices.SortStableFunc(s.endElements, lessBySortTuple)
	// Order-derived caches go stale; offset-derived ones survive a sort.
	s.cache.combined = nil
	s.cache.flat = nil
	s.cache.semiFlat = nil
	s.isSorted = true
}

func lessBySortTuple(a, b element.Element) bool {
	if pa, pb := a.Priority(), b.Priority(); pa != pb {
		return pa < pb
	}
	return element.SortOrder(a.Classes()) < element.SortOrder(b.Classes())
}

// First returns the first element in traversal order, or nil when empty.
func (s *Stream) First() element.Element {
	elems := s.Elements()
	if len(elems) == 0 {
		return nil
	}
	return elems[0]
}

// Last returns the last element in traversal order, or nil when empty.
func (s *Stream) Last() element.Element {
	elems := s.Elements()
	if len(elems) == 0 {
		return nil
	}
	return elems[len(elems)-1]
}

// GetElementByID returns the first direct member whose ID matches,
// case-insensitively, or nil.
func (s *Stream) GetElementByID(id string) element.Element {
	for _, e := range s.Elements() {
		if strings.EqualFold(e.ID(), id) {
			return e
		}
	}
	return nil
}

// GetElementAtOrBefore returns the member with the greatest resolved offset
// at or before the given offset, restricted to the class mask when one is
// given (pass element.ClassNone for any class). Among equal offsets the
// latest in traversal order wins. Returns nil when nothing qualifies.
func (s *Stream) GetElementAtOrBefore(off ql.QL, mask element.Class) element.Element {
	var candidate element.Element
	candOff := ql.Zero
	for _, e := range s.Elements() {
		eOff := s.index[e.Ref()].Resolve(s)
		if off.Less(eOff) {
			continue
		}
		if mask != element.ClassNone && !e.Classes().Matches(mask) {
			continue
		}
		if candidate == nil || candOff.LessEq(eOff) {
			candidate = e
			candOff = eOff
		}
	}
	return candidate
}

// Text renders the hierarchy as indented lines, one element per line with
// its resolved offset, nested containers indented beneath their parent.
func (s *Stream) Text() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", s)
	s.writeText(&sb, 1)
	return sb.String()
}

func (s *Stream) writeText(sb *strings.Builder, depth int) {
	indent := strings.Repeat("    ", depth)
	for _, e := range s.Elements() {
		off := s.index[e.Ref()].Resolve(s)
		fmt.Fprintf(sb, "%s{%s} %s\n", indent, off, e)
		if sub, ok := AsStream(e); ok {
			sub.writeText(sb, depth+1)
		}
	}
}
