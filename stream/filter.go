package stream

import (
	"strings"

	"github.com/cuthbertLab/music21-sub003/element"
	"github.com/cuthbertLab/music21-sub003/ql"
)

// Filter decides whether an element belongs in an iteration's output. The
// offset argument is the element's resolved offset in the stream being
// iterated; filters that only look at the element itself ignore it.
type Filter interface {
	Matches(e element.Element, off ql.QL) bool
}

// earlyStopper lets a filter declare that no element at or beyond the given
// offset can ever match, so iteration over a sorted stream can stop.
type earlyStopper interface {
	pastEnd(off ql.QL) bool
}

// ClassFilter keeps elements whose classes intersect the mask.
type ClassFilter struct {
	Mask element.Class
}

func (f ClassFilter) Matches(e element.Element, _ ql.QL) bool {
	return e.Classes().Matches(f.Mask)
}

// IDFilter keeps elements whose ID matches, case-insensitively.
type IDFilter struct {
	ID string
}

func (f IDFilter) Matches(e element.Element, _ ql.QL) bool {
	return strings.EqualFold(e.ID(), f.ID)
}

// GroupFilter keeps elements carrying at least one of the named groups.
type GroupFilter struct {
	Names []string
}

func (f GroupFilter) Matches(e element.Element, _ ql.QL) bool {
	for _, name := range f.Names {
		if e.HasGroup(name) {
			return true
		}
	}
	return false
}

// OffsetFilter keeps elements by their placement against the window
// [Start, End]. The boolean knobs reproduce the full boundary matrix:
//
//   - IncludeEndBoundary: an element starting exactly at End may match.
//   - MustFinishInSpan: the element's end time may not exceed End.
//   - MustBeginInSpan: the element must start at or after Start; with it
//     off, elements still sounding across Start match too.
//   - IncludeElementsThatEndAtStart: a non-zero-length element whose end
//     time lands exactly on Start may match.
//
// A zero-width window (Start == End) matches zero-length elements only at
// exactly that point.
type OffsetFilter struct {
	Start ql.QL
	End   ql.QL

	IncludeEndBoundary            bool
	MustFinishInSpan              bool
	MustBeginInSpan               bool
	IncludeElementsThatEndAtStart bool
}

// NewOffsetFilter returns a filter over [start, end] with the default
// boundary treatment: end boundary included, elements need not finish in
// the span, must begin in it, and elements ending exactly at start count.
// A single offset is queried with start == end.
func NewOffsetFilter(start, end ql.QL) *OffsetFilter {
	return &OffsetFilter{
		Start:                         start,
		End:                           end,
		IncludeEndBoundary:            true,
		MustFinishInSpan:              false,
		MustBeginInSpan:               true,
		IncludeElementsThatEndAtStart: true,
	}
}

func (f *OffsetFilter) Matches(e element.Element, off ql.QL) bool {
	dur := e.Duration()
	elemEnd := off.Add(dur)
	zeroLength := dur.IsZero()
	zeroSpan := f.Start.Equal(f.End)

	if f.End.Less(off) {
		return false
	}
	if elemEnd.Less(f.Start) {
		return false
	}
	if zeroSpan && zeroLength {
		return off.Equal(f.Start)
	}
	if f.MustFinishInSpan {
		if f.End.Less(elemEnd) {
			return false
		}
		if !f.IncludeEndBoundary && elemEnd.Equal(f.End) {
			return false
		}
	}
	if f.MustBeginInSpan {
		if off.Less(f.Start) {
			return false
		}
		if !f.IncludeEndBoundary && f.End.LessEq(off) {
			return false
		}
	} else if !zeroLength && zeroSpan && elemEnd.Equal(f.Start) {
		return false
	}
	if !f.IncludeEndBoundary && off.Equal(f.End) {
		return false
	}
	if !f.IncludeElementsThatEndAtStart && !zeroLength && elemEnd.Equal(f.Start) {
		return false
	}
	return true
}

func (f *OffsetFilter) pastEnd(off ql.QL) bool {
	return f.End.Less(off)
}
