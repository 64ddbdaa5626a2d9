package stream

import (
	"fmt"

	"github.com/cuthbertLab/music21-sub003/element"
	"github.com/cuthbertLab/music21-sub003/note"
	"github.com/cuthbertLab/music21-sub003/ql"
)

// guardAdd rejects additions that would corrupt the container. It does not
// mutate anything, so callers can guard before committing.
func (s *Stream) guardAdd(e element.Element) error {
	if e == nil {
		return fmt.Errorf("%w: nil element", ErrInvalidArgument)
	}
	if e.Ref() == s.Ref() {
		return fmt.Errorf("%w: a stream cannot contain itself", ErrStructuralViolation)
	}
	if _, dup := s.index[e.Ref()]; dup {
		return fmt.Errorf("%w: %s is already in this container", ErrStructuralViolation, e)
	}
	if s.IsVoice() && e.Classes().Matches(element.ClassVoice) {
		return fmt.Errorf("%w: voices cannot nest", ErrStructuralViolation)
	}
	return nil
}

// coreInsert places e at a numeric offset without guards, cache
// invalidation or active-site changes. Callers own all three.
func (s *Stream) coreInsert(off ql.QL, e element.Element) {
	s.elements = append(s.elements, e)
	s.index[e.Ref()] = At(off)
}

// coreStoreAtEnd is the end-section counterpart of coreInsert.
func (s *Stream) coreStoreAtEnd(e element.Element) {
	s.endElements = append(s.endElements, e)
	s.index[e.Ref()] = AtEnd()
}

// Insert places e at the given offset. The element keeps its membership in
// any other containers. Inserting at or after the current end of the
// container preserves sorted order without a resort.
func (s *Stream) Insert(off ql.QL, e element.Element) error {
	if err := s.guardAdd(e); err != nil {
		return err
	}
	keepSorted := s.isSorted && s.HighestTime().LessEq(off)
	s.coreInsert(off, e)
	e.SetActiveSite(s)
	s.elementsChanged()
	s.isSorted = keepSorted
	return nil
}

// Append places each element at the current end time, advancing it by the
// element's duration, so consecutive appends lay material end to end.
// Repeated appends are amortized constant time: the end time is tracked
// incrementally instead of rescanned.
func (s *Stream) Append(elems ...element.Element) error {
	if len(elems) == 0 {
		return nil
	}
	wasSorted := s.isSorted
	t := s.HighestTime()
	for _, e := range elems {
		if err := s.guardAdd(e); err != nil {
			return err
		}
		s.coreInsert(t, e)
		e.SetActiveSite(s)
		t = t.Add(e.Duration())
	}
	s.elementsChanged()
	s.cache.highestTime = &t
	s.isSorted = wasSorted
	return nil
}

// StoreAtEnd attaches a zero-duration element to the container's moving end
// time. Its resolved offset tracks the highest time as content changes.
func (s *Stream) StoreAtEnd(e element.Element) error {
	if err := s.guardAdd(e); err != nil {
		return err
	}
	if !e.Duration().IsZero() {
		return fmt.Errorf("%w: only zero-duration elements can be stored at end, %s has duration %s",
			ErrStructuralViolation, e, e.Duration())
	}
	s.coreStoreAtEnd(e)
	e.SetActiveSite(s)
	s.elementsChanged()
	return nil
}

// InsertAndShift inserts e at the given offset after shifting every main
// element at or after that offset later by e's duration, opening a gap
// instead of stacking material.
func (s *Stream) InsertAndShift(off ql.QL, e element.Element) error {
	if err := s.guardAdd(e); err != nil {
		return err
	}
	d := e.Duration()
	if !d.IsZero() {
		for _, other := range s.elements {
			o, _ := s.index[other.Ref()].Offset()
			if off.LessEq(o) {
				s.index[other.Ref()] = At(o.Add(d))
			}
		}
		s.elementsChanged()
	}
	return s.Insert(off, e)
}

// RepeatInsert inserts an independent copy of e at each of the offsets.
func (s *Stream) RepeatInsert(e element.Element, offsets []ql.QL) error {
	if e == nil {
		return fmt.Errorf("%w: nil element", ErrInvalidArgument)
	}
	for _, off := range offsets {
		if err := s.Insert(off, e.Clone()); err != nil {
			return err
		}
	}
	return nil
}

// InsertIntoNoteOrChord merges a note or chord into whatever general note
// sounds at the given offset. With exactly one sounding target the result
// is a chord combining the pitches (a rest contributes none), keeping the
// target's duration, inserted at the requested offset in the target's
// place. With no target this is a plain Insert. Several targets are
// ambiguous and rejected.
func (s *Stream) InsertIntoNoteOrChord(off ql.QL, e element.Element) error {
	incoming, err := pitchesOf(e)
	if err != nil {
		return err
	}
	f := NewOffsetFilter(off, off)
	f.MustBeginInSpan = false
	targets := s.Iter().NotesAndRests().Filter(f).All()
	switch len(targets) {
	case 0:
		return s.Insert(off, e)
	case 1:
		target := targets[0]
		existing, err := pitchesOf(target)
		if err != nil {
			return err
		}
		merged := note.NewChord(nil, target.Duration())
		for _, p := range existing {
			merged.AddPitch(p)
		}
		for _, p := range incoming {
			merged.AddPitch(p)
		}
		merged.SortPitches()
		if err := s.Remove(target); err != nil {
			return err
		}
		return s.Insert(off, merged)
	default:
		return fmt.Errorf("%w: %d sounding elements at %s", ErrAmbiguousOverlap, len(targets), off)
	}
}

// pitchesOf extracts the pitch content of a general note. Rests contribute
// nothing; anything else is rejected.
func pitchesOf(e element.Element) ([]note.Pitch, error) {
	switch v := e.(type) {
	case *note.Note:
		return []note.Pitch{v.Pitch}, nil
	case *note.Chord:
		return v.Pitches, nil
	case *note.Rest:
		return nil, nil
	case nil:
		return nil, fmt.Errorf("%w: nil element", ErrInvalidArgument)
	default:
		return nil, fmt.Errorf("%w: %s is not a note, chord or rest", ErrInvalidArgument, e)
	}
}
