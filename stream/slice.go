package stream

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/cuthbertLab/music21-sub003/element"
	"github.com/cuthbertLab/music21-sub003/note"
	"github.com/cuthbertLab/music21-sub003/ql"
)

// SliceAtOffsets cuts every general note whose span crosses one of the
// given offsets into contiguous fragments whose durations sum to the
// original, in place. With addTies, consecutive fragments of a note or
// chord are linked with tie markers, extending any tie the original
// carried; without it the fragments carry no ties. Offsets are relative to
// this container; containers of parts or measures are sliced recursively
// with the offsets translated into each child's timeline. Elements that
// cannot split, such as clefs, are left alone.
func (s *Stream) SliceAtOffsets(offsets []ql.QL, addTies bool) error {
	if len(offsets) == 0 {
		return nil
	}
	if s.HasParts() || s.HasMeasures() || s.HasVoices() {
		mask := element.ClassPart | element.ClassMeasure | element.ClassVoice
		for _, e := range s.GetElementsByClass(mask).Elements() {
			sub := e.(*Stream)
			subOff, err := s.ElementOffset(sub)
			if err != nil {
				return err
			}
			local := make([]ql.QL, len(offsets))
			for i, o := range offsets {
				local[i] = o.Sub(subOff)
			}
			if err := sub.SliceAtOffsets(local, addTies); err != nil {
				return err
			}
		}
	}

	cuts := make([]ql.QL, len(offsets))
	copy(cuts, offsets)
	slices.SortStableFunc(cuts, func(a, b ql.QL) bool { return a.Less(b) })

	s.prepareRead()
	elems := make([]element.Element, len(s.elements))
	copy(elems, s.elements)
	for _, e := range elems {
		if !e.Classes().Matches(element.ClassGeneralNote) {
			continue
		}
		off, _ := s.index[e.Ref()].Offset()
		end := off.Add(e.Duration())
		var inner []ql.QL
		for _, c := range cuts {
			if off.Less(c) && c.Less(end) {
				if len(inner) > 0 && inner[len(inner)-1].Equal(c) {
					continue
				}
				inner = append(inner, c)
			}
		}
		if len(inner) == 0 {
			continue
		}
		fragments, err := splitAtAll(e, off, inner, addTies)
		if err != nil {
			return err
		}
		if err := s.Remove(e); err != nil {
			return err
		}
		at := off
		for _, frag := range fragments {
			if err := s.Insert(at, frag); err != nil {
				return err
			}
			at = at.Add(frag.Duration())
		}
	}
	return nil
}

// splitAtAll splits e at each absolute cut point in ascending order,
// returning the fragments left to right. base is e's offset; cuts must lie
// strictly inside its span.
func splitAtAll(e element.Element, base ql.QL, cuts []ql.QL, addTies bool) ([]element.Element, error) {
	fragments := make([]element.Element, 0, len(cuts)+1)
	rest := e
	restStart := base
	for _, c := range cuts {
		left, right, err := splitOne(rest, c.Sub(restStart))
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, left)
		rest = right
		restStart = c
	}
	fragments = append(fragments, rest)
	if !addTies {
		for _, f := range fragments {
			clearTie(f)
		}
	}
	return fragments, nil
}

func splitOne(e element.Element, at ql.QL) (element.Element, element.Element, error) {
	switch v := e.(type) {
	case *note.Note:
		l, r, err := v.SplitAt(at)
		if err != nil {
			return nil, nil, err
		}
		return l, r, nil
	case *note.Rest:
		l, r, err := v.SplitAt(at)
		if err != nil {
			return nil, nil, err
		}
		return l, r, nil
	case *note.Chord:
		l, r, err := v.SplitAt(at)
		if err != nil {
			return nil, nil, err
		}
		return l, r, nil
	default:
		return nil, nil, fmt.Errorf("%w: %s cannot be split", ErrInvalidArgument, e)
	}
}

func clearTie(e element.Element) {
	switch v := e.(type) {
	case *note.Note:
		v.Tie = nil
	case *note.Chord:
		v.Tie = nil
	}
}
