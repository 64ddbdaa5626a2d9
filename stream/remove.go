package stream

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/cuthbertLab/music21-sub003/element"
	"github.com/cuthbertLab/music21-sub003/ql"
)

// RemoveOptions control batch removal. ShiftOffsets closes the hole each
// removed element leaves by moving later material earlier; Recurse searches
// nested containers for targets that are not direct members. The two cannot
// be combined, because a shift is only meaningful within one container's
// timeline.
type RemoveOptions struct {
	ShiftOffsets bool
	Recurse      bool
}

// Remove detaches a direct member, leaving all other offsets untouched. The
// element's membership in other containers survives; its active site is
// cleared only if it pointed here.
func (s *Stream) Remove(target element.Element) error {
	return s.RemoveAll([]element.Element{target}, RemoveOptions{})
}

// RemoveAll detaches the targets. With ShiftOffsets, every main element at
// or after a removed element's end time moves earlier by that element's
// duration, each subsequent shift accounting for all prior removals, so
// removing a run of adjacent elements closes the whole span.
func (s *Stream) RemoveAll(targets []element.Element, opts RemoveOptions) error {
	if opts.ShiftOffsets && opts.Recurse {
		return fmt.Errorf("%w: ShiftOffsets and Recurse cannot be combined", ErrInvalidArgument)
	}
	var direct []element.Element
	for _, t := range targets {
		if t == nil {
			return fmt.Errorf("%w: nil element", ErrInvalidArgument)
		}
		if s.Contains(t) {
			direct = append(direct, t)
			continue
		}
		if !opts.Recurse {
			return fmt.Errorf("%w: %s", ErrNotFound, t)
		}
		container := s.containerOf(t)
		if container == nil {
			return fmt.Errorf("%w: %s not found in hierarchy", ErrNotFound, t)
		}
		if err := container.Remove(t); err != nil {
			return err
		}
	}
	if len(direct) == 0 {
		return nil
	}

	// Snapshot positions before anything moves: shift regions are bounded
	// by the targets' offsets as they were at call time.
	type removal struct {
		e     element.Element
		off   ql.QL
		atEnd bool
	}
	entries := make([]removal, 0, len(direct))
	for _, t := range direct {
		pos := s.index[t.Ref()]
		off, numeric := pos.Offset()
		entries = append(entries, removal{e: t, off: off, atEnd: !numeric})
	}
	slices.SortStableFunc(entries, func(a, b removal) bool {
		if a.atEnd != b.atEnd {
			return !a.atEnd
		}
		return a.off.Less(b.off)
	})

	shift := ql.Zero
	for i, ent := range entries {
		s.pop(ent.e)
		if !opts.ShiftOffsets || ent.atEnd {
			continue
		}
		d := ent.e.Duration()
		shift = shift.Add(d)
		if shift.IsZero() {
			continue
		}
		regionStart := ent.off.Add(d)
		var regionEnd *ql.QL
		for j := i + 1; j < len(entries); j++ {
			if !entries[j].atEnd {
				regionEnd = &entries[j].off
				break
			}
		}
		for _, other := range s.elements {
			o, _ := s.index[other.Ref()].Offset()
			if o.Less(regionStart) {
				continue
			}
			if regionEnd != nil && !o.Less(*regionEnd) {
				continue
			}
			s.index[other.Ref()] = At(o.Sub(shift))
		}
	}
	s.elementsChanged()
	return nil
}

// pop splices the element out of whichever section holds it and drops its
// index entry. No cache invalidation; callers batch that.
func (s *Stream) pop(e element.Element) {
	ref := e.Ref()
	if i := slices.IndexFunc(s.elements, func(x element.Element) bool { return x.Ref() == ref }); i >= 0 {
		s.elements = slices.Delete(s.elements, i, i+1)
	} else if i := slices.IndexFunc(s.endElements, func(x element.Element) bool { return x.Ref() == ref }); i >= 0 {
		s.endElements = slices.Delete(s.endElements, i, i+1)
	}
	delete(s.index, ref)
	if e.ActiveSite() == element.Site(s) {
		e.SetActiveSite(nil)
	}
}

// containerOf finds the first nested container holding t, depth first.
func (s *Stream) containerOf(t element.Element) *Stream {
	it := s.Recurse().StreamsOnly().IncludeSelf().RestoreActiveSites(false)
	for e, ok := it.Next(); ok; e, ok = it.Next() {
		sub := e.(*Stream)
		if sub.Contains(t) {
			return sub
		}
	}
	return nil
}

// Pop removes and returns the element at the given position in traversal
// order.
func (s *Stream) Pop(i int) (element.Element, error) {
	elems := s.Elements()
	if i < 0 || i >= len(elems) {
		return nil, fmt.Errorf("%w: index %d out of range [0, %d)", ErrInvalidArgument, i, len(elems))
	}
	e := elems[i]
	if err := s.Remove(e); err != nil {
		return nil, err
	}
	return e, nil
}

// Replace swaps replacement into target's slot, keeping target's position:
// the same offset, the same place in traversal order, and stored-at-end
// status. With recurse, nested containers are searched when target is not a
// direct member. With allDerived, every stream this one was derived from
// (and their nested containers) that also holds target gets the same swap,
// so editing a flattened view corrects the source it came from.
func (s *Stream) Replace(target, replacement element.Element, recurse, allDerived bool) error {
	if target == nil || replacement == nil {
		return fmt.Errorf("%w: nil element", ErrInvalidArgument)
	}
	if _, dup := s.index[replacement.Ref()]; dup {
		return fmt.Errorf("%w: replacement %s is already in this container", ErrStructuralViolation, replacement)
	}
	pos, ok := s.index[target.Ref()]
	if !ok {
		if recurse {
			if container := s.containerOf(target); container != nil {
				return container.Replace(target, replacement, false, allDerived)
			}
		}
		return fmt.Errorf("%w: %s", ErrNotFound, target)
	}

	ref := target.Ref()
	if i := slices.IndexFunc(s.elements, func(x element.Element) bool { return x.Ref() == ref }); i >= 0 {
		s.elements[i] = replacement
	} else if i := slices.IndexFunc(s.endElements, func(x element.Element) bool { return x.Ref() == ref }); i >= 0 {
		s.endElements[i] = replacement
	}
	delete(s.index, ref)
	s.index[replacement.Ref()] = pos
	replacement.SetActiveSite(s)
	if target.ActiveSite() == element.Site(s) {
		target.SetActiveSite(nil)
	}
	wasSorted := s.isSorted
	s.elementsChanged()
	// Same offset in the same slot: order is undisturbed.
	s.isSorted = wasSorted

	if !allDerived {
		return nil
	}
	for _, origin := range s.DerivationChain() {
		it := origin.Recurse().StreamsOnly().IncludeSelf().RestoreActiveSites(false)
		for e, ok := it.Next(); ok; e, ok = it.Next() {
			sub := e.(*Stream)
			if !sub.Contains(target) {
				continue
			}
			if err := sub.Replace(target, replacement, false, false); err != nil {
				return err
			}
		}
	}
	return nil
}
