package stream

import (
	"fmt"
	"strconv"

	"github.com/cuthbertLab/music21-sub003/element"
	"github.com/cuthbertLab/music21-sub003/note"
	"github.com/cuthbertLab/music21-sub003/ql"
)

// findLayering returns the sorted main elements, their offsets, and for
// each one the indices of the others it overlaps in time. Two spans overlap
// when each starts strictly before the other ends, so elements that merely
// touch do not overlap, and a zero-length element overlaps nothing that
// starts where it stands. With includeCoincident, exact end-to-start
// adjacency counts as overlap too.
func (s *Stream) findLayering(includeCoincident bool) ([]element.Element, []ql.QL, [][]int) {
	s.prepareRead()
	elems := make([]element.Element, len(s.elements))
	copy(elems, s.elements)
	offs := make([]ql.QL, len(elems))
	ends := make([]ql.QL, len(elems))
	for i, e := range elems {
		off, _ := s.index[e.Ref()].Offset()
		offs[i] = off
		ends[i] = off.Add(e.Duration())
	}
	layering := make([][]int, len(elems))
	for i := range elems {
		for j := i + 1; j < len(elems); j++ {
			if includeCoincident {
				if ends[i].Less(offs[j]) {
					break
				}
			} else if !offs[j].Less(ends[i]) {
				break
			}
			layering[i] = append(layering[i], j)
			layering[j] = append(layering[j], i)
		}
	}
	return elems, offs, layering
}

// GetOverlaps groups the direct members that overlap at least one other
// member, one group per distinct start offset, groups ordered by offset.
func (s *Stream) GetOverlaps() [][]element.Element {
	elems, offs, layering := s.findLayering(false)
	groupAt := make(map[string]int)
	var groups [][]element.Element
	for i, over := range layering {
		if len(over) == 0 {
			continue
		}
		key := offs[i].String()
		gi, ok := groupAt[key]
		if !ok {
			gi = len(groups)
			groups = append(groups, nil)
			groupAt[key] = gi
		}
		groups[gi] = append(groups[gi], elems[i])
	}
	return groups
}

// IsSequence reports whether the direct members form one non-overlapping
// line. With includeCoincident, members that merely touch end to start
// disqualify the stream too.
func (s *Stream) IsSequence(includeCoincident bool) bool {
	_, _, layering := s.findLayering(includeCoincident)
	for _, over := range layering {
		if len(over) > 0 {
			return false
		}
	}
	return true
}

// MakeVoices distributes overlapping sounding elements into parallel
// voices, in place. The number of voices is one more than the largest
// number of others any single element overlaps; each element, in offset
// order, lands in the first voice whose end time has been reached. Voices
// are inserted at offset zero with IDs "1", "2", and so on; rests and
// non-note elements stay direct members. Nothing happens when no sounding
// elements overlap. With fillGaps, each voice is padded with hidden rests
// so it sounds through its full span.
func (s *Stream) MakeVoices(fillGaps bool) error {
	soundingView := s.Notes()
	notes, offs, layering := soundingView.findLayering(false)
	maxOverlap := 0
	for _, over := range layering {
		if len(over) > maxOverlap {
			maxOverlap = len(over)
		}
	}
	if maxOverlap == 0 {
		return nil
	}
	voiceCount := maxOverlap + 1
	voices := make([]*Stream, voiceCount)
	for i := range voices {
		voices[i] = NewVoice()
		voices[i].SetID(strconv.Itoa(i + 1))
	}
	for i, e := range notes {
		placed := false
		for _, v := range voices {
			if v.HighestTime().LessEq(offs[i]) {
				if err := v.Insert(offs[i], e); err != nil {
					return err
				}
				placed = true
				break
			}
		}
		if !placed {
			return fmt.Errorf("%w: no voice free at %s for %s", ErrAmbiguousOverlap, offs[i], e)
		}
	}
	if err := s.RemoveAll(notes, RemoveOptions{}); err != nil {
		return err
	}
	for _, v := range voices {
		if v.IsEmpty() {
			continue
		}
		if fillGaps {
			if err := v.MakeRests(true); err != nil {
				return err
			}
		}
		if err := s.Insert(ql.Zero, v); err != nil {
			return err
		}
	}
	return nil
}

// Gap is a span within a container where nothing sounds.
type Gap struct {
	Offset   ql.QL
	Duration ql.QL
}

// FindGaps returns the maximal uncovered spans between offset zero and the
// container's highest time, in order. End elements occupy no time and leave
// no gaps.
func (s *Stream) FindGaps() []Gap {
	s.prepareRead()
	var gaps []Gap
	covered := ql.Zero
	for _, e := range s.elements {
		off, _ := s.index[e.Ref()].Offset()
		if covered.Less(off) {
			gaps = append(gaps, Gap{Offset: covered, Duration: off.Sub(covered)})
		}
		if end := off.Add(e.Duration()); covered.Less(end) {
			covered = end
		}
	}
	return gaps
}

// IsGapless reports whether the container sounds continuously from zero to
// its highest time.
func (s *Stream) IsGapless() bool {
	return len(s.FindGaps()) == 0
}

// MakeRests fills every gap with a rest of exactly the gap's duration, in
// place. With hidden, the rests are styled hidden so rendering passes skip
// them.
func (s *Stream) MakeRests(hidden bool) error {
	for _, g := range s.FindGaps() {
		r := note.NewRest(g.Duration)
		if hidden {
			r.Style().Hidden = true
		}
		if err := s.Insert(g.Offset, r); err != nil {
			return err
		}
	}
	return nil
}

// FlattenUnnecessaryVoices removes empty voices and, when at most one voice
// remains (or force is set), splices the survivors' contents back into the
// container at their absolute offsets, in place. A voice's end elements
// land at the offset they resolved to inside the voice.
func (s *Stream) FlattenUnnecessaryVoices(force bool) error {
	var keep []*Stream
	for _, e := range s.Voices().Elements() {
		v := e.(*Stream)
		if v.IsEmpty() {
			if err := s.Remove(v); err != nil {
				return err
			}
			continue
		}
		keep = append(keep, v)
	}
	if len(keep) == 0 {
		return nil
	}
	if len(keep) > 1 && !force {
		return nil
	}
	for _, v := range keep {
		vOff, err := s.ElementOffset(v)
		if err != nil {
			return err
		}
		members := v.Elements()
		resolved := make([]ql.QL, len(members))
		for i, e := range members {
			resolved[i] = v.index[e.Ref()].Resolve(v)
		}
		for i, e := range members {
			if err := v.Remove(e); err != nil {
				return err
			}
			if err := s.Insert(vOff.Add(resolved[i]), e); err != nil {
				return err
			}
		}
		if err := s.Remove(v); err != nil {
			return err
		}
	}
	return nil
}

// VoicesToParts explodes voice layers into parallel parts of a new score.
// For a container of measures, each part receives a measure of the same
// number and span holding one voice slot's content; shared non-voice
// content (clefs, signatures, barlines) is merged into every part's
// measure. By default voices map to parts by position within their
// measure; with separateByID they align by voice ID across measures, one
// part per distinct ID in order of first appearance, which keeps lines
// together when voice order varies measure to measure. For a flat
// container with voices, each voice becomes a part directly. Elements are
// shared with the source, not copied.
func (s *Stream) VoicesToParts(separateByID bool) (*Stream, error) {
	score := NewScore()
	score.setDerivation(s, "voicesToParts")

	if s.HasMeasures() {
		return s.measureVoicesToParts(score, separateByID)
	}

	voiceList := s.Voices().Elements()
	partCount := len(voiceList)
	if partCount == 0 {
		partCount = 1
	}
	parts, err := newVoiceParts(score, partCount)
	if err != nil {
		return nil, err
	}
	for _, p := range parts {
		if err := spliceNonVoices(s, p); err != nil {
			return nil, err
		}
	}
	for i, ve := range voiceList {
		v := ve.(*Stream)
		vOff, err := s.ElementOffset(v)
		if err != nil {
			return nil, err
		}
		if err := spliceContents(v, parts[i], vOff); err != nil {
			return nil, err
		}
	}
	return score, nil
}

func (s *Stream) measureVoicesToParts(score *Stream, separateByID bool) (*Stream, error) {
	var measures []*Stream
	for _, e := range s.GetElementsByClass(element.ClassMeasure).Elements() {
		measures = append(measures, e.(*Stream))
	}

	// Decide the part layout: positional slots, or one slot per distinct
	// voice ID in order of first appearance.
	partCount := 0
	slotByID := make(map[string]int)
	for _, m := range measures {
		for i, ve := range m.Voices().Elements() {
			if separateByID {
				id := ve.ID()
				if _, ok := slotByID[id]; !ok {
					slotByID[id] = len(slotByID)
				}
			} else if i+1 > partCount {
				partCount = i + 1
			}
		}
	}
	if separateByID {
		partCount = len(slotByID)
	}
	if partCount == 0 {
		partCount = 1
	}
	parts, err := newVoiceParts(score, partCount)
	if err != nil {
		return nil, err
	}

	for _, m := range measures {
		mOff, err := s.ElementOffset(m)
		if err != nil {
			return nil, err
		}
		voiceBySlot := make(map[int]*Stream)
		for i, ve := range m.Voices().Elements() {
			v := ve.(*Stream)
			slot := i
			if separateByID {
				slot = slotByID[v.ID()]
			}
			voiceBySlot[slot] = v
		}
		for slot, p := range parts {
			pm := NewMeasure(m.Number)
			pm.SetDuration(m.Duration())
			if err := spliceNonVoices(m, pm); err != nil {
				return nil, err
			}
			if v, ok := voiceBySlot[slot]; ok {
				if err := spliceContents(v, pm, ql.Zero); err != nil {
					return nil, err
				}
			}
			if err := p.Insert(mOff, pm); err != nil {
				return nil, err
			}
		}
	}
	return score, nil
}

func newVoiceParts(score *Stream, n int) ([]*Stream, error) {
	parts := make([]*Stream, n)
	for i := range parts {
		parts[i] = NewPart("v" + strconv.Itoa(i))
		if err := score.Insert(ql.Zero, parts[i]); err != nil {
			return nil, err
		}
	}
	return parts, nil
}

// spliceContents shares src's members into dst, shifted by base. End
// elements land at their resolved offsets.
func spliceContents(src, dst *Stream, base ql.QL) error {
	for _, e := range src.Elements() {
		off := src.index[e.Ref()].Resolve(src)
		if err := dst.Insert(base.Add(off), e); err != nil {
			return err
		}
	}
	return nil
}

// spliceNonVoices shares src's direct non-voice members into dst at their
// own offsets.
func spliceNonVoices(src, dst *Stream) error {
	for _, e := range src.Elements() {
		if e.Classes().Matches(element.ClassVoice) {
			continue
		}
		off := src.index[e.Ref()].Resolve(src)
		if err := dst.Insert(off, e); err != nil {
			return err
		}
	}
	return nil
}
