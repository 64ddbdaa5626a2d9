package stream

import (
	"fmt"

	"github.com/cuthbertLab/music21-sub003/element"
	"github.com/cuthbertLab/music21-sub003/meter"
	"github.com/cuthbertLab/music21-sub003/ql"
)

// MakeMeasures reorganizes the container's content into numbered measures
// and returns the result as a new container of the same kind; the receiver
// is left untouched. The bar length comes from the first time signature
// found, 4/4 when there is none. Content is deep-copied, flattened, sliced
// at every barline so nothing sounds across one (with ties linking the
// fragments), and distributed into measures at bar-relative offsets,
// measures numbered from 1. End elements land at the end of the last
// measure. A container that already has measures is rejected.
func (s *Stream) MakeMeasures() (*Stream, error) {
	if s.HasMeasures() {
		return nil, fmt.Errorf("%w: container already has measures", ErrStructuralViolation)
	}

	work := s.CloneStream().Flatten(false)

	barDur := ql.New(4, 1)
	if tsEl := work.GetElementsByClass(element.ClassTimeSignature).First(); tsEl != nil {
		barDur = tsEl.(*meter.TimeSignature).BarDuration()
	}

	highest := work.HighestTime()
	barCount := int(highest.Div(barDur).Floor())
	if barDur.Mul(ql.FromInt(int64(barCount))).Less(highest) {
		barCount++
	}
	if barCount == 0 {
		barCount = 1
	}

	var bounds []ql.QL
	for k := 1; k < barCount; k++ {
		bounds = append(bounds, barDur.Mul(ql.FromInt(int64(k))))
	}
	if err := work.SliceAtOffsets(bounds, true); err != nil {
		return nil, err
	}

	out := newStream(s.Classes())
	out.Number = s.Number
	out.Name = s.Name
	out.setDerivation(s, "makeMeasures")

	measures := make([]*Stream, barCount)
	for k := range measures {
		m := NewMeasure(k + 1)
		m.SetDuration(barDur)
		measures[k] = m
		if err := out.Insert(barDur.Mul(ql.FromInt(int64(k))), m); err != nil {
			return nil, err
		}
	}

	work.prepareRead()
	mainElems := make([]element.Element, len(work.elements))
	copy(mainElems, work.elements)
	for _, e := range mainElems {
		off, _ := work.index[e.Ref()].Offset()
		k := int(off.Div(barDur).Floor())
		if k >= barCount {
			k = barCount - 1
		}
		if k < 0 {
			k = 0
		}
		local := off.Sub(barDur.Mul(ql.FromInt(int64(k))))
		if err := measures[k].Insert(local, e); err != nil {
			return nil, err
		}
	}
	endElems := make([]element.Element, len(work.endElements))
	copy(endElems, work.endElements)
	for _, e := range endElems {
		if err := measures[barCount-1].StoreAtEnd(e); err != nil {
			return nil, err
		}
	}
	return out, nil
}
