package stream

import (
	"fmt"

	"github.com/cuthbertLab/music21-sub003/element"
	"github.com/cuthbertLab/music21-sub003/ql"
)

// QuantizeOptions configure Quantize. Divisors are candidate grid
// denominators: each offset or duration snaps to the nearest k/d over all
// given d.
type QuantizeOptions struct {
	Divisors         []int
	ProcessOffsets   bool
	ProcessDurations bool
	Recurse          bool
}

// DefaultQuantizeOptions quantize offsets and durations, descending into
// nested containers, against sixteenth notes and eighth triplets.
func DefaultQuantizeOptions() QuantizeOptions {
	return QuantizeOptions{
		Divisors:         []int{4, 3},
		ProcessOffsets:   true,
		ProcessDurations: true,
		Recurse:          true,
	}
}

// quantMatch is one candidate snapping of a value to a divisor grid,
// carrying the fields the tie-break compares.
type quantMatch struct {
	match  ql.QL
	signed ql.QL
	absErr ql.QL
	gap    ql.QL
	div    int
}

func lessQuantMatch(a, b quantMatch) bool {
	if c := a.absErr.Cmp(b.absErr); c != 0 {
		return c < 0
	}
	if c := a.gap.Cmp(b.gap); c != 0 {
		return c < 0
	}
	return a.div < b.div
}

// bestQuantMatch snaps target (non-negative) to the nearest grid point over
// the divisors. Ties break by smallest absolute error, then smallest
// leftover distance between the candidate's end (newOff plus match) and the
// next quantized onset when one is supplied, then smallest divisor. With
// zeroAllowed false a candidate that rounds to zero is bumped up to one
// grid step, so sounding notes cannot vanish.
func bestQuantMatch(target ql.QL, divisors []int, zeroAllowed bool, newOff ql.QL, nextQ *ql.QL) quantMatch {
	var best quantMatch
	for i, div := range divisors {
		tick := ql.New(1, int64(div))
		match, signed := ql.NearestMultiple(target, tick)
		if !zeroAllowed && match.IsZero() {
			match = tick
			signed = match.Sub(target)
		}
		gap := ql.Zero
		if nextQ != nil {
			gap = nextQ.Sub(newOff.Add(match)).Abs()
		}
		cand := quantMatch{match: match, signed: signed, absErr: signed.Abs(), gap: gap, div: div}
		if i == 0 || lessQuantMatch(cand, best) {
			best = cand
		}
	}
	return best
}

// Quantize snaps offsets and durations to the divisor grids, in place.
// Negative offsets quantize by magnitude with the sign restored. Durations
// of sounding elements never quantize to zero; rests may, and callers that
// want them gone remove them afterwards. When offsets are being processed,
// duration ties look ahead to the next element at a different onset so
// consecutive elements keep abutting instead of each rounding apart. The
// signed rounding error of every processed value is recorded on the
// element's editorial data, zero when the value was already on the grid.
//
// The container is sorted first; the look-ahead is only meaningful in
// offset order. With Recurse, nested containers are quantized too, each
// against its own timeline.
func (s *Stream) Quantize(opts QuantizeOptions) error {
	if len(opts.Divisors) == 0 {
		return fmt.Errorf("%w: no divisors", ErrInvalidArgument)
	}
	for _, d := range opts.Divisors {
		if d <= 0 {
			return fmt.Errorf("%w: divisor %d", ErrInvalidArgument, d)
		}
	}
	if opts.Recurse {
		subs := s.Recurse().StreamsOnly().RestoreActiveSites(false).All()
		for _, e := range subs {
			e.(*Stream).quantizeHere(opts)
		}
	}
	s.quantizeHere(opts)
	return nil
}

func (s *Stream) quantizeHere(opts QuantizeOptions) {
	s.Sort(false)
	elems := make([]element.Element, len(s.elements))
	copy(elems, s.elements)
	oldOffs := make([]ql.QL, len(elems))
	for i, e := range elems {
		oldOffs[i], _ = s.index[e.Ref()].Offset()
	}

	quantizeOffset := func(off ql.QL) (ql.QL, ql.QL) {
		m := bestQuantMatch(off.Abs(), opts.Divisors, true, ql.Zero, nil)
		if off.Sign() < 0 {
			return m.match.Neg(), m.signed.Neg()
		}
		return m.match, m.signed
	}

	changed := false
	for i, e := range elems {
		newOff := oldOffs[i]
		if opts.ProcessOffsets {
			q, signed := quantizeOffset(oldOffs[i])
			newOff = q
			s.index[e.Ref()] = At(q)
			e.Editorial().OffsetQuantizationError = signed
			changed = true
		}
		if opts.ProcessDurations {
			zeroAllowed := !e.Classes().Matches(element.ClassNotRest)
			var nextQ *ql.QL
			if opts.ProcessOffsets {
				for j := i + 1; j < len(elems); j++ {
					if oldOffs[j].Equal(oldOffs[i]) {
						continue
					}
					q, _ := quantizeOffset(oldOffs[j])
					nextQ = &q
					break
				}
			}
			m := bestQuantMatch(e.Duration(), opts.Divisors, zeroAllowed, newOff, nextQ)
			e.SetDuration(m.match)
			e.Editorial().DurationQuantizationError = m.signed
			changed = true
		}
	}
	if changed {
		s.elementsChanged()
	}
}
