// Package tempo provides metronome marks and a clock-driven player that
// walks a stream in real time.
package tempo

import (
	"fmt"
	"time"

	"github.com/cuthbertLab/music21-sub003/element"
	"github.com/cuthbertLab/music21-sub003/ql"
)

// DefaultBPM is the pace assumed when a stream carries no metronome mark.
const DefaultBPM = 120.0

// MetronomeMark fixes the performance pace from its offset onward: BPM
// beats per minute, where one beat lasts Referent quarter lengths.
type MetronomeMark struct {
	element.Base
	BPM      float64
	Referent ql.QL
}

// New returns a quarter-note metronome mark. Like time.NewTicker, it
// panics on a non-positive rate.
func New(bpm float64) *MetronomeMark {
	return NewWithReferent(bpm, ql.FromInt(1))
}

// NewWithReferent returns a mark whose beat is the given note value, in
// quarter lengths. It panics when bpm or the referent is not positive.
func NewWithReferent(bpm float64, referent ql.QL) *MetronomeMark {
	if bpm <= 0 {
		panic("tempo: non-positive bpm")
	}
	if referent.Sign() <= 0 {
		panic("tempo: non-positive referent")
	}
	return &MetronomeMark{
		Base:     element.NewBase(element.ClassMetronomeMark),
		BPM:      bpm,
		Referent: referent,
	}
}

// SecondsPerQuarter converts the mark to wall-clock pace. A mark of
// quarter=120 yields 0.5; half=60 yields the same, since each beat covers
// two quarters.
func (m *MetronomeMark) SecondsPerQuarter() float64 {
	return 60.0 / (m.BPM * m.Referent.Float64())
}

// DurationOf returns the wall-clock time q quarter lengths take at this
// pace.
func (m *MetronomeMark) DurationOf(q ql.QL) time.Duration {
	return time.Duration(q.Float64() * m.SecondsPerQuarter() * float64(time.Second))
}

func (m *MetronomeMark) String() string {
	return fmt.Sprintf("MetronomeMark %s=%g", referentName(m.Referent), m.BPM)
}

// Clone returns a copy with no container membership.
func (m *MetronomeMark) Clone() element.Element {
	return &MetronomeMark{Base: m.CloneBase(), BPM: m.BPM, Referent: m.Referent}
}

func referentName(r ql.QL) string {
	switch {
	case r.Equal(ql.New(1, 4)):
		return "sixteenth"
	case r.Equal(ql.New(1, 2)):
		return "eighth"
	case r.Equal(ql.FromInt(1)):
		return "quarter"
	case r.Equal(ql.FromInt(2)):
		return "half"
	case r.Equal(ql.FromInt(4)):
		return "whole"
	}
	return r.String()
}
