// Package meter provides time signatures and their bar-duration arithmetic.
package meter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cuthbertLab/music21-sub003/element"
	"github.com/cuthbertLab/music21-sub003/ql"
)

// TimeSignature is a zero-duration element fixing the meter from its
// offset onward.
type TimeSignature struct {
	element.Base
	Numerator   int
	Denominator int
}

// NewTimeSignature builds a time signature from a string like "6/8".
func NewTimeSignature(value string) (*TimeSignature, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return nil, fmt.Errorf("meter: invalid time signature %q", value)
	}
	num, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || num < 1 {
		return nil, fmt.Errorf("meter: invalid numerator in %q", value)
	}
	den, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || den < 1 || den&(den-1) != 0 {
		return nil, fmt.Errorf("meter: invalid denominator in %q", value)
	}
	return &TimeSignature{
		Base:        element.NewBase(element.ClassTimeSignature),
		Numerator:   num,
		Denominator: den,
	}, nil
}

// MustTimeSignature is NewTimeSignature for literals; panics on bad input.
func MustTimeSignature(value string) *TimeSignature {
	ts, err := NewTimeSignature(value)
	if err != nil {
		panic(err)
	}
	return ts
}

// BarDuration returns the quarter-length of one full bar: 4/4 spans 4,
// 6/8 spans 3, 2/2 spans 4.
func (ts *TimeSignature) BarDuration() ql.QL {
	return ql.New(int64(ts.Numerator)*4, int64(ts.Denominator))
}

// Ratio renders the signature as "n/d".
func (ts *TimeSignature) Ratio() string {
	return fmt.Sprintf("%d/%d", ts.Numerator, ts.Denominator)
}

func (ts *TimeSignature) String() string {
	return fmt.Sprintf("TimeSignature %s", ts.Ratio())
}

// Clone returns a copy with no container membership.
func (ts *TimeSignature) Clone() element.Element {
	return &TimeSignature{
		Base:        ts.CloneBase(),
		Numerator:   ts.Numerator,
		Denominator: ts.Denominator,
	}
}
