// Package clef provides clef marks: zero-duration elements that position
// staff notation. The containers treat them like any other element; their
// low sort order places them ahead of notes sharing an offset.
package clef

import (
	"fmt"

	"github.com/cuthbertLab/music21-sub003/element"
)

// Clef is a staff clef.
type Clef struct {
	element.Base

	// Sign is the clef letter: "G", "F" or "C".
	Sign string

	// Line is the staff line the sign sits on, counted from the bottom.
	Line int

	// OctaveChange shifts the clef by octaves, e.g. -1 for a tenor G clef.
	OctaveChange int
}

// New returns a clef with the given sign and line.
func New(sign string, line int) *Clef {
	return &Clef{
		Base: element.NewBase(element.ClassClef),
		Sign: sign,
		Line: line,
	}
}

// Treble returns a G clef on line 2.
func Treble() *Clef { return New("G", 2) }

// Bass returns an F clef on line 4.
func Bass() *Clef { return New("F", 4) }

// Alto returns a C clef on line 3.
func Alto() *Clef { return New("C", 3) }

func (c *Clef) String() string {
	if c.OctaveChange != 0 {
		return fmt.Sprintf("Clef %s%d (8va %+d)", c.Sign, c.Line, c.OctaveChange)
	}
	return fmt.Sprintf("Clef %s%d", c.Sign, c.Line)
}

// Clone returns a copy with no container membership.
func (c *Clef) Clone() element.Element {
	return &Clef{
		Base:         c.CloneBase(),
		Sign:         c.Sign,
		Line:         c.Line,
		OctaveChange: c.OctaveChange,
	}
}
