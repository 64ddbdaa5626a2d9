// Package note provides the leaf elements of a score: pitched notes,
// rests and chords, along with the tie markers that join note fragments
// across splits.
package note

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/cuthbertLab/music21-sub003/element"
	"github.com/cuthbertLab/music21-sub003/ql"
)

// DefaultVolume is the loudness assigned to fresh notes, on a 0..1 scale,
// until dynamics processing overwrites it.
const DefaultVolume = 0.7

// TieType marks how a note relates to its tied neighbors.
type TieType string

const (
	TieStart    TieType = "start"
	TieContinue TieType = "continue"
	TieStop     TieType = "stop"
)

// Tie is a tie marker attached to a note or chord.
type Tie struct {
	Type TieType
}

// NewTie returns a tie of the given type.
func NewTie(t TieType) *Tie {
	return &Tie{Type: t}
}

// Clone returns a copy, nil-safe.
func (t *Tie) Clone() *Tie {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}

// splitTies derives the tie markers for the two halves of a split element
// from the original marker. Incoming ties continue into the left half,
// outgoing ties continue out of the right half.
func splitTies(orig *Tie) (left, right *Tie) {
	left = NewTie(TieStart)
	right = NewTie(TieStop)
	if orig != nil && (orig.Type == TieStop || orig.Type == TieContinue) {
		left.Type = TieContinue
	}
	if orig != nil && (orig.Type == TieStart || orig.Type == TieContinue) {
		right.Type = TieContinue
	}
	return left, right
}

func checkSplitPoint(at, dur ql.QL) error {
	if at.Sign() <= 0 || at.Cmp(dur) >= 0 {
		return fmt.Errorf("note: split point %s outside (0, %s)", at, dur)
	}
	return nil
}

// Note is a single pitched event.
type Note struct {
	element.Base
	Pitch  Pitch
	Tie    *Tie
	Volume float64
}

// New returns a note of the given pitch and quarter-length duration.
func New(p Pitch, dur ql.QL) *Note {
	n := &Note{
		Base:   element.NewBase(element.ClassNote),
		Pitch:  p,
		Volume: DefaultVolume,
	}
	n.SetDuration(dur)
	return n
}

// MustNew builds a note from a pitch name like "F#3". It panics on a bad
// name, so it belongs in tests and fixtures, not parsing paths.
func MustNew(name string, dur ql.QL) *Note {
	return New(MustParsePitch(name), dur)
}

func (n *Note) String() string {
	return fmt.Sprintf("Note %s", n.Pitch)
}

// Clone returns a deep copy with no container membership.
func (n *Note) Clone() element.Element {
	return &Note{
		Base:   n.CloneBase(),
		Pitch:  n.Pitch,
		Tie:    n.Tie.Clone(),
		Volume: n.Volume,
	}
}

// SplitAt divides the note into two tied fragments whose durations sum to
// the original. The receiver is left untouched. The split point must fall
// strictly inside the duration.
func (n *Note) SplitAt(at ql.QL) (*Note, *Note, error) {
	if err := checkSplitPoint(at, n.Duration()); err != nil {
		return nil, nil, err
	}
	left := n.Clone().(*Note)
	right := n.Clone().(*Note)
	left.SetDuration(at)
	right.SetDuration(n.Duration().Sub(at))
	left.Tie, right.Tie = splitTies(n.Tie)
	return left, right, nil
}

// Rest is a silent event.
type Rest struct {
	element.Base
}

// NewRest returns a rest of the given duration.
func NewRest(dur ql.QL) *Rest {
	r := &Rest{Base: element.NewBase(element.ClassRest)}
	r.SetDuration(dur)
	return r
}

func (r *Rest) String() string {
	return "Rest"
}

// Clone returns a deep copy with no container membership.
func (r *Rest) Clone() element.Element {
	return &Rest{Base: r.CloneBase()}
}

// SplitAt divides the rest in two. Rests do not tie.
func (r *Rest) SplitAt(at ql.QL) (*Rest, *Rest, error) {
	if err := checkSplitPoint(at, r.Duration()); err != nil {
		return nil, nil, err
	}
	left := r.Clone().(*Rest)
	right := r.Clone().(*Rest)
	left.SetDuration(at)
	right.SetDuration(r.Duration().Sub(at))
	return left, right, nil
}

// Chord is several pitches sounding as one event.
type Chord struct {
	element.Base
	Pitches []Pitch
	Tie     *Tie
	Volume  float64
}

// NewChord returns a chord over the given pitches.
func NewChord(pitches []Pitch, dur ql.QL) *Chord {
	c := &Chord{
		Base:    element.NewBase(element.ClassChord),
		Pitches: append([]Pitch(nil), pitches...),
		Volume:  DefaultVolume,
	}
	c.SetDuration(dur)
	return c
}

// MustNewChord builds a chord from pitch names; panics on a bad name.
func MustNewChord(names []string, dur ql.QL) *Chord {
	ps := make([]Pitch, len(names))
	for i, n := range names {
		ps[i] = MustParsePitch(n)
	}
	return NewChord(ps, dur)
}

func (c *Chord) String() string {
	names := make([]string, len(c.Pitches))
	for i, p := range c.Pitches {
		names[i] = p.String()
	}
	return fmt.Sprintf("Chord %s", strings.Join(names, " "))
}

// AddPitch adds a pitch unless the chord already contains it.
func (c *Chord) AddPitch(p Pitch) {
	for _, have := range c.Pitches {
		if have == p {
			return
		}
	}
	c.Pitches = append(c.Pitches, p)
}

// SortPitches orders the chord's pitches from low to high.
func (c *Chord) SortPitches() {
	slices.SortStableFunc(c.Pitches, func(a, b Pitch) bool { return a.Less(b) })
}

// Clone returns a deep copy with no container membership.
func (c *Chord) Clone() element.Element {
	return &Chord{
		Base:    c.CloneBase(),
		Pitches: append([]Pitch(nil), c.Pitches...),
		Tie:     c.Tie.Clone(),
		Volume:  c.Volume,
	}
}

// SplitAt divides the chord into two tied fragments.
func (c *Chord) SplitAt(at ql.QL) (*Chord, *Chord, error) {
	if err := checkSplitPoint(at, c.Duration()); err != nil {
		return nil, nil, err
	}
	left := c.Clone().(*Chord)
	right := c.Clone().(*Chord)
	left.SetDuration(at)
	right.SetDuration(c.Duration().Sub(at))
	left.Tie, right.Tie = splitTies(c.Tie)
	return left, right, nil
}
