// Package dynamics provides loudness marks and wedges (crescendo and
// diminuendo spanners) that can be realized into concrete note volumes.
package dynamics

import (
	"fmt"

	"github.com/fogleman/ease"

	"github.com/cuthbertLab/music21-sub003/element"
	"github.com/cuthbertLab/music21-sub003/note"
	"github.com/cuthbertLab/music21-sub003/spanner"
	"github.com/cuthbertLab/music21-sub003/stream"
)

// volumeByValue maps the canonical dynamic names to playback volume
// scalars in [0, 1].
var volumeByValue = map[string]float64{
	"n":    0,
	"pppp": 0.1,
	"ppp":  0.15,
	"pp":   0.25,
	"p":    0.35,
	"mp":   0.45,
	"mf":   0.55,
	"f":    0.7,
	"ff":   0.85,
	"fff":  0.9,
	"ffff": 0.95,
}

// Dynamic is a zero-duration loudness mark such as "p" or "ff".
type Dynamic struct {
	element.Base
	Value string
}

// New returns a dynamic mark for one of the canonical names (n, pppp
// through ffff).
func New(value string) (*Dynamic, error) {
	if _, ok := volumeByValue[value]; !ok {
		return nil, fmt.Errorf("dynamics: unknown dynamic %q", value)
	}
	return &Dynamic{
		Base:  element.NewBase(element.ClassDynamic),
		Value: value,
	}, nil
}

// MustNew is New for fixtures and tests; it panics on an unknown name.
func MustNew(value string) *Dynamic {
	d, err := New(value)
	if err != nil {
		panic(err)
	}
	return d
}

// VolumeScalar returns the playback volume for this mark.
func (d *Dynamic) VolumeScalar() float64 {
	return volumeByValue[d.Value]
}

func (d *Dynamic) String() string {
	return fmt.Sprintf("Dynamic %s", d.Value)
}

// Clone returns a copy with no container membership.
func (d *Dynamic) Clone() element.Element {
	return &Dynamic{Base: d.CloneBase(), Value: d.Value}
}

// Wedge is a gradual volume change across its member notes. StartVolume
// and EndVolume bound the change; Curve shapes how fast it moves between
// them as a function of normalized position in [0, 1].
type Wedge struct {
	spanner.Spanner
	StartVolume float64
	EndVolume   float64
	Curve       func(float64) float64
}

// NewCrescendo returns a wedge growing from quiet to loud across the given
// members.
func NewCrescendo(members ...element.Element) *Wedge {
	return &Wedge{
		Spanner:     *spanner.New("Crescendo", members...),
		StartVolume: volumeByValue["p"],
		EndVolume:   volumeByValue["f"],
		Curve:       ease.InQuart,
	}
}

// NewDiminuendo returns a wedge fading from loud to quiet across the given
// members.
func NewDiminuendo(members ...element.Element) *Wedge {
	return &Wedge{
		Spanner:     *spanner.New("Diminuendo", members...),
		StartVolume: volumeByValue["f"],
		EndVolume:   volumeByValue["p"],
		Curve:       ease.OutQuart,
	}
}

// Clone returns a copy referencing the same members until a deep copy
// rebinds them.
func (w *Wedge) Clone() element.Element {
	return &Wedge{
		Spanner:     w.CloneSpanner(),
		StartVolume: w.StartVolume,
		EndVolume:   w.EndVolume,
		Curve:       w.Curve,
	}
}

// Realize writes interpolated volumes onto the wedge's note and chord
// members, positioned by their offsets within s. The first and last member
// anchor the span; members outside s fail with that container's not-found
// error.
func (w *Wedge) Realize(s *stream.Stream) error {
	members := w.Members()
	if len(members) < 2 {
		return fmt.Errorf("dynamics: wedge needs at least two members, has %d", len(members))
	}
	first, err := s.ElementOffset(members[0])
	if err != nil {
		return err
	}
	last, err := s.ElementOffset(members[len(members)-1])
	if err != nil {
		return err
	}
	span := last.Sub(first)
	if span.Sign() <= 0 {
		return fmt.Errorf("dynamics: wedge members span no time at %s", first)
	}
	curve := w.Curve
	if curve == nil {
		curve = ease.Linear
	}
	for _, m := range members {
		off, err := s.ElementOffset(m)
		if err != nil {
			return err
		}
		t := off.Sub(first).Div(span).Float64()
		if t < 0 {
			t = 0
		}
		if t > 1 {
			t = 1
		}
		vol := w.StartVolume + (w.EndVolume-w.StartVolume)*curve(t)
		switch v := m.(type) {
		case *note.Note:
			v.Volume = vol
		case *note.Chord:
			v.Volume = vol
		}
	}
	return nil
}
