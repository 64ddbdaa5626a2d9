package note

import (
	"fmt"
	"strconv"
	"strings"
)

// Pitch is a tempered pitch: a diatonic step, a chromatic alteration in
// semitones, and an octave in scientific pitch notation (C4 = middle C).
type Pitch struct {
	Step       Step
	Alteration int
	Octave     int
}

// Step is a diatonic letter name, C through B.
type Step int

const (
	StepC Step = iota
	StepD
	StepE
	StepF
	StepG
	StepA
	StepB
)

var stepNames = [7]string{"C", "D", "E", "F", "G", "A", "B"}

// semitones above C for each step.
var stepSemitones = [7]int{0, 2, 4, 5, 7, 9, 11}

func (s Step) String() string {
	if s < StepC || s > StepB {
		return "?"
	}
	return stepNames[s]
}

// NewPitch builds a pitch. It panics on a step outside C..B.
func NewPitch(step Step, alteration, octave int) Pitch {
	if step < StepC || step > StepB {
		panic(fmt.Sprintf("note: invalid step %d", int(step)))
	}
	return Pitch{Step: step, Alteration: alteration, Octave: octave}
}

// ParsePitch reads names like "C4", "F#3", "Bb5" or "G##2".
func ParsePitch(name string) (Pitch, error) {
	if name == "" {
		return Pitch{}, fmt.Errorf("note: empty pitch name")
	}
	upper := strings.ToUpper(name[:1])
	step := Step(-1)
	for i, n := range stepNames {
		if n == upper {
			step = Step(i)
			break
		}
	}
	if step < 0 {
		return Pitch{}, fmt.Errorf("note: invalid pitch name %q", name)
	}
	rest := name[1:]
	alter := 0
	i := 0
	for ; i < len(rest); i++ {
		if rest[i] == '#' {
			alter++
		} else if rest[i] == 'b' || rest[i] == '-' {
			alter--
		} else {
			break
		}
	}
	rest = rest[i:]
	if rest == "" {
		return Pitch{}, fmt.Errorf("note: pitch %q has no octave", name)
	}
	oct, err := strconv.Atoi(rest)
	if err != nil {
		return Pitch{}, fmt.Errorf("note: invalid octave in %q", name)
	}
	return Pitch{Step: step, Alteration: alter, Octave: oct}, nil
}

// MustParsePitch is ParsePitch for literals; it panics on bad input.
func MustParsePitch(name string) Pitch {
	p, err := ParsePitch(name)
	if err != nil {
		panic(err)
	}
	return p
}

// MIDI returns the MIDI key number (C4 = 60). Values outside 0..127 are
// returned as computed; range checking belongs to whatever consumes them.
func (p Pitch) MIDI() int {
	return (p.Octave+1)*12 + stepSemitones[p.Step] + p.Alteration
}

// String renders the pitch in scientific notation, e.g. "F#3".
func (p Pitch) String() string {
	var sb strings.Builder
	sb.WriteString(p.Step.String())
	for i := 0; i < p.Alteration; i++ {
		sb.WriteByte('#')
	}
	for i := 0; i > p.Alteration; i-- {
		sb.WriteByte('b')
	}
	fmt.Fprintf(&sb, "%d", p.Octave)
	return sb.String()
}

// Less orders pitches by sounding height, then by spelling.
func (p Pitch) Less(o Pitch) bool {
	if p.MIDI() != o.MIDI() {
		return p.MIDI() < o.MIDI()
	}
	if p.Step != o.Step {
		return p.Step < o.Step
	}
	return p.Alteration < o.Alteration
}
