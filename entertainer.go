package main

import (
	"github.com/cuthbertLab/music21-sub003/bar"
	"github.com/cuthbertLab/music21-sub003/clef"
	"github.com/cuthbertLab/music21-sub003/dynamics"
	"github.com/cuthbertLab/music21-sub003/element"
	"github.com/cuthbertLab/music21-sub003/meter"
	"github.com/cuthbertLab/music21-sub003/note"
	"github.com/cuthbertLab/music21-sub003/ql"
	"github.com/cuthbertLab/music21-sub003/stream"
	"github.com/cuthbertLab/music21-sub003/tempo"
)

// buildEntertainerIntro assembles the opening bars of The Entertainer as a
// two-part score. The right hand is entered the way a capture device would
// deliver it, with onsets slightly off the grid, so the pipeline has real
// quantizing to do. One spot holds a long note under moving ones, which
// later forces a second voice.
func buildEntertainerIntro() (*stream.Stream, *dynamics.Wedge, error) {
	rh := stream.NewPart("right hand")
	if err := rh.Insert(ql.Zero, clef.New("G", 2)); err != nil {
		return nil, nil, err
	}
	if err := rh.Insert(ql.Zero, tempo.New(88)); err != nil {
		return nil, nil, err
	}
	if err := rh.Insert(ql.Zero, meter.MustTimeSignature("4/4")); err != nil {
		return nil, nil, err
	}

	// The pickup run, hand-entered: eighth notes that drift off the grid
	// by a few hundredths.
	run := []struct {
		name string
		off  float64
	}{
		{"D5", 0},
		{"E5", 0.51},
		{"C5", 0.99},
		{"A4", 1.5},
		{"B4", 2.02},
		{"G4", 2.5},
	}
	runNotes := make([]*note.Note, 0, len(run))
	for _, r := range run {
		n := note.MustNew(r.name, ql.FromFloat(0.48))
		if err := rh.Insert(ql.FromFloat(r.off), n); err != nil {
			return nil, nil, err
		}
		runNotes = append(runNotes, n)
	}

	// Answer phrase an octave down.
	answer := []string{"D4", "E4", "C4", "A3", "B3", "G3"}
	for i, name := range answer {
		off := ql.FromFloat(3 + 0.5*float64(i))
		if err := rh.Insert(off, note.MustNew(name, ql.New(1, 2))); err != nil {
			return nil, nil, err
		}
	}

	// A held G4 rings under the moving line here, so the part is no longer
	// a single voice.
	held := note.MustNew("G4", ql.FromInt(2))
	if err := rh.Insert(ql.FromInt(6), held); err != nil {
		return nil, nil, err
	}
	for i, name := range []string{"B4", "C5", "D5"} {
		off := ql.FromFloat(6 + 0.5*float64(i))
		if err := rh.Insert(off, note.MustNew(name, ql.New(1, 2))); err != nil {
			return nil, nil, err
		}
	}

	if err := rh.Insert(ql.FromInt(8), note.MustNewChord([]string{"C5", "E5", "G5"}, ql.FromInt(2))); err != nil {
		return nil, nil, err
	}

	// Grow through the pickup run.
	wedge := dynamics.NewCrescendo(toElements(runNotes)...)
	if err := rh.Insert(ql.Zero, wedge); err != nil {
		return nil, nil, err
	}

	lh := stream.NewPart("left hand")
	if err := lh.Insert(ql.Zero, clef.New("F", 4)); err != nil {
		return nil, nil, err
	}
	bass := []struct {
		names []string
		off   int64
	}{
		{[]string{"C3", "G3"}, 3},
		{[]string{"E3", "G3"}, 4},
		{[]string{"C3", "E3"}, 6},
		{[]string{"C2", "C3"}, 8},
	}
	for _, b := range bass {
		if err := lh.Insert(ql.FromInt(b.off), note.MustNewChord(b.names, ql.FromInt(1))); err != nil {
			return nil, nil, err
		}
	}

	if err := rh.StoreAtEnd(bar.New(bar.Final)); err != nil {
		return nil, nil, err
	}
	return stream.NewScore(rh, lh), wedge, nil
}

func toElements(ns []*note.Note) []element.Element {
	out := make([]element.Element, len(ns))
	for i, n := range ns {
		out[i] = n
	}
	return out
}
