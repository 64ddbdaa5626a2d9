package note

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuthbertLab/music21-sub003/element"
	"github.com/cuthbertLab/music21-sub003/ql"
)

func TestParsePitch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want Pitch
	}{
		{"C4", Pitch{StepC, 0, 4}},
		{"c4", Pitch{StepC, 0, 4}},
		{"F#3", Pitch{StepF, 1, 3}},
		{"Bb5", Pitch{StepB, -1, 5}},
		{"B-5", Pitch{StepB, -1, 5}},
		{"G##2", Pitch{StepG, 2, 2}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParsePitch(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePitchRejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, bad := range []string{"", "H4", "C", "C#", "C4x", "4"} {
		_, err := ParsePitch(bad)
		require.Error(t, err, "input %q", bad)
	}
}

func TestPitchMIDIAndString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 60, MustParsePitch("C4").MIDI())
	assert.Equal(t, 69, MustParsePitch("A4").MIDI())
	assert.Equal(t, 61, MustParsePitch("C#4").MIDI())
	assert.Equal(t, 58, MustParsePitch("Bb3").MIDI())
	assert.Equal(t, "F#3", MustParsePitch("F#3").String())
	assert.Equal(t, "Bb5", Pitch{StepB, -1, 5}.String())
}

func TestPitchLess(t *testing.T) {
	t.Parallel()

	assert.True(t, MustParsePitch("C4").Less(MustParsePitch("D4")))
	assert.False(t, MustParsePitch("D4").Less(MustParsePitch("C4")))
	// Enharmonic spellings order by step.
	assert.True(t, MustParsePitch("C#4").Less(MustParsePitch("Db4")))
}

func TestNewNote(t *testing.T) {
	t.Parallel()

	n := MustNew("E4", ql.FromInt(2))
	require.Equal(t, element.ClassNote, n.Classes())
	require.Equal(t, ql.FromInt(2), n.Duration())
	require.Equal(t, "Note E4", n.String())
	require.Equal(t, DefaultVolume, n.Volume)
	require.Panics(t, func() { New(MustParsePitch("C4"), ql.FromInt(-1)) })
}

func TestNoteClone(t *testing.T) {
	t.Parallel()

	n := MustNew("C4", ql.FromInt(1))
	n.Tie = NewTie(TieStart)
	n.AddGroup("melody")

	c := n.Clone().(*Note)
	require.NotSame(t, n, c)
	require.Equal(t, n.Pitch, c.Pitch)
	require.Equal(t, TieStart, c.Tie.Type)
	require.True(t, c.HasGroup("melody"))

	c.Tie.Type = TieStop
	require.Equal(t, TieStart, n.Tie.Type)
}

func TestNoteSplitAt(t *testing.T) {
	t.Parallel()

	n := MustNew("G4", ql.FromInt(4))
	left, right, err := n.SplitAt(ql.New(3, 2))
	require.NoError(t, err)

	assert.Equal(t, ql.New(3, 2), left.Duration())
	assert.Equal(t, ql.New(5, 2), right.Duration())
	assert.Equal(t, n.Duration(), left.Duration().Add(right.Duration()))
	assert.Equal(t, TieStart, left.Tie.Type)
	assert.Equal(t, TieStop, right.Tie.Type)

	// The original keeps its duration and stays untied.
	assert.Equal(t, ql.FromInt(4), n.Duration())
	assert.Nil(t, n.Tie)
}

func TestSplitTieChains(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		orig      *Tie
		wantLeft  TieType
		wantRight TieType
	}{
		{"untied", nil, TieStart, TieStop},
		{"incoming", NewTie(TieStop), TieContinue, TieStop},
		{"outgoing", NewTie(TieStart), TieStart, TieContinue},
		{"both", NewTie(TieContinue), TieContinue, TieContinue},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			n := MustNew("C4", ql.FromInt(2))
			n.Tie = tt.orig
			l, r, err := n.SplitAt(ql.FromInt(1))
			require.NoError(t, err)
			assert.Equal(t, tt.wantLeft, l.Tie.Type)
			assert.Equal(t, tt.wantRight, r.Tie.Type)
		})
	}
}

func TestSplitAtRejectsBoundaryPoints(t *testing.T) {
	t.Parallel()

	n := MustNew("C4", ql.FromInt(2))
	_, _, err := n.SplitAt(ql.Zero)
	require.Error(t, err)
	_, _, err = n.SplitAt(ql.FromInt(2))
	require.Error(t, err)
	_, _, err = n.SplitAt(ql.FromInt(3))
	require.Error(t, err)
}

func TestRest(t *testing.T) {
	t.Parallel()

	r := NewRest(ql.New(1, 2))
	require.Equal(t, element.ClassRest, r.Classes())
	require.Equal(t, "Rest", r.String())

	l, rt, err := r.SplitAt(ql.New(1, 4))
	require.NoError(t, err)
	require.Equal(t, ql.New(1, 4), l.Duration())
	require.Equal(t, ql.New(1, 4), rt.Duration())
}

func TestChord(t *testing.T) {
	t.Parallel()

	c := MustNewChord([]string{"E4", "C4", "G4"}, ql.FromInt(1))
	require.Equal(t, element.ClassChord, c.Classes())
	require.Equal(t, "Chord E4 C4 G4", c.String())

	c.SortPitches()
	require.Equal(t, "Chord C4 E4 G4", c.String())

	c.AddPitch(MustParsePitch("C4")) // duplicate ignored
	require.Len(t, c.Pitches, 3)
	c.AddPitch(MustParsePitch("B3"))
	require.Len(t, c.Pitches, 4)

	cp := c.Clone().(*Chord)
	cp.Pitches[0] = MustParsePitch("A0")
	require.Equal(t, MustParsePitch("C4"), c.Pitches[0])
}

func TestChordSplitAt(t *testing.T) {
	t.Parallel()

	c := MustNewChord([]string{"C4", "E4"}, ql.FromInt(2))
	l, r, err := c.SplitAt(ql.FromInt(1))
	require.NoError(t, err)
	require.Equal(t, c.Pitches, l.Pitches)
	require.Equal(t, c.Pitches, r.Pitches)
	require.Equal(t, TieStart, l.Tie.Type)
	require.Equal(t, TieStop, r.Tie.Type)
}
