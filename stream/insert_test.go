package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuthbertLab/music21-sub003/bar"
	"github.com/cuthbertLab/music21-sub003/note"
	"github.com/cuthbertLab/music21-sub003/ql"
)

func TestInsertSharesElementsAcrossContainers(t *testing.T) {
	t.Parallel()

	n := qn("C4")
	s1, s2 := New(), New()
	require.NoError(t, s1.Insert(ql.FromInt(1), n))
	require.NoError(t, s2.Insert(ql.FromInt(5), n))

	// One element, two memberships, two offsets.
	assert.Equal(t, ql.FromInt(1), offsetOf(t, s1, n))
	assert.Equal(t, ql.FromInt(5), offsetOf(t, s2, n))

	// The element reads through its active site, which the later insert
	// claimed.
	assert.Same(t, s2, n.ActiveSite().(*Stream))
	assert.Equal(t, ql.FromInt(5), n.Offset())
}

func TestInsertRejectsDuplicatesAndSelf(t *testing.T) {
	t.Parallel()

	s := New()
	n := qn("C4")
	require.NoError(t, s.Insert(ql.Zero, n))

	err := s.Insert(ql.FromInt(1), n)
	require.ErrorIs(t, err, ErrStructuralViolation)

	err = s.Insert(ql.Zero, s)
	require.ErrorIs(t, err, ErrStructuralViolation)

	err = s.Insert(ql.Zero, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestVoicesNeverNest(t *testing.T) {
	t.Parallel()

	outer := NewVoice()
	inner := NewVoice()
	err := outer.Insert(ql.Zero, inner)
	require.ErrorIs(t, err, ErrStructuralViolation)
}

func TestInsertAtEndKeepsSortedOrderCheap(t *testing.T) {
	t.Parallel()

	s := New(qn("C4"))
	require.True(t, s.IsSorted())

	// At or past the end: no resort needed.
	require.NoError(t, s.Insert(ql.FromInt(1), qn("D4")))
	assert.True(t, s.IsSorted())

	// Strictly before the end: order is stale until the next read.
	require.NoError(t, s.Insert(ql.New(1, 2), qn("E4")))
	assert.False(t, s.IsSorted())
}

func TestAppendLaysElementsEndToEnd(t *testing.T) {
	t.Parallel()

	s := New()
	a := qn("C4")
	b := en("D4")
	c := qn("E4")
	require.NoError(t, s.Append(a, b, c))

	assert.True(t, offsetOf(t, s, a).IsZero())
	assert.Equal(t, ql.FromInt(1), offsetOf(t, s, b))
	assert.Equal(t, ql.New(3, 2), offsetOf(t, s, c))
	assert.Equal(t, ql.New(5, 2), s.HighestTime())

	// Appending continues from the highest time, not the last append.
	d := qn("F4")
	require.NoError(t, s.Insert(ql.FromInt(4), qn("G4")))
	require.NoError(t, s.Append(d))
	assert.Equal(t, ql.FromInt(5), offsetOf(t, s, d))
}

func TestStoreAtEndRejectsDuration(t *testing.T) {
	t.Parallel()

	s := New()
	err := s.StoreAtEnd(qn("C4"))
	require.ErrorIs(t, err, ErrStructuralViolation)

	require.NoError(t, s.StoreAtEnd(bar.New(bar.Final)))
}

func TestInsertAndShiftOpensAGap(t *testing.T) {
	t.Parallel()

	s := New()
	a, b, c := qn("C4"), qn("D4"), qn("E4")
	require.NoError(t, s.Append(a, b, c))

	wedged := qn("G4")
	require.NoError(t, s.InsertAndShift(ql.FromInt(1), wedged))

	assert.True(t, offsetOf(t, s, a).IsZero())
	assert.Equal(t, ql.FromInt(1), offsetOf(t, s, wedged))
	assert.Equal(t, ql.FromInt(2), offsetOf(t, s, b))
	assert.Equal(t, ql.FromInt(3), offsetOf(t, s, c))
}

func TestRepeatInsertPlacesIndependentCopies(t *testing.T) {
	t.Parallel()

	s := New()
	n := qn("C4")
	offsets := []ql.QL{ql.Zero, ql.FromInt(2), ql.FromInt(4)}
	require.NoError(t, s.RepeatInsert(n, offsets))

	notes := s.Notes().Elements()
	require.Len(t, notes, 3)
	for _, e := range notes {
		assert.NotSame(t, n, e.(*note.Note))
	}
	// The original never joined the container.
	assert.False(t, s.Contains(n))
}

func TestInsertIntoNoteOrChordMergesPitches(t *testing.T) {
	t.Parallel()

	s := New()
	target := note.MustNew("C4", ql.FromInt(2))
	require.NoError(t, s.Insert(ql.Zero, target))

	require.NoError(t, s.InsertIntoNoteOrChord(ql.FromInt(1), en("E4")))

	// The target gave way to a chord keeping its duration, placed at the
	// requested offset.
	require.False(t, s.Contains(target))
	chord := s.Notes().First().(*note.Chord)
	assert.Equal(t, ql.FromInt(2), chord.Duration())
	assert.Equal(t, ql.FromInt(1), offsetOf(t, s, chord))
	require.Len(t, chord.Pitches, 2)
	assert.Equal(t, "C4", chord.Pitches[0].String())
	assert.Equal(t, "E4", chord.Pitches[1].String())
}

func TestInsertIntoNoteOrChordWithoutTargetIsPlainInsert(t *testing.T) {
	t.Parallel()

	s := New()
	n := qn("C4")
	require.NoError(t, s.InsertIntoNoteOrChord(ql.FromInt(3), n))
	assert.Equal(t, ql.FromInt(3), offsetOf(t, s, n))
}

func TestInsertIntoNoteOrChordOverRestKeepsOnlyNewPitches(t *testing.T) {
	t.Parallel()

	s := New()
	require.NoError(t, s.Insert(ql.Zero, note.NewRest(ql.FromInt(4))))

	require.NoError(t, s.InsertIntoNoteOrChord(ql.FromInt(2), qn("A4")))

	chord := s.Notes().First().(*note.Chord)
	require.Len(t, chord.Pitches, 1)
	assert.Equal(t, "A4", chord.Pitches[0].String())
	assert.Equal(t, ql.FromInt(4), chord.Duration())
}

func TestInsertIntoNoteOrChordRejectsAmbiguousTargets(t *testing.T) {
	t.Parallel()

	s := New()
	require.NoError(t, s.Insert(ql.Zero, note.MustNew("C4", ql.FromInt(2))))
	require.NoError(t, s.Insert(ql.New(1, 2), note.MustNew("E4", ql.FromInt(2))))

	err := s.InsertIntoNoteOrChord(ql.FromInt(1), qn("G4"))
	require.ErrorIs(t, err, ErrAmbiguousOverlap)
}
