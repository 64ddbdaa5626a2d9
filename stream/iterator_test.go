package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuthbertLab/music21-sub003/element"
	"github.com/cuthbertLab/music21-sub003/note"
	"github.com/cuthbertLab/music21-sub003/ql"
)

func TestIterSnapshotSurvivesRemoval(t *testing.T) {
	t.Parallel()

	s := New(qn("C4"), qn("D4"), qn("E4"))

	// Removing the yielded element mid-walk must not derail the walk.
	it := s.Iter().NotesAndRests()
	seen := 0
	for e, ok := it.Next(); ok; e, ok = it.Next() {
		seen++
		require.NoError(t, s.Remove(e))
	}
	assert.Equal(t, 3, seen)
	assert.True(t, s.IsEmpty())
}

func TestIterSkipsElementsRemovedBehindIt(t *testing.T) {
	t.Parallel()

	a, b, c := qn("C4"), qn("D4"), qn("E4")
	s := New(a, b, c)

	it := s.Iter()
	first, ok := it.Next()
	require.True(t, ok)
	assert.Same(t, a, first.(*note.Note))

	// b disappears from the source before the walk reaches it.
	require.NoError(t, s.Remove(b))
	second, ok := it.Next()
	require.True(t, ok)
	assert.Same(t, c, second.(*note.Note))

	_, ok = it.Next()
	assert.False(t, ok)
}

func TestIterActiveSiteRestore(t *testing.T) {
	t.Parallel()

	n := qn("C4")
	s1, s2 := New(), New()
	require.NoError(t, s1.Insert(ql.Zero, n))
	require.NoError(t, s2.Insert(ql.FromInt(5), n))
	require.True(t, n.ActiveSite() == element.Site(s2))

	// Walking s1 re-points the element at s1.
	s1.Iter().All()
	assert.Same(t, s1, n.ActiveSite().(*Stream))

	// Unless told not to.
	require.NoError(t, s2.SetElementOffset(n, ql.FromInt(5)))
	require.True(t, n.ActiveSite() == element.Site(s2))
	s1.Iter().RestoreActiveSites(false).All()
	assert.Same(t, s2, n.ActiveSite().(*Stream))
}

func TestIterResetRestartsWithFreshSnapshot(t *testing.T) {
	t.Parallel()

	s := New(qn("C4"), qn("D4"))
	it := s.Iter().NotesAndRests()
	assert.Equal(t, 2, it.Count())

	// A drained iterator rewinds and picks up membership changes made
	// since it was created.
	require.NoError(t, s.Append(qn("E4")))
	it.Reset()
	assert.Equal(t, 3, it.Count())
}

func nestedFixture(t *testing.T) (sc, p, m *Stream, n *note.Note) {
	t.Helper()
	n = en("C4")
	m = NewMeasure(1)
	require.NoError(t, m.Insert(ql.New(1, 2), n))
	p = NewPart("piano")
	require.NoError(t, p.Insert(ql.FromInt(1), m))
	sc = NewScore(p)
	return sc, p, m, n
}

func TestRecurseYieldsParentsBeforeChildren(t *testing.T) {
	t.Parallel()

	sc, p, m, n := nestedFixture(t)

	it := sc.Recurse()
	got := it.All()
	require.Len(t, got, 3)
	assert.Same(t, p, got[0].(*Stream))
	assert.Same(t, m, got[1].(*Stream))
	assert.Same(t, n, got[2].(*note.Note))
}

func TestRecurseHierarchyOffsets(t *testing.T) {
	t.Parallel()

	sc, _, _, n := nestedFixture(t)

	it := sc.Recurse().NotesAndRests()
	e, ok := it.Next()
	require.True(t, ok)
	assert.Same(t, n, e.(*note.Note))
	// 0 (part) + 1 (measure) + 1/2 (note) from the root.
	assert.Equal(t, ql.New(3, 2), it.CurrentHierarchyOffset())
}

func TestRecurseRestoresSiteToDirectParent(t *testing.T) {
	t.Parallel()

	sc, _, m, n := nestedFixture(t)

	sc.Recurse().All()
	assert.Same(t, m, n.ActiveSite().(*Stream))
}

func TestRecurseCurrentSite(t *testing.T) {
	t.Parallel()

	sc, p, m, n := nestedFixture(t)

	it := sc.Recurse().IncludeSelf()
	e, ok := it.Next()
	require.True(t, ok)
	assert.Same(t, sc, e.(*Stream))
	assert.Nil(t, it.CurrentSite())

	e, ok = it.Next()
	require.True(t, ok)
	assert.Same(t, p, e.(*Stream))
	assert.Same(t, sc, it.CurrentSite())

	it.Next()
	e, ok = it.Next()
	require.True(t, ok)
	assert.Same(t, n, e.(*note.Note))
	assert.Same(t, m, it.CurrentSite())
}

func TestRecurseStreamsOnlyAndIncludeSelf(t *testing.T) {
	t.Parallel()

	sc, _, _, _ := nestedFixture(t)

	assert.Len(t, sc.Recurse().StreamsOnly().All(), 2)
	assert.Len(t, sc.Recurse().StreamsOnly().IncludeSelf().All(), 3)
}

func TestIterEarlyStopOnSortedStream(t *testing.T) {
	t.Parallel()

	s := New()
	for i := 0; i < 8; i++ {
		require.NoError(t, s.Append(qn("C4")))
	}
	s.Sort(false)

	// The window ends long before the content does; the walk stops instead
	// of scanning to the end.
	f := NewOffsetFilter(ql.Zero, ql.FromInt(2))
	it := s.Iter().Filter(f)
	got := it.All()
	assert.Len(t, got, 3)
	assert.Less(t, it.i, 8)
}
