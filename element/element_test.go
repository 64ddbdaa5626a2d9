package element

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuthbertLab/music21-sub003/ql"
)

// stubSite records one offset per ref, standing in for a real container.
type stubSite struct {
	offsets map[*Base]ql.QL
}

func newStubSite() *stubSite {
	return &stubSite{offsets: map[*Base]ql.QL{}}
}

func (s *stubSite) OffsetOf(ref *Base) (ql.QL, error) {
	off, ok := s.offsets[ref]
	if !ok {
		return ql.Zero, errors.New("not here")
	}
	return off, nil
}

func (s *stubSite) SetOffsetOf(ref *Base, off ql.QL) error {
	if _, ok := s.offsets[ref]; !ok {
		return errors.New("not here")
	}
	s.offsets[ref] = off
	return nil
}

func TestNewBaseAssignsUniqueIDs(t *testing.T) {
	t.Parallel()

	a := NewBase(ClassNote)
	b := NewBase(ClassNote)
	require.NotEmpty(t, a.ID())
	require.NotEqual(t, a.ID(), b.ID())
	require.Equal(t, ClassNote, a.Classes())
}

func TestRefIdentity(t *testing.T) {
	t.Parallel()

	a := NewBase(ClassNote)
	require.Same(t, &a, a.Ref())
}

func TestGroups(t *testing.T) {
	t.Parallel()

	b := NewBase(ClassRest)
	b.AddGroup("soprano")
	b.AddGroup("verse")
	b.AddGroup("soprano") // duplicate ignored

	assert.Equal(t, []string{"soprano", "verse"}, b.Groups())
	assert.True(t, b.HasGroup("soprano"))
	assert.False(t, b.HasGroup("alto"))

	src := []string{"alto"}
	b.SetGroups(src)
	src[0] = "mutated"
	assert.Equal(t, []string{"alto"}, b.Groups())
}

func TestNegativeDurationPanics(t *testing.T) {
	t.Parallel()

	b := NewBase(ClassNote)
	require.Panics(t, func() { b.SetDuration(ql.New(-1, 2)) })
}

func TestOffsetResolvesThroughActiveSite(t *testing.T) {
	t.Parallel()

	b := NewBase(ClassNote)
	require.NoError(t, b.SetOffset(ql.FromInt(3)))
	require.Equal(t, ql.FromInt(3), b.Offset())

	site := newStubSite()
	site.offsets[b.Ref()] = ql.New(5, 2)
	b.SetActiveSite(site)
	require.Equal(t, ql.New(5, 2), b.Offset())

	require.NoError(t, b.SetOffset(ql.FromInt(7)))
	require.Equal(t, ql.FromInt(7), b.Offset())
	require.Equal(t, ql.FromInt(7), site.offsets[b.Ref()])

	// Dropping the site falls back to the naive offset.
	b.SetActiveSite(nil)
	require.Equal(t, ql.FromInt(3), b.Offset())
}

func TestStaleSiteFallsBackToNaiveOffset(t *testing.T) {
	t.Parallel()

	b := NewBase(ClassNote)
	require.NoError(t, b.SetOffset(ql.FromInt(2)))
	b.SetActiveSite(newStubSite()) // knows nothing about b
	require.Equal(t, ql.FromInt(2), b.Offset())
}

func TestCloneBaseStripsMembership(t *testing.T) {
	t.Parallel()

	b := NewBase(ClassChord)
	b.AddGroup("g")
	b.SetPriority(-1)
	b.SetDuration(ql.New(3, 2))
	b.Editorial().OffsetQuantizationError = ql.New(1, 100)
	require.NoError(t, b.Style().SetColor("#ff0000"))

	site := newStubSite()
	site.offsets[b.Ref()] = ql.FromInt(1)
	b.SetActiveSite(site)

	cp := b.CloneBase()
	assert.Equal(t, b.ID(), cp.ID())
	assert.Equal(t, b.Groups(), cp.Groups())
	assert.Equal(t, -1, cp.Priority())
	assert.Equal(t, ql.New(3, 2), cp.Duration())
	assert.Nil(t, cp.ActiveSite())
	assert.Equal(t, ql.New(1, 100), cp.Editorial().OffsetQuantizationError)
	assert.Equal(t, "#ff0000", cp.Style().Hex())

	// The annotation records are independent copies.
	cp.Editorial().OffsetQuantizationError = ql.Zero
	assert.Equal(t, ql.New(1, 100), b.Editorial().OffsetQuantizationError)

	// Group lists do not alias.
	cp.AddGroup("other")
	assert.False(t, b.HasGroup("other"))
}

func TestClassMasks(t *testing.T) {
	t.Parallel()

	assert.True(t, ClassNote.Matches(ClassGeneralNote))
	assert.True(t, ClassRest.Matches(ClassGeneralNote))
	assert.True(t, ClassChord.Matches(ClassNotRest))
	assert.False(t, ClassRest.Matches(ClassNotRest))
	assert.True(t, (ClassVoice | ClassStream).Matches(ClassStream))
	assert.False(t, ClassClef.Matches(ClassGeneralNote))
}

func TestClassString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "None", ClassNone.String())
	assert.Equal(t, "Note", ClassNote.String())
	assert.Equal(t, "Stream|Voice", (ClassVoice | ClassStream).String())
}

func TestSortOrder(t *testing.T) {
	t.Parallel()

	assert.Equal(t, -5, SortOrder(ClassBarline))
	assert.Equal(t, 0, SortOrder(ClassClef))
	assert.Equal(t, 4, SortOrder(ClassTimeSignature))
	assert.Equal(t, 5, SortOrder(ClassVoice|ClassStream))
	assert.Equal(t, 20, SortOrder(ClassNote))
	assert.Less(t, SortOrder(ClassClef), SortOrder(ClassNote))
}
