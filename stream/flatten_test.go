package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuthbertLab/music21-sub003/bar"
	"github.com/cuthbertLab/music21-sub003/note"
	"github.com/cuthbertLab/music21-sub003/ql"
)

func TestFlattenCumulatesOffsets(t *testing.T) {
	t.Parallel()

	n1, n2 := en("C4"), en("D4")
	m1 := NewMeasure(1)
	require.NoError(t, m1.Insert(ql.New(1, 2), n1))
	m2 := NewMeasure(2)
	require.NoError(t, m2.Insert(ql.Zero, n2))
	p := NewPart("piano")
	require.NoError(t, p.Insert(ql.Zero, m1))
	require.NoError(t, p.Insert(ql.FromInt(4), m2))

	flat := p.Flatten(false)

	assert.True(t, flat.IsFlat())
	assert.Equal(t, 2, flat.Len())
	assert.Equal(t, ql.New(1, 2), offsetOf(t, flat, n1))
	assert.Equal(t, ql.FromInt(4), offsetOf(t, flat, n2))
	assert.Same(t, p, flat.Derivation().Origin())
	assert.Equal(t, "flatten", flat.Derivation().Method())
}

func TestFlattenOfLeafOnlyContainerIsARoundTrip(t *testing.T) {
	t.Parallel()

	s := New(qn("C4"), qn("D4"), qn("E4"))

	flat := s.Flatten(false)
	require.Equal(t, s.Len(), flat.Len())
	for _, e := range s.Elements() {
		assert.Equal(t, offsetOf(t, s, e), offsetOf(t, flat, e))
	}
}

func TestFlattenSharesElements(t *testing.T) {
	t.Parallel()

	n := qn("C4")
	m := NewMeasure(1)
	require.NoError(t, m.Insert(ql.Zero, n))
	p := NewPart("piano")
	require.NoError(t, p.Insert(ql.Zero, m))

	flat := p.Flatten(false)
	flat.First().(*note.Note).Volume = 0.1

	assert.Equal(t, 0.1, n.Volume)
	// Flattening does not steal the active site.
	assert.Same(t, m, n.ActiveSite().(*Stream))
}

func TestFlattenRetainContainers(t *testing.T) {
	t.Parallel()

	m := NewMeasure(1, qn("C4"))
	p := NewPart("piano")
	require.NoError(t, p.Insert(ql.FromInt(2), m))

	semi := p.Flatten(true)

	assert.True(t, semi.Contains(m))
	assert.Equal(t, ql.FromInt(2), offsetOf(t, semi, m))
	assert.Equal(t, 2, semi.Len())
	assert.Equal(t, "semiflatten", semi.Derivation().Method())
}

func TestFlattenEndElements(t *testing.T) {
	t.Parallel()

	inner := bar.New(bar.Regular)
	m := NewMeasure(1, qn("C4"))
	require.NoError(t, m.StoreAtEnd(inner))
	p := NewPart("piano")
	require.NoError(t, p.Insert(ql.FromInt(2), m))
	require.NoError(t, p.Insert(ql.FromInt(3), qn("D4")))
	outer := bar.New(bar.Final)
	require.NoError(t, p.StoreAtEnd(outer))

	flat := p.Flatten(false)

	// The nested barline froze at its resolved spot; the root one still
	// rides the moving end.
	pos, err := flat.PositionOf(inner)
	require.NoError(t, err)
	assert.False(t, pos.IsAtEnd())
	assert.Equal(t, ql.FromInt(3), offsetOf(t, flat, inner))

	pos, err = flat.PositionOf(outer)
	require.NoError(t, err)
	assert.True(t, pos.IsAtEnd())
	assert.Equal(t, ql.FromInt(4), offsetOf(t, flat, outer))
}

func TestFlattenDeduplicatesSharedElements(t *testing.T) {
	t.Parallel()

	shared := qn("C4")
	v1, v2 := NewVoice(), NewVoice()
	require.NoError(t, v1.Insert(ql.Zero, shared))
	require.NoError(t, v2.Insert(ql.FromInt(2), shared))
	m := NewMeasure(1, v1, v2)

	flat := m.Flatten(false)

	// First path wins; the element appears once.
	assert.Equal(t, 1, flat.Len())
	assert.True(t, offsetOf(t, flat, shared).IsZero())
}

func TestFlattenViewIsCachedUntilEdit(t *testing.T) {
	t.Parallel()

	p := NewPart("piano")
	m := NewMeasure(1, qn("C4"))
	require.NoError(t, p.Insert(ql.Zero, m))

	first := p.Flatten(false)
	assert.Same(t, first, p.Flatten(false))

	// A direct edit drops the cache.
	require.NoError(t, p.Insert(ql.FromInt(4), qn("D4")))
	second := p.Flatten(false)
	assert.NotSame(t, first, second)
	assert.Equal(t, 2, second.Len())

	// An edit inside a nested container is invisible to the cache: the
	// stale view survives until the container itself changes.
	require.NoError(t, m.Append(qn("E4")))
	assert.Same(t, second, p.Flatten(false))
}
