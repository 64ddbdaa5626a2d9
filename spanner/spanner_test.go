package spanner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cuthbertLab/music21-sub003/element"
	"github.com/cuthbertLab/music21-sub003/note"
	"github.com/cuthbertLab/music21-sub003/ql"
)

func slurFixture(t *testing.T) (*Spanner, *note.Note, *note.Note) {
	t.Helper()
	a := note.MustNew("C4", ql.FromInt(1))
	b := note.MustNew("D4", ql.FromInt(1))
	return NewSlur(a, b), a, b
}

func TestNewSlur(t *testing.T) {
	t.Parallel()

	sp, a, b := slurFixture(t)
	assert.Equal(t, "Slur", sp.Kind())
	assert.Same(t, a, sp.First())
	assert.Same(t, b, sp.Last())
	assert.True(t, sp.HasMember(a))
	assert.Equal(t, "Slur (2 members)", sp.String())
}

func TestAddMemberDeduplicatesAndIgnoresNil(t *testing.T) {
	t.Parallel()

	sp, a, _ := slurFixture(t)
	sp.AddMember(a)
	sp.AddMember(nil)
	assert.Len(t, sp.Members(), 2)
}

func TestEmptySpannerHasNoEndpoints(t *testing.T) {
	t.Parallel()

	sp := New("Wavy")
	assert.Nil(t, sp.First())
	assert.Nil(t, sp.Last())
}

func TestReplaceMember(t *testing.T) {
	t.Parallel()

	sp, a, b := slurFixture(t)
	repl := note.MustNew("E4", ql.FromInt(1))
	sp.ReplaceMember(a, repl)
	assert.Same(t, repl, sp.First())
	assert.False(t, sp.HasMember(a))

	// Replacing an unknown member changes nothing.
	sp.ReplaceMember(note.MustNew("F4", ql.FromInt(1)), b)
	assert.Same(t, repl, sp.First())
	assert.Same(t, b, sp.Last())
}

func TestRebindMembers(t *testing.T) {
	t.Parallel()

	sp, a, b := slurFixture(t)
	a2 := a.Clone()
	sp.RebindMembers(map[*element.Base]element.Element{a.Ref(): a2})

	assert.Same(t, a2, sp.First())
	assert.Same(t, b, sp.Last())
	assert.False(t, sp.HasMember(a))
}

func TestCloneSharesMembersUntilRebound(t *testing.T) {
	t.Parallel()

	sp, a, b := slurFixture(t)
	cp := sp.Clone().(*Spanner)
	assert.NotSame(t, sp, cp)
	assert.True(t, cp.HasMember(a))

	a2 := a.Clone()
	cp.RebindMembers(map[*element.Base]element.Element{a.Ref(): a2})
	assert.Same(t, a2, cp.First())
	assert.Same(t, a, sp.First())
	assert.Same(t, b, cp.Last())
}
