package element

import "strings"

// Class is a bitset identifying what kind of musical object an element is.
// Each concrete type carries its own bit, and container types additionally
// carry ClassStream so that "is this a container" stays a single mask test.
// Filters match on bit intersection, which makes the capability masks below
// behave like the abstract supertypes of the original model.
type Class uint32

const (
	ClassNote Class = 1 << iota
	ClassRest
	ClassChord
	ClassStream
	ClassVoice
	ClassMeasure
	ClassPart
	ClassScore
	ClassClef
	ClassKeySignature
	ClassTimeSignature
	ClassBarline
	ClassDynamic
	ClassMetronomeMark
	ClassSpanner
)

// ClassNone matches nothing.
const ClassNone Class = 0

// ClassGeneralNote matches anything with a duration a listener would hear
// as an event: notes, rests and chords.
const ClassGeneralNote = ClassNote | ClassRest | ClassChord

// ClassNotRest matches pitched events only.
const ClassNotRest = ClassNote | ClassChord

// Matches reports whether the element kinds in c intersect the mask.
func (c Class) Matches(mask Class) bool {
	return c&mask != 0
}

var classNames = []struct {
	bit  Class
	name string
}{
	{ClassNote, "Note"},
	{ClassRest, "Rest"},
	{ClassChord, "Chord"},
	{ClassStream, "Stream"},
	{ClassVoice, "Voice"},
	{ClassMeasure, "Measure"},
	{ClassPart, "Part"},
	{ClassScore, "Score"},
	{ClassClef, "Clef"},
	{ClassKeySignature, "KeySignature"},
	{ClassTimeSignature, "TimeSignature"},
	{ClassBarline, "Barline"},
	{ClassDynamic, "Dynamic"},
	{ClassMetronomeMark, "MetronomeMark"},
	{ClassSpanner, "Spanner"},
}

// String names every set bit, most specific first for container kinds.
func (c Class) String() string {
	if c == ClassNone {
		return "None"
	}
	var parts []string
	for _, cn := range classNames {
		if c&cn.bit != 0 {
			parts = append(parts, cn.name)
		}
	}
	return strings.Join(parts, "|")
}

// sortOrders fixes the tiebreak applied after offset and priority when a
// container sorts its elements. Lower values sort earlier, so barlines and
// positioning marks land before the notes that share their offset.
var sortOrders = map[Class]int{
	ClassBarline:       -5,
	ClassClef:          0,
	ClassMetronomeMark: 1,
	ClassKeySignature:  2,
	ClassTimeSignature: 4,
	ClassVoice:         5,
	ClassDynamic:       10,
}

// defaultSortOrder applies to notes, rests, chords and anything else
// without a dedicated slot.
const defaultSortOrder = 20

// SortOrder returns the fixed type-based sort tiebreak for the kinds in c.
// For multi-bit values the lowest applicable entry wins.
func SortOrder(c Class) int {
	best := defaultSortOrder
	found := false
	for bit, ord := range sortOrders {
		if c&bit != 0 && (!found || ord < best) {
			best = ord
			found = true
		}
	}
	return best
}
