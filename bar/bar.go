// Package bar provides barlines, the canonical stored-at-end elements:
// zero duration, anchored to a container's moving end time.
package bar

import (
	"fmt"

	"github.com/cuthbertLab/music21-sub003/element"
)

// Type names the visual weight of a barline.
type Type string

const (
	Regular Type = "regular"
	Double  Type = "double"
	Final   Type = "final"
)

// Barline closes a measure or a score.
type Barline struct {
	element.Base
	Type Type
}

// New returns a barline of the given type.
func New(t Type) *Barline {
	return &Barline{
		Base: element.NewBase(element.ClassBarline),
		Type: t,
	}
}

func (b *Barline) String() string {
	return fmt.Sprintf("Barline %s", b.Type)
}

// Clone returns a copy with no container membership.
func (b *Barline) Clone() element.Element {
	return &Barline{Base: b.CloneBase(), Type: b.Type}
}
