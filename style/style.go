// Package style holds the visual attributes that can hang off any element.
// Nothing in the core containers reads these; they ride along through
// clones and edits for whatever front end eventually consumes them.
package style

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Style carries per-element presentation attributes. The zero value has no
// color set and is visible.
type Style struct {
	color    colorful.Color
	hasColor bool

	// Hidden marks an element that should be skipped by display layers.
	Hidden bool
}

// New returns an empty Style.
func New() *Style {
	return &Style{}
}

// SetColor parses a hex color such as "#1e90ff" and stores it.
func (s *Style) SetColor(hex string) error {
	c, err := colorful.Hex(hex)
	if err != nil {
		return fmt.Errorf("style: invalid color %q: %v", hex, err)
	}
	s.color = c
	s.hasColor = true
	return nil
}

// Color returns the stored color and whether one has been set.
func (s *Style) Color() (colorful.Color, bool) {
	return s.color, s.hasColor
}

// Hex renders the stored color, or "" when none is set.
func (s *Style) Hex() string {
	if !s.hasColor {
		return ""
	}
	return s.color.Hex()
}

// Clear removes any stored color.
func (s *Style) Clear() {
	s.color = colorful.Color{}
	s.hasColor = false
}

// Clone returns an independent copy.
func (s *Style) Clone() *Style {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}
