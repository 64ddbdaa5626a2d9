package stream

import "github.com/cuthbertLab/music21-sub003/ql"

// Position locates an element within one container: either a numeric
// quarter-length offset or the stored-at-end token, which tracks the
// container's moving end time. The numeric form is the only one held for
// main elements; end elements always hold the token.
type Position struct {
	off   ql.QL
	atEnd bool
}

// At returns a numeric position.
func At(off ql.QL) Position {
	return Position{off: off}
}

// AtEnd returns the stored-at-end token.
func AtEnd() Position {
	return Position{atEnd: true}
}

// IsAtEnd reports whether this is the stored-at-end token.
func (p Position) IsAtEnd() bool { return p.atEnd }

// Offset returns the numeric offset, with ok=false for the end token.
func (p Position) Offset() (off ql.QL, ok bool) {
	if p.atEnd {
		return ql.Zero, false
	}
	return p.off, true
}

// Resolve returns the numeric offset, resolving the end token against the
// container's current highest time.
func (p Position) Resolve(s *Stream) ql.QL {
	if p.atEnd {
		return s.HighestTime()
	}
	return p.off
}

func (p Position) String() string {
	if p.atEnd {
		return "at end"
	}
	return p.off.String()
}
