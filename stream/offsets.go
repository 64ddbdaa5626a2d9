package stream

import (
	"fmt"

	"github.com/cuthbertLab/music21-sub003/element"
	"github.com/cuthbertLab/music21-sub003/ql"
)

// OffsetOf implements element.Site: it resolves the offset of the element
// identified by ref within this container. End elements resolve to the
// container's current highest time.
func (s *Stream) OffsetOf(ref *element.Base) (ql.QL, error) {
	pos, ok := s.index[ref]
	if !ok {
		return ql.Zero, fmt.Errorf("%w: element is not in this container", ErrNotFound)
	}
	return pos.Resolve(s), nil
}

// SetOffsetOf implements element.Site: it moves the element identified by
// ref to a new numeric offset. End elements cannot be moved numerically;
// remove and re-insert instead.
func (s *Stream) SetOffsetOf(ref *element.Base, off ql.QL) error {
	pos, ok := s.index[ref]
	if !ok {
		return fmt.Errorf("%w: element is not in this container", ErrNotFound)
	}
	if pos.IsAtEnd() {
		return fmt.Errorf("%w: element is stored at end; remove and re-insert to give it a fixed offset", ErrStructuralViolation)
	}
	s.index[ref] = At(off)
	s.elementsChanged()
	return nil
}

// SetElementOffset moves a member to a new numeric offset within this
// container only; the element's placement in other containers is
// untouched. The container becomes the element's active site.
func (s *Stream) SetElementOffset(e element.Element, off ql.QL) error {
	if e == nil {
		return fmt.Errorf("%w: nil element", ErrInvalidArgument)
	}
	if err := s.SetOffsetOf(e.Ref(), off); err != nil {
		return err
	}
	e.SetActiveSite(s)
	return nil
}

// ElementOffset returns e's resolved offset within this container.
func (s *Stream) ElementOffset(e element.Element) (ql.QL, error) {
	if e == nil {
		return ql.Zero, fmt.Errorf("%w: nil element", ErrInvalidArgument)
	}
	return s.OffsetOf(e.Ref())
}

// PositionOf returns e's raw position, distinguishing numeric offsets from
// the stored-at-end token.
func (s *Stream) PositionOf(e element.Element) (Position, error) {
	if e == nil {
		return Position{}, fmt.Errorf("%w: nil element", ErrInvalidArgument)
	}
	pos, ok := s.index[e.Ref()]
	if !ok {
		return Position{}, fmt.Errorf("%w: element is not in this container", ErrNotFound)
	}
	return pos, nil
}

