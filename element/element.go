// Package element defines the contract between timed musical objects and
// the containers that hold them.
//
// An element is a shared reference: the same Note may belong to several
// containers at once, each membership carrying its own offset. The element
// itself stores only a single mutable "active site" pointer naming which of
// those containers its Offset method currently reads through, plus a naive
// offset used when it belongs to nothing. Identity is the *Base pointer
// every element embeds, which is what containers key their offset tables by.
package element

import (
	"fmt"

	"github.com/cuthbertLab/music21-sub003/ql"
	"github.com/cuthbertLab/music21-sub003/style"
)

// Site is the container-side interface an element resolves offsets through.
// It is implemented by stream.Stream.
type Site interface {
	// OffsetOf returns the offset of the element identified by ref within
	// this site, resolving stored-at-end entries to the current end time.
	OffsetOf(ref *Base) (ql.QL, error)

	// SetOffsetOf moves the element identified by ref to a new offset
	// within this site.
	SetOffsetOf(ref *Base, off ql.QL) error
}

// Element is the minimal contract a container needs from its contents.
// Concrete kinds (notes, rests, chords, marks, nested containers) embed
// Base, which supplies everything except Clone and String.
type Element interface {
	fmt.Stringer

	// Ref returns the identity of this element. Two Element values are the
	// same element exactly when their Refs are equal.
	Ref() *Base

	ID() string
	SetID(string)

	// Classes reports the kind bits used for filter matching.
	Classes() Class

	Groups() []string
	SetGroups([]string)
	AddGroup(string)
	HasGroup(string) bool

	Priority() int
	SetPriority(int)

	Duration() ql.QL
	SetDuration(ql.QL)

	// Offset resolves against the active site when one is set, and
	// otherwise returns the naive stored offset.
	Offset() ql.QL

	// SetOffset writes through to the active site when one is set.
	SetOffset(ql.QL) error

	ActiveSite() Site
	SetActiveSite(Site)

	Editorial() *Editorial
	Style() *style.Style

	// Clone returns a deep copy of the element's content. The copy belongs
	// to no container and has no active site.
	Clone() Element
}

// Editorial carries analysis annotations that are not part of the musical
// content proper. Quantization writes its signed rounding errors here.
type Editorial struct {
	OffsetQuantizationError   ql.QL
	DurationQuantizationError ql.QL
}

// Clone returns an independent copy.
func (e *Editorial) Clone() *Editorial {
	if e == nil {
		return nil
	}
	cp := *e
	return &cp
}
