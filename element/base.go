package element

import (
	"github.com/google/uuid"
	"github.com/gruntwork-io/go-commons/collections"
	"golang.org/x/exp/slices"

	"github.com/cuthbertLab/music21-sub003/ql"
	"github.com/cuthbertLab/music21-sub003/style"
)

// Base is the common state of every element. Concrete types embed it and
// add their musical content on top.
type Base struct {
	id        string
	classes   Class
	groups    []string
	priority  int
	duration  ql.QL
	offset    ql.QL // naive offset, read when no active site is set
	site      Site
	editorial *Editorial
	styling   *style.Style
}

// NewBase returns element state for the given kind bits with a fresh
// unique id, zero duration and no group or site assignments.
func NewBase(classes Class) Base {
	return Base{
		id:      uuid.NewString(),
		classes: classes,
	}
}

// Ref returns the identity pointer of the element embedding this Base.
func (b *Base) Ref() *Base { return b }

func (b *Base) ID() string      { return b.id }
func (b *Base) SetID(id string) { b.id = id }

// Classes reports the kind bits fixed at construction.
func (b *Base) Classes() Class { return b.classes }

// SetClasses replaces the kind bits. Constructors of concrete types use
// this; reclassifying a live element is not supported.
func (b *Base) SetClasses(c Class) { b.classes = c }

// Groups returns the user-assigned group labels.
func (b *Base) Groups() []string { return b.groups }

// SetGroups replaces all group labels with a copy of gs.
func (b *Base) SetGroups(gs []string) {
	b.groups = slices.Clone(gs)
}

// AddGroup appends a label unless already present.
func (b *Base) AddGroup(g string) {
	if !collections.ListContainsElement(b.groups, g) {
		b.groups = append(b.groups, g)
	}
}

// HasGroup reports whether the label has been assigned.
func (b *Base) HasGroup(g string) bool {
	return collections.ListContainsElement(b.groups, g)
}

func (b *Base) Priority() int     { return b.priority }
func (b *Base) SetPriority(p int) { b.priority = p }

// Duration returns the stored quarter-length duration.
func (b *Base) Duration() ql.QL { return b.duration }

// SetDuration stores a new duration. Negative durations panic: they are
// construction bugs, not data.
func (b *Base) SetDuration(d ql.QL) {
	if d.Sign() < 0 {
		panic("element: negative duration")
	}
	b.duration = d
}

// Offset resolves through the active site when one is set. A stale site
// that no longer knows this element falls back to the naive offset.
func (b *Base) Offset() ql.QL {
	if b.site != nil {
		if off, err := b.site.OffsetOf(b); err == nil {
			return off
		}
	}
	return b.offset
}

// SetOffset writes through to the active site when one is set, and
// otherwise updates the naive offset.
func (b *Base) SetOffset(off ql.QL) error {
	if b.site != nil {
		return b.site.SetOffsetOf(b, off)
	}
	b.offset = off
	return nil
}

func (b *Base) ActiveSite() Site        { return b.site }
func (b *Base) SetActiveSite(site Site) { b.site = site }

// Editorial returns the annotation record, allocating it on first use.
func (b *Base) Editorial() *Editorial {
	if b.editorial == nil {
		b.editorial = &Editorial{}
	}
	return b.editorial
}

// Style returns the styling record, allocating it on first use.
func (b *Base) Style() *style.Style {
	if b.styling == nil {
		b.styling = style.New()
	}
	return b.styling
}

// CloneBase returns a copy of the element state with membership stripped:
// same id, groups, priority, duration and annotations, but no active site.
// Concrete Clone implementations build on this.
func (b *Base) CloneBase() Base {
	return Base{
		id:        b.id,
		classes:   b.classes,
		groups:    slices.Clone(b.groups),
		priority:  b.priority,
		duration:  b.duration,
		offset:    b.offset,
		editorial: b.editorial.Clone(),
		styling:   b.styling.Clone(),
	}
}
