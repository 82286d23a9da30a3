// Package buffer implements the styled text buffer edited by the engine.
//
// The buffer is a sequence of UTF-16 code units, each one carrying its own
// Attributes. Every offset exchanged with the outside world is expressed in
// code units.
package buffer

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"
)

// AttachmentCharacter is the object replacement character standing for an attachment.
const AttachmentCharacter = '\uFFFC'

// ErrOutOfBounds is returned when a range does not fit the buffer.
var ErrOutOfBounds = errors.New("range out of bounds")

type Buffer struct {
	units []uint16
	attrs []Attributes
	// Attributes of newly inserted text
	base Attributes
}

// Run is a maximal sequence of units sharing the same attributes.
type Run struct {
	Range      Range
	Attributes Attributes
}

// New creates a buffer styled with empty attributes.
func New(text string) *Buffer {
	return NewWithAttributes(text, Attributes{})
}

// NewWithAttributes creates a buffer where every unit uses the base attributes.
func NewWithAttributes(text string, base Attributes) *Buffer {
	b := &Buffer{base: base}
	b.units = utf16.Encode([]rune(text))
	b.attrs = make([]Attributes, len(b.units))
	for i := range b.attrs {
		b.attrs[i] = base
	}
	return b
}

// Len returns the number of code units.
func (b *Buffer) Len() int {
	return len(b.units)
}

// Base returns the attributes of newly inserted text.
func (b *Buffer) Base() Attributes {
	return b.base
}

// SetBase overrides the attributes of newly inserted text.
func (b *Buffer) SetBase(base Attributes) {
	b.base = base
}

// String returns the whole text.
func (b *Buffer) String() string {
	return string(utf16.Decode(b.units))
}

// Substring returns the text of a range. Out-of-bounds ranges are clamped.
func (b *Buffer) Substring(r Range) string {
	r = b.clamp(r)
	return string(utf16.Decode(b.units[r.Location:r.End()]))
}

// UnitAt returns the code unit at the given offset.
func (b *Buffer) UnitAt(i int) uint16 {
	return b.units[i]
}

// IsAttachmentAt returns true if the unit is an attachment.
func (b *Buffer) IsAttachmentAt(i int) bool {
	return i >= 0 && i < len(b.units) && b.units[i] == AttachmentCharacter && b.attrs[i].HasAttachment()
}

// Fits returns true if the range is inside the buffer.
// Stored ranges must always be checked again before use.
func (b *Buffer) Fits(r Range) bool {
	return r.Location >= 0 && r.Length >= 0 && r.End() <= len(b.units)
}

func (b *Buffer) clamp(r Range) Range {
	start := min(max(r.Location, 0), len(b.units))
	end := min(max(r.End(), start), len(b.units))
	return RangeBetween(start, end)
}

// At returns the attributes of a unit.
func (b *Buffer) At(i int) Attributes {
	return b.attrs[i]
}

// Attributes returns a copy of the attributes of a range.
func (b *Buffer) Attributes(r Range) []Attributes {
	r = b.clamp(r)
	result := make([]Attributes, r.Length)
	copy(result, b.attrs[r.Location:r.End()])
	return result
}

// SetAttributes overwrites attributes starting at the given location.
func (b *Buffer) SetAttributes(location int, attrs []Attributes) error {
	r := NewRange(location, len(attrs))
	if !b.Fits(r) {
		return fmt.Errorf("set attributes %v on %d units: %w", r, len(b.units), ErrOutOfBounds)
	}
	copy(b.attrs[location:], attrs)
	return nil
}

// Update applies a function on the attributes of every unit of the range.
func (b *Buffer) Update(r Range, fn func(*Attributes)) {
	r = b.clamp(r)
	for i := r.Location; i < r.End(); i++ {
		fn(&b.attrs[i])
	}
}

// Replace replaces the range by a text styled with the base attributes.
// Units after the range and their attributes are shifted accordingly.
func (b *Buffer) Replace(r Range, text string) error {
	units := utf16.Encode([]rune(text))
	attrs := make([]Attributes, len(units))
	for i := range attrs {
		attrs[i] = b.base
	}
	return b.splice(r, units, attrs)
}

// Insert inserts a text at the given offset.
func (b *Buffer) Insert(at int, text string) error {
	return b.Replace(NewRange(at, 0), text)
}

// Delete removes the range.
func (b *Buffer) Delete(r Range) error {
	return b.splice(r, nil, nil)
}

// InsertAttachment replaces the range by a single attachment unit.
func (b *Buffer) InsertAttachment(r Range, attrs Attributes) error {
	return b.splice(r, []uint16{AttachmentCharacter}, []Attributes{attrs})
}

func (b *Buffer) splice(r Range, units []uint16, attrs []Attributes) error {
	if !b.Fits(r) {
		return fmt.Errorf("replace %v on %d units: %w", r, len(b.units), ErrOutOfBounds)
	}
	tailUnits := append(units, b.units[r.End():]...)
	tailAttrs := append(attrs, b.attrs[r.End():]...)
	b.units = append(b.units[:r.Location], tailUnits...)
	b.attrs = append(b.attrs[:r.Location], tailAttrs...)
	return nil
}

// FindAttachment returns the offset of the first attachment satisfying the predicate.
func (b *Buffer) FindAttachment(match func(AttachmentRef) bool) (int, bool) {
	for i, u := range b.units {
		if u == AttachmentCharacter && b.attrs[i].HasAttachment() && match(b.attrs[i].Attachment) {
			return i, true
		}
	}
	return -1, false
}

// ParagraphRange returns the range of the paragraphs covering r, including the
// trailing separator when present. Paragraphs are delimited by "\n".
func (b *Buffer) ParagraphRange(r Range) Range {
	r = b.clamp(r)
	start := r.Location
	for start > 0 && b.units[start-1] != '\n' {
		start--
	}
	end := r.Location
	if r.Length > 0 {
		end = r.End() - 1
	}
	for end < len(b.units) && b.units[end] != '\n' {
		end++
	}
	if end < len(b.units) {
		end++ // separator
	}
	return RangeBetween(start, end)
}

// ContentRange returns the paragraph range without its trailing separator.
func (b *Buffer) ContentRange(r Range) Range {
	p := b.ParagraphRange(r)
	if p.Length > 0 && b.units[p.End()-1] == '\n' {
		p.Length--
	}
	return p
}

// Runs coalesces adjacent units with equal attributes.
func (b *Buffer) Runs() []Run {
	var runs []Run
	for i := range b.units {
		if len(runs) > 0 && runs[len(runs)-1].Attributes == b.attrs[i] {
			runs[len(runs)-1].Range.Length++
			continue
		}
		runs = append(runs, Run{Range: NewRange(i, 1), Attributes: b.attrs[i]})
	}
	return runs
}

// Clone returns an independent copy.
func (b *Buffer) Clone() *Buffer {
	clone := &Buffer{
		base:  b.base,
		units: make([]uint16, len(b.units)),
		attrs: make([]Attributes, len(b.attrs)),
	}
	copy(clone.units, b.units)
	copy(clone.attrs, b.attrs)
	return clone
}

// Dump returns a readable representation of the runs, mainly for debugging.
func (b *Buffer) Dump() string {
	var sb strings.Builder
	for _, run := range b.Runs() {
		a := run.Attributes
		sb.WriteString(fmt.Sprintf("%v %q", run.Range, b.Substring(run.Range)))
		if a.Font.Bold {
			sb.WriteString(" bold")
		}
		if a.Font.Italic {
			sb.WriteString(" italic")
		}
		if a.Strikethrough {
			sb.WriteString(" strike")
		}
		if a.Foreground != "" {
			sb.WriteString(" fg=" + string(a.Foreground))
		}
		if a.Link != "" {
			sb.WriteString(" link=" + a.Link)
		}
		if a.HasAttachment() {
			sb.WriteString(" " + a.Attachment.Kind.String())
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
