package markdown

import (
	"github.com/julien-sobczak/the-notewriter-live/internal/buffer"
)

// Source is a text snapshot addressed in bytes (regexes) and in code units (buffer).
type Source struct {
	text   string
	index  *buffer.Index
	offset int // unit offset of the text inside the buffer
}

// NewSource creates a snapshot of a whole document.
func NewSource(text string) *Source {
	return &Source{
		text:  text,
		index: buffer.NewIndex(text),
	}
}

func (s *Source) String() string {
	return s.text
}

// Len returns the length in code units.
func (s *Source) Len() int {
	return s.index.Len()
}

// Offset returns the unit offset of the snapshot inside the buffer.
func (s *Source) Offset() int {
	return s.offset
}

// Full returns the unit range covered by the snapshot.
func (s *Source) Full() buffer.Range {
	return buffer.NewRange(s.offset, s.Len())
}

// Range converts local byte offsets into a buffer range.
func (s *Source) Range(start, end int) buffer.Range {
	return s.index.Range(start, end).Shift(s.offset)
}

// Bytes converts a buffer range into local byte offsets (clamped to the snapshot).
func (s *Source) Bytes(r buffer.Range) (int, int) {
	r = r.Shift(-s.offset).Intersect(buffer.NewRange(0, s.Len()))
	return s.index.Bytes(r)
}

// Text returns the text of a buffer range.
func (s *Source) Text(r buffer.Range) string {
	start, end := s.Bytes(r)
	return s.text[start:end]
}

// Slice returns the snapshot of a buffer range, keeping absolute unit offsets.
func (s *Source) Slice(r buffer.Range) *Source {
	start, end := s.Bytes(r)
	text := s.text[start:end]
	return &Source{
		text:   text,
		index:  buffer.NewIndex(text),
		offset: s.offset + s.index.Unit(start),
	}
}

// Lines returns the snapshot of the whole lines covering a buffer range.
func (s *Source) Lines(r buffer.Range) *Source {
	start, end := s.Bytes(r)
	for start > 0 && s.text[start-1] != '\n' {
		start--
	}
	for end < len(s.text) && s.text[end] != '\n' {
		end++
	}
	return s.Slice(s.Range(start, end))
}
