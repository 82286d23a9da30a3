package buffer

import "fmt"

// Range is a half-open interval [Location, Location+Length) of UTF-16 code units.
type Range struct {
	Location int
	Length   int
}

// NewRange creates a range from a location and a length.
func NewRange(location, length int) Range {
	return Range{Location: location, Length: length}
}

// RangeBetween creates a range from two offsets, whatever their order.
func RangeBetween(start, end int) Range {
	if end < start {
		start, end = end, start
	}
	return Range{Location: start, Length: end - start}
}

// End returns the offset just after the range.
func (r Range) End() int {
	return r.Location + r.Length
}

// IsEmpty returns true if the range covers no unit (a caret).
func (r Range) IsEmpty() bool {
	return r.Length <= 0
}

// Contains returns true if the offset is inside the range.
func (r Range) Contains(offset int) bool {
	return offset >= r.Location && offset < r.End()
}

// ContainsRange returns true if other is entirely inside the range.
func (r Range) ContainsRange(other Range) bool {
	return other.Location >= r.Location && other.End() <= r.End()
}

// Overlaps returns true if both ranges share at least one unit.
func (r Range) Overlaps(other Range) bool {
	return r.Location < other.End() && other.Location < r.End()
}

// Intersect returns the common part of both ranges (empty when disjoint).
func (r Range) Intersect(other Range) Range {
	start := max(r.Location, other.Location)
	end := min(r.End(), other.End())
	if end < start {
		return Range{Location: start}
	}
	return RangeBetween(start, end)
}

// Union returns the smallest range covering both ranges.
func (r Range) Union(other Range) Range {
	return RangeBetween(min(r.Location, other.Location), max(r.End(), other.End()))
}

// Shift moves the range by delta units.
func (r Range) Shift(delta int) Range {
	return Range{Location: r.Location + delta, Length: r.Length}
}

func (r Range) String() string {
	return fmt.Sprintf("[%d:%d)", r.Location, r.End())
}
