package buffer

import (
	"unicode/utf16"
	"unicode/utf8"
)

// Index converts byte offsets of a Go string into UTF-16 code unit offsets and back.
// Regular expressions report byte offsets while the buffer is addressed in code units.
type Index struct {
	// units[i] is the unit offset of byte i (len(text)+1 entries)
	units []int
	// bytes[u] is the byte offset of unit u (units+1 entries)
	bytes []int
}

// NewIndex builds the index of a text.
func NewIndex(text string) *Index {
	idx := &Index{
		units: make([]int, len(text)+1),
		bytes: make([]int, 0, len(text)+1),
	}
	unit := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		for j := 0; j < size; j++ {
			idx.units[i+j] = unit
		}
		n := utf16.RuneLen(r)
		if n < 0 {
			// Invalid rune, encoded as U+FFFD
			n = 1
		}
		for j := 0; j < n; j++ {
			idx.bytes = append(idx.bytes, i)
		}
		unit += n
		i += size
	}
	idx.units[len(text)] = unit
	idx.bytes = append(idx.bytes, len(text))
	return idx
}

// Len returns the number of code units.
func (x *Index) Len() int {
	return len(x.bytes) - 1
}

// Unit returns the code unit offset of a byte offset.
func (x *Index) Unit(byteOffset int) int {
	if byteOffset <= 0 {
		return 0
	}
	if byteOffset >= len(x.units) {
		return x.units[len(x.units)-1]
	}
	return x.units[byteOffset]
}

// Byte returns the byte offset of a code unit offset.
func (x *Index) Byte(unit int) int {
	if unit <= 0 {
		return 0
	}
	if unit >= len(x.bytes) {
		return x.bytes[len(x.bytes)-1]
	}
	return x.bytes[unit]
}

// Range converts byte offsets into a unit range.
func (x *Index) Range(start, end int) Range {
	return RangeBetween(x.Unit(start), x.Unit(end))
}

// Bytes converts a unit range into byte offsets.
func (x *Index) Bytes(r Range) (int, int) {
	return x.Byte(r.Location), x.Byte(r.End())
}

// Len16 returns the length of a text in UTF-16 code units.
func Len16(text string) int {
	n := 0
	for _, r := range text {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}
