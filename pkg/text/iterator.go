package text

import (
	"strings"
)

type Line struct {
	Text   string
	Number int
	// Byte offset of the first character in the original text
	Offset int
}

// Null Object pattern.
var MissingLine = Line{
	Text:   "",
	Number: -1,
	Offset: -1,
}

func (l Line) IsBlank() bool {
	return IsBlank(l.Text)
}

// End returns the byte offset just after the line (excluding the separator).
func (l Line) End() int {
	return l.Offset + len(l.Text)
}

// LineIterator implements the Iterator pattern to iterate over text lines.
type LineIterator struct {
	index int
	lines []Line
}

func (l *LineIterator) HasNext() bool {
	return l.index < len(l.lines)
}

// Same as Next but does not move the iterator
func (l *LineIterator) Peek() Line {
	if l.HasNext() {
		return l.lines[l.index]
	}
	return MissingLine
}

func (l *LineIterator) Next() Line {
	if l.HasNext() {
		line := l.lines[l.index]
		l.index++
		return line
	}
	return MissingLine
}

// SkipBlankLines moves the iterator to the next non-blank line.
func (l *LineIterator) SkipBlankLines() {
	for l.HasNext() && l.Peek().IsBlank() {
		l.Next()
	}
}

// Lines splits a text on "\n" keeping the offset of every line.
func Lines(text string) []Line {
	var lines []Line
	offset := 0
	for i, raw := range strings.Split(text, "\n") {
		lines = append(lines, Line{
			Text:   raw,
			Number: i + 1,
			Offset: offset,
		})
		offset += len(raw) + 1
	}
	return lines
}

func NewLineIteratorFromText(text string) *LineIterator {
	return &LineIterator{
		lines: Lines(text),
	}
}
