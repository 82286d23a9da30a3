package markdown

import (
	"strings"

	"github.com/julien-sobczak/the-notewriter-live/internal/buffer"
	"github.com/julien-sobczak/the-notewriter-live/pkg/text"
)

// Block is a fenced code block.
type Block struct {
	// Whole block, fences and trailing separator included
	Range   buffer.Range
	Open    buffer.Range
	Content buffer.Range
	// Empty when the block is not closed (it runs to the end of the document)
	Close    buffer.Range
	Language string
}

// Match converts the block into a generic match.
func (b Block) Match() Match {
	return Match{
		Kind:  FencedBlock,
		Range: b.Range,
		Groups: map[string]buffer.Range{
			"open":    b.Open,
			"content": b.Content,
			"close":   b.Close,
		},
		Values: map[string]string{
			"language": b.Language,
		},
	}
}

type fence struct {
	char   byte
	length int
}

// parseFence reads a fence line (up to 3 spaces of indentation).
func parseFence(line string) (fence, string, bool) {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 || len(trimmed) < 3 {
		return fence{}, "", false
	}
	char := trimmed[0]
	if char != '`' && char != '~' {
		return fence{}, "", false
	}
	n := 0
	for n < len(trimmed) && trimmed[n] == char {
		n++
	}
	if n < 3 {
		return fence{}, "", false
	}
	info := strings.TrimSpace(trimmed[n:])
	if char == '`' && strings.Contains(info, "`") {
		// Inline code span like ```code```
		return fence{}, "", false
	}
	return fence{char: char, length: n}, info, true
}

func (f fence) closedBy(line string) bool {
	g, info, ok := parseFence(line)
	return ok && info == "" && g.char == f.char && g.length >= f.length
}

// FencedBlocks scans the lines of the document for fenced code blocks.
func FencedBlocks(src *Source) []Block {
	var blocks []Block
	content := src.String()

	var current *Block
	var opening fence
	for _, line := range text.Lines(content) {
		lineEnd := line.End()
		if lineEnd < len(content) {
			lineEnd++ // separator
		}
		if current == nil {
			f, info, ok := parseFence(line.Text)
			if !ok {
				continue
			}
			opening = f
			language, _, _ := strings.Cut(info, " ")
			current = &Block{
				Open:     src.Range(line.Offset, line.End()),
				Content:  src.Range(lineEnd, lineEnd),
				Language: language,
			}
			current.Range = src.Range(line.Offset, lineEnd)
			continue
		}
		if opening.closedBy(line.Text) {
			current.Close = src.Range(line.Offset, line.End())
			current.Range = current.Range.Union(src.Range(line.Offset, lineEnd))
			blocks = append(blocks, *current)
			current = nil
			continue
		}
		current.Content = current.Content.Union(src.Range(line.Offset, lineEnd))
		current.Range = current.Range.Union(src.Range(line.Offset, lineEnd))
	}
	if current != nil {
		// Unclosed fence runs to the end of the document
		current.Range = current.Range.Union(src.Range(len(content), len(content)))
		current.Close = src.Range(len(content), len(content))
		blocks = append(blocks, *current)
	}
	return blocks
}

// FenceOverlapping returns the fenced block overlapping the range.
func FenceOverlapping(src *Source, r buffer.Range) (Block, bool) {
	for _, block := range FencedBlocks(src) {
		if overlapsOrContains(block.Range, r) {
			return block, true
		}
	}
	return Block{}, false
}

// CodeSpans scans the document for inline code spans, ignoring fenced blocks.
// A span opens with a run of backticks and closes with a run of the same length
// inside the same paragraph.
func CodeSpans(src *Source) []Match {
	content := src.String()
	var matches []Match
	start := 0
	for _, block := range FencedBlocks(src) {
		blockStart, blockEnd := src.Bytes(block.Range)
		matches = append(matches, scanCodeSpans(src, start, blockStart)...)
		start = blockEnd
	}
	return append(matches, scanCodeSpans(src, start, len(content))...)
}

// CodeSpanOverlapping rescans the paragraph covering the range for a code span overlapping it.
// Spans may start on a previous line of the same paragraph.
func CodeSpanOverlapping(src *Source, r buffer.Range) (buffer.Range, bool) {
	paragraph := paragraphAround(src, r)
	for _, span := range scanCodeSpans(paragraph, 0, len(paragraph.String())) {
		if overlapsOrContains(span.Range, r) {
			return span.Range, true
		}
	}
	return buffer.Range{}, false
}

// paragraphAround extends the lines covering the range up to the surrounding blank lines or fences.
func paragraphAround(src *Source, r buffer.Range) *Source {
	content := src.String()
	boundary := func(lineStart int) bool {
		end := strings.IndexByte(content[lineStart:], '\n')
		if end < 0 {
			end = len(content) - lineStart
		}
		_, _, isFence := parseFence(content[lineStart : lineStart+end])
		return isFence || isBlankLineAt(content, lineStart)
	}

	start, end := src.Bytes(r)
	for start > 0 && content[start-1] != '\n' {
		start--
	}
	for start > 0 {
		previous := start - 1
		for previous > 0 && content[previous-1] != '\n' {
			previous--
		}
		if boundary(previous) {
			break
		}
		start = previous
	}
	for end < len(content) && content[end] != '\n' {
		end++
	}
	for end < len(content) && !boundary(end+1) {
		end++
		for end < len(content) && content[end] != '\n' {
			end++
		}
	}
	return src.Slice(src.Range(start, end))
}

func scanCodeSpans(src *Source, from, to int) []Match {
	content := src.String()[:to]
	var matches []Match
	i := from
	for i < len(content) {
		c := content[i]
		if c == '\\' {
			i += 2
			continue
		}
		if c != '`' {
			i++
			continue
		}
		n := runLength(content, i, '`')
		closing := -1
		for j := i + n; j < len(content); {
			if content[j] == '`' {
				m := runLength(content, j, '`')
				if m == n {
					closing = j
					break
				}
				j += m
				continue
			}
			if content[j] == '\n' && isBlankLineAt(content, j+1) {
				break
			}
			j++
		}
		if closing < 0 {
			i += n
			continue
		}
		matches = append(matches, Match{
			Kind:  CodeSpan,
			Range: src.Range(i, closing+n),
			Groups: map[string]buffer.Range{
				"open":    src.Range(i, i+n),
				"content": src.Range(i+n, closing),
				"close":   src.Range(closing, closing+n),
			},
			Values: map[string]string{
				"content": content[i+n : closing],
			},
		})
		i = closing + n
	}
	return matches
}

func runLength(s string, i int, c byte) int {
	n := 0
	for i+n < len(s) && s[i+n] == c {
		n++
	}
	return n
}

func isBlankLineAt(s string, i int) bool {
	for ; i < len(s); i++ {
		switch s[i] {
		case '\n':
			return true
		case ' ', '\t', '\r':
			continue
		default:
			return false
		}
	}
	return true
}

// overlapsOrContains also handles empty ranges (carets) inside a claimed range.
func overlapsOrContains(claimed, r buffer.Range) bool {
	if r.IsEmpty() {
		return claimed.Contains(r.Location)
	}
	return claimed.Overlaps(r)
}

// Guard decides which ranges belong to code and cannot be styled by other constructs.
// Nothing is cached: every candidate is validated against the current text.
type Guard struct {
	src *Source
}

// NewGuard creates a guard for a document snapshot.
func NewGuard(src *Source) *Guard {
	return &Guard{src: src}
}

// Claimed returns true if the range overlaps a fenced block or a code span.
func (g *Guard) Claimed(r buffer.Range) bool {
	if _, ok := FenceOverlapping(g.src, r); ok {
		return true
	}
	_, ok := CodeSpanOverlapping(g.src, r)
	return ok
}
