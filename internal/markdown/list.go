package markdown

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var regexListPrefix = regexp.MustCompile(`^([ \t]*)([*+-]|(\d{1,9})([.)]))([ \t]+)(\[[ xX]\][ \t]+)?`)

// ListPrefix is the leading part of a list item (ex: "  3. ").
type ListPrefix struct {
	Indent  string
	Marker  string
	Spacing string
	// Plain-text checkbox following the marker (ex: "[ ] ")
	Checkbox string
	Ordered  bool
	Number   int
	// Delimiter of ordered markers ("." or ")")
	Delimiter string
	// Length in bytes of the prefix inside the paragraph
	Length int
	// Paragraph contains nothing except the prefix
	Empty bool
}

// MatchListPrefix recognizes the list marker starting a paragraph.
func MatchListPrefix(paragraph string) (ListPrefix, bool) {
	paragraph = strings.TrimSuffix(paragraph, "\n")
	match := regexListPrefix.FindStringSubmatch(paragraph)
	if match == nil {
		return ListPrefix{}, false
	}
	prefix := ListPrefix{
		Indent:   match[1],
		Marker:   match[2],
		Spacing:  match[5],
		Checkbox: match[6],
		Length:   len(match[0]),
	}
	if match[3] != "" {
		prefix.Ordered = true
		prefix.Number, _ = strconv.Atoi(match[3])
		prefix.Delimiter = match[4]
	}
	prefix.Empty = strings.TrimSpace(paragraph[prefix.Length:]) == ""
	return prefix, true
}

// Next returns the prefix of the following item. Ordered markers are incremented
// and checkboxes are unchecked.
func (p ListPrefix) Next() ListPrefix {
	next := p
	if p.Ordered {
		next.Number = p.Number + 1
		next.Marker = fmt.Sprintf("%d%s", next.Number, p.Delimiter)
	}
	if p.Checkbox != "" {
		next.Checkbox = "[ ]" + p.Checkbox[3:]
	}
	next.Empty = true
	next.Length = len(next.String())
	return next
}

func (p ListPrefix) String() string {
	return p.Indent + p.Marker + p.Spacing + p.Checkbox
}
