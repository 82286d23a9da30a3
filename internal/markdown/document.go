package markdown

import (
	"regexp"

	"github.com/julien-sobczak/the-notewriter-live/internal/helpers"
	"github.com/julien-sobczak/the-notewriter-live/pkg/text"
)

// Document is the markdown text of a note, as read from or written to disk.
type Document string

var EmptyDocument = Document("")

func (m Document) String() string {
	return string(m)
}

func (m Document) IsBlank() bool {
	return text.IsBlank(string(m))
}

// Hash identifies the content, mostly for diagnostics.
func (m Document) Hash() string {
	return helpers.Hash([]byte(m))
}

func (m Document) Iterator() *text.LineIterator {
	return text.NewLineIteratorFromText(string(m))
}

// Heading is an ATX heading found in a document.
type Heading struct {
	Title string
	Level int
	Line  int
}

// Outline lists the ATX headings outside code blocks.
func (m Document) Outline() []Heading {
	var headings []Heading
	it := m.MustTransform(StripCodeBlocks()).Iterator()
	for it.HasNext() {
		line := it.Next()
		if ok, _, level := IsHeading(line.Text); ok {
			// Code spans are blanked out in the stripped line
			original := string(m)[line.Offset:line.End()]
			headings = append(headings, Heading{
				Title: original[len(HeadingPrefix(original)):],
				Level: level,
				Line:  line.Number,
			})
		}
	}
	return headings
}

var regexHeadingPrefix = regexp.MustCompile(`^(#{1,6})[ \t]+`)

// IsHeading returns if a given line is a Markdown heading, its title, and its level.
func IsHeading(line string) (bool, string, int) {
	match := regexHeadingPrefix.FindStringSubmatch(line)
	if match == nil {
		return false, "", 0
	}
	return true, line[len(match[0]):], len(match[1])
}

// HeadingPrefix returns the heading marker starting the line, including the following spaces.
func HeadingPrefix(line string) string {
	return regexHeadingPrefix.FindString(line)
}
