package markdown

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/julien-sobczak/the-notewriter-live/pkg/text"
	"golang.org/x/text/unicode/norm"
)

// GotoScheme prefixes the locator of internal links.
const GotoScheme = "app://goto/"

// Wikilink is an internal link.
// See https://en.wikipedia.org/wiki/Help:Link
type Wikilink struct {
	Link string
	Text string
	Line int
}

// MatchWikilink tests if a text is a wikilink.
func MatchWikilink(txt string) bool {
	return regexWikilink.MatchString(txt)
}

// NewWikilink instantiates a new wikilink.
func NewWikilink(link string) (*Wikilink, error) {
	match := regexWikilink.FindStringSubmatch(link)
	if match == nil {
		return nil, fmt.Errorf("invalid wikilink %q", link)
	}
	return &Wikilink{
		Link: match[1],
		Text: match[2],
	}, nil
}

// Anchored indicates if a link points to a section in the current file. (ex: [[#A section below]])
func (w *Wikilink) Anchored() bool {
	return strings.HasPrefix(w.Link, "#")
}

// Path returns the link without the optional fragment.
func (w *Wikilink) Path() string {
	path, _, _ := strings.Cut(w.Link, "#")
	return path
}

// Section returns the fragment part of the link.
func (w *Wikilink) Section() string {
	_, section, _ := strings.Cut(w.Link, "#")
	return section
}

// Piped indicates if a text is present to describe the link. (ex: [[link|A text]])
func (w *Wikilink) Piped() bool {
	return w.Text != ""
}

// ContainsExtension tests if the extension is specified in the link.
func (w *Wikilink) ContainsExtension() bool {
	return text.TrimExtension(w.Path()) != w.Path()
}

// Locator returns the navigation URL of the link (ex: app://goto/My%20Note).
// Titles already percent-encoded are decoded first. Malformed encodings are reported.
func (w *Wikilink) Locator() (string, error) {
	return GotoLocator(w.Link)
}

// GotoLocator returns the navigation URL of a note title.
func GotoLocator(title string) (string, error) {
	decoded, err := url.PathUnescape(strings.TrimSpace(title))
	if err != nil {
		return "", fmt.Errorf("malformed wikilink %q: %w", title, err)
	}
	return GotoScheme + url.PathEscape(norm.NFC.String(decoded)), nil
}

func (w Wikilink) String() string {
	if w.Piped() {
		return fmt.Sprintf("[[%s|%s]]", w.Link, w.Text)
	}
	return fmt.Sprintf("[[%s]]", w.Link)
}

/*
 * Document
 */

// Wikilinks searches for wikilinks inside a Markdown document
func (m Document) Wikilinks() []Wikilink {
	var results []Wikilink

	// Ignore wikilinks inside code blocks (ex: a sample Markdown code block)
	src := NewSource(m.MustTransform(StripCodeBlocks()).String())
	for _, pattern := range defaultLibrary.patterns[WikiAnchor] {
		for _, match := range pattern.FindAll(src) {
			results = append(results, Wikilink{
				Link: match.Value("link"),
				Text: match.Value("text"),
				Line: lineAt(src, match),
			})
		}
	}
	return results
}

func lineAt(src *Source, match Match) int {
	start, _ := src.Bytes(match.Range)
	return strings.Count(src.String()[:start], "\n") + 1
}
