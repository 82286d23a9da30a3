package markdown

import (
	"fmt"
	"strings"
)

type Link struct {
	Text  string
	URL   string
	Title string
	Line  int
}

func (l Link) Internal() bool {
	if strings.HasPrefix(l.URL, "file:") {
		return true
	}
	return !strings.Contains(l.URL, ":")
}

func (l Link) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`[%s](%s`, l.Text, l.URL))
	if l.Title != "" {
		sb.WriteString(fmt.Sprintf(` "%s"`, l.Title))
	}
	sb.WriteString(")")
	return sb.String()
}

// Title returns the link title whatever the quotes used.
func (m Match) Title() string {
	for _, name := range []string{"title", "title2", "title3"} {
		if value, ok := m.Values[name]; ok {
			return value
		}
	}
	return ""
}

// URL returns the link destination without angle brackets.
func (m Match) URL() string {
	return strings.TrimSuffix(strings.TrimPrefix(m.Value("url"), "<"), ">")
}

/*
 * Document
 */

// Links returns inline links outside code.
func (m Document) Links() []Link {
	return m.extractLinks(InlineAnchor, "text")
}

// Images returns inline images outside code.
func (m Document) Images() []Link {
	return m.extractLinks(InlineImage, "alt")
}

func (m Document) extractLinks(kind Kind, textGroup string) []Link {
	var results []Link

	// Ignore links inside code blocks (ex: a sample Markdown code block)
	src := NewSource(m.MustTransform(StripCodeBlocks()).String())
	for _, match := range defaultLibrary.Find(kind, src) {
		results = append(results, Link{
			Text:  match.Value(textGroup),
			URL:   match.URL(),
			Title: match.Title(),
			Line:  lineAt(src, match),
		})
	}
	return results
}
