package markdown_test

import (
	"testing"

	"github.com/julien-sobczak/the-notewriter-live/internal/markdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWikilink(t *testing.T) {
	w := markdown.Wikilink{
		Link: "path/to/file#A section",
		Text: "",
		Line: 1,
	}
	assert.Equal(t, "path/to/file", w.Path())
	assert.Equal(t, "A section", w.Section())
	assert.False(t, w.Anchored())
	assert.False(t, w.Piped())
	assert.False(t, w.ContainsExtension())

	w = markdown.Wikilink{
		Link: "#A section",
		Text: "A Section",
		Line: 1,
	}
	assert.Equal(t, "", w.Path())
	assert.Equal(t, "A section", w.Section())
	assert.True(t, w.Anchored())
	assert.True(t, w.Piped())
	assert.Equal(t, "[[#A section|A Section]]", w.String())
}

func TestNewWikilink(t *testing.T) {
	tests := []struct {
		name     string
		wikilink string // input
		invalid  bool   // output
		link     string // output
		text     string // output
	}{
		{
			name:     "Invalid",
			wikilink: "not a wikilink",
			invalid:  true,
		},
		{
			name:     "No section",
			wikilink: "[[path/to/file]]",
			link:     "path/to/file",
		},
		{
			name:     "Title with spaces",
			wikilink: "[[My Daily Note]]",
			link:     "My Daily Note",
		},
		{
			name:     "Link & Text",
			wikilink: "[[file.md#Section|Text]]",
			link:     "file.md#Section",
			text:     "Text",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := markdown.NewWikilink(tt.wikilink)
			if tt.invalid {
				require.Error(t, err)
				assert.False(t, markdown.MatchWikilink(tt.wikilink))
				return
			}
			require.NoError(t, err)
			assert.True(t, markdown.MatchWikilink(tt.wikilink))
			assert.Equal(t, tt.link, actual.Link)
			assert.Equal(t, tt.text, actual.Text)
		})
	}
}

func TestGotoLocator(t *testing.T) {
	tests := []struct {
		name     string
		title    string // input
		expected string // output
		invalid  bool   // output
	}{
		{"Spaces", "My Note", "app://goto/My%20Note", false},
		{"AlreadyEncoded", "My%20Note", "app://goto/My%20Note", false},
		{"Decomposed", "Cafe\u0301", "app://goto/Caf%C3%A9", false},
		{"Malformed", "100%", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := markdown.GotoLocator(tt.title)
			if tt.invalid {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestDocumentWikilinks(t *testing.T) {
	doc := markdown.UnescapeTestDocument("[[A]]\n”””\n[[B]]\n”””\n‛[[C]]‛ [[D|d]]")
	assert.Equal(t, []markdown.Wikilink{
		{Link: "A", Line: 1},
		{Link: "D", Text: "d", Line: 5},
	}, doc.Wikilinks())
}
