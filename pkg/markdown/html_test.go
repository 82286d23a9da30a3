package markdown_test

import (
	"testing"

	"github.com/julien-sobczak/the-notewriter-live/pkg/markdown"
	"github.com/stretchr/testify/assert"
)

func TestToHTML(t *testing.T) {
	assert.Equal(t, "<p><strong>bold</strong> and <del>strike</del></p>", markdown.ToHTML("**bold** and ~~strike~~"))
}

func TestToHTMLPage(t *testing.T) {
	page := markdown.ToHTMLPage("Todo", "# Todo\n")
	assert.Contains(t, page, "<title>Todo</title>")
	assert.Contains(t, page, "<h1")
}
