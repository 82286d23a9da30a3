package markdown

import (
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

const extensions = parser.CommonExtensions | parser.Strikethrough | parser.Footnotes

// ToHTML converts a markdown fragment.
func ToHTML(md string) string {
	p := parser.NewWithExtensions(extensions)
	result := markdown.ToHTML([]byte(md), p, nil)
	return strings.TrimSpace(string(result))
}

// ToHTMLPage converts a markdown document into a standalone HTML page.
func ToHTMLPage(title string, md string) string {
	p := parser.NewWithExtensions(extensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: title,
		Flags: html.CommonFlags | html.CompletePage | html.HrefTargetBlank,
	})
	return string(markdown.ToHTML([]byte(md), p, renderer))
}
