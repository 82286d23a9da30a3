package markdown

import "github.com/julien-sobczak/the-notewriter-live/pkg/text"

// UnescapeTestDocument supports content using a special character instead of backticks.
func UnescapeTestDocument(md string) Document {
	return Document(text.UnescapeTestContent(md))
}
