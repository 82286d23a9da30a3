package markdown

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/julien-sobczak/the-notewriter-live/internal/buffer"
	"github.com/rivo/uniseg"
)

// EmojiClusters returns the grapheme clusters displayed as pictographs.
func EmojiClusters(src *Source) []buffer.Range {
	var result []buffer.Range
	g := uniseg.NewGraphemes(src.String())
	for g.Next() {
		if isPictograph(g.Str()) {
			start, end := g.Positions()
			result = append(result, src.Range(start, end))
		}
	}
	return result
}

func isPictograph(cluster string) bool {
	r, _ := utf8.DecodeRuneInString(cluster)
	if r < utf8.RuneSelf {
		return false
	}
	if strings.ContainsRune(cluster, '\uFE0F') {
		// Emoji presentation selector
		return true
	}
	return unicode.Is(unicode.So, r) && uniseg.StringWidth(cluster) == 2
}
