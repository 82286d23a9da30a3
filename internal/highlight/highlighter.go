// Package highlight styles a buffer from the markdown constructs it contains.
package highlight

import (
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/julien-sobczak/the-notewriter-live/internal/buffer"
	"github.com/julien-sobczak/the-notewriter-live/internal/config"
	"github.com/julien-sobczak/the-notewriter-live/internal/logger"
	"github.com/julien-sobczak/the-notewriter-live/internal/markdown"
	"github.com/julien-sobczak/the-notewriter-live/internal/note"
)

// Relative font sizes of headings by level
var headingScales = []float64{1.6, 1.4, 1.2, 1.1, 1.0, 1.0}

var regexUnderline = regexp.MustCompile(`^(?:=+|-+)[ \t]*\n?$`)

// Scope delimits the part of the buffer to restyle.
type Scope struct {
	full bool
	r    buffer.Range
}

// Full restyles the whole buffer.
func Full() Scope {
	return Scope{full: true}
}

// Paragraph restyles the paragraphs covering the range.
func Paragraph(r buffer.Range) Scope {
	return Scope{r: r}
}

// IsFull returns if the scope covers the whole buffer.
func (s Scope) IsFull() bool {
	return s.full
}

// Highlighter holds everything needed to style a buffer.
// Create a new instance when the configuration changes.
type Highlighter struct {
	cfg     *config.Config
	library *markdown.Library
	theme   *Theme
	base    buffer.Attributes
	code    buffer.Font
	lexers  map[string]chroma.Lexer
}

func New(cfg *config.Config) *Highlighter {
	editor := cfg.ConfigFile.Editor
	theme := NewTheme(cfg)
	return &Highlighter{
		cfg:     cfg,
		library: markdown.NewLibrary(),
		theme:   theme,
		base: buffer.Attributes{
			Font: buffer.Font{
				Family: editor.FontFamily,
				Size:   editor.FontSize,
			},
			Foreground: theme.Color(ColorText),
		},
		code: buffer.Font{
			Family: editor.CodeFontFamily,
			Size:   editor.FontSize,
		},
		lexers: make(map[string]chroma.Lexer),
	}
}

// Base returns the attributes of plain text.
func (h *Highlighter) Base() buffer.Attributes {
	return h.base
}

// CodeSpan returns the attributes of inline code.
func (h *Highlighter) CodeSpan() buffer.Attributes {
	attrs := h.base
	attrs.Font = h.code
	attrs.Foreground = h.theme.Color(ColorCode)
	attrs.Background = h.theme.Color(ColorCodeBackground)
	return attrs
}

// Theme returns the palette in use.
func (h *Highlighter) Theme() *Theme {
	return h.theme
}

// Highlight restyles the scope and returns the restyled range.
func (h *Highlighter) Highlight(buf *buffer.Buffer, scope Scope, n *note.Note) buffer.Range {
	r, attrs := h.Styles(buf, scope, n)
	if err := buf.SetAttributes(r.Location, attrs); err != nil {
		logger.Warnf("Unable to apply styles on %v: %v", r, err)
		return r
	}
	if scope.IsFull() {
		logger.CurrentLogger().Dump("Runs after full highlight", buf.Runs())
	}
	return r
}

// Styles computes the attributes of the scope without modifying the buffer.
func (h *Highlighter) Styles(buf *buffer.Buffer, scope Scope, n *note.Note) (buffer.Range, []buffer.Attributes) {
	src := markdown.NewSource(buf.String())
	r := h.expand(buf, src, scope)
	p := &pass{
		h:      h,
		buf:    buf,
		src:    src,
		region: src.Lines(r),
		guard:  markdown.NewGuard(src),
		scope:  r,
		attrs:  buf.Attributes(r),
		code:   make([]bool, r.Length),
		note:   n,
		full:   scope.IsFull(),
		hide:   h.cfg.ConfigFile.Editor.HideSyntax,
	}
	p.run()
	return r, p.attrs
}

// expand extends a paragraph scope to the constructs spanning several lines.
func (h *Highlighter) expand(buf *buffer.Buffer, src *markdown.Source, scope Scope) buffer.Range {
	if scope.IsFull() {
		return src.Full()
	}
	r := buf.ParagraphRange(scope.r)

	// Fenced blocks are restyled as a whole
	for _, block := range markdown.FencedBlocks(src) {
		if block.Range.Overlaps(r) || (r.IsEmpty() && block.Range.Contains(r.Location)) {
			r = r.Union(block.Range)
		}
	}

	// Setext headers span the title line and the underline
	if r.End() < buf.Len() {
		next := buf.ParagraphRange(buffer.NewRange(r.End(), 0))
		if regexUnderline.MatchString(buf.Substring(next)) {
			r = r.Union(next)
		}
	}
	if r.Location > 0 {
		first := buf.ParagraphRange(buffer.NewRange(r.Location, 0))
		if regexUnderline.MatchString(buf.Substring(first)) {
			r = r.Union(buf.ParagraphRange(buffer.NewRange(r.Location-1, 0)))
		}
	}
	return r
}

func (h *Highlighter) lexer(language string) chroma.Lexer {
	language = strings.ToLower(language)
	if language == "" {
		return nil
	}
	if lexer, ok := h.lexers[language]; ok {
		return lexer
	}
	lexer := lexers.Get(language)
	if lexer == nil {
		// Try matching by file extension
		lexer = lexers.Match("file." + language)
	}
	if lexer != nil {
		lexer = chroma.Coalesce(lexer)
	}
	h.lexers[language] = lexer
	return lexer
}

// HighlightKeyword paints the search background on every occurrence of the word (case-insensitive).
// The background is kept by paragraph passes and removed by the next full pass.
func (h *Highlighter) HighlightKeyword(buf *buffer.Buffer, word string) int {
	if strings.TrimSpace(word) == "" {
		return 0
	}
	src := markdown.NewSource(buf.String())
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(word))
	search := h.theme.Color(ColorSearch)
	count := 0
	for _, loc := range re.FindAllStringIndex(src.String(), -1) {
		buf.Update(src.Range(loc[0], loc[1]), func(a *buffer.Attributes) {
			a.Background = search
		})
		count++
	}
	return count
}
