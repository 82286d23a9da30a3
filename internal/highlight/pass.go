package highlight

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/julien-sobczak/the-notewriter-live/internal/buffer"
	"github.com/julien-sobczak/the-notewriter-live/internal/logger"
	"github.com/julien-sobczak/the-notewriter-live/internal/markdown"
	"github.com/julien-sobczak/the-notewriter-live/internal/note"
	"golang.org/x/exp/slices"
)

// Display fonts missing common symbols
var displayFonts = []string{"Avenir Next", "Baskerville", "Bodoni 72", "Didot", "Futura", "Optima"}

// Symbols rendered with the code font when a display font is used
var glyphRanges = [][2]rune{
	{0x2190, 0x21FF}, // Arrows
	{0x2500, 0x257F}, // Box drawing
	{0x2713, 0x2718}, // Check marks
}

var regexStrictLineBreak = regexp.MustCompile(` {2,}\n`)

// pass styles one scope. Attributes are computed from scratch so that
// running the same pass twice gives the same result.
type pass struct {
	h      *Highlighter
	buf    *buffer.Buffer
	src    *markdown.Source // whole document
	region *markdown.Source // lines searched for constructs
	guard  *markdown.Guard
	scope  buffer.Range
	attrs  []buffer.Attributes
	// Units belonging to code spans or fenced blocks
	code []bool
	note *note.Note
	full bool
	hide bool
}

func (p *pass) run() {
	p.reset()
	p.fences()
	p.emphasis(markdown.Italic, func(a *buffer.Attributes) { a.Font.Italic = true })
	p.emphasis(markdown.Bold, func(a *buffer.Attributes) { a.Font.Bold = true })
	p.emphasis(markdown.Strike, func(a *buffer.Attributes) { a.Strikethrough = true })
	p.codeSpans()
	p.setextHeaders()
	p.atxHeaders()
	definitions := p.referenceDefinitions()
	p.lists()
	p.referenceAnchors(definitions)
	p.inlineAnchors()
	p.images(definitions)
	p.wikilinks()
	p.blockQuotes()
	p.emails()
	p.attachments()
	p.html()
	p.emoji()
	p.glyphs()
	p.completedTodos()
	p.lineBreaks()
	if p.full {
		p.cleanup()
	}
}

/* Primitives */

// apply runs fn on every unit of the range inside the scope.
// Ranges exceeding the buffer are discarded. Code units are skipped unless requested.
func (p *pass) apply(r buffer.Range, includeCode bool, fn func(*buffer.Attributes)) {
	if !p.buf.Fits(r) {
		return
	}
	r = r.Intersect(p.scope)
	for i := r.Location; i < r.End(); i++ {
		j := i - p.scope.Location
		if p.code[j] && !includeCode {
			continue
		}
		fn(&p.attrs[j])
	}
}

func (p *pass) text(r buffer.Range, fn func(*buffer.Attributes)) {
	p.apply(r, false, fn)
}

func (p *pass) markCode(r buffer.Range) {
	r = r.Intersect(p.scope)
	for i := r.Location; i < r.End(); i++ {
		p.code[i-p.scope.Location] = true
	}
}

func hidden(a *buffer.Attributes) bool {
	return a.Font.Size == buffer.HiddenFontSize
}

// setColor changes the foreground unless the unit is hidden.
func setColor(a *buffer.Attributes, color lipgloss.Color) {
	if !hidden(a) && color != "" {
		a.Foreground = color
	}
}

func (p *pass) color(name string) lipgloss.Color {
	return p.h.theme.Color(name)
}

func (p *pass) colorize(r buffer.Range, name string) {
	color := p.color(name)
	p.text(r, func(a *buffer.Attributes) { setColor(a, color) })
}

func (p *pass) syntaxStyle(a *buffer.Attributes) {
	if p.hide {
		a.Font.Size = buffer.HiddenFontSize
		a.Foreground = buffer.Transparent
		return
	}
	setColor(a, p.color(ColorSyntax))
}

// syntax styles delimiters.
func (p *pass) syntax(r buffer.Range) {
	p.text(r, p.syntaxStyle)
}

// syntaxExcept styles as delimiters every unit of the match outside the given groups.
func (p *pass) syntaxExcept(m markdown.Match, groups ...string) {
	var kept []buffer.Range
	for _, name := range groups {
		if g, ok := m.Group(name); ok {
			kept = append(kept, g)
		}
	}
	start := m.Range.Location
	for i := m.Range.Location; i <= m.Range.End(); i++ {
		inside := i < m.Range.End() && slices.ContainsFunc(kept, func(g buffer.Range) bool { return g.Contains(i) })
		if inside || i == m.Range.End() {
			if i > start {
				p.syntax(buffer.RangeBetween(start, i))
			}
			start = i + 1
		}
	}
}

func (p *pass) link(r buffer.Range, target string) {
	color := p.color(ColorLink)
	p.text(r, func(a *buffer.Attributes) {
		setColor(a, color)
		a.Underline = true
		a.Link = target
	})
}

// locator rewrites relative paths into absolute locators.
func (p *pass) locator(raw string) string {
	if p.note == nil || raw == "" || strings.HasPrefix(raw, "#") || strings.HasPrefix(raw, "mailto:") {
		return raw
	}
	location, err := p.note.Resolve(raw)
	if err != nil {
		return raw
	}
	return location.Locator()
}

// inline returns the matches in scope not claimed by code.
func (p *pass) inline(kind markdown.Kind) []markdown.Match {
	var result []markdown.Match
	for _, m := range p.h.library.Find(kind, p.region) {
		if !m.Range.Overlaps(p.scope) || p.guard.Claimed(m.Range) {
			continue
		}
		result = append(result, m)
	}
	return result
}

// lines returns the line-level matches in scope outside fenced blocks.
// Code spans inside the line keep their style.
func (p *pass) lines(kind markdown.Kind, src *markdown.Source) []markdown.Match {
	var result []markdown.Match
	for _, m := range p.h.library.Find(kind, src) {
		if _, ok := markdown.FenceOverlapping(p.src, m.Range); ok {
			continue
		}
		result = append(result, m)
	}
	return result
}

/* Passes */

func (p *pass) reset() {
	search := p.color(ColorSearch)
	for i, a := range p.attrs {
		next := p.h.base
		next.Attachment = a.Attachment
		next.Todo = a.Todo
		if !p.full && a.Background == search {
			next.Background = search
		}
		p.attrs[i] = next
	}
}

func (p *pass) fences() {
	background := p.color(ColorCodeBackground)
	for _, block := range markdown.FencedBlocks(p.src) {
		if !block.Range.Overlaps(p.scope) {
			continue
		}
		p.markCode(block.Range)
		p.apply(block.Range, true, func(a *buffer.Attributes) {
			a.Font = p.h.code
			a.Background = background
		})
		p.apply(block.Open, true, p.syntaxStyle)
		p.apply(block.Close, true, p.syntaxStyle)
		p.tokens(block.Content, p.h.lexer(block.Language), true)
	}
}

// tokens colors a range using a chroma lexer.
func (p *pass) tokens(r buffer.Range, lexer chroma.Lexer, includeCode bool) {
	if lexer == nil || r.IsEmpty() || !p.buf.Fits(r) {
		return
	}
	content := p.src.Slice(r)
	text := content.String()
	it, err := lexer.Tokenise(nil, text)
	if err != nil {
		logger.Debugf("Unable to tokenize %v: %v", r, err)
		return
	}
	offset := 0
	for _, token := range it.Tokens() {
		// Lexers may append a final newline
		start := min(offset, len(text))
		end := min(offset+len(token.Value), len(text))
		offset += len(token.Value)
		color, bold, italic := p.h.theme.Token(token.Type)
		if start == end || (color == "" && !bold && !italic) {
			continue
		}
		p.apply(content.Range(start, end), includeCode, func(a *buffer.Attributes) {
			setColor(a, color)
			a.Font.Bold = a.Font.Bold || bold
			a.Font.Italic = a.Font.Italic || italic
		})
	}
}

func (p *pass) emphasis(kind markdown.Kind, fn func(*buffer.Attributes)) {
	for _, m := range p.inline(kind) {
		text, ok := m.Group("text")
		if !ok {
			continue
		}
		p.text(text, fn)
		p.syntaxExcept(m, "text")
	}
}

func (p *pass) codeSpans() {
	color := p.color(ColorCode)
	background := p.color(ColorCodeBackground)
	for _, m := range markdown.CodeSpans(p.region) {
		if !m.Range.Overlaps(p.scope) {
			continue
		}
		p.markCode(m.Range)
		p.apply(m.Range, true, func(a *buffer.Attributes) {
			a.Font = p.h.code
			a.Foreground = color
			a.Background = background
		})
		for _, name := range []string{"open", "close"} {
			if g, ok := m.Group(name); ok {
				p.apply(g, true, p.syntaxStyle)
			}
		}
	}
}

func (p *pass) heading(r buffer.Range, level int) {
	size := p.h.base.Font.Size * headingScales[min(max(level, 1), len(headingScales))-1]
	color := p.color(ColorHeading)
	p.text(r, func(a *buffer.Attributes) {
		if !hidden(a) {
			a.Font.Size = size
		}
		a.Font.Bold = true
		setColor(a, color)
	})
}

func (p *pass) setextHeaders() {
	for _, m := range p.lines(markdown.SetextHeader, p.region) {
		level := 2
		if strings.HasPrefix(m.Value("underline"), "=") {
			level = 1
		}
		if underline, ok := m.Group("underline"); ok {
			p.syntax(underline)
		}
		if title, ok := m.Group("title"); ok {
			p.heading(title, level)
		}
	}
}

func (p *pass) atxHeaders() {
	for _, m := range p.lines(markdown.AtxHeader, p.region) {
		level := strings.Count(strings.TrimSpace(m.Value("marker")), "#")
		p.heading(m.Range, level)
		p.syntaxExcept(m, "title")
	}
}

// referenceDefinitions styles definitions in scope and returns every definition of the document.
func (p *pass) referenceDefinitions() map[string]string {
	definitions := make(map[string]string)
	for _, m := range p.lines(markdown.ReferenceDefinition, p.src) {
		id := strings.ToLower(m.Value("id"))
		if _, ok := definitions[id]; !ok {
			// First definition wins
			definitions[id] = m.URL()
		}
		if !m.Range.Overlaps(p.scope) {
			continue
		}
		p.syntaxExcept(m, "id", "url", "title", "title2", "title3")
		if g, ok := m.Group("id"); ok {
			p.colorize(g, ColorReference)
		}
		if g, ok := m.Group("url"); ok {
			p.link(g, p.locator(m.URL()))
		}
		for _, name := range []string{"title", "title2", "title3"} {
			if g, ok := m.Group(name); ok {
				p.colorize(g, ColorQuote)
			}
		}
	}
	return definitions
}

func (p *pass) lists() {
	for _, m := range p.lines(markdown.ListMarker, p.region) {
		if g, ok := m.Group("marker"); ok {
			color := p.color(ColorList)
			p.text(g, func(a *buffer.Attributes) {
				setColor(a, color)
				a.Font.Bold = true
			})
		}
	}
}

func (p *pass) referenceAnchors(definitions map[string]string) {
	for _, m := range p.inline(markdown.ReferenceAnchor) {
		id := m.Value("id")
		if id == "" {
			// Collapsed reference: [text][]
			id = m.Value("text")
		}
		url, ok := definitions[strings.ToLower(id)]
		if !ok {
			continue
		}
		text, _ := m.Group("text")
		p.syntaxExcept(m, "text")
		p.link(text, p.locator(url))
	}
}

func (p *pass) inlineAnchors() {
	for _, m := range p.inline(markdown.InlineAnchor) {
		text, _ := m.Group("text")
		p.syntaxExcept(m, "text")
		p.link(text, p.locator(m.URL()))
	}
}

func (p *pass) images(definitions map[string]string) {
	for _, m := range p.inline(markdown.ReferenceImage) {
		url, ok := definitions[strings.ToLower(m.Value("id"))]
		if !ok {
			continue
		}
		alt, _ := m.Group("alt")
		p.syntaxExcept(m, "alt")
		p.link(alt, p.locator(url))
	}
	for _, m := range p.inline(markdown.InlineImage) {
		alt, _ := m.Group("alt")
		p.syntaxExcept(m, "alt")
		p.link(alt, p.locator(m.URL()))
		p.text(alt, func(a *buffer.Attributes) { a.Font.Italic = true })
	}
}

func (p *pass) wikilinks() {
	for _, m := range p.inline(markdown.WikiAnchor) {
		locator, err := markdown.GotoLocator(m.Value("link"))
		if err != nil {
			logger.Debugf("Ignoring wikilink %q: %v", m.Value("link"), err)
			continue
		}
		display := "link"
		if _, ok := m.Group("text"); ok {
			display = "text"
		}
		g, _ := m.Group(display)
		p.syntaxExcept(m, display)
		p.link(g, locator)
	}
}

func (p *pass) blockQuotes() {
	for _, m := range p.lines(markdown.BlockQuote, p.region) {
		if g, ok := m.Group("marker"); ok {
			p.syntax(g)
		}
		if g, ok := m.Group("text"); ok {
			color := p.color(ColorQuote)
			p.text(g, func(a *buffer.Attributes) {
				setColor(a, color)
				a.Font.Italic = true
			})
		}
	}
}

func (p *pass) emails() {
	for _, m := range p.inline(markdown.AutolinkEmail) {
		if g, ok := m.Group("mailto"); ok {
			p.syntax(g)
		}
		if g, ok := m.Group("address"); ok {
			p.link(g, "mailto:"+m.Value("address"))
		}
	}
}

// attachments links image attachments to their resolved location.
func (p *pass) attachments() {
	for i := p.scope.Location; i < p.scope.End(); i++ {
		a := &p.attrs[i-p.scope.Location]
		if !a.IsImage() {
			continue
		}
		a.Link = p.locator(a.Attachment.Source)
	}
}

func (p *pass) html() {
	lexer := p.h.lexer("html")
	for _, m := range p.inline(markdown.HTMLTag) {
		p.colorize(m.Range, ColorHTML)
		p.tokens(m.Range, lexer, false)
	}
}

func (p *pass) emoji() {
	for _, m := range p.inline(markdown.Emoji) {
		p.colorize(m.Range, ColorEmoji)
	}
	family := p.h.cfg.ConfigFile.Editor.EmojiFontFamily
	if family == "" {
		return
	}
	for _, r := range markdown.EmojiClusters(p.region) {
		if p.guard.Claimed(r) {
			continue
		}
		p.text(r, func(a *buffer.Attributes) { a.Font.Family = family })
	}
}

// glyphs falls back to the code font for symbols missing in display fonts.
func (p *pass) glyphs() {
	if !slices.Contains(displayFonts, p.h.base.Font.Family) {
		return
	}
	text := p.region.String()
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if isMissingGlyph(r) {
			p.text(p.region.Range(i, i+size), func(a *buffer.Attributes) { a.Font.Family = p.h.code.Family })
		}
		i += size
	}
}

func isMissingGlyph(r rune) bool {
	return slices.ContainsFunc(glyphRanges, func(bounds [2]rune) bool {
		return r >= bounds[0] && r <= bounds[1]
	})
}

// completedTodos strikes the text following a checked checkbox.
func (p *pass) completedTodos() {
	color := p.color(ColorCompleted)
	for i := p.scope.Location; i < p.scope.End(); i++ {
		a := p.attrs[i-p.scope.Location]
		if !a.IsTodo() || !a.Attachment.Checked {
			continue
		}
		line := p.buf.ContentRange(buffer.NewRange(i, 0))
		p.text(buffer.RangeBetween(i+1, line.End()), func(a *buffer.Attributes) {
			a.Strikethrough = true
			setColor(a, color)
		})
	}
}

// lineBreaks styles the trailing double space of hard breaks in strict mode.
func (p *pass) lineBreaks() {
	if !p.h.cfg.StrictLineBreak() {
		return
	}
	text := p.region.String()
	for _, loc := range regexStrictLineBreak.FindAllStringIndex(text, -1) {
		p.syntax(p.region.Range(loc[0], loc[1]-1))
	}
}

// cleanup reapplies the code span background after the search background has been cleared.
func (p *pass) cleanup() {
	background := p.color(ColorCodeBackground)
	for _, m := range markdown.CodeSpans(p.region) {
		p.apply(m.Range, true, func(a *buffer.Attributes) { a.Background = background })
	}
}
