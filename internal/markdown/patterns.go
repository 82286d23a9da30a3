package markdown

import (
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/julien-sobczak/the-notewriter-live/internal/buffer"
	"github.com/kyokomi/emoji/v2"
	"golang.org/x/exp/slices"
)

// Kind identifies a markdown construct.
type Kind int

const (
	SetextHeader Kind = iota + 1
	AtxHeader
	Bold
	Italic
	Strike
	CodeSpan
	FencedBlock
	BlockQuote
	ListMarker
	ReferenceDefinition
	ReferenceAnchor
	InlineAnchor
	ReferenceImage
	InlineImage
	AutolinkEmail
	WikiAnchor
	HTMLTag
	Emoji
	TodoMarker
)

var kindNames = map[Kind]string{
	SetextHeader:        "setext-header",
	AtxHeader:           "atx-header",
	Bold:                "bold",
	Italic:              "italic",
	Strike:              "strike",
	CodeSpan:            "code-span",
	FencedBlock:         "fenced-block",
	BlockQuote:          "block-quote",
	ListMarker:          "list",
	ReferenceDefinition: "reference-definition",
	ReferenceAnchor:     "reference-anchor",
	InlineAnchor:        "inline-anchor",
	ReferenceImage:      "reference-image",
	InlineImage:         "inline-image",
	AutolinkEmail:       "autolink-email",
	WikiAnchor:          "wikilink",
	HTMLTag:             "html",
	Emoji:               "emoji",
	TodoMarker:          "todo",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Match is a construct found in a text.
type Match struct {
	Kind  Kind
	Range buffer.Range
	// Named capture groups (unmatched optional groups are absent)
	Groups map[string]buffer.Range
	Values map[string]string
}

// Group returns the range of a named group.
func (m Match) Group(name string) (buffer.Range, bool) {
	r, ok := m.Groups[name]
	return r, ok
}

// Value returns the text of a named group, or an empty string.
func (m Match) Value(name string) string {
	return m.Values[name]
}

// Pattern recognizes one construct.
//
// Go regular expressions have no lookaround: Accept post-validates a match
// from the surrounding characters. Patterns with Accept must not use ^, $ or \b
// as rejected matches are retried on a suffix of the text.
type Pattern struct {
	Kind   Kind
	Regexp *regexp.Regexp
	Accept func(text string, loc []int) bool
}

// FindAll returns all non-overlapping matches.
func (p *Pattern) FindAll(src *Source) []Match {
	text := src.String()
	var matches []Match
	if p.Accept == nil {
		for _, loc := range p.Regexp.FindAllStringSubmatchIndex(text, -1) {
			matches = append(matches, p.newMatch(src, loc))
		}
		return matches
	}

	pos := 0
	for pos <= len(text) {
		loc := p.Regexp.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += pos
			}
		}
		if p.Accept(text, loc) {
			matches = append(matches, p.newMatch(src, loc))
			pos = loc[1]
			if loc[1] == loc[0] {
				pos++
			}
			continue
		}
		// Retry just after the rejected start
		_, size := utf8.DecodeRuneInString(text[loc[0]:])
		pos = loc[0] + max(size, 1)
	}
	return matches
}

func (p *Pattern) newMatch(src *Source, loc []int) Match {
	text := src.String()
	m := Match{
		Kind:   p.Kind,
		Range:  src.Range(loc[0], loc[1]),
		Groups: make(map[string]buffer.Range),
		Values: make(map[string]string),
	}
	for i, name := range p.Regexp.SubexpNames() {
		if name == "" || loc[2*i] < 0 {
			continue
		}
		m.Groups[name] = src.Range(loc[2*i], loc[2*i+1])
		m.Values[name] = text[loc[2*i]:loc[2*i+1]]
	}
	return m
}

/* Lookaround emulation */

// before returns the rune preceding the match, or '\n' at the start of the text.
func before(text string, loc []int) rune {
	if loc[0] == 0 {
		return '\n'
	}
	r, _ := utf8.DecodeLastRuneInString(text[:loc[0]])
	return r
}

// after returns the rune following the match, or '\n' at the end of the text.
func after(text string, loc []int) rune {
	if loc[1] >= len(text) {
		return '\n'
	}
	r, _ := utf8.DecodeRuneInString(text[loc[1]:])
	return r
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// notSurroundedBy rejects matches glued to the delimiter or escaped.
func notSurroundedBy(delimiter rune) func(string, []int) bool {
	return func(text string, loc []int) bool {
		b := before(text, loc)
		return b != delimiter && b != '\\' && after(text, loc) != delimiter
	}
}

// notInsideWord rejects intraword underscores (ex: snake_case_name).
func notInsideWord(text string, loc []int) bool {
	return !isWord(before(text, loc)) && !isWord(after(text, loc))
}

// notEmbedded rejects links prefixed by "!" (images) or escaped.
func notEmbedded(text string, loc []int) bool {
	b := before(text, loc)
	return b != '!' && b != '\\'
}

func notInsideAddress(text string, loc []int) bool {
	b := before(text, loc)
	return !isWord(b) && b != '.' && b != '/' && b != '-' && b != '+'
}

func knownEmoji(text string, loc []int) bool {
	_, ok := emoji.CodeMap()[text[loc[0]:loc[1]]]
	return ok
}

/* Patterns */

var (
	regexSetextHeader = regexp.MustCompile(`(?m)^(?P<title>[^\s#>\-*+=~|` + "`" + `][^\n]*)\n(?P<underline>=+|-+)[ \t]*$`)
	regexAtxHeader    = regexp.MustCompile(`(?m)^(?P<marker>#{1,6}[ \t]+)(?P<title>[^\n]*?)(?P<closing>(?:[ \t]+#+)?[ \t]*)$`)

	regexBoldAsterisks     = regexp.MustCompile(`\*\*(?P<text>[^\s*](?:[^\n]*?[^\s*])?)\*\*`)
	regexBoldUnderscores   = regexp.MustCompile(`__(?P<text>[^\s_](?:[^\n]*?[^\s_])?)__`)
	regexItalicAsterisks   = regexp.MustCompile(`\*(?P<text>[^\s*](?:[^\n*]*?[^\s*])?)\*`)
	regexItalicUnderscores = regexp.MustCompile(`_(?P<text>[^\s_](?:[^\n_]*?[^\s_])?)_`)
	regexStrike            = regexp.MustCompile(`~~(?P<text>[^\s~](?:[^\n]*?[^\s~])?)~~`)

	regexBlockQuote = regexp.MustCompile(`(?m)^(?P<marker>[ ]{0,3}>[ \t]?)(?P<text>[^\n]*)$`)
	regexListMarker = regexp.MustCompile(`(?m)^(?P<indent>[ \t]*)(?P<marker>[*+-]|\d{1,9}[.)])(?P<spacing>[ \t]+)`)
	regexTodoMarker = regexp.MustCompile(`(?m)^(?P<indent>[ \t]*)(?P<marker>- \[(?P<state>[ x])\])(?:[ \t]|$)`)

	regexReferenceDefinition = regexp.MustCompile(`(?m)^[ ]{0,3}\[(?P<id>[^\[\]\n]+)\]:[ \t]*<?(?P<url>[^\s>]+)>?(?:[ \t]+(?:"(?P<title>[^"\n]*)"|'(?P<title2>[^'\n]*)'|\((?P<title3>[^)\n]*)\)))?[ \t]*$`)
	regexReferenceAnchor     = regexp.MustCompile(`\[(?P<text>` + nestedBrackets(NestDepth) + `)\][ ]?\[(?P<id>[^\]\n]*)\]`)
	regexInlineAnchor        = regexp.MustCompile(`\[(?P<text>` + nestedBrackets(NestDepth) + `)\]\([ \t]*(?P<url><[^>\n]*>|` + nestedParens(NestDepth) + `)(?:[ \t]+(?:"(?P<title>[^"\n]*)"|'(?P<title2>[^'\n]*)'))?[ \t]*\)`)
	regexReferenceImage      = regexp.MustCompile(`!\[(?P<alt>[^\[\]\n]*)\][ ]?\[(?P<id>[^\]\n]*)\]`)
	regexInlineImage         = regexp.MustCompile(`!\[(?P<alt>[^\[\]\n]*)\]\([ \t]*(?P<url><[^>\n]*>|` + nestedParens(NestDepth) + `)(?:[ \t]+(?:"(?P<title>[^"\n]*)"|'(?P<title2>[^'\n]*)'))?[ \t]*\)`)
	regexAutolinkEmail       = regexp.MustCompile(`(?i)(?P<mailto>mailto:)?(?P<address>[-.\w+]+@[-a-z0-9]+(?:\.[-a-z0-9]+)*\.[a-z]+)`)
	regexWikilink            = regexp.MustCompile(`\[\[(?P<link>[^\[\]|\n]+?)(?:\|(?P<text>[^\[\]\n]*?))?\]\]`)
	regexHTMLTag             = regexp.MustCompile(`<!--[\s\S]*?-->|<(?P<slash>/?)(?P<name>[A-Za-z][A-Za-z0-9-]*)(?:\s[^<>]*?)?/?>`)
	regexEmojiShortcode      = regexp.MustCompile(`:(?P<name>[a-z0-9_+\-]+):`)
)

// Library holds the compiled patterns of every construct.
type Library struct {
	patterns map[Kind][]*Pattern
}

// NewLibrary returns the library of markdown patterns.
func NewLibrary() *Library {
	l := &Library{
		patterns: make(map[Kind][]*Pattern),
	}
	l.register(SetextHeader, regexSetextHeader, nil)
	l.register(AtxHeader, regexAtxHeader, nil)
	l.register(Bold, regexBoldAsterisks, notSurroundedBy('*'))
	l.register(Bold, regexBoldUnderscores, notInsideWord)
	l.register(Italic, regexItalicAsterisks, notSurroundedBy('*'))
	l.register(Italic, regexItalicUnderscores, notInsideWord)
	l.register(Strike, regexStrike, notSurroundedBy('~'))
	l.register(BlockQuote, regexBlockQuote, nil)
	l.register(ListMarker, regexListMarker, nil)
	l.register(TodoMarker, regexTodoMarker, nil)
	l.register(ReferenceDefinition, regexReferenceDefinition, nil)
	l.register(ReferenceAnchor, regexReferenceAnchor, notEmbedded)
	l.register(InlineAnchor, regexInlineAnchor, notEmbedded)
	l.register(ReferenceImage, regexReferenceImage, nil)
	l.register(InlineImage, regexInlineImage, nil)
	l.register(AutolinkEmail, regexAutolinkEmail, notInsideAddress)
	l.register(WikiAnchor, regexWikilink, nil)
	l.register(HTMLTag, regexHTMLTag, nil)
	l.register(Emoji, regexEmojiShortcode, knownEmoji)
	return l
}

func (l *Library) register(kind Kind, re *regexp.Regexp, accept func(string, []int) bool) {
	l.patterns[kind] = append(l.patterns[kind], &Pattern{
		Kind:   kind,
		Regexp: re,
		Accept: accept,
	})
}

// Find returns the matches of a construct sorted by location.
func (l *Library) Find(kind Kind, src *Source) []Match {
	switch kind {
	case CodeSpan:
		return CodeSpans(src)
	case FencedBlock:
		var matches []Match
		for _, block := range FencedBlocks(src) {
			matches = append(matches, block.Match())
		}
		return matches
	}

	var matches []Match
	for _, pattern := range l.patterns[kind] {
		matches = append(matches, pattern.FindAll(src)...)
	}
	slices.SortStableFunc(matches, func(a, b Match) int {
		return a.Range.Location - b.Range.Location
	})
	return matches
}

var defaultLibrary = NewLibrary()
