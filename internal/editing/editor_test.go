package editing

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julien-sobczak/the-notewriter-live/internal/attachment"
	"github.com/julien-sobczak/the-notewriter-live/internal/buffer"
	"github.com/julien-sobczak/the-notewriter-live/internal/config"
	"github.com/julien-sobczak/the-notewriter-live/internal/markdown"
	"github.com/julien-sobczak/the-notewriter-live/internal/medias"
	"github.com/julien-sobczak/the-notewriter-live/internal/note"
	"github.com/julien-sobczak/the-notewriter-live/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parse extracts the selection from a text where « and » delimit the selection and | marks the caret.
func parse(content string) (string, buffer.Range) {
	var sb strings.Builder
	start, end := -1, -1
	i := 0
	for _, r := range content {
		switch r {
		case '«':
			start = i
		case '»':
			end = i
		case '|':
			start, end = i, i
		default:
			sb.WriteRune(r)
			i++
		}
	}
	if start < 0 {
		start, end = i, i
	}
	return sb.String(), buffer.RangeBetween(start, end)
}

// render is the inverse of parse.
func render(e *Editor) string {
	runes := []rune(e.Buffer().String())
	sel := e.Selection()
	var sb strings.Builder
	for i := 0; i <= len(runes); i++ {
		if sel.IsEmpty() && i == sel.Location {
			sb.WriteRune('|')
		} else if !sel.IsEmpty() && i == sel.Location {
			sb.WriteRune('«')
		} else if !sel.IsEmpty() && i == sel.End() {
			sb.WriteRune('»')
		}
		if i < len(runes) {
			sb.WriteRune(runes[i])
		}
	}
	return sb.String()
}

func setUp(t *testing.T, content string, options ...func(*config.Config)) (*Editor, *[]markdown.Document) {
	return setUpIn(t, t.TempDir(), content, options...)
}

// setUpIn loads a note stored in dir, so that images next to it are converted.
func setUpIn(t *testing.T, dir string, content string, options ...func(*config.Config)) (*Editor, *[]markdown.Document) {
	cfg := config.Default()
	for _, option := range options {
		option(cfg)
	}
	n := note.New(filepath.Join(dir, "note.md"), dir)
	bridge := attachment.NewBridge(attachment.Options{})
	t.Cleanup(bridge.Close)

	var saved []markdown.Document
	e := New(cfg, n, bridge, SaverFunc(func(doc markdown.Document) error {
		saved = append(saved, doc)
		return nil
	}))
	text, selection := parse(content)
	require.NoError(t, e.Load(markdown.Document(text)))
	e.Select(selection)
	return e, &saved
}

func withSpaces(cfg *config.Config) {
	cfg.ConfigFile.Editor.IndentUnit = "spaces"
}

func TestCommands(t *testing.T) {
	var tests = []struct {
		name     string
		command  func(e *Editor)
		input    string
		expected string
	}{
		// Inline
		{"bold", (*Editor).Bold, "foo «bar» baz", "foo **bar**| baz"},
		{"bold empty", (*Editor).Bold, "foo | baz", "foo **|** baz"},
		{"italic", (*Editor).Italic, "«a»", "*a*|"},
		{"underline empty", (*Editor).Underline, "|", "<u>|</u>"},
		{"strike", (*Editor).Strike, "«a»", "~~a~~|"},
		{"link", (*Editor).Link, "«text»", "[text]()|"},
		{"link empty", (*Editor).Link, "|", "[](|)"},
		{"image", (*Editor).Image, "«x»", "![x]()|"},
		{"image empty", (*Editor).Image, "|", "![](|)"},
		{"backtick", (*Editor).BackTick, "«x»", "`x`|"},
		{"backtick empty", (*Editor).BackTick, "a |", "a `|`"},

		// Headers
		{"header", func(e *Editor) { e.Header(2) }, "|title", "## |title"},
		{"header replaced", func(e *Editor) { e.Header(1) }, "## title|", "# title|"},
		{"header removed", func(e *Editor) { e.Header(0) }, "# a|", "a|"},
		{"header second paragraph", func(e *Editor) { e.Header(3) }, "a\n|b", "a\n### |b"},
		{"header twice", func(e *Editor) { e.Header(1); e.Header(1) }, "|t", "# |t"},

		// Indentation
		{"tab", (*Editor).Tab, "    p|", "«\t    p»"},
		{"tab lines", (*Editor).Tab, "«a\nb»", "«\ta\n\tb»"},
		{"tab paragraph", (*Editor).Tab, "a\nb|\nc", "a\n«\tb»\nc"},
		{"untab", (*Editor).UnTab, "«\ta\n    b\n  c»", "«a\nb\nc»"},
		{"tabkey", (*Editor).TabKey, "a|b", "a\t|b"},
		{"tabkey empty document", (*Editor).TabKey, "", "\t|\n"},

		// Blocks
		{"quote", (*Editor).Quote, "«a\nb»", "«> a\n> b»"},
		{"quote paragraph", (*Editor).Quote, "x|", "«> x»"},
		{"code block empty", (*Editor).CodeBlock, "|", "```\n|\n```"},
		{"code block", (*Editor).CodeBlock, "«a»", "```\na\n```|"},
		{"code block inside paragraph", (*Editor).CodeBlock, "x «a» y", "x \n```\na\n```|\n y"},
		{"code block after text", (*Editor).CodeBlock, "a|", "a\n```\n|\n```"},
		{"delete line", (*Editor).DeleteLine, "a\nb|\nc", "a\n|c"},
		{"delete only line", (*Editor).DeleteLine, "only|", "|"},
		{"insert", func(e *Editor) { e.Insert("bc") }, "a|", "abc|"},
		{"insert replaces selection", func(e *Editor) { e.Insert("y") }, "«x»", "y|"},

		// New line
		{"continue list", (*Editor).NewLine, "- item|", "- item\n- |"},
		{"exit list", (*Editor).NewLine, "- item\n- |", "- item\n\n|"},
		{"increment ordered list", (*Editor).NewLine, "3. foo|", "3. foo\n4. |"},
		{"increment parenthesis", (*Editor).NewLine, "9) x|", "9) x\n10) |"},
		{"nested list", (*Editor).NewLine, "  * a|", "  * a\n  * |"},
		{"plain checkbox", (*Editor).NewLine, "* [x] a|", "* [x] a\n* [ ] |"},
		{"split list item", (*Editor).NewLine, "- a|b", "- a\n- |b"},
		{"before marker", (*Editor).NewLine, "|- item", "\n|- item"},
		{"tab indentation", (*Editor).NewLine, "\tcode|", "\tcode\n\t|"},
		{"space indentation", (*Editor).NewLine, "    code|", "    code\n    |"},
		{"short indentation", (*Editor).NewLine, "  two|", "  two\n|"},
		{"plain", (*Editor).NewLine, "plain|", "plain\n|"},
		{"replace selection", (*Editor).NewLine, "a«bc»d", "a\n|d"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, saved := setUp(t, tt.input)
			tt.command(e)
			assert.Equal(t, tt.expected, render(e))
			require.NotEmpty(t, *saved)
			last := (*saved)[len(*saved)-1]
			assert.Equal(t, e.Buffer().String(), last.String())
		})
	}
}

func TestCommandsKeepAttachments(t *testing.T) {
	// Selections are clamped to the loaded buffer where markers became single units
	var tests = []struct {
		name     string
		command  func(e *Editor)
		input    string
		expected string
	}{
		{"tab todo", (*Editor).Tab, "- [ ] task|", "\t- [ ] task"},
		{"untab todo", (*Editor).UnTab, "\t- [ ] task|", "- [ ] task"},
		{"quote todo", (*Editor).Quote, "- [x] done|", "> - [x] done"},
		{"bold todo", (*Editor).Bold, "«- [ ] task»", "**- [ ] task**"},
		{"code block todo", (*Editor).CodeBlock, "«- [ ] a»", "```\n- [ ] a\n```"},
		{"tab todo list", (*Editor).Tab, "«- [ ] a\n- [x] b»", "\t- [ ] a\n\t- [x] b"},
		{"tab image", (*Editor).Tab, "see ![logo](a.png) now|", "\tsee ![logo](a.png) now"},
		{"untab image", (*Editor).UnTab, "    ![logo](a.png)|", "![logo](a.png)"},
		{"quote image", (*Editor).Quote, "«a\n![logo](a.png)»", "> a\n> ![logo](a.png)"},
		{"bold image", (*Editor).Bold, "«see ![logo](a.png) now»", "**see ![logo](a.png) now**"},
		{"link image", (*Editor).Link, "«![logo](a.png)»", "[![logo](a.png)]()"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			testutil.WriteFile(t, dir, "a.png", []byte("fake"))
			e, saved := setUpIn(t, dir, tt.input)
			require.Contains(t, e.Buffer().String(), "\uFFFC")

			tt.command(e)
			assert.Equal(t, tt.expected, e.Markdown().String())
			require.NotEmpty(t, *saved)
			assert.Equal(t, tt.expected, (*saved)[len(*saved)-1].String())
		})
	}

	// Indentation is reversible
	e, _ := setUp(t, "- [ ] task|")
	e.Tab()
	e.UnTab()
	assert.Equal(t, "- [ ] task", e.Markdown().String())
	assert.True(t, e.Buffer().At(0).IsTodo())
}

func TestTabInverse(t *testing.T) {
	var tests = []struct {
		name    string
		options []func(*config.Config)
		tabbed  string
	}{
		{"tab unit", nil, "\t    paragraph"},
		{"spaces unit", []func(*config.Config){withSpaces}, "        paragraph"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := setUp(t, "    paragraph|", tt.options...)
			e.Tab()
			assert.Equal(t, tt.tabbed, e.Buffer().String())
			e.UnTab()
			assert.Equal(t, "    paragraph", e.Buffer().String())
		})
	}
}

func TestCommandsRestyle(t *testing.T) {
	e, _ := setUp(t, "foo «bar» baz")
	e.Bold()
	assert.True(t, e.Buffer().At(6).Font.Bold)
	assert.False(t, e.Buffer().At(0).Font.Bold)

	e, _ = setUp(t, "«x»")
	e.BackTick()
	code := e.Highlighter().CodeSpan()
	assert.Equal(t, code.Font.Family, e.Buffer().At(1).Font.Family)
	assert.Equal(t, code.Background, e.Buffer().At(1).Background)

	e, _ = setUp(t, "title|")
	e.Header(1)
	assert.Greater(t, e.Buffer().At(3).Font.Size, e.Highlighter().Base().Font.Size)
}

func TestTodos(t *testing.T) {
	e, saved := setUp(t, "- [ ] task")
	buf := e.Buffer()
	require.Equal(t, "\uFFFC task", buf.String())

	// Continue
	e.Select(buffer.NewRange(buf.Len(), 0))
	e.NewLine()
	assert.Equal(t, "\uFFFC task\n\uFFFC ", buf.String())
	assert.Equal(t, buffer.NewRange(buf.Len(), 0), e.Selection())
	assert.True(t, buf.At(7).IsTodo())
	assert.False(t, buf.At(7).Attachment.Checked)
	assert.Equal(t, "- [ ] task\n- [ ] ", (*saved)[len(*saved)-1].String())

	// Exit
	e.NewLine()
	assert.Equal(t, "\uFFFC task\n\n", buf.String())
	assert.Equal(t, buffer.NewRange(buf.Len(), 0), e.Selection())
	assert.Equal(t, "- [ ] task\n\n", e.Markdown().String())

	// Split
	e, _ = setUp(t, "- [ ] ab")
	e.Select(buffer.NewRange(3, 0))
	e.NewLine()
	assert.Equal(t, "- [ ] a\nb", e.Markdown().String())

	// Completed todos are continued unchecked
	e, _ = setUp(t, "- [x] done")
	e.Select(buffer.NewRange(e.Buffer().Len(), 0))
	e.NewLine()
	assert.Equal(t, "- [x] done\n- [ ] ", e.Markdown().String())
}

func TestToggle(t *testing.T) {
	e, saved := setUp(t, "- [ ] task")
	assert.True(t, e.Toggle(0))
	assert.Equal(t, "- [x] task", (*saved)[len(*saved)-1].String())
	assert.True(t, e.Buffer().At(2).Strikethrough)

	assert.False(t, e.Toggle(2))
	assert.True(t, e.Toggle(0))
	assert.Equal(t, "- [ ] task", e.Markdown().String())
	assert.False(t, e.Buffer().At(2).Strikethrough)
}

func TestExecute(t *testing.T) {
	e, _ := setUp(t, "«a»")
	require.NoError(t, e.Execute("bold", 0))
	assert.Equal(t, "**a**|", render(e))
	require.NoError(t, e.Execute("header", 2))
	assert.Equal(t, "## **a**|", render(e))

	assert.Error(t, e.Execute("unknown", 0))
	assert.Contains(t, Commands(), "newLine")
	assert.Len(t, Commands(), 15)
}

func TestSaveFailure(t *testing.T) {
	dir := t.TempDir()
	bridge := attachment.NewBridge(attachment.Options{})
	defer bridge.Close()
	e := New(config.Default(), note.New(filepath.Join(dir, "note.md"), dir), bridge, SaverFunc(func(doc markdown.Document) error {
		return errors.New("disk full")
	}))
	require.NoError(t, e.Load("a"))
	e.Select(buffer.NewRange(1, 0))

	// Editing continues
	e.Insert("b")
	assert.Equal(t, "ab", e.Markdown().String())
}

func TestSelect(t *testing.T) {
	e, _ := setUp(t, "abc")
	e.Select(buffer.NewRange(2, 10))
	assert.Equal(t, buffer.NewRange(2, 1), e.Selection())
	e.Select(buffer.NewRange(-1, 0))
	assert.Equal(t, buffer.NewRange(0, 0), e.Selection())
}

func TestPump(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "a.png", []byte("fake"))
	bridge := attachment.NewBridge(attachment.Options{
		Cache:   medias.NewCache(filepath.Join(dir, "cache"), medias.NewRandomConverter(), 450, time.Hour),
		Workers: 1,
	})
	defer bridge.Close()

	e := New(config.Default(), note.New(filepath.Join(dir, "note.md"), dir), bridge, nil)
	require.NoError(t, e.Load("Logo: ![logo](a.png)\n"))
	assert.Equal(t, "Logo: \uFFFC\n", e.Buffer().String())

	bridge.Wait()
	assert.Equal(t, 1, e.Pump())
	assert.Equal(t, buffer.StateReady, e.Buffer().At(6).Attachment.State)
	assert.Equal(t, "Logo: ![logo](a.png)\n", e.Markdown().String())
}
