package editing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julien-sobczak/the-notewriter-live/internal/attachment"
	"github.com/julien-sobczak/the-notewriter-live/internal/buffer"
	"github.com/julien-sobczak/the-notewriter-live/internal/logger"
	"github.com/julien-sobczak/the-notewriter-live/internal/markdown"
)

var commands = map[string]func(e *Editor, level int){
	"bold":       func(e *Editor, _ int) { e.Bold() },
	"italic":     func(e *Editor, _ int) { e.Italic() },
	"underline":  func(e *Editor, _ int) { e.Underline() },
	"strike":     func(e *Editor, _ int) { e.Strike() },
	"deleteLine": func(e *Editor, _ int) { e.DeleteLine() },
	"header":     func(e *Editor, level int) { e.Header(level) },
	"link":       func(e *Editor, _ int) { e.Link() },
	"image":      func(e *Editor, _ int) { e.Image() },
	"tab":        func(e *Editor, _ int) { e.Tab() },
	"unTab":      func(e *Editor, _ int) { e.UnTab() },
	"tabKey":     func(e *Editor, _ int) { e.TabKey() },
	"newLine":    func(e *Editor, _ int) { e.NewLine() },
	"backTick":   func(e *Editor, _ int) { e.BackTick() },
	"codeBlock":  func(e *Editor, _ int) { e.CodeBlock() },
	"quote":      func(e *Editor, _ int) { e.Quote() },
}

// Commands returns the names accepted by Execute.
func Commands() []string {
	var names []string
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute runs a command by name. The level is only used by headers.
func (e *Editor) Execute(name string, level int) error {
	command, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q", name)
	}
	command(e, level)
	return nil
}

/* Inline */

func (e *Editor) Bold() {
	e.wrap("**", "**")
}

func (e *Editor) Italic() {
	e.wrap("*", "*")
}

func (e *Editor) Underline() {
	e.wrap("<u>", "</u>")
}

func (e *Editor) Strike() {
	e.wrap("~~", "~~")
}

// surround inserts the delimiters around the range and returns the range covering the result.
// Units inside the range are left untouched so that attachments survive.
func (e *Editor) surround(r buffer.Range, open, close string) (buffer.Range, bool) {
	if !e.replace(buffer.NewRange(r.End(), 0), close) {
		return r, false
	}
	if !e.replace(buffer.NewRange(r.Location, 0), open) {
		return r, false
	}
	return buffer.NewRange(r.Location, buffer.Len16(open)+r.Length+buffer.Len16(close)), true
}

// wrap surrounds the selection. The caret is placed between the delimiters when nothing is selected,
// after the closing delimiter otherwise.
func (e *Editor) wrap(open, close string) {
	sel := e.selection
	modified, ok := e.surround(sel, open, close)
	if !ok {
		return
	}
	caret := modified.End()
	if sel.IsEmpty() {
		caret = sel.Location + buffer.Len16(open)
	}
	e.finish(modified, buffer.NewRange(caret, 0))
}

func (e *Editor) Link() {
	e.anchor("")
}

func (e *Editor) Image() {
	e.anchor("!")
}

// anchor writes [selection](). The caret goes inside the parentheses when nothing is selected.
func (e *Editor) anchor(prefix string) {
	sel := e.selection
	modified, ok := e.surround(sel, prefix+"[", "]()")
	if !ok {
		return
	}
	caret := modified.End()
	if sel.IsEmpty() {
		caret--
	}
	e.finish(modified, buffer.NewRange(caret, 0))
}

// BackTick wraps the selection in a code span. The code font is applied without waiting for the highlighter.
func (e *Editor) BackTick() {
	sel := e.selection
	if sel.IsEmpty() {
		e.wrap("`", "`")
		return
	}
	modified, ok := e.surround(sel, "`", "`")
	if !ok {
		return
	}
	code := e.highlighter.CodeSpan()
	e.buf.Update(modified, func(a *buffer.Attributes) {
		a.Font = code.Font
		a.Foreground = code.Foreground
		a.Background = code.Background
	})
	e.finish(modified, buffer.NewRange(modified.End(), 0))
}

// Insert replaces the selection by a text typed by the user.
func (e *Editor) Insert(text string) {
	sel := e.selection
	if !e.replace(sel, text) {
		return
	}
	modified := buffer.NewRange(sel.Location, buffer.Len16(text))
	e.finish(modified, buffer.NewRange(modified.End(), 0))
}

// Toggle checks or unchecks the todo at the given offset.
func (e *Editor) Toggle(at int) bool {
	if !e.bridge.Toggle(e.buf, at) {
		return false
	}
	e.finish(buffer.NewRange(at, 1), e.selection)
	return true
}

/* Paragraphs */

// Header replaces the heading marker of the current paragraph. Level 0 removes it.
func (e *Editor) Header(level int) {
	sel := e.selection
	p := e.buf.ContentRange(buffer.NewRange(sel.Location, 0))
	existing := markdown.HeadingPrefix(e.buf.Substring(p))
	marker := ""
	if level > 0 {
		marker = strings.Repeat("#", min(level, 6)) + " "
	}
	if !e.replace(buffer.NewRange(p.Location, buffer.Len16(existing)), marker) {
		return
	}
	delta := buffer.Len16(marker) - buffer.Len16(existing)
	location := max(sel.Location+delta, p.Location+buffer.Len16(marker))
	e.finish(p, buffer.NewRange(location, sel.Length))
}

// lines returns the paragraphs covered by the selection without the last separator.
func (e *Editor) lines() buffer.Range {
	return e.buf.ContentRange(e.selection)
}

// prefixLines edits the start of every line covered by the selection and selects the result.
// The function returns how many leading units to remove and the text to insert in their place.
// The rest of each line is left untouched so that attachments survive.
func (e *Editor) prefixLines(fn func(line string) (int, string)) {
	r := e.lines()
	starts := []int{r.Location}
	for i := r.Location; i < r.End(); i++ {
		if e.buf.UnitAt(i) == '\n' {
			starts = append(starts, i+1)
		}
	}

	// Last line first so that the offsets of previous lines stay valid
	end := r.End()
	for i := len(starts) - 1; i >= 0; i-- {
		stop := r.End()
		if i+1 < len(starts) {
			stop = starts[i+1] - 1
		}
		remove, prefix := fn(e.buf.Substring(buffer.RangeBetween(starts[i], stop)))
		if !e.replace(buffer.NewRange(starts[i], remove), prefix) {
			return
		}
		end += buffer.Len16(prefix) - remove
	}
	modified := buffer.RangeBetween(r.Location, end)
	e.finish(modified, modified)
}

func (e *Editor) Tab() {
	indent := e.cfg.Indent()
	e.prefixLines(func(line string) (int, string) {
		return 0, indent
	})
}

// UnTab removes one tab or up to 4 spaces at the start of every line.
func (e *Editor) UnTab() {
	e.prefixLines(func(line string) (int, string) {
		if strings.HasPrefix(line, "\t") {
			return 1, ""
		}
		n := 0
		for n < 4 && n < len(line) && line[n] == ' ' {
			n++
		}
		return n, ""
	})
}

// TabKey inserts a tab. An empty document receives a tab followed by a newline.
func (e *Editor) TabKey() {
	sel := e.selection
	if e.buf.Len() == 0 {
		if !e.replace(buffer.NewRange(0, 0), "\t\n") {
			return
		}
		e.finish(buffer.NewRange(0, 2), buffer.NewRange(1, 0))
		return
	}
	if !e.replace(sel, "\t") {
		return
	}
	e.finish(buffer.NewRange(sel.Location, 1), buffer.NewRange(sel.Location+1, 0))
}

func (e *Editor) Quote() {
	e.prefixLines(func(line string) (int, string) {
		return 0, "> "
	})
}

// CodeBlock surrounds the selection with fences on their own lines.
func (e *Editor) CodeBlock() {
	sel := e.selection
	opening := "```\n"
	if sel.Location > 0 && e.buf.UnitAt(sel.Location-1) != '\n' {
		opening = "\n" + opening
	}
	closing := "```"
	if sel.IsEmpty() || e.buf.UnitAt(sel.End()-1) != '\n' {
		closing = "\n" + closing
	}
	fence := buffer.Len16(closing)
	if sel.End() < e.buf.Len() && e.buf.UnitAt(sel.End()) != '\n' {
		closing += "\n"
	}

	modified, ok := e.surround(sel, opening, closing)
	if !ok {
		return
	}
	caret := buffer.NewRange(sel.End()+buffer.Len16(opening)+fence, 0)
	if sel.IsEmpty() {
		caret = buffer.NewRange(sel.Location+buffer.Len16(opening), 0)
	}
	e.finish(modified, caret)
}

// DeleteLine removes the paragraphs covered by the selection including their separator.
func (e *Editor) DeleteLine() {
	r := e.buf.ParagraphRange(e.selection)
	if err := e.buf.Delete(r); err != nil {
		logger.Warnf("Unable to delete %v: %v", r, err)
		return
	}
	e.finish(buffer.NewRange(r.Location, 0), buffer.NewRange(r.Location, 0))
}

/* New line */

// NewLine breaks the current paragraph, continuing todo lists, lists, and indentation.
// A todo or a list item containing only its marker ends the list instead.
func (e *Editor) NewLine() {
	sel := e.selection
	p := e.buf.ContentRange(buffer.NewRange(sel.Location, 0))
	paragraph := e.buf.Substring(p)
	indent := paragraph[:len(paragraph)-len(strings.TrimLeft(paragraph, " \t"))]
	offset := sel.Location - p.Location

	if i := p.Location + buffer.Len16(indent); i < p.End() && e.buf.IsAttachmentAt(i) && e.buf.At(i).IsTodo() {
		if sel.End() == p.End() {
			rest := e.buf.Substring(buffer.RangeBetween(i+1, p.End()))
			if strings.TrimSpace(rest) == "" {
				e.exitList(p)
			} else {
				e.continueTodo(sel, indent)
			}
			return
		}
	}

	if prefix, ok := markdown.MatchListPrefix(paragraph); ok && offset >= buffer.Len16(paragraph[:prefix.Length]) {
		if prefix.Empty {
			e.exitList(p)
			return
		}
		e.newLine(sel, "\n"+prefix.Next().String())
		return
	}

	if strings.HasPrefix(indent, "\t") || strings.HasPrefix(indent, "    ") {
		e.newLine(sel, "\n"+indent)
		return
	}
	e.newLine(sel, "\n")
}

func (e *Editor) newLine(sel buffer.Range, text string) {
	if !e.replace(sel, text) {
		return
	}
	caret := sel.Location + buffer.Len16(text)
	e.finish(buffer.RangeBetween(sel.Location, caret), buffer.NewRange(caret, 0))
}

// exitList replaces a marker-only paragraph by an empty one.
func (e *Editor) exitList(p buffer.Range) {
	if !e.replace(p, "\n") {
		return
	}
	e.finish(buffer.NewRange(p.Location, 1), buffer.NewRange(p.Location+1, 0))
}

// continueTodo starts a new unchecked todo.
func (e *Editor) continueTodo(sel buffer.Range, indent string) {
	if !e.replace(sel, "\n"+indent) {
		return
	}
	at := sel.Location + 1 + buffer.Len16(indent)
	if err := e.buf.InsertAttachment(buffer.NewRange(at, 0), attachment.Checkbox(e.buf.Base(), false)); err != nil {
		logger.Warnf("Unable to insert todo at %d: %v", at, err)
		return
	}
	if !e.replace(buffer.NewRange(at+1, 0), " ") {
		return
	}
	e.finish(buffer.RangeBetween(sel.Location, at+2), buffer.NewRange(at+2, 0))
}
