// Package editing implements the commands triggered from the editor toolbar and keyboard.
package editing

import (
	"fmt"

	"github.com/julien-sobczak/the-notewriter-live/internal/attachment"
	"github.com/julien-sobczak/the-notewriter-live/internal/buffer"
	"github.com/julien-sobczak/the-notewriter-live/internal/config"
	"github.com/julien-sobczak/the-notewriter-live/internal/highlight"
	"github.com/julien-sobczak/the-notewriter-live/internal/logger"
	"github.com/julien-sobczak/the-notewriter-live/internal/markdown"
	"github.com/julien-sobczak/the-notewriter-live/internal/note"
)

// Saver persists the markdown after every command.
type Saver interface {
	Save(doc markdown.Document) error
}

// SaverFunc adapts a function to the Saver interface.
type SaverFunc func(doc markdown.Document) error

func (f SaverFunc) Save(doc markdown.Document) error {
	return f(doc)
}

// Editor owns the buffer of a note. It must be used from a single goroutine.
type Editor struct {
	cfg         *config.Config
	note        *note.Note
	highlighter *highlight.Highlighter
	bridge      *attachment.Bridge
	saver       Saver

	buf       *buffer.Buffer
	selection buffer.Range
}

// New creates an editor with an empty buffer. The saver is optional.
func New(cfg *config.Config, n *note.Note, bridge *attachment.Bridge, saver Saver) *Editor {
	highlighter := highlight.New(cfg)
	return &Editor{
		cfg:         cfg,
		note:        n,
		highlighter: highlighter,
		bridge:      bridge,
		saver:       saver,
		buf:         buffer.NewWithAttributes("", highlighter.Base()),
	}
}

// Load replaces the buffer by the given markdown, loads attachments, and highlights the whole document.
func (e *Editor) Load(doc markdown.Document) error {
	doc, err := doc.Transform(markdown.NormalizeLineEndings())
	if err != nil {
		return err
	}
	e.buf = buffer.NewWithAttributes(doc.String(), e.highlighter.Base())
	if _, err := e.bridge.Load(e.buf, e.note); err != nil {
		return fmt.Errorf("unable to load attachments of %s: %w", e.note.Title(), err)
	}
	e.highlighter.Highlight(e.buf, highlight.Full(), e.note)
	e.selection = buffer.NewRange(0, 0)
	return nil
}

func (e *Editor) Buffer() *buffer.Buffer {
	return e.buf
}

func (e *Editor) Highlighter() *highlight.Highlighter {
	return e.highlighter
}

func (e *Editor) Selection() buffer.Range {
	return e.selection
}

// Select changes the selection. Out-of-bounds ranges are clamped.
func (e *Editor) Select(r buffer.Range) {
	e.selection = e.clamp(r)
}

// Markdown returns the markdown to persist.
func (e *Editor) Markdown() markdown.Document {
	return e.bridge.Unload(e.buf)
}

// Pump applies the thumbnails received in background and returns how many attachments were updated.
func (e *Editor) Pump() int {
	updated := e.bridge.Pump(e.buf)
	for _, r := range updated {
		e.highlighter.Highlight(e.buf, highlight.Paragraph(r), e.note)
	}
	return len(updated)
}

func (e *Editor) clamp(r buffer.Range) buffer.Range {
	n := e.buf.Len()
	return buffer.RangeBetween(min(max(r.Location, 0), n), min(max(r.End(), 0), n))
}

// replace logs instead of failing as commands never return errors.
func (e *Editor) replace(r buffer.Range, text string) bool {
	if err := e.buf.Replace(r, text); err != nil {
		logger.Warnf("Unable to edit %v: %v", r, err)
		return false
	}
	return true
}

// finish places the selection, restyles the modified paragraphs, and saves the note.
func (e *Editor) finish(modified buffer.Range, selection buffer.Range) {
	e.selection = e.clamp(selection)
	e.highlighter.Highlight(e.buf, highlight.Paragraph(e.clamp(modified)), e.note)
	e.save()
}

func (e *Editor) save() {
	if e.saver == nil {
		return
	}
	if err := e.saver.Save(e.Markdown()); err != nil {
		logger.Warnf("Unable to save note %s: %v", e.note.Title(), err)
	}
}
