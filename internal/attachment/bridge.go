// Package attachment converts markdown images and todo markers into attachment units and back.
package attachment

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/julien-sobczak/the-notewriter-live/internal/buffer"
	"github.com/julien-sobczak/the-notewriter-live/internal/logger"
	"github.com/julien-sobczak/the-notewriter-live/internal/markdown"
	"github.com/julien-sobczak/the-notewriter-live/internal/medias"
	"github.com/julien-sobczak/the-notewriter-live/internal/note"
	"github.com/julien-sobczak/the-notewriter-live/pkg/oid"
	"golang.org/x/exp/slices"
)

var library = markdown.NewLibrary()

type Options struct {
	// Thumbnails are not generated when nil
	Cache     *medias.Cache
	Workers   int
	// Initial backlog capacity of each worker
	QueueSize int
}

// Bridge owns the thumbnail queue of one note.
type Bridge struct {
	queue   *medias.Queue
	mailbox *Mailbox
	arena   *medias.Arena
}

func NewBridge(opts Options) *Bridge {
	b := &Bridge{
		mailbox: NewMailbox(),
		arena:   medias.NewArena(),
	}
	if opts.Cache != nil {
		b.queue = medias.NewQueue(opts.Cache, opts.Workers, opts.QueueSize, b.mailbox.Post)
	}
	return b
}

func (b *Bridge) Mailbox() *Mailbox {
	return b.mailbox
}

func (b *Bridge) Arena() *medias.Arena {
	return b.arena
}

// Wait blocks until every requested thumbnail has been posted.
func (b *Bridge) Wait() {
	if b.queue != nil {
		b.queue.Wait()
	}
}

// Close waits for the running jobs. Results are still delivered to the mailbox.
func (b *Bridge) Close() {
	if b.queue != nil {
		b.queue.Close()
	}
}

// Checkbox returns the attributes of a todo checkbox.
func Checkbox(base buffer.Attributes, checked bool) buffer.Attributes {
	attrs := base
	attrs.Attachment = buffer.AttachmentRef{
		ID:      oid.New(),
		Kind:    buffer.AttachmentCheckbox,
		Checked: checked,
		State:   buffer.StateReady,
	}
	attrs.Todo = true
	return attrs
}

// Load replaces images and todo markers outside code by attachment units.
// Paths that cannot be resolved are left untouched. Returns the number of attachments created.
func (b *Bridge) Load(buf *buffer.Buffer, n *note.Note) (int, error) {
	src := markdown.NewSource(buf.String())
	guard := markdown.NewGuard(src)

	candidates := append(library.Find(markdown.InlineImage, src), library.Find(markdown.TodoMarker, src)...)
	slices.SortStableFunc(candidates, func(a, b markdown.Match) int {
		return a.Range.Location - b.Range.Location
	})

	type request struct {
		ref      buffer.AttachmentRef
		location note.Location
	}
	var requests []request

	count := 0
	shift := 0
	end := 0
	for _, m := range candidates {
		if m.Range.Location < end || guard.Claimed(m.Range) {
			continue
		}

		var target buffer.Range
		var attrs buffer.Attributes
		var req *request
		switch m.Kind {
		case markdown.InlineImage:
			ref, location, ok := b.image(m, n)
			if !ok {
				continue
			}
			target = m.Range
			attrs = buf.Base()
			attrs.Attachment = ref
			req = &request{ref, location}
		case markdown.TodoMarker:
			marker, ok := m.Group("marker")
			if !ok {
				continue
			}
			target = marker
			attrs = Checkbox(buf.Base(), m.Value("state") == "x")
		}

		r := target.Shift(shift)
		if !buf.Fits(r) {
			continue
		}
		if err := buf.InsertAttachment(r, attrs); err != nil {
			return count, fmt.Errorf("unable to load attachment at %v: %w", r, err)
		}
		shift += 1 - r.Length
		end = m.Range.End()
		count++
		if req != nil {
			requests = append(requests, *req)
		}
	}

	// Submitted once the buffer is updated so results always find their unit
	for _, req := range requests {
		b.request(req.ref, req.location, n)
	}
	return count, nil
}

// image validates an image match.
func (b *Bridge) image(m markdown.Match, n *note.Note) (buffer.AttachmentRef, note.Location, bool) {
	raw := m.Value("url")
	_, title := m.Group("title")
	_, title2 := m.Group("title2")
	if title || title2 || strings.HasPrefix(raw, "<") {
		// Cannot be restored identically
		return buffer.AttachmentRef{}, note.Location{}, false
	}
	location, err := n.Resolve(raw)
	if err != nil {
		logger.Debugf("Ignoring image %q: %v", raw, err)
		return buffer.AttachmentRef{}, note.Location{}, false
	}

	source := raw
	if !location.Remote() {
		if !medias.IsImage(location.File) {
			logger.Debugf("Ignoring unsupported image %q", raw)
			return buffer.AttachmentRef{}, note.Location{}, false
		}
		if _, err := os.Stat(location.File); err != nil {
			logger.Debugf("Ignoring missing image %q: %v", raw, err)
			return buffer.AttachmentRef{}, note.Location{}, false
		}
		// Resolve already validated the encoding
		source, _ = url.PathUnescape(raw)
	}

	return buffer.AttachmentRef{
		ID:     oid.New(),
		Kind:   buffer.AttachmentImage,
		Source: source,
		Title:  m.Value("alt"),
		State:  buffer.StatePending,
	}, location, true
}

func (b *Bridge) request(ref buffer.AttachmentRef, location note.Location, n *note.Note) {
	if b.queue == nil {
		return
	}
	err := b.queue.Submit(medias.Job{
		Attachment: ref.ID,
		Note:       n.Key(),
		Source:     location.Source(),
		Remote:     location.Remote(),
	})
	if err != nil {
		logger.Warnf("Unable to request thumbnail for %s: %v", ref.Source, err)
	}
}

// Unload returns the markdown of the buffer, converting attachments back to their syntax.
// The buffer is not modified.
func (b *Bridge) Unload(buf *buffer.Buffer) markdown.Document {
	clone := buf.Clone()
	unloadAttachments(clone, buffer.Attributes.IsImage, func(ref buffer.AttachmentRef) string {
		return fmt.Sprintf("![%s](%s)", ref.Title, encodePath(ref.Source))
	})
	unloadAttachments(clone, buffer.Attributes.IsTodo, func(ref buffer.AttachmentRef) string {
		if ref.Checked {
			return "- [x]"
		}
		return "- [ ]"
	})
	return markdown.Document(clone.String())
}

func unloadAttachments(buf *buffer.Buffer, accept func(buffer.Attributes) bool, format func(buffer.AttachmentRef) string) {
	var offsets []int
	for i := 0; i < buf.Len(); i++ {
		if buf.IsAttachmentAt(i) && accept(buf.At(i)) {
			offsets = append(offsets, i)
		}
	}
	shift := 0
	for _, offset := range offsets {
		r := buffer.NewRange(offset+shift, 1)
		text := format(buf.At(r.Location).Attachment)
		if err := buf.Replace(r, text); err != nil {
			logger.Warnf("Unable to unload attachment at %v: %v", r, err)
			continue
		}
		shift += buffer.Len16(text) - 1
	}
}

// encodePath percent-encodes each segment of a local path. URLs are kept as is.
func encodePath(source string) string {
	if strings.Contains(source, "://") {
		return source
	}
	segments := strings.Split(source, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}

// Apply updates the attachment of a thumbnail result.
// Results for attachments no longer present are ignored.
func (b *Bridge) Apply(buf *buffer.Buffer, result medias.Result) bool {
	i, ok := buf.FindAttachment(func(ref buffer.AttachmentRef) bool {
		return ref.ID == result.Job.Attachment
	})
	if !ok {
		logger.Debugf("Ignoring thumbnail of removed attachment %s", result.Job.Attachment.Short())
		return false
	}
	r := buffer.NewRange(i, 1)
	if !buf.Fits(r) {
		return false
	}

	ref := buf.At(i).Attachment
	state := buffer.StateReady
	if result.Err != nil {
		logger.Warnf("Unable to generate thumbnail for %s: %v", ref.Source, result.Err)
		state = buffer.StateFailed
	} else {
		thumbnail := result.Thumbnail
		thumbnail.Source = ref.Source
		b.arena.Put(thumbnail)
	}
	buf.Update(r, func(a *buffer.Attributes) {
		a.Attachment.State = state
	})
	return true
}

// Pump applies the results received since the last call and returns the updated ranges.
func (b *Bridge) Pump(buf *buffer.Buffer) []buffer.Range {
	var updated []buffer.Range
	for _, result := range b.mailbox.Drain() {
		if !b.Apply(buf, result) {
			continue
		}
		if i, ok := buf.FindAttachment(func(ref buffer.AttachmentRef) bool {
			return ref.ID == result.Job.Attachment
		}); ok {
			updated = append(updated, buffer.NewRange(i, 1))
		}
	}
	return updated
}

// Toggle flips the checkbox at the given offset.
func (b *Bridge) Toggle(buf *buffer.Buffer, at int) bool {
	if !buf.IsAttachmentAt(at) || !buf.At(at).IsTodo() {
		return false
	}
	buf.Update(buffer.NewRange(at, 1), func(a *buffer.Attributes) {
		a.Attachment.Checked = !a.Attachment.Checked
	})
	return true
}
