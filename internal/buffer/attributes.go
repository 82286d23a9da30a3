package buffer

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/julien-sobczak/the-notewriter-live/pkg/oid"
)

// Transparent is the color of hidden syntax delimiters.
const Transparent = lipgloss.Color("#00000000")

// HiddenFontSize is the font size of hidden syntax delimiters.
const HiddenFontSize = 0.1

type Font struct {
	Family string
	Size   float64
	Bold   bool
	Italic bool
}

type AttachmentKind int

const (
	AttachmentImage AttachmentKind = iota + 1
	AttachmentCheckbox
)

func (k AttachmentKind) String() string {
	switch k {
	case AttachmentImage:
		return "image"
	case AttachmentCheckbox:
		return "checkbox"
	}
	return "none"
}

type AttachmentState int

const (
	// Thumbnail requested but not yet delivered
	StatePending AttachmentState = iota
	StateReady
	// Thumbnail generation failed, a placeholder is displayed
	StateFailed
)

func (s AttachmentState) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return "pending"
}

// AttachmentRef describes the object displayed in place of a U+FFFC unit.
// Bitmaps are never stored here: Source is the key into the thumbnail arena.
type AttachmentRef struct {
	ID oid.OID
	Kind AttachmentKind
	// Decoded path (or URL) as written in the markdown
	Source string
	// Alt text of an image
	Title   string
	Checked bool
	State   AttachmentState
}

// IsZero returns true when no attachment is present.
func (a AttachmentRef) IsZero() bool {
	return a.Kind == 0
}

// Attributes are the styles attached to a single code unit.
// The struct is comparable so that two passes can be compared with ==.
type Attributes struct {
	Font          Font
	Foreground    lipgloss.Color
	Background    lipgloss.Color
	Link          string
	Strikethrough bool
	Underline     bool
	Attachment    AttachmentRef
	// Todo tags checkbox attachments (the custom todo attribute key)
	Todo bool
}

// HasAttachment returns true if the unit displays an attachment.
func (a Attributes) HasAttachment() bool {
	return !a.Attachment.IsZero()
}

// IsImage returns true for image attachments.
func (a Attributes) IsImage() bool {
	return a.Attachment.Kind == AttachmentImage && !a.Todo
}

// IsTodo returns true for checkbox attachments.
func (a Attributes) IsTodo() bool {
	return a.Todo && a.Attachment.Kind == AttachmentCheckbox
}

// Hidden returns true if the unit is a hidden syntax delimiter.
func (a Attributes) Hidden() bool {
	return a.Font.Size == HiddenFontSize && a.Foreground == Transparent
}
