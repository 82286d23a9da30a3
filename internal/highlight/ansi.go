package highlight

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/julien-sobczak/the-notewriter-live/internal/buffer"
)

// RenderANSI renders a styled buffer for terminals. Hidden delimiters are skipped.
func RenderANSI(buf *buffer.Buffer) string {
	var sb strings.Builder
	for _, run := range buf.Runs() {
		a := run.Attributes
		if a.Hidden() {
			continue
		}
		text := buf.Substring(run.Range)
		if a.HasAttachment() {
			text = renderAttachment(a, run.Range.Length)
		}

		style := lipgloss.NewStyle().
			Bold(a.Font.Bold).
			Italic(a.Font.Italic).
			Strikethrough(a.Strikethrough).
			Underline(a.Underline)
		if a.Foreground != "" && a.Foreground != buffer.Transparent {
			style = style.Foreground(a.Foreground)
		}
		if a.Background != "" {
			style = style.Background(a.Background)
		}

		// Render line by line as lipgloss pads multi-line blocks
		for i, line := range strings.Split(text, "\n") {
			if i > 0 {
				sb.WriteString("\n")
			}
			if line != "" {
				sb.WriteString(style.Render(line))
			}
		}
	}
	return sb.String()
}

func renderAttachment(a buffer.Attributes, count int) string {
	var symbol string
	switch {
	case a.IsTodo() && a.Attachment.Checked:
		symbol = "[x]"
	case a.IsTodo():
		symbol = "[ ]"
	case a.Attachment.State == buffer.StateFailed:
		symbol = "[missing image: " + a.Attachment.Title + "]"
	default:
		symbol = "[image: " + a.Attachment.Title + "]"
	}
	return strings.Repeat(symbol, count)
}
