// Package console prints single-line progress reports for long-running commands.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
)

type ProgressLog struct {
	output        io.Writer
	showPercent   bool
	current       int
	maxSteps      int
	maxCharacters int
}

func NewProgressLog(maxSteps int, options ...func(*ProgressLog)) *ProgressLog {
	result := &ProgressLog{
		output:        os.Stdout,
		maxSteps:      maxSteps,
		maxCharacters: 80,
	}
	for _, option := range options {
		option(result)
	}
	return result
}

func ToWriter(w io.Writer) func(*ProgressLog) {
	return func(s *ProgressLog) {
		s.output = w
	}
}

func ShowPercent() func(*ProgressLog) {
	return func(s *ProgressLog) {
		s.showPercent = true
	}
}

// Step moves to the next step and prints the message.
func (l *ProgressLog) Step(message string) {
	l.current++
	percent := 100
	if l.maxSteps > 0 {
		percent = l.current * 100 / l.maxSteps
	}

	// Between 0 and 10 '#' depending on the percent
	var sb strings.Builder
	filled := min(percent/10, 10)
	sb.WriteString(strings.Repeat("#", filled))
	sb.WriteString(strings.Repeat(" ", 10-filled))
	sb.WriteRune(' ')
	if l.showPercent {
		sb.WriteString(fmt.Sprintf("(%3d%%) ", percent))
	} else {
		sb.WriteString(fmt.Sprintf("(%d/%d) ", l.current, l.maxSteps))
	}
	sb.WriteString(message)

	fmt.Fprint(l.output, l.pad(sb.String()), "\r")
}

// Clear overwrites the progress line. A non-empty message stays visible on its own line.
func (l *ProgressLog) Clear(newMessage string) {
	fmt.Fprint(l.output, l.pad(newMessage))
	if newMessage == "" {
		fmt.Fprint(l.output, "\r")
	} else {
		fmt.Fprint(l.output, "\n")
	}
}

func (l *ProgressLog) pad(line string) string {
	if len(line) > l.maxCharacters {
		return line[0:l.maxCharacters]
	}
	return line + strings.Repeat(" ", l.maxCharacters-len(line))
}
