package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/julien-sobczak/the-notewriter-live/internal/markdown"
	"github.com/julien-sobczak/the-notewriter-live/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunEdit(t *testing.T) {
	var tests = []struct {
		name     string
		content  string
		req      editRequest
		expected markdown.Document
	}{
		{
			name:     "bold",
			content:  "foo bar baz",
			req:      editRequest{Command: "bold", At: 4, Length: 3},
			expected: "foo **bar** baz",
		},
		{
			name:     "header",
			content:  "Title\n\nText",
			req:      editRequest{Command: "header", Level: 2},
			expected: "## Title\n\nText",
		},
		{
			name:     "continue todo list",
			content:  "- [ ] a",
			req:      editRequest{Command: "newLine", At: 3}, // the todo marker is a single character
			expected: "- [ ] a\n- [ ] ",
		},
		{
			name:     "indent todo",
			content:  "- [x] done\n",
			req:      editRequest{Command: "tab"},
			expected: "\t- [x] done\n",
		},
		{
			name:     "quote image",
			content:  "![logo](a.png)",
			req:      editRequest{Command: "quote"},
			expected: "> ![logo](a.png)",
		},
		{
			name:     "insert",
			content:  "ac",
			req:      editRequest{Command: "insert", At: 1, Text: "b"},
			expected: "abc",
		},
		{
			name:     "toggle",
			content:  "Intro\n- [ ] task",
			req:      editRequest{Command: "toggle", At: 6},
			expected: "Intro\n- [x] task",
		},
		{
			name:     "line endings",
			content:  "- a\r\n",
			req:      editRequest{Command: "newLine", At: 3},
			expected: "- a\n- \n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			testutil.WriteFile(t, dir, "a.png", []byte("fake"))
			path := testutil.WriteFile(t, dir, "note.md", []byte(tt.content))

			s, actual, err := runEdit(path, tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, actual)

			// The note is left untouched
			content, err := os.ReadFile(s.note.TextPath())
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(content))
		})
	}
}

func TestRunEditErrors(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "note.md", []byte("plain"))

	_, _, err := runEdit(path, editRequest{Command: "unknown"})
	assert.ErrorContains(t, err, `unknown command "unknown"`)

	_, _, err = runEdit(path, editRequest{Command: "toggle"})
	assert.ErrorContains(t, err, "no todo at 0")

	_, _, err = runEdit(filepath.Join(dir, "missing.md"), editRequest{Command: "bold"})
	assert.Error(t, err)
}
