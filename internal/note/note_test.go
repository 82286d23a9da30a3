package note_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/julien-sobczak/the-notewriter-live/internal/note"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	project := t.TempDir()
	bundle := filepath.Join(project, "trip")
	require.NoError(t, os.MkdirAll(filepath.Join(bundle, "assets"), os.ModePerm))

	flat := note.New(filepath.Join(project, "notes", "today.md"), project)
	assert.Equal(t, note.Flat, flat.Storage)
	assert.Equal(t, "today", flat.Title())
	assert.Equal(t, filepath.Join(project, "notes"), flat.Dir())
	assert.Equal(t, flat.Path, flat.TextPath())

	dir := note.New(bundle, project)
	assert.Equal(t, note.Bundle, dir.Storage)
	assert.Equal(t, filepath.Join(bundle, "text.md"), dir.TextPath())

	suffixed := note.New(filepath.Join(project, "Paris.textbundle"), project)
	assert.Equal(t, note.Bundle, suffixed.Storage)
	assert.Equal(t, "Paris", suffixed.Title())
	assert.Equal(t, "bundle", suffixed.Storage.String())
}

func TestResolve(t *testing.T) {
	project := "/home/me/notes"
	flat := note.New("/home/me/notes/journal/today.md", project)
	bundle := note.New("/home/me/notes/Paris.textbundle", project)

	tests := []struct {
		name    string
		note    *note.Note
		path    string // input
		file    string // output
		url     string // output
		locator string // output
		invalid bool   // output
	}{
		{
			name:    "Relative",
			note:    flat,
			path:    "img/a.png",
			file:    "/home/me/notes/journal/img/a.png",
			locator: "file:///home/me/notes/journal/img/a.png",
		},
		{
			name:    "Encoded",
			note:    flat,
			path:    "img/my%20photo.png",
			file:    "/home/me/notes/journal/img/my photo.png",
			locator: "file:///home/me/notes/journal/img/my%20photo.png",
		},
		{
			name:    "Flat image directory",
			note:    flat,
			path:    "/i/a.png",
			file:    "/home/me/notes/i/a.png",
			locator: "file:///home/me/notes/i/a.png",
		},
		{
			name:    "Flat files directory",
			note:    flat,
			path:    "/files/report.pdf",
			file:    "/home/me/notes/files/report.pdf",
			locator: "file:///home/me/notes/files/report.pdf",
		},
		{
			name:    "Bundle assets",
			note:    bundle,
			path:    "assets/tower.jpg",
			file:    "/home/me/notes/Paris.textbundle/assets/tower.jpg",
			locator: "file:///home/me/notes/Paris.textbundle/assets/tower.jpg",
		},
		{
			name:    "Absolute",
			note:    flat,
			path:    "/tmp/../tmp/a.png",
			file:    "/tmp/a.png",
			locator: "file:///tmp/a.png",
		},
		{
			name:    "File URL",
			note:    flat,
			path:    "file:///tmp/a%20b.png",
			file:    "/tmp/a b.png",
			locator: "file:///tmp/a%20b.png",
		},
		{
			name:    "Remote",
			note:    flat,
			path:    "https://example.org/a.png",
			url:     "https://example.org/a.png",
			locator: "https://example.org/a.png",
		},
		{
			name:    "Malformed encoding",
			note:    flat,
			path:    "img/100%.png",
			invalid: true,
		},
		{
			name:    "Unsupported scheme",
			note:    flat,
			path:    "ftp://example.org/a.png",
			invalid: true,
		},
		{
			name:    "Empty",
			note:    flat,
			path:    " ",
			invalid: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			location, err := tt.note.Resolve(tt.path)
			if tt.invalid {
				assert.ErrorIs(t, err, note.ErrUnresolvable)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.FromSlash(tt.file), location.File)
			assert.Equal(t, tt.url, location.URL)
			assert.Equal(t, tt.url != "", location.Remote())
			assert.Equal(t, tt.locator, location.Locator())
			if location.Remote() {
				assert.Equal(t, tt.url, location.Source())
			} else {
				assert.Equal(t, location.File, location.Source())
			}
		})
	}
}
