package note

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/julien-sobczak/the-notewriter-live/pkg/text"
)

// ErrUnresolvable is returned for paths that cannot designate an asset.
var ErrUnresolvable = errors.New("unresolvable path")

// BundleExtension is the suffix of notes stored as directories.
const BundleExtension = ".textbundle"

type Storage int

const (
	// Flat notes are single markdown files sharing project asset directories
	Flat Storage = iota
	// Bundle notes are directories containing text.md and an assets/ directory
	Bundle
)

func (s Storage) String() string {
	if s == Bundle {
		return "bundle"
	}
	return "flat"
}

// Note is the document being edited.
type Note struct {
	// Absolute path of the markdown file or the bundle directory
	Path string
	// Absolute path of the project root
	Project string
	Storage Storage
}

// New detects the storage of a note.
func New(path, project string) *Note {
	storage := Flat
	if strings.HasSuffix(strings.TrimSuffix(path, string(filepath.Separator)), BundleExtension) {
		storage = Bundle
	} else if stat, err := os.Stat(path); err == nil && stat.IsDir() {
		storage = Bundle
	}
	return &Note{
		Path:    path,
		Project: project,
		Storage: storage,
	}
}

// Key identifies the note in background jobs.
func (n *Note) Key() string {
	return n.Path
}

// Title returns the note file name without extension.
func (n *Note) Title() string {
	return text.TrimExtension(filepath.Base(n.Path))
}

// TextPath returns the markdown file of the note.
func (n *Note) TextPath() string {
	if n.Storage == Bundle {
		return filepath.Join(n.Path, "text.md")
	}
	return n.Path
}

// Dir returns the directory used to resolve relative paths.
func (n *Note) Dir() string {
	if n.Storage == Bundle {
		return n.Path
	}
	return filepath.Dir(n.Path)
}

// Location is a resolved asset.
type Location struct {
	// Set for remote assets
	URL string
	// Set for local assets
	File string
}

// Remote returns if the asset must be downloaded.
func (l Location) Remote() bool {
	return l.URL != ""
}

// Source returns the key identifying the asset (URL or absolute file).
func (l Location) Source() string {
	if l.Remote() {
		return l.URL
	}
	return l.File
}

// Locator returns an absolute URL usable as link target.
func (l Location) Locator() string {
	if l.Remote() {
		return l.URL
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(l.File)}).String()
}

// Resolve converts a path found in the markdown into an asset location.
// Percent-encoded paths are decoded first.
func (n *Note) Resolve(path string) (Location, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Location{}, fmt.Errorf("%w: empty path", ErrUnresolvable)
	}

	lower := strings.ToLower(path)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		if _, err := url.Parse(path); err != nil {
			return Location{}, fmt.Errorf("%w: %v", ErrUnresolvable, err)
		}
		return Location{URL: path}, nil
	}
	if strings.HasPrefix(lower, "file://") {
		u, err := url.Parse(path)
		if err != nil {
			return Location{}, fmt.Errorf("%w: %v", ErrUnresolvable, err)
		}
		return Location{File: filepath.FromSlash(u.Path)}, nil
	}
	if strings.Contains(path, "://") {
		return Location{}, fmt.Errorf("%w: unsupported scheme in %q", ErrUnresolvable, path)
	}

	decoded, err := url.PathUnescape(path)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %v", ErrUnresolvable, err)
	}

	switch {
	case n.Storage == Bundle && strings.HasPrefix(decoded, "assets/"):
		return Location{File: filepath.Join(n.Path, filepath.FromSlash(decoded))}, nil
	case strings.HasPrefix(decoded, "/i/") || strings.HasPrefix(decoded, "/files/"):
		return Location{File: filepath.Join(n.Project, filepath.FromSlash(decoded))}, nil
	case filepath.IsAbs(decoded):
		return Location{File: filepath.Clean(decoded)}, nil
	}
	return Location{File: filepath.Join(n.Dir(), filepath.FromSlash(decoded))}, nil
}
