package medias

import (
	"os"
	"path/filepath"

	"github.com/julien-sobczak/the-notewriter-live/internal/helpers"
)

// RandomConverter generates files containing fake data.
// Useful in tests to avoid waiting for image decoding or a command like ffmpeg to finish.
type RandomConverter struct {
	listeners []func(cmd string, args ...string)
}

func NewRandomConverter() *RandomConverter {
	return &RandomConverter{}
}

func (c *RandomConverter) OnPreGeneration(fn func(cmd string, args ...string)) {
	c.listeners = append(c.listeners, fn)
}

func (c *RandomConverter) notifyListeners(cmd string, args ...string) {
	for _, fn := range c.listeners {
		fn(cmd, args...)
	}
}

func (c *RandomConverter) ToThumbnail(src, dest string, dimensions Dimensions) error {
	if _, err := os.Stat(src); err != nil {
		return err
	}
	c.notifyListeners("convert", src, dest)
	hash := helpers.HashFromSource(filepath.Base(dest)) // Ignore Dir as tests often uses t.TempDir()
	return os.WriteFile(dest, []byte(hash), 0644)
}
