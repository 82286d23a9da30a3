package medias

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/julien-sobczak/the-notewriter-live/internal/helpers"
	"github.com/julien-sobczak/the-notewriter-live/internal/logger"
	"github.com/julien-sobczak/the-notewriter-live/pkg/clock"
	"github.com/julien-sobczak/the-notewriter-live/pkg/filesystem"
)

// Thumbnail is a generated PNG stored in the cache directory.
type Thumbnail struct {
	// Decoded path or URL of the original media
	Source     string
	Path       string
	Dimensions Dimensions
}

// Cache stores thumbnails on disk, one PNG per source.
type Cache struct {
	dir       string
	converter Converter
	client    *http.Client
	maxWidth  int
	ttl       time.Duration
}

func NewCache(dir string, converter Converter, maxWidth int, ttl time.Duration) *Cache {
	return &Cache{
		dir:       dir,
		converter: converter,
		client:    &http.Client{Timeout: 30 * time.Second},
		maxWidth:  maxWidth,
		ttl:       ttl,
	}
}

// WithClient overrides the HTTP client used to download remote images.
func (c *Cache) WithClient(client *http.Client) *Cache {
	c.client = client
	return c
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Path returns the location of the thumbnail of a source.
func (c *Cache) Path(source string) string {
	return filepath.Join(c.dir, helpers.HashFromSource(source)+".png")
}

// Fresh returns if the cached thumbnail can be reused.
// Local thumbnails must be newer than their source. Remote ones expire after the TTL.
func (c *Cache) Fresh(source string, remote bool) bool {
	dest, err := filesystem.Stat(c.Path(source))
	if err != nil {
		return false
	}
	if remote {
		return clock.Now().Sub(dest.ModTime()) < c.ttl
	}
	src, err := filesystem.Stat(source)
	if err != nil {
		return false
	}
	return !dest.ModTime().Before(src.ModTime())
}

// Thumbnail returns the thumbnail of a source, generating it when missing or stale.
func (c *Cache) Thumbnail(source string, remote bool) (Thumbnail, error) {
	dest := c.Path(source)
	if !c.Fresh(source, remote) {
		if err := c.generate(source, dest, remote); err != nil {
			return Thumbnail{}, err
		}
	} else {
		logger.Tracef("Reusing thumbnail %s for %s", filepath.Base(dest), source)
	}

	// Fake converters produce files that are not images
	dimensions, _ := ReadImageDimensions(dest)
	return Thumbnail{
		Source:     source,
		Path:       dest,
		Dimensions: dimensions,
	}, nil
}

func (c *Cache) generate(source, dest string, remote bool) error {
	if err := os.MkdirAll(c.dir, os.ModePerm); err != nil {
		return fmt.Errorf("unable to create cache directory: %w", err)
	}

	src := source
	if remote {
		tmp, err := c.download(source)
		if err != nil {
			return err
		}
		defer os.Remove(tmp)
		src = tmp
	} else if _, err := os.Stat(source); err != nil {
		return fmt.Errorf("missing media %s: %w", source, err)
	}

	logger.Debugf("Generating thumbnail for %s", source)
	if err := c.converter.ToThumbnail(src, dest, ResizeTo(c.maxWidth)); err != nil {
		// Never leave a partial thumbnail that would look fresh
		os.Remove(dest)
		return err
	}
	return nil
}

// download saves a remote image in a temporary file preserving its extension.
func (c *Cache) download(source string) (string, error) {
	u, err := url.Parse(source)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", source, err)
	}

	resp, err := c.client.Get(source)
	if err != nil {
		return "", fmt.Errorf("unable to download %s: %w", source, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unable to download %s: %s", source, resp.Status)
	}

	f, err := os.CreateTemp("", "nt-live-*"+path.Ext(u.Path))
	if err != nil {
		return "", err
	}
	_, err = io.Copy(f, resp.Body)
	err = errors.Join(err, f.Close())
	if err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("unable to download %s: %w", source, err)
	}
	return f.Name(), nil
}

// Size returns the disk space used by the cache.
func (c *Cache) Size() (int64, error) {
	if _, err := os.Stat(c.dir); errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	return filesystem.DirSize(c.dir)
}

// Purge removes every thumbnail.
func (c *Cache) Purge() error {
	return os.RemoveAll(c.dir)
}
