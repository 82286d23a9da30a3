package medias

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupported is returned for sources that cannot be turned into a thumbnail.
var ErrUnsupported = errors.New("unsupported media")

// Dimensions regroups the width and height of an image.
type Dimensions struct {
	Width  int
	Height int
}

// ResizeTo returns the dimensions of a thumbnail no wider than the given width.
func ResizeTo(maxWidth int) Dimensions {
	return Dimensions{
		Width: maxWidth,
	}
}

func OriginalSize() Dimensions {
	return Dimensions{}
}

// Zero returns if the dimensions are not available.
func (d Dimensions) Zero() bool {
	return d.Height == 0 && d.Width == 0
}

func (d Dimensions) Landscape() bool {
	if d.Zero() {
		return false
	}
	return d.Width > d.Height
}

func (d Dimensions) Portrait() bool {
	if d.Zero() {
		return false
	}
	return d.Width < d.Height
}

// Fit returns the dimensions scaled down to the given width, keeping the aspect ratio.
// Smaller images are never upscaled.
func (d Dimensions) Fit(maxWidth int) Dimensions {
	if maxWidth <= 0 || d.Width <= maxWidth {
		return d
	}
	height := d.Height * maxWidth / d.Width
	if height < 1 {
		height = 1
	}
	return Dimensions{Width: maxWidth, Height: height}
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// ReadImageDimensions extracts the dimensions from a GIF/PNG/JPEG/BMP/TIFF/WebP file.
func ReadImageDimensions(path string) (Dimensions, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dimensions{}, err
	}
	defer f.Close()
	config, _, err := image.DecodeConfig(f)
	if err != nil {
		return Dimensions{}, err
	}
	return Dimensions{
		Width:  config.Width,
		Height: config.Height,
	}, nil
}

// Converter writes PNG thumbnails.
type Converter interface {
	OnPreGeneration(func(cmd string, args ...string))
	ToThumbnail(src, dest string, dimensions Dimensions) error
}
