package medias

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

// NativeConverter decodes and scales images in-process.
type NativeConverter struct {
	listeners []func(cmd string, args ...string)
}

func NewNativeConverter() *NativeConverter {
	return &NativeConverter{}
}

func (c *NativeConverter) OnPreGeneration(fn func(cmd string, args ...string)) {
	c.listeners = append(c.listeners, fn)
}

func (c *NativeConverter) notifyListeners(cmd string, args ...string) {
	for _, fn := range c.listeners {
		fn(cmd, args...)
	}
}

// ToThumbnail decodes the source image and writes a PNG no wider than the requested width.
func (c *NativeConverter) ToThumbnail(srcPath string, destPath string, dimensions Dimensions) error {
	if !IsImage(srcPath) {
		return fmt.Errorf("%w: %s", ErrUnsupported, filepath.Base(srcPath))
	}
	destExt := strings.ToLower(filepath.Ext(destPath))
	if destExt != ".png" {
		return fmt.Errorf("target file must use extension .png. Got: %s", destExt)
	}

	c.notifyListeners("scale", srcPath, destPath, dimensions.String())

	in, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer in.Close()

	src, _, err := image.Decode(in)
	if err != nil {
		return fmt.Errorf("unable to decode %s: %w", srcPath, err)
	}

	bounds := src.Bounds()
	original := Dimensions{Width: bounds.Dx(), Height: bounds.Dy()}
	target := original
	if !dimensions.Zero() {
		target = original.Fit(dimensions.Width)
	}

	var thumbnail image.Image = src
	if target != original {
		dst := image.NewRGBA(image.Rect(0, 0, target.Width, target.Height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		thumbnail = dst
	}

	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	if err := png.Encode(out, thumbnail); err != nil {
		out.Close()
		return fmt.Errorf("unable to encode %s: %w", destPath, err)
	}
	return out.Close()
}
