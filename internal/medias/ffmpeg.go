package medias

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/julien-sobczak/the-notewriter-live/internal/logger"
)

type FFmpegConverter struct {
	exe       string
	listeners []func(cmd string, args ...string)
}

func NewFFmpegConverter() (*FFmpegConverter, error) {
	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, errors.New("executable 'ffmpeg' not found in $PATH")
	}
	return &FFmpegConverter{
		exe: path,
	}, nil
}

func (c *FFmpegConverter) OnPreGeneration(fn func(cmd string, args ...string)) {
	c.listeners = append(c.listeners, fn)
}

func (c *FFmpegConverter) notifyListeners(cmd string, args ...string) {
	for _, fn := range c.listeners {
		fn(cmd, args...)
	}
}

/*
 * ffmpeg supports more formats than the native converter (ex: AVIF, HEIC, videos).
 *
 * Extract the first frame of a video
 *    $ ffmpeg -i input.webm -vf "select=eq(n\,0)" output.png
 *
 * Scaling while keeping the aspect ratio (see https://trac.ffmpeg.org/wiki/Scaling)
 *    $ ffmpeg -i input.jpg -vf scale=320:-1 output_320.png
 */

// ToThumbnail converts a picture (or the first frame of a video) to a PNG thumbnail.
// Requirements:
//
//	brew install ffmpeg
func (c *FFmpegConverter) ToThumbnail(srcPath string, destPath string, dimensions Dimensions) error {
	destExt := strings.ToLower(filepath.Ext(destPath))
	if destExt != ".png" {
		return fmt.Errorf("target file must use extension .png. Got: %s", destExt)
	}

	if _, err := os.Stat(srcPath); err != nil {
		return err
	}

	var cmdFilters []string
	if strings.HasPrefix(MimeType(filepath.Ext(srcPath)), "video/") {
		cmdFilters = append(cmdFilters, `select=eq(n\,0)`)
	}
	if !dimensions.Zero() {
		// Never upscale small pictures (dimensions are unknown for videos and some formats)
		srcDimensions, _ := ReadImageDimensions(srcPath)
		if srcDimensions.Zero() || srcDimensions.Width > dimensions.Width {
			cmdFilters = append(cmdFilters, fmt.Sprintf("scale=%d:-1", dimensions.Width))
		}
	}

	var args []string
	args = append(args, "-i", srcPath)
	if len(cmdFilters) > 0 {
		args = append(args, "-vf", strings.Join(cmdFilters, ","))
	}
	args = append(args, "-frames:v", "1", destPath)

	c.notifyListeners(c.exe, args...)
	cmd := exec.CommandContext(context.Background(), c.exe, args...)

	// Dump output to troubleshoot
	output, err := cmd.CombinedOutput()
	if err != nil {
		logger.Debugf("ffmpeg output: %s", output)
		return fmt.Errorf("ffmpeg failed on %s: %w", srcPath, err)
	}
	return nil
}
