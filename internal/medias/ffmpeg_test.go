package medias

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain allows the test binary to impersonate ffmpeg
// using the same technique as used by Golang in src/os/exec_test.go.
// Read the official tests or this article https://abhinavg.net/2022/05/15/hijack-testmain/.
func TestMain(m *testing.M) {
	behavior := os.Getenv("TEST_BEHAVIOR")
	switch behavior {
	case "":
		os.Exit(m.Run())
	case "dump_cmd":
		dumpCmd()
	case "fail":
		fmt.Fprintln(os.Stderr, "Invalid data found when processing input")
		os.Exit(1)
	default:
		log.Fatalf("unknown behavior %q", behavior)
	}
}

func dumpCmd() {
	// We write the target file but instead of converting the media,
	// we simply output the command so that tests can check the
	// arguments are correctly passed.

	// We consider the last argument to be the target file.
	dest := os.Args[len(os.Args)-1]
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		log.Fatalf("file already exists %s: %v", dest, err)
	}
	cmd := "ffmpeg " + strings.Join(os.Args[1:], " ")
	if err := os.WriteFile(dest, []byte(cmd), 0644); err != nil {
		log.Fatalf("unable to write %s: %v", dest, err)
	}
}

func TestFFmpegToThumbnail(t *testing.T) {
	mediasDir := t.TempDir()
	large := writePNG(t, filepath.Join(mediasDir, "large.png"), 600, 400)
	small := writePNG(t, filepath.Join(mediasDir, "small.png"), 60, 40)
	video := filepath.Join(mediasDir, "forest.webm")
	require.NoError(t, os.WriteFile(video, []byte("fake"), 0644))

	tests := []struct {
		name       string
		src        string     // input
		dimensions Dimensions // input
		filters    string     // output
	}{
		{"Original", large, OriginalSize(), ""},
		{"Preview", large, ResizeTo(150), "-vf scale=150:-1 "},
		{"Small picture", small, ResizeTo(150), ""},
		{"Preview from video", video, ResizeTo(150), `-vf select=eq(n\,0),scale=150:-1 `},
		{"Original from video", video, OriginalSize(), `-vf select=eq(n\,0) `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BEHAVIOR", "dump_cmd")
			converter := &FFmpegConverter{
				exe: testExe(t),
			}
			var notified []string
			converter.OnPreGeneration(func(cmd string, args ...string) {
				notified = args
			})

			dest := filepath.Join(t.TempDir(), "out.png")
			err := converter.ToThumbnail(tt.src, dest, tt.dimensions)
			require.NoError(t, err)

			actual, err := os.ReadFile(dest)
			require.NoError(t, err)
			expected := fmt.Sprintf("ffmpeg -i %s %s-frames:v 1 %s", tt.src, tt.filters, dest)
			assert.Equal(t, expected, string(actual))
			assert.Equal(t, expected, "ffmpeg "+strings.Join(notified, " "))
		})
	}

	t.Run("Failure", func(t *testing.T) {
		t.Setenv("TEST_BEHAVIOR", "fail")
		converter := &FFmpegConverter{
			exe: testExe(t),
		}
		err := converter.ToThumbnail(large, filepath.Join(t.TempDir(), "out.png"), ResizeTo(150))
		assert.ErrorContains(t, err, "ffmpeg failed")
	})

	t.Run("Wrong extension", func(t *testing.T) {
		converter := &FFmpegConverter{
			exe: testExe(t),
		}
		err := converter.ToThumbnail(large, filepath.Join(t.TempDir(), "out.avif"), ResizeTo(150))
		assert.ErrorContains(t, err, "extension .png")
	})
}

/* Test Helpers */

func testExe(t *testing.T) string {
	// The trick is to override the command name to inject the go test binary.
	// Tests define the environment variable TEST_BEHAVIOR to determine
	// the behavior of the replaced command.
	testExe, err := os.Executable()
	require.NoError(t, err, "can't determine current exectuable")
	return testExe
}
