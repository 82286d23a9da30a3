package filesystem

import (
	"os"
	"sync"
	"time"

	"github.com/julien-sobczak/the-notewriter-live/pkg/clock"
)

var (
	readerMu                sync.RWMutex
	fileInfoReaderSingleton FileInfoReader = StandardFileInfoReader{}
)

type FileInfoReader interface {
	Stat(name string) (os.FileInfo, error)
}

type StandardFileInfoReader struct{}

func (r StandardFileInfoReader) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// clockFileInfo reports the clock time as modification time.
type clockFileInfo struct {
	os.FileInfo
}

func (fi clockFileInfo) ModTime() time.Time {
	return clock.Now()
}

// ClockBasedFileInfoReader is a FileInfoReader returning the current clock time as
// modification time, making cache expiration reproducible in tests.
type ClockBasedFileInfoReader struct{}

func NewClockBasedFileInfoReader() *ClockBasedFileInfoReader {
	return &ClockBasedFileInfoReader{}
}

func (r ClockBasedFileInfoReader) Stat(name string) (os.FileInfo, error) {
	// Execute the real Stat function to reproduce errors
	stat, err := os.Stat(name)
	if err != nil {
		return nil, err
	}
	return clockFileInfo{stat}, nil
}

func CurrentFileInfoReader() FileInfoReader {
	readerMu.RLock()
	defer readerMu.RUnlock()
	return fileInfoReaderSingleton
}

// Same as os.Stat() but makes possible to control time from unit tests.
func Stat(name string) (os.FileInfo, error) {
	return CurrentFileInfoReader().Stat(name)
}

// ModTime returns the modification time of a file.
func ModTime(name string) (time.Time, error) {
	stat, err := Stat(name)
	if err != nil {
		return time.Time{}, err
	}
	return stat.ModTime(), nil
}

func OverrideFileInfoReader(reader FileInfoReader) {
	readerMu.Lock()
	defer readerMu.Unlock()
	fileInfoReaderSingleton = reader
}

func RestoreFileInfoReader() {
	OverrideFileInfoReader(StandardFileInfoReader{})
}
