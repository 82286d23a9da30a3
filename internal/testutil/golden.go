package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/otiai10/copy"
)

// SetUpFromGoldenFile creates a temp file based on the golden file of the current test.
// The file must exist in directory testdata/.
func SetUpFromGoldenFile(t *testing.T) string {
	return SetUpFromGoldenFileNamed(t, t.Name()+".md")
}

// SetUpFromGoldenFileNamed creates a temp file based on the given golden file name.
func SetUpFromGoldenFileNamed(t *testing.T, filename string) string {
	return SetUpFromFileContent(t, filename, string(GoldenFileNamed(t, filename)))
}

// SetUpFromFileContent creates a temp file based on the given file content.
// Missing parent directories are created.
func SetUpFromFileContent(t *testing.T, filename string, content string) string {
	return WriteFile(t, t.TempDir(), filename, []byte(content))
}

// WriteFile creates a file inside an existing directory.
func WriteFile(t *testing.T, dir, filename string, content []byte) string {
	fileOut := filepath.Join(dir, filename)
	if err := os.MkdirAll(filepath.Dir(fileOut), os.ModePerm); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(fileOut, content, 0644); err != nil {
		t.Fatal(err)
	}
	return fileOut
}

// SetUpFromGoldenDir populates a temp directory based on the given test name.
func SetUpFromGoldenDir(t *testing.T) string {
	return SetUpFromGoldenDirNamed(t, t.Name())
}

// SetUpFromGoldenDirNamed populates a temp directory based on the given golden dir name.
// The directory is copied so that tests can edit notes freely.
func SetUpFromGoldenDirNamed(t *testing.T, testname string) string {
	dirIn := filepath.Join("testdata", testname)
	dirOut := filepath.Join(t.TempDir(), filepath.Base(testname))

	if err := copy.Copy(dirIn, dirOut); err != nil {
		t.Fatalf("failed copying golden dir %s: %v", dirIn, err)
	}
	return dirOut
}

// GoldenFile reads the content of the golden file of the current test.
func GoldenFile(t *testing.T) []byte {
	return GoldenFileNamed(t, t.Name()+".md")
}

// GoldenFileNamed reads the content of the given golden file.
func GoldenFileNamed(t *testing.T, filename string) []byte {
	path := filepath.Join("testdata", filename)
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed reading golden file %s: %v", path, err)
	}
	return b
}
