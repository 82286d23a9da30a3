package helpers

import (
	"crypto/md5"
	"fmt"
	"io"
	"net/url"
	"os"
)

// Hash returns the MD5 hash of a content (acceptable as not used for security reasons).
func Hash(bytes []byte) string {
	h := md5.New()
	h.Write(bytes)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// HashFromFile streams the file content to determine the hash.
func HashFromFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("unable to hash %s: %w", path, err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// HashFromSource returns a stable file name for a path or a URL.
// Sources are query-escaped first so that "a b.png" and "a%20b.png" differ.
func HashFromSource(source string) string {
	return Hash([]byte(url.QueryEscape(source)))
}
