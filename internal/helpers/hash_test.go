package helpers

import (
	"testing"

	"github.com/julien-sobczak/the-notewriter-live/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash(t *testing.T) {
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", Hash(nil))
	assert.Equal(t, Hash([]byte("same")), Hash([]byte("same")))
	assert.NotEqual(t, Hash([]byte("same")), Hash([]byte("different")))
}

func TestHashFromFile(t *testing.T) {
	dir := t.TempDir()
	hello := testutil.WriteFile(t, dir, "notes/hello.md", []byte("Hello"))
	duplicate := testutil.WriteFile(t, dir, "notes/copy.md", []byte("Hello"))
	bonjour := testutil.WriteFile(t, dir, "notes/bonjour.md", []byte("Bonjour"))

	var tests = []struct {
		path     string
		expected string
	}{
		{hello, Hash([]byte("Hello"))},
		{duplicate, Hash([]byte("Hello"))},
		{bonjour, Hash([]byte("Bonjour"))},
	}
	for _, tt := range tests {
		actual, err := HashFromFile(tt.path)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, actual)
	}

	_, err := HashFromFile(dir + "/missing.md")
	assert.Error(t, err)
}

func TestHashFromSource(t *testing.T) {
	assert.Equal(t, HashFromSource("/tmp/a.png"), HashFromSource("/tmp/a.png"))
	assert.NotEqual(t, HashFromSource("/tmp/a.png"), HashFromSource("/tmp/b.png"))
	// Encoded and decoded paths are different sources
	assert.NotEqual(t, HashFromSource("/tmp/a b.png"), HashFromSource("/tmp/a%20b.png"))
	assert.Equal(t, Hash([]byte("https%3A%2F%2Fexample.com%2Fa.png")), HashFromSource("https://example.com/a.png"))
}
