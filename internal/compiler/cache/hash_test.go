package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileHasher_HashContent(t *testing.T) {
	hasher := NewFileHasher()

	tests := []struct {
		name     string
		content  []byte
		expected string
	}{
		{
			name:     "empty content",
			content:  []byte(""),
			expected: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name:     "simple content",
			content:  []byte("hello world"),
			expected: "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, hasher.HashContent(tt.content))
		})
	}
}

func TestFileHasher_HashFile(t *testing.T) {
	hasher := NewFileHasher()
	path := filepath.Join(t.TempDir(), "api.routes")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0644))

	hash, err := hasher.HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, hasher.HashContent([]byte("hello world")), hash)

	_, err = hasher.HashFile(filepath.Join(t.TempDir(), "missing.routes"))
	assert.Error(t, err)
}

func TestFileHasher_HashFiles(t *testing.T) {
	hasher := NewFileHasher()
	dir := t.TempDir()
	routes := filepath.Join(dir, "api.routes")
	config := filepath.Join(dir, "routegen.yaml")
	require.NoError(t, os.WriteFile(routes, []byte("users::List"), 0644))

	withoutConfig, err := hasher.HashFiles(routes, config)
	require.NoError(t, err)

	again, err := hasher.HashFiles(routes, config)
	require.NoError(t, err)
	assert.Equal(t, withoutConfig, again)

	require.NoError(t, os.WriteFile(config, []byte("package:\n  name: svc\n"), 0644))
	withConfig, err := hasher.HashFiles(routes, config)
	require.NoError(t, err)
	assert.NotEqual(t, withoutConfig, withConfig)

	require.NoError(t, os.WriteFile(routes, []byte("users::List, users::Show"), 0644))
	edited, err := hasher.HashFiles(routes, config)
	require.NoError(t, err)
	assert.NotEqual(t, withConfig, edited)
}

func TestFileHasher_HashFilesBoundaries(t *testing.T) {
	hasher := NewFileHasher()
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")

	require.NoError(t, os.WriteFile(a, []byte("ab"), 0644))
	require.NoError(t, os.WriteFile(b, []byte("c"), 0644))
	first, err := hasher.HashFiles(a, b)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(a, []byte("a"), 0644))
	require.NoError(t, os.WriteFile(b, []byte("bc"), 0644))
	second, err := hasher.HashFiles(a, b)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
