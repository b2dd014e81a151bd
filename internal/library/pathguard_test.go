package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasTraversal(t *testing.T) {
	tests := []struct {
		name string
		path string
		want bool
	}{
		{"plain file", "book.epub", false},
		{"nested file", "Fiction/Classics/book.epub", false},
		{"dot dot", "../etc/passwd", true},
		{"embedded dot dot", "Fiction/../../secret.epub", true},
		{"tilde", "~/book.epub", true},
		{"hidden file", ".hidden.epub", true},
		{"hidden directory segment", "Fiction/.git/config", true},
		{"backslash hidden segment", "Fiction\\.git\\config", true},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasTraversal(tt.path))
		})
	}
}

func TestContains(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))

	inside := filepath.Join(root, "sub", "book.epub")
	require.NoError(t, os.WriteFile(inside, []byte("x"), 0o644))

	t.Run("root contains itself", func(t *testing.T) {
		assert.True(t, Contains(root, root))
	})

	t.Run("nested path is contained", func(t *testing.T) {
		assert.True(t, Contains(root, inside))
	})

	t.Run("sibling is not contained", func(t *testing.T) {
		other := t.TempDir()
		assert.False(t, Contains(root, other))
	})

	t.Run("escaping via dot dot is not contained", func(t *testing.T) {
		assert.False(t, Contains(root, filepath.Join(root, "..")))
	})

	t.Run("prefix-named sibling is not contained", func(t *testing.T) {
		sibling := root + "extra"
		require.NoError(t, os.MkdirAll(sibling, 0o755))
		defer os.RemoveAll(sibling)
		assert.False(t, Contains(root, sibling))
	})

	t.Run("symlink escaping the root is not contained", func(t *testing.T) {
		outside := t.TempDir()
		target := filepath.Join(outside, "secret.epub")
		require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))

		link := filepath.Join(root, "link.epub")
		if err := os.Symlink(target, link); err != nil {
			t.Skipf("symlinks not supported: %v", err)
		}
		defer os.Remove(link)

		assert.False(t, Contains(root, link))
	})

	t.Run("nonexistent path is not contained", func(t *testing.T) {
		assert.False(t, Contains(root, filepath.Join(root, "missing.epub")))
	})
}
