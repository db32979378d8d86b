package cargowatch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindProjectRoot(t *testing.T) {
	tests := []struct {
		name  string
		depth int // directories between the manifest and the file
	}{
		{name: "file next to manifest", depth: 0},
		{name: "one level down", depth: 1},
		{name: "three levels down", depth: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			rel := strings.Repeat("sub/", tt.depth) + "main.rs"
			writeCrate(t, root, rel)

			got, err := FindProjectRoot(filepath.Join(root, filepath.FromSlash(rel)), "Cargo.toml")
			require.NoError(t, err)
			assert.Equal(t, root, got)
		})
	}
}

func TestFindProjectRoot_NearestManifestWins(t *testing.T) {
	outer := t.TempDir()
	inner := filepath.Join(outer, "crates", "inner")
	writeCrate(t, outer)
	writeCrate(t, inner, "src/lib.rs")

	got, err := FindProjectRoot(filepath.Join(inner, "src", "lib.rs"), "")
	require.NoError(t, err)
	assert.Equal(t, inner, got)
}

func TestFindProjectRoot_NotFound(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a", "b", "main.rs")

	// An unusual manifest name guarantees no ancestor up to / has one
	_, err := FindProjectRoot(file, "cargowatch-test-manifest.toml")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRootNotFound)
}

func TestFindProjectRoot_MissingFileIsNotAnError(t *testing.T) {
	root := t.TempDir()
	writeCrate(t, root)

	got, err := FindProjectRoot(filepath.Join(root, "src", "does_not_exist.rs"), "Cargo.toml")
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestFindProjectRoot_RelativePath(t *testing.T) {
	root := t.TempDir()
	writeCrate(t, root, "src/main.rs")

	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(root))
	t.Cleanup(func() {
		_ = os.Chdir(origDir)
	})

	got, err := FindProjectRoot(filepath.Join("src", "main.rs"), "Cargo.toml")
	require.NoError(t, err)

	// TempDir may sit behind a symlink (macOS /var -> /private/var)
	want, _ := filepath.EvalSymlinks(root)
	gotResolved, _ := filepath.EvalSymlinks(got)
	assert.Equal(t, want, gotResolved)
}
