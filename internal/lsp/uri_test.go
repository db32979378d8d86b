package lsp

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURIRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "my crate", "src", "main.rs")

	uri := pathToURI(path)
	assert.Contains(t, uri, "file://")
	assert.Contains(t, uri, "my%20crate")
	assert.Equal(t, path, uriToPath(uri))
}

func TestURIToPath_Schemes(t *testing.T) {
	assert.Empty(t, uriToPath(""))
	assert.Empty(t, uriToPath("untitled:Untitled-1"))
	assert.Empty(t, uriToPath("https://example.com/main.rs"))
	assert.Empty(t, pathToURI(""))
}
