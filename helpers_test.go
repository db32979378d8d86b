package cargowatch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

// compilerLine renders one compiler-message record as cargo prints it.
func compilerLine(t *testing.T, msg CompilerMessage) string {
	t.Helper()
	data, err := json.Marshal(CheckMessage{
		Reason:    ReasonCompilerMessage,
		PackageID: "demo 0.1.0 (path+file:///demo)",
		Target:    &Target{Name: "demo", Kind: []string{"bin"}, Edition: "2021", SrcPath: "/demo/src/main.rs"},
		Message:   &msg,
	})
	require.NoError(t, err)
	return string(data)
}

func span(file string, lineStart, colStart, lineEnd, colEnd int, primary bool, label *string) Span {
	return Span{
		FileName:    file,
		LineStart:   lineStart,
		ColumnStart: colStart,
		LineEnd:     lineEnd,
		ColumnEnd:   colEnd,
		IsPrimary:   primary,
		Label:       label,
	}
}

const buildFinishedLine = `{"reason":"build-finished","success":true}`

const artifactLine = `{"reason":"compiler-artifact","package_id":"demo 0.1.0","target":{"name":"demo","kind":["bin"],"edition":"2021","src_path":"/demo/src/main.rs"},"fresh":true}`

// writeCrate creates root/Cargo.toml and the given source files.
func writeCrate(t *testing.T, root string, files ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(root, 0o755))
	manifest := "[package]\nname = \"demo\"\nversion = \"0.1.0\"\nedition = \"2021\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "Cargo.toml"), []byte(manifest), 0o644))
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("fn main() {}\n"), 0o644))
	}
}

func joinLines(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}
