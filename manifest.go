package cargowatch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Manifest holds the parts of Cargo.toml used for status reporting
type Manifest struct {
	Path    string
	Root    string
	Package string   // [package].name, empty for virtual workspaces
	Version string   // [package].version
	Members []string // [workspace].members
}

type manifestConfig struct {
	Package struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
	Workspace struct {
		Members []string `toml:"members"`
	} `toml:"workspace"`
}

// DisplayName returns the package name, or a workspace label, or the root dir name
func (m *Manifest) DisplayName() string {
	if m == nil {
		return ""
	}
	if name := strings.TrimSpace(m.Package); name != "" {
		return name
	}
	if len(m.Members) > 0 {
		return fmt.Sprintf("workspace %s (%d members)", filepath.Base(m.Root), len(m.Members))
	}
	return filepath.Base(m.Root)
}

// LoadManifest parses the manifest at path
func LoadManifest(path string) (*Manifest, error) {
	var cfg manifestConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return &Manifest{
		Path:    path,
		Root:    filepath.Dir(path),
		Package: cfg.Package.Name,
		Version: cfg.Package.Version,
		Members: cfg.Workspace.Members,
	}, nil
}

type cachedManifest struct {
	manifest *Manifest
	modTime  time.Time
}

// ManifestCache keeps parsed manifests keyed by path. An entry is reparsed when
// the file's modification time changes.
type ManifestCache struct {
	mu    sync.Mutex
	cache *lru.Cache[string, cachedManifest]
}

// NewManifestCache creates a cache holding up to size manifests
func NewManifestCache(size int) (*ManifestCache, error) {
	if size <= 0 {
		size = 64
	}
	cache, err := lru.New[string, cachedManifest](size)
	if err != nil {
		return nil, fmt.Errorf("creating manifest cache: %w", err)
	}
	return &ManifestCache{cache: cache}, nil
}

// Load returns the manifest at path, from cache when still current
func (c *ManifestCache) Load(path string) (*Manifest, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %q: %w", path, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.cache.Get(path); ok && entry.modTime.Equal(info.ModTime()) {
		return entry.manifest, nil
	}
	m, err := LoadManifest(path)
	if err != nil {
		c.cache.Remove(path)
		return nil, err
	}
	c.cache.Add(path, cachedManifest{manifest: m, modTime: info.ModTime()})
	return m, nil
}

// Len reports the number of cached manifests
func (c *ManifestCache) Len() int {
	return c.cache.Len()
}
