// Package assets supplies replacement payloads and the replace.toml
// configuration that decides which archive paths are replaced or deleted.
// The archive core never parses configuration itself; it receives the
// finished batches this package produces.
package assets

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// ConfigName is the configuration file a source must provide.
const ConfigName = "replace.toml"

// Source resolves asset files and the replace configuration.
//
// Two implementations exist: DirSource for a directory on disk and FSSource
// for any fs.FS, typically an embed.FS compiled into the binary.
type Source interface {
	// GetFile returns the content of an asset by its source-relative path.
	GetFile(rel string) ([]byte, error)

	// ConfigContent returns the raw replace.toml text.
	ConfigContent() (string, error)
}

// DirSource reads assets from a directory on disk.
type DirSource struct {
	dir string
}

// NewDirSource returns a source rooted at dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

// GetFile implements Source.
func (s *DirSource) GetFile(rel string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, filepath.FromSlash(rel)))
	if err != nil {
		return nil, fmt.Errorf("read asset %s: %w", rel, err)
	}
	return data, nil
}

// ConfigContent implements Source.
func (s *DirSource) ConfigContent() (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, ConfigName))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", ConfigName, err)
	}
	return string(data), nil
}

// FSSource reads assets from an fs.FS, such as an embed.FS.
type FSSource struct {
	fsys fs.FS
}

// NewFSSource returns a source backed by fsys.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// GetFile implements Source.
func (s *FSSource) GetFile(rel string) ([]byte, error) {
	data, err := fs.ReadFile(s.fsys, path.Clean(rel))
	if err != nil {
		return nil, fmt.Errorf("read asset %s: %w", rel, err)
	}
	return data, nil
}

// ConfigContent implements Source.
func (s *FSSource) ConfigContent() (string, error) {
	data, err := fs.ReadFile(s.fsys, ConfigName)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", ConfigName, err)
	}
	return string(data), nil
}
