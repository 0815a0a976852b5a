package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.ngs.io/regrid/internal/domain"
)

// FieldLoader reads labeled fields from a backing store.
type FieldLoader interface {
	// Load reads a variable with its dimensions and coordinates.
	Load(path, variable string) (*domain.Field, error)

	// Version returns a token that changes whenever the data at path changes.
	Version(path string) (string, error)
}

// FieldWriter persists labeled fields.
type FieldWriter interface {
	Write(path string, f *domain.Field) error
}

// Backend both reads and writes fields.
type Backend interface {
	FieldLoader
	FieldWriter
}

// Mux routes paths to backends by file extension.
type Mux struct {
	fallback Backend
	byExt    map[string]Backend
}

// NewMux creates a mux that sends unregistered extensions to fallback.
func NewMux(fallback Backend) *Mux {
	return &Mux{fallback: fallback, byExt: make(map[string]Backend)}
}

// Handle registers b for ext (".csv"). Matching ignores case.
func (m *Mux) Handle(ext string, b Backend) *Mux {
	m.byExt[strings.ToLower(ext)] = b
	return m
}

func (m *Mux) pick(path string) Backend {
	if b, ok := m.byExt[strings.ToLower(filepath.Ext(path))]; ok {
		return b
	}
	return m.fallback
}

// Load implements FieldLoader.
func (m *Mux) Load(path, variable string) (*domain.Field, error) {
	return m.pick(path).Load(path, variable)
}

// Version implements FieldLoader.
func (m *Mux) Version(path string) (string, error) {
	return m.pick(path).Version(path)
}

// Write implements FieldWriter.
func (m *Mux) Write(path string, f *domain.Field) error {
	return m.pick(path).Write(path, f)
}

// Resolve joins path onto dataDir and rejects paths that escape it.
// An empty dataDir accepts any path.
func Resolve(dataDir, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: empty path", domain.ErrInvalidParameter)
	}
	if dataDir == "" {
		return filepath.Clean(path), nil
	}
	full := filepath.Join(dataDir, path)
	rel, err := filepath.Rel(dataDir, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: path %q escapes the data directory", domain.ErrInvalidParameter, path)
	}
	return full, nil
}

// FileVersion returns a token built from the file size and modification time.
// A missing file reports domain.ErrFieldNotFound.
func FileVersion(full string) (string, error) {
	info, err := os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: file %s", domain.ErrFieldNotFound, full)
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d-%d", info.Size(), info.ModTime().UnixNano()), nil
}
