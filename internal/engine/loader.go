package engine

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	stcherr "github.com/conneroisu/stache/internal/errors"
)

// DefaultMaxSourceBytes caps template source size at 1 MiB. The cap is
// enforced by the fetch layer, not the parser.
const DefaultMaxSourceBytes = 1 << 20

// Loader fetches raw source bytes for a template identifier.
type Loader interface {
	Load(name string) ([]byte, error)
}

// DirLoader resolves identifiers to files under a root directory, appending
// Ext (e.g. ".stache") when set.
type DirLoader struct {
	Dir      string
	Ext      string
	MaxBytes int // 0 means DefaultMaxSourceBytes
}

// Load reads the source for name, rejecting path traversal and oversized
// files.
func (l *DirLoader) Load(name string) ([]byte, error) {
	if name == "" || strings.Contains(name, "..") || filepath.IsAbs(name) {
		return nil, stcherr.NewSource(stcherr.KindSourceNotFound, name,
			fmt.Sprintf("invalid template identifier %q", name), nil)
	}

	maxBytes := l.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxSourceBytes
	}

	path := filepath.Join(l.Dir, name+l.Ext)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, stcherr.NewSource(stcherr.KindSourceNotFound, name,
				fmt.Sprintf("template %q not found", name), err)
		}

		return nil, stcherr.NewSource(stcherr.KindSourceRead, name,
			fmt.Sprintf("reading template %q failed", name), err)
	}

	if info.Size() > int64(maxBytes) {
		return nil, stcherr.NewSource(stcherr.KindOversizedSource, name,
			fmt.Sprintf("template %q exceeds the %d byte cap", name, maxBytes), nil)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, stcherr.NewSource(stcherr.KindSourceRead, name,
			fmt.Sprintf("reading template %q failed", name), err)
	}

	return src, nil
}

// FSLoader is a DirLoader over an fs.FS, used by tests and embedded
// template sets.
type FSLoader struct {
	FS       fs.FS
	Ext      string
	MaxBytes int
}

// Load reads the source for name from the wrapped filesystem.
func (l *FSLoader) Load(name string) ([]byte, error) {
	maxBytes := l.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxSourceBytes
	}

	src, err := fs.ReadFile(l.FS, name+l.Ext)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, stcherr.NewSource(stcherr.KindSourceNotFound, name,
				fmt.Sprintf("template %q not found", name), err)
		}

		return nil, stcherr.NewSource(stcherr.KindSourceRead, name,
			fmt.Sprintf("reading template %q failed", name), err)
	}

	if len(src) > maxBytes {
		return nil, stcherr.NewSource(stcherr.KindOversizedSource, name,
			fmt.Sprintf("template %q exceeds the %d byte cap", name, maxBytes), nil)
	}

	return src, nil
}

// MapLoader serves sources from memory, keyed by identifier.
type MapLoader map[string]string

// Load returns the in-memory source for name.
func (l MapLoader) Load(name string) ([]byte, error) {
	src, ok := l[name]
	if !ok {
		return nil, stcherr.NewSource(stcherr.KindSourceNotFound, name,
			fmt.Sprintf("template %q not found", name), nil)
	}

	return []byte(src), nil
}
