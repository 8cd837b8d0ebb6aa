package impl

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
)

// ErrSourceNotFound is returned by a [SearchPath] when no root holds a path.
var ErrSourceNotFound = errors.New("source not found")

// SearchRoot is a named file system searched for source templates.
type SearchRoot struct {
	Name string
	FS   fs.FS
}

// SearchPath locates source template files across an ordered list of roots.
// The first root holding a path wins.
type SearchPath []SearchRoot

// Find returns the resolved path of file, prefixed by the name of the root
// that holds it.
func (sp SearchPath) Find(file string) (string, error) {
	root, clean, err := sp.find(file)
	if err != nil {
		return "", err
	}
	return path.Join(root.Name, clean), nil
}

// Locate returns the contents of file.
func (sp SearchPath) Locate(file string) (string, error) {
	root, clean, err := sp.find(file)
	if err != nil {
		return "", err
	}
	b, err := fs.ReadFile(root.FS, clean)
	if err != nil {
		return "", fmt.Errorf("%s: %w", file, err)
	}
	return string(b), nil
}

func (sp SearchPath) find(file string) (SearchRoot, string, error) {
	clean := path.Clean(file)
	if !fs.ValidPath(clean) {
		return SearchRoot{}, "", fmt.Errorf("%w: invalid path %q", ErrSourceNotFound, file)
	}
	for _, root := range sp {
		info, err := fs.Stat(root.FS, clean)
		if err == nil && !info.IsDir() {
			return root, clean, nil
		}
	}
	return SearchRoot{}, "", fmt.Errorf("%w: %q", ErrSourceNotFound, file)
}
