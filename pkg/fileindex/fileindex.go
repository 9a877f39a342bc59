// Package fileindex maps the resource files of a bundle to the identifier
// encoded in their file names.
//
// Every file under res/ is named after the asset it belongs to, optionally
// followed by a content hash: fc991dd7-0033-4b80-9d41-c8a86a702e59.3f2a1.png.
// The index key is the base name up to the first dot. Native files take
// precedence over import documents sharing the same key. Natives that keep
// their original file name (TrueType fonts) live in a directory named after
// the asset and are indexed under that directory name as well.
package fileindex

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matzehuels/ccreverse/pkg/errors"
	"github.com/matzehuels/ccreverse/pkg/ident"
)

// Index is the mutable key → path map built from one or more resource
// trees. It is not safe for concurrent use; the resolver owns it for the
// duration of a run.
type Index struct {
	files map[string]string
	docs  []string
}

// New returns an empty index.
func New() *Index {
	return &Index{files: make(map[string]string)}
}

// Scan builds an index over root and every extra directory. root must
// exist; missing extra directories are ignored.
func Scan(root string, extra ...string) (*Index, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resource directory not found: %s", root)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "stat %s", root)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "not a directory: %s", root)
	}

	idx := New()
	if err := idx.walk(root); err != nil {
		return nil, err
	}
	for _, dir := range extra {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := idx.walk(dir); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

func (x *Index) walk(root string) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		x.Add(path)
		return nil
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "scan %s", root)
	}
	return nil
}

// Add registers one file. JSON files are also recorded as import documents.
func (x *Index) Add(path string) {
	key := KeyOf(path)
	isDoc := IsDocument(path)
	if isDoc {
		x.docs = append(x.docs, path)
	}
	if prev, ok := x.files[key]; ok && isDoc && !IsDocument(prev) {
		return
	}
	x.files[key] = path

	if dir := filepath.Base(filepath.Dir(path)); !isDoc && ident.IsCanonical(dir) {
		if _, ok := x.files[dir]; !ok {
			x.files[dir] = path
		}
	}
}

// KeyOf returns the index key of a file path.
func KeyOf(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		return base[:i]
	}
	return base
}

// IsDocument reports whether path is an import document.
func IsDocument(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// Lookup returns the path stored for key.
func (x *Index) Lookup(key string) (string, bool) {
	p, ok := x.files[key]
	return p, ok
}

// Claim returns the path stored for key and removes it, so that each file
// is emitted at most once.
func (x *Index) Claim(key string) (string, bool) {
	p, ok := x.files[key]
	if ok {
		delete(x.files, key)
	}
	return p, ok
}

// Remove deletes key from the index.
func (x *Index) Remove(key string) { delete(x.files, key) }

// Len returns the number of indexed keys.
func (x *Index) Len() int { return len(x.files) }

// Keys returns the indexed keys in sorted order.
func (x *Index) Keys() []string {
	keys := make([]string, 0, len(x.files))
	for k := range x.files {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Documents returns every import document found while scanning, in walk
// order. Documents stay listed after their key is claimed.
func (x *Index) Documents() []string {
	out := make([]string, len(x.docs))
	copy(out, x.docs)
	return out
}
