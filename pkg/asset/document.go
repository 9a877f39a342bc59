package asset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/matzehuels/ccreverse/pkg/ident"
)

// Document is one parsed import document.
type Document struct {
	// Key is the document file name up to the first dot. For packed
	// documents it indexes the settings indirection table.
	Key  string
	Root any
}

// LoadDocument reads and decodes the import document at path.
func LoadDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return Document{}, fmt.Errorf("decode %s: %w", path, err)
	}
	key := filepath.Base(path)
	if i := strings.IndexByte(key, '.'); i >= 0 {
		key = key[:i]
	}
	return Document{Key: key, Root: root}, nil
}

// Reveal rewrites every "__uuid__" field of the document from compact to
// canonical form, in place. It returns the JSON paths of "__uuid__" fields
// that are not strings; those are left unchanged.
func (d Document) Reveal() []string {
	var bad []string
	reveal(d.Root, "$", &bad)
	sort.Strings(bad)
	return bad
}

func reveal(v any, path string, bad *[]string) {
	switch x := v.(type) {
	case map[string]any:
		for k, child := range x {
			if k == "__uuid__" {
				if s, ok := child.(string); ok {
					x[k] = ident.Decode(s)
				} else {
					*bad = append(*bad, path+"."+k)
				}
				continue
			}
			reveal(child, path+"."+k, bad)
		}
	case []any:
		for i, child := range x {
			reveal(child, path+"["+strconv.Itoa(i)+"]", bad)
		}
	}
}
