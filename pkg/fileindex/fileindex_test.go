package fileindex

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matzehuels/ccreverse/pkg/errors"
)

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		p := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestKeyOf(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"res/raw-assets/fc/fc991dd7-0033-4b80-9d41-c8a86a702e59.png", "fc991dd7-0033-4b80-9d41-c8a86a702e59"},
		{"res/raw-assets/fc/fc991dd7-0033-4b80-9d41-c8a86a702e59.3f2a1.png", "fc991dd7-0033-4b80-9d41-c8a86a702e59"},
		{"res/import/0a/0a1b2c3d4.json", "0a1b2c3d4"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		if got := KeyOf(tt.path); got != tt.want {
			t.Errorf("KeyOf(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	res := filepath.Join(root, "res")
	writeFiles(t, res,
		"import/0a/0a1b2c3d4.json",
		"import/fc/fc991dd7-0033-4b80-9d41-c8a86a702e59.json",
		"raw-assets/fc/fc991dd7-0033-4b80-9d41-c8a86a702e59.mp3",
		"raw-assets/2b/2b6f3a10-9c4e-4d21-8f0a-77e5c1d2b3a4.png",
		".DS_Store",
	)
	subs := filepath.Join(root, "subpackages")
	writeFiles(t, subs, "level2/import/aa/aabbccdd0.json")

	idx, err := Scan(res, subs, filepath.Join(root, "absent"))
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if idx.Len() != 4 {
		t.Errorf("Len() = %d, want 4 (keys %v)", idx.Len(), idx.Keys())
	}
	p, ok := idx.Lookup("fc991dd7-0033-4b80-9d41-c8a86a702e59")
	if !ok || filepath.Ext(p) != ".mp3" {
		t.Errorf("Lookup(native) = %q, %v; native file should win", p, ok)
	}
	if got := len(idx.Documents()); got != 3 {
		t.Errorf("Documents() = %d, want 3", got)
	}
}

func TestClaim(t *testing.T) {
	idx := New()
	idx.Add("res/raw-assets/ab/abc.png")

	if _, ok := idx.Claim("abc"); !ok {
		t.Fatal("Claim() first call should succeed")
	}
	if _, ok := idx.Claim("abc"); ok {
		t.Error("Claim() second call should miss")
	}
	if idx.Len() != 0 {
		t.Errorf("Len() = %d after claim", idx.Len())
	}
}

func TestKeysSorted(t *testing.T) {
	idx := New()
	for _, p := range []string{"c.png", "a.png", "b.jpg"} {
		idx.Add(p)
	}
	idx.Remove("b")
	if got, want := idx.Keys(), []string{"a", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestScanMissingRoot(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("Scan(missing) code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidPath)
	}
}

func TestDirectoryNamedNative(t *testing.T) {
	idx := New()
	idx.Add("res/raw-assets/2b/2b6f3a10-9c4e-4d21-8f0a-77e5c1d2b3a4/Title.ttf")

	p, ok := idx.Lookup("2b6f3a10-9c4e-4d21-8f0a-77e5c1d2b3a4")
	if !ok || filepath.Base(p) != "Title.ttf" {
		t.Errorf("Lookup(dir id) = %q, %v", p, ok)
	}
	if _, ok := idx.Lookup("Title"); !ok {
		t.Error("Lookup(basename) should still succeed")
	}
}
