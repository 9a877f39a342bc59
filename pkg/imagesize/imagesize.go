// Package imagesize reads image dimensions from file headers.
//
// Only the header is decoded (image.DecodeConfig). PNG, JPEG and GIF come
// from the standard library; WebP, BMP and TIFF from golang.org/x/image.
// Results are kept in a bounded LRU cache keyed by path.
package imagesize

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/ccreverse/pkg/observability"
)

const cacheKeyType = "image-size"

// DefaultCacheSize is the number of probed paths remembered by default.
const DefaultCacheSize = 512

// Size is the pixel size of an image.
type Size struct {
	Width  int
	Height int
}

// String formats the size the way plist geometry strings do: {w,h}.
func (s Size) String() string { return fmt.Sprintf("{%d,%d}", s.Width, s.Height) }

// Prober returns image sizes, caching results per path. It is safe for
// concurrent use.
type Prober struct {
	cache *lru.Cache[string, Size]
}

// New returns a prober caching up to size entries. A non-positive size
// selects DefaultCacheSize.
func New(size int) *Prober {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[string, Size](size)
	if err != nil {
		// lru.New only fails for non-positive sizes.
		panic(err)
	}
	return &Prober{cache: c}
}

// Size returns the dimensions of the image at path.
func (p *Prober) Size(path string) (Size, error) {
	ctx := context.Background()
	if s, ok := p.cache.Get(path); ok {
		observability.Cache().OnCacheHit(ctx, cacheKeyType)
		return s, nil
	}
	observability.Cache().OnCacheMiss(ctx, cacheKeyType)
	s, err := Probe(path)
	if err != nil {
		return Size{}, err
	}
	p.cache.Add(path, s)
	observability.Cache().OnCacheSet(ctx, cacheKeyType, 1)
	return s, nil
}

// Probe decodes the header of the image at path without caching.
func Probe(path string) (Size, error) {
	f, err := os.Open(path)
	if err != nil {
		return Size{}, err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Size{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Size{}, fmt.Errorf("decode %s: empty %s image", path, format)
	}
	return Size{Width: cfg.Width, Height: cfg.Height}, nil
}
