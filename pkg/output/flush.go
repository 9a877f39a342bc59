package output

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/ccreverse/pkg/errors"
	"github.com/matzehuels/ccreverse/pkg/observability"
)

// DefaultMaxParallel is the number of concurrent file operations used when
// Flusher.MaxParallel is not set.
const DefaultMaxParallel = 4

// Flusher writes a Plan below Root.
type Flusher struct {
	Root        string
	MaxParallel int
	Logger      *log.Logger
}

// Stats summarizes a flush.
type Stats struct {
	Dirs     int
	Writes   int
	Copies   int
	Failed   int
	Bytes    int64
	Duration time.Duration
}

// Flush creates every directory the plan needs, then performs writes and
// copies concurrently. A failed write aborts the flush; a failed copy is
// logged and counted in Stats.Failed.
func (f *Flusher) Flush(ctx context.Context, plan *Plan) (Stats, error) {
	start := time.Now()
	logger := f.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	limit := f.MaxParallel
	if limit <= 0 {
		limit = DefaultMaxParallel
	}

	writes, copies := plan.Writes(), plan.Copies()
	observability.Pipeline().OnFlushStart(ctx, len(writes), len(copies))

	var stats Stats
	var err error
	defer func() {
		stats.Duration = time.Since(start)
		observability.Pipeline().OnFlushComplete(ctx, stats.Writes, stats.Copies, stats.Duration, err)
	}()

	dirs := make(map[string]struct{})
	for _, w := range writes {
		dirs[w.Dir] = struct{}{}
	}
	for _, c := range copies {
		dirs[c.Dir] = struct{}{}
	}
	sorted := make([]string, 0, len(dirs))
	for d := range dirs {
		sorted = append(sorted, d)
	}
	sort.Strings(sorted)
	for _, d := range sorted {
		var target string
		if target, err = f.resolve(d, ""); err != nil {
			return stats, err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			err = errors.Wrap(errors.ErrCodeIO, err, "create %s", target)
			return stats, err
		}
	}
	stats.Dirs = len(sorted)

	var nWrites, nCopies, nFailed atomic.Int64
	var nBytes atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, w := range writes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			target, err := f.resolve(w.Dir, w.Name)
			if err != nil {
				return err
			}
			if err := os.WriteFile(target, w.Data, 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeIO, err, "write %s", w.Path())
			}
			nWrites.Add(1)
			nBytes.Add(int64(len(w.Data)))
			return nil
		})
	}
	for _, c := range copies {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			target, err := f.resolve(c.Dir, c.Name)
			if err != nil {
				return err
			}
			n, err := copyFile(c.Src, target)
			if err != nil {
				logger.Warn("copy failed", "src", c.Src, "dst", c.Path(), "err", err)
				nFailed.Add(1)
				return nil
			}
			nCopies.Add(1)
			nBytes.Add(n)
			return nil
		})
	}
	err = g.Wait()

	stats.Writes = int(nWrites.Load())
	stats.Copies = int(nCopies.Load())
	stats.Failed = int(nFailed.Load())
	stats.Bytes = nBytes.Load()
	if err != nil {
		return stats, err
	}
	logger.Debug("flushed output", "root", f.Root, "writes", stats.Writes, "copies", stats.Copies, "failed", stats.Failed)
	return stats, nil
}

// resolve maps a plan path to a file system path, refusing paths that
// would leave Root.
func (f *Flusher) resolve(dir, name string) (string, error) {
	rel := filepath.Clean(filepath.FromSlash(filepath.Join(dir, name)))
	if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.New(errors.ErrCodeInvalidPath, "output path escapes root: %s", rel)
	}
	return filepath.Join(f.Root, rel), nil
}

func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, fmt.Errorf("copy %s: %w", src, err)
	}
	return n, nil
}
