// Package output collects the files a reconstruction produces and writes
// them to disk.
//
// The resolver never touches the output tree directly. It records writes
// (generated content) and copies (native files from the bundle) in a
// [Plan]; a [Flusher] then materialises the plan with bounded parallelism.
// File names are reserved through the plan's [Allocator] so that two assets
// with the same display name never overwrite each other.
package output

import (
	"bytes"
	"encoding/json"
	"path"
	"sync"
)

// Write is a generated file.
type Write struct {
	Dir  string
	Name string
	Data []byte
}

// Path returns the slash-separated path of the file relative to the root.
func (w Write) Path() string { return path.Join(w.Dir, w.Name) }

// Copy is a native file copied from the bundle.
type Copy struct {
	Src  string
	Dir  string
	Name string
}

// Path returns the slash-separated destination relative to the root.
func (c Copy) Path() string { return path.Join(c.Dir, c.Name) }

// PlanOptions controls what a Plan records.
type PlanOptions struct {
	// CreateMeta enables sidecar .meta files.
	CreateMeta bool
	// Prettify indents JSON output.
	Prettify bool
}

// Plan is an ordered list of writes and copies. It is safe for concurrent
// use.
type Plan struct {
	opts  PlanOptions
	alloc *Allocator

	mu     sync.Mutex
	writes []Write
	copies []Copy
}

// NewPlan returns an empty plan.
func NewPlan(opts PlanOptions) *Plan {
	return &Plan{opts: opts, alloc: NewAllocator()}
}

// Options returns the options the plan was created with.
func (p *Plan) Options() PlanOptions { return p.opts }

// Allocate reserves a unique file name in dir. See [Allocator].
func (p *Plan) Allocate(dir, candidate string) string {
	return p.alloc.Allocate(dir, candidate)
}

// AddJSON records v encoded as JSON.
func (p *Plan) AddJSON(dir, name string, v any) error {
	data, err := p.marshal(v)
	if err != nil {
		return err
	}
	p.AddBytes(dir, name, data)
	return nil
}

// AddMeta records the sidecar of the asset file assetName. It is a no-op
// when meta files are disabled.
func (p *Plan) AddMeta(dir, assetName string, meta any) error {
	if !p.opts.CreateMeta {
		return nil
	}
	return p.AddJSON(dir, assetName+".meta", meta)
}

// AddBytes records raw file content.
func (p *Plan) AddBytes(dir, name string, data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writes = append(p.writes, Write{Dir: dir, Name: name, Data: data})
}

// AddCopy records a copy of src to dir/name.
func (p *Plan) AddCopy(src, dir, name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.copies = append(p.copies, Copy{Src: src, Dir: dir, Name: name})
}

// Writes returns the recorded writes in insertion order.
func (p *Plan) Writes() []Write {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Write, len(p.writes))
	copy(out, p.writes)
	return out
}

// Copies returns the recorded copies in insertion order.
func (p *Plan) Copies() []Copy {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Copy, len(p.copies))
	copy(out, p.copies)
	return out
}

// Lookup returns the last write recorded for the relative path rel.
func (p *Plan) Lookup(rel string) (Write, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := len(p.writes) - 1; i >= 0; i-- {
		if p.writes[i].Path() == rel {
			return p.writes[i], true
		}
	}
	return Write{}, false
}

func (p *Plan) marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if p.opts.Prettify {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
