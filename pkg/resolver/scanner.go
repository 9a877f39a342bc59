package resolver

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/matzehuels/ccreverse/pkg/asset"
	"github.com/matzehuels/ccreverse/pkg/ident"
	"github.com/matzehuels/ccreverse/pkg/meta"
	"github.com/matzehuels/ccreverse/pkg/observability"
	"github.com/matzehuels/ccreverse/pkg/report"
)

// ErrPhaseClosed is returned by Scan after Finish has been called.
var ErrPhaseClosed = errors.New("resolver: scan phase closed")

// Scanner is the first resolution phase. It is not safe for concurrent use.
type Scanner struct {
	env     Env
	report  Report
	pending *Pending

	frames    map[string]*asset.SpriteFrame // by frame identifier
	groups    map[string]*pictureGroup      // by texture identifier
	atlases   []atlasEntry
	particles []particleEntry
	fonts     []fontEntry
}

// pictureGroup collects the sprite frames cut from one texture, in the
// order they were first seen.
type pictureGroup struct {
	texture string
	ids     []string
	members map[string]*asset.SpriteFrame
}

func (g *pictureGroup) add(id string, sf *asset.SpriteFrame) {
	if _, ok := g.members[id]; ok {
		return
	}
	g.ids = append(g.ids, id)
	g.members[id] = sf
}

// atlas returns the atlas identifier recorded by the first member that
// names one.
func (g *pictureGroup) atlas() string {
	for _, id := range g.ids {
		if a := g.members[id].Atlas; a != "" {
			return a
		}
	}
	return ""
}

type atlasEntry struct {
	id  string
	rec *asset.SpriteAtlas
}

type particleEntry struct {
	id   string
	file string // allocated name in DirPicture
	rec  *asset.ParticleAsset
}

type fontEntry struct {
	id  string
	rec asset.Record
}

// NewScanner returns a scanner writing into env.Plan. Nil fields of env
// are replaced by defaults.
func NewScanner(env Env) *Scanner {
	return &Scanner{
		env:    env.withDefaults(),
		report: newReport(),
		frames: make(map[string]*asset.SpriteFrame),
		groups: make(map[string]*pictureGroup),
	}
}

// Scan runs the first phase over one document. The document is revealed
// in place: every "__uuid__" field is rewritten to canonical form. ctx is
// passed to the record hooks.
func (s *Scanner) Scan(ctx context.Context, doc asset.Document) error {
	if s.pending != nil {
		return ErrPhaseClosed
	}
	s.report.Documents++

	for _, p := range doc.Reveal() {
		s.report.BadIdentifiers++
		s.env.Logger.Warn("identifier is not a string", "doc", doc.Key, "path", p)
	}

	switch root := doc.Root.(type) {
	case map[string]any:
		s.visit(ctx, doc, root, nil, 0, -1)
	case []any:
		s.walk(ctx, doc, root, -1)
	default:
		s.env.Logger.Debug("skipping document", "doc", doc.Key, "type", typeName(root))
	}
	return nil
}

// Finish closes the first phase. Later calls return the same handle.
func (s *Scanner) Finish() *Pending {
	if s.pending == nil {
		s.pending = &Pending{s: s}
	}
	return s.pending
}

// walk visits the tagged objects of arr. entry is the position in the
// document root of the top-level element arr belongs to, or -1 when arr is
// the root itself.
func (s *Scanner) walk(ctx context.Context, doc asset.Document, arr []any, entry int) {
	for i, el := range arr {
		at := entry
		if at < 0 {
			at = i
		}
		switch v := el.(type) {
		case []any:
			s.walk(ctx, doc, v, at)
		case map[string]any:
			if asset.Tag(v) != "" {
				s.visit(ctx, doc, v, arr, i, at)
			}
		}
	}
}

// visit parses one tagged node. container is the array holding the node,
// or nil when the node is the document root; pos is its position there and
// entry the position of its top-level element in the root.
func (s *Scanner) visit(ctx context.Context, doc asset.Document, node map[string]any, container []any, pos, entry int) {
	rec, err := asset.Parse(node)
	switch {
	case errors.Is(err, asset.ErrNotAsset):
		return
	case err != nil:
		s.report.Skipped++
		s.env.Logger.Warn("skipping record", "doc", doc.Key, "err", err)
		observability.Records().OnRecordSkipped(ctx, asset.Tag(node), doc.Key, observability.SkipMalformed)
		return
	}
	s.report.Records[rec.Kind()]++

	id, ok := s.identify(doc, rec, container, pos, entry)
	if !ok {
		s.report.Unresolved++
		s.env.Logger.Warn("unresolved identifier", "doc", doc.Key, "kind", rec.Kind(), "name", rec.AssetName())
	}

	var body any = node
	if container != nil && pos == 0 {
		body = container
	}
	if err := s.dispatch(ctx, rec, id, ok, body); err != nil {
		s.report.Skipped++
		s.env.Logger.Warn("cannot emit record", "doc", doc.Key, "kind", rec.Kind(), "name", rec.AssetName(), "err", err)
		observability.Records().OnRecordSkipped(ctx, rec.Kind().String(), rec.AssetName(), observability.SkipEmitFailed)
	}
}

// identify returns the canonical identifier of rec. A record that is a
// top-level element of a packed document, or leads one, takes the entry at
// that position. Other records are matched by name.
func (s *Scanner) identify(doc asset.Document, rec asset.Record, container []any, pos, entry int) (string, bool) {
	if container == nil || !s.env.Table.Has(doc.Key) {
		return ident.Decode(doc.Key), true
	}
	root, _ := doc.Root.([]any)
	match := entry
	if !isEntry(root, container, pos, entry) {
		match = matchContent(root, rec, container)
	}
	if match < 0 {
		return "", false
	}
	id, ok := s.env.Table.Resolve(doc.Key, match)
	if !ok {
		return "", false
	}
	return ident.Decode(id), true
}

// isEntry reports whether container[pos] is root[entry] or the leading
// element of the array root[entry].
func isEntry(root, container []any, pos, entry int) bool {
	if entry < 0 || entry >= len(root) {
		return false
	}
	if sameSlice(container, root) {
		return pos == entry
	}
	arr, ok := root[entry].([]any)
	return ok && pos == 0 && sameSlice(container, arr)
}

// matchContent returns the position of the first top-level element that
// looks like rec, or -1.
func matchContent(root []any, rec asset.Record, container []any) int {
	switch r := rec.(type) {
	case *asset.Scene, *asset.Prefab:
		lead := nameOf(container[0])
		for j, el := range root {
			if arr, ok := el.([]any); ok && len(arr) > 0 && nameOf(arr[0]) == lead {
				return j
			}
		}
		if _, isPrefab := r.(*asset.Prefab); isPrefab {
			return matchName(root, r.AssetName())
		}
		return -1
	case *asset.SpriteFrame:
		for j, el := range root {
			m, _ := el.(map[string]any)
			content, _ := m["content"].(map[string]any)
			if content == nil {
				continue
			}
			tex, _ := content["texture"].(string)
			name, _ := content["name"].(string)
			if ident.Decode(tex) == r.Texture && name == r.Name {
				return j
			}
		}
		return -1
	}
	return matchName(root, rec.AssetName())
}

func (s *Scanner) dispatch(ctx context.Context, rec asset.Record, id string, resolved bool, body any) error {
	env := s.env
	plan := env.Plan
	name := displayName(rec.AssetName(), id)

	switch r := rec.(type) {
	case *asset.Scene:
		file := plan.Allocate(DirScene, name+".fire")
		if err := plan.AddJSON(DirScene, file, body); err != nil {
			return err
		}
		if resolved {
			return plan.AddMeta(DirScene, file, meta.NewAsset(id))
		}

	case *asset.Prefab:
		file := plan.Allocate(DirPrefab, name+".prefab")
		if err := plan.AddJSON(DirPrefab, file, body); err != nil {
			return err
		}
		if resolved {
			return plan.AddMeta(DirPrefab, file, meta.NewAsset(id))
		}

	case *asset.AudioClip:
		if env.Options.SkipAudio || !resolved {
			return nil
		}
		file := plan.Allocate(DirAudio, name+r.Native)
		if src, ok := env.Files.Claim(id); ok {
			plan.AddCopy(src, DirAudio, file)
		} else {
			s.missingNative(ctx, r, id)
		}
		return plan.AddMeta(DirAudio, file, meta.NewAudio(id))

	case *asset.AnimationClip:
		if env.Options.SkipAnimations {
			return nil
		}
		file := plan.Allocate(DirAnimation, name+".anim")
		if err := plan.AddJSON(DirAnimation, file, r.Node); err != nil {
			return err
		}
		if resolved {
			return plan.AddMeta(DirAnimation, file, meta.NewAsset(id))
		}

	case *asset.TextAsset:
		file := plan.Allocate(DirResource, name+".json")
		if err := plan.AddJSON(DirResource, file, r.Node); err != nil {
			return err
		}
		if resolved {
			return plan.AddMeta(DirResource, file, meta.NewText(id))
		}

	case *asset.BitmapFont, *asset.LabelAtlas, *asset.TTFFont:
		if resolved {
			s.fonts = append(s.fonts, fontEntry{id: id, rec: rec})
		}

	case *asset.SkeletonAsset:
		if !resolved {
			return nil
		}
		dir := DirTexture + "/" + safeDir(name)
		if r.Native != "" {
			file := plan.Allocate(dir, name+r.Native)
			if src, ok := env.Files.Claim(id); ok {
				plan.AddCopy(src, dir, file)
			} else {
				s.missingNative(ctx, r, id)
			}
			return plan.AddMeta(dir, file, meta.NewRaw(id))
		}
		file := plan.Allocate(dir, name+".json")
		if err := plan.AddJSON(dir, file, r.JSON); err != nil {
			return err
		}
		return plan.AddMeta(dir, file, meta.NewRaw(id))

	case *asset.SkeletonAtlas:
		dir := DirTexture + "/" + safeDir(name)
		file := plan.Allocate(dir, name+".json")
		if err := plan.AddJSON(dir, file, r.AtlasJSON); err != nil {
			return err
		}
		if resolved {
			if err := plan.AddMeta(dir, file, meta.NewRaw(id)); err != nil {
				return err
			}
		}
		if env.Options.SkipTextures {
			return nil
		}
		src, ok := env.Files.Claim(r.Texture)
		if !ok {
			s.missingNative(ctx, r, r.Texture)
			return nil
		}
		texFile := plan.Allocate(dir, name+filepath.Ext(src))
		plan.AddCopy(src, dir, texFile)
		w, h := s.imageSize(src)
		tex := meta.NewTexture(r.Texture, w, h)
		tex.SubMetas[stem(texFile)] = meta.WholeImage(env.NewID(), r.Texture, w, h)
		s.report.Pictures++
		s.report.Graph.AddTexture(report.Texture{ID: r.Texture, File: dir + "/" + texFile, Atlas: r.Name})
		return plan.AddMeta(dir, texFile, tex)

	case *asset.ParticleAsset:
		if !resolved {
			return nil
		}
		file := plan.Allocate(DirPicture, name+r.Native)
		s.particles = append(s.particles, particleEntry{id: id, file: file, rec: r})
		return plan.AddMeta(DirPicture, file, meta.NewRaw(id))

	case *asset.SpriteAtlas:
		if resolved {
			s.atlases = append(s.atlases, atlasEntry{id: id, rec: r})
		}

	case *asset.SpriteFrame:
		if !resolved {
			return nil
		}
		s.frames[id] = r
		g, ok := s.groups[r.Texture]
		if !ok {
			g = &pictureGroup{texture: r.Texture, members: make(map[string]*asset.SpriteFrame)}
			s.groups[r.Texture] = g
		}
		g.add(id, r)

	default:
		s.env.Logger.Warn("unhandled record kind", "kind", rec.Kind())
	}
	return nil
}

func (s *Scanner) missingNative(ctx context.Context, rec asset.Record, id string) {
	s.report.MissingNatives++
	s.env.Logger.Warn("native file not found", "kind", rec.Kind(), "name", rec.AssetName(), "id", id)
	observability.Records().OnRecordSkipped(ctx, rec.Kind().String(), rec.AssetName(), observability.SkipMissingNative)
}

func (s *Scanner) imageSize(path string) (int, int) {
	size, err := s.env.Images.Size(path)
	if err != nil {
		s.env.Logger.Warn("cannot read image size", "path", path, "err", err)
		return 0, 0
	}
	return size.Width, size.Height
}

func nameOf(v any) string {
	m, _ := v.(map[string]any)
	name, _ := m["_name"].(string)
	return name
}

// matchName returns the position of the first top-level object named name.
func matchName(root []any, name string) int {
	if name == "" {
		return -1
	}
	for j, el := range root {
		if m, ok := el.(map[string]any); ok {
			if n, _ := m["_name"].(string); n == name {
				return j
			}
		}
	}
	return -1
}

func sameSlice(a, b []any) bool {
	return len(a) > 0 && len(a) == len(b) && &a[0] == &b[0]
}

// displayName falls back to a prefix of the identifier for unnamed assets.
func displayName(name, id string) string {
	if name != "" {
		return name
	}
	if len(id) >= 8 {
		return id[:8]
	}
	return "unnamed"
}

func safeDir(name string) string {
	return strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(name)
}

func stem(file string) string {
	return strings.TrimSuffix(file, filepath.Ext(file))
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "bool"
	}
	return "unknown"
}

// Records returns the number of typed records scanned so far.
func (s *Scanner) Records() int { return s.report.RecordCount() }
