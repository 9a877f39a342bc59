package resolver

import (
	"context"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/ccreverse/pkg/asset"
	"github.com/matzehuels/ccreverse/pkg/fileindex"
	"github.com/matzehuels/ccreverse/pkg/fnt"
	"github.com/matzehuels/ccreverse/pkg/ident"
	"github.com/matzehuels/ccreverse/pkg/meta"
	"github.com/matzehuels/ccreverse/pkg/observability"
	"github.com/matzehuels/ccreverse/pkg/output"
	"github.com/matzehuels/ccreverse/pkg/plist"
	"github.com/matzehuels/ccreverse/pkg/report"
)

// Pending is the handle of a closed scan phase.
type Pending struct {
	s      *Scanner
	done   bool
	report Report
}

type atlasRef struct {
	id   string
	name string
}

// Resolve runs the second phase and returns the finished plan. It runs at
// most once; later calls return the first result. When ctx ends between
// steps the partial plan is returned with Report.Canceled set.
func (p *Pending) Resolve(ctx context.Context) (*output.Plan, Report) {
	if p.done {
		return p.s.env.Plan, p.report
	}
	p.done = true

	start := time.Now()
	observability.Pipeline().OnResolveStart(ctx)

	steps := []func(context.Context){
		p.copyParticles,
		func(ctx context.Context) { p.emitGroups(ctx, p.atlasMap()) },
		func(context.Context) { p.emitOrphans() },
		p.emitFonts,
	}
	for _, step := range steps {
		if ctx.Err() != nil {
			p.s.report.Canceled = true
			break
		}
		step(ctx)
	}

	p.report = p.s.report
	plan := p.s.env.Plan
	observability.Pipeline().OnResolveComplete(ctx, len(plan.Writes()), len(plan.Copies()), time.Since(start), ctx.Err())
	return plan, p.report
}

// =============================================================================
// Particles
// =============================================================================

func (p *Pending) copyParticles(ctx context.Context) {
	env := p.s.env
	for _, e := range p.s.particles {
		src, ok := env.Files.Claim(e.id)
		if !ok {
			p.s.missingNative(ctx, e.rec, e.id)
			continue
		}
		env.Plan.AddCopy(src, DirPicture, e.file)
	}
}

// =============================================================================
// Sprite sheets
// =============================================================================

// atlasMap maps texture identifiers to the atlas whose frames they hold.
// When two atlases claim one texture the later one wins.
func (p *Pending) atlasMap() map[string]atlasRef {
	m := make(map[string]atlasRef)
	for _, a := range p.s.atlases {
		for _, fid := range a.rec.Frames {
			if sf, ok := p.s.frames[fid]; ok {
				m[sf.Texture] = atlasRef{id: a.id, name: a.rec.Name}
			}
		}
	}
	return m
}

func (p *Pending) emitGroups(ctx context.Context, atlases map[string]atlasRef) {
	textures := make([]string, 0, len(p.s.groups))
	for tex := range p.s.groups {
		textures = append(textures, tex)
	}
	sort.Strings(textures)

	env := p.s.env
	for _, tex := range textures {
		g := p.s.groups[tex]
		src, ok := env.Files.Lookup(tex)
		if !ok {
			if !env.Options.SkipTextures {
				p.s.report.MissingNatives++
				env.Logger.Warn("texture not found", "texture", tex, "frames", len(g.ids))
				observability.Records().OnRecordSkipped(ctx, asset.KindSpriteFrame.String(), tex, observability.SkipMissingNative)
			}
			continue
		}
		env.Files.Remove(tex)
		if env.Options.SkipTextures {
			continue
		}
		if len(g.ids) == 1 {
			p.emitPicture(g, src)
			continue
		}
		if err := p.emitSheet(g, src, atlases[tex]); err != nil {
			p.s.report.Skipped++
			env.Logger.Warn("cannot write sprite sheet", "texture", tex, "err", err)
			observability.Records().OnRecordSkipped(ctx, asset.KindSpriteAtlas.String(), tex, observability.SkipEmitFailed)
		}
	}
}

func isDefaultName(name string) bool {
	prefix, _, _ := strings.Cut(name, "_")
	return prefix == "default"
}

func (p *Pending) emitPicture(g *pictureGroup, src string) {
	env := p.s.env
	id := g.ids[0]
	sf := g.members[id]
	if isDefaultName(sf.Name) {
		return
	}

	file := env.Plan.Allocate(DirPicture, displayName(sf.Name, id)+filepath.Ext(src))
	env.Plan.AddCopy(src, DirPicture, file)
	w, h := p.s.imageSize(src)
	tex := meta.NewTexture(g.texture, w, h)
	tex.SubMetas[stem(file)] = meta.NewSpriteFrame(id, g.texture, sf)
	if err := env.Plan.AddMeta(DirPicture, file, tex); err != nil {
		env.Logger.Warn("cannot write texture meta", "file", file, "err", err)
	}

	p.s.report.Pictures++
	p.s.report.Graph.AddTexture(report.Texture{
		ID:     g.texture,
		File:   DirPicture + "/" + file,
		Frames: []report.Frame{{ID: id, Name: sf.Name}},
	})
}

func (p *Pending) emitSheet(g *pictureGroup, src string, atlas atlasRef) error {
	env := p.s.env
	base := atlas.name
	if base == "" {
		base = fileindex.KeyOf(src)
	}
	texFile := env.Plan.Allocate(DirPicture, base+filepath.Ext(src))
	plistFile := env.Plan.Allocate(DirPicture, stem(texFile)+".plist")
	w, h := p.s.imageSize(src)

	sheet := plist.Sheet{
		TextureFile: texFile,
		Width:       w,
		Height:      h,
		SmartUpdate: plist.SmartUpdate(env.NewToken(), env.NewToken(), env.NewToken()),
	}
	sheetID := atlas.id
	if sheetID == "" {
		sheetID = g.atlas()
	}
	if sheetID == "" {
		sheetID = env.NewID()
	}
	pm := meta.NewPlist(sheetID, g.texture, w, h)
	node := report.Texture{
		ID:       g.texture,
		File:     DirPicture + "/" + texFile,
		Atlas:    atlas.name,
		Stitched: true,
	}

	names := make(map[string]bool, len(g.ids))
	dup := 0
	for _, id := range g.ids {
		sf := g.members[id]
		name := displayName(sf.Name, id) + ".png"
		for names[name] {
			name = displayName(sf.Name, id) + "_" + strconv.Itoa(dup) + ".png"
			dup++
		}
		names[name] = true

		sheet.Frames = append(sheet.Frames, plist.Frame{
			Name:    name,
			X:       sf.Rect[0],
			Y:       sf.Rect[1],
			W:       sf.Rect[2],
			H:       sf.Rect[3],
			OffsetX: sf.Offset[0],
			OffsetY: sf.Offset[1],
			SourceW: sf.OriginalSize[0],
			SourceH: sf.OriginalSize[1],
			Rotated: sf.Rotated,
		})
		pm.SubMetas[name] = meta.NewSpriteFrame(id, g.texture, sf)
		node.Frames = append(node.Frames, report.Frame{ID: id, Name: sf.Name})
	}

	data, err := plist.Marshal(sheet)
	if err != nil {
		return err
	}
	env.Plan.AddCopy(src, DirPicture, texFile)
	tex := meta.NewTexture(g.texture, w, h)
	tex.SubMetas[stem(texFile)] = meta.WholeImage(env.NewID(), g.texture, w, h)
	if err := env.Plan.AddMeta(DirPicture, texFile, tex); err != nil {
		return err
	}
	env.Plan.AddBytes(DirPicture, plistFile, data)
	if err := env.Plan.AddMeta(DirPicture, plistFile, pm); err != nil {
		return err
	}

	p.s.report.Sheets++
	p.s.report.Graph.AddTexture(node)
	return nil
}

// =============================================================================
// Orphans
// =============================================================================

func isPicture(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg":
		return true
	}
	return false
}

func (p *Pending) emitOrphans() {
	env := p.s.env
	if env.Options.SkipTextures {
		return
	}
	for _, key := range env.Files.Keys() {
		src, _ := env.Files.Lookup(key)
		if !isPicture(src) {
			continue
		}
		env.Files.Remove(key)

		file := env.Plan.Allocate(DirPicture, key+filepath.Ext(src))
		env.Plan.AddCopy(src, DirPicture, file)
		id := key
		if !ident.IsCanonical(key) {
			id = env.NewID()
		}
		w, h := p.s.imageSize(src)
		tex := meta.NewTexture(id, w, h)
		tex.SubMetas[env.NewName(4)] = meta.WholeImage(env.NewID(), id, w, h)
		if err := env.Plan.AddMeta(DirPicture, file, tex); err != nil {
			env.Logger.Warn("cannot write texture meta", "file", file, "err", err)
		}

		p.s.report.Orphans++
		p.s.report.Graph.AddTexture(report.Texture{ID: id, File: DirPicture + "/" + file, Orphan: true})
	}
}

// =============================================================================
// Fonts
// =============================================================================

func (p *Pending) emitFonts(ctx context.Context) {
	for _, e := range p.s.fonts {
		switch r := e.rec.(type) {
		case *asset.BitmapFont:
			p.emitBitmapFont(ctx, e.id, r)
		case *asset.LabelAtlas:
			p.emitBitmapFont(ctx, e.id, &r.BitmapFont)
		case *asset.TTFFont:
			p.emitTTF(ctx, e.id, r)
		}
	}
}

func (p *Pending) emitBitmapFont(ctx context.Context, id string, r *asset.BitmapFont) {
	env := p.s.env
	frame, ok := p.s.frames[r.SpriteFrame]
	if !ok {
		p.s.report.DroppedFonts++
		env.Logger.Warn("dropping font without a known sprite frame", "name", r.Name, "frame", r.SpriteFrame)
		observability.Records().OnRecordSkipped(ctx, asset.KindBitmapFont.String(), r.Name, observability.SkipDroppedFont)
		return
	}

	name := displayName(r.Name, id)
	size := r.FontSize
	if size == 0 {
		size = r.Config.FontSize
	}
	page := r.Config.AtlasName
	if page == "" {
		page = name + ".png"
	}
	data, err := fnt.Marshal(fnt.Font{
		Face:       name,
		Size:       size,
		LineHeight: r.Config.CommonHeight,
		Base:       r.Config.FontSize,
		ScaleW:     int(frame.Rect[2]),
		ScaleH:     int(frame.Rect[3]),
		File:       page,
		Glyphs:     r.Config.Glyphs,
	})
	if err != nil {
		p.s.report.DroppedFonts++
		env.Logger.Warn("cannot encode font", "name", r.Name, "err", err)
		observability.Records().OnRecordSkipped(ctx, asset.KindBitmapFont.String(), r.Name, observability.SkipDroppedFont)
		return
	}

	file := env.Plan.Allocate(DirFonts, name+".fnt")
	env.Plan.AddBytes(DirFonts, file, data)
	if err := env.Plan.AddMeta(DirFonts, file, meta.NewBitmapFont(id, frame.Texture)); err != nil {
		env.Logger.Warn("cannot write font meta", "file", file, "err", err)
	}
	p.s.report.Fonts++
	p.s.report.Graph.AddFont(report.Font{ID: id, Name: r.Name, Frame: r.SpriteFrame})
}

func (p *Pending) emitTTF(ctx context.Context, id string, r *asset.TTFFont) {
	env := p.s.env
	src, ok := env.Files.Claim(id)
	if !ok {
		p.s.missingNative(ctx, r, id)
		return
	}
	ext := filepath.Ext(src)
	if ext == "" {
		ext = r.Native
	}
	file := env.Plan.Allocate(DirFonts, displayName(r.Name, id)+ext)
	env.Plan.AddCopy(src, DirFonts, file)
	if err := env.Plan.AddMeta(DirFonts, file, meta.NewTTFFont(id)); err != nil {
		env.Logger.Warn("cannot write font meta", "file", file, "err", err)
	}
	p.s.report.Fonts++
}
