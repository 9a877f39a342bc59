package asset

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/matzehuels/ccreverse/pkg/fnt"
	"github.com/matzehuels/ccreverse/pkg/ident"
)

var (
	// ErrNotAsset is returned by Parse for untyped objects and unknown tags.
	ErrNotAsset = errors.New("asset: not a known asset record")

	// ErrStructure is returned by Parse when a known record lacks a field
	// reconstruction depends on.
	ErrStructure = errors.New("asset: unexpected record structure")
)

// Record is one parsed asset. The concrete type is one of the structs in
// this file; switch over them to dispatch.
type Record interface {
	Kind() Kind
	AssetName() string
}

// Scene is the leading element of a scene document.
type Scene struct {
	Name string
}

// Prefab is the leading element of a prefab document.
type Prefab struct {
	Name string
}

// SpriteFrame is a rectangle of a texture.
type SpriteFrame struct {
	Name         string
	Texture      string
	Atlas        string // owning sprite atlas, when the build records one
	Rect         [4]float64 // x, y, width, height
	Offset       [2]float64
	OriginalSize [2]float64
	CapInsets    [4]float64 // left, top, right, bottom
	Rotated      bool
}

// SpriteAtlas lists the frames packed into one texture.
type SpriteAtlas struct {
	Name   string
	Frames []string // frame identifiers ordered by frame name
}

// AudioClip is a sound asset backed by a native file.
type AudioClip struct {
	Name   string
	Native string
}

// AnimationClip keeps its serialized form; it is re-emitted as is.
type AnimationClip struct {
	Name string
	Node map[string]any
}

// TextAsset keeps its serialized form; it is re-emitted as is.
type TextAsset struct {
	Name string
	Node map[string]any
}

// FontConfig is the glyph table of a bitmap font.
type FontConfig struct {
	CommonHeight int
	FontSize     int
	AtlasName    string
	Glyphs       []fnt.Glyph
}

// BitmapFont is a font rendered from a sprite frame.
type BitmapFont struct {
	Name        string
	FontSize    int
	SpriteFrame string
	Config      FontConfig
}

// LabelAtlas is a fixed-grid bitmap font.
type LabelAtlas struct {
	BitmapFont
}

// TTFFont is a TrueType font backed by a native file.
type TTFFont struct {
	Name   string
	Native string
}

// SkeletonAsset is DragonBones skeleton data, either native binary or JSON.
type SkeletonAsset struct {
	Name   string
	Native string
	JSON   any
}

// SkeletonAtlas is a DragonBones texture atlas.
type SkeletonAtlas struct {
	Name      string
	AtlasJSON any
	Texture   string
}

// ParticleAsset is a particle system definition backed by a native plist.
type ParticleAsset struct {
	Name    string
	Native  string
	Texture string
}

func (*Scene) Kind() Kind         { return KindScene }
func (*Prefab) Kind() Kind        { return KindPrefab }
func (*SpriteFrame) Kind() Kind   { return KindSpriteFrame }
func (*SpriteAtlas) Kind() Kind   { return KindSpriteAtlas }
func (*AudioClip) Kind() Kind     { return KindAudioClip }
func (*AnimationClip) Kind() Kind { return KindAnimationClip }
func (*TextAsset) Kind() Kind     { return KindTextAsset }
func (*BitmapFont) Kind() Kind    { return KindBitmapFont }
func (*LabelAtlas) Kind() Kind    { return KindLabelAtlas }
func (*TTFFont) Kind() Kind       { return KindTTFFont }
func (*SkeletonAsset) Kind() Kind { return KindSkeletonAsset }
func (*SkeletonAtlas) Kind() Kind { return KindSkeletonAtlas }
func (*ParticleAsset) Kind() Kind { return KindParticleAsset }

func (r *Scene) AssetName() string         { return r.Name }
func (r *Prefab) AssetName() string        { return r.Name }
func (r *SpriteFrame) AssetName() string   { return r.Name }
func (r *SpriteAtlas) AssetName() string   { return r.Name }
func (r *AudioClip) AssetName() string     { return r.Name }
func (r *AnimationClip) AssetName() string { return r.Name }
func (r *TextAsset) AssetName() string     { return r.Name }
func (r *BitmapFont) AssetName() string    { return r.Name }
func (r *TTFFont) AssetName() string       { return r.Name }
func (r *SkeletonAsset) AssetName() string { return r.Name }
func (r *SkeletonAtlas) AssetName() string { return r.Name }
func (r *ParticleAsset) AssetName() string { return r.Name }

// Tag returns the type tag of node, or "" for untyped data.
func Tag(node map[string]any) string {
	s, _ := node["__type__"].(string)
	return s
}

// Parse converts a tagged object into a Record.
func Parse(node map[string]any) (Record, error) {
	kind, ok := KindOf(Tag(node))
	if !ok {
		return nil, ErrNotAsset
	}
	name := str(node, "_name")

	switch kind {
	case KindScene:
		return &Scene{Name: name}, nil
	case KindPrefab:
		return &Prefab{Name: name}, nil
	case KindSpriteFrame:
		return parseSpriteFrame(node)
	case KindSpriteAtlas:
		frames, ok := node["_spriteFrames"].(map[string]any)
		if !ok {
			return nil, structural(kind, "_spriteFrames")
		}
		names := make([]string, 0, len(frames))
		for n := range frames {
			names = append(names, n)
		}
		sort.Strings(names)
		rec := &SpriteAtlas{Name: name}
		for _, n := range names {
			if id := ref(frames[n]); id != "" {
				rec.Frames = append(rec.Frames, id)
			}
		}
		return rec, nil
	case KindAudioClip:
		native, ok := node["_native"].(string)
		if !ok || native == "" {
			return nil, structural(kind, "_native")
		}
		return &AudioClip{Name: name, Native: native}, nil
	case KindAnimationClip:
		return &AnimationClip{Name: name, Node: node}, nil
	case KindTextAsset:
		return &TextAsset{Name: name, Node: node}, nil
	case KindBitmapFont, KindLabelAtlas:
		font, err := parseBitmapFont(kind, name, node)
		if err != nil {
			return nil, err
		}
		if kind == KindLabelAtlas {
			return &LabelAtlas{BitmapFont: *font}, nil
		}
		return font, nil
	case KindTTFFont:
		native, ok := node["_native"].(string)
		if !ok || native == "" {
			return nil, structural(kind, "_native")
		}
		return &TTFFont{Name: name, Native: native}, nil
	case KindSkeletonAsset:
		rec := &SkeletonAsset{Name: name, Native: str(node, "_native")}
		if raw := str(node, "_dragonBonesJson"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &rec.JSON); err != nil {
				return nil, fmt.Errorf("%w: %s _dragonBonesJson: %v", ErrStructure, kind, err)
			}
		}
		if rec.Native == "" && rec.JSON == nil {
			return nil, structural(kind, "_native or _dragonBonesJson")
		}
		return rec, nil
	case KindSkeletonAtlas:
		raw := str(node, "_atlasJson")
		if raw == "" {
			return nil, structural(kind, "_atlasJson")
		}
		rec := &SkeletonAtlas{Name: name, Texture: ref(node["_texture"])}
		if err := json.Unmarshal([]byte(raw), &rec.AtlasJSON); err != nil {
			return nil, fmt.Errorf("%w: %s _atlasJson: %v", ErrStructure, kind, err)
		}
		if rec.Texture == "" {
			return nil, structural(kind, "_texture")
		}
		return rec, nil
	case KindParticleAsset:
		native, ok := node["_native"].(string)
		if !ok || native == "" {
			return nil, structural(kind, "_native")
		}
		return &ParticleAsset{Name: name, Native: native, Texture: ref(node["texture"])}, nil
	}
	return nil, ErrNotAsset
}

func parseSpriteFrame(node map[string]any) (*SpriteFrame, error) {
	content, ok := node["content"].(map[string]any)
	if !ok {
		return nil, structural(KindSpriteFrame, "content")
	}
	rect, ok := floats(content["rect"], 4)
	if !ok {
		return nil, structural(KindSpriteFrame, "content.rect")
	}
	texture := str(content, "texture")
	if texture == "" {
		return nil, structural(KindSpriteFrame, "content.texture")
	}
	sf := &SpriteFrame{
		Name:    str(content, "name"),
		Texture: ident.Decode(texture),
		Atlas:   ident.Decode(str(content, "atlas")),
		Rotated: truthy(content["rotated"]),
	}
	copy(sf.Rect[:], rect)
	if off, ok := floats(content["offset"], 2); ok {
		copy(sf.Offset[:], off)
	}
	if size, ok := floats(content["originalSize"], 2); ok {
		copy(sf.OriginalSize[:], size)
	} else {
		sf.OriginalSize = [2]float64{sf.Rect[2], sf.Rect[3]}
	}
	if insets, ok := floats(content["capInsets"], 4); ok {
		copy(sf.CapInsets[:], insets)
	}
	return sf, nil
}

func parseBitmapFont(kind Kind, name string, node map[string]any) (*BitmapFont, error) {
	cfg, ok := node["_fntConfig"].(map[string]any)
	if !ok {
		return nil, structural(kind, "_fntConfig")
	}
	defs, ok := cfg["fontDefDictionary"].(map[string]any)
	if !ok {
		return nil, structural(kind, "_fntConfig.fontDefDictionary")
	}
	font := &BitmapFont{
		Name:        name,
		FontSize:    integer(node["fontSize"]),
		SpriteFrame: ref(node["spriteFrame"]),
		Config: FontConfig{
			CommonHeight: integer(cfg["commonHeight"]),
			FontSize:     integer(cfg["fontSize"]),
			AtlasName:    str(cfg, "atlasName"),
		},
	}
	for key, v := range defs {
		id, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		def, _ := v.(map[string]any)
		rect, _ := def["rect"].(map[string]any)
		if rect == nil {
			return nil, structural(kind, "fontDefDictionary."+key+".rect")
		}
		font.Config.Glyphs = append(font.Config.Glyphs, fnt.Glyph{
			ID:       id,
			X:        integer(rect["x"]),
			Y:        integer(rect["y"]),
			Width:    integer(rect["width"]),
			Height:   integer(rect["height"]),
			XOffset:  integer(def["xOffset"]),
			YOffset:  integer(def["yOffset"]),
			XAdvance: integer(def["xAdvance"]),
		})
	}
	sort.Slice(font.Config.Glyphs, func(i, j int) bool {
		return font.Config.Glyphs[i].ID < font.Config.Glyphs[j].ID
	})
	return font, nil
}

func structural(kind Kind, field string) error {
	return fmt.Errorf("%w: %s missing %s", ErrStructure, kind, field)
}

func str(node map[string]any, key string) string {
	s, _ := node[key].(string)
	return s
}

// ref returns the canonical identifier of a {"__uuid__": id} reference.
func ref(v any) string {
	m, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	id, _ := m["__uuid__"].(string)
	return ident.Decode(id)
}

func floats(v any, n int) ([]float64, bool) {
	items, ok := v.([]any)
	if !ok || len(items) < n {
		return nil, false
	}
	out := make([]float64, n)
	for i := range n {
		f, ok := items[i].(float64)
		if !ok {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}

func integer(v any) int {
	f, _ := v.(float64)
	return int(math.Round(f))
}

func truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case float64:
		return x != 0
	}
	return false
}
