// Package meta defines the sidecar .meta documents the editor keeps next to
// every asset file.
//
// Field order follows the editor's own output so that regenerated metas
// diff cleanly against editor-written ones. SubMetas is never nil; an empty
// map encodes as {} rather than null.
package meta

import "github.com/matzehuels/ccreverse/pkg/asset"

// Meta versions written for each importer.
const (
	VersionAsset       = "1.2.7"
	VersionAudio       = "2.0.0"
	VersionTexture     = "2.3.4"
	VersionSpriteFrame = "1.0.4"
	VersionPlist       = "1.2.4"
	VersionBitmapFont  = "2.1.0"
	VersionTTFFont     = "1.1.0"
	VersionRaw         = "1.0.1"
	VersionPlugin      = "1.0.8"
)

// DefaultFontSize is the font size written into bitmap font metas.
const DefaultFontSize = 36

// Asset is the meta of scenes, prefabs and animation clips.
type Asset struct {
	Ver                string         `json:"ver"`
	UUID               string         `json:"uuid"`
	OptimizationPolicy string         `json:"optimizationPolicy"`
	AsyncLoadAssets    bool           `json:"asyncLoadAssets"`
	Readonly           bool           `json:"readonly"`
	SubMetas           map[string]any `json:"subMetas"`
}

// NewAsset returns the meta of a scene, prefab or animation clip.
func NewAsset(uuid string) Asset {
	return Asset{
		Ver:                VersionAsset,
		UUID:               uuid,
		OptimizationPolicy: "AUTO",
		SubMetas:           map[string]any{},
	}
}

// Simple is the minimal meta: version, identifier and no sub-metas.
type Simple struct {
	Ver      string         `json:"ver"`
	UUID     string         `json:"uuid"`
	SubMetas map[string]any `json:"subMetas"`
}

// NewText returns the meta of a text asset.
func NewText(uuid string) Simple { return Simple{Ver: VersionAsset, UUID: uuid, SubMetas: map[string]any{}} }

// NewRaw returns the meta of skeleton data, skeleton atlases and particles.
func NewRaw(uuid string) Simple { return Simple{Ver: VersionRaw, UUID: uuid, SubMetas: map[string]any{}} }

// NewTTFFont returns the meta of a TrueType font.
func NewTTFFont(uuid string) Simple {
	return Simple{Ver: VersionTTFFont, UUID: uuid, SubMetas: map[string]any{}}
}

// Audio is the meta of an audio clip.
type Audio struct {
	Ver          string         `json:"ver"`
	UUID         string         `json:"uuid"`
	DownloadMode int            `json:"downloadMode"`
	SubMetas     map[string]any `json:"subMetas"`
}

// NewAudio returns the meta of an audio clip.
func NewAudio(uuid string) Audio {
	return Audio{Ver: VersionAudio, UUID: uuid, SubMetas: map[string]any{}}
}

// SpriteFrame is the sub-meta describing one frame of a texture.
type SpriteFrame struct {
	Ver            string         `json:"ver"`
	UUID           string         `json:"uuid"`
	RawTextureUUID string         `json:"rawTextureUuid"`
	TrimType       string         `json:"trimType"`
	TrimThreshold  int            `json:"trimThreshold"`
	Rotated        bool           `json:"rotated"`
	OffsetX        float64        `json:"offsetX"`
	OffsetY        float64        `json:"offsetY"`
	TrimX          float64        `json:"trimX"`
	TrimY          float64        `json:"trimY"`
	Width          float64        `json:"width"`
	Height         float64        `json:"height"`
	RawWidth       float64        `json:"rawWidth"`
	RawHeight      float64        `json:"rawHeight"`
	BorderTop      float64        `json:"borderTop"`
	BorderBottom   float64        `json:"borderBottom"`
	BorderLeft     float64        `json:"borderLeft"`
	BorderRight    float64        `json:"borderRight"`
	SpriteType     string         `json:"spriteType"`
	SubMetas       map[string]any `json:"subMetas"`
}

// NewSpriteFrame returns the sub-meta of frame sf inside texture texture.
func NewSpriteFrame(uuid, texture string, sf *asset.SpriteFrame) SpriteFrame {
	m := WholeImage(uuid, texture, 0, 0)
	m.Rotated = sf.Rotated
	m.OffsetX, m.OffsetY = sf.Offset[0], sf.Offset[1]
	m.TrimX, m.TrimY = sf.Rect[0], sf.Rect[1]
	m.Width, m.Height = sf.Rect[2], sf.Rect[3]
	m.RawWidth, m.RawHeight = sf.OriginalSize[0], sf.OriginalSize[1]
	m.BorderLeft, m.BorderTop = sf.CapInsets[0], sf.CapInsets[1]
	m.BorderRight, m.BorderBottom = sf.CapInsets[2], sf.CapInsets[3]
	return m
}

// WholeImage returns a frame sub-meta covering an entire w×h texture.
func WholeImage(uuid, texture string, w, h int) SpriteFrame {
	return SpriteFrame{
		Ver:            VersionSpriteFrame,
		UUID:           uuid,
		RawTextureUUID: texture,
		TrimType:       "auto",
		TrimThreshold:  1,
		Width:          float64(w),
		Height:         float64(h),
		RawWidth:       float64(w),
		RawHeight:      float64(h),
		SpriteType:     "normal",
		SubMetas:       map[string]any{},
	}
}

// Texture is the meta of an image file.
type Texture struct {
	Ver              string                 `json:"ver"`
	UUID             string                 `json:"uuid"`
	Type             string                 `json:"type"`
	WrapMode         string                 `json:"wrapMode"`
	FilterMode       string                 `json:"filterMode"`
	PremultiplyAlpha bool                   `json:"premultiplyAlpha"`
	GenMipmaps       bool                   `json:"genMipmaps"`
	Packable         bool                   `json:"packable"`
	Width            int                    `json:"width"`
	Height           int                    `json:"height"`
	PlatformSettings map[string]any         `json:"platformSettings"`
	SubMetas         map[string]SpriteFrame `json:"subMetas"`
}

// NewTexture returns a sprite texture meta of size w×h.
func NewTexture(uuid string, w, h int) Texture {
	return Texture{
		Ver:              VersionTexture,
		UUID:             uuid,
		Type:             "sprite",
		WrapMode:         "clamp",
		FilterMode:       "bilinear",
		Packable:         true,
		Width:            w,
		Height:           h,
		PlatformSettings: map[string]any{},
		SubMetas:         map[string]SpriteFrame{},
	}
}

// Size is a pixel size.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Plist is the meta of a TexturePacker sprite sheet.
type Plist struct {
	Ver            string                 `json:"ver"`
	UUID           string                 `json:"uuid"`
	RawTextureUUID string                 `json:"rawTextureUuid"`
	Size           Size                   `json:"size"`
	Type           string                 `json:"type"`
	SubMetas       map[string]SpriteFrame `json:"subMetas"`
}

// NewPlist returns a sprite sheet meta for a w×h texture.
func NewPlist(uuid, texture string, w, h int) Plist {
	return Plist{
		Ver:            VersionPlist,
		UUID:           uuid,
		RawTextureUUID: texture,
		Size:           Size{Width: w, Height: h},
		Type:           "Texture Packer",
		SubMetas:       map[string]SpriteFrame{},
	}
}

// BitmapFont is the meta of a .fnt file.
type BitmapFont struct {
	Ver         string         `json:"ver"`
	UUID        string         `json:"uuid"`
	TextureUUID string         `json:"textureUuid"`
	FontSize    int            `json:"fontSize"`
	SubMetas    map[string]any `json:"subMetas"`
}

// NewBitmapFont returns the meta of a bitmap font drawn from texture.
func NewBitmapFont(uuid, texture string) BitmapFont {
	return BitmapFont{
		Ver:         VersionBitmapFont,
		UUID:        uuid,
		TextureUUID: texture,
		FontSize:    DefaultFontSize,
		SubMetas:    map[string]any{},
	}
}

// Plugin is the meta of a plugin script.
type Plugin struct {
	Ver                string         `json:"ver"`
	UUID               string         `json:"uuid"`
	IsPlugin           bool           `json:"isPlugin"`
	LoadPluginInWeb    bool           `json:"loadPluginInWeb"`
	LoadPluginInNative bool           `json:"loadPluginInNative"`
	LoadPluginInEditor bool           `json:"loadPluginInEditor"`
	SubMetas           map[string]any `json:"subMetas"`
}

// NewPlugin returns the meta of a plugin script loaded at runtime but not
// in the editor.
func NewPlugin(uuid string) Plugin {
	return Plugin{
		Ver:                VersionPlugin,
		UUID:               uuid,
		IsPlugin:           true,
		LoadPluginInWeb:    true,
		LoadPluginInNative: true,
		SubMetas:           map[string]any{},
	}
}
