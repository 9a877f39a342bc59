package asset

// Kind identifies the asset type of a record.
type Kind int

// Asset kinds.
const (
	KindUnknown Kind = iota
	KindScene
	KindPrefab
	KindSpriteFrame
	KindSpriteAtlas
	KindAudioClip
	KindAnimationClip
	KindTextAsset
	KindBitmapFont
	KindTTFFont
	KindLabelAtlas
	KindSkeletonAsset
	KindSkeletonAtlas
	KindParticleAsset
)

var kindTags = map[string]Kind{
	"cc.SceneAsset":                     KindScene,
	"cc.Prefab":                         KindPrefab,
	"cc.SpriteFrame":                    KindSpriteFrame,
	"cc.SpriteAtlas":                    KindSpriteAtlas,
	"cc.AudioClip":                      KindAudioClip,
	"cc.AnimationClip":                  KindAnimationClip,
	"cc.TextAsset":                      KindTextAsset,
	"cc.BitmapFont":                     KindBitmapFont,
	"cc.TTFFont":                        KindTTFFont,
	"cc.LabelAtlas":                     KindLabelAtlas,
	"dragonBones.DragonBonesAsset":      KindSkeletonAsset,
	"dragonBones.DragonBonesAtlasAsset": KindSkeletonAtlas,
	"cc.ParticleAsset":                  KindParticleAsset,
}

var kindNames = [...]string{
	KindUnknown:       "unknown",
	KindScene:         "scene",
	KindPrefab:        "prefab",
	KindSpriteFrame:   "sprite-frame",
	KindSpriteAtlas:   "sprite-atlas",
	KindAudioClip:     "audio-clip",
	KindAnimationClip: "animation-clip",
	KindTextAsset:     "text-asset",
	KindBitmapFont:    "bitmap-font",
	KindTTFFont:       "ttf-font",
	KindLabelAtlas:    "label-atlas",
	KindSkeletonAsset: "skeleton-asset",
	KindSkeletonAtlas: "skeleton-atlas",
	KindParticleAsset: "particle-asset",
}

// KindOf maps a runtime type tag to its kind.
func KindOf(tag string) (Kind, bool) {
	k, ok := kindTags[tag]
	return k, ok
}

// Kinds returns every known kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kindNames)-1)
	for k := KindScene; k <= KindParticleAsset; k++ {
		out = append(out, k)
	}
	return out
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}
