package resolver

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/ccreverse/pkg/fileindex"
	"github.com/matzehuels/ccreverse/pkg/ident"
	"github.com/matzehuels/ccreverse/pkg/imagesize"
	"github.com/matzehuels/ccreverse/pkg/output"
	"github.com/matzehuels/ccreverse/pkg/settings"
)

// Output directories, relative to the project root.
const (
	DirScene     = "assets/Scene"
	DirPrefab    = "assets/Prefab"
	DirAudio     = "assets/Audio"
	DirAnimation = "assets/Animation"
	DirResource  = "assets/resource"
	DirTexture   = "assets/Texture"
	DirPicture   = "assets/Picture"
	DirFonts     = "assets/Fonts"
)

// ImageProber reports the pixel size of an image file.
type ImageProber interface {
	Size(path string) (imagesize.Size, error)
}

// Options selects which asset families are extracted.
type Options struct {
	SkipTextures   bool
	SkipAudio      bool
	SkipAnimations bool
}

// Env is everything a resolution run reads from or writes to. The resolver
// does not modify Env itself; Files is mutated as native files are claimed
// and Plan accumulates output.
type Env struct {
	Table  *settings.Table
	Files  *fileindex.Index
	Images ImageProber
	Plan   *output.Plan

	// NewID returns a fresh canonical identifier for generated assets.
	NewID func() string
	// NewName returns a random alphanumeric name of length n.
	NewName func(n int) string
	// NewToken returns a hex token for sprite sheet smart-update markers.
	NewToken func() string

	Options Options
	Logger  *log.Logger
}

func (e Env) withDefaults() Env {
	if e.Table == nil {
		e.Table = &settings.Table{}
	}
	if e.Files == nil {
		e.Files = fileindex.New()
	}
	if e.Images == nil {
		e.Images = imagesize.New(0)
	}
	if e.Plan == nil {
		e.Plan = output.NewPlan(output.PlanOptions{CreateMeta: true})
	}
	if e.NewID == nil {
		e.NewID = ident.Random
	}
	if e.NewName == nil {
		e.NewName = ident.RandomName
	}
	if e.NewToken == nil {
		e.NewToken = timeToken
	}
	if e.Logger == nil {
		e.Logger = log.New(io.Discard)
	}
	return e
}

// timeToken returns a time-based (version 1) UUID without hyphens, the
// token shape TexturePacker writes into smart-update markers.
func timeToken() string {
	u, err := uuid.NewUUID()
	if err != nil {
		u = uuid.New()
	}
	return strings.ReplaceAll(u.String(), "-", "")
}
