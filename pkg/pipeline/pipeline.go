// Package pipeline provides the reconstruction pipeline for ccreverse.
//
// The pipeline turns a built web or mini-game bundle back into an editor
// project. The CLI and tests drive it through the same Runner so that every
// entry point behaves alike.
//
// # Architecture
//
// The pipeline consists of five stages:
//
//  1. Load: read src/settings.js and index every file under res/ (and
//     subpackages/ when the build declares sub-packages)
//  2. Scan: parse each import document and emit what can be emitted
//     directly (scenes, prefabs, audio, animations, text)
//  3. Resolve: group sprite frames per texture, stitch sprite sheets,
//     collect orphan images and write fonts
//  4. Scaffold: add project.json, project settings and plugin scripts
//  5. Flush: create directories and perform all writes and copies
//
// Stages 1 to 4 only build an in-memory plan; nothing is written before the
// flush.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source: "build/web-mobile",
//	    Output: "project",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Report.Orphans)
package pipeline

import (
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ccreverse/pkg/config"
	"github.com/matzehuels/ccreverse/pkg/errors"
	"github.com/matzehuels/ccreverse/pkg/output"
	"github.com/matzehuels/ccreverse/pkg/resolver"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultOutput is the output directory used when none is given.
	DefaultOutput = "project"

	// DefaultMaxParallel bounds concurrent file operations during the flush.
	DefaultMaxParallel = output.DefaultMaxParallel

	// DefaultImageCacheSize is the number of image sizes kept in memory.
	DefaultImageCacheSize = 512
)

// Layout of a build directory.
const (
	SettingsFile   = "src/settings.js"
	ResDir         = "res"
	SubpackagesDir = "subpackages"
)

// Graph report formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// ValidFormats is the set of supported graph report formats.
var ValidFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a reconstruction run.
type Options struct {
	// Source is the build root containing src/ and res/.
	Source string
	// Output is the project directory to create.
	Output string
	// Settings overrides the settings file; defaults to Source/src/settings.js.
	Settings string

	CreateMeta bool
	Prettify   bool

	SkipTextures   bool
	SkipAudio      bool
	SkipAnimations bool

	// DryRun builds the plan without writing anything.
	DryRun bool

	MaxParallel    int
	ImageCacheSize int

	Logger *log.Logger

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// OptionsFromConfig maps a loaded configuration onto pipeline options.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Source:         cfg.Source,
		Output:         cfg.Output.Dir,
		CreateMeta:     cfg.Output.CreateMeta,
		Prettify:       cfg.Output.Prettify,
		SkipTextures:   !cfg.Assets.ExtractTextures,
		SkipAudio:      !cfg.Assets.ExtractAudio,
		SkipAnimations: !cfg.Assets.ExtractAnimations,
		MaxParallel:    cfg.Advanced.MaxParallel,
		ImageCacheSize: cfg.Advanced.ImageCacheSize,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Plan is everything the run wrote, or would write on a dry run.
	Plan *output.Plan

	// Report counts what the resolver saw and emitted.
	Report resolver.Report

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Documents   int
	Records     int
	Files       int // entries in the file index before the scan
	Writes      int
	Copies      int
	Failed      int
	Bytes       int64
	Plugins     int
	LoadTime    time.Duration
	ScanTime    time.Duration
	ResolveTime time.Duration
	FlushTime   time.Duration
}

// Total returns the summed duration of all stages.
func (s Stats) Total() time.Duration {
	return s.LoadTime + s.ScanTime + s.ResolveTime + s.FlushTime
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a graph report format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: dot, svg)", format)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Source == "" {
		return errors.New(errors.ErrCodeInvalidInput, "source directory is required")
	}
	if err := errors.ValidatePath(o.Source); err != nil {
		return err
	}
	if o.Output == "" {
		o.Output = DefaultOutput
	}
	if o.Settings == "" {
		o.Settings = filepath.Join(o.Source, filepath.FromSlash(SettingsFile))
	}
	if o.MaxParallel <= 0 {
		o.MaxParallel = DefaultMaxParallel
	}
	if o.ImageCacheSize <= 0 {
		o.ImageCacheSize = DefaultImageCacheSize
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	src, err := filepath.Abs(o.Source)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", o.Source)
	}
	out, err := filepath.Abs(o.Output)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", o.Output)
	}
	if src == out {
		return errors.New(errors.ErrCodeInvalidPath, "output directory must differ from the source directory")
	}
	o.validated = true
	return nil
}

// ResDir returns the resource directory of the build.
func (o *Options) ResDir() string { return filepath.Join(o.Source, ResDir) }

// SubpackagesDir returns the sub-package directory of the build.
func (o *Options) SubpackagesDir() string { return filepath.Join(o.Source, SubpackagesDir) }

// ResolverOptions returns the asset family switches for the resolver.
func (o *Options) ResolverOptions() resolver.Options {
	return resolver.Options{
		SkipTextures:   o.SkipTextures,
		SkipAudio:      o.SkipAudio,
		SkipAnimations: o.SkipAnimations,
	}
}
