// Package project writes the editor scaffold around reconstructed assets:
// the project descriptor, the project settings derived from the build
// settings, editor tooling configs and the plugin scripts a build loads
// before the engine starts.
package project

import (
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ccreverse/pkg/errors"
	"github.com/matzehuels/ccreverse/pkg/ident"
	"github.com/matzehuels/ccreverse/pkg/meta"
	"github.com/matzehuels/ccreverse/pkg/output"
	"github.com/matzehuels/ccreverse/pkg/settings"
)

// PluginDir is where plugin scripts are placed.
const PluginDir = "assets/Scripts/plugin"

// EngineVersion is the editor version the scaffold targets.
const EngineVersion = "2.3.4"

// Options configures Write.
type Options struct {
	// SourceDir is the build root holding src/ and res/.
	SourceDir string
	// NewID returns fresh identifiers. Defaults to ident.Random.
	NewID  func() string
	Logger *log.Logger
}

// Summary counts what Write added to the plan.
type Summary struct {
	Files          int
	Plugins        int
	MissingPlugins int
}

// Descriptor is project.json.
type Descriptor struct {
	Engine   string `json:"engine"`
	Packages string `json:"packages"`
	Name     string `json:"name"`
	ID       string `json:"id"`
	Version  string `json:"version"`
	IsNew    bool   `json:"isNew"`
}

// Resolution is a width and height in design pixels.
type Resolution struct {
	Height int `json:"height"`
	Width  int `json:"width"`
}

// Toggle is a nested {"enable": bool} switch.
type Toggle struct {
	Enable bool `json:"enable"`
}

// Facebook is the Facebook Instant Games section of the project settings.
type Facebook struct {
	AppID    string `json:"appID"`
	Audience Toggle `json:"audience"`
	Enable   bool   `json:"enable"`
	Live     Toggle `json:"live"`
}

// Settings is settings/project.json.
type Settings struct {
	GroupList                  []string   `json:"group-list"`
	CollisionMatrix            [][]bool   `json:"collision-matrix"`
	ExcludedModules            []string   `json:"excluded-modules"`
	LastModuleEventRecordTime  int64      `json:"last-module-event-record-time"`
	DesignResolutionWidth      int        `json:"design-resolution-width"`
	DesignResolutionHeight     int        `json:"design-resolution-height"`
	FitWidth                   bool       `json:"fit-width"`
	FitHeight                  bool       `json:"fit-height"`
	UseProjectSimulatorSetting bool       `json:"use-project-simulator-setting"`
	SimulatorOrientation       bool       `json:"simulator-orientation"`
	UseCustomizeSimulator      bool       `json:"use-customize-simulator"`
	SimulatorResolution        Resolution `json:"simulator-resolution"`
	AssetsSortType             string     `json:"assets-sort-type"`
	Facebook                   Facebook   `json:"facebook"`
	MigrateHistory             []string   `json:"migrate-history"`
	StartScene                 string     `json:"start-scene"`
}

// CompilerConfig is jsconfig.json or tsconfig.json.
type CompilerConfig struct {
	CompilerOptions map[string]any `json:"compilerOptions"`
	Exclude         []string       `json:"exclude"`
}

// NewDescriptor returns the project descriptor with identifier id.
func NewDescriptor(id string) Descriptor {
	return Descriptor{
		Engine:   "cocos-creator-js",
		Packages: "packages",
		Name:     "project",
		ID:       id,
		Version:  EngineVersion,
	}
}

// NewSettings derives the project settings from build settings.
func NewSettings(s *settings.Settings) Settings {
	groups := s.GroupList
	if len(groups) == 0 {
		groups = []string{"default"}
	}
	matrix := s.CollisionMatrix
	if len(matrix) == 0 {
		matrix = [][]bool{{true}}
	}
	return Settings{
		GroupList:                 groups,
		CollisionMatrix:           matrix,
		ExcludedModules:           []string{"3D Physics/Builtin"},
		LastModuleEventRecordTime: 1613784461638,
		DesignResolutionWidth:     960,
		DesignResolutionHeight:    640,
		FitHeight:                 true,
		UseCustomizeSimulator:     true,
		SimulatorResolution:       Resolution{Height: 640, Width: 960},
		AssetsSortType:            "name",
		MigrateHistory:            []string{},
		StartScene:                StartScene(s.LaunchScene),
	}
}

// StartScene returns the scene name of a launch scene URL such as
// "db://assets/Scene/Main.fire", or "current" when none is set.
func StartScene(launch string) string {
	if launch == "" {
		return "current"
	}
	base := path.Base(strings.ReplaceAll(launch, "\\", "/"))
	name, _, _ := strings.Cut(base, ".")
	if name == "" {
		return "current"
	}
	return name
}

var (
	jsConfig = CompilerConfig{
		CompilerOptions: map[string]any{
			"target":                 "es6",
			"module":                 "commonjs",
			"experimentalDecorators": true,
		},
		Exclude: []string{"node_modules", ".vscode", "library", "local", "settings", "temp"},
	}
	tsConfig = CompilerConfig{
		CompilerOptions: map[string]any{
			"module":                           "commonjs",
			"lib":                              []string{"es2015", "es2017", "dom"},
			"target":                           "es5",
			"experimentalDecorators":           true,
			"skipLibCheck":                     true,
			"outDir":                           "temp/vscode-dist",
			"forceConsistentCasingInFileNames": true,
		},
		Exclude: []string{"node_modules", "library", "local", "temp", "build", "settings"},
	}
)

// Write adds the scaffold files and plugin scripts of s to plan.
func Write(plan *output.Plan, s *settings.Settings, opts Options) (Summary, error) {
	if opts.NewID == nil {
		opts.NewID = ident.Random
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if s == nil {
		s = &settings.Settings{}
	}

	var sum Summary
	files := []struct {
		dir, name string
		v         any
	}{
		{"", "project.json", NewDescriptor(opts.NewID())},
		{"settings", "project.json", NewSettings(s)},
		{"", "jsconfig.json", jsConfig},
		{"", "tsconfig.json", tsConfig},
	}
	for _, f := range files {
		if err := plan.AddJSON(f.dir, f.name, f.v); err != nil {
			return sum, errors.Wrap(errors.ErrCodeInternal, err, "encode %s", path.Join(f.dir, f.name))
		}
		sum.Files++
	}

	for _, item := range s.JSList {
		src := filepath.Join(opts.SourceDir, "src", filepath.FromSlash(item))
		if _, err := os.Stat(src); err != nil {
			sum.MissingPlugins++
			opts.Logger.Warn("plugin script not found", "script", item, "path", src)
			continue
		}
		name, _, _ := strings.Cut(path.Base(filepath.ToSlash(item)), ".")
		file := plan.Allocate(PluginDir, name+".js")
		plan.AddCopy(src, PluginDir, file)
		if err := plan.AddMeta(PluginDir, file, meta.NewPlugin(opts.NewID())); err != nil {
			return sum, errors.Wrap(errors.ErrCodeInternal, err, "encode plugin meta %s", file)
		}
		sum.Plugins++
	}
	return sum, nil
}
