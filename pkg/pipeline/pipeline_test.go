package pipeline

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/ccreverse/pkg/config"
	"github.com/matzehuels/ccreverse/pkg/errors"
	"github.com/matzehuels/ccreverse/pkg/output"
	"github.com/matzehuels/ccreverse/pkg/report"
	"github.com/matzehuels/ccreverse/pkg/resolver"
)

const (
	audioCompact = "fcmR3XADNLgJ1ByKhqcC5Z"
	audioUUID    = "fc991dd7-0033-4b80-9d41-c8a86a702e59"
	clickCompact = "2bbzoQnE5NIY8Kd+XB0rOk"
	clickUUID    = "2b6f3a10-9c4e-4d21-8f0a-77e5c1d2b3a4"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

// buildFixture lays out a minimal web build: one audio clip, one image no
// document references and one plugin script.
func buildFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "settings.js"), []byte(
		`window._CCSettings={packedAssets:{},uuids:[],launchScene:"db://assets/Scene/Main.fire",jsList:["plugin.js"]};`))
	writeFile(t, filepath.Join(root, "src", "plugin.js"), []byte("var sdk = {};"))
	writeFile(t, filepath.Join(root, "res", "import", "fc", audioCompact+".json"), []byte(
		`{"__type__":"cc.AudioClip","_name":"bgm","_native":".mp3","duration":1.5}`))
	writeFile(t, filepath.Join(root, "res", "raw-assets", "fc", audioUUID+".mp3"), []byte("ID3"))

	path := filepath.Join(root, "res", "raw-assets", "ab", "loading.png")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 3, 2))); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestExecute(t *testing.T) {
	src := buildFixture(t)
	out := filepath.Join(t.TempDir(), "project")

	result, err := NewRunner(nil).Execute(context.Background(), Options{
		Source:     src,
		Output:     out,
		CreateMeta: true,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	for _, rel := range []string{
		"assets/Audio/bgm.mp3",
		"assets/Audio/bgm.mp3.meta",
		"assets/Picture/loading.png",
		"assets/Picture/loading.png.meta",
		"assets/Scripts/plugin/plugin.js",
		"assets/Scripts/plugin/plugin.js.meta",
		"project.json",
		"settings/project.json",
		"jsconfig.json",
		"tsconfig.json",
	} {
		if _, err := os.Stat(filepath.Join(out, filepath.FromSlash(rel))); err != nil {
			t.Errorf("missing %s: %v", rel, err)
		}
	}

	meta, err := os.ReadFile(filepath.Join(out, "assets", "Audio", "bgm.mp3.meta"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(meta), audioUUID) {
		t.Errorf("audio meta = %s", meta)
	}
	settings, err := os.ReadFile(filepath.Join(out, "settings", "project.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(settings), `"start-scene":"Main"`) {
		t.Errorf("settings = %s", settings)
	}

	if result.Stats.Documents != 1 || result.Stats.Records != 1 {
		t.Errorf("stats = %+v", result.Stats)
	}
	if result.Report.Orphans != 1 || result.Stats.Plugins != 1 || result.Stats.Failed != 0 {
		t.Errorf("report = %+v, stats = %+v", result.Report, result.Stats)
	}
}

func TestSubpackages(t *testing.T) {
	src := buildFixture(t)
	writeFile(t, filepath.Join(src, "src", "settings.js"), []byte(
		`window._CCSettings={packedAssets:{},uuids:[],subpackages:{level2:{uuids:[],path:"subpackages/level2/"}}};`))
	sub := filepath.Join(src, "subpackages", "level2")
	writeFile(t, filepath.Join(sub, "import", "2b", clickCompact+".json"), []byte(
		`{"__type__":"cc.AudioClip","_name":"click","_native":".mp3"}`))
	writeFile(t, filepath.Join(sub, "raw-assets", "2b", clickUUID+".mp3"), []byte("ID3"))

	r := NewRunner(nil)
	opts := Options{Source: src, Output: t.TempDir(), CreateMeta: true}
	in, err := r.Load(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(in.Files.Documents()); got != 2 {
		t.Fatalf("documents = %d, want 2", got)
	}

	plan := output.NewPlan(output.PlanOptions{CreateMeta: true})
	pending, err := r.Scan(context.Background(), in, resolver.Env{
		Table: in.Settings.Table,
		Files: in.Files,
		Plan:  plan,
	})
	if err != nil {
		t.Fatal(err)
	}
	_, rep := pending.Resolve(context.Background())

	for _, rel := range []string{"assets/Audio/bgm.mp3", "assets/Audio/click.mp3"} {
		found := false
		for _, c := range plan.Copies() {
			found = found || c.Path() == rel
		}
		if !found {
			t.Errorf("missing copy %s", rel)
		}
	}
	w, ok := plan.Lookup("assets/Audio/click.mp3.meta")
	if !ok || !strings.Contains(string(w.Data), clickUUID) {
		t.Errorf("sub-package meta = %s", w.Data)
	}
	if rep.Documents != 2 || rep.MissingNatives != 0 {
		t.Errorf("documents=%d missing=%d", rep.Documents, rep.MissingNatives)
	}
}

func TestExecuteDryRun(t *testing.T) {
	src := buildFixture(t)
	out := filepath.Join(t.TempDir(), "project")

	result, err := NewRunner(nil).Execute(context.Background(), Options{Source: src, Output: out, DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("dry run created %s", out)
	}
	if result.Stats.Copies == 0 || result.Plan == nil {
		t.Errorf("dry run produced no plan: %+v", result.Stats)
	}
}

func TestExecuteFatal(t *testing.T) {
	noSettings := t.TempDir()
	writeFile(t, filepath.Join(noSettings, "res", "x.json"), []byte("{}"))

	noRes := t.TempDir()
	writeFile(t, filepath.Join(noRes, "src", "settings.js"), []byte("window._CCSettings={};"))

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"no source", Options{}, errors.ErrCodeInvalidInput},
		{"missing settings", Options{Source: noSettings, Output: t.TempDir()}, errors.ErrCodeFileNotFound},
		{"missing res", Options{Source: noRes, Output: t.TempDir()}, errors.ErrCodeInvalidPath},
		{"output is source", Options{Source: noRes, Output: noRes}, errors.ErrCodeInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRunner(nil).Execute(context.Background(), tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestExecuteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(nil).Execute(ctx, Options{Source: buildFixture(t), Output: t.TempDir()})
	if !errors.Is(err, errors.ErrCodeCanceled) {
		t.Fatalf("Execute() error = %v, want CANCELED", err)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Source: "build"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Output != DefaultOutput || opts.MaxParallel != DefaultMaxParallel || opts.ImageCacheSize != DefaultImageCacheSize {
		t.Errorf("defaults = %+v", opts)
	}
	if opts.Settings != filepath.Join("build", "src", "settings.js") {
		t.Errorf("Settings = %q", opts.Settings)
	}
	if opts.Logger == nil {
		t.Error("Logger not defaulted")
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Assets.ExtractAudio = false
	cfg.Advanced.MaxParallel = 2

	opts := OptionsFromConfig(cfg)
	if !opts.SkipAudio || opts.SkipTextures || opts.MaxParallel != 2 || !opts.CreateMeta {
		t.Errorf("opts = %+v", opts)
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"dot", false},
		{"svg", false},
		{"png", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestRenderGraphDOT(t *testing.T) {
	var g report.Graph
	g.AddTexture(report.Texture{ID: "t1", File: "assets/Picture/ui.png", Stitched: true})

	data, err := RenderGraph(context.Background(), g, FormatDOT)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "digraph") {
		t.Errorf("dot = %s", data)
	}
	if _, err := RenderGraph(context.Background(), g, "pdf"); err == nil {
		t.Error("expected error for unsupported format")
	}
}
