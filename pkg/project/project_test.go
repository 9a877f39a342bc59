package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/ccreverse/pkg/output"
	"github.com/matzehuels/ccreverse/pkg/settings"
)

func TestStartScene(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"db://assets/Scene/Main.fire", "Main"},
		{"db://assets/Scene/level.1.fire", "level"},
		{`db:\\assets\Scene\Menu.fire`, "Menu"},
		{"", "current"},
	}
	for _, tt := range tests {
		if got := StartScene(tt.in); got != tt.want {
			t.Errorf("StartScene(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewSettingsDefaults(t *testing.T) {
	got := NewSettings(&settings.Settings{})
	if len(got.GroupList) != 1 || got.GroupList[0] != "default" {
		t.Errorf("GroupList = %v", got.GroupList)
	}
	if len(got.CollisionMatrix) != 1 || !got.CollisionMatrix[0][0] {
		t.Errorf("CollisionMatrix = %v", got.CollisionMatrix)
	}
	if got.StartScene != "current" || !got.FitHeight || got.DesignResolutionWidth != 960 {
		t.Errorf("settings = %+v", got)
	}
}

func TestWrite(t *testing.T) {
	src := t.TempDir()
	if err := os.MkdirAll(filepath.Join(src, "src", "libs"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "src", "libs", "sdk.min.js"), []byte("//"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := &settings.Settings{
		LaunchScene:     "db://assets/Scene/Game.fire",
		GroupList:       []string{"default", "enemy"},
		CollisionMatrix: [][]bool{{true}, {false, true}},
		JSList:          []string{"libs/sdk.min.js", "libs/missing.js"},
	}
	plan := output.NewPlan(output.PlanOptions{CreateMeta: true})
	sum, err := Write(plan, s, Options{SourceDir: src, NewID: func() string { return "id" }})
	if err != nil {
		t.Fatal(err)
	}
	if sum.Files != 4 || sum.Plugins != 1 || sum.MissingPlugins != 1 {
		t.Errorf("summary = %+v", sum)
	}

	w, ok := plan.Lookup("settings/project.json")
	if !ok {
		t.Fatal("settings/project.json not written")
	}
	var ps map[string]any
	if err := json.Unmarshal(w.Data, &ps); err != nil {
		t.Fatal(err)
	}
	if ps["start-scene"] != "Game" {
		t.Errorf("start-scene = %v", ps["start-scene"])
	}
	if groups, _ := ps["group-list"].([]any); len(groups) != 2 {
		t.Errorf("group-list = %v", ps["group-list"])
	}

	for _, rel := range []string{"project.json", "jsconfig.json", "tsconfig.json", PluginDir + "/sdk.js.meta"} {
		if _, ok := plan.Lookup(rel); !ok {
			t.Errorf("%s not written", rel)
		}
	}
	copies := plan.Copies()
	if len(copies) != 1 || copies[0].Path() != PluginDir+"/sdk.js" {
		t.Errorf("copies = %v", copies)
	}

	mw, _ := plan.Lookup(PluginDir + "/sdk.js.meta")
	var pm map[string]any
	if err := json.Unmarshal(mw.Data, &pm); err != nil {
		t.Fatal(err)
	}
	if pm["isPlugin"] != true || pm["loadPluginInEditor"] != false || pm["ver"] != "1.0.8" {
		t.Errorf("plugin meta = %v", pm)
	}
}
