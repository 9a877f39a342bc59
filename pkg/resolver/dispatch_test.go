package resolver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/ccreverse/pkg/fileindex"
	"github.com/matzehuels/ccreverse/pkg/observability"
	"github.com/matzehuels/ccreverse/pkg/settings"
)

func TestDispatch(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		natives map[string]int // file name -> png size (0 for plain data)
		copies  []string
		writes  []string
		metas   map[string]string // meta path -> uuid
		missing int
	}{
		{
			name:    "skeleton native",
			doc:     `{"__type__":"dragonBones.DragonBonesAsset","_name":"hero","_native":".dbbin"}`,
			natives: map[string]int{uuidA + ".dbbin": 0},
			copies:  []string{"assets/Texture/hero/hero.dbbin"},
			metas:   map[string]string{"assets/Texture/hero/hero.dbbin.meta": uuidA},
		},
		{
			name:    "skeleton native missing",
			doc:     `{"__type__":"dragonBones.DragonBonesAsset","_name":"hero","_native":".dbbin"}`,
			metas:   map[string]string{"assets/Texture/hero/hero.dbbin.meta": uuidA},
			missing: 1,
		},
		{
			name:   "skeleton json",
			doc:    `{"__type__":"dragonBones.DragonBonesAsset","_name":"hero","_dragonBonesJson":"{\"frameRate\":24}"}`,
			writes: []string{"assets/Texture/hero/hero.json"},
			metas:  map[string]string{"assets/Texture/hero/hero.json.meta": uuidA},
		},
		{
			name: "skeleton atlas",
			doc: fmt.Sprintf(`{"__type__":"dragonBones.DragonBonesAtlasAsset","_name":"hero_tex",
				"_atlasJson":"{\"name\":\"hero\"}","_texture":{"__uuid__":%q}}`, texSheet),
			natives: map[string]int{texSheet + ".png": 8},
			copies:  []string{"assets/Texture/hero_tex/hero_tex.png"},
			writes:  []string{"assets/Texture/hero_tex/hero_tex.json"},
			metas: map[string]string{
				"assets/Texture/hero_tex/hero_tex.json.meta": uuidA,
				"assets/Texture/hero_tex/hero_tex.png.meta":  texSheet,
			},
		},
		{
			name:    "particle",
			doc:     `{"__type__":"cc.ParticleAsset","_name":"fire","_native":".plist"}`,
			natives: map[string]int{uuidA + ".plist": 0},
			copies:  []string{"assets/Picture/fire.plist"},
			metas:   map[string]string{"assets/Picture/fire.plist.meta": uuidA},
		},
		{
			name:    "particle missing",
			doc:     `{"__type__":"cc.ParticleAsset","_name":"fire","_native":".plist"}`,
			metas:   map[string]string{"assets/Picture/fire.plist.meta": uuidA},
			missing: 1,
		},
		{
			name:    "ttf font",
			doc:     `{"__type__":"cc.TTFFont","_name":"title","_native":"Title.ttf"}`,
			natives: map[string]int{filepath.Join(uuidA, "Title.ttf"): 0},
			copies:  []string{"assets/Fonts/title.ttf"},
			metas:   map[string]string{"assets/Fonts/title.ttf.meta": uuidA},
		},
		{
			name:    "ttf font missing",
			doc:     `{"__type__":"cc.TTFFont","_name":"title","_native":"Title.ttf"}`,
			missing: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, size := range tt.natives {
				path := filepath.Join(dir, name)
				if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
					t.Fatal(err)
				}
				if size > 0 {
					writePNG(t, path, size, size/2)
				} else {
					writeFile(t, path)
				}
			}
			files, err := fileindex.Scan(dir)
			if err != nil {
				t.Fatal(err)
			}

			plan, rep := run(t, testEnv(t, files, nil), mustDoc(t, compactA, tt.doc))

			if len(plan.Copies()) != len(tt.copies) {
				t.Errorf("copies = %v, want %v", plan.Copies(), tt.copies)
			}
			for _, c := range tt.copies {
				if !hasCopy(plan, c) {
					t.Errorf("missing copy %s", c)
				}
			}
			for _, w := range tt.writes {
				if _, ok := plan.Lookup(w); !ok {
					t.Errorf("missing write %s", w)
				}
			}
			for path, uuid := range tt.metas {
				if got := readMeta(t, plan, path)["uuid"]; got != uuid {
					t.Errorf("%s uuid = %v, want %s", path, got, uuid)
				}
			}
			if rep.MissingNatives != tt.missing {
				t.Errorf("MissingNatives = %d, want %d", rep.MissingNatives, tt.missing)
			}
			if rep.Unresolved != 0 || rep.Skipped != 0 {
				t.Errorf("unresolved=%d skipped=%d", rep.Unresolved, rep.Skipped)
			}
		})
	}
}

func TestSkeletonAtlasTexture(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, texSheet+".png"), 8, 4)
	files, err := fileindex.Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	doc := mustDoc(t, compactA, fmt.Sprintf(`{"__type__":"dragonBones.DragonBonesAtlasAsset","_name":"hero_tex",
		"_atlasJson":"{\"name\":\"hero\"}","_texture":{"__uuid__":%q}}`, texSheet))
	plan, rep := run(t, testEnv(t, files, nil), doc)

	m := readMeta(t, plan, "assets/Texture/hero_tex/hero_tex.png.meta")
	if m["width"] != 8.0 || m["height"] != 4.0 {
		t.Errorf("texture size = %vx%v", m["width"], m["height"])
	}
	subs, _ := m["subMetas"].(map[string]any)
	sub, _ := subs["hero_tex"].(map[string]any)
	if len(subs) != 1 || sub["uuid"] != "d0000000-0000-4000-8000-000000000001" || sub["rawTextureUuid"] != texSheet {
		t.Errorf("subMetas = %v", subs)
	}
	// The claimed texture is not recovered a second time as an orphan.
	if rep.Pictures != 1 || rep.Orphans != 0 || files.Len() != 0 {
		t.Errorf("pictures=%d orphans=%d left=%v", rep.Pictures, rep.Orphans, files.Keys())
	}
}

func TestDuplicateNames(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, uuidA+".mp3"))
	writeFile(t, filepath.Join(dir, uuidB+".mp3"))
	files, err := fileindex.Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	table := &settings.Table{
		Packed: map[string][]settings.Entry{
			"0123abcd": {
				settings.LiteralEntry(compactA),
				settings.LiteralEntry(compactB),
				settings.LiteralEntry(atlasID),
				settings.LiteralEntry(fontID),
			},
		},
	}
	doc := mustDoc(t, "0123abcd", `[
		{"__type__":"cc.AudioClip","_name":"click","_native":".mp3"},
		{"__type__":"cc.AudioClip","_name":"click","_native":".mp3"},
		[{"__type__":"cc.Prefab","_name":"P"},{"__type__":"cc.Node","_name":"P"}],
		[{"__type__":"cc.Prefab","_name":"P"},{"__type__":"cc.Node","_name":"P"}]
	]`)
	plan, rep := run(t, testEnv(t, files, table), doc)

	tests := []struct {
		meta string
		uuid string
	}{
		{"assets/Audio/click.mp3.meta", uuidA},
		{"assets/Audio/click_0.mp3.meta", uuidB},
		{"assets/Prefab/P.prefab.meta", atlasID},
		{"assets/Prefab/P_0.prefab.meta", fontID},
	}
	for _, tt := range tests {
		if got := readMeta(t, plan, tt.meta)["uuid"]; got != tt.uuid {
			t.Errorf("%s uuid = %v, want %s", tt.meta, got, tt.uuid)
		}
	}
	for _, c := range []string{"assets/Audio/click.mp3", "assets/Audio/click_0.mp3"} {
		if !hasCopy(plan, c) {
			t.Errorf("missing copy %s", c)
		}
	}
	if rep.MissingNatives != 0 || rep.Unresolved != 0 || files.Len() != 0 {
		t.Errorf("missing=%d unresolved=%d left=%v", rep.MissingNatives, rep.Unresolved, files.Keys())
	}
}

func TestMissingTexture(t *testing.T) {
	hooks := &skipRecorder{}
	observability.SetRecordHooks(hooks)
	defer observability.Reset()

	plan, rep := run(t, testEnv(t, fileindex.New(), nil), frameDoc(t, frameHero, "hero", texHero, 0))
	if len(plan.Copies()) != 0 || rep.Pictures != 0 {
		t.Errorf("copies=%v pictures=%d", plan.Copies(), rep.Pictures)
	}
	if rep.MissingNatives != 1 {
		t.Errorf("MissingNatives = %d", rep.MissingNatives)
	}
	if len(hooks.skips) != 1 {
		t.Errorf("skips = %v", hooks.skips)
	}
}

func TestSheetAtlasFromFrames(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, texSheet+".png"), 8, 4)
	files, err := fileindex.Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	frame := `{"__type__":"cc.SpriteFrame","content":{"name":%q,"texture":%q,"atlas":%q,
		"rect":[%d,0,4,4],"offset":[0,0],"originalSize":[4,4],"rotated":0}}`
	docs := []struct{ id, src string }{
		{frameA, fmt.Sprintf(frame, "a", texSheet, atlasID, 0)},
		{frameB, fmt.Sprintf(frame, "b", texSheet, atlasID, 4)},
	}
	s := NewScanner(testEnv(t, files, nil))
	for _, d := range docs {
		if err := s.Scan(context.Background(), mustDoc(t, d.id, d.src)); err != nil {
			t.Fatal(err)
		}
	}
	plan, rep := s.Finish().Resolve(context.Background())

	if rep.Sheets != 1 {
		t.Fatalf("Sheets = %d", rep.Sheets)
	}
	// Without an atlas record the sheet is named after its texture but keeps
	// the atlas identifier its frames carry.
	pm := readMeta(t, plan, "assets/Picture/"+texSheet+".plist.meta")
	if pm["uuid"] != atlasID {
		t.Errorf("plist uuid = %v, want %s", pm["uuid"], atlasID)
	}
}
