package plist

import (
	"strings"
	"testing"
)

func TestGeometryStrings(t *testing.T) {
	if got := Point(3, 4.5); got != "{3,4.5}" {
		t.Errorf("Point() = %q", got)
	}
	if got := Rect(1, 2, 30, 40); got != "{{1,2},{30,40}}" {
		t.Errorf("Rect() = %q", got)
	}
	if got := SmartUpdate("a", "b", "c"); got != "$TexturePacker:SmartUpdate:a:b:c$" {
		t.Errorf("SmartUpdate() = %q", got)
	}
}

func TestMarshal(t *testing.T) {
	sheet := Sheet{
		Frames: []Frame{
			{Name: "hero.png", X: 2, Y: 4, W: 30, H: 40, OffsetX: -1, SourceW: 32, SourceH: 42},
			{Name: "coin & gem.png", X: 40, W: 16, H: 16, SourceW: 16, SourceH: 16, Rotated: true},
		},
		TextureFile: "sheet.png",
		Width:       128,
		Height:      64,
		SmartUpdate: SmartUpdate("1", "2", "3"),
	}
	data, err := Marshal(sheet)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	out := string(data)

	wants := []string{
		`<!DOCTYPE plist PUBLIC "-//Apple Computer//DTD PLIST 1.0//EN"`,
		"<key>hero.png</key>",
		"<key>coin &amp; gem.png</key>",
		"<array/>",
		"<string>{-1,0}</string>",
		"<string>{{2,4},{30,40}}</string>",
		"<string>{32,42}</string>",
		"<true/>",
		"<integer>3</integer>",
		"<string>RGBA8888</string>",
		"<key>realTextureFileName</key>\n\t\t<string>sheet.png</string>",
		"<string>{128,64}</string>",
		"<string>$TexturePacker:SmartUpdate:1:2:3$</string>",
	}
	for _, w := range wants {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q", w)
		}
	}
	if strings.Index(out, "hero.png") > strings.Index(out, "coin") {
		t.Error("frames not written in the given order")
	}
	if !strings.HasSuffix(out, "</plist>\n") {
		t.Error("output not terminated by </plist>")
	}
}

func TestMarshalDuplicateFrame(t *testing.T) {
	_, err := Marshal(Sheet{Frames: []Frame{{Name: "a"}, {Name: "a"}}})
	if err == nil {
		t.Error("Marshal() with duplicate frames expected error")
	}
}
