package report

import (
	"strings"
	"testing"
)

func sampleGraph() *Graph {
	g := &Graph{}
	g.AddTexture(Texture{
		ID:       "tex-1",
		File:     "assets/Picture/ui.png",
		Atlas:    "ui",
		Stitched: true,
		Frames:   []Frame{{ID: "f-1", Name: "button"}, {ID: "f-2", Name: "panel"}},
	})
	g.AddTexture(Texture{ID: "tex-0", File: "assets/Picture/bg.png", Orphan: true})
	g.AddFont(Font{ID: "font-1", Name: "score", Frame: "f-1"})
	return g
}

func TestToDOT(t *testing.T) {
	dot := sampleGraph().ToDOT()

	wants := []string{
		"digraph textures {",
		`"tex-1" -> "f-1";`,
		`"tex-1" -> "f-2";`,
		`"f-1" -> "font-1" [style=dashed];`,
		"fillcolor=lightblue",
		"style=dashed",
		`label="assets/Picture/ui.png\natlas: ui"`,
	}
	for _, w := range wants {
		if !strings.Contains(dot, w) {
			t.Errorf("DOT missing %q\n%s", w, dot)
		}
	}
	if strings.Index(dot, `"tex-0"`) > strings.Index(dot, `"tex-1"`) {
		t.Error("textures not sorted by file")
	}
}

func TestToDOTEmpty(t *testing.T) {
	dot := (&Graph{}).ToDOT()
	if !strings.HasPrefix(dot, "digraph textures {") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("empty DOT = %q", dot)
	}
}
