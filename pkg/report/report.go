// Package report describes what a reconstruction produced and renders the
// texture graph: which sprite frames were cut from which texture, which
// textures were stitched into sprite sheets and which fonts draw from them.
package report

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-graphviz"
)

// Frame is a sprite frame cut from a texture.
type Frame struct {
	ID   string
	Name string
}

// Texture is one emitted image.
type Texture struct {
	ID       string
	File     string // output path relative to the project root
	Atlas    string // sprite atlas name, when the texture backs one
	Stitched bool   // written as a sprite sheet with a plist
	Orphan   bool   // no sprite frame referenced it
	Frames   []Frame
}

// Font is a bitmap font and the frame it draws from.
type Font struct {
	ID    string
	Name  string
	Frame string
}

// Graph is the texture graph of a run.
type Graph struct {
	Textures []Texture
	Fonts    []Font
}

// AddTexture appends t to the graph.
func (g *Graph) AddTexture(t Texture) { g.Textures = append(g.Textures, t) }

// AddFont appends f to the graph.
func (g *Graph) AddFont(f Font) { g.Fonts = append(g.Fonts, f) }

// ToDOT converts the graph to Graphviz DOT format. Textures are boxes,
// frames ellipses and fonts notes; edges point from a texture to its frames
// and from a frame to the fonts drawn from it.
func (g *Graph) ToDOT() string {
	var buf bytes.Buffer
	buf.WriteString("digraph textures {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=12];\n")
	buf.WriteString("\n")

	textures := append([]Texture(nil), g.Textures...)
	sort.Slice(textures, func(i, j int) bool { return textures[i].File < textures[j].File })
	for _, t := range textures {
		fmt.Fprintf(&buf, "  %q [%s];\n", t.ID, strings.Join(textureAttrs(t), ", "))
		for _, f := range t.Frames {
			fmt.Fprintf(&buf, "  %q [shape=ellipse, label=%q];\n", f.ID, f.Name)
			fmt.Fprintf(&buf, "  %q -> %q;\n", t.ID, f.ID)
		}
	}

	for _, f := range g.Fonts {
		fmt.Fprintf(&buf, "  %q [shape=note, label=%q];\n", f.ID, f.Name)
		if f.Frame != "" {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", f.Frame, f.ID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func textureAttrs(t Texture) []string {
	label := t.File
	if t.Atlas != "" {
		label += "\natlas: " + t.Atlas
	}
	attrs := []string{"shape=box", fmt.Sprintf("label=%q", label)}
	switch {
	case t.Stitched:
		attrs = append(attrs, "style=filled", "fillcolor=lightblue")
	case t.Orphan:
		attrs = append(attrs, "style=dashed")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
