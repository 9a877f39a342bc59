// Package fnt writes bitmap font descriptors in the AngelCode BMFont text
// format read by the editor's bitmap font importer.
package fnt

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Default sheet size used when the glyph texture size is unknown.
const (
	DefaultScaleW = 512
	DefaultScaleH = 256
)

// Glyph is one character cell of the font texture.
type Glyph struct {
	ID       int
	X, Y     int
	Width    int
	Height   int
	XOffset  int
	YOffset  int
	XAdvance int
}

// Font is a single-page bitmap font.
type Font struct {
	Face       string
	Size       int
	LineHeight int
	Base       int
	ScaleW     int
	ScaleH     int
	File       string // page texture file name
	Glyphs     []Glyph
}

// Encode writes f to w. Glyphs are written sorted by id.
func Encode(w io.Writer, f Font) error {
	scaleW, scaleH := f.ScaleW, f.ScaleH
	if scaleW <= 0 || scaleH <= 0 {
		scaleW, scaleH = DefaultScaleW, DefaultScaleH
	}
	glyphs := make([]Glyph, len(f.Glyphs))
	copy(glyphs, f.Glyphs)
	sort.Slice(glyphs, func(i, j int) bool { return glyphs[i].ID < glyphs[j].ID })

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "info face=%s size=%d bold=0 italic=0 charset=\"\" unicode=1 stretchH=100 smooth=1 aa=1 padding=0,0,0,0 spacing=1,1 outline=0\n",
		quote(f.Face), f.Size)
	fmt.Fprintf(bw, "common lineHeight=%d base=%d scaleW=%d scaleH=%d pages=1 packed=0 alphaChnl=0 redChnl=0 greenChnl=0 blueChnl=0\n",
		f.LineHeight, f.Base, scaleW, scaleH)
	fmt.Fprintf(bw, "page id=0 file=%s\n", quote(f.File))
	fmt.Fprintf(bw, "chars count=%d\n", len(glyphs))
	for _, g := range glyphs {
		fmt.Fprintf(bw, "char id=%-5d x=%-5d y=%-5d width=%-5d height=%-5d xoffset=%-5d yoffset=%-5d xadvance=%-5d page=0  chnl=15\n",
			g.ID, g.X, g.Y, g.Width, g.Height, g.XOffset, g.YOffset, g.XAdvance)
	}
	return bw.Flush()
}

// Marshal renders f as text.
func Marshal(f Font) ([]byte, error) {
	var b strings.Builder
	if err := Encode(&b, f); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

func quote(s string) string {
	return strconv.Quote(strings.ReplaceAll(s, `"`, `'`))
}
