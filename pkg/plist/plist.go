// Package plist writes TexturePacker sprite sheet descriptors.
//
// The output is an Apple XML property list in TexturePacker's "cocos2d"
// format 3: a frames dictionary keyed by frame name followed by a metadata
// block naming the sheet texture. Geometry is encoded as brace strings,
// {w,h} for sizes and {{x,y},{w,h}} for rectangles.
package plist

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
)

const header = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple Computer//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
`

// Frame is one sub-image of a sheet.
type Frame struct {
	Name    string
	X, Y    float64 // top-left corner inside the sheet
	W, H    float64 // trimmed size inside the sheet
	OffsetX float64
	OffsetY float64
	SourceW float64 // untrimmed size
	SourceH float64
	Rotated bool
}

// Sheet describes a whole sprite sheet.
type Sheet struct {
	Frames      []Frame
	TextureFile string
	Width       int
	Height      int
	SmartUpdate string
}

// Marshal renders s as a property list.
func Marshal(s Sheet) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes s as a property list to w. Frames are written in the order
// given.
func Encode(w io.Writer, s Sheet) error {
	e := &encoder{w: bufio.NewWriter(w)}
	e.raw(header)
	e.open(0, "dict")

	e.key(1, "frames")
	e.open(1, "dict")
	seen := make(map[string]bool, len(s.Frames))
	for _, f := range s.Frames {
		if seen[f.Name] {
			return fmt.Errorf("duplicate frame name %q", f.Name)
		}
		seen[f.Name] = true
		e.key(2, f.Name)
		e.open(2, "dict")
		e.key(3, "aliases")
		e.line(3, "<array/>")
		e.key(3, "spriteOffset")
		e.str(3, Point(f.OffsetX, f.OffsetY))
		e.key(3, "spriteSize")
		e.str(3, Point(f.W, f.H))
		e.key(3, "spriteSourceSize")
		e.str(3, Point(f.SourceW, f.SourceH))
		e.key(3, "textureRect")
		e.str(3, Rect(f.X, f.Y, f.W, f.H))
		e.key(3, "textureRotated")
		e.boolean(3, f.Rotated)
		e.close(2, "dict")
	}
	e.close(1, "dict")

	e.key(1, "metadata")
	e.open(1, "dict")
	e.key(2, "format")
	e.line(2, "<integer>3</integer>")
	e.key(2, "pixelFormat")
	e.str(2, "RGBA8888")
	e.key(2, "premultiplyAlpha")
	e.boolean(2, false)
	e.key(2, "realTextureFileName")
	e.str(2, s.TextureFile)
	e.key(2, "size")
	e.str(2, Point(float64(s.Width), float64(s.Height)))
	e.key(2, "smartupdate")
	e.str(2, s.SmartUpdate)
	e.key(2, "textureFileName")
	e.str(2, s.TextureFile)
	e.close(1, "dict")

	e.close(0, "dict")
	e.raw("</plist>\n")
	if e.err != nil {
		return e.err
	}
	return e.w.Flush()
}

// SmartUpdate formats the TexturePacker smart update marker from three hash
// tokens.
func SmartUpdate(a, b, c string) string {
	return "$TexturePacker:SmartUpdate:" + a + ":" + b + ":" + c + "$"
}

// Point formats a pair as {a,b}.
func Point(a, b float64) string {
	return "{" + num(a) + "," + num(b) + "}"
}

// Rect formats a rectangle as {{x,y},{w,h}}.
func Rect(x, y, w, h float64) string {
	return "{" + Point(x, y) + "," + Point(w, h) + "}"
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type encoder struct {
	w   *bufio.Writer
	err error
}

func (e *encoder) raw(s string) {
	if e.err == nil {
		_, e.err = e.w.WriteString(s)
	}
}

func (e *encoder) line(depth int, s string) {
	for range depth {
		e.raw("\t")
	}
	e.raw(s)
	e.raw("\n")
}

func (e *encoder) open(depth int, tag string)  { e.line(depth, "<"+tag+">") }
func (e *encoder) close(depth int, tag string) { e.line(depth, "</"+tag+">") }

func (e *encoder) key(depth int, k string) { e.line(depth, "<key>"+escape(k)+"</key>") }
func (e *encoder) str(depth int, s string) { e.line(depth, "<string>"+escape(s)+"</string>") }

func (e *encoder) boolean(depth int, b bool) {
	if b {
		e.line(depth, "<true/>")
		return
	}
	e.line(depth, "<false/>")
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
