// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package qr encodes and decodes QR codes and two level QR codes.

A two level code carries a private payload, readable only with a key,
in glyphs drawn inside the black modules of an ordinary QR code.  See
package dual.
*/
package qr // import "github.com/unixdj/dualqr"

import (
	"errors"
	"image"
	"image/color"

	"github.com/unixdj/dualqr/coding"
	"github.com/unixdj/dualqr/dual"
	"github.com/unixdj/dualqr/scan"
)

// A Level denotes a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota // 20% redundant
	M              // 38% redundant
	Q              // 55% redundant
	H              // 65% redundant
)

func (l Level) String() string { return coding.Level(l).String() }

// Default rendering parameters.
const (
	DefaultScale   = 8  // image pixels per module
	DefaultScale2L = 10 // image pixels per module of a two level code
	DefaultBorder  = 4  // quiet zone width in modules
)

var ErrArgs = errors.New("qr: invalid arguments")

// A Code is a square grid of modules.
type Code struct {
	Bitmap   []byte          // 1 is black, 0 is white
	Size     int             // number of modules on a side
	Stride   int             // number of bytes per row
	Patterns dual.PatternMap // private symbols, nil for a plain code

	Version coding.Version
	Level   Level
	Mask    coding.Mask

	Scale   int              // number of image pixels per module, at least scan.Sub with Patterns
	Border  int              // quiet zone width in modules
	Reverse bool             // swap colours
	Palette *[2]color.Color // background and foreground, nil for white and black
}

// newCode packs the modules of b.
func newCode(b *coding.Bitmap, p dual.PatternMap, v coding.Version, l coding.Level, m coding.Mask) *Code {
	siz := b.Width()
	stride := (siz + 7) / 8
	c := &Code{
		Bitmap:   make([]byte, stride*siz),
		Size:     siz,
		Stride:   stride,
		Patterns: p,
		Version:  v,
		Level:    Level(l),
		Mask:     m,
		Scale:    DefaultScale,
		Border:   DefaultBorder,
	}
	for y := 0; y < siz; y++ {
		row := c.Bitmap[y*stride:]
		for x := 0; x < siz; x++ {
			if b.Black(x, y) {
				row[x/8] |= 0x80 >> uint(x&7)
			}
		}
	}
	if p != nil && p.Count() != 0 {
		c.Scale = DefaultScale2L
	} else {
		c.Patterns = nil
	}
	return c
}

// Black returns true if the module at (x,y) is black.
func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Size && 0 <= y && y < c.Size &&
		c.Bitmap[y*c.Stride+x/8]&(1<<uint(7-x&7)) != 0
}

// Pattern returns the private symbol of the module at (x,y), if any.
func (c *Code) Pattern(x, y int) (int, bool) { return c.Patterns.At(x, y) }

// Modules returns the modules of c as a coding.Bitmap.
func (c *Code) Modules() *coding.Bitmap {
	b := coding.NewBitmap(c.Size, c.Size)
	for y := 0; y < c.Size; y++ {
		for x := 0; x < c.Size; x++ {
			b.Set(x, y, c.Black(x, y))
		}
	}
	return b
}

func (c *Code) isValid() bool {
	return c.Size > 0 && c.Stride >= (c.Size+7)/8 &&
		len(c.Bitmap) >= c.Stride*c.Size &&
		c.Scale > 0 && c.Border >= 0 && c.Scale*(c.Size+2*c.Border) <= 1<<16 &&
		(c.Patterns == nil || c.Scale >= scan.Sub)
}

// pixels returns the width of the image in pixels.
func (c *Code) pixels() int { return (c.Size + 2*c.Border) * c.Scale }

// blackPixel reports whether the image pixel at (px,py) is black,
// disregarding c.Reverse.  Modules with a private symbol are drawn
// with its glyph, each sub-cell covering the pixel scan.Image samples
// for it.
func (c *Code) blackPixel(px, py int) bool {
	x, y := px/c.Scale-c.Border, py/c.Scale-c.Border
	if px < 0 || py < 0 || !c.Black(x, y) {
		return false
	}
	s, ok := c.Patterns.At(x, y)
	if !ok {
		return true
	}
	i := scan.SubCell(py%c.Scale, c.Scale)*scan.Sub + scan.SubCell(px%c.Scale, c.Scale)
	return dual.GlyphOf(s)[i]
}

// palette returns the background and foreground colours.
func (c *Code) palette() color.Palette {
	p := color.Palette{color.Gray{0xff}, color.Gray{0x00}}
	if c.Palette != nil {
		p[0], p[1] = c.Palette[0], c.Palette[1]
	}
	if c.Reverse {
		p[0], p[1] = p[1], p[0]
	}
	return p
}

// Image returns an image displaying the code, with colour index 1
// for black modules.
func (c *Code) Image() *image.Paletted {
	d := c.pixels()
	img := image.NewPaletted(image.Rect(0, 0, d, d), c.palette())
	for py := 0; py < d; py++ {
		row := img.Pix[py*img.Stride:]
		for px := 0; px < d; px++ {
			if c.blackPixel(px, py) {
				row[px] = 1
			}
		}
	}
	return img
}

func encode(s *coding.Symbol) *Code {
	return newCode(s.Bitmap, nil, s.Version, s.Level, s.Mask)
}

// Encode returns an encoding of text at the given error correction
// level, split into segments of the most compact modes.
func Encode(text string, level Level) (*Code, error) {
	opt := coding.DefaultOptions
	opt.Level = coding.Level(level)
	opt.Optimize = true
	return EncodeOpts(text, opt)
}

// EncodeOpts returns an encoding of text with the given options.
func EncodeOpts(text string, opt coding.Options) (*Code, error) {
	s, err := coding.EncodeText(text, opt)
	if err != nil {
		return nil, err
	}
	return encode(s), nil
}

// Encode2L returns a two level code with public text and a private
// payload scrambled with key.  The private fields of opt are ignored.
func Encode2L(public string, private, key []byte, opt dual.Options) (*Code, error) {
	opt.Private = private
	if opt.Private == nil {
		opt.Private = []byte{}
	}
	opt.Key = key
	dc, err := dual.Encode(public, opt)
	if err != nil {
		return nil, err
	}
	return newCode(dc.Bitmap, dc.Patterns, dc.Version, dc.Level, dc.Mask), nil
}

// Decode decodes the public content of the QR code in img.  The code
// must be upright and unrotated, such as those produced by Image.
func Decode(img image.Image) (*coding.Result, error) {
	g, err := scan.Image(img)
	if err != nil {
		return nil, err
	}
	return coding.Decode(g.Modules)
}

// Decode2L decodes both channels of the two level code in img.
func Decode2L(img image.Image, key []byte, eccWords int) (*dual.Result, error) {
	return dual.Decode(img, dual.DecodeOptions{Key: key, ECCWords: eccWords})
}
