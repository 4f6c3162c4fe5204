// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package scan samples QR code modules from upright, unrotated images,
such as those rendered by package qr.

Each module is sampled at the centres of a 5x5 grid of sub-cells.  The
module colour is the majority of the samples; the samples themselves
carry the glyphs of the private channel.
*/
package scan // import "github.com/unixdj/dualqr/scan"

import (
	"image"
	"image/color"
	"math"

	"github.com/unixdj/dualqr/coding"
)

// Sub is the number of sub-cells on a module side.
const Sub = 5

// Samples is the number of samples per module.
const Samples = Sub * Sub

// threshold separates black from white luminance.
const threshold = 0x80

// A Grid holds the sampled modules of a code.
type Grid struct {
	Size    int            // modules on a side
	Modules *coding.Bitmap // module colours
	Cells   [][Samples]bool // sub-cell samples, row-major, black is true
}

// At returns the samples of the module at (x, y), row-major.
func (g *Grid) At(x, y int) *[Samples]bool { return &g.Cells[y*g.Size+x] }

// FromBitmap returns the Grid of a bitmap with every module solid.
func FromBitmap(b *coding.Bitmap) *Grid {
	n := b.Width()
	g := &Grid{Size: n, Modules: b, Cells: make([][Samples]bool, n*n)}
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if b.Black(x, y) {
				c := g.At(x, y)
				for i := range c {
					c[i] = true
				}
			}
		}
	}
	return g
}

// bilevel is a thresholded image.
type bilevel struct {
	r     image.Rectangle
	black []bool
}

func binarize(img image.Image) *bilevel {
	r := img.Bounds()
	b := &bilevel{r: r, black: make([]bool, r.Dx()*r.Dy())}
	i := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			b.black[i] = g.Y < threshold
			i++
		}
	}
	return b
}

// Black reports whether the pixel at (x, y), relative to the image
// origin, is black.
func (b *bilevel) Black(x, y int) bool {
	if x < 0 || y < 0 || x >= b.r.Dx() || y >= b.r.Dy() {
		return false
	}
	return b.black[y*b.r.Dx()+x]
}

// bounds returns the bounding box of the black pixels.
func (b *bilevel) bounds() (image.Rectangle, bool) {
	w, h := b.r.Dx(), b.r.Dy()
	box := image.Rectangle{Min: image.Pt(w, h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if b.Black(x, y) {
				box.Min.X = min(box.Min.X, x)
				box.Min.Y = min(box.Min.Y, y)
				box.Max.X = max(box.Max.X, x+1)
				box.Max.Y = max(box.Max.Y, y+1)
			}
		}
	}
	return box, box.Min.X < box.Max.X
}

// SubCell returns the sub-cell row or column holding pixel offset o
// of an m pixel module, so that drawing sub-cell j over its pixels
// puts it under the sample Image takes for sub-cell j.  It needs
// m >= Sub for the sub-cells to be distinct.
func SubCell(o, m int) int {
	j := 0
	for j+1 < Sub && samplePos(j+1, m) <= o {
		j++
	}
	return j
}

// samplePos returns the offset of the sample of sub-cell j within an
// m pixel module.
func samplePos(j, m int) int { return (2*j + 1) * m / (2 * Sub) }

// Image samples the code in img.  The code must be upright, unrotated
// and the only dark thing in the image.
func Image(img image.Image) (*Grid, error) {
	b := binarize(img)
	box, ok := b.bounds()
	if !ok {
		return nil, &coding.DecodeError{What: "no code in image"}
	}
	// The top row of the top left finder is 7 black modules.
	run := 0
	for x := box.Min.X; x < box.Max.X && b.Black(x, box.Min.Y); x++ {
		run++
	}
	module := float64(run) / 7
	size := int(math.Round(float64(box.Dx()) / module))
	if coding.VersionOf(size) == 0 || !b.Black(box.Min.X, box.Max.Y-1) {
		return nil, &coding.DecodeError{What: "code size",
			Err: &coding.ValidationError{What: "size", Value: size}}
	}
	mw := float64(box.Dx()) / float64(size)
	mh := float64(box.Dy()) / float64(size)

	g := &Grid{
		Size:    size,
		Modules: coding.NewBitmap(size, size),
		Cells:   make([][Samples]bool, size*size),
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			x0 := float64(box.Min.X) + float64(x)*mw
			y0 := float64(box.Min.Y) + float64(y)*mh
			c := g.At(x, y)
			n := 0
			for i := 0; i < Sub; i++ {
				py := int(y0 + float64(2*i+1)*mh/(2*Sub))
				for j := 0; j < Sub; j++ {
					px := int(x0 + float64(2*j+1)*mw/(2*Sub))
					if c[i*Sub+j] = b.Black(px, py); c[i*Sub+j] {
						n++
					}
				}
			}
			g.Modules.Set(x, y, n > Samples/2)
		}
	}
	return g, nil
}
