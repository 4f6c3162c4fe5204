// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scan

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/unixdj/dualqr/coding"
)

// render draws b with scale pixels per module and a border of border
// modules.  If cells is not nil, black modules are drawn from it at
// sub-cell resolution; scale must then be at least Sub.
func render(b *coding.Bitmap, scale, border int, cells func(x, y int) *[Samples]bool) *image.Gray {
	n := b.Width()
	d := (n + 2*border) * scale
	img := image.NewGray(image.Rect(0, 0, d, d))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if !b.Black(x, y) {
				continue
			}
			var c *[Samples]bool
			if cells != nil {
				c = cells(x, y)
			}
			for py := 0; py < scale; py++ {
				for px := 0; px < scale; px++ {
					if c != nil && !c[SubCell(py, scale)*Sub+SubCell(px, scale)] {
						continue
					}
					img.SetGray((border+x)*scale+px, (border+y)*scale+py, color.Gray{})
				}
			}
		}
	}
	return img
}

func testCode(t *testing.T, text string) *coding.Bitmap {
	t.Helper()
	s, err := coding.EncodeText(text, coding.Options{Level: coding.M, Mask: coding.AutoMask})
	if err != nil {
		t.Fatal(err)
	}
	return s.Bitmap
}

func TestImage(t *testing.T) {
	b := testCode(t, "https://example.com/scan")
	for _, tt := range []struct{ scale, border int }{
		{1, 0}, {3, 4}, {8, 2}, {10, 1},
	} {
		g, err := Image(render(b, tt.scale, tt.border, nil))
		if err != nil {
			t.Errorf("scale %d border %d: %v", tt.scale, tt.border, err)
			continue
		}
		if g.Size != b.Width() || g.Modules.String() != b.String() {
			t.Errorf("scale %d border %d: modules differ", tt.scale, tt.border)
		}
		r, err := coding.Decode(g.Modules)
		if err != nil || r.Text != "https://example.com/scan" {
			t.Errorf("scale %d border %d: decoded %v, %v", tt.scale, tt.border, r, err)
		}
	}
}

func TestImageCells(t *testing.T) {
	b := testCode(t, "cells")
	// A ring: the border sub-cells black, the centre white.
	var ring [Samples]bool
	for i := range ring {
		ring[i] = i/Sub == 0 || i/Sub == Sub-1 || i%Sub == 0 || i%Sub == Sub-1
	}
	const mx, my = 10, 12
	if !b.Black(mx, my) {
		b = b.Clone()
		b.Set(mx, my, true)
	}
	cells := func(x, y int) *[Samples]bool {
		if x == mx && y == my {
			return &ring
		}
		return nil
	}
	g, err := Image(render(b, 10, 2, cells))
	if err != nil {
		t.Fatal(err)
	}
	if got := g.At(mx, my); *got != ring {
		t.Errorf("samples %v, want %v", *got, ring)
	}
	if !g.Modules.Black(mx, my) {
		t.Error("ring module sampled white")
	}
	want := FromBitmap(b)
	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			if (x != mx || y != my) && *g.At(x, y) != *want.At(x, y) {
				t.Errorf("module (%d, %d) samples differ", x, y)
			}
		}
	}
}

func TestSubCell(t *testing.T) {
	for m := Sub; m <= 40; m++ {
		prev := 0
		for o := 0; o < m; o++ {
			j := SubCell(o, m)
			if j < prev || j > prev+1 || j >= Sub {
				t.Errorf("SubCell(%d, %d) = %d after %d", o, m, j, prev)
			}
			prev = j
		}
		for j := 0; j < Sub; j++ {
			if got := SubCell(samplePos(j, m), m); got != j {
				t.Errorf("m=%d: sample of sub-cell %d falls in %d", m, j, got)
			}
		}
	}
}

func TestBounds(t *testing.T) {
	b := testCode(t, "bounds")
	n := b.Width()
	for _, tt := range []struct{ scale, border int }{
		{1, 0}, {1, 4}, {5, 3}, {8, 4},
	} {
		box, ok := binarize(render(b, tt.scale, tt.border, nil)).bounds()
		want := image.Rect(0, 0, n*tt.scale, n*tt.scale).Add(image.Pt(tt.border*tt.scale, tt.border*tt.scale))
		if !ok || box != want {
			t.Errorf("scale %d border %d: bounds %v, %v, want %v", tt.scale, tt.border, box, ok, want)
		}
	}
}

func TestImageCellsScales(t *testing.T) {
	b := testCode(t, "scales")
	var cross [Samples]bool
	for i := range cross {
		cross[i] = i/Sub == Sub/2 || i%Sub == Sub/2
	}
	const mx, my = 9, 11
	if !b.Black(mx, my) {
		b = b.Clone()
		b.Set(mx, my, true)
	}
	cells := func(x, y int) *[Samples]bool {
		if x == mx && y == my {
			return &cross
		}
		return nil
	}
	for scale := Sub; scale <= 16; scale++ {
		g, err := Image(render(b, scale, 4, cells))
		if err != nil {
			t.Errorf("scale %d: %v", scale, err)
			continue
		}
		if got := g.At(mx, my); *got != cross {
			t.Errorf("scale %d: samples %v, want %v", scale, *got, cross)
		}
	}
}

func TestImageErrors(t *testing.T) {
	var de *coding.DecodeError
	blank := image.NewGray(image.Rect(0, 0, 50, 50))
	for i := range blank.Pix {
		blank.Pix[i] = 0xff
	}
	if _, err := Image(blank); !errors.As(err, &de) {
		t.Errorf("blank image: %v", err)
	}
	// A lone black square is not a code.
	blank.SetGray(10, 10, color.Gray{})
	if _, err := Image(blank); !errors.As(err, &de) {
		t.Errorf("single pixel: %v", err)
	}
}
