// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"image"
	"sync"
)

// A Plan describes the module layout of a QR code of a specific
// version.
type Plan struct {
	Version Version // QR code version
	Size    int     // number of modules on a side

	// Template has every function module drawn, with format and
	// version information and the dark module white.
	Template *Bitmap

	// Data lists the remaining modules in zig-zag placement order.
	Data []image.Point
}

// Pre-allocated Plans.  A Plan is created the first time a version is
// used and shared read-only afterwards.
var plans [MaxVersion + 1]struct {
	once sync.Once
	p    *Plan
}

// NewPlan returns the Plan for version v.
func NewPlan(v Version) (*Plan, error) {
	if !v.Valid() {
		return nil, &ValidationError{What: "version", Value: int(v)}
	}
	return plan(v), nil
}

// plan returns plans[v], creating it if needed.
func plan(v Version) *Plan {
	p := &plans[v]
	p.once.Do(func() {
		tpl := drawFunction(v)
		drawInfo(tpl, v, L, 0, true)
		p.p = &Plan{
			Version:  v,
			Size:     v.Size(),
			Template: tpl,
			Data:     zigzag(tpl),
		}
	})
	return p.p
}

// finder returns the 9x9 finder pattern with its white separator.
func finder() *Bitmap {
	b := NewBitmap(3, 3)
	b.Fill(0, 0, 3, 3, Black)
	return b.Border(1, White).Border(1, Black).Border(1, White)
}

// alignment returns the 5x5 alignment pattern.
func alignment() *Bitmap {
	b := NewBitmap(1, 1)
	b.Fill(0, 0, 1, 1, Black)
	return b.Border(1, White).Border(1, Black)
}

// drawFunction returns a bitmap of version v with the finder,
// alignment and timing patterns drawn.
func drawFunction(v Version) *Bitmap {
	size := v.Size()
	// The finders are drawn on a canvas one module larger on each
	// side, so that their separators are cut off at the edges.
	b := NewBitmap(size+2, size+2)
	f := finder()
	b.Embed(0, 0, f)
	b.Embed(-f.Width(), 0, f)
	b.Embed(0, -f.Height(), f)
	b = b.Slice(1, 1, size, size)

	a := alignment()
	pos := v.AlignmentPositions()
	for _, y := range pos {
		for _, x := range pos {
			if b.IsSet(x, y) {
				continue
			}
			b.Embed(x-2, y-2, a)
		}
	}

	b.Rect(0, 6, size, 1, func(x, _ int, cur Cell) Cell {
		if cur == Unset {
			return CellOf(x%2 == 0)
		}
		return cur
	})
	b.Rect(6, 0, 1, size, func(_, y int, cur Cell) Cell {
		if cur == Unset {
			return CellOf(y%2 == 0)
		}
		return cur
	})
	return b
}

// drawInfo draws format information for l and m, the dark module and,
// for versions 7 and up, version information.  In test mode all of
// them are drawn white.
func drawInfo(b *Bitmap, v Version, l Level, m Mask, test bool) {
	size := b.Width()
	fb := FormatBits(l, m)
	fa, fc := formatCells(size)
	for i := range fa {
		bit := !test && fb>>i&1 != 0
		b.Set(fa[i].X, fa[i].Y, bit)
		b.Set(fc[i].X, fc[i].Y, bit)
	}
	d := darkModule(size)
	b.Set(d.X, d.Y, !test)
	if v >= 7 {
		vb := VersionBits(v)
		va, vc := versionCells(size)
		for i := range va {
			bit := !test && vb>>i&1 != 0
			b.Set(va[i].X, va[i].Y, bit)
			b.Set(vc[i].X, vc[i].Y, bit)
		}
	}
}

// DrawTemplate returns the template of a code with version v, level l
// and mask m: every function module drawn and data modules unset.
// In test mode format and version information is drawn white.
func DrawTemplate(v Version, l Level, m Mask, test bool) *Bitmap {
	b := plan(v).Template.Clone()
	if !test {
		drawInfo(b, v, l, m, false)
	}
	return b
}

// zigzag returns the unset modules of tpl in placement order: pairs of
// columns from right to left, skipping the vertical timing pattern,
// alternately upwards and downwards, right column first.
func zigzag(tpl *Bitmap) []image.Point {
	size := tpl.Height()
	pts := make([]image.Point, 0, size*size)
	dir, y := -1, size-1
	for x0 := size - 1; x0 > 0; x0 -= 2 {
		if x0 == 6 {
			x0 = 5
		}
		for ; ; y += dir {
			for j := 0; j < 2; j++ {
				if x := x0 - j; !tpl.IsSet(x, y) {
					pts = append(pts, image.Pt(x, y))
				}
			}
			if y+dir < 0 || y+dir >= size {
				break
			}
		}
		dir = -dir
	}
	return pts
}

// Zigzag calls fn for each data module in placement order, with
// whether mask m inverts it.
func (p *Plan) Zigzag(m Mask, fn func(x, y int, mask bool)) {
	for _, pt := range p.Data {
		fn(pt.X, pt.Y, m.At(pt.X, pt.Y))
	}
}

// Draw returns the code with version v and level l holding the
// interleaved codewords data, masked with m.  In test mode format and
// version information is drawn white.  Draw panics if data does not
// fill the code exactly, up to the remainder bits.
func Draw(v Version, l Level, data []byte, m Mask, test bool) *Bitmap {
	p := plan(v)
	b := DrawTemplate(v, l, m, test)
	need := 8 * len(data)
	i := 0
	p.Zigzag(m, func(x, y int, mask bool) {
		bit := false
		if i < need {
			bit = data[i>>3]>>(7&^i)&1 != 0
			i++
		}
		b.Set(x, y, bit != mask)
	})
	if i != need || len(p.Data)-need >= 8 {
		panic("qr: data does not fit the code")
	}
	return b
}

// DrawBest draws the code like Draw, choosing the mask with the lowest
// penalty if m is AutoMask.  Ties go to the lower mask number.
func DrawBest(v Version, l Level, data []byte, m Mask) (*Bitmap, Mask) {
	if m == AutoMask {
		pen := -1
		for mm := Mask(0); mm < 8; mm++ {
			if p := Penalty(Draw(v, l, data, mm, true)); pen < 0 || p < pen {
				m, pen = mm, p
			}
		}
	}
	return Draw(v, l, data, m, false), m
}
