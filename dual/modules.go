// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dual

import (
	"image"

	"github.com/unixdj/dualqr/coding"
)

// Protected returns a bitmap of the modules of a version v code of the
// given size that never carry a glyph: the finder boxes, alignment
// patterns, timing patterns, format and version information and the
// dark module.  Protected cells are Black, the rest Unset.
func Protected(v coding.Version, size int) *coding.Bitmap {
	p := coding.NewBitmap(size, size)
	box := func(x, y, w, h int) {
		for j := y; j < y+h; j++ {
			for i := x; i < x+w; i++ {
				if i >= 0 && j >= 0 && i < size && j < size {
					p.SetCell(i, j, coding.Black)
				}
			}
		}
	}
	inFinder := func(x, y int) bool {
		return x < 8 && y < 8 || x >= size-8 && y < 8 || x < 8 && y >= size-8
	}

	box(0, 0, 8, 8)
	box(size-8, 0, 8, 8)
	box(0, size-8, 8, 8)
	pos := v.AlignmentPositions()
	for _, y := range pos {
		for _, x := range pos {
			if !inFinder(x, y) {
				box(x-2, y-2, 5, 5)
			}
		}
	}
	for i := 8; i < size-8; i++ {
		box(i, 6, 1, 1)
		box(6, i, 1, 1)
	}
	for i := 0; i < 9; i++ {
		if i != 6 {
			box(8, i, 1, 1)
			box(i, 8, 1, 1)
		}
	}
	box(8, size-8, 1, 8)
	box(size-8, 8, 8, 1)
	if v >= 7 {
		box(0, size-11, 6, 3)
		box(size-11, 0, 3, 6)
	}
	return p
}

// ReplaceableModules returns the black modules of b that may carry a
// glyph, ordered by row, then column.
func ReplaceableModules(b *coding.Bitmap, v coding.Version) ([]image.Point, error) {
	size := b.Width()
	if size != b.Height() {
		return nil, &coding.ValidationError{What: "bitmap size",
			Value: image.Pt(b.Width(), b.Height())}
	}
	if !v.Valid() || v.Size() != size {
		return nil, &coding.ValidationError{What: "version", Value: int(v)}
	}
	p := Protected(v, size)
	var pts []image.Point
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if b.Black(x, y) && !p.IsSet(x, y) {
				pts = append(pts, image.Pt(x, y))
			}
		}
	}
	return pts, nil
}
