// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

// Penalty returns the penalty value of a drawn code, used for choosing
// the mask.  Lower is better.
func Penalty(b *Bitmap) int {
	s := PenaltyScore(b)
	return s[0] + s[1] + s[2] + s[3]
}

// PenaltyScore returns the four components of the penalty:
//
//   - runs: for each maximal run of n >= 5 same colour modules in a
//     row or column -> n-2
//   - boxes: for each, possibly overlapping, 2x2 box of one colour -> 3
//   - finders: for each 1011101 pattern with 0000 on either side
//     entirely within a row or column -> 40
//   - balance: for the share of dark modules n% -> 10*floor(|n-50|/5)
func PenaltyScore(b *Bitmap) [4]int {
	const (
		MinRun    = 5  // runs: minimum run length
		RunPDelta = -2 // runs: add to run length
		BoxPP     = 3  // boxes: points per box
		FindPP    = 40 // finders: points per pattern
		BalPP     = 10 // balance: points per 5%

		// finder patterns, 11 modules, first module in the high bit
		findB = 0b0000_1011101 // light area before
		findA = 0b1011101_0000 // light area after
		mask  = 1<<11 - 1
	)
	var s [4]int
	w, h := b.Width(), b.Height()
	line := func(get func(i int) Cell, n int) {
		run := 0
		pat := 0
		var last Cell
		for i := 0; i < n; i++ {
			c := get(i)
			if c == last {
				run++
			} else {
				if run >= MinRun {
					s[0] += run + RunPDelta
				}
				last, run = c, 1
			}
			pat = (pat<<1 | int(c>>1)) & mask
			if i >= 10 && (pat == findB || pat == findA) {
				s[2] += FindPP
			}
		}
		if run >= MinRun {
			s[0] += run + RunPDelta
		}
	}
	dark := 0
	for y := 0; y < h; y++ {
		row := b.Row(y)
		line(func(i int) Cell { return row[i] }, w)
		for x, c := range row {
			if c == Black {
				dark++
			}
			if x+1 < w && y+1 < h {
				if c == row[x+1] && c == b.At(x, y+1) && c == b.At(x+1, y+1) {
					s[1] += BoxPP
				}
			}
		}
	}
	for x := 0; x < w; x++ {
		line(func(i int) Cell { return b.At(x, i) }, h)
	}
	n := w * h
	if n > 0 {
		d := 100*dark - 50*n
		if d < 0 {
			d = -d
		}
		s[3] = BalPP * (d / (5 * n))
	}
	return s
}
