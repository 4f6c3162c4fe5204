// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"image"
	"math/bits"
)

const (
	formatPoly  = 0b10100110111    // BCH(15,5) generator
	formatXOR   = 0b101010000010010 // format information mask
	versionPoly = 0b1111100100101   // BCH(18,6) generator
)

// FormatBits returns the 15 bit format information word for l and m.
func FormatBits(l Level, m Mask) uint32 {
	data := l.ecBits()<<3 | uint32(m)
	d := data
	for i := 0; i < 10; i++ {
		d = d<<1 ^ d>>9*formatPoly
	}
	return (data<<10 | d) ^ formatXOR
}

// VersionBits returns the 18 bit version information word for v.
// Only versions 7 and up carry version information.
func VersionBits(v Version) uint32 {
	d := uint32(v)
	for i := 0; i < 12; i++ {
		d = d<<1 ^ d>>11*versionPoly
	}
	return uint32(v)<<12 | d
}

// formatCells returns the positions of the two copies of the format
// information, indexed by bit number, least significant first.
// The first copy wraps around the top left finder, the second is split
// between the top right and bottom left ones.
func formatCells(size int) (a, b [15]image.Point) {
	for i := range a {
		switch {
		case i < 6:
			a[i] = image.Pt(8, i)
		case i < 8:
			a[i] = image.Pt(8, i+1)
		case i == 8:
			a[i] = image.Pt(7, 8)
		default:
			a[i] = image.Pt(14-i, 8)
		}
		if i < 8 {
			b[i] = image.Pt(size-1-i, 8)
		} else {
			b[i] = image.Pt(8, size-15+i)
		}
	}
	return
}

// darkModule returns the position of the single always black module.
func darkModule(size int) image.Point { return image.Pt(8, size-8) }

// versionCells returns the positions of the two copies of version
// information, indexed by bit number: 6x3 above the bottom left
// finder and 3x6 left of the top right one.
func versionCells(size int) (a, b [18]image.Point) {
	for i := range a {
		a[i] = image.Pt(i/3, i%3+size-11)
		b[i] = image.Pt(i%3+size-11, i/3)
	}
	return
}

// decodeFormat returns the level and mask whose format word is closest
// to fb, and the Hamming distance.
func decodeFormat(fb uint32) (l Level, m Mask, dist int) {
	dist = 16
	for ll := L; ll <= H; ll++ {
		for mm := Mask(0); mm < 8; mm++ {
			if d := bits.OnesCount32(fb ^ FormatBits(ll, mm)); d < dist {
				l, m, dist = ll, mm, d
			}
		}
	}
	return
}

// decodeVersion returns the version whose version word is closest to
// vb, and the Hamming distance.
func decodeVersion(vb uint32) (v Version, dist int) {
	dist = 19
	for vv := Version(7); vv <= MaxVersion; vv++ {
		if d := bits.OnesCount32(vb ^ VersionBits(vv)); d < dist {
			v, dist = vv, d
		}
	}
	return
}
