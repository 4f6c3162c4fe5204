// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dual

import (
	"strings"

	"github.com/unixdj/dualqr/scan"
)

// A Glyph is the drawing of a private symbol inside a black module, as
// scan.Sub x scan.Sub sub-cells, row-major, black is true.
type Glyph [scan.Samples]bool

// Solid is an undecorated black module.
var Solid = parseGlyph("#########################")

// Glyph names, indexed by symbol.
var glyphNames = [8]string{
	"square centre",
	"circle centre",
	"diagonal cross",
	"horizontal bar",
	"vertical bar",
	"corner dots",
	"checkered",
	"dotted frame",
}

// Glyphs, indexed by symbol.  Every glyph has at least 16 black
// sub-cells, so that the module stays black to a decoder that takes the
// majority of samples over the module, as package scan does, and any
// two glyphs, Solid included, differ in at least 4 sub-cells.  Glyphs 0
// to 4 have a white centre and read white to a decoder sampling only
// the module centre.
var glyphs = [8]Glyph{
	parseGlyph(`
		#####
		#...#
		#...#
		#...#
		#####`),
	parseGlyph(`
		#####
		##.##
		#...#
		##.##
		#####`),
	parseGlyph(`
		.###.
		#.#.#
		##.##
		#.#.#
		.###.`),
	parseGlyph(`
		#####
		#####
		.....
		#####
		#####`),
	parseGlyph(`
		##.##
		##.##
		##.##
		##.##
		##.##`),
	parseGlyph(`
		.###.
		#####
		#####
		#####
		.###.`),
	parseGlyph(`
		..###
		..###
		#####
		###..
		###..`),
	parseGlyph(`
		#.#.#
		.###.
		#####
		.###.
		#.#.#`),
}

func parseGlyph(s string) (g Glyph) {
	i := 0
	for _, c := range s {
		switch c {
		case '#', '.':
			g[i] = c == '#'
			i++
		}
	}
	if i != len(g) {
		panic("dual: bad glyph")
	}
	return
}

// GlyphOf returns the glyph of symbol s.  It panics if s > 7.
func GlyphOf(s int) *Glyph { return &glyphs[s] }

// GlyphName returns the name of symbol s.
func GlyphName(s int) string { return glyphNames[s] }

func (g *Glyph) String() string {
	var b strings.Builder
	for i, v := range g {
		if v {
			b.WriteByte('#')
		} else {
			b.WriteByte('.')
		}
		if i%scan.Sub == scan.Sub-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func distance(a, b *[scan.Samples]bool) int {
	d := 0
	for i := range a {
		if a[i] != b[i] {
			d++
		}
	}
	return d
}

// Classify returns the symbol whose glyph is nearest to the samples c
// and the distance to it, or -1 if the nearest is Solid.  Ties go to
// the lowest symbol; Solid wins a tie.
func Classify(c *[scan.Samples]bool) (sym, dist int) {
	sym, dist = -1, distance(c, (*[scan.Samples]bool)(&Solid))
	for i := range glyphs {
		if d := distance(c, (*[scan.Samples]bool)(&glyphs[i])); d < dist {
			sym, dist = i, d
		}
	}
	return
}
