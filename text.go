// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/unixdj/dualqr/scan"
)

// white reports whether the module at (x,y) is displayed white.
// Modules outside the code are the quiet zone.
func (c *Code) white(x, y int) bool { return c.Black(x, y) == c.Reverse }

// String returns the code as UTF-8 text, two rows of modules per line,
// drawing white modules with block elements, so that it reads on a
// dark terminal.  Glyphs are not shown.
func (c *Code) String() string {
	var b strings.Builder
	for y := -c.Border; y < c.Size+c.Border; y += 2 {
		for x := -c.Border; x < c.Size+c.Border; x++ {
			top := c.white(x, y)
			bot := y+1 < c.Size+c.Border && c.white(x, y+1)
			switch {
			case top && bot:
				b.WriteString("█")
			case top:
				b.WriteString("▀")
			case bot:
				b.WriteString("▄")
			default:
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// ASCII writes the code to w as text, two characters per module, "#"
// for black.
func (c *Code) ASCII(w io.Writer) error {
	pix := c.Size + 2*c.Border
	b := make([]byte, 0, (pix*2+1)*pix)
	for y := -c.Border; y < c.Size+c.Border; y++ {
		for x := -c.Border; x < c.Size+c.Border; x++ {
			if c.white(x, y) {
				b = append(b, ' ', ' ')
			} else {
				b = append(b, '#', '#')
			}
		}
		b = append(b, '\n')
	}
	_, err := w.Write(b)
	return err
}

// ANSI escape sequences for Terminal.
const (
	ansiWhite = "\x1b[47m"
	ansiBlack = "\x1b[40m"
	ansiReset = "\x1b[0m"
)

// Terminal writes the code to w coloured with ANSI escape sequences,
// two spaces per module.
func (c *Code) Terminal(w io.Writer) error {
	var b strings.Builder
	for y := -c.Border; y < c.Size+c.Border; y++ {
		last := false
		for x := -c.Border; x < c.Size+c.Border; x++ {
			wh := c.white(x, y)
			if x == -c.Border || wh != last {
				if wh {
					b.WriteString(ansiWhite)
				} else {
					b.WriteString(ansiBlack)
				}
				last = wh
			}
			b.WriteString("  ")
		}
		b.WriteString(ansiReset + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func svgColor(c color.Color) string {
	r, g, b, a := c.RGBA()
	if a == 0xffff {
		return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%.3g)", r>>8, g>>8, b>>8, float64(a)/0xffff)
}

// SVG writes an SVG image displaying the code to w.  The drawing uses
// one unit per glyph sub-cell, scaled to c.Scale pixels per module.
func (c *Code) SVG(w io.Writer) error {
	if !c.isValid() {
		return ErrArgs
	}
	p := c.palette()
	d := c.pixels()
	units := (c.Size + 2*c.Border) * scan.Sub
	var b strings.Builder
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" shape-rendering="crispEdges">
<rect width="%d" height="%d" fill="%s"/>
<path fill="%s" d="`, d, d, units, units, units, units, svgColor(p[0]), svgColor(p[1]))
	// One horizontal run of black sub-cells per path element.
	sub := &Code{Bitmap: c.Bitmap, Size: c.Size, Stride: c.Stride,
		Patterns: c.Patterns, Scale: scan.Sub}
	for sy := 0; sy < c.Size*scan.Sub; sy++ {
		for sx := 0; sx < c.Size*scan.Sub; {
			if !sub.blackPixel(sx, sy) {
				sx++
				continue
			}
			start := sx
			for sx < c.Size*scan.Sub && sub.blackPixel(sx, sy) {
				sx++
			}
			fmt.Fprintf(&b, "M%d %dh%dv1h-%dz",
				start+c.Border*scan.Sub, sy+c.Border*scan.Sub,
				sx-start, sx-start)
		}
	}
	b.WriteString("\"/>\n</svg>\n")
	_, err := io.WriteString(w, b.String())
	return err
}
