// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bufio"
	"io"
	"strconv"
)

// EncodePBM writes a Portable Bit Map image displaying the code to w,
// for use with netpbm.  EncodePBM disregards c.Palette, as other PNM
// formats are not supported.
func (c *Code) EncodePBM(w io.Writer) error {
	if w == nil || !c.isValid() {
		return ErrArgs
	}
	b := bufio.NewWriter(w)
	ls := strconv.Itoa(c.pixels())
	if _, err := b.WriteString("P4\n" + ls + " " + ls + "\n"); err != nil {
		return err
	}
	var white byte
	if c.Reverse {
		white = 0xff
	}
	row := make([]byte, (c.pixels()+7)/8)
	for y := -c.Border; y < c.Size+c.Border; y++ {
		py := (y + c.Border) * c.Scale
		if c.hasPatterns(y) {
			// Glyph rows differ within the module.
			for i := 0; i < c.Scale; i++ {
				pbmRow(row, c, py+i, white)
				if _, err := b.Write(row); err != nil {
					return err
				}
			}
			continue
		}
		if c.Scale == 8 && y >= 0 && y < c.Size {
			pbmRow8(row, c.Bitmap[y*c.Stride:], c.Size, c.Border, white)
		} else {
			pbmRow(row, c, py, white)
		}
		for i := 0; i < c.Scale; i++ {
			if _, err := b.Write(row); err != nil {
				return err
			}
		}
	}
	return b.Flush()
}

// hasPatterns reports whether module row y carries glyphs.
func (c *Code) hasPatterns(y int) bool {
	if y < 0 || y >= len(c.Patterns) {
		return false
	}
	for _, s := range c.Patterns[y] {
		if s >= 0 {
			return true
		}
	}
	return false
}

// pbmRow8 encodes a row of siz modules in PBM format at scale 8, one
// byte per module, with border white modules on each side.
func pbmRow8(row, srow []byte, siz, border int, white byte) {
	for i := range row {
		row[i] = white
	}
	for x := 0; x < siz; x++ {
		row[border+x] = white ^ -(srow[x/8] >> uint(7-x&7) & 1)
	}
}

// pbmRow encodes image row py in PBM format, a pixel at a time.
func pbmRow(row []byte, c *Code, py int, white byte) {
	d := c.pixels()
	for i := range row {
		var v byte
		for j := 0; j < 8; j++ {
			v <<= 1
			if px := i*8 + j; px < d && c.blackPixel(px, py) {
				v |= 1
			}
		}
		row[i] = v ^ white
	}
	if pad := len(row)*8 - d; pad > 0 {
		row[len(row)-1] &= 0xff << uint(pad)
	}
}
