// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"fmt"
	"strings"
)

// A Cell is the state of a Bitmap cell.
type Cell int8

const (
	Unset Cell = iota // not drawn yet
	White
	Black
)

// CellOf returns Black if black is true and White otherwise.
func CellOf(black bool) Cell {
	if black {
		return Black
	}
	return White
}

// A Bitmap is a width by height grid of cells, all initially Unset.
//
// Methods taking a position reduce it modulo the bitmap dimensions,
// so that (-1, -1) is the bottom right corner, and clip rectangles at
// the right and bottom edges.
type Bitmap struct {
	w, h  int
	cells []Cell
}

// NewBitmap returns an empty bitmap of the given size.
func NewBitmap(w, h int) *Bitmap {
	if w < 0 || h < 0 {
		panic("qr: negative bitmap size")
	}
	return &Bitmap{w: w, h: h, cells: make([]Cell, w*h)}
}

// ParseBitmap parses the format produced by String: 'X' for Black,
// ' ' for White and '?' for Unset, rows separated by newlines.
// Leading and trailing newlines are ignored.
func ParseBitmap(s string) (*Bitmap, error) {
	s = strings.Trim(s, "\n")
	if s == "" {
		return NewBitmap(0, 0), nil
	}
	lines := strings.Split(s, "\n")
	b := NewBitmap(len(lines[0]), len(lines))
	for y, line := range lines {
		if len(line) != b.w {
			return nil, fmt.Errorf("qr: bitmap row %d is %d wide, want %d",
				y, len(line), b.w)
		}
		for x := 0; x < len(line); x++ {
			switch line[x] {
			case 'X':
				b.cells[y*b.w+x] = Black
			case ' ':
				b.cells[y*b.w+x] = White
			case '?':
			default:
				return nil, fmt.Errorf("qr: unknown bitmap symbol %q",
					line[x])
			}
		}
	}
	return b, nil
}

// Width returns the number of columns.
func (b *Bitmap) Width() int { return b.w }

// Height returns the number of rows.
func (b *Bitmap) Height() int { return b.h }

func (b *Bitmap) inside(x, y int) bool {
	return 0 <= x && x < b.w && 0 <= y && y < b.h
}

// At returns the cell at (x, y), or Unset outside the bitmap.
func (b *Bitmap) At(x, y int) Cell {
	if !b.inside(x, y) {
		return Unset
	}
	return b.cells[y*b.w+x]
}

// Black reports whether the cell at (x, y) is black.
func (b *Bitmap) Black(x, y int) bool { return b.At(x, y) == Black }

// IsSet reports whether the cell at (x, y) has been drawn.
func (b *Bitmap) IsSet(x, y int) bool { return b.At(x, y) != Unset }

// Set draws the cell at (x, y) black or white.
func (b *Bitmap) Set(x, y int, black bool) { b.SetCell(x, y, CellOf(black)) }

// SetCell sets the cell at (x, y).  SetCell panics if (x, y) is
// outside the bitmap.
func (b *Bitmap) SetCell(x, y int, c Cell) {
	if !b.inside(x, y) {
		panic("qr: bitmap index out of range")
	}
	b.cells[y*b.w+x] = c
}

func mod(a, n int) int {
	if n == 0 {
		return 0
	}
	if a %= n; a < 0 {
		a += n
	}
	return a
}

// Rect calls fn for each cell of the w by h rectangle at (x, y), with
// coordinates relative to the rectangle and the current value, and
// stores the result.
func (b *Bitmap) Rect(x, y, w, h int, fn func(x, y int, cur Cell) Cell) {
	x, y = mod(x, b.w), mod(y, b.h)
	w, h = min(w, b.w-x), min(h, b.h-y)
	for yy := 0; yy < h; yy++ {
		row := b.cells[(y+yy)*b.w+x:]
		for xx := 0; xx < w; xx++ {
			row[xx] = fn(xx, yy, row[xx])
		}
	}
}

// Fill sets every cell of the w by h rectangle at (x, y) to c.
func (b *Bitmap) Fill(x, y, w, h int, c Cell) {
	b.Rect(x, y, w, h, func(_, _ int, _ Cell) Cell { return c })
}

// Embed copies src into b with its top left corner at (x, y).
func (b *Bitmap) Embed(x, y int, src *Bitmap) {
	b.Rect(x, y, src.w, src.h, func(x, y int, _ Cell) Cell {
		return src.cells[y*src.w+x]
	})
}

// Slice returns a copy of the w by h rectangle at (x, y).
func (b *Bitmap) Slice(x, y, w, h int) *Bitmap {
	x, y = mod(x, b.w), mod(y, b.h)
	r := NewBitmap(min(w, b.w-x), min(h, b.h-y))
	r.Rect(0, 0, r.w, r.h, func(xx, yy int, _ Cell) Cell {
		return b.cells[(y+yy)*b.w+x+xx]
	})
	return r
}

// Border returns a copy of b surrounded by n cells of c on each side.
func (b *Bitmap) Border(n int, c Cell) *Bitmap {
	r := NewBitmap(b.w+2*n, b.h+2*n)
	r.Fill(0, 0, r.w, r.h, c)
	r.Embed(n, n, b)
	return r
}

// Scale returns a copy of b with every cell magnified f times.
func (b *Bitmap) Scale(f int) *Bitmap {
	if f <= 0 || f > 1024 {
		panic("qr: invalid scale factor")
	}
	r := NewBitmap(b.w*f, b.h*f)
	r.Rect(0, 0, r.w, r.h, func(x, y int, _ Cell) Cell {
		return b.cells[y/f*b.w+x/f]
	})
	return r
}

// Transpose returns b with rows and columns swapped.
func (b *Bitmap) Transpose() *Bitmap {
	r := NewBitmap(b.h, b.w)
	r.Rect(0, 0, r.w, r.h, func(x, y int, _ Cell) Cell {
		return b.cells[x*b.w+y]
	})
	return r
}

// Clone returns a copy of b.
func (b *Bitmap) Clone() *Bitmap {
	r := *b
	r.cells = append([]Cell(nil), b.cells...)
	return &r
}

// Row returns row y of b.  The slice shares storage with b.
func (b *Bitmap) Row(y int) []Cell { return b.cells[y*b.w : (y+1)*b.w] }

// Drawn reports whether every cell of b is set.
func (b *Bitmap) Drawn() bool {
	for _, c := range b.cells {
		if c == Unset {
			return false
		}
	}
	return true
}

// AssertDrawn panics if any cell of b is not set.
func (b *Bitmap) AssertDrawn() {
	if !b.Drawn() {
		panic("qr: bitmap has unset cells")
	}
}

// String returns b as text, one line per row, with 'X' for black,
// ' ' for white and '?' for unset cells.
func (b *Bitmap) String() string {
	var sb strings.Builder
	sb.Grow((b.w + 1) * b.h)
	for y := 0; y < b.h; y++ {
		if y != 0 {
			sb.WriteByte('\n')
		}
		for _, c := range b.Row(y) {
			sb.WriteByte("? X"[c])
		}
	}
	return sb.String()
}
