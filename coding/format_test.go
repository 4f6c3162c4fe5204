// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"errors"
	"testing"
)

func TestFormatBits(t *testing.T) {
	want := [4][8]uint32{
		L: {0x77c4, 0x72f3, 0x7daa, 0x789d, 0x662f, 0x6318, 0x6c41, 0x6976},
		M: {0x5412, 0x5125, 0x5e7c, 0x5b4b, 0x45f9, 0x40ce, 0x4f97, 0x4aa0},
		Q: {0x355f, 0x3068, 0x3f31, 0x3a06, 0x24b4, 0x2183, 0x2eda, 0x2bed},
		H: {0x1689, 0x13be, 0x1ce7, 0x19d0, 0x0762, 0x0255, 0x0d0c, 0x083b},
	}
	for l := L; l <= H; l++ {
		for m := Mask(0); m < 8; m++ {
			fb := FormatBits(l, m)
			if fb != want[l][m] {
				t.Errorf("FormatBits(%v, %d) = %#x, want %#x", l, m, fb, want[l][m])
			}
			// Up to three flipped bits are recovered.
			for _, flip := range []uint32{0, 1, 0x4001, 0x0111} {
				gl, gm, d := decodeFormat(fb ^ flip)
				if gl != l || gm != m || d > 3 {
					t.Errorf("decodeFormat(%#x ^ %#x) = %v, %d, %d", fb, flip, gl, gm, d)
				}
			}
		}
	}
}

func TestVersionBits(t *testing.T) {
	for _, tt := range []struct {
		v    Version
		want uint32
	}{
		{7, 0x07c94},
		{8, 0x085bc},
		{20, 0x149a6},
		{33, 0x216f0},
		{40, 0x28c69},
	} {
		if vb := VersionBits(tt.v); vb != tt.want {
			t.Errorf("VersionBits(%d) = %#x, want %#x", tt.v, vb, tt.want)
		}
		if v, d := decodeVersion(tt.want ^ 0x20101); v != tt.v || d != 3 {
			t.Errorf("decodeVersion(%d) = %d, %d", tt.v, v, d)
		}
	}
}

func TestFormatCells(t *testing.T) {
	const size = 21
	a, b := formatCells(size)
	seen := map[[2]int]bool{}
	for i := range a {
		for _, p := range []struct{ X, Y int }{a[i], b[i]} {
			k := [2]int{p.X, p.Y}
			if seen[k] {
				t.Errorf("cell %v used twice", p)
			}
			seen[k] = true
			if p.X == 6 || p.Y == 6 {
				t.Errorf("cell %v on timing pattern", p)
			}
		}
	}
	if d := darkModule(size); seen[[2]int{d.X, d.Y}] {
		t.Errorf("dark module %v overlaps format information", d)
	}
}

func TestLevel(t *testing.T) {
	for _, tt := range []struct {
		s    string
		want Level
	}{
		{"L", L}, {"m", M}, {"Q", Q}, {"h", H},
	} {
		l, err := ParseLevel(tt.s)
		if err != nil || l != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.s, l, err)
		}
	}
	if _, err := ParseLevel("X"); !errors.Is(err, ErrLevel) {
		t.Errorf("ParseLevel(X) error %v, want ErrLevel", err)
	}
}

func TestCapacity(t *testing.T) {
	for _, tt := range []struct {
		v    Version
		l    Level
		want Capacity
	}{
		{1, M, Capacity{Words: 10, Blocks: 1, BlockLen: 16, ShortBlocks: 1, DataBits: 128, Total: 26}},
		{5, Q, Capacity{Words: 18, Blocks: 4, BlockLen: 15, ShortBlocks: 2, DataBits: 496, Total: 134}},
		{40, H, Capacity{Words: 30, Blocks: 81, BlockLen: 15, ShortBlocks: 20, DataBits: 10208, Total: 3706}},
	} {
		if c := tt.v.Capacity(tt.l); c != tt.want {
			t.Errorf("%d-%v: %+v, want %+v", tt.v, tt.l, c, tt.want)
		}
	}
	for v := MinVersion; v <= MaxVersion; v++ {
		for l := L; l <= H; l++ {
			c := v.Capacity(l)
			n := c.ShortBlocks*c.BlockLen + (c.Blocks-c.ShortBlocks)*(c.BlockLen+1)
			if n*8 != c.DataBits || n+c.Blocks*c.Words != c.Total {
				t.Errorf("%d-%v: inconsistent %+v", v, l, c)
			}
		}
	}
}
