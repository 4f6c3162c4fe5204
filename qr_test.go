// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/unixdj/dualqr/coding"
	"github.com/unixdj/dualqr/dual"
	"github.com/unixdj/dualqr/scan"
)

// tiny is a 2x2 code with black modules at (0,0) and (1,1).
func tiny() *Code {
	return &Code{Bitmap: []byte{0x80, 0x40}, Size: 2, Stride: 1, Scale: 1, Border: 1}
}

func TestString(t *testing.T) {
	want := "█▀██\n██▄█\n"
	if s := tiny().String(); s != want {
		t.Errorf("String() =\n%s\nwant\n%s", s, want)
	}
	c := tiny()
	c.Reverse = true
	if s := c.String(); s != " ▄  \n  ▀ \n" {
		t.Errorf("reverse String() =\n%q", s)
	}
}

func TestASCII(t *testing.T) {
	var b strings.Builder
	if err := tiny().ASCII(&b); err != nil {
		t.Fatal(err)
	}
	want := "        \n  ##    \n    ##  \n        \n"
	if b.String() != want {
		t.Errorf("ASCII() =\n%s\nwant\n%s", b.String(), want)
	}
}

func TestTerminal(t *testing.T) {
	var b strings.Builder
	if err := tiny().Terminal(&b); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("%d lines", len(lines))
	}
	want := ansiWhite + "  " + ansiBlack + "  " + ansiWhite + "    " + ansiReset
	if lines[1] != want {
		t.Errorf("line 1 = %q, want %q", lines[1], want)
	}
}

func TestSVG(t *testing.T) {
	var b strings.Builder
	c := tiny()
	c.Palette = &[2]color.Color{color.RGBA{0xff, 0xff, 0xe0, 0xff}, color.Black}
	if err := c.SVG(&b); err != nil {
		t.Fatal(err)
	}
	s := b.String()
	for _, want := range []string{
		`<?xml`, `width="4"`, `viewBox="0 0 20 20"`, `fill="#ffffe0"`,
		`fill="#000000"`, "M5 5h5v1h-5z", "M10 14h5v1h-5z",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("SVG lacks %q:\n%s", want, s)
		}
	}
	if n := strings.Count(s, "h-5z"); n != 10 {
		t.Errorf("%d runs, want 10", n)
	}
}

// readPBM parses a P4 image.
func readPBM(t *testing.T, r io.Reader) (int, [][]bool) {
	t.Helper()
	br := bufio.NewReader(r)
	var magic string
	var w, h int
	if _, err := fmt.Fscan(br, &magic, &w, &h); err != nil || magic != "P4" || w != h {
		t.Fatalf("bad header %q %d %d: %v", magic, w, h, err)
	}
	if c, err := br.ReadByte(); err != nil || c != '\n' {
		t.Fatalf("header ends with %q, %v", c, err)
	}
	rows := make([][]bool, h)
	buf := make([]byte, (w+7)/8)
	for y := range rows {
		if _, err := io.ReadFull(br, buf); err != nil {
			t.Fatalf("row %d: %v", y, err)
		}
		rows[y] = make([]bool, w)
		for x := range rows[y] {
			rows[y][x] = buf[x/8]>>(7-x%8)&1 != 0
		}
	}
	if _, err := br.ReadByte(); err != io.EOF {
		t.Errorf("trailing data: %v", err)
	}
	return w, rows
}

func testPBM(t *testing.T, name string, c *Code) {
	t.Helper()
	var b bytes.Buffer
	if err := c.EncodePBM(&b); err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	w, rows := readPBM(t, &b)
	img := c.Image()
	if w != img.Bounds().Dx() {
		t.Fatalf("%s: width %d, want %d", name, w, img.Bounds().Dx())
	}
	for y, row := range rows {
		for x, black := range row {
			if want := (img.ColorIndexAt(x, y) == 1) != c.Reverse; black != want {
				t.Fatalf("%s: pixel (%d, %d) is %v", name, x, y, black)
			}
		}
	}
}

func TestPBM(t *testing.T) {
	var b bytes.Buffer
	if err := tiny().EncodePBM(&b); err != nil {
		t.Fatal(err)
	}
	if want := "P4\n4 4\n\x00\x40\x20\x00"; b.String() != want {
		t.Errorf("EncodePBM() = %q, want %q", b.String(), want)
	}

	c, err := Encode("https://example.com/pbm", M)
	if err != nil {
		t.Fatal(err)
	}
	for _, scale := range []int{1, 3, 8} {
		for _, rev := range []bool{false, true} {
			c.Scale, c.Reverse = scale, rev
			testPBM(t, "plain scale "+strconv.Itoa(scale), c)
		}
	}
	c2, err := Encode2L("public", []byte("private"), []byte("key"), dual.DefaultOptions)
	if err != nil {
		t.Fatal(err)
	}
	for _, scale := range []int{5, 8, 10} {
		c2.Scale = scale
		testPBM(t, "two level scale "+strconv.Itoa(scale), c2)
	}
}

func TestImage(t *testing.T) {
	c, err := Encode2L("glyphs", []byte{0x5a}, []byte("key"), dual.DefaultOptions)
	if err != nil {
		t.Fatal(err)
	}
	if c.Scale != DefaultScale2L || c.Patterns == nil {
		t.Fatalf("scale %d, patterns %v", c.Scale, c.Patterns != nil)
	}
	img := c.Image()
	found := 0
	for y := 0; y < c.Size; y++ {
		for x := 0; x < c.Size; x++ {
			s, ok := c.Pattern(x, y)
			if !ok {
				continue
			}
			found++
			g := dual.GlyphOf(s)
			// Sub-cells sit under the sampler's pixels.
			for i, black := range g {
				px := (x+c.Border)*c.Scale + (2*(i%scan.Sub)+1)*c.Scale/(2*scan.Sub)
				py := (y+c.Border)*c.Scale + (2*(i/scan.Sub)+1)*c.Scale/(2*scan.Sub)
				if (img.ColorIndexAt(px, py) == 1) != black {
					t.Fatalf("module (%d, %d) sub-cell %d", x, y, i)
				}
			}
		}
	}
	if want := dual.PrivateLength(1, dual.DefaultECCWords); found != want {
		t.Errorf("%d glyphs, want %d", found, want)
	}

	c.Palette = &[2]color.Color{color.White, color.RGBA{0, 0, 0x80, 0xff}}
	c.Reverse = true
	if p := c.Image().Palette; p[0] != c.Palette[1] || p[1] != c.Palette[0] {
		t.Errorf("reversed palette %v", p)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, text := range []string{"hello, world", "0123456789012345", "漢字 and ASCII"} {
		c, err := Encode(text, Q)
		if err != nil {
			t.Fatal(err)
		}
		r, err := Decode(c.Image())
		if err != nil || r.Text != text {
			t.Errorf("%q: decoded %v, %v", text, r, err)
		}
		if r != nil && (r.Version != c.Version || Level(r.Level) != c.Level) {
			t.Errorf("%q: decoded %d-%v, want %d-%v", text, r.Version, r.Level, c.Version, c.Level)
		}
	}
}

func TestRoundTrip2L(t *testing.T) {
	key := []byte("correct horse battery staple")
	opt := dual.DefaultOptions
	opt.Level = coding.Q
	opt.ECCWords = 4
	c, err := Encode2L("https://example.com/", []byte("meet at noon"), key, opt)
	if err != nil {
		t.Fatal(err)
	}
	for _, enc := range []struct {
		name   string
		encode func(*Code, io.Writer) error
		decode func(io.Reader) (image.Image, error)
	}{
		{"png", (*Code).EncodePNG, png.Decode},
		{"gif", (*Code).EncodeGIF, gif.Decode},
	} {
		var b bytes.Buffer
		if err := enc.encode(c, &b); err != nil {
			t.Fatalf("%s: %v", enc.name, err)
		}
		img, err := enc.decode(&b)
		if err != nil {
			t.Fatalf("%s: %v", enc.name, err)
		}
		r, err := Decode2L(img, key, 4)
		if err != nil {
			t.Errorf("%s: %v", enc.name, err)
			continue
		}
		if r.Public != "https://example.com/" || string(r.Private) != "meet at noon" {
			t.Errorf("%s: decoded %q/%q", enc.name, r.Public, r.Private)
		}
		// A public decoder reads the same image.
		if p, err := Decode(img); err != nil || p.Text != r.Public {
			t.Errorf("%s: public decode %v, %v", enc.name, p, err)
		}
	}
}

func TestRoundTrip2LScales(t *testing.T) {
	key := []byte("scale")
	c, err := Encode2L("every scale", []byte{0xde, 0xad, 0xbe, 0xef}, key, dual.DefaultOptions)
	if err != nil {
		t.Fatal(err)
	}
	for scale := scan.Sub; scale <= 16; scale++ {
		c.Scale = scale
		r, err := Decode2L(c.Image(), key, dual.DefaultECCWords)
		if err != nil {
			t.Errorf("scale %d: %v", scale, err)
			continue
		}
		if r.Public != "every scale" || !bytes.Equal(r.Private, []byte{0xde, 0xad, 0xbe, 0xef}) {
			t.Errorf("scale %d: decoded %q/%x", scale, r.Public, r.Private)
		}
		if r.Corrected != 0 {
			t.Errorf("scale %d: %d blocks corrected", scale, r.Corrected)
		}
	}
}

func TestDecodeBorder(t *testing.T) {
	c, err := Encode("hello, world", Q)
	if err != nil {
		t.Fatal(err)
	}
	for _, border := range []int{0, 1, DefaultBorder, 10} {
		c.Border = border
		if r, err := Decode(c.Image()); err != nil || r.Text != "hello, world" {
			t.Errorf("border %d: decoded %v, %v", border, r, err)
		}
	}
}

func TestModules(t *testing.T) {
	s, err := coding.EncodeText("modules", coding.DefaultOptions)
	if err != nil {
		t.Fatal(err)
	}
	c, err := EncodeOpts("modules", coding.DefaultOptions)
	if err != nil {
		t.Fatal(err)
	}
	if c.Modules().String() != s.Bitmap.String() {
		t.Error("packed modules differ")
	}
}

func TestInvalid(t *testing.T) {
	var b bytes.Buffer
	for _, c := range []*Code{
		{},
		{Bitmap: []byte{0}, Size: 2, Stride: 1, Scale: 1},
		{Bitmap: []byte{0, 0}, Size: 2, Stride: 1, Scale: 0},
		{Bitmap: []byte{0, 0}, Size: 2, Stride: 1, Scale: 1, Border: -1},
		{Bitmap: []byte{0x80, 0x40}, Size: 2, Stride: 1, Scale: scan.Sub - 1,
			Patterns: dual.PatternMap{{0, -1}, {-1, -1}}},
	} {
		for _, f := range []func(io.Writer) error{c.EncodePNG, c.EncodeGIF, c.EncodePBM, c.SVG} {
			if err := f(&b); !errors.Is(err, ErrArgs) {
				t.Errorf("%+v: %v", c, err)
			}
		}
		if c.PNG() != nil {
			t.Errorf("%+v: PNG() not nil", c)
		}
	}
	if err := tiny().EncodePNG(nil); !errors.Is(err, ErrArgs) {
		t.Errorf("nil writer: %v", err)
	}
}
