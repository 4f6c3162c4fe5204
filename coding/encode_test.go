// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

const fullArt = `█████████████████████████████████
██ ▄▄▄▄▄ █▄██▀█▀▀▄ ▀   █ ▄▄▄▄▄ ██
██ █   █ █▄█ ▀██ ▄▄██▀▀█ █   █ ██
██ █▄▄▄█ █▀▀ █ ▄▄ █▀  ▄█ █▄▄▄█ ██
██▄▄▄▄▄▄▄█▄█▄█ █ ▀ ▀▄█▄█▄▄▄▄▄▄▄██
██▄▀▄█▀▀▄ ██▄▀▄  ███▀ ▀██▄▀▀ █▄██
██▀ ▀ ▀▄▄█▄██▄█▀█▄█ ▄▀▀▄▄▄█▀▀▄███
██  █▀  ▄▀▄▄█ ▄▄█▄   █▄▄█ ▀▄█ ▀██
██▀█ ▀ ▀▄  ▄▀ █▄ ▀ ▀▀█▄▀█  ▄▀ ▀██
███▀▀▀ ▄▄██▄▀█▄  █▄▄ ▀██▀█ ▄▄█▀██
██▄▄█▄ ▄▄█▄▄█▄▀▀█ █ █▀▀▄ ▀██▀▀▀██
██▄▄▄▄▄█▄▄ ▄ ▀ ▄█▀█ ▄█ ▄▄▄ ▄█▄ ██
██ ▄▄▄▄▄ █▄▀ ▀▀▄ █  ▀▀ █▄█ ▀▀▄▄██
██ █   █ ██▀ ▀█▄ ▄██▀█ ▄ ▄ ██▄ ██
██ █▄▄▄█ █▄▄▀▄  ▀▀▀ ▄▄▄█  ▀▄ ▄▄██
██▄▄▄▄▄▄▄█▄▄▄▄█▄███▄▄▄██▄███▄█▄██
▀▀▀▀▀▀▀▀▀▀▀▀▀▀▀▀▀▀▀▀▀▀▀▀▀▀▀▀▀▀▀▀▀
`

func TestEncodeFullAPI(t *testing.T) {
	s, err := EncodeText("#️⃣🧜‍♂️🏎🔍🔻", DefaultOptions)
	if err != nil {
		t.Fatal(err)
	}
	if s.Version != 3 || s.Level != M {
		t.Errorf("got %d-%v, want 3-M", s.Version, s.Level)
	}
	if got := halfBlocks(s.Bitmap); got != fullArt {
		t.Errorf("got:\n%s\nwant:\n%s", got, fullArt)
	}
}

// HELLO WORLD as 1-Q, from Thonky's QR code tutorial.
const helloWorld = `
XXXXXXX    X  XXXXXXX
X     X XX  X X     X
X XXX X  X XX X XXX X
X XXX X XXXXX X XXX X
X XXX X XX X  X XXX X
X     X  X  X X     X
XXXXXXX X X X XXXXXXX
        XX XX        
 X XXXX XX  XXX XX X 
X XXXX X    XXXX XXX 
  X X XX   X  XX     
X XX X   X XX   XX   
XX XXXXXXXX XXX XXXXX
        X   X  X X   
XXXXXXX  XX  XX  XXXX
X     X X X  X  X XXX
X XXX X XX X  X   XXX
X XXX X X XXX   X X  
X XXX X  X    X    XX
X     X XXX  XXX  XX 
XXXXXXX  X X       X 
`

func TestEncodeHelloWorld(t *testing.T) {
	s, err := EncodeText("HELLO WORLD", Options{Level: Q, Mask: AutoMask})
	if err != nil {
		t.Fatal(err)
	}
	if s.Version != 1 || s.Mask != 6 {
		t.Errorf("got version %d mask %d, want 1 and 6", s.Version, s.Mask)
	}
	if got, want := s.Bitmap.String(), strings.Trim(helloWorld, "\n"); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestEncoderCodewords(t *testing.T) {
	// ISO 18004 Annex I: 01234567 as 1-M.
	e, err := NewEncoder(1, M)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Write(Segment{Text: "01234567"}); err != nil {
		t.Fatal(err)
	}
	b := &Bits{b: append([]byte(nil), e.b.b...), nbit: e.b.nbit}
	b.AddCheckBytes(1, M)
	want := []byte{
		0x10, 0x20, 0x0c, 0x56, 0x61, 0x80, 0xec, 0x11,
		0xec, 0x11, 0xec, 0x11, 0xec, 0x11, 0xec, 0x11,
		0xa5, 0x24, 0xd4, 0xc1, 0xed, 0x36, 0xc7, 0x87,
		0x2c, 0x55,
	}
	if got := b.Interleave(1, M); !bytes.Equal(got, want) {
		t.Errorf("codewords % x\nwant % x", got, want)
	}
}

func TestInterleave(t *testing.T) {
	// 5-Q: two blocks of 15 and two of 16 data bytes.
	c := Version(5).Capacity(Q)
	src := make([]byte, c.Total)
	for i := range src {
		src[i] = byte(i)
	}
	b := &Bits{b: src, nbit: 8 * len(src)}
	dst := b.Interleave(5, Q)
	if dst[0] != 0 || dst[1] != 15 || dst[2] != 30 || dst[3] != 46 {
		t.Errorf("data starts % x", dst[:4])
	}
	if nd := c.DataBits / 8; dst[nd-2] != 45 || dst[nd-1] != 61 {
		t.Errorf("data ends % x", dst[nd-2:nd])
	}
	back := make([]byte, c.DataBits/8)
	deinterleave(back, dst[:len(back)], c.Blocks)
	if !bytes.Equal(back, src[:len(back)]) {
		t.Errorf("deinterleave did not restore data")
	}
}

func TestRoundTrip(t *testing.T) {
	for _, tt := range []struct {
		text string
		opt  Options
		mode Mode
	}{
		{"", Options{Level: L, Mask: AutoMask}, Numeric},
		{"0123456789012345", Options{Level: H, Mask: 5}, Numeric},
		{"HTTPS://EXAMPLE.COM/A-B", Options{Level: Q, Mask: AutoMask}, Alphanumeric},
		{"Hello, world!", Options{Level: M, Mask: AutoMask}, Byte},
		{"naïve café", Options{Level: L, Mask: AutoMask, Mode: Latin1}, Latin1},
		{"漢字", Options{Level: M, Mask: AutoMask, Mode: Kanji}, Kanji},
		{strings.Repeat("The quick brown fox. ", 40), Options{Level: M, Mask: AutoMask}, Byte},
		{strings.Repeat("314159265358979", 200), Options{Level: L, Version: 40, Mask: 2}, Numeric},
	} {
		s, err := EncodeText(tt.text, tt.opt)
		if err != nil {
			t.Errorf("%.20q: %v", tt.text, err)
			continue
		}
		r, err := Decode(s.Bitmap)
		if err != nil {
			t.Errorf("%.20q: decode: %v", tt.text, err)
			continue
		}
		if r.Text != tt.text {
			t.Errorf("decoded %.20q, want %.20q", r.Text, tt.text)
		}
		if r.Version != s.Version || r.Level != s.Level || r.Mask != s.Mask {
			t.Errorf("%.20q: decoded %d-%v mask %d, encoded %d-%v mask %d",
				tt.text, r.Version, r.Level, r.Mask, s.Version, s.Level, s.Mask)
		}
		if tt.text != "" && (len(r.Segments) != 1 || r.Segments[0].Mode != tt.mode) {
			t.Errorf("%.20q: segments %v, want one %v", tt.text, r.Segments, tt.mode)
		}
	}
}

func TestDecodeCorrects(t *testing.T) {
	s, err := EncodeText("error correction at work", Options{Level: H, Mask: AutoMask})
	if err != nil {
		t.Fatal(err)
	}
	b := s.Bitmap.Clone()
	// Flip a 4x4 patch of data modules in the middle.
	size := b.Width()
	for y := size/2 - 2; y < size/2+2; y++ {
		for x := size/2 - 2; x < size/2+2; x++ {
			b.Set(x, y, !b.Black(x, y))
		}
	}
	// Damage one copy of the format information.
	b.Set(8, 0, !b.Black(8, 0))
	b.Set(8, 1, !b.Black(8, 1))
	r, err := Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	if r.Text != "error correction at work" || r.Corrected == 0 {
		t.Errorf("decoded %q, %d corrected", r.Text, r.Corrected)
	}
}

func TestDecodeErrors(t *testing.T) {
	var de *DecodeError
	if _, err := Decode(NewBitmap(20, 20)); !errors.As(err, &de) {
		t.Errorf("size 20: %v", err)
	}
	if _, err := Decode(NewBitmap(21, 25)); !errors.As(err, &de) {
		t.Errorf("not square: %v", err)
	}
	s, err := EncodeText("too much damage", Options{Level: L, Mask: AutoMask})
	if err != nil {
		t.Fatal(err)
	}
	b := s.Bitmap.Clone()
	for _, pt := range plan(s.Version).Data[:8*12] {
		b.Set(pt.X, pt.Y, !b.Black(pt.X, pt.Y))
	}
	if _, err := Decode(b); !errors.As(err, &de) {
		t.Errorf("damaged: %v", err)
	}
}

func TestEncodeErrors(t *testing.T) {
	var ce *CapacityError
	if _, err := EncodeText(strings.Repeat("x", 3000), DefaultOptions); !errors.As(err, &ce) {
		t.Errorf("long text: %v", err)
	}
	if _, err := EncodeText("hello", Options{Level: M, Version: 1, Mask: AutoMask, Mode: Numeric}); err == nil {
		t.Error("numeric mode accepted letters")
	}
	if _, err := EncodeText(strings.Repeat("x", 20), Options{Level: H, Version: 1}); !errors.As(err, &ce) {
		t.Errorf("fixed version: %v", err)
	}
	for _, tt := range []struct {
		opt  Options
		want error
	}{
		{Options{Level: 4}, ErrLevel},
		{Options{Level: L, Version: 41}, ErrVersion},
		{Options{Level: L, Mask: 8}, ErrMask},
	} {
		if _, err := EncodeText("x", tt.opt); !errors.Is(err, tt.want) {
			t.Errorf("%+v: %v, want %v", tt.opt, err, tt.want)
		}
	}
}

func TestEncodeOptimize(t *testing.T) {
	const text = "ORDER 12345678901234567890 für Müller"
	plain, err := EncodeText(text, Options{Level: L, Mask: AutoMask})
	if err != nil {
		t.Fatal(err)
	}
	opt, err := EncodeText(text, Options{Level: L, Mask: AutoMask, Optimize: true})
	if err != nil {
		t.Fatal(err)
	}
	if opt.Version > plain.Version {
		t.Errorf("optimised version %d > plain %d", opt.Version, plain.Version)
	}
	r, err := Decode(opt.Bitmap)
	if err != nil {
		t.Fatal(err)
	}
	if r.Text != text || len(r.Segments) < 2 {
		t.Errorf("decoded %q in %d segments", r.Text, len(r.Segments))
	}
}

func TestEncoderReuse(t *testing.T) {
	e, err := NewEncoder(2, M)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Write(Segment{Text: "ABC"}); err != nil {
		t.Fatal(err)
	}
	a, err := e.Code(AutoMask)
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.Code(a.Mask)
	if err != nil {
		t.Fatal(err)
	}
	if a.Bitmap.String() != b.Bitmap.String() {
		t.Error("second Code differs")
	}
	e.Reset()
	if err := e.Write(Segment{Text: "XYZ"}); err != nil {
		t.Fatal(err)
	}
	c, _ := e.Code(a.Mask)
	if r, err := Decode(c.Bitmap); err != nil || r.Text != "XYZ" {
		t.Errorf("after Reset: %v, %v", r, err)
	}
}
