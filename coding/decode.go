// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"

	"github.com/unixdj/dualqr/rs"
)

// maxInfoDist is the maximum number of wrong bits tolerated in format
// and version information.
const maxInfoDist = 3

var (
	errTruncated = errors.New("truncated data")
	errValue     = errors.New("value out of range")
)

// A Result is a decoded QR code.
type Result struct {
	Text      string    // decoded text, all segments concatenated
	Segments  []Segment // decoded segments
	Version   Version
	Level     Level
	Mask      Mask
	Corrected int // number of codewords corrected
}

// Decode decodes the QR code drawn in b, which must be exactly the
// symbol without a quiet zone.
func Decode(b *Bitmap) (*Result, error) {
	size := b.Width()
	if b.Height() != size {
		return nil, &DecodeError{What: "bitmap not square"}
	}
	v := VersionOf(size)
	if v == 0 {
		return nil, &DecodeError{What: "size", Err: &ValidationError{What: "size", Value: size}}
	}
	l, m, err := readFormat(b)
	if err != nil {
		return nil, err
	}
	if v >= 7 {
		if err := checkVersion(b, v); err != nil {
			return nil, err
		}
	}
	cw := readCodewords(b, v, m)
	data, n, err := correct(cw, v.Capacity(l))
	if err != nil {
		return nil, err
	}
	segs, err := parse(NewBitStream(data), v.SizeClass())
	if err != nil {
		return nil, &DecodeError{What: "bitstream", Err: err}
	}
	var sb strings.Builder
	for _, s := range segs {
		sb.WriteString(s.Text)
	}
	return &Result{
		Text:      sb.String(),
		Segments:  segs,
		Version:   v,
		Level:     l,
		Mask:      m,
		Corrected: n,
	}, nil
}

// readFormat returns the level and mask from the closer of the two
// format information copies.
func readFormat(b *Bitmap) (Level, Mask, error) {
	fa, fc := formatCells(b.Width())
	var wa, wc uint32
	for i := range fa {
		if b.Black(fa[i].X, fa[i].Y) {
			wa |= 1 << i
		}
		if b.Black(fc[i].X, fc[i].Y) {
			wc |= 1 << i
		}
	}
	l, m, d := decodeFormat(wa)
	if l2, m2, d2 := decodeFormat(wc); d2 < d {
		l, m, d = l2, m2, d2
	}
	if d > maxInfoDist {
		return 0, 0, &DecodeError{What: "format information"}
	}
	return l, m, nil
}

// checkVersion verifies that the version information in b, if legible,
// matches v.
func checkVersion(b *Bitmap, v Version) error {
	va, vc := versionCells(b.Width())
	var wa, wc uint32
	for i := range va {
		if b.Black(va[i].X, va[i].Y) {
			wa |= 1 << i
		}
		if b.Black(vc[i].X, vc[i].Y) {
			wc |= 1 << i
		}
	}
	got, d := decodeVersion(wa)
	if g2, d2 := decodeVersion(wc); d2 < d {
		got, d = g2, d2
	}
	if d <= maxInfoDist && got != v {
		return &DecodeError{What: "version information",
			Err: &ValidationError{What: "version", Value: int(got)}}
	}
	return nil
}

// readCodewords reads the interleaved codewords of a code of version v
// masked with m.
func readCodewords(b *Bitmap, v Version, m Mask) []byte {
	p := plan(v)
	cw := make([]byte, vtab[v].bytes)
	i, n := 0, 8*len(cw)
	p.Zigzag(m, func(x, y int, mask bool) {
		if i < n {
			if b.Black(x, y) != mask {
				cw[i>>3] |= 0x80 >> (i & 7)
			}
			i++
		}
	})
	return cw
}

// correct de-interleaves cw, corrects each block and returns the data
// bytes and the number of corrected codewords.
func correct(cw []byte, c Capacity) ([]byte, int, error) {
	nd := c.DataBits / 8
	data := make([]byte, nd)
	check := make([]byte, c.Total-nd)
	deinterleave(data, cw[:nd], c.Blocks)
	deinterleave(check, cw[nd:], c.Blocks)
	out := make([]byte, 0, nd)
	block := make([]byte, 0, c.BlockLen+1+c.Words)
	total := 0
	db := c.BlockLen
	for i := 0; i < c.Blocks; i++ {
		if i == c.ShortBlocks {
			db++
		}
		block = append(append(block[:0], data[:db]...), check[:c.Words]...)
		data, check = data[db:], check[c.Words:]
		n, err := rs.CorrectBytes(block, c.Words)
		if err != nil {
			return nil, 0, &DecodeError{What: "error correction", Err: err}
		}
		total += n
		out = append(out, block[:db]...)
	}
	return out, total, nil
}

// eciEncoding returns the character set designated by an ECI
// assignment number, or nil for UTF-8 and unknown ones.
func eciEncoding(eci uint32) encoding.Encoding {
	switch eci {
	case 1, 3:
		return charmap.ISO8859_1
	case 20:
		return japanese.ShiftJIS
	case 25:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	}
	return nil
}

// parse reads the segments of a decoded data bitstream.
func parse(s *BitStream, class int) ([]Segment, error) {
	var (
		segs []Segment
		eci  encoding.Encoding
	)
	read := func(n int) uint32 {
		v, ok := s.Read(n)
		if !ok {
			panic(errTruncated)
		}
		return v
	}
	err := func() (err error) {
		defer func() {
			if e := recover(); e != nil {
				if e != errTruncated && e != errValue {
					panic(e)
				}
				err = e.(error)
			}
		}()
		for s.Len() >= 4 {
			ind := read(4)
			switch ind {
			case indTerminator:
				return nil
			case indStructAppend:
				read(16)
			case indFNC1First:
			case indFNC1Second:
				read(8)
			case indECI:
				eci = eciEncoding(readECI(read))
			case indNumeric:
				segs = append(segs, Segment{parseNumeric(read, class), Numeric})
			case indAlphanumeric:
				segs = append(segs, Segment{parseAlphanumeric(read, class), Alphanumeric})
			case indByte:
				segs = append(segs, parseByte(read, class, eci))
			case indKanji:
				segs = append(segs, parseKanji(read, class))
			default:
				return &ValidationError{What: "mode indicator", Value: ind}
			}
		}
		return nil
	}()
	return segs, err
}

// readECI reads an ECI designator of one to three bytes.
func readECI(read func(int) uint32) uint32 {
	v := read(8)
	switch {
	case v&0x80 == 0:
		return v
	case v&0xc0 == 0x80:
		return v&0x3f<<8 | read(8)
	case v&0xe0 == 0xc0:
		return v&0x1f<<16 | read(16)
	}
	panic(errValue)
}

func parseNumeric(read func(int) uint32, class int) string {
	n := int(read(modes[Numeric].count[class]))
	buf := make([]byte, 0, n)
	digits := func(v uint32, k int) {
		var d [3]byte
		for i := k - 1; i >= 0; i-- {
			d[i] = byte('0' + v%10)
			v /= 10
		}
		if v != 0 {
			panic(errValue)
		}
		buf = append(buf, d[:k]...)
	}
	for ; n >= 3; n -= 3 {
		digits(read(10), 3)
	}
	switch n {
	case 2:
		digits(read(7), 2)
	case 1:
		digits(read(4), 1)
	}
	return string(buf)
}

func parseAlphanumeric(read func(int) uint32, class int) string {
	n := int(read(modes[Alphanumeric].count[class]))
	buf := make([]byte, 0, n)
	for ; n >= 2; n -= 2 {
		v := read(11)
		if v >= 45*45 {
			panic(errValue)
		}
		buf = append(buf, alphabet[v/45], alphabet[v%45])
	}
	if n == 1 {
		v := read(6)
		if v >= 45 {
			panic(errValue)
		}
		buf = append(buf, alphabet[v])
	}
	return string(buf)
}

// parseByte reads a byte segment.  Without an ECI designator the bytes
// are taken as UTF-8 if valid, else as ISO 8859-1.
func parseByte(read func(int) uint32, class int, eci encoding.Encoding) Segment {
	n := int(read(modes[Byte].count[class]))
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte(read(8))
	}
	if eci == nil && utf8.Valid(buf) {
		return Segment{string(buf), Byte}
	}
	if eci == nil {
		eci = charmap.ISO8859_1
	}
	mode := Byte
	if eci == charmap.ISO8859_1 {
		mode = Latin1
	}
	s, err := eci.NewDecoder().Bytes(buf)
	if err != nil {
		panic(errValue)
	}
	return Segment{string(s), mode}
}

func parseKanji(read func(int) uint32, class int) Segment {
	n := int(read(modes[Kanji].count[class]))
	buf := make([]byte, 0, 2*n)
	for i := 0; i < n; i++ {
		v := read(13)
		w := v/0xc0<<8 | v%0xc0
		if w < 0x1f00 {
			w += 0x8140
		} else {
			w += 0xc140
		}
		buf = append(buf, byte(w>>8), byte(w))
	}
	s, err := japanese.ShiftJIS.NewDecoder().Bytes(buf)
	if err != nil {
		panic(errValue)
	}
	return Segment{string(s), Kanji}
}
