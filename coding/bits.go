// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "github.com/unixdj/dualqr/rs"

// Bits is a bit string under construction, most significant bit
// first.
type Bits struct {
	b    []byte
	nbit int
}

// NewBits returns Bits with enough capacity for a QR code of the
// given version.
func NewBits(v Version) *Bits {
	return &Bits{b: make([]byte, 0, vtab[v].bytes)}
}

func (b *Bits) Reset() {
	b.b = b.b[:0]
	b.nbit = 0
}

// Bits returns the number of bits written.
func (b *Bits) Bits() int { return b.nbit }

// Bytes returns the bytes written.  Bytes panics if the bit string
// does not end on a byte boundary.
func (b *Bits) Bytes() []byte {
	if b.nbit%8 != 0 {
		panic("qr: fractional byte")
	}
	return b.b
}

// Add adds n zero bytes to b and returns the added slice.
func (b *Bits) Add(n int) []byte {
	if b.nbit%8 != 0 {
		panic("qr: fractional byte")
	}
	start := len(b.b)
	b.b = append(b.b, make([]byte, n)...)
	b.nbit = 8 * len(b.b)
	return b.b[start:]
}

// Write appends the low nbit bits of v, 0 <= nbit <= 32.
func (b *Bits) Write(v uint32, nbit int) {
	if nbit == 0 {
		return
	}
	v <<= 32 - nbit
	if rem := -b.nbit & 7; rem != 0 {
		b.b[len(b.b)-1] |= byte(v >> (32 - rem))
		if rem >= nbit {
			b.nbit += nbit
			return
		}
		b.nbit += rem
		nbit -= rem
		v <<= rem
	}
	for n := nbit; n > 0; n -= 8 {
		b.b = append(b.b, byte(v>>24))
		v <<= 8
	}
	b.nbit += nbit
}

// Pad adds a terminator of up to four zero bits, zero bits up to a
// byte boundary and alternating 0xec, 0x11 pad bytes until b holds n
// bits.  n must be a multiple of 8 no smaller than b.Bits().
func (b *Bits) Pad(n int) {
	if b.nbit > n {
		panic("qr: too much data")
	}
	b.Write(0, min(4, n-b.nbit))
	b.Write(0, -b.nbit&7)
	pad := [2]uint32{0xec, 0x11}
	for i := 0; b.nbit < n; i++ {
		b.Write(pad[i&1], 8)
	}
}

// AddCheckBytes pads b to the data capacity of version v and level l
// and appends the check bytes of each block.  Data blocks are taken in
// order, short blocks first.
func (b *Bits) AddCheckBytes(v Version, l Level) {
	c := v.Capacity(l)
	b.Pad(c.DataBits)
	dat := b.Bytes()
	db := c.BlockLen
	for i := 0; i < c.Blocks; i++ {
		if i == c.ShortBlocks {
			db++
		}
		rs.ECC(dat[:db], b.Add(c.Words))
		dat = dat[db:]
	}
	if len(b.Bytes()) != c.Total {
		panic("qr: internal error")
	}
}

// Interleave returns the codewords of b, as laid out by AddCheckBytes,
// in placement order: the i-th data byte of each block in turn, then
// the i-th check byte of each block.
func (b *Bits) Interleave(v Version, l Level) []byte {
	c := v.Capacity(l)
	src := b.Bytes()
	if len(src) != c.Total {
		panic("qr: wrong data length")
	}
	dst := make([]byte, c.Total)
	nd := c.DataBits / 8
	interleave(dst[:nd], src[:nd], c.Blocks)
	interleave(dst[nd:], src[nd:], c.Blocks)
	return dst
}

// interleave interleaves nblock blocks from src to dst, which must be
// of equal length.  The last len(src)%nblock blocks are one byte longer
// than the rest; their extra bytes go at the end.
func interleave(dst, src []byte, nblock int) {
	db := len(src) / nblock
	extra := dst[db*nblock:]
	dst = dst[:db*nblock]
	normal := nblock - len(extra)
	for i := 0; i < nblock; i++ {
		for j, v := range src[:db] {
			dst[j*nblock+i] = v
		}
		src = src[db:]
		if i >= normal {
			extra[i-normal] = src[0]
			src = src[1:]
		}
	}
}

// deinterleave undoes interleave.
func deinterleave(dst, src []byte, nblock int) {
	db := len(src) / nblock
	extra := src[db*nblock:]
	src = src[:db*nblock]
	normal := nblock - len(extra)
	for i := 0; i < nblock; i++ {
		for j := range dst[:db] {
			dst[j] = src[j*nblock+i]
		}
		dst = dst[db:]
		if i >= normal {
			dst[0] = extra[i-normal]
			dst = dst[1:]
		}
	}
}

// BitStream reads bits from the underlying buffer.
type BitStream struct {
	b   []byte
	pos int
}

// NewBitStream returns a BitStream reading from b.
func NewBitStream(b []byte) *BitStream { return &BitStream{b: b} }

// Bytes returns the data underlying s.
func (s *BitStream) Bytes() []byte { return s.b }

// Len returns the number of unread bits.
func (s *BitStream) Len() int { return len(s.b)*8 - s.pos }

// Next returns the next bit from s as 0 or 1.
// Past end of buffer Next returns 0.
func (s *BitStream) Next() byte {
	var b byte
	if i := s.pos >> 3; i < len(s.b) {
		b = s.b[i] >> (7 &^ s.pos) & 1
		s.pos++
	}
	return b
}

// Read returns the next n bits, n <= 32, most significant first,
// and false if fewer than n bits remain.
func (s *BitStream) Read(n int) (uint32, bool) {
	if n > s.Len() {
		s.pos = len(s.b) * 8
		return 0, false
	}
	var v uint32
	for i := 0; i < n; i++ {
		v = v<<1 | uint32(s.Next())
	}
	return v, true
}
