// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package dual implements two level QR codes.

A two level code is a standard QR code whose black data modules may be
drawn as one of eight glyphs, each carrying a 3 bit symbol.  Public
decoders that sample each module by majority, like package scan, see
an ordinary code.  The private channel is a sequence of
symbols protected by Reed-Solomon codes over GF(8) and scrambled with
a key.

The private payload is converted to symbols (see Symbols) and split
into blocks of 7-t symbols, t being the number of check symbols per
block; the last block may be shorter.  Each block gets t check
symbols.  The concatenated codeword is scrambled and written, one
symbol per module, to the replaceable modules in row order.  The
remaining replaceable modules stay solid.
*/
package dual // import "github.com/unixdj/dualqr/dual"

import (
	"image"
	"strconv"

	"github.com/pkg/errors"

	"github.com/unixdj/dualqr/coding"
	"github.com/unixdj/dualqr/gf"
	"github.com/unixdj/dualqr/rs"
	"github.com/unixdj/dualqr/scan"
	"github.com/unixdj/dualqr/scramble"
)

// BlockSize is the length of a full private block in symbols.
const BlockSize = 7

// DefaultECCWords is the default number of check symbols per block.
const DefaultECCWords = 2

// A PatternMap holds the symbol of each module of a code, indexed
// [y][x], or -1 for modules without one.
type PatternMap [][]int8

func newPatternMap(size int) PatternMap {
	m := make(PatternMap, size)
	cells := make([]int8, size*size)
	for i := range cells {
		cells[i] = -1
	}
	for y := range m {
		m[y] = cells[y*size : (y+1)*size]
	}
	return m
}

// At returns the symbol at (x, y) and whether there is one.
func (m PatternMap) At(x, y int) (int, bool) {
	if y < 0 || y >= len(m) || x < 0 || x >= len(m[y]) || m[y][x] < 0 {
		return 0, false
	}
	return int(m[y][x]), true
}

// Count returns the number of modules with a symbol.
func (m PatternMap) Count() int {
	n := 0
	for _, row := range m {
		for _, s := range row {
			if s >= 0 {
				n++
			}
		}
	}
	return n
}

// Options control Encode.
type Options struct {
	Level    coding.Level   // error correction level of the public code
	Version  coding.Version // 0 selects the smallest version that fits
	Mask     coding.Mask    // coding.AutoMask selects the best mask
	Mode     coding.Mode    // public encoding mode
	Optimize bool           // split the public text into mixed modes

	Private  []byte // private payload; nil for a plain code
	Key      []byte // scrambling key, required with Private
	ECCWords int    // check symbols per block, 1 to 6; 0 for the default
}

// DefaultOptions are level M, automatic version and mask and
// DefaultECCWords check symbols.
var DefaultOptions = Options{Level: coding.M, Mask: coding.AutoMask}

// A Code is an encoded two level code.
type Code struct {
	Bitmap   *coding.Bitmap // public modules
	Patterns PatternMap     // private symbols
	Version  coding.Version
	Level    coding.Level
	Mask     coding.Mask
}

// Size returns the number of modules on a side.
func (c *Code) Size() int { return c.Bitmap.Width() }

func checkECCWords(t int) error {
	if t <= 0 || t >= BlockSize {
		return &coding.ValidationError{What: "ECC words", Value: t}
	}
	return nil
}

// blocks returns the lengths of the messages of the blocks of a
// codeword with n message symbols and t check symbols per block.
func blocks(n, t int) []int {
	k := BlockSize - t
	var lens []int
	for ; n > k; n -= k {
		lens = append(lens, k)
	}
	return append(lens, n)
}

// codewordBlocks returns the message lengths of the blocks of a
// received codeword of n symbols.  Every block but the last is full,
// and the last must hold more than t symbols.
func codewordBlocks(n, t int) ([]int, error) {
	var lens []int
	for ; n > BlockSize; n -= BlockSize {
		lens = append(lens, BlockSize-t)
	}
	if n <= t {
		return nil, &coding.DecodeError{What: "private codeword length",
			Err: &coding.ValidationError{What: "ECC words", Value: t}}
	}
	return append(lens, n-t), nil
}

// PrivateLength returns the length in symbols of the private codeword
// for a payload of n bytes with t check symbols per block.
func PrivateLength(n, t int) int {
	m := (n*8 + 3) / 3
	return m + len(blocks(m, t))*t
}

func toElems(s []byte) []gf.Elem {
	e := make([]gf.Elem, len(s))
	for i, v := range s {
		e[i] = gf.Elem(v)
	}
	return e
}

// encodePrivate returns the RS protected symbols of payload.
func encodePrivate(payload []byte, t int) []byte {
	msg := Symbols(payload)
	c := rs.NewCodec(gf.GF8, t)
	cw := make([]byte, 0, len(msg)+len(blocks(len(msg), t))*t)
	for _, k := range blocks(len(msg), t) {
		for _, e := range c.Encode(toElems(msg[:k])) {
			cw = append(cw, byte(e))
		}
		msg = msg[k:]
	}
	return cw
}

// decodePrivate corrects cw and returns its message symbols and the
// number of symbols corrected.
func decodePrivate(cw []byte, t int) ([]byte, int, error) {
	lens, err := codewordBlocks(len(cw), t)
	if err != nil {
		return nil, 0, err
	}
	c := rs.NewCodec(gf.GF8, t)
	var msg []byte
	corrected := 0
	for i, k := range lens {
		blk := toElems(cw[:k+t])
		n, err := c.Correct(blk)
		if err != nil {
			return nil, 0, &coding.DecodeError{
				What: "private block " + strconv.Itoa(i), Err: err}
		}
		corrected += n
		for _, e := range blk[:k] {
			msg = append(msg, byte(e))
		}
		cw = cw[k+t:]
	}
	return msg, corrected, nil
}

// Encode returns a two level code with public text and the private
// payload opt.Private.
func Encode(public string, opt Options) (*Code, error) {
	sym, err := coding.EncodeText(public, coding.Options{
		Level:    opt.Level,
		Version:  opt.Version,
		Mask:     opt.Mask,
		Mode:     opt.Mode,
		Optimize: opt.Optimize,
	})
	if err != nil {
		return nil, errors.Wrap(err, "dual: public code")
	}
	code := &Code{
		Bitmap:   sym.Bitmap,
		Patterns: newPatternMap(sym.Size()),
		Version:  sym.Version,
		Level:    sym.Level,
		Mask:     sym.Mask,
	}
	if opt.Private == nil {
		return code, nil
	}
	t := opt.ECCWords
	if t == 0 {
		t = DefaultECCWords
	}
	if err := checkECCWords(t); err != nil {
		return nil, err
	}
	s, err := scramble.New(opt.Key)
	if err != nil {
		return nil, errors.Wrap(err, "dual: key")
	}
	pts, err := ReplaceableModules(sym.Bitmap, sym.Version)
	if err != nil {
		return nil, err
	}
	cw := encodePrivate(opt.Private, t)
	if len(cw) > len(pts) {
		return nil, &coding.CapacityError{What: "private symbols",
			Need: len(cw), Have: len(pts)}
	}
	p, err := s.Scramble(cw)
	if err != nil {
		return nil, errors.Wrap(err, "dual: scramble")
	}
	for i, v := range p {
		pt := pts[i]
		code.Bitmap.Set(pt.X, pt.Y, true)
		code.Patterns[pt.Y][pt.X] = int8(v)
	}
	return code, nil
}

// Capacity returns the number of private symbols a code can carry.
func (c *Code) Capacity() int {
	pts, _ := ReplaceableModules(c.Bitmap, c.Version)
	return len(pts)
}

// DecodeOptions control Decode.
type DecodeOptions struct {
	Key      []byte // scrambling key
	ECCWords int    // check symbols per block used to encode
}

// A Result is a decoded two level code.
type Result struct {
	Public    string
	Private   []byte
	Version   coding.Version
	Level     coding.Level
	Mask      coding.Mask
	Corrected int // private symbols corrected
}

// Decode decodes the two level code in img.
func Decode(img image.Image, opt DecodeOptions) (*Result, error) {
	if err := checkOptions(opt); err != nil {
		return nil, err
	}
	g, err := scan.Image(img)
	if err != nil {
		return nil, errors.Wrap(err, "dual: scan")
	}
	return DecodeGrid(g, opt)
}

func checkOptions(opt DecodeOptions) error {
	if err := checkECCWords(opt.ECCWords); err != nil {
		return err
	}
	if len(opt.Key) == 0 {
		return &coding.ValidationError{What: "key", Value: "<empty>"}
	}
	return nil
}

// DecodeGrid decodes a sampled two level code.
func DecodeGrid(g *scan.Grid, opt DecodeOptions) (*Result, error) {
	if err := checkOptions(opt); err != nil {
		return nil, err
	}
	pub, err := coding.Decode(g.Modules)
	if err != nil {
		return nil, errors.Wrap(err, "dual: public code")
	}
	pts, err := ReplaceableModules(g.Modules, pub.Version)
	if err != nil {
		return nil, err
	}
	if len(pts) == 0 {
		return nil, &coding.DecodeError{What: "no replaceable modules"}
	}
	var p []byte
	for _, pt := range pts {
		s, _ := Classify(g.At(pt.X, pt.Y))
		if s < 0 {
			break
		}
		p = append(p, byte(s))
	}
	if len(p) == 0 {
		return nil, &coding.DecodeError{What: "no private symbols"}
	}
	cw, err := scramble.Descramble(p, opt.Key)
	if err != nil {
		return nil, errors.Wrap(err, "dual: descramble")
	}
	msg, n, err := decodePrivate(cw, opt.ECCWords)
	if err != nil {
		return nil, err
	}
	priv, err := Bytes(msg)
	if err != nil {
		return nil, err
	}
	return &Result{
		Public:    pub.Text,
		Private:   priv,
		Version:   pub.Version,
		Level:     pub.Level,
		Mask:      pub.Mask,
		Corrected: n,
	}, nil
}
