// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package scramble hides a codeword of 3 bit symbols behind a key.

Scrambling permutes the symbols with a key dependent permutation and
XORs each with a key dependent 3 bit value:

	p[i] = c[perm[i]] ^ h(K', i)

where K' is HKDF-SHA-256 key material derived from the key and
h(K', i) is the low 3 bits of the first byte of SHA-256(K' || i), i a
32 bit big endian integer.  The permutation is a Fisher-Yates shuffle
driven by an HKDF-Expand stream.
*/
package scramble // import "github.com/unixdj/dualqr/scramble"

import (
	"bufio"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/unixdj/dualqr/coding"
)

// KeySize is the length of derived key material in bytes.
const KeySize = 32

// MaxSymbol is the largest symbol value.
const MaxSymbol = 7

const permInfo = "2lqr permutation"

// ErrUnavailable is wrapped by a CryptoError when key derivation
// fails.
var ErrUnavailable = errors.New("crypto unavailable")

// A CryptoError reports a failure of the underlying primitives.
type CryptoError struct {
	Op  string // failed operation
	Err error
}

func (e *CryptoError) Error() string {
	return "scramble: " + e.Op + ": " + e.Err.Error()
}

func (e *CryptoError) Unwrap() []error { return []error{ErrUnavailable, e.Err} }

// DeriveKey returns KeySize bytes of HKDF-SHA-256 key material for key,
// with no salt and no info.
func DeriveKey(key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, &coding.ValidationError{What: "key", Value: "<empty>"}
	}
	km := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, key, nil, nil), km); err != nil {
		return nil, &CryptoError{Op: "derive key", Err: err}
	}
	return km, nil
}

// expandLimit is the output limit of a single HKDF-Expand.
const expandLimit = 255 * sha256.Size

// expandStream is an unbounded HKDF-Expand output stream.  A single
// Expand is limited to expandLimit bytes, so the stream chains Expands
// with a block counter appended to the info after the first.
type expandStream struct {
	km    []byte
	info  []byte
	block uint32
	left  int // bytes left in r
	r     io.Reader
}

func (s *expandStream) Read(p []byte) (int, error) {
	if s.left == 0 {
		info := s.info
		if s.block != 0 {
			info = binary.BigEndian.AppendUint32(info[:len(info):len(info)], s.block)
		}
		s.r = hkdf.Expand(sha256.New, s.km, info)
		s.left = expandLimit
		s.block++
	}
	if len(p) > s.left {
		p = p[:s.left]
	}
	n, err := s.r.Read(p)
	s.left -= n
	if err != nil {
		return n, &CryptoError{Op: "expand", Err: err}
	}
	return n, nil
}

// Permutation returns a permutation of [0, n) derived from the key
// material km.
func Permutation(km []byte, n int) ([]int, error) {
	info := binary.BigEndian.AppendUint32([]byte(permInfo), uint32(n))
	r := bufio.NewReader(&expandStream{km: km, info: info})
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	var buf [4]byte
	for i := n - 1; i > 0; i-- {
		// Uniform j in [0, i] by rejection sampling.
		bound := uint64(i) + 1
		limit := (1 << 32) / bound * bound
		var v uint64
		for {
			if _, err := io.ReadFull(r, buf[:]); err != nil {
				return nil, &CryptoError{Op: "permutation", Err: err}
			}
			if v = uint64(binary.BigEndian.Uint32(buf[:])); v < limit {
				break
			}
		}
		j := int(v % bound)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm, nil
}

// mask returns h(km, i).
func mask(km []byte, i int) byte {
	h := sha256.New()
	h.Write(km)
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(i))
	h.Write(b[:])
	var sum [sha256.Size]byte
	return h.Sum(sum[:0])[0] & MaxSymbol
}

// A Scrambler scrambles codewords with a fixed key.
type Scrambler struct {
	km []byte
}

// New returns a Scrambler for key.
func New(key []byte) (*Scrambler, error) {
	km, err := DeriveKey(key)
	if err != nil {
		return nil, err
	}
	return &Scrambler{km: km}, nil
}

func checkSymbols(c []byte) error {
	for _, v := range c {
		if v > MaxSymbol {
			return &coding.ValidationError{What: "symbol", Value: int(v)}
		}
	}
	return nil
}

// Scramble returns c scrambled.  Symbols must not exceed MaxSymbol.
func (s *Scrambler) Scramble(c []byte) ([]byte, error) {
	if err := checkSymbols(c); err != nil {
		return nil, err
	}
	perm, err := Permutation(s.km, len(c))
	if err != nil {
		return nil, err
	}
	p := make([]byte, len(c))
	for i, j := range perm {
		p[i] = c[j] ^ mask(s.km, i)
	}
	return p, nil
}

// Descramble reverses Scramble.
func (s *Scrambler) Descramble(p []byte) ([]byte, error) {
	if err := checkSymbols(p); err != nil {
		return nil, err
	}
	perm, err := Permutation(s.km, len(p))
	if err != nil {
		return nil, err
	}
	c := make([]byte, len(p))
	for i, j := range perm {
		c[j] = p[i] ^ mask(s.km, i)
	}
	return c, nil
}

// Scramble scrambles c with key.
func Scramble(c, key []byte) ([]byte, error) {
	s, err := New(key)
	if err != nil {
		return nil, err
	}
	return s.Scramble(c)
}

// Descramble descrambles p with key.
func Descramble(p, key []byte) ([]byte, error) {
	s, err := New(key)
	if err != nil {
		return nil, err
	}
	return s.Descramble(p)
}
