// Copyright 2010 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rs implements systematic Reed-Solomon encoding and decoding
// over the fields of package gf.
//
// A codeword is a message followed by t check symbols, listed from the
// highest degree coefficient down.  The generator polynomial has roots
// α^0 through α^(t-1), as in ISO 18004.  Up to t/2 symbol errors at
// unknown positions are corrected.
package rs // import "github.com/unixdj/dualqr/rs"

import (
	"errors"

	"github.com/unixdj/dualqr/gf"
)

// Decoding errors.
var (
	ErrTooManyErrors = errors.New("rs: too many errors")
	ErrLocator       = errors.New("rs: error locator degree mismatch")
	ErrSingular      = errors.New("rs: error evaluator denominator is zero")
	ErrLength        = errors.New("rs: codeword too long for field")
)

// A Codec encodes and decodes codewords with t check symbols.
type Codec struct {
	f   *gf.Field
	t   int
	gen gf.Poly
}

// NewCodec returns a Codec over f with t check symbols.
// NewCodec panics if t is not in [1, f.Size()-2].
func NewCodec(f *gf.Field, t int) *Codec {
	if t < 1 || t > f.Size()-2 {
		panic("rs: invalid number of check symbols")
	}
	return &Codec{f: f, t: t, gen: f.Generator(t)}
}

// Field returns the field the Codec operates in.
func (c *Codec) Field() *gf.Field { return c.f }

// Check returns the number of check symbols.
func (c *Codec) Check() int { return c.t }

// Parity returns the t check symbols for msg: the remainder of
// msg·x^t divided by the generator, zero-padded on the left to t.
func (c *Codec) Parity(msg []gf.Elem) []gf.Elem {
	p := make(gf.Poly, len(msg)+c.t)
	copy(p, msg)
	r := c.f.Rem(p, c.gen)
	out := make([]gf.Elem, c.t)
	copy(out[c.t-len(r):], r)
	return out
}

// Encode returns msg followed by its check symbols.
func (c *Codec) Encode(msg []gf.Elem) []gf.Elem {
	return append(append(make([]gf.Elem, 0, len(msg)+c.t), msg...),
		c.Parity(msg)...)
}

// syndromes returns the syndrome polynomial of cw, with the
// coefficient of x^i being cw(α^i), and whether it is zero.
func (c *Codec) syndromes(cw gf.Poly) (gf.Poly, bool) {
	s := make(gf.Poly, c.t)
	clean := true
	for i := 0; i < c.t; i++ {
		v := c.f.Eval(cw, c.f.Exp(i))
		s[c.t-1-i] = v
		if v != 0 {
			clean = false
		}
	}
	return s, clean
}

// Correct corrects errors in the codeword cw in place and returns the
// number of symbols corrected.  On error cw is left unmodified.
func (c *Codec) Correct(cw []gf.Elem) (int, error) {
	if len(cw) > c.f.Size()-1 {
		return 0, ErrLength
	}
	s, clean := c.syndromes(cw)
	if clean {
		return 0, nil
	}
	sigma, omega, err := c.euclid(s)
	if err != nil {
		return 0, err
	}
	locs, err := c.locations(sigma, len(cw))
	if err != nil {
		return 0, err
	}
	mags, err := c.magnitudes(omega, sigma, locs)
	if err != nil {
		return 0, err
	}
	fixed := make([]gf.Elem, len(cw))
	copy(fixed, cw)
	for i, x := range locs {
		fixed[len(cw)-1-c.f.Log(x)] ^= mags[i]
	}
	if _, clean := c.syndromes(fixed); !clean {
		return 0, ErrTooManyErrors
	}
	copy(cw, fixed)
	return len(locs), nil
}

// euclid runs the extended Euclidean algorithm on x^t and the syndrome
// polynomial s, stopping once the remainder has degree below t/2.  It
// returns the error locator σ, normalised so that σ(0) = 1, and the
// error evaluator ω.
func (c *Codec) euclid(s gf.Poly) (sigma, omega gf.Poly, err error) {
	f := c.f
	rLast, r := gf.Monomial(c.t, 1), gf.Strip(s)
	tLast, t := gf.Poly{0}, gf.Poly{1}
	for 2*r.Degree() >= c.t {
		rLastLast, tLastLast := rLast, tLast
		rLast, tLast = r, t
		if rLast.IsZero() {
			return nil, nil, ErrLocator
		}
		q, rem := f.DivMod(rLastLast, rLast)
		r = rem
		t = f.AddPoly(f.MulPoly(q, tLast), tLastLast)
		if !r.IsZero() && r.Degree() >= rLast.Degree() {
			return nil, nil, ErrLocator
		}
	}
	t0 := t.Coeff(0)
	if t0 == 0 {
		return nil, nil, ErrLocator
	}
	inv := f.Inv(t0)
	sigma, omega = f.Scale(t, inv), f.Scale(r, inv)
	if sigma.Degree() > c.t/2 {
		return nil, nil, ErrTooManyErrors
	}
	return sigma, omega, nil
}

// locations returns the error locators X, the inverses of the roots of
// σ, for a codeword of length n.
func (c *Codec) locations(sigma gf.Poly, n int) ([]gf.Elem, error) {
	f := c.f
	deg := sigma.Degree()
	locs := make([]gf.Elem, 0, deg)
	for x := 1; x < f.Size() && len(locs) < deg; x++ {
		if f.Eval(sigma, gf.Elem(x)) != 0 {
			continue
		}
		loc := f.Inv(gf.Elem(x))
		if f.Log(loc) >= n {
			return nil, ErrLocator
		}
		locs = append(locs, loc)
	}
	if len(locs) != deg {
		return nil, ErrLocator
	}
	return locs, nil
}

// magnitudes computes error values by Forney's formula.  The generator
// roots start at α^0, so each value carries an extra factor of X:
// e = X·ω(X⁻¹)/σ'(X⁻¹).
func (c *Codec) magnitudes(omega, sigma gf.Poly, locs []gf.Elem) ([]gf.Elem, error) {
	f := c.f
	d := f.Derivative(sigma)
	mags := make([]gf.Elem, len(locs))
	for i, x := range locs {
		xi := f.Inv(x)
		den := f.Eval(d, xi)
		if den == 0 {
			return nil, ErrSingular
		}
		mags[i] = f.Mul(x, f.Div(f.Eval(omega, xi), den))
	}
	return mags, nil
}

// ECC computes the check bytes for data over GF(2^8), writing them to
// check.  The number of check bytes is len(check).
func ECC(data, check []byte) {
	c := NewCodec(gf.GF256, len(check))
	msg := make([]gf.Elem, len(data))
	for i, b := range data {
		msg[i] = gf.Elem(b)
	}
	for i, e := range c.Parity(msg) {
		check[i] = byte(e)
	}
}

// CorrectBytes corrects a GF(2^8) codeword with nc check bytes in
// place and returns the number of bytes corrected.
func CorrectBytes(cw []byte, nc int) (int, error) {
	c := NewCodec(gf.GF256, nc)
	e := make([]gf.Elem, len(cw))
	for i, b := range cw {
		e[i] = gf.Elem(b)
	}
	n, err := c.Correct(e)
	if err != nil {
		return 0, err
	}
	for i, v := range e {
		cw[i] = byte(v)
	}
	return n, nil
}
