// Copyright 2010 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gf implements arithmetic over the binary Galois fields
// GF(2^m), 2 <= m <= 10, and polynomials with coefficients in them.
//
// Elements are represented as integers whose bits are the coefficients
// of a polynomial over GF(2) of degree less than m.  Each field is
// defined by a primitive polynomial of degree m, with 2 (the
// polynomial x) as the generator α.
package gf // import "github.com/unixdj/dualqr/gf"

import "strconv"

// An Elem is a field element.
type Elem uint16

// A Field represents GF(2^m).
type Field struct {
	bits int    // m
	poly int    // primitive polynomial, including x^m
	log  []int  // log[0] is unused
	exp  []Elem // α^i for 0 <= i < 2*(Size()-1)
}

// Predefined fields.
var (
	GF256  = NewField(0x11d, 8)  // x^8 + x^4 + x^3 + x^2 + 1, QR codes
	GF8    = NewField(0b1011, 3) // x^3 + x + 1, 2LQR private channel
	GF1024 = NewField(0x409, 10) // x^10 + x^3 + 1
)

// NewField returns a new field corresponding to the polynomial poly of
// degree bits.  NewField panics if poly is not primitive, that is, if
// powers of x do not generate all non-zero elements.
func NewField(poly, bits int) *Field {
	if bits < 2 || bits > 10 || poly>>bits != 1 {
		panic("gf: invalid field size or polynomial")
	}
	n := 1 << bits
	f := &Field{
		bits: bits,
		poly: poly,
		log:  make([]int, n),
		exp:  make([]Elem, 2*(n-1)),
	}
	x := 1
	for i := 0; i < n-1; i++ {
		if x == 1 && i != 0 {
			panic("gf: polynomial " + strconv.Itoa(poly) +
				" is not primitive")
		}
		f.exp[i] = Elem(x)
		f.exp[i+n-1] = Elem(x)
		f.log[x] = i
		x <<= 1
		if x&n != 0 {
			x ^= poly
		}
	}
	if x != 1 {
		panic("gf: polynomial " + strconv.Itoa(poly) + " is not primitive")
	}
	return f
}

// Bits returns m, the number of bits in a field element.
func (f *Field) Bits() int { return f.bits }

// Size returns the number of elements in the field, 2^m.
func (f *Field) Size() int { return 1 << f.bits }

// Poly returns the primitive polynomial defining the field.
func (f *Field) Poly() int { return f.poly }

// Add returns the sum of x and y.  Subtraction is the same operation.
func (f *Field) Add(x, y Elem) Elem { return x ^ y }

// Exp returns the base-α exponential of e, that is, α^e.
// e may be negative.
func (f *Field) Exp(e int) Elem {
	ord := f.Size() - 1
	if e %= ord; e < 0 {
		e += ord
	}
	return f.exp[e]
}

// Log returns the base-α logarithm of x.  Log panics if x is 0.
func (f *Field) Log(x Elem) int {
	if x == 0 {
		panic("gf: log of zero")
	}
	return f.log[x]
}

// Inv returns the multiplicative inverse of x.  Inv panics if x is 0.
func (f *Field) Inv(x Elem) Elem {
	if x == 0 {
		panic("gf: inverse of zero")
	}
	return f.exp[f.Size()-1-f.log[x]]
}

// Mul returns the product of x and y.
func (f *Field) Mul(x, y Elem) Elem {
	if x == 0 || y == 0 {
		return 0
	}
	return f.exp[f.log[x]+f.log[y]]
}

// Div returns x divided by y.  Div panics if y is 0.
func (f *Field) Div(x, y Elem) Elem {
	if y == 0 {
		panic("gf: division by zero")
	}
	if x == 0 {
		return 0
	}
	return f.Exp(f.log[x] - f.log[y])
}

// Pow returns x raised to the power e.  Pow(x, 0) is 1 for any x,
// including 0.  e may be negative if x is not 0.
func (f *Field) Pow(x Elem, e int) Elem {
	if e == 0 {
		return 1
	}
	if x == 0 {
		if e < 0 {
			panic("gf: negative power of zero")
		}
		return 0
	}
	return f.Exp(f.log[x] * e)
}

// Valid reports whether x is an element of f.
func (f *Field) Valid(x Elem) bool { return int(x) < f.Size() }
