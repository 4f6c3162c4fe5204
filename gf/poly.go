// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gf

// A Poly is a polynomial over a Field, coefficients listed from the
// highest degree down.  The canonical form has no leading zeros, and
// the zero polynomial is Poly{0}.  Functions returning a Poly return
// it in canonical form.
type Poly []Elem

// Strip returns p without leading zero coefficients.
func Strip(p Poly) Poly {
	for len(p) > 1 && p[0] == 0 {
		p = p[1:]
	}
	if len(p) == 0 {
		return Poly{0}
	}
	return p
}

// Monomial returns c·x^degree.
func Monomial(degree int, c Elem) Poly {
	if c == 0 {
		return Poly{0}
	}
	p := make(Poly, degree+1)
	p[0] = c
	return p
}

// Degree returns the degree of p.  The zero polynomial has degree 0.
func (p Poly) Degree() int { return len(Strip(p)) - 1 }

// IsZero reports whether p is the zero polynomial.
func (p Poly) IsZero() bool {
	for _, c := range p {
		if c != 0 {
			return false
		}
	}
	return true
}

// Coeff returns the coefficient of x^degree in p.
func (p Poly) Coeff(degree int) Elem {
	if degree < 0 || degree >= len(p) {
		return 0
	}
	return p[len(p)-1-degree]
}

// Lead returns the leading coefficient of p.
func (p Poly) Lead() Elem { return Strip(p)[0] }

// AddPoly returns a + b.
func (f *Field) AddPoly(a, b Poly) Poly {
	if len(a) < len(b) {
		a, b = b, a
	}
	r := make(Poly, len(a))
	copy(r, a)
	off := len(a) - len(b)
	for i, c := range b {
		r[off+i] ^= c
	}
	return Strip(r)
}

// MulPoly returns a·b.
func (f *Field) MulPoly(a, b Poly) Poly {
	a, b = Strip(a), Strip(b)
	if a.IsZero() || b.IsZero() {
		return Poly{0}
	}
	r := make(Poly, len(a)+len(b)-1)
	for i, x := range a {
		if x == 0 {
			continue
		}
		for j, y := range b {
			r[i+j] ^= f.Mul(x, y)
		}
	}
	return Strip(r)
}

// Scale returns c·p.
func (f *Field) Scale(p Poly, c Elem) Poly {
	if c == 0 {
		return Poly{0}
	}
	r := make(Poly, len(p))
	for i, x := range p {
		r[i] = f.Mul(x, c)
	}
	return Strip(r)
}

// MulMonomial returns c·x^degree·p.
func (f *Field) MulMonomial(p Poly, degree int, c Elem) Poly {
	if c == 0 || p.IsZero() {
		return Poly{0}
	}
	p = Strip(p)
	r := make(Poly, len(p)+degree)
	for i, x := range p {
		r[i] = f.Mul(x, c)
	}
	return r
}

// DivMod returns the quotient and remainder of a divided by b.
// DivMod panics if b is the zero polynomial.
func (f *Field) DivMod(a, b Poly) (q, r Poly) {
	a, b = Strip(a), Strip(b)
	if b.IsZero() {
		panic("gf: division by zero polynomial")
	}
	if len(a) < len(b) {
		return Poly{0}, a
	}
	r = make(Poly, len(a))
	copy(r, a)
	q = make(Poly, len(a)-len(b)+1)
	inv := f.Inv(b[0])
	for i := range q {
		c := f.Mul(r[i], inv)
		q[i] = c
		if c == 0 {
			continue
		}
		for j, y := range b {
			r[i+j] ^= f.Mul(c, y)
		}
	}
	return Strip(q), Strip(r[len(q):])
}

// Rem returns the remainder of a divided by b.
func (f *Field) Rem(a, b Poly) Poly {
	_, r := f.DivMod(a, b)
	return r
}

// Eval returns p(x), computed by Horner's rule.  Eval(p, 0) is the
// constant term.
func (f *Field) Eval(p Poly, x Elem) Elem {
	if x == 0 {
		return p.Coeff(0)
	}
	var y Elem
	for _, c := range p {
		y = f.Mul(y, x) ^ c
	}
	return y
}

// Derivative returns the formal derivative of p.  In characteristic 2
// the terms of even degree vanish, and those of odd degree lose their
// factor of x.
func (f *Field) Derivative(p Poly) Poly {
	n := len(p) - 1 // degree
	if n < 1 {
		return Poly{0}
	}
	r := make(Poly, n)
	for i, c := range p[:n] {
		if (n-i)&1 != 0 {
			r[i] = c
		}
	}
	return Strip(r)
}

// Generator returns the Reed-Solomon generator polynomial of degree t,
// the product of (x - α^i) for 0 <= i < t.
func (f *Field) Generator(t int) Poly {
	g := Poly{1}
	for i := 0; i < t; i++ {
		g = f.MulPoly(g, Poly{1, f.Exp(i)})
	}
	return g
}
