// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dual

import (
	"github.com/unixdj/dualqr/coding"
	"github.com/unixdj/dualqr/scramble"
)

// Symbols converts b to 3 bit symbols.  The bits of b, most significant
// first, are followed by a single 1 bit and zero bits up to a multiple
// of 3.  The result is never empty.
func Symbols(b []byte) []byte {
	n := len(b)*8 + 1
	s := make([]byte, (n+2)/3)
	bit := func(i int) byte {
		switch {
		case i < len(b)*8:
			return b[i/8] >> (7 - i%8) & 1
		case i == len(b)*8:
			return 1
		}
		return 0
	}
	for i := range s {
		s[i] = bit(3*i)<<2 | bit(3*i+1)<<1 | bit(3*i+2)
	}
	return s
}

// Bytes reverses Symbols: the bits before the last 1 bit, truncated to
// whole bytes.
func Bytes(s []byte) ([]byte, error) {
	last := -1
	for i, v := range s {
		if v > scramble.MaxSymbol {
			return nil, &coding.ValidationError{What: "symbol", Value: int(v)}
		}
		for j := 0; j < 3; j++ {
			if v>>(2-j)&1 != 0 {
				last = 3*i + j
			}
		}
	}
	if last < 0 {
		return nil, &coding.DecodeError{What: "private data terminator"}
	}
	b := make([]byte, last/8)
	for i := range b {
		for j := 0; j < 8; j++ {
			k := 8*i + j
			b[i] = b[i]<<1 | s[k/3]>>(2-k%3)&1
		}
	}
	return b, nil
}
