// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr_test

import (
	"fmt"
	"log"

	qr "github.com/unixdj/dualqr"
	"github.com/unixdj/dualqr/dual"
)

func ExampleEncode() {
	c, err := qr.Encode("HELLO WORLD", qr.Q)
	if err != nil {
		log.Fatalln(err)
	}
	fmt.Println(c.Version, c.Level, c.Size)
	r, err := qr.Decode(c.Image())
	if err != nil {
		log.Fatalln(err)
	}
	fmt.Println(r.Text)
	// Output:
	// 1 Q 21
	// HELLO WORLD
}

func ExampleEncode2L() {
	key := []byte("swordfish")
	c, err := qr.Encode2L("https://example.com/", []byte("the eagle has landed"),
		key, dual.DefaultOptions)
	if err != nil {
		log.Fatalln(err)
	}
	r, err := qr.Decode2L(c.Image(), key, dual.DefaultECCWords)
	if err != nil {
		log.Fatalln(err)
	}
	fmt.Printf("%s\n%s\n", r.Public, r.Private)
	// Output:
	// https://example.com/
	// the eagle has landed
}
