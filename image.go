// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bytes"
	"image/gif"
	"image/png"
	"io"
)

var pngEncoder = png.Encoder{CompressionLevel: png.BestCompression}

// EncodePNG writes a PNG image displaying the code to w.  The image is
// paletted, at a bit depth of 1.
func (c *Code) EncodePNG(w io.Writer) error {
	if w == nil || !c.isValid() {
		return ErrArgs
	}
	return pngEncoder.Encode(w, c.Image())
}

// PNG returns a PNG image displaying the code, or nil if c is not
// valid.
func (c *Code) PNG() []byte {
	var b bytes.Buffer
	if err := c.EncodePNG(&b); err != nil {
		return nil
	}
	return b.Bytes()
}

// EncodeGIF writes a GIF image displaying the code to w.
func (c *Code) EncodeGIF(w io.Writer) error {
	if w == nil || !c.isValid() {
		return ErrArgs
	}
	return gif.Encode(w, c.Image(), &gif.Options{NumColors: 2})
}
