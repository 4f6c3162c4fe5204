// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "errors"

// A Symbol is a finished QR code.
type Symbol struct {
	Bitmap  *Bitmap // size x size modules, every one drawn
	Version Version
	Level   Level
	Mask    Mask
}

// Size returns the number of modules on a side.
func (s *Symbol) Size() int { return s.Version.Size() }

// Encoder encodes segments into a QR code of a fixed version and level.
type Encoder struct {
	v Version
	l Level
	b *Bits
}

// NewEncoder returns an Encoder for the given version and level.
func NewEncoder(v Version, l Level) (*Encoder, error) {
	if !v.Valid() {
		return nil, &ValidationError{What: "version", Value: int(v)}
	}
	if !l.Valid() {
		return nil, &ValidationError{What: "level", Value: int(l)}
	}
	return &Encoder{v: v, l: l, b: NewBits(v)}, nil
}

// Write adds segments to e.
func (e *Encoder) Write(segs ...Segment) error {
	class := e.v.SizeClass()
	for _, seg := range segs {
		if err := seg.Encode(e.b, class); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) Reset() { e.b.Reset() }

// Code returns the QR code containing the data written to e, masked
// with m, or with the best mask if m is AutoMask.
func (e *Encoder) Code(m Mask) (*Symbol, error) {
	if m != AutoMask && !m.Valid() {
		return nil, &ValidationError{What: "mask", Value: int(m)}
	}
	if have := e.v.DataBits(e.l); e.b.Bits() > have {
		return nil, &CapacityError{What: "bits", Need: e.b.Bits(), Have: have}
	}
	// Work on a copy so that e can be reused.
	b := &Bits{b: append(make([]byte, 0, vtab[e.v].bytes), e.b.b...), nbit: e.b.nbit}
	b.AddCheckBytes(e.v, e.l)
	bm, m := DrawBest(e.v, e.l, b.Interleave(e.v, e.l), m)
	bm.AssertDrawn()
	return &Symbol{Bitmap: bm, Version: e.v, Level: e.l, Mask: m}, nil
}

// Options control EncodeText.
type Options struct {
	Level   Level   // error correction level
	Version Version // 0 selects the smallest version that fits
	Mask    Mask    // AutoMask selects the mask with the lowest penalty
	Mode    Mode    // Auto detects the most compact mode

	// Optimize splits the text into mixed mode segments using Split.
	// Mode is ignored.
	Optimize bool
}

// DefaultOptions are the options used by the convenience API.
var DefaultOptions = Options{Level: M, Mask: AutoMask}

// EncodeText returns a QR code holding text as a single segment.
func EncodeText(text string, opt Options) (*Symbol, error) {
	if opt.Optimize {
		return encodeSplit(text, opt)
	}
	return EncodeSegments([]Segment{{Text: text, Mode: opt.Mode}}, opt)
}

// encodeSplit encodes text split into segments for the size class of
// each version tried.
func encodeSplit(text string, opt Options) (*Symbol, error) {
	if opt.Version != 0 {
		segs, _ := Split(text, opt.Version.SizeClass())
		return EncodeSegments(segs, opt)
	}
	var (
		segs []Segment
		err  error
	)
	for v := MinVersion; v <= MaxVersion; v++ {
		if v == MinVersion || v.SizeClass() != (v - 1).SizeClass() {
			segs, _ = Split(text, v.SizeClass())
		}
		var s *Symbol
		if s, err = encodeVersion(segs, v, opt); err == nil {
			return s, nil
		}
		var ce *CapacityError
		if !errors.As(err, &ce) {
			return nil, err
		}
	}
	return nil, err
}

// EncodeSegments returns a QR code holding segs.  opt.Mode is ignored.
// Without a version the smallest one that fits is chosen.
func EncodeSegments(segs []Segment, opt Options) (*Symbol, error) {
	if !opt.Level.Valid() {
		return nil, &ValidationError{What: "level", Value: int(opt.Level)}
	}
	if opt.Mask != AutoMask && !opt.Mask.Valid() {
		return nil, &ValidationError{What: "mask", Value: int(opt.Mask)}
	}
	if opt.Version != 0 {
		return encodeVersion(segs, opt.Version, opt)
	}
	var err error
	for v := MinVersion; v <= MaxVersion; v++ {
		var s *Symbol
		if s, err = encodeVersion(segs, v, opt); err == nil {
			return s, nil
		}
		var ce *CapacityError
		if !errors.As(err, &ce) {
			return nil, err
		}
	}
	return nil, err
}

func encodeVersion(segs []Segment, v Version, opt Options) (*Symbol, error) {
	e, err := NewEncoder(v, opt.Level)
	if err != nil {
		return nil, err
	}
	if err := e.Write(segs...); err != nil {
		return nil, err
	}
	return e.Code(opt.Mask)
}
