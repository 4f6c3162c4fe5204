// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
)

// Split modes, in the order used by the optimiser.
const (
	numMode    = iota // numeric
	alphaMode         // alphanumeric
	kanjiMode         // kanji
	byteMode          // byte
	nmodes            // total number of modes

	numModes   = 1<<numMode | 1<<alphaMode | 1<<byteMode
	alphaModes = 1<<alphaMode | 1<<byteMode
	kanjiModes = 1<<byteMode | 1<<kanjiMode
	byteModes  = 1 << byteMode
)

var splitModes = [nmodes]Mode{Numeric, Alphanumeric, Kanji, Byte}

// splitBits[m] returns the segment size in bits for a string of n
// bytes and k kanji encoded in mode m in the given size class.
var splitBits = [nmodes]func(n, k, class int) int{
	func(n, k, class int) int { return 14 + class*2 + (10*n+2)/3 },
	func(n, k, class int) int { return 13 + class*2 + (11*n+1)/2 },
	func(n, k, class int) int { return 12 + class*2 + k*13 },
	func(n, k, class int) int { return 12 + (class<<1>>class+n)*8 },
}

type (
	// segment describes a segment encoded in a certain mode.
	segment struct {
		next   *segment // link to next segment in the chain
		start  int      // start of string
		slen   int      // length of string in bytes
		klen   int      // length of string in kanji
		weight int      // encoded size of all segments in the chain
		mode   byte     // encoding mode
	}

	// span describes a span of bytes encodable in the same modes.
	span struct {
		start int             // start of string
		slen  int             // length of string in bytes
		klen  int             // length of string in kanji
		modes byte            // bit field of valid encoding modes
		seg   [nmodes]segment // segments
	}
)

// isKanji reports whether r is encodable in kanji mode.
func isKanji(r rune) bool {
	if r < utf8.RuneSelf {
		return false
	}
	s, err := japanese.ShiftJIS.NewEncoder().String(string(r))
	return err == nil && isQRKanji(s)
}

// classify splits text into spans of bytes encodable in the same modes.
func classify(text string) []span {
	if text == "" {
		return nil
	}
	const (
		alpha = 0x07ff_fffe_07ff_ec31 // SPACE $% *+ -./ [0-9] : [A-Z]
		digit = 0x0000_0000_03ff_0000 // [0-9]
	)

	// Detect valid encoding modes for each byte.  Continuation bytes
	// of a multibyte character are left zero.
	modes := make([]byte, len(text))
	common := ^byte(0) // bit field of modes common to all spans
	n := 0
	m := byte(0)
	for i, r := range text {
		old := m
		m = byteModes
		if bit := uint64(1) << (uint(r) - ' '); digit&bit != 0 {
			m = numModes
		} else if alpha&bit != 0 {
			m = alphaModes
		} else if isKanji(r) {
			m = kanjiModes
		}
		modes[i] = m
		if m != old {
			common &= m
			n++
		}
	}

	mask := ^common | -common // mask common modes except the lowest

	sp := make([]span, n)
	old, n := byte(0), 0
	for i, v := range modes {
		if v != 0 && v != old {
			if i != 0 {
				sp[n].slen = i - sp[n].start
				n++
			}
			sp[n].start = i
			sp[n].modes = v & mask
			old = v
		}
		if v == kanjiModes {
			sp[n].klen++
		}
	}
	sp[n].slen = len(modes) - sp[n].start
	return sp
}

/*
split returns the optimal split for the string described by sp in the
given size class.

For the last span, for each valid mode j, create a segment
sp[len(sp)-1].seg[j] describing the span encoded in mode j, weighted
by its encoded length in bits.

Then walk backwards through the rest of the spans.  For span i and
each valid mode j, link a segment to each valid sp[i+1].seg[k],
merging the two if k == j, and keep the lightest chain in sp[i].seg[j].

Return the lightest segment in sp[0].seg.
*/
func split(sp []span, class int) *segment {
	const Inf = 1 << 30
	i := len(sp) - 1
	if i < 0 {
		return nil
	}
	for j := byte(0); j < nmodes; j++ {
		seg := &sp[i].seg[j]
		*seg = segment{weight: Inf}
		if sp[i].modes>>j&1 != 0 {
			*seg = segment{
				start:  sp[i].start,
				slen:   sp[i].slen,
				klen:   sp[i].klen,
				weight: splitBits[j](sp[i].slen, sp[i].klen, class),
				mode:   j,
			}
		}
	}

	for i--; i >= 0; i-- {
		v := &sp[i]
		for j := byte(0); j < nmodes; j++ {
			seg := &v.seg[j]
			*seg = segment{weight: Inf}
			if v.modes>>j&1 == 0 {
				continue
			}
			weight := splitBits[j](v.slen, v.klen, class)
			ns := &sp[i+1].seg
			for k := byte(0); k < nmodes; k++ {
				next := &ns[k]
				if next.weight == Inf {
					continue
				}
				c := segment{
					next:   next,
					start:  v.start,
					slen:   v.slen,
					klen:   v.klen,
					weight: weight,
					mode:   j,
				}
				if k == j {
					c.slen += next.slen
					c.klen += next.klen
					c.next = next.next
					c.weight = splitBits[j](c.slen, c.klen, class)
				}
				if c.next != nil {
					c.weight += c.next.weight
				}
				if c.weight < seg.weight {
					*seg = c
				}
			}
		}
	}

	seg := &sp[0].seg[0]
	for j := 1; j < nmodes; j++ {
		if sp[0].seg[j].weight < seg.weight {
			seg = &sp[0].seg[j]
		}
	}
	return seg
}

// Split returns the shortest sequence of numeric, alphanumeric, kanji
// and byte segments encoding text in the given size class, and its
// encoded length in bits.
func Split(text string, class int) ([]Segment, int) {
	seg := split(classify(text), class)
	if seg == nil {
		return nil, 0
	}
	weight := seg.weight
	var segs []Segment
	for ; seg != nil; seg = seg.next {
		segs = append(segs, Segment{
			Text: text[seg.start : seg.start+seg.slen],
			Mode: splitModes[seg.mode],
		})
	}
	return segs, weight
}
