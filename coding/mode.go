// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"errors"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
)

// A Mode is a segment encoding mode.
type Mode int8

// Encoding modes.
const (
	Auto         Mode = iota // detect: Numeric, Alphanumeric or Byte
	Numeric                  // decimal digits
	Alphanumeric             // digits, upper case letters, " $%*+-./:"
	Byte                     // UTF-8 text
	Kanji                    // UTF-8 text encoded as Shift JIS double bytes
	Latin1                   // byte mode, UTF-8 text encoded as ISO 8859-1
)

// Mode indicators.
const (
	indTerminator   = 0
	indNumeric      = 1
	indAlphanumeric = 2
	indStructAppend = 3
	indByte         = 4
	indFNC1First    = 5
	indECI          = 7
	indKanji        = 8
	indFNC1Second   = 9
)

// alphabet lists alphanumeric characters in order of their values.
const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"

// A modeEncoder implements a segment encoding.
type modeEncoder struct {
	name      string
	indicator uint32

	// count lists lengths of the character count field in the
	// three size classes.
	count [3]int

	// accepts reports whether the transformed string may contain c.
	// If nil, any byte is accepted.
	accepts func(c byte) bool

	// transform converts text to the encoded byte string.
	// If nil, the text is used as is.
	transform func(string) (string, error)

	// chars returns the character count of the transformed string.
	// If nil, the length in bytes is used.
	chars func(string) int

	// encode writes the transformed string.
	encode func(b *Bits, s string)

	// bits returns the encoded length of a transformed string of
	// n bytes, excluding the header.
	bits func(n int) int
}

var modes = [...]modeEncoder{
	Numeric: {
		name:      "numeric",
		indicator: indNumeric,
		count:     [3]int{10, 12, 14},
		accepts:   func(c byte) bool { return '0' <= c && c <= '9' },
		encode: func(b *Bits, s string) {
			for ; len(s) >= 3; s = s[3:] {
				b.Write(uint32(s[0]-'0')*100+uint32(s[1]-'0')*10+
					uint32(s[2]-'0'), 10)
			}
			switch len(s) {
			case 2:
				b.Write(uint32(s[0]-'0')*10+uint32(s[1]-'0'), 7)
			case 1:
				b.Write(uint32(s[0]-'0'), 4)
			}
		},
		bits: func(n int) int { return n/3*10 + [3]int{0, 4, 7}[n%3] },
	},
	Alphanumeric: {
		name:      "alphanumeric",
		indicator: indAlphanumeric,
		count:     [3]int{9, 11, 13},
		accepts:   func(c byte) bool { return strings.IndexByte(alphabet, c) >= 0 },
		encode: func(b *Bits, s string) {
			val := func(c byte) uint32 {
				return uint32(strings.IndexByte(alphabet, c))
			}
			for ; len(s) >= 2; s = s[2:] {
				b.Write(val(s[0])*45+val(s[1]), 11)
			}
			if len(s) == 1 {
				b.Write(val(s[0]), 6)
			}
		},
		bits: func(n int) int { return n/2*11 + n%2*6 },
	},
	Byte: {
		name:      "byte",
		indicator: indByte,
		count:     [3]int{8, 16, 16},
		encode:    writeBytes,
		bits:      func(n int) int { return n * 8 },
	},
	Kanji: {
		name:      "kanji",
		indicator: indKanji,
		count:     [3]int{8, 10, 12},
		transform: func(s string) (string, error) {
			t, err := japanese.ShiftJIS.NewEncoder().String(s)
			if err != nil {
				return "", err
			}
			if !isQRKanji(t) {
				return "", errNotKanji
			}
			return t, nil
		},
		chars: func(s string) int { return len(s) / 2 },
		encode: func(b *Bits, s string) {
			for ; len(s) >= 2; s = s[2:] {
				b.Write(uint32(s[0]&^0xc0)*0xc0+uint32(s[1])-0x100, 13)
			}
		},
		bits: func(n int) int { return n / 2 * 13 },
	},
	Latin1: {
		name:      "latin-1",
		indicator: indByte,
		count:     [3]int{8, 16, 16},
		transform: func(s string) (string, error) {
			return charmap.ISO8859_1.NewEncoder().String(s)
		},
		encode: writeBytes,
		bits:   func(n int) int { return n * 8 },
	},
}

var errNotKanji = errors.New("qr: not a QR kanji string")

// isQRKanji reports whether s consists of Shift JIS double byte
// characters in the ranges 0x8140-0x9ffc and 0xe040-0xebbf.
func isQRKanji(s string) bool {
	if len(s)%2 != 0 {
		return false
	}
	for ; s != ""; s = s[2:] {
		c := uint16(s[0])<<8 | uint16(s[1])
		if !(0x8140 <= c && c <= 0x9ffc || 0xe040 <= c && c <= 0xebbf) {
			return false
		}
	}
	return true
}

func writeBytes(b *Bits, s string) {
	for i := 0; i < len(s); i++ {
		b.Write(uint32(s[i]), 8)
	}
}

func getMode(mode Mode) *modeEncoder {
	if mode > Auto && int(mode) < len(modes) {
		return &modes[mode]
	}
	return nil
}

func (mode Mode) String() string {
	if mode == Auto {
		return "auto"
	}
	if m := getMode(mode); m != nil {
		return m.name
	}
	return strconv.Itoa(int(mode))
}

// ParseMode returns the mode with the given name, as returned by
// String.
func ParseMode(s string) (Mode, error) {
	for mode := Auto; int(mode) < len(modes); mode++ {
		if mode.String() == s {
			return mode, nil
		}
	}
	return Auto, &ValidationError{What: "mode", Value: s}
}

// Detect returns the most compact of Numeric, Alphanumeric and Byte
// able to encode text.
func Detect(text string) Mode {
	mode := Numeric
	for i := 0; i < len(text); i++ {
		c := text[i]
		if modes[Numeric].accepts(c) {
			continue
		}
		mode = Alphanumeric
		if !modes[Alphanumeric].accepts(c) {
			return Byte
		}
	}
	return mode
}

// A Segment describes a QR code segment.
type Segment struct {
	Text string // data to encode
	Mode Mode   // encoding mode, Auto to detect
}

// transform validates seg and returns the bytes to encode.
func (seg Segment) transform() (string, *modeEncoder, error) {
	mode := seg.Mode
	if mode == Auto {
		mode = Detect(seg.Text)
	}
	m := getMode(mode)
	if m == nil {
		return "", nil, &ValidationError{What: "mode", Value: int(mode)}
	}
	s := seg.Text
	if m.transform != nil {
		var err error
		if s, err = m.transform(s); err != nil {
			return "", nil, &ValidationError{What: m.name + " text",
				Value: seg.Text}
		}
	}
	if m.accepts != nil {
		for i := 0; i < len(s); i++ {
			if !m.accepts(s[i]) {
				return "", nil, &ValidationError{What: m.name + " text",
					Value: seg.Text}
			}
		}
	}
	return s, m, nil
}

// EncodedLength returns the length in bits of seg encoded in the given
// size class, including the header.
func (seg Segment) EncodedLength(class int) (int, error) {
	s, m, err := seg.transform()
	if err != nil {
		return 0, err
	}
	return 4 + m.count[class] + m.bits(len(s)), nil
}

// Encode writes seg encoded for the given size class to b.
func (seg Segment) Encode(b *Bits, class int) error {
	s, m, err := seg.transform()
	if err != nil {
		return err
	}
	n := len(s)
	if m.chars != nil {
		n = m.chars(s)
	}
	if n >= 1<<m.count[class] {
		return &CapacityError{What: m.name + " characters",
			Need: n, Have: 1<<m.count[class] - 1}
	}
	b.Write(m.indicator, 4)
	b.Write(uint32(n), m.count[class])
	m.encode(b, s)
	return nil
}
