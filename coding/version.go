// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coding implements low-level QR coding details: capacity
// tables, segment encoding, the module template, data placement,
// masking and the public decoder.
package coding // import "github.com/unixdj/dualqr/coding"

import "strconv"

// A Version represents a QR version.
// The version specifies the size of the QR code:
// a QR code with version v has 4v+17 modules on a side.
// Versions run from 1 to 40: the larger the version, the more
// information the code can store.
type Version int

// Code versions.
const (
	MinVersion Version = 1  // Minimum QR version
	MaxVersion Version = 40 // Maximum QR version
)

func (v Version) String() string { return strconv.Itoa(int(v)) }

// Valid reports whether v is a QR version.
func (v Version) Valid() bool { return MinVersion <= v && v <= MaxVersion }

// Size returns the number of modules on a side.
func (v Version) Size() int { return int(v)*4 + 17 }

// VersionOf returns the version of a code with size modules on a side,
// or 0 if there is none.
func VersionOf(size int) Version {
	if v := Version((size - 17) / 4); v.Valid() && v.Size() == size {
		return v
	}
	return 0
}

// QR version size classes, selecting character count field lengths.
const (
	Class0 = iota // QR versions 1 to 9
	Class1        // QR versions 10 to 26
	Class2        // QR versions 27 to 40
)

// SizeClass returns the size class of v, as documented under Class0.
func (v Version) SizeClass() int {
	switch {
	case v <= 9:
		return Class0
	case v <= 26:
		return Class1
	}
	return Class2
}

// A Level represents a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota
	M
	Q
	H
)

func (l Level) String() string {
	if l.Valid() {
		return "LMQH"[l : l+1]
	}
	return strconv.Itoa(int(l))
}

// Valid reports whether l is an error correction level.
func (l Level) Valid() bool { return L <= l && l <= H }

// ecBits returns the two bit level indicator stored in format
// information: L=01, M=00, Q=11, H=10.
func (l Level) ecBits() uint32 { return uint32(l) ^ 1 }

// ParseLevel returns the level named by s, one of "l", "m", "q", "h"
// or "low", "medium", "quartile", "high" in either case.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "l", "L", "low", "LOW":
		return L, nil
	case "m", "M", "medium", "MEDIUM":
		return M, nil
	case "q", "Q", "quartile", "QUARTILE":
		return Q, nil
	case "h", "H", "high", "HIGH":
		return H, nil
	}
	return -1, &ValidationError{What: "level", Value: s}
}

// Capacity describes the block structure of a QR code with a specific
// version and level.  Data is split into Blocks blocks, ShortBlocks of
// them holding BlockLen data bytes and the rest BlockLen+1.  Each block
// gets Words check bytes.
type Capacity struct {
	Words       int // check bytes per block
	Blocks      int // number of blocks
	BlockLen    int // data bytes in a short block
	ShortBlocks int // number of short blocks
	DataBits    int // number of data bits
	Total       int // total number of codewords
}

// Capacity returns the block structure for v and l.
func (v Version) Capacity(l Level) Capacity {
	vt := &vtab[v]
	lev := vt.level[l]
	return Capacity{
		Words:       lev.check,
		Blocks:      lev.nblock,
		BlockLen:    vt.bytes/lev.nblock - lev.check,
		ShortBlocks: lev.nblock - vt.bytes%lev.nblock,
		DataBits:    (vt.bytes - lev.check*lev.nblock) * 8,
		Total:       vt.bytes,
	}
}

// dataBytes returns the number of data bytes that can be
// stored in a QR code with the given version and level.
func (v Version) dataBytes(l Level) int {
	vt := &vtab[v]
	lev := vt.level[l]
	return vt.bytes - lev.nblock*lev.check
}

// DataBits returns the number of data bits that can be
// stored in a QR code with the given version and level.
func (v Version) DataBits(l Level) int { return v.dataBytes(l) * 8 }

// AlignmentPositions returns the row and column coordinates of
// alignment pattern centres.
func (v Version) AlignmentPositions() []int {
	if v == 1 {
		return nil
	}
	const first = 6
	last := v.Size() - first - 1
	dist := last - first
	count := (dist + 27) / 28
	interval := dist / count
	if interval%2 != 0 {
		interval++
	} else if dist%count*2 >= count {
		interval += 2
	}
	pos := make([]int, 0, count+1)
	pos = append(pos, first)
	for m := 1; m < count; m++ {
		pos = append(pos, last-(count-m)*interval)
	}
	return append(pos, last)
}

// A version describes metadata associated with a version.
type version struct {
	bytes int
	level [4]level
}

type level struct {
	nblock int
	check  int
}

// vtab is indexed by version and lists the total number of codewords
// and, for each level, the number of blocks and check bytes per block.
var vtab = [MaxVersion + 1]version{
	{},
	{26, [4]level{{1, 7}, {1, 10}, {1, 13}, {1, 17}}}, // 1
	{44, [4]level{{1, 10}, {1, 16}, {1, 22}, {1, 28}}}, // 2
	{70, [4]level{{1, 15}, {1, 26}, {2, 18}, {2, 22}}}, // 3
	{100, [4]level{{1, 20}, {2, 18}, {2, 26}, {4, 16}}}, // 4
	{134, [4]level{{1, 26}, {2, 24}, {4, 18}, {4, 22}}}, // 5
	{172, [4]level{{2, 18}, {4, 16}, {4, 24}, {4, 28}}}, // 6
	{196, [4]level{{2, 20}, {4, 18}, {6, 18}, {5, 26}}}, // 7
	{242, [4]level{{2, 24}, {4, 22}, {6, 22}, {6, 26}}}, // 8
	{292, [4]level{{2, 30}, {5, 22}, {8, 20}, {8, 24}}}, // 9
	{346, [4]level{{4, 18}, {5, 26}, {8, 24}, {8, 28}}}, // 10
	{404, [4]level{{4, 20}, {5, 30}, {8, 28}, {11, 24}}}, // 11
	{466, [4]level{{4, 24}, {8, 22}, {10, 26}, {11, 28}}}, // 12
	{532, [4]level{{4, 26}, {9, 22}, {12, 24}, {16, 22}}}, // 13
	{581, [4]level{{4, 30}, {9, 24}, {16, 20}, {16, 24}}}, // 14
	{655, [4]level{{6, 22}, {10, 24}, {12, 30}, {18, 24}}}, // 15
	{733, [4]level{{6, 24}, {10, 28}, {17, 24}, {16, 30}}}, // 16
	{815, [4]level{{6, 28}, {11, 28}, {16, 28}, {19, 28}}}, // 17
	{901, [4]level{{6, 30}, {13, 26}, {18, 28}, {21, 28}}}, // 18
	{991, [4]level{{7, 28}, {14, 26}, {21, 26}, {25, 26}}}, // 19
	{1085, [4]level{{8, 28}, {16, 26}, {20, 30}, {25, 28}}}, // 20
	{1156, [4]level{{8, 28}, {17, 26}, {23, 28}, {25, 30}}}, // 21
	{1258, [4]level{{9, 28}, {17, 28}, {23, 30}, {34, 24}}}, // 22
	{1364, [4]level{{9, 30}, {18, 28}, {25, 30}, {30, 30}}}, // 23
	{1474, [4]level{{10, 30}, {20, 28}, {27, 30}, {32, 30}}}, // 24
	{1588, [4]level{{12, 26}, {21, 28}, {29, 30}, {35, 30}}}, // 25
	{1706, [4]level{{12, 28}, {23, 28}, {34, 28}, {37, 30}}}, // 26
	{1828, [4]level{{12, 30}, {25, 28}, {34, 30}, {40, 30}}}, // 27
	{1921, [4]level{{13, 30}, {26, 28}, {35, 30}, {42, 30}}}, // 28
	{2051, [4]level{{14, 30}, {28, 28}, {38, 30}, {45, 30}}}, // 29
	{2185, [4]level{{15, 30}, {29, 28}, {40, 30}, {48, 30}}}, // 30
	{2323, [4]level{{16, 30}, {31, 28}, {43, 30}, {51, 30}}}, // 31
	{2465, [4]level{{17, 30}, {33, 28}, {45, 30}, {54, 30}}}, // 32
	{2611, [4]level{{18, 30}, {35, 28}, {48, 30}, {57, 30}}}, // 33
	{2761, [4]level{{19, 30}, {37, 28}, {51, 30}, {60, 30}}}, // 34
	{2876, [4]level{{19, 30}, {38, 28}, {53, 30}, {63, 30}}}, // 35
	{3034, [4]level{{20, 30}, {40, 28}, {56, 30}, {66, 30}}}, // 36
	{3196, [4]level{{21, 30}, {43, 28}, {59, 30}, {70, 30}}}, // 37
	{3362, [4]level{{22, 30}, {45, 28}, {62, 30}, {74, 30}}}, // 38
	{3532, [4]level{{24, 30}, {47, 28}, {65, 30}, {77, 30}}}, // 39
	{3706, [4]level{{25, 30}, {49, 28}, {68, 30}, {81, 30}}}, // 40
}
