// pkg/bitdecoder/bitdecoder.go
package bitdecoder

import "bytes"

// Width is the number of signals carried by one status word
const Width = 32

// StateVector holds one decoded status word.
// Index 0 is the most significant bit, index Width-1 the least significant.
type StateVector [Width]bool

// Decode maps bit i of v to index Width-1-i. Bits above Width are ignored.
func Decode(v uint64) StateVector {
	var sv StateVector
	for i := 0; i < Width; i++ {
		sv[Width-1-i] = v&(1<<uint(i)) != 0
	}
	return sv
}

// Encode is the inverse of Decode
func (sv StateVector) Encode() uint32 {
	var v uint32
	for i := 0; i < Width; i++ {
		if sv[Width-1-i] {
			v |= 1 << uint(i)
		}
	}
	return v
}

// Indices returns the positions that are set, in ascending order
func (sv StateVector) Indices() []int {
	indices := make([]int, 0, Width)
	for i, on := range sv {
		if on {
			indices = append(indices, i)
		}
	}
	return indices
}

// Count returns the number of set positions
func (sv StateVector) Count() int {
	n := 0
	for _, on := range sv {
		if on {
			n++
		}
	}
	return n
}

// ParseRecord reads an unsigned integer from one device line.
//
// Surrounding whitespace is ignored. A 0x or 0X prefix selects hexadecimal,
// otherwise the digits are decimal. Parsing stops at the first byte that is
// not a digit of the selected base and overflow wraps, so every input yields
// a value; a line without digits yields 0.
func ParseRecord(line []byte) uint64 {
	line = bytes.TrimSpace(line)

	base := uint64(10)
	if len(line) > 2 && line[0] == '0' && (line[1] == 'x' || line[1] == 'X') {
		base = 16
		line = line[2:]
	}

	var v uint64
	for _, c := range line {
		d, ok := digit(c, base)
		if !ok {
			break
		}
		v = v*base + d
	}
	return v
}

// DecodeRecord parses and decodes one device line
func DecodeRecord(line []byte) StateVector {
	return Decode(ParseRecord(line))
}

func digit(c byte, base uint64) (uint64, bool) {
	switch {
	case c >= '0' && c <= '9':
		return uint64(c - '0'), true
	case base == 16 && c >= 'a' && c <= 'f':
		return uint64(c-'a') + 10, true
	case base == 16 && c >= 'A' && c <= 'F':
		return uint64(c-'A') + 10, true
	}
	return 0, false
}
