package bitdecoder

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBitOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	values := []uint32{0, 1, 2, 5, 0x80000000, 0xFFFFFFFF, 0xDEADBEEF, 0x0F0F0F0F}
	for i := 0; i < 500; i++ {
		values = append(values, rng.Uint32())
	}

	for _, v := range values {
		sv := Decode(uint64(v))
		for i := 0; i < Width; i++ {
			want := v&(1<<uint(i)) != 0
			require.Equal(t, want, sv[31-i], "value %#x bit %d", v, i)
		}
		assert.Equal(t, v, sv.Encode(), "round trip %#x", v)
	}
}

func TestDecodeKnownValues(t *testing.T) {
	var allFalse, allTrue StateVector
	for i := range allTrue {
		allTrue[i] = true
	}

	assert.Equal(t, allFalse, Decode(0))
	assert.Equal(t, allTrue, Decode(0xFFFFFFFF))
	assert.Equal(t, []int{31}, Decode(1).Indices())
	assert.Equal(t, []int{0}, Decode(0x80000000).Indices())
	assert.Equal(t, []int{29, 31}, Decode(5).Indices())
}

func TestDecodeIgnoresHighBits(t *testing.T) {
	assert.Equal(t, Decode(5), Decode(1<<40|5))
	assert.Equal(t, StateVector{}, Decode(1<<32))
}

func TestCount(t *testing.T) {
	assert.Equal(t, 0, Decode(0).Count())
	assert.Equal(t, 2, Decode(5).Count())
	assert.Equal(t, Width, Decode(0xFFFFFFFF).Count())
}

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name string
		line string
		want uint64
	}{
		{"decimal", "5", 5},
		{"trailing newline", "5\n", 5},
		{"crlf", "4294967295\r\n", 0xFFFFFFFF},
		{"surrounding spaces", "  12  ", 12},
		{"hex lower", "0xff", 0xFF},
		{"hex upper", "0X80000000", 0x80000000},
		{"stops at garbage", "17abc", 17},
		{"no digits", "hello", 0},
		{"empty", "", 0},
		{"bare prefix", "0x", 0},
		{"wide value", "8589934597", 8589934597},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRecord([]byte(tt.line)))
		})
	}
}

func TestDecodeRecord(t *testing.T) {
	assert.Equal(t, Decode(5), DecodeRecord([]byte("5\n")))
	// 2^33 + 5 keeps only the low 32 bits
	assert.Equal(t, Decode(5), DecodeRecord([]byte("8589934597")))
	assert.Equal(t, StateVector{}, DecodeRecord([]byte("not a number")))
}
