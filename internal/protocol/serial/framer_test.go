package serial

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func lines(records [][]byte) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, string(r))
	}
	return out
}

func TestLineFramerSplitsLines(t *testing.T) {
	f := NewLineFramer(0)

	got, overflow := f.Feed([]byte("5\n17\r\n"))
	assert.False(t, overflow)
	assert.Equal(t, []string{"5", "17"}, lines(got))
	assert.Equal(t, 0, f.Pending())
}

func TestLineFramerJoinsPartialReads(t *testing.T) {
	f := NewLineFramer(0)

	got, _ := f.Feed([]byte("429496"))
	assert.Empty(t, got)
	assert.Equal(t, 6, f.Pending())

	got, _ = f.Feed([]byte("7295\n3"))
	assert.Equal(t, []string{"4294967295"}, lines(got))
	assert.Equal(t, 1, f.Pending())
}

func TestLineFramerSkipsBlankLines(t *testing.T) {
	f := NewLineFramer(0)

	got, _ := f.Feed([]byte("\n\r\n  \n8\n"))
	assert.Equal(t, []string{"8"}, lines(got))
}

func TestLineFramerOverflow(t *testing.T) {
	f := NewLineFramer(8)

	got, overflow := f.Feed([]byte(strings.Repeat("9", 9)))
	assert.Empty(t, got)
	assert.True(t, overflow)
	assert.Equal(t, 0, f.Pending())

	got, overflow = f.Feed([]byte("2\n"))
	assert.False(t, overflow)
	assert.Equal(t, []string{"2"}, lines(got))
}

func TestLineFramerDropsTailOfOverlongLine(t *testing.T) {
	f := NewLineFramer(8)

	got, overflow := f.Feed([]byte("1111111111"))
	assert.Empty(t, got)
	assert.True(t, overflow)

	// still inside the dropped line
	got, overflow = f.Feed([]byte("11"))
	assert.Empty(t, got)
	assert.False(t, overflow)
	assert.Equal(t, 0, f.Pending())

	got, _ = f.Feed([]byte("23\n5\n"))
	assert.Equal(t, []string{"5"}, lines(got))
}

func TestLineFramerDropsOverlongTerminatedLine(t *testing.T) {
	f := NewLineFramer(8)

	got, overflow := f.Feed([]byte("4\n123456789\n6\n"))
	assert.True(t, overflow)
	assert.Equal(t, []string{"4", "6"}, lines(got))
}

func TestLineFramerResetEndsDiscard(t *testing.T) {
	f := NewLineFramer(4)
	f.Feed([]byte("77777"))
	f.Reset()

	got, _ := f.Feed([]byte("3\n"))
	assert.Equal(t, []string{"3"}, lines(got))
}

func TestLineFramerReset(t *testing.T) {
	f := NewLineFramer(0)
	f.Feed([]byte("12"))
	f.Reset()
	assert.Equal(t, 0, f.Pending())
	assert.Equal(t, DefaultMaxLineLength, f.MaxLength())
}
