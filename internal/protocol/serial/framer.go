// internal/protocol/serial/framer.go
package serial

import "bytes"

// DefaultMaxLineLength bounds a record that has not seen its terminator yet
const DefaultMaxLineLength = 64

// LineFramer splits a byte stream into newline terminated records
type LineFramer struct {
	pending    []byte
	maxLen     int
	discarding bool
}

// NewLineFramer creates a framer; maxLen <= 0 selects DefaultMaxLineLength
func NewLineFramer(maxLen int) *LineFramer {
	if maxLen <= 0 {
		maxLen = DefaultMaxLineLength
	}
	return &LineFramer{maxLen: maxLen}
}

// Feed appends data and returns every complete line without its terminator.
// Carriage returns before the newline are stripped and blank lines skipped.
// A line longer than the limit is dropped up to and including its newline,
// even when the newline arrives in a later Feed; overflow reports a drop.
func (f *LineFramer) Feed(data []byte) (lines [][]byte, overflow bool) {
	for len(data) > 0 {
		i := bytes.IndexByte(data, '\n')

		if f.discarding {
			if i < 0 {
				break
			}
			f.discarding = false
			data = data[i+1:]
			continue
		}

		if i < 0 {
			f.pending = append(f.pending, data...)
			if len(f.pending) > f.maxLen {
				f.pending = f.pending[:0:0]
				f.discarding = true
				overflow = true
			}
			break
		}

		line := bytes.TrimRight(append(f.pending, data[:i]...), "\r")
		f.pending = f.pending[:0:0]
		data = data[i+1:]

		if len(line) > f.maxLen {
			overflow = true
			continue
		}
		if len(bytes.TrimSpace(line)) > 0 {
			lines = append(lines, append([]byte(nil), line...))
		}
	}

	return lines, overflow
}

// Pending returns the number of buffered bytes without a terminator
func (f *LineFramer) Pending() int {
	return len(f.pending)
}

// MaxLength returns the unterminated line limit
func (f *LineFramer) MaxLength() int {
	return f.maxLen
}

// Reset drops buffered bytes and any line being discarded
func (f *LineFramer) Reset() {
	f.pending = nil
	f.discarding = false
}
