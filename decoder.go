// {{{ Copyright (c) Paul R. Tagliamonte <paul@k3xec.com>, 2020
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE. }}}

package matudp

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ErrDecodeOverflow is returned by any cursor pull that would read
// past the end of the payload. A single overflow fails the whole
// packet; the decoder never recovers mid-payload.
var ErrDecodeOverflow = fmt.Errorf("matudp: pull past end of payload")

// cursor is a forward-only reader over a packet payload. All pulls are
// little-endian and unaligned; a short read is reported once and the
// cursor must not be reused afterward.
type cursor struct {
	buf []byte
	pos int
}

func newCursor(buf []byte) *cursor {
	return &cursor{buf: buf}
}

func (c *cursor) remaining() int {
	return len(c.buf) - c.pos
}

func (c *cursor) take(n int) ([]byte, error) {
	if n < 0 || c.remaining() < n {
		return nil, ErrDecodeOverflow
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *cursor) u8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) u16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *cursor) u32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *cursor) f64() (float64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

// shortText pulls a u8-length-prefixed byte string and rejects it if
// it exceeds max, the caller-supplied bound for that field (200 for a
// group name, 300 for a signal name or unit).
func (c *cursor) shortText(max int) (string, error) {
	n, err := c.u8()
	if err != nil {
		return "", err
	}
	if int(n) > max {
		return "", ErrDecodeOverflow
	}
	b, err := c.take(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// u16Slice pulls n contiguous u16 values.
func (c *cursor) u16Slice(n int) ([]uint16, error) {
	out := make([]uint16, n)
	for i := range out {
		v, err := c.u16()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// vim: foldmethod=marker
