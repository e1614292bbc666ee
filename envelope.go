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
)

var (
	// ErrEnvelopeShort is returned when fewer than 8 bytes were read.
	ErrEnvelopeShort = fmt.Errorf("matudp: datagram shorter than envelope header")

	// ErrEnvelopeLength is returned when the declared payload length
	// does not fit inside the bytes actually read.
	ErrEnvelopeLength = fmt.Errorf("matudp: declared length exceeds datagram")

	// ErrEnvelopeChecksum is returned when the payload checksum does
	// not match the value on the wire.
	ErrEnvelopeChecksum = fmt.Errorf("matudp: checksum mismatch")
)

// envelopeHeaderSize is the fixed 2-byte length + 2-byte checksum prefix
// that precedes every datagram's payload.
const envelopeHeaderSize = 4

// minDatagramSize is the smallest read DecodeEnvelope accepts; shorter
// reads are rejected with ErrEnvelopeShort.
const minDatagramSize = 8

// Envelope is a decoded datagram: the payload bytes that passed the
// length check and the checksum check, with the checksum that was
// actually on the wire retained for diagnostics.
type Envelope struct {
	Length   uint16
	Checksum uint16
	Payload  []byte
}

// checksum16 computes the network.c-style checksum: the sum of the
// payload bytes, truncated to 16 bits.
func checksum16(payload []byte) uint16 {
	var sum uint32
	for _, b := range payload {
		sum += uint32(b)
	}
	return uint16(sum)
}

// DecodeEnvelope validates and unwraps a raw datagram of n bytes read
// into buf. It rejects short reads, length overflow, and checksum
// mismatches per the framing contract: 2-byte LE length, 2-byte LE
// checksum, then length payload bytes, checksum == sum(payload) mod
// 2^16.
//
// The returned Envelope's Payload aliases buf[4:4+length]; callers that
// retain it past the next receive must copy it.
func DecodeEnvelope(buf []byte, n int) (Envelope, error) {
	if n < minDatagramSize {
		return Envelope{}, ErrEnvelopeShort
	}
	length := binary.LittleEndian.Uint16(buf[0:2])
	wantChecksum := binary.LittleEndian.Uint16(buf[2:4])

	if int(length) > n-envelopeHeaderSize {
		return Envelope{}, ErrEnvelopeLength
	}

	payload := buf[envelopeHeaderSize : envelopeHeaderSize+int(length)]
	gotChecksum := checksum16(payload)
	if gotChecksum != wantChecksum {
		return Envelope{}, ErrEnvelopeChecksum
	}

	return Envelope{
		Length:   length,
		Checksum: wantChecksum,
		Payload:  payload,
	}, nil
}

// EncodeEnvelope serializes payload into the wire envelope form,
// computing its checksum. It is the inverse of DecodeEnvelope and is
// used by daqtest to build synthetic datagrams and by tests asserting
// encode(decode(d)) == d.
func EncodeEnvelope(payload []byte) []byte {
	out := make([]byte, envelopeHeaderSize+len(payload))
	binary.LittleEndian.PutUint16(out[0:2], uint16(len(payload)))
	binary.LittleEndian.PutUint16(out[2:4], checksum16(payload))
	copy(out[envelopeHeaderSize:], payload)
	return out
}

// vim: foldmethod=marker
