// {{{ Copyright (c) Paul R. Tagliamonte <paul@k3xec.com>, 2022
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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	for _, payload := range [][]byte{
		{},
		{0x01},
		make([]byte, 65531),
	} {
		datagram := EncodeEnvelope(payload)
		env, err := DecodeEnvelope(datagram, len(datagram))
		if len(datagram) < minDatagramSize {
			// Payloads of 0 and 1 bytes make 4- and 5-byte datagrams,
			// below the minimum read size.
			assert.ErrorIs(t, err, ErrEnvelopeShort)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, payload, env.Payload)
		assert.Equal(t, EncodeEnvelope(env.Payload), datagram)
	}
}

func TestEnvelopeShortRead(t *testing.T) {
	buf := make([]byte, 7)
	_, err := DecodeEnvelope(buf, 7)
	assert.ErrorIs(t, err, ErrEnvelopeShort)
}

func TestEnvelopeLengthOverflow(t *testing.T) {
	datagram := EncodeEnvelope([]byte{1, 2, 3})
	// Claim a length larger than what's actually present.
	datagram[0] = 0xFF
	datagram[1] = 0xFF
	_, err := DecodeEnvelope(datagram, len(datagram))
	assert.ErrorIs(t, err, ErrEnvelopeLength)
}

func TestEnvelopeChecksumMismatch(t *testing.T) {
	datagram := EncodeEnvelope([]byte{1, 2, 3, 4})
	datagram[4] ^= 0xFF // flip every bit of the first payload byte
	_, err := DecodeEnvelope(datagram, len(datagram))
	assert.ErrorIs(t, err, ErrEnvelopeChecksum)
}

func TestEnvelopeLengthCheckedBeforeChecksum(t *testing.T) {
	// A truncated datagram whose checksum happens to match must still
	// be rejected by the length check first (§8 boundary behavior).
	datagram := EncodeEnvelope(make([]byte, 16))
	truncated := datagram[:10] // length field still claims 16
	_, err := DecodeEnvelope(truncated, len(truncated))
	assert.ErrorIs(t, err, ErrEnvelopeLength)
}

// vim: foldmethod=marker
