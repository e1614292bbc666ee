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

package matudp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayuillarionov/matudp"
	"github.com/ayuillarionov/matudp/daqtest"
)

func TestParsePacketAnalogGroup(t *testing.T) {
	g := daqtest.NewGroup("emg", matudp.GroupTypeAnalog, 0xAA)
	g.AddF32Vector("ch0", "mV", 0.0, []float32{1, 2, 3, 4})

	pkt, err := matudp.ParsePacket(g.Payload())
	require.NoError(t, err)

	assert.Equal(t, "emg", pkt.Header.Name)
	assert.Equal(t, matudp.GroupTypeAnalog, pkt.Header.Type)
	assert.EqualValues(t, 0xAA, pkt.Header.ConfigHash)
	require.Len(t, pkt.Samples, 1)
	assert.Equal(t, "ch0", pkt.Samples[0].Name)
	assert.Equal(t, []uint16{4}, pkt.Samples[0].Dims)
	assert.Equal(t, 16, len(pkt.Samples[0].Data))
}

func TestParsePacketUnknownGroupType(t *testing.T) {
	payload := []byte{
		1, 0, // version
		1, 'g', // name "g"
		99,             // unknown group type
		0, 0, 0, 0, // config hash
		0, 0, // n_signals
	}
	_, err := matudp.ParsePacket(payload)
	assert.ErrorIs(t, err, matudp.ErrGroupTypeUnknown)
}

func TestParsePacketTruncatedDropsWholePacket(t *testing.T) {
	g := daqtest.NewGroup("emg", matudp.GroupTypeAnalog, 0)
	g.AddF32Vector("ch0", "mV", 0.0, []float32{1, 2, 3, 4})
	payload := g.Payload()

	_, err := matudp.ParsePacket(payload[:len(payload)-2])
	assert.Error(t, err)
}

func TestParsePacketScalarDims(t *testing.T) {
	g := daqtest.NewGroup("evt", matudp.GroupTypeEvent, 0)
	g.AddF64Scalar(matudp.SignalTypeEventTag, "tag", 1.0, 42.0)

	pkt, err := matudp.ParsePacket(g.Payload())
	require.NoError(t, err)
	require.Len(t, pkt.Samples, 1)
	assert.Equal(t, 0, len(pkt.Samples[0].Dims))
	assert.Equal(t, 1, pkt.Samples[0].NumElements())
}

// vim: foldmethod=marker
