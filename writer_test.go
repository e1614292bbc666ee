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
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayuillarionov/matudp"
	"github.com/ayuillarionov/matudp/daqtest"
)

func TestWriterVariableShapeSignalIsHeterogeneous(t *testing.T) {
	co := matudp.NewCoordinator()
	now := time.Now()

	deliverRaw := func(datagram []byte) {
		env, err := matudp.DecodeEnvelope(datagram, len(datagram))
		require.NoError(t, err)
		pkt, err := matudp.ParsePacket(env.Payload)
		require.NoError(t, err)
		require.NoError(t, co.Deliver(pkt, now))
	}

	deliverRaw(daqtest.NextTrial(1, false))

	g1 := daqtest.NewGroup("spikes", matudp.GroupTypeSpike, 0)
	g1.AddSample(matudp.SignalTypeSpikeWaveform, "wf", "", matudp.DataTypeI16, []uint16{3}, 0.0, make([]byte, 6))
	deliverRaw(g1.Datagram())

	g2 := daqtest.NewGroup("spikes", matudp.GroupTypeSpike, 0)
	g2.AddSample(matudp.SignalTypeSpikeWaveform, "wf", "", matudp.DataTypeI16, []uint16{5}, 1.0, make([]byte, 10))
	deliverRaw(g2.Datagram())

	deliverRaw(daqtest.NextTrial(2, false))

	active := co.Active()
	active.Lock()
	idx := active.GetNextCompleteTrialToWrite()
	require.NotEqual(t, -1, idx)
	export := matudp.ExportSlot(active, idx)
	active.Unlock()

	require.Len(t, export.Groups, 1)
	require.Len(t, export.Groups[0].Signals, 1)
	sig := export.Groups[0].Signals[0]
	assert.False(t, sig.Homogeneous)
	require.Len(t, sig.Samples, 2)
	assert.Equal(t, []int{6, 10}, sig.SampleLengths)
}

// vim: foldmethod=marker
