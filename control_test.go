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

func TestCoordinatorHelloTrial(t *testing.T) {
	co := matudp.NewCoordinator()
	now := time.Now()

	deliver := func(datagram []byte) {
		env, err := matudp.DecodeEnvelope(datagram, len(datagram))
		require.NoError(t, err)
		pkt, err := matudp.ParsePacket(env.Payload)
		require.NoError(t, err)
		require.NoError(t, co.Deliver(pkt, now))
	}

	deliver(daqtest.SetMeta("subject", "alpha"))
	deliver(daqtest.NextTrial(1, false))

	g := daqtest.NewGroup("emg", matudp.GroupTypeAnalog, 0)
	g.AddF64Scalar(matudp.SignalTypeTimestamp, "t", 0, 0.0)
	g.AddF32Vector("ch0", "mV", 0.0, []float32{1, 2, 3, 4})
	deliver(g.Datagram())

	g2 := daqtest.NewGroup("emg", matudp.GroupTypeAnalog, 0)
	g2.AddF64Scalar(matudp.SignalTypeTimestamp, "t", 0, 1.0)
	g2.AddF32Vector("ch0", "mV", 1.0, []float32{5, 6, 7, 8})
	deliver(g2.Datagram())

	deliver(daqtest.NextTrial(2, false))

	active := co.Active()
	active.Lock()
	idx := active.GetNextCompleteTrialToWrite()
	require.NotEqual(t, -1, idx)
	export := matudp.ExportSlot(active, idx)
	active.Unlock()

	require.Len(t, export.Groups, 1)
	group := export.Groups[0]
	assert.Equal(t, "emg", group.Name)
	assert.Equal(t, []float64{0.0, 1.0}, group.Timestamps)

	require.Len(t, group.Signals, 1)
	sig := group.Signals[0]
	assert.True(t, sig.Homogeneous)
	assert.Equal(t, []int{2, 4}, sig.Shape)
}

func TestCoordinatorDropsPendingInitialSamples(t *testing.T) {
	co := matudp.NewCoordinator()
	now := time.Now()

	g := daqtest.NewGroup("emg", matudp.GroupTypeAnalog, 0)
	g.AddF32Vector("ch0", "mV", 0.0, []float32{1, 2, 3, 4})
	env, err := matudp.DecodeEnvelope(g.Datagram(), len(g.Datagram()))
	require.NoError(t, err)
	pkt, err := matudp.ParsePacket(env.Payload)
	require.NoError(t, err)

	require.NoError(t, co.Deliver(pkt, now))
	require.NoError(t, co.Deliver(pkt, now))

	active := co.Active()
	active.Lock()
	groups := matudp.ExportSlot(active, active.CurrentTrial()).Groups
	active.Unlock()
	assert.Empty(t, groups, "data before the first NextTrial must be dropped")
}

func TestCoordinatorConfigHashDriftRetires(t *testing.T) {
	co := matudp.NewCoordinator()
	now := time.Now()

	nextTrial := daqtest.NextTrial(1, false)
	env, _ := matudp.DecodeEnvelope(nextTrial, len(nextTrial))
	pkt, _ := matudp.ParsePacket(env.Payload)
	require.NoError(t, co.Deliver(pkt, now))

	g1 := daqtest.NewGroup("g", matudp.GroupTypeAnalog, 0xAA)
	g1.AddF32Vector("ch0", "", 0.0, []float32{1})
	env1, _ := matudp.DecodeEnvelope(g1.Datagram(), len(g1.Datagram()))
	pkt1, _ := matudp.ParsePacket(env1.Payload)
	require.NoError(t, co.Deliver(pkt1, now))

	before := co.Active()

	g2 := daqtest.NewGroup("g", matudp.GroupTypeAnalog, 0xBB)
	g2.AddF32Vector("ch0", "", 0.0, []float32{1})
	env2, _ := matudp.DecodeEnvelope(g2.Datagram(), len(g2.Datagram()))
	pkt2, _ := matudp.ParsePacket(env2.Payload)
	require.NoError(t, co.Deliver(pkt2, now))

	after := co.Active()
	assert.NotSame(t, before, after, "config_hash drift on a live group must retire the status")

	retiring := co.RetiringStatuses()
	require.Len(t, retiring, 1)
	assert.Same(t, before, retiring[0])
}

// vim: foldmethod=marker
