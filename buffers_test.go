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
)

func TestGrowCapacityFloor(t *testing.T) {
	assert.Equal(t, 64, growCapacity(0, 1))
	assert.Equal(t, 164, growCapacity(100, 1))
	assert.Equal(t, 200, growCapacity(100, 200))
}

func TestTimestampBufferPush(t *testing.T) {
	b := NewTimestampBuffer()
	b.Push(1.0)
	b.Push(2.0)
	assert.Equal(t, 2, b.NumSamples())
	assert.Equal(t, []float64{1.0, 2.0}, b.Values())

	b.Clear()
	assert.Equal(t, 0, b.NumSamples())
}

func TestSampleBufferPushAndDifferentSizes(t *testing.T) {
	b := NewSampleBuffer()
	b.Push([]byte{1, 2, 3})
	assert.False(t, b.SamplesDifferentSizes())

	b.Push([]byte{4, 5})
	assert.True(t, b.SamplesDifferentSizes())
	assert.Equal(t, 2, b.NumSamples())
	assert.Equal(t, 5, b.NumDataBytes())

	samples := b.Samples()
	assert.Equal(t, [][]byte{{1, 2, 3}, {4, 5}}, samples)
}

func TestSampleBufferReplace(t *testing.T) {
	b := NewSampleBuffer()
	b.Push([]byte{1, 2, 3})
	b.Push([]byte{4, 5, 6})
	b.Replace([]byte{7, 8})

	assert.Equal(t, 1, b.NumSamples())
	assert.Equal(t, [][]byte{{7, 8}}, b.Samples())
	assert.False(t, b.SamplesDifferentSizes())
}

func TestSignalDataBufferCheckMatches(t *testing.T) {
	first := &SignalSample{Name: "ch0", Units: "mV", DataType: DataTypeF32, Dims: []uint16{4}}
	sdb := newSignalDataBuffer(first, nil)

	assert.NoError(t, sdb.checkMatches(first))

	drifted := &SignalSample{Name: "ch0", Units: "mV", DataType: DataTypeF32, Dims: []uint16{8}}
	assert.NoError(t, sdb.checkMatches(drifted))
	assert.True(t, sdb.DimChangesSize(0))

	mismatched := &SignalSample{Name: "ch0", Units: "V", DataType: DataTypeF32, Dims: []uint16{4}}
	assert.ErrorIs(t, sdb.checkMatches(mismatched), ErrSignalMetadataDrift)
}

// vim: foldmethod=marker
