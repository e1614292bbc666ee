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

func TestDataTypeWidth(t *testing.T) {
	cases := map[DataType]int{
		DataTypeF64:  8,
		DataTypeF32:  4,
		DataTypeI8:   1,
		DataTypeU8:   1,
		DataTypeI16:  2,
		DataTypeU16:  2,
		DataTypeI32:  4,
		DataTypeU32:  4,
		DataTypeChar: 1,
		DataTypeBool: 1,
	}
	for dt, want := range cases {
		assert.Equal(t, want, dt.Width(), dt.String())
	}
}

func TestDataTypeValid(t *testing.T) {
	assert.True(t, DataTypeBool.Valid())
	assert.False(t, DataType(10).Valid())
}

func TestGroupTypeValid(t *testing.T) {
	assert.True(t, GroupTypeControl.Valid())
	assert.True(t, GroupTypeField.Valid())
	assert.False(t, GroupType(0).Valid())
	assert.False(t, GroupType(7).Valid())
}

func TestSignalTypeValid(t *testing.T) {
	assert.True(t, SignalTypeNormal.Valid())
	assert.True(t, SignalTypeSpikeWaveform.Valid())
	assert.False(t, SignalType(10).Valid())
}

// vim: foldmethod=marker
