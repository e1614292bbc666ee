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

package daqtest

import (
	"encoding/binary"

	"github.com/ayuillarionov/matudp"
)

// NextTrial builds a control datagram requesting advance to the given
// trial id. Pass id 0 with auto=true to request an auto-assigned id.
func NextTrial(id uint32, auto bool) []byte {
	g := NewGroup("control", matudp.GroupTypeControl, 0)
	data := []byte{}
	if !auto {
		data = make([]byte, 4)
		binary.LittleEndian.PutUint32(data, id)
	}
	g.AddSample(matudp.SignalTypeNormal, string(matudp.CommandNextTrial), "", matudp.DataTypeU8, []uint16{uint16(len(data))}, 0, data)
	return g.Datagram()
}

// SetMeta builds a control datagram requesting a metadata field
// change.
func SetMeta(key, value string) []byte {
	g := NewGroup("control", matudp.GroupTypeControl, 0)
	data := appendShortText(nil, key)
	data = appendShortText(data, value)
	g.AddSample(matudp.SignalTypeNormal, string(matudp.CommandSetMeta), "", matudp.DataTypeU8, []uint16{uint16(len(data))}, 0, data)
	return g.Datagram()
}

// SplitNow builds a control datagram requesting an immediate manual
// split of the current trial.
func SplitNow() []byte {
	g := NewGroup("control", matudp.GroupTypeControl, 0)
	g.AddSample(matudp.SignalTypeNormal, string(matudp.CommandSplitNow), "", matudp.DataTypeU8, []uint16{0}, 0, nil)
	return g.Datagram()
}

// vim: foldmethod=marker
