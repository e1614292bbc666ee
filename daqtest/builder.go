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

// Package daqtest holds synthetic datagram builders and testify-based
// contract-test helpers shared across the trial-logger's tests, in
// the spirit of the teacher's testutils package.
package daqtest

import (
	"encoding/binary"
	"math"

	"github.com/ayuillarionov/matudp"
)

// GroupBuilder accumulates a synthetic group header and its signal
// samples, then serializes them to a wire-format payload the same
// shape ParsePacket expects back out.
type GroupBuilder struct {
	version    uint16
	name       string
	groupType  matudp.GroupType
	configHash uint32
	samples    []sampleSpec
}

type sampleSpec struct {
	signalType      matudp.SignalType
	name            string
	units           string
	dataType        matudp.DataType
	dims            []uint16
	timestamp       float64
	data            []byte
	isVariable      bool
	concatLastDim   bool
	concatDimension uint8
}

// NewGroup returns a builder for a group named name of the given type.
func NewGroup(name string, groupType matudp.GroupType, configHash uint32) *GroupBuilder {
	return &GroupBuilder{
		version:    1,
		name:       name,
		groupType:  groupType,
		configHash: configHash,
	}
}

// AddSample appends a signal sample with the given shape and raw
// little-endian data bytes; the caller is responsible for ensuring
// len(data) == dataType.Width() * product(dims).
func (g *GroupBuilder) AddSample(signalType matudp.SignalType, name, units string, dataType matudp.DataType, dims []uint16, timestamp float64, data []byte) *GroupBuilder {
	g.samples = append(g.samples, sampleSpec{
		signalType: signalType,
		name:       name,
		units:      units,
		dataType:   dataType,
		dims:       dims,
		timestamp:  timestamp,
		data:       data,
	})
	return g
}

// AddF64Scalar is a convenience for the common case of a single f64
// value — used heavily to synthesize timestamp, timestamp-offset, and
// param signals in tests.
func (g *GroupBuilder) AddF64Scalar(signalType matudp.SignalType, name string, timestamp, value float64) *GroupBuilder {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint64(data, math.Float64bits(value))
	return g.AddSample(signalType, name, "", matudp.DataTypeF64, nil, timestamp, data)
}

// AddF32Vector synthesizes an analog-style f32[n] sample.
func (g *GroupBuilder) AddF32Vector(name, units string, timestamp float64, values []float32) *GroupBuilder {
	data := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(v))
	}
	return g.AddSample(matudp.SignalTypeAnalog, name, units, matudp.DataTypeF32, []uint16{uint16(len(values))}, timestamp, data)
}

// Payload serializes the accumulated group header and samples into a
// wire-format packet payload (§6), ready to hand to ParsePacket or to
// wrap with EncodeEnvelope.
func (g *GroupBuilder) Payload() []byte {
	var buf []byte

	buf = appendU16(buf, g.version)
	buf = appendShortText(buf, g.name)
	buf = append(buf, byte(g.groupType))
	buf = appendU32(buf, g.configHash)
	buf = appendU16(buf, uint16(len(g.samples)))

	for _, s := range g.samples {
		var flags byte
		if s.isVariable {
			flags |= 0x1
		}
		if s.concatLastDim {
			flags |= 0x2
		}
		buf = append(buf, flags)
		buf = append(buf, byte(s.signalType))
		buf = append(buf, s.concatDimension)
		buf = appendShortText(buf, s.name)
		buf = appendShortText(buf, s.units)
		buf = append(buf, byte(s.dataType))
		buf = append(buf, byte(len(s.dims)))
		for _, d := range s.dims {
			buf = appendU16(buf, d)
		}
		buf = appendF64(buf, s.timestamp)
		buf = append(buf, s.data...)
	}

	return buf
}

// Datagram is Payload wrapped in a valid envelope (length + checksum),
// the same bytes a real sender would put on the wire.
func (g *GroupBuilder) Datagram() []byte {
	return matudp.EncodeEnvelope(g.Payload())
}

func appendU16(buf []byte, v uint16) []byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return append(buf, b[:]...)
}

func appendU32(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}

func appendF64(buf []byte, v float64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	return append(buf, b[:]...)
}

func appendShortText(buf []byte, s string) []byte {
	buf = append(buf, byte(len(s)))
	return append(buf, s...)
}

// vim: foldmethod=marker
