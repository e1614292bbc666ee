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

var (
	// ErrSignalNameTooLong is returned when a signal sample's name or
	// units field exceeds the 300-byte wire bound.
	ErrSignalNameTooLong = fmt.Errorf("matudp: signal name or units exceeds 300 bytes")

	// ErrSignalDimsOverflow is returned when n_dims exceeds 10 or any
	// single dimension exceeds 10000.
	ErrSignalDimsOverflow = fmt.Errorf("matudp: signal dims overflow bound")

	// ErrSignalDataBytes is returned when the sample's declared shape
	// and data type don't agree with the payload bytes actually
	// present (data_bytes != width(dtype) * prod(dims)).
	ErrSignalDataBytes = fmt.Errorf("matudp: signal data_bytes mismatch for declared shape")
)

const (
	maxSignalTextLen = 300
	maxSignalDims    = 10
	maxSignalDimSize = 10000
)

// SignalType is the closed enumeration of roles a SignalSample may
// play within its group. The wire value is a single byte.
type SignalType uint8

const (
	SignalTypeNormal          SignalType = 0
	SignalTypeTimestamp       SignalType = 1
	SignalTypeTimestampOffset SignalType = 2
	SignalTypePulse           SignalType = 3
	SignalTypeParam           SignalType = 4
	SignalTypeAnalog          SignalType = 5
	SignalTypeEventName       SignalType = 6
	SignalTypeEventTag        SignalType = 7
	SignalTypeSpike           SignalType = 8
	SignalTypeSpikeWaveform   SignalType = 9
)

// Valid reports whether st is one of the ten recognized signal types.
func (st SignalType) Valid() bool {
	return st <= SignalTypeSpikeWaveform
}

// String returns a human readable name for the SignalType.
func (st SignalType) String() string {
	switch st {
	case SignalTypeNormal:
		return "normal"
	case SignalTypeTimestamp:
		return "timestamp"
	case SignalTypeTimestampOffset:
		return "timestamp-offset"
	case SignalTypePulse:
		return "pulse"
	case SignalTypeParam:
		return "param"
	case SignalTypeAnalog:
		return "analog"
	case SignalTypeEventName:
		return "event-name"
	case SignalTypeEventTag:
		return "event-tag"
	case SignalTypeSpike:
		return "spike"
	case SignalTypeSpikeWaveform:
		return "spike-waveform"
	default:
		return "unknown"
	}
}

// SignalSample is one decoded packet element: a typed, possibly
// variable-shape value belonging to a named signal within a group.
type SignalSample struct {
	Name             string
	Units            string
	DataType         DataType
	Type             SignalType
	IsVariable       bool
	ConcatLastDim    bool
	ConcatDimension  uint8
	Dims             []uint16
	Timestamp        float64
	Data             []byte
}

// decodeSignalSample pulls one signal sample off c per the §4.C/§6
// wire layout: flags, signal_type, concat_dimension, name, units,
// data_type_id, n_dims, dims, timestamp, then data_bytes of payload.
func decodeSignalSample(c *cursor) (*SignalSample, error) {
	var s SignalSample

	flags, err := c.u8()
	if err != nil {
		return nil, err
	}
	s.IsVariable = flags&0x1 != 0
	s.ConcatLastDim = flags&0x2 != 0

	signalType, err := c.u8()
	if err != nil {
		return nil, err
	}
	s.Type = SignalType(signalType)
	if !s.Type.Valid() {
		return nil, ErrDecodeOverflow
	}

	concatDim, err := c.u8()
	if err != nil {
		return nil, err
	}
	s.ConcatDimension = concatDim

	name, err := c.shortText(maxSignalTextLen)
	if err != nil {
		return nil, ErrSignalNameTooLong
	}
	s.Name = name

	units, err := c.shortText(maxSignalTextLen)
	if err != nil {
		return nil, ErrSignalNameTooLong
	}
	s.Units = units

	dtByte, err := c.u8()
	if err != nil {
		return nil, err
	}
	s.DataType = DataType(dtByte)
	if !s.DataType.Valid() {
		return nil, ErrDataTypeUnknown
	}

	nDims, err := c.u8()
	if err != nil {
		return nil, err
	}
	if nDims > maxSignalDims {
		return nil, ErrSignalDimsOverflow
	}

	dims, err := c.u16Slice(int(nDims))
	if err != nil {
		return nil, err
	}
	for _, d := range dims {
		if d > maxSignalDimSize {
			return nil, ErrSignalDimsOverflow
		}
	}
	s.Dims = dims

	ts, err := c.f64()
	if err != nil {
		return nil, err
	}
	s.Timestamp = ts

	dataBytes := s.DataType.Width()
	for _, d := range dims {
		dataBytes *= int(d)
	}
	data, err := c.take(dataBytes)
	if err != nil {
		return nil, ErrSignalDataBytes
	}
	// Copy: the cursor's backing array is the receive buffer, reused
	// on the next datagram.
	s.Data = append([]byte(nil), data...)

	return &s, nil
}

// scalarF64 interprets a sample's data as a single f64, as required
// to read a timestamp or timestamp-offset signal's value. It reports
// false if the sample isn't a scalar f64.
func (s *SignalSample) scalarF64() (float64, bool) {
	if s.DataType != DataTypeF64 || len(s.Data) != 8 {
		return 0, false
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(s.Data)), true
}

// NumElements returns the product of Dims, the element count a
// homogeneous emission of this sample's shape would hold.
func (s *SignalSample) NumElements() int {
	n := 1
	for _, d := range s.Dims {
		n *= int(d)
	}
	return n
}

// vim: foldmethod=marker
