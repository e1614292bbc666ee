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
	"fmt"
)

var (
	// ErrGroupNameTooLong is returned when a group header's name
	// exceeds the 200-byte wire bound.
	ErrGroupNameTooLong = fmt.Errorf("matudp: group name exceeds 200 bytes")

	// ErrGroupTypeUnknown is returned when a group header's type byte
	// is not one of the six recognized group types.
	ErrGroupTypeUnknown = fmt.Errorf("matudp: group type is not understood")

	// ErrGroupSignalCount is returned when n_signals on the wire
	// exceeds the 500-signal bound.
	ErrGroupSignalCount = fmt.Errorf("matudp: group declares too many signals")
)

const (
	maxGroupNameLen = 200
	maxSignalsPerGroup = 500
)

// GroupType is the closed enumeration of group roles a GroupHeader may
// declare. The wire value is a single byte.
type GroupType uint8

const (
	// GroupTypeControl carries control-interpreter sub-commands
	// (NextTrial, SetMeta, MarkComplete, SplitNow) rather than data.
	GroupTypeControl GroupType = 1

	// GroupTypeParam carries signals whose latest value supersedes
	// the prior one (accumulated with replace, not push).
	GroupTypeParam GroupType = 2

	// GroupTypeAnalog carries continuously-sampled analog channels.
	GroupTypeAnalog GroupType = 3

	// GroupTypeEvent carries discrete named/tagged events.
	GroupTypeEvent GroupType = 4

	// GroupTypeSpike carries neural spike events, optionally with
	// waveform snippets.
	GroupTypeSpike GroupType = 5

	// GroupTypeField carries field-recording channels.
	GroupTypeField GroupType = 6
)

// Valid reports whether gt is one of the six recognized group types.
func (gt GroupType) Valid() bool {
	return gt >= GroupTypeControl && gt <= GroupTypeField
}

// String returns a human readable name for the GroupType.
func (gt GroupType) String() string {
	switch gt {
	case GroupTypeControl:
		return "control"
	case GroupTypeParam:
		return "param"
	case GroupTypeAnalog:
		return "analog"
	case GroupTypeEvent:
		return "event"
	case GroupTypeSpike:
		return "spike"
	case GroupTypeField:
		return "field"
	default:
		return "unknown"
	}
}

// GroupHeader is the decoded fixed-format prefix of a packet payload,
// naming the group the samples that follow belong to.
type GroupHeader struct {
	Version    uint16
	Name       string
	Type       GroupType
	ConfigHash uint32
	NumSignals uint16
}

// decodeGroupHeader pulls a GroupHeader off c: version, length-prefixed
// name (<=200 bytes), type byte, config hash, and signal count.
func decodeGroupHeader(c *cursor) (GroupHeader, error) {
	var h GroupHeader

	version, err := c.u16()
	if err != nil {
		return GroupHeader{}, err
	}
	h.Version = version

	name, err := c.shortText(maxGroupNameLen)
	if err != nil {
		return GroupHeader{}, ErrGroupNameTooLong
	}
	h.Name = name

	typeByte, err := c.u8()
	if err != nil {
		return GroupHeader{}, err
	}
	h.Type = GroupType(typeByte)
	if !h.Type.Valid() {
		return GroupHeader{}, ErrGroupTypeUnknown
	}

	configHash, err := c.u32()
	if err != nil {
		return GroupHeader{}, err
	}
	h.ConfigHash = configHash

	numSignals, err := c.u16()
	if err != nil {
		return GroupHeader{}, err
	}
	if numSignals > maxSignalsPerGroup {
		return GroupHeader{}, ErrGroupSignalCount
	}
	h.NumSignals = numSignals

	return h, nil
}

// GroupInfo is the per-trial aggregate keyed by group name: static
// header metadata plus a SignalDataBuffer per signal the group has
// ever carried, each holding one TimestampBuffer/SampleBuffer per
// trial slot.
type GroupInfo struct {
	Name       string
	Version    uint16
	Type       GroupType
	ConfigHash uint32

	lastTimestamp float64

	// signals indexes SignalDataBuffer by signal name, preserving
	// first-arrival order for the writer's in-order walk.
	signals     map[string]*SignalDataBuffer
	signalOrder []string

	// timestamps holds one TimestampBuffer per trial ring slot.
	timestamps [numTrialSlots]*TimestampBuffer
}

// newGroupInfo constructs a fresh GroupInfo from a just-decoded header,
// with empty per-slot timestamp buffers.
func newGroupInfo(h GroupHeader) *GroupInfo {
	g := &GroupInfo{
		Name:       h.Name,
		Version:    h.Version,
		Type:       h.Type,
		ConfigHash: h.ConfigHash,
		signals:    make(map[string]*SignalDataBuffer),
	}
	for i := range g.timestamps {
		g.timestamps[i] = NewTimestampBuffer()
	}
	return g
}

// clearSlot resets this group's timestamp buffer and every signal's
// sample buffer for trial slot idx, so a ring slot that cycles back to
// EMPTY does not re-enter service with the prior trial's samples still
// resident (§3 Lifecycle: "the slot is cleared ... and re-entered into
// the ring").
func (g *GroupInfo) clearSlot(idx int) {
	g.timestamps[idx].Clear()
	for _, name := range g.signalOrder {
		g.signals[name].Slot(idx).Clear()
	}
}

// signalBuffer returns the SignalDataBuffer for name, creating one
// from sample's static metadata on first arrival.
func (g *GroupInfo) signalBuffer(sample *SignalSample) *SignalDataBuffer {
	if sdb, ok := g.signals[sample.Name]; ok {
		return sdb
	}
	sdb := newSignalDataBuffer(sample, g)
	g.signals[sample.Name] = sdb
	g.signalOrder = append(g.signalOrder, sample.Name)
	return sdb
}

// pushTimestamp implements push_timestamp_to_group_info (§4.E): it
// scans samples for exactly one timestamp or timestamp-offset signal,
// uses its value (offset added to packetTS) if present, else packetTS,
// and appends it to slot's timestamp buffer.
func (g *GroupInfo) pushTimestamp(slot int, packetTS float64, samples []*SignalSample) float64 {
	ts := packetTS
	for _, s := range samples {
		switch s.Type {
		case SignalTypeTimestamp:
			if v, ok := s.scalarF64(); ok {
				ts = v
			}
		case SignalTypeTimestampOffset:
			if v, ok := s.scalarF64(); ok {
				ts = packetTS + v
			}
		}
	}
	g.timestamps[slot].Push(ts)
	g.lastTimestamp = ts
	return ts
}

// vim: foldmethod=marker
