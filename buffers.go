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

// ErrSignalMetadataDrift is returned (and logged, never propagated) by
// SignalDataBuffer.checkMatches when an incoming sample's fixed
// identity (name, units, dtype) disagrees with the signal's recorded
// metadata. Per §4.D this is fatal only for that one signal: the
// caller drops the sample's data and keeps the group going.
var ErrSignalMetadataDrift = fmt.Errorf("matudp: signal sample metadata drift")

// growCapacity implements the shared growth policy for all three
// buffer kinds: at least 1.5x the current capacity, at least a
// 64-element floor, and always enough to satisfy the immediate
// request.
func growCapacity(capacity, requested int) int {
	grown := capacity + capacity/2
	if grown < capacity+64 {
		grown = capacity + 64
	}
	if grown < requested {
		grown = requested
	}
	return grown
}

// TimestampBuffer is a grow-able f64 store, one per trial slot per
// group, holding the timestamp sequence every signal in that group
// shares for that trial.
type TimestampBuffer struct {
	data []float64
}

// NewTimestampBuffer returns an empty TimestampBuffer.
func NewTimestampBuffer() *TimestampBuffer {
	return &TimestampBuffer{}
}

// Push appends one timestamp.
func (b *TimestampBuffer) Push(t float64) {
	if len(b.data) == cap(b.data) {
		b.ensureCapacity(len(b.data) + 1)
	}
	b.data = append(b.data, t)
}

// ensureCapacity grows the backing array per the shared growth policy
// if it cannot already hold n elements.
func (b *TimestampBuffer) ensureCapacity(n int) {
	if cap(b.data) >= n {
		return
	}
	grown := growCapacity(cap(b.data), n)
	next := make([]float64, len(b.data), grown)
	copy(next, b.data)
	b.data = next
}

// NumSamples returns the number of timestamps pushed.
func (b *TimestampBuffer) NumSamples() int {
	return len(b.data)
}

// Values returns the pushed timestamps. The returned slice aliases the
// buffer's storage and must not be mutated.
func (b *TimestampBuffer) Values() []float64 {
	return b.data
}

// Clear zeroes the sample count but retains the underlying capacity.
func (b *TimestampBuffer) Clear() {
	b.data = b.data[:0]
}

// Free releases the underlying storage.
func (b *TimestampBuffer) Free() {
	b.data = nil
}

// SampleBuffer is a grow-able typed byte store: the contiguous payload
// bytes of every sample pushed for one signal in one trial slot, plus
// the per-sample byte length needed to split them back apart.
type SampleBuffer struct {
	data     []byte
	lengths  []int
	different bool
}

// NewSampleBuffer returns an empty SampleBuffer.
func NewSampleBuffer() *SampleBuffer {
	return &SampleBuffer{}
}

// Push appends bytes as one sample, recording its length and updating
// SamplesDifferentSizes if it differs from the first sample pushed.
func (b *SampleBuffer) Push(bytes []byte) {
	if len(b.lengths) > 0 && len(bytes) != b.lengths[0] {
		b.different = true
	}
	b.ensureCapacity(len(b.data) + len(bytes))
	b.data = append(b.data, bytes...)
	b.lengths = append(b.lengths, len(bytes))
}

// Replace truncates the buffer to empty then pushes bytes as its sole
// sample — the accumulation mode for param-type signals, whose latest
// value supersedes all prior ones.
func (b *SampleBuffer) Replace(bytes []byte) {
	b.data = b.data[:0]
	b.lengths = b.lengths[:0]
	b.different = false
	b.Push(bytes)
}

// ensureCapacity grows the backing array per the shared growth policy
// if it cannot already hold n bytes.
func (b *SampleBuffer) ensureCapacity(n int) {
	if cap(b.data) >= n {
		return
	}
	grown := growCapacity(cap(b.data), n)
	next := make([]byte, len(b.data), grown)
	copy(next, b.data)
	b.data = next
}

// NumSamples returns the number of samples pushed.
func (b *SampleBuffer) NumSamples() int {
	return len(b.lengths)
}

// NumDataBytes returns the total bytes across all pushed samples.
func (b *SampleBuffer) NumDataBytes() int {
	return len(b.data)
}

// SamplesDifferentSizes reports whether any pushed sample's byte
// length differs from the first sample's.
func (b *SampleBuffer) SamplesDifferentSizes() bool {
	return b.different
}

// samplesLengths returns the per-sample byte lengths recorded by Push.
func (b *SampleBuffer) samplesLengths() []int {
	return b.lengths
}

// Samples splits the contiguous payload back into per-sample slices,
// aliasing the buffer's storage.
func (b *SampleBuffer) Samples() [][]byte {
	out := make([][]byte, 0, len(b.lengths))
	off := 0
	for _, n := range b.lengths {
		out = append(out, b.data[off:off+n])
		off += n
	}
	return out
}

// Clear zeroes the sample count but retains the underlying capacity.
func (b *SampleBuffer) Clear() {
	b.data = b.data[:0]
	b.lengths = b.lengths[:0]
	b.different = false
}

// Free releases the underlying storage.
func (b *SampleBuffer) Free() {
	b.data = nil
	b.lengths = nil
}

// SignalDataBuffer is the per-signal accumulator inside a group: fixed
// metadata copied from the first sample seen, plus one SampleBuffer
// per trial slot, plus a non-owning back-reference to its GroupInfo.
type SignalDataBuffer struct {
	Name     string
	Units    string
	DataType DataType
	Dims     []uint16

	// dimChangesSize[d] records whether any sample checked since this
	// buffer was created has differed from Dims[d] (the first sample's
	// dimension d), deciding homogeneous vs. heterogeneous emission
	// (§4.I). It is shared by all trial slots and is not reset when a
	// slot is cleared, so once set it applies to every later trial of
	// this signal.
	dimChangesSize []bool

	group *GroupInfo

	slots [numTrialSlots]*SampleBuffer
}

// newSignalDataBuffer copies static metadata from sample (the first
// arrival for this signal name) and backs it with fresh per-slot
// SampleBuffers.
func newSignalDataBuffer(sample *SignalSample, group *GroupInfo) *SignalDataBuffer {
	sdb := &SignalDataBuffer{
		Name:           sample.Name,
		Units:          sample.Units,
		DataType:       sample.DataType,
		Dims:           append([]uint16(nil), sample.Dims...),
		dimChangesSize: make([]bool, len(sample.Dims)),
		group:          group,
	}
	for i := range sdb.slots {
		sdb.slots[i] = NewSampleBuffer()
	}
	return sdb
}

// Group returns the non-owning back-reference to the GroupInfo this
// signal belongs to.
func (sdb *SignalDataBuffer) Group() *GroupInfo {
	return sdb.group
}

// Slot returns the SampleBuffer for the given trial ring slot.
func (sdb *SignalDataBuffer) Slot(slot int) *SampleBuffer {
	return sdb.slots[slot]
}

// DimChangesSize reports whether dimension d of any sample checked
// since this buffer was created has differed from the first sample's;
// the flag is not tracked per trial.
func (sdb *SignalDataBuffer) DimChangesSize(d int) bool {
	if d < 0 || d >= len(sdb.dimChangesSize) {
		return false
	}
	return sdb.dimChangesSize[d]
}

// checkMatches validates that sample conforms to this signal's fixed
// metadata. Name, units, or dtype mismatch is reported as
// ErrSignalMetadataDrift — fatal for this sample only, per §4.D; the
// caller drops the sample and keeps the group. A dimension that
// differs from the recorded Dims[d] is not an error: it flips
// dimChangesSize[d] and the sample is still pushed.
func (sdb *SignalDataBuffer) checkMatches(sample *SignalSample) error {
	if sample.Name != sdb.Name || sample.Units != sdb.Units || sample.DataType != sdb.DataType {
		return ErrSignalMetadataDrift
	}
	if len(sample.Dims) != len(sdb.Dims) {
		return ErrSignalMetadataDrift
	}
	for d, want := range sdb.Dims {
		if sample.Dims[d] != want {
			sdb.dimChangesSize[d] = true
		}
	}
	return nil
}

// vim: foldmethod=marker
