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

// Writer is the exporter contract of §4.I. The exact container (file,
// NATS message, host-runtime object) is not specified here — a Writer
// is anything that can accept one finalized TrialExport.
type Writer interface {
	WriteTrial(TrialExport) error
}

// TrialExport is the portable representation of one finalized trial
// slot, walked out of a status's trie in ascending byte order of the
// group names.
type TrialExport struct {
	TrialID      uint32
	AutoTrialID  uint32
	TrialPortion int

	TimestampStart float64
	TimestampEnd   float64

	Groups []GroupExport
}

// GroupExport is one group's contribution to a TrialExport.
type GroupExport struct {
	Name       string
	Type       GroupType
	ConfigHash uint32
	Timestamps []float64

	Signals []SignalExport
}

// SignalExport is one signal's contribution to a GroupExport, in
// either homogeneous or heterogeneous form (§4.I step 3).
type SignalExport struct {
	Name     string
	Units    string
	DataType DataType

	// Homogeneous is true when every sample recorded this trial
	// shared a shape, so Data is a single contiguous array and Shape
	// is meaningful. When false, the signal is emitted as parallel
	// Samples/SampleLengths instead, and Shape/Data are unused.
	Homogeneous bool

	Shape []int
	Data  []byte

	Samples       [][]byte
	SampleLengths []int
}

// ExportSlot implements the writer's per-slot walk (§4.I steps 1-3):
// it walks status's trie in ascending byte order of the group names
// and, for each group, renders every signal (in arrival order within
// the group) from its accumulated buffer for the given trial slot
// into homogeneous or heterogeneous form depending on
// dimChangesSize. Callers must hold status's lock.
func ExportSlot(status *DataLoggerStatus, slot int) TrialExport {
	s := status.Slot(slot)
	export := TrialExport{
		TrialID:        s.TrialID,
		AutoTrialID:    s.AutoTrialID,
		TrialPortion:   s.TrialPortion,
		TimestampStart: s.TimestampStart,
		TimestampEnd:   s.TimestampEnd,
	}

	status.Trie().iterate(func(g *GroupInfo) {
		ge := GroupExport{
			Name:       g.Name,
			Type:       g.Type,
			ConfigHash: g.ConfigHash,
			Timestamps: append([]float64(nil), g.timestamps[slot].Values()...),
		}
		for _, name := range g.signalOrder {
			sdb := g.signals[name]
			ge.Signals = append(ge.Signals, exportSignal(sdb, slot))
		}
		export.Groups = append(export.Groups, ge)
	})

	return export
}

// exportSignal renders one SignalDataBuffer's slot into a
// SignalExport, choosing heterogeneous form if any dimension has
// varied across samples this trial.
func exportSignal(sdb *SignalDataBuffer, slot int) SignalExport {
	se := SignalExport{
		Name:     sdb.Name,
		Units:    sdb.Units,
		DataType: sdb.DataType,
	}

	heterogeneous := false
	for d := range sdb.Dims {
		if sdb.DimChangesSize(d) {
			heterogeneous = true
			break
		}
	}

	buf := sdb.Slot(slot)
	if heterogeneous || buf.SamplesDifferentSizes() {
		se.Homogeneous = false
		se.Samples = buf.Samples()
		se.SampleLengths = append([]int(nil), buf.samplesLengths()...)
		return se
	}

	se.Homogeneous = true
	se.Data = append([]byte(nil), buf.data...)

	n := buf.NumSamples()
	shape := make([]int, 0, len(sdb.Dims)+1)
	shape = append(shape, n)
	for _, d := range sdb.Dims {
		shape = append(shape, int(d))
	}
	se.Shape = shape
	return se
}

// vim: foldmethod=marker
