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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ayuillarionov/matudp"
)

// RecordingWriter is a matudp.Writer that only appends every trial it
// receives, for assertions in tests that drive a Coordinator/Drainer
// end to end without a real file or NATS sink.
type RecordingWriter struct {
	Trials []matudp.TrialExport
}

// WriteTrial implements matudp.Writer.
func (w *RecordingWriter) WriteTrial(trial matudp.TrialExport) error {
	w.Trials = append(w.Trials, trial)
	return nil
}

// TestEnvelopeRoundTrip asserts EncodeEnvelope(DecodeEnvelope(d)) == d
// for a given payload, the round-trip property of §8.
func TestEnvelopeRoundTrip(t *testing.T, name string, payload []byte) {
	t.Run(name, func(t *testing.T) {
		datagram := matudp.EncodeEnvelope(payload)

		env, err := matudp.DecodeEnvelope(datagram, len(datagram))
		assert.NoError(t, err)
		assert.Equal(t, payload, env.Payload)

		reencoded := matudp.EncodeEnvelope(env.Payload)
		assert.Equal(t, datagram, reencoded)
	})
}

// vim: foldmethod=marker
