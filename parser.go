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

// ParsedPacket is the yield of decoding one payload: a group header
// skeleton and the signal samples that follow it. Parsing does not
// allocate into any trial; that happens only once the caller pushes
// the result through a GroupInfo under the status lock.
type ParsedPacket struct {
	Header  GroupHeader
	Samples []*SignalSample
}

// ParsePacket decodes exactly one group header followed by
// header.NumSignals signal samples from payload, per §4.C. Any
// overflow, malformed length, or unknown type anywhere in the packet
// drops the whole packet — the parser never yields a partial result.
func ParsePacket(payload []byte) (*ParsedPacket, error) {
	c := newCursor(payload)

	header, err := decodeGroupHeader(c)
	if err != nil {
		return nil, err
	}

	samples := make([]*SignalSample, 0, header.NumSignals)
	for i := uint16(0); i < header.NumSignals; i++ {
		s, err := decodeSignalSample(c)
		if err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}

	return &ParsedPacket{Header: header, Samples: samples}, nil
}

// vim: foldmethod=marker
