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

// Package matudp contains the trial-logger core: a framed UDP ingest
// pipeline that decodes self-describing signal samples, groups them
// by name into per-trial accumulators, and hands finished trials off
// to a writer.
//
// Wire framing and decoding live next to the typed buffers they feed,
// since a parse error and a buffer growth failure are both just a
// dropped datagram. Long-lived workers (the UDP receiver, the
// housekeeping timer) live in the udpnet subpackage; output sinks live
// in the export subpackage.
//
// This package implements no reliable transport. A dropped or
// truncated datagram is logged and discarded; callers are expected to
// tolerate gaps rather than demand retransmission.
package matudp

// vim: foldmethod=marker
