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
	"fmt"
	"time"
)

// ErrConfigHashDrift is returned by IngestDataGroup when a packet's
// config_hash disagrees with the config_hash recorded for a group
// already live in this trial. The caller (Coordinator.Deliver)
// retires the active status and re-delivers the packet to a fresh
// one — this is always recoverable (§7 Metadata drift).
var ErrConfigHashDrift = fmt.Errorf("matudp: group config_hash changed on a live group")

// IngestDataGroup pushes a decoded non-control packet into status,
// per the control-flow of §2: resolve (or create) the GroupInfo for
// the header's name, push the shared timestamp, then push each
// sample's bytes into its signal's buffer for the current trial slot.
//
// Data samples observed while status.PendingNextTrial() is true are
// dropped silently (§4.G initial state / §8 scenario 6). Callers must
// hold status's lock.
func IngestDataGroup(status *DataLoggerStatus, pkt *ParsedPacket, now time.Time) error {
	if status.PendingNextTrial() {
		return nil
	}

	existing, found := status.Trie().lookup(pkt.Header.Name)
	if found && existing.ConfigHash != pkt.Header.ConfigHash {
		return ErrConfigHashDrift
	}

	group := existing
	if !found {
		group = newGroupInfo(pkt.Header)
		status.Trie().insert(pkt.Header.Name, group)
	}

	slot := status.CurrentTrial()

	packetTS := now.Sub(time.Unix(0, 0)).Seconds() * 1000
	ts := group.pushTimestamp(slot, packetTS, pkt.Samples)

	status.touchUtilized(slot, ts, now)
	status.observeTimestamp(slot, ts)

	for _, sample := range pkt.Samples {
		if sample.Type == SignalTypeTimestamp || sample.Type == SignalTypeTimestampOffset {
			// Timestamp signals drive the group's shared clock
			// (above) and carry no per-signal buffer of their own.
			continue
		}

		sdb := group.signalBuffer(sample)
		if err := sdb.checkMatches(sample); err != nil {
			// Fatal for this signal only; the group and its
			// siblings continue (§4.D).
			continue
		}

		buf := sdb.Slot(slot)
		if sample.Type == SignalTypeParam {
			buf.Replace(sample.Data)
		} else {
			buf.Push(sample.Data)
		}
	}

	return nil
}

// vim: foldmethod=marker
