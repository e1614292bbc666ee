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
	"sync"
	"time"
)

// Coordinator is the NetworkContext of design note 9: the one piece
// of process-wide mutable state, replacing the source's module-scope
// netThread/packetData globals. It owns the single active
// DataLoggerStatus plus the list of retired-but-draining ones, and is
// the StatusInstaller the control interpreter retires through.
//
// Coordinator itself is safe for concurrent use: the active pointer
// and retired list are guarded by their own mutex, separate from each
// status's own per-status mutex.
type Coordinator struct {
	mu       sync.Mutex
	active   *DataLoggerStatus
	retiring []*DataLoggerStatus
}

// NewCoordinator returns a Coordinator with one fresh active status.
func NewCoordinator() *Coordinator {
	return &Coordinator{active: NewDataLoggerStatus()}
}

// Active returns the current active status. The caller is responsible
// for locking it before reading or mutating it, and must be aware
// that a concurrent SetMeta can swap the active status out from under
// a stale reference — always re-fetch via Active() after release.
func (co *Coordinator) Active() *DataLoggerStatus {
	co.mu.Lock()
	defer co.mu.Unlock()
	return co.active
}

// Retire implements StatusInstaller: it moves old onto the retiring
// list (regardless of whether old is still the active status — the
// control interpreter calls this exactly once per actual metadata
// change) and installs a fresh status as active. populate runs against
// fresh, under its own lock, before fresh is published to co.active —
// no concurrent Active() caller (the housekeeper and drainer both
// lock whatever Active() hands back, see udpnet/housekeeper.go and
// drain.go) can observe a fresh status with unapplied metadata.
func (co *Coordinator) Retire(old *DataLoggerStatus, populate func(fresh *DataLoggerStatus)) *DataLoggerStatus {
	old.retire()

	fresh := NewDataLoggerStatus()
	if populate != nil {
		fresh.Lock()
		populate(fresh)
		fresh.Unlock()
	}

	co.mu.Lock()
	defer co.mu.Unlock()
	co.retiring = append(co.retiring, old)
	co.active = fresh
	return fresh
}

// RetiringStatuses returns a snapshot of the statuses awaiting drain.
// The writer walks these (in addition to the active status) looking
// for COMPLETE slots.
func (co *Coordinator) RetiringStatuses() []*DataLoggerStatus {
	co.mu.Lock()
	defer co.mu.Unlock()
	out := make([]*DataLoggerStatus, len(co.retiring))
	copy(out, co.retiring)
	return out
}

// ReapWritten drops any retiring status whose every COMPLETE slot has
// reached WRITTEN, freeing it (§8: "a retired status is eventually
// freed iff every one of its COMPLETE slots reaches WRITTEN"). It
// returns the number reaped.
func (co *Coordinator) ReapWritten() int {
	co.mu.Lock()
	defer co.mu.Unlock()

	kept := co.retiring[:0]
	reaped := 0
	for _, st := range co.retiring {
		st.Lock()
		done := st.AllWritten()
		st.Unlock()
		if done {
			reaped++
			continue
		}
		kept = append(kept, st)
	}
	co.retiring = kept
	return reaped
}

// Deliver routes one parsed packet to the control interpreter or the
// data ingest path depending on its group type, handling config_hash
// drift by retiring and re-delivering to the fresh status. It is the
// single entry point the network thread (§4.H) calls per packet.
func (co *Coordinator) Deliver(pkt *ParsedPacket, now time.Time) error {
	status := co.Active()
	status.Lock()

	if pkt.Header.Type == GroupTypeControl {
		next, err := InterpretControlGroup(status, co, pkt, now)
		status.Unlock()
		_ = next // next has already become active via Retire when it changed
		return err
	}

	err := IngestDataGroup(status, pkt, now)
	if err == ErrConfigHashDrift {
		fresh := co.Retire(status, nil)
		status.Unlock()

		fresh.Lock()
		err = IngestDataGroup(fresh, pkt, now)
		fresh.Unlock()
		return err
	}
	status.Unlock()
	return err
}

// vim: foldmethod=marker
