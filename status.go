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
	"sync"
	"time"
)

// numTrialSlots is the fixed ring size (BUFFER_NUM_TRIALS in the
// original): three slots, enough for the writer to lag one trial
// behind ingest without forcing a split.
const numTrialSlots = 3

var (
	// ErrNoFreeSlot is returned by AdvanceToNextTrial and
	// ManualSplitCurrentTrial when every slot
	// but the current one is still COMPLETE-but-unwritten; the caller
	// is expected to force-split the oldest such slot and retry.
	ErrNoFreeSlot = fmt.Errorf("matudp: trial ring has no free slot")
)

// slotState is the trial slot state machine of §4.F:
//
//	EMPTY -> UTILIZED -> COMPLETE -> MARKED_WRITING -> WRITTEN -> EMPTY
type slotState uint8

const (
	slotEmpty slotState = iota
	slotUtilized
	slotComplete
	slotMarkedWriting
	slotWritten
)

// TrialSlot holds one trial ring slot's bookkeeping. Slot mutation is
// guarded entirely by the owning DataLoggerStatus's mutex; there is no
// per-slot lock.
type TrialSlot struct {
	state slotState

	TrialID     uint32
	AutoTrialID uint32
	TrialPortion int

	WallclockStart time.Time
	WallclockEnd   time.Time
	TimestampStart float64
	TimestampEnd   float64
}

// Utilized reports whether the slot has received at least one sample
// since it was last cleared.
func (s *TrialSlot) Utilized() bool { return s.state != slotEmpty }

// Completed reports whether the slot's trial has been closed out by a
// trial-advance or a split.
func (s *TrialSlot) Completed() bool { return s.state >= slotComplete }

// metadataField is one of the five SetMeta keys (§4.G), each tracked
// with a specified? bit so "unset" is distinguishable from "set to
// the empty string".
type metadataField struct {
	value     string
	specified bool
}

// DataLoggerStatus is the trial ring accumulator of §3/§4.F: a fixed
// ring of trial slots, the group trie backing the current trial data,
// and the metadata strings that gate retirement. Exactly one status
// is "active" at a time; SetMeta retires it and installs a fresh one
// (§4.G), at which point the retired status moves to a drain list
// until every COMPLETE slot it holds reaches WRITTEN.
//
// The original source protects this structure with a recursive mutex,
// because its control path can re-enter a locked API while already
// holding the lock. This port instead restructures the control path
// (§4.G) so no locked method ever calls back into another locked
// method on the same status; a plain, non-recursive sync.Mutex
// suffices and is preferred per the redesign's locking note.
type DataLoggerStatus struct {
	mu   sync.Mutex
	cond *sync.Cond

	dataStore       metadataField
	subject         metadataField
	protocol        metadataField
	protocolVersion metadataField
	saveTag         metadataField

	pendingNextTrial bool
	retired          bool

	currentTrial int
	slots        [numTrialSlots]TrialSlot

	gtrie *trie

	nextAutoTrialID uint32
}

// NewDataLoggerStatus returns a fresh status: empty ring, empty trie,
// pending_next_trial set so data samples are dropped until the first
// NextTrial, per §4.G initial state.
func NewDataLoggerStatus() *DataLoggerStatus {
	s := &DataLoggerStatus{
		pendingNextTrial: true,
		gtrie:            newTrie(),
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Lock and Unlock expose the status's mutex directly, since the
// network, control, and housekeeping workers all need to hold it
// across a short sequence of the methods below.
func (s *DataLoggerStatus) Lock()   { s.mu.Lock() }
func (s *DataLoggerStatus) Unlock() { s.mu.Unlock() }

// PendingNextTrial reports whether data samples should currently be
// dropped pending a NextTrial command. Callers must hold the lock.
func (s *DataLoggerStatus) PendingNextTrial() bool {
	return s.pendingNextTrial
}

// Retired reports whether this status has been retired. Callers must
// hold the lock.
func (s *DataLoggerStatus) Retired() bool {
	return s.retired
}

// CurrentTrial returns the index of the slot currently accepting
// writes. Callers must hold the lock.
func (s *DataLoggerStatus) CurrentTrial() int {
	return s.currentTrial
}

// Slot returns a copy of the given ring slot's bookkeeping. Callers
// must hold the lock for a consistent snapshot.
func (s *DataLoggerStatus) Slot(i int) TrialSlot {
	return s.slots[i]
}

// Trie returns the group trie backing this status. Callers must hold
// the lock while walking or mutating it.
func (s *DataLoggerStatus) Trie() *trie {
	return s.gtrie
}

// touchUtilized transitions slot idx from EMPTY to UTILIZED on first
// sample, recording wallclock/timestamp start and a trial id. Callers
// must hold the lock.
func (s *DataLoggerStatus) touchUtilized(idx int, ts float64, now time.Time) {
	slot := &s.slots[idx]
	if slot.state != slotEmpty {
		return
	}
	slot.state = slotUtilized
	slot.WallclockStart = now
	slot.TimestampStart = ts
	slot.TimestampEnd = ts
	if slot.TrialID == 0 && slot.AutoTrialID == 0 {
		slot.AutoTrialID = s.nextAutoTrialID
	}
}

// observeTimestamp updates a utilized slot's running TimestampEnd as
// samples arrive. Callers must hold the lock.
func (s *DataLoggerStatus) observeTimestamp(idx int, ts float64) {
	slot := &s.slots[idx]
	slot.TimestampEnd = ts
}

// AdvanceToNextTrial implements controlAdvanceToNextTrial (§4.G). If
// the current slot has never been utilized, there is nothing to
// complete: the new trial id is simply recorded on the still-current
// slot so the next data packet lands in it (§8 Scenario 6). Otherwise
// it completes the current slot and moves the write cursor to the
// next slot, which must be EMPTY. If every other slot is COMPLETE and
// unwritten, it returns ErrNoFreeSlot so the caller can force-split
// the oldest one and retry, per the "slot ring full at advance"
// failure semantics (§4.C failure table).
func (s *DataLoggerStatus) AdvanceToNextTrial(id uint32, auto bool, now time.Time) error {
	cur := &s.slots[s.currentTrial]

	if cur.state == slotEmpty {
		if auto {
			s.nextAutoTrialID++
			cur.AutoTrialID = s.nextAutoTrialID
			cur.TrialID = 0
		} else {
			cur.TrialID = id
			cur.AutoTrialID = 0
		}
		s.pendingNextTrial = false
		s.cond.Signal()
		return nil
	}

	if cur.state == slotUtilized {
		cur.state = slotComplete
		cur.WallclockEnd = now
	}

	next := (s.currentTrial + 1) % numTrialSlots
	if s.slots[next].state != slotEmpty {
		return ErrNoFreeSlot
	}

	s.currentTrial = next
	if auto {
		s.nextAutoTrialID++
		s.slots[next].AutoTrialID = s.nextAutoTrialID
		s.slots[next].TrialID = 0
	} else {
		s.slots[next].TrialID = id
	}
	s.pendingNextTrial = false
	s.cond.Signal()
	return nil
}

// ManualSplitCurrentTrial implements manual_split_current_trial
// (§4.F): it forces the current slot UTILIZED -> COMPLETE without a
// trial-advance, bumps TrialPortion, and moves the ring forward with
// the same trial id carried into the new slot. Called repeatedly on
// an EMPTY current slot, it is a no-op after the first call (§8).
func (s *DataLoggerStatus) ManualSplitCurrentTrial(now time.Time) error {
	cur := &s.slots[s.currentTrial]
	if cur.state == slotEmpty {
		return nil
	}
	portion := cur.TrialPortion
	trialID := cur.TrialID
	autoID := cur.AutoTrialID

	cur.state = slotComplete
	cur.WallclockEnd = now

	next := (s.currentTrial + 1) % numTrialSlots
	if s.slots[next].state != slotEmpty {
		return ErrNoFreeSlot
	}
	s.currentTrial = next
	s.slots[next].TrialID = trialID
	s.slots[next].AutoTrialID = autoID
	s.slots[next].TrialPortion = portion + 1
	s.cond.Signal()
	return nil
}

// MarkComplete implements the control interpreter's MarkComplete
// command (§4.G): force any slot to COMPLETE regardless of whether it
// is the current write target.
func (s *DataLoggerStatus) MarkComplete(idx int, now time.Time) {
	slot := &s.slots[idx]
	if slot.state == slotUtilized {
		slot.state = slotComplete
		slot.WallclockEnd = now
		s.cond.Signal()
	}
}

// GetNextCompleteTrialToWrite implements
// get_next_complete_trial_to_write (§4.I): it returns the index of
// the next COMPLETE slot and marks it MARKED_WRITING, or -1 if none
// is ready. Callers must hold the lock.
func (s *DataLoggerStatus) GetNextCompleteTrialToWrite() int {
	for i := 0; i < numTrialSlots; i++ {
		if s.slots[i].state == slotComplete {
			s.slots[i].state = slotMarkedWriting
			return i
		}
	}
	return -1
}

// WaitForCompleteTrial blocks until GetNextCompleteTrialToWrite would
// return something other than -1, or until retirement. Callers must
// hold the lock; it is released while waiting.
func (s *DataLoggerStatus) WaitForCompleteTrial() {
	for !s.retired && !s.anyComplete() {
		s.cond.Wait()
	}
}

func (s *DataLoggerStatus) anyComplete() bool {
	for i := 0; i < numTrialSlots; i++ {
		if s.slots[i].state == slotComplete {
			return true
		}
	}
	return false
}

// clearSlotBuffers walks every group in the trie and clears slot idx's
// timestamp and sample buffers, so the ring slot re-enters EMPTY
// holding no stale data from the trial it just finished (§3
// Lifecycle). Callers must hold the lock.
func (s *DataLoggerStatus) clearSlotBuffers(idx int) {
	s.gtrie.iterate(func(g *GroupInfo) {
		g.clearSlot(idx)
	})
}

// MarkTrialWritten implements mark_trial_written (§4.I): it clears a
// MARKED_WRITING slot back to EMPTY, retaining its buffer capacity.
func (s *DataLoggerStatus) MarkTrialWritten(idx int) {
	slot := &s.slots[idx]
	if slot.state != slotMarkedWriting {
		return
	}
	s.clearSlotBuffers(idx)
	*slot = TrialSlot{}
}

// AllWritten reports whether every COMPLETE-or-later slot has reached
// EMPTY again — the condition under which a retired status may be
// freed (§8: "a retired status is eventually freed iff every one of
// its COMPLETE slots reaches WRITTEN").
func (s *DataLoggerStatus) AllWritten() bool {
	for i := 0; i < numTrialSlots; i++ {
		if s.slots[i].state == slotComplete || s.slots[i].state == slotMarkedWriting {
			return false
		}
	}
	return true
}

// FlushTrialsOlderThan implements flush_trials_older_than (§4.F): any
// non-current slot whose WallclockEnd is older than now-age is
// cleared regardless of write state. TimestampEnd is not consulted,
// and a slot with no WallclockEnd is never flushed. This is lossy by design (§1
// Non-goals: no guaranteed lossless capture under overload).
func (s *DataLoggerStatus) FlushTrialsOlderThan(age time.Duration, now time.Time) int {
	cutoff := now.Add(-age)
	dropped := 0
	for i := 0; i < numTrialSlots; i++ {
		if i == s.currentTrial {
			continue
		}
		slot := &s.slots[i]
		if slot.state == slotEmpty {
			continue
		}
		if slot.WallclockEnd.IsZero() || slot.WallclockEnd.After(cutoff) {
			continue
		}
		s.clearSlotBuffers(i)
		*slot = TrialSlot{}
		dropped++
	}
	return dropped
}

// SplitCurrentTrialIfOlderThan calls ManualSplitCurrentTrial if the
// current slot has been open longer than age.
func (s *DataLoggerStatus) SplitCurrentTrialIfOlderThan(age time.Duration, now time.Time) error {
	cur := &s.slots[s.currentTrial]
	if cur.state != slotUtilized {
		return nil
	}
	if now.Sub(cur.WallclockStart) < age {
		return nil
	}
	return s.ManualSplitCurrentTrial(now)
}

// metadataValue returns a pointer to the metadataField for key, or
// nil for an unrecognized key.
func (s *DataLoggerStatus) metadataValue(key string) *metadataField {
	switch key {
	case "data_store":
		return &s.dataStore
	case "subject":
		return &s.subject
	case "protocol":
		return &s.protocol
	case "protocol_version":
		return &s.protocolVersion
	case "save_tag":
		return &s.saveTag
	default:
		return nil
	}
}

// SetMetaChanged reports whether setting key to value would change the
// current metadata (including the unspecified -> specified
// transition), without mutating anything. The control interpreter
// uses this to decide whether retirement is needed before applying
// the new value to the fresh status.
func (s *DataLoggerStatus) SetMetaChanged(key, value string) bool {
	f := s.metadataValue(key)
	if f == nil {
		return false
	}
	return !f.specified || f.value != value
}

// cloneMetadataInto copies this status's metadata fields into dst, as
// part of installing the fresh status that replaces a retired one.
func (s *DataLoggerStatus) cloneMetadataInto(dst *DataLoggerStatus) {
	dst.dataStore = s.dataStore
	dst.subject = s.subject
	dst.protocol = s.protocol
	dst.protocolVersion = s.protocolVersion
	dst.saveTag = s.saveTag
}

// applyMeta sets key to value, marking it specified.
func (s *DataLoggerStatus) applyMeta(key, value string) {
	f := s.metadataValue(key)
	if f == nil {
		return
	}
	f.value = value
	f.specified = true
}

// retire marks this status as retired; the coordinator moves it to
// the drain list and installs a fresh status in its place.
func (s *DataLoggerStatus) retire() {
	s.retired = true
	s.cond.Broadcast()
}

// vim: foldmethod=marker
