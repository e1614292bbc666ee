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
	"time"
)

// Command is the name of a control-group signal, indicating the
// sub-action the control interpreter should take (§4.G). It is
// carried as a signal sample's name within a GroupTypeControl group,
// with the command's payload in that sample's data bytes.
type Command string

// String will print a human readable version of the command name.
func (c Command) String() string {
	return string(c)
}

const (
	// CommandNextTrial requests advancing to the next trial. Its
	// payload is a u32 trial id, or empty to auto-assign one.
	CommandNextTrial Command = "NextTrial"

	// CommandSetMeta requests a metadata field change. Its payload is
	// a length-prefixed key followed by a length-prefixed value.
	CommandSetMeta Command = "SetMeta"

	// CommandMarkComplete requests a specific slot be forced COMPLETE.
	// Its payload is a u32 slot index.
	CommandMarkComplete Command = "MarkComplete"

	// CommandSplitNow requests an immediate manual split of the
	// current trial. It carries no payload.
	CommandSplitNow Command = "SplitNow"
)

var (
	// ErrControlUnknownCommand is returned when a control-group
	// signal's name does not match any recognized Command.
	ErrControlUnknownCommand = fmt.Errorf("matudp: unrecognized control command")

	// ErrControlPayload is returned when a recognized command's
	// payload does not match its expected shape.
	ErrControlPayload = fmt.Errorf("matudp: malformed control command payload")
)

// StatusInstaller is supplied by the coordinator (the NetworkContext
// of design note 9) so the control interpreter can retire the active
// status and install a fresh one without owning the retired-list
// itself.
type StatusInstaller interface {
	// Retire moves the active status to the drain list, awaiting the
	// writer, and returns a fresh status to become active. populate,
	// if non-nil, runs against the fresh status — under its own lock —
	// before the status is published as active, so no other goroutine
	// can ever observe it half-initialized.
	Retire(old *DataLoggerStatus, populate func(fresh *DataLoggerStatus)) *DataLoggerStatus
}

// InterpretControlGroup applies every control command carried in pkt
// to status, returning the (possibly replaced) active status. A
// SetMeta that actually changes a field retires the current status
// via installer and returns the fresh one with metadata copied across
// (§4.G); all other commands mutate status in place.
//
// Callers must hold status's lock across this call, and re-acquire
// the returned status's lock if it differs from the one passed in.
func InterpretControlGroup(status *DataLoggerStatus, installer StatusInstaller, pkt *ParsedPacket, now time.Time) (*DataLoggerStatus, error) {
	cur := status
	for _, sample := range pkt.Samples {
		next, err := interpretOne(cur, installer, Command(sample.Name), sample.Data, now)
		if err != nil {
			return cur, err
		}
		cur = next
	}
	return cur, nil
}

func interpretOne(status *DataLoggerStatus, installer StatusInstaller, cmd Command, payload []byte, now time.Time) (*DataLoggerStatus, error) {
	switch cmd {
	case CommandNextTrial:
		id, auto := uint32(0), true
		if len(payload) >= 4 {
			id = binary.LittleEndian.Uint32(payload)
			auto = false
		}
		if err := status.AdvanceToNextTrial(id, auto, now); err != nil {
			return status, err
		}
		return status, nil

	case CommandSetMeta:
		key, value, err := decodeSetMeta(payload)
		if err != nil {
			return status, err
		}
		if !status.SetMetaChanged(key, value) {
			return status, nil
		}
		fresh := installer.Retire(status, func(fresh *DataLoggerStatus) {
			status.cloneMetadataInto(fresh)
			fresh.applyMeta(key, value)
		})
		return fresh, nil

	case CommandMarkComplete:
		if len(payload) < 4 {
			return status, ErrControlPayload
		}
		idx := int(binary.LittleEndian.Uint32(payload))
		if idx < 0 || idx >= numTrialSlots {
			return status, ErrControlPayload
		}
		status.MarkComplete(idx, now)
		return status, nil

	case CommandSplitNow:
		if err := status.ManualSplitCurrentTrial(now); err != nil {
			return status, err
		}
		return status, nil

	default:
		return status, ErrControlUnknownCommand
	}
}

// decodeSetMeta splits a SetMeta payload into its length-prefixed key
// and value.
func decodeSetMeta(payload []byte) (string, string, error) {
	c := newCursor(payload)
	key, err := c.shortText(32)
	if err != nil {
		return "", "", ErrControlPayload
	}
	value, err := c.shortText(maxSignalTextLen)
	if err != nil {
		return "", "", ErrControlPayload
	}
	return key, value, nil
}

// vim: foldmethod=marker
