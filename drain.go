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
	"context"
	"time"

	"go.uber.org/zap"
)

// Drainer is the §4.I / §5 writer worker: it spins on
// GetNextCompleteTrialToWrite across the active status and every
// still-retiring one, handing each COMPLETE slot to a Writer and
// marking it written on success.
type Drainer struct {
	Coordinator *Coordinator
	Writer      Writer
	Log         *zap.Logger

	// PollInterval bounds how long the drainer can be idle before it
	// re-checks ctx, satisfying §5's "writer waits with a bounded
	// interval so it can observe cancellation during idle periods."
	PollInterval time.Duration
}

// Run drains completed trials until ctx is canceled.
func (d *Drainer) Run(ctx context.Context) error {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	interval := d.PollInterval
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		drained := d.drainOnePass(log)
		if !drained {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(interval):
			}
		}
	}
}

// drainOnePass writes out every currently COMPLETE slot across every
// known status and reports whether it did any work.
func (d *Drainer) drainOnePass(log *zap.Logger) bool {
	statuses := append([]*DataLoggerStatus{d.Coordinator.Active()}, d.Coordinator.RetiringStatuses()...)

	wrote := false
	for _, status := range statuses {
		status.Lock()
		for {
			idx := status.GetNextCompleteTrialToWrite()
			if idx == -1 {
				break
			}
			export := ExportSlot(status, idx)
			status.Unlock()

			err := d.Writer.WriteTrial(export)

			status.Lock()
			if err != nil {
				log.Warn("WRITER_ERROR", zap.Error(err), zap.Uint32("trialID", export.TrialID))
			} else {
				status.MarkTrialWritten(idx)
				wrote = true
			}
		}
		status.Unlock()
	}

	d.Coordinator.ReapWritten()
	return wrote
}

// vim: foldmethod=marker
