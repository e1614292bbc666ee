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

package udpnet

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ayuillarionov/matudp"
)

// Housekeeper is the third of the three long-lived workers in §5: a
// timer thread that periodically forces long-open trials to split and
// drops trials that have sat unwritten too long.
type Housekeeper struct {
	Coordinator *matudp.Coordinator
	Log         *zap.Logger

	// Interval is how often the housekeeper wakes to check ages.
	Interval time.Duration

	// SplitAge is the age at which an open trial is force-split
	// (split_current_trial_if_older_than, §4.F).
	SplitAge time.Duration

	// FlushAge is the age at which a non-current slot is dropped
	// regardless of write state (flush_trials_older_than, §4.F).
	FlushAge time.Duration
}

// Run wakes every Interval until ctx is canceled, applying split and
// flush policy to every status (the active one and any still
// retiring). Its single cancellation point per iteration is the timer
// wait.
func (h *Housekeeper) Run(ctx context.Context) error {
	log := h.Log
	if log == nil {
		log = zap.NewNop()
	}

	ticker := time.NewTicker(h.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			h.tick(log)
		}
	}
}

func (h *Housekeeper) tick(log *zap.Logger) {
	now := time.Now()

	statuses := append([]*matudp.DataLoggerStatus{h.Coordinator.Active()}, h.Coordinator.RetiringStatuses()...)
	for _, status := range statuses {
		status.Lock()
		if err := status.SplitCurrentTrialIfOlderThan(h.SplitAge, now); err != nil {
			log.Warn("HOUSEKEEPER_SPLIT_ERROR", zap.Error(err))
		}
		dropped := status.FlushTrialsOlderThan(h.FlushAge, now)
		status.Unlock()
		if dropped > 0 {
			log.Info("HOUSEKEEPER_FLUSHED_TRIALS", zap.Int("count", dropped))
		}
	}

	reaped := h.Coordinator.ReapWritten()
	if reaped > 0 {
		log.Debug("HOUSEKEEPER_REAPED_STATUSES", zap.Int("count", reaped))
	}
}

// vim: foldmethod=marker
